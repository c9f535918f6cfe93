package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelvinsinsua/scalaya-backend/internal/catalog"
	"github.com/kelvinsinsua/scalaya-backend/internal/money"
)

type CatalogHandler struct {
	Repo *catalog.Repo
}

type productReq struct {
	SupplierID        int64    `json:"supplier_id" validate:"required"`
	Name              string   `json:"name" validate:"required"`
	SKU               string   `json:"sku" validate:"required"`
	SupplierReference string   `json:"supplier_reference"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Images            []string `json:"images" validate:"omitempty,dive,url"`
	CostPrice         string   `json:"cost_price" validate:"required"`
	SellingPrice      string   `json:"selling_price" validate:"required"`
	Weight            string   `json:"weight"`
	StockLevel        int      `json:"stock_level" validate:"min=0"`
	Status            string   `json:"status"`
}

type stockAdjustReq struct {
	Delta int `json:"delta" validate:"required"`
}

type productResp struct {
	ID           int64    `json:"id"`
	SupplierID   int64    `json:"supplier_id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	Category     string   `json:"category,omitempty"`
	Images       []string `json:"images,omitempty"`
	CostPrice    string   `json:"cost_price"`
	SellingPrice string   `json:"selling_price"`
	Margin       float64  `json:"margin"`
	StockLevel   int      `json:"stock_level"`
	Status       string   `json:"status"`
	Available    bool     `json:"available"`
}

func toProductResp(p *catalog.Product) productResp {
	return productResp{
		ID:           p.ID,
		SupplierID:   p.SupplierID,
		Name:         p.Name,
		SKU:          p.SKU,
		Category:     p.Category,
		Images:       p.Images,
		CostPrice:    p.CostPrice.String(),
		SellingPrice: p.SellingPrice.String(),
		Margin:       p.Margin(),
		StockLevel:   p.StockLevel,
		Status:       string(p.Status),
		Available:    p.IsAvailable(),
	}
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
	r.Post("/products/{id}/stock", h.adjustStock)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		result []*catalog.Product
		err    error
	)
	q := r.URL.Query()
	switch {
	case q.Get("q") != "":
		result, err = h.Repo.Search(ctx, q.Get("q"))
	case q.Get("supplier_id") != "":
		var id int64
		id, err = strconv.ParseInt(q.Get("supplier_id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid supplier_id")
			return
		}
		result, err = h.Repo.FindBySupplier(ctx, id)
	case q.Get("low_stock") != "":
		threshold, convErr := strconv.Atoi(q.Get("low_stock"))
		if convErr != nil {
			threshold = 10
		}
		result, err = h.Repo.FindLowStock(ctx, threshold)
	case q.Get("available") == "true":
		result, err = h.Repo.FindAvailable(ctx)
	default:
		result, err = h.Repo.List(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]productResp, 0, len(result))
	for _, p := range result {
		out = append(out, toProductResp(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	p, err := productFromReq(catalog.NewProduct(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.Create(ctx, p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toProductResp(p))
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	if _, err := productFromReq(p, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Repo.Update(ctx, p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProductResp(p))
}

func productFromReq(p *catalog.Product, req productReq) (*catalog.Product, error) {
	cost, err := money.Parse(req.CostPrice)
	if err != nil {
		return nil, err
	}
	selling, err := money.Parse(req.SellingPrice)
	if err != nil {
		return nil, err
	}
	status := catalog.StatusAvailable
	if req.Status != "" {
		if status, err = catalog.ParseStatus(req.Status); err != nil {
			return nil, err
		}
	}

	p.SupplierID = req.SupplierID
	p.Name = req.Name
	p.SKU = req.SKU
	p.SupplierReference = req.SupplierReference
	p.Description = req.Description
	p.Category = req.Category
	if req.Images != nil {
		p.Images = req.Images
	}
	p.CostPrice = cost
	p.SellingPrice = selling
	p.Weight = req.Weight
	p.StockLevel = req.StockLevel
	p.Status = status
	return p, nil
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProductResp(p))
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	if err := h.Repo.Delete(ctx, p.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req stockAdjustReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	if err := h.Repo.AdjustStock(ctx, p.ID, req.Delta); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusConflict, "stock adjustment would go negative")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	p, err := h.Repo.FindByID(ctx, p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProductResp(p))
}

func (h *CatalogHandler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*catalog.Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	p, err := h.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return p, true
}
