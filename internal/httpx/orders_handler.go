package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/kelvinsinsua/scalaya-backend/internal/catalog"
	kafkax "github.com/kelvinsinsua/scalaya-backend/internal/kafka"
	"github.com/kelvinsinsua/scalaya-backend/internal/money"
	"github.com/kelvinsinsua/scalaya-backend/internal/orders"
	"github.com/kelvinsinsua/scalaya-backend/internal/redisx"
)

type OrdersHandler struct {
	Repo           *orders.Repo
	Products       *catalog.Repo
	Producer       *kafkax.Producer // order.created
	StatusProducer *kafkax.Producer // order.status_changed
	Redis          *redis.Client
	Service        string
}

type createOrderItemReq struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	UnitPrice string `json:"unit_price,omitempty" validate:"omitempty"`
}

type createOrderReq struct {
	CustomerID     int64                `json:"customer_id" validate:"required"`
	AddressID      int64                `json:"shipping_address_id" validate:"required"`
	TaxAmount      string               `json:"tax_amount,omitempty"`
	ShippingAmount string               `json:"shipping_amount,omitempty"`
	Items          []createOrderItemReq `json:"items" validate:"required,min=1,dive"`
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

type orderItemResp struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type orderResp struct {
	ID             int64           `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CustomerID     int64           `json:"customer_id"`
	AddressID      int64           `json:"shipping_address_id"`
	Subtotal       string          `json:"subtotal"`
	TaxAmount      string          `json:"tax_amount"`
	ShippingAmount string          `json:"shipping_amount"`
	TotalAmount    string          `json:"total_amount"`
	Status         string          `json:"status"`
	ItemCount      int             `json:"item_count"`
	TotalQuantity  int             `json:"total_quantity"`
	Items          []orderItemResp `json:"items"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toOrderResp(o *orders.Order) orderResp {
	items := make([]orderItemResp, 0, o.ItemCount())
	for _, item := range o.Items() {
		ir := orderItemResp{
			ID:        item.ID,
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
			LineTotal: item.LineTotal().String(),
		}
		if p := item.Product(); p != nil {
			ir.ProductID = p.ID
			ir.SKU = p.SKU
			ir.Name = p.Name
		}
		items = append(items, ir)
	}
	return orderResp{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber(),
		CustomerID:     o.CustomerID,
		AddressID:      o.AddressID,
		Subtotal:       o.Subtotal().String(),
		TaxAmount:      o.TaxAmount().String(),
		ShippingAmount: o.ShippingAmount().String(),
		TotalAmount:    o.TotalAmount().String(),
		Status:         string(o.Status()),
		ItemCount:      o.ItemCount(),
		TotalQuantity:  o.TotalQuantity(),
		Items:          items,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/stats", h.stats)
	r.Get("/orders/{number}", h.get)
	r.Get("/orders/{number}/status", h.getStatus)
	r.Put("/orders/{number}/status", h.updateStatus)
	r.Post("/orders/{number}/cancel", h.cancel)
	r.Delete("/orders/{number}", h.delete)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if !bindAndValidate(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.buildOrder(ctx, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if vs := orders.ValidateOrder(order); !vs.Empty() {
		writeViolations(w, vs)
		return
	}

	if err := h.Repo.Create(ctx, order); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cacheStatus(ctx, order)
	h.publishCreated(order, r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusCreated, toOrderResp(order))
}

// buildOrder assembles the aggregate: products are loaded so items can
// inherit selling prices and the stock validator can see stock levels.
func (h *OrdersHandler) buildOrder(ctx context.Context, req createOrderReq) (*orders.Order, error) {
	order := orders.NewOrder()
	order.CustomerID = req.CustomerID
	order.AddressID = req.AddressID

	if req.TaxAmount != "" {
		tax, err := money.Parse(req.TaxAmount)
		if err != nil {
			return nil, err
		}
		order.SetTaxAmount(tax)
	}
	if req.ShippingAmount != "" {
		shipping, err := money.Parse(req.ShippingAmount)
		if err != nil {
			return nil, err
		}
		order.SetShippingAmount(shipping)
	}

	for _, itemReq := range req.Items {
		product, err := h.Products.FindByID(ctx, itemReq.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, fmt.Errorf("product %d not found", itemReq.ProductID)
			}
			return nil, err
		}

		item := orders.NewOrderItem()
		item.SetQuantity(itemReq.Quantity)
		if itemReq.UnitPrice != "" {
			price, err := money.Parse(itemReq.UnitPrice)
			if err != nil {
				return nil, err
			}
			item.SetUnitPrice(price)
		}
		item.SetProduct(product)
		order.AddItem(item)
	}

	order.CalculateTotals()
	return order, nil
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toOrderResp(order))
}

// getStatus serves the hot polling path from Redis, falling back to
// the database and refilling the cache.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, number)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
		return
	}

	order, err := h.Repo.FindByNumber(ctx, number)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	body := fmt.Sprintf(`{"status":%q}`, order.Status())
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		result []*orders.Order
		err    error
	)
	q := r.URL.Query()
	switch {
	case q.Get("q") != "":
		result, err = h.Repo.Search(ctx, q.Get("q"))
	case q.Get("status") != "":
		var status orders.Status
		status, err = orders.ParseStatus(q.Get("status"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result, err = h.Repo.FindByStatus(ctx, status)
	case q.Get("customer_id") != "":
		var id int64
		id, err = strconv.ParseInt(q.Get("customer_id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid customer_id")
			return
		}
		result, err = h.Repo.FindByCustomer(ctx, id)
	default:
		result, err = h.Repo.FindRecent(ctx, 30)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]orderResp, 0, len(result))
	for _, o := range result {
		out = append(out, toOrderResp(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	stats, err := h.Repo.Statistics(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	type statResp struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
		Total  string `json:"total"`
	}
	out := make([]statResp, 0, len(stats))
	for _, s := range stats {
		out = append(out, statResp{Status: string(s.Status), Count: s.Count, Total: s.Total.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if !bindAndValidate(w, r, &req) {
		return
	}
	status, err := orders.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, ok := h.load(ctx, w, r)
	if !ok {
		return
	}

	from := order.Status()
	order.SetStatus(status)
	if err := h.Repo.Update(ctx, order); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cacheStatus(ctx, order)
	h.publishStatusChanged(order, from, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusOK, toOrderResp(order))
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	if !order.CanBeCancelled() {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("order in status %q cannot be cancelled", order.Status()))
		return
	}

	from := order.Status()
	order.SetStatus(orders.StatusCancelled)
	if err := h.Repo.Update(ctx, order); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cacheStatus(ctx, order)
	h.publishStatusChanged(order, from, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusOK, toOrderResp(order))
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	if err := h.Repo.Delete(ctx, order.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*orders.Order, bool) {
	number := chi.URLParam(r, "number")
	order, err := h.Repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return order, true
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, o *orders.Order) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.OrderNumber())
	body := fmt.Sprintf(`{"status":%q}`, o.Status())
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) publishCreated(o *orders.Order, trace string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: o.OrderNumber(),
		Payload:       kafkax.MustMarshal(orders.NewOrderCreatedPayload(o)),
	}
	h.Producer.Publish(orders.PartitionKey(o.OrderNumber()), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) publishStatusChanged(o *orders.Order, from orders.Status, trace string) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: o.OrderNumber(),
		Payload: kafkax.MustMarshal(orders.OrderStatusChangedPayload{
			OrderNumber: o.OrderNumber(),
			From:        string(from),
			To:          string(o.Status()),
		}),
	}
	h.StatusProducer.Publish(orders.PartitionKey(o.OrderNumber()), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
