package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kelvinsinsua/scalaya-backend/internal/dispatch"
)

// DispatchHandler exposes the per-supplier fan-out the dispatch
// worker recorded for an order.
type DispatchHandler struct {
	Repo *dispatch.Repo
}

func (h *DispatchHandler) Register(r chi.Router) {
	r.Get("/dispatches/{number}", h.byOrder)
}

type dispatchResp struct {
	SupplierID int64     `json:"supplier_id"`
	ItemCount  int       `json:"item_count"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *DispatchHandler) byOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	records, err := h.Repo.FindByOrder(ctx, chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// an empty list means the worker has not processed the order yet
	out := make([]dispatchResp, 0, len(records))
	for _, rec := range records {
		out = append(out, dispatchResp{
			SupplierID: rec.SupplierID,
			ItemCount:  rec.ItemCount,
			Status:     rec.Status,
			CreatedAt:  rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
