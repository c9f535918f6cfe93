package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/kelvinsinsua/scalaya-backend/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeViolations reports the full violation list at once, so a
// client can show every problem instead of the first.
func writeViolations(w http.ResponseWriter, vs orders.Violations) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":      "order_invalid",
		"violations": vs,
	})
}
