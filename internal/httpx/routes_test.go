package httpx

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestAdminRouteWiring(t *testing.T) {
	r := chi.NewRouter()
	(&AccountsHandler{}).Register(r)
	(&DispatchHandler{}).Register(r)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/customers"},
		{http.MethodPut, "/customers/1/status"},
		{http.MethodGet, "/suppliers"},
		{http.MethodPut, "/suppliers/1/status"},
		{http.MethodGet, "/dispatches/ORD-2026-ABCDEF1234567"},
	}
	for _, tc := range cases {
		rctx := chi.NewRouteContext()
		assert.True(t, r.Match(rctx, tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}
