package http

import (
	"net/http"
	"strconv"

	"github.com/formation/products-api/internal/httpapi"
	"github.com/formation/products-api/internal/stats/app"
)

// Handler exposes HTTP endpoints for reporting queries.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the stats handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats/category-stats", h.get(h.categoryStats))
	mux.HandleFunc("/api/stats/orders-by-status", h.get(h.ordersByStatus))
	mux.HandleFunc("/api/stats/total-revenue", h.get(h.totalRevenue))
	mux.HandleFunc("/api/stats/most-ordered-products", h.get(h.mostOrderedProducts))
	mux.HandleFunc("/api/stats/top-expensive-products", h.get(h.topExpensiveProducts))
}

func (h *Handler) get(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		fn(w, r)
	}
}

func (h *Handler) categoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CategoryStats(r.Context())
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"category_stats": stats})
}

func (h *Handler) ordersByStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.OrdersByStatus(r.Context())
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"orders_by_status": counts})
}

func (h *Handler) totalRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := h.service.TotalRevenue(r.Context())
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"total_revenue": revenue})
}

func (h *Handler) mostOrderedProducts(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.service.MostOrderedProducts(r.Context(), limitParam(r))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"products": ranking})
}

func (h *Handler) topExpensiveProducts(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.service.TopExpensiveProducts(r.Context(), limitParam(r))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"products": ranking})
}

func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
