package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/formation/products-api/internal/errs"
	"github.com/formation/products-api/internal/httpapi"
	"github.com/formation/products-api/internal/orders/app"
	"github.com/formation/products-api/internal/orders/domain"
	"github.com/formation/products-api/internal/orders/ports"
)

// Handler exposes HTTP endpoints for order operations.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the order handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/orders", h.handleOrders)
	mux.HandleFunc("/api/orders/", h.handleOrderByID)
}

func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createOrder(w, r)
	case http.MethodGet:
		h.listOrders(w, r)
	default:
		httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleOrderByID dispatches /api/orders/{id}, /api/orders/{id}/status,
// /api/orders/{id}/items and /api/orders/{id}/items/{itemID}.
func (h *Handler) handleOrderByID(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/")
	if trimmed == "" {
		httpapi.WriteErrorMessage(w, http.StatusNotFound, "order not found")
		return
	}

	segments := strings.Split(trimmed, "/")
	id := segments[0]

	switch {
	case len(segments) == 1:
		if r.Method != http.MethodGet {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.getOrder(w, r, id)

	case len(segments) == 2 && segments[1] == "status":
		if r.Method != http.MethodPatch && r.Method != http.MethodPut {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.updateStatus(w, r, id)

	case len(segments) == 2 && segments[1] == "items":
		if r.Method != http.MethodPost {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.addItem(w, r, id)

	case len(segments) == 3 && segments[1] == "items":
		if r.Method != http.MethodDelete {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.removeItem(w, r, id, segments[2])

	default:
		httpapi.WriteErrorMessage(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// When an Idempotency-Key is supplied, a repeated request replays the
	// original response instead of creating a second order.
	idemKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if idemKey != "" {
		stored, err := h.service.GetIdempotentResponse(ctx, idemKey)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		if stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(stored.StatusCode)
			_, _ = w.Write(stored.Body)
			return
		}
	}

	var payload app.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.CreateOrder(ctx, payload)
	if err != nil {
		if order != nil {
			// The order was persisted but event publishing failed. The
			// client still gets the order.
			httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"order": order})
			return
		}
		httpapi.WriteError(w, err)
		return
	}

	if idemKey != "" {
		body, err := json.Marshal(map[string]any{"order": order})
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		stored := ports.StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       body,
			OrderID:    order.ID,
		}
		if err := h.service.SaveIdempotentResponse(ctx, idemKey, stored); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"order": order})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	filter := ports.ListFilter{}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := domain.OrderStatus(strings.ToUpper(statusParam))
		if !status.Valid() {
			httpapi.WriteError(w, errs.Validation("status", "unknown order status "+statusParam))
			return
		}
		filter.Status = &status
	}

	filter.CustomerEmail = r.URL.Query().Get("customer_email")

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if page, err := strconv.Atoi(pageParam); err == nil {
			filter.Page = page
		}
	}

	if pageSizeParam := r.URL.Query().Get("page_size"); pageSizeParam != "" {
		if pageSize, err := strconv.Atoi(pageSizeParam); err == nil {
			filter.PageSize = pageSize
		}
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type updateStatusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var payload updateStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	status := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))
	order, err := h.service.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

type addItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request, id string) {
	var payload addItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	order, err := h.service.AddOrderItem(r.Context(), id, payload.ProductID, payload.Quantity)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request, orderID, itemID string) {
	order, err := h.service.RemoveOrderItem(r.Context(), orderID, itemID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"order": order})
}
