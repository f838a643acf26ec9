package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/formation/products-api/internal/catalog/app"
	"github.com/formation/products-api/internal/catalog/domain"
	"github.com/formation/products-api/internal/catalog/ports"
	"github.com/formation/products-api/internal/httpapi"
)

// Handler exposes HTTP endpoints for products, categories and suppliers.
type Handler struct {
	service *app.Service
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register binds the catalog handlers to the provided ServeMux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/products", h.handleProducts)
	mux.HandleFunc("/api/products/", h.handleProductByID)
	mux.HandleFunc("/api/categories", h.handleCategories)
	mux.HandleFunc("/api/categories/", h.handleCategoryByID)
	mux.HandleFunc("/api/suppliers", h.handleSuppliers)
	mux.HandleFunc("/api/suppliers/", h.handleSupplierByID)
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createProduct(w, r)
	case http.MethodGet:
		h.listProducts(w, r)
	default:
		httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleProductByID dispatches /api/products/{id}, /api/products/{id}/stock
// and /api/products/{id}/decrease-stock.
func (h *Handler) handleProductByID(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	if trimmed == "" {
		httpapi.WriteErrorMessage(w, http.StatusNotFound, "product not found")
		return
	}

	segments := strings.Split(trimmed, "/")
	id := segments[0]

	switch {
	case len(segments) == 1:
		h.productByID(w, r, id)

	case len(segments) == 2 && segments[1] == "stock":
		if r.Method != http.MethodPatch && r.Method != http.MethodPost {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.adjustStock(w, r, id)

	case len(segments) == 2 && segments[1] == "decrease-stock":
		if r.Method != http.MethodPost {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.decreaseStock(w, r, id)

	default:
		httpapi.WriteErrorMessage(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) productByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		product, err := h.service.GetProduct(r.Context(), id)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"product": product})

	case http.MethodPut:
		var payload domain.Product
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		product, err := h.service.UpdateProduct(r.Context(), id, payload)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"product": product})

	case http.MethodDelete:
		if err := h.service.DeleteProduct(r.Context(), id); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload domain.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), payload)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"product": product})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := ports.ProductFilter{
		CategoryID:   r.URL.Query().Get("category_id"),
		CategoryName: r.URL.Query().Get("category"),
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

type stockPayload struct {
	Delta    int `json:"delta"`
	Quantity int `json:"quantity"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request, id string) {
	var payload stockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	product, err := h.service.AdjustStock(r.Context(), id, payload.Delta)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *Handler) decreaseStock(w http.ResponseWriter, r *http.Request, id string) {
	var payload stockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	product, err := h.service.DecreaseStock(r.Context(), id, payload.Quantity)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var payload domain.Category
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		category, err := h.service.CreateCategory(r.Context(), payload)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"category": category})

	case http.MethodGet:
		categories, err := h.service.ListCategories(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"categories": categories})

	default:
		httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type transferPayload struct {
	ToCategoryID string `json:"to_category_id"`
}

// handleCategoryByID dispatches /api/categories/{id} and
// /api/categories/{id}/transfer-products.
func (h *Handler) handleCategoryByID(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/categories/"), "/")
	if trimmed == "" {
		httpapi.WriteErrorMessage(w, http.StatusNotFound, "category not found")
		return
	}

	segments := strings.Split(trimmed, "/")
	id := segments[0]

	if len(segments) == 2 && segments[1] == "transfer-products" {
		if r.Method != http.MethodPost {
			httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var payload transferPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		if err := h.service.TransferProducts(r.Context(), id, payload.ToCategoryID); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if len(segments) != 1 {
		httpapi.WriteErrorMessage(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		category, err := h.service.GetCategory(r.Context(), id)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"category": category})

	case http.MethodPut:
		var payload domain.Category
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		category, err := h.service.UpdateCategory(r.Context(), id, payload)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"category": category})

	case http.MethodDelete:
		if err := h.service.DeleteCategory(r.Context(), id); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSuppliers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var payload domain.Supplier
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		supplier, err := h.service.CreateSupplier(r.Context(), payload)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"supplier": supplier})

	case http.MethodGet:
		suppliers, err := h.service.ListSuppliers(r.Context())
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"suppliers": suppliers})

	default:
		httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleSupplierByID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/suppliers/"), "/")
	if id == "" || strings.Contains(id, "/") {
		httpapi.WriteErrorMessage(w, http.StatusNotFound, "supplier not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		supplier, err := h.service.GetSupplier(r.Context(), id)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"supplier": supplier})

	case http.MethodPut:
		var payload domain.Supplier
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			httpapi.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		supplier, err := h.service.UpdateSupplier(r.Context(), id, payload)
		if err != nil {
			httpapi.WriteError(w, err)
			return
		}
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"supplier": supplier})

	case http.MethodDelete:
		if err := h.service.DeleteSupplier(r.Context(), id); err != nil {
			httpapi.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		httpapi.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
