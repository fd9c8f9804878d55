package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/donmendez/go-retail-store/internal/catalog"
	"github.com/donmendez/go-retail-store/internal/feed"
)

type CatalogHandler struct {
	Repo   *catalog.Repo
	Ledger *catalog.Ledger
	Events feed.Dispatcher
}

type stockAdjustReq struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Get("/products/low-stock", h.listLowStock)
	r.Get("/products/{id}", h.getProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)
	r.Post("/products/{id}/stock", h.adjustStock)
	r.Get("/products/{id}/movements", h.listMovements)

	r.Post("/suppliers", h.createSupplier)
	r.Get("/suppliers", h.listSuppliers)
	r.Put("/suppliers/{id}", h.updateSupplier)
	r.Delete("/suppliers/{id}", h.deleteSupplier)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if in.Code == "" || in.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing code or name"})
		return
	}
	p, err := h.Repo.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) listLowStock(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.ListLowStock(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	p, err := h.Repo.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req stockAdjustReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Delta == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "delta must be non-zero"})
		return
	}
	productID := chi.URLParam(r, "id")
	newStock, err := h.Ledger.Adjust(r.Context(), productID, req.Delta, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	h.Events.Dispatch(r.Context(), feed.EventStockAdjusted, productID, feed.StockChange{
		ProductID: productID,
		Delta:     req.Delta,
		Stock:     newStock,
		Reason:    req.Reason,
	})
	writeJSON(w, http.StatusOK, map[string]any{"product_id": productID, "stock": newStock})
}

func (h *CatalogHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.Ledger.Movements(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in catalog.SupplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if in.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing name"})
		return
	}
	s, err := h.Repo.CreateSupplier(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *CatalogHandler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repo.ListSuppliers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var in catalog.SupplierInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	s, err := h.Repo.UpdateSupplier(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CatalogHandler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
