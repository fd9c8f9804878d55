package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/orders"
	"github.com/donmendez/go-retail-store/internal/redisx"
)

type OrdersHandler struct {
	Svc   *orders.Service
	Repo  *orders.Repo
	Redis *redis.Client
}

type createOrderReq struct {
	ClientID       string             `json:"client_id"`
	PaymentDueDate string             `json:"payment_due_date,omitempty"` // YYYY-MM-DD
	Items          []orders.ItemInput `json:"items"`
}

type manualPaymentReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Get("/orders/{id}/status", h.getStatus)
	r.Post("/orders/{id}/confirm", h.confirm)
	r.Post("/orders/{id}/reject", h.reject)
	r.Post("/orders/{id}/complete", h.complete)
	r.Post("/orders/{id}/payments/manual", h.manualPayment)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ClientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing client_id"})
		return
	}
	var dueDate *time.Time
	if req.PaymentDueDate != "" {
		d, err := time.Parse("2006-01-02", req.PaymentDueDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_due_date"})
			return
		}
		dueDate = &d
	}

	o, err := h.Svc.Create(r.Context(), req.ClientID, dueDate, req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		list, err := h.Repo.ListByClient(ctx, clientID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	status := orders.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = orders.StatusPending
	}
	list, err := h.Repo.ListByStatus(ctx, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// getStatus serves the Redis view first and falls back to the database,
// re-priming the cache on a miss.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx := r.Context()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	o, err := h.Repo.Get(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	body, _ := json.Marshal(map[string]any{
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
		"amount_paid":    o.AmountPaid,
		"total":          o.Total,
	})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *OrdersHandler) confirm(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) reject(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) complete(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) manualPayment(w http.ResponseWriter, r *http.Request) {
	var req manualPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	o, err := h.Svc.ManualPayment(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
