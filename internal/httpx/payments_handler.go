package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/payments"
)

type PaymentsHandler struct {
	Svc  *payments.Service
	Repo *payments.Repo
}

type submitPaymentReq struct {
	OrderID           string          `json:"order_id"`
	ClientID          string          `json:"client_id"`
	Amount            decimal.Decimal `json:"amount"`
	TransferReference string          `json:"transfer_reference"`
	PaymentDate       string          `json:"payment_date"` // YYYY-MM-DD
}

func (h *PaymentsHandler) Register(r *chi.Mux) {
	r.Post("/payments", h.submit)
	r.Get("/payments", h.list)
	r.Get("/payments/{id}", h.get)
	r.Post("/payments/{id}/confirm", h.confirm)
	r.Post("/payments/{id}/reject", h.reject)
}

func (h *PaymentsHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.OrderID == "" || req.ClientID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	payDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_date"})
		return
	}

	p, err := h.Svc.Submit(r.Context(), req.OrderID, req.ClientID, req.Amount, req.TransferReference, payDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PaymentsHandler) list(w http.ResponseWriter, r *http.Request) {
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
	if orderID := r.URL.Query().Get("order_id"); orderID != "" {
		list, err := h.Repo.ListByOrder(ctx, orderID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	list, err := h.Repo.ListPending(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PaymentsHandler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PaymentsHandler) confirm(w http.ResponseWriter, r *http.Request) {
	p, o, err := h.Svc.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payment": p, "order": o})
}

func (h *PaymentsHandler) reject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
