package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/donmendez/go-retail-store/internal/reports"
	"github.com/donmendez/go-retail-store/internal/sales"
)

type SalesHandler struct {
	Svc     *sales.Service
	Repo    *sales.Repo
	Reports *reports.Service
}

type recordSaleReq struct {
	CashierID     string            `json:"cashier_id"`
	PaymentMethod string            `json:"payment_method"`
	Items         []sales.ItemInput `json:"items"`
}

func (h *SalesHandler) Register(r *chi.Mux) {
	r.Post("/sales", h.record)
	r.Get("/sales", h.listOn)
	r.Get("/sales/{id}", h.get)
	r.Get("/reports/daily", h.daily)
}

func (h *SalesHandler) record(w http.ResponseWriter, r *http.Request) {
	var req recordSaleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CashierID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing cashier_id"})
		return
	}
	sale, err := h.Svc.Record(r.Context(), req.CashierID, sales.PaymentMethod(req.PaymentMethod), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *SalesHandler) listOn(w http.ResponseWriter, r *http.Request) {
	day, err := queryDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
		return
	}
	list, err := h.Repo.ListOn(r.Context(), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SalesHandler) get(w http.ResponseWriter, r *http.Request) {
	sale, err := h.Repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}

func (h *SalesHandler) daily(w http.ResponseWriter, r *http.Request) {
	day, err := queryDay(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
		return
	}
	summary, err := h.Reports.Daily(r.Context(), day)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// queryDay reads ?date=YYYY-MM-DD, defaulting to today.
func queryDay(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
