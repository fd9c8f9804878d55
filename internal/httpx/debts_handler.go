package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/debts"
	"github.com/donmendez/go-retail-store/internal/orders"
	"github.com/donmendez/go-retail-store/internal/redisx"
)

type DebtsHandler struct {
	Repo  *orders.Repo
	Redis *redis.Client
}

func (h *DebtsHandler) Register(r *chi.Mux) {
	r.Get("/debts", h.list)
	r.Get("/debts/total", h.total)
	r.Get("/debts/{clientID}", h.byClient)
}

func (h *DebtsHandler) list(w http.ResponseWriter, r *http.Request) {
	unpaid, err := h.Repo.ListUnpaid(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	grouped := debts.Aggregate(unpaid)
	writeJSON(w, http.StatusOK, map[string]any{
		"clients": grouped,
		"total":   debts.Total(grouped),
	})
}

// total serves the cached grand total when the views worker has one,
// recomputing from the database otherwise.
func (h *DebtsHandler) total(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s, err := h.Redis.Get(ctx, redisx.KeyDebtTotal).Result(); err == nil && s != "" {
		if total, err := decimal.NewFromString(s); err == nil {
			writeJSON(w, http.StatusOK, map[string]any{"total": total, "source": "cache"})
			return
		}
	}

	unpaid, err := h.Repo.ListUnpaid(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	total := debts.Total(debts.Aggregate(unpaid))
	_ = h.Redis.Set(ctx, redisx.KeyDebtTotal, total.String(), redisx.TTLDebtCache).Err()
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "source": "db"})
}

func (h *DebtsHandler) byClient(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	ctx := r.Context()

	unpaid, err := h.Repo.ListUnpaidByClient(ctx, clientID)
	if err != nil {
		writeError(w, err)
		return
	}
	grouped := debts.Aggregate(unpaid)
	if len(grouped) == 0 {
		writeJSON(w, http.StatusOK, debts.ClientDebt{ClientID: clientID, TotalDebt: decimal.Zero})
		return
	}
	key := fmt.Sprintf(redisx.KeyClientDebt, clientID)
	_ = h.Redis.Set(ctx, key, grouped[0].TotalDebt.String(), redisx.TTLDebtCache).Err()
	writeJSON(w, http.StatusOK, grouped[0])
}
