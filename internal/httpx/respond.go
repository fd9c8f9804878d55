package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/donmendez/go-retail-store/internal/catalog"
	"github.com/donmendez/go-retail-store/internal/orders"
	"github.com/donmendez/go-retail-store/internal/payments"
	"github.com/donmendez/go-retail-store/internal/sales"
	"github.com/donmendez/go-retail-store/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Validation failures and
// stock shortages are expected outcomes for the caller to correct, not
// server faults.
func writeError(w http.ResponseWriter, err error) {
	var short *orders.InsufficientStockError
	if errors.As(err, &short) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "insufficient_stock",
			"items": short.Items,
		})
		return
	}

	switch {
	case isNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, payments.ErrAlreadyResolved):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case isValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, orders.ErrNotFound) ||
		errors.Is(err, orders.ErrProductNotFound) ||
		errors.Is(err, payments.ErrNotFound) ||
		errors.Is(err, catalog.ErrNotFound) ||
		errors.Is(err, users.ErrNotFound) ||
		errors.Is(err, sales.ErrNotFound)
}

func isValidation(err error) bool {
	return errors.Is(err, orders.ErrEmptyOrder) ||
		errors.Is(err, orders.ErrInvalidQty) ||
		errors.Is(err, orders.ErrMissingPaymentDueDate) ||
		errors.Is(err, orders.ErrInvalidAmount) ||
		errors.Is(err, orders.ErrExceedsBalance) ||
		errors.Is(err, orders.ErrOrderCancelled) ||
		errors.Is(err, payments.ErrInvalidAmount) ||
		errors.Is(err, payments.ErrMissingReference) ||
		errors.Is(err, payments.ErrWrongClient) ||
		errors.Is(err, sales.ErrEmptySale) ||
		errors.Is(err, sales.ErrInvalidQty) ||
		errors.Is(err, sales.ErrInvalidMethod)
}
