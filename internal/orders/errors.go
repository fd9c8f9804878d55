package orders

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound              = errors.New("order not found")
	ErrEmptyOrder            = errors.New("order has no items")
	ErrInvalidQty            = errors.New("item quantity must be positive")
	ErrProductNotFound       = errors.New("product not found")
	ErrMissingPaymentDueDate = errors.New("credit order requires a payment due date")
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrExceedsBalance        = errors.New("amount exceeds outstanding balance")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrOrderCancelled        = errors.New("order is cancelled")
)

// ShortItem describes one line that cannot be covered by current stock.
type ShortItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// InsufficientStockError lists every short line of a failed confirmation,
// not just the first one.
type InsufficientStockError struct {
	OrderID string
	Items   []ShortItem
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (need %d, have %d)", it.ProductName, it.Requested, it.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}
