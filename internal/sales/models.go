package sales

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// Sale is a completed counter transaction. It is immutable once recorded and
// deliberately independent of the order lifecycle: counter sales are paid in
// full on the spot and never enter the approval flow.
type Sale struct {
	ID            string          `json:"id"`
	Items         []Item          `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	CashierID     string          `json:"cashier_id"`
	CashierName   string          `json:"cashier_name"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Item struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Qty         int             `json:"qty"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type ItemInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

var (
	ErrNotFound      = errors.New("sale not found")
	ErrEmptySale     = errors.New("sale has no items")
	ErrInvalidQty    = errors.New("item quantity must be positive")
	ErrInvalidMethod = errors.New("unknown payment method")
)
