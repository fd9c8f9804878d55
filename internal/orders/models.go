package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID             string          `json:"id"`
	ClientID       string          `json:"client_id"`
	ClientName     string          `json:"client_name"`
	Items          []Item          `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Status         Status          `json:"status"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PaymentDueDate *time.Time      `json:"payment_due_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ConfirmedAt    *time.Time      `json:"confirmed_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
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

// Outstanding is what the client still owes on this order.
func (o Order) Outstanding() decimal.Decimal {
	return o.Total.Sub(o.AmountPaid)
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentStatusFor derives the payment status from what has been paid so far.
// It is the single source of that rule; every mutation recomputes through it.
func PaymentStatusFor(amountPaid, total decimal.Decimal) PaymentStatus {
	switch {
	case amountPaid.GreaterThanOrEqual(total):
		return PaymentPaid
	case amountPaid.IsPositive():
		return PaymentPartial
	default:
		return PaymentPending
	}
}
