package payments

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	// Rejected is terminal and never credits the order. It is a distinct
	// state on purpose: collapsing it into confirmed would make a refused
	// transfer indistinguishable from an accepted one.
	StatusRejected Status = "rejected"
)

type Payment struct {
	ID                string          `json:"id"`
	OrderID           string          `json:"order_id"`
	ClientID          string          `json:"client_id"`
	ClientName        string          `json:"client_name"`
	Amount            decimal.Decimal `json:"amount"`
	TransferReference string          `json:"transfer_reference"`
	PaymentDate       time.Time       `json:"payment_date"`
	Status            Status          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	ConfirmedAt       *time.Time      `json:"confirmed_at,omitempty"`
}

var (
	ErrNotFound         = errors.New("payment not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrMissingReference = errors.New("transfer reference is required")
	ErrWrongClient      = errors.New("payment client does not match order client")
	ErrAlreadyResolved  = errors.New("payment already resolved")
)
