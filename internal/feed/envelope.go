package feed

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated        = "OrderCreated"
	EventOrderConfirmed      = "OrderConfirmed"
	EventOrderCompleted      = "OrderCompleted"
	EventOrderCancelled      = "OrderCancelled"
	EventOrderPaymentApplied = "OrderPaymentApplied"
	EventPaymentSubmitted    = "PaymentSubmitted"
	EventPaymentConfirmed    = "PaymentConfirmed"
	EventPaymentRejected     = "PaymentRejected"
	EventSaleRecorded        = "SaleRecorded"
	EventStockAdjusted       = "StockAdjusted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type OrderChange struct {
	OrderID       string          `json:"order_id"`
	ClientID      string          `json:"client_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
}

type PaymentChange struct {
	PaymentID string          `json:"payment_id"`
	OrderID   string          `json:"order_id"`
	ClientID  string          `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
}

type SaleChange struct {
	SaleID        string          `json:"sale_id"`
	CashierID     string          `json:"cashier_id"`
	PaymentMethod string          `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
}

type StockChange struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Stock     int    `json:"stock"`
	Reason    string `json:"reason"`
}
