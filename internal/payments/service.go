package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/feed"
	"github.com/donmendez/go-retail-store/internal/orders"
)

type Store interface {
	Submit(ctx context.Context, p Payment) (Payment, error)
	Confirm(ctx context.Context, paymentID string) (Payment, orders.Order, error)
	Reject(ctx context.Context, paymentID string) (Payment, error)
	Get(ctx context.Context, paymentID string) (Payment, error)
}

type OrderLookup interface {
	Get(ctx context.Context, orderID string) (orders.Order, error)
}

// Service reconciles client-submitted transfers against orders.
type Service struct {
	Store  Store
	Orders OrderLookup
	Events feed.Dispatcher
}

func NewService(store Store, lookup OrderLookup, events feed.Dispatcher) *Service {
	return &Service{Store: store, Orders: lookup, Events: events}
}

// Submit records a claimed transfer as a pending payment. The amount may not
// exceed the order's outstanding balance: overpayment is refused rather than
// silently accepted or turned into a credit balance.
func (s *Service) Submit(ctx context.Context, orderID, clientID string, amount decimal.Decimal, transferRef string, paymentDate time.Time) (Payment, error) {
	if !amount.IsPositive() {
		return Payment{}, ErrInvalidAmount
	}
	if transferRef == "" {
		return Payment{}, ErrMissingReference
	}
	o, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return Payment{}, err
	}
	if o.Status == orders.StatusCancelled {
		return Payment{}, orders.ErrOrderCancelled
	}
	if o.ClientID != clientID {
		return Payment{}, ErrWrongClient
	}
	if amount.GreaterThan(o.Outstanding()) {
		return Payment{}, orders.ErrExceedsBalance
	}

	p, err := s.Store.Submit(ctx, Payment{
		OrderID:           o.ID,
		ClientID:          o.ClientID,
		ClientName:        o.ClientName,
		Amount:            amount,
		TransferReference: transferRef,
		PaymentDate:       paymentDate,
	})
	if err != nil {
		return Payment{}, err
	}
	s.dispatch(ctx, feed.EventPaymentSubmitted, p)
	return p, nil
}

// Confirm accepts the payment and credits the order. Safe to retry: a payment
// that is already confirmed is returned without a second credit.
func (s *Service) Confirm(ctx context.Context, paymentID string) (Payment, orders.Order, error) {
	p, o, err := s.Store.Confirm(ctx, paymentID)
	if err != nil {
		return Payment{}, orders.Order{}, err
	}
	s.dispatch(ctx, feed.EventPaymentConfirmed, p)
	s.Events.Dispatch(ctx, feed.EventOrderPaymentApplied, o.ID, feed.OrderChange{
		OrderID:       o.ID,
		ClientID:      o.ClientID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Total:         o.Total,
		AmountPaid:    o.AmountPaid,
	})
	return p, o, nil
}

// Reject refuses the payment; the order's amountPaid is untouched.
func (s *Service) Reject(ctx context.Context, paymentID string) (Payment, error) {
	p, err := s.Store.Reject(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	s.dispatch(ctx, feed.EventPaymentRejected, p)
	return p, nil
}

func (s *Service) dispatch(ctx context.Context, eventType string, p Payment) {
	s.Events.Dispatch(ctx, eventType, p.ID, feed.PaymentChange{
		PaymentID: p.ID,
		OrderID:   p.OrderID,
		ClientID:  p.ClientID,
		Amount:    p.Amount,
		Status:    string(p.Status),
	})
}
