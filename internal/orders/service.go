package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/feed"
	"github.com/donmendez/go-retail-store/internal/users"
)

// Store is the persistence contract the lifecycle runs against. The pgx Repo
// implements it; tests use an in-memory fake with the same transactional
// semantics.
type Store interface {
	Create(ctx context.Context, clientID, clientName string, dueDate *time.Time, items []ItemInput) (Order, error)
	Get(ctx context.Context, orderID string) (Order, error)
	Confirm(ctx context.Context, orderID string) (Order, error)
	Cancel(ctx context.Context, orderID string) (Order, error)
	Complete(ctx context.Context, orderID string) (Order, error)
	ApplyPayment(ctx context.Context, orderID string, amount decimal.Decimal) (Order, error)
}

type UserDirectory interface {
	Get(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	Store  Store
	Users  UserDirectory
	Events feed.Dispatcher
}

func NewService(store Store, dir UserDirectory, events feed.Dispatcher) *Service {
	return &Service{Store: store, Users: dir, Events: events}
}

// Create places a pending order for a client. A credit client whose role
// defers payment must name a due date up front.
func (s *Service) Create(ctx context.Context, clientID string, dueDate *time.Time, items []ItemInput) (Order, error) {
	if len(items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	client, err := s.Users.Get(ctx, clientID)
	if err != nil {
		return Order{}, err
	}
	if client.RequiresDueDate() && dueDate == nil {
		return Order{}, ErrMissingPaymentDueDate
	}

	o, err := s.Store.Create(ctx, client.ID, client.Name, dueDate, items)
	if err != nil {
		return Order{}, err
	}
	s.dispatch(ctx, feed.EventOrderCreated, o)
	return o, nil
}

// Confirm reserves stock for every line or fails wholesale.
func (s *Service) Confirm(ctx context.Context, orderID string) (Order, error) {
	o, err := s.Store.Confirm(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	s.dispatch(ctx, feed.EventOrderConfirmed, o)
	return o, nil
}

// Reject cancels the order. Stock taken at confirmation is returned.
func (s *Service) Reject(ctx context.Context, orderID string) (Order, error) {
	o, err := s.Store.Cancel(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	s.dispatch(ctx, feed.EventOrderCancelled, o)
	return o, nil
}

// Complete marks a confirmed order fulfilled. Deliberately not gated on
// payment: credit clients keep owing after delivery.
func (s *Service) Complete(ctx context.Context, orderID string) (Order, error) {
	o, err := s.Store.Complete(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	s.dispatch(ctx, feed.EventOrderCompleted, o)
	return o, nil
}

// ManualPayment records a cash/offline payment taken by staff directly
// against the order.
func (s *Service) ManualPayment(ctx context.Context, orderID string, amount decimal.Decimal) (Order, error) {
	if !amount.IsPositive() {
		return Order{}, ErrInvalidAmount
	}
	o, err := s.Store.ApplyPayment(ctx, orderID, amount)
	if err != nil {
		return Order{}, err
	}
	s.dispatch(ctx, feed.EventOrderPaymentApplied, o)
	return o, nil
}

func (s *Service) dispatch(ctx context.Context, eventType string, o Order) {
	s.Events.Dispatch(ctx, eventType, o.ID, feed.OrderChange{
		OrderID:       o.ID,
		ClientID:      o.ClientID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		Total:         o.Total,
		AmountPaid:    o.AmountPaid,
	})
}
