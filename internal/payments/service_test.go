package payments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donmendez/go-retail-store/internal/feed"
	"github.com/donmendez/go-retail-store/internal/orders"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeOrderBook struct{ orders map[string]*orders.Order }

func (f *fakeOrderBook) Get(_ context.Context, orderID string) (orders.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return *o, nil
}

// fakePayStore reproduces the repo's confirm semantics: pending-only state
// change, idempotent on an already-confirmed payment, credit applied to the
// order in the same step.
type fakePayStore struct {
	payments map[string]*Payment
	book     *fakeOrderBook
	seq      int
}

func (f *fakePayStore) Submit(_ context.Context, p Payment) (Payment, error) {
	f.seq++
	p.ID = fmt.Sprintf("pay%d", f.seq)
	p.Status = StatusPending
	p.CreatedAt = time.Now()
	f.payments[p.ID] = &p
	return p, nil
}

func (f *fakePayStore) Confirm(_ context.Context, paymentID string) (Payment, orders.Order, error) {
	p, ok := f.payments[paymentID]
	if !ok {
		return Payment{}, orders.Order{}, ErrNotFound
	}
	o := f.book.orders[p.OrderID]
	switch p.Status {
	case StatusConfirmed:
		return *p, *o, nil
	case StatusRejected:
		return Payment{}, orders.Order{}, ErrAlreadyResolved
	}
	if p.Amount.GreaterThan(o.Outstanding()) {
		return Payment{}, orders.Order{}, orders.ErrExceedsBalance
	}
	now := time.Now()
	p.Status = StatusConfirmed
	p.ConfirmedAt = &now
	o.AmountPaid = o.AmountPaid.Add(p.Amount)
	o.PaymentStatus = orders.PaymentStatusFor(o.AmountPaid, o.Total)
	return *p, *o, nil
}

func (f *fakePayStore) Reject(_ context.Context, paymentID string) (Payment, error) {
	p, ok := f.payments[paymentID]
	if !ok {
		return Payment{}, ErrNotFound
	}
	if p.Status != StatusPending {
		return Payment{}, ErrAlreadyResolved
	}
	p.Status = StatusRejected
	return *p, nil
}

func (f *fakePayStore) Get(_ context.Context, paymentID string) (Payment, error) {
	p, ok := f.payments[paymentID]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return *p, nil
}

type recordedEvent struct {
	Type    string
	Payload any
}

type fakeDispatcher struct{ events []recordedEvent }

func (f *fakeDispatcher) Dispatch(_ context.Context, eventType, _ string, payload any) {
	f.events = append(f.events, recordedEvent{Type: eventType, Payload: payload})
}

func newTestService() (*Service, *fakePayStore, *fakeDispatcher) {
	book := &fakeOrderBook{orders: map[string]*orders.Order{
		"o1": {
			ID:            "o1",
			ClientID:      "c1",
			ClientName:    "Bodega Luz",
			Total:         d("11000"),
			AmountPaid:    decimal.Zero,
			Status:        orders.StatusConfirmed,
			PaymentStatus: orders.PaymentPending,
		},
		"o2": {
			ID:       "o2",
			ClientID: "c2",
			Total:    d("5000"),
			Status:   orders.StatusCancelled,
		},
	}}
	store := &fakePayStore{payments: map[string]*Payment{}, book: book}
	disp := &fakeDispatcher{}
	return NewService(store, book, disp), store, disp
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	date := time.Now()

	_, err := svc.Submit(ctx, "o1", "c1", decimal.Zero, "REF-1", date)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Submit(ctx, "o1", "c1", d("1000"), "", date)
	assert.ErrorIs(t, err, ErrMissingReference)

	_, err = svc.Submit(ctx, "missing", "c1", d("1000"), "REF-1", date)
	assert.ErrorIs(t, err, orders.ErrNotFound)

	_, err = svc.Submit(ctx, "o2", "c2", d("1000"), "REF-1", date)
	assert.ErrorIs(t, err, orders.ErrOrderCancelled)

	_, err = svc.Submit(ctx, "o1", "someone-else", d("1000"), "REF-1", date)
	assert.ErrorIs(t, err, ErrWrongClient)

	_, err = svc.Submit(ctx, "o1", "c1", d("12000"), "REF-1", date)
	assert.ErrorIs(t, err, orders.ErrExceedsBalance)
}

func TestSubmitPending(t *testing.T) {
	svc, _, disp := newTestService()
	p, err := svc.Submit(context.Background(), "o1", "c1", d("5000"), "REF-77", time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "Bodega Luz", p.ClientName)
	require.Len(t, disp.events, 1)
	assert.Equal(t, feed.EventPaymentSubmitted, disp.events[0].Type)
}

func TestConfirmCreditsOrder(t *testing.T) {
	svc, store, disp := newTestService()
	ctx := context.Background()
	p, err := svc.Submit(ctx, "o1", "c1", d("5000"), "REF-77", time.Now())
	require.NoError(t, err)

	p, o, err := svc.Confirm(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, p.Status)
	assert.True(t, o.AmountPaid.Equal(d("5000")))
	assert.Equal(t, orders.PaymentPartial, o.PaymentStatus)

	// both the payment and the order change are announced
	types := []string{}
	for _, e := range disp.events {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, feed.EventPaymentConfirmed)
	assert.Contains(t, types, feed.EventOrderPaymentApplied)

	// retrying is a no-op, not a second credit
	_, o, err = svc.Confirm(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, o.AmountPaid.Equal(d("5000")))
	assert.True(t, store.book.orders["o1"].AmountPaid.Equal(d("5000")))
}

func TestRejectLeavesOrderUntouched(t *testing.T) {
	svc, store, disp := newTestService()
	ctx := context.Background()
	p, err := svc.Submit(ctx, "o1", "c1", d("5000"), "REF-77", time.Now())
	require.NoError(t, err)

	p, err = svc.Reject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, p.Status)
	assert.True(t, store.book.orders["o1"].AmountPaid.IsZero())
	assert.Equal(t, feed.EventPaymentRejected, disp.events[len(disp.events)-1].Type)

	// a rejected payment cannot later be confirmed
	_, _, err = svc.Confirm(ctx, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyResolved)
}
