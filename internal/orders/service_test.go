package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donmendez/go-retail-store/internal/feed"
	"github.com/donmendez/go-retail-store/internal/users"
)

// fakeStore mirrors the repo's transactional behavior in memory: confirmation
// takes all lines or none, cancellation of a confirmed order restocks.
type fakeStore struct {
	catalog map[string]PricedProduct
	stock   map[string]int
	orders  map[string]*Order
	seq     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		catalog: map[string]PricedProduct{
			"p1": {ID: "p1", Name: "Rice 1kg", Price: d("2500")},
			"p2": {ID: "p2", Name: "Cooking Oil 1L", Price: d("3000")},
		},
		stock:  map[string]int{"p1": 10, "p2": 10},
		orders: map[string]*Order{},
	}
}

func (f *fakeStore) Create(_ context.Context, clientID, clientName string, dueDate *time.Time, items []ItemInput) (Order, error) {
	lines, total, err := BuildLines(f.catalog, items)
	if err != nil {
		return Order{}, err
	}
	f.seq++
	o := Order{
		ID:             fmt.Sprintf("o%d", f.seq),
		ClientID:       clientID,
		ClientName:     clientName,
		Items:          lines,
		Total:          total,
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		AmountPaid:     decimal.Zero,
		PaymentDueDate: dueDate,
		CreatedAt:      time.Now(),
	}
	f.orders[o.ID] = &o
	return o, nil
}

func (f *fakeStore) Get(_ context.Context, orderID string) (Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	return *o, nil
}

func (f *fakeStore) Confirm(_ context.Context, orderID string) (Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if !CanTransition(o.Status, StatusConfirmed) {
		return Order{}, ErrInvalidTransition
	}
	var short []ShortItem
	for _, it := range o.Items {
		if f.stock[it.ProductID] < it.Qty {
			short = append(short, ShortItem{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Requested:   it.Qty,
				Available:   f.stock[it.ProductID],
			})
		}
	}
	if len(short) > 0 {
		return Order{}, &InsufficientStockError{OrderID: o.ID, Items: short}
	}
	for _, it := range o.Items {
		f.stock[it.ProductID] -= it.Qty
	}
	o.Status = StatusConfirmed
	now := time.Now()
	o.ConfirmedAt = &now
	return *o, nil
}

func (f *fakeStore) Cancel(_ context.Context, orderID string) (Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return Order{}, ErrInvalidTransition
	}
	if o.Status == StatusConfirmed {
		for _, it := range o.Items {
			f.stock[it.ProductID] += it.Qty
		}
	}
	o.Status = StatusCancelled
	return *o, nil
}

func (f *fakeStore) Complete(_ context.Context, orderID string) (Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if !CanTransition(o.Status, StatusCompleted) {
		return Order{}, ErrInvalidTransition
	}
	o.Status = StatusCompleted
	now := time.Now()
	o.CompletedAt = &now
	return *o, nil
}

func (f *fakeStore) ApplyPayment(_ context.Context, orderID string, amount decimal.Decimal) (Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if o.Status == StatusCancelled {
		return Order{}, ErrOrderCancelled
	}
	if amount.GreaterThan(o.Outstanding()) {
		return Order{}, ErrExceedsBalance
	}
	o.AmountPaid = o.AmountPaid.Add(amount)
	o.PaymentStatus = PaymentStatusFor(o.AmountPaid, o.Total)
	return *o, nil
}

type fakeDirectory struct{ users map[string]users.User }

func (f *fakeDirectory) Get(_ context.Context, id string) (users.User, error) {
	u, ok := f.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

type recordedEvent struct {
	Type    string
	Payload any
}

type fakeDispatcher struct{ events []recordedEvent }

func (f *fakeDispatcher) Dispatch(_ context.Context, eventType, _ string, payload any) {
	f.events = append(f.events, recordedEvent{Type: eventType, Payload: payload})
}

func newTestService() (*Service, *fakeStore, *fakeDispatcher) {
	store := newFakeStore()
	dir := &fakeDirectory{users: map[string]users.User{
		"retail":    {ID: "retail", Name: "Ana", Role: users.RoleRetailClient},
		"wholesale": {ID: "wholesale", Name: "Bodega Luz", Role: users.RoleWholesaleClient, CreditAllowed: true},
	}}
	disp := &fakeDispatcher{}
	return NewService(store, dir, disp), store, disp
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), "retail", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateUnknownClient(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), "ghost", nil, []ItemInput{{ProductID: "p1", Qty: 1}})
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestCreateCreditClientRequiresDueDate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "wholesale", nil, []ItemInput{{ProductID: "p1", Qty: 1}})
	assert.ErrorIs(t, err, ErrMissingPaymentDueDate)

	due := time.Now().AddDate(0, 0, 30)
	o, err := svc.Create(ctx, "wholesale", &due, []ItemInput{{ProductID: "p1", Qty: 1}})
	require.NoError(t, err)
	assert.NotNil(t, o.PaymentDueDate)
}

func TestCreatePricesFromCatalog(t *testing.T) {
	svc, _, disp := newTestService()
	o, err := svc.Create(context.Background(), "retail", nil, []ItemInput{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 2},
	})
	require.NoError(t, err)

	assert.True(t, o.Total.Equal(d("11000")))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	require.Len(t, disp.events, 1)
	assert.Equal(t, feed.EventOrderCreated, disp.events[0].Type)
}

func TestConfirmTakesStock(t *testing.T) {
	svc, store, disp := newTestService()
	ctx := context.Background()
	o, err := svc.Create(ctx, "retail", nil, []ItemInput{{ProductID: "p1", Qty: 4}})
	require.NoError(t, err)

	o, err = svc.Confirm(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, 6, store.stock["p1"])
	assert.Equal(t, feed.EventOrderConfirmed, disp.events[len(disp.events)-1].Type)
}

func TestConfirmAllOrNothing(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	o, err := svc.Create(ctx, "retail", nil, []ItemInput{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 15},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, o.ID)
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	require.Len(t, short.Items, 1)
	assert.Equal(t, "p2", short.Items[0].ProductID)
	assert.Equal(t, 15, short.Items[0].Requested)
	assert.Equal(t, 10, short.Items[0].Available)

	// nothing was taken, order is still pending
	assert.Equal(t, 10, store.stock["p1"])
	assert.Equal(t, 10, store.stock["p2"])
	got, _ := store.Get(ctx, o.ID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestRejectConfirmedRestocks(t *testing.T) {
	svc, store, disp := newTestService()
	ctx := context.Background()
	o, err := svc.Create(ctx, "retail", nil, []ItemInput{{ProductID: "p1", Qty: 4}})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, o.ID)
	require.NoError(t, err)
	require.Equal(t, 6, store.stock["p1"])

	o, err = svc.Reject(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, o.Status)
	assert.Equal(t, 10, store.stock["p1"])
	assert.Equal(t, feed.EventOrderCancelled, disp.events[len(disp.events)-1].Type)
}

func TestCompleteOnlyFromConfirmed(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o, err := svc.Create(ctx, "retail", nil, []ItemInput{{ProductID: "p1", Qty: 1}})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, o.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Confirm(ctx, o.ID)
	require.NoError(t, err)
	o, err = svc.Complete(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)
}

func TestManualPaymentPartial(t *testing.T) {
	svc, _, disp := newTestService()
	ctx := context.Background()
	o, err := svc.Create(ctx, "retail", nil, []ItemInput{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 2},
	})
	require.NoError(t, err)

	o, err = svc.ManualPayment(ctx, o.ID, d("5000"))
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, o.PaymentStatus)
	assert.True(t, o.Outstanding().Equal(d("6000")))
	assert.Equal(t, feed.EventOrderPaymentApplied, disp.events[len(disp.events)-1].Type)

	o, err = svc.ManualPayment(ctx, o.ID, d("6000"))
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
	assert.True(t, o.Outstanding().IsZero())
}

func TestManualPaymentValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	o, err := svc.Create(ctx, "retail", nil, []ItemInput{{ProductID: "p1", Qty: 2}})
	require.NoError(t, err)

	_, err = svc.ManualPayment(ctx, o.ID, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.ManualPayment(ctx, o.ID, d("-100"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.ManualPayment(ctx, o.ID, d("99999"))
	assert.ErrorIs(t, err, ErrExceedsBalance)
}
