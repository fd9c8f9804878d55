package sales

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

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeSaleStore struct {
	prices map[string]decimal.Decimal
	stock  map[string]int
	sales  []Sale
}

func (f *fakeSaleStore) Record(_ context.Context, cashierID, cashierName string, method PaymentMethod, inputs []ItemInput) (Sale, error) {
	total := decimal.Zero
	items := make([]Item, 0, len(inputs))
	for _, in := range inputs {
		price := f.prices[in.ProductID]
		f.stock[in.ProductID] -= in.Qty
		sub := price.Mul(decimal.NewFromInt(int64(in.Qty)))
		items = append(items, Item{ProductID: in.ProductID, Qty: in.Qty, Price: price, Subtotal: sub})
		total = total.Add(sub)
	}
	s := Sale{
		ID:            fmt.Sprintf("s%d", len(f.sales)+1),
		Items:         items,
		Total:         total,
		PaymentMethod: method,
		CashierID:     cashierID,
		CashierName:   cashierName,
		CreatedAt:     time.Now(),
	}
	f.sales = append(f.sales, s)
	return s, nil
}

type fakeDirectory struct{ users map[string]users.User }

func (f *fakeDirectory) Get(_ context.Context, id string) (users.User, error) {
	u, ok := f.users[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

type fakeDispatcher struct{ types []string }

func (f *fakeDispatcher) Dispatch(_ context.Context, eventType, _ string, _ any) {
	f.types = append(f.types, eventType)
}

func newTestService() (*Service, *fakeSaleStore, *fakeDispatcher) {
	store := &fakeSaleStore{
		prices: map[string]decimal.Decimal{"p1": d("2500")},
		stock:  map[string]int{"p1": 10},
	}
	dir := &fakeDirectory{users: map[string]users.User{
		"cash1": {ID: "cash1", Name: "Marta", Role: users.RoleCashier},
	}}
	disp := &fakeDispatcher{}
	return NewService(store, dir, disp), store, disp
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, MethodCash.Valid())
	assert.True(t, MethodCard.Valid())
	assert.True(t, MethodTransfer.Valid())
	assert.False(t, PaymentMethod("crypto").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestRecordValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Record(ctx, "cash1", MethodCash, nil)
	assert.ErrorIs(t, err, ErrEmptySale)

	_, err = svc.Record(ctx, "cash1", MethodCash, []ItemInput{{ProductID: "p1", Qty: 0}})
	assert.ErrorIs(t, err, ErrInvalidQty)

	_, err = svc.Record(ctx, "cash1", PaymentMethod("iou"), []ItemInput{{ProductID: "p1", Qty: 1}})
	assert.ErrorIs(t, err, ErrInvalidMethod)

	_, err = svc.Record(ctx, "ghost", MethodCash, []ItemInput{{ProductID: "p1", Qty: 1}})
	assert.ErrorIs(t, err, users.ErrNotFound)
}

func TestRecordTakesStockAndDispatches(t *testing.T) {
	svc, store, disp := newTestService()
	s, err := svc.Record(context.Background(), "cash1", MethodCash, []ItemInput{{ProductID: "p1", Qty: 3}})
	require.NoError(t, err)

	assert.True(t, s.Total.Equal(d("7500")))
	assert.Equal(t, "Marta", s.CashierName)
	assert.Equal(t, 7, store.stock["p1"])
	require.Len(t, disp.types, 1)
	assert.Equal(t, feed.EventSaleRecorded, disp.types[0])
}
