package debts

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donmendez/go-retail-store/internal/orders"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestAggregateGroupsByClient(t *testing.T) {
	list := []orders.Order{
		{ID: "o1", ClientID: "c1", ClientName: "Ana", Total: d("11000"), AmountPaid: d("5000"), Status: orders.StatusConfirmed},
		{ID: "o2", ClientID: "c2", ClientName: "Luz", Total: d("3000"), AmountPaid: decimal.Zero, Status: orders.StatusPending},
		{ID: "o3", ClientID: "c1", ClientName: "Ana", Total: d("2000"), AmountPaid: decimal.Zero, Status: orders.StatusCompleted},
	}

	out := Aggregate(list)
	require.Len(t, out, 2)

	// clients appear in the order they first owed, orders oldest-first
	assert.Equal(t, "c1", out[0].ClientID)
	assert.True(t, out[0].TotalDebt.Equal(d("8000")))
	require.Len(t, out[0].Orders, 2)
	assert.Equal(t, "o1", out[0].Orders[0].ID)

	assert.Equal(t, "c2", out[1].ClientID)
	assert.True(t, out[1].TotalDebt.Equal(d("3000")))
}

func TestAggregateSkipsCancelledAndPaid(t *testing.T) {
	list := []orders.Order{
		{ID: "o1", ClientID: "c1", Total: d("5000"), AmountPaid: decimal.Zero, Status: orders.StatusCancelled},
		{ID: "o2", ClientID: "c1", Total: d("5000"), AmountPaid: d("5000"), Status: orders.StatusCompleted},
	}
	assert.Empty(t, Aggregate(list))
}

func TestTotal(t *testing.T) {
	debts := []ClientDebt{
		{ClientID: "c1", TotalDebt: d("8000")},
		{ClientID: "c2", TotalDebt: d("3000")},
	}
	assert.True(t, Total(debts).Equal(d("11000")))
	assert.True(t, Total(nil).IsZero())
}
