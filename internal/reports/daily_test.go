package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donmendez/go-retail-store/internal/sales"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fakeSales struct {
	byMethod map[sales.PaymentMethod]decimal.Decimal
	count    int
}

func (f *fakeSales) MethodTotals(context.Context, time.Time) (map[sales.PaymentMethod]decimal.Decimal, int, error) {
	return f.byMethod, f.count, nil
}

type fakePayments struct{ sum decimal.Decimal }

func (f *fakePayments) SumConfirmedOn(context.Context, time.Time) (decimal.Decimal, error) {
	return f.sum, nil
}

func TestDaily(t *testing.T) {
	svc := NewService(
		&fakeSales{
			byMethod: map[sales.PaymentMethod]decimal.Decimal{
				sales.MethodCash: d("12000"),
				sales.MethodCard: d("8000"),
			},
			count: 5,
		},
		&fakePayments{sum: d("5000")},
	)

	day := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	got, err := svc.Daily(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-15", got.Date)
	assert.Equal(t, 5, got.SaleCount)
	assert.True(t, got.TotalSales.Equal(d("20000")))
	assert.True(t, got.PaymentsReceived.Equal(d("5000")))
	assert.True(t, got.TotalIncome.Equal(d("25000")))
}

func TestDailyEmpty(t *testing.T) {
	svc := NewService(
		&fakeSales{byMethod: map[sales.PaymentMethod]decimal.Decimal{}},
		&fakePayments{sum: decimal.Zero},
	)
	got, err := svc.Daily(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, got.SaleCount)
	assert.True(t, got.TotalIncome.IsZero())
}
