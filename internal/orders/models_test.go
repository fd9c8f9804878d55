package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPaymentStatusFor(t *testing.T) {
	total := d("11000")

	assert.Equal(t, PaymentPending, PaymentStatusFor(decimal.Zero, total))
	assert.Equal(t, PaymentPartial, PaymentStatusFor(d("5000"), total))
	assert.Equal(t, PaymentPaid, PaymentStatusFor(d("11000"), total))
	assert.Equal(t, PaymentPaid, PaymentStatusFor(d("12000"), total))
}

func TestOutstanding(t *testing.T) {
	o := Order{Total: d("11000"), AmountPaid: d("5000")}
	assert.True(t, o.Outstanding().Equal(d("6000")))

	o.AmountPaid = d("11000")
	assert.True(t, o.Outstanding().IsZero())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}
