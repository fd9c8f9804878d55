package orders

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() map[string]PricedProduct {
	return map[string]PricedProduct{
		"p1": {ID: "p1", Name: "Rice 1kg", Price: d("2500")},
		"p2": {ID: "p2", Name: "Cooking Oil 1L", Price: d("3000")},
	}
}

func TestBuildLines(t *testing.T) {
	lines, total, err := BuildLines(testCatalog(), []ItemInput{
		{ProductID: "p1", Qty: 2},
		{ProductID: "p2", Qty: 2},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Rice 1kg", lines[0].ProductName)
	assert.True(t, lines[0].Subtotal.Equal(d("5000")))
	assert.True(t, lines[1].Subtotal.Equal(d("6000")))
	assert.True(t, total.Equal(d("11000")))
}

func TestBuildLinesIgnoresCallerPrices(t *testing.T) {
	// the catalog price wins no matter what the request claims
	lines, _, err := BuildLines(testCatalog(), []ItemInput{{ProductID: "p1", Qty: 1}})
	require.NoError(t, err)
	assert.True(t, lines[0].Price.Equal(d("2500")))
}

func TestBuildLinesEmpty(t *testing.T) {
	_, _, err := BuildLines(testCatalog(), nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestBuildLinesInvalidQty(t *testing.T) {
	_, total, err := BuildLines(testCatalog(), []ItemInput{{ProductID: "p1", Qty: 0}})
	assert.True(t, errors.Is(err, ErrInvalidQty))
	assert.True(t, total.Equal(decimal.Zero))
}

func TestBuildLinesUnknownProduct(t *testing.T) {
	_, _, err := BuildLines(testCatalog(), []ItemInput{{ProductID: "missing", Qty: 1}})
	assert.True(t, errors.Is(err, ErrProductNotFound))
}
