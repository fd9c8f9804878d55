package orders

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// PricedProduct is the slice of catalog data order creation needs.
type PricedProduct struct {
	ID    string
	Name  string
	Price decimal.Decimal
}

// BuildLines prices the requested items from current catalog data. Prices are
// never trusted from the caller. Returns the priced lines and their sum.
func BuildLines(products map[string]PricedProduct, inputs []ItemInput) ([]Item, decimal.Decimal, error) {
	if len(inputs) == 0 {
		return nil, decimal.Zero, ErrEmptyOrder
	}
	lines := make([]Item, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if in.Qty <= 0 {
			return nil, decimal.Zero, errors.Wrapf(ErrInvalidQty, "product %s", in.ProductID)
		}
		p, ok := products[in.ProductID]
		if !ok {
			return nil, decimal.Zero, errors.Wrapf(ErrProductNotFound, "product %s", in.ProductID)
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(in.Qty)))
		lines = append(lines, Item{
			ProductID:   p.ID,
			ProductName: p.Name,
			Qty:         in.Qty,
			Price:       p.Price,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}
	return lines, total, nil
}
