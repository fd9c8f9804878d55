// Package debts derives per-client outstanding balances from the order
// collection. Nothing here is stored: the view is recomputed on demand and
// only cached for display.
package debts

import (
	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/orders"
)

type ClientDebt struct {
	ClientID   string          `json:"client_id"`
	ClientName string          `json:"client_name"`
	TotalDebt  decimal.Decimal `json:"total_debt"`
	Orders     []orders.Order  `json:"orders"`
}

// Aggregate groups unpaid, non-cancelled orders by client. Input order is
// preserved (callers pass orders sorted by creation time), so each client's
// list is oldest-first and clients appear in the order they first owed.
func Aggregate(list []orders.Order) []ClientDebt {
	byClient := map[string]int{}
	var out []ClientDebt
	for _, o := range list {
		if o.Status == orders.StatusCancelled || !o.Outstanding().IsPositive() {
			continue
		}
		idx, ok := byClient[o.ClientID]
		if !ok {
			idx = len(out)
			byClient[o.ClientID] = idx
			out = append(out, ClientDebt{ClientID: o.ClientID, ClientName: o.ClientName, TotalDebt: decimal.Zero})
		}
		out[idx].TotalDebt = out[idx].TotalDebt.Add(o.Outstanding())
		out[idx].Orders = append(out[idx].Orders, o)
	}
	return out
}

// Total sums all per-client balances.
func Total(debts []ClientDebt) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range debts {
		sum = sum.Add(d.TotalDebt)
	}
	return sum
}
