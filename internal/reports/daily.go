// Package reports produces the daily close figures the back office reads at
// end of day. Export to spreadsheet files is left to the consumer.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/donmendez/go-retail-store/internal/sales"
)

type DailySummary struct {
	Date             string                                  `json:"date"`
	SaleCount        int                                     `json:"sale_count"`
	TotalSales       decimal.Decimal                         `json:"total_sales"`
	SalesByMethod    map[sales.PaymentMethod]decimal.Decimal `json:"sales_by_method"`
	PaymentsReceived decimal.Decimal                         `json:"payments_received"`
	TotalIncome      decimal.Decimal                         `json:"total_income"`
}

type SalesSource interface {
	MethodTotals(ctx context.Context, day time.Time) (map[sales.PaymentMethod]decimal.Decimal, int, error)
}

type PaymentsSource interface {
	SumConfirmedOn(ctx context.Context, day time.Time) (decimal.Decimal, error)
}

type Service struct {
	Sales    SalesSource
	Payments PaymentsSource
}

func NewService(s SalesSource, p PaymentsSource) *Service {
	return &Service{Sales: s, Payments: p}
}

// Daily combines the day's counter sales with the order payments confirmed
// that day. Income is both together, matching the drawer count.
func (s *Service) Daily(ctx context.Context, day time.Time) (DailySummary, error) {
	byMethod, count, err := s.Sales.MethodTotals(ctx, day)
	if err != nil {
		return DailySummary{}, err
	}
	received, err := s.Payments.SumConfirmedOn(ctx, day)
	if err != nil {
		return DailySummary{}, err
	}

	totalSales := decimal.Zero
	for _, v := range byMethod {
		totalSales = totalSales.Add(v)
	}
	return DailySummary{
		Date:             day.UTC().Format("2006-01-02"),
		SaleCount:        count,
		TotalSales:       totalSales,
		SalesByMethod:    byMethod,
		PaymentsReceived: received,
		TotalIncome:      totalSales.Add(received),
	}, nil
}
