package sales

import (
	"context"

	"github.com/donmendez/go-retail-store/internal/feed"
	"github.com/donmendez/go-retail-store/internal/users"
)

type Store interface {
	Record(ctx context.Context, cashierID, cashierName string, method PaymentMethod, items []ItemInput) (Sale, error)
}

type UserDirectory interface {
	Get(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	Store  Store
	Users  UserDirectory
	Events feed.Dispatcher
}

func NewService(store Store, dir UserDirectory, events feed.Dispatcher) *Service {
	return &Service{Store: store, Users: dir, Events: events}
}

// Record registers a counter sale for a cashier and takes the stock.
func (s *Service) Record(ctx context.Context, cashierID string, method PaymentMethod, items []ItemInput) (Sale, error) {
	if len(items) == 0 {
		return Sale{}, ErrEmptySale
	}
	for _, it := range items {
		if it.Qty <= 0 {
			return Sale{}, ErrInvalidQty
		}
	}
	if !method.Valid() {
		return Sale{}, ErrInvalidMethod
	}
	cashier, err := s.Users.Get(ctx, cashierID)
	if err != nil {
		return Sale{}, err
	}

	sale, err := s.Store.Record(ctx, cashier.ID, cashier.Name, method, items)
	if err != nil {
		return Sale{}, err
	}
	s.Events.Dispatch(ctx, feed.EventSaleRecorded, sale.ID, feed.SaleChange{
		SaleID:        sale.ID,
		CashierID:     sale.CashierID,
		PaymentMethod: string(sale.PaymentMethod),
		Total:         sale.Total,
	})
	return sale, nil
}
