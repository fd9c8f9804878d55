// Package views keeps the Redis-backed read models current from the change
// feed. Postgres stays the system of record; everything written here is a
// cache that can be rebuilt from it at any time.
package views

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/donmendez/go-retail-store/internal/debts"
	"github.com/donmendez/go-retail-store/internal/feed"
	kafkax "github.com/donmendez/go-retail-store/internal/kafka"
	"github.com/donmendez/go-retail-store/internal/orders"
	"github.com/donmendez/go-retail-store/internal/redisx"
)

type OrderSource interface {
	ListUnpaid(ctx context.Context) ([]orders.Order, error)
	ListUnpaidByClient(ctx context.Context, clientID string) ([]orders.Order, error)
}

type Service struct {
	Orders      OrderSource
	Redis       *redis.Client
	ServiceName string
	Log         *logrus.Logger
}

// HandleOrderChanged consumes store.orders.changed and refreshes the order
// status cache plus the affected client's debt balance.
func (s *Service) HandleOrderChanged(ctx context.Context, m kafkago.Message) error {
	env, ok, err := s.decodeAndDedup(ctx, m)
	if err != nil || !ok {
		return err
	}
	ch, err := kafkax.UnwrapPayload[feed.OrderChange](env.Payload)
	if err != nil {
		return err
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, ch.OrderID)
	body, _ := json.Marshal(map[string]any{
		"status":         ch.Status,
		"payment_status": ch.PaymentStatus,
		"amount_paid":    ch.AmountPaid,
		"total":          ch.Total,
	})
	if err := s.Redis.Set(ctx, statusKey, body, redisx.TTLStatusCache).Err(); err != nil {
		s.Log.WithError(err).Warn("order status cache refresh failed")
	}

	return s.refreshDebt(ctx, ch.ClientID)
}

// HandlePaymentChanged consumes store.payments.changed. Only confirmations
// move balances, but refreshing on every event is harmless and idempotent.
func (s *Service) HandlePaymentChanged(ctx context.Context, m kafkago.Message) error {
	env, ok, err := s.decodeAndDedup(ctx, m)
	if err != nil || !ok {
		return err
	}
	ch, err := kafkax.UnwrapPayload[feed.PaymentChange](env.Payload)
	if err != nil {
		return err
	}
	return s.refreshDebt(ctx, ch.ClientID)
}

// refreshDebt recomputes the client's balance and the grand total from the
// database rather than trusting event payload arithmetic.
func (s *Service) refreshDebt(ctx context.Context, clientID string) error {
	unpaid, err := s.Orders.ListUnpaidByClient(ctx, clientID)
	if err != nil {
		return err
	}
	balance := debts.Total(debts.Aggregate(unpaid))
	key := fmt.Sprintf(redisx.KeyClientDebt, clientID)
	if err := s.Redis.Set(ctx, key, balance.String(), redisx.TTLDebtCache).Err(); err != nil {
		return err
	}

	all, err := s.Orders.ListUnpaid(ctx)
	if err != nil {
		return err
	}
	total := debts.Total(debts.Aggregate(all))
	return s.Redis.Set(ctx, redisx.KeyDebtTotal, total.String(), redisx.TTLDebtCache).Err()
}

func (s *Service) decodeAndDedup(ctx context.Context, m kafkago.Message) (feed.Envelope, bool, error) {
	var env feed.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return env, false, err
	}
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	seen, _ := redisx.Exists(ctx, s.Redis, dkey)
	if seen {
		return env, false, nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	return env, true, nil
}
