package redisx

import "time"

const (
	// Cached order view: order_status:{order_id} -> {"status":..., "payment_status":..., "amount_paid":...}
	KeyOrderStatus = "order_status:%s"

	// Per-client outstanding balance: debt:client:{client_id} -> decimal string
	KeyClientDebt = "debt:client:%s"

	// Total outstanding across all clients: debt:total -> decimal string
	KeyDebtTotal = "debt:total"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDebtCache   = 10 * time.Minute
	TTLDedup       = 48 * time.Hour
)
