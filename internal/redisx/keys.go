package redisx

import "time"

const (
	// Order status cache: order_status:{order_number} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Dispatch state per order: dispatch:{order_number}
	KeyDispatch = "dispatch:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLDispatch    = 48 * time.Hour
)
