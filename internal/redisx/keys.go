package redisx

import "time"

const (
	// Wizard session state: wizard:session:{session_id} -> JSON orders.State
	KeySession = "wizard:session:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLDedup = 48 * time.Hour
)
