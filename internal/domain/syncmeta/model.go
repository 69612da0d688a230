package syncmeta

import "time"

// Meta holds the persisted bookkeeping of the sync engine.
type Meta struct {
	LastSyncAt    *time.Time
	DataPopulated bool
}
