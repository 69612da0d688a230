package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/syncmeta"
)

type SyncMetaRepository struct {
	mu   sync.RWMutex
	meta syncmeta.Meta
}

func NewSyncMetaRepository() *SyncMetaRepository {
	return &SyncMetaRepository{}
}

func (r *SyncMetaRepository) Get(_ context.Context) (syncmeta.Meta, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.meta
	if out.LastSyncAt != nil {
		at := *out.LastSyncAt
		out.LastSyncAt = &at
	}
	return out, nil
}

func (r *SyncMetaRepository) MarkSynced(_ context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at = at.UTC()
	r.meta.LastSyncAt = &at
	return nil
}

func (r *SyncMetaRepository) MarkPopulated(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.meta.DataPopulated = true
	return nil
}
