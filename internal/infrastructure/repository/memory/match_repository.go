package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{matches: make(map[string]match.Match, len(matches))}
	for _, item := range matches {
		r.matches[item.ID] = item.Normalize()
	}
	return r
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.matches))
	for _, item := range r.matches {
		if filter.Matches(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[matchID]
	return item, ok, nil
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matches), nil
}

// Upsert validates the whole batch before touching the map so a bad row
// leaves the store unchanged.
func (r *MatchRepository) Upsert(_ context.Context, items []match.Match) error {
	normalized := make([]match.Match, 0, len(items))
	for _, item := range items {
		item = item.Normalize()
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert matches: %w", err)
		}
		normalized = append(normalized, item)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range normalized {
		if existing, ok := r.matches[item.ID]; ok {
			item = match.Reconcile(existing, item)
		}
		r.matches[item.ID] = item
	}
	return nil
}
