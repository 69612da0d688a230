package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
)

type StandingRepository struct {
	mu      sync.RWMutex
	byPhase map[string][]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{byPhase: make(map[string][]standing.Standing)}
}

func (r *StandingRepository) ListByPhase(_ context.Context, phase string) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byPhase[phase]
	out := make([]standing.Standing, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *StandingRepository) ReplaceByPhase(_ context.Context, phase string, rows []standing.Standing) error {
	if err := standing.ValidatePositions(rows); err != nil {
		return fmt.Errorf("replace standings %s: %w", phase, err)
	}

	out := make([]standing.Standing, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].Phase = phase
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })

	r.mu.Lock()
	r.byPhase[phase] = out
	r.mu.Unlock()
	return nil
}
