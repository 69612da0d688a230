package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
)

type RosterRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]roster.Person
}

func NewRosterRepository() *RosterRepository {
	return &RosterRepository{byTeam: make(map[string][]roster.Person)}
}

func (r *RosterRepository) ListByTeam(_ context.Context, teamID string) ([]roster.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	people := r.byTeam[teamID]
	out := make([]roster.Person, len(people))
	copy(out, people)
	return out, nil
}

func (r *RosterRepository) ReplaceByTeam(_ context.Context, teamID string, people []roster.Person) error {
	out := make([]roster.Person, len(people))
	copy(out, people)

	r.mu.Lock()
	r.byTeam[teamID] = out
	r.mu.Unlock()
	return nil
}
