package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{teams: make(map[string]team.Team, len(teams))}
	for _, item := range teams {
		r.teams[item.ID] = item
	}
	return r
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	return item, ok, nil
}

func (r *TeamRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.teams), nil
}

func (r *TeamRepository) Upsert(_ context.Context, items []team.Team) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("upsert teams: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		if existing, ok := r.teams[item.ID]; ok {
			item.IsFavorite = existing.IsFavorite
		}
		r.teams[item.ID] = item
	}
	return nil
}

func (r *TeamRepository) SetFavorite(_ context.Context, teamID string, favorite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", team.ErrNotFound, teamID)
	}
	item.IsFavorite = favorite
	r.teams[teamID] = item
	return nil
}
