package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	basecache "github.com/riskibarqy/euroleague-sync/internal/platform/cache"
)

const (
	teamPrefix     = "team:"
	matchPrefix    = "match:"
	standingPrefix = "standing:"
	rosterPrefix   = "roster:"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, teamPrefix+"id:"+teamID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByID)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Count(ctx context.Context) (int, error) {
	return basecache.Load(ctx, r.cache, teamPrefix+"count", r.next.Count)
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.Upsert(ctx, teams)
}

func (r *TeamRepository) SetFavorite(ctx context.Context, teamID string, favorite bool) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.SetFavorite(ctx, teamID, favorite)
}

type cachedTeamByID struct {
	value  team.Team
	exists bool
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, matchPrefix+"list:"+matchFilterKey(filter), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, matchPrefix+"id:"+matchID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	return basecache.Load(ctx, r.cache, matchPrefix+"count", r.next.Count)
}

func (r *MatchRepository) Upsert(ctx context.Context, matches []match.Match) error {
	defer r.cache.DeletePrefix(ctx, matchPrefix)
	return r.next.Upsert(ctx, matches)
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}

func matchFilterKey(filter match.Filter) string {
	parts := []string{
		filter.TeamID,
		string(filter.Status),
		strconv.Itoa(filter.Round),
		timeKey(filter.From),
		timeKey(filter.To),
	}
	return strings.Join(parts, "|")
}

func timeKey(value *time.Time) string {
	if value == nil {
		return ""
	}
	return strconv.FormatInt(value.UTC().UnixNano(), 10)
}

type StandingRepository struct {
	next  standing.Repository
	cache *basecache.Store
}

func NewStandingRepository(next standing.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) ListByPhase(ctx context.Context, phase string) ([]standing.Standing, error) {
	v, err := r.cache.GetOrLoad(ctx, standingPrefix+phase, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByPhase(ctx, phase)
		if err != nil {
			return nil, err
		}
		return append([]standing.Standing(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]standing.Standing)
	return append([]standing.Standing(nil), items...), nil
}

func (r *StandingRepository) ReplaceByPhase(ctx context.Context, phase string, standings []standing.Standing) error {
	defer r.cache.Delete(ctx, standingPrefix+phase)
	return r.next.ReplaceByPhase(ctx, phase, standings)
}

type RosterRepository struct {
	next  roster.Repository
	cache *basecache.Store
}

func NewRosterRepository(next roster.Repository, cache *basecache.Store) *RosterRepository {
	return &RosterRepository{next: next, cache: cache}
}

func (r *RosterRepository) ListByTeam(ctx context.Context, teamID string) ([]roster.Person, error) {
	v, err := r.cache.GetOrLoad(ctx, rosterPrefix+teamID, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]roster.Person(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]roster.Person)
	return append([]roster.Person(nil), items...), nil
}

func (r *RosterRepository) ReplaceByTeam(ctx context.Context, teamID string, people []roster.Person) error {
	defer r.cache.Delete(ctx, rosterPrefix+teamID)
	return r.next.ReplaceByTeam(ctx, teamID, people)
}
