package euroleague

import (
	"context"
	"strings"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

// Source binds the client to one season and phase so it can serve as the
// first link of the fallback chain.
type Source struct {
	client *Client
	season string
	phase  string
}

func NewSource(client *Client, season, phase string) *Source {
	return &Source{
		client: client,
		season: strings.TrimSpace(season),
		phase:  strings.ToUpper(strings.TrimSpace(phase)),
	}
}

func (s *Source) Name() string {
	return usecase.SourceOfficial
}

func (s *Source) FetchTeams(ctx context.Context) ([]team.Team, error) {
	return s.client.FetchTeams(ctx, s.season)
}

func (s *Source) FetchMatches(ctx context.Context) ([]usecase.RawMatch, error) {
	return s.client.FetchMatches(ctx, s.season, s.phase)
}
