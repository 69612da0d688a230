package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

// RawMatch is a game record as delivered by a source, before status and
// score resolution.
type RawMatch struct {
	ID           string
	Season       string
	Phase        string
	Round        int
	RoundName    string
	ScheduledAt  time.Time
	Venue        string
	HomeTeamID   string
	HomeTeamName string
	HomeTeamLogo string
	AwayTeamID   string
	AwayTeamName string
	AwayTeamLogo string
	// GameState is the provider's own state label, empty when absent.
	GameState string

	HomeScore       *int
	AwayScore       *int
	ReportHomeScore *int
	ReportAwayScore *int
}

// RemoteClient is the official statistics API. Implementations do not retry.
type RemoteClient interface {
	FetchTeams(ctx context.Context, season string) ([]team.Team, error)
	FetchMatches(ctx context.Context, season, phase string) ([]RawMatch, error)
	FetchMatchReport(ctx context.Context, season, matchID string) (RawMatch, error)
	FetchRoster(ctx context.Context, season, teamCode string) ([]roster.Person, error)
	FetchStandings(ctx context.Context, season, phase string) ([]standing.Standing, error)
}

// DataSource is one link of the fallback chain, bound to a season.
type DataSource interface {
	Name() string
	FetchTeams(ctx context.Context) ([]team.Team, error)
	FetchMatches(ctx context.Context) ([]RawMatch, error)
}

// RoundSource serves the calendar one round at a time.
type RoundSource interface {
	FetchRound(ctx context.Context, round int) ([]RawMatch, error)
}

type VersionProvider interface {
	FetchDataVersion(ctx context.Context) (dataversion.DataVersion, error)
}
