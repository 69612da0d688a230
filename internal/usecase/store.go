package usecase

import (
	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/syncmeta"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

// LocalStore groups the repositories the sync engine writes to.
type LocalStore struct {
	Teams     team.Repository
	Matches   match.Repository
	Standings standing.Repository
	Rosters   roster.Repository
	Meta      syncmeta.Repository
}

// StaticBundle is a complete regenerated static dataset.
type StaticBundle struct {
	Season      string
	TotalRounds int
	Teams       []team.Team
	Matches     []match.Match
	Version     dataversion.DataVersion
}

// StaticDataStore is the read side of the bundled dataset plus its override
// writer.
type StaticDataStore interface {
	HasStaticData() bool
	LoadTeams() ([]team.Team, error)
	LoadMatches() ([]RawMatch, error)
	LoadVersion() (dataversion.DataVersion, error)
	Write(bundle StaticBundle) error
	Reload()
}
