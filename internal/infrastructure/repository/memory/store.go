package memory

import "github.com/riskibarqy/euroleague-sync/internal/domain/team"

// Store bundles one in-memory repository per aggregate.
type Store struct {
	Teams     *TeamRepository
	Matches   *MatchRepository
	Standings *StandingRepository
	Rosters   *RosterRepository
	Meta      *SyncMetaRepository
}

// NewStore returns an empty store, optionally pre-seeded with teams.
func NewStore(teams ...team.Team) *Store {
	return &Store{
		Teams:     NewTeamRepository(teams),
		Matches:   NewMatchRepository(nil),
		Standings: NewStandingRepository(),
		Rosters:   NewRosterRepository(),
		Meta:      NewSyncMetaRepository(),
	}
}
