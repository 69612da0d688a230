package postgres

import "github.com/jmoiron/sqlx"

// Store bundles one repository per aggregate over a shared pool.
type Store struct {
	Teams     *TeamRepository
	Matches   *MatchRepository
	Standings *StandingRepository
	Rosters   *RosterRepository
	Meta      *SyncMetaRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		Teams:     NewTeamRepository(db),
		Matches:   NewMatchRepository(db),
		Standings: NewStandingRepository(db),
		Rosters:   NewRosterRepository(db),
		Meta:      NewSyncMetaRepository(db),
	}
}
