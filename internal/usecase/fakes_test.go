package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

var testNow = time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func noDelayRetrier() *resilience.Retrier {
	return &resilience.Retrier{MaxAttempts: 3, Retryable: IsRetryable}
}

func memoryLocalStore(teams ...team.Team) (LocalStore, *memory.Store) {
	mem := memory.NewStore(teams...)
	return LocalStore{
		Teams:     mem.Teams,
		Matches:   mem.Matches,
		Standings: mem.Standings,
		Rosters:   mem.Rosters,
		Meta:      mem.Meta,
	}, mem
}

func seedTeams() []team.Team {
	return []team.Team{
		{ID: "MAD", Name: "Real Madrid", Venue: "Movistar Arena"},
		{ID: "BAR", Name: "FC Barcelona", Venue: "Palau Blaugrana"},
		{ID: "PAN", Name: "Panathinaikos AKTOR Athens", Venue: "OAKA"},
		{ID: "OLY", Name: "Olympiacos Piraeus", Venue: "Peace and Friendship Stadium"},
	}
}

type fakeSource struct {
	name    string
	teams   []team.Team
	matches []RawMatch
	err     error
	calls   atomic.Int32
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) FetchTeams(context.Context) ([]team.Team, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.teams, nil
}

func (s *fakeSource) FetchMatches(context.Context) ([]RawMatch, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.matches, nil
}

type fakeRemote struct {
	mu           sync.Mutex
	reports      map[string]RawMatch
	reportErr    error
	reportCalls  int
	standings    []standing.Standing
	standingsErr error
	roster       map[string][]roster.Person
	rosterErr    error
}

func (r *fakeRemote) FetchTeams(context.Context, string) ([]team.Team, error) { return nil, nil }

func (r *fakeRemote) FetchMatches(context.Context, string, string) ([]RawMatch, error) {
	return nil, nil
}

func (r *fakeRemote) FetchMatchReport(_ context.Context, _ string, matchID string) (RawMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reportCalls++
	if r.reportErr != nil {
		return RawMatch{}, r.reportErr
	}
	report, ok := r.reports[matchID]
	if !ok {
		return RawMatch{}, &RemoteError{StatusCode: 404, Message: "game not found"}
	}
	return report, nil
}

func (r *fakeRemote) FetchRoster(_ context.Context, _ string, teamCode string) ([]roster.Person, error) {
	if r.rosterErr != nil {
		return nil, r.rosterErr
	}
	return r.roster[teamCode], nil
}

func (r *fakeRemote) FetchStandings(context.Context, string, string) ([]standing.Standing, error) {
	if r.standingsErr != nil {
		return nil, r.standingsErr
	}
	return r.standings, nil
}

type fakeStatic struct {
	teams   []team.Team
	matches []RawMatch
	version dataversion.DataVersion
	loadErr error
	written []StaticBundle
	reloads int
}

func (s *fakeStatic) HasStaticData() bool { return len(s.teams) > 0 }

func (s *fakeStatic) LoadTeams() ([]team.Team, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.teams, nil
}

func (s *fakeStatic) LoadMatches() ([]RawMatch, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.matches, nil
}

func (s *fakeStatic) LoadVersion() (dataversion.DataVersion, error) {
	return s.version, nil
}

func (s *fakeStatic) Write(bundle StaticBundle) error {
	s.written = append(s.written, bundle)
	return nil
}

func (s *fakeStatic) Reload() { s.reloads++ }

type fakeVersions struct {
	version dataversion.DataVersion
	err     error
}

func (v fakeVersions) FetchDataVersion(context.Context) (dataversion.DataVersion, error) {
	return v.version, v.err
}

type fakeRounds struct {
	mu      sync.Mutex
	byRound map[int][]RawMatch
	errs    map[int]error
	calls   []int
	onFetch func(round int)
}

func (f *fakeRounds) FetchRound(_ context.Context, round int) ([]RawMatch, error) {
	f.mu.Lock()
	f.calls = append(f.calls, round)
	f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch(round)
	}
	if err := f.errs[round]; err != nil {
		return nil, err
	}
	return f.byRound[round], nil
}

type recordingMetrics struct {
	mu      sync.Mutex
	runs    map[string]string
	sources map[string]string
	dropped map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{runs: map[string]string{}, sources: map[string]string{}, dropped: map[string]int{}}
}

func (m *recordingMetrics) ObserveRun(kind, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[kind] = outcome
}

func (m *recordingMetrics) ObserveSource(kind, source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[kind] = source
}

func (m *recordingMetrics) ObserveDropped(kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped[kind] += n
}

func rawGame(id, home, away string, at time.Time, state string, homeScore, awayScore *int) RawMatch {
	return RawMatch{
		ID:          id,
		Season:      "E2025",
		Phase:       "RS",
		Round:       1,
		ScheduledAt: at,
		HomeTeamID:  home,
		AwayTeamID:  away,
		GameState:   state,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
	}
}
