package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/id"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

const (
	syncKindInitialize = "initialize"
	syncKindDynamic    = "dynamic"
	syncKindUpdates    = "check_updates"
	syncKindImport     = "import"
	syncKindStatic     = "static_refresh"
	syncKindRoster     = "roster"

	outcomeSuccess  = "success"
	outcomeDegraded = "degraded"
	outcomeSkipped  = "skipped"
	outcomeFailed   = "failed"
)

type SyncConfig struct {
	Season        string
	Phase         string
	ReportWorkers int
	SeasonRounds  int
	RoundPause    time.Duration
}

func (c SyncConfig) normalize() SyncConfig {
	if strings.TrimSpace(c.Phase) == "" {
		c.Phase = "RS"
	}
	if c.ReportWorkers < 1 {
		c.ReportWorkers = 4
	}
	if c.SeasonRounds < 1 {
		c.SeasonRounds = 34
	}
	if c.RoundPause < 0 {
		c.RoundPause = 0
	}
	return c
}

// SyncDependencies are the collaborators of a SyncOrchestrator. Remote,
// Rounds and Versions are optional.
type SyncDependencies struct {
	Store    LocalStore
	Static   StaticDataStore
	Chain    *FallbackChain
	Remote   RemoteClient
	Rounds   RoundSource
	Versions VersionProvider
	Policy   *DataSyncPolicy
	Retrier  *resilience.Retrier
	IDs      id.Generator
	Metrics  SyncMetrics
	Logger   *logging.Logger
}

type InitResult struct {
	Skipped          bool
	AlreadyPopulated bool
	TeamsSeeded      int
	MatchesSeeded    int
	Dropped          int
	State            SyncState
}

type SyncResult struct {
	RunID            string
	Skipped          bool
	Reason           string
	Source           string
	MatchesUpserted  int
	Dropped          int
	ReportsEnriched  int
	StandingsUpdated bool
	Failures         []SourceFailure
	State            SyncState
}

type UpdateCheckResult struct {
	Skipped          bool
	HasStaticUpdates bool
	CurrentVersion   string
	LatestVersion    string
	Message          string
}

// SyncOrchestrator owns the sync state machine. Each kind of operation runs
// at most once at a time; overlapping calls return Skipped without I/O.
type SyncOrchestrator struct {
	store    LocalStore
	static   StaticDataStore
	chain    *FallbackChain
	remote   RemoteClient
	rounds   RoundSource
	versions VersionProvider
	policy   *DataSyncPolicy
	retrier  *resilience.Retrier
	enricher *ResultEnricher
	ids      id.Generator
	metrics  SyncMetrics
	logger   *logging.Logger
	cfg      SyncConfig
	now      func() time.Time

	hub          *stateHub
	initializing atomic.Bool
	syncing      atomic.Bool
	checking     atomic.Bool
}

func NewSyncOrchestrator(deps SyncDependencies, cfg SyncConfig) *SyncOrchestrator {
	logger := logging.OrDefault(deps.Logger).Named("sync")
	retrier := deps.Retrier
	if retrier == nil {
		retrier = resilience.NewRetrier(resilience.DefaultRetryConfig(), IsRetryable)
	}
	ids := deps.IDs
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	policy := deps.Policy
	if policy == nil {
		policy = NewDataSyncPolicy(deps.Store.Teams, deps.Store.Meta, DefaultSyncInterval)
	}

	return &SyncOrchestrator{
		store:    deps.Store,
		static:   deps.Static,
		chain:    deps.Chain,
		remote:   deps.Remote,
		rounds:   deps.Rounds,
		versions: deps.Versions,
		policy:   policy,
		retrier:  retrier,
		enricher: NewResultEnricher(logger),
		ids:      ids,
		metrics:  metricsOrNoop(deps.Metrics),
		logger:   logger,
		cfg:      cfg.normalize(),
		now:      policy.now,
		hub:      newStateHub(),
	}
}

func (o *SyncOrchestrator) State() SyncState {
	return o.hub.snapshot()
}

// Subscribe returns a channel that always holds the most recent state, and a
// function that detaches and closes it.
func (o *SyncOrchestrator) Subscribe() (<-chan SyncState, func()) {
	return o.hub.subscribe()
}

func (o *SyncOrchestrator) IsSyncing() bool {
	return o.syncing.Load()
}

func (o *SyncOrchestrator) LastSyncTime(ctx context.Context) (*time.Time, error) {
	meta, err := o.store.Meta.Get(ctx)
	if err != nil {
		return nil, storeError("read sync meta", err)
	}
	return meta.LastSyncAt, nil
}

type LastSyncInfo struct {
	LastSyncAt *time.Time
	SyncNeeded bool
	Reason     string
	Syncing    bool
}

func (o *SyncOrchestrator) LastSyncInfo(ctx context.Context) (LastSyncInfo, error) {
	decision, err := o.policy.IsSyncNeeded(ctx, false)
	if err != nil {
		return LastSyncInfo{}, err
	}
	return LastSyncInfo{
		LastSyncAt: decision.LastSyncAt,
		SyncNeeded: decision.Needed,
		Reason:     decision.Reason,
		Syncing:    o.IsSyncing(),
	}, nil
}

// Initialize seeds static data when the store is empty and then runs a
// dynamic sync if one is due.
func (o *SyncOrchestrator) Initialize(ctx context.Context) (InitResult, SyncResult, error) {
	initResult, err := o.InitializeStaticData(ctx)
	if err != nil {
		return initResult, SyncResult{}, err
	}
	syncResult, err := o.SyncDynamicData(ctx, false)
	return initResult, syncResult, err
}

func (o *SyncOrchestrator) SyncNow(ctx context.Context, force bool) (SyncResult, error) {
	return o.SyncDynamicData(ctx, force)
}

// InitializeStaticData seeds teams and the season calendar from the bundled
// dataset. It does nothing once the store holds any team.
func (o *SyncOrchestrator) InitializeStaticData(ctx context.Context) (result InitResult, err error) {
	if state, ok := o.hub.begin(&o.initializing, func(s *SyncState) { s.Initializing = true }); !ok {
		return InitResult{Skipped: true, State: state}, nil
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestrator.InitializeStaticData")
	defer func() { endSpan(span, err) }()
	started := o.now()
	defer func() {
		o.finishRun(syncKindInitialize, started, runOutcome(err, result.AlreadyPopulated, result.Dropped > 0))
		result.State = o.hub.finish(&o.initializing, func(s *SyncState) {
			s.Initializing = false
			if err != nil {
				s.Error = err.Error()
			}
		})
	}()

	count, err := o.store.Teams.Count(ctx)
	if err != nil {
		return result, storeError("count teams", err)
	}
	if count > 0 {
		result.AlreadyPopulated = true
		return result, nil
	}
	if o.static == nil {
		return result, fmt.Errorf("%w: no static data configured", ErrStaticData)
	}

	teams, err := o.static.LoadTeams()
	if err != nil {
		return result, err
	}
	validTeams := make([]team.Team, 0, len(teams))
	for _, item := range teams {
		if vErr := item.Validate(); vErr != nil {
			result.Dropped++
			o.logger.WarnContext(ctx, "skip invalid static team", "team_id", item.ID, "error", vErr)
			continue
		}
		validTeams = append(validTeams, item)
	}
	if len(validTeams) == 0 {
		return result, fmt.Errorf("%w: static bundle holds no valid team", ErrStaticData)
	}

	raws, err := o.static.LoadMatches()
	if err != nil {
		return result, err
	}
	index := team.Index(validTeams)
	enriched, dropped := o.enricher.EnrichBatch(ctx, raws, index)
	result.Dropped += dropped
	matches := make([]match.Match, 0, len(enriched))
	for _, item := range enriched {
		_, homeOK := index[item.HomeTeamID]
		_, awayOK := index[item.AwayTeamID]
		if !homeOK || !awayOK {
			result.Dropped++
			o.logger.WarnContext(ctx, "skip static match with unknown team",
				"match_id", item.ID,
				"home_team_id", item.HomeTeamID,
				"away_team_id", item.AwayTeamID,
			)
			continue
		}
		matches = append(matches, item)
	}
	o.metrics.ObserveDropped(syncKindInitialize, result.Dropped)

	if err := o.store.Teams.Upsert(ctx, validTeams); err != nil {
		return result, storeError("seed teams", err)
	}
	if len(matches) > 0 {
		if err := o.store.Matches.Upsert(ctx, matches); err != nil {
			return result, storeError("seed matches", err)
		}
	}
	if err := o.store.Meta.MarkPopulated(ctx); err != nil {
		return result, storeError("mark populated", err)
	}

	result.TeamsSeeded = len(validTeams)
	result.MatchesSeeded = len(matches)
	o.logger.InfoContext(ctx, "static data seeded",
		"teams", result.TeamsSeeded,
		"matches", result.MatchesSeeded,
		"dropped", result.Dropped,
	)
	return result, nil
}

// SyncDynamicData refreshes results, statuses and standings. Source failures
// degrade the pass and are reported in State().Error; only store failures and
// a fully exhausted chain return an error.
func (o *SyncOrchestrator) SyncDynamicData(ctx context.Context, force bool) (result SyncResult, err error) {
	if state, ok := o.hub.begin(&o.syncing, func(s *SyncState) { s.Syncing = true }); !ok {
		return SyncResult{Skipped: true, Reason: "in_progress", State: state}, nil
	}

	result.RunID = o.newRunID(ctx)
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestrator.SyncDynamicData",
		attribute.String("sync.run_id", result.RunID),
		attribute.Bool("sync.force", force),
	)
	defer func() { endSpan(span, err) }()
	logger := o.logger.With("run_id", result.RunID)

	started := o.now()

	var notes []string
	completed := false
	defer func() {
		o.finishRun(syncKindDynamic, started, runOutcome(err, result.Skipped, len(notes) > 0))
		result.State = o.hub.finish(&o.syncing, func(s *SyncState) {
			s.Syncing = false
			switch {
			case err != nil:
				s.Error = err.Error()
				s.LastSyncSuccess = false
			case completed:
				at := started
				s.LastSyncAt = &at
				s.LastSyncSuccess = true
				s.Error = strings.Join(notes, "; ")
			}
		})
	}()

	decision, err := o.policy.IsSyncNeeded(ctx, force)
	if err != nil {
		return result, err
	}
	if !decision.Needed {
		result.Skipped = true
		result.Reason = decision.Reason
		logger.DebugContext(ctx, "dynamic data is fresh, skipping sync", "last_sync_at", decision.LastSyncAt)
		return result, nil
	}
	result.Reason = decision.Reason

	teams, err := o.store.Teams.List(ctx)
	if err != nil {
		return result, storeError("list teams", err)
	}
	index := team.Index(teams)

	fetched := o.chain.GetMatches(ctx)
	result.Source = fetched.Source
	result.Failures = fetched.Failures
	if len(fetched.Items) == 0 {
		return result, fmt.Errorf("%w: every match source failed: %s", ErrNoData, describeFailures(fetched.Failures))
	}
	if fetched.Degraded() {
		notes = append(notes, fmt.Sprintf("matches served by %s after: %s", fetched.Source, describeFailures(fetched.Failures)))
	}

	matches, dropped := o.enricher.EnrichBatch(ctx, fetched.Items, index)
	result.Dropped = dropped
	o.metrics.ObserveDropped(syncKindDynamic, dropped)

	enrichedReports, reportErr := o.enrichReports(ctx, matches, fetched.Items, index)
	result.ReportsEnriched = enrichedReports
	if reportErr != nil {
		notes = append(notes, reportErr.Error())
	}

	if len(matches) > 0 {
		if err := o.store.Matches.Upsert(ctx, matches); err != nil {
			return result, storeError("upsert matches", err)
		}
	}
	result.MatchesUpserted = len(matches)

	updated, standingsErr := o.syncStandings(ctx, index)
	if standingsErr != nil {
		if errors.Is(standingsErr, ErrStore) {
			return result, standingsErr
		}
		notes = append(notes, "standings: "+standingsErr.Error())
	}
	result.StandingsUpdated = updated

	if err := o.store.Meta.MarkSynced(ctx, started); err != nil {
		return result, storeError("mark synced", err)
	}
	completed = true

	logger.InfoContext(ctx, "dynamic sync finished",
		"reason", result.Reason,
		"source", result.Source,
		"matches", result.MatchesUpserted,
		"dropped", result.Dropped,
		"reports", result.ReportsEnriched,
		"standings_updated", result.StandingsUpdated,
		"degraded", len(notes) > 0,
	)
	return result, nil
}

// enrichReports fetches box scores for finished matches that lack a score and
// rewrites them in place.
func (o *SyncOrchestrator) enrichReports(ctx context.Context, matches []match.Match, raws []RawMatch, index map[string]team.Team) (int, error) {
	if o.remote == nil {
		return 0, nil
	}

	rawByID := make(map[string]RawMatch, len(raws))
	for _, raw := range raws {
		rawByID[strings.TrimSpace(raw.ID)] = raw
	}
	pending := make([]int, 0)
	for i, item := range matches {
		if item.Status == match.StatusFinished && !item.HasFinalScore() {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	pool, err := ants.NewPool(min(o.cfg.ReportWorkers, len(pending)))
	if err != nil {
		return 0, fmt.Errorf("create report worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		enriched int
		failed   int
		workers  sync.WaitGroup
	)
	for _, idx := range pending {
		idx := idx
		if ctx.Err() != nil {
			break
		}
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			target := matches[idx]
			report, err := resilience.Run(ctx, o.retrier, func(ctx context.Context) (RawMatch, error) {
				return o.remote.FetchMatchReport(ctx, o.cfg.Season, target.ID)
			})
			if err != nil {
				o.logger.WarnContext(ctx, "match report unavailable", "match_id", target.ID, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			raw := rawByID[target.ID]
			raw.ReportHomeScore = firstScore(report.ReportHomeScore, report.HomeScore)
			raw.ReportAwayScore = firstScore(report.ReportAwayScore, report.AwayScore)
			if raw.GameState == "" {
				raw.GameState = report.GameState
			}
			updated, err := o.enricher.EnrichMatch(raw, index)
			if err != nil {
				return
			}

			mu.Lock()
			matches[idx] = updated
			if updated.HasFinalScore() {
				enriched++
			}
			mu.Unlock()
		}); err != nil {
			workers.Done()
			return enriched, fmt.Errorf("submit report task: %w", err)
		}
	}
	workers.Wait()

	if failed > 0 {
		return enriched, fmt.Errorf("%d of %d match reports unavailable", failed, len(pending))
	}
	return enriched, nil
}

func (o *SyncOrchestrator) syncStandings(ctx context.Context, index map[string]team.Team) (bool, error) {
	if o.remote == nil {
		return false, nil
	}
	rows, err := resilience.Run(ctx, o.retrier, func(ctx context.Context) ([]standing.Standing, error) {
		return o.remote.FetchStandings(ctx, o.cfg.Season, o.cfg.Phase)
	})
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}

	for i := range rows {
		rows[i].Phase = o.cfg.Phase
		if rows[i].TeamName == "" {
			rows[i].TeamName = index[rows[i].TeamID].Name
		}
	}
	ranked := standing.Rerank(rows)
	if err := o.store.Standings.ReplaceByPhase(ctx, o.cfg.Phase, ranked); err != nil {
		return false, storeError("replace standings", err)
	}
	return true, nil
}

// CheckForUpdates compares the bundled data version with the published one.
// A missing or unsupported version endpoint is a normal "no update" answer.
func (o *SyncOrchestrator) CheckForUpdates(ctx context.Context) (result UpdateCheckResult, err error) {
	if _, ok := o.hub.begin(&o.checking, func(s *SyncState) { s.CheckingUpdates = true }); !ok {
		return UpdateCheckResult{Skipped: true, Message: "update check in progress"}, nil
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestrator.CheckForUpdates")
	defer func() { endSpan(span, err) }()
	started := o.now()
	defer func() {
		o.finishRun(syncKindUpdates, started, runOutcome(err, false, false))
		o.hub.finish(&o.checking, func(s *SyncState) {
			s.CheckingUpdates = false
			if err != nil {
				s.Error = err.Error()
			}
		})
	}()

	result.Message = "no update"
	var current dataversion.DataVersion
	if o.static != nil {
		loaded, loadErr := o.static.LoadVersion()
		if loadErr != nil {
			o.logger.WarnContext(ctx, "bundled data version unreadable", "error", loadErr)
		} else {
			current = loaded
			result.CurrentVersion = loaded.Version
		}
	}
	if o.versions == nil {
		return result, nil
	}

	latest, err := o.versions.FetchDataVersion(ctx)
	if err != nil {
		if errors.Is(err, ErrVersionUnsupported) {
			return result, nil
		}
		result.Message = "update check failed"
		return result, fmt.Errorf("fetch data version: %w", err)
	}

	result.LatestVersion = latest.Version
	if result.CurrentVersion == "" || latest.Newer(current) {
		result.HasStaticUpdates = true
		result.Message = fmt.Sprintf("static data %s available (bundled %s)", latest.Version, valueOr(result.CurrentVersion, "none"))
	}
	return result, nil
}

func (o *SyncOrchestrator) finishRun(kind string, started time.Time, outcome string) {
	o.metrics.ObserveRun(kind, outcome, o.now().Sub(started))
}

func runOutcome(err error, skipped, degraded bool) string {
	switch {
	case err != nil:
		return outcomeFailed
	case skipped:
		return outcomeSkipped
	case degraded:
		return outcomeDegraded
	default:
		return outcomeSuccess
	}
}

func (o *SyncOrchestrator) newRunID(ctx context.Context) string {
	runID, err := o.ids.NewID()
	if err != nil {
		o.logger.WarnContext(ctx, "generate sync run id", "error", err)
		return fmt.Sprintf("run-%d", o.now().UnixNano())
	}
	return runID
}

func describeFailures(failures []SourceFailure) string {
	if len(failures) == 0 {
		return "no sources configured"
	}
	parts := make([]string, 0, len(failures))
	for _, failure := range failures {
		parts = append(parts, failure.String())
	}
	return strings.Join(parts, ", ")
}

func firstScore(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
