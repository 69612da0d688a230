package app

import (
	"context"
	"io"

	"github.com/riskibarqy/euroleague-sync/external/emergency"
	"github.com/riskibarqy/euroleague-sync/external/euroleague"
	"github.com/riskibarqy/euroleague-sync/external/feed"
	"github.com/riskibarqy/euroleague-sync/internal/config"
	"github.com/riskibarqy/euroleague-sync/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/euroleague-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/euroleague-sync/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/euroleague-sync/internal/infrastructure/staticdata"
	"github.com/riskibarqy/euroleague-sync/internal/observability"
	basecache "github.com/riskibarqy/euroleague-sync/internal/platform/cache"
	idgen "github.com/riskibarqy/euroleague-sync/internal/platform/id"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

// Runtime is the assembled sync engine plus the resources it owns.
type Runtime struct {
	Orchestrator *usecase.SyncOrchestrator
	Store        usecase.LocalStore
	Metrics      *observability.SyncMetrics
	Official     *euroleague.Client

	closers []io.Closer
}

// Close releases the database pool, if any.
func (r *Runtime) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewRuntime(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runtime, error) {
	logger = logging.OrDefault(logger)
	metrics := observability.NewSyncMetrics()
	rt := &Runtime{Metrics: metrics}

	store, err := rt.buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	rt.Store = store

	official := euroleague.NewClient(euroleague.ClientConfig{
		BaseURL:     cfg.EuroleagueBaseURL,
		Competition: cfg.EuroleagueCompetition,
		VersionURL:  cfg.EuroleagueVersionURL,
		Timeout:     cfg.EuroleagueTimeout,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EuroleagueCircuitEnabled,
			FailureThreshold: cfg.EuroleagueCircuitFailureCount,
			OpenTimeout:      cfg.EuroleagueCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EuroleagueCircuitHalfOpenMaxReq,
		},
	})
	official.Breaker().OnStateChange(func(from, to resilience.CircuitState) {
		metrics.ObserveBreaker("euroleague", to)
		logger.Warn("euroleague circuit breaker state changed", "from", from, "to", to)
	})
	rt.Official = official

	if !official.IsAvailable(ctx) {
		logger.WarnContext(ctx, "euroleague api unreachable at startup, fallbacks will serve",
			"base_url", cfg.EuroleagueBaseURL,
		)
	}

	sources := []usecase.DataSource{euroleague.NewSource(official, cfg.EuroleagueSeason, cfg.EuroleaguePhase)}
	var rounds usecase.RoundSource
	if cfg.FeedEnabled {
		feedClient := feed.NewClient(feed.Config{
			BaseURL:     cfg.FeedBaseURL,
			Competition: cfg.EuroleagueCompetition,
			Season:      cfg.EuroleagueSeason,
			Phase:       cfg.EuroleaguePhase,
			Rounds:      cfg.SyncSeasonRounds,
			TeamRounds:  cfg.FeedTeamRounds,
			Timeout:     cfg.FeedTimeout,
			Logger:      logger,
		})
		sources = append(sources, feedClient)
		rounds = feedClient
	}
	sources = append(sources, emergency.NewSource())

	retrier := resilience.NewRetrier(resilience.RetryConfig{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
	}, usecase.IsRetryable)

	chain := usecase.NewFallbackChain(retrier, logger, sources...).WithMetrics(metrics)

	rt.Orchestrator = usecase.NewSyncOrchestrator(usecase.SyncDependencies{
		Store: store,
		Static: staticdata.New(staticdata.Config{
			Season:      cfg.StaticDataSeason,
			OverrideDir: cfg.StaticDataDir,
			Logger:      logger,
		}),
		Chain:    chain,
		Remote:   official,
		Rounds:   rounds,
		Versions: official,
		Policy:   usecase.NewDataSyncPolicy(store.Teams, store.Meta, cfg.SyncInterval),
		Retrier:  retrier,
		IDs:      idgen.NewUUIDGenerator(),
		Metrics:  metrics,
		Logger:   logger,
	}, usecase.SyncConfig{
		Season:        cfg.EuroleagueSeason,
		Phase:         cfg.EuroleaguePhase,
		ReportWorkers: cfg.SyncReportWorkers,
		SeasonRounds:  cfg.SyncSeasonRounds,
		RoundPause:    cfg.FeedRoundPause,
	})

	logger.Info("sync runtime ready",
		"store", cfg.StoreDriver,
		"cache_enabled", cfg.CacheEnabled,
		"sources", chain.Sources(),
		"season", cfg.EuroleagueSeason,
	)
	return rt, nil
}

func (r *Runtime) buildStore(cfg config.Config, logger *logging.Logger) (usecase.LocalStore, error) {
	var store usecase.LocalStore
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return usecase.LocalStore{}, err
		}
		r.closers = append(r.closers, db)

		pg := postgres.NewStore(db)
		store = usecase.LocalStore{
			Teams:     pg.Teams,
			Matches:   pg.Matches,
			Standings: pg.Standings,
			Rosters:   pg.Rosters,
			Meta:      pg.Meta,
		}
		logger.Info("postgres store opened", "db_name", dbNameFromURL(cfg.DBURL))
	default:
		mem := memory.NewStore()
		store = usecase.LocalStore{
			Teams:     mem.Teams,
			Matches:   mem.Matches,
			Standings: mem.Standings,
			Rosters:   mem.Rosters,
			Meta:      mem.Meta,
		}
	}

	if !cfg.CacheEnabled {
		return store, nil
	}

	// Meta stays uncached: the policy must always see the latest sync time.
	readCache := basecache.NewStore(cfg.CacheTTL)
	return usecase.LocalStore{
		Teams:     cache.NewTeamRepository(store.Teams, readCache),
		Matches:   cache.NewMatchRepository(store.Matches, readCache),
		Standings: cache.NewStandingRepository(store.Standings, readCache),
		Rosters:   cache.NewRosterRepository(store.Rosters, readCache),
		Meta:      store.Meta,
	}, nil
}
