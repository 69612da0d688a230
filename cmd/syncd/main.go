package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/app"
	"github.com/riskibarqy/euroleague-sync/internal/config"
	"github.com/riskibarqy/euroleague-sync/internal/observability"
	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("syncd stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() { _ = stopProfiler() }()

	rt, err := app.NewRuntime(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("close runtime", "error", err)
		}
	}()

	debugSrv, err := observability.StartDebugServer(cfg, rt.Metrics.Registry(), logger)
	if err != nil {
		return fmt.Errorf("start debug server: %w", err)
	}
	defer func() {
		if err := observability.StopDebugServer(debugSrv, logger, shutdownTimeout); err != nil {
			logger.Warn("stop debug server", "error", err)
		}
	}()

	scheduler, err := app.NewScheduler(ctx, rt.Orchestrator, app.Schedules{
		Sync:        cfg.SyncCron,
		UpdateCheck: cfg.SyncUpdateCron,
		Roster:      cfg.SyncRosterCron,
	}, logger)
	if err != nil {
		return err
	}

	initResult, syncResult, err := rt.Orchestrator.Initialize(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "initial sync failed", "error", err)
	} else {
		logger.InfoContext(ctx, "initial sync done",
			"teams_seeded", initResult.TeamsSeeded,
			"matches_seeded", initResult.MatchesSeeded,
			"sync_skipped", syncResult.Skipped,
			"source", syncResult.Source,
		)
	}

	if cfg.SyncImportOnStart {
		failed := app.DrainImport(ctx, rt.Orchestrator.ImportSeason(ctx, cfg.SyncSeasonRounds), logger)
		if failed > 0 {
			logger.WarnContext(ctx, "season import incomplete", "failed_rounds", failed)
		}
	}

	scheduler.Start()
	logger.Info("sync scheduler started", "interval", cfg.SyncInterval.String())

	<-ctx.Done()
	logger.Info("shutdown requested")
	if !scheduler.Stop(shutdownTimeout) {
		logger.Warn("scheduled job still running at shutdown")
	}
	return nil
}
