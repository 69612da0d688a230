package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

// SyncTriggers is the function-call surface the scheduler drives.
type SyncTriggers interface {
	SyncNow(ctx context.Context, force bool) (usecase.SyncResult, error)
	CheckForUpdates(ctx context.Context) (usecase.UpdateCheckResult, error)
	RefreshStaticData(ctx context.Context) (usecase.StaticRefreshResult, error)
	SyncAllRosters(ctx context.Context) ([]usecase.RosterSyncResult, error)
}

// Schedules holds cron expressions. An empty UpdateCheck or Roster schedule
// leaves that job out.
type Schedules struct {
	Sync        string
	UpdateCheck string
	Roster      string
}

type Scheduler struct {
	ctx      context.Context
	triggers SyncTriggers
	cron     *cron.Cron
	logger   *logging.Logger
}

// NewScheduler registers the jobs. Every job runs with ctx, so cancelling it
// aborts in-flight work.
func NewScheduler(ctx context.Context, triggers SyncTriggers, schedules Schedules, logger *logging.Logger) (*Scheduler, error) {
	s := &Scheduler{
		ctx:      ctx,
		triggers: triggers,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		logger:   logging.OrDefault(logger).Named("scheduler"),
	}

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{name: "sync", spec: schedules.Sync, run: s.runSync},
		{name: "update_check", spec: schedules.UpdateCheck, run: s.runUpdateCheck},
		{name: "roster", spec: schedules.Roster, run: s.runRosterSync},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", job.name, job.spec, err)
		}
		s.logger.Info("job scheduled", "job", job.name, "schedule", job.spec)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits up to timeout for a running job. It
// reports whether every job finished in time.
func (s *Scheduler) Stop(timeout time.Duration) bool {
	select {
	case <-s.cron.Stop().Done():
		return true
	case <-time.After(timeout):
		return false
	}
}

func (s *Scheduler) runSync() {
	result, err := s.triggers.SyncNow(s.ctx, false)
	if err != nil {
		s.logger.ErrorContext(s.ctx, "scheduled sync failed", "run_id", result.RunID, "error", err)
		return
	}
	if result.Skipped {
		s.logger.DebugContext(s.ctx, "scheduled sync skipped", "reason", result.Reason)
		return
	}
	s.logger.InfoContext(s.ctx, "scheduled sync done",
		"run_id", result.RunID,
		"source", result.Source,
		"matches", result.MatchesUpserted,
		"dropped", result.Dropped,
	)
}

// runUpdateCheck regenerates the static bundle only when the published data
// version is newer than the cached one.
func (s *Scheduler) runUpdateCheck() {
	check, err := s.triggers.CheckForUpdates(s.ctx)
	if err != nil {
		s.logger.WarnContext(s.ctx, "update check failed", "error", err)
		return
	}
	if !check.HasStaticUpdates {
		s.logger.DebugContext(s.ctx, "static data up to date", "current", check.CurrentVersion, "message", check.Message)
		return
	}

	refresh, err := s.triggers.RefreshStaticData(s.ctx)
	if err != nil {
		s.logger.WarnContext(s.ctx, "static refresh failed", "latest", check.LatestVersion, "error", err)
		return
	}
	s.logger.InfoContext(s.ctx, "static data refreshed",
		"from", check.CurrentVersion,
		"to", refresh.Version,
		"teams", refresh.Teams,
		"matches", refresh.Matches,
	)
}

func (s *Scheduler) runRosterSync() {
	results, err := s.triggers.SyncAllRosters(s.ctx)
	if err != nil {
		s.logger.WarnContext(s.ctx, "roster sync failed", "error", err)
		return
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	s.logger.InfoContext(s.ctx, "roster sync done", "teams", len(results), "failed", failed)
}

// DrainImport consumes a season import and returns the number of failed
// rounds.
func DrainImport(ctx context.Context, progress <-chan usecase.ImportProgress, logger *logging.Logger) int {
	logger = logging.OrDefault(logger)

	failed := 0
	for p := range progress {
		if p.Err != nil {
			failed++
			logger.WarnContext(ctx, "round import failed", "round", p.Round, "error", p.Err)
			continue
		}
		logger.DebugContext(ctx, "round imported", "round", p.Round, "total", p.Total, "imported", p.Imported)
	}
	return failed
}
