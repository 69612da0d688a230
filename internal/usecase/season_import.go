package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

// ImportProgress is emitted once per processed round. Done marks the last
// value before the channel closes.
type ImportProgress struct {
	Round    int
	Total    int
	Imported int
	Err      error
	Done     bool
}

// ImportSeason walks the calendar round by round through the round source and
// upserts each round as one batch. A failed round is reported and the import
// moves on; cancellation stops it before the next round.
func (o *SyncOrchestrator) ImportSeason(ctx context.Context, totalRounds int) <-chan ImportProgress {
	if totalRounds < 1 {
		totalRounds = o.cfg.SeasonRounds
	}
	out := make(chan ImportProgress, totalRounds+1)

	if o.rounds == nil {
		out <- ImportProgress{Total: totalRounds, Err: fmt.Errorf("%w: no round source configured", ErrDependencyUnavailable), Done: true}
		close(out)
		return out
	}
	if _, ok := o.hub.begin(&o.syncing, func(s *SyncState) {
		s.Syncing = true
		s.Importing = true
	}); !ok {
		out <- ImportProgress{Total: totalRounds, Err: ErrSyncInProgress, Done: true}
		close(out)
		return out
	}

	go func() {
		defer close(out)
		o.runImport(ctx, totalRounds, out)
	}()
	return out
}

func (o *SyncOrchestrator) runImport(ctx context.Context, totalRounds int, out chan<- ImportProgress) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestrator.ImportSeason")
	defer span.End()

	started := o.now()

	var (
		imported   int
		failed     int
		storeFault error
	)
	defer func() {
		o.finishRun(syncKindImport, started, runOutcome(storeFault, false, failed > 0))
		o.hub.finish(&o.syncing, func(s *SyncState) {
			s.Syncing = false
			s.Importing = false
			switch {
			case storeFault != nil:
				s.Error = storeFault.Error()
			case failed > 0:
				s.Error = fmt.Sprintf("season import: %d of %d rounds failed", failed, totalRounds)
			}
		})
		o.logger.InfoContext(ctx, "season import finished", "rounds", totalRounds, "imported", imported, "failed_rounds", failed)
	}()

	teams, err := o.store.Teams.List(ctx)
	if err != nil {
		storeFault = storeError("list teams", err)
		out <- ImportProgress{Total: totalRounds, Err: storeFault, Done: true}
		return
	}
	index := team.Index(teams)

	for round := 1; round <= totalRounds; round++ {
		if err := ctx.Err(); err != nil {
			out <- ImportProgress{Round: round, Total: totalRounds, Imported: imported, Err: err, Done: true}
			return
		}

		progress := ImportProgress{Round: round, Total: totalRounds, Done: round == totalRounds}
		count, err := o.importRound(ctx, round, index)
		if err != nil {
			failed++
			progress.Err = err
			o.logger.WarnContext(ctx, "season import round failed", "round", round, "error", err)
			if isStoreError(err) {
				storeFault = err
				progress.Done = true
			}
		}
		imported += count
		progress.Imported = imported
		out <- progress
		if progress.Done {
			return
		}

		if o.cfg.RoundPause > 0 && !sleepContext(ctx, o.cfg.RoundPause) {
			out <- ImportProgress{Round: round, Total: totalRounds, Imported: imported, Err: ctx.Err(), Done: true}
			return
		}
	}
}

func (o *SyncOrchestrator) importRound(ctx context.Context, round int, index map[string]team.Team) (int, error) {
	raws, err := resilience.Run(ctx, o.retrier, func(ctx context.Context) ([]RawMatch, error) {
		return o.rounds.FetchRound(ctx, round)
	})
	if err != nil {
		return 0, fmt.Errorf("fetch round %d: %w", round, err)
	}

	matches, dropped := o.enricher.EnrichBatch(ctx, raws, index)
	o.metrics.ObserveDropped(syncKindImport, dropped)
	if len(matches) == 0 {
		return 0, nil
	}
	if err := o.store.Matches.Upsert(ctx, matches); err != nil {
		return 0, storeError(fmt.Sprintf("upsert round %d", round), err)
	}
	return len(matches), nil
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
