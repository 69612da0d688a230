package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/euroleague-sync/internal/domain/roster"
	"github.com/riskibarqy/euroleague-sync/internal/platform/resilience"
)

type RosterSyncResult struct {
	TeamID string
	People int
	Err    error
}

// SyncRoster replaces a club's squad with the players and coaches reported by
// the official API.
func (o *SyncOrchestrator) SyncRoster(ctx context.Context, teamCode string) (count int, err error) {
	teamCode = strings.ToUpper(strings.TrimSpace(teamCode))
	if teamCode == "" {
		return 0, fmt.Errorf("%w: team code is required", ErrInvalidInput)
	}
	if o.remote == nil {
		return 0, fmt.Errorf("%w: official client not configured", ErrDependencyUnavailable)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestrator.SyncRoster")
	defer func() { endSpan(span, err) }()

	people, err := resilience.Run(ctx, o.retrier, func(ctx context.Context) ([]roster.Person, error) {
		return o.remote.FetchRoster(ctx, o.cfg.Season, teamCode)
	})
	if err != nil {
		return 0, fmt.Errorf("fetch roster %s: %w", teamCode, err)
	}

	kept := roster.Filter(people)
	for i := range kept {
		kept[i].TeamID = teamCode
	}
	o.metrics.ObserveDropped(syncKindRoster, len(people)-len(kept))
	if err := o.store.Rosters.ReplaceByTeam(ctx, teamCode, kept); err != nil {
		return 0, storeError("replace roster "+teamCode, err)
	}
	return len(kept), nil
}

// SyncAllRosters refreshes every known club concurrently, bounded by the
// report worker count. Per-team failures are returned in the results.
func (o *SyncOrchestrator) SyncAllRosters(ctx context.Context) ([]RosterSyncResult, error) {
	teams, err := o.store.Teams.List(ctx)
	if err != nil {
		return nil, storeError("list teams", err)
	}

	started := o.now()
	p := pool.NewWithResults[RosterSyncResult]().WithMaxGoroutines(o.cfg.ReportWorkers)
	for _, item := range teams {
		teamID := item.ID
		p.Go(func() RosterSyncResult {
			if err := ctx.Err(); err != nil {
				return RosterSyncResult{TeamID: teamID, Err: err}
			}
			n, err := o.SyncRoster(ctx, teamID)
			if err != nil {
				o.logger.WarnContext(ctx, "roster sync failed", "team_id", teamID, "error", err)
			}
			return RosterSyncResult{TeamID: teamID, People: n, Err: err}
		})
	}
	results := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].TeamID < results[j].TeamID })

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	o.finishRun(syncKindRoster, started, runOutcome(nil, false, failed > 0))
	return results, nil
}
