package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/dataversion"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

type StaticRefreshResult struct {
	Teams       int
	Matches     int
	TeamSource  string
	MatchSource string
	Version     string
}

// RefreshStaticData regenerates the static bundle from the remote sources and
// loads it into the store. It refuses to persist the emergency dataset or an
// empty calendar.
func (o *SyncOrchestrator) RefreshStaticData(ctx context.Context) (result StaticRefreshResult, err error) {
	if o.static == nil {
		return result, fmt.Errorf("%w: no static data configured", ErrStaticData)
	}
	if _, ok := o.hub.begin(&o.syncing, func(s *SyncState) { s.Syncing = true }); !ok {
		return result, ErrSyncInProgress
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.SyncOrchestrator.RefreshStaticData")
	defer func() { endSpan(span, err) }()
	started := o.now()
	defer func() {
		o.finishRun(syncKindStatic, started, runOutcome(err, false, false))
		o.hub.finish(&o.syncing, func(s *SyncState) {
			s.Syncing = false
			if err != nil {
				s.Error = err.Error()
			}
		})
	}()

	teams := o.chain.GetTeams(ctx)
	result.TeamSource = teams.Source
	if len(teams.Items) == 0 || teams.Source == SourceEmergency {
		return result, fmt.Errorf("%w: teams only available from %s, keeping current static data", ErrNoData, valueOr(teams.Source, "no source"))
	}
	matches := o.chain.GetMatches(ctx)
	result.MatchSource = matches.Source
	if len(matches.Items) == 0 {
		return result, fmt.Errorf("%w: no calendar available, keeping current static data: %s", ErrNoData, describeFailures(matches.Failures))
	}

	index := team.Index(teams.Items)
	enriched, dropped := o.enricher.EnrichBatch(ctx, matches.Items, index)
	o.metrics.ObserveDropped(syncKindStatic, dropped)

	totalRounds := 0
	for _, item := range enriched {
		totalRounds = max(totalRounds, item.Round)
	}
	version := o.nextStaticVersion(started)
	bundle := StaticBundle{
		Season:      o.cfg.Season,
		TotalRounds: totalRounds,
		Teams:       teams.Items,
		Matches:     enriched,
		Version:     version,
	}
	if err := o.static.Write(bundle); err != nil {
		return result, err
	}
	o.static.Reload()

	if err := o.store.Teams.Upsert(ctx, teams.Items); err != nil {
		return result, storeError("upsert refreshed teams", err)
	}
	if len(enriched) > 0 {
		if err := o.store.Matches.Upsert(ctx, enriched); err != nil {
			return result, storeError("upsert refreshed matches", err)
		}
	}
	if err := o.store.Meta.MarkPopulated(ctx); err != nil {
		return result, storeError("mark populated", err)
	}

	result.Teams = len(teams.Items)
	result.Matches = len(enriched)
	result.Version = version.Version
	o.logger.InfoContext(ctx, "static data refreshed",
		"teams", result.Teams,
		"matches", result.Matches,
		"team_source", result.TeamSource,
		"match_source", result.MatchSource,
		"version", result.Version,
	)
	return result, nil
}

// nextStaticVersion keeps the bundled policy and stamps a date-based version.
func (o *SyncOrchestrator) nextStaticVersion(at time.Time) dataversion.DataVersion {
	version := dataversion.DataVersion{}
	if current, err := o.static.LoadVersion(); err == nil {
		version = current
	}
	version.Version = at.UTC().Format("2006.01.02.150405")
	version.LastUpdated = at.UTC().Format(time.RFC3339)
	version.Description = "regenerated from " + SourceOfficial + " data"
	if version.StaticVersions == nil {
		version.StaticVersions = map[string]string{}
	}
	version.StaticVersions["teams"] = version.Version
	version.StaticVersions["matches"] = version.Version
	return version
}
