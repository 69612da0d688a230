package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/euroleague-sync/internal/domain/syncmeta"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

const DefaultSyncInterval = 24 * time.Hour

const (
	SyncReasonForced       = "forced"
	SyncReasonNotPopulated = "not_populated"
	SyncReasonNoTeams      = "no_teams"
	SyncReasonNeverSynced  = "never_synced"
	SyncReasonStale        = "stale"
	SyncReasonFresh        = "fresh"
)

type SyncDecision struct {
	Needed     bool
	Reason     string
	LastSyncAt *time.Time
}

// DataSyncPolicy decides whether dynamic data is due for a refresh.
type DataSyncPolicy struct {
	teams    team.Repository
	meta     syncmeta.Repository
	interval time.Duration
	now      func() time.Time
}

func NewDataSyncPolicy(teams team.Repository, meta syncmeta.Repository, interval time.Duration) *DataSyncPolicy {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &DataSyncPolicy{
		teams:    teams,
		meta:     meta,
		interval: interval,
		now:      time.Now,
	}
}

// WithClock swaps the time source.
func (p *DataSyncPolicy) WithClock(now func() time.Time) *DataSyncPolicy {
	if now != nil {
		p.now = now
	}
	return p
}

func (p *DataSyncPolicy) Interval() time.Duration {
	return p.interval
}

func (p *DataSyncPolicy) IsSyncNeeded(ctx context.Context, force bool) (SyncDecision, error) {
	meta, err := p.meta.Get(ctx)
	if err != nil {
		return SyncDecision{Needed: true}, storeError("read sync meta", err)
	}
	decision := SyncDecision{LastSyncAt: meta.LastSyncAt}

	if force {
		decision.Needed, decision.Reason = true, SyncReasonForced
		return decision, nil
	}
	if !meta.DataPopulated {
		decision.Needed, decision.Reason = true, SyncReasonNotPopulated
		return decision, nil
	}

	count, err := p.teams.Count(ctx)
	if err != nil {
		return SyncDecision{Needed: true}, storeError("count teams", err)
	}
	switch {
	case count == 0:
		decision.Needed, decision.Reason = true, SyncReasonNoTeams
	case meta.LastSyncAt == nil:
		decision.Needed, decision.Reason = true, SyncReasonNeverSynced
	case p.now().Sub(*meta.LastSyncAt) >= p.interval:
		decision.Needed, decision.Reason = true, SyncReasonStale
	default:
		decision.Reason = SyncReasonFresh
	}
	return decision, nil
}
