package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/standing"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

func intPtr(v int) *int { return &v }

func TestTeamRepository_UpsertPreservesFavorite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTeamRepository([]team.Team{{ID: "MAD", Name: "Real Madrid"}})
	require.NoError(t, repo.SetFavorite(ctx, "MAD", true))

	require.NoError(t, repo.Upsert(ctx, []team.Team{
		{ID: "MAD", Name: "Real Madrid Baloncesto", IsFavorite: false},
		{ID: "BAR", Name: "FC Barcelona"},
	}))

	got, ok, err := repo.GetByID(ctx, "MAD")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.IsFavorite)
	assert.Equal(t, "Real Madrid Baloncesto", got.Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTeamRepository_SetFavoriteUnknownTeam(t *testing.T) {
	t.Parallel()

	err := NewTeamRepository(nil).SetFavorite(context.Background(), "XXX", true)
	assert.True(t, errors.Is(err, team.ErrNotFound))
}

func TestMatchRepository_UpsertIsIdempotentAndReconciles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(nil)
	at := time.Date(2025, 10, 2, 18, 0, 0, 0, time.UTC)
	final := match.Match{ID: "E2025_1", HomeTeamID: "MAD", AwayTeamID: "BAR", ScheduledAt: at, Status: match.StatusFinished, HomeScore: intPtr(88), AwayScore: intPtr(80)}

	require.NoError(t, repo.Upsert(ctx, []match.Match{final}))
	require.NoError(t, repo.Upsert(ctx, []match.Match{final}))

	stale := final
	stale.Status = match.StatusScheduled
	stale.HomeScore, stale.AwayScore = nil, nil
	require.NoError(t, repo.Upsert(ctx, []match.Match{stale}))

	count, _ := repo.Count(ctx)
	assert.Equal(t, 1, count)
	got, ok, _ := repo.GetByID(ctx, "E2025_1")
	require.True(t, ok)
	assert.Equal(t, match.StatusFinished, got.Status)
	assert.Equal(t, 88, *got.HomeScore)
}

func TestMatchRepository_InvalidRowRejectsBatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMatchRepository(nil)
	at := time.Date(2025, 10, 2, 18, 0, 0, 0, time.UTC)

	err := repo.Upsert(ctx, []match.Match{
		{ID: "ok", HomeTeamID: "MAD", AwayTeamID: "BAR", ScheduledAt: at, Status: match.StatusScheduled},
		{ID: "bad", HomeTeamID: "MAD", ScheduledAt: at, Status: match.StatusScheduled},
	})
	require.Error(t, err)

	count, _ := repo.Count(ctx)
	assert.Zero(t, count)
}

func TestMatchRepository_ListFiltersByTeam(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	at := time.Date(2025, 10, 2, 18, 0, 0, 0, time.UTC)
	repo := NewMatchRepository([]match.Match{
		{ID: "2", HomeTeamID: "PAN", AwayTeamID: "MAD", ScheduledAt: at.Add(time.Hour), Status: match.StatusScheduled},
		{ID: "1", HomeTeamID: "MAD", AwayTeamID: "BAR", ScheduledAt: at, Status: match.StatusScheduled},
		{ID: "3", HomeTeamID: "OLY", AwayTeamID: "BAR", ScheduledAt: at, Status: match.StatusScheduled},
	})

	got, err := repo.List(ctx, match.Filter{TeamID: "MAD"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestStandingRepository_ReplaceValidatesPositions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStandingRepository()

	err := repo.ReplaceByPhase(ctx, "RS", []standing.Standing{{TeamID: "MAD", Position: 1}, {TeamID: "BAR", Position: 3}})
	require.Error(t, err)

	require.NoError(t, repo.ReplaceByPhase(ctx, "RS", []standing.Standing{{TeamID: "BAR", Position: 2}, {TeamID: "MAD", Position: 1}}))
	rows, err := repo.ListByPhase(ctx, "RS")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "MAD", rows[0].TeamID)
	assert.Equal(t, "RS", rows[0].Phase)
}

func TestSyncMetaRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewSyncMetaRepository()
	meta, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta.LastSyncAt)
	assert.False(t, meta.DataPopulated)

	at := time.Date(2025, 10, 2, 18, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkSynced(ctx, at))
	require.NoError(t, repo.MarkPopulated(ctx))

	meta, _ = repo.Get(ctx)
	require.NotNil(t, meta.LastSyncAt)
	assert.True(t, meta.LastSyncAt.Equal(at))
	assert.True(t, meta.DataPopulated)
}
