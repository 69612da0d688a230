package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/euroleague-sync/internal/domain/match"
	"github.com/riskibarqy/euroleague-sync/internal/domain/team"
)

func collect(ch <-chan ImportProgress) []ImportProgress {
	var out []ImportProgress
	for p := range ch {
		out = append(out, p)
	}
	return out
}

func TestImportSeason_ContinuesPastFailedRound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.store.Teams.Upsert(ctx, seedTeams()))
	f.rounds.byRound = map[int][]RawMatch{
		1: {rawGame("E2025_1", "MAD", "BAR", testNow, "", nil, nil), rawGame("E2025_2", "PAN", "OLY", testNow, "", nil, nil)},
		3: {rawGame("E2025_5", "BAR", "PAN", testNow.Add(48*time.Hour), "", nil, nil)},
	}
	f.rounds.errs = map[int]error{2: &RemoteError{StatusCode: 404}}
	o := f.build()

	progress := collect(o.ImportSeason(ctx, 3))

	require.Len(t, progress, 3)
	assert.Equal(t, 2, progress[0].Imported)
	assert.Error(t, progress[1].Err)
	assert.Equal(t, 3, progress[2].Imported)
	assert.True(t, progress[2].Done)
	assert.Equal(t, []int{1, 2, 3}, f.rounds.calls)

	count, _ := f.store.Matches.Count(ctx)
	assert.Equal(t, 3, count)
	assert.False(t, o.IsSyncing())
	assert.Contains(t, o.State().Error, "1 of 3 rounds failed")
}

func TestImportSeason_CancellationStopsBeforeNextRound(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := newFixture()
	f.rounds.byRound = map[int][]RawMatch{1: {rawGame("E2025_1", "MAD", "BAR", testNow, "", nil, nil)}}
	f.rounds.onFetch = func(round int) {
		if round == 1 {
			cancel()
		}
	}
	o := f.build()

	progress := collect(o.ImportSeason(ctx, 3))

	require.Len(t, progress, 2)
	assert.NoError(t, progress[0].Err)
	assert.Equal(t, 1, progress[0].Imported)
	assert.True(t, errors.Is(progress[1].Err, context.Canceled))
	assert.True(t, progress[1].Done)
	assert.Equal(t, []int{1}, f.rounds.calls)
}

func TestImportSeason_RejectsWhileSyncing(t *testing.T) {
	t.Parallel()

	f := newFixture()
	o := f.build()
	o.syncing.Store(true)

	progress := collect(o.ImportSeason(context.Background(), 2))

	require.Len(t, progress, 1)
	assert.True(t, errors.Is(progress[0].Err, ErrSyncInProgress))
	assert.Empty(t, f.rounds.calls)
}

func TestRefreshStaticData_RefusesEmergencyTeams(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.official.err = &RemoteError{StatusCode: 500}
	f.feed.err = &RemoteError{StatusCode: 500}
	o := f.build()

	_, err := o.RefreshStaticData(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Empty(t, f.static.written)
}

func TestRefreshStaticData_WritesBundleAndLoadsStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture()
	f.official.teams = []team.Team{{ID: "MAD", Name: "Real Madrid"}, {ID: "BAR", Name: "FC Barcelona"}}
	game := rawGame("E2025_1", "MAD", "BAR", testNow, "", nil, nil)
	game.Round = 12
	f.official.matches = []RawMatch{game}
	o := f.build()

	result, err := o.RefreshStaticData(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Teams)
	assert.Equal(t, 1, result.Matches)
	assert.Equal(t, SourceOfficial, result.TeamSource)

	require.Len(t, f.static.written, 1)
	bundle := f.static.written[0]
	assert.Equal(t, 12, bundle.TotalRounds)
	assert.Equal(t, "E2025", bundle.Season)
	assert.Equal(t, result.Version, bundle.Version.Version)
	assert.Equal(t, 1, f.static.reloads)

	got, ok, _ := f.store.Matches.GetByID(ctx, "E2025_1")
	require.True(t, ok)
	assert.Equal(t, match.StatusScheduled, got.Status)
}
