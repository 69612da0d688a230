package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/euroleague-sync/internal/platform/logging"
	"github.com/riskibarqy/euroleague-sync/internal/usecase"
)

type triggersMock struct {
	mock.Mock
}

func (m *triggersMock) SyncNow(ctx context.Context, force bool) (usecase.SyncResult, error) {
	args := m.Called(ctx, force)
	return args.Get(0).(usecase.SyncResult), args.Error(1)
}

func (m *triggersMock) CheckForUpdates(ctx context.Context) (usecase.UpdateCheckResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(usecase.UpdateCheckResult), args.Error(1)
}

func (m *triggersMock) RefreshStaticData(ctx context.Context) (usecase.StaticRefreshResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(usecase.StaticRefreshResult), args.Error(1)
}

func (m *triggersMock) SyncAllRosters(ctx context.Context) ([]usecase.RosterSyncResult, error) {
	args := m.Called(ctx)
	return args.Get(0).([]usecase.RosterSyncResult), args.Error(1)
}

func TestNewScheduler_SkipsDisabledJobs(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(context.Background(), &triggersMock{}, Schedules{Sync: "@every 1h"}, logging.NewNop())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)

	s, err = NewScheduler(context.Background(), &triggersMock{}, Schedules{Sync: "@every 1h", UpdateCheck: "@daily", Roster: "@weekly"}, logging.NewNop())
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 3)
}

func TestNewScheduler_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	_, err := NewScheduler(context.Background(), &triggersMock{}, Schedules{Sync: "@every 1h", Roster: "every tuesday"}, logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roster")
}

func TestScheduler_SyncNeverForces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	triggers := &triggersMock{}
	triggers.On("SyncNow", ctx, false).Return(usecase.SyncResult{Skipped: true, Reason: "fresh"}, nil).Once()

	s, err := NewScheduler(ctx, triggers, Schedules{Sync: "@every 1h"}, logging.NewNop())
	require.NoError(t, err)
	s.runSync()

	triggers.AssertExpectations(t)
}

func TestScheduler_UpdateCheckRefreshesOnlyWhenNewer(t *testing.T) {
	t.Parallel()

	t.Run("up to date", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		triggers := &triggersMock{}
		triggers.On("CheckForUpdates", ctx).Return(usecase.UpdateCheckResult{Message: "no update"}, nil).Once()

		s, err := NewScheduler(ctx, triggers, Schedules{Sync: "@every 1h"}, logging.NewNop())
		require.NoError(t, err)
		s.runUpdateCheck()

		triggers.AssertExpectations(t)
		triggers.AssertNotCalled(t, "RefreshStaticData", mock.Anything)
	})

	t.Run("newer version", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		triggers := &triggersMock{}
		triggers.On("CheckForUpdates", ctx).Return(usecase.UpdateCheckResult{HasStaticUpdates: true, CurrentVersion: "1.0.0", LatestVersion: "1.1.0"}, nil).Once()
		triggers.On("RefreshStaticData", ctx).Return(usecase.StaticRefreshResult{Version: "1.1.0", Teams: 18, Matches: 306}, nil).Once()

		s, err := NewScheduler(ctx, triggers, Schedules{Sync: "@every 1h"}, logging.NewNop())
		require.NoError(t, err)
		s.runUpdateCheck()

		triggers.AssertExpectations(t)
	})

	t.Run("check fails", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		triggers := &triggersMock{}
		triggers.On("CheckForUpdates", ctx).Return(usecase.UpdateCheckResult{}, usecase.ErrTransport).Once()

		s, err := NewScheduler(ctx, triggers, Schedules{Sync: "@every 1h"}, logging.NewNop())
		require.NoError(t, err)
		s.runUpdateCheck()

		triggers.AssertNotCalled(t, "RefreshStaticData", mock.Anything)
	})
}

func TestScheduler_RosterSync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	triggers := &triggersMock{}
	triggers.On("SyncAllRosters", ctx).Return([]usecase.RosterSyncResult{
		{TeamID: "MAD", People: 17},
		{TeamID: "BAR", Err: usecase.ErrTransport},
	}, nil).Once()

	s, err := NewScheduler(ctx, triggers, Schedules{Sync: "@every 1h", Roster: "@weekly"}, logging.NewNop())
	require.NoError(t, err)
	s.runRosterSync()

	triggers.AssertExpectations(t)
}

func TestScheduler_StopWithoutRunningJobs(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(context.Background(), &triggersMock{}, Schedules{Sync: "@every 1h"}, logging.NewNop())
	require.NoError(t, err)
	s.Start()
	assert.True(t, s.Stop(time.Second))
}

func TestDrainImport_CountsFailedRounds(t *testing.T) {
	t.Parallel()

	progress := make(chan usecase.ImportProgress, 3)
	progress <- usecase.ImportProgress{Round: 1, Total: 3, Imported: 9}
	progress <- usecase.ImportProgress{Round: 2, Total: 3, Imported: 9, Err: errors.New("round 2: timeout")}
	progress <- usecase.ImportProgress{Round: 3, Total: 3, Imported: 18, Done: true}
	close(progress)

	assert.Equal(t, 1, DrainImport(context.Background(), progress, logging.NewNop()))
}
