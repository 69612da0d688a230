package usecase

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateHub_BeginAndFinishMoveFlagWithState(t *testing.T) {
	t.Parallel()

	hub := newStateHub()
	var flag atomic.Bool

	state, ok := hub.begin(&flag, func(s *SyncState) { s.Syncing = true })
	assert.True(t, ok)
	assert.True(t, state.Syncing)
	assert.True(t, flag.Load())

	rejected, ok := hub.begin(&flag, func(s *SyncState) { s.Syncing = true })
	assert.False(t, ok)
	assert.True(t, rejected.Syncing)
	assert.Equal(t, SyncStatusSyncing, rejected.Status)

	done := hub.finish(&flag, func(s *SyncState) { s.Syncing = false })
	assert.False(t, done.Syncing)
	assert.False(t, flag.Load())

	again, ok := hub.begin(&flag, func(s *SyncState) { s.Syncing = true })
	assert.True(t, ok)
	assert.True(t, again.Syncing)
}

func TestStateHub_RejectedCallerNeverSeesIdleWhileFlagHeld(t *testing.T) {
	t.Parallel()

	hub := newStateHub()
	var flag atomic.Bool

	for i := 0; i < 100; i++ {
		_, ok := hub.begin(&flag, func(s *SyncState) { s.Syncing = true })
		assert.True(t, ok)

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			hub.finish(&flag, func(s *SyncState) { s.Syncing = false })
		}()

		if state, ok := hub.begin(&flag, func(s *SyncState) { s.Syncing = true }); ok {
			// Won the race after finish; release for the next round.
			<-finished
			hub.finish(&flag, func(s *SyncState) { s.Syncing = false })
		} else {
			assert.True(t, state.Syncing)
			<-finished
		}
	}
}
