package usecase

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	SyncStatusReady           = "ready"
	SyncStatusInitializing    = "initializing"
	SyncStatusSyncing         = "syncing"
	SyncStatusCheckingUpdates = "checking_updates"
	SyncStatusImporting       = "importing"
	SyncStatusFailed          = "failed"
)

// SyncState is the observable progress of the orchestrator. It lives only in
// memory.
type SyncState struct {
	Initializing    bool
	Syncing         bool
	CheckingUpdates bool
	// Importing is set together with Syncing during a season import.
	Importing       bool
	Status          string
	Error           string
	LastSyncAt      *time.Time
	LastSyncSuccess bool
}

func (s SyncState) Busy() bool {
	return s.Initializing || s.Syncing || s.CheckingUpdates
}

// stateHub owns the state and fans every change out to subscribers. Each
// subscriber channel holds at most the latest snapshot.
type stateHub struct {
	mu    sync.Mutex
	state SyncState
	subs  map[int]chan SyncState
	next  int
}

func newStateHub() *stateHub {
	return &stateHub{
		state: SyncState{Status: SyncStatusReady},
		subs:  make(map[int]chan SyncState),
	}
}

func (h *stateHub) snapshot() SyncState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneState(h.state)
}

func (h *stateHub) update(fn func(*SyncState)) SyncState {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(&h.state)
	return h.publishLocked()
}

// begin claims flag and applies fn under the hub lock. A caller that loses
// the claim gets a snapshot that still shows the owning run.
func (h *stateHub) begin(flag *atomic.Bool, fn func(*SyncState)) (SyncState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !flag.CompareAndSwap(false, true) {
		return cloneState(h.state), false
	}
	fn(&h.state)
	return h.publishLocked(), true
}

// finish applies fn and releases flag under the hub lock, pairing with begin.
func (h *stateHub) finish(flag *atomic.Bool, fn func(*SyncState)) SyncState {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn(&h.state)
	flag.Store(false)
	return h.publishLocked()
}

func (h *stateHub) publishLocked() SyncState {
	h.state.Status = deriveStatus(h.state)
	current := cloneState(h.state)
	for _, ch := range h.subs {
		publishLatest(ch, current)
	}
	return current
}

func (h *stateHub) subscribe() (<-chan SyncState, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan SyncState, 1)
	ch <- cloneState(h.state)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// publishLatest replaces any unread snapshot. Only called under h.mu, so
// there is a single writer per channel.
func publishLatest(ch chan SyncState, state SyncState) {
	select {
	case <-ch:
	default:
	}
	ch <- state
}

func deriveStatus(s SyncState) string {
	switch {
	case s.Initializing:
		return SyncStatusInitializing
	case s.Syncing:
		if s.Importing {
			return SyncStatusImporting
		}
		return SyncStatusSyncing
	case s.CheckingUpdates:
		return SyncStatusCheckingUpdates
	case s.Error != "" && !s.LastSyncSuccess:
		return SyncStatusFailed
	default:
		return SyncStatusReady
	}
}

func cloneState(s SyncState) SyncState {
	if s.LastSyncAt != nil {
		at := *s.LastSyncAt
		s.LastSyncAt = &at
	}
	return s
}
