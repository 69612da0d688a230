package match

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusFinished  Status = "FINISHED"
	StatusPostponed Status = "POSTPONED"
	StatusCancelled Status = "CANCELLED"
)

// Match is one game of the season calendar.
type Match struct {
	ID           string
	HomeTeamID   string
	HomeTeamName string
	HomeTeamLogo string
	AwayTeamID   string
	AwayTeamName string
	AwayTeamLogo string
	ScheduledAt  time.Time
	Venue        string
	Round        int
	RoundName    string
	Phase        string
	Season       string
	Status       Status
	HomeScore    *int
	AwayScore    *int
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	TeamID string
	Status Status
	Round  int
	From   *time.Time
	To     *time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("match id is required")
	}
	if strings.TrimSpace(m.HomeTeamID) == "" || strings.TrimSpace(m.AwayTeamID) == "" {
		return fmt.Errorf("match %s requires both team ids", m.ID)
	}
	if m.ScheduledAt.IsZero() {
		return fmt.Errorf("match %s requires a scheduled date", m.ID)
	}
	if !IsKnownStatus(m.Status) {
		return fmt.Errorf("match %s has unknown status %q", m.ID, m.Status)
	}

	return nil
}

// Normalize clears scores for statuses that cannot carry them.
func (m Match) Normalize() Match {
	m.Status = NormalizeStatus(string(m.Status))
	if m.Status != StatusFinished && m.Status != StatusLive {
		m.HomeScore = nil
		m.AwayScore = nil
	}
	return m
}

// HasFinalScore reports whether the match carries an authoritative result.
func (m Match) HasFinalScore() bool {
	if m.Status != StatusFinished || m.HomeScore == nil || m.AwayScore == nil {
		return false
	}
	return *m.HomeScore != 0 || *m.AwayScore != 0
}

// Reconcile merges an incoming copy into the stored one. A stored final
// result survives an incoming copy that has none; everything else is
// taken from incoming.
func Reconcile(existing, incoming Match) Match {
	merged := incoming.Normalize()
	if existing.HasFinalScore() && !merged.HasFinalScore() {
		merged.Status = StatusFinished
		merged.HomeScore = cloneInt(existing.HomeScore)
		merged.AwayScore = cloneInt(existing.AwayScore)
	}
	return merged
}

func (f Filter) Matches(m Match) bool {
	if f.TeamID != "" && m.HomeTeamID != f.TeamID && m.AwayTeamID != f.TeamID {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.Round > 0 && m.Round != f.Round {
		return false
	}
	if f.From != nil && m.ScheduledAt.Before(*f.From) {
		return false
	}
	if f.To != nil && m.ScheduledAt.After(*f.To) {
		return false
	}
	return true
}

func NormalizeStatus(value string) Status {
	status := Status(strings.ToUpper(strings.TrimSpace(value)))
	if status == "" || !IsKnownStatus(status) {
		return StatusScheduled
	}
	return status
}

func IsKnownStatus(status Status) bool {
	switch status {
	case StatusScheduled, StatusLive, StatusFinished, StatusPostponed, StatusCancelled:
		return true
	default:
		return false
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
