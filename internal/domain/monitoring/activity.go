package monitoring

import (
	"time"
)

// ActivityEvent is a single recorded user action. Immutable once created.
type ActivityEvent struct {
	Action    Action                 `json:"action"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// UserActivitySession holds the rolling activity state for one user.
// It is read, mutated in memory, and written back on every recorded
// activity; concurrent writers for the same user may undercount. That
// read-modify-write race is accepted for best-effort abuse detection.
type UserActivitySession struct {
	UserID           string          `json:"user_id"`
	Activities       []ActivityEvent `json:"activities"`
	AuthFailureCount int             `json:"auth_failure_count"`
	PHIAccessCount   int             `json:"phi_access_count"`
	LastActivity     time.Time       `json:"last_activity"`
}

// NewSession creates an empty session for a user. Sessions are created
// lazily on the first recorded event.
func NewSession(userID string) *UserActivitySession {
	return &UserActivitySession{
		UserID:     userID,
		Activities: make([]ActivityEvent, 0, 8),
	}
}

// Append adds an event in insertion order and updates the derived counters.
func (s *UserActivitySession) Append(ev ActivityEvent) {
	s.Activities = append(s.Activities, ev)
	s.LastActivity = ev.Timestamp
	if ev.Action.IsAuthFailure() {
		s.AuthFailureCount++
	}
	if ev.Action.IsPHIAccess() {
		s.PHIAccessCount++
	}
}

// PruneBefore drops activities older than cutoff and returns how many were
// removed. Counters are cumulative session stats and are not decremented.
func (s *UserActivitySession) PruneBefore(cutoff time.Time) int {
	if len(s.Activities) == 0 {
		return 0
	}
	kept := s.Activities[:0]
	removed := 0
	for _, ev := range s.Activities {
		if ev.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	s.Activities = kept
	return removed
}

// CountInWindow counts activities at or after cutoff matching the predicate.
// A nil predicate matches every activity.
func (s *UserActivitySession) CountInWindow(cutoff time.Time, match func(Action) bool) int {
	count := 0
	for _, ev := range s.Activities {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		if match == nil || match(ev.Action) {
			count++
		}
	}
	return count
}
