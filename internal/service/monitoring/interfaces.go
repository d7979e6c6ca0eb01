package monitoring

import (
	"context"
	"time"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// SessionStore persists per-user activity sessions.
type SessionStore interface {
	// Get returns the session for a user, or nil when none exists yet.
	Get(ctx context.Context, userID string) (*monitoring.UserActivitySession, error)
	// Put writes the session document for its user, replacing the stored copy.
	Put(ctx context.Context, session *monitoring.UserActivitySession) error
}

// SecurityEventStore is the durable security-event collection.
type SecurityEventStore interface {
	// Append persists a new security event.
	Append(ctx context.Context, event *monitoring.SecurityEvent) error
	// ListByUser returns a user's events at or after since, newest first.
	ListByUser(ctx context.Context, userID string, since time.Time) ([]*monitoring.SecurityEvent, error)
	// CountByTypeSince returns per-type event counts at or after since.
	CountByTypeSince(ctx context.Context, since time.Time) (map[monitoring.EventType]int, error)
	// DeleteOlderThan removes a user's events older than cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) (int64, error)
	// DeleteExcess removes a user's oldest events beyond the newest keep
	// and returns how many were deleted.
	DeleteExcess(ctx context.Context, userID string, keep int) (int64, error)
}

// ErrorLogStore is the append-only internal failure log.
type ErrorLogStore interface {
	Append(ctx context.Context, entry *monitoring.ErrorLogEntry) error
}

// Notifier delivers security alert notifications. The engine builds
// subject and body only; delivery mechanics and credentials belong to the
// transport.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
