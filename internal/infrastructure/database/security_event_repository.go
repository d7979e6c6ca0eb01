package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/errors"
	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// SecurityEventRepository stores security events in PostgreSQL. It backs
// both alert persistence and the dual retention policy: age-based purge
// and the per-user count cap.
type SecurityEventRepository struct {
	db *pgxpool.Pool
}

// NewSecurityEventRepository creates a PostgreSQL security-event store.
func NewSecurityEventRepository(db *pgxpool.Pool) *SecurityEventRepository {
	return &SecurityEventRepository{db: db}
}

// Append persists a new security event.
func (r *SecurityEventRepository) Append(ctx context.Context, event *monitoring.SecurityEvent) error {
	if event == nil {
		return errors.NewValidationError("INVALID_EVENT", "event cannot be nil")
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		return errors.NewInternalError("failed to marshal event details").WithCause(err)
	}

	query := `
		INSERT INTO security_events (id, event_type, severity, user_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.Exec(ctx, query,
		event.ID, string(event.Type), string(event.Severity),
		event.UserID, details, event.Timestamp,
	); err != nil {
		return errors.NewInternalError("failed to insert security event").WithCause(err)
	}

	return nil
}

// ListByUser returns a user's events at or after since, newest first.
func (r *SecurityEventRepository) ListByUser(ctx context.Context, userID string, since time.Time) ([]*monitoring.SecurityEvent, error) {
	query := `
		SELECT id, event_type, severity, user_id, details, created_at
		FROM security_events
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID, since)
	if err != nil {
		return nil, errors.NewInternalError("failed to query security events").WithCause(err)
	}
	defer rows.Close()

	var events []*monitoring.SecurityEvent
	for rows.Next() {
		var (
			event       monitoring.SecurityEvent
			eventType   string
			severity    string
			detailsJSON []byte
		)
		if err := rows.Scan(&event.ID, &eventType, &severity, &event.UserID, &detailsJSON, &event.Timestamp); err != nil {
			return nil, errors.NewInternalError("failed to scan security event").WithCause(err)
		}
		event.Type = monitoring.EventType(eventType)
		event.Severity = monitoring.Severity(severity)
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &event.Details); err != nil {
				return nil, errors.NewInternalError("failed to unmarshal event details").WithCause(err)
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read security events").WithCause(err)
	}

	return events, nil
}

// CountByTypeSince returns per-type event counts at or after since.
func (r *SecurityEventRepository) CountByTypeSince(ctx context.Context, since time.Time) (map[monitoring.EventType]int, error) {
	query := `
		SELECT event_type, COUNT(*)
		FROM security_events
		WHERE created_at >= $1
		GROUP BY event_type
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, errors.NewInternalError("failed to count security events").WithCause(err)
	}
	defer rows.Close()

	counts := make(map[monitoring.EventType]int)
	for rows.Next() {
		var (
			eventType string
			count     int
		)
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, errors.NewInternalError("failed to scan event count").WithCause(err)
		}
		counts[monitoring.EventType(eventType)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read event counts").WithCause(err)
	}

	return counts, nil
}

// DeleteOlderThan batch-deletes a user's events older than cutoff.
func (r *SecurityEventRepository) DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM security_events WHERE user_id = $1 AND created_at < $2`,
		userID, cutoff)
	if err != nil {
		return 0, errors.NewInternalError("failed to delete expired events").WithCause(err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExcess batch-deletes a user's oldest events beyond the newest keep.
func (r *SecurityEventRepository) DeleteExcess(ctx context.Context, userID string, keep int) (int64, error) {
	query := `
		DELETE FROM security_events
		WHERE user_id = $1 AND id NOT IN (
			SELECT id FROM security_events
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		)
	`
	tag, err := r.db.Exec(ctx, query, userID, keep)
	if err != nil {
		return 0, errors.NewInternalError("failed to delete excess events").WithCause(err)
	}
	return tag.RowsAffected(), nil
}
