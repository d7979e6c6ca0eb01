package database

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/errors"
	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// ErrorLogRepository is the append-only store for internal monitoring
// failures. Entries are never pruned.
type ErrorLogRepository struct {
	db *pgxpool.Pool
}

// NewErrorLogRepository creates a PostgreSQL error log store.
func NewErrorLogRepository(db *pgxpool.Pool) *ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

// Append inserts a new error log entry.
func (r *ErrorLogRepository) Append(ctx context.Context, entry *monitoring.ErrorLogEntry) error {
	if entry == nil {
		return errors.NewValidationError("INVALID_ENTRY", "entry cannot be nil")
	}

	details, err := json.Marshal(entry.Details)
	if err != nil {
		return errors.NewInternalError("failed to marshal entry details").WithCause(err)
	}

	query := `
		INSERT INTO error_log (id, kind, details, environment, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query,
		entry.ID, entry.Kind, details, entry.Environment, entry.Timestamp,
	); err != nil {
		return errors.NewInternalError("failed to insert error log entry").WithCause(err)
	}

	return nil
}
