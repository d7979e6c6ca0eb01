package monitoring

import (
	"time"

	"github.com/google/uuid"
)

// Error log kinds. Each catch path in the monitoring engine records one of
// these; they are the only operator-visible signal of degradation.
const (
	ErrorKindTracking = "ACTIVITY_TRACKING_ERROR"
	ErrorKindAlert    = "ALERT_TRIGGER_ERROR"
	ErrorKindCleanup  = "CLEANUP_ERROR"
	ErrorKindReport   = "REPORT_ERROR"
)

// ErrorLogEntry is an append-only record of an internal monitoring failure.
// Entries are never pruned by retention.
type ErrorLogEntry struct {
	ID          uuid.UUID              `json:"id"`
	Kind        string                 `json:"kind"`
	Timestamp   time.Time              `json:"timestamp"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Environment string                 `json:"environment"`
}

// NewErrorLogEntry creates an error log entry for an internal failure.
func NewErrorLogEntry(kind, environment string, details map[string]interface{}, now time.Time) *ErrorLogEntry {
	return &ErrorLogEntry{
		ID:          uuid.New(),
		Kind:        kind,
		Timestamp:   now.UTC(),
		Details:     details,
		Environment: environment,
	}
}
