package monitoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/errors"
)

// EventType classifies a security event.
type EventType string

const (
	EventRateLimitExceeded     EventType = "RATE_LIMIT_EXCEEDED"
	EventExcessiveAuthFailures EventType = "EXCESSIVE_AUTH_FAILURES"
	EventUnusualPhiAccess      EventType = "UNUSUAL_PHI_ACCESS"
	EventValidationFailure     EventType = "VALIDATION_FAILURE"
)

// Severity is the triage level attached to a security event.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// SeverityFor maps an event type to its fixed severity. Unknown types
// default to medium.
func SeverityFor(t EventType) Severity {
	switch t {
	case EventExcessiveAuthFailures, EventUnusualPhiAccess:
		return SeverityHigh
	case EventRateLimitExceeded:
		return SeverityMedium
	case EventValidationFailure:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// SecurityEvent is an immutable security alert record. Details are
// sanitized before construction; the raw trigger data never leaves the
// recording path.
type SecurityEvent struct {
	ID        uuid.UUID              `json:"id"`
	Type      EventType              `json:"type"`
	Severity  Severity               `json:"severity"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// NewSecurityEvent creates a validated security event with sanitized
// details and the fixed severity for its type.
func NewSecurityEvent(t EventType, userID string, details map[string]interface{}, now time.Time) (*SecurityEvent, error) {
	if err := validateEventType(t); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, errors.NewValidationError("MISSING_USER_ID", "user ID is required")
	}

	return &SecurityEvent{
		ID:        uuid.New(),
		Type:      t,
		Severity:  SeverityFor(t),
		Timestamp: now.UTC(),
		UserID:    userID,
		Details:   Sanitize(details),
	}, nil
}

func validateEventType(t EventType) error {
	switch t {
	case EventRateLimitExceeded, EventExcessiveAuthFailures,
		EventUnusualPhiAccess, EventValidationFailure:
		return nil
	default:
		return errors.NewValidationError("INVALID_EVENT_TYPE",
			"unknown security event type: "+string(t))
	}
}
