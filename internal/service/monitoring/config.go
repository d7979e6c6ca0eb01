package monitoring

import "time"

// Config holds thresholds, windows, and retention limits for the
// monitoring engine. The evaluation window is intentionally tighter than
// the raw-activity retention to buffer clock skew and late evaluation.
type Config struct {
	// EvaluationWindow is the trailing interval anomaly rules inspect.
	EvaluationWindow time.Duration
	// RateLimitThreshold fires RateLimitExceeded when window activity
	// count exceeds it.
	RateLimitThreshold int
	// AuthFailureThreshold fires ExcessiveAuthFailures when window
	// AUTH_FAILURE count reaches it.
	AuthFailureThreshold int
	// PhiAccessThreshold fires UnusualPhiAccess when window PHI-access
	// count exceeds it.
	PhiAccessThreshold int

	// ActivityRetention bounds how long raw activities stay in a session.
	ActivityRetention time.Duration
	// EventRetention bounds how long security events are kept.
	EventRetention time.Duration
	// MaxEventsPerUser caps retained security events per user regardless
	// of age within the retention window.
	MaxEventsPerUser int

	// StoreTimeout bounds each durable-store call so a downstream outage
	// cannot hang the caller's request.
	StoreTimeout time.Duration

	// Environment tags error log entries.
	Environment string
	// AlertRecipient is the ops contact notified on alerts. Empty
	// disables notifications.
	AlertRecipient string
}

// DefaultConfig returns the reference thresholds and retention limits.
func DefaultConfig() Config {
	return Config{
		EvaluationWindow:     60 * time.Second,
		RateLimitThreshold:   50,
		AuthFailureThreshold: 5,
		PhiAccessThreshold:   100,
		ActivityRetention:    5 * time.Minute,
		EventRetention:       90 * 24 * time.Hour,
		MaxEventsPerUser:     1000,
		StoreTimeout:         2 * time.Second,
		Environment:          "development",
	}
}
