package monitoring

import (
	"time"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// Anomaly is a single triggered rule with its observed count and threshold.
type Anomaly struct {
	Kind      monitoring.EventType
	Count     int
	Threshold int
}

// AnomalyEvaluator applies the fixed threshold rules to a session
// snapshot. It is pure: no mutation, no cross-call state, so the same
// anomaly re-fires on every call while its condition holds.
type AnomalyEvaluator struct {
	window       time.Duration
	rateLimit    int
	authFailures int
	phiAccesses  int
}

// NewAnomalyEvaluator builds an evaluator with the configured thresholds.
func NewAnomalyEvaluator(cfg Config) *AnomalyEvaluator {
	return &AnomalyEvaluator{
		window:       cfg.EvaluationWindow,
		rateLimit:    cfg.RateLimitThreshold,
		authFailures: cfg.AuthFailureThreshold,
		phiAccesses:  cfg.PhiAccessThreshold,
	}
}

// Evaluate runs every rule independently over the trailing window ending
// at now. Multiple anomalies may fire from one call.
func (e *AnomalyEvaluator) Evaluate(session *monitoring.UserActivitySession, now time.Time) []Anomaly {
	if session == nil {
		return nil
	}
	cutoff := now.Add(-e.window)

	var anomalies []Anomaly

	if total := session.CountInWindow(cutoff, nil); total > e.rateLimit {
		anomalies = append(anomalies, Anomaly{
			Kind:      monitoring.EventRateLimitExceeded,
			Count:     total,
			Threshold: e.rateLimit,
		})
	}

	if fails := session.CountInWindow(cutoff, monitoring.Action.IsAuthFailure); fails >= e.authFailures {
		anomalies = append(anomalies, Anomaly{
			Kind:      monitoring.EventExcessiveAuthFailures,
			Count:     fails,
			Threshold: e.authFailures,
		})
	}

	if accesses := session.CountInWindow(cutoff, monitoring.Action.IsPHIAccess); accesses > e.phiAccesses {
		anomalies = append(anomalies, Anomaly{
			Kind:      monitoring.EventUnusualPhiAccess,
			Count:     accesses,
			Threshold: e.phiAccesses,
		})
	}

	return anomalies
}
