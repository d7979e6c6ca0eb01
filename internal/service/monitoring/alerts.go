package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// TagSecurityAlert marks structured log records for triggered alerts so
// log pipelines can route them.
const TagSecurityAlert = "SECURITY_ALERT"

const alertDisclaimer = "Details are redacted. Full event detail is available only in the secure audit trail."

// AlertPipeline builds, persists, logs, and forwards security alerts.
// Its three actions are independent: a failure in any one is logged as an
// ALERT_TRIGGER_ERROR and never blocks the others or the caller.
type AlertPipeline struct {
	events   SecurityEventStore
	errorLog ErrorLogStore
	notifier Notifier
	logger   *zap.Logger
	metrics  *Metrics
	cfg      Config
	now      func() time.Time
}

// NewAlertPipeline creates the alert pipeline. notifier and metrics may be
// nil; persistence and logging still run.
func NewAlertPipeline(cfg Config, events SecurityEventStore, errorLog ErrorLogStore, notifier Notifier, logger *zap.Logger, metrics *Metrics) *AlertPipeline {
	return &AlertPipeline{
		events:   events,
		errorLog: errorLog,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Dispatch builds a SecurityEvent for the anomaly and runs the three
// alert actions. Duplicate alerts in quick succession are not deduplicated
// here; flooding is itself a signal, and the notifier decorator applies
// channel-level rate limiting.
func (p *AlertPipeline) Dispatch(ctx context.Context, userID string, kind monitoring.EventType, details map[string]interface{}) {
	event, err := monitoring.NewSecurityEvent(kind, userID, details, p.now())
	if err != nil {
		p.dispatchFailed(ctx, "build", kind, userID, err)
		return
	}

	if err := p.persist(ctx, event); err != nil {
		p.dispatchFailed(ctx, "persist", kind, userID, err)
	}

	p.logger.Warn("security alert triggered",
		zap.String("tag", TagSecurityAlert),
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", string(event.Type)),
		zap.String("severity", string(event.Severity)),
		zap.String("user_id", event.UserID),
		zap.Any("details", event.Details))

	if p.notifier != nil && p.cfg.AlertRecipient != "" {
		if err := p.notify(ctx, event); err != nil {
			p.dispatchFailed(ctx, "notify", kind, userID, err)
		}
	}

	if p.metrics != nil {
		p.metrics.AlertsTriggered.WithLabelValues(string(kind)).Inc()
	}
}

func (p *AlertPipeline) persist(ctx context.Context, event *monitoring.SecurityEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
	defer cancel()
	return p.events.Append(ctx, event)
}

func (p *AlertPipeline) notify(ctx context.Context, event *monitoring.SecurityEvent) error {
	subject, body, err := p.buildNotification(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
	defer cancel()
	return p.notifier.Send(ctx, p.cfg.AlertRecipient, subject, body)
}

// buildNotification renders the redacted alert payload for the transport.
// Event details are already sanitized; the disclaimer is always attached.
func (p *AlertPipeline) buildNotification(event *monitoring.SecurityEvent) (subject, body string, err error) {
	details := make(map[string]interface{}, len(event.Details)+1)
	for k, v := range event.Details {
		details[k] = v
	}
	details["disclaimer"] = alertDisclaimer

	payload := map[string]interface{}{
		"eventId":            event.ID.String(),
		"type":               string(event.Type),
		"severity":           string(event.Severity),
		"timestamp":          event.Timestamp.Format(time.RFC3339),
		"userId":             event.UserID,
		"details":            details,
		"recommendedActions": RecommendedActions(event.Type),
	}

	rendered, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", "", err
	}

	subject = fmt.Sprintf("[%s] Security alert: %s (user %s)", event.Severity, event.Type, event.UserID)
	return subject, string(rendered), nil
}

func (p *AlertPipeline) dispatchFailed(ctx context.Context, action string, kind monitoring.EventType, userID string, cause error) {
	p.logger.Error("alert action failed",
		zap.String("action", action),
		zap.String("event_type", string(kind)),
		zap.String("user_id", userID),
		zap.Error(cause))

	if p.metrics != nil {
		p.metrics.DispatchErrors.Inc()
	}

	entry := monitoring.NewErrorLogEntry(monitoring.ErrorKindAlert, p.cfg.Environment, map[string]interface{}{
		"action":    action,
		"eventType": string(kind),
		"userId":    userID,
		"error":     cause.Error(),
	}, p.now())

	logCtx, cancel := context.WithTimeout(ctx, p.cfg.StoreTimeout)
	defer cancel()
	if err := p.errorLog.Append(logCtx, entry); err != nil {
		p.logger.Error("error log append failed", zap.Error(err))
	}
}

// RecommendedActions returns the fixed operator guidance for an alert type.
func RecommendedActions(t monitoring.EventType) []string {
	switch t {
	case monitoring.EventExcessiveAuthFailures:
		return []string{
			"Check for brute force attack patterns",
			"Review account security settings",
			"Consider a temporary account lockout",
			"Verify user identity before re-enabling access",
		}
	case monitoring.EventUnusualPhiAccess:
		return []string{
			"Verify the access was authorized and clinically necessary",
			"Review the user's PHI access audit trail",
			"Confirm minimum-necessary policy compliance",
			"Escalate to the privacy officer if unexplained",
		}
	case monitoring.EventRateLimitExceeded:
		return []string{
			"Review the user's recent request volume",
			"Check for runaway clients or scripted access",
			"Confirm rate limits match expected workload",
		}
	case monitoring.EventValidationFailure:
		return []string{
			"Review the rejected input for injection probing",
			"Confirm the client application version",
		}
	default:
		return []string{"Review the security event and recent user activity"}
	}
}
