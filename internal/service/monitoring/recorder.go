package monitoring

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/errors"
	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// ActivityRecorder is the public entry point of the monitoring engine. It
// ingests activity events, maintains per-user session state, and drives
// anomaly evaluation, alerting, and retention. Every public method fails
// open: a monitoring failure must never delay or reject the primary
// request, so all internal errors are logged and swallowed.
type ActivityRecorder struct {
	sessions  SessionStore
	events    SecurityEventStore
	errorLog  ErrorLogStore
	evaluator *AnomalyEvaluator
	alerts    *AlertPipeline
	retention *RetentionManager
	logger    *zap.Logger
	metrics   *Metrics
	cfg       Config
	tracer    trace.Tracer
	now       func() time.Time
}

// NewActivityRecorder wires the engine. notifier and metrics may be nil.
func NewActivityRecorder(cfg Config, sessions SessionStore, events SecurityEventStore, errorLog ErrorLogStore, notifier Notifier, logger *zap.Logger, metrics *Metrics) *ActivityRecorder {
	return &ActivityRecorder{
		sessions:  sessions,
		events:    events,
		errorLog:  errorLog,
		evaluator: NewAnomalyEvaluator(cfg),
		alerts:    NewAlertPipeline(cfg, events, errorLog, notifier, logger, metrics),
		retention: NewRetentionManager(cfg, sessions, events, errorLog, logger, metrics),
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
		tracer:    otel.Tracer("monitoring"),
		now:       time.Now,
	}
}

// RecordAuth records an authentication attempt.
func (r *ActivityRecorder) RecordAuth(ctx context.Context, userID string, success bool, metadata map[string]interface{}) {
	r.Record(ctx, userID, monitoring.AuthAction(success), metadata)
}

// RecordPHIAccess records a PHI access operation such as READ or EXPORT.
func (r *ActivityRecorder) RecordPHIAccess(ctx context.Context, userID, operation string, metadata map[string]interface{}) {
	r.Record(ctx, userID, monitoring.PHIAction(operation), metadata)
}

// RecordValidationFailure records a failed input validation and raises a
// low-severity ValidationFailure alert carrying the validation context.
func (r *ActivityRecorder) RecordValidationFailure(ctx context.Context, userID, validationType string, cause error) {
	details := map[string]interface{}{
		"validationType": validationType,
	}
	if cause != nil {
		details["error"] = cause.Error()
	}
	r.Record(ctx, userID, monitoring.ValidationAction(), details)
	r.alerts.Dispatch(ctx, userID, monitoring.EventValidationFailure, details)
}

// Record ingests one activity event for a user: load session, prune the
// evaluation window on the read path, append, persist, evaluate anomalies,
// dispatch alerts, and run retention cleanup. Pruning here keeps session
// documents bounded without a background timer. Concurrent calls for the
// same user race on the session read-modify-write; the resulting
// undercounting is accepted rather than serializing the request path.
func (r *ActivityRecorder) Record(ctx context.Context, userID string, action monitoring.Action, metadata map[string]interface{}) {
	ctx, span := r.tracer.Start(ctx, "ActivityRecorder.Record")
	defer span.End()

	if userID == "" {
		r.trackingFailed(ctx, "validate", userID, action,
			errors.NewValidationError("MISSING_USER_ID", "user ID is required"))
		return
	}

	now := r.now()

	session, err := r.loadSession(ctx, userID)
	if err != nil {
		r.trackingFailed(ctx, "load_session", userID, action, err)
		return
	}
	if session == nil {
		session = monitoring.NewSession(userID)
	}

	session.PruneBefore(now.Add(-r.cfg.EvaluationWindow))
	session.Append(monitoring.ActivityEvent{
		Action:    action,
		Timestamp: now,
		Metadata:  metadata,
	})

	if err := r.persistSession(ctx, session); err != nil {
		r.trackingFailed(ctx, "persist_session", userID, action, err)
		return
	}

	if r.metrics != nil {
		r.metrics.ActivitiesRecorded.WithLabelValues(string(action.Class)).Inc()
	}

	for _, anomaly := range r.evaluator.Evaluate(session, now) {
		r.alerts.Dispatch(ctx, userID, anomaly.Kind, map[string]interface{}{
			"count":         anomaly.Count,
			"threshold":     anomaly.Threshold,
			"windowSeconds": int(r.cfg.EvaluationWindow.Seconds()),
			"action":        action.Name,
		})
	}

	r.retention.Cleanup(ctx, userID)
}

func (r *ActivityRecorder) loadSession(ctx context.Context, userID string) (*monitoring.UserActivitySession, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()
	return r.sessions.Get(ctx, userID)
}

func (r *ActivityRecorder) persistSession(ctx context.Context, session *monitoring.UserActivitySession) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()
	return r.sessions.Put(ctx, session)
}

func (r *ActivityRecorder) trackingFailed(ctx context.Context, operation, userID string, action monitoring.Action, cause error) {
	r.logger.Error("activity tracking failed",
		zap.String("operation", operation),
		zap.String("user_id", userID),
		zap.String("action", action.Name),
		zap.Error(cause))

	if r.metrics != nil {
		r.metrics.TrackingErrors.Inc()
	}

	entry := monitoring.NewErrorLogEntry(monitoring.ErrorKindTracking, r.cfg.Environment, map[string]interface{}{
		"operation": operation,
		"userId":    userID,
		"action":    action.Name,
		"error":     cause.Error(),
	}, r.now())

	logCtx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()
	if err := r.errorLog.Append(logCtx, entry); err != nil {
		r.logger.Error("error log append failed", zap.Error(err))
	}
}
