package monitoring

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// RetentionManager applies the two independent retention policies: raw
// session activities age out after ActivityRetention, and security events
// are bounded by both age and a per-user count cap. Every prune is
// best-effort; failures are logged as CLEANUP_ERROR and swallowed.
type RetentionManager struct {
	sessions SessionStore
	events   SecurityEventStore
	errorLog ErrorLogStore
	logger   *zap.Logger
	metrics  *Metrics
	cfg      Config
	tracer   trace.Tracer
	now      func() time.Time
}

// NewRetentionManager creates the retention manager.
func NewRetentionManager(cfg Config, sessions SessionStore, events SecurityEventStore, errorLog ErrorLogStore, logger *zap.Logger, metrics *Metrics) *RetentionManager {
	return &RetentionManager{
		sessions: sessions,
		events:   events,
		errorLog: errorLog,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
		tracer:   otel.Tracer("monitoring"),
		now:      time.Now,
	}
}

// Cleanup prunes one user's stale activities and excess or expired
// security events. It runs at the tail of every recorded activity and
// never returns an error.
func (m *RetentionManager) Cleanup(ctx context.Context, userID string) {
	ctx, span := m.tracer.Start(ctx, "RetentionManager.Cleanup")
	defer span.End()

	now := m.now()

	m.pruneActivities(ctx, userID, now)
	m.pruneEvents(ctx, userID, now)
}

func (m *RetentionManager) pruneActivities(ctx context.Context, userID string, now time.Time) {
	getCtx, cancel := context.WithTimeout(ctx, m.cfg.StoreTimeout)
	defer cancel()

	session, err := m.sessions.Get(getCtx, userID)
	if err != nil {
		m.cleanupFailed(ctx, "load_session", userID, err)
		return
	}
	if session == nil {
		return
	}

	removed := session.PruneBefore(now.Add(-m.cfg.ActivityRetention))
	if removed == 0 {
		return
	}

	putCtx, cancel := context.WithTimeout(ctx, m.cfg.StoreTimeout)
	defer cancel()
	if err := m.sessions.Put(putCtx, session); err != nil {
		m.cleanupFailed(ctx, "rewrite_session", userID, err)
		return
	}

	if m.metrics != nil {
		m.metrics.ActivitiesPruned.Add(float64(removed))
	}
	m.logger.Debug("pruned stale activities",
		zap.String("user_id", userID),
		zap.Int("removed", removed))
}

func (m *RetentionManager) pruneEvents(ctx context.Context, userID string, now time.Time) {
	ageCtx, cancel := context.WithTimeout(ctx, m.cfg.StoreTimeout)
	defer cancel()

	expired, err := m.events.DeleteOlderThan(ageCtx, userID, now.Add(-m.cfg.EventRetention))
	if err != nil {
		m.cleanupFailed(ctx, "delete_expired_events", userID, err)
	} else if expired > 0 && m.metrics != nil {
		m.metrics.EventsPruned.Add(float64(expired))
	}

	capCtx, cancel := context.WithTimeout(ctx, m.cfg.StoreTimeout)
	defer cancel()

	excess, err := m.events.DeleteExcess(capCtx, userID, m.cfg.MaxEventsPerUser)
	if err != nil {
		m.cleanupFailed(ctx, "delete_excess_events", userID, err)
	} else if excess > 0 && m.metrics != nil {
		m.metrics.EventsPruned.Add(float64(excess))
	}
}

func (m *RetentionManager) cleanupFailed(ctx context.Context, operation, userID string, cause error) {
	m.logger.Error("retention cleanup failed",
		zap.String("operation", operation),
		zap.String("user_id", userID),
		zap.Error(cause))

	if m.metrics != nil {
		m.metrics.CleanupErrors.Inc()
	}

	entry := monitoring.NewErrorLogEntry(monitoring.ErrorKindCleanup, m.cfg.Environment, map[string]interface{}{
		"operation": operation,
		"userId":    userID,
		"error":     cause.Error(),
	}, m.now())

	logCtx, cancel := context.WithTimeout(ctx, m.cfg.StoreTimeout)
	defer cancel()
	if err := m.errorLog.Append(logCtx, entry); err != nil {
		m.logger.Error("error log append failed", zap.Error(err))
	}
}
