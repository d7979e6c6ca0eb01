package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// SecurityReport is a read-only aggregate over today's security events.
// Error is set instead of failing so dashboards degrade gracefully.
type SecurityReport struct {
	TotalAlerts  int                          `json:"totalAlerts"`
	AlertsByType map[monitoring.EventType]int `json:"alertsByType"`
	Timestamp    time.Time                    `json:"timestamp"`
	Error        string                       `json:"error,omitempty"`
}

// GenerateSecurityReport aggregates security events since the start of the
// current UTC day. On failure it returns a report carrying the error
// rather than an error value.
func (r *ActivityRecorder) GenerateSecurityReport(ctx context.Context) SecurityReport {
	now := r.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	countCtx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()

	counts, err := r.events.CountByTypeSince(countCtx, startOfDay)
	if err != nil {
		r.reportFailed(ctx, err)
		return SecurityReport{
			Error:     "failed to generate security report",
			Timestamp: now,
		}
	}

	report := SecurityReport{
		AlertsByType: make(map[monitoring.EventType]int, len(counts)),
		Timestamp:    now,
	}
	for eventType, count := range counts {
		report.AlertsByType[eventType] = count
		report.TotalAlerts += count
	}
	return report
}

func (r *ActivityRecorder) reportFailed(ctx context.Context, cause error) {
	r.logger.Error("security report generation failed", zap.Error(cause))

	if r.metrics != nil {
		r.metrics.ReportErrors.Inc()
	}

	entry := monitoring.NewErrorLogEntry(monitoring.ErrorKindReport, r.cfg.Environment, map[string]interface{}{
		"error": cause.Error(),
	}, r.now())

	logCtx, cancel := context.WithTimeout(ctx, r.cfg.StoreTimeout)
	defer cancel()
	if err := r.errorLog.Append(logCtx, entry); err != nil {
		r.logger.Error("error log append failed", zap.Error(err))
	}
}
