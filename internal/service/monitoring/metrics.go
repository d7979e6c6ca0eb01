package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks monitoring engine health. Since the engine fails open,
// these counters and the error log are the only operator-visible signal
// of degradation.
type Metrics struct {
	ActivitiesRecorded *prometheus.CounterVec
	AlertsTriggered    *prometheus.CounterVec
	TrackingErrors     prometheus.Counter
	DispatchErrors     prometheus.Counter
	CleanupErrors      prometheus.Counter
	ReportErrors       prometheus.Counter
	ActivitiesPruned   prometheus.Counter
	EventsPruned       prometheus.Counter
}

// NewMetrics registers and returns the engine's metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActivitiesRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "activities_recorded_total",
			Help:      "Activity events recorded, by action class.",
		}, []string{"class"}),
		AlertsTriggered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "alerts_triggered_total",
			Help:      "Security alerts dispatched, by event type.",
		}, []string{"type"}),
		TrackingErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "tracking_errors_total",
			Help:      "Swallowed failures in the activity recording path.",
		}),
		DispatchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "alert_dispatch_errors_total",
			Help:      "Swallowed failures in alert persistence or delivery.",
		}),
		CleanupErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "cleanup_errors_total",
			Help:      "Swallowed failures in retention pruning.",
		}),
		ReportErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "report_errors_total",
			Help:      "Failures while building security reports.",
		}),
		ActivitiesPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "activities_pruned_total",
			Help:      "Session activity entries removed by retention.",
		}),
		EventsPruned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "patientflow",
			Subsystem: "monitoring",
			Name:      "security_events_pruned_total",
			Help:      "Security events removed by retention.",
		}),
	}
}
