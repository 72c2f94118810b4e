package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Scheduling metrics
	AppointmentsCreated      prometheus.Counter
	AppointmentStatusChanges *prometheus.CounterVec

	// Presentation signal metrics
	Revalidations *prometheus.CounterVec
	ViewCache     *prometheus.CounterVec

	// Worker metrics
	RemindersSent *prometheus.CounterVec

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates all application metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AppointmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments booked",
		}),
		AppointmentStatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_status_changes_total",
			Help:      "Total number of appointment status transitions",
		}, []string{"status"}),

		Revalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revalidations_total",
			Help:      "Total number of revalidation signals sent to the presentation layer",
		}, []string{"path", "status"}),
		ViewCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_lookups_total",
			Help:      "View cache lookups by result",
		}, []string{"result"}),

		RemindersSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of appointment reminder e-mails",
		}, []string{"status"}),

		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveDB(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.DatabaseOperations.WithLabelValues(operation, status(err)).Inc()
	m.DatabaseLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) AppointmentCreated() {
	if m == nil {
		return
	}
	m.AppointmentsCreated.Inc()
}

func (m *Metrics) StatusChanged(to string) {
	if m == nil {
		return
	}
	m.AppointmentStatusChanges.WithLabelValues(to).Inc()
}

func (m *Metrics) Revalidated(path string, err error) {
	if m == nil {
		return
	}
	m.Revalidations.WithLabelValues(path, status(err)).Inc()
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ViewCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ReminderSent(err error) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
