package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricUsersCreated = "userdir_users_created_total"
	MetricUsersUpdated = "userdir_users_updated_total"
	MetricUsersDeleted = "userdir_users_deleted_total"
	MetricAuditEntries = "userdir_audit_entries_total"
)

// Metrics contains Prometheus metrics for directory operations.
// All operations are thread-safe. A nil *Metrics is valid and records
// nothing, so handlers work without a registry in tests.
type Metrics struct {
	usersCreated prometheus.Counter
	usersUpdated prometheus.Counter
	usersDeleted prometheus.Counter
	auditEntries *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricUsersCreated,
			Help: "Total number of user records created",
		}),
		usersUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricUsersUpdated,
			Help: "Total number of user records updated",
		}),
		usersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricUsersDeleted,
			Help: "Total number of user records deleted",
		}),
		auditEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAuditEntries,
			Help: "Total number of audit log entries appended, by action",
		}, []string{"action"}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.usersCreated,
		m.usersUpdated,
		m.usersDeleted,
		m.auditEntries,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncUsersCreated records one created user.
func (m *Metrics) IncUsersCreated() {
	if m == nil {
		return
	}
	m.usersCreated.Inc()
}

// IncUsersUpdated records one updated user.
func (m *Metrics) IncUsersUpdated() {
	if m == nil {
		return
	}
	m.usersUpdated.Inc()
}

// IncUsersDeleted records one deleted user.
func (m *Metrics) IncUsersDeleted() {
	if m == nil {
		return
	}
	m.usersDeleted.Inc()
}

// IncAuditEntries records one appended audit entry for the given action.
func (m *Metrics) IncAuditEntries(action string) {
	if m == nil {
		return
	}
	m.auditEntries.WithLabelValues(action).Inc()
}
