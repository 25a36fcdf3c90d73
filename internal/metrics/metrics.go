// Package metrics holds the Prometheus collectors for the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "savings_registry"

// Metrics holds all Prometheus metrics for the registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	GroupsCreated       prometheus.Counter
	GroupUpdates        prometheus.Counter
	Rejections          *prometheus.CounterVec
	CreationFees        prometheus.Counter
	TransfersRecorded   prometheus.Counter
	AuthorityConfigured prometheus.Gauge
}

// New creates the registry metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		GroupsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_created_total",
			Help:      "Total number of savings groups created",
		}),
		GroupUpdates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_updates_total",
			Help:      "Total number of successful group updates",
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Registry operations rejected, by operation and error code",
		}, []string{"operation", "code"}),
		CreationFees: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "creation_fees_total",
			Help:      "Sum of creation fees charged",
		}),
		TransfersRecorded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_recorded_total",
			Help:      "Total number of fee transfers recorded by the ledger",
		}),
		AuthorityConfigured: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "authority_configured",
			Help:      "1 once the authority contract is set",
		}),
	}
}

// GroupCreated records a successful create and the fee it charged.
func (m *Metrics) GroupCreated(fee uint64) {
	if m == nil {
		return
	}
	m.GroupsCreated.Inc()
	m.CreationFees.Add(float64(fee))
}

// GroupUpdated records a successful update.
func (m *Metrics) GroupUpdated() {
	if m == nil {
		return
	}
	m.GroupUpdates.Inc()
}

// Rejected records a rejected operation.
func (m *Metrics) Rejected(operation, code string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(operation, code).Inc()
}

// TransferRecorded records a ledger entry.
func (m *Metrics) TransferRecorded() {
	if m == nil {
		return
	}
	m.TransfersRecorded.Inc()
}

// AuthoritySet flips the authority gauge on.
func (m *Metrics) AuthoritySet() {
	if m == nil {
		return
	}
	m.AuthorityConfigured.Set(1)
}
