package project

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts order store activity. Collectors are registered with the
// Registerer passed to NewMetrics; a nil Registerer leaves them unregistered.
type Metrics struct {
	Operations  *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	SavedOrders prometheus.Gauge
}

// NewMetrics builds the order store collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardfoot",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Order store operations by name.",
		}, []string{"op"}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardfoot",
			Subsystem: "store",
			Name:      "failures_total",
			Help:      "Order store operations that failed and were degraded to absent data.",
		}, []string{"op"}),
		SavedOrders: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "boardfoot",
			Subsystem: "store",
			Name:      "saved_orders",
			Help:      "Number of saved orders seen on the last read or write.",
		}),
	}
}

func (m *Metrics) observe(op string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op).Inc()
}

func (m *Metrics) fail(op string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(op).Inc()
}

func (m *Metrics) setOrders(n int) {
	if m == nil {
		return
	}
	m.SavedOrders.Set(float64(n))
}
