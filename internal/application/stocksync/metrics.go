package stocksync

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// Metrics contadores Prometheus de las corridas de sincronización.
type Metrics struct {
	outcomes *prometheus.CounterVec
	duration prometheus.Histogram
	rejected prometheus.Counter
}

// NewMetrics registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_sync_outcomes_total",
				Help: "Corridas de sincronización terminadas, por resultado.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_sync_duration_seconds",
			Help:    "Duración de una corrida completa (commit local + llamada remota).",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_sync_concurrent_rejections_total",
			Help: "Peticiones rechazadas por tener otra corrida en curso para el mismo SKU.",
		}),
	}
	reg.MustRegister(m.outcomes, m.duration, m.rejected)
	return m
}

// Observe registra el resultado de una corrida.
func (m *Metrics) Observe(kind entity.OutcomeKind, d time.Duration) {
	m.outcomes.WithLabelValues(string(kind)).Inc()
	m.duration.Observe(d.Seconds())
}

// ConcurrentRejected cuenta un rechazo por ErrConcurrentUpdate.
func (m *Metrics) ConcurrentRejected() {
	m.rejected.Inc()
}
