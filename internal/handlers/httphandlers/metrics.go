package httphandlers

import (
	"net/http"

	"github.com/jackprotocol/jack-staking/internal/repositories/contracts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "jack_staking"

// Metrics are exported on /metrics from a dedicated registry
type Metrics struct {
	Events     *prometheus.CounterVec
	LastBlock  prometheus.Gauge
	NodeErrors prometheus.Counter
	registry   *prometheus.Registry
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Staking contract events by name",
		}, []string{"event"}),
		LastBlock: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_event_block",
			Help:      "Block number of the latest observed contract event",
		}),
		NodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "node_errors_total",
			Help:      "Failed contract reads",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.Events, m.LastBlock, m.NodeErrors)
	return m
}

// ObserveEvent is a handler for LogWatcherPolling.Watch
func (m *Metrics) ObserveEvent(event contracts.StakingEvent) {
	m.Events.WithLabelValues(event.Name).Inc()
	m.LastBlock.Set(float64(event.BlockNumber))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
