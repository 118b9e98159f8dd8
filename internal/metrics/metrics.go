// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector the API exports on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	RealtimeClients   prometheus.Gauge
	RealtimeEvents    *prometheus.CounterVec
	RealtimeDropped   prometheus.Counter
	LeaderboardLookup *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codeburry",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "codeburry",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RealtimeClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "codeburry",
			Name:      "realtime_clients",
			Help:      "Currently connected realtime clients on this instance.",
		}),
		RealtimeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codeburry",
			Name:      "realtime_events_total",
			Help:      "Realtime events fanned out to local clients.",
		}, []string{"event"}),
		RealtimeDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "codeburry",
			Name:      "realtime_clients_dropped_total",
			Help:      "Clients disconnected because their send buffer was full.",
		}),
		LeaderboardLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codeburry",
			Name:      "leaderboard_lookups_total",
			Help:      "Leaderboard reads by cache result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.RealtimeClients,
		m.RealtimeEvents,
		m.RealtimeDropped,
		m.LeaderboardLookup,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
