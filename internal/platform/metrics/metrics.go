package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide Prometheus metrics. Bounded-context metrics
// live in their own packages and register against the same registry.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	QueueDepth   *prometheus.GaugeVec
	QueueDropped *prometheus.GaugeVec
	BuildInfo    prometheus.Gauge
}

// New creates a registry with the Go and process collectors plus the HTTP
// metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "candilib_http_requests_total",
			Help: "HTTP requests by route and status class",
		}, []string{"route", "method", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "candilib_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		QueueDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "candilib_queue_depth",
			Help: "Items buffered in background queues",
		}, []string{"queue"}),
		QueueDropped: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "candilib_queue_dropped_total",
			Help: "Items dropped from background queues on overflow",
		}, []string{"queue"}),
		BuildInfo: f.NewGauge(prometheus.GaugeOpts{
			Name: "candilib_up",
			Help: "Set to 1 while the server runs",
		}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveQueue records the depth and drop counters of a background queue.
func (m *Metrics) ObserveQueue(name string, depth int, dropped int64) {
	m.QueueDepth.WithLabelValues(name).Set(float64(depth))
	m.QueueDropped.WithLabelValues(name).Set(float64(dropped))
}
