package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/layered-configs/internal/properties"
)

// Write results recorded by ObserveWrite.
const (
	WriteOK        = "ok"
	WriteProtected = "protected"
	WriteUnbound   = "unbound"
	WriteError     = "error"
)

// Collector owns a registry and the metrics registered on it. A nil
// *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	lookups      *prometheus.CounterVec
	writes       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector registers all metrics under namespace on a fresh registry,
// together with the Go runtime and process collectors.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "property_lookups_total", Help: "Property lookups by serving layer."},
			[]string{"source"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "property_writes_total", Help: "Property writes by result."},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by path, method and status."},
			[]string{"path", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
			[]string{"path", "method"},
		),
	}

	c.registry.MustRegister(
		c.lookups,
		c.writes,
		c.httpRequests,
		c.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveLookup counts one lookup served by source.
func (c *Collector) ObserveLookup(source properties.Source) {
	if c == nil {
		return
	}
	c.lookups.WithLabelValues(string(source)).Inc()
}

// ObserveWrite counts one write attempt with the given result.
func (c *Collector) ObserveWrite(result string) {
	if c == nil {
		return
	}
	c.writes.WithLabelValues(result).Inc()
}

// ObserveRequest records one completed HTTP request.
func (c *Collector) ObserveRequest(path, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpLatency.WithLabelValues(path, method).Observe(duration.Seconds())
	c.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
