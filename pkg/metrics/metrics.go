// Package metrics exposes the service counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gearguard"

// Metrics owns a private registry so tests can build as many instances as they need.
// All methods are safe to call on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	transitions     *prometheus.CounterVec
	cascades        prometheus.Counter
	cascadeFailures prometheus.Counter
	cancelled       *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_transitions_total",
			Help:      "Maintenance request status changes by previous and new status.",
		}, []string{"from", "to"}),
		cascades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrap_cascades_total",
			Help:      "Scrap cascades executed.",
		}),
		cascadeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrap_cascade_failures_total",
			Help:      "Scrap cascades that stopped on a storage error.",
		}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sibling_requests_cancelled_total",
			Help:      "Open requests cancelled because their equipment was scrapped.",
		}, []string{"source"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.transitions,
		m.cascades,
		m.cascadeFailures,
		m.cancelled,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil || from == to {
		return
	}
	if from == "" {
		from = "none"
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) CascadeExecuted() {
	if m != nil {
		m.cascades.Inc()
	}
}

func (m *Metrics) CascadeFailed() {
	if m != nil {
		m.cascadeFailures.Inc()
	}
}

// SiblingsCancelled counts requests cancelled by source ("cascade" or "reconciler").
func (m *Metrics) SiblingsCancelled(source string, n int) {
	if m != nil && n > 0 {
		m.cancelled.WithLabelValues(source).Add(float64(n))
	}
}

// Middleware records request latency keyed by the matched route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			m.httpDuration.
				WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
