// Package metrics exposes Prometheus collectors for the site: HTTP traffic,
// reservation submissions and per-field validation failures.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/littlelemon/internal/domain/reservation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Config struct {
	Namespace string
	Registry  prometheus.Registerer
	Buckets   []float64
}

type Option func(*Config)

func WithNamespace(ns string) Option {
	return func(c *Config) { c.Namespace = ns }
}

// WithRegistry registers the collectors on r instead of the default registerer.
func WithRegistry(r prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = r }
}

func WithBuckets(b []float64) Option {
	return func(c *Config) { c.Buckets = b }
}

type Collector struct {
	submissions    *prometheus.CounterVec
	submitDuration *prometheus.HistogramVec
	fieldErrors    *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	visitors       prometheus.Gauge
}

func New(opts ...Option) *Collector {
	cfg := Config{
		Namespace: "littlelemon",
		Registry:  prometheus.DefaultRegisterer,
		Buckets:   prometheus.DefBuckets,
	}
	for _, o := range opts {
		o(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Collector{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "reservation_submissions_total",
			Help:      "Reservation form submissions by outcome",
		}, []string{"outcome"}),

		submitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "reservation_submit_duration_seconds",
			Help:      "Time from submit to outcome, including the backend call",
			Buckets:   cfg.Buckets,
		}, []string{"outcome"}),

		fieldErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "reservation_field_errors_total",
			Help:      "Required fields failing validation at submit time",
		}, []string{"field"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code",
		}, []string{"route", "method", "code"}),

		requestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   cfg.Buckets,
		}, []string{"route"}),

		visitors: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "active_visitors",
			Help:      "Visitors holding a reservation draft in memory",
		}),
	}
}

// ObserveSubmit implements booking.Observer.
func (c *Collector) ObserveSubmit(outcome string, took time.Duration) {
	c.submissions.WithLabelValues(outcome).Inc()
	c.submitDuration.WithLabelValues(outcome).Observe(took.Seconds())
}

// ObserveFieldError implements booking.Observer.
func (c *Collector) ObserveFieldError(f reservation.Field) {
	c.fieldErrors.WithLabelValues(string(f)).Inc()
}

func (c *Collector) SetVisitors(n int) {
	c.visitors.Set(float64(n))
}

// Middleware records request counts and latency. Routes are labelled by their chi
// pattern so path parameters do not explode cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		c.requests.WithLabelValues(route, r.Method, strconv.Itoa(code)).Inc()
		c.requestLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
