package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "flanes/internal/errors"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	cartAdditions   prometheus.Counter
	cartRemovals    prometheus.Counter
	registrations   prometheus.Counter
	logins          *prometheus.CounterVec
	reviews         prometheus.Counter
	contactMessages prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flanes",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flanes",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flanes",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "route"}),
		cartAdditions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flanes",
			Subsystem: "cart",
			Name:      "additions_total",
			Help:      "Units added to carts.",
		}),
		cartRemovals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flanes",
			Subsystem: "cart",
			Name:      "removals_total",
			Help:      "Cart lines removed.",
		}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flanes",
			Subsystem: "users",
			Name:      "registrations_total",
			Help:      "Users registered.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flanes",
			Subsystem: "users",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		reviews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flanes",
			Subsystem: "reviews",
			Name:      "created_total",
			Help:      "Reviews created.",
		}),
		contactMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flanes",
			Subsystem: "contact",
			Name:      "messages_total",
			Help:      "Contact messages received.",
		}),
	}

	m.Registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.cartAdditions,
		m.cartRemovals,
		m.registrations,
		m.logins,
		m.reviews,
		m.contactMessages,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == "/metrics" {
				return next(c)
			}

			m.httpInFlight.Inc()
			start := time.Now()
			err := next(c)
			m.httpInFlight.Dec()

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil && !c.Response().Committed {
				status = apperrors.MapErrorToHTTP(err).StatusCode
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// CartItemAdded counts one unit added to a cart.
func (m *Metrics) CartItemAdded() {
	if m != nil {
		m.cartAdditions.Inc()
	}
}

// CartItemRemoved counts one removed cart line.
func (m *Metrics) CartItemRemoved() {
	if m != nil {
		m.cartRemovals.Inc()
	}
}

// UserRegistered counts one registration.
func (m *Metrics) UserRegistered() {
	if m != nil {
		m.registrations.Inc()
	}
}

// LoginAttempt counts a login by outcome ("success" or "failure").
func (m *Metrics) LoginAttempt(success bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// ReviewCreated counts one review.
func (m *Metrics) ReviewCreated() {
	if m != nil {
		m.reviews.Inc()
	}
}

// ContactMessageReceived counts one contact message.
func (m *Metrics) ContactMessageReceived() {
	if m != nil {
		m.contactMessages.Inc()
	}
}
