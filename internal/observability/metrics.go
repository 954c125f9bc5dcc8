package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the client's Prometheus collectors on a private registry.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.HistogramVec
	apiErrors      *prometheus.CounterVec
	roleFallbacks  *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	sessionEvents  *prometheus.CounterVec
	authenticated  *prometheus.GaugeVec
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrclient_http_request_duration_seconds",
			Help:    "Duration of shell HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrclient_api_errors_total",
			Help: "Outbound API failures by error class.",
		}, []string{"code"}),
		roleFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrclient_role_fallback_total",
			Help: "Tokens whose role claim was missing or unrecognized and fell back to EMPLOYEE.",
		}, []string{"reason"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrclient_guard_decisions_total",
			Help: "Navigation decisions by guard and outcome.",
		}, []string{"guard", "outcome"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrclient_session_transitions_total",
			Help: "Session state transitions.",
		}, []string{"event"}),
		authenticated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hrclient_session_authenticated",
			Help: "1 while a user is logged in, labelled with the role.",
		}, []string{"role"}),
	}
	m.registry.MustRegister(m.requests, m.apiErrors, m.roleFallbacks, m.guardDecisions, m.sessionEvents, m.authenticated)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	if m == nil {
		return func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) }
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// RecordRequest observes a shell request.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordAPIError counts a classified outbound failure.
func (m *Metrics) RecordAPIError(code string) {
	if m == nil {
		return
	}
	m.apiErrors.WithLabelValues(code).Inc()
}

// RecordRoleFallback counts a permissive role fallback.
func (m *Metrics) RecordRoleFallback(reason string) {
	if m == nil {
		return
	}
	m.roleFallbacks.WithLabelValues(reason).Inc()
}

// RecordGuardDecision counts a navigation decision.
func (m *Metrics) RecordGuardDecision(guard string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.guardDecisions.WithLabelValues(guard, outcome).Inc()
}

// RecordSessionEvent counts a session transition.
func (m *Metrics) RecordSessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessionEvents.WithLabelValues(event).Inc()
}

// SetAuthenticated records the current session. An empty role means
// logged out.
func (m *Metrics) SetAuthenticated(role string) {
	if m == nil {
		return
	}
	m.authenticated.Reset()
	if role != "" {
		m.authenticated.WithLabelValues(role).Set(1)
	}
}
