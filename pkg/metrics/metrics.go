package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/portability/svc/portability"
)

const namespace = "portability"

// Metrics holds the application collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Consultations by outcome: invalid, eligible, ineligible.
	Consultations *prometheus.CounterVec

	// Number of eligible institutions per valid consultation.
	EligibleInstitutions prometheus.Histogram

	ConsultationDuration prometheus.Histogram

	// Rule reloads by result: success, failure.
	RuleReloads *prometheus.CounterVec

	RateLimited prometheus.Counter

	HTTPRequests *prometheus.CounterVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Consultations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consultations_total",
			Help:      "Total consultations by outcome",
		}, []string{"outcome"}),
		EligibleInstitutions: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "eligible_institutions",
			Help:      "Eligible institutions per valid consultation",
			Buckets:   []float64{0, 1, 5, 10, 15, 20, 25},
		}),
		ConsultationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "consultation_duration_seconds",
			Help:      "Duration of parsing and evaluating a submission",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		RuleReloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_reloads_total",
			Help:      "Total rule reloads by result",
		}, []string{"result"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Total requests rejected by the rate limiter",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method and status code",
		}, []string{"method", "code"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveConsultation implements portability.Recorder.
func (m *Metrics) ObserveConsultation(outcome portability.Outcome, eligible int, d time.Duration) {
	if m == nil {
		return
	}
	m.Consultations.WithLabelValues(string(outcome)).Inc()
	m.ConsultationDuration.Observe(d.Seconds())
	if outcome != portability.OutcomeInvalid {
		m.EligibleInstitutions.Observe(float64(eligible))
	}
}

// ObserveReload implements portability.Recorder.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.RuleReloads.WithLabelValues(result).Inc()
}

// IncrementRateLimited records a request rejected by the rate limiter.
func (m *Metrics) IncrementRateLimited() {
	if m != nil {
		m.RateLimited.Inc()
	}
}

// Middleware counts requests by method and status code.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(methodLabel(r.Method), strconv.Itoa(status)).Inc()
	})
}

// methodLabel keeps the method label bounded; unknown verbs become "OTHER".
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	}
	return "OTHER"
}

var _ portability.Recorder = (*Metrics)(nil)
