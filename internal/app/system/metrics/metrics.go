// internal/app/system/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's collectors on its own registry so tests
// can construct independent instances.
type Metrics struct {
	reg *prometheus.Registry

	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	reportsSubmitted *prometheus.CounterVec
	orgsProvisioned  *prometheus.CounterVec
}

// New registers the HTTP and domain collectors plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fleetcheckr",
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetcheckr",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fleetcheckr",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		reportsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetcheckr",
			Name:      "inspection_reports_submitted_total",
			Help:      "Inspection reports persisted, by final verdict.",
		}, []string{"verdict"}),
		orgsProvisioned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetcheckr",
			Name:      "organizations_provisioned_total",
			Help:      "Provisioning runs, by outcome.",
		}, []string{"outcome"}),
	}
	m.reg.MustRegister(
		m.inFlight, m.requestsTotal, m.requestDuration,
		m.reportsSubmitted, m.orgsProvisioned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ReportSubmitted counts a persisted inspection report. Safe on nil.
func (m *Metrics) ReportSubmitted(verdict string) {
	if m == nil {
		return
	}
	m.reportsSubmitted.WithLabelValues(verdict).Inc()
}

// OrgProvisioned counts a provisioning run ("ok" or "failed"). Safe on nil.
func (m *Metrics) OrgProvisioned(outcome string) {
	if m == nil {
		return
	}
	m.orgsProvisioned.WithLabelValues(outcome).Inc()
}

// Instrument records request count and latency labelled by the chi route
// pattern, so ids in paths do not explode cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(sw.code)
		m.requestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Flush lets streaming handlers (CSV export) flush through the wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
