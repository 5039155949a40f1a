// Package metrics records conversion, extraction and HTTP activity as
// Prometheus metrics and serves them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wordify"

// Outcome label values for conversions.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Metrics holds the collectors on a private registry, so several instances
// can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	conversions  *prometheus.CounterVec
	candidates   prometheus.Counter
	filesScanned *prometheus.CounterVec
	requests     *prometheus.HistogramVec
}

// New creates and registers the wordify collectors plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Candidates converted to words, by outcome.",
		}, []string{"outcome"}),
		candidates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_extracted_total",
			Help:      "Number-like candidates pulled out of text.",
		}),
		filesScanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_scanned_total",
			Help:      "Files handled by the scanner, by whether they were skipped as unchanged.",
		}, []string{"skipped"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	m.registry.MustRegister(
		m.conversions,
		m.candidates,
		m.filesScanned,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Conversion counts one converted candidate.
func (m *Metrics) Conversion(valid bool) {
	outcome := OutcomeInvalid
	if valid {
		outcome = OutcomeValid
	}
	m.conversions.WithLabelValues(outcome).Inc()
}

// Candidates adds n extracted candidates.
func (m *Metrics) Candidates(n int) {
	if n > 0 {
		m.candidates.Add(float64(n))
	}
}

// FileScanned counts one file visited by the scanner.
func (m *Metrics) FileScanned(skipped bool) {
	m.filesScanned.WithLabelValues(strconv.FormatBool(skipped)).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
