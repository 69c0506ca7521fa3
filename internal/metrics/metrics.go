package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Transitions *prometheus.CounterVec
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	Published   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the wizard collectors on a fresh registry.
func New(service string) *Metrics {
	reg := prometheus.NewRegistry()
	service = strings.NewReplacer("-", "_", ".", "_").Replace(service)
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cakewizard",
		Subsystem: service,
		Name:      "transitions_total",
		Help:      "Workflow actions by outcome.",
	}, []string{"action", "result"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cakewizard",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cakewizard",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"handler"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cakewizard",
		Subsystem: service,
		Name:      "confirmations_published_total",
		Help:      "Confirmation events handed to the publisher.",
	}, []string{"result"})

	reg.MustRegister(transitions, requests, latency, published, collectors.NewGoCollector())
	return &Metrics{
		Transitions: transitions,
		Requests:    requests,
		LatencyMS:   latency,
		Published:   published,
		gatherer:    reg,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
