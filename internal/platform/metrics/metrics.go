// Package metrics exposes Prometheus counters for the HTTP surface and for
// recorded attempts. Domain counters are fed by the events emitter, so the
// service does not depend on this package.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/microcase-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "microcase"

// Metrics holds every collector of the server on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	attemptsRecorded   *prometheus.CounterVec
	stepsDropped       prometheus.Counter
	caseViews          *prometheus.CounterVec
	scoreDiscrepancies prometheus.Counter
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		attemptsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_recorded_total",
			Help:      "Total number of recorded attempts by status and outcome.",
		}, []string{"status", "outcome"}),
		stepsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempt_steps_dropped_total",
			Help:      "Total number of submitted steps discarded for lacking a node.",
		}),
		caseViews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "case_views_total",
			Help:      "Total number of case graphs served, by publication state.",
		}, []string{"published"}),
		scoreDiscrepancies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_discrepancies_total",
			Help:      "Total number of audited attempts whose deltas disagree with the case.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware counts requests and observes their latency. Routes are
// labelled with the chi route pattern so path parameters do not explode
// the label space.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// HandleEvent implements events.EventHandler.
func (m *Metrics) HandleEvent(_ context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeAttemptRecorded:
		var p events.AttemptRecorded
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		outcome := "recorded"
		if p.Warning != "" {
			outcome = p.Warning
		}
		m.attemptsRecorded.WithLabelValues(p.Status, outcome).Inc()
		m.stepsDropped.Add(float64(p.DroppedSteps))

	case events.TypeCaseViewed:
		var p events.CaseViewed
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		m.caseViews.WithLabelValues(strconv.FormatBool(p.Published)).Inc()

	case events.TypeScoreDiscrepancy:
		m.scoreDiscrepancies.Inc()
	}
	return nil
}

// Ensure Metrics implements events.EventHandler
var _ events.EventHandler = (*Metrics)(nil)
