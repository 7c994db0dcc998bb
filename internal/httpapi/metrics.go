package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/CBirkbeck/modulechoices/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the planner's Prometheus collectors. It doubles as a
// service.UseCaseObserver so verdicts are counted wherever they happen.
type Metrics struct {
	Verdicts        *prometheus.CounterVec
	AutoSelected    prometheus.Counter
	ClosureFailures prometheus.Counter
	Rebuilds        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Verdicts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modulechoices",
				Name:      "verdicts_total",
				Help:      "Selection verdicts by outcome and rejecting check",
			},
			[]string{"outcome", "check"},
		),
		AutoSelected: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "modulechoices",
				Name:      "auto_selected_total",
				Help:      "Prerequisites selected by the closure engine",
			},
		),
		ClosureFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: "modulechoices",
				Name:      "closure_failures_total",
				Help:      "Prerequisites the closure engine could not select",
			},
		),
		Rebuilds: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modulechoices",
				Name:      "rebuilds_total",
				Help:      "Index rebuilds by result",
			},
			[]string{"result"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "modulechoices",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) ObserveUseCase(_ context.Context, e service.UseCaseEvent) {
	switch e.Name {
	case "select":
		if accepted, _ := e.Fields["accepted"].(bool); accepted {
			m.Verdicts.WithLabelValues("accepted", "").Inc()
			return
		}
		check, _ := e.Fields["check"].(string)
		m.Verdicts.WithLabelValues("rejected", check).Inc()
	case "auto_select":
		if n, ok := e.Fields["selected"].(int); ok {
			m.AutoSelected.Add(float64(n))
		}
		if n, ok := e.Fields["failed"].(int); ok {
			m.ClosureFailures.Add(float64(n))
		}
	case "rebuild":
		result := "ok"
		if !e.Success {
			result = "error"
		}
		m.Rebuilds.WithLabelValues(result).Inc()
	}
}

// middleware records request durations under the matched route pattern.
func (m *Metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
