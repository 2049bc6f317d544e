package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/mahudhurio/core/session"
)

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests          *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	sessionsGenerated *prometheus.CounterVec
	generationRuns    *prometheus.CounterVec
}

// NewMetrics registers the API collectors on a fresh registry.
func NewMetrics(appName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	labels := prometheus.Labels{"app": appName}
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Number of HTTP requests by route, method and status code.",
			ConstLabels: labels,
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Duration of HTTP requests by route and method.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
		sessionsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "sessions_generated_total",
			Help:        "Number of class sessions created by the generator, by status.",
			ConstLabels: labels,
		}, []string{"status"}),
		generationRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "scheduled_generation_runs_total",
			Help:        "Number of scheduled generation runs by result.",
			ConstLabels: labels,
		}, []string{"result"}),
	}
	reg.MustRegister(m.requests, m.duration, m.sessionsGenerated, m.generationRuns)
	return m
}

func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err) // commit the response so its status is known
			}

			route := ctx.Path()
			method := ctx.Request().Method
			m.requests.WithLabelValues(route, method, strconv.Itoa(ctx.Response().Status)).Inc()
			m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

// SessionCreated counts a session created by the generator.
func (m *Metrics) SessionCreated(sess session.Session) {
	m.sessionsGenerated.WithLabelValues(string(sess.Status)).Inc()
}

func (m *Metrics) generationRun(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.generationRuns.WithLabelValues(result).Inc()
}
