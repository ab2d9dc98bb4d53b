// metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics метрики HTTP API, прогнозов и панели мониторинга.
// Все коллекторы регистрируются в собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	forecastsTotal    *prometheus.CounterVec
	forecastDuration  prometheus.Histogram
	dashboardClients  prometheus.Gauge
	snapshotsPruned   prometheus.Counter
}

// New создает и регистрирует метрики
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		forecastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecasts_total",
			Help: "Total forecasts computed by outcome.",
		}, []string{"outcome"}),
		forecastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forecast_duration_seconds",
			Help:    "Histogram of forecast computation durations.",
			Buckets: prometheus.DefBuckets,
		}),
		dashboardClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_clients",
			Help: "Number of connected dashboard websocket clients.",
		}),
		snapshotsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecast_snapshots_pruned_total",
			Help: "Total forecast snapshots removed by retention.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpDuration,
		m.forecastsTotal,
		m.forecastDuration,
		m.dashboardClients,
		m.snapshotsPruned,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler считает запросы и время ответа для маршрута
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(duration)
		}
	})
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveForecast учитывает результат расчета прогноза
func (m *Metrics) ObserveForecast(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.forecastsTotal.WithLabelValues(outcome).Inc()
	m.forecastDuration.Observe(d.Seconds())
}

// SetDashboardClients фиксирует число подключенных клиентов панели
func (m *Metrics) SetDashboardClients(n int) {
	if m == nil {
		return
	}
	m.dashboardClients.Set(float64(n))
}

// SnapshotsPruned учитывает удаленные по сроку хранения снимки
func (m *Metrics) SnapshotsPruned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.snapshotsPruned.Add(float64(n))
}
