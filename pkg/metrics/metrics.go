package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты бизнес-операций для меток
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics набор Prometheus метрик сервиса
// Все методы безопасны для nil-получателя, чтобы метрики можно было выключить конфигом
type Metrics struct {
	registry *prometheus.Registry
	service  string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueriesTotal    *prometheus.CounterVec
	dbQueryDuration   *prometheus.HistogramVec
	dbOpenConnections *prometheus.GaugeVec
	dbInUse           *prometheus.GaugeVec
	dbIdle            *prometheus.GaugeVec
	dbWaitCount       *prometheus.GaugeVec

	bookingsTotal       *prometheus.CounterVec
	cancellationsTotal  *prometheus.CounterVec
	slotsGeneratedTotal *prometheus.CounterVec
}

// New создает метрики в собственном registry
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		service:  serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		dbQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"service", "operation"}),
		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		dbInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		dbIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Booking attempts by result",
		}, []string{"service", "result"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cancellations_total",
			Help: "Cancellation attempts by result",
		}, []string{"service", "result"}),
		slotsGeneratedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_generated_total",
			Help: "Slots inserted by the horizon generator",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueriesTotal,
		m.dbQueryDuration,
		m.dbOpenConnections,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitCount,
		m.bookingsTotal,
		m.cancellationsTotal,
		m.slotsGeneratedTotal,
	)

	return m
}

// Handler HTTP обработчик для scrape
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry используется в тестах для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.service, method, route, http.StatusText(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	status := ResultSuccess
	if err != nil && err != sql.ErrNoRows {
		status = ResultError
	}
	m.dbQueriesTotal.WithLabelValues(m.service, operation, status).Inc()
	m.dbQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

// SetDBStats выставляет gauges пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConnections.WithLabelValues(m.service).Set(float64(stats.OpenConnections))
	m.dbInUse.WithLabelValues(m.service).Set(float64(stats.InUse))
	m.dbIdle.WithLabelValues(m.service).Set(float64(stats.Idle))
	m.dbWaitCount.WithLabelValues(m.service).Set(float64(stats.WaitCount))
}

func (m *Metrics) IncBooking(result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(m.service, result).Inc()
}

func (m *Metrics) IncCancellation(result string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(m.service, result).Inc()
}

func (m *Metrics) AddSlotsGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.slotsGeneratedTotal.WithLabelValues(m.service).Add(float64(n))
}
