package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer,
// the selection cache and the domain counters.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec
	selectionDraws  *prometheus.CounterVec
	poolResets      *prometheus.CounterVec
	wagerAttempts   *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	selectionDraws := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weekly_selection_draws_total",
		Help: "Weekly achievement draws per tier",
	}, []string{"tier", "forced"})

	poolResets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "achievement_pool_resets_total",
		Help: "Tier pool exhaustion resets",
	}, []string{"tier"})

	wagerAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "point_wagers_total",
		Help: "Point wager attempts by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		dbQueryDuration, selectionDraws, poolResets, wagerAttempts, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		dbQueryDuration: dbQueryDuration,
		selectionDraws:  selectionDraws,
		poolResets:      poolResets,
		wagerAttempts:   wagerAttempts,
	}
}

// Handler returns the Prometheus scrape handler.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, fmt.Sprintf("%d", status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveCacheLookup records a cache hit or miss.
func (s *MetricsService) ObserveCacheLookup(hit bool) {
	if hit {
		s.cacheHits.Inc()
		return
	}
	s.cacheMisses.Inc()
}

// ObserveDBQuery records one query duration under a stable label.
func (s *MetricsService) ObserveDBQuery(query string, duration time.Duration) {
	s.dbQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

// SelectionDrawn counts a tier draw.
func (s *MetricsService) SelectionDrawn(tier string, forced bool) {
	s.selectionDraws.WithLabelValues(tier, fmt.Sprintf("%t", forced)).Inc()
}

// PoolReset counts a tier exhaustion reset.
func (s *MetricsService) PoolReset(tier string) {
	s.poolResets.WithLabelValues(tier).Inc()
}

// WagerAttempt counts a wager by outcome.
func (s *MetricsService) WagerAttempt(ok bool) {
	outcome := "accepted"
	if !ok {
		outcome = "rejected"
	}
	s.wagerAttempts.WithLabelValues(outcome).Inc()
}
