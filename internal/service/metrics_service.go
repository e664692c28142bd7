package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the kiosk.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	checkinTotal    *prometheus.CounterVec
	mirrorFailures  prometheus.Counter
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

	checkinTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkins_total",
		Help: "Committed check-ins by status and attendee type",
	}, []string{"status", "type"})

	mirrorFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mirror_failures_total",
		Help: "Remote mirror operations that degraded to local-only",
	})

	registry.MustRegister(requestDuration, requestTotal, checkinTotal, mirrorFailures)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		checkinTotal:    checkinTotal,
		mirrorFailures:  mirrorFailures,
	}
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := fmt.Sprintf("%d", status)
	s.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, code).Inc()
}

// IncCheckin counts a committed check-in.
func (s *MetricsService) IncCheckin(status, attendeeType string) {
	s.checkinTotal.WithLabelValues(status, attendeeType).Inc()
}

// IncMirrorFailure counts a degraded mirror operation.
func (s *MetricsService) IncMirrorFailure() {
	s.mirrorFailures.Inc()
}

// Handler exposes the scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}
