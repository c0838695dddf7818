package metrics

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds custom Prometheus metrics. A nil *MetricsManager is valid and records nothing.
type MetricsManager struct {
	Registry             *prometheus.Registry
	ListingsCreatedTotal prometheus.Counter
	ListingUpdatesTotal  prometheus.Counter
	ListingDeletesTotal  prometheus.Counter
	BlobFailuresTotal    *prometheus.CounterVec
	SalesPostsTotal      *prometheus.CounterVec
	ActiveSessions       prometheus.Gauge
	APIErrorsTotal       *prometheus.CounterVec
	APILatency           *prometheus.HistogramVec
}

// NewMetricsManager initializes and registers the service metrics on a private registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		ListingsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listings_created_total",
			Help:      "Total number of listings created.",
		}),
		ListingUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listing_updates_total",
			Help:      "Total number of listings updated.",
		}),
		ListingDeletesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "listing_deletes_total",
			Help:      "Total number of listings deleted.",
		}),
		BlobFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "blob_failures_total",
			Help:      "Blob operations that failed and may have left orphans behind.",
		}, []string{"operation"}),
		SalesPostsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "sales_posts_total",
			Help:      "Sales post pipeline runs by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "active_sessions",
			Help:      "Sessions signed in since start-up minus sessions signed out.",
		}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by route and status.",
		}, []string{"route", "status"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	registry.MustRegister(
		m.ListingsCreatedTotal,
		m.ListingUpdatesTotal,
		m.ListingDeletesTotal,
		m.BlobFailuresTotal,
		m.SalesPostsTotal,
		m.ActiveSessions,
		m.APIErrorsTotal,
		m.APILatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *MetricsManager) ListingCreated() {
	if m != nil {
		m.ListingsCreatedTotal.Inc()
	}
}

func (m *MetricsManager) ListingUpdated() {
	if m != nil {
		m.ListingUpdatesTotal.Inc()
	}
}

func (m *MetricsManager) ListingDeleted() {
	if m != nil {
		m.ListingDeletesTotal.Inc()
	}
}

// BlobFailure counts a failed blob operation ("upload", "delete", "fetch").
func (m *MetricsManager) BlobFailure(operation string) {
	if m != nil {
		m.BlobFailuresTotal.WithLabelValues(operation).Inc()
	}
}

func (m *MetricsManager) SalesPost(outcome string) {
	if m != nil {
		m.SalesPostsTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *MetricsManager) SessionStarted() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

func (m *MetricsManager) SessionEnded() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

// Handler exposes the private registry.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// NewMetricsServer builds the /metrics server. An empty port disables it and returns nil.
func NewMetricsServer(port string, appLogger *logger.Logger, m *MetricsManager) *http.Server {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	appLogger.Info("Prometheus metrics server configured", zap.String("port", port), zap.String("path", "/metrics"))
	return server
}
