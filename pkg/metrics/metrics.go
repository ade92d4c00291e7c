package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the process-wide registry exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	// Buckets tuned for document store calls (ms) up to slow uploads (seconds)
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13}

	// HTTP Metrics
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Document store metrics
	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"driver", "operation", "status"},
	)

	StoreOperationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of document store operations",
		},
		[]string{"driver", "operation", "status"},
	)

	// Cache Metrics
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Object storage metrics
	UploadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Object storage operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"driver", "status"},
	)

	// Business Metrics
	ContentWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_content_writes_total",
			Help: "Total number of content writes by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	LeadSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_lead_submissions_total",
			Help: "Total number of lead form submissions",
		},
		[]string{"status"},
	)

	LeadNotifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_lead_notifications_total",
			Help: "Total number of lead notifications by channel",
		},
		[]string{"channel", "status"},
	)

	SeedRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_seed_runs_total",
			Help: "Total number of seed runs",
		},
		[]string{"status"},
	)

	SeedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_seed_records_total",
			Help: "Records processed by the seeder by collection and outcome",
		},
		[]string{"collection", "outcome"},
	)

	ImageUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_image_uploads_total",
			Help: "Total number of image uploads",
		},
		[]string{"status"},
	)

	AdminLogins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_admin_logins_total",
			Help: "Admin login attempts",
		},
		[]string{"status"},
	)

	// Infrastructure Metrics
	GoRoutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequestDuration,
		HTTPRequestTotal,
		ActiveRequests,
		StoreOperationDuration,
		StoreOperationTotal,
		CacheHits,
		CacheMisses,
		UploadDuration,
		ContentWrites,
		LeadSubmissions,
		LeadNotifications,
		SeedRuns,
		SeedRecords,
		ImageUploads,
		AdminLogins,
		GoRoutines,
		HeapAlloc,
	)
}

// RecordInfrastructureMetrics collects runtime metrics until ctx is cancelled
func RecordInfrastructureMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
