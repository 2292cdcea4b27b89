package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monogrid_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monogrid_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monogrid_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Media catalog client metrics
var (
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monogrid_catalog_requests_total",
			Help: "Total number of requests to the upstream media catalog",
		},
		[]string{"endpoint", "status"},
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monogrid_catalog_request_duration_seconds",
			Help:    "Media catalog request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
)

// Export pipeline metrics
var (
	ExportBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "monogrid_export_batches_total",
			Help: "Total number of export batches started",
		},
	)

	ExportBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "monogrid_export_batch_duration_seconds",
			Help:    "Export batch duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ExportAssetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monogrid_export_assets_total",
			Help: "Total number of assets processed by export batches",
		},
		[]string{"kind", "status"},
	)

	ExportAssetFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monogrid_export_asset_failures_total",
			Help: "Total number of per-asset export failures by error kind",
		},
		[]string{"kind"}, // "retrieval", "transcode", "resolution"
	)

	ExportArchiveBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "monogrid_export_archive_bytes",
			Help:    "Size of finalized export archives in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	ExportWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monogrid_export_workers",
			Help: "Number of workers used by the most recent export batch",
		},
	)

	ExportsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monogrid_exports_in_progress",
			Help: "Number of export batches currently running",
		},
	)
)

// Transcoder metrics
var (
	TranscodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monogrid_transcode_total",
			Help: "Total number of image transcode operations",
		},
		[]string{"target", "status"}, // status: "converted", "passthrough", "error"
	)

	TranscodeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monogrid_transcode_duration_seconds",
			Help:    "Image transcode duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"target"},
	)
)

// Store metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monogrid_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	CollectionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monogrid_collections_total",
			Help: "Total number of collections",
		},
	)

	CommunityPostsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monogrid_community_posts_total",
			Help: "Total number of community posts",
		},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monogrid_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monogrid_memory_paused",
			Help: "Whether export processing is paused for memory pressure (1 = paused)",
		},
	)

	MemoryForcedGC = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "monogrid_memory_forced_gc_total",
			Help: "Number of garbage collections forced by memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "monogrid_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
