package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"monogrid/internal/database"
	"monogrid/internal/exporter"
	"monogrid/internal/handlers"
	"monogrid/internal/logging"
	"monogrid/internal/memory"
	"monogrid/internal/metrics"
	"monogrid/internal/middleware"
	"monogrid/internal/pexels"
	"monogrid/internal/startup"
	"monogrid/internal/transcoder"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Configure GOMEMLIMIT from the container limit before any
	// significant allocations
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Initialize the image transcoder; vips is optional and the
	// pure-Go codecs cover JPG/PNG when it is missing
	if err := transcoder.InitVips(); err != nil {
		logging.Debug("libvips initialization: %v", err)
	}
	startup.LogTranscoderInit(transcoder.IsVipsAvailable())
	trans := transcoder.New()

	// Catalog client
	catalog := pexels.NewClient(config.PexelsAPIKey)

	// Memory backpressure for the export pipeline
	memMonitor := memory.NewMonitor(memory.DefaultConfig())
	memMonitor.Start()
	defer memMonitor.Stop()

	// Export pipeline
	exp := exporter.New(exporter.Config{
		Transcoder:   trans,
		Workers:      config.ExportWorkers,
		AssetTimeout: config.ExportAssetTimeout,
		Memory:       memMonitor,
	})
	startup.LogExporterInit(exp.Workers(), config.ExportAssetTimeout)

	// Initialize handlers
	h := handlers.New(db, catalog, exp)

	// Setup router
	router := setupRouter(h, config.MetricsEnabled)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	measuredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	// Apply compression middleware (export downloads are excluded)
	compressionConfig := middleware.DefaultCompressionConfig()
	handler := middleware.Compression(compressionConfig)(measuredHandler)

	// Create server; WriteTimeout is unset because archive downloads
	// can legitimately take minutes
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Dedicated metrics listener for scrapers
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:        ":" + config.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if metricsEnabled {
		r.Handle("/metrics", h.MetricsHandler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Catalog browsing
	api.HandleFunc("/photos/search", h.SearchPhotos).Methods("GET")
	api.HandleFunc("/photos/curated", h.CuratedPhotos).Methods("GET")
	api.HandleFunc("/videos/search", h.SearchVideos).Methods("GET")
	api.HandleFunc("/videos/popular", h.PopularVideos).Methods("GET")
	api.HandleFunc("/explore", h.Explore).Methods("GET")
	api.HandleFunc("/explore/{id}", h.ExploreDetail).Methods("GET")

	// Collections
	api.HandleFunc("/collections", h.ListCollections).Methods("GET")
	api.HandleFunc("/collections", h.CreateCollection).Methods("POST")
	api.HandleFunc("/collections/{id}", h.GetCollection).Methods("GET")
	api.HandleFunc("/collections/{id}", h.DeleteCollection).Methods("DELETE")
	api.HandleFunc("/collections/{id}/assets", h.ListCollectionAssets).Methods("GET")
	api.HandleFunc("/collections/{id}/assets", h.AddCollectionAsset).Methods("POST")
	api.HandleFunc("/collections/{id}/assets/{assetId}", h.RemoveCollectionAsset).Methods("DELETE")

	// Export
	api.HandleFunc("/collections/{id}/export", h.ExportCollection).Methods("POST")
	api.HandleFunc("/collections/{id}/export/preview", h.ExportPreview).Methods("POST")
	api.HandleFunc("/export", h.ExportSelection).Methods("POST")

	// Community board
	api.HandleFunc("/community", h.ListPosts).Methods("GET")
	api.HandleFunc("/community", h.CreatePost).Methods("POST")
	api.HandleFunc("/community/{id}/like", h.LikePost).Methods("POST")
	api.HandleFunc("/community/{id}", h.DeletePost).Methods("DELETE")

	// Static files (the built frontend, when deployed alongside)
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsSrv != nil {
		startup.LogShutdownStep("metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("metrics server")
		}
	}

	startup.LogShutdownStep("HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server")
	}

	startup.LogShutdownStep("image transcoder")
	transcoder.ShutdownVips()
	startup.LogShutdownStepComplete("image transcoder")

	startup.LogShutdownComplete()
}
