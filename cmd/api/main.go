package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/evohome/evohome-cms/config"
	"github.com/evohome/evohome-cms/internal/builder"
	"github.com/evohome/evohome-cms/internal/cache"
	"github.com/evohome/evohome-cms/internal/database"
	"github.com/evohome/evohome-cms/internal/handlers"
	"github.com/evohome/evohome-cms/internal/middleware"
	"github.com/evohome/evohome-cms/internal/notify"
	"github.com/evohome/evohome-cms/internal/repository"
	"github.com/evohome/evohome-cms/internal/seed"
	"github.com/evohome/evohome-cms/internal/services"
	"github.com/evohome/evohome-cms/pkg/httpclient"
	"github.com/evohome/evohome-cms/pkg/logger"
	"github.com/evohome/evohome-cms/pkg/metrics"
	"github.com/evohome/evohome-cms/pkg/objectstore"
	"github.com/evohome/evohome-cms/pkg/profiling"
	"github.com/evohome/evohome-cms/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// newUploadStore builds the object store named by UPLOAD_DRIVER
func newUploadStore(cfg *config.Config) (objectstore.Store, *objectstore.LocalStore, error) {
	if cfg.Uploads.Driver == "s3" {
		store, err := objectstore.NewS3Store(objectstore.S3Config{
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			PublicURL:       cfg.S3.PublicURL,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		return store, nil, err
	}
	local, err := objectstore.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.PublicURL)
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting EvoHome CMS",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("uploads", cfg.Uploads.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(shutdownCtx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	metrics.RecordInfrastructureMetrics(ctx)

	// Document store, optionally behind the read cache
	store, closeStore, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer closeStore()

	var docs repository.DocumentStore = store
	if cfg.Cache.Disabled {
		logger.Warn("Document cache is DISABLED - every read goes to the store")
	} else {
		documentCache := cache.NewDocumentCache(store, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		documentCache.Warm(ctx, "content")
		docs = documentCache
	}

	repo := repository.NewContentRepository(docs, cfg.Content.Slots)

	fixtures, err := seed.Fixtures(cfg.Seed.FixturesDir)
	if err != nil {
		logger.Fatal("Failed to open seed fixtures", zap.Error(err))
	}

	uploadStore, localUploads, err := newUploadStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	// Lead notifications (webhook and/or email)
	dispatcher := notify.FromConfig(cfg, httpclient.NewStandardClient(10*time.Second))
	if !dispatcher.Enabled() {
		logger.Warn("No lead notification channel configured; leads are only stored")
	}

	// Initialize services
	contentService := services.NewContentService(repo)
	recordService := services.NewRecordService(repo)
	pageService := services.NewPageService(repo, builder.DefaultRegistry())
	leadService := services.NewLeadService(repo, dispatcher)
	uploadService := services.NewUploadService(uploadStore)
	seedService := services.NewSeedService(seed.NewSeeder(repo, fixtures))
	adminAuthService := services.NewAdminAuthService(cfg.Admin)

	if cfg.Seed.OnStart {
		report, seedErr := seedService.Run(ctx)
		if seedErr != nil {
			logger.Error("Seed on start failed", zap.Error(seedErr))
		} else {
			created, updated, unchanged := report.Totals()
			logger.Info("Seed on start finished",
				zap.Bool("failed", report.Failed()),
				zap.Int("created", created),
				zap.Int("updated", updated),
				zap.Int("unchanged", unchanged))
		}
	}

	healthHandler := handlers.NewHealthHandler(repo.Ping)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173", "http://127.0.0.1:5173")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AdminKeyHeader, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(ctx, 100, 200) // 100 req/sec, burst of 200
	leadRateLimiter := middleware.NewRateLimiter(ctx, 0.05, 5)     // 3 req/min, burst of 5
	loginRateLimiter := middleware.NewRateLimiter(ctx, rate.Every(30*time.Second), 5)

	router.GET("/", healthHandler.Root)

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	if localUploads != nil && strings.HasPrefix(cfg.Uploads.PublicURL, "/") {
		router.Static(cfg.Uploads.PublicURL, localUploads.Dir())
	}

	v1 := router.Group("/api/v1")
	v1.Use(generalRateLimiter.Middleware())
	handlers.Routes{
		Content:      handlers.NewContentHandler(contentService),
		Collections:  handlers.NewCollectionHandler(recordService),
		Pages:        handlers.NewPageHandler(pageService),
		Leads:        handlers.NewLeadHandler(leadService),
		Admin:        handlers.NewAdminHandler(adminAuthService, seedService),
		Upload:       handlers.NewUploadHandler(uploadService),
		AdminAuth:    middleware.AdminAuthMiddleware(adminAuthService),
		LeadLimiter:  leadRateLimiter.Middleware(),
		LoginLimiter: loginRateLimiter.Middleware(),
	}.Register(v1)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("Lead notifications still pending at shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
