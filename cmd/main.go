package main

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/givehope/donation-service/config"
	database "github.com/givehope/donation-service/internal/core"
	"github.com/givehope/donation-service/internal/core/repository/psql"
	logicv1 "github.com/givehope/donation-service/internal/logic/v1"
	"github.com/givehope/donation-service/internal/notify"
	"github.com/givehope/donation-service/internal/storage"
	webv1 "github.com/givehope/donation-service/internal/web/v1"
	"github.com/givehope/donation-service/middleware"
)

func main() {
	// Load configuration from environment variables (with .env file support for local dev)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("Configuration validation failed: " + err.Error())
	}

	// Initialize structured logger
	logger, err := middleware.NewLogger()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.Info("Service starting",
		zap.String("service", cfg.Service.Name),
		zap.String("version", cfg.Service.Version),
		zap.String("env", cfg.Service.Env),
		zap.String("port", cfg.Service.Port),
	)

	// Initialize OpenTelemetry tracing with centralized config
	var tp interface{ Shutdown(context.Context) error }
	if cfg.Tracing.Enabled {
		tp, err = middleware.InitTracing(cfg)
		if err != nil {
			logger.Warn("Failed to initialize tracing", zap.Error(err))
		} else {
			logger.Info("Tracing initialized",
				zap.String("endpoint", cfg.Tracing.Endpoint),
				zap.Float64("sample_rate", cfg.Tracing.SampleRate),
			)
		}
	} else {
		logger.Info("Tracing disabled (TRACING_ENABLED=false)")
	}

	// Initialize Pyroscope profiling
	if cfg.Profiling.Enabled {
		if err := middleware.InitProfiling(); err != nil {
			logger.Warn("Failed to initialize profiling", zap.Error(err))
		} else {
			logger.Info("Profiling initialized",
				zap.String("endpoint", cfg.Profiling.Endpoint),
			)
			defer middleware.StopProfiling()
		}
	} else {
		logger.Info("Profiling disabled (PROFILING_ENABLED=false)")
	}

	// Initialize database connection pool (pgx) and apply schema
	pool, err := database.Connect(context.Background())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	if err := database.Migrate(context.Background(), pool); err != nil {
		logger.Fatal("Failed to apply database schema", zap.Error(err))
	}
	logger.Info("Database connection pool established")

	// Redis backs the status-event queue between the API and the
	// notification worker.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// Notifications are best-effort; the API still serves without Redis.
		logger.Warn("Redis unreachable, status notifications degraded", zap.Error(err))
	} else {
		logger.Info("Redis connection established", zap.String("addr", cfg.Redis.Addr))
	}

	// Image storage for donation photos and NGO logos
	images, err := storage.New(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	// Wire repositories, services and handlers
	accounts := psql.NewAccountRepository()
	donations := psql.NewDonationRepository()
	events := notify.NewQueue(rdb)

	authService := logicv1.NewAuthService(accounts, cfg.Auth.JWTSecret)
	donationService := logicv1.NewDonationService(accounts, donations, events, logger)

	authHandler := webv1.NewAuthHandler(authService, images)
	donationHandler := webv1.NewDonationHandler(donationService, images)

	// Notification worker: drains the Redis queue and emails donors.
	// Skipped entirely when no SMTP relay is configured.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if cfg.SMTP.Enabled() {
		sender := notify.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		worker := notify.NewWorker(rdb, sender, logger)
		go worker.Run(workerCtx)
		logger.Info("Notification worker started", zap.String("smtp_host", cfg.SMTP.Host))
	} else {
		logger.Info("SMTP not configured, notification worker disabled")
	}

	r := gin.Default()

	var isShuttingDown atomic.Bool

	// Tracing middleware (must be first for context propagation)
	r.Use(middleware.TracingMiddleware())

	// Logging middleware (must be before Prometheus middleware)
	r.Use(middleware.LoggingMiddleware(logger))

	// Prometheus middleware
	r.Use(middleware.PrometheusMiddleware())

	// CORS for the browser frontend
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Readiness check
	// Returns 503 once shutdown has started, to drain traffic before HTTP shutdown.
	r.GET("/ready", func(c *gin.Context) {
		if isShuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded donation photos and NGO logos
	r.Static(cfg.Uploads.BaseURL, images.Dir())

	// API v1 (canonical API - frontend-aligned)
	requireAuth := middleware.AuthMiddleware(cfg.Auth.JWTSecret, logger)
	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.GET("/ngos", requireAuth, authHandler.ListNGOs)
			auth.POST("/configure", requireAuth, authHandler.Configure)
		}

		d := apiV1.Group("/donations")
		d.Use(requireAuth)
		{
			d.POST("", donationHandler.Create)
			d.GET("/user/:userId", donationHandler.ListForDonor)
			d.GET("/ngo/:ngoId", donationHandler.ListForNGO)
			d.PUT("/:id/status", donationHandler.UpdateStatus)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Service.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting donation service", zap.String("port", cfg.Service.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown - modern signal handling with context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Fail readiness first and wait for propagation (best practice for K8s rollout).
	isShuttingDown.Store(true)
	drainDelay := cfg.GetReadinessDrainDelayDuration()
	if drainDelay > 0 {
		logger.Info("Readiness drain delay started", zap.Duration("delay", drainDelay))
		time.Sleep(drainDelay)
		logger.Info("Readiness drain delay completed", zap.Duration("delay", drainDelay))
	}

	// Shutdown context with configurable timeout
	shutdownTimeout := cfg.GetShutdownTimeoutDuration()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server...", zap.Duration("timeout", shutdownTimeout))

	// Explicit cleanup sequence: HTTP Server → Worker → Database/Redis → Tracer
	// This ensures predictable shutdown order and easier debugging

	// 1. Shutdown HTTP server (stop accepting new connections, wait for in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shutdown complete")
	}

	// 2. Stop the notification worker
	stopWorker()

	// 3. Close database and Redis connections (explicit cleanup + defer for safety)
	pool.Close()
	logger.Info("Database pool closed")
	if err := rdb.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}

	// 4. Shutdown tracer (flush pending spans)
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", zap.Error(err))
		} else {
			logger.Info("Tracer shutdown complete")
		}
	}

	logger.Info("Graceful shutdown complete")
}
