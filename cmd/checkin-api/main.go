package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/dfma-ops/checkin-api/api/swagger"
	"github.com/dfma-ops/checkin-api/internal/greeter"
	"github.com/dfma-ops/checkin-api/internal/handler"
	"github.com/dfma-ops/checkin-api/internal/middleware"
	"github.com/dfma-ops/checkin-api/internal/models"
	"github.com/dfma-ops/checkin-api/internal/repository"
	"github.com/dfma-ops/checkin-api/internal/service"
	"github.com/dfma-ops/checkin-api/pkg/cache"
	"github.com/dfma-ops/checkin-api/pkg/config"
	"github.com/dfma-ops/checkin-api/pkg/database"
	"github.com/dfma-ops/checkin-api/pkg/jobs"
	"github.com/dfma-ops/checkin-api/pkg/logger"
	corsmiddleware "github.com/dfma-ops/checkin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dfma-ops/checkin-api/pkg/middleware/requestid"
	"github.com/dfma-ops/checkin-api/pkg/storage"
)

// @title Event Check-in API
// @version 1.0.0
// @description Self-service event check-in kiosk backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The mirror and roster source live in Postgres. The kiosk must keep
	// working when the database is down, so a failed connection degrades
	// to local-only operation instead of aborting startup.
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn("postgres unavailable, running local-only", zap.Error(err))
		db = nil
	} else {
		defer db.Close() //nolint:errcheck
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()
	eventLocation := time.FixedZone(fmt.Sprintf("UTC%+d", cfg.Event.UTCOffsetHours), cfg.Event.UTCOffsetHours*3600)

	sessionRegistry := repository.NewSessionRegistry(cfg.Storage.SessionsFilePath)
	attendanceLog := repository.NewAttendanceLog(cfg.Storage.AttendanceLogPath)
	settingsStore := repository.NewSettingsStore(cfg.Storage.SettingsFilePath, models.KioskSettings{HighTraffic: cfg.Checkin.DefaultHighTraffic})
	rosterFile := repository.NewRosterFile(cfg.Storage.RosterFilePath)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	jobStore := repository.NewExportJobStore()

	metricsSvc := service.NewMetricsService()
	settingsSvc := service.NewSettingsService(settingsStore, logr)
	sessionSvc := service.NewSessionService(sessionRegistry, validate, logr)

	var logbookSvc *service.LogbookService
	if db != nil && cfg.Mirror.Enabled {
		logbookSvc = service.NewLogbookService(attendanceLog, repository.NewMirrorRepository(db), metricsSvc, logr)
	} else {
		logbookSvc = service.NewLogbookService(attendanceLog, nil, metricsSvc, logr)
	}

	var rosterSvc *service.RosterService
	if db != nil {
		rosterSvc = service.NewRosterService(repository.NewRosterRepository(db), rosterFile, cacheRepo, logr, cfg.Roster.CacheTTL)
	} else {
		rosterSvc = service.NewRosterService(nil, rosterFile, cacheRepo, logr, cfg.Roster.CacheTTL)
	}

	greeterClient := greeter.New(cfg.Greeter.BaseURL, cfg.Greeter.Timeout, !cfg.Greeter.Enabled)
	greetingSvc := service.NewGreetingService(greeterClient, cacheRepo, logr, cfg.Greeter.CacheTTL)

	checkinSvc := service.NewCheckinService(sessionSvc, rosterSvc, logbookSvc, greetingSvc, metricsSvc, validate, logr, service.CheckinConfig{
		EventLocation:         eventLocation,
		VerificationSuffixLen: cfg.Checkin.VerificationSuffixLen,
	})

	projectionSvc := service.NewProjectionService(sessionSvc, logbookSvc, logr, service.ProjectionConfig{
		KioskURL:        cfg.Event.KioskURL,
		FeedSize:        cfg.Projection.FeedSize,
		RefreshInterval: cfg.Projection.RefreshInterval,
	})

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Password:  cfg.Admin.Password,
		JWTSecret: cfg.Admin.JWTSecret,
		JWTExpiry: cfg.Admin.JWTExpiry,
		Issuer:    cfg.Admin.Issuer,
	})

	exportFiles, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(jobStore, logbookSvc, exportFiles, signer, validate, logr, service.ExportConfig{APIPrefix: cfg.APIPrefix})

	exportQueue := jobs.NewQueue("exports", exportSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportSvc.SetDispatcher(exportQueue)
	exportQueue.Start(ctx)
	defer exportQueue.Stop()

	// Export files outlive their signed URLs only until the next sweep.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := exportFiles.CleanupOlderThan(cfg.Exports.SignedURLTTL)
				if err != nil {
					logr.Warn("export cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					logr.Info("expired export files removed", zap.Int("count", len(removed)))
				}
			}
		}
	}()

	checkinHandler := handler.NewCheckinHandler(checkinSvc, settingsSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	projectionHandler := handler.NewProjectionHandler(projectionSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	logbookHandler := handler.NewLogbookHandler(logbookSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/checkin", checkinHandler.CheckIn)
		api.GET("/checkin/sessions/:code", checkinHandler.Resolve)
		api.GET("/roster/names", rosterHandler.Names)
		api.GET("/projection/:id", projectionHandler.Feed)
		api.GET("/export/:token", exportHandler.Download)
		api.POST("/auth/login", authHandler.Login)

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			admin.GET("/sessions", sessionHandler.List)
			admin.POST("/sessions", sessionHandler.Create)
			admin.GET("/sessions/:id", sessionHandler.Get)
			admin.DELETE("/sessions/:id", sessionHandler.Delete)
			admin.POST("/sessions/:id/deactivate", sessionHandler.Deactivate)

			admin.GET("/settings", settingsHandler.Get)
			admin.PUT("/settings", settingsHandler.Update)

			admin.GET("/logbook", logbookHandler.List)
			admin.GET("/logbook/download", logbookHandler.Download)
			admin.POST("/logbook/reconcile", logbookHandler.Reconcile)

			admin.GET("/roster", rosterHandler.List)
			admin.POST("/roster/upload", rosterHandler.Upload)

			admin.POST("/exports", exportHandler.Create)
			admin.GET("/exports/:id", exportHandler.Get)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
