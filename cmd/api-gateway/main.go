package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/edu-console-api/api/swagger"
	"github.com/noah-isme/edu-console-api/internal/repository"
	"github.com/noah-isme/edu-console-api/internal/scheduling"
	"github.com/noah-isme/edu-console-api/internal/service"
	"github.com/noah-isme/edu-console-api/pkg/cache"
	"github.com/noah-isme/edu-console-api/pkg/config"
	"github.com/noah-isme/edu-console-api/pkg/database"
	"github.com/noah-isme/edu-console-api/pkg/generator"
	"github.com/noah-isme/edu-console-api/pkg/jobs"
	"github.com/noah-isme/edu-console-api/pkg/logger"
	"github.com/noah-isme/edu-console-api/pkg/storage"
)

// @title Edu Console Scheduling API
// @version 1.0.0
// @description Draft, relocate and apply class schedules; read applied weeks.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	switch client, redisErr := cache.NewRedis(cfg.Redis); {
	case errors.Is(redisErr, cache.ErrDisabled):
		logr.Info("weekly cache disabled")
	case redisErr != nil:
		logr.Warn("redis unavailable, weekly cache disabled", zap.Error(redisErr))
	default:
		redisClient = client
		defer redisClient.Close() //nolint:errcheck
	}

	catalog, err := scheduling.ParseCatalog(cfg.Scheduler.TimeSlots)
	if err != nil {
		logr.Fatal("invalid SCHEDULER_TIME_SLOTS", zap.Error(err))
	}
	grid := scheduling.GridOptions{
		StartHour: cfg.Grid.StartHour,
		PxPerHour: cfg.Grid.PxPerHour,
		MinHeight: cfg.Grid.MinHeight,
	}
	location, err := time.LoadLocation(cfg.Exports.Timezone)
	if err != nil {
		logr.Warn("unknown EXPORTS_TIMEZONE, using UTC", zap.String("timezone", cfg.Exports.Timezone), zap.Error(err))
		location = time.UTC
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient, logr), metricsSvc, cfg.Scheduler.WeeklyCacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		Audience:          cfg.JWT.Audience,
	})

	generatorClient := generator.NewClient(generator.Config{
		BaseURL: cfg.Generator.BaseURL,
		Timeout: cfg.Generator.Timeout,
	}, logr)

	applicationRepo := repository.NewScheduleApplicationRepository(db)
	sessionRepo := repository.NewClassSessionRepository(db)

	invalidator := service.NewScheduleCacheInvalidator(cacheSvc, logr)
	invalidateQueue := jobs.NewQueue(invalidator.QueueName(), invalidator.Handle, jobs.QueueConfig{
		Workers:    cfg.Scheduler.InvalidateWorkers,
		MaxRetries: cfg.Scheduler.InvalidateRetries,
		Logger:     logr,
	})
	invalidator.UseQueue(invalidateQueue)
	invalidateQueue.Start(ctx)
	defer invalidateQueue.Stop()

	draftSvc := service.NewScheduleDraftService(
		catalog,
		generatorClient,
		applicationRepo,
		sessionRepo,
		db,
		invalidator,
		metricsSvc,
		validate,
		logr,
		service.ScheduleDraftConfig{
			DraftTTL:           cfg.Scheduler.DraftTTL,
			ConfirmRelocations: cfg.Scheduler.ConfirmRelocations,
			Grid:               grid,
		},
	)
	weeklySvc := service.NewWeeklyScheduleService(sessionRepo, generatorClient, cacheSvc, catalog, validate, logr, service.WeeklyScheduleConfig{
		Source:   cfg.Scheduler.ReadSource,
		CacheTTL: cfg.Scheduler.WeeklyCacheTTL,
		Grid:     grid,
	})
	applicationSvc := service.NewScheduleApplicationService(applicationRepo, sessionRepo, logr)

	exportCfg := service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
		Location:  location,
		ProductID: "-//edu-console//schedule//EN",
	}
	exportSvc := service.NewExportService(nil, nil, metricsSvc, exportCfg, logr)
	if exportStorage, storageErr := storage.NewLocalStorage(cfg.Exports.StorageDir); storageErr != nil {
		logr.Warn("export storage unavailable, publishing disabled", zap.String("dir", cfg.Exports.StorageDir), zap.Error(storageErr))
	} else {
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(exportStorage, signer, metricsSvc, exportCfg, logr)
	}

	go runMaintenance(ctx, logr, draftSvc, exportSvc, cfg.Exports.CleanupInterval)

	r := newRouter(cfg, logr, routerDeps{
		db:           db,
		auth:         authSvc,
		metrics:      metricsSvc,
		drafts:       draftSvc,
		weekly:       weeklySvc,
		applications: applicationSvc,
		exports:      exportSvc,
		schedulerOn:  cfg.Scheduler.Enabled,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
	logr.Info("server exited")
}

func runMaintenance(ctx context.Context, logr *zap.Logger, drafts *service.ScheduleDraftService, exports *service.ExportService, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	sweepTicker := time.NewTicker(time.Minute)
	cleanupTicker := time.NewTicker(interval)
	defer sweepTicker.Stop()
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweepTicker.C:
			drafts.Sweep()
		case <-cleanupTicker.C:
			removed, err := exports.Cleanup(0)
			if err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				logr.Info("expired exports removed", zap.Int("count", len(removed)))
			}
		}
	}
}
