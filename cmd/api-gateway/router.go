package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-console-api/internal/handler"
	internalmiddleware "github.com/noah-isme/edu-console-api/internal/middleware"
	"github.com/noah-isme/edu-console-api/internal/models"
	"github.com/noah-isme/edu-console-api/internal/service"
	"github.com/noah-isme/edu-console-api/pkg/config"
	"github.com/noah-isme/edu-console-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-console-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-console-api/pkg/middleware/requestid"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

type routerDeps struct {
	db           pinger
	auth         *service.AuthService
	metrics      *service.MetricsService
	drafts       *service.ScheduleDraftService
	weekly       *service.WeeklyScheduleService
	applications *service.ScheduleApplicationService
	exports      *service.ExportService
	schedulerOn  bool
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(deps.metrics, "/metrics", "/health", "/ready"))

	metricsHandler := handler.NewMetricsHandler(deps.metrics)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.db.PingContext(ctx); err != nil {
			logr.Warn("readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "drafts": deps.drafts.ActiveDrafts()})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := strings.TrimRight(cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)
	api.Use(internalmiddleware.WithResponseMeta())

	exportHandler := handler.NewScheduleExportHandler(deps.drafts, deps.weekly, deps.exports)
	// Signed links carry their own authorisation.
	api.GET("/schedules/exports/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(deps.auth))
	writers := internalmiddleware.RequireRoles(models.ScheduleEditors...)
	secured.GET("/metrics/summary", writers, metricsHandler.Summary)

	if !deps.schedulerOn {
		logr.Info("scheduler routes disabled")
		return r
	}

	draftHandler := handler.NewScheduleDraftHandler(deps.drafts)
	weeklyHandler := handler.NewWeeklyScheduleHandler(deps.weekly)
	applicationHandler := handler.NewScheduleApplicationHandler(deps.applications)

	schedules := secured.Group("/schedules")
	schedules.GET("/time-slots", draftHandler.TimeSlots)
	schedules.GET("/weekly", weeklyHandler.Weekly)
	schedules.GET("/weekly/calendar", weeklyHandler.Calendar)
	schedules.GET("/weekly/export", exportHandler.ExportWeekly)
	schedules.GET("/applications", applicationHandler.List)
	schedules.GET("/applications/:id", applicationHandler.Get)
	schedules.POST("/blackouts/check", draftHandler.CheckBlackout)

	drafts := schedules.Group("/drafts", writers)
	drafts.POST("", draftHandler.Generate)
	drafts.POST("/manual", draftHandler.OpenManual)
	drafts.GET("/:id", draftHandler.Get)
	drafts.DELETE("/:id", draftHandler.Discard)
	drafts.POST("/:id/regenerate", draftHandler.Regenerate)
	drafts.POST("/:id/sessions", draftHandler.AddSession)
	drafts.PATCH("/:id/sessions/:sessionId", draftHandler.UpdateSession)
	drafts.DELETE("/:id/sessions/:sessionId", draftHandler.RequestDelete)
	drafts.POST("/:id/confirmations/:token", draftHandler.Confirm)
	drafts.POST("/:id/drag/lift", draftHandler.Lift)
	drafts.POST("/:id/drag/hover", draftHandler.Hover)
	drafts.POST("/:id/drag/drop", draftHandler.Drop)
	drafts.POST("/:id/drag/cancel", draftHandler.CancelDrag)
	drafts.GET("/:id/conflicts", draftHandler.Conflicts)
	drafts.POST("/:id/week/prev", draftHandler.PreviousWeek)
	drafts.POST("/:id/week/next", draftHandler.NextWeek)
	drafts.GET("/:id/calendar", draftHandler.Calendar)
	drafts.POST("/:id/apply", draftHandler.Apply)
	drafts.GET("/:id/export", exportHandler.ExportDraft)
	drafts.POST("/:id/exports", exportHandler.PublishDraft)

	return r
}
