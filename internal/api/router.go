package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noszczynski/bike-stats-sub000/internal/config"
	"github.com/noszczynski/bike-stats-sub000/internal/handler"
	"github.com/noszczynski/bike-stats-sub000/internal/middleware"
	"github.com/noszczynski/bike-stats-sub000/internal/repository"
	"github.com/noszczynski/bike-stats-sub000/internal/service"
)

// SetupRouter wires repositories, services and handlers onto a gin engine.
func SetupRouter(cfg *config.Config, db *sql.DB, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	activityRepo := repository.NewActivityRepository(db)
	trackpointRepo := repository.NewTrackpointRepository(db, cfg.InsertBatchSize)
	lapRepo := repository.NewLapRepository(db, cfg.InsertBatchSize)
	settingsRepo := repository.NewSettingsRepository(db)

	activityService := service.NewActivityService(activityRepo)
	uploadService := service.NewUploadService(db, activityService, activityRepo, trackpointRepo, lapRepo, logger)
	lapService := service.NewLapService(db, activityService, trackpointRepo, lapRepo, logger)
	zoneService := service.NewZoneService(activityService, activityRepo, trackpointRepo, settingsRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	trackpointService := service.NewTrackpointService(activityService, trackpointRepo)
	exportService := service.NewExportService(activityService, trackpointRepo)

	activityHandler := handler.NewActivityHandler(activityService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	trackpointHandler := handler.NewTrackpointHandler(trackpointService, exportService)
	lapHandler := handler.NewLapHandler(lapService)
	zoneHandler := handler.NewZoneHandler(zoneService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	r := gin.New()
	r.MaxMultipartMemory = cfg.UploadMaxBytes
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		gin.Recovery(),
		middleware.Sentry(),
		middleware.ReportServerErrors(),
	)

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := db.PingContext(c.Request.Context()); err != nil {
			status, code = "unavailable", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"message": "Bike stats API is running",
		})
	})

	api := r.Group("/api/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		activities := api.Group("/activities")
		{
			activities.POST("", activityHandler.CreateActivity)
			activities.GET("", activityHandler.ListActivities)
			activities.GET("/:id", activityHandler.GetActivity)

			activities.POST("/:id/fit",
				middleware.RateLimit(cfg.UploadRateLimit, cfg.UploadRateWindow),
				middleware.MaxBodyBytes(cfg.UploadMaxBytes),
				uploadHandler.UploadFIT)
			activities.DELETE("/:id/fit", uploadHandler.DeleteFIT)

			activities.GET("/:id/trackpoints", trackpointHandler.ListTrackpoints)
			activities.GET("/:id/trackpoints/export", trackpointHandler.ExportTrackpoints)

			activities.GET("/:id/laps", lapHandler.ListLaps)
			activities.POST("/:id/laps/generate", lapHandler.GenerateLaps)

			activities.GET("/:id/zones", zoneHandler.GetZones)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/zones", settingsHandler.GetZones)
			settings.PUT("/zones", settingsHandler.UpdateZones)
		}
	}

	return r
}
