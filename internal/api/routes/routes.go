package routes

import (
	"jobradar/internal/api/handlers"
	"jobradar/internal/api/middleware"
	"jobradar/internal/config"
	"jobradar/internal/llm"
	"jobradar/internal/notify"
	"jobradar/internal/pipeline"
	"jobradar/internal/store"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, st store.Store, orchestrator *pipeline.Orchestrator, llmManager *llm.Manager, notifier *notify.Service) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// The discovery trigger runs a whole pipeline pass, give it the run
	// timeout instead of the request timeout
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, cfg.Pipeline.RunTimeout))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(st, llmManager))
		health.GET("/live", handlers.LivenessHandler)
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(st, llmManager))

	// Discovery trigger
	e.POST("/check-jobs", handlers.CheckJobsHandler(orchestrator))

	// Admin API routes
	api := e.Group("/api")
	{
		targets := api.Group("/targets")
		{
			targets.GET("", handlers.ListTargetsHandler(st))
			targets.POST("", handlers.CreateTargetHandler(st))
			targets.GET("/:id", handlers.GetTargetHandler(st))
			targets.PATCH("/:id", handlers.UpdateTargetHandler(st))
			targets.DELETE("/:id", handlers.DeleteTargetHandler(st))
		}

		jobs := api.Group("/jobs")
		{
			jobs.GET("", handlers.ListJobsHandler(st))
			jobs.GET("/:id", handlers.GetJobHandler(st))
			jobs.PATCH("/:id/status", handlers.UpdateJobStatusHandler(st))
			jobs.DELETE("/:id", handlers.DeleteJobHandler(st))
		}

		api.GET("/stats", handlers.StatsHandler(st))
		api.GET("/companies", handlers.CompaniesHandler(st))

		notifications := api.Group("/notifications")
		{
			notifications.GET("/channels", handlers.NotificationChannelsHandler(notifier))
			notifications.POST("/test", handlers.NotificationTestHandler(notifier))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"service": "Job Radar",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
