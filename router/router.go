package router

import (
	"github.com/RoamLine/trip-progress-engine/config"
	"github.com/RoamLine/trip-progress-engine/handlers"
	"github.com/RoamLine/trip-progress-engine/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config          *config.Config
	ProgressHandler *handlers.ProgressHandler
	HealthHandler   *handlers.HealthHandler
	Logger          *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and metrics routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Versioned API Group (v1)
	v1 := r.Group("/v1")
	{
		progress := v1.Group("/trips/:id/progress")
		{
			progress.POST("", deps.ProgressHandler.StartProgress)
			progress.GET("", deps.ProgressHandler.GetProgress)
			progress.POST("/complete", deps.ProgressHandler.CompleteStop)
			progress.POST("/skip", deps.ProgressHandler.SkipStop)
			progress.POST("/replace", deps.ProgressHandler.ReplaceStop)
			progress.POST("/advance-day", deps.ProgressHandler.AdvanceDay)
			progress.POST("/reset", deps.ProgressHandler.ResetProgress)
			progress.PATCH("/stops/:stopId", deps.ProgressHandler.UpdateStopStatus)
		}
	}

	return r
}
