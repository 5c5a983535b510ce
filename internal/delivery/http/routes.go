package http

import (
	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/config"
	"github.com/pricelens/backend/internal/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log logger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		workflow := v1.Group("/workflow")
		{
			workflow.POST("/analyze", handler.Analyze)
			workflow.POST("/analyze-and-price", handler.AnalyzeAndPrice)
			workflow.POST("/live-prices", handler.GetLivePrices)
			workflow.POST("/image-search", handler.SearchByImage)
			workflow.POST("/filter", handler.ApplyFilter)
			workflow.DELETE("/filter", handler.ClearFilter)
			workflow.POST("/clear", handler.Clear)
			workflow.GET("/state", handler.State)
		}
	}

	return router
}
