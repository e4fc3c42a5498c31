package api

import (
	"github.com/Payamchegini021/Melody-generator/internal/api/handlers"
	apimiddleware "github.com/Payamchegini021/Melody-generator/internal/api/middleware"
	"github.com/Payamchegini021/Melody-generator/internal/config"
	"github.com/Payamchegini021/Melody-generator/internal/generator"
	"github.com/Payamchegini021/Melody-generator/internal/metrics"
	"github.com/Payamchegini021/Melody-generator/internal/store"
	"github.com/gin-gonic/gin"
)

func SetupRouter(gen *generator.Generator, melodies store.Store, cloudwatch *metrics.Client, cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(cfg.DatabaseURL != "")
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, gen.ModelSize)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// API routes v1
	v1 := router.Group("/api/v1")
	if cfg.IsGatewayMode() {
		v1.Use(apimiddleware.GatewayAuth())
	} else {
		v1.Use(apimiddleware.NoAuth())
	}
	{
		melodyHandler := handlers.NewMelodyHandler(gen, melodies, cloudwatch)
		v1.POST("/melodies", melodyHandler.Generate)
		v1.GET("/melodies", melodyHandler.List)
		v1.GET("/melodies/:id", melodyHandler.Get)
		v1.DELETE("/melodies/:id", melodyHandler.Delete)
		v1.POST("/melodies/:id/train", melodyHandler.Train)
		v1.GET("/melodies/:id/export", melodyHandler.Export)
		v1.GET("/melodies/:id/schedule", melodyHandler.Schedule)
	}

	return router
}
