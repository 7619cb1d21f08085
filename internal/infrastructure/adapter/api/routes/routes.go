package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/credit-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/credit-ledger/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	creditHandler *handler.CreditHandler,
	healthHandler *handler.HealthHandler,
	metricsHandler http.Handler,
) {
	credits := router.Group("/api/credits")
	{
		credits.GET("/:userId", creditHandler.GetCredits)
		credits.POST("/:userId/add", creditHandler.AddCredits)
		credits.POST("/:userId/deduct", creditHandler.DeductCredits)
		credits.PATCH("/:userId/reset", creditHandler.ResetCredits)
	}

	router.GET("/health", healthHandler.Health)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	router.NoRoute(middleware.NotFound())
}

// SetupMiddlewares configures global middlewares for the API. observer may be nil.
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, allowedOrigins []string, observer middleware.HTTPObserver) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	if observer != nil {
		router.Use(middleware.Metrics(observer))
	}
	router.Use(middleware.CORS(allowedOrigins))
}
