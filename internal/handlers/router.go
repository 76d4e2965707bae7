package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alimgiray/peopleapi/internal/metrics"
	"github.com/alimgiray/peopleapi/internal/middleware"
)

// NewRouter builds the gin engine with the middleware chain and every route
func NewRouter(personHandler *PersonHandler, healthHandler *HealthHandler, m *metrics.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()

	// Apply middleware, the error handler runs closest to the handlers
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RequestMetrics(m))
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())

	// People routes
	people := router.Group("/people")
	{
		people.GET("", personHandler.ListPeople)
		people.POST("", personHandler.CreatePerson)
		people.GET("/:id", personHandler.GetPerson)
		people.PATCH("/:id", personHandler.UpdatePerson)
		people.DELETE("/:id", personHandler.DeletePerson)
	}

	// Health check and metrics endpoints
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	router.NoRoute(NewNotFoundHandler().NotFound)

	return router
}
