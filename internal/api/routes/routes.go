package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gocomet/rider-tracker/internal/api/handlers"
	"github.com/gocomet/rider-tracker/internal/observability"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}
	r.Use(metricsMiddleware())

	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Live connection
	r.GET("/ws", h.HandleWebSocket)

	api := r.Group("/api")
	{
		api.POST("/login", h.Login)

		api.POST("/update_status", h.UpdateStatus)
		api.POST("/update_location", h.UpdateLocation)
		api.GET("/rider/:id/location", h.GetRiderLocation)
		api.GET("/riders/online", h.GetOnlineRiders)

		wallets := api.Group("/wallet")
		{
			wallets.GET("/:id", h.GetWallet)
			wallets.POST("/:id/credit", h.CreditWallet)
			wallets.POST("/:id/debit", h.DebitWallet)
		}
	}
}

// metricsMiddleware records request counts and latency per route
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
