package v1

import (
	"time"

	"github.com/DankerMu/Digital-earth-sub001/internal/infrastructure/http/v1/handler"
	"github.com/DankerMu/Digital-earth-sub001/pkg/logger"
	"github.com/DankerMu/Digital-earth-sub001/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(handler *handler.Handler, l logger.Logger, telemetryEnabled bool) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())

	if telemetryEnabled {
		r.Use(telemetry.GinMiddleware("digital-earth-tilecache"))
	}

	r.Use(ginZapLogger(l))

	api := r.Group("/api")
	v1 := api.Group("/v1")

	v1.GET("/healthz", handler.Healthz)
	v1.GET("/tile/:frame/:z/:x/:y", handler.Tile)
	v1.POST("/prefetch", handler.Prefetch)
	v1.GET("/policy", handler.Policy)
	v1.PUT("/network", handler.Network)
	v1.PUT("/performance", handler.Performance)
	v1.GET("/stats", handler.Stats)
	v1.POST("/stats/reset", handler.ResetStats)
	v1.PUT("/config", handler.Configure)
	v1.POST("/config/reset", handler.ResetConfig)
	v1.DELETE("/cache", handler.ClearCache)

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func ginZapLogger(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		l.Info("request",
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
			"latency", latency,
			"size", c.Writer.Size(),
		)
	}
}
