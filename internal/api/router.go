package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"folio/internal/api/middleware"
	"folio/internal/config"
	"folio/internal/metrics"
)

// NewRouter 构建 Gin 引擎并挂载公共中间件、健康检查与 /metrics。
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger, "/health", "/metrics"),
		gin.Recovery(),
		metrics.GinMiddleware("/health", "/metrics"),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	secret := ""
	if cfg != nil {
		secret = cfg.API.MetricsSecret
	}
	router.GET("/metrics", middleware.InternalSecretMiddleware(secret), gin.WrapH(promhttp.Handler()))

	return router
}
