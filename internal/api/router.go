package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartintern/internal/api/middleware"
	"smartintern/internal/config"
	"smartintern/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎，挂载健康检查与指标端点。
// databaseReady reflects whether the process managed to connect to the store
// at boot; the health endpoint reports it but the process keeps serving
// either way.
func NewRouter(cfg *config.Config, logger *slog.Logger, databaseReady bool) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		cors.New(corsConfig(cfg.API.Origins())),
	)

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "disconnected"
		if databaseReady {
			dbStatus = "connected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": dbStatus,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Correlation-ID"}
	return cfg
}
