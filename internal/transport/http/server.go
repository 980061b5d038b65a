package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/config"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/core"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/metrics"
)

// NewServer builds the HTTP server: the websocket relay endpoint, the
// read-only room API, health, metrics and the static chat page.
func NewServer(registry *core.Registry, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(registry, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter wires all routes onto a gin engine.
func NewRouter(registry *core.Registry, cfg config.Config, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger), metrics.GinMiddleware())

	router.GET("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", gin.WrapH(NewWSHandler(registry, cfg, logger)))

	api := NewAPIHandlers(registry, logger)
	router.GET("/api/rooms/:code", api.GetRoom)
	router.GET("/api/stats", api.GetStats)

	router.StaticFile("/", "web/index.html")

	return router
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
