package api

import (
	"github.com/gin-gonic/gin"
	"github.com/playpool/racer/internal/api/handlers"
	"github.com/playpool/racer/internal/config"
	"github.com/playpool/racer/internal/logging"
	"github.com/playpool/racer/internal/middleware"
	"github.com/playpool/racer/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config, hub *ws.Hub) {
	logger := logging.For("api")

	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		logger.Debug().Msg("no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(hub))

		r := v1.Group("/race")
		{
			r.GET("/config", handlers.GetRaceConfig(cfg))
			r.POST("/simulate", handlers.SimulateRace(cfg))
			r.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleRaceWebSocket(hub))
		}
	}
}
