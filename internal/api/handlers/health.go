package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/racer/internal/ws"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck reports uptime and how many viewers are watching races.
func HealthCheck(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "racer-api",
			"version": version,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"rooms":   stats.Rooms,
			"viewers": stats.Viewers,
		})
	}
}
