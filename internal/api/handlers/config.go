package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/racer/internal/config"
)

// GetRaceConfig returns the track settings the frontend needs to size its
// canvas and lanes.
func GetRaceConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := cfg.RaceOptions()
		geom, err := cfg.Geometry(opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"options":         opts,
			"geometry":        geom,
			"frame_hz":        cfg.FrameHz,
			"result_delay_ms": cfg.ResultDelay.Milliseconds(),
			"max_race_frames": cfg.MaxRaceFrames,
		})
	}
}
