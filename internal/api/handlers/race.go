package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playpool/racer/internal/config"
	"github.com/playpool/racer/internal/logging"
	"github.com/playpool/racer/internal/race"
)

type SimulateRequest struct {
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
	Seed    *int64 `json:"seed"`
}

type SimulateResponse struct {
	RaceID string `json:"race_id"`
	Winner string `json:"winner"`
	Lane   int    `json:"lane"`
	Frames int    `json:"frames"`
	Seed   *int64 `json:"seed,omitempty"`
}

// SimulateRace runs a race headless to completion. With a seed the outcome
// is reproducible.
func SimulateRace(cfg *config.Config) gin.HandlerFunc {
	logger := logging.For("api")

	return func(c *gin.Context) {
		var req SimulateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		opts := cfg.RaceOptions()
		geom, err := cfg.Geometry(opts)
		if err != nil {
			logger.Error().Err(err).Msg("invalid track geometry")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "track is misconfigured"})
			return
		}

		var src race.Source
		if req.Seed != nil {
			src = race.NewSource(*req.Seed)
		}
		engine := race.NewEngine(geom, opts, src)
		state := engine.StartRace(req.Option1, req.Option2)

		tick, err := engine.Run(state, cfg.MaxRaceFrames)
		if errors.Is(err, race.ErrRaceStalled) {
			logger.Warn().Str("race_id", state.ID).Int("frames", state.Frame).Msg("simulated race stalled")
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   err.Error(),
				"race_id": state.ID,
				"frames":  state.Frame,
			})
			return
		}

		logger.Info().Str("race_id", state.ID).Str("winner", tick.Winner).Int("frames", tick.Frame).Msg("race simulated")
		c.JSON(http.StatusOK, SimulateResponse{
			RaceID: state.ID,
			Winner: tick.Winner,
			Lane:   tick.WinnerLane,
			Frames: tick.Frame,
			Seed:   req.Seed,
		})
	}
}
