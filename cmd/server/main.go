package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/playpool/racer/internal/api"
	"github.com/playpool/racer/internal/config"
	"github.com/playpool/racer/internal/logging"
	"github.com/playpool/racer/internal/race"
	"github.com/playpool/racer/internal/redis"
	"github.com/playpool/racer/internal/ws"
)

func main() {
	// Initialize configuration (.env is loaded inside)
	cfg := config.Load()
	logging.Setup(cfg.Environment, cfg.LogLevel)

	opts := cfg.RaceOptions()
	geom, err := cfg.Geometry(opts)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid track configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional; without it results stay local to this process
	var rdb *goredis.Client
	var publisher ws.ResultPublisher
	if cfg.RedisURL != "" {
		rdb, err = redis.Connect(cfg.RedisURL, 30*time.Second)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		publisher = ws.NewPublisher(rdb, cfg.RaceEventsChannel)
	} else {
		log.Info().Msg("REDIS_URL not set, race results will not be published")
	}

	runnerCfg := ws.RunnerConfig{
		FrameInterval: frameInterval(cfg.FrameHz),
		ResultDelay:   cfg.ResultDelay,
		MaxFrames:     cfg.MaxRaceFrames,
	}
	hub := ws.NewHub(func(room string, h *ws.Hub) *ws.Runner {
		return ws.NewRunner(room, race.NewEngine(geom, opts, nil), h, publisher, nil, runnerCfg)
	})
	go hub.Run(ctx)

	ws.StartRaceEventSubscriber(ctx, rdb, cfg.RaceEventsChannel, hub)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, cfg, hub)

	log.Info().
		Str("port", cfg.Port).
		Str("mode", string(opts.Mode)).
		Str("placement", string(opts.Placement)).
		Bool("camera", opts.Camera).
		Float64("finish_y", geom.FinishY).
		Msg("starting race server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func frameInterval(hz int) time.Duration {
	if hz <= 0 {
		hz = 60
	}
	return time.Second / time.Duration(hz)
}
