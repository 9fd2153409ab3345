package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/playpool/racer/internal/race"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Server
	Port        string
	FrontendURL string

	// Redis (empty URL disables race event fan-out)
	RedisURL          string
	RaceEventsChannel string

	// Track
	TrackMode    string
	Camera       string // "true"/"false", empty = mode default
	Placement    string // empty = mode default
	CanvasWidth  float64
	CanvasHeight float64
	TrackLength  float64

	// Runner
	FrameHz       int
	ResultDelay   time.Duration
	MaxRaceFrames int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Redis
		RedisURL:          getEnv("REDIS_URL", ""),
		RaceEventsChannel: getEnv("RACE_EVENTS_CHANNEL", "race_events"),

		// Track
		TrackMode:    strings.ToLower(getEnv("RACE_TRACK_MODE", string(race.TrackShort))),
		Camera:       strings.ToLower(getEnv("RACE_CAMERA", "")),
		Placement:    strings.ToLower(getEnv("RACE_PLACEMENT", "")),
		CanvasWidth:  float64(getEnvInt("CANVAS_WIDTH", int(race.DefaultCanvasWidth))),
		CanvasHeight: float64(getEnvInt("CANVAS_HEIGHT", int(race.DefaultCanvasHeight))),
		TrackLength:  float64(getEnvInt("LONG_TRACK_LENGTH", int(race.DefaultTrackLength))),

		// Runner
		FrameHz:       getEnvInt("FRAME_HZ", 60),
		ResultDelay:   time.Duration(getEnvInt("RESULT_DELAY_MS", 500)) * time.Millisecond,
		MaxRaceFrames: getEnvInt("MAX_RACE_FRAMES", 7200),
	}
}

// RaceOptions resolves the track settings into race options. Unknown values
// fall back to the defaults of the track mode.
func (c *Config) RaceOptions() race.Options {
	mode, err := race.ParseTrackMode(c.TrackMode)
	if err != nil {
		log.Warn().Str("component", "config").Err(err).Msg("falling back to short track")
		mode = race.TrackShort
	}
	opts := race.DefaultOptions(mode)

	if c.Placement != "" {
		if p, err := race.ParsePlacement(c.Placement); err != nil {
			log.Warn().Str("component", "config").Err(err).Str("default", string(opts.Placement)).Msg("ignoring RACE_PLACEMENT")
		} else {
			opts.Placement = p
		}
	}

	if c.Camera != "" {
		if cam, err := strconv.ParseBool(c.Camera); err != nil {
			log.Warn().Str("component", "config").Str("value", c.Camera).Msg("ignoring RACE_CAMERA")
		} else {
			opts.Camera = cam
		}
	}

	return opts
}

// Geometry lays out the configured canvas for the given options.
func (c *Config) Geometry(opts race.Options) (race.Geometry, error) {
	return race.NewGeometry(c.CanvasWidth, c.CanvasHeight, opts.Mode, c.TrackLength)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
