package race

import "fmt"

// TrackMode selects between the fixed-height track that fits the canvas and
// the long scrolling track.
type TrackMode string

const (
	TrackShort TrackMode = "short"
	TrackLong  TrackMode = "long"
)

// Placement selects how obstacles are laid out in a lane.
type Placement string

const (
	PlacementRows    Placement = "rows"    // fixed rows, 2-3 pegs per row
	PlacementScatter Placement = "scatter" // random positions with rejection
)

// Options configures a single Simulation Stepper for either track variant.
type Options struct {
	Mode      TrackMode `json:"mode" msgpack:"mode"`
	Camera    bool      `json:"camera" msgpack:"camera"`
	Placement Placement `json:"placement" msgpack:"placement"`
}

// DefaultOptions returns the option set each track mode was tuned with.
func DefaultOptions(mode TrackMode) Options {
	if mode == TrackLong {
		return Options{Mode: TrackLong, Camera: true, Placement: PlacementScatter}
	}
	return Options{Mode: TrackShort, Camera: false, Placement: PlacementRows}
}

func ParseTrackMode(s string) (TrackMode, error) {
	switch TrackMode(s) {
	case TrackShort, TrackLong:
		return TrackMode(s), nil
	}
	return "", fmt.Errorf("unknown track mode %q", s)
}

func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case PlacementRows, PlacementScatter:
		return Placement(s), nil
	}
	return "", fmt.Errorf("unknown placement %q", s)
}

// Physics holds the per-mode constants of the stepper.
type Physics struct {
	Gravity      float64
	Friction     float64
	DampVertical bool // friction also applied to vy
	Bounce       float64
	Perturbation float64 // max horizontal kick on a peg hit, as a fraction of post-bounce speed
	BodyRadius   float64
	MaxFallSpeed float64 // 0 = uncapped
}

// PhysicsFor returns the constants for a track mode.
func PhysicsFor(mode TrackMode) Physics {
	if mode == TrackLong {
		return Physics{
			Gravity:      0.3,
			Friction:     0.99,
			DampVertical: false,
			Bounce:       0.6,
			Perturbation: 0.25,
			BodyRadius:   12,
			MaxFallSpeed: 12,
		}
	}
	return Physics{
		Gravity:      0.4,
		Friction:     0.99,
		DampVertical: true,
		Bounce:       0.7,
		Perturbation: 0.25,
		BodyRadius:   15,
	}
}
