package race

import "errors"

// ErrRaceStalled is returned by Run when the frame cap is reached before
// either body crosses the finish line.
var ErrRaceStalled = errors.New("race did not finish within the frame limit")

// Engine starts and advances races for one lane layout. It holds the random
// source both the builder and the stepper draw from and is not safe for
// concurrent use.
type Engine struct {
	geom Geometry
	opts Options
	src  Source
}

// NewEngine returns an engine for the given layout. A nil src draws from a
// clock-seeded source.
func NewEngine(geom Geometry, opts Options, src Source) *Engine {
	if src == nil {
		src = NewTimeSource()
	}
	return &Engine{geom: geom, opts: opts, src: src}
}

func (e *Engine) Geometry() Geometry {
	return e.geom
}

func (e *Engine) Options() Options {
	return e.opts
}

// StartRace builds a fresh race. Blank labels fall back to "Option 1" and
// "Option 2".
func (e *Engine) StartRace(label1, label2 string) *State {
	return BuildRace(label1, label2, e.geom, e.opts, e.src)
}

// Advance runs one frame of s.
func (e *Engine) Advance(s *State) Tick {
	return Advance(s, e.src)
}

// Run advances s until a winner is latched. With maxFrames > 0 it gives up
// once s.Frame reaches the cap and returns ErrRaceStalled.
func (e *Engine) Run(s *State, maxFrames int) (Tick, error) {
	for {
		t := e.Advance(s)
		if t.Finished {
			return t, nil
		}
		if maxFrames > 0 && s.Frame >= maxFrames {
			return t, ErrRaceStalled
		}
	}
}
