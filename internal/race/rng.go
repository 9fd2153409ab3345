package race

import (
	"math/rand"
	"time"
)

// Source is the randomness the world builder and the stepper draw from.
// *rand.Rand satisfies it. Implementations need not be safe for concurrent
// use; every race runner owns its own.
type Source interface {
	Float64() float64
}

// NewSource returns a reproducible source for the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewTimeSource returns a source seeded from the wall clock.
func NewTimeSource() Source {
	return NewSource(time.Now().UnixNano())
}

// spread maps a draw from src onto [-1, 1).
func spread(src Source) float64 {
	return src.Float64()*2 - 1
}
