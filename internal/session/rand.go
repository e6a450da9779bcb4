package session

import "math/rand/v2"

// Rand supplies the randomness used by resolution rules, so house and
// coin draws can be fixed when testing.
type Rand interface {
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

type systemRand struct{}

func (systemRand) IntN(n int) int { return rand.IntN(n) }

// SystemRand returns the default randomness source.
func SystemRand() Rand { return systemRand{} }
