package tools

import "math/rand/v2"

// RandomSource picks an index in [0, n). Implementations used by a Registry
// must be safe for concurrent use.
type RandomSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultRandomSource returns the process-wide generator from math/rand/v2.
// It is unseeded and not reproducible.
func DefaultRandomSource() RandomSource { return globalSource{} }
