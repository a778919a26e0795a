package engine

import "math/rand"

// Rand is the narrow source of randomness the engine and the bots depend
// on. Production code uses the process-local math/rand source; tests
// substitute deterministic sequences.
type Rand interface {
	Intn(n int) int
}

type processRand struct{}

func (processRand) Intn(n int) int { return rand.Intn(n) }

// ProcessRand returns the default pseudorandom source. It is not seeded and
// not reproducible across runs.
func ProcessRand() Rand { return processRand{} }
