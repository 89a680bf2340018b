package failuremodel

import (
	"hash/fnv"
	"math/rand/v2"
	"sync"
)

// RandomSource yields independent uniform values in [0,1)
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

// lockedSource serialises access to a seeded generator, which is not safe for
// concurrent use on its own.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// NewRandomSource returns a concurrency-safe source. Seed 0 draws from the
// runtime's randomly seeded generator; any other seed gives a reproducible
// sequence.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		return globalSource{}
	}
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// DeriveSeed gives each named stream its own seed under a shared base seed, so
// models seeded from one setting still draw independently. A zero base stays
// zero.
func DeriveSeed(base uint64, name string) uint64 {
	if base == 0 {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	if seed := base ^ h.Sum64(); seed != 0 {
		return seed
	}
	return base
}
