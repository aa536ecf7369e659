// Package picker chooses which words a pass shows and which wrong answers a quiz offers.
// Everything here is pure apart from the random source passed in.
package picker

import (
	"math/rand"
	"sync"
	"time"
)

// lockedSource makes a rand.Source safe for use from many goroutines
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewRand returns a goroutine-safe random generator
func NewRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}

// NewTimeRand returns a goroutine-safe generator seeded from the clock
func NewTimeRand() *rand.Rand {
	return NewRand(time.Now().UnixNano())
}

// sample picks k items uniformly at random without replacement
func sample[T any](items []T, k int, rng *rand.Rand) []T {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return []T{}
	}
	out := make([]T, 0, k)
	for _, i := range rng.Perm(len(items))[:k] {
		out = append(out, items[i])
	}
	return out
}
