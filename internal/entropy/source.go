// Package entropy supplies the random draws the engine consumes. Every
// stochastic rule reads from a Source so tests can script exact outcomes
// and replays can reuse a seed.
package entropy

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sync"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// Seeded is a deterministic PCG source.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a PCG source derived from seed.
func NewSeeded(seed int64) *Seeded {
	// #nosec G404 -- deterministic simulation, not security.
	return &Seeded{rng: rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))}
}

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Crypto draws from crypto/rand.
type Crypto struct{}

func (Crypto) Float64() float64 { return cryptoRandFloat() }

// Fixed always returns the same value.
type Fixed float64

func (f Fixed) Float64() float64 { return float64(f) }

// Scripted replays a list of values, cycling when exhausted.
type Scripted struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// Sequence returns a Scripted source over vs. An empty list yields 0.
func Sequence(vs ...float64) *Scripted {
	return &Scripted{values: vs}
}

func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Range draws uniformly from [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// IntRange draws an integer uniformly from [lo, hi] inclusive.
func IntRange(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + IntN(src, hi-lo+1)
}

// IntN draws an integer uniformly from [0, n). n ≤ 0 yields 0.
func IntN(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Chance reports whether a draw falls below p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element. xs must be non-empty.
func Pick[T any](src Source, xs []T) T {
	return xs[IntN(src, len(xs))]
}

// Shuffle returns a shuffled copy of xs (Fisher–Yates).
func Shuffle[T any](src Source, xs []T) []T {
	out := make([]T, len(xs))
	copy(out, xs)
	for i := len(out) - 1; i > 0; i-- {
		j := IntN(src, i+1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
