package utils

import (
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"
)

// RandSource is a seeded random number generator used by samplers. It is not
// safe for concurrent use; each sampling call derives its own source so that
// replays are reproducible.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a new random source with the given seed. A zero seed
// falls back to the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// Int64n returns a random int64 in [0, n)
func (r *RandSource) Int64n(n int64) int64 {
	return r.rng.Int63n(n)
}

// UniformFloat64 returns a uniformly distributed random number in [low, high)
func (r *RandSource) UniformFloat64(low, high float64) float64 {
	return low + r.rng.Float64()*(high-low)
}

// LogUniformFloat64 returns a random number in [low, high) distributed
// uniformly in the log domain. low must be positive.
func (r *RandSource) LogUniformFloat64(low, high float64) float64 {
	logLow := math.Log(low)
	logHigh := math.Log(high)
	return math.Exp(logLow + r.rng.Float64()*(logHigh-logLow))
}

// Global default random source, used where reproducibility does not matter
// (e.g. retry jitter). Shared by concurrent retry loops, so access is
// serialized.
var (
	defaultRandMu sync.Mutex
	defaultRand   = NewRandSource(0)
)

// Float64 returns a random float64 from the default source. Safe for
// concurrent use.
func Float64() float64 {
	defaultRandMu.Lock()
	defer defaultRandMu.Unlock()
	return defaultRand.Float64()
}

// DeriveSeed mixes a base seed with study, trial, and parameter identity so
// that re-sampling the same parameter after a crash replay draws the same
// value, while distinct parameters and trials stay decorrelated.
func DeriveSeed(base int64, studyID, trialNumber int64, name string) int64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range []int64{base, studyID, trialNumber} {
		for i := 0; i < 8; i++ {
			buf[i] = byte(uint64(v) >> (8 * i))
		}
		h.Write(buf[:])
	}
	h.Write([]byte(name))
	seed := int64(h.Sum64())
	if seed == 0 {
		seed = 1
	}
	return seed
}
