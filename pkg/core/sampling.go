package core

import (
	"math/rand"
)

// Sampler provides uniform random numbers for rendering algorithms
// Can be swapped out for deterministic testing
type Sampler interface {
	// Float64 returns a value in [0, 1)
	Float64() float64
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; each goroutine needs its own instance.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with a fixed seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Float64 returns a random float64 in [0, 1)
func (r *RandomSampler) Float64() float64 {
	return r.random.Float64()
}

// RandomRange returns a value in [min, max)
func RandomRange(s Sampler, minVal, maxVal float64) float64 {
	return minVal + (maxVal-minVal)*s.Float64()
}

// RandomVec3 returns a vector with each component drawn from [min, max)
func RandomVec3(s Sampler, minVal, maxVal float64) Vec3 {
	return Vec3{
		X: RandomRange(s, minVal, maxVal),
		Y: RandomRange(s, minVal, maxVal),
		Z: RandomRange(s, minVal, maxVal),
	}
}

// RandomInUnitSphere returns a point strictly inside the unit sphere by rejection sampling
func RandomInUnitSphere(s Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		p := RandomVec3(s, -1, 1)
		// Accept if inside unit sphere
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}

// RandomUnitVector returns a random direction on the unit sphere
func RandomUnitVector(s Sampler) Vec3 {
	for {
		p := RandomInUnitSphere(s)
		// The origin itself has no direction
		if p.LengthSquared() > 1e-160 {
			return p.Normalize()
		}
	}
}
