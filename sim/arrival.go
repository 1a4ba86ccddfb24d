package sim

import "math/rand"

// ExponentialSampler draws exponentially-distributed durations (CV=1).
// Used for both inter-arrival gaps and service times.
type ExponentialSampler struct {
	rate float64 // events per time unit
}

// NewExponentialSampler creates a sampler with the given rate. rate must be > 0.
func NewExponentialSampler(rate float64) ExponentialSampler {
	return ExponentialSampler{rate: rate}
}

// Sample returns one duration with mean 1/rate.
func (s ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() / s.rate
}

// ArrivalGenerator produces the arrival timeline of one horizon as a Poisson
// process. The clock starts at 0 and advances by exponential gaps; the first
// arrival past the horizon ends the sequence and is never returned.
//
// A generator is single-use: once exhausted it keeps returning false.
type ArrivalGenerator struct {
	gaps    ExponentialSampler
	horizon float64
	rng     *rand.Rand
	clock   float64
	done    bool
}

// NewArrivalGenerator creates a generator for arrivals at rate over [0, horizon].
func NewArrivalGenerator(rate, horizon float64, rng *rand.Rand) *ArrivalGenerator {
	return &ArrivalGenerator{
		gaps:    NewExponentialSampler(rate),
		horizon: horizon,
		rng:     rng,
	}
}

// Next returns the next arrival time, or false once the horizon is passed.
func (g *ArrivalGenerator) Next() (float64, bool) {
	if g.done {
		return 0, false
	}
	g.clock += g.gaps.Sample(g.rng)
	if g.clock > g.horizon {
		g.done = true
		return 0, false
	}
	return g.clock, true
}
