package search

import (
	"math/rand/v2"
)

// samplingStream is the stream index reserved for position sampling. Candidate
// indices never reach it.
const samplingStream = ^uint64(0)

// NewStream returns the private generator for one unit of work. Streams with the
// same seed and index always produce the same sequence, regardless of which
// goroutine runs them or in what order.
func NewStream(seed uint64, index uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, index))
}

// SamplingStream returns the generator used to sample rotor positions for a run.
func SamplingStream(seed uint64) *rand.Rand {
	return NewStream(seed, samplingStream)
}
