package systems

import (
	"math"
	"math/rand/v2"
)

// Phase identifies the consumer of a random stream so that two phases never
// draw from the same sequence for the same entity and tick.
type Phase uint8

const (
	PhaseSeed Phase = iota + 1
	PhaseRedirect
	PhaseWander
	PhaseReproduce
	PhaseFoodSpawn
)

// Salt combines a phase and a tick into a stream salt.
func Salt(phase Phase, tick uint64) uint64 {
	return uint64(phase)<<56 | tick&(1<<56-1)
}

// Stream is a reproducible random sequence. Not safe for concurrent use;
// derive one per entity per phase instead of sharing.
type Stream struct {
	r *rand.Rand
}

// Derive returns the stream for (seed, entity index, salt). Identical inputs
// always yield identical output, independent of which goroutine calls it.
func Derive(seed uint64, index uint32, salt uint64) *Stream {
	s1 := splitmix64(seed ^ splitmix64(uint64(index)))
	s2 := splitmix64(salt ^ s1)
	return &Stream{r: rand.New(rand.NewPCG(s1, s2))}
}

// splitmix64 is the SplitMix64 finalizer.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Float32 returns a value in [0, 1).
func (s *Stream) Float32() float32 {
	return s.r.Float32()
}

// Range returns a value in [lo, hi).
func (s *Stream) Range(lo, hi float32) float32 {
	return lo + s.r.Float32()*(hi-lo)
}

// UnitVector returns a uniformly distributed direction.
func (s *Stream) UnitVector() (float32, float32) {
	a := s.r.Float64() * 2 * math.Pi
	return float32(math.Cos(a)), float32(math.Sin(a))
}
