package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// SimulationKey identifies a reproducible run. The same key with the same
// cluster description yields bit-identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// RunKey is the key of run runID in a batch seeded with base.
func RunKey(base int64, runID int) SimulationKey {
	return SimulationKey(base + int64(runID))
}

// SubsystemWorkload names the stream feeding workload N's stochastic models.
func SubsystemWorkload(id int) string {
	return fmt.Sprintf("workload_%d", id)
}

// PartitionedRNG hands out one independent stream per named subsystem:
// drawing from one stream never shifts another's sequence.
//
// Stream seed: key XOR fnv1a64(name), expanded into a PCG state.
// Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:     key,
		streams: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.streams[name]; ok {
		return r
	}
	seed := uint64(p.key) ^ fnv1a64(name)
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	p.streams[name] = r
	return r
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
