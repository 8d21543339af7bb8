package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey, iteration count and scenario
// parameters MUST produce bit-for-bit identical result tables.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === PartitionedRNG ===

// PartitionedRNG hands out one deterministic, isolated RNG stream per
// scenario so scenarios can run in any order, or concurrently, without
// changing each other's draws.
//
// Derivation formula:
//   - For BaselineScenario: uses masterSeed directly, so a lone Status Quo
//     run and the Status Quo leg of a catalog run draw the same table
//   - For all other scenarios: masterSeed XOR fnv1a64(scenarioName)
//
// Thread-safety: NOT thread-safe. Derive every stream up front from a single
// goroutine; each returned *rand.Rand may then be handed to its own worker.
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

// ForScenario returns a deterministically-seeded RNG for the named scenario.
// The same name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForScenario(name string) *rand.Rand {
	if rng, ok := p.streams[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seedFor(name)))
	p.streams[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func (p *PartitionedRNG) seedFor(name string) int64 {
	if name == BaselineScenario {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// newRandFromSeed is the single-stream equivalent used by RunSimulationSeeded.
func newRandFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
