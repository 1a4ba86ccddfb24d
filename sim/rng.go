package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical SimulationParameters
// MUST produce bit-for-bit identical CustomerRecords.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// ReplicaKey derives the key of one replica from the sweep's master seed.
// serverCount participates in the derivation unless it is 0, which callers
// use to share random streams across staffing levels (common random numbers).
func ReplicaKey(masterSeed int64, serverCount, replica int) SimulationKey {
	name := fmt.Sprintf("replica_%d", replica)
	if serverCount > 0 {
		name = fmt.Sprintf("servers_%d/replica_%d", serverCount, replica)
	}
	return SimulationKey(masterSeed ^ fnv1a64(name))
}

// === Subsystem Constants ===

const (
	// SubsystemArrival is the RNG subsystem for inter-arrival gaps.
	// Uses the key directly.
	SubsystemArrival = "arrival"

	// SubsystemService is the RNG subsystem for service durations.
	SubsystemService = "service"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemArrival: uses the key directly
//   - For all other subsystems: key XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Each replica owns its own PartitionedRNG.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemArrival {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
