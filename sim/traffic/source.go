// Package traffic generates the synthetic impression stream. The core
// engine only consumes its output through the sim.Source interface; all
// randomness behind click probability lives here.
package traffic

import (
	"fmt"
	"math/rand"

	"github.com/auction-sim/auction-sim/sim"
)

// Config holds the stochastic sampler's constants.
type Config struct {
	// BaseCTR is the underlying click-through rate of the traffic.
	BaseCTR float64
	// CTRJitter is the bounded uniform perturbation on the click draw, so
	// realized clicks run slightly hotter than BaseCTR.
	CTRJitter float64
	// PCTRJitter is the bounded uniform perturbation on the predicted CTR
	// attached to each impression.
	PCTRJitter float64
}

// DefaultConfig mirrors the original generator constants.
func DefaultConfig() Config {
	return Config{
		BaseCTR:    0.1,
		CTRJitter:  0.01,
		PCTRJitter: 0.1,
	}
}

// Validate rejects samplers that cannot produce a valid CTR.
func (c Config) Validate() error {
	if c.BaseCTR <= 0 || c.BaseCTR >= 1 {
		return fmt.Errorf("base CTR must be in (0,1), got %g", c.BaseCTR)
	}
	if c.CTRJitter < 0 || c.PCTRJitter < 0 {
		return fmt.Errorf("jitter fractions must be non-negative, got ctr=%g pctr=%g", c.CTRJitter, c.PCTRJitter)
	}
	return nil
}

// Synthetic draws one impression per tick: a jittered predicted CTR plus a
// click outcome fixed at creation time, before any bidding happens.
type Synthetic struct {
	cfg Config
	rng *rand.Rand
}

// NewSynthetic constructs the sampler around a seeded generator, typically
// PartitionedRNG.ForSubsystem(sim.SubsystemTraffic).
func NewSynthetic(cfg Config, rng *rand.Rand) (*Synthetic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid traffic config: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("traffic source requires a seeded RNG")
	}
	return &Synthetic{cfg: cfg, rng: rng}, nil
}

// Next implements sim.Source.
func (s *Synthetic) Next(id int64, t float64) *sim.Impression {
	pctr := s.cfg.BaseCTR * (1.0 + s.rng.Float64()*s.cfg.PCTRJitter)
	clicked := s.rng.Float64() < s.cfg.BaseCTR*(1.0+s.rng.Float64()*s.cfg.CTRJitter)
	return &sim.Impression{
		ID:      id,
		Time:    t,
		PCTR:    pctr,
		Clicked: clicked,
	}
}
