package sim

import "fmt"

// SimConfig carries the driver-level knobs: how much traffic to run, over
// what horizon, under which pricing rule, and from which seed. Constructed
// once and passed in at setup time; nothing reads it ambiently.
type SimConfig struct {
	Impressions int64       // total auction ticks in the run (must be > 0)
	Horizon     float64     // simulated day length in seconds (default SecondsPerDay)
	Rule        PricingRule // first- or second-price clearing
	Seed        int64       // master seed for the partitioned RNG
}

// DefaultSimConfig mirrors the original simulator's defaults: one day of
// 100 000 impressions under first-price clearing.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Impressions: 100000,
		Horizon:     SecondsPerDay,
		Rule:        FirstPrice,
		Seed:        10,
	}
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c SimConfig) Validate() error {
	if c.Impressions <= 0 {
		return fmt.Errorf("impression count must be positive, got %d", c.Impressions)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %g", c.Horizon)
	}
	return nil
}
