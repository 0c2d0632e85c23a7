package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/auction-sim/auction-sim/sim"
)

// RosterConfig is the YAML schema for campaign presets.
type RosterConfig struct {
	Campaigns []CampaignEntry `yaml:"campaigns"`
}

// CampaignEntry describes one campaign. Kind selects the strategy; the
// remaining fields apply where the strategy uses them. Zero hurdle means
// 1.0 and a zero window means the full day.
type CampaignEntry struct {
	Kind           string   `yaml:"kind"`
	Tags           []string `yaml:"tags"`
	DailyBudget    float64  `yaml:"daily_budget"`
	CPC            float64  `yaml:"cpc"`
	Miscalibration float64  `yaml:"miscalibration"`
	Hurdle         float64  `yaml:"hurdle"`
	WindowStart    float64  `yaml:"window_start"`
	WindowEnd      float64  `yaml:"window_end"`
}

// LoadRoster reads a YAML roster preset.
func LoadRoster(path string) (*RosterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg RosterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(cfg.Campaigns) == 0 {
		return nil, fmt.Errorf("roster %s defines no campaigns", path)
	}
	return &cfg, nil
}

// DefaultRoster reproduces the original simulator's campaign lineup: one
// high-budget fixed-price backstop so auctions rarely fail, three identical
// fixed-price contenders, a miscalibrated target-price campaign, a linearly
// throttled campaign, and one adaptive pacing campaign.
func DefaultRoster() *RosterConfig {
	return &RosterConfig{
		Campaigns: []CampaignEntry{
			{Kind: sim.KindFixedPrice, CPC: 0.05, DailyBudget: 100000, Tags: []string{"backstop"}},
			{Kind: sim.KindFixedPrice, CPC: 0.1, DailyBudget: 100},
			{Kind: sim.KindFixedPrice, CPC: 0.1, DailyBudget: 100},
			{Kind: sim.KindFixedPrice, CPC: 0.1, DailyBudget: 100},
			{Kind: sim.KindTargetPrice, CPC: 0.1, DailyBudget: 100, Miscalibration: 1.5},
			{Kind: sim.KindLinearPace, CPC: 0.3, DailyBudget: 100},
			{Kind: sim.KindAdaptivePace, DailyBudget: 100},
		},
	}
}

// BuildRoster constructs the bidding strategies from a roster config.
// Campaign IDs are assigned in declaration order. jitter is the shared
// calibration noise for target-price campaigns; rng drives strategy-internal
// randomness and must come from the run's partitioned generator.
func BuildRoster(cfg *RosterConfig, pacing sim.PacingConfig, jitter float64, rng *rand.Rand) ([]sim.Bidder, error) {
	roster := make([]sim.Bidder, 0, len(cfg.Campaigns))
	for i, entry := range cfg.Campaigns {
		params := sim.CampaignParams{
			ID:          i,
			Tags:        entry.Tags,
			DailyBudget: entry.DailyBudget,
			Hurdle:      entry.Hurdle,
			Window:      sim.TimeWindow{Start: entry.WindowStart, End: entry.WindowEnd},
		}

		var (
			b   sim.Bidder
			err error
		)
		switch entry.Kind {
		case sim.KindFixedPrice:
			b, err = sim.NewFixedPriceBidder(params, entry.CPC)
		case sim.KindTargetPrice:
			miscal := entry.Miscalibration
			if miscal == 0 {
				miscal = 1.0
			}
			b, err = sim.NewTargetPriceBidder(params, entry.CPC, miscal, jitter, rng)
		case sim.KindLinearPace:
			b, err = sim.NewLinearPaceBidder(params, entry.CPC)
		case sim.KindAdaptivePace:
			b, err = sim.NewAdaptivePaceBidder(params, pacing)
		default:
			err = fmt.Errorf("unknown campaign kind %q", entry.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("campaign %d: %w", i, err)
		}
		roster = append(roster, b)
	}
	return roster, nil
}
