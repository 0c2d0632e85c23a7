package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/auction-sim/auction-sim/sim"
	"github.com/auction-sim/auction-sim/sim/traffic"
)

func TestLoadRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	body := `campaigns:
  - kind: FixedCPC
    cpc: 0.05
    daily_budget: 100000
    tags: [backstop]
  - kind: TargetCPC
    cpc: 0.1
    daily_budget: 100
    miscalibration: 1.5
  - kind: PacedBudget
    daily_budget: 100
    hurdle: 0.5
    window_start: 3600
    window_end: 43200
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadRoster(path)
	require.NoError(t, err)
	require.Len(t, cfg.Campaigns, 3)

	assert.Equal(t, sim.KindFixedPrice, cfg.Campaigns[0].Kind)
	assert.Equal(t, []string{"backstop"}, cfg.Campaigns[0].Tags)
	assert.Equal(t, 1.5, cfg.Campaigns[1].Miscalibration)
	assert.Equal(t, 0.5, cfg.Campaigns[2].Hurdle)
	assert.Equal(t, 3600.0, cfg.Campaigns[2].WindowStart)
}

func TestLoadRoster_Errors(t *testing.T) {
	_, err := LoadRoster(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("campaigns: []\n"), 0o644))
	_, err = LoadRoster(empty)
	assert.Error(t, err, "a roster without campaigns is a setup bug")
}

func TestBuildRoster_DefaultLineup(t *testing.T) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(1))
	roster, err := BuildRoster(DefaultRoster(), sim.DefaultPacingConfig(), 0.1, rng.ForSubsystem(sim.SubsystemBidders))
	require.NoError(t, err)
	require.Len(t, roster, 7)

	// IDs follow declaration order; kinds match the original lineup.
	kinds := make([]string, len(roster))
	for i, b := range roster {
		assert.Equal(t, i, b.Base().ID)
		kinds[i] = b.Base().Kind
	}
	assert.Equal(t, []string{
		sim.KindFixedPrice, sim.KindFixedPrice, sim.KindFixedPrice, sim.KindFixedPrice,
		sim.KindTargetPrice, sim.KindLinearPace, sim.KindAdaptivePace,
	}, kinds)
}

func TestBuildRoster_Errors(t *testing.T) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(1))

	_, err := BuildRoster(&RosterConfig{Campaigns: []CampaignEntry{
		{Kind: "Mystery", DailyBudget: 10},
	}}, sim.DefaultPacingConfig(), 0.1, rng.ForSubsystem(sim.SubsystemBidders))
	assert.Error(t, err, "unknown kind")

	_, err = BuildRoster(&RosterConfig{Campaigns: []CampaignEntry{
		{Kind: sim.KindFixedPrice, CPC: 0.1},
	}}, sim.DefaultPacingConfig(), 0.1, rng.ForSubsystem(sim.SubsystemBidders))
	assert.Error(t, err, "missing budget")
}

// End-to-end: the default roster over synthetic traffic, exactly as the run
// command wires it.
func TestRun_DefaultRosterEndToEnd(t *testing.T) {
	const impressions = 5000

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(10))
	source, err := traffic.NewSynthetic(traffic.DefaultConfig(), rng.ForSubsystem(sim.SubsystemTraffic))
	require.NoError(t, err)

	roster, err := BuildRoster(DefaultRoster(), sim.DefaultPacingConfig(), 0.1, rng.ForSubsystem(sim.SubsystemBidders))
	require.NoError(t, err)

	cfg := sim.SimConfig{Impressions: impressions, Horizon: sim.SecondsPerDay, Rule: sim.FirstPrice, Seed: 10}
	s, err := sim.NewSimulator(cfg, source, roster, rng)
	require.NoError(t, err)
	s.Run()

	r := s.Result()
	// The backstop campaign's budget dwarfs the day, so every tick sells.
	assert.Equal(t, int64(impressions), r.Global.Impressions)
	assert.Equal(t, int64(0), r.FailedAuctions)
	for _, c := range r.Campaigns {
		assert.LessOrEqual(t, c.Spend, c.DailyBudget+1.0)
	}
}
