package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is a minimal in-package Source; the production sampler lives in
// sim/traffic.
type stubSource struct {
	rng *rand.Rand
}

func (s *stubSource) Next(id int64, t float64) *Impression {
	pctr := 0.1 * (1.0 + s.rng.Float64()*0.1)
	return &Impression{
		ID:      id,
		Time:    t,
		PCTR:    pctr,
		Clicked: s.rng.Float64() < 0.1,
	}
}

func testRoster(t *testing.T) []Bidder {
	t.Helper()
	backstop, err := NewFixedPriceBidder(CampaignParams{ID: 0, DailyBudget: 100000}, 0.05)
	require.NoError(t, err)
	fixed, err := NewFixedPriceBidder(CampaignParams{ID: 1, DailyBudget: 10}, 0.1)
	require.NoError(t, err)
	linear, err := NewLinearPaceBidder(CampaignParams{ID: 2, DailyBudget: 10}, 0.3)
	require.NoError(t, err)
	pacer, err := NewAdaptivePaceBidder(CampaignParams{ID: 3, DailyBudget: 10}, DefaultPacingConfig())
	require.NoError(t, err)
	return []Bidder{backstop, fixed, linear, pacer}
}

func runTestSim(t *testing.T, seed int64, rule PricingRule, impressions int64) (*Simulator, *Result) {
	t.Helper()
	cfg := SimConfig{Impressions: impressions, Horizon: SecondsPerDay, Rule: rule, Seed: seed}
	rng := NewPartitionedRNG(NewSimulationKey(seed))
	src := &stubSource{rng: rng.ForSubsystem(SubsystemTraffic)}
	s, err := NewSimulator(cfg, src, testRoster(t), rng)
	require.NoError(t, err)
	s.Run()
	return s, s.Result()
}

func TestNewSimulator_Validation(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))
	src := &stubSource{rng: rng.ForSubsystem(SubsystemTraffic)}

	_, err := NewSimulator(SimConfig{Impressions: 0, Horizon: SecondsPerDay}, src, nil, rng)
	assert.Error(t, err, "zero impressions")

	_, err = NewSimulator(SimConfig{Impressions: 10, Horizon: 0}, src, nil, rng)
	assert.Error(t, err, "zero horizon")

	_, err = NewSimulator(DefaultSimConfig(), nil, nil, rng)
	assert.Error(t, err, "missing source")
}

func TestSimulator_Determinism(t *testing.T) {
	_, r1 := runTestSim(t, 10, SecondPrice, 20000)
	_, r2 := runTestSim(t, 10, SecondPrice, 20000)
	assert.Equal(t, r1, r2, "identical seed and config must produce bit-identical summaries")

	_, r3 := runTestSim(t, 11, SecondPrice, 20000)
	assert.NotEqual(t, r1.Global, r3.Global, "different seeds should diverge")
}

func TestSimulator_BudgetConservation(t *testing.T) {
	s, r := runTestSim(t, 10, FirstPrice, 50000)

	// Spend may exceed budget by at most one clearing price: the check runs
	// before the auction, not after.
	for _, c := range r.Campaigns {
		assert.LessOrEqualf(t, c.Spend, c.DailyBudget+1.0,
			"campaign %d spent %.4f of budget %.2f", c.ID, c.Spend, c.DailyBudget)
	}

	// And once exhausted, a campaign declines forever after.
	for _, b := range s.Roster {
		if b.Base().Exhausted() {
			_, ok := b.GetBid(&Impression{Time: SecondsPerDay - 1, PCTR: 0.11})
			assert.False(t, ok)
		}
	}
}

func TestSimulator_AggregationConsistency(t *testing.T) {
	_, r := runTestSim(t, 10, FirstPrice, 20000)

	// Per-campaign hourly buckets sum to the campaign aggregate.
	for _, c := range r.Campaigns {
		var imps, clicks int64
		var spend float64
		for _, h := range c.Hourly {
			imps += h.Impressions
			clicks += h.Clicks
			spend += h.Spend
		}
		assert.Equal(t, c.Impressions, imps)
		assert.Equal(t, c.Clicks, clicks)
		assert.InDelta(t, c.Spend, spend, 1e-9)
	}

	// Campaign totals sum to the global scope; sold + unsold covers every tick.
	var imps, clicks int64
	var spend float64
	for _, c := range r.Campaigns {
		imps += c.Impressions
		clicks += c.Clicks
		spend += c.Spend
	}
	assert.Equal(t, r.Global.Impressions, imps)
	assert.Equal(t, r.Global.Clicks, clicks)
	assert.InDelta(t, r.Global.Spend, spend, 1e-9)
	assert.Equal(t, int64(20000), r.Global.Impressions+r.FailedAuctions)

	// Per-kind scopes partition the global scope.
	var kindImps int64
	for _, s := range r.ByKind {
		kindImps += s.Impressions
	}
	assert.Equal(t, r.Global.Impressions, kindImps)
}

func TestSimulator_PriceEstimator(t *testing.T) {
	s, r := runTestSim(t, 10, FirstPrice, 20000)

	assert.Equal(t, r.Global.Impressions, s.Agg.Price.Count(), "one price sample per sold impression")
	if r.Global.Impressions > 0 {
		assert.InDelta(t, r.Global.Spend/float64(r.Global.Impressions), r.PriceMean, 1e-9)
		assert.GreaterOrEqual(t, r.PriceStdDev, 0.0)
	}
}

func TestSimulator_ResultSnapshotShape(t *testing.T) {
	_, r := runTestSim(t, 10, FirstPrice, 1000)

	require.Len(t, r.Campaigns, 4)
	assert.Equal(t, 0, r.Campaigns[0].ID)
	assert.Equal(t, KindFixedPrice, r.Campaigns[0].Kind)
	assert.Contains(t, r.ByKind, KindFixedPrice)
	assert.Contains(t, r.ByKind, KindAdaptivePace)
}
