package traffic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/auction-sim/auction-sim/sim"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"zero ctr", Config{BaseCTR: 0}, true},
		{"ctr of one", Config{BaseCTR: 1}, true},
		{"negative jitter", Config{BaseCTR: 0.1, CTRJitter: -0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSynthetic_RequiresRNG(t *testing.T) {
	_, err := NewSynthetic(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestSynthetic_PCTRBounds(t *testing.T) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(42))
	src, err := NewSynthetic(DefaultConfig(), rng.ForSubsystem(sim.SubsystemTraffic))
	require.NoError(t, err)

	cfg := DefaultConfig()
	for i := 0; i < 10000; i++ {
		imp := src.Next(int64(i), float64(i))
		assert.Equal(t, int64(i), imp.ID)
		assert.Equal(t, float64(i), imp.Time)
		assert.GreaterOrEqual(t, imp.PCTR, cfg.BaseCTR)
		assert.Less(t, imp.PCTR, cfg.BaseCTR*(1.0+cfg.PCTRJitter))
	}
}

func TestSynthetic_ClickRateTracksBaseCTR(t *testing.T) {
	const draws = 100000
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(7))
	src, err := NewSynthetic(DefaultConfig(), rng.ForSubsystem(sim.SubsystemTraffic))
	require.NoError(t, err)

	clicks := 0
	for i := 0; i < draws; i++ {
		if src.Next(int64(i), 0).Clicked {
			clicks++
		}
	}

	// Realized clicks run at BaseCTR x (1 + U(0, jitter)/... ), i.e. just
	// above BaseCTR; 10% at n=100000 has sigma ~ 0.001.
	rate := float64(clicks) / draws
	assert.InDelta(t, 0.1, rate, 0.01)
}

func TestSynthetic_Deterministic(t *testing.T) {
	mk := func() *Synthetic {
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(99))
		src, err := NewSynthetic(DefaultConfig(), rng.ForSubsystem(sim.SubsystemTraffic))
		require.NoError(t, err)
		return src
	}

	a, b := mk(), mk()
	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Next(int64(i), float64(i)), b.Next(int64(i), float64(i)))
	}
}
