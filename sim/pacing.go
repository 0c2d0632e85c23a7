package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// PacingConfig holds the feedback-controller constants for the adaptive
// pacing strategy. The time constants are tuned relative to the horizon
// length: in a 86 400 s day the fast tracker reacts to bursts of spend
// within minutes while the slow tracker integrates over a quarter hour.
type PacingConfig struct {
	TauFast   float64 // seconds; short-horizon spend-rate tracker
	TauSlow   float64 // seconds; long-horizon spend-rate tracker
	SeedPrice float64 // output price offered before any feedback exists
	ClampMin  float64 // lower bound on one multiplicative price step
	ClampMax  float64 // upper bound on one multiplicative price step
}

// DefaultPacingConfig returns the controller constants the original
// simulator ships with.
func DefaultPacingConfig() PacingConfig {
	return PacingConfig{
		TauFast:   100,
		TauSlow:   1000,
		SeedPrice: 0.1,
		ClampMin:  0.1,
		ClampMax:  2.0,
	}
}

// Validate rejects controller constants that would break the feedback loop.
func (c PacingConfig) Validate() error {
	if c.TauFast <= 0 || c.TauSlow <= 0 {
		return fmt.Errorf("pacing time constants must be positive, got fast=%g slow=%g", c.TauFast, c.TauSlow)
	}
	if c.TauFast >= c.TauSlow {
		return fmt.Errorf("fast time constant %g must be below slow time constant %g", c.TauFast, c.TauSlow)
	}
	if c.SeedPrice <= 0 {
		return fmt.Errorf("pacing seed price must be positive, got %g", c.SeedPrice)
	}
	if c.ClampMin <= 0 || c.ClampMax <= c.ClampMin {
		return fmt.Errorf("pacing clamp bounds [%g,%g] must satisfy 0 < min < max", c.ClampMin, c.ClampMax)
	}
	return nil
}

// noTimeYet marks the LastWinTime/LastBidTime fields before the first
// bid/win, so the first-tick special cases never divide by a zero elapsed
// time.
const noTimeYet = -1.0

// PacingState is the adaptive controller's private state. After seeding,
// OutputPrice and both EMA trackers stay strictly positive.
type PacingState struct {
	// OutputPrice is the raw price offered on the next bid. Unlike the
	// other strategies it is NOT scaled by the impression's predicted CTR.
	OutputPrice float64
	// EMASlow and EMAFast track the observed spend rate (price per second)
	// with time constants TauSlow >> TauFast. The fast tracker catches
	// short bursts of spend; the slow one catches sustained under-spend.
	EMASlow float64
	EMAFast float64
	// LastWinTime and LastBidTime are noTimeYet until the first win/bid.
	LastWinTime float64
	LastBidTime float64
}

// AdaptivePaceBidder spends a fixed budget evenly over its window with a
// dual-rate EMA feedback controller, despite having no model of future
// traffic. Between wins the perceived spend rate decays toward zero; when
// both trackers fall below the still-required pace the offered price is
// raised, and when a win pushes the fast tracker above that pace the price
// is cut. Using both trackers prevents both runaway acceleration and
// starvation.
type AdaptivePaceBidder struct {
	*Campaign
	cfg   PacingConfig
	state PacingState
}

// NewAdaptivePaceBidder constructs the adaptive pacing strategy.
func NewAdaptivePaceBidder(p CampaignParams, cfg PacingConfig) (*AdaptivePaceBidder, error) {
	c, err := newCampaign(KindAdaptivePace, p)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("campaign %d (%s): %w", c.ID, c.Kind, err)
	}
	return &AdaptivePaceBidder{
		Campaign: c,
		cfg:      cfg,
		state: PacingState{
			OutputPrice: cfg.SeedPrice,
			LastWinTime: noTimeYet,
			LastBidTime: noTimeYet,
		},
	}, nil
}

// State returns a copy of the controller state, for inspection and tests.
func (b *AdaptivePaceBidder) State() PacingState {
	return b.state
}

// GetBid implements Bidder.
//
// Between wins the spend-rate trackers decay toward zero ("if nobody has
// paid recently, our perceived spend rate decays"). When both trackers sit
// below the pace still required to exhaust the budget at window end, the
// offered price is raised proportionally, clamped to one bounded step.
func (b *AdaptivePaceBidder) GetBid(imp *Impression) (float64, bool) {
	if b.declines(imp) {
		return 0, false
	}
	now := imp.Time
	if b.state.LastBidTime == noTimeYet {
		// First bid ever: offer the seed price unchanged. There is no
		// spend history to control against yet.
		b.state.LastBidTime = now
		return b.state.OutputPrice, true
	}

	pace := b.remainingDesiredPace(now)
	dt := now - b.state.LastBidTime
	b.state.EMASlow = decayToward(b.state.EMASlow, 0, dt, b.cfg.TauSlow)
	b.state.EMAFast = decayToward(b.state.EMAFast, 0, dt, b.cfg.TauFast)

	if b.state.EMASlow < pace && b.state.EMAFast < pace {
		mult := b.cfg.ClampMax
		if b.state.EMASlow > 0 {
			mult = clamp(pace/b.state.EMASlow, b.cfg.ClampMin, b.cfg.ClampMax)
		}
		b.state.OutputPrice *= mult
		logrus.Tracef("campaign %d pace up: pace=%.6f slow=%.6f fast=%.6f price=%.4f",
			b.ID, pace, b.state.EMASlow, b.state.EMAFast, b.state.OutputPrice)
	}

	b.state.LastBidTime = now
	return b.state.OutputPrice, true
}

// RegisterImpression implements Bidder. A win is the only moment the
// controller observes an actual spend rate; it blends price/Δt into both
// trackers and cuts the offered price if the fast tracker shows spend
// running ahead of the still-required pace.
func (b *AdaptivePaceBidder) RegisterImpression(imp *Impression, price float64) {
	b.Campaign.RegisterImpression(imp, price)

	now := imp.Time
	pace := b.remainingDesiredPace(now)

	if b.state.LastWinTime == noTimeYet {
		// First win ever: assume spend has been running at exactly the
		// desired pace so the controller starts from a neutral estimate
		// instead of dividing by a zero elapsed time.
		b.state.EMASlow = pace
		b.state.EMAFast = pace
		b.state.LastWinTime = now
		return
	}

	dt := now - b.state.LastWinTime
	if dt <= 0 {
		// Impression times are strictly increasing, so two wins cannot
		// share a timestamp; keep the guard so a malformed source cannot
		// produce an infinite observed rate.
		return
	}
	observed := price / dt
	b.state.EMASlow = decayToward(b.state.EMASlow, observed, dt, b.cfg.TauSlow)
	b.state.EMAFast = decayToward(b.state.EMAFast, observed, dt, b.cfg.TauFast)

	if b.state.EMAFast > pace {
		mult := clamp(pace/b.state.EMAFast, b.cfg.ClampMin, b.cfg.ClampMax)
		b.state.OutputPrice *= mult
		logrus.Tracef("campaign %d win drop: pace=%.6f slow=%.6f fast=%.6f price=%.4f",
			b.ID, pace, b.state.EMASlow, b.state.EMAFast, b.state.OutputPrice)
	}

	b.state.LastWinTime = now
}

// remainingDesiredPace is the price-per-second the campaign should still be
// spending to exhaust its budget exactly at window end. Calling it with now
// at or past the window end is a precondition violation: the window check in
// GetBid/declines must run first.
func (b *AdaptivePaceBidder) remainingDesiredPace(now float64) float64 {
	remaining := b.Window.End - now
	if remaining <= 0 {
		panic(fmt.Sprintf("campaign %d: remaining window %.3fs is not positive at t=%.3f", b.ID, remaining, now))
	}
	left := b.DailyBudget - b.Stat.Total.Spend
	if left < 0 {
		left = 0
	}
	return left / remaining
}

// decayToward blends ema toward target with weight 1 - e^(-dt/tau), the
// continuous-time form of the usual s += alpha*(x-s) smoother.
func decayToward(ema, target, dt, tau float64) float64 {
	return ema + (1-math.Exp(-dt/tau))*(target-ema)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
