package sim

import (
	"fmt"
	"math/rand"
)

// Campaign kind tags. They key the per-kind aggregate scope and select the
// strategy when a roster is loaded from a preset file.
const (
	KindFixedPrice   = "FixedCPC"
	KindTargetPrice  = "TargetCPC"
	KindLinearPace   = "PacedCPC"
	KindAdaptivePace = "PacedBudget"
)

// FixedPriceBidder bids a constant cost-per-click scaled by the impression's
// predicted CTR, until its budget runs out.
type FixedPriceBidder struct {
	*Campaign
	CPC float64
}

// NewFixedPriceBidder constructs a fixed-price strategy.
func NewFixedPriceBidder(p CampaignParams, cpc float64) (*FixedPriceBidder, error) {
	c, err := newCampaign(KindFixedPrice, p)
	if err != nil {
		return nil, err
	}
	if cpc <= 0 {
		return nil, errNonPositive(c, "cpc", cpc)
	}
	return &FixedPriceBidder{Campaign: c, CPC: cpc}, nil
}

// GetBid implements Bidder.
func (b *FixedPriceBidder) GetBid(imp *Impression) (float64, bool) {
	if b.declines(imp) {
		return 0, false
	}
	return b.CPC * imp.PCTR, true
}

// TargetPriceBidder bids a target cost-per-click against its own, biased
// view of the impression's CTR: the predicted CTR is scaled by a fixed
// miscalibration factor plus a bounded uniform perturbation drawn on every
// call. Models a campaign whose click-rate model is systematically off.
type TargetPriceBidder struct {
	*Campaign
	TargetCPC      float64
	Miscalibration float64
	Jitter         float64
	rng            *rand.Rand
}

// NewTargetPriceBidder constructs a target-price strategy. rng drives the
// per-call calibration jitter and must come from the run's seeded generator.
func NewTargetPriceBidder(p CampaignParams, targetCPC, miscalibration, jitter float64, rng *rand.Rand) (*TargetPriceBidder, error) {
	c, err := newCampaign(KindTargetPrice, p)
	if err != nil {
		return nil, err
	}
	if targetCPC <= 0 {
		return nil, errNonPositive(c, "target cpc", targetCPC)
	}
	if miscalibration <= 0 {
		return nil, errNonPositive(c, "miscalibration", miscalibration)
	}
	return &TargetPriceBidder{
		Campaign:       c,
		TargetCPC:      targetCPC,
		Miscalibration: miscalibration,
		Jitter:         jitter,
		rng:            rng,
	}, nil
}

// GetBid implements Bidder.
func (b *TargetPriceBidder) GetBid(imp *Impression) (float64, bool) {
	if b.declines(imp) {
		return 0, false
	}
	campaignPCTR := imp.PCTR * (b.Miscalibration + b.rng.Float64()*b.Jitter)
	return b.TargetCPC * campaignPCTR, true
}

// LinearPaceBidder bids like FixedPriceBidder but additionally declines
// whenever cumulative spend is ahead of the linear schedule
// budget x elapsed_fraction_of_window. A throttle with no feedback: it never
// adjusts its price, it only sits out.
type LinearPaceBidder struct {
	*Campaign
	CPC float64
}

// NewLinearPaceBidder constructs a linear-pace strategy.
func NewLinearPaceBidder(p CampaignParams, cpc float64) (*LinearPaceBidder, error) {
	c, err := newCampaign(KindLinearPace, p)
	if err != nil {
		return nil, err
	}
	if cpc <= 0 {
		return nil, errNonPositive(c, "cpc", cpc)
	}
	return &LinearPaceBidder{Campaign: c, CPC: cpc}, nil
}

// GetBid implements Bidder.
func (b *LinearPaceBidder) GetBid(imp *Impression) (float64, bool) {
	if b.declines(imp) {
		return 0, false
	}
	elapsed := (imp.Time - b.Window.Start) / b.Window.Duration()
	if b.Stat.Total.Spend >= b.DailyBudget*elapsed {
		return 0, false
	}
	return b.CPC * imp.PCTR, true
}

func errNonPositive(c *Campaign, field string, v float64) error {
	return fmt.Errorf("campaign %d (%s): %s must be positive, got %g", c.ID, c.Kind, field, v)
}
