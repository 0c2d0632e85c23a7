package sim

import "fmt"

// Bidder is the capability interface every campaign bidding strategy
// implements. The auction engine dispatches through it and through nothing
// else; there is no shared mutable state between strategies beyond each
// campaign's own record.
type Bidder interface {
	// GetBid returns the price this campaign offers for imp. The second
	// return is false when the campaign declines (budget exhausted, outside
	// its active window, or paced cutoff reached) -- a routine outcome, not
	// an error. A positive return commits to nothing; the campaign becomes
	// liable for spend only through RegisterImpression.
	GetBid(imp *Impression) (float64, bool)

	// RegisterImpression charges the campaign the clearing price for a won
	// impression and updates its own bookkeeping.
	RegisterImpression(imp *Impression, price float64)

	// RegisterClick records a click on a won impression. Decoupled from
	// payment: accounting is pay-per-impression, clicks feed CPC reporting
	// only.
	RegisterClick(imp *Impression)

	// Base exposes the shared campaign record (identity, budget, hurdle,
	// window, stats).
	Base() *Campaign
}

// TimeWindow is a half-open [Start, End) interval of the simulated day
// during which a campaign is active.
type TimeWindow struct {
	Start float64
	End   float64
}

// FullDay returns the window covering the whole simulated day.
func FullDay() TimeWindow {
	return TimeWindow{Start: 0, End: SecondsPerDay}
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t float64) bool {
	return t >= w.Start && t < w.End
}

// Duration returns the window length in seconds.
func (w TimeWindow) Duration() float64 {
	return w.End - w.Start
}

// Validate rejects empty or inverted windows. A zero-length window is a
// setup bug, not a runtime condition.
func (w TimeWindow) Validate() error {
	if w.Start < 0 || w.End > SecondsPerDay {
		return fmt.Errorf("time window [%g,%g) outside the simulated day", w.Start, w.End)
	}
	if w.End <= w.Start {
		return fmt.Errorf("time window [%g,%g) has non-positive length", w.Start, w.End)
	}
	return nil
}

// CampaignParams carries the construction-time fields shared by every
// strategy. Zero values select the defaults: hurdle 1.0, full-day window.
type CampaignParams struct {
	ID          int
	Tags        []string
	DailyBudget float64
	Hurdle      float64
	Window      TimeWindow
}

// Campaign is the mutable record shared by all bidding strategies: identity,
// budget, ranking hurdle, active window, and the campaign's own statistics.
// Created once at simulation setup, mutated on every auction it wins, never
// deleted mid-run.
type Campaign struct {
	ID          int
	Tags        []string
	Kind        string
	DailyBudget float64
	// Hurdle multiplies this campaign's bids for ranking purposes only,
	// modeling a floor-price adjustment relative to other campaigns.
	Hurdle float64
	Window TimeWindow
	Stat   *FullStat
}

func newCampaign(kind string, p CampaignParams) (*Campaign, error) {
	if p.DailyBudget <= 0 {
		return nil, fmt.Errorf("campaign %d (%s): daily budget must be positive, got %g", p.ID, kind, p.DailyBudget)
	}
	if p.Hurdle == 0 {
		p.Hurdle = 1.0
	}
	if p.Hurdle < 0 {
		return nil, fmt.Errorf("campaign %d (%s): hurdle must be positive, got %g", p.ID, kind, p.Hurdle)
	}
	if p.Window == (TimeWindow{}) {
		p.Window = FullDay()
	}
	if err := p.Window.Validate(); err != nil {
		return nil, fmt.Errorf("campaign %d (%s): %w", p.ID, kind, err)
	}
	return &Campaign{
		ID:          p.ID,
		Tags:        p.Tags,
		Kind:        kind,
		DailyBudget: p.DailyBudget,
		Hurdle:      p.Hurdle,
		Window:      p.Window,
		Stat:        NewFullStat(),
	}, nil
}

// Base returns the campaign record itself; it satisfies the Bidder accessor
// for every strategy that embeds *Campaign.
func (c *Campaign) Base() *Campaign {
	return c
}

// RegisterImpression performs the base spend/impression bookkeeping common
// to all strategies.
func (c *Campaign) RegisterImpression(imp *Impression, price float64) {
	c.Stat.RegisterImpression(imp, price)
}

// RegisterClick performs the base click bookkeeping common to all strategies.
func (c *Campaign) RegisterClick(imp *Impression) {
	c.Stat.RegisterClick(imp)
}

// Exhausted reports whether cumulative spend has reached the daily budget.
// Once true it stays true: spend only grows.
func (c *Campaign) Exhausted() bool {
	return c.Stat.Total.Spend >= c.DailyBudget
}

// declines reports whether the campaign sits out this impression for the
// reasons common to all strategies: exhausted budget or inactive window.
func (c *Campaign) declines(imp *Impression) bool {
	return c.Exhausted() || !c.Window.Contains(imp.Time)
}
