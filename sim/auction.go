package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
)

// PricingRule selects how the winning campaign's clearing price is resolved.
type PricingRule int

const (
	// FirstPrice: the winner pays its own raw bid.
	FirstPrice PricingRule = iota
	// SecondPrice: the winner pays the second-highest hurdle-adjusted price
	// divided by its own hurdle; a lone bidder pays its raw bid.
	SecondPrice
)

// ParsePricingRule maps the CLI/preset spelling onto a PricingRule.
func ParsePricingRule(s string) (PricingRule, error) {
	switch s {
	case "first":
		return FirstPrice, nil
	case "second":
		return SecondPrice, nil
	default:
		return FirstPrice, fmt.Errorf("unknown pricing rule %q (want first or second)", s)
	}
}

func (r PricingRule) String() string {
	if r == SecondPrice {
		return "second"
	}
	return "first"
}

// Bid is the ephemeral record one campaign produces for one auction attempt;
// it is discarded once the auction resolves.
type Bid struct {
	Bidder   Bidder
	Price    float64 // raw bid price
	Adjusted float64 // Price x campaign hurdle, used only for ranking

	tiebreak float64 // uniform key breaking ties between equal Adjusted values
}

// AuctionResult reports one resolved auction. Winner is nil when every
// campaign declined; that is a routine outcome, not an error.
type AuctionResult struct {
	Winner        Bidder
	ClearingPrice float64
	Bids          int
}

// Engine resolves one auction per impression. It is stateless between
// calls; all mutable state lives in the campaigns. Tie-breaking is the only
// randomness it consumes, drawn from the injected seeded generator so runs
// stay reproducible.
type Engine struct {
	Rule PricingRule
	rng  *rand.Rand
}

// NewEngine constructs an auction engine with the given pricing rule and
// tie-break RNG.
func NewEngine(rule PricingRule, rng *rand.Rand) *Engine {
	return &Engine{Rule: rule, rng: rng}
}

// RunOneAuction offers imp to every campaign in the roster, ranks the
// surviving bids by hurdle-adjusted price, resolves the clearing price under
// the configured rule, and notifies the winner and the aggregator. agg may
// be nil when no cross-campaign statistics are wanted.
func (e *Engine) RunOneAuction(imp *Impression, roster []Bidder, agg *Aggregates) AuctionResult {
	bids := make([]Bid, 0, len(roster))
	for _, b := range roster {
		price, ok := b.GetBid(imp)
		if !ok {
			continue
		}
		bids = append(bids, Bid{
			Bidder:   b,
			Price:    price,
			Adjusted: price * b.Base().Hurdle,
			tiebreak: e.rng.Float64(),
		})
	}
	if len(bids) == 0 {
		return AuctionResult{}
	}

	// Rank by hurdle-adjusted price descending; equal adjusted prices are
	// ordered by their uniform tie-break keys, so each tied campaign wins
	// with equal probability.
	sort.Slice(bids, func(i, j int) bool {
		if bids[i].Adjusted != bids[j].Adjusted {
			return bids[i].Adjusted > bids[j].Adjusted
		}
		return bids[i].tiebreak > bids[j].tiebreak
	})

	winner := bids[0]
	price := winner.Price
	if e.Rule == SecondPrice && len(bids) > 1 {
		price = bids[1].Adjusted / winner.Bidder.Base().Hurdle
	}

	winner.Bidder.RegisterImpression(imp, price)
	if agg != nil {
		agg.RegisterImpression(winner.Bidder.Base().Kind, imp, price)
	}
	if imp.Clicked {
		winner.Bidder.RegisterClick(imp)
		if agg != nil {
			agg.RegisterClick(winner.Bidder.Base().Kind, imp)
		}
	}

	logrus.Tracef("auction %d: %d bids, winner campaign %d pays %.4f",
		imp.ID, len(bids), winner.Bidder.Base().ID, price)

	return AuctionResult{
		Winner:        winner.Bidder,
		ClearingPrice: price,
		Bids:          len(bids),
	}
}
