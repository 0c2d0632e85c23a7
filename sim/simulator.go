package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Source produces one impression per auction tick. Implementations own the
// randomness behind the predicted CTR and the click outcome; the engine
// treats each draw as opaque and never inspects how clicks are modeled.
type Source interface {
	Next(id int64, t float64) *Impression
}

// Simulator owns the campaign roster and the time axis. It runs one full
// simulated day of traffic in a single sequential pass: one auction fully
// resolved per impression, in strictly increasing time order. Deterministic
// given a fixed SimConfig.Seed.
type Simulator struct {
	Config SimConfig
	Source Source
	Roster []Bidder
	Engine *Engine
	Agg    *Aggregates

	// FailedAuctions counts ticks where every campaign declined. Failed
	// auctions contribute nothing to the statistics; they are not errors.
	FailedAuctions int64
}

// NewSimulator wires a run together. The tie-break stream is derived from
// the config seed through the partitioned RNG, independent of the traffic
// stream.
func NewSimulator(cfg SimConfig, src Source, roster []Bidder, rng *PartitionedRNG) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("impression source is required")
	}
	return &Simulator{
		Config: cfg,
		Source: src,
		Roster: roster,
		Engine: NewEngine(cfg.Rule, rng.ForSubsystem(SubsystemTieBreak)),
		Agg:    NewAggregates(),
	}, nil
}

// Run executes the full impression stream. Impression i is offered at
// t = Horizon * i / Impressions: a linear time axis, matching the original
// generator.
func (s *Simulator) Run() {
	logrus.Infof("starting simulation: %d impressions over %.0fs, %s-price clearing, %d campaigns",
		s.Config.Impressions, s.Config.Horizon, s.Config.Rule, len(s.Roster))

	for i := int64(0); i < s.Config.Impressions; i++ {
		t := s.Config.Horizon * float64(i) / float64(s.Config.Impressions)
		imp := s.Source.Next(i, t)
		res := s.Engine.RunOneAuction(imp, s.Roster, s.Agg)
		if res.Winner == nil {
			s.FailedAuctions++
		}
	}

	logrus.Infof("simulation complete: %d impressions sold, %d unsold, total spend %.2f",
		s.Agg.Global.Total.Impressions, s.FailedAuctions, s.Agg.Global.Total.Spend)
}

// Summary is a read-only snapshot of one scope's counters and derived
// ratios, consumed by the reporting layer.
type Summary struct {
	Impressions int64
	Clicks      int64
	Spend       float64
	CPC         float64
	CPM         float64
	Hourly      [HoursPerDay]Counter
}

func summarize(s *FullStat) Summary {
	return Summary{
		Impressions: s.Total.Impressions,
		Clicks:      s.Total.Clicks,
		Spend:       s.Total.Spend,
		CPC:         s.Total.CPC(),
		CPM:         s.Total.CPM(),
		Hourly:      s.Hours,
	}
}

// CampaignSummary couples one campaign's identity with its summary.
type CampaignSummary struct {
	ID          int
	Kind        string
	Tags        []string
	DailyBudget float64
	Summary
}

// Result bundles everything the reporting layer consumes: per-campaign,
// per-kind, and global summaries plus the clearing-price distribution.
type Result struct {
	Campaigns      []CampaignSummary
	ByKind         map[string]Summary
	Global         Summary
	PriceMean      float64
	PriceStdDev    float64
	FailedAuctions int64
}

// Result snapshots the run's statistics. Call after Run; calling earlier
// simply reports the state so far.
func (s *Simulator) Result() *Result {
	r := &Result{
		Campaigns:      make([]CampaignSummary, 0, len(s.Roster)),
		ByKind:         make(map[string]Summary, len(s.Agg.ByKind)),
		Global:         summarize(s.Agg.Global),
		PriceMean:      s.Agg.Price.Mean(),
		PriceStdDev:    s.Agg.Price.StdDev(),
		FailedAuctions: s.FailedAuctions,
	}
	for _, b := range s.Roster {
		c := b.Base()
		r.Campaigns = append(r.Campaigns, CampaignSummary{
			ID:          c.ID,
			Kind:        c.Kind,
			Tags:        c.Tags,
			DailyBudget: c.DailyBudget,
			Summary:     summarize(c.Stat),
		})
	}
	for kind, stat := range s.Agg.ByKind {
		r.ByKind[kind] = summarize(stat)
	}
	return r
}
