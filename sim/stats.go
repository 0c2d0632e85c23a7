package sim

import "math"

// Counter accumulates the three tallies every reporting scope needs.
type Counter struct {
	Impressions int64
	Clicks      int64
	Spend       float64
}

// RegisterImpression records one won impression at the given clearing price.
func (c *Counter) RegisterImpression(price float64) {
	c.Impressions++
	c.Spend += price
}

// RegisterClick records one click on a won impression.
func (c *Counter) RegisterClick() {
	c.Clicks++
}

// CPC is spend per click, 0 when no clicks were recorded.
func (c *Counter) CPC() float64 {
	if c.Clicks == 0 {
		return 0
	}
	return c.Spend / float64(c.Clicks)
}

// CPM is spend per thousand impressions, 0 when no impressions were recorded.
func (c *Counter) CPM() float64 {
	if c.Impressions == 0 {
		return 0
	}
	return 1000.0 * c.Spend / float64(c.Impressions)
}

// FullStat tracks one aggregate Counter plus 24 hourly buckets keyed by
// floor(time/3600). The sum over the hourly buckets always equals the
// aggregate, because both are mutated by the same registration call.
type FullStat struct {
	Total Counter
	Hours [HoursPerDay]Counter
}

// NewFullStat returns a zeroed FullStat.
func NewFullStat() *FullStat {
	return &FullStat{}
}

// RegisterImpression books one won impression into the aggregate and hourly
// counters. Click accounting is separate; see RegisterClick.
func (s *FullStat) RegisterImpression(imp *Impression, price float64) {
	s.Total.RegisterImpression(price)
	s.Hours[imp.Hour()].RegisterImpression(price)
}

// RegisterClick books one click into the aggregate and hourly counters.
func (s *FullStat) RegisterClick(imp *Impression) {
	s.Total.RegisterClick()
	s.Hours[imp.Hour()].RegisterClick()
}

// HourlySpend returns the 24-bucket spend series.
func (s *FullStat) HourlySpend() []float64 {
	out := make([]float64, HoursPerDay)
	for i := range s.Hours {
		out[i] = s.Hours[i].Spend
	}
	return out
}

// Welford is a single-pass running mean/variance estimator. Numerically
// stable; never stores raw samples.
type Welford struct {
	count int64
	mean  float64
	m2    float64
}

// Add folds one sample into the estimator.
func (w *Welford) Add(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (x - w.mean)
}

// Count returns the number of samples seen.
func (w *Welford) Count() int64 {
	return w.count
}

// Mean returns the running mean, 0 before any sample.
func (w *Welford) Mean() float64 {
	return w.mean
}

// Variance returns the unbiased sample variance, 0 with fewer than two samples.
func (w *Welford) Variance() float64 {
	if w.count < 2 {
		return 0
	}
	return w.m2 / float64(w.count-1)
}

// StdDev returns the sample standard deviation.
func (w *Welford) StdDev() float64 {
	return math.Sqrt(w.Variance())
}

// Aggregates is the cross-campaign statistics sink maintained by the auction
// engine: a global scope with a running clearing-price estimator, plus one
// FullStat per campaign kind. Campaigns keep their own FullStat; nothing here
// is read back into bidding decisions.
type Aggregates struct {
	Global *FullStat
	Price  Welford
	ByKind map[string]*FullStat
}

// NewAggregates returns an empty statistics sink.
func NewAggregates() *Aggregates {
	return &Aggregates{
		Global: NewFullStat(),
		ByKind: make(map[string]*FullStat),
	}
}

// RegisterImpression books one resolved auction into the global and per-kind
// scopes and feeds the clearing price into the running estimator.
func (a *Aggregates) RegisterImpression(kind string, imp *Impression, price float64) {
	a.Global.RegisterImpression(imp, price)
	a.Price.Add(price)
	a.kindStat(kind).RegisterImpression(imp, price)
}

// RegisterClick books one click into the global and per-kind scopes.
func (a *Aggregates) RegisterClick(kind string, imp *Impression) {
	a.Global.RegisterClick(imp)
	a.kindStat(kind).RegisterClick(imp)
}

func (a *Aggregates) kindStat(kind string) *FullStat {
	s, ok := a.ByKind[kind]
	if !ok {
		s = NewFullStat()
		a.ByKind[kind] = s
	}
	return s
}
