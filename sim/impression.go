package sim

// SecondsPerDay is the length of the simulated day.
const SecondsPerDay = 86400.0

// HoursPerDay is the number of hourly reporting buckets.
const HoursPerDay = 24

// Impression is one auctionable ad-serving opportunity. It is immutable:
// the click outcome is sampled once, at creation time, before any bidding
// happens, so bidding cannot influence it. Impressions are consumed by
// exactly one auction and not retained afterwards.
type Impression struct {
	ID      int64   // monotonic sequence number
	Time    float64 // seconds since simulated-day start, 0 <= Time < SecondsPerDay
	PCTR    float64 // predicted click-through rate, in (0,1)
	Clicked bool    // latent outcome, fixed at creation
}

// Hour returns the hourly bucket index floor(Time/3600), clamped to the
// valid bucket range.
func (imp *Impression) Hour() int {
	h := int(imp.Time / 3600)
	if h < 0 {
		return 0
	}
	if h >= HoursPerDay {
		return HoursPerDay - 1
	}
	return h
}
