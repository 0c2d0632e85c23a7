// Package sim provides the core engine of the ad-auction simulator: one
// simulated day of impressions offered, one at a time, to a roster of
// budget-constrained bidding campaigns.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - impression.go: the immutable auctionable unit (timestamp, predicted
//     CTR, click outcome fixed at creation)
//   - campaign.go: the Bidder interface and the shared campaign record every
//     strategy builds on
//   - auction.go: bid collection, hurdle-adjusted ranking, pricing rules,
//     and winner notification
//
// # Architecture
//
// The sim package defines interfaces and the resolution engine;
// implementations and consumers live around it:
//   - bidders.go / pacing.go: the bidding strategies, including the
//     dual-EMA adaptive pacing controller
//   - sim/traffic/: the synthetic impression source (implements Source)
//   - stats.go: per-scope counters, hourly buckets, and the running
//     mean/variance of clearing price
//   - simulator.go: the sequential driver over the day's time axis
//
// Execution is single-threaded and deterministic given a SimulationKey:
// impressions are processed in non-decreasing time order and every auction
// is fully resolved before the next begins. The only randomness the engine
// itself draws is the uniform tie-break between equal hurdle-adjusted bids,
// taken from a dedicated PartitionedRNG subsystem.
package sim
