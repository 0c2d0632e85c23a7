// Package report renders simulation results: a plain-text summary table,
// CSV exports, and PNG charts of the hourly series. The core engine only
// exposes read accessors; everything presentational lives here.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	sim "github.com/auction-sim/auction-sim/sim"
)

// Render writes the per-campaign lines, per-kind totals, and the global
// summary to w.
func Render(w io.Writer, r *sim.Result) {
	fmt.Fprintln(w, "=== Campaigns ===")
	for _, c := range r.Campaigns {
		fmt.Fprintf(w, "CID: %d, Kind: %s, Tags: %s, budget: %.2f, impressions: %d, clicks: %d, spend: %.2f, cpc: %.3f, cpm: %.3f\n",
			c.ID, c.Kind, formatTags(c.Tags), c.DailyBudget,
			c.Impressions, c.Clicks, c.Spend, c.CPC, c.CPM)
	}

	fmt.Fprintln(w, "=== By kind ===")
	for _, kind := range sortedKinds(r.ByKind) {
		s := r.ByKind[kind]
		fmt.Fprintf(w, "%s -- impressions: %d, clicks: %d, spend: %.2f, cpc: %.3f, cpm: %.3f\n",
			kind, s.Impressions, s.Clicks, s.Spend, s.CPC, s.CPM)
	}

	hourly := hourlySpend(r.Global)
	fmt.Fprintf(w, "TOTAL -- impressions: %d, clicks: %d, spend: %.2f, cpc: %.3f, cpm: %.3f\n",
		r.Global.Impressions, r.Global.Clicks, r.Global.Spend, r.Global.CPC, r.Global.CPM)
	fmt.Fprintf(w, "Clearing price: mean %.4f, stddev %.4f; unsold auctions: %d\n",
		r.PriceMean, r.PriceStdDev, r.FailedAuctions)
	fmt.Fprintf(w, "Hourly spend: mean %.2f, stddev %.2f\n",
		stat.Mean(hourly, nil), stat.StdDev(hourly, nil))
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	return "[" + strings.Join(tags, " ") + "]"
}

func sortedKinds(byKind map[string]sim.Summary) []string {
	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

func hourlySpend(s sim.Summary) []float64 {
	out := make([]float64, len(s.Hourly))
	for i := range s.Hourly {
		out[i] = s.Hourly[i].Spend
	}
	return out
}

func hourlyCPM(s sim.Summary) []float64 {
	out := make([]float64, len(s.Hourly))
	for i := range s.Hourly {
		out[i] = s.Hourly[i].CPM()
	}
	return out
}
