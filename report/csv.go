package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	sim "github.com/auction-sim/auction-sim/sim"
)

// WriteCSV writes one row per campaign plus a trailing TOTAL row.
func WriteCSV(path string, r *sim.Result) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"cid", "kind", "tags", "daily_budget", "impressions", "clicks", "spend", "cpc", "cpm"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, c := range r.Campaigns {
		record := []string{
			strconv.Itoa(c.ID),
			c.Kind,
			formatTags(c.Tags),
			formatFloat(c.DailyBudget),
			strconv.FormatInt(c.Impressions, 10),
			strconv.FormatInt(c.Clicks, 10),
			formatFloat(c.Spend),
			formatFloat(c.CPC),
			formatFloat(c.CPM),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	total := []string{
		"", "TOTAL", "", "",
		strconv.FormatInt(r.Global.Impressions, 10),
		strconv.FormatInt(r.Global.Clicks, 10),
		formatFloat(r.Global.Spend),
		formatFloat(r.Global.CPC),
		formatFloat(r.Global.CPM),
	}
	if err := writer.Write(total); err != nil {
		return err
	}

	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
