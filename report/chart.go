package report

import (
	"os"

	chart "github.com/wcharczuk/go-chart/v2"

	sim "github.com/auction-sim/auction-sim/sim"
)

// WriteHourlySpendPNG renders the global 24-bucket spend series.
func WriteHourlySpendPNG(path string, r *sim.Result) error {
	return writeHourlyPNG(path, "Hourly spend", "Spend", hourlySpend(r.Global))
}

// WriteHourlyCPMPNG renders the global 24-bucket CPM series.
func WriteHourlyCPMPNG(path string, r *sim.Result) error {
	return writeHourlyPNG(path, "Hourly CPM", "CPM", hourlyCPM(r.Global))
}

func writeHourlyPNG(path, title, yName string, values []float64) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	hours := make([]float64, len(values))
	for i := range hours {
		hours[i] = float64(i)
	}

	valueFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Title:  title,
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name:           "Hour of day",
			ValueFormatter: func(v interface{}) string { return chart.FloatValueFormatterWithFormat(v, "%.0f") },
		},
		YAxis: chart.YAxis{
			Name:           yName,
			ValueFormatter: valueFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    yName,
				XValues: hours,
				YValues: values,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
