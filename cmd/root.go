package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/auction-sim/auction-sim/report"
	sim "github.com/auction-sim/auction-sim/sim"
	"github.com/auction-sim/auction-sim/sim/traffic"
)

var (
	// Run shape
	seed        int64  // Master seed for the partitioned RNG
	impressions int64  // Total auction ticks in the simulated day
	pricing     string // Clearing rule: "first" or "second"
	logLevel    string // Log verbosity level

	// Traffic generation
	baseCTR    float64 // Underlying click-through rate
	ctrJitter  float64 // Uniform perturbation on the click draw
	pctrJitter float64 // Uniform perturbation on the predicted CTR

	// Pacing controller constants
	tauFast   float64 // Fast spend-rate tracker time constant (seconds)
	tauSlow   float64 // Slow spend-rate tracker time constant (seconds)
	seedPrice float64 // Output price before any feedback exists
	clampMin  float64 // Lower bound on one multiplicative price step
	clampMax  float64 // Upper bound on one multiplicative price step

	// Per-campaign calibration jitter for target-price bidders
	bidderJitter float64

	// Inputs and outputs
	rosterPath string // YAML roster preset; empty selects the built-in default roster
	csvPath    string // Campaign summary CSV output path
	pngSpend   string // Hourly spend chart output path
	pngCPM     string // Hourly CPM chart output path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "auction-sim",
	Short: "Discrete-event simulator for a single-seller ad auction with budget pacing",
}

// runCmd executes one full simulated day using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulated day of auctions",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		rule, err := sim.ParsePricingRule(pricing)
		if err != nil {
			logrus.Fatalf("Invalid pricing rule: %v", err)
		}

		cfg := sim.SimConfig{
			Impressions: impressions,
			Horizon:     sim.SecondsPerDay,
			Rule:        rule,
			Seed:        seed,
		}

		pacing := sim.PacingConfig{
			TauFast:   tauFast,
			TauSlow:   tauSlow,
			SeedPrice: seedPrice,
			ClampMin:  clampMin,
			ClampMax:  clampMax,
		}

		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))

		source, err := traffic.NewSynthetic(traffic.Config{
			BaseCTR:    baseCTR,
			CTRJitter:  ctrJitter,
			PCTRJitter: pctrJitter,
		}, rng.ForSubsystem(sim.SubsystemTraffic))
		if err != nil {
			logrus.Fatalf("Invalid traffic configuration: %v", err)
		}

		rosterCfg := DefaultRoster()
		if rosterPath != "" {
			rosterCfg, err = LoadRoster(rosterPath)
			if err != nil {
				logrus.Fatalf("Unable to read roster %s: %v", rosterPath, err)
			}
		}
		roster, err := BuildRoster(rosterCfg, pacing, bidderJitter, rng.ForSubsystem(sim.SubsystemBidders))
		if err != nil {
			logrus.Fatalf("Invalid campaign roster: %v", err)
		}

		s, err := sim.NewSimulator(cfg, source, roster, rng)
		if err != nil {
			logrus.Fatalf("Unable to build simulator: %v", err)
		}
		s.Run()

		result := s.Result()
		report.Render(os.Stdout, result)

		if csvPath != "" {
			if err := report.WriteCSV(csvPath, result); err != nil {
				logrus.Fatalf("Unable to write CSV %s: %v", csvPath, err)
			}
		}
		if pngSpend != "" {
			if err := report.WriteHourlySpendPNG(pngSpend, result); err != nil {
				logrus.Fatalf("Unable to write spend chart %s: %v", pngSpend, err)
			}
		}
		if pngCPM != "" {
			if err := report.WriteHourlyCPMPNG(pngCPM, result); err != nil {
				logrus.Fatalf("Unable to write CPM chart %s: %v", pngCPM, err)
			}
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 10, "Master seed for deterministic runs")
	runCmd.Flags().Int64Var(&impressions, "impressions", 100000, "Total impressions in the simulated day")
	runCmd.Flags().StringVar(&pricing, "pricing", "first", "Clearing rule (first, second)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Traffic generation
	runCmd.Flags().Float64Var(&baseCTR, "base-ctr", 0.1, "Underlying traffic click-through rate")
	runCmd.Flags().Float64Var(&ctrJitter, "ctr-jitter", 0.01, "Uniform perturbation fraction on the click draw")
	runCmd.Flags().Float64Var(&pctrJitter, "pctr-jitter", 0.1, "Uniform perturbation fraction on the predicted CTR")

	// Pacing controller
	runCmd.Flags().Float64Var(&tauFast, "tau-fast", 100, "Fast spend-rate tracker time constant (seconds)")
	runCmd.Flags().Float64Var(&tauSlow, "tau-slow", 1000, "Slow spend-rate tracker time constant (seconds)")
	runCmd.Flags().Float64Var(&seedPrice, "seed-price", 0.1, "Pacing output price before any feedback exists")
	runCmd.Flags().Float64Var(&clampMin, "clamp-min", 0.1, "Lower bound on one multiplicative pacing step")
	runCmd.Flags().Float64Var(&clampMax, "clamp-max", 2.0, "Upper bound on one multiplicative pacing step")

	runCmd.Flags().Float64Var(&bidderJitter, "bidder-jitter", 0.1, "Calibration jitter for target-price campaigns")

	// Inputs and outputs
	runCmd.Flags().StringVar(&rosterPath, "roster", "", "YAML campaign roster (default: built-in roster)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Write campaign summary CSV to this path")
	runCmd.Flags().StringVar(&pngSpend, "png-spend", "", "Write hourly spend chart PNG to this path")
	runCmd.Flags().StringVar(&pngCPM, "png-cpm", "", "Write hourly CPM chart PNG to this path")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
