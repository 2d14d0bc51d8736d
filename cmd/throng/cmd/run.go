package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/throng/examples/caravan"
	"github.com/sarchlab/throng/simulation"
	"github.com/sarchlab/throng/timing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the caravan demo world.",
	Long: "`run` advances the caravan demo world to the given horizon and " +
		"prints what every caravan ended up with.",
	Run: func(cmd *cobra.Command, _ []string) {
		horizon, _ := cmd.Flags().GetFloat64("horizon")
		seed, _ := cmd.Flags().GetInt64("seed")
		caravans, _ := cmd.Flags().GetInt("caravans")
		noMonitor, _ := cmd.Flags().GetBool("no-monitor")
		monitorPort, _ := cmd.Flags().GetInt("monitor-port")
		output, _ := cmd.Flags().GetString("output")

		builder := simulation.MakeBuilder().WithOutputFileName(output)
		if noMonitor {
			builder = builder.WithoutMonitoring()
		} else if monitorPort > 0 {
			builder = builder.WithMonitorPort(monitorPort)
		}

		s := builder.Build()
		defer s.Terminate()

		world := caravan.Setup(s, seed, caravans)

		err := s.RunUntil(timing.VTimePoint(horizon))
		if err != nil {
			slog.Error("run aborted", "error", err)
			atexit.Exit(1)
		}

		printSummary(world, horizon)
	},
}

func printSummary(world *caravan.World, horizon float64) {
	names := make([]string, 0, len(world.Caravans))
	for name := range world.Caravans {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("At time %.1f:\n", horizon)
	for _, name := range names {
		state := world.Caravans[name]
		fmt.Printf("  %s: %d gold, at %s, %d activities\n",
			name, state.Gold, state.Location, len(state.Log))
	}
}

// envOr reads an environment variable with a fallback, so .env files can set
// defaults for the flags.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(envOr(key, ""), 64)
	if err != nil {
		return fallback
	}

	return v
}

func envIntOr(key string, fallback int) int {
	v, err := strconv.Atoi(envOr(key, ""))
	if err != nil {
		return fallback
	}

	return v
}

func init() {
	// Flag defaults can come from a .env file. A missing file is fine.
	_ = godotenv.Load()

	runCmd.Flags().Float64("horizon",
		envFloatOr("THRONG_HORIZON", 200), "virtual time to run until")
	runCmd.Flags().Int64("seed", 1, "random seed of the world")
	runCmd.Flags().Int("caravans",
		envIntOr("THRONG_CARAVANS", 4), "number of caravans")
	runCmd.Flags().Bool("no-monitor", false, "disable the monitoring server")
	runCmd.Flags().Int("monitor-port",
		envIntOr("THRONG_MONITOR_PORT", 0), "port of the monitoring server")
	runCmd.Flags().String("output",
		envOr("THRONG_OUTPUT", ""), "output trace file name")

	rootCmd.AddCommand(runCmd)
}
