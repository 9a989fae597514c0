package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "gantry",
		Short: "Predictive maintenance core: failure risk, health scoring, assignment",
		Long: `Gantry reads asset snapshots and maintenance history from a configured
backend, predicts failure risk and health per asset, builds preventive
schedules, and recommends technician assignments. All outputs are
advisory: gantry never writes to the maintenance system of record.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewAnalyzeCmd(),
		commands.NewFleetCmd(),
		commands.NewScheduleCmd(),
		commands.NewAssignCmd(),
		commands.NewWorkloadCmd(),
		commands.NewRebalanceCmd(),
		commands.NewInsightsCmd(),
		commands.NewServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
