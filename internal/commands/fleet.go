package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/pkg/types"
)

// NewFleetCmd creates the fleet command.
func NewFleetCmd() *cobra.Command {
	var scope string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Analyze the whole fleet, worst risk first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFleet(scope, false, 0)
		},
	}
	cmd.PersistentFlags().StringVar(&scope, "scope", "", "restrict to one site or department")

	highRisk := &cobra.Command{
		Use:   "high-risk",
		Short: "List only assets at or above the risk threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("threshold must be in (0,1], got %.2f", threshold)
			}
			return runFleet(scope, true, threshold)
		},
	}
	highRisk.Flags().Float64Var(&threshold, "threshold", 0, "risk threshold override (0,1], default from config")
	cmd.AddCommand(highRisk)

	return cmd
}

func runFleet(scope string, highRiskOnly bool, threshold float64) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c, err := buildCore(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.cleanup()

	var analyses []types.HealthAnalysis
	if highRiskOnly {
		if threshold == 0 {
			threshold = cfg.Risk.HighRiskThreshold
		}
		analyses, err = c.analyzer.HighRisk(ctx, scope, threshold)
	} else {
		analyses, err = c.analyzer.AnalyzeFleet(ctx, scope)
	}
	if err != nil {
		return fmt.Errorf("analyzing fleet: %w", err)
	}

	if len(analyses) == 0 {
		fmt.Println("No assets found.")
		return nil
	}
	printFleetTable(analyses)
	return nil
}

func printFleetTable(analyses []types.HealthAnalysis) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("%-20s %-24s %8s %8s  %s\n", "ASSET", "NAME", "RISK", "HEALTH", "NEXT DUE")
	for _, a := range analyses {
		due := "-"
		if d := a.Prediction.PredictedFailureDate; d != nil {
			due = d.Format("2006-01-02")
		}
		line := fmt.Sprintf("%-20s %-24s %8.2f %8.0f  %s",
			a.Asset.ID, truncate(a.Asset.Name, 24), a.Prediction.RiskScore, a.HealthScore, due)
		switch types.RiskTierFor(a.Prediction.RiskScore) {
		case types.RiskCritical:
			color.Red("%s", line)
		case types.RiskHigh:
			color.Yellow("%s", line)
		default:
			fmt.Println(line)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
