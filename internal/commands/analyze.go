package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/pkg/types"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	var draft bool
	var assign bool

	cmd := &cobra.Command{
		Use:   "analyze [asset-id]",
		Short: "Analyze one asset: health score, failure prediction, recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], draft, assign)
		},
	}
	cmd.Flags().BoolVar(&draft, "draft", false, "also draft a preventive work order")
	cmd.Flags().BoolVar(&assign, "assign", false, "pick the best technician for the draft (implies --draft)")
	return cmd
}

func runAnalyze(assetID string, draft, assign bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := buildCore(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.cleanup()

	analysis, err := c.analyzer.Analyze(ctx, assetID)
	if err != nil {
		return fmt.Errorf("analyzing asset: %w", err)
	}
	printAnalysis(analysis)

	if draft || assign {
		d, err := c.orchestrator.DraftPreventiveRequest(ctx, assetID, assign)
		if err != nil {
			return fmt.Errorf("drafting request: %w", err)
		}
		printDraft(d)
	}
	return nil
}

func printAnalysis(a *types.HealthAnalysis) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("\n%s (%s)\n", a.Asset.Name, a.Asset.ID)

	printHealthLine(a.HealthScore)
	printRiskLine(a.Prediction.RiskScore)

	if d := a.Prediction.PredictedFailureDate; d != nil {
		fmt.Printf("Predicted failure date: %s\n", d.Format("2006-01-02"))
	}
	fmt.Printf("Confidence: %.0f%%\n", a.Prediction.Confidence*100)
	fmt.Printf("Reasoning: %s\n", a.Prediction.Reasoning)

	fmt.Printf("\nHistory: %d events (%d in last 30 days, %d in last 90 days)\n",
		a.Summary.TotalEvents, a.Summary.Last30Days, a.Summary.Last90Days)

	fmt.Println("\nRecommendations:")
	for _, rec := range a.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
	fmt.Println()
}

func printHealthLine(score float64) {
	switch band := types.HealthBandFor(score); band {
	case types.HealthExcellent, types.HealthGood:
		color.Green("Health score: %.0f/100 (%s)", score, band)
	case types.HealthFair:
		color.Yellow("Health score: %.0f/100 (%s)", score, band)
	default:
		color.Red("Health score: %.0f/100 (%s)", score, band)
	}
}

func printRiskLine(score float64) {
	switch tier := types.RiskTierFor(score); tier {
	case types.RiskCritical:
		color.Red("Failure risk: %.2f (%s)", score, tier)
	case types.RiskHigh:
		color.Yellow("Failure risk: %.2f (%s)", score, tier)
	default:
		color.Green("Failure risk: %.2f (%s)", score, tier)
	}
}

func printDraft(d *types.DraftRequest) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Draft work order %s\n", d.ID)
	fmt.Printf("  Title:    %s\n", d.Title)
	fmt.Printf("  Priority: %s\n", d.Priority)
	if d.Assignment != nil {
		if d.Assignment.NoCandidate {
			color.Yellow("  Assignment: no active technicians available")
		} else {
			fmt.Printf("  Assignee: %s (score %.1f)\n", d.Assignment.TechnicianName, d.Assignment.Score)
		}
	}
	fmt.Println()
}
