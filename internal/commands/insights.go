package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewInsightsCmd creates the insights command.
func NewInsightsCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Decision-support bundle: alerts, recommendations, top risks, calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsights(scope)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "restrict to one site or department")
	return cmd
}

func runInsights(scope string) error {
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

	ins, err := c.orchestrator.Insights(ctx, scope)
	if err != nil {
		return fmt.Errorf("building insights: %w", err)
	}

	bold := color.New(color.Bold)

	d := ins.Dashboard
	_, _ = bold.Println("Fleet")
	fmt.Printf("  %d assets, average health %.0f\n", d.TotalAssets, d.AverageHealth)
	fmt.Printf("  Risk: %d critical, %d high, %d medium, %d low\n",
		d.CriticalRisk, d.HighRisk, d.MediumRisk, d.LowRisk)
	fmt.Printf("  Due within 30 days: %d\n", d.DueWithin30Days)

	if len(ins.Alerts) > 0 {
		_, _ = bold.Println("\nAlerts")
		for _, a := range ins.Alerts {
			color.Red("  ! %s", a)
		}
	}

	_, _ = bold.Println("\nRecommendations")
	for _, rec := range ins.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}

	if len(ins.TopRisks) > 0 {
		_, _ = bold.Println("\nTop risks")
		for _, a := range ins.TopRisks {
			fmt.Printf("  %-20s risk %.2f, health %.0f\n", a.Asset.ID, a.Prediction.RiskScore, a.HealthScore)
			if tr, ok := ins.Trends[a.Asset.ID]; ok {
				fmt.Printf("    frequency %s, interval %s\n", tr.FrequencyTrend, tr.IntervalTrend)
			}
		}
	}

	if len(ins.Calendar) > 0 {
		_, _ = bold.Println("\nCalendar")
		months := make([]string, 0, len(ins.Calendar))
		for month := range ins.Calendar {
			months = append(months, month)
		}
		sort.Strings(months)
		for _, month := range months {
			fmt.Printf("  %s: %d item(s)\n", month, len(ins.Calendar[month]))
		}
	}

	_, _ = bold.Println("\nTeam")
	fmt.Printf("  %s\n", ins.Workload.Summary)
	return nil
}
