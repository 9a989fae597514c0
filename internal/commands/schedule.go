package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewScheduleCmd creates the schedule command.
func NewScheduleCmd() *cobra.Command {
	var scope string
	var days int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the predicted maintenance calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("days must be positive, got %d", days)
			}
			return runSchedule(scope, days)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "restrict to one site or department")
	cmd.Flags().IntVar(&days, "days", 0, "window in days (default from config)")
	return cmd
}

func runSchedule(scope string, days int) error {
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

	if days == 0 {
		days = cfg.Risk.ScheduleDaysAhead
	}
	items, err := c.analyzer.Schedule(ctx, scope, days)
	if err != nil {
		return fmt.Errorf("building schedule: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("Nothing due in the window.")
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("%-12s %-20s %-24s %-8s %s\n", "DATE", "ASSET", "NAME", "PRIORITY", "ACTION")
	for _, item := range items {
		line := fmt.Sprintf("%-12s %-20s %-24s %-8s %s",
			item.Date.Format("2006-01-02"), item.AssetID, truncate(item.AssetName, 24), item.Priority, item.Action)
		if item.DaysUntil < 0 {
			color.Red("%s (overdue %d days)", line, -item.DaysUntil)
		} else {
			fmt.Println(line)
		}
	}
	return nil
}
