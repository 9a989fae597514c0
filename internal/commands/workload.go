package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/pkg/types"
)

// NewWorkloadCmd creates the workload command.
func NewWorkloadCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Show the team workload distribution, lightest load first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload(scope)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "restrict to one site or department")
	return cmd
}

func runWorkload(scope string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c, err := buildCore(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.cleanup()

	entries, err := c.engine.WorkloadDistribution(ctx, scope)
	if err != nil {
		return fmt.Errorf("computing workload: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No active technicians.")
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("%-20s %-20s %8s %8s  %s\n", "TECHNICIAN", "NAME", "ACTIVE", "AVAIL", "TIER")
	for _, e := range entries {
		line := fmt.Sprintf("%-20s %-20s %8d %7.0f%%  %s",
			e.Technician.ID, truncate(e.Technician.Name, 20),
			e.Technician.ActiveRequests, e.Availability*100, e.Tier)
		switch e.Tier {
		case types.WorkloadOverloaded:
			color.Red("%s", line)
		case types.WorkloadHeavy:
			color.Yellow("%s", line)
		default:
			fmt.Println(line)
		}
	}
	return nil
}
