package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewAssignCmd creates the assign command.
func NewAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [work-order-id]",
		Short: "Pick the best technician for an unassigned work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssign(args[0])
		},
	}
}

func runAssign(workOrderID string) error {
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

	decision, err := c.engine.AssignBest(ctx, workOrderID)
	if err != nil {
		return fmt.Errorf("assigning work order: %w", err)
	}

	if decision.NoCandidate {
		color.Yellow("No active technicians available for %s.", workOrderID)
		fmt.Println(decision.Reasoning)
		return nil
	}

	color.Green("Best technician for %s: %s (%s)", workOrderID, decision.TechnicianName, decision.TechnicianID)
	fmt.Printf("Score: %.1f across %d candidates\n", decision.Score, decision.Candidates)
	fmt.Println(decision.Reasoning)
	return nil
}
