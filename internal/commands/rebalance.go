package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRebalanceCmd creates the rebalance command.
func NewRebalanceCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Propose work order moves from overloaded to underloaded technicians",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebalance(scope)
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "restrict to one site or department")
	return cmd
}

func runRebalance(scope string) error {
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

	recs, err := c.engine.RecommendReassignments(ctx, scope)
	if err != nil {
		return fmt.Errorf("computing reassignments: %w", err)
	}
	if len(recs) == 0 {
		color.Green("Workload is balanced; no moves proposed.")
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("%d proposed move(s):\n\n", len(recs))
	for _, rec := range recs {
		fmt.Printf("%s [%s] %s -> %s\n", rec.WorkOrderID, rec.Priority, rec.FromName, rec.ToName)
		fmt.Printf("  %s\n", rec.Reason)
	}
	fmt.Println("\nProposals are advisory; apply them in your maintenance system.")
	return nil
}
