package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var withSeeds bool

	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Initialize a new gantry project",
		Long:  "Creates a project directory with a starter gantry.yaml and optional sample fleet data.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0], withSeeds)
		},
	}

	cmd.Flags().BoolVar(&withSeeds, "seeds", true, "write sample assets and technicians for the in-memory provider")
	return cmd
}

func runInit(projectName string, withSeeds bool) error {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Initializing gantry project: %s\n", projectName)

	if err := os.MkdirAll(projectName, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", projectName, err)
	}

	configPath := filepath.Join(projectName, config.FileName)
	configContent := `provider: memory
server:
  addr: ":8080"
risk:
  strategy: rule-based
  highRiskThreshold: 0.6
  scheduleDaysAhead: 30
alerts:
  - type: console
audit:
  log: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if withSeeds {
		seedsPath := filepath.Join(projectName, seedFileName)
		if err := os.WriteFile(seedsPath, []byte(sampleSeeds), 0o644); err != nil {
			return fmt.Errorf("writing seeds: %w", err)
		}
		color.Green("  ✓ Sample fleet written to %s", seedFileName)
	}

	color.Green("  ✓ Project scaffolded")

	fmt.Println()
	_, _ = bold.Println("Next steps:")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Println("  gantry fleet")
	fmt.Println("  gantry serve")
	return nil
}

const sampleSeeds = `assets:
  - id: boiler-01
    name: Main Boiler
    category: HVAC
    location: Building A
    condition: fair
    status: operational
    purchaseDate: 2014-06-01T00:00:00Z
  - id: chiller-02
    name: Rooftop Chiller
    category: HVAC
    location: Building A
    condition: good
    status: operational
    purchaseDate: 2021-03-15T00:00:00Z
  - id: press-07
    name: Hydraulic Press 7
    category: Production
    location: Plant Floor
    condition: poor
    status: operational
    purchaseDate: 2010-01-20T00:00:00Z

events:
  - id: ev-001
    assetId: press-07
    status: completed
    priority: high
    createdAt: 2026-05-10T09:00:00Z
    completedAt: 2026-05-12T16:00:00Z
  - id: ev-002
    assetId: press-07
    status: completed
    priority: medium
    createdAt: 2026-06-20T09:00:00Z
    completedAt: 2026-06-21T11:00:00Z
  - id: ev-003
    assetId: press-07
    status: completed
    priority: low
    createdAt: 2026-07-30T09:00:00Z
    completedAt: 2026-07-30T15:00:00Z

technicians:
  - id: tech-ana
    name: Ana Reyes
    active: true
    completionRate: 0.92
  - id: tech-bo
    name: Bo Lindqvist
    active: true
    completionRate: 0.85

workOrders:
  - id: wo-100
    assetId: press-07
    title: Replace hydraulic seals
    status: submitted
    priority: high
    createdAt: 2026-08-25T08:00:00Z
`
