// Package commands implements the CLI subcommands for the gantry binary.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gantryhq/gantry/internal/alert"
	"github.com/gantryhq/gantry/internal/analyzer"
	"github.com/gantryhq/gantry/internal/archiver"
	"github.com/gantryhq/gantry/internal/assignment"
	"github.com/gantryhq/gantry/internal/audit"
	"github.com/gantryhq/gantry/internal/config"
	"github.com/gantryhq/gantry/internal/health"
	"github.com/gantryhq/gantry/internal/orchestrator"
	"github.com/gantryhq/gantry/internal/provider"
	ddbprov "github.com/gantryhq/gantry/internal/provider/dynamodb"
	"github.com/gantryhq/gantry/internal/provider/memory"
	"github.com/gantryhq/gantry/internal/provider/postgres"
	redisprov "github.com/gantryhq/gantry/internal/provider/redis"
	"github.com/gantryhq/gantry/internal/risk"
	"github.com/gantryhq/gantry/pkg/types"
)

// seedFileName holds sample records for the in-memory provider.
const seedFileName = "seeds.yaml"

// seedData is the YAML layout of seeds.yaml.
type seedData struct {
	Assets      []types.AssetSnapshot     `yaml:"assets"`
	Events      []types.MaintenanceEvent  `yaml:"events"`
	Technicians []types.TechnicianSnapshot `yaml:"technicians"`
	WorkOrders  []types.WorkOrder         `yaml:"workOrders"`
}

// loadConfig reads gantry.yaml from the working directory, falling back to
// the in-memory defaults when no file exists.
func loadConfig() (*types.ProjectConfig, error) {
	cfg, err := config.Load(".")
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// buildSource creates and starts the configured provider backend.
func buildSource(ctx context.Context, cfg *types.ProjectConfig) (provider.Source, func(), error) {
	var src provider.Source
	switch cfg.Provider {
	case "redis":
		src = redisprov.New(cfg.Redis)
	case "dynamodb":
		d, err := ddbprov.New(cfg.DynamoDB)
		if err != nil {
			return nil, nil, err
		}
		src = d
	default:
		mem := memory.New()
		if err := loadSeeds(mem); err != nil {
			return nil, nil, err
		}
		src = mem
	}

	if err := src.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("starting %s provider: %w", cfg.Provider, err)
	}
	cleanup := func() { _ = src.Stop(context.Background()) }
	return src, cleanup, nil
}

// loadSeeds loads seeds.yaml into the in-memory provider, if present.
func loadSeeds(mem *memory.Source) error {
	data, err := os.ReadFile(seedFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", seedFileName, err)
	}

	var seeds seedData
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parsing %s: %w", seedFileName, err)
	}
	for _, a := range seeds.Assets {
		mem.PutAsset(a)
	}
	for _, e := range seeds.Events {
		mem.AddEvent(e)
	}
	for _, t := range seeds.Technicians {
		mem.PutTechnician(t)
	}
	for _, o := range seeds.WorkOrders {
		mem.PutWorkOrder(o)
	}
	return nil
}

// core bundles the wired engines for one command invocation.
type core struct {
	source       provider.Source
	analyzer     *analyzer.Analyzer
	engine       *assignment.Engine
	orchestrator *orchestrator.Orchestrator
	archiver     *archiver.Archiver
	cleanup      func()
}

// buildCore wires the full stack from configuration: provider, breaker,
// strategy, alert sinks, audit observers, and the optional archiver.
func buildCore(ctx context.Context, cfg *types.ProjectConfig) (*core, error) {
	src, stopSource, err := buildSource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	strategy, err := risk.NewStrategy(cfg.Risk.Strategy, cfg.Risk.Weights)
	if err != nil {
		stopSource()
		return nil, err
	}

	dispatcher, err := alert.NewDispatcher(ctx, cfg.Alerts, nil)
	if err != nil {
		stopSource()
		return nil, fmt.Errorf("creating alert dispatcher: %w", err)
	}

	var observers audit.Observers
	if cfg.Audit != nil && cfg.Audit.Log {
		observers = append(observers, audit.NewLogObserver(nil))
	}
	if cfg.Audit != nil && cfg.Audit.QueueURL != "" {
		sqsObs, err := audit.NewSQSObserver(ctx, cfg.Audit.QueueURL)
		if err != nil {
			stopSource()
			return nil, fmt.Errorf("creating SQS observer: %w", err)
		}
		observers = append(observers, sqsObs)
	}

	var arch *archiver.Archiver
	stopArchiver := func() {}
	if cfg.Archiver != nil && cfg.Archiver.Enabled {
		store, err := postgres.New(ctx, cfg.Archiver.DSN)
		if err != nil {
			stopSource()
			return nil, fmt.Errorf("connecting archiver store: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			stopSource()
			return nil, fmt.Errorf("migrating archiver store: %w", err)
		}
		interval, _ := time.ParseDuration(cfg.Archiver.Interval)
		arch = archiver.New(store, interval, nil)
		arch.Start(ctx)
		observers = append(observers, arch)
		stopArchiver = func() {
			arch.Stop(context.Background())
			store.Close()
		}
	}

	var assets provider.AssetSource = src
	if cfg.Breaker != nil && cfg.Breaker.Enabled {
		assets = provider.NewBreakerSource(src, cfg.Breaker)
	}

	an := analyzer.New(assets, strategy, health.NewScorer(), dispatcher.AlertFunc(),
		analyzer.WithObservers(observers),
		analyzer.WithParallelism(cfg.Risk.FleetParallelism),
	)
	eng := assignment.New(src, src, assignment.WithObservers(observers))
	orch := orchestrator.New(an, eng, assets, orchestrator.WithObservers(observers))

	return &core{
		source:       src,
		analyzer:     an,
		engine:       eng,
		orchestrator: orch,
		archiver:     arch,
		cleanup: func() {
			stopArchiver()
			stopSource()
		},
	}, nil
}
