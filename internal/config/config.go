// Package config handles loading and validation of gantry.yaml project
// configuration.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gantryhq/gantry/pkg/types"
)

// FileName is the project configuration file looked up in the working
// directory.
const FileName = "gantry.yaml"

const weightSumTolerance = 1e-9

// Load reads and parses gantry.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no gantry.yaml exists: the
// in-memory provider with default risk settings.
func Default() *types.ProjectConfig {
	cfg := &types.ProjectConfig{Provider: "memory"}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *types.ProjectConfig) {
	if cfg.Provider == "" {
		cfg.Provider = "memory"
	}
	if cfg.Risk == nil {
		cfg.Risk = &types.RiskConfig{}
	}
	if cfg.Risk.Strategy == "" {
		cfg.Risk.Strategy = "rule-based"
	}
	if cfg.Risk.HighRiskThreshold == 0 {
		cfg.Risk.HighRiskThreshold = 0.6
	}
	if cfg.Risk.ScheduleDaysAhead == 0 {
		cfg.Risk.ScheduleDaysAhead = 30
	}
	if cfg.Risk.FleetParallelism == 0 {
		cfg.Risk.FleetParallelism = 8
	}
	if cfg.Server == nil {
		cfg.Server = &types.ServerConfig{Addr: ":8080"}
	}
}

func validate(cfg *types.ProjectConfig) error {
	switch cfg.Provider {
	case "memory", "redis", "dynamodb":
	default:
		return fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.Provider == "redis" {
		if cfg.Redis == nil {
			return fmt.Errorf("redis config is required when provider is redis")
		}
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required")
		}
	}
	if cfg.Provider == "dynamodb" {
		if cfg.DynamoDB == nil {
			return fmt.Errorf("dynamodb config is required when provider is dynamodb")
		}
		if cfg.DynamoDB.TableName == "" {
			return fmt.Errorf("dynamodb.tableName is required")
		}
	}

	if w := cfg.Risk.Weights; w != nil {
		sum := w.TimeBased + w.Frequency + w.Condition + w.Age
		if math.Abs(sum-1.0) > weightSumTolerance {
			return fmt.Errorf("risk.weights must sum to 1.0, got %g", sum)
		}
		for name, v := range map[string]float64{
			"timeBased": w.TimeBased, "frequency": w.Frequency,
			"condition": w.Condition, "age": w.Age,
		} {
			if v < 0 {
				return fmt.Errorf("risk.weights.%s must not be negative", name)
			}
		}
	}
	if t := cfg.Risk.HighRiskThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("risk.highRiskThreshold must be in (0,1], got %g", t)
	}

	if cfg.Archiver != nil && cfg.Archiver.Enabled {
		if cfg.Archiver.DSN == "" {
			return fmt.Errorf("archiver.dsn is required when the archiver is enabled")
		}
		if cfg.Archiver.Interval != "" {
			if _, err := time.ParseDuration(cfg.Archiver.Interval); err != nil {
				return fmt.Errorf("archiver.interval: %w", err)
			}
		}
	}
	if cfg.Breaker != nil && cfg.Breaker.Enabled && cfg.Breaker.Cooldown != "" {
		if _, err := time.ParseDuration(cfg.Breaker.Cooldown); err != nil {
			return fmt.Errorf("breaker.cooldown: %w", err)
		}
	}

	for i, alert := range cfg.Alerts {
		switch alert.Type {
		case types.AlertConsole:
		case types.AlertWebhook:
			if alert.URL == "" {
				return fmt.Errorf("alerts[%d]: webhook url is required", i)
			}
		case types.AlertFile:
			if alert.Path == "" {
				return fmt.Errorf("alerts[%d]: file path is required", i)
			}
		case types.AlertSNS:
			if alert.TopicARN == "" {
				return fmt.Errorf("alerts[%d]: sns topicArn is required", i)
			}
		default:
			return fmt.Errorf("alerts[%d]: unknown type %q", i, alert.Type)
		}
	}
	return nil
}
