// Package redis implements the provider Source backed by Redis/Valkey.
// Records are landed by the upstream CMMS sync; this backend only reads them,
// apart from the Put helpers used by seeding and tests.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/pkg/types"
)

// Compile-time interface satisfaction check.
var _ provider.Source = (*Source)(nil)

// Source implements the provider Source backed by Redis/Valkey.
type Source struct {
	client *goredis.Client
	prefix string
}

// New creates a new Redis source.
func New(cfg *types.RedisConfig) *Source {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "gantry:"
	}
	return &Source{client: client, prefix: prefix}
}

// NewFromClient creates a Source from an existing client (useful for testing).
func NewFromClient(client *goredis.Client, prefix string) *Source {
	if prefix == "" {
		prefix = "gantry:"
	}
	return &Source{client: client, prefix: prefix}
}

// Start initializes the connection.
func (s *Source) Start(ctx context.Context) error {
	return s.Ping(ctx)
}

// Stop closes the connection.
func (s *Source) Stop(_ context.Context) error {
	return s.client.Close()
}

// Ping checks connectivity to the Redis server.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Client returns the underlying Redis client (for advanced usage/testing).
func (s *Source) Client() *goredis.Client {
	return s.client
}
