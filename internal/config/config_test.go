package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoad_Minimal(t *testing.T) {
	dir := writeConfig(t, "provider: memory\n")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Provider)
	assert.Equal(t, "rule-based", cfg.Risk.Strategy)
	assert.Equal(t, 0.6, cfg.Risk.HighRiskThreshold)
	assert.Equal(t, 30, cfg.Risk.ScheduleDaysAhead)
	assert.Equal(t, 8, cfg.Risk.FleetParallelism)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_Full(t *testing.T) {
	dir := writeConfig(t, `
provider: redis
redis:
  addr: localhost:6379
  keyPrefix: "acme:"
server:
  addr: ":9000"
risk:
  highRiskThreshold: 0.7
  weights:
    timeBased: 0.4
    frequency: 0.3
    condition: 0.2
    age: 0.1
alerts:
  - type: console
  - type: webhook
    url: https://hooks.example.com/gantry
archiver:
  enabled: true
  interval: 10m
  dsn: postgres://gantry@localhost/gantry
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Provider)
	assert.Equal(t, "acme:", cfg.Redis.KeyPrefix)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 0.7, cfg.Risk.HighRiskThreshold)
	require.NotNil(t, cfg.Risk.Weights)
	assert.Equal(t, 0.4, cfg.Risk.Weights.TimeBased)
	require.Len(t, cfg.Alerts, 2)
	require.NotNil(t, cfg.Archiver)
	assert.True(t, cfg.Archiver.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_UnknownProvider(t *testing.T) {
	dir := writeConfig(t, "provider: etcd\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestLoad_RedisRequiresAddr(t *testing.T) {
	dir := writeConfig(t, "provider: redis\nredis:\n  db: 1\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestLoad_DynamoDBRequiresTable(t *testing.T) {
	dir := writeConfig(t, "provider: dynamodb\ndynamodb:\n  region: us-east-1\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tableName")
}

func TestLoad_WeightsMustSumToOne(t *testing.T) {
	dir := writeConfig(t, `
provider: memory
risk:
  weights:
    timeBased: 0.5
    frequency: 0.3
    condition: 0.3
    age: 0.1
`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to 1.0")
}

func TestLoad_ThresholdRange(t *testing.T) {
	dir := writeConfig(t, "provider: memory\nrisk:\n  highRiskThreshold: 1.5\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "highRiskThreshold")
}

func TestLoad_WebhookRequiresURL(t *testing.T) {
	dir := writeConfig(t, "provider: memory\nalerts:\n  - type: webhook\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook url")
}

func TestLoad_ArchiverRequiresDSN(t *testing.T) {
	dir := writeConfig(t, "provider: memory\narchiver:\n  enabled: true\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archiver.dsn")
}

func TestLoad_BadArchiverInterval(t *testing.T) {
	dir := writeConfig(t, "provider: memory\narchiver:\n  enabled: true\n  dsn: postgres://x\n  interval: soon\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archiver.interval")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "memory", cfg.Provider)
	assert.Equal(t, 0.6, cfg.Risk.HighRiskThreshold)
}
