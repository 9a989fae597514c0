package types

// RiskWeights are the factor weights for the rule-based prediction strategy.
// The defaults are empirically chosen in the original system; they are
// tunable, not derived. Weights must sum to 1.0.
type RiskWeights struct {
	TimeBased float64 `yaml:"timeBased" json:"timeBased"`
	Frequency float64 `yaml:"frequency" json:"frequency"`
	Condition float64 `yaml:"condition" json:"condition"`
	Age       float64 `yaml:"age" json:"age"`
}

// RiskConfig tunes the prediction and analysis thresholds.
type RiskConfig struct {
	Strategy          string       `yaml:"strategy,omitempty" json:"strategy,omitempty"` // default "rule-based"
	Weights           *RiskWeights `yaml:"weights,omitempty" json:"weights,omitempty"`
	HighRiskThreshold float64      `yaml:"highRiskThreshold,omitempty" json:"highRiskThreshold,omitempty"` // default 0.6
	ScheduleDaysAhead int          `yaml:"scheduleDaysAhead,omitempty" json:"scheduleDaysAhead,omitempty"` // default 30
	FleetParallelism  int          `yaml:"fleetParallelism,omitempty" json:"fleetParallelism,omitempty"`   // default 8
}

// RedisConfig holds Redis/Valkey connection settings.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix,omitempty"`
}

// DynamoDBConfig holds DynamoDB connection and table settings.
type DynamoDBConfig struct {
	TableName   string `yaml:"tableName" json:"tableName"`
	Region      string `yaml:"region" json:"region"`
	Endpoint    string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	CreateTable bool   `yaml:"createTable,omitempty" json:"createTable,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AlertConfig defines an alert sink configuration.
type AlertConfig struct {
	Type     AlertType `yaml:"type" json:"type"`
	URL      string    `yaml:"url,omitempty" json:"url,omitempty"`
	Path     string    `yaml:"path,omitempty" json:"path,omitempty"`
	TopicARN string    `yaml:"topicArn,omitempty" json:"topicArn,omitempty"`
}

// AuditConfig configures audit event observers.
type AuditConfig struct {
	Log      bool   `yaml:"log,omitempty" json:"log,omitempty"`
	QueueURL string `yaml:"queueUrl,omitempty" json:"queueUrl,omitempty"` // SQS fan-out when set
}

// ArchiverConfig configures the background Postgres audit archiver.
type ArchiverConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Interval string `yaml:"interval,omitempty" json:"interval,omitempty"` // e.g. "5m"
	DSN      string `yaml:"dsn" json:"dsn"`
}

// BreakerConfig configures the circuit breaker in front of the asset source.
type BreakerConfig struct {
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	MaxFailures int    `yaml:"maxFailures,omitempty" json:"maxFailures,omitempty"` // default 5
	Cooldown    string `yaml:"cooldown,omitempty" json:"cooldown,omitempty"`       // default "30s"
}

// ProjectConfig represents the top-level gantry.yaml configuration.
type ProjectConfig struct {
	Provider string          `yaml:"provider"` // memory | redis | dynamodb
	Redis    *RedisConfig    `yaml:"redis,omitempty"`
	DynamoDB *DynamoDBConfig `yaml:"dynamodb,omitempty"`
	Server   *ServerConfig   `yaml:"server,omitempty"`
	Risk     *RiskConfig     `yaml:"risk,omitempty"`
	Breaker  *BreakerConfig  `yaml:"breaker,omitempty"`
	Alerts   []AlertConfig   `yaml:"alerts,omitempty"`
	Audit    *AuditConfig    `yaml:"audit,omitempty"`
	Archiver *ArchiverConfig `yaml:"archiver,omitempty"`
}
