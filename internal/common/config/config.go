// internal/common/config/config.go
package config

import "fmt"

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Training  TrainingConfig  `mapstructure:"training"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TrainingConfig holds every knob of one training run. The ratio and
// degree-level table are heuristics inherited from production; they are
// configuration, not contract.
type TrainingConfig struct {
	Epochs          int           `mapstructure:"epochs"`
	BatchSize       int           `mapstructure:"batch_size"`
	LearningRate    float64       `mapstructure:"learning_rate"`
	ValidationSplit float64       `mapstructure:"validation_split"`
	DropoutRate     float64       `mapstructure:"dropout_rate"`
	HiddenUnits     []int         `mapstructure:"hidden_units"`
	NegativeRatio   float64       `mapstructure:"negative_ratio"`
	MinExamples     int           `mapstructure:"min_examples"`
	SamplePoolSize  int           `mapstructure:"sample_pool_size"`
	Seed            int64         `mapstructure:"seed"`
	DegreeLevels    []DegreeLevel `mapstructure:"degree_levels"`
}

// DegreeLevel maps a lower-cased substring of a degree name to a rank.
type DegreeLevel struct {
	Match string `mapstructure:"match"`
	Level int    `mapstructure:"level"`
}

type ArtifactsConfig struct {
	Dir string `mapstructure:"dir"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// DefaultDegreeLevels is the ranked degree table applied when the config
// file does not override it.
func DefaultDegreeLevels() []DegreeLevel {
	return []DegreeLevel{
		{Match: "phd", Level: 5},
		{Match: "doctorate", Level: 5},
		{Match: "master", Level: 4},
		{Match: "bachelor", Level: 3},
		{Match: "associate", Level: 2},
		{Match: "high school", Level: 1},
		{Match: "diploma", Level: 1},
	}
}
