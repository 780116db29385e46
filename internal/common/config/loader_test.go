package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
database:
  postgres:
    host: localhost
    database: recruiting
    user: trainer
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Training.Epochs)
	assert.Equal(t, 32, cfg.Training.BatchSize)
	assert.Equal(t, 0.001, cfg.Training.LearningRate)
	assert.Equal(t, 0.2, cfg.Training.ValidationSplit)
	assert.Equal(t, 0.3, cfg.Training.DropoutRate)
	assert.Equal(t, []int{256, 128, 64}, cfg.Training.HiddenUnits)
	assert.Equal(t, 0.3, cfg.Training.NegativeRatio)
	assert.Equal(t, 50, cfg.Training.MinExamples)
	assert.Equal(t, 200, cfg.Training.SamplePoolSize)
	assert.NotEmpty(t, cfg.Training.DegreeLevels)

	assert.Equal(t, "./artifacts", cfg.Artifacts.Dir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig+`
training:
  epochs: 20
  batch_size: 64
  negative_ratio: 0.5
  hidden_units: [32, 16]
`))
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Training.Epochs)
	assert.Equal(t, 64, cfg.Training.BatchSize)
	assert.Equal(t, 0.5, cfg.Training.NegativeRatio)
	assert.Equal(t, []int{32, 16}, cfg.Training.HiddenUnits)
	// Unset knobs still default.
	assert.Equal(t, 0.001, cfg.Training.LearningRate)
}

func TestLoadFromFile_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing postgres host", `
database:
  postgres:
    database: recruiting
    user: trainer
`},
		{"validation split out of range", minimalConfig + `
training:
  validation_split: 1.5
`},
		{"negative dropout", minimalConfig + `
training:
  dropout_rate: -0.1
`},
		{"non-positive hidden units", minimalConfig + `
training:
  hidden_units: [64, 0]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestApplyTrainingDefaults_PreservesSetValues(t *testing.T) {
	tc := TrainingConfig{Epochs: 7, HiddenUnits: []int{8}}
	ApplyTrainingDefaults(&tc)

	assert.Equal(t, 7, tc.Epochs)
	assert.Equal(t, []int{8}, tc.HiddenUnits)
	assert.Equal(t, 32, tc.BatchSize)
	assert.Equal(t, 50, tc.MinExamples)
}

func TestDefaultDegreeLevels_Ordering(t *testing.T) {
	levels := DefaultDegreeLevels()
	require.NotEmpty(t, levels)

	byMatch := map[string]int{}
	for _, dl := range levels {
		byMatch[dl.Match] = dl.Level
	}
	assert.Equal(t, 5, byMatch["phd"])
	assert.Equal(t, 5, byMatch["doctorate"])
	assert.Equal(t, 4, byMatch["master"])
	assert.Equal(t, 3, byMatch["bachelor"])
	assert.Equal(t, 2, byMatch["associate"])
	assert.Equal(t, 1, byMatch["high school"])
	assert.Equal(t, 1, byMatch["diploma"])
}

func TestGetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db.internal", Port: 5432, Database: "recruiting",
		User: "trainer", Password: "secret", SSLMode: "disable",
	}
	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=recruiting")
	assert.Contains(t, dsn, "sslmode=disable")
}
