package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "job_embeddings.json", cfg.CorpusPath)
	assert.Equal(t, "text-embedding-004", cfg.EmbeddingModel)
	assert.Equal(t, 20, cfg.TopNMatches)
	assert.Equal(t, 10, cfg.TopNLocation)
	assert.Equal(t, 3, cfg.GeocodeRetries)
	assert.Equal(t, time.Second, cfg.GeocodeBackoff())
	assert.Equal(t, 10*time.Second, cfg.GeocodeTimeout())
	assert.InDelta(t, 1.0, cfg.PositionWeight+cfg.SkillsWeight+cfg.QualificationWeight+cfg.ExperienceWeight, 1e-9)

	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": 9000,
		"top_n_matches": 5,
		"geocode_backoff_seconds": 0.5
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 5, cfg.TopNMatches)
	assert.Equal(t, 500*time.Millisecond, cfg.GeocodeBackoff())
	// Values absent from the file keep their defaults.
	assert.Equal(t, "job_embeddings.json", cfg.CorpusPath)
	assert.Equal(t, 10, cfg.TopNLocation)
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port": 9000}`), 0o644))

	t.Setenv("PORT", "7777")
	t.Setenv("CORPUS_PATH", "/data/corpus.json")
	t.Setenv("GEOCODE_RETRIES", "5")
	t.Setenv("POSITION_WEIGHT", "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Port)
	assert.Equal(t, "/data/corpus.json", cfg.CorpusPath)
	assert.Equal(t, 5, cfg.GeocodeRetries)
	assert.InDelta(t, 0.5, cfg.PositionWeight, 1e-9)
}

func TestLoad_MalformedEnvIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero top_n_matches", func(c *Config) { c.TopNMatches = 0 }},
		{"zero top_n_location", func(c *Config) { c.TopNLocation = 0 }},
		{"zero geocode_retries", func(c *Config) { c.GeocodeRetries = 0 }},
		{"negative backoff", func(c *Config) { c.GeocodeBackoffSeconds = -1 }},
		{"zero timeout", func(c *Config) { c.GeocodeTimeoutSeconds = 0 }},
		{"zero concurrency", func(c *Config) { c.GeocodeConcurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
