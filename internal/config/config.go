// Package config provides configuration loading and validation for the
// job-matcher service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every externally overridable constant. Values resolve in
// order: defaults, then an optional JSON config file, then environment
// variables.
type Config struct {
	// Serving
	Port        int    `json:"port,omitempty"`
	CorpusPath  string `json:"corpus_path,omitempty"`  // path to job embeddings JSON
	DatabaseURL string `json:"database_url,omitempty"` // optional Postgres corpus source

	// Embedding provider
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// Matching
	TopNMatches         int     `json:"top_n_matches,omitempty"`
	PositionWeight      float64 `json:"position_weight,omitempty"`
	SkillsWeight        float64 `json:"skills_weight,omitempty"`
	QualificationWeight float64 `json:"qualification_weight,omitempty"`
	ExperienceWeight    float64 `json:"experience_weight,omitempty"`

	// Location re-ranking
	TopNLocation          int     `json:"top_n_location,omitempty"`
	GeocodeEndpoint       string  `json:"geocode_endpoint,omitempty"`
	GeocodeRetries        int     `json:"geocode_retries,omitempty"`
	GeocodeBackoffSeconds float64 `json:"geocode_backoff_seconds,omitempty"`
	GeocodeTimeoutSeconds float64 `json:"geocode_timeout_seconds,omitempty"`
	GeocodeConcurrency    int     `json:"geocode_concurrency,omitempty"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		Port:                  8080,
		CorpusPath:            "job_embeddings.json",
		EmbeddingModel:        "text-embedding-004",
		TopNMatches:           20,
		PositionWeight:        0.45,
		SkillsWeight:          0.25,
		QualificationWeight:   0.20,
		ExperienceWeight:      0.10,
		TopNLocation:          10,
		GeocodeRetries:        3,
		GeocodeBackoffSeconds: 1,
		GeocodeTimeoutSeconds: 10,
		GeocodeConcurrency:    5,
	}
}

// Load reads the optional config file over the defaults, then applies
// environment overrides. An empty path skips the file step.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from the environment. Unset or malformed values
// keep the current setting.
func (c *Config) applyEnv() {
	envString("CORPUS_PATH", &c.CorpusPath)
	envString("DATABASE_URL", &c.DatabaseURL)
	envString("EMBEDDING_MODEL", &c.EmbeddingModel)
	envString("GEOCODE_ENDPOINT", &c.GeocodeEndpoint)
	envInt("PORT", &c.Port)
	envInt("TOP_N_MATCHES", &c.TopNMatches)
	envInt("TOP_N_LOCATION", &c.TopNLocation)
	envInt("GEOCODE_RETRIES", &c.GeocodeRetries)
	envInt("GEOCODE_CONCURRENCY", &c.GeocodeConcurrency)
	envFloat("GEOCODE_BACKOFF_SECONDS", &c.GeocodeBackoffSeconds)
	envFloat("GEOCODE_TIMEOUT_SECONDS", &c.GeocodeTimeoutSeconds)
	envFloat("POSITION_WEIGHT", &c.PositionWeight)
	envFloat("SKILLS_WEIGHT", &c.SkillsWeight)
	envFloat("QUALIFICATION_WEIGHT", &c.QualificationWeight)
	envFloat("EXPERIENCE_WEIGHT", &c.ExperienceWeight)
}

// Validate checks numeric ranges. Weight convexity is enforced again by the
// matching engine; checking here surfaces bad config before startup work.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in 1..65535")
	}
	if c.TopNMatches <= 0 {
		return fmt.Errorf("config error: 'top_n_matches' must be positive")
	}
	if c.TopNLocation <= 0 {
		return fmt.Errorf("config error: 'top_n_location' must be positive")
	}
	if c.GeocodeRetries <= 0 {
		return fmt.Errorf("config error: 'geocode_retries' must be positive")
	}
	if c.GeocodeBackoffSeconds < 0 {
		return fmt.Errorf("config error: 'geocode_backoff_seconds' must be non-negative")
	}
	if c.GeocodeTimeoutSeconds <= 0 {
		return fmt.Errorf("config error: 'geocode_timeout_seconds' must be positive")
	}
	if c.GeocodeConcurrency <= 0 {
		return fmt.Errorf("config error: 'geocode_concurrency' must be positive")
	}
	return nil
}

// GeocodeBackoff returns the backoff as a duration.
func (c *Config) GeocodeBackoff() time.Duration {
	return time.Duration(c.GeocodeBackoffSeconds * float64(time.Second))
}

// GeocodeTimeout returns the per-attempt timeout as a duration.
func (c *Config) GeocodeTimeout() time.Duration {
	return time.Duration(c.GeocodeTimeoutSeconds * float64(time.Second))
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
