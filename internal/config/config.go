// Package config loads the assistant configuration: an optional config.yaml,
// a .env file, and environment variable overrides, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	APIKey         string        `yaml:"api_key"`
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	Temperature    float64       `yaml:"temperature"`
	DataPath       string        `yaml:"data_path"`
	HistoryPath    string        `yaml:"history_path"`
	SandboxTimeout time.Duration `yaml:"sandbox_timeout"`
}

// Default returns the baseline configuration before file and env overrides.
func Default() Config {
	return Config{
		BaseURL:        "https://api.groq.com/openai/v1",
		Model:          "llama3-70b-8192",
		Temperature:    0.7,
		DataPath:       "sales_data.json",
		HistoryPath:    "fabriq_history.db",
		SandboxTimeout: 10 * time.Second,
	}
}

// Load assembles the configuration. The credential is checked separately
// with Validate, since only the paths talking to the completion API need it.
func Load(path string) (Config, error) {
	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Validate checks that the completion credential is present. A missing
// GROQ_API_KEY aborts startup of anything that queries the model.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is not set")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GROQ_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("FABRIQ_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("FABRIQ_DATA"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("FABRIQ_HISTORY"); v != "" {
		cfg.HistoryPath = v
	}
}
