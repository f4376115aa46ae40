// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Source kinds supported in the sources list.
const (
	SourceKindFile = "file"
	SourceKindURL  = "url"
	SourceKindJSON = "json"
)

// SourceConfig describes one message source.
type SourceConfig struct {
	Name    string `json:"name" validate:"required"`
	Kind    string `json:"kind" validate:"required,oneof=file url json"`
	Path    string `json:"path,omitempty"`
	URL     string `json:"url,omitempty" validate:"omitempty,url"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// IsEnabled reports whether the source should run; sources are enabled
// unless explicitly disabled.
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Provider
	Provider       string  `json:"provider,omitempty" validate:"omitempty,oneof=ollama gemini"`
	OllamaURL      string  `json:"ollama_url,omitempty" validate:"omitempty,url"`
	Model          string  `json:"model,omitempty"`
	APIKey         string  `json:"api_key,omitempty"`
	Temperature    float32 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty" validate:"omitempty,gt=0"`

	// Storage
	DBPath      string `json:"db_path,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`

	// Behavior
	Workers int  `json:"workers,omitempty" validate:"omitempty,gte=1,lte=64"`
	Verbose bool `json:"verbose,omitempty"`

	// Sources
	Sources []SourceConfig `json:"sources,omitempty" validate:"dive"`
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills provider and storage defaults from the environment.
func FromEnv() Config {
	return Config{
		OllamaURL:   os.Getenv("OLLAMA_URL"),
		Model:       os.Getenv("OLLAMA_MODEL"),
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DBPath:      os.Getenv("DB_PATH"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.DBPath != "" && c.DatabaseURL != "" {
		return fmt.Errorf("config error: 'db_path' and 'database_url' are mutually exclusive")
	}
	if c.Provider == "gemini" && c.APIKey == "" {
		return fmt.Errorf("config error: 'api_key' is required for the gemini provider")
	}

	for _, src := range c.Sources {
		switch src.Kind {
		case SourceKindFile, SourceKindJSON:
			if src.Path == "" {
				return fmt.Errorf("config error: source %q requires 'path'", src.Name)
			}
		case SourceKindURL:
			if src.URL == "" {
				return fmt.Errorf("config error: source %q requires 'url'", src.Name)
			}
		}
	}

	return nil
}

// Timeout returns the provider timeout, or zero when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.OllamaURL == "" {
		result.OllamaURL = defaults.OllamaURL
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DBPath == "" {
		result.DBPath = defaults.DBPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if len(result.Sources) == 0 {
		result.Sources = defaults.Sources
	}

	return result
}
