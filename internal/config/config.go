// Package config loads cadvision settings from YAML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey means no Gemini credential was found.
var ErrMissingAPIKey = errors.New("Gemini API key not configured (set GEMINI_API_KEY or gemini_api_key)")

// Config holds all cadvision configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Extract ExtractConfig `yaml:"extract"`
	CAD     CADConfig     `yaml:"cad"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExtractConfig configures extraction runs.
type ExtractConfig struct {
	Prompt string `yaml:"prompt"`
	// PromptFile is an optional YAML file of extra or replacement prompts.
	PromptFile   string `yaml:"prompt_file"`
	OutputDir    string `yaml:"output_dir"`
	OutputPrefix string `yaml:"output_prefix"`
}

// CADConfig configures materialization and previews.
type CADConfig struct {
	DefaultDistance float64 `yaml:"default_distance"`
	DefaultDimStyle string  `yaml:"default_dimstyle"`
	PreviewWidth    int     `yaml:"preview_width"`
	PreviewHeight   int     `yaml:"preview_height"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Name:        DefaultModel,
			Temperature: 0.1,
			Timeout:     "120s",
		},
		Extract: ExtractConfig{
			Prompt:       "entities",
			OutputDir:    ".",
			OutputPrefix: "extracted_",
		},
		CAD: CADConfig{
			DefaultDistance: 2,
			DefaultDimStyle: "EZ_CURVED",
			PreviewWidth:    72,
			PreviewHeight:   24,
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.Logging.normalize()
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment. Variables already set are kept. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// Lowercase name accepted for existing .env files; GEMINI_API_KEY wins.
	if key := os.Getenv("gemini_api_key"); key != "" {
		c.Model.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Model.APIKey = key
	}
	if model := os.Getenv("CADVISION_MODEL"); model != "" {
		c.Model.Name = model
	}
	if level := os.Getenv("CADVISION_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// ValidateOptions selects the checks Validate performs.
type ValidateOptions struct {
	// RequireAPIKey fails with ErrMissingAPIKey when no key is set.
	RequireAPIKey bool
	// Prompts, when non-empty, lists the accepted prompt names.
	Prompts []string
}

// Validate validates the configuration.
func (c *Config) Validate(opts ValidateOptions) error {
	if opts.RequireAPIKey && c.Model.APIKey == "" {
		return ErrMissingAPIKey
	}
	if err := c.Model.validate(); err != nil {
		return err
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}

	if len(opts.Prompts) > 0 {
		known := false
		for _, p := range opts.Prompts {
			if c.Extract.Prompt == p {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("invalid prompt: %s (valid: %v)", c.Extract.Prompt, opts.Prompts)
		}
	}

	if c.CAD.PreviewWidth <= 0 || c.CAD.PreviewHeight <= 0 {
		return fmt.Errorf("invalid preview size %dx%d: both must be positive", c.CAD.PreviewWidth, c.CAD.PreviewHeight)
	}
	if c.CAD.DefaultDistance < 0 {
		return fmt.Errorf("invalid default_distance %g: must not be negative", c.CAD.DefaultDistance)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("invalid watch debounce %q: %w", c.Watch.Debounce, err)
	}
	return nil
}
