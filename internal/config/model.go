package config

import (
	"fmt"
	"time"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ModelConfig configures the vision model client.
type ModelConfig struct {
	Name        string  `yaml:"name"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
}

// GetTimeout returns the per-call timeout as a duration.
func (m ModelConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(m.Timeout)
	if err != nil || d <= 0 {
		return 120 * time.Second
	}
	return d
}

func (m ModelConfig) validate() error {
	if m.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if m.Temperature < 0 || m.Temperature > 2 {
		return fmt.Errorf("invalid temperature %g: must be between 0 and 2", m.Temperature)
	}
	if _, err := time.ParseDuration(m.Timeout); err != nil {
		return fmt.Errorf("invalid model timeout %q: %w", m.Timeout, err)
	}
	return nil
}
