package config

import (
	"fmt"
	"strings"
)

// Accepted logging levels and formats.
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"console", "json"}
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// normalize lower-cases the level and format.
func (l *LoggingConfig) normalize() {
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	l.Format = strings.ToLower(strings.TrimSpace(l.Format))
}

func (l LoggingConfig) validate() error {
	if !contains(ValidLogLevels, l.Level) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", l.Level, ValidLogLevels)
	}
	if !contains(ValidLogFormats, l.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", l.Format, ValidLogFormats)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
