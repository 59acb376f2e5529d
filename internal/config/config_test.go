package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "gemini_api_key", "CADVISION_MODEL", "CADVISION_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Model.Name != "gemini-2.5-flash" {
		t.Errorf("expected Model.Name=gemini-2.5-flash, got %s", cfg.Model.Name)
	}
	if cfg.Extract.Prompt != "entities" {
		t.Errorf("expected Extract.Prompt=entities, got %s", cfg.Extract.Prompt)
	}
	if cfg.Extract.OutputPrefix != "extracted_" {
		t.Errorf("expected OutputPrefix=extracted_, got %s", cfg.Extract.OutputPrefix)
	}
	if cfg.CAD.DefaultDistance != 2 || cfg.CAD.DefaultDimStyle != "EZ_CURVED" {
		t.Errorf("unexpected CAD defaults: %+v", cfg.CAD)
	}
	if got := cfg.Model.GetTimeout(); got != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", got)
	}
	if got := cfg.GetWatchDebounce(); got != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", got)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cfg", "cadvision.yaml")
	cfg := DefaultConfig()
	cfg.Model.Name = "gemini-2.5-pro"
	cfg.Model.APIKey = "file-key"
	cfg.CAD.PreviewWidth = 100

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model.Name != "gemini-2.5-pro" {
		t.Errorf("expected Model.Name=gemini-2.5-pro, got %s", loaded.Model.Name)
	}
	if loaded.Model.APIKey != "file-key" {
		t.Errorf("expected APIKey=file-key, got %s", loaded.Model.APIKey)
	}
	if loaded.CAD.PreviewWidth != 100 {
		t.Errorf("expected PreviewWidth=100, got %d", loaded.CAD.PreviewWidth)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cadvision.yaml")
	content := "model:\n  temperature: 0.4\nwatch:\n  debounce: 2s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.Temperature != 0.4 {
		t.Errorf("expected temperature 0.4, got %v", cfg.Model.Temperature)
	}
	if cfg.Model.Name != DefaultModel {
		t.Errorf("expected default model, got %s", cfg.Model.Name)
	}
	if cfg.GetWatchDebounce() != 2*time.Second {
		t.Errorf("expected 2s debounce, got %v", cfg.GetWatchDebounce())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model.APIKey != "env-key" {
		t.Errorf("expected env key applied without a file, got %q", cfg.Model.APIKey)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	prompts := []string{"entities", "dimensions"}
	tests := []struct {
		name    string
		mutate  func(*Config)
		opts    ValidateOptions
		wantErr bool
	}{
		{"defaults without key", func(c *Config) {}, ValidateOptions{}, false},
		{"key required", func(c *Config) {}, ValidateOptions{RequireAPIKey: true}, true},
		{"key present", func(c *Config) { c.Model.APIKey = "k" }, ValidateOptions{RequireAPIKey: true, Prompts: prompts}, false},
		{"unknown prompt", func(c *Config) { c.Extract.Prompt = "holes" }, ValidateOptions{Prompts: prompts}, true},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, ValidateOptions{}, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, ValidateOptions{}, true},
		{"upper-case level", func(c *Config) { c.Logging.Level = "WARN" }, ValidateOptions{}, false},
		{"zero preview", func(c *Config) { c.CAD.PreviewHeight = 0 }, ValidateOptions{}, true},
		{"negative distance", func(c *Config) { c.CAD.DefaultDistance = -1 }, ValidateOptions{}, true},
		{"bad timeout", func(c *Config) { c.Model.Timeout = "soon" }, ValidateOptions{}, true},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "x" }, ValidateOptions{}, true},
		{"bad temperature", func(c *Config) { c.Model.Temperature = 3 }, ValidateOptions{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingKeyIsTyped(t *testing.T) {
	err := DefaultConfig().Validate(ValidateOptions{RequireAPIKey: true})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
