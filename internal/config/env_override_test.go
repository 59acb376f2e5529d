package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("uppercase key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "upper")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "upper", cfg.Model.APIKey)
	})

	t.Run("legacy lowercase key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("gemini_api_key", "lower")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "lower", cfg.Model.APIKey)
	})

	t.Run("uppercase wins over lowercase", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("gemini_api_key", "lower")
		t.Setenv("GEMINI_API_KEY", "upper")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "upper", cfg.Model.APIKey)
	})

	t.Run("env beats file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CADVISION_MODEL", "gemini-2.0-flash")
		t.Setenv("CADVISION_LOG_LEVEL", "debug")

		cfg := &Config{Model: ModelConfig{Name: "from-file"}}
		cfg.applyEnvOverrides()
		assert.Equal(t, "gemini-2.0-flash", cfg.Model.Name)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("empty env leaves config alone", func(t *testing.T) {
		clearEnv(t)
		cfg := &Config{Model: ModelConfig{APIKey: "file-key", Name: "m"}}
		cfg.applyEnvOverrides()
		assert.Equal(t, "file-key", cfg.Model.APIKey)
		assert.Equal(t, "m", cfg.Model.Name)
	})
}

func TestLoad_LogLevelFromEnvIgnoresCase(t *testing.T) {
	clearEnv(t)
	t.Setenv("CADVISION_LOG_LEVEL", "DEBUG")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate(ValidateOptions{}))
}

func TestLoadEnvFile(t *testing.T) {
	const key = "CADVISION_TEST_DOTENV"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0644))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
	assert.NoError(t, LoadEnvFile(""))
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "shell")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_API_KEY=dotenv\n"), 0644))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "shell", os.Getenv("GEMINI_API_KEY"))
}
