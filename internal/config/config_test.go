package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ".flakelint", cfg.CacheDir)
	assert.Empty(t, cfg.Framework)
	assert.Empty(t, cfg.Rules)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
framework: jest
cache_dir: /tmp/flakelint-cache
rules:
  no-hard-wait:
    severity: warning
  no-random-data:
    severity: "off"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "jest", cfg.Framework)
	assert.Equal(t, "/tmp/flakelint-cache", cfg.CacheDir)
	assert.Equal(t, SeverityWarning, cfg.Rules["no-hard-wait"].Severity)
	assert.Equal(t, SeverityOff, cfg.Rules["no-random-data"].Severity)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownSeverity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules["no-hard-wait"] = RuleSetting{Severity: "loud"}
	assert.Error(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FLAKELINT_FRAMEWORK", "cypress")
	t.Setenv("FLAKELINT_CACHE_DIR", "/custom/cache")
	t.Setenv("FLAKELINT_VERBOSE", "1")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("framework: jest\n"), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	// Environment outranks the file.
	assert.Equal(t, "cypress", cfg.Framework)
	assert.Equal(t, "/custom/cache", cfg.CacheDir)
	assert.True(t, cfg.Verbose)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Framework = "vitest"
	cfg.Rules["no-focused-test"] = RuleSetting{Severity: SeverityOff}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "vitest", loaded.Framework)
	assert.Equal(t, SeverityOff, loaded.Rules["no-focused-test"].Severity)
}

func TestEnabledRules(t *testing.T) {
	all := []string{"no-focused-test", "no-hard-wait", "no-shared-state"}

	t.Run("NothingOff", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Rules["no-hard-wait"] = RuleSetting{Severity: SeverityWarning}
		assert.Nil(t, cfg.EnabledRules(all), "no rule off means run everything")
	})

	t.Run("SomeOff", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Rules["no-focused-test"] = RuleSetting{Severity: SeverityOff}
		enabled := cfg.EnabledRules(all)
		require.NotNil(t, enabled)
		assert.False(t, enabled["no-focused-test"])
		assert.True(t, enabled["no-hard-wait"])
		assert.True(t, enabled["no-shared-state"])
	})
}
