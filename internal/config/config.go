// Package config loads flakelint configuration. Values come, lowest to
// highest priority, from defaults, the global config file, the project
// config file, and FLAKELINT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Severity of a rule's findings in the final report.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityOff     Severity = "off"
)

// RuleSetting configures one detector.
type RuleSetting struct {
	Severity Severity `yaml:"severity"`
}

// Config holds all flakelint settings.
type Config struct {
	// Rules maps detector names to their settings. Detectors missing
	// from the map run at their default severity; severity "off"
	// unregisters the detector for the run.
	Rules map[string]RuleSetting `yaml:"rules"`

	// Framework overrides the per-file framework detection when set.
	Framework string `yaml:"framework" env:"FLAKELINT_FRAMEWORK"`

	// Excludes replaces the default directory exclude list when non-empty.
	Excludes []string `yaml:"excludes"`

	// CacheDir is where the result cache lives. Empty disables caching.
	CacheDir string `yaml:"cache_dir" env:"FLAKELINT_CACHE_DIR"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" env:"FLAKELINT_VERBOSE"`
}

// DefaultConfig returns the built-in settings: every rule on, cache under
// .flakelint/.
func DefaultConfig() *Config {
	return &Config{
		Rules:    map[string]RuleSetting{},
		CacheDir: ".flakelint",
	}
}

// globalConfigFilePath returns ~/.flakelint/config.yaml.
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flakelint/config.yaml"
	}
	return filepath.Join(home, ".flakelint", "config.yaml")
}

// ProjectConfigFileName is looked up in the working directory.
const ProjectConfigFileName = ".flakelint.yaml"

// Load reads configuration with the priority chain described in the
// package comment.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(globalConfigFilePath()); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", globalConfigFilePath(), err)
		}
	}
	if data, err := os.ReadFile(ProjectConfigFileName); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", ProjectConfigFileName, err)
		}
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from one specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Validate rejects unknown severities.
func (c *Config) Validate() error {
	for name, rule := range c.Rules {
		switch rule.Severity {
		case SeverityError, SeverityWarning, SeverityOff, "":
		default:
			return fmt.Errorf("rule %s: invalid severity %q", name, rule.Severity)
		}
	}
	return nil
}

// EnabledRules returns the enabled-set for rules.Select: nil when every
// rule runs, otherwise the names still active.
func (c *Config) EnabledRules(allNames []string) map[string]bool {
	anyOff := false
	for _, r := range c.Rules {
		if r.Severity == SeverityOff {
			anyOff = true
			break
		}
	}
	if !anyOff {
		return nil
	}
	enabled := make(map[string]bool, len(allNames))
	for _, name := range allNames {
		enabled[name] = c.Rules[name].Severity != SeverityOff
	}
	return enabled
}

// applyEnvOverrides applies FLAKELINT_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FLAKELINT_FRAMEWORK"); v != "" {
		cfg.Framework = v
	}
	if v := os.Getenv("FLAKELINT_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("FLAKELINT_VERBOSE"); v != "" {
		cfg.Verbose = strings.EqualFold(v, "true") || v == "1"
	}
}
