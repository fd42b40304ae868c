// Package config handles loading and saving leapkey configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/leapkey/config.yaml
//
// The config file is small on purpose: the label alphabet, whether
// non-candidate text is dimmed while labels are visible, and an optional
// theme file for the label colors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultKeys is the default label alphabet. Home-row keys come first so the
// closest jump targets need the most comfortable keystrokes.
const DefaultKeys = "asdghklqwertyuiopzxcvbnmfj"

// MinKeys is the smallest usable alphabet. A single key cannot form a
// prefix-free label set for more than one target.
const MinKeys = 2

// Config is the top-level configuration for leapkey.
type Config struct {
	// Keys is the ordered label alphabet. Duplicate characters are dropped,
	// keeping the first occurrence.
	Keys string `yaml:"keys,omitempty"`
	// Dim fades non-candidate text while labels are shown.
	Dim *bool `yaml:"dim,omitempty"`
	// Theme is an optional path to a JSON theme file for label colors.
	Theme string `yaml:"theme,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	dim := true
	return Config{
		Keys: DefaultKeys,
		Dim:  &dim,
	}
}

// Dimming reports whether dimming is enabled, defaulting to true.
func (c Config) Dimming() bool {
	if c.Dim == nil {
		return true
	}
	return *c.Dim
}

// Alphabet returns the configured keys as an ordered, deduplicated rune
// slice. Falls back to DefaultKeys when the configured alphabet is unusable.
func (c Config) Alphabet() []rune {
	keys := dedupeKeys(c.Keys)
	if len(keys) < MinKeys {
		return dedupeKeys(DefaultKeys)
	}
	return keys
}

func dedupeKeys(s string) []rune {
	seen := make(map[rune]bool, len(s))
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// Validate reports configuration problems that Load tolerates silently.
func (c Config) Validate() error {
	if len(dedupeKeys(c.Keys)) < MinKeys {
		return fmt.Errorf("keys: need at least %d distinct characters, got %q", MinKeys, c.Keys)
	}
	if c.Theme != "" {
		if _, err := os.Stat(expandHome(c.Theme)); err != nil {
			return fmt.Errorf("theme: %w", err)
		}
	}
	return nil
}

// ConfigDir returns the XDG config directory for leapkey.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "leapkey")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "leapkey")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Keys == "" {
		cfg.Keys = DefaultKeys
	}
	cfg.Theme = expandHome(cfg.Theme)

	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
