// Package config loads the persisted chapter rule settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/metcalfc/txtoc/internal/chapter"
	"github.com/pelletier/go-toml/v2"
)

// ErrUnknownPreset is returned when a rule names a preset that is neither
// built in nor defined in the config file.
var ErrUnknownPreset = errors.New("unknown preset")

// BuiltinPresets are regex rules for common heading styles.
var BuiltinPresets = map[string]string{
	"chinese":  `(?m)^[ \t　]*第[一二三四五六七八九十百千万零〇两\d]+[章卷节回部].*$`,
	"english":  `(?m)^[ \t]*(?i:chapter)[ \t]+[\dIVXLC]+.*$`,
	"markdown": `(?m)^#{1,6}[ \t]+.+$`,
}

// RuleConfig selects the detection rule. Preset, when set, wins over Kind.
type RuleConfig struct {
	Kind    string `toml:"kind"`
	Keyword string `toml:"keyword,omitempty"`
	Regex   string `toml:"regex,omitempty"`
	Preset  string `toml:"preset,omitempty"`
}

// Config holds the application's settings.
type Config struct {
	Rule    RuleConfig        `toml:"rule"`
	Presets map[string]string `toml:"presets,omitempty"`
}

// DefaultPath returns XDG_CONFIG_HOME/txtoc/config.toml or the platform
// config directory equivalent.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "txtoc", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "txtoc", "config.toml"), nil
}

// Load reads the configuration at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0640)
}

// Preset returns the pattern of a named preset. Presets in the file
// override built-in ones.
func (c *Config) Preset(name string) (string, error) {
	if p, ok := c.Presets[name]; ok {
		return p, nil
	}
	if p, ok := BuiltinPresets[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// PresetNames lists built-in and file presets in sorted order.
func (c *Config) PresetNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range []map[string]string{BuiltinPresets, c.Presets} {
		for name := range m {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// IsSet reports whether the file selects a rule at all.
func (r RuleConfig) IsSet() bool {
	return r.Kind != "" || r.Preset != ""
}

// Resolve turns a rule selection into a detection rule.
func (c *Config) Resolve(r RuleConfig) (chapter.Rule, error) {
	if r.Preset != "" {
		pattern, err := c.Preset(r.Preset)
		if err != nil {
			return chapter.Rule{}, err
		}
		return chapter.Regex(pattern), nil
	}
	kind, err := chapter.ParseKind(r.Kind)
	if err != nil {
		return chapter.Rule{}, err
	}
	switch kind {
	case chapter.KindKeyword:
		return chapter.Keyword(r.Keyword), nil
	case chapter.KindRegex:
		return chapter.Regex(r.Regex), nil
	}
	return chapter.Default(), nil
}

// ActiveRule resolves the rule the file selects.
func (c *Config) ActiveRule() (chapter.Rule, error) {
	return c.Resolve(c.Rule)
}
