// Package config loads jmfixture configuration from TOML or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"jmfixture/fetch"
	"jmfixture/fixture"
)

// Config is the on-disk configuration. Both tables are optional; zero
// values fall back to the defaults from DefaultConfig.
type Config struct {
	JMdict  JMdict  `toml:"jmdict,omitempty" yaml:"jmdict,omitempty" json:"jmdict,omitempty"`
	Fixture Fixture `toml:"fixture,omitempty" yaml:"fixture,omitempty" json:"fixture,omitempty"`
}

// JMdict locates the source dictionary.
type JMdict struct {
	// Path is the local gzip-compressed dictionary file.
	Path string `toml:"path,omitempty" yaml:"path,omitempty" json:"path,omitempty"`

	// URL is where the dictionary is fetched from when missing.
	URL string `toml:"url,omitempty" yaml:"url,omitempty" json:"url,omitempty"`
}

// Fixture controls the generated fixture.
type Fixture struct {
	// Path is where the fixture is written.
	Path string `toml:"path,omitempty" yaml:"path,omitempty" json:"path,omitempty"`

	// Entries is the number of entries copied from the source.
	Entries int `toml:"entries,omitempty" yaml:"entries,omitempty" json:"entries,omitempty"`

	// KnownEntry appends the hand-crafted entry when true.
	KnownEntry bool `toml:"known_entry" yaml:"known_entry" json:"known_entry"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		JMdict: JMdict{
			Path: "JMdict_e.gz",
			URL:  fetch.DefaultURL,
		},
		Fixture: Fixture{
			Path:       "JMdict_e_test.gz",
			Entries:    fixture.DefaultEntryLimit,
			KnownEntry: true,
		},
	}
}

// Load reads the configuration at path on top of the defaults. The decoder
// is picked by extension: .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse toml config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension %q (want .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.JMdict.Path == "" {
		return fmt.Errorf("jmdict.path is required")
	}
	if c.Fixture.Path == "" {
		return fmt.Errorf("fixture.path is required")
	}
	if c.Fixture.Entries < 0 {
		return fmt.Errorf("fixture.entries must be >= 0")
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

// Write saves the configuration as TOML at path. It refuses to overwrite
// an existing file.
func (c *Config) Write(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	s, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(s), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
