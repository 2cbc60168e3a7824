package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load reads a rules file. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	var cfg Config
	if err := loadYAML(path, &cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if len(cfg.Factions) == 0 {
		cfg.Factions = Default().Factions
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return &cfg, nil
}

// Parse decodes rules from raw YAML, filling defaults like Load.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Factions) == 0 {
		cfg.Factions = Default().Factions
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	for i := range cfg.Factions {
		if cfg.Factions[i].HP == 0 {
			cfg.Factions[i].HP = DefaultHP
		}
		if cfg.Factions[i].Attack == 0 {
			cfg.Factions[i].Attack = DefaultAttack
		}
	}
	if cfg.Boost.Faction == "" && len(cfg.Factions) > 0 {
		cfg.Boost.Faction = cfg.Factions[0].Name
	}
	if cfg.Boost.Workers <= 0 {
		cfg.Boost.Workers = DefaultWorkers
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks the shape of the rules. Two factions with distinct
// single-character markers are required.
func (c *Config) Validate() error {
	if len(c.Factions) != 2 {
		return fmt.Errorf("exactly two factions required, got %d", len(c.Factions))
	}
	seen := map[string]bool{}
	for _, f := range c.Factions {
		if f.Name == "" {
			return fmt.Errorf("faction without name")
		}
		if len([]rune(f.Marker)) != 1 {
			return fmt.Errorf("faction %s: marker must be one character, got %q", f.Name, f.Marker)
		}
		if f.Marker == "#" || f.Marker == "." {
			return fmt.Errorf("faction %s: marker %q is reserved", f.Name, f.Marker)
		}
		if seen[f.Marker] {
			return fmt.Errorf("faction %s: duplicate marker %q", f.Name, f.Marker)
		}
		seen[f.Marker] = true
		if f.HP <= 0 || f.Attack <= 0 {
			return fmt.Errorf("faction %s: hp and attack must be positive", f.Name)
		}
	}
	if c.Factions[0].Name == c.Factions[1].Name {
		return fmt.Errorf("duplicate faction name %q", c.Factions[0].Name)
	}
	if _, ok := c.Faction(c.Boost.Faction); !ok {
		return fmt.Errorf("boost faction %q is not defined", c.Boost.Faction)
	}
	return nil
}
