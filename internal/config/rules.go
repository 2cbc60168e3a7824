package config

type Config struct {
	Factions []FactionConfig `yaml:"factions"`
	Boost    BoostConfig     `yaml:"boost"`
	Log      LogConfig       `yaml:"log"`
}

// FactionConfig describes one side of the battle. Marker is the single map
// character that spawns a unit of this faction.
type FactionConfig struct {
	Name   string `yaml:"name"`
	Marker string `yaml:"marker"`
	HP     int    `yaml:"hp"`
	Attack int    `yaml:"attack"`
}

type BoostConfig struct {
	Faction string `yaml:"faction"`
	Workers int    `yaml:"workers"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
	Dev        bool   `yaml:"dev"`
}

const (
	DefaultHP      = 200
	DefaultAttack  = 3
	DefaultWorkers = 8
)

// Default returns the classic elves versus goblins setup.
func Default() *Config {
	cfg := &Config{
		Factions: []FactionConfig{
			{Name: "elf", Marker: "E"},
			{Name: "goblin", Marker: "G"},
		},
	}
	applyDefaults(cfg)
	return cfg
}

// Faction looks a faction up by name.
func (c *Config) Faction(name string) (FactionConfig, bool) {
	for _, f := range c.Factions {
		if f.Name == name {
			return f, true
		}
	}
	return FactionConfig{}, false
}
