package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is used when ECSREG_CONFIG is unset.
const DefaultPath = "config/ecs.toml"

type Config struct {
	Registry   RegistryConfig   `toml:"registry"`
	Logging    LoggingConfig    `toml:"logging"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Prefabs    PrefabsConfig    `toml:"prefabs"`
	Simulation SimulationConfig `toml:"simulation"`
}

type RegistryConfig struct {
	PageSize        int `toml:"page_size"`
	InitialCapacity int `toml:"initial_capacity"`
	EntityWidth     int `toml:"entity_width"` // 32 or 64
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type PrefabsConfig struct {
	Path string `toml:"path"`
}

type SimulationConfig struct {
	TickRate      time.Duration `toml:"tick_rate"`
	Ticks         int           `toml:"ticks"`
	StatsInterval int           `toml:"stats_interval"` // ticks between stats lines
}

// Path returns the config file location, honouring ECSREG_CONFIG.
func Path() string {
	if p := os.Getenv("ECSREG_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML over the defaults. name is only used in errors.
func Parse(data []byte, name string) (*Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", name, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Registry.EntityWidth {
	case 32, 64:
	default:
		return fmt.Errorf("registry.entity_width must be 32 or 64, got %d", c.Registry.EntityWidth)
	}
	if c.Registry.PageSize <= 0 {
		return fmt.Errorf("registry.page_size must be positive, got %d", c.Registry.PageSize)
	}
	if c.Registry.InitialCapacity < 0 {
		return fmt.Errorf("registry.initial_capacity must not be negative, got %d", c.Registry.InitialCapacity)
	}
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Registry: RegistryConfig{
			PageSize:        1024,
			InitialCapacity: 1024,
			EntityWidth:     64,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Prefabs: PrefabsConfig{
			Path: "data/prefabs.yaml",
		},
		Simulation: SimulationConfig{
			TickRate:      200 * time.Millisecond,
			Ticks:         50,
			StatsInterval: 10,
		},
	}
}
