package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	FPS         int               `toml:"fps"`
	Seed        int64             `toml:"seed"`
	Environment EnvironmentConfig `toml:"environment"`
	Nest        NestConfig        `toml:"nest"`
	Ants        AntsConfig        `toml:"ants"`
	Morsels     MorselsConfig     `toml:"morsels"`
	Trails      TrailsConfig      `toml:"trails"`
	Runner      RunnerConfig      `toml:"runner"`
	Path        string            `toml:"-"`
}

type EnvironmentConfig struct {
	Width       int  `toml:"width"`
	Height      int  `toml:"height"`
	GridVisible bool `toml:"grid_visible"`
}

type NestConfig struct {
	Visible bool `toml:"visible"`
	X       int  `toml:"x"`
	Y       int  `toml:"y"`
}

type AntsConfig struct {
	Visible            bool    `toml:"visible"`
	Count              int     `toml:"count"`
	MemoryCapacity     int     `toml:"memory_capacity"`
	MaxConcentration   int     `toml:"max_concentration"`
	ConcentrationDecay int     `toml:"concentration_decay"`
	ReinforceRatio     float64 `toml:"reinforce_ratio"`
}

type MorselsConfig struct {
	Visible bool `toml:"visible"`
	Count   int  `toml:"count"`
	Supply  int  `toml:"supply"`
}

type TrailsConfig struct {
	ColonyVisible bool `toml:"colony_visible"`
	FoodVisible   bool `toml:"food_visible"`
}

type RunnerConfig struct {
	DBPath         string `toml:"db_path"`
	SampleInterval int    `toml:"sample_interval"`
	MaxGenerations uint64 `toml:"max_generations"`
}

// Default is the baseline setup: a 30x30 torus, the nest near the middle,
// ten ants and twenty morsels of thirty units each.
func Default() Config {
	return Config{
		FPS: 24,
		Environment: EnvironmentConfig{
			Width:  30,
			Height: 30,
		},
		Nest: NestConfig{
			Visible: true,
			X:       25,
			Y:       25,
		},
		Ants: AntsConfig{
			Visible:            true,
			Count:              10,
			MemoryCapacity:     30,
			MaxConcentration:   200,
			ConcentrationDecay: 2,
			ReinforceRatio:     0.1,
		},
		Morsels: MorselsConfig{
			Visible: true,
			Count:   20,
			Supply:  30,
		},
		Runner: RunnerConfig{
			DBPath:         "~/.formicarium/runs.db",
			SampleInterval: 100,
			MaxGenerations: 150000,
		},
	}
}

func Load(path string) (Config, error) {
	resolved := path
	if resolved == "" {
		resolved = defaultConfigPath()
	}
	resolved, err := ExpandHome(resolved)
	if err != nil {
		return Config{}, err
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", resolved, err)
	}

	cfg := Default()
	if _, err := toml.Decode(string(bytes), &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config file: %w", err)
	}
	cfg.Path = resolved
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config at path, falling back to Default when the
// file is missing, malformed or invalid. A non-nil error reports why the
// fallback was taken; callers log it as a warning. The returned config is
// always usable.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Environment.Width <= 0 || c.Environment.Height <= 0 {
		return fmt.Errorf("config: grid must be positive, got %dx%d",
			c.Environment.Width, c.Environment.Height)
	}
	if c.Nest.X < 0 || c.Nest.X >= c.Environment.Width ||
		c.Nest.Y < 0 || c.Nest.Y >= c.Environment.Height {
		return fmt.Errorf("config: nest at (%d,%d) outside grid %dx%d",
			c.Nest.X, c.Nest.Y, c.Environment.Width, c.Environment.Height)
	}
	if c.Ants.Count <= 0 {
		return fmt.Errorf("config: ant count must be positive, got %d", c.Ants.Count)
	}
	if c.Ants.MemoryCapacity < 0 {
		return fmt.Errorf("config: memory capacity must be non-negative, got %d", c.Ants.MemoryCapacity)
	}
	if c.Ants.MaxConcentration < 0 {
		return fmt.Errorf("config: max concentration must be non-negative, got %d", c.Ants.MaxConcentration)
	}
	if c.Ants.ConcentrationDecay < 0 {
		return fmt.Errorf("config: concentration decay must be non-negative, got %d", c.Ants.ConcentrationDecay)
	}
	if c.Ants.ReinforceRatio < 0 {
		return fmt.Errorf("config: reinforce ratio must be non-negative, got %v", c.Ants.ReinforceRatio)
	}
	if c.Morsels.Count < 0 {
		return fmt.Errorf("config: morsel count must be non-negative, got %d", c.Morsels.Count)
	}
	if c.Morsels.Supply < 0 {
		return fmt.Errorf("config: morsel supply must be non-negative, got %d", c.Morsels.Supply)
	}
	if c.Runner.SampleInterval <= 0 {
		return fmt.Errorf("config: sample interval must be positive, got %d", c.Runner.SampleInterval)
	}
	return nil
}

// ExpandHome resolves a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed := strings.TrimPrefix(path, "~")
		trimmed = strings.TrimPrefix(trimmed, "\\")
		trimmed = strings.TrimPrefix(trimmed, "/")
		path = filepath.Join(home, trimmed)
	}
	return filepath.Clean(path), nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".formicarium/config.toml"
	}
	return filepath.Join(home, ".formicarium", "config.toml")
}
