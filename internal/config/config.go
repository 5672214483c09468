// Package config loads server configuration from YAML, merging a user file
// over embedded defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"slitherd/internal/game"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every server knob.
type Config struct {
	Server ServerConfig `yaml:"server"`
	World  WorldConfig  `yaml:"world"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Port  int  `yaml:"port"`
	Debug bool `yaml:"debug"`
}

// WorldConfig holds the simulation knobs.
type WorldConfig struct {
	Bots       int  `yaml:"bots"`
	BotRespawn bool `yaml:"bot_respawn"`

	HSnakeStartScore int `yaml:"h_snake_start_score"`
	BSnakeStartScore int `yaml:"b_snake_start_score"`
	SnakeMinLength   int `yaml:"snake_min_length"`

	FoodSpawnRate      int `yaml:"food_spawn_rate"`
	SpawnProbNearSnake int `yaml:"spawn_prob_near_snake"`
	SpawnProbOnSnake   int `yaml:"spawn_prob_on_snake"`
	SpawnProbRandom    int `yaml:"spawn_prob_random"`

	BoostCost     int `yaml:"boost_cost"`
	BoostDropSize int `yaml:"boost_drop_size"`
}

// Load parses the embedded defaults and, when path is non-empty, merges the
// user file over them. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// GameConfig converts the world section into the simulation's config type.
func (c *Config) GameConfig() game.Config {
	return game.Config{
		Bots:               c.World.Bots,
		BotRespawn:         c.World.BotRespawn,
		HSnakeStartScore:   c.World.HSnakeStartScore,
		BSnakeStartScore:   c.World.BSnakeStartScore,
		SnakeMinLength:     c.World.SnakeMinLength,
		FoodSpawnRate:      c.World.FoodSpawnRate,
		SpawnProbNearSnake: c.World.SpawnProbNearSnake,
		SpawnProbOnSnake:   c.World.SpawnProbOnSnake,
		SpawnProbRandom:    c.World.SpawnProbRandom,
		BoostCost:          c.World.BoostCost,
		BoostDropSize:      uint8(c.World.BoostDropSize),
	}
}
