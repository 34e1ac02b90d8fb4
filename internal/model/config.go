// Package model defines the shared enums, identifiers and configuration of the colony mission engine.
package model

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	Mission    MissionConfig    `yaml:"mission"`
	Supplies   SuppliesConfig   `yaml:"supplies"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type SimulationConfig struct {
	TickIntervalMs int   `yaml:"tick_interval_ms"`
	TickSimMinutes int   `yaml:"tick_sim_minutes"` // simulated minutes advanced per tick
	MaxTicks       int   `yaml:"max_ticks"`
	Seed           int64 `yaml:"seed"`
}

type MissionConfig struct {
	MinSettlementPopulation int     `yaml:"min_settlement_population"`
	LoadChance              float64 `yaml:"load_chance"`   // 0.0-1.0 per tick
	UnloadChance            float64 `yaml:"unload_chance"` // 0.0-1.0 per tick
	BoardingDeadlineMin     int     `yaml:"boarding_deadline_min"`
	ArrivalToleranceKm      float64 `yaml:"arrival_tolerance_km"`
}

type SuppliesConfig struct {
	OxygenPerSol   float64 `yaml:"oxygen_per_sol"`
	WaterPerSol    float64 `yaml:"water_per_sol"`
	FoodPerSol     float64 `yaml:"food_per_sol"`
	OptionalMargin float64 `yaml:"optional_margin"`
}

const (
	ResourceOxygen = "oxygen"
	ResourceWater  = "water"
	ResourceFood   = "food"
)

// SolDuration is the length of a Martian sol.
const SolDuration = 24*time.Hour + 39*time.Minute + 35*time.Second

func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Simulation: SimulationConfig{
			TickIntervalMs: 100,
			TickSimMinutes: 5,
			MaxTicks:       5000,
			Seed:           1,
		},
		Mission: DefaultMissionConfig(),
		Supplies: SuppliesConfig{
			OxygenPerSol:   0.84,
			WaterPerSol:    3.0,
			FoodPerSol:     0.62,
			OptionalMargin: 0.5,
		},
	}
}

func DefaultMissionConfig() MissionConfig {
	return MissionConfig{
		MinSettlementPopulation: 2,
		LoadChance:              0.75,
		UnloadChance:            0.75,
		BoardingDeadlineMin:     60,
		ArrivalToleranceKm:      0.01,
	}
}

func (c MissionConfig) BoardingDeadline() time.Duration {
	return time.Duration(c.BoardingDeadlineMin) * time.Minute
}

func (c SimulationConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c SimulationConfig) TickDuration() time.Duration {
	return time.Duration(c.TickSimMinutes) * time.Minute
}

// LoadConfig reads a YAML config file over DefaultConfig. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays COLONYSIM_LOG_LEVEL and COLONYSIM_SEED when set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("COLONYSIM_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(getenv("COLONYSIM_SEED")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("COLONYSIM_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	return nil
}

func (c Config) Validate() error {
	m := c.Mission
	if m.LoadChance < 0 || m.LoadChance > 1 {
		return fmt.Errorf("mission.load_chance must be within [0,1], got %v", m.LoadChance)
	}
	if m.UnloadChance < 0 || m.UnloadChance > 1 {
		return fmt.Errorf("mission.unload_chance must be within [0,1], got %v", m.UnloadChance)
	}
	if m.MinSettlementPopulation < 0 {
		return fmt.Errorf("mission.min_settlement_population must not be negative")
	}
	if m.ArrivalToleranceKm < 0 {
		return fmt.Errorf("mission.arrival_tolerance_km must not be negative")
	}
	if c.Simulation.TickSimMinutes <= 0 {
		return fmt.Errorf("simulation.tick_sim_minutes must be positive")
	}
	return nil
}
