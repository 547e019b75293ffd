// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Simulation SimulationConfig `yaml:"simulation"`
	Actors     ActorsConfig     `yaml:"actors"`
	Predator   PredatorConfig   `yaml:"predator"`
	Food       FoodConfig       `yaml:"food"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewer window parameters.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the static bounds used when no viewport supplies them.
type WorldConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// SimulationConfig holds tick and scheduling parameters.
type SimulationConfig struct {
	DT                float64 `yaml:"dt"`
	Seed              uint64  `yaml:"seed"`
	Workers           int     `yaml:"workers"`            // 0 = GOMAXPROCS
	ParallelThreshold int     `yaml:"parallel_threshold"` // Below this many entities a phase runs on one goroutine
}

// ActorsConfig holds the initial free-roaming population.
type ActorsConfig struct {
	SpawnCount              int     `yaml:"spawn_count"`
	SpawnAreaSize           float64 `yaml:"spawn_area_size"` // Side of the square seeding area centered on the origin
	MoveSpeed               float64 `yaml:"move_speed"`
	DirectionChangeInterval float64 `yaml:"direction_change_interval"`
}

// PredatorConfig holds predator template parameters and reproduction policy.
type PredatorConfig struct {
	InitialCount       int     `yaml:"initial_count"`
	SpawnX             float64 `yaml:"spawn_x"`
	SpawnY             float64 `yaml:"spawn_y"`
	MoveSpeed          float64 `yaml:"move_speed"`
	EatRange           float64 `yaml:"eat_range"`
	ReproduceThreshold int     `yaml:"reproduce_threshold"`
	PopulationCap      int     `yaml:"population_cap"`
	WanderSpeedFactor  float64 `yaml:"wander_speed_factor"` // Fraction of move speed used while idle
	ReproduceOffset    float64 `yaml:"reproduce_offset"`
	InheritParameters  bool    `yaml:"inherit_parameters"` // Clone parent parameters; false resets to template
	ChaseRange         float64 `yaml:"chase_range"`        // 0 = unlimited
}

// FoodConfig holds food spawner parameters.
type FoodConfig struct {
	SpawnInterval float64       `yaml:"spawn_interval"`
	SpawnRadius   float64       `yaml:"spawn_radius"`
	Spawners      []PointConfig `yaml:"spawners"`
}

// PointConfig is a position in world units.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindowTicks int32   // Telemetry.StatsWindow / Simulation.DT
	WorldW           float64 // World.MaxX - World.MinX
	WorldH           float64 // World.MaxY - World.MinY
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first configuration error found, wrapped around ErrInvalid.
func (c *Config) Validate() error {
	switch {
	case c.Simulation.DT <= 0:
		return fmt.Errorf("%w: simulation.dt must be positive, got %v", ErrInvalid, c.Simulation.DT)
	case c.Simulation.Workers < 0:
		return fmt.Errorf("%w: simulation.workers must not be negative", ErrInvalid)
	case c.World.MinX >= c.World.MaxX || c.World.MinY >= c.World.MaxY:
		return fmt.Errorf("%w: world bounds are inverted or empty", ErrInvalid)
	case c.Actors.SpawnCount < 0:
		return fmt.Errorf("%w: actors.spawn_count must not be negative", ErrInvalid)
	case c.Actors.SpawnAreaSize < 0:
		return fmt.Errorf("%w: actors.spawn_area_size must not be negative", ErrInvalid)
	case c.Actors.MoveSpeed < 0:
		return fmt.Errorf("%w: actors.move_speed must not be negative, got %v", ErrInvalid, c.Actors.MoveSpeed)
	case c.Actors.DirectionChangeInterval <= 0:
		return fmt.Errorf("%w: actors.direction_change_interval must be positive", ErrInvalid)
	case c.Predator.InitialCount < 0:
		return fmt.Errorf("%w: predator.initial_count must not be negative", ErrInvalid)
	case c.Predator.PopulationCap < 1:
		return fmt.Errorf("%w: predator.population_cap must be at least 1", ErrInvalid)
	case c.Predator.ReproduceThreshold < 1:
		return fmt.Errorf("%w: predator.reproduce_threshold must be at least 1", ErrInvalid)
	case c.Predator.MoveSpeed < 0:
		return fmt.Errorf("%w: predator.move_speed must not be negative, got %v", ErrInvalid, c.Predator.MoveSpeed)
	case c.Predator.EatRange < 0 || c.Predator.ChaseRange < 0:
		return fmt.Errorf("%w: predator ranges must not be negative", ErrInvalid)
	case c.Predator.ReproduceOffset < 0:
		return fmt.Errorf("%w: predator.reproduce_offset must not be negative, got %v", ErrInvalid, c.Predator.ReproduceOffset)
	case c.Food.SpawnInterval <= 0:
		return fmt.Errorf("%w: food.spawn_interval must be positive, got %v", ErrInvalid, c.Food.SpawnInterval)
	case c.Food.SpawnRadius < 0:
		return fmt.Errorf("%w: food.spawn_radius must not be negative, got %v", ErrInvalid, c.Food.SpawnRadius)
	case c.Telemetry.StatsWindow <= 0:
		return fmt.Errorf("%w: telemetry.stats_window must be positive", ErrInvalid)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StatsWindowTicks = int32(c.Telemetry.StatsWindow / c.Simulation.DT)
	if c.Derived.StatsWindowTicks < 1 {
		c.Derived.StatsWindowTicks = 1
	}
	c.Derived.WorldW = c.World.MaxX - c.World.MinX
	c.Derived.WorldH = c.World.MaxY - c.World.MinY
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
