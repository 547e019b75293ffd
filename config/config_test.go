package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Predator.PopulationCap != 100 {
		t.Errorf("population_cap = %d, want 100", cfg.Predator.PopulationCap)
	}
	if cfg.Predator.ReproduceThreshold != 3 {
		t.Errorf("reproduce_threshold = %d, want 3", cfg.Predator.ReproduceThreshold)
	}
	if !cfg.Predator.InheritParameters {
		t.Error("inherit_parameters should default to true")
	}
	if len(cfg.Food.Spawners) != 1 {
		t.Errorf("got %d spawners, want 1", len(cfg.Food.Spawners))
	}
	if cfg.Derived.WorldW != 20 || cfg.Derived.WorldH != 20 {
		t.Errorf("world size = %vx%v, want 20x20", cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	// 10s at 1/60s per tick.
	if got := cfg.Derived.StatsWindowTicks; got < 599 || got > 600 {
		t.Errorf("StatsWindowTicks = %d, want ~600", got)
	}
}

func TestDefaults_ReturnsIndependentCopies(t *testing.T) {
	a := Defaults()
	a.Predator.PopulationCap = 1
	a.Food.Spawners[0].X = 99

	b := Defaults()
	if b.Predator.PopulationCap != 100 || b.Food.Spawners[0].X != 0 {
		t.Error("mutating one Defaults() result leaked into the next")
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
predator:
  population_cap: 7
  inherit_parameters: false
food:
  spawners:
    - { x: -3, y: 1 }
    - { x: 4, y: 4 }
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Predator.PopulationCap != 7 || cfg.Predator.InheritParameters {
		t.Errorf("overrides not applied: %+v", cfg.Predator)
	}
	if cfg.Predator.MoveSpeed != 3 {
		t.Errorf("move_speed = %v, want default 3", cfg.Predator.MoveSpeed)
	}
	if len(cfg.Food.Spawners) != 2 || cfg.Food.Spawners[0].X != -3 {
		t.Errorf("spawners = %+v", cfg.Food.Spawners)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeConfig(t, "predator: [not, a, map]\n")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}

	path = writeConfig(t, "food:\n  spawn_interval: 0\n")
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Simulation.DT = 0 }},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -1 }},
		{"inverted bounds", func(c *Config) { c.World.MinX, c.World.MaxX = 5, -5 }},
		{"negative prey", func(c *Config) { c.Actors.SpawnCount = -1 }},
		{"zero redirect interval", func(c *Config) { c.Actors.DirectionChangeInterval = 0 }},
		{"zero cap", func(c *Config) { c.Predator.PopulationCap = 0 }},
		{"zero threshold", func(c *Config) { c.Predator.ReproduceThreshold = 0 }},
		{"negative chase range", func(c *Config) { c.Predator.ChaseRange = -1 }},
		{"zero spawn interval", func(c *Config) { c.Food.SpawnInterval = 0 }},
		{"negative prey speed", func(c *Config) { c.Actors.MoveSpeed = -1 }},
		{"negative predator speed", func(c *Config) { c.Predator.MoveSpeed = -0.5 }},
		{"negative reproduce offset", func(c *Config) { c.Predator.ReproduceOffset = -2 }},
		{"negative spawn radius", func(c *Config) { c.Food.SpawnRadius = -1 }},
		{"zero stats window", func(c *Config) { c.Telemetry.StatsWindow = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}

	if err := Defaults().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	cfg := Defaults()
	cfg.Predator.PopulationCap = 42
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Predator.PopulationCap != 42 {
		t.Errorf("population_cap = %d, want 42", got.Predator.PopulationCap)
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
