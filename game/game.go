// Package game drives the simulation: it owns the entity store, the worker
// pool and the clock, and runs the barrier-ordered tick phases.
package game

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/wyixiang/ikerEcsProject/components"
	"github.com/wyixiang/ikerEcsProject/config"
	"github.com/wyixiang/ikerEcsProject/store"
	"github.com/wyixiang/ikerEcsProject/systems"
	"github.com/wyixiang/ikerEcsProject/telemetry"
)

// BoundsSource supplies the playable rectangle, typically from a viewport.
type BoundsSource interface {
	Bounds() systems.Bounds
}

// StaticBounds is a BoundsSource that never changes.
type StaticBounds systems.Bounds

// Bounds implements BoundsSource.
func (b StaticBounds) Bounds() systems.Bounds {
	return systems.Bounds(b)
}

// Options configures a new game.
type Options struct {
	Config   *config.Config  // nil = config.Cfg()
	Registry *store.Registry // nil = NewRegistry(Config)
	Seed     uint64          // 0 = Config.Simulation.Seed

	// Enabled gates AdvanceTick. It is owned by the caller (pause UI);
	// nil means always enabled.
	Enabled *atomic.Bool
	Bounds  BoundsSource // nil = Config.World

	LogStats       bool
	OutputManager  *telemetry.OutputManager
	StatsCallback  func(telemetry.WindowStats)
	StepsPerUpdate int
}

// Game holds the complete simulation state.
type Game struct {
	cfg      *config.Config
	store    *store.Store
	counter  systems.PopulationCounter
	enabled  *atomic.Bool
	bounds   BoundsSource
	seed     uint64
	parallel *parallelState

	tick  int32
	clock float64

	// Phase snapshots, reused across ticks
	food     *store.FoodSnapshot
	preds    []store.PredatorEntry
	movers   []store.MoverEntry
	spawners []store.SpawnerEntry

	// Per-slot phase results
	findStats  []systems.FindStats
	moveStats  []systems.MoveStats
	reproStats []systems.ReproduceStats
	spawned    []int

	// Telemetry
	collector      *telemetry.Collector
	perfCollector  *telemetry.PerfCollector
	outputManager  *telemetry.OutputManager
	statsCallback  func(telemetry.WindowStats)
	logStats       bool
	stepsPerUpdate int
	totals         Totals
}

// Totals accumulates events over the whole run.
type Totals struct {
	FoodSpawned  int
	FoodEaten    int
	Births       int
	BirthsCapped int
	LostRaces    int
}

// NewRegistry builds the template registry from configuration.
func NewRegistry(cfg *config.Config) *store.Registry {
	r := store.NewRegistry()
	r.Register(store.TemplatePrey, "prey", func() store.Bundle {
		return store.Bundle{Mover: &components.Mover{
			DirX:           1,
			Speed:          float32(cfg.Actors.MoveSpeed),
			ChangeInterval: float32(cfg.Actors.DirectionChangeInterval),
		}}
	})
	r.Register(store.TemplatePredator, "predator", func() store.Bundle {
		return store.Bundle{Predator: &components.Predator{
			MoveSpeed:          float32(cfg.Predator.MoveSpeed),
			EatRange:           float32(cfg.Predator.EatRange),
			ReproduceThreshold: int32(cfg.Predator.ReproduceThreshold),
			WanderX:            1,
		}}
	})
	r.Register(store.TemplateFood, "food", func() store.Bundle {
		return store.Bundle{Food: true}
	})
	r.Register(store.TemplateFoodSpawner, "food_spawner", func() store.Bundle {
		return store.Bundle{FoodSpawner: &components.FoodSpawner{
			Template: store.TemplateFood,
			Interval: float32(cfg.Food.SpawnInterval),
			Radius:   float32(cfg.Food.SpawnRadius),
		}}
	})
	return r
}

// NewGameWithOptions creates a game and seeds the initial population. A
// configuration error aborts creation; no partially seeded game is returned.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry(cfg)
	}
	if err := registry.Require(store.TemplatePrey, store.TemplatePredator, store.TemplateFood, store.TemplateFoodSpawner); err != nil {
		return nil, fmt.Errorf("checking templates: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	bounds := opts.Bounds
	if bounds == nil {
		bounds = StaticBounds{
			MinX: float32(cfg.World.MinX), MinY: float32(cfg.World.MinY),
			MaxX: float32(cfg.World.MaxX), MaxY: float32(cfg.World.MaxY),
		}
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		store:          store.New(registry),
		enabled:        opts.Enabled,
		bounds:         bounds,
		seed:           seed,
		parallel:       newParallelState(cfg.Simulation.Workers, cfg.Simulation.ParallelThreshold),
		food:           store.NewFoodSnapshot(),
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindow, float32(cfg.Simulation.DT)),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager:  opts.OutputManager,
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
	}
	n := g.parallel.numWorkers
	g.findStats = make([]systems.FindStats, n)
	g.moveStats = make([]systems.MoveStats, n)
	g.reproStats = make([]systems.ReproduceStats, n)
	g.spawned = make([]int, n)

	if err := g.seedActors(); err != nil {
		g.Unload()
		return nil, err
	}
	return g, nil
}

// seedActors runs the one-time initial population.
func (g *Game) seedActors() error {
	cfg := g.cfg
	spawners := make([]components.Position, len(cfg.Food.Spawners))
	for i, sp := range cfg.Food.Spawners {
		spawners[i] = components.Position{X: float32(sp.X), Y: float32(sp.Y)}
	}

	buf := g.parallel.buffers[0]
	systems.SeedActors(systems.SeedParams{
		Seed:          g.seed,
		PreyCount:     cfg.Actors.SpawnCount,
		AreaSize:      float32(cfg.Actors.SpawnAreaSize),
		PredatorCount: cfg.Predator.InitialCount,
		PredatorAt:    components.Position{X: float32(cfg.Predator.SpawnX), Y: float32(cfg.Predator.SpawnY)},
		SpawnerAt:     spawners,
	}, buf)

	stats, err := store.Replay(g.store, buf)
	if err != nil {
		return fmt.Errorf("seeding initial population: %w", err)
	}
	counts := g.counter.Refresh(g.store)
	slog.Info("population seeded",
		"entities", len(stats.Created),
		"prey", counts.Prey,
		"predators", counts.Predators,
		"spawners", counts.Spawners,
		"seed", g.seed,
		"workers", g.parallel.numWorkers,
	)
	return nil
}

// Store returns the entity store. Callers must not mutate it while a tick is
// in progress.
func (g *Game) Store() *store.Store {
	return g.store
}

// Population returns the lock-free population counter.
func (g *Game) Population() *systems.PopulationCounter {
	return &g.counter
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Clock returns the simulation time in seconds.
func (g *Game) Clock() float64 {
	return g.clock
}

// Seed returns the base seed of all random streams.
func (g *Game) Seed() uint64 {
	return g.seed
}

// Totals returns run-wide event counts.
func (g *Game) Totals() Totals {
	return g.totals
}

// Workers returns the worker pool size.
func (g *Game) Workers() int {
	return g.parallel.numWorkers
}

// StepsPerUpdate returns how many ticks Update advances.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate changes how many ticks Update advances, clamped to [1, 10].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(n, 10))
}

// Perf returns the current performance window.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records a rendered frame for the perf window.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Unload stops the worker pool.
func (g *Game) Unload() {
	g.parallel.stopWorkers()
}
