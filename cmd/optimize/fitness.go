package main

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/wyixiang/ikerEcsProject/config"
	"github.com/wyixiang/ikerEcsProject/game"
	"github.com/wyixiang/ikerEcsProject/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []uint64
	baseConfig *config.Config

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestSummary telemetry.RunSummary
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestSummary returns the run summary of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestSummary() telemetry.RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSummary
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	summary     telemetry.RunSummary
	capTick     int32 // first tick the population reached the cap, 0 if never
}

// Evaluate computes fitness for a parameter vector (lower = better). Seeds
// run concurrently; the first failing run cancels the rest.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]*runResult, len(fe.seeds))
	eg, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		eg.Go(func() error {
			r, err := fe.runSimulation(ctx, cfg, seed)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return math.Inf(1), err
	}

	var totalFitness, totalQuality float64
	bestSeed := 0
	bestSeedFitness := math.Inf(1)
	for i, r := range results {
		quality := computeQuality(r, cfg)
		fitness := -quality
		totalFitness += fitness
		totalQuality += quality
		if fitness < bestSeedFitness {
			bestSeedFitness = fitness
			bestSeed = i
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestSummary = results[bestSeed].summary
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness, nil
}

// runSimulation executes a single headless simulation run of maxTicks.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, cfg *config.Config, seed uint64) (*runResult, error) {
	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	dt := float32(cfg.Simulation.DT)
	for g.Tick() < fe.maxTicks {
		if g.Tick()%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if _, err := g.AdvanceTick(dt); err != nil {
			return nil, err
		}
		if result.capTick == 0 && g.Population().Predators() >= cfg.Predator.PopulationCap {
			result.capTick = g.Tick()
		}
	}

	result.summary = g.Summary("")
	return result, nil
}

// copyConfig creates a deep copy of the base config. Each run gets one
// worker so seed-level parallelism owns the cores.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Food.Spawners = append([]config.PointConfig(nil), fe.baseConfig.Food.Spawners...)
	cfg.Simulation.Workers = 1
	return &cfg
}

// Quality component weights.
const (
	qualityWeightFill       = 0.35
	qualityWeightEfficiency = 0.25
	qualityWeightContention = 0.20
	qualityWeightSteadiness = 0.20

	qualityWarmupWindows = 2    // skip first N windows (warmup)
	qualityTargetFill    = 0.75 // predator population / cap at end of run
)

// computeQuality scores a run in [0, 1]: a predator population that grows
// steadily toward, but not into, the cap while eating most of the food
// without fighting over it.
func computeQuality(r *runResult, cfg *config.Config) float64 {
	popCap := float64(cfg.Predator.PopulationCap)

	// 1. Final fill relative to the target
	fill := float64(r.summary.FinalPred) / popCap
	fillScore := math.Exp(-math.Pow((fill-qualityTargetFill)/0.2, 2))
	if r.capTick > 0 {
		fillScore *= 0.5
	}

	if len(r.windowStats) <= qualityWarmupWindows {
		return clamp01(qualityWeightFill * fillScore)
	}
	valid := r.windowStats[qualityWarmupWindows:]

	var spawned, eaten, claims, lost int
	births := make([]float64, 0, len(valid))
	for _, w := range valid {
		spawned += w.FoodSpawned
		eaten += w.FoodEaten
		claims += w.Claims
		lost += w.LostRaces
		births = append(births, float64(w.Births))
	}

	// 2. Share of spawned food that got eaten
	efficiency := 0.0
	if spawned > 0 {
		efficiency = float64(eaten) / float64(spawned)
	}

	// 3. Claims that were not lost to another predator
	contention := 1.0
	if claims > 0 {
		contention = 1 - float64(lost)/float64(claims)
	}

	// 4. Births spread evenly over the run
	steadiness := 0.0
	if mean, std := stat.MeanStdDev(births, nil); len(births) >= 2 && mean > 0 {
		cv := std / mean
		steadiness = math.Exp(-cv * cv)
	}

	quality := qualityWeightFill*fillScore +
		qualityWeightEfficiency*clamp01(efficiency) +
		qualityWeightContention*clamp01(contention) +
		qualityWeightSteadiness*steadiness

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
