// Package main searches simulation parameters with CMA-ES for configurations
// under which the predator population grows steadily below its cap.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/wyixiang/ikerEcsProject/config"
	"github.com/wyixiang/ikerEcsProject/telemetry"
)

type options struct {
	configPath string
	outputDir  string
	maxTicks   int
	seeds      int
	maxEvals   int
	population int
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxTicks, "max-ticks", 36000, "Simulation duration in ticks per run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if opts.outputDir == "" {
		log.Fatal("--output is required")
	}

	// Per-tick logs from the game would drown the progress output
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(context.Background(), opts); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, opts options) error {
	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := config.Init(opts.configPath); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	baseCfg := config.Cfg()
	params := NewParamVector()

	seeds := make([]uint64, opts.seeds)
	for i := range seeds {
		seeds[i] = uint64(42 + 1000*i)
	}
	evaluator := NewFitnessEvaluator(params, int32(opts.maxTicks), seeds, baseCfg)

	elog, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"), params, opts.maxEvals)
	if err != nil {
		return err
	}
	defer elog.Close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			used := params.Clamp(params.Denormalize(x))
			fitness, err := evaluator.Evaluate(ctx, used)
			if err != nil {
				slog.Error("evaluation failed", "error", err)
				fitness = math.Inf(1)
			}
			elog.Record(used, fitness, evaluator.LastQuality())
			return fitness
		},
	}

	dim := params.Dim()
	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(dim)))
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	// Seeds already run in parallel inside each evaluation.
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	fmt.Printf("CMA-ES: %d parameters, population %d, up to %d evaluations\n", dim, popSize, opts.maxEvals)
	fmt.Printf("%d seeds per evaluation, %d ticks per run\n", opts.seeds, opts.maxTicks)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization stopped", "error", err)
	}

	best := elog.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluation completed")
	}
	elog.Summary(best)

	return writeResults(opts, params, best, evaluator.BestSummary())
}

// writeResults stores the best parameters applied to the base config and the
// summary of the best seed run.
func writeResults(opts options, params *ParamVector, best []float64, summary telemetry.RunSummary) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	params.ApplyToConfig(cfg, best)

	cfgPath := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(cfgPath); err != nil {
		return fmt.Errorf("write best config: %w", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", cfgPath)

	f, err := os.Create(filepath.Join(opts.outputDir, "best_run.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal([]telemetry.RunSummary{summary}, f)
}
