package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"
	"github.com/pkg/profile"

	"github.com/wyixiang/ikerEcsProject/config"
	"github.com/wyixiang/ikerEcsProject/game"
	"github.com/wyixiang/ikerEcsProject/telemetry"
	"github.com/wyixiang/ikerEcsProject/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Parent directory for per-run CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config)")
	workers := flag.Int("workers", -1, "Worker goroutines (-1 = use config, 0 = GOMAXPROCS)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster runs)")
	profileMode := flag.String("profile", "", "Write a cpu or mem profile to the run directory")
	check := flag.Bool("check", false, "Verify lock and target invariants after every tick")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	runID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("run_id", runID)
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *workers >= 0 {
		cfg.Simulation.Workers = *workers
	}

	runDir := ""
	if *outputDir != "" {
		runDir = filepath.Join(*outputDir, runID)
	}
	om, err := telemetry.NewOutputManager(runDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	if stop := startProfile(*profileMode, runDir); stop != nil {
		defer stop()
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           *seed,
		LogStats:       *logStats,
		OutputManager:  om,
		StepsPerUpdate: *stepsPerUpdate,
	}

	var g *game.Game
	if *headless {
		g, err = runHeadless(opts, *maxTicks, *check)
	} else {
		g, err = runGraphical(cfg, opts, runID, *maxTicks)
	}
	if g != nil {
		summary := g.Summary(runID)
		slog.Info("run finished",
			"ticks", summary.Ticks,
			"predators", summary.FinalPred,
			"prey", summary.FinalPrey,
			"food", summary.FinalFood,
			"eaten", summary.TotalEaten,
			"births", summary.TotalBirths,
		)
		if werr := om.WriteSummary(summary); werr != nil {
			slog.Error("failed to write run summary", "error", werr)
		}
		g.Unload()
	}
	if cerr := om.Close(); cerr != nil {
		slog.Error("failed to close output files", "error", cerr)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless advances the game without graphics until maxTicks.
func runHeadless(opts game.Options, maxTicks int, check bool) (*game.Game, error) {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"workers", g.Workers(),
		"max_ticks", maxTicks,
		"steps_per_update", g.StepsPerUpdate(),
		"check", check,
	)

	dt := float32(opts.Config.Simulation.DT)
	for maxTicks <= 0 || int(g.Tick()) < maxTicks {
		if _, err := g.AdvanceTick(dt); err != nil {
			return g, err
		}
		if check {
			if err := g.CheckInvariants(); err != nil {
				return g, fmt.Errorf("tick %d: %w", g.Tick(), err)
			}
		}
	}
	slog.Info("max ticks reached", "tick", g.Tick())
	return g, nil
}

// runGraphical opens a window and runs the viewer until it closes.
func runGraphical(cfg *config.Config, opts game.Options, runID string, maxTicks int) (*game.Game, error) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), viewer.Title(runID[:8]))
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v, err := viewer.New(cfg, opts)
	if err != nil {
		return nil, err
	}

	for !rl.WindowShouldClose() {
		if err := v.Frame(); err != nil {
			return v.Game(), err
		}
		if maxTicks > 0 && int(v.Game().Tick()) >= maxTicks {
			break
		}
	}
	return v.Game(), nil
}

// startProfile begins a cpu or mem profile and returns its stop function.
func startProfile(mode, dir string) func() {
	if dir == "" {
		dir = "."
	}
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfileAllocs
	default:
		slog.Error("unknown profile mode", "mode", mode)
		os.Exit(1)
	}
	return profile.Start(kind, profile.ProfilePath(dir), profile.NoShutdownHook).Stop
}
