package game

import (
	"log/slog"

	"github.com/wyixiang/ikerEcsProject/store"
	"github.com/wyixiang/ikerEcsProject/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry(counts store.Counts) {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.preds = g.store.CapturePredators(g.preds)
	meals := make([]float64, len(g.preds))
	for i, p := range g.preds {
		meals[i] = float64(p.State.FoodEaten)
	}

	stats := g.collector.Flush(g.tick, telemetry.Population{
		Predators:  counts.Predators,
		Prey:       counts.Prey,
		Food:       counts.Food,
		LockedFood: counts.LockedFood,
	}, meals)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Summary builds the end-of-run record.
func (g *Game) Summary(runID string) telemetry.RunSummary {
	perf := g.perfCollector.Stats()
	return telemetry.RunSummary{
		RunID:         runID,
		Seed:          g.seed,
		Ticks:         g.tick,
		SimTimeSec:    g.clock,
		FinalPred:     g.counter.Predators(),
		FinalPrey:     g.counter.Prey(),
		FinalFood:     g.counter.Food(),
		TotalEaten:    g.totals.FoodEaten,
		TotalBirths:   g.totals.Births,
		TotalCapped:   g.totals.BirthsCapped,
		AvgTickMillis: float64(perf.AvgTickDuration.Microseconds()) / 1000,
	}
}
