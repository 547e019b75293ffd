package game

import (
	"fmt"
	"log/slog"

	"github.com/wyixiang/ikerEcsProject/store"
	"github.com/wyixiang/ikerEcsProject/systems"
	"github.com/wyixiang/ikerEcsProject/telemetry"
)

// Update advances StepsPerUpdate ticks of the configured dt.
func (g *Game) Update() error {
	dt := float32(g.cfg.Simulation.DT)
	for i := 0; i < g.stepsPerUpdate; i++ {
		ran, err := g.AdvanceTick(dt)
		if err != nil {
			return err
		}
		if !ran {
			return nil
		}
	}
	return nil
}

// AdvanceTick runs one tick of dt seconds and reports whether it ran. It does
// nothing while the enabled flag is cleared.
//
// Phases run in order, each followed by a replay of its command buffers:
// food spawning, free movers, FindTarget, MoveAndEat, Reproduce. Predator
// phases read the food snapshot taken at the start of the tick, with lock
// ownership refreshed after the FindTarget replay.
func (g *Game) AdvanceTick(dt float32) (bool, error) {
	if g.enabled != nil && !g.enabled.Load() {
		return false, nil
	}

	g.perfCollector.StartTick()
	g.clock += float64(dt)
	tick := uint64(g.tick) + 1
	bounds := g.bounds.Bounds()

	g.store.CaptureFood(g.food)

	if err := g.spawnFood(tick); err != nil {
		return false, err
	}
	if err := g.moveActors(tick, dt, bounds); err != nil {
		return false, err
	}

	pp := systems.PredatorParams{
		Seed:              g.seed,
		Tick:              tick,
		DT:                dt,
		Bounds:            bounds,
		WanderSpeedFactor: float32(g.cfg.Predator.WanderSpeedFactor),
		ChaseRange:        float32(g.cfg.Predator.ChaseRange),
	}
	if err := g.findTargets(pp); err != nil {
		return false, err
	}
	if err := g.moveAndEat(pp); err != nil {
		return false, err
	}
	if err := g.reproduce(tick); err != nil {
		return false, err
	}

	g.perfCollector.StartPhase(telemetry.PhaseCount)
	counts := g.counter.Refresh(g.store)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry(counts)
	g.perfCollector.EndTick()
	return true, nil
}

// runPhase freezes the store, runs fn over n entries on the pool and replays
// the resulting buffers in slot order.
func (g *Game) runPhase(phase telemetry.Phase, n int, fn chunkFunc) error {
	g.perfCollector.StartPhase(phase)
	g.store.Freeze()
	bufs := g.parallel.run(n, fn)
	g.store.Thaw()

	g.perfCollector.StartPhase(telemetry.PhaseReplay)
	stats, err := store.Replay(g.store, bufs...)
	if err != nil {
		return fmt.Errorf("tick %d %s: %w", g.tick+1, phase, err)
	}
	g.collector.RecordReplaySkipped(stats.Skipped)
	if stats.Skipped > 0 {
		slog.Debug("replay skipped commands", "tick", g.tick+1, "phase", phase.String(), "skipped", stats.Skipped)
	}
	return nil
}

func (g *Game) spawnFood(tick uint64) error {
	g.spawners = g.store.CaptureSpawners(g.spawners)
	clear(g.spawned)
	p := systems.SpawnerParams{Seed: g.seed, Tick: tick, Clock: g.clock}
	err := g.runPhase(telemetry.PhaseFoodSpawn, len(g.spawners), func(slot, start, end int, buf *store.CommandBuffer) {
		g.spawned[slot] += systems.SpawnFood(g.spawners[start:end], p, buf)
	})
	n := 0
	for _, s := range g.spawned {
		n += s
	}
	g.collector.RecordFoodSpawned(n)
	g.totals.FoodSpawned += n
	return err
}

func (g *Game) moveActors(tick uint64, dt float32, bounds systems.Bounds) error {
	g.movers = g.store.CaptureMovers(g.movers)
	p := systems.MoverParams{Seed: g.seed, Tick: tick, DT: dt, Bounds: bounds}
	return g.runPhase(telemetry.PhaseMovers, len(g.movers), func(_, start, end int, buf *store.CommandBuffer) {
		systems.MoveChunk(g.movers[start:end], p, buf)
	})
}

func (g *Game) findTargets(p systems.PredatorParams) error {
	g.preds = g.store.CapturePredators(g.preds)
	clear(g.findStats)
	err := g.runPhase(telemetry.PhaseFindTarget, len(g.preds), func(slot, start, end int, buf *store.CommandBuffer) {
		g.findStats[slot].Add(systems.FindTarget(g.preds[start:end], g.food, p, buf))
	})
	var total systems.FindStats
	for _, s := range g.findStats {
		total.Add(s)
	}
	g.collector.RecordSearch(total.Claimed, total.Idle)
	return err
}

func (g *Game) moveAndEat(p systems.PredatorParams) error {
	g.store.RefreshLocks(g.food)
	g.preds = g.store.CapturePredators(g.preds)
	clear(g.moveStats)
	err := g.runPhase(telemetry.PhaseMoveAndEat, len(g.preds), func(slot, start, end int, buf *store.CommandBuffer) {
		g.moveStats[slot].Add(systems.MoveAndEat(g.preds[start:end], g.food, p, buf))
	})
	var total systems.MoveStats
	for _, s := range g.moveStats {
		total.Add(s)
	}
	g.collector.RecordChase(total.Chasing, total.Eaten, total.LostRaces, total.ChaseDistS)
	g.totals.FoodEaten += total.Eaten
	g.totals.LostRaces += total.LostRaces
	return err
}

func (g *Game) reproduce(tick uint64) error {
	g.preds = g.store.CapturePredators(g.preds)
	clear(g.reproStats)
	p := systems.ReproduceParams{
		Seed:       g.seed,
		Tick:       tick,
		Population: len(g.preds),
		Cap:        g.cfg.Predator.PopulationCap,
		Offset:     float32(g.cfg.Predator.ReproduceOffset),
		Inherit:    g.cfg.Predator.InheritParameters,
	}
	err := g.runPhase(telemetry.PhaseReproduce, len(g.preds), func(slot, start, end int, buf *store.CommandBuffer) {
		g.reproStats[slot].Add(systems.Reproduce(g.preds[start:end], p, buf))
	})
	var total systems.ReproduceStats
	for _, s := range g.reproStats {
		total.Add(s)
	}
	g.collector.RecordReproduction(total.Births, total.Capped)
	g.totals.Births += total.Births
	g.totals.BirthsCapped += total.Capped
	return err
}
