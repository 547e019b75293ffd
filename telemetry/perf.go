package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase identifies one timed section of a tick.
type Phase uint8

// Tick phases in execution order.
const (
	PhaseFoodSpawn Phase = iota
	PhaseMovers
	PhaseFindTarget
	PhaseMoveAndEat
	PhaseReproduce
	PhaseReplay
	PhaseCount
	PhaseTelemetry

	NumPhases
	noPhase = NumPhases
)

var phaseNames = [NumPhases]string{
	"food_spawn", "movers", "find_target", "move_and_eat",
	"reproduce", "replay", "count", "telemetry",
}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "none"
}

// Phases lists every phase in execution order.
var Phases = [NumPhases]Phase{
	PhaseFoodSpawn, PhaseMovers, PhaseFindTarget, PhaseMoveAndEat,
	PhaseReproduce, PhaseReplay, PhaseCount, PhaseTelemetry,
}

// tickSample is the timing of one completed tick.
type tickSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
}

// PerfCollector keeps the last windowSize tick timings in a ring.
// Replay time is attributed to PhaseReplay across all phases of a tick.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:  make([]tickSample, windowSize),
		phase: noPhase,
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	now := time.Now()
	p.cur = tickSample{}
	p.tickStart = now
	p.phaseStart = now
	p.phase = noPhase
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase < NumPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = noPhase
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Per-phase average duration and share of the average tick, by Phase
	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	ticks := make([]float64, p.count)
	var phaseSum [NumPhases]time.Duration
	for i, sample := range p.ring[:p.count] {
		ticks[i] = float64(sample.total)
		for ph, d := range sample.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = time.Duration(stat.Mean(ticks, nil))
	s.MinTickDuration = time.Duration(floats.Min(ticks))
	s.MaxTickDuration = time.Duration(floats.Max(ticks))
	sorted := append([]float64(nil), ticks...)
	floats.Argsort(sorted, make([]int, len(sorted)))
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))

	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	FoodSpawnPct  float64 `csv:"food_spawn_pct"`
	MoversPct     float64 `csv:"movers_pct"`
	FindTargetPct float64 `csv:"find_target_pct"`
	MoveAndEatPct float64 `csv:"move_and_eat_pct"`
	ReproducePct  float64 `csv:"reproduce_pct"`
	ReplayPct     float64 `csv:"replay_pct"`
	CountPct      float64 `csv:"count_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into one perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		FoodSpawnPct:  s.PhasePct[PhaseFoodSpawn],
		MoversPct:     s.PhasePct[PhaseMovers],
		FindTargetPct: s.PhasePct[PhaseFindTarget],
		MoveAndEatPct: s.PhasePct[PhaseMoveAndEat],
		ReproducePct:  s.PhasePct[PhaseReproduce],
		ReplayPct:     s.PhasePct[PhaseReplay],
		CountPct:      s.PhasePct[PhaseCount],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
