package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	foodSpawned   int
	foodEaten     int
	births        int
	birthsCapped  int
	claims        int
	lostRaces     int
	idleSearches  int
	chasing       int
	chaseDistSum  float64
	replaySkipped int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordFoodSpawned records food instantiations.
func (c *Collector) RecordFoodSpawned(n int) {
	c.foodSpawned += n
}

// RecordSearch records FindTarget outcomes.
func (c *Collector) RecordSearch(claims, idle int) {
	c.claims += claims
	c.idleSearches += idle
}

// RecordChase records MoveAndEat outcomes.
func (c *Collector) RecordChase(chasing, eaten, lostRaces int, distSum float64) {
	c.chasing += chasing
	c.foodEaten += eaten
	c.lostRaces += lostRaces
	c.chaseDistSum += distSum
}

// RecordReproduction records Reproduce outcomes.
func (c *Collector) RecordReproduction(births, capped int) {
	c.births += births
	c.birthsCapped += capped
}

// RecordReplaySkipped records commands that were no-ops at replay.
func (c *Collector) RecordReplaySkipped(n int) {
	c.replaySkipped += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population holds counts sampled at window end.
type Population struct {
	Predators  int
	Prey       int
	Food       int
	LockedFood int
}

// Flush produces a WindowStats and resets counters for the next window.
// meals holds each live predator's FoodEaten at window end.
func (c *Collector) Flush(currentTick int32, pop Population, meals []float64) WindowStats {
	var lostRate, chaseMean float64
	if c.claims > 0 {
		lostRate = float64(c.lostRaces) / float64(c.claims)
	}
	if c.chasing > 0 {
		chaseMean = c.chaseDistSum / float64(c.chasing)
	}
	md := ComputeDistribution(meals)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		PredCount:  pop.Predators,
		PreyCount:  pop.Prey,
		FoodCount:  pop.Food,
		LockedFood: pop.LockedFood,

		FoodSpawned:  c.foodSpawned,
		FoodEaten:    c.foodEaten,
		Births:       c.births,
		BirthsCapped: c.birthsCapped,

		Claims:        c.claims,
		LostRaces:     c.lostRaces,
		IdleSearches:  c.idleSearches,
		LostRaceRate:  lostRate,
		ChaseDistMean: chaseMean,
		ReplaySkipped: c.replaySkipped,

		MealsMean: md.Mean,
		MealsStd:  md.Std,
		MealsP10:  md.P10,
		MealsP50:  md.P50,
		MealsP90:  md.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.foodSpawned = 0
	c.foodEaten = 0
	c.births = 0
	c.birthsCapped = 0
	c.claims = 0
	c.lostRaces = 0
	c.idleSearches = 0
	c.chasing = 0
	c.chaseDistSum = 0
	c.replaySkipped = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
