package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	PredCount  int `csv:"pred"`
	PreyCount  int `csv:"prey"`
	FoodCount  int `csv:"food"`
	LockedFood int `csv:"locked_food"`

	// Events during window
	FoodSpawned  int `csv:"food_spawned"`
	FoodEaten    int `csv:"food_eaten"`
	Births       int `csv:"births"`
	BirthsCapped int `csv:"births_capped"`

	// Target acquisition
	Claims        int     `csv:"claims"`
	LostRaces     int     `csv:"lost_races"`
	IdleSearches  int     `csv:"idle_searches"`
	LostRaceRate  float64 `csv:"lost_race_rate"`  // LostRaces / Claims
	ChaseDistMean float64 `csv:"chase_dist_mean"` // Mean distance to target per chasing predator-tick
	ReplaySkipped int     `csv:"replay_skipped"`  // Commands that were no-ops at replay

	// Meals-since-reproduction distribution (sampled at window end)
	MealsMean float64 `csv:"meals_mean"`
	MealsStd  float64 `csv:"meals_std"`
	MealsP10  float64 `csv:"meals_p10"`
	MealsP50  float64 `csv:"meals_p50"`
	MealsP90  float64 `csv:"meals_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles. Empty input yields the zero value.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("pred", s.PredCount),
		slog.Int("prey", s.PreyCount),
		slog.Int("food", s.FoodCount),
		slog.Int("locked_food", s.LockedFood),
		slog.Int("food_spawned", s.FoodSpawned),
		slog.Int("food_eaten", s.FoodEaten),
		slog.Int("births", s.Births),
		slog.Int("births_capped", s.BirthsCapped),
		slog.Int("claims", s.Claims),
		slog.Int("lost_races", s.LostRaces),
		slog.Int("idle_searches", s.IdleSearches),
		slog.Float64("lost_race_rate", s.LostRaceRate),
		slog.Float64("chase_dist_mean", s.ChaseDistMean),
		slog.Int("replay_skipped", s.ReplaySkipped),
		slog.Float64("meals_mean", s.MealsMean),
		slog.Float64("meals_p50", s.MealsP50),
		slog.Float64("meals_p90", s.MealsP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"pred", s.PredCount,
		"prey", s.PreyCount,
		"food", s.FoodCount,
		"locked_food", s.LockedFood,
		"food_spawned", s.FoodSpawned,
		"food_eaten", s.FoodEaten,
		"births", s.Births,
		"births_capped", s.BirthsCapped,
		"claims", s.Claims,
		"lost_races", s.LostRaces,
		"lost_race_rate", s.LostRaceRate,
		"chase_dist_mean", s.ChaseDistMean,
		"replay_skipped", s.ReplaySkipped,
		"meals_mean", s.MealsMean,
		"meals_std", s.MealsStd,
	)
}
