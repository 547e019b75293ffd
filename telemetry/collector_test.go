package telemetry

import (
	"math"
	"testing"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.25)
	if c.WindowDurationTicks() != 4 {
		t.Fatalf("window ticks = %d, want 4", c.WindowDurationTicks())
	}

	c.RecordFoodSpawned(3)
	c.RecordSearch(4, 2)
	c.RecordChase(2, 1, 1, 6.0)
	c.RecordReproduction(1, 2)
	c.RecordReplaySkipped(1)

	if c.ShouldFlush(3) {
		t.Error("ShouldFlush(3) = true before window end")
	}
	if !c.ShouldFlush(4) {
		t.Fatal("ShouldFlush(4) = false at window end")
	}

	s := c.Flush(4, Population{Predators: 2, Prey: 10, Food: 5, LockedFood: 1}, []float64{0, 2})
	if s.FoodSpawned != 3 || s.FoodEaten != 1 || s.Births != 1 || s.BirthsCapped != 2 {
		t.Errorf("events = %+v", s)
	}
	if math.Abs(s.LostRaceRate-0.25) > 1e-9 {
		t.Errorf("LostRaceRate = %v, want 0.25", s.LostRaceRate)
	}
	if math.Abs(s.ChaseDistMean-3) > 1e-9 {
		t.Errorf("ChaseDistMean = %v, want 3", s.ChaseDistMean)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-6 || s.MealsMean != 1 {
		t.Errorf("SimTimeSec = %v MealsMean = %v", s.SimTimeSec, s.MealsMean)
	}

	next := c.Flush(8, Population{}, nil)
	if next.WindowStartTick != 4 || next.FoodSpawned != 0 || next.Claims != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
