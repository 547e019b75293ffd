package systems

import (
	"sync/atomic"

	"github.com/wyixiang/ikerEcsProject/store"
)

// PopulationCounter publishes aggregate counts once per tick. Refresh is
// called by the tick driver; readers on any goroutine see the latest values.
type PopulationCounter struct {
	predators  atomic.Int64
	prey       atomic.Int64
	food       atomic.Int64
	lockedFood atomic.Int64
}

// Refresh recomputes every count from the store.
func (c *PopulationCounter) Refresh(s *store.Store) store.Counts {
	counts := s.Count()
	c.predators.Store(int64(counts.Predators))
	c.prey.Store(int64(counts.Prey))
	c.food.Store(int64(counts.Food))
	c.lockedFood.Store(int64(counts.LockedFood))
	return counts
}

// Value returns the predator population.
func (c *PopulationCounter) Value() int {
	return int(c.predators.Load())
}

// Predators returns the predator population.
func (c *PopulationCounter) Predators() int {
	return int(c.predators.Load())
}

// Prey returns the free-roaming population.
func (c *PopulationCounter) Prey() int {
	return int(c.prey.Load())
}

// Food returns the live food count.
func (c *PopulationCounter) Food() int {
	return int(c.food.Load())
}

// LockedFood returns the number of claimed food items.
func (c *PopulationCounter) LockedFood() int {
	return int(c.lockedFood.Load())
}
