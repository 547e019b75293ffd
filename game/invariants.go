package game

import (
	"errors"
	"fmt"
)

// CheckInvariants verifies the settled-state guarantees between ticks:
// every lock sits on live food and is owned by a live predator targeting
// that food, and every predator target is either empty or a food it owns.
// It returns all violations joined, or nil.
func (g *Game) CheckInvariants() error {
	var errs []error
	s := g.store

	for _, l := range s.Locks() {
		owner, ok := s.Predator(l.Owner)
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("lock on %v owned by dead entity %v", l.Food, l.Owner))
		case owner.Target != l.Food:
			errs = append(errs, fmt.Errorf("lock on %v owned by %v targeting %v", l.Food, l.Owner, owner.Target))
		}
	}

	for _, p := range s.CapturePredators(nil) {
		if !p.State.HasTarget() {
			continue
		}
		lock, ok := s.FoodLock(p.State.Target)
		if !ok || lock.Owner != p.Entity {
			errs = append(errs, fmt.Errorf("predator %v targets %v without owning its lock", p.Entity, p.State.Target))
		}
	}

	return errors.Join(errs...)
}
