package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/wyixiang/ikerEcsProject/components"
	"github.com/wyixiang/ikerEcsProject/store"
)

var testBounds = Bounds{MinX: -10, MinY: -10, MaxX: 10, MaxY: 10}

func newTestStore() *store.Store {
	r := store.NewRegistry()
	r.Register(store.TemplatePrey, "prey", func() store.Bundle {
		return store.Bundle{Mover: &components.Mover{DirX: 1, Speed: 3, ChangeInterval: 2}}
	})
	r.Register(store.TemplatePredator, "predator", func() store.Bundle {
		return store.Bundle{Predator: &components.Predator{MoveSpeed: 3, EatRange: 1, ReproduceThreshold: 3, WanderX: 1}}
	})
	r.Register(store.TemplateFood, "food", func() store.Bundle {
		return store.Bundle{Food: true}
	})
	r.Register(store.TemplateFoodSpawner, "food_spawner", func() store.Bundle {
		return store.Bundle{FoodSpawner: &components.FoodSpawner{Template: store.TemplateFood, Interval: 2, Radius: 2}}
	})
	return store.New(r)
}

func mustCreate(t *testing.T, s *store.Store, id components.TemplateID, o store.Overrides) ecs.Entity {
	t.Helper()
	e, err := s.Create(id, o)
	if err != nil {
		t.Fatalf("Create(%d): %v", id, err)
	}
	return e
}

func mustReplay(t *testing.T, s *store.Store, bufs ...*store.CommandBuffer) store.ReplayStats {
	t.Helper()
	stats, err := store.Replay(s, bufs...)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	return stats
}

func at(x, y float32) store.Overrides {
	return store.Overrides{Position: components.Position{X: x, Y: y}}
}

func predatorAt(x, y float32, st components.Predator) store.Overrides {
	return store.Overrides{Position: components.Position{X: x, Y: y}, Predator: &st}
}

// checkLocks asserts that every live lock's owner is a live predator
// targeting that food.
func checkLocks(t *testing.T, s *store.Store) {
	t.Helper()
	for _, l := range s.Locks() {
		pred, ok := s.Predator(l.Owner)
		if !ok {
			t.Errorf("lock on %v owned by dead or non-predator %v", l.Food, l.Owner)
			continue
		}
		if pred.Target != l.Food {
			t.Errorf("lock on %v owned by %v whose target is %v", l.Food, l.Owner, pred.Target)
		}
	}
}
