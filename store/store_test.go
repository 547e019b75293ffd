package store

import (
	"errors"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/wyixiang/ikerEcsProject/components"
)

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register(TemplatePredator, "predator", func() Bundle {
		return Bundle{Predator: &components.Predator{MoveSpeed: 3, EatRange: 1, ReproduceThreshold: 3}}
	})
	r.Register(TemplateFood, "food", func() Bundle {
		return Bundle{Food: true}
	})
	r.Register(TemplatePrey, "prey", func() Bundle {
		return Bundle{Mover: &components.Mover{DirX: 1, Speed: 3, ChangeInterval: 2}}
	})
	return r
}

func TestCreateAppliesOverrides(t *testing.T) {
	s := New(testRegistry())

	e, err := s.Create(TemplatePredator, Overrides{
		Position: components.Position{X: 1, Y: 2},
		Predator: &components.Predator{MoveSpeed: 5},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pos, ok := s.Position(e)
	if !ok || pos.X != 1 || pos.Y != 2 {
		t.Errorf("position = %+v, %v; want (1,2)", pos, ok)
	}
	pred, _ := s.Predator(e)
	if pred.MoveSpeed != 5 {
		t.Errorf("MoveSpeed = %v, want 5", pred.MoveSpeed)
	}
	if s.Has(e, KindFood) {
		t.Error("predator should not carry food tag")
	}
}

func TestCreateUnknownTemplate(t *testing.T) {
	s := New(testRegistry())
	_, err := s.Create(TemplateFoodSpawner, Overrides{})
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("err = %v, want ErrUnknownTemplate", err)
	}
	if c := s.Count(); c != (Counts{}) {
		t.Errorf("counts = %+v, want empty", c)
	}
}

func TestBuilderResultsAreIndependent(t *testing.T) {
	shared := &components.Predator{MoveSpeed: 3}
	r := NewRegistry()
	r.Register(TemplatePredator, "predator", func() Bundle { return Bundle{Predator: shared} })
	s := New(r)

	e, _ := s.Create(TemplatePredator, Overrides{})
	s.Set(e, components.Predator{MoveSpeed: 9})
	if shared.MoveSpeed != 3 {
		t.Errorf("template mutated through entity: MoveSpeed = %v", shared.MoveSpeed)
	}
}

func TestStaleHandleAfterDestroy(t *testing.T) {
	s := New(testRegistry())
	old, _ := s.Create(TemplateFood, Overrides{})
	if !s.Destroy(old) {
		t.Fatal("Destroy returned false for live entity")
	}
	// Likely reuses the slot with a bumped generation.
	fresh, _ := s.Create(TemplateFood, Overrides{})

	if s.IsLive(old) {
		t.Error("stale handle reported live")
	}
	if !s.IsLive(fresh) {
		t.Error("fresh handle reported dead")
	}
	if old == fresh {
		t.Error("stale and fresh handles compare equal")
	}
	if _, ok := s.Position(old); ok {
		t.Error("stale handle dereferenced")
	}
	if s.Add(old, components.FoodLock{Owner: fresh}) {
		t.Error("Add on stale handle succeeded")
	}
	if s.Destroy(old) {
		t.Error("second Destroy succeeded")
	}
	if s.IsLive(ecs.Entity{}) {
		t.Error("zero entity reported live")
	}
}

func TestSingleComponentPerKind(t *testing.T) {
	s := New(testRegistry())
	food, _ := s.Create(TemplateFood, Overrides{})
	a, _ := s.Create(TemplatePredator, Overrides{})
	b, _ := s.Create(TemplatePredator, Overrides{})

	if !s.Add(food, components.FoodLock{Owner: a}) {
		t.Fatal("first lock rejected")
	}
	if s.Add(food, components.FoodLock{Owner: b}) {
		t.Fatal("second lock accepted")
	}
	lock, _ := s.FoodLock(food)
	if lock.Owner != a {
		t.Errorf("owner = %v, want %v", lock.Owner, a)
	}
}

func TestSetAndRemoveRequirePresence(t *testing.T) {
	s := New(testRegistry())
	food, _ := s.Create(TemplateFood, Overrides{})

	if s.Set(food, components.FoodLock{}) {
		t.Error("Set of absent kind succeeded")
	}
	if s.Remove(food, KindFoodLock) {
		t.Error("Remove of absent kind succeeded")
	}
	if s.Remove(food, KindPosition) {
		t.Error("Remove of position succeeded")
	}
	if s.Add(food, "not a component") {
		t.Error("Add of unknown type succeeded")
	}
}

func TestFrozenStorePanics(t *testing.T) {
	s := New(testRegistry())
	e, _ := s.Create(TemplateFood, Overrides{})
	s.Freeze()
	defer s.Thaw()

	tests := []struct {
		name string
		fn   func()
	}{
		{"create", func() { s.Create(TemplateFood, Overrides{}) }},
		{"destroy", func() { s.Destroy(e) }},
		{"add", func() { s.Add(e, components.FoodLock{}) }},
		{"set", func() { s.Set(e, components.Position{}) }},
		{"remove", func() { s.Remove(e, KindFood) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestCount(t *testing.T) {
	s := New(testRegistry())
	p, _ := s.Create(TemplatePredator, Overrides{})
	for range 3 {
		s.Create(TemplatePrey, Overrides{})
	}
	f1, _ := s.Create(TemplateFood, Overrides{})
	s.Create(TemplateFood, Overrides{})
	s.Add(f1, components.FoodLock{Owner: p})

	got := s.Count()
	want := Counts{Predators: 1, Prey: 3, Food: 2, LockedFood: 1}
	if got != want {
		t.Errorf("Count() = %+v, want %+v", got, want)
	}
}

func TestHasTracksEveryKind(t *testing.T) {
	s := New(testRegistry())
	s.registry.Register(TemplateFoodSpawner, "food_spawner", func() Bundle {
		return Bundle{FoodSpawner: &components.FoodSpawner{Template: TemplateFood, Interval: 1}}
	})
	pred, _ := s.Create(TemplatePredator, Overrides{})
	prey, _ := s.Create(TemplatePrey, Overrides{})
	food, _ := s.Create(TemplateFood, Overrides{})
	spawner, _ := s.Create(TemplateFoodSpawner, Overrides{})
	s.Add(food, components.FoodLock{Owner: pred})
	s.Add(pred, components.ReproductionRequest{X: 1})

	tests := []struct {
		name   string
		entity ecs.Entity
		kinds  []Kind
	}{
		{"predator", pred, []Kind{KindPosition, KindPredator, KindReproductionRequest}},
		{"prey", prey, []Kind{KindPosition, KindMover}},
		{"food", food, []Kind{KindPosition, KindFood, KindFoodLock}},
		{"spawner", spawner, []Kind{KindPosition, KindFoodSpawner}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make(map[Kind]bool)
			for _, k := range tt.kinds {
				want[k] = true
			}
			for k := KindPosition; k <= KindReproductionRequest; k++ {
				if got := s.Has(tt.entity, k); got != want[k] {
					t.Errorf("Has(%s) = %v, want %v", k, got, want[k])
				}
			}
		})
	}

	snap := NewFoodSnapshot()
	s.CaptureFood(snap)
	if got := snap.OwnerOf(food); got != pred {
		t.Errorf("snapshot owner = %v, want %v", got, pred)
	}
	entries := s.CapturePredators(nil)
	if len(entries) != 1 || entries[0].Request == nil || entries[0].Request.X != 1 {
		t.Errorf("captured predators = %+v, want one with a pending request", entries)
	}
	if locks := s.Locks(); len(locks) != 1 || locks[0].Food != food {
		t.Errorf("Locks() = %+v", locks)
	}
}
