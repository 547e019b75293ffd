package store

import (
	"errors"
	"testing"

	"github.com/wyixiang/ikerEcsProject/components"
)

func TestReplayWorkerOrderDecidesLock(t *testing.T) {
	s := New(testRegistry())
	food, _ := s.Create(TemplateFood, Overrides{})
	a, _ := s.Create(TemplatePredator, Overrides{})
	b, _ := s.Create(TemplatePredator, Overrides{})

	w0 := NewCommandBuffer(4)
	w1 := NewCommandBuffer(4)
	// Worker 1 enqueues first in wall-clock terms; worker order still wins.
	w1.AddComponent(b.ID(), food, components.FoodLock{Owner: b})
	w0.AddComponent(a.ID(), food, components.FoodLock{Owner: a})

	stats, err := Replay(s, w0, w1)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if stats.Applied != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 applied, 1 skipped", stats)
	}
	lock, _ := s.FoodLock(food)
	if lock.Owner != a {
		t.Errorf("owner = %v, want worker 0's predator %v", lock.Owner, a)
	}
	if w0.Len() != 0 || w1.Len() != 0 {
		t.Error("buffers not reset after replay")
	}
}

func TestReplayEnqueueOrderWithinBuffer(t *testing.T) {
	s := New(testRegistry())
	food, _ := s.Create(TemplateFood, Overrides{})
	pred, _ := s.Create(TemplatePredator, Overrides{})

	buf := NewCommandBuffer(4)
	buf.AddComponent(pred.ID(), food, components.FoodLock{Owner: pred})
	buf.RemoveComponent(pred.ID(), food, KindFoodLock)
	buf.Destroy(pred.ID(), food)
	buf.SetComponent(pred.ID(), food, components.Position{X: 5})

	stats, err := Replay(s, buf)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if s.IsLive(food) {
		t.Error("food survived destroy")
	}
	if stats.Applied != 3 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 3 applied, 1 skipped", stats)
	}
}

func TestReplayInstantiate(t *testing.T) {
	s := New(testRegistry())
	buf := NewCommandBuffer(2)
	buf.Instantiate(0, TemplateFood, Overrides{Position: components.Position{X: 2, Y: -1}})
	buf.Instantiate(0, TemplatePredator, Overrides{
		Position: components.Position{X: 1},
		Predator: &components.Predator{MoveSpeed: 7},
	})

	stats, err := Replay(s, buf)
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(stats.Created) != 2 {
		t.Fatalf("created %d entities, want 2", len(stats.Created))
	}
	pos, _ := s.Position(stats.Created[0])
	if pos.X != 2 || pos.Y != -1 {
		t.Errorf("food position = %+v", pos)
	}
	pred, _ := s.Predator(stats.Created[1])
	if pred.MoveSpeed != 7 {
		t.Errorf("MoveSpeed = %v, want 7", pred.MoveSpeed)
	}
}

func TestReplayUnknownTemplateFails(t *testing.T) {
	s := New(testRegistry())
	buf := NewCommandBuffer(2)
	buf.Instantiate(0, TemplateFoodSpawner, Overrides{})
	buf.Instantiate(0, TemplateFood, Overrides{})

	_, err := Replay(s, buf)
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("err = %v, want ErrUnknownTemplate", err)
	}
	if buf.Len() != 0 {
		t.Error("buffer not reset after failed replay")
	}
}
