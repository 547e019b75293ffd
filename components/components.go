// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Position represents an entity's planar world position.
type Position struct {
	X, Y float32
}

// Mover drives a free-roaming entity in a straight line with periodic
// redirection and boundary bounce.
type Mover struct {
	DirX, DirY     float32 // unit vector
	Speed          float32
	ChangeInterval float32 // seconds between random redirections
	Timer          float32 // seconds since last redirection
}

// Predator holds hunting state and static parameters.
type Predator struct {
	Target             ecs.Entity // zero entity = no target
	MoveSpeed          float32
	EatRange           float32
	FoodEaten          int32
	ReproduceThreshold int32
	WanderX, WanderY   float32 // unit vector used while idle
}

// HasTarget reports whether the predator currently holds a target handle.
func (p *Predator) HasTarget() bool {
	return !p.Target.IsZero()
}

// TemplateID names a spawnable entity template in the store registry.
type TemplateID uint8

// Food tags an edible entity.
type Food struct{}

// FoodLock marks a food entity as claimed. At most one per food entity.
type FoodLock struct {
	Owner ecs.Entity
}

// FoodSpawner periodically instantiates food around its position.
type FoodSpawner struct {
	Template      TemplateID
	Interval      float32
	NextSpawnTime float64 // simulation clock, seconds
	Radius        float32
}

// ReproductionRequest is attached by MoveAndEat and consumed by Reproduce.
type ReproductionRequest struct {
	X, Y float32 // parent position when the request was made
}
