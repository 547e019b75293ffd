// Package store owns entity identity and component storage on top of an ark
// world, plus the command buffers that defer mutations made during parallel
// phases.
package store

import (
	"fmt"
	"sync/atomic"

	"github.com/mlange-42/ark/ecs"

	"github.com/wyixiang/ikerEcsProject/components"
)

// Kind identifies a component type for removal and presence checks.
type Kind uint8

const (
	KindPosition Kind = iota
	KindMover
	KindPredator
	KindFood
	KindFoodLock
	KindFoodSpawner
	KindReproductionRequest
)

var kindNames = [...]string{
	KindPosition:            "position",
	KindMover:               "mover",
	KindPredator:            "predator",
	KindFood:                "food",
	KindFoodLock:            "food_lock",
	KindFoodSpawner:         "food_spawner",
	KindReproductionRequest: "reproduction_request",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind#%d", k)
}

// Heading is a unit direction.
type Heading struct {
	X, Y float32
}

// Overrides replaces parts of a template bundle at creation time.
// Nil pointers keep the template's value. Heading is applied last, to the
// mover direction and the predator wander direction when present.
type Overrides struct {
	Position components.Position
	Mover    *components.Mover
	Predator *components.Predator
	Heading  *Heading
}

func (o Overrides) apply(b *Bundle) {
	b.Position = o.Position
	if o.Mover != nil {
		m := *o.Mover
		b.Mover = &m
	}
	if o.Predator != nil {
		p := *o.Predator
		b.Predator = &p
	}
	if o.Heading != nil {
		if b.Mover != nil {
			b.Mover.DirX, b.Mover.DirY = o.Heading.X, o.Heading.Y
		}
		if b.Predator != nil {
			b.Predator.WanderX, b.Predator.WanderY = o.Heading.X, o.Heading.Y
		}
	}
}

// Store holds the ECS world and typed component access.
//
// Structural changes must happen on a single goroutine. While frozen, every
// mutating call panics: parallel phases enqueue on a CommandBuffer instead.
type Store struct {
	world    *ecs.World
	registry *Registry
	frozen   atomic.Bool

	posMap     *ecs.Map1[components.Position]
	moverMap   *ecs.Map1[components.Mover]
	predMap    *ecs.Map1[components.Predator]
	foodMap    *ecs.Map1[components.Food]
	lockMap    *ecs.Map1[components.FoodLock]
	spawnerMap *ecs.Map1[components.FoodSpawner]
	reqMap     *ecs.Map1[components.ReproductionRequest]

	predFilter    *ecs.Filter2[components.Position, components.Predator]
	moverFilter   *ecs.Filter2[components.Position, components.Mover]
	foodFilter    *ecs.Filter2[components.Position, components.Food]
	spawnerFilter *ecs.Filter2[components.Position, components.FoodSpawner]
}

// New creates an empty store backed by a fresh world.
func New(registry *Registry) *Store {
	world := ecs.NewWorld()
	return &Store{
		world:    world,
		registry: registry,

		posMap:     ecs.NewMap1[components.Position](world),
		moverMap:   ecs.NewMap1[components.Mover](world),
		predMap:    ecs.NewMap1[components.Predator](world),
		foodMap:    ecs.NewMap1[components.Food](world),
		lockMap:    ecs.NewMap1[components.FoodLock](world),
		spawnerMap: ecs.NewMap1[components.FoodSpawner](world),
		reqMap:     ecs.NewMap1[components.ReproductionRequest](world),

		predFilter:    ecs.NewFilter2[components.Position, components.Predator](world),
		moverFilter:   ecs.NewFilter2[components.Position, components.Mover](world),
		foodFilter:    ecs.NewFilter2[components.Position, components.Food](world),
		spawnerFilter: ecs.NewFilter2[components.Position, components.FoodSpawner](world),
	}
}

// Registry returns the template registry.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Freeze forbids direct mutation until Thaw.
func (s *Store) Freeze() {
	s.frozen.Store(true)
}

// Thaw re-enables direct mutation.
func (s *Store) Thaw() {
	s.frozen.Store(false)
}

// Frozen reports whether direct mutation is currently forbidden.
func (s *Store) Frozen() bool {
	return s.frozen.Load()
}

func (s *Store) mustBeThawed(op string) {
	if s.frozen.Load() {
		panic("store: " + op + " called during a parallel phase; enqueue on a CommandBuffer")
	}
}

// IsLive reports whether e refers to a live entity. Stale handles from a
// recycled slot fail this check.
func (s *Store) IsLive(e ecs.Entity) bool {
	return !e.IsZero() && s.world.Alive(e)
}

// Create instantiates a template with the given overrides.
func (s *Store) Create(id components.TemplateID, o Overrides) (ecs.Entity, error) {
	s.mustBeThawed("Create")
	b, err := s.registry.Build(id)
	if err != nil {
		return ecs.Entity{}, err
	}
	o.apply(&b)

	e := s.posMap.NewEntity(&b.Position)
	if b.Mover != nil {
		s.moverMap.Add(e, b.Mover)
	}
	if b.Predator != nil {
		s.predMap.Add(e, b.Predator)
	}
	if b.FoodSpawner != nil {
		s.spawnerMap.Add(e, b.FoodSpawner)
	}
	if b.Food {
		s.foodMap.Add(e, &components.Food{})
	}
	return e, nil
}

// Destroy removes a live entity. The slot is recycled with a new generation.
func (s *Store) Destroy(e ecs.Entity) bool {
	s.mustBeThawed("Destroy")
	if !s.IsLive(e) {
		return false
	}
	s.world.RemoveEntity(e)
	return true
}

// Has reports whether a live entity carries a component kind.
func (s *Store) Has(e ecs.Entity, k Kind) bool {
	if !s.IsLive(e) {
		return false
	}
	switch k {
	case KindPosition:
		return s.posMap.HasAll(e)
	case KindMover:
		return s.moverMap.HasAll(e)
	case KindPredator:
		return s.predMap.HasAll(e)
	case KindFood:
		return s.foodMap.HasAll(e)
	case KindFoodLock:
		return s.lockMap.HasAll(e)
	case KindFoodSpawner:
		return s.spawnerMap.HasAll(e)
	case KindReproductionRequest:
		return s.reqMap.HasAll(e)
	}
	return false
}

// Add attaches comp to e. It is a no-op returning false when e is dead or
// already carries a component of that kind.
func (s *Store) Add(e ecs.Entity, comp any) bool {
	s.mustBeThawed("Add")
	k, ok := kindOf(comp)
	if !ok || !s.IsLive(e) || s.Has(e, k) {
		return false
	}
	switch c := comp.(type) {
	case components.Position:
		s.posMap.Add(e, &c)
	case components.Mover:
		s.moverMap.Add(e, &c)
	case components.Predator:
		s.predMap.Add(e, &c)
	case components.Food:
		s.foodMap.Add(e, &c)
	case components.FoodLock:
		s.lockMap.Add(e, &c)
	case components.FoodSpawner:
		s.spawnerMap.Add(e, &c)
	case components.ReproductionRequest:
		s.reqMap.Add(e, &c)
	}
	return true
}

// Set overwrites an existing component of e. It is a no-op returning false
// when e is dead or lacks that kind.
func (s *Store) Set(e ecs.Entity, comp any) bool {
	s.mustBeThawed("Set")
	k, ok := kindOf(comp)
	if !ok || !s.Has(e, k) {
		return false
	}
	switch c := comp.(type) {
	case components.Position:
		*s.posMap.Get(e) = c
	case components.Mover:
		*s.moverMap.Get(e) = c
	case components.Predator:
		*s.predMap.Get(e) = c
	case components.Food:
	case components.FoodLock:
		*s.lockMap.Get(e) = c
	case components.FoodSpawner:
		*s.spawnerMap.Get(e) = c
	case components.ReproductionRequest:
		*s.reqMap.Get(e) = c
	}
	return true
}

// Remove detaches a component kind from e. Position cannot be removed.
func (s *Store) Remove(e ecs.Entity, k Kind) bool {
	s.mustBeThawed("Remove")
	if k == KindPosition || !s.Has(e, k) {
		return false
	}
	switch k {
	case KindMover:
		s.moverMap.Remove(e)
	case KindPredator:
		s.predMap.Remove(e)
	case KindFood:
		s.foodMap.Remove(e)
	case KindFoodLock:
		s.lockMap.Remove(e)
	case KindFoodSpawner:
		s.spawnerMap.Remove(e)
	case KindReproductionRequest:
		s.reqMap.Remove(e)
	}
	return true
}

func kindOf(comp any) (Kind, bool) {
	switch comp.(type) {
	case components.Position:
		return KindPosition, true
	case components.Mover:
		return KindMover, true
	case components.Predator:
		return KindPredator, true
	case components.Food:
		return KindFood, true
	case components.FoodLock:
		return KindFoodLock, true
	case components.FoodSpawner:
		return KindFoodSpawner, true
	case components.ReproductionRequest:
		return KindReproductionRequest, true
	}
	return 0, false
}

// Position returns a copy of e's position.
func (s *Store) Position(e ecs.Entity) (components.Position, bool) {
	if !s.Has(e, KindPosition) {
		return components.Position{}, false
	}
	return *s.posMap.Get(e), true
}

// Mover returns a copy of e's movement state.
func (s *Store) Mover(e ecs.Entity) (components.Mover, bool) {
	if !s.Has(e, KindMover) {
		return components.Mover{}, false
	}
	return *s.moverMap.Get(e), true
}

// Predator returns a copy of e's predator state.
func (s *Store) Predator(e ecs.Entity) (components.Predator, bool) {
	if !s.Has(e, KindPredator) {
		return components.Predator{}, false
	}
	return *s.predMap.Get(e), true
}

// FoodLock returns a copy of e's lock.
func (s *Store) FoodLock(e ecs.Entity) (components.FoodLock, bool) {
	if !s.Has(e, KindFoodLock) {
		return components.FoodLock{}, false
	}
	return *s.lockMap.Get(e), true
}

// FoodSpawner returns a copy of e's spawner state.
func (s *Store) FoodSpawner(e ecs.Entity) (components.FoodSpawner, bool) {
	if !s.Has(e, KindFoodSpawner) {
		return components.FoodSpawner{}, false
	}
	return *s.spawnerMap.Get(e), true
}

// ReproductionRequest returns a copy of e's pending request.
func (s *Store) ReproductionRequest(e ecs.Entity) (components.ReproductionRequest, bool) {
	if !s.Has(e, KindReproductionRequest) {
		return components.ReproductionRequest{}, false
	}
	return *s.reqMap.Get(e), true
}

// Counts holds aggregate entity counts.
type Counts struct {
	Predators  int
	Prey       int
	Food       int
	LockedFood int
	Spawners   int
}

// Count walks every live entity once.
func (s *Store) Count() Counts {
	var c Counts
	pq := s.predFilter.Query()
	for pq.Next() {
		c.Predators++
	}
	mq := s.moverFilter.Query()
	for mq.Next() {
		c.Prey++
	}
	fq := s.foodFilter.Query()
	for fq.Next() {
		c.Food++
		if s.lockMap.HasAll(fq.Entity()) {
			c.LockedFood++
		}
	}
	sq := s.spawnerFilter.Query()
	for sq.Next() {
		c.Spawners++
	}
	return c
}
