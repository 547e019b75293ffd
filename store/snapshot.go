package store

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/wyixiang/ikerEcsProject/components"
)

// FoodSnapshot is the immutable view of food that predator phases read.
// Entries keep query order, which decides FindTarget ties.
type FoodSnapshot struct {
	Entities []ecs.Entity
	Pos      []components.Position
	Owner    []ecs.Entity // zero = unlocked
	index    map[ecs.Entity]int
}

// NewFoodSnapshot allocates an empty snapshot.
func NewFoodSnapshot() *FoodSnapshot {
	return &FoodSnapshot{index: make(map[ecs.Entity]int)}
}

// Len returns the number of food entries.
func (f *FoodSnapshot) Len() int {
	return len(f.Entities)
}

// Index returns the entry position of e.
func (f *FoodSnapshot) Index(e ecs.Entity) (int, bool) {
	i, ok := f.index[e]
	return i, ok
}

// Contains reports whether e was live food when the snapshot was taken.
func (f *FoodSnapshot) Contains(e ecs.Entity) bool {
	_, ok := f.index[e]
	return ok
}

// OwnerOf returns the lock owner recorded for e, zero if unlocked or absent.
func (f *FoodSnapshot) OwnerOf(e ecs.Entity) ecs.Entity {
	if i, ok := f.index[e]; ok {
		return f.Owner[i]
	}
	return ecs.Entity{}
}

// CaptureFood rebuilds snap from the current world, reusing its buffers.
func (s *Store) CaptureFood(snap *FoodSnapshot) {
	snap.Entities = snap.Entities[:0]
	snap.Pos = snap.Pos[:0]
	snap.Owner = snap.Owner[:0]
	clear(snap.index)

	q := s.foodFilter.Query()
	for q.Next() {
		e := q.Entity()
		pos, _ := q.Get()
		var owner ecs.Entity
		if s.lockMap.HasAll(e) {
			owner = s.lockMap.Get(e).Owner
		}
		snap.index[e] = len(snap.Entities)
		snap.Entities = append(snap.Entities, e)
		snap.Pos = append(snap.Pos, *pos)
		snap.Owner = append(snap.Owner, owner)
	}
}

// RefreshLocks re-reads lock ownership for the entries already in snap.
// Entries whose entity died keep a zero owner.
func (s *Store) RefreshLocks(snap *FoodSnapshot) {
	for i, e := range snap.Entities {
		snap.Owner[i] = ecs.Entity{}
		if s.Has(e, KindFoodLock) {
			snap.Owner[i] = s.lockMap.Get(e).Owner
		}
	}
}

// PredatorEntry is a read-only copy of one predator.
type PredatorEntry struct {
	Entity  ecs.Entity
	Pos     components.Position
	State   components.Predator
	Request *components.ReproductionRequest
}

// CapturePredators appends every predator to dst[:0] and returns it.
func (s *Store) CapturePredators(dst []PredatorEntry) []PredatorEntry {
	dst = dst[:0]
	q := s.predFilter.Query()
	for q.Next() {
		e := q.Entity()
		pos, pred := q.Get()
		entry := PredatorEntry{Entity: e, Pos: *pos, State: *pred}
		if s.reqMap.HasAll(e) {
			req := *s.reqMap.Get(e)
			entry.Request = &req
		}
		dst = append(dst, entry)
	}
	return dst
}

// MoverEntry is a read-only copy of one free-roaming entity.
type MoverEntry struct {
	Entity ecs.Entity
	Pos    components.Position
	Mover  components.Mover
}

// CaptureMovers appends every mover to dst[:0] and returns it.
func (s *Store) CaptureMovers(dst []MoverEntry) []MoverEntry {
	dst = dst[:0]
	q := s.moverFilter.Query()
	for q.Next() {
		pos, mv := q.Get()
		dst = append(dst, MoverEntry{Entity: q.Entity(), Pos: *pos, Mover: *mv})
	}
	return dst
}

// SpawnerEntry is a read-only copy of one food spawner.
type SpawnerEntry struct {
	Entity  ecs.Entity
	Pos     components.Position
	Spawner components.FoodSpawner
}

// CaptureSpawners appends every food spawner to dst[:0] and returns it.
func (s *Store) CaptureSpawners(dst []SpawnerEntry) []SpawnerEntry {
	dst = dst[:0]
	q := s.spawnerFilter.Query()
	for q.Next() {
		pos, sp := q.Get()
		dst = append(dst, SpawnerEntry{Entity: q.Entity(), Pos: *pos, Spawner: *sp})
	}
	return dst
}

// LockEntry pairs a locked food with its owner.
type LockEntry struct {
	Food  ecs.Entity
	Owner ecs.Entity
}

// Locks returns every live lock.
func (s *Store) Locks() []LockEntry {
	var out []LockEntry
	q := s.foodFilter.Query()
	for q.Next() {
		e := q.Entity()
		if s.lockMap.HasAll(e) {
			out = append(out, LockEntry{Food: e, Owner: s.lockMap.Get(e).Owner})
		}
	}
	return out
}
