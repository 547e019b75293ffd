package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/wyixiang/ikerEcsProject/components"
	"github.com/wyixiang/ikerEcsProject/store"
)

// PredatorParams carries per-tick inputs shared by the predator phases.
type PredatorParams struct {
	Seed   uint64
	Tick   uint64
	DT     float32
	Bounds Bounds

	WanderSpeedFactor float32 // fraction of MoveSpeed used while idle
	ChaseRange        float32 // 0 = unlimited
}

// FindStats counts FindTarget outcomes for one chunk.
type FindStats struct {
	Kept    int // target still present, nothing enqueued
	Claimed int // lock requested on a new target
	Idle    int // no candidate, new wander direction
}

// Add accumulates o into s.
func (s *FindStats) Add(o FindStats) {
	s.Kept += o.Kept
	s.Claimed += o.Claimed
	s.Idle += o.Idle
}

// FindTarget acquires targets for the predators in entries against the
// tick-start food snapshot. A predator whose target is still present is left
// untouched. Otherwise the nearest unlocked food wins, ties going to the
// first entry in snapshot order, and a lock plus the new target are enqueued.
// Several predators may pick the same food; replay keeps the first lock and
// MoveAndEat corrects the losers.
func FindTarget(entries []store.PredatorEntry, food *store.FoodSnapshot, p PredatorParams, buf *store.CommandBuffer) FindStats {
	var stats FindStats
	for i := range entries {
		en := &entries[i]
		st := en.State
		if st.HasTarget() && food.Contains(st.Target) {
			stats.Kept++
			continue
		}

		id := en.Entity.ID()
		best := nearestUnlocked(en.Pos, food, p.ChaseRange)
		if best >= 0 {
			target := food.Entities[best]
			buf.AddComponent(id, target, components.FoodLock{Owner: en.Entity})
			st.Target = target
			stats.Claimed++
		} else {
			st.Target = ecs.Entity{}
			st.WanderX, st.WanderY = Derive(p.Seed, id, Salt(PhaseWander, p.Tick)).UnitVector()
			stats.Idle++
		}
		buf.SetComponent(id, en.Entity, st)
	}
	return stats
}

// nearestUnlocked returns the snapshot index of the closest unlocked food
// within chaseRange (0 = unlimited), or -1.
func nearestUnlocked(pos components.Position, food *store.FoodSnapshot, chaseRange float32) int {
	best := -1
	bestD := float32(math.MaxFloat32)
	if chaseRange > 0 {
		bestD = chaseRange * chaseRange
	}
	for i := range food.Entities {
		if !food.Owner[i].IsZero() {
			continue
		}
		fp := food.Pos[i]
		d := distanceSq(pos.X, pos.Y, fp.X, fp.Y)
		if d < bestD || (best < 0 && d == bestD) {
			best = i
			bestD = d
		}
	}
	return best
}

// MoveStats counts MoveAndEat outcomes for one chunk.
type MoveStats struct {
	Chasing    int
	Eaten      int
	LostRaces  int
	Wandering  int
	Requests   int     // reproduction requests recorded
	ChaseDistS float64 // sum of distances to target before moving
}

// Add accumulates o into s.
func (s *MoveStats) Add(o MoveStats) {
	s.Chasing += o.Chasing
	s.Eaten += o.Eaten
	s.LostRaces += o.LostRaces
	s.Wandering += o.Wandering
	s.Requests += o.Requests
	s.ChaseDistS += o.ChaseDistS
}

// MoveAndEat moves predators toward their targets and consumes food in range.
// food must carry lock ownership as of the FindTarget replay.
//
// A predator whose target's lock is missing or owned by someone else lost the
// claim race: its target is cleared and it does nothing else this tick.
// A predator without a present target wanders with the bounce rules at
// MoveSpeed * WanderSpeedFactor.
func MoveAndEat(entries []store.PredatorEntry, food *store.FoodSnapshot, p PredatorParams, buf *store.CommandBuffer) MoveStats {
	var stats MoveStats
	for i := range entries {
		en := &entries[i]
		st := en.State
		pos := en.Pos
		id := en.Entity.ID()

		if st.HasTarget() && food.Contains(st.Target) {
			if food.OwnerOf(st.Target) != en.Entity {
				st.Target = ecs.Entity{}
				buf.SetComponent(id, en.Entity, st)
				stats.LostRaces++
				continue
			}

			fi, _ := food.Index(st.Target)
			tp := food.Pos[fi]
			dist := distance(pos.X, pos.Y, tp.X, tp.Y)
			stats.ChaseDistS += float64(dist)
			stats.Chasing++

			step := st.MoveSpeed * p.DT
			if step > dist {
				step = dist
			}
			dx, dy := normalize(tp.X-pos.X, tp.Y-pos.Y)
			pos.X += dx * step
			pos.Y += dy * step
			buf.SetComponent(id, en.Entity, pos)

			if distance(pos.X, pos.Y, tp.X, tp.Y) <= st.EatRange {
				buf.RemoveComponent(id, st.Target, store.KindFoodLock)
				buf.Destroy(id, st.Target)
				st.Target = ecs.Entity{}
				st.FoodEaten++
				stats.Eaten++
				if st.FoodEaten >= st.ReproduceThreshold {
					buf.AddComponent(id, en.Entity, components.ReproductionRequest{X: pos.X, Y: pos.Y})
					st.FoodEaten = 0
					stats.Requests++
				}
			}
			buf.SetComponent(id, en.Entity, st)
			continue
		}

		// Target vanished between snapshots or never existed.
		st.Target = ecs.Entity{}
		pos, st.WanderX, st.WanderY = Bounce(pos, st.WanderX, st.WanderY, st.MoveSpeed*p.WanderSpeedFactor, p.Bounds, p.DT)
		buf.SetComponent(id, en.Entity, pos)
		buf.SetComponent(id, en.Entity, st)
		stats.Wandering++
	}
	return stats
}

// ReproduceParams carries inputs for the Reproduce phase.
type ReproduceParams struct {
	Seed uint64
	Tick uint64

	Population int // predator count measured at phase start
	Cap        int
	Offset     float32 // distance of the child from the request point
	Inherit    bool    // clone parent parameters; false keeps template defaults
}

// ReproduceStats counts Reproduce outcomes for one chunk.
type ReproduceStats struct {
	Births int
	Capped int
}

// Add accumulates o into s.
func (s *ReproduceStats) Add(o ReproduceStats) {
	s.Births += o.Births
	s.Capped += o.Capped
}

// Reproduce consumes every pending reproduction request. While the phase-start
// population is below the cap each request enqueues one child at the request
// point plus a random offset. The cap is checked against the phase-start
// count only, so one tick can end with up to Cap-1+requesters predators.
func Reproduce(entries []store.PredatorEntry, p ReproduceParams, buf *store.CommandBuffer) ReproduceStats {
	var stats ReproduceStats
	for i := range entries {
		en := &entries[i]
		if en.Request == nil {
			continue
		}
		id := en.Entity.ID()
		buf.RemoveComponent(id, en.Entity, store.KindReproductionRequest)
		if p.Population >= p.Cap {
			stats.Capped++
			continue
		}

		rng := Derive(p.Seed, id, Salt(PhaseReproduce, p.Tick))
		ox, oy := rng.UnitVector()
		o := store.Overrides{
			Position: components.Position{X: en.Request.X + ox*p.Offset, Y: en.Request.Y + oy*p.Offset},
			Heading:  randomHeading(rng),
		}
		if p.Inherit {
			child := en.State
			child.Target = ecs.Entity{}
			child.FoodEaten = 0
			o.Predator = &child
		}
		buf.Instantiate(id, store.TemplatePredator, o)
		stats.Births++
	}
	return stats
}
