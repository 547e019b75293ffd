// Package systems contains the per-tick simulation phases. Each phase reads
// an immutable snapshot and records its mutations on a CommandBuffer.
package systems

import (
	"github.com/wyixiang/ikerEcsProject/components"
	"github.com/wyixiang/ikerEcsProject/store"
)

// Bounds is the playable rectangle supplied by the viewport.
type Bounds struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b Bounds) Contains(x, y float32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Bounce advances pos along dir and reflects off the bounds. Each axis that
// leaves [min, max] has its direction component negated and its coordinate
// clamped, independently of the other axis.
func Bounce(pos components.Position, dirX, dirY, speed float32, b Bounds, dt float32) (components.Position, float32, float32) {
	x := pos.X + dirX*speed*dt
	y := pos.Y + dirY*speed*dt

	if x < b.MinX || x > b.MaxX {
		dirX = -dirX
		x = min(max(x, b.MinX), b.MaxX)
	}
	if y < b.MinY || y > b.MaxY {
		dirY = -dirY
		y = min(max(y, b.MinY), b.MaxY)
	}
	return components.Position{X: x, Y: y}, dirX, dirY
}

// MoverParams carries per-tick inputs shared by all movers.
type MoverParams struct {
	Seed   uint64
	Tick   uint64
	DT     float32
	Bounds Bounds
}

// StepMover advances one free mover by dt; index salts its random stream.
// The redirection timer runs independently of bounces: once it reaches
// ChangeInterval the direction is replaced by a fresh random unit vector and
// the timer restarts.
func StepMover(index uint32, pos components.Position, mv components.Mover, p MoverParams) (components.Position, components.Mover) {
	mv.Timer += p.DT
	if mv.ChangeInterval > 0 && mv.Timer >= mv.ChangeInterval {
		mv.DirX, mv.DirY = Derive(p.Seed, index, Salt(PhaseRedirect, p.Tick)).UnitVector()
		mv.Timer = 0
	}
	pos, mv.DirX, mv.DirY = Bounce(pos, mv.DirX, mv.DirY, mv.Speed, p.Bounds, p.DT)
	return pos, mv
}

// MoveChunk runs StepMover over entries and enqueues the results.
func MoveChunk(entries []store.MoverEntry, p MoverParams, buf *store.CommandBuffer) {
	for i := range entries {
		en := &entries[i]
		id := en.Entity.ID()
		pos, mv := StepMover(id, en.Pos, en.Mover, p)
		buf.SetComponent(id, en.Entity, pos)
		buf.SetComponent(id, en.Entity, mv)
	}
}
