package systems

import (
	"math"
	"testing"

	"github.com/wyixiang/ikerEcsProject/components"
	"github.com/wyixiang/ikerEcsProject/store"
)

// ---------- Bounce ----------

func TestBounce(t *testing.T) {
	tests := []struct {
		name       string
		pos        components.Position
		dirX, dirY float32
		speed, dt  float32
		wantPos    components.Position
		wantDirX   float32
		wantDirY   float32
	}{
		{"interior", components.Position{X: 0, Y: 0}, 1, 0, 2, 0.5, components.Position{X: 1, Y: 0}, 1, 0},
		{"max x", components.Position{X: 9.9, Y: 0}, 1, 0, 1, 1, components.Position{X: 10, Y: 0}, -1, 0},
		{"min y", components.Position{X: 0, Y: -9.5}, 0, -1, 1, 1, components.Position{X: 0, Y: -10}, 0, 1},
		{"corner", components.Position{X: 9.5, Y: 9.5}, 0.6, 0.8, 2, 1, components.Position{X: 10, Y: 10}, -0.6, -0.8},
		{"on edge stays", components.Position{X: 10, Y: 0}, 0, 1, 1, 1, components.Position{X: 10, Y: 1}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, dx, dy := Bounce(tt.pos, tt.dirX, tt.dirY, tt.speed, testBounds, tt.dt)
			if math.Abs(float64(pos.X-tt.wantPos.X)) > 1e-5 || math.Abs(float64(pos.Y-tt.wantPos.Y)) > 1e-5 {
				t.Errorf("pos = %+v, want %+v", pos, tt.wantPos)
			}
			if dx != tt.wantDirX || dy != tt.wantDirY {
				t.Errorf("dir = (%v, %v), want (%v, %v)", dx, dy, tt.wantDirX, tt.wantDirY)
			}
		})
	}
}

// ---------- StepMover ----------

func TestStepMover_RedirectsOnInterval(t *testing.T) {
	p := MoverParams{Seed: 1, Tick: 1, DT: 1, Bounds: Bounds{MinX: -100, MinY: -100, MaxX: 100, MaxY: 100}}
	mv := components.Mover{DirX: 1, Speed: 1, ChangeInterval: 2}

	_, mv = StepMover(3, components.Position{}, mv, p)
	if mv.DirX != 1 || mv.DirY != 0 || mv.Timer != 1 {
		t.Fatalf("after 1s: %+v, want unchanged direction and timer 1", mv)
	}

	p.Tick = 2
	_, mv = StepMover(3, components.Position{}, mv, p)
	if mv.Timer != 0 {
		t.Errorf("timer = %v, want reset to 0", mv.Timer)
	}
	wantX, wantY := Derive(1, 3, Salt(PhaseRedirect, 2)).UnitVector()
	if mv.DirX != wantX || mv.DirY != wantY {
		t.Errorf("dir = (%v, %v), want (%v, %v)", mv.DirX, mv.DirY, wantX, wantY)
	}
}

func TestMoveChunk_EnqueuesAndReplays(t *testing.T) {
	s := newTestStore()
	e := mustCreate(t, s, store.TemplatePrey, store.Overrides{
		Position: components.Position{X: 9.9},
		Mover:    &components.Mover{DirX: 1, Speed: 1, ChangeInterval: 100},
	})
	entries := s.CaptureMovers(nil)
	buf := store.NewCommandBuffer(4)

	s.Freeze()
	MoveChunk(entries, MoverParams{DT: 1, Bounds: testBounds}, buf)
	s.Thaw()
	mustReplay(t, s, buf)

	pos, _ := s.Position(e)
	mv, _ := s.Mover(e)
	if pos.X != 10 || mv.DirX != -1 {
		t.Errorf("pos.X = %v dir.X = %v, want 10 and -1", pos.X, mv.DirX)
	}
}
