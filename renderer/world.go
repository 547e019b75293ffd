// Package renderer draws the simulation world with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/wyixiang/ikerEcsProject/camera"
	"github.com/wyixiang/ikerEcsProject/store"
	"github.com/wyixiang/ikerEcsProject/ui"
)

// Entity radii in world units.
const (
	preyRadius     = 0.25
	predatorRadius = 0.35
	foodRadius     = 0.15
)

// WorldRenderer draws entities through a camera. It reuses its snapshot
// buffers between frames and must only run between ticks.
type WorldRenderer struct {
	food     *store.FoodSnapshot
	movers   []store.MoverEntry
	preds    []store.PredatorEntry
	spawners []store.SpawnerEntry

	ShowTargets bool
}

// NewWorldRenderer creates a world renderer.
func NewWorldRenderer() *WorldRenderer {
	return &WorldRenderer{
		food:        store.NewFoodSnapshot(),
		ShowTargets: true,
	}
}

// Draw renders the bounds outline, spawners, food, prey and predators.
func (w *WorldRenderer) Draw(s *store.Store, cam *camera.Camera, spawnRadius float32) {
	w.drawBounds(cam)

	w.spawners = s.CaptureSpawners(w.spawners)
	for _, sp := range w.spawners {
		x, y := cam.WorldToScreen(sp.Pos.X, sp.Pos.Y)
		rl.DrawCircleLines(int32(x), int32(y), spawnRadius*cam.Zoom, ui.Palette.Spawner)
	}

	s.CaptureFood(w.food)
	for i := range w.food.Entities {
		p := w.food.Pos[i]
		if !cam.IsVisible(p.X, p.Y, foodRadius) {
			continue
		}
		color := ui.Palette.Food
		if !w.food.Owner[i].IsZero() {
			color = ui.Palette.LockedFood
		}
		w.circle(cam, p.X, p.Y, foodRadius, color)
	}

	w.movers = s.CaptureMovers(w.movers)
	for _, m := range w.movers {
		if cam.IsVisible(m.Pos.X, m.Pos.Y, preyRadius) {
			w.circle(cam, m.Pos.X, m.Pos.Y, preyRadius, ui.Palette.Prey)
		}
	}

	w.preds = s.CapturePredators(w.preds)
	for _, p := range w.preds {
		if w.ShowTargets && p.State.HasTarget() {
			if tp, ok := s.Position(p.State.Target); ok {
				x0, y0 := cam.WorldToScreen(p.Pos.X, p.Pos.Y)
				x1, y1 := cam.WorldToScreen(tp.X, tp.Y)
				rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, ui.Palette.Target)
			}
		}
		if cam.IsVisible(p.Pos.X, p.Pos.Y, predatorRadius) {
			w.circle(cam, p.Pos.X, p.Pos.Y, predatorRadius, ui.Palette.Predator)
		}
	}
}

func (w *WorldRenderer) circle(cam *camera.Camera, x, y, radius float32, color rl.Color) {
	sx, sy := cam.WorldToScreen(x, y)
	r := radius * cam.Zoom
	if r < 2 {
		r = 2
	}
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r, color)
}

// drawBounds outlines the movement bounds, inset by a pixel so the edge
// stays on screen.
func (w *WorldRenderer) drawBounds(cam *camera.Camera) {
	b := cam.Bounds()
	x0, y0 := cam.WorldToScreen(b.MinX, b.MaxY)
	x1, y1 := cam.WorldToScreen(b.MaxX, b.MinY)
	rl.DrawRectangleLines(int32(x0)+1, int32(y0)+1, int32(x1-x0)-2, int32(y1-y0)-2, ui.Palette.Bounds)
}
