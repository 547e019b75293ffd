// Package viewer runs the simulation in a raylib window with a camera,
// HUD and pause/speed controls.
package viewer

import (
	"fmt"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/wyixiang/ikerEcsProject/camera"
	"github.com/wyixiang/ikerEcsProject/config"
	"github.com/wyixiang/ikerEcsProject/game"
	"github.com/wyixiang/ikerEcsProject/renderer"
	"github.com/wyixiang/ikerEcsProject/systems"
	"github.com/wyixiang/ikerEcsProject/telemetry"
	"github.com/wyixiang/ikerEcsProject/ui"
)

const controlsLegend = "SPACE pause | < > speed | arrows pan | wheel/+/- zoom | HOME reset view | T targets | F3 perf | F11 fullscreen"

// Viewer owns the window-side state around a game.
type Viewer struct {
	game    *game.Game
	cfg     *config.Config
	camera  *camera.Camera
	enabled atomic.Bool

	world    *renderer.WorldRenderer
	hud      *ui.HUD
	controls *ui.ControlsPanel
	perf     *ui.PerfPanel
	stats    *ui.StatsPanel

	screenWidth, screenHeight float32
	showPerf                  bool
	lastWindow                telemetry.WindowStats
	haveWindow                bool
}

// New creates the viewer and its game. The raylib window must already be
// open. The camera supplies the game's movement bounds and the pause button
// owns its enabled flag; both override whatever opts carries.
func New(cfg *config.Config, opts game.Options) (*Viewer, error) {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	v := &Viewer{
		cfg: cfg,
		camera: camera.New(w, h, systems.Bounds{
			MinX: float32(cfg.World.MinX), MinY: float32(cfg.World.MinY),
			MaxX: float32(cfg.World.MaxX), MaxY: float32(cfg.World.MaxY),
		}),
		world:        renderer.NewWorldRenderer(),
		hud:          ui.NewHUD(),
		controls:     ui.NewControlsPanel(10, 125, 220),
		perf:         ui.NewPerfPanel(int32(w)-290, 10, 280),
		stats:        ui.NewStatsPanel(int32(w)-290, 200, 280),
		screenWidth:  w,
		screenHeight: h,
	}
	v.enabled.Store(true)

	forward := opts.StatsCallback
	opts.Config = cfg
	opts.Bounds = v.camera
	opts.Enabled = &v.enabled
	opts.StatsCallback = func(s telemetry.WindowStats) {
		v.lastWindow = s
		v.haveWindow = true
		if forward != nil {
			forward(s)
		}
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return nil, err
	}
	v.game = g
	return v, nil
}

// Game returns the simulation driven by the viewer.
func (v *Viewer) Game() *game.Game {
	return v.game
}

// Frame handles input, advances the simulation and draws one frame.
func (v *Viewer) Frame() error {
	v.handleInput()
	if err := v.game.Update(); err != nil {
		return err
	}
	v.draw()
	v.game.RecordFrame()
	return nil
}

func (v *Viewer) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 14, B: 18, A: 255})

	v.world.Draw(v.game.Store(), v.camera, float32(v.cfg.Food.SpawnRadius))

	pop := v.game.Population()
	v.hud.Draw(ui.HUDData{
		Title:      "Forage",
		Predators:  pop.Predators(),
		Prey:       pop.Prey(),
		Food:       pop.Food(),
		LockedFood: pop.LockedFood(),
		Cap:        v.cfg.Predator.PopulationCap,
		Tick:       v.game.Tick(),
		SimTime:    v.game.Clock(),
		Speed:      v.game.StepsPerUpdate(),
		FPS:        rl.GetFPS(),
		Paused:     !v.enabled.Load(),
	})

	speed := v.controls.Draw(&v.enabled, v.game.StepsPerUpdate())
	v.game.SetStepsPerUpdate(speed)

	if v.showPerf {
		v.perf.Draw(v.game.Perf(), v.game.Workers())
		v.stats.Draw(v.lastWindow, v.haveWindow)
	}

	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)
}

// Title formats the window title for a run.
func Title(runID string) string {
	return fmt.Sprintf("Forage [%s]", runID)
}
