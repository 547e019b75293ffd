package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/wyixiang/ikerEcsProject/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Predators  int
	Prey       int
	Food       int
	LockedFood int
	Cap        int
	Tick       int32
	SimTime    float64
	Speed      int
	FPS        int32
	Paused     bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Predators: %d | Prey: %d | Food: %d (%d locked)", data.Predators, data.Prey, data.Food, data.LockedFood),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	h.renderer.DrawBar(10, 97, "Predator cap", float32(data.Predators), float32(data.Cap), 0.9, 300)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats, workers int) {
	r := p.renderer
	lh := r.Theme.LineHeight
	height := r.Theme.Padding*2 + lh*int32(len(telemetry.Phases)+3)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Tick Phases")
	rl.DrawText(fmt.Sprintf("Avg: %s p95: %s | Workers: %d", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond), workers), x, y, 12, rl.Yellow)
	y += lh

	for _, ph := range telemetry.Phases {
		pct := stats.PhasePct[ph]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-13s %7s %5.1f%%", ph, stats.PhaseAvg[ph].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += lh
	}
}

// StatsPanel renders the most recent telemetry window.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the window stats. ok is false until the first window flushes.
func (s *StatsPanel) Draw(w telemetry.WindowStats, ok bool) {
	r := s.renderer
	height := r.Theme.Padding*2 + r.Theme.LineHeight*9
	r.DrawPanel(s.x, s.y, s.width, height)

	x := s.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, s.y+r.Theme.Padding, "Last Window")
	if !ok {
		r.DrawLabelValue(x, y, "Status", "collecting")
		return
	}
	y = r.DrawLabelValue(x, y, "Ticks", fmt.Sprintf("%d-%d", w.WindowStartTick, w.WindowEndTick))
	y = r.DrawLabelValue(x, y, "Food", fmt.Sprintf("+%d / -%d", w.FoodSpawned, w.FoodEaten))
	y = r.DrawLabelValue(x, y, "Births", fmt.Sprintf("%d (%d capped)", w.Births, w.BirthsCapped))
	y = r.DrawLabelValue(x, y, "Claims", fmt.Sprintf("%d", w.Claims))
	y = r.DrawLabelValue(x, y, "Lost races", fmt.Sprintf("%d (%.0f%%)", w.LostRaces, w.LostRaceRate*100))
	y = r.DrawLabelValue(x, y, "Chase dist", fmt.Sprintf("%.2f", w.ChaseDistMean))
	r.DrawLabelValue(x, y, "Meals", fmt.Sprintf("%.1f +/- %.1f", w.MealsMean, w.MealsStd))
}
