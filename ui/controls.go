package ui

import (
	"fmt"
	"sync/atomic"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel renders the pause button and speed controls.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the controls. Clicking Pause/Resume flips enabled; the speed
// buttons return the new steps-per-update value.
func (c *ControlsPanel) Draw(enabled *atomic.Bool, speed int) int {
	r := c.renderer
	r.DrawPanel(c.x, c.y, c.width, 50)

	x := float32(c.x + r.Theme.Padding)
	y := float32(c.y + 10)

	label := "Pause"
	if !enabled.Load() {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 80, Height: 30}, label) {
		enabled.Store(!enabled.Load())
	}
	x += 90

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 30, Height: 30}, "<") && speed > 1 {
		speed--
	}
	x += 35
	rl.DrawText(fmt.Sprintf("%dx", speed), int32(x)+4, int32(y)+8, 14, rl.LightGray)
	x += 35
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 30, Height: 30}, ">") && speed < 10 {
		speed++
	}
	return speed
}
