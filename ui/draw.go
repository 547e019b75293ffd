// Package ui draws the viewer's heads-up display and on-screen controls.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Palette colors entities by kind.
var Palette = struct {
	Prey, Predator, Food, LockedFood, Spawner, Bounds, Target rl.Color
}{
	Prey:       rl.NewColor(110, 170, 240, 255),
	Predator:   rl.NewColor(235, 90, 80, 255),
	Food:       rl.NewColor(120, 210, 110, 255),
	LockedFood: rl.NewColor(240, 200, 80, 255),
	Spawner:    rl.NewColor(120, 210, 110, 90),
	Bounds:     rl.NewColor(60, 70, 80, 255),
	Target:     rl.NewColor(235, 90, 80, 90),
}

// Theme is the shared look of every panel.
type Theme struct {
	Background, Border, Header, Text, Track, Fill, Alert rl.Color

	Padding    int32
	LineHeight int32
	Indent     int32 // x offset of values from their labels
	FontSize   int32
}

// DefaultTheme returns the dark panel theme.
func DefaultTheme() Theme {
	return Theme{
		Background: rl.NewColor(20, 25, 30, 240),
		Border:     rl.NewColor(60, 70, 80, 255),
		Header:     rl.Yellow,
		Text:       rl.LightGray,
		Track:      rl.NewColor(40, 40, 40, 255),
		Fill:       rl.NewColor(100, 150, 200, 255),
		Alert:      rl.NewColor(200, 100, 100, 255),
		Padding:    10,
		LineHeight: 16,
		Indent:     90,
		FontSize:   12,
	}
}

// Renderer draws themed widgets. Methods that lay out rows return the y of
// the next row.
type Renderer struct {
	Theme Theme
}

func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

func (r *Renderer) DrawPanel(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, r.Theme.Background)
	rl.DrawRectangleLines(x, y, w, h, r.Theme.Border)
}

func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.FontSize+2, r.Theme.Header)
	return y + r.Theme.LineHeight + 2
}

func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label+":", x, y, t.FontSize, t.Text)
	rl.DrawText(value, x+t.Indent, y, t.FontSize, t.Text)
	return y + t.LineHeight
}

// DrawBar draws value against limit as a filled track. The fill switches to
// the alert color once value/limit reaches alertAt.
func (r *Renderer) DrawBar(x, y int32, label string, value, limit, alertAt float32, w int32) int32 {
	t := r.Theme
	var ratio float32
	if limit > 0 {
		ratio = min(value/limit, 1)
	}
	fill := t.Fill
	if ratio >= alertAt {
		fill = t.Alert
	}

	trackX, trackW := x+t.Indent, w-t.Indent-60
	rl.DrawText(label+":", x, y, t.FontSize, t.Text)
	rl.DrawRectangle(trackX, y+2, trackW, t.FontSize, t.Track)
	rl.DrawRectangle(trackX, y+2, int32(float32(trackW)*ratio), t.FontSize, fill)
	rl.DrawText(fmt.Sprintf("%.0f/%.0f", value, limit), trackX+trackW+5, y, t.FontSize, t.Text)
	return y + t.LineHeight + 2
}
