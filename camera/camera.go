// Package camera provides a 2D orthographic camera for viewport control.
package camera

import "github.com/wyixiang/ikerEcsProject/systems"

// Camera controls the viewport into the simulation world. World space is
// y-up and measured in world units; screen space is y-down pixels.
//
// The visible rectangle doubles as the movement bounds of the simulation,
// so panning or zooming changes where actors bounce.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom in pixels per world unit
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Home view restored by Reset
	homeX, homeY, homeZoom float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera that fits the given world rectangle into the viewport.
func New(viewportW, viewportH float32, world systems.Bounds) *Camera {
	worldW := world.MaxX - world.MinX
	worldH := world.MaxY - world.MinY

	// Largest zoom at which the whole world is still on screen
	fit := viewportW / worldW
	if z := viewportH / worldH; z < fit {
		fit = z
	}

	c := &Camera{
		X:         world.MinX + worldW/2,
		Y:         world.MinY + worldH/2,
		Zoom:      fit,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   fit / 4,
		MaxZoom:   fit * 8,
	}
	c.homeX, c.homeY, c.homeZoom = c.X, c.Y, c.Zoom
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 - (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y - (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions. The world-space center and zoom are
// kept, so a larger window shows more of the world.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y -= dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the view it was created with.
func (c *Camera) Reset() {
	c.X, c.Y, c.Zoom = c.homeX, c.homeY, c.homeZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// Bounds returns the visible area as movement bounds.
func (c *Camera) Bounds() systems.Bounds {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return systems.Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
