package camera

import (
	"math"
	"testing"

	"github.com/wyixiang/ikerEcsProject/systems"
)

var world = systems.Bounds{MinX: -10, MinY: -10, MaxX: 10, MaxY: 10}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, world)

	// Should be centered on world
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected camera at (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
	// Height is the limiting dimension: 720 / 20
	if !near(cam.Zoom, 36) {
		t.Errorf("expected zoom 36, got %f", cam.Zoom)
	}
}

func TestNew_FitsWholeWorld(t *testing.T) {
	cam := New(1280, 720, world)
	b := cam.Bounds()

	if b.MinX > world.MinX || b.MaxX < world.MaxX || b.MinY > world.MinY || b.MaxY < world.MaxY {
		t.Errorf("visible bounds %+v do not contain world %+v", b, world)
	}
	if !near(b.MinY, world.MinY) || !near(b.MaxY, world.MaxY) {
		t.Errorf("limiting axis should fit exactly, got %+v", b)
	}
}

func TestWorldToScreen_YUp(t *testing.T) {
	cam := New(1280, 720, world)

	sx, sy := cam.WorldToScreen(0, 0)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	_, syUp := cam.WorldToScreen(0, 5)
	if syUp >= 360 {
		t.Errorf("positive world y should be above center, got y=%f", syUp)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, world)
	cam.Pan(37, -12)
	cam.ZoomBy(1.5)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPan_MovesBounds(t *testing.T) {
	cam := New(1280, 720, world)
	before := cam.Bounds()

	// Dragging 36 px right at zoom 36 shifts the view one unit
	cam.Pan(36, 0)
	after := cam.Bounds()
	if !near(after.MinX-before.MinX, 1) || !near(after.MaxX-before.MaxX, 1) {
		t.Errorf("expected bounds shifted by 1, got %+v -> %+v", before, after)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, world)

	cam.SetZoom(0.01)
	if !near(cam.Zoom, cam.MinZoom) {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(10000)
	if !near(cam.Zoom, cam.MaxZoom) {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, world)

	if !cam.IsVisible(0, 0, 0.5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(0, 40, 0.5) {
		t.Error("far point should not be visible")
	}
	// Just above the top edge, pulled in by its radius
	if !cam.IsVisible(0, 10.5, 1) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResize_KeepsCenterAndZoom(t *testing.T) {
	cam := New(1280, 720, world)
	cam.Resize(1920, 1080)

	if cam.X != 0 || cam.Y != 0 || !near(cam.Zoom, 36) {
		t.Errorf("resize changed view: (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
	b := cam.Bounds()
	if !near(b.MaxY, 15) {
		t.Errorf("expected taller view after resize, got %+v", b)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, world)
	cam.Pan(500, 500)
	cam.ZoomBy(2.5)

	cam.Reset()

	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("expected position (0, 0), got (%f, %f)", cam.X, cam.Y)
	}
	if !near(cam.Zoom, 36) {
		t.Errorf("expected zoom 36, got %f", cam.Zoom)
	}
}
