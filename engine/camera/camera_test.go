package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy2d/common"
)

const eps = 1e-3

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	if w, h := c.Viewport(); w != 1280 || h != 720 {
		t.Errorf("viewport = %vx%v, want 1280x720", w, h)
	}
	if c.YUp() {
		t.Error("camera defaults to y-up")
	}
	if c.Controller() != nil {
		t.Error("camera has a controller by default")
	}
	var identity [16]float32
	common.Identity(identity[:])
	if c.ViewMatrix() != identity {
		t.Errorf("view = %v, want identity", c.ViewMatrix())
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	tests := []struct {
		name           string
		opts           []CameraBuilderOption
		x, y           float32
		wantSX, wantSY float32
	}{
		{"origin at center", nil, 0, 0, 400, 300},
		{"y-down", nil, 100, 50, 500, 350},
		{"y-up", []CameraBuilderOption{WithYUp(true)}, 100, 50, 500, 250},
		{"follows position", []CameraBuilderOption{WithController(NewCameraController(WithPosition(100, 100)))}, 100, 100, 400, 300},
		{"zoom scales distance", []CameraBuilderOption{WithController(NewCameraController(WithPosition(100, 100), WithZoom(2)))}, 110, 100, 420, 300},
		{"rotation", []CameraBuilderOption{WithController(NewCameraController(WithRotation(math.Pi / 2)))}, 10, 0, 400, 290},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(append([]CameraBuilderOption{WithViewport(800, 600)}, tt.opts...)...)
			sx, sy := c.WorldToScreen(tt.x, tt.y)
			if !near(sx, tt.wantSX) || !near(sy, tt.wantSY) {
				t.Errorf("WorldToScreen(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, sx, sy, tt.wantSX, tt.wantSY)
			}
			wx, wy := c.ScreenToWorld(sx, sy)
			if !near(wx, tt.x) || !near(wy, tt.y) {
				t.Errorf("ScreenToWorld round trip = (%v, %v), want (%v, %v)", wx, wy, tt.x, tt.y)
			}
		})
	}
}

func TestCameraViewProjectionCorners(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	vp := c.ViewProjectionMatrix()

	// y-down: the bottom-right world corner lands at clip (1, -1).
	x, y := common.TransformPoint2D(vp[:], 400, 300)
	if !near(x, 1) || !near(y, -1) {
		t.Errorf("bottom-right corner = (%v, %v), want (1, -1)", x, y)
	}
	x, y = common.TransformPoint2D(vp[:], -400, -300)
	if !near(x, -1) || !near(y, 1) {
		t.Errorf("top-left corner = (%v, %v), want (-1, 1)", x, y)
	}
}

func TestCameraSetViewport(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	before := c.ProjectionMatrix()

	c.SetViewport(0, 600)
	if c.ProjectionMatrix() != before {
		t.Error("zero-width viewport changed the projection")
	}

	c.SetViewport(400, 300)
	if w, h := c.Viewport(); w != 400 || h != 300 {
		t.Errorf("viewport = %vx%v, want 400x300", w, h)
	}
	if sx, sy := c.WorldToScreen(0, 0); sx != 200 || sy != 150 {
		t.Errorf("origin = (%v, %v), want (200, 150)", sx, sy)
	}
}

func TestCameraUpdateReadsController(t *testing.T) {
	ctrl := NewCameraController()
	c := NewCamera(WithViewport(800, 600), WithController(ctrl))

	ctrl.SetPosition(50, 0)
	if sx, _ := c.WorldToScreen(50, 0); sx == 400 {
		t.Error("camera moved before Update")
	}
	c.Update()
	if sx, sy := c.WorldToScreen(50, 0); !near(sx, 400) || !near(sy, 300) {
		t.Errorf("after Update = (%v, %v), want (400, 300)", sx, sy)
	}
}

func TestCameraSetController(t *testing.T) {
	c := NewCamera(WithViewport(800, 600))
	c.SetController(NewCameraController(WithPosition(-20, 0)))
	if sx, _ := c.WorldToScreen(-20, 0); !near(sx, 400) {
		t.Errorf("sx = %v, want 400", sx)
	}
}
