package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy2d/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	width  float32
	height float32
	yUp    bool

	viewMatrix           [16]float32
	inverseViewMatrix    [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	controller CameraController
}

// Camera is an orthographic 2D camera. World units are pixels at zoom 1.
// The controller's position is the world point shown at the center of the viewport.
//
// By default the world is y-down like the screen: increasing y moves toward the bottom of the window.
type Camera interface {
	// Viewport returns the viewport size in pixels.
	//
	// Returns:
	//   - width, height: the viewport size
	Viewport() (width, height float32)

	// SetViewport sets the viewport size in pixels and recomputes matrices.
	// Typically wired to the window's resize callback.
	//
	// Parameters:
	//   - width, height: the viewport size
	SetViewport(width, height float32)

	// YUp reports whether world y grows upward.
	//
	// Returns:
	//   - bool: true for a y-up world
	YUp() bool

	// ViewMatrix returns the current world-to-view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current orthographic projection (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the combined view-projection matrix (column-major),
	// in the form sprite caches take it.
	//
	// Returns:
	//   - [16]float32: the combined matrix
	ViewProjectionMatrix() [16]float32

	// ScreenToWorld converts a window pixel position (origin top-left) to world coordinates.
	//
	// Parameters:
	//   - sx, sy: the pixel position
	//
	// Returns:
	//   - x, y: the world position
	ScreenToWorld(sx, sy float32) (x, y float32)

	// WorldToScreen converts a world position to window pixels (origin top-left).
	//
	// Parameters:
	//   - x, y: the world position
	//
	// Returns:
	//   - sx, sy: the pixel position
	WorldToScreen(x, y float32) (sx, sy float32)

	// Controller returns the attached CameraController, or nil.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// SetController attaches a CameraController and recomputes matrices.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// Update reads the controller's state and recomputes matrices.
	// Should be called once per frame (typically in the tick callback).
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with a 1280x720 viewport. Without a controller the
// camera looks at the origin with zoom 1 and no rotation.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		width:  1280,
		height: 720,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Viewport() (float32, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *cameraImpl) SetViewport(width, height float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	c.updateMatrices()
}

func (c *cameraImpl) YUp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yUp
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) ScreenToWorld(sx, sy float32) (float32, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vx := sx - c.width/2
	vy := sy - c.height/2
	if c.yUp {
		vy = -vy
	}
	return common.TransformPoint2D(c.inverseViewMatrix[:], vx, vy)
}

func (c *cameraImpl) WorldToScreen(x, y float32) (float32, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vx, vy := common.TransformPoint2D(c.viewMatrix[:], x, y)
	if c.yUp {
		vy = -vy
	}
	return vx + c.width/2, vy + c.height/2
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

// updateMatrices rebuilds view = S(zoom) * R(-rotation) * T(-position) and the
// centered orthographic projection. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	var px, py, rotation float32
	zoom := float32(1)
	if c.controller != nil {
		px, py = c.controller.Position()
		zoom = c.controller.Zoom()
		rotation = c.controller.Rotation()
	}

	var t, r, s [16]float32
	common.Translate2D(t[:], -px, -py)
	common.Rotate2D(r[:], -rotation)
	common.Scale2D(s[:], zoom, zoom)
	common.Mul4(c.viewMatrix[:], r[:], t[:])
	common.Mul4(c.viewMatrix[:], s[:], c.viewMatrix[:])

	common.Scale2D(s[:], 1/zoom, 1/zoom)
	common.Rotate2D(r[:], rotation)
	common.Translate2D(t[:], px, py)
	common.Mul4(c.inverseViewMatrix[:], r[:], s[:])
	common.Mul4(c.inverseViewMatrix[:], t[:], c.inverseViewMatrix[:])

	hw, hh := c.width/2, c.height/2
	if c.yUp {
		common.Ortho(c.projectionMatrix[:], -hw, hw, -hh, hh, -1, 1)
	} else {
		common.Ortho(c.projectionMatrix[:], -hw, hw, hh, -hh, -1, 1)
	}

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
