package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy2d/common"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [2]float32
	zoom     float32
	rotation float32

	minZoom float32
	maxZoom float32

	zoomSpeed float32
	panSpeed  float32

	// Keyboard state
	held       map[uint32]bool
	keyPanRate float32 // screen pixels per second
	rotateRate float32 // radians per second
	yUp        bool
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new 2D camera controller centered on the origin at zoom 1.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:   &sync.Mutex{},
		zoom: 1,

		minZoom: 0.1,
		maxZoom: 10,

		zoomSpeed: 0.1,
		panSpeed:  1,

		held:       make(map[uint32]bool),
		keyPanRate: 400,
		rotateRate: math.Pi / 2,
	}

	for _, option := range options {
		option(cc)
	}

	cc.zoom = cc.clampZoom(cc.zoom)
	return cc
}

// clampZoom keeps z inside the zoom bounds. Caller must hold the mutex.
func (cc *cameraControllerImpl) clampZoom(z float32) float32 {
	return common.Clamp(z, cc.minZoom, cc.maxZoom)
}

func (cc *cameraControllerImpl) Position() (float32, float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1]
}

func (cc *cameraControllerImpl) SetPosition(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [2]float32{x, y}
}

func (cc *cameraControllerImpl) Rotation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotation
}

func (cc *cameraControllerImpl) SetRotation(radians float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotation = radians
}

func (cc *cameraControllerImpl) Rotate(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.rotation = float32(math.Remainder(float64(cc.rotation+delta), 2*math.Pi))
}

// --- zoom ---

func (cc *cameraControllerImpl) Zoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoom
}

func (cc *cameraControllerImpl) SetZoom(zoom float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoom = cc.clampZoom(zoom)
}

func (cc *cameraControllerImpl) ZoomBy(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	factor := 1 + delta*cc.zoomSpeed
	if factor <= 0 {
		cc.zoom = cc.minZoom
		return
	}
	cc.zoom = cc.clampZoom(cc.zoom * factor)
}

func (cc *cameraControllerImpl) MinZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minZoom
}

func (cc *cameraControllerImpl) MaxZoom() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxZoom
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// --- pan ---

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pan(dx, dy)
}

// pan moves the position by a screen-space offset. Caller must hold the mutex.
func (cc *cameraControllerImpl) pan(dx, dy float32) {
	// Screen axes are the world axes rotated by the camera rotation.
	s, c := math.Sincos(float64(cc.rotation))
	sx := dx * cc.panSpeed / cc.zoom
	sy := dy * cc.panSpeed / cc.zoom
	cc.position[0] += sx*float32(c) - sy*float32(s)
	cc.position[1] += sx*float32(s) + sy*float32(c)
}

func (cc *cameraControllerImpl) MoveToward(x, y, fraction float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	fraction = common.Clamp(fraction, 0, 1)
	cc.position[0] += (x - cc.position[0]) * fraction
	cc.position[1] += (y - cc.position[1]) * fraction
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

// --- input ---

func (cc *cameraControllerImpl) KeyDown(keyCode uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.held[keyCode] = true
}

func (cc *cameraControllerImpl) KeyUp(keyCode uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	delete(cc.held, keyCode)
}

func (cc *cameraControllerImpl) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if len(cc.held) == 0 || dt <= 0 {
		return
	}

	var dx, dy float32
	if cc.isHeld(common.KeyRight, common.KeyD) {
		dx++
	}
	if cc.isHeld(common.KeyLeft, common.KeyA) {
		dx--
	}
	if cc.isHeld(common.KeyDown, common.KeyS) {
		dy++
	}
	if cc.isHeld(common.KeyUp, common.KeyW) {
		dy--
	}
	if cc.yUp {
		dy = -dy
	}
	if dx != 0 || dy != 0 {
		step := cc.keyPanRate * dt
		cc.pan(dx*step, dy*step)
	}

	if cc.isHeld(common.KeyE) {
		cc.rotation += cc.rotateRate * dt
	}
	if cc.isHeld(common.KeyQ) {
		cc.rotation -= cc.rotateRate * dt
	}
}

func (cc *cameraControllerImpl) isHeld(keys ...uint32) bool {
	for _, k := range keys {
		if cc.held[k] {
			return true
		}
	}
	return false
}
