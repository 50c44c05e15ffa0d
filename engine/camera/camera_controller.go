package camera

// CameraController defines the union interface for 2D camera control.
// Controllers own positional state (position, zoom, rotation). Camera reads from the controller
// and computes view/projection matrices. Embeds zoomCameraController and panCameraController
// so a single controller instance serves both.
type CameraController interface {
	zoomCameraController
	panCameraController
	inputCameraController

	// Position returns the world point at the center of the view.
	//
	// Returns:
	//   - x, y: world-space position
	Position() (x, y float32)

	// SetPosition sets the world point at the center of the view.
	//
	// Parameters:
	//   - x, y: world-space coordinates
	SetPosition(x, y float32)

	// Rotation returns the camera rotation in radians.
	//
	// Returns:
	//   - float32: rotation in radians
	Rotation() float32

	// SetRotation sets the camera rotation in radians.
	//
	// Parameters:
	//   - radians: the new rotation
	SetRotation(radians float32)

	// Rotate adds delta to the camera rotation.
	//
	// Parameters:
	//   - delta: rotation in radians
	Rotate(delta float32)
}

// zoomCameraController defines zoom control. A zoom of 2 shows world content at twice its size.
type zoomCameraController interface {
	// Zoom returns the current zoom factor.
	//
	// Returns:
	//   - float32: the zoom factor
	Zoom() float32

	// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
	//
	// Parameters:
	//   - zoom: the new zoom factor
	SetZoom(zoom float32)

	// ZoomBy scales the zoom by (1 + delta*ZoomSpeed), clamped to [MinZoom, MaxZoom].
	// Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom steps, typically a scroll wheel offset
	ZoomBy(delta float32)

	// MinZoom returns the minimum allowed zoom factor.
	//
	// Returns:
	//   - float32: minimum zoom
	MinZoom() float32

	// MaxZoom returns the maximum allowed zoom factor.
	//
	// Returns:
	//   - float32: maximum zoom
	MaxZoom() float32

	// ZoomSpeed returns the zoom sensitivity used by ZoomBy.
	//
	// Returns:
	//   - float32: zoom speed
	ZoomSpeed() float32
}

// panCameraController defines screen-relative translation.
type panCameraController interface {
	// Pan moves the camera by a screen-space offset. The offset is rotated into world
	// space and divided by the zoom, so a pan covers the same on-screen distance at any zoom.
	//
	// Parameters:
	//   - dx, dy: screen-space offset scaled by PanSpeed
	Pan(dx, dy float32)

	// MoveToward moves the position a fraction of the way toward a world point.
	// Calling it every tick with a small fraction gives a smooth follow camera.
	//
	// Parameters:
	//   - x, y: the world point to follow
	//   - fraction: portion of the remaining distance to cover, clamped to [0, 1]
	MoveToward(x, y, fraction float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: pan speed
	PanSpeed() float32
}

// inputCameraController defines keyboard-driven movement. Arrow keys and WASD pan the camera
// while held; Q and E rotate it.
type inputCameraController interface {
	// KeyDown records a held key. Wire to the window's key down callback.
	//
	// Parameters:
	//   - keyCode: the key code (see common.Key*)
	KeyDown(keyCode uint32)

	// KeyUp releases a held key. Wire to the window's key up callback.
	//
	// Parameters:
	//   - keyCode: the key code (see common.Key*)
	KeyUp(keyCode uint32)

	// Update moves the camera according to the held keys.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)
}
