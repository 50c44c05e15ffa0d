package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial world point at the center of the view.
//
// Parameters:
//   - x, y: world-space coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = [2]float32{x, y}
	}
}

// WithZoom sets the initial zoom factor. It is clamped to the zoom bounds after all options are applied.
//
// Parameters:
//   - zoom: the zoom factor
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom
func WithZoom(zoom float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoom = zoom
	}
}

// WithRotation sets the initial rotation.
//
// Parameters:
//   - radians: rotation in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the rotation
func WithRotation(radians float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotation = radians
	}
}

// WithZoomLimits sets the zoom bounds. Non-positive or inverted bounds are ignored.
//
// Parameters:
//   - minZoom: minimum zoom factor
//   - maxZoom: maximum zoom factor
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom limits
func WithZoomLimits(minZoom, maxZoom float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if minZoom > 0 && maxZoom >= minZoom {
			cc.minZoom = minZoom
			cc.maxZoom = maxZoom
		}
	}
}

// WithZoomSpeed sets the zoom sensitivity.
//
// Parameters:
//   - speed: zoom speed multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the pan speed multiplier.
//
// Parameters:
//   - speed: pan speed multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}

// WithKeyPanRate sets how many screen pixels per second a held pan key moves the camera,
// before the PanSpeed multiplier.
//
// Parameters:
//   - rate: pixels per second
//
// Returns:
//   - CameraControllerOption: functional option to set the key pan rate
func WithKeyPanRate(rate float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.keyPanRate = rate
	}
}

// WithYUpKeys makes the up key move toward +y. Pair with camera.WithYUp.
//
// Parameters:
//   - yUp: true when the world is y-up
//
// Returns:
//   - CameraControllerOption: functional option to set the key direction
func WithYUpKeys(yUp bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yUp = yUp
	}
}
