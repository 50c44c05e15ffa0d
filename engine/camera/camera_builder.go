package camera

type CameraBuilderOption func(*cameraImpl)

// WithViewport sets the initial viewport size in pixels.
//
// Parameters:
//   - width, height: the viewport size
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's viewport
func WithViewport(width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.width = width
			c.height = height
		}
	}
}

// WithYUp makes world y grow upward instead of downward.
//
// Parameters:
//   - yUp: true for a y-up world
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's y direction
func WithYUp(yUp bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.yUp = yUp
	}
}

// WithController attaches a controller to the camera.
// After all options are applied, the camera recomputes its matrices from the controller's state.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
