package window

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// MouseButton identifies a mouse button in button callbacks.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the callback for mouse scroll wheel events.
	//
	// Parameters:
	//   - callback: function receiving scroll delta (positive = up/zoom in, negative = down/zoom out)
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseButtonCallback sets the callback for mouse button presses and releases.
	// Positions are in framebuffer pixels with the origin at the top-left corner.
	//
	// Parameters:
	//   - callback: function receiving the button, whether it was pressed, and the cursor position
	SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y float32))

	// SetMouseMoveCallback sets the callback for mouse movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in framebuffer pixels
	SetMouseMoveCallback(callback func(x, y float32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration without
	// destroying the window. Safe to call from callbacks.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Callbacks run on the goroutine that called ProcessMessages.
type engineWindow struct {
	title     string
	resizable bool

	// Sizes are framebuffer pixels once the platform window exists.
	width, height       int
	minWidth, minHeight int
	maxWidth, maxHeight int

	// contentScale converts window coordinates to framebuffer pixels on high-DPI displays.
	contentScale float32

	internalWindow *glfwWindow
	logger         *slog.Logger

	onUpdate      func()
	onResize      func(width, height int)
	onScroll      func(delta float32)
	onKeyDown     func(keyCode uint32)
	onKeyUp       func(keyCode uint32)
	onMouseButton func(button MouseButton, pressed bool, x, y float32)
	onMouseMove   func(x, y float32)
}

var _ Window = &engineWindow{}

// NewWindow opens a window without a graphics context, ready for a WebGPU surface.
// It must be called from the main goroutine, which then has to run ProcessMessages.
// Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		title:        "oxy2d",
		resizable:    true,
		width:        1280,
		height:       720,
		minWidth:     600,
		minHeight:    200,
		maxWidth:     1600,
		maxHeight:    1200,
		contentScale: 1,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.logger == nil {
		w.logger = common.Logger()
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("window: NewWindow failed: %v", err))
	}
	w.logger.Info("window: created", "title", w.title, "width", w.width, "height", w.height, "scale", w.contentScale)
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseButtonCallback(callback func(button MouseButton, pressed bool, x, y float32)) {
	w.onMouseButton = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for platformPollEvents(w) {
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// keyEvent forwards a key press (including repeats) or release.
func (w *engineWindow) keyEvent(keyCode uint32, down bool) {
	switch {
	case down && w.onKeyDown != nil:
		w.onKeyDown(keyCode)
	case !down && w.onKeyUp != nil:
		w.onKeyUp(keyCode)
	}
}

func (w *engineWindow) scrollEvent(delta float32) {
	if w.onScroll != nil && delta != 0 {
		w.onScroll(delta)
	}
}

// mouseButtonEvent and mouseMoveEvent take window coordinates and report framebuffer pixels,
// so positions line up with the surface and camera viewport.
func (w *engineWindow) mouseButtonEvent(b MouseButton, pressed bool, x, y float64) {
	if w.onMouseButton != nil {
		w.onMouseButton(b, pressed, float32(x)*w.contentScale, float32(y)*w.contentScale)
	}
}

func (w *engineWindow) mouseMoveEvent(x, y float64) {
	if w.onMouseMove != nil {
		w.onMouseMove(float32(x)*w.contentScale, float32(y)*w.contentScale)
	}
}

func (w *engineWindow) resizeEvent(width, height int, scale float32) {
	w.width, w.height = width, height
	w.contentScale = scale
	w.logger.Debug("window: resized", "width", width, "height", height, "scale", scale)
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
