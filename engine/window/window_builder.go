package window

import "log/slog"

// WindowBuilderOption is a functional option applied by NewWindow before the platform window opens.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the requested client area size in screen coordinates. On high-DPI displays
// Width and Height later report the larger framebuffer size. Non-positive sizes are ignored.
//
// Parameters:
//   - width, height: the requested size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 && height > 0 {
			w.width, w.height = width, height
		}
	}
}

// WithSizeLimits bounds interactive resizing. Use glfw.DontCare (-1) for an unbounded edge.
//
// Parameters:
//   - minWidth, minHeight: the smallest allowed size
//   - maxWidth, maxHeight: the largest allowed size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = minWidth, minHeight
		w.maxWidth, w.maxHeight = maxWidth, maxHeight
	}
}

// WithResizable controls whether the user can resize the window. Defaults to true.
//
// Parameters:
//   - resizable: false for a fixed-size window
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithResizable(resizable bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.resizable = resizable
	}
}

// WithLogger sets the logger for window lifecycle events. Defaults to common.Logger().
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithLogger(l *slog.Logger) WindowBuilderOption {
	return func(w *engineWindow) {
		w.logger = l
	}
}
