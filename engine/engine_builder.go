package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy2d/engine/profiler"
	"github.com/Carmen-Shannon/oxy2d/engine/scene"
	"github.com/Carmen-Shannon/oxy2d/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// The tick callback and scene updates run at this rate with a fixed delta.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickDuration(fps)
	}
}

// WithWindow sets the window whose message loop Run drives. Its resize, key and scroll
// events are forwarded to the engine.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene registers a scene at the given z-index key during engine construction.
// Scenes are rendered in ascending key order during the render loop.
//
// Parameters:
//   - key: the z-index determining render order (lower renders first)
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		if s != nil {
			e.scenes[key] = s
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithRenderer sets the renderer that owns the frame. renderer.Renderer satisfies FrameRenderer.
// Run requires one; it is released when Run returns.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithCameraInput controls whether window key and scroll events drive the active scenes'
// camera controllers. Enabled by default.
//
// Parameters:
//   - enabled: false to leave input entirely to the caller
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCameraInput(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.cameraInput = enabled
	}
}

// WithQuitKey makes a key press stop the engine, e.g. common.KeyEsc. Zero (the default) disables it.
//
// Parameters:
//   - keyCode: the key code that quits
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithQuitKey(keyCode uint32) EngineBuilderOption {
	return func(e *engine) {
		e.quitKey = keyCode
	}
}

// WithLogger sets the logger for engine lifecycle events and the profiler. Defaults to common.Logger().
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(l *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = l
	}
}

// WithProfiler replaces the default profiler, e.g. to change its report interval.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}
