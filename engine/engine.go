package engine

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/camera"
	"github.com/Carmen-Shannon/oxy2d/engine/profiler"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/scene"
	"github.com/Carmen-Shannon/oxy2d/engine/window"
)

// maxCatchUpTicks bounds how many fixed ticks one frame may run after a stall.
const maxCatchUpTicks = 5

// FrameRenderer is the part of renderer.Renderer the engine drives each frame.
type FrameRenderer interface {
	BeginFrame() error
	FramePass() gpu.RenderPassEncoder
	EndFrame() error
	Present()
	Resize(width, height int)
	Release()
}

// engine implements the Engine interface.
// Coordinates the render goroutine and the window's message loop.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer FrameRenderer
	logger   *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	// Set by the window thread, consumed by the render goroutine.
	pendingResize atomic.Pointer[[2]int]
	cameraInput   bool
	quitKey       uint32

	accumulator time.Duration
}

// Engine is the main entry point for the engine.
// It owns the game loop: one goroutine runs fixed-rate ticks followed by a frame, so every
// scene and sprite cache call happens on a single thread. The window's message loop runs
// on the goroutine that calls Run.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback and scene updates run at this rate with a fixed delta.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, before scenes update.
	// Use this for game logic, input processing, and sprite edits.
	//
	// Parameters:
	//   - callback: function receiving the fixed tick delta in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each presented frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the frame delta in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order into the same render pass.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key. The scene is not released.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the render goroutine and the window message loop. It blocks until the
	// window closes or Quit is called, then releases the scenes and the renderer.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// When a window is attached its resize, key and scroll events are forwarded to the render
// goroutine and the active scenes' camera controllers.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		engineTickRate:  time.Second / 60,
		cameraInput:     true,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.logger == nil {
		e.logger = common.Logger()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.wireWindow()
	}
	return e
}

// wireWindow installs the window callbacks. They run on the window thread, so resizes are
// handed to the render goroutine and input only touches the mutex-guarded controllers.
func (e *engine) wireWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		e.pendingResize.Store(&[2]int{width, height})
	})
	if !e.cameraInput && e.quitKey == 0 {
		return
	}
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		if e.quitKey != 0 && keyCode == e.quitKey {
			e.Quit()
			return
		}
		e.eachController(func(ctrl camera.CameraController) { ctrl.KeyDown(keyCode) })
	})
	if !e.cameraInput {
		return
	}
	e.window.SetKeyUpCallback(func(keyCode uint32) {
		e.eachController(func(ctrl camera.CameraController) { ctrl.KeyUp(keyCode) })
	})
	e.window.SetScrollCallback(func(delta float32) {
		e.eachController(func(ctrl camera.CameraController) { ctrl.ZoomBy(delta) })
	})
}

// eachController calls fn with the camera controller of every active scene that has one.
func (e *engine) eachController(fn func(camera.CameraController)) {
	if !e.cameraInput {
		return
	}
	for _, s := range e.activeScenes() {
		if ctrl := s.Camera().Controller(); ctrl != nil {
			fn(ctrl)
		}
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	if e.window == nil || e.renderer == nil {
		panic("engine: Run requires a window and a renderer")
	}
	e.running.Store(true)
	e.pendingResize.Store(&[2]int{e.window.Width(), e.window.Height()})

	e.wg.Add(1)
	go e.handleRender()

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.shutdown()
	if err := e.window.Close(); err != nil {
		e.logger.Warn("engine: window close failed", "error", err)
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// shutdown releases every scene and then the renderer.
func (e *engine) shutdown() {
	e.mu.Lock()
	scenes := slices.Collect(maps.Values(e.scenes))
	clear(e.scenes)
	e.mu.Unlock()

	for _, s := range scenes {
		s.Release()
	}
	e.renderer.Release()
	e.logger.Info("engine: stopped", "scenes", len(scenes))
}

// handleRender runs the game loop: catch up on fixed ticks, then draw one frame.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("engine: render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	last := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		case rate := <-e.tickRateChannel:
			e.engineTickRate = rate
		default:
		}

		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		e.step(elapsed)

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// step advances the simulation by elapsed wall time in fixed ticks and renders one frame.
func (e *engine) step(elapsed time.Duration) {
	e.applyResize()

	e.accumulator += elapsed
	if limit := maxCatchUpTicks * e.engineTickRate; e.accumulator > limit {
		e.accumulator = limit
	}
	dt := float32(e.engineTickRate.Seconds())
	for e.accumulator >= e.engineTickRate {
		e.accumulator -= e.engineTickRate
		if e.tickCallback != nil {
			e.tickCallback(dt)
		}
		for _, s := range e.activeScenes() {
			s.Update(dt)
		}
	}

	e.renderFrame()

	if e.renderCallback != nil {
		e.renderCallback(float32(elapsed.Seconds()))
	}
	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
}

// applyResize hands a pending window resize to the renderer and every scene camera.
func (e *engine) applyResize() {
	size := e.pendingResize.Swap(nil)
	if size == nil || size[0] <= 0 || size[1] <= 0 {
		return
	}
	e.renderer.Resize(size[0], size[1])
	for _, s := range e.allScenes() {
		s.Camera().SetViewport(float32(size[0]), float32(size[1]))
	}
}

// renderFrame draws every active scene into one render pass, in ascending z order.
func (e *engine) renderFrame() {
	active := e.activeScenes()
	if len(active) == 0 {
		return
	}
	if err := e.renderer.BeginFrame(); err != nil {
		// Typically an outdated surface during a resize; the next frame retries.
		e.logger.Debug("engine: frame skipped", "error", err)
		return
	}
	pass := e.renderer.FramePass()
	for _, s := range active {
		if err := s.Render(pass); err != nil {
			e.logger.Warn("engine: scene render failed", "scene", s.Name(), "error", err)
		}
	}
	if err := e.renderer.EndFrame(); err != nil {
		e.logger.Warn("engine: frame submit failed", "error", err)
		return
	}
	e.renderer.Present()

	if e.profilingEnabled.Load() {
		e.countDrawn(active)
	}
}

// countDrawn reports the sprites and draw calls of the frame just presented to the profiler.
func (e *engine) countDrawn(active []scene.Scene) {
	var sprites, drawCalls int
	for _, s := range active {
		for _, z := range s.Layers() {
			cache, err := s.Layer(z)
			if err != nil {
				continue
			}
			sprites += cache.Len()
			drawCalls += len(cache.DrawCalls())
		}
	}
	e.profiler.Count(sprites, drawCalls)
}

// activeScenes returns the active scenes in ascending key order.
func (e *engine) activeScenes() []scene.Scene {
	all := e.allScenes()
	active := all[:0]
	for _, s := range all {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// allScenes returns every scene in ascending key order.
func (e *engine) allScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]scene.Scene, 0, len(e.scenes))
	for _, k := range slices.Sorted(maps.Keys(e.scenes)) {
		out = append(out, e.scenes[k])
	}
	return out
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect on the next frame.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickDuration(fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}
	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	if s == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scenes[key] = s
	if e.window != nil {
		s.Camera().SetViewport(float32(e.window.Width()), float32(e.window.Height()))
	}
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.scenes)
}
