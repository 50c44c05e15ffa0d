package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/camera"
	"github.com/Carmen-Shannon/oxy2d/engine/profiler"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy2d/engine/scene"
	"github.com/Carmen-Shannon/oxy2d/engine/sprite_cache"
	"github.com/Carmen-Shannon/oxy2d/engine/texture"
	"github.com/Carmen-Shannon/oxy2d/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type fakeRenderer struct {
	mu       sync.Mutex
	pass     *gputest.RenderPass
	beginErr error
	calls    []string
	sizes    [][2]int
	released bool
}

func (r *fakeRenderer) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *fakeRenderer) BeginFrame() error {
	r.record("begin")
	return r.beginErr
}

func (r *fakeRenderer) FramePass() gpu.RenderPassEncoder { return r.pass }

func (r *fakeRenderer) EndFrame() error {
	r.record("end")
	return nil
}

func (r *fakeRenderer) Present() { r.record("present") }

func (r *fakeRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sizes = append(r.sizes, [2]int{width, height})
}

func (r *fakeRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}

func (r *fakeRenderer) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// fakeScene records the engine's calls; methods the engine never uses are left to the embedded nil interface.
type fakeScene struct {
	scene.Scene
	name      string
	active    bool
	cam       camera.Camera
	renderErr error
	order     *[]string
	layers    []sprite_cache.SpriteCache

	updates  atomic.Int32
	released atomic.Bool
}

func newFakeScene(name string, active bool, order *[]string) *fakeScene {
	ctrl := camera.NewCameraController()
	return &fakeScene{
		name:   name,
		active: active,
		cam:    camera.NewCamera(camera.WithController(ctrl)),
		order:  order,
	}
}

func (s *fakeScene) Name() string          { return s.name }
func (s *fakeScene) Active() bool          { return s.active }
func (s *fakeScene) Camera() camera.Camera { return s.cam }
func (s *fakeScene) Update(float32)        { s.updates.Add(1) }
func (s *fakeScene) Release()              { s.released.Store(true) }

func (s *fakeScene) Layers() []int {
	out := make([]int, len(s.layers))
	for i := range out {
		out[i] = i
	}
	return out
}

func (s *fakeScene) Layer(z int) (sprite_cache.SpriteCache, error) {
	if z < 0 || z >= len(s.layers) {
		return nil, errors.New("no layer")
	}
	return s.layers[z], nil
}

func (s *fakeScene) Render(pass gpu.RenderPassEncoder) error {
	if s.order != nil {
		*s.order = append(*s.order, s.name)
	}
	for _, c := range s.layers {
		if err := c.Render(pass, nil); err != nil {
			return err
		}
	}
	return s.renderErr
}

// fakeWindow runs a message loop that polls the update callback until RequestClose.
type fakeWindow struct {
	width, height int

	update  func()
	resize  func(width, height int)
	scroll  func(delta float32)
	keyDown func(keyCode uint32)
	keyUp   func(keyCode uint32)

	closeRequested atomic.Bool
	closed         atomic.Bool
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(cb func())                                             { w.update = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int))                            { w.resize = cb }
func (w *fakeWindow) SetScrollCallback(cb func(delta float32))                                { w.scroll = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))                              { w.keyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32))                                { w.keyUp = cb }
func (w *fakeWindow) SetMouseMoveCallback(func(x, y float32))                                 {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor                              { return nil }
func (w *fakeWindow) IsRunning() bool                                                         { return !w.closeRequested.Load() }
func (w *fakeWindow) RequestClose()                                                           { w.closeRequested.Store(true) }
func (w *fakeWindow) Width() int                                                              { return w.width }
func (w *fakeWindow) Height() int                                                             { return w.height }
func (w *fakeWindow) SetMouseButtonCallback(func(window.MouseButton, bool, float32, float32)) {}

func (w *fakeWindow) Close() error {
	w.closed.Store(true)
	return nil
}

func (w *fakeWindow) ProcessMessages() {
	deadline := time.Now().Add(5 * time.Second)
	for !w.closeRequested.Load() && time.Now().Before(deadline) {
		if w.update != nil {
			w.update()
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestEngine(opts ...EngineBuilderOption) (*engine, *fakeRenderer) {
	r := &fakeRenderer{pass: &gputest.RenderPass{}}
	opts = append([]EngineBuilderOption{WithRenderer(r), WithTickRate(10)}, opts...)
	return NewEngine(opts...).(*engine), r
}

func TestStepRunsFixedTicks(t *testing.T) {
	tests := []struct {
		name    string
		elapsed []time.Duration
		want    int
	}{
		{name: "less than a tick", elapsed: []time.Duration{50 * time.Millisecond}, want: 0},
		{name: "two and a half ticks", elapsed: []time.Duration{250 * time.Millisecond}, want: 2},
		{name: "remainder carries over", elapsed: []time.Duration{250 * time.Millisecond, 50 * time.Millisecond}, want: 3},
		{name: "stall is clamped", elapsed: []time.Duration{10 * time.Second}, want: maxCatchUpTicks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine()
			s := newFakeScene("a", true, nil)
			e.AddScene(0, s)

			var ticks int
			var dts []float32
			e.SetTickCallback(func(dt float32) {
				ticks++
				dts = append(dts, dt)
			})
			for _, d := range tt.elapsed {
				e.step(d)
			}

			if ticks != tt.want {
				t.Errorf("ticks = %d, want %d", ticks, tt.want)
			}
			if got := int(s.updates.Load()); got != tt.want {
				t.Errorf("scene updates = %d, want %d", got, tt.want)
			}
			for _, dt := range dts {
				if dt < 0.0999 || dt > 0.1001 {
					t.Errorf("tick delta = %v, want 0.1", dt)
				}
			}
		})
	}
}

func TestStepRendersActiveScenesInOrder(t *testing.T) {
	e, r := newTestEngine()
	var order []string
	e.AddScene(5, newFakeScene("top", true, &order))
	e.AddScene(-1, newFakeScene("bottom", true, &order))
	e.AddScene(2, newFakeScene("hidden", false, &order))

	e.step(0)

	if len(order) != 2 || order[0] != "bottom" || order[1] != "top" {
		t.Errorf("render order = %v, want [bottom top]", order)
	}
	calls := r.Calls()
	want := []string{"begin", "end", "present"}
	if len(calls) != len(want) {
		t.Fatalf("renderer calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestStepSkipsInactiveScenes(t *testing.T) {
	e, r := newTestEngine()
	s := newFakeScene("idle", false, nil)
	e.AddScene(0, s)

	e.step(time.Second)

	if got := s.updates.Load(); got != 0 {
		t.Errorf("inactive scene updated %d times", got)
	}
	if calls := r.Calls(); len(calls) != 0 {
		t.Errorf("renderer calls = %v, want none without active scenes", calls)
	}
}

func TestStepSceneErrorStillPresents(t *testing.T) {
	e, r := newTestEngine()
	var order []string
	bad := newFakeScene("bad", true, &order)
	bad.renderErr = errors.New("boom")
	e.AddScene(0, bad)
	e.AddScene(1, newFakeScene("good", true, &order))

	e.step(0)

	if len(order) != 2 {
		t.Errorf("rendered %v, want both scenes", order)
	}
	if calls := r.Calls(); len(calls) != 3 || calls[2] != "present" {
		t.Errorf("renderer calls = %v, want frame presented", calls)
	}
}

func TestStepBeginFrameFailure(t *testing.T) {
	e, r := newTestEngine()
	r.beginErr = errors.New("surface outdated")
	var order []string
	e.AddScene(0, newFakeScene("a", true, &order))

	e.step(0)

	if len(order) != 0 {
		t.Errorf("scenes rendered without a frame: %v", order)
	}
	if calls := r.Calls(); len(calls) != 1 || calls[0] != "begin" {
		t.Errorf("renderer calls = %v, want [begin]", calls)
	}
}

func TestStepProfilesDrawnSprites(t *testing.T) {
	prof := profiler.NewProfiler(profiler.WithInterval(time.Nanosecond))
	e, _ := newTestEngine(WithProfiling(true), WithProfiler(prof))

	cache, err := sprite_cache.NewSpriteCache(gputest.NewDevice(), gpu.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewSpriteCache: %v", err)
	}
	t.Cleanup(cache.Release)
	a := texture.NewSlice(gputest.NewTexture("a", 16, 16))
	b := texture.NewSlice(gputest.NewTexture("b", 16, 16))
	cache.Add(a, nil)
	cache.Add(a, nil)
	cache.Add(b, nil)

	s := newFakeScene("a", true, nil)
	s.layers = []sprite_cache.SpriteCache{cache}
	e.AddScene(0, s)

	time.Sleep(time.Millisecond)
	e.step(0)

	got := prof.Last()
	if got.SpritesDrawn != 3 || got.DrawCallCount != 2 {
		t.Errorf("profiled %d sprites / %d draw calls, want 3 / 2", got.SpritesDrawn, got.DrawCallCount)
	}
}

func TestApplyResize(t *testing.T) {
	e, r := newTestEngine()
	a := newFakeScene("a", true, nil)
	b := newFakeScene("b", false, nil)
	e.AddScene(0, a)
	e.AddScene(1, b)

	e.pendingResize.Store(&[2]int{640, 480})
	e.step(0)
	e.step(0)

	if len(r.sizes) != 1 || r.sizes[0] != [2]int{640, 480} {
		t.Errorf("renderer sizes = %v, want one resize to 640x480", r.sizes)
	}
	for _, s := range []*fakeScene{a, b} {
		if w, h := s.cam.Viewport(); w != 640 || h != 480 {
			t.Errorf("scene %s viewport = %vx%v, want 640x480", s.name, w, h)
		}
	}

	e.pendingResize.Store(&[2]int{0, 0})
	e.step(0)
	if len(r.sizes) != 1 {
		t.Errorf("minimized resize reached the renderer: %v", r.sizes)
	}
}

func TestSceneRegistry(t *testing.T) {
	win := &fakeWindow{width: 1024, height: 768}
	e, _ := newTestEngine(WithWindow(win), WithScene(3, nil))

	if len(e.Scenes()) != 0 {
		t.Fatal("nil scene option should be ignored")
	}
	e.AddScene(1, nil)
	if e.Scene(1) != nil {
		t.Fatal("AddScene(nil) should be ignored")
	}

	s := newFakeScene("a", true, nil)
	e.AddScene(1, s)
	if e.Scene(1) != scene.Scene(s) {
		t.Fatal("Scene(1) did not return the added scene")
	}
	if w, h := s.cam.Viewport(); w != 1024 || h != 768 {
		t.Errorf("viewport = %vx%v, want window size", w, h)
	}

	copied := e.Scenes()
	delete(copied, 1)
	if e.Scene(1) == nil {
		t.Error("mutating Scenes() copy affected the engine")
	}

	e.RemoveScene(1)
	if e.Scene(1) != nil {
		t.Error("RemoveScene did not remove")
	}
	if s.released.Load() {
		t.Error("RemoveScene should not release the scene")
	}
}

func TestTickRate(t *testing.T) {
	e, _ := newTestEngine()
	if e.engineTickRate != 100*time.Millisecond {
		t.Fatalf("tick rate = %v, want 100ms", e.engineTickRate)
	}
	e.SetTickRate(0)
	if e.engineTickRate != time.Second/60 {
		t.Errorf("SetTickRate(0) = %v, want 60Hz", e.engineTickRate)
	}

	e.running.Store(true)
	e.SetTickRate(20)
	e.SetTickRate(25)
	select {
	case rate := <-e.tickRateChannel:
		if rate != 40*time.Millisecond {
			t.Errorf("pending rate = %v, want the latest (40ms)", rate)
		}
	default:
		t.Error("running engine did not queue the tick rate")
	}
}

func TestRenderFrameLimit(t *testing.T) {
	e, _ := newTestEngine(WithRenderFrameLimit(50))
	if e.renderFrameLimit != 20*time.Millisecond {
		t.Errorf("frame limit = %v, want 20ms", e.renderFrameLimit)
	}
	e.SetRenderFrameLimit(-1)
	if e.renderFrameLimit != 0 {
		t.Errorf("frame limit = %v, want uncapped", e.renderFrameLimit)
	}
}

func TestWindowInputDrivesControllers(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	e, _ := newTestEngine(WithWindow(win))
	active := newFakeScene("active", true, nil)
	idle := newFakeScene("idle", false, nil)
	e.AddScene(0, active)
	e.AddScene(1, idle)

	win.scroll(1)
	win.keyDown(common.KeyRight)
	active.cam.Controller().Update(0.5)
	idle.cam.Controller().Update(0.5)
	win.keyUp(common.KeyRight)

	if z := active.cam.Controller().Zoom(); z <= 1 {
		t.Errorf("active zoom = %v, want > 1 after scroll", z)
	}
	if z := idle.cam.Controller().Zoom(); z != 1 {
		t.Errorf("idle zoom = %v, want 1", z)
	}
	if x, _ := active.cam.Controller().Position(); x <= 0 {
		t.Errorf("active x = %v, want moved right", x)
	}
	if x, _ := idle.cam.Controller().Position(); x != 0 {
		t.Errorf("idle x = %v, want unmoved", x)
	}

	win.resize(300, 200)
	if size := e.pendingResize.Load(); size == nil || *size != [2]int{300, 200} {
		t.Errorf("pending resize = %v, want 300x200", size)
	}
}

func TestWithCameraInputDisabled(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	newTestEngine(WithWindow(win), WithCameraInput(false))
	if win.keyDown != nil || win.scroll != nil {
		t.Error("input callbacks installed with camera input disabled")
	}
	if win.resize == nil {
		t.Error("resize callback should always be installed")
	}
}

func TestQuitKey(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	e, _ := newTestEngine(WithWindow(win), WithCameraInput(false), WithQuitKey(common.KeyEsc))
	s := newFakeScene("a", true, nil)
	e.AddScene(0, s)

	win.keyDown(common.KeyRight)
	select {
	case <-e.quitChannel:
		t.Fatal("non-quit key stopped the engine")
	default:
	}
	s.cam.Controller().Update(1)
	if x, _ := s.cam.Controller().Position(); x != 0 {
		t.Errorf("camera moved to x = %v with camera input disabled", x)
	}

	win.keyDown(common.KeyEsc)
	select {
	case <-e.quitChannel:
	default:
		t.Error("quit key did not stop the engine")
	}
}

func TestRunQuitReleases(t *testing.T) {
	win := &fakeWindow{width: 800, height: 600}
	e, r := newTestEngine(WithWindow(win), WithTickRate(1000))
	s := newFakeScene("a", true, nil)
	e.AddScene(0, s)

	var ticks atomic.Int32
	e.SetTickCallback(func(float32) {
		if ticks.Add(1) == 3 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after Quit")
	}

	if !s.released.Load() {
		t.Error("scene not released")
	}
	if !r.released {
		t.Error("renderer not released")
	}
	if !win.closed.Load() {
		t.Error("window not closed")
	}
	if len(r.sizes) == 0 || r.sizes[0] != [2]int{800, 600} {
		t.Errorf("initial resize = %v, want 800x600", r.sizes)
	}
	if len(e.Scenes()) != 0 {
		t.Error("scenes still registered after Run")
	}
	e.Quit()
}

func TestRunWithoutRendererPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Run without a renderer did not panic")
		}
	}()
	NewEngine(WithWindow(&fakeWindow{width: 1, height: 1})).Run()
}
