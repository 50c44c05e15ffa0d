package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/camera"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/sprite_cache"
	"github.com/Carmen-Shannon/oxy2d/engine/tween"
)

// ErrReleased is returned by operations on a released scene.
var ErrReleased = errors.New("scene: scene released")

// Target is the part of the renderer a scene needs to create sprite caches.
// renderer.Renderer satisfies it.
type Target interface {
	Device() gpu.Device
	SurfaceFormat() gpu.TextureFormat
	SampleCount() uint32
}

// Scene is a 2D view: a camera and a stack of sprite cache layers drawn back to front,
// plus the animators that move the sprites in them.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
//
// Update and Render must be called from the render goroutine; the getters are safe anywhere.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Layer returns the sprite cache drawn at z-index z, creating it on first use with the
	// scene's layer options.
	//
	// Parameters:
	//   - z: the z-index (lower draws first)
	//
	// Returns:
	//   - sprite_cache.SpriteCache: the layer
	//   - error: a wrapped creation error, or ErrReleased
	Layer(z int) (sprite_cache.SpriteCache, error)

	// SetLayer installs a caller-built cache at z. A previous cache at z is released.
	//
	// Parameters:
	//   - z: the z-index
	//   - cache: the cache to draw at z
	SetLayer(z int, cache sprite_cache.SpriteCache)

	// RemoveLayer releases and removes the cache at z. Unknown z-indices are ignored.
	//
	// Parameters:
	//   - z: the z-index
	RemoveLayer(z int)

	// Layers returns the z-indices of every layer in draw order.
	//
	// Returns:
	//   - []int: ascending z-indices
	Layers() []int

	// Animate registers an animator. It is advanced every Update until it reports Done.
	//
	// Parameters:
	//   - a: the animator
	Animate(a tween.Animator)

	// AnimationCount returns the number of running animators.
	//
	// Returns:
	//   - int: running animators
	AnimationCount() int

	// Update drives the camera controller and advances every animator by dt seconds.
	// Animators are advanced in parallel on the scene's workers, then applied in
	// registration order on the calling goroutine.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// Render records every layer into pass in ascending z order with the camera's view-projection.
	//
	// Parameters:
	//   - pass: the frame's open render pass
	//
	// Returns:
	//   - error: the first layer error, or ErrReleased
	Render(pass gpu.RenderPassEncoder) error

	// Release releases every layer and stops the worker pool.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	cam    camera.Camera
	target Target
	logger *slog.Logger

	layers       map[int]sprite_cache.SpriteCache
	order        []int // ascending keys of layers
	layerOptions []sprite_cache.SpriteCacheBuilderOption

	animators []tween.Animator

	// pool advances animators in parallel. Workers persist across frames; a WaitGroup is
	// the per-update barrier because pool.Wait blocks until workers idle out.
	pool    worker.DynamicWorkerPool
	workers int

	released bool
}

var _ Scene = &scene{}

// minBatch is the fewest animators worth handing to a worker.
const minBatch = 64

// NewScene creates a new Scene drawing with the given camera into the target's device.
// Both are required and NewScene panics if either is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - target: the renderer layers are created on (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, target Target, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if target == nil {
		panic("scene: NewScene requires a non-nil Target")
	}

	s := &scene{
		mu:      &sync.RWMutex{},
		name:    name,
		cam:     cam,
		target:  target,
		layers:  make(map[int]sprite_cache.SpriteCache),
		workers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = common.Logger()
	}

	// Queue size of 256 leaves headroom over one batch per worker.
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	s.sortLayers()
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Layer(z int) (sprite_cache.SpriteCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrReleased
	}
	if c, ok := s.layers[z]; ok {
		return c, nil
	}

	opts := []sprite_cache.SpriteCacheBuilderOption{
		sprite_cache.WithLabel(fmt.Sprintf("%s Layer %d", s.name, z)),
		sprite_cache.WithSampleCount(s.target.SampleCount()),
		sprite_cache.WithLogger(s.logger),
	}
	opts = append(opts, s.layerOptions...)
	c, err := sprite_cache.NewSpriteCache(s.target.Device(), s.target.SurfaceFormat(), opts...)
	if err != nil {
		return nil, fmt.Errorf("scene %q: layer %d: %w", s.name, z, err)
	}
	s.layers[z] = c
	s.sortLayers()
	s.logger.Debug("scene: layer created", "scene", s.name, "z", z)
	return c, nil
}

func (s *scene) SetLayer(z int, cache sprite_cache.SpriteCache) {
	if cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.layers[z]; ok && old != cache {
		old.Release()
	}
	s.layers[z] = cache
	s.sortLayers()
}

func (s *scene) RemoveLayer(z int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.layers[z]
	if !ok {
		return
	}
	c.Release()
	delete(s.layers, z)
	s.sortLayers()
}

func (s *scene) Layers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// sortLayers rebuilds the draw order. Caller must hold the write lock.
func (s *scene) sortLayers() {
	s.order = slices.Sorted(maps.Keys(s.layers))
}

func (s *scene) Animate(a tween.Animator) {
	if a == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animators = append(s.animators, a)
}

func (s *scene) AnimationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.animators)
}

func (s *scene) Update(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}

	if ctrl := s.cam.Controller(); ctrl != nil {
		ctrl.Update(dt)
	}
	s.cam.Update()

	if len(s.animators) == 0 {
		return
	}
	s.advance(dt)

	// Apply writes into the caches and stays on this goroutine.
	live := s.animators[:0]
	for _, a := range s.animators {
		a.Apply()
		if !a.Done() {
			live = append(live, a)
		}
	}
	clear(s.animators[len(live):])
	s.animators = live
}

// advance runs Advance on every animator, spreading batches over the worker pool.
// Caller must hold the write lock.
func (s *scene) advance(dt float32) {
	n := len(s.animators)
	if n <= minBatch || s.workers == 1 {
		for _, a := range s.animators {
			a.Advance(dt)
		}
		return
	}

	size := max((n+s.workers-1)/s.workers, minBatch)
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < n; start += size {
		batch := s.animators[start:min(start+size, n)]
		wg.Add(1)
		s.pool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for _, a := range batch {
					a.Advance(dt)
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
}

func (s *scene) Render(pass gpu.RenderPassEncoder) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.released {
		return ErrReleased
	}

	vp := s.cam.ViewProjectionMatrix()
	for _, z := range s.order {
		if err := s.layers[z].Render(pass, &vp); err != nil {
			return fmt.Errorf("scene %q: layer %d: %w", s.name, z, err)
		}
	}
	return nil
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	for z, c := range s.layers {
		c.Release()
		delete(s.layers, z)
	}
	s.order = nil
	s.animators = nil
	s.pool.Stop()
	s.released = true
	s.logger.Debug("scene: released", "scene", s.name)
}
