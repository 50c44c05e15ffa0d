package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy2d/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *ClearColor

	inFrame bool
}

// Renderer owns the GPU device and the window surface, and brackets each frame in a single render pass.
//
// Sprite caches and other drawables record into FramePass between BeginFrame and EndFrame.
// The Renderer also keeps a cache of registered pipelines keyed by PipelineKey.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the pipeline cache.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU pipelines on the renderer's device and caches them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// LoadTexture uploads decoded pixels into a sampled texture.
	//
	// Parameters:
	//   - label: the debug label of the texture
	//   - pixels: the RGBA8 pixel data
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - gpu.Texture: the texture, owned by the caller
	//   - error: an error if the upload failed
	LoadTexture(label string, pixels common.TextureStagingData, sampler common.SamplerStagingData) (gpu.Texture, error)

	// LoadTextureFile decodes an image file and uploads it with straight alpha.
	//
	// Parameters:
	//   - path: the image path (PNG, JPEG, WebP or BMP)
	//   - sampler: the sampler configuration
	//
	// Returns:
	//   - gpu.Texture: the texture, owned by the caller
	//   - error: an error if decoding or upload failed
	LoadTextureFile(path string, sampler common.SamplerStagingData) (gpu.Texture, error)

	// Resize configures the surface for a new size in pixels. Zero sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color each frame is cleared to.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c ClearColor)

	// BeginFrame acquires the swapchain texture and begins the frame's render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired or a frame is already open
	BeginFrame() error

	// FramePass returns the open render pass, or nil outside BeginFrame/EndFrame.
	//
	// Returns:
	//   - gpu.RenderPassEncoder: the frame's render pass
	FramePass() gpu.RenderPassEncoder

	// EndFrame ends the render pass and submits the frame's commands. Call Present afterwards.
	//
	// Returns:
	//   - error: an error if no frame is open or command submission failed
	EndFrame() error

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Device returns the GPU device resources are created on.
	//
	// Returns:
	//   - gpu.Device: the device
	Device() gpu.Device

	// SurfaceFormat returns the color format of the frame's render target.
	//
	// Returns:
	//   - gpu.TextureFormat: the surface format
	SurfaceFormat() gpu.TextureFormat

	// SampleCount returns the MSAA sample count of the frame's render target.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// Release frees every cached pipeline and then the device and surface.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing into the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window to present into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer with its surface configured to the window size
//   - error: an error if no adapter or device could be acquired
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	msaa := MSAAOff
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		backend, err := newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.logger)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	}

	r.applyPending()
	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r, nil
}

// newRenderer applies the options. The caller installs the backend.
func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}
	// Options run first so config flags are available before the backend requests an adapter.
	for _, opt := range options {
		opt(r)
	}
	if r.logger == nil {
		r.logger = common.Logger()
	}
	return r
}

func (r *renderer) applyPending() {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Register(r.backend.Device()); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		r.logger.Debug("renderer: pipeline registered", "key", key)
	}
	return nil
}

func (r *renderer) LoadTexture(label string, pixels common.TextureStagingData, sampler common.SamplerStagingData) (gpu.Texture, error) {
	tex, err := r.backend.Device().CreateTexture(gpu.TextureDescriptor{
		Label:   label,
		Pixels:  pixels,
		Sampler: sampler,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %q: %w", label, err)
	}
	r.logger.Debug("renderer: texture loaded", "label", label, "width", pixels.Width, "height", pixels.Height)
	return tex, nil
}

func (r *renderer) LoadTextureFile(path string, sampler common.SamplerStagingData) (gpu.Texture, error) {
	pixels, err := common.DecodeTextureFile(path, false)
	if err != nil {
		return nil, err
	}
	return r.LoadTexture(path, pixels, sampler)
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(c ClearColor) {
	r.backend.SetClearColor(c)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFrame {
		return errors.New("BeginFrame called twice without EndFrame")
	}
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.inFrame = true
	return nil
}

func (r *renderer) FramePass() gpu.RenderPassEncoder {
	return r.backend.FramePass()
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inFrame {
		return errors.New("EndFrame called without BeginFrame")
	}
	r.inFrame = false
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Device() gpu.Device {
	return r.backend.Device()
}

func (r *renderer) SurfaceFormat() gpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SampleCount() uint32 {
	return r.backend.SampleCount()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
