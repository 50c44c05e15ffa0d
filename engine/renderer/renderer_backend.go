package renderer

import "github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1). This is the default; sprites are axis-aligned textured quads.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing, which smooths the edges of rotated sprites.
	MSAA4x MSAASampleCount = 4
)

// ClearColor is the color the frame is cleared to, in linear RGBA.
type ClearColor struct {
	R, G, B, A float64
}

// RendererBackend is the per-API half of the Renderer: surface management and frame recording.
type RendererBackend interface {
	ConfigureSurface(width, height int)
	SetPresentMode(mode PresentMode)
	SetClearColor(c ClearColor)
	BeginFrame() error
	FramePass() gpu.RenderPassEncoder
	EndFrame() error
	Present()
	Device() gpu.Device
	SurfaceFormat() gpu.TextureFormat
	SampleCount() uint32
	Release()
}
