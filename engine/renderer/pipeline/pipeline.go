package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/shader"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	shader shader.Shader

	// renderPipeline is the created GPU pipeline, nil until Register succeeds
	renderPipeline gpu.RenderPipeline

	// The following properties configure the pipeline during creation and are set with the builder options.

	colorFormat gpu.TextureFormat
	blendMode   gpu.BlendMode
	sampleCount uint32
}

// Pipeline describes a render pipeline that pulls vertices from bind groups and
// holds the GPU pipeline once it has been registered with a device.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the shader the pipeline is built from.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// ColorFormat returns the format of the color target.
	//
	// Returns:
	//   - gpu.TextureFormat: the color target format
	ColorFormat() gpu.TextureFormat

	// BlendMode returns the blend equation of the color target.
	//
	// Returns:
	//   - gpu.BlendMode: the blend mode
	BlendMode() gpu.BlendMode

	// SampleCount returns the MSAA sample count of the render target.
	//
	// Returns:
	//   - uint32: the sample count
	SampleCount() uint32

	// Descriptor builds the device-level descriptor for this pipeline.
	//
	// Returns:
	//   - gpu.RenderPipelineDescriptor: the descriptor
	Descriptor() gpu.RenderPipelineDescriptor

	// Register creates the GPU pipeline on the device. Registering twice is a no-op.
	//
	// Parameters:
	//   - device: the device to create the pipeline on
	//
	// Returns:
	//   - error: an error if pipeline creation failed
	Register(device gpu.Device) error

	// RenderPipeline returns the created GPU pipeline, or nil if not registered.
	//
	// Returns:
	//   - gpu.RenderPipeline: the pipeline or nil
	RenderPipeline() gpu.RenderPipeline

	// Release frees the GPU pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline description. The shader defaults to the built-in sprite shader,
// the color format to BGRA8Unorm, the blend mode to straight alpha and the sample count to 1.
//
// Parameters:
//   - key: the unique pipeline key
//   - options: builder options
//
// Returns:
//   - Pipeline: the pipeline
func NewPipeline(key string, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey: key,
		colorFormat: gpu.TextureFormatBGRA8Unorm,
		blendMode:   gpu.BlendAlpha,
		sampleCount: 1,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.shader == nil {
		p.shader = shader.Sprite()
	}
	return p
}

// SpriteKey builds the conventional key of a sprite pipeline for a target configuration.
func SpriteKey(label string, format gpu.TextureFormat, blend gpu.BlendMode, samples uint32) string {
	return fmt.Sprintf("%s/%s/%s/%dx", label, format, blend, samples)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) ColorFormat() gpu.TextureFormat {
	return p.colorFormat
}

func (p *pipeline) BlendMode() gpu.BlendMode {
	return p.blendMode
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) Descriptor() gpu.RenderPipelineDescriptor {
	return gpu.RenderPipelineDescriptor{
		Label:            p.pipelineKey,
		ShaderSource:     p.shader.Source(),
		VertexEntry:      p.shader.VertexEntryPoint(),
		FragmentEntry:    p.shader.FragmentEntryPoint(),
		ColorFormat:      p.colorFormat,
		Blend:            p.blendMode,
		SampleCount:      p.sampleCount,
		BindGroupLayouts: p.shader.BindGroupLayouts(),
	}
}

func (p *pipeline) Register(device gpu.Device) error {
	if p.renderPipeline != nil {
		return nil
	}
	created, err := device.CreateRenderPipeline(p.Descriptor())
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", p.pipelineKey, err)
	}
	p.renderPipeline = created
	return nil
}

func (p *pipeline) RenderPipeline() gpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
