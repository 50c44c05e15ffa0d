package pipeline

import (
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/shader"
)

// PipelineBuilderOption is a functional option applied to a pipeline during construction via NewPipeline.
type PipelineBuilderOption func(*pipeline)

// WithShader sets the shader the pipeline is built from.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the shader
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithColorFormat sets the color target format. It must match the render pass the pipeline draws into.
//
// Parameters:
//   - format: the color target format
//
// Returns:
//   - PipelineBuilderOption: a function that sets the format
func WithColorFormat(format gpu.TextureFormat) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorFormat = format
	}
}

// WithBlendMode sets the blend equation of the color target.
//
// Parameters:
//   - mode: the blend mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend mode
func WithBlendMode(mode gpu.BlendMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendMode = mode
	}
}

// WithSampleCount sets the MSAA sample count. It must match the render pass the pipeline draws into.
//
// Parameters:
//   - count: the sample count (1 disables MSAA)
//
// Returns:
//   - PipelineBuilderOption: a function that sets the sample count
func WithSampleCount(count uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.sampleCount = max(count, 1)
	}
}
