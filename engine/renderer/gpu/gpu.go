// Package gpu is the narrow slice of the GPU API that engine components draw through.
// The wgpu-backed implementation lives in the renderer package; tests use gputest.
package gpu

import "github.com/Carmen-Shannon/oxy2d/common"

// Buffer is a GPU buffer handle.
type Buffer interface {
	// Size returns the allocated size of the buffer in bytes.
	Size() uint64
	// Release frees the GPU buffer.
	Release()
}

// BindGroup is a GPU bind group handle.
type BindGroup interface {
	Release()
}

// RenderPipeline is a GPU render pipeline handle together with the bind group layouts it was created with.
type RenderPipeline interface {
	Release()
}

// Texture is a sampled GPU texture with its view and sampler.
// Its identity (interface equality) is what sprite batching keys on.
type Texture interface {
	// Label returns the debug label of the texture.
	Label() string
	// Width returns the texture width in pixels.
	Width() uint32
	// Height returns the texture height in pixels.
	Height() uint32
	// Release frees the texture, its view and its sampler.
	Release()
}

// Device creates GPU resources and writes buffer contents.
type Device interface {
	// CreateBuffer allocates a GPU buffer.
	//
	// Parameters:
	//   - desc: the buffer descriptor
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: an error if the allocation failed
	CreateBuffer(desc BufferDescriptor) (Buffer, error)

	// WriteBuffer queues a write of data into buf at the given byte offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the destination byte offset
	//   - data: the bytes to write
	WriteBuffer(buf Buffer, offset uint64, data []byte)

	// CreateTexture uploads pixel data into a new sampled texture.
	//
	// Parameters:
	//   - desc: the texture descriptor
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: an error if creation failed
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateRenderPipeline compiles a shader and creates a render pipeline with explicit bind group layouts.
	//
	// Parameters:
	//   - desc: the pipeline descriptor
	//
	// Returns:
	//   - RenderPipeline: the created pipeline
	//   - error: an error if compilation or creation failed
	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateBindGroup creates a bind group against one of a pipeline's layouts.
	//
	// Parameters:
	//   - desc: the bind group descriptor
	//
	// Returns:
	//   - BindGroup: the created bind group
	//   - error: an error if creation failed
	CreateBindGroup(desc BindGroupDescriptor) (BindGroup, error)
}

// RenderPassEncoder records draw commands into an open render pass.
type RenderPassEncoder interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, group BindGroup)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// BufferUsage is a set of buffer usage flags.
type BufferUsage uint32

const (
	BufferUsageCopyDst BufferUsage = 1 << iota
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageVertex
	BufferUsageIndex
)

// TextureFormat identifies a render target color format.
type TextureFormat int

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSrgb
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSrgb
)

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatBGRA8Unorm:
		return "bgra8unorm"
	case TextureFormatBGRA8UnormSrgb:
		return "bgra8unorm-srgb"
	case TextureFormatRGBA8Unorm:
		return "rgba8unorm"
	case TextureFormatRGBA8UnormSrgb:
		return "rgba8unorm-srgb"
	}
	return "undefined"
}

// BlendMode selects the color blend equation of a pipeline.
type BlendMode int

const (
	// BlendAlpha is straight alpha blending: src*a + dst*(1-a).
	BlendAlpha BlendMode = iota
	// BlendPremultiplied expects premultiplied colors: src + dst*(1-a).
	BlendPremultiplied
	// BlendAdditive adds the source on top: src*a + dst.
	BlendAdditive
	// BlendOpaque writes the source unblended.
	BlendOpaque
)

func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendPremultiplied:
		return "premultiplied"
	case BlendAdditive:
		return "additive"
	case BlendOpaque:
		return "opaque"
	}
	return "unknown"
}

// ShaderStage is a set of shader stage visibility flags.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

// BindingType identifies the resource kind of a bind group layout entry.
type BindingType int

const (
	BindingUniformBuffer BindingType = iota
	BindingReadOnlyStorageBuffer
	BindingTexture
	BindingSampler
)

// BufferDescriptor describes a buffer allocation.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// TextureDescriptor describes a texture upload and its sampler.
type TextureDescriptor struct {
	Label   string
	Pixels  common.TextureStagingData
	Sampler common.SamplerStagingData
}

// BindGroupLayoutEntry describes one binding slot of a bind group layout.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Type       BindingType
	Visibility ShaderStage
	// MinBindingSize applies to buffer bindings. Zero means no minimum.
	MinBindingSize uint64
}

// BindGroupLayout is the ordered list of entries for one bind group index.
type BindGroupLayout struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// RenderPipelineDescriptor describes a render pipeline that pulls all vertex data from bind groups.
type RenderPipelineDescriptor struct {
	Label            string
	ShaderSource     string
	VertexEntry      string
	FragmentEntry    string
	ColorFormat      TextureFormat
	Blend            BlendMode
	SampleCount      uint32
	BindGroupLayouts []BindGroupLayout
}

// BindGroupEntry binds one resource. Exactly one of Buffer or Texture is set;
// a BindingSampler entry takes the sampler of Texture.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
	Texture Texture
}

// BindGroupDescriptor describes a bind group created against layout Group of Pipeline.
type BindGroupDescriptor struct {
	Label    string
	Pipeline RenderPipeline
	Group    uint32
	Entries  []BindGroupEntry
}
