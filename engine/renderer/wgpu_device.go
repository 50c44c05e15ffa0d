package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuBuffer wraps a *wgpu.Buffer as a gpu.Buffer.
type wgpuBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

func (b *wgpuBuffer) Size() uint64 { return b.size }

func (b *wgpuBuffer) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
}

// wgpuTexture is a sampled texture: the texture, a default view and its sampler.
type wgpuTexture struct {
	label   string
	width   uint32
	height  uint32
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

func (t *wgpuTexture) Label() string  { return t.label }
func (t *wgpuTexture) Width() uint32  { return t.width }
func (t *wgpuTexture) Height() uint32 { return t.height }

func (t *wgpuTexture) Release() {
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// wgpuRenderPipeline keeps the explicit bind group layouts next to the pipeline so
// bind groups can be created against them.
type wgpuRenderPipeline struct {
	pipeline *wgpu.RenderPipeline
	layout   *wgpu.PipelineLayout
	groups   []*wgpu.BindGroupLayout
	module   *wgpu.ShaderModule

	// samplers holds the {group, binding} pairs declared as samplers
	samplers map[[2]uint32]bool
}

func (p *wgpuRenderPipeline) Release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	for _, g := range p.groups {
		g.Release()
	}
	p.groups = nil
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

type wgpuBindGroup struct {
	group *wgpu.BindGroup
}

func (g *wgpuBindGroup) Release() {
	if g.group != nil {
		g.group.Release()
		g.group = nil
	}
}

// wgpuDevice implements gpu.Device on top of a wgpu device and its queue.
type wgpuDevice struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue
}

var _ gpu.Device = &wgpuDevice{}

func newWGPUDevice(device *wgpu.Device, queue *wgpu.Queue) *wgpuDevice {
	return &wgpuDevice{mu: &sync.Mutex{}, device: device, queue: queue}
}

func (d *wgpuDevice) CreateBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: common.Coalesce(desc.Label, "Buffer"),
		Size:  desc.Size,
		Usage: toWGPUBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{buffer: buf, size: desc.Size}, nil
}

func (d *wgpuDevice) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := buf.(*wgpuBuffer)
	if !ok || b.buffer == nil || len(data) == 0 {
		return
	}
	d.queue.WriteBuffer(b.buffer, offset, data)
}

func (d *wgpuDevice) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	px := desc.Pixels
	if px.Width == 0 || px.Height == 0 {
		return nil, errors.New("texture has zero size")
	}
	if want := int(px.Width) * int(px.Height) * 4; len(px.Pixels) != want {
		return nil, fmt.Errorf("texture %q has %d bytes of pixels, want %d", desc.Label, len(px.Pixels), want)
	}

	t := &wgpuTexture{label: common.Coalesce(desc.Label, "Texture"), width: px.Width, height: px.Height}
	extent := wgpu.Extent3D{Width: px.Width, Height: px.Height, DepthOrArrayLayers: 1}

	var err error
	t.texture, err = d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         t.label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		px.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  px.Width * 4,
			RowsPerImage: px.Height,
		},
		&extent,
	)

	if t.view, err = t.texture.CreateView(nil); err != nil {
		t.Release()
		return nil, err
	}

	s := desc.Sampler
	if t.sampler, err = d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         t.label + " Sampler",
		AddressModeU:  toWGPUAddressMode(s.AddressModeU),
		AddressModeV:  toWGPUAddressMode(s.AddressModeV),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     toWGPUFilterMode(s.MagFilter),
		MinFilter:     toWGPUFilterMode(s.MinFilter),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func (d *wgpuDevice) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p := &wgpuRenderPipeline{samplers: make(map[[2]uint32]bool)}
	var err error
	p.module, err = d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.ShaderSource,
		},
	})
	if err != nil {
		return nil, err
	}

	for g, layout := range desc.BindGroupLayouts {
		bgl, layoutErr := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   common.Coalesce(layout.Label, fmt.Sprintf("%s Group %d", desc.Label, g)),
			Entries: toWGPULayoutEntries(layout.Entries),
		})
		if layoutErr != nil {
			p.Release()
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		p.groups = append(p.groups, bgl)
		for _, e := range layout.Entries {
			if e.Type == gpu.BindingSampler {
				p.samplers[[2]uint32{uint32(g), e.Binding}] = true
			}
		}
	}

	p.layout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: p.groups,
	})
	if err != nil {
		p.Release()
		return nil, err
	}

	target := wgpu.ColorTargetState{
		Format:    toWGPUTextureFormat(desc.ColorFormat),
		Blend:     toWGPUBlendState(desc.Blend),
		WriteMask: wgpu.ColorWriteMaskAll,
	}

	p.pipeline, err = d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label + " Render Pipeline",
		Layout: p.layout,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: common.Coalesce(desc.VertexEntry, "vs_main"),
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: common.Coalesce(desc.FragmentEntry, "fs_main"),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: common.Coalesce(desc.SampleCount, 1),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (d *wgpuDevice) CreateBindGroup(desc gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := desc.Pipeline.(*wgpuRenderPipeline)
	if !ok || p.pipeline == nil {
		return nil, fmt.Errorf("bind group %q references a pipeline this device did not create", desc.Label)
	}
	if int(desc.Group) >= len(p.groups) {
		return nil, fmt.Errorf("bind group %q targets group %d, pipeline has %d", desc.Label, desc.Group, len(p.groups))
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		switch {
		case e.Buffer != nil:
			buf, ok := e.Buffer.(*wgpuBuffer)
			if !ok || buf.buffer == nil {
				return nil, fmt.Errorf("binding %d has a released or foreign buffer", e.Binding)
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: e.Binding,
				Buffer:  buf.buffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		case e.Texture != nil:
			tex, ok := e.Texture.(*wgpuTexture)
			if !ok || tex.view == nil {
				return nil, fmt.Errorf("binding %d has a released or foreign texture", e.Binding)
			}
			if p.samplers[[2]uint32{desc.Group, e.Binding}] {
				entries = append(entries, wgpu.BindGroupEntry{Binding: e.Binding, Sampler: tex.sampler})
			} else {
				entries = append(entries, wgpu.BindGroupEntry{Binding: e.Binding, TextureView: tex.view})
			}
		default:
			return nil, fmt.Errorf("binding %d has no resource", e.Binding)
		}
	}

	bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label + " Bind Group",
		Layout:  p.groups[desc.Group],
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBindGroup{group: bg}, nil
}

func toWGPULayoutEntries(entries []gpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	out := make([]wgpu.BindGroupLayoutEntry, 0, len(entries))
	for _, e := range entries {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: toWGPUShaderStage(e.Visibility),
		}
		switch e.Type {
		case gpu.BindingUniformBuffer:
			entry.Buffer = wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: e.MinBindingSize,
			}
		case gpu.BindingReadOnlyStorageBuffer:
			entry.Buffer = wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeReadOnlyStorage,
				MinBindingSize: e.MinBindingSize,
			}
		case gpu.BindingTexture:
			entry.Texture = wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			}
		case gpu.BindingSampler:
			entry.Sampler = wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			}
		}
		out = append(out, entry)
	}
	return out
}

func toWGPUShaderStage(s gpu.ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if s&gpu.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&gpu.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}

func toWGPUBufferUsage(u gpu.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&gpu.BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	if u&gpu.BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&gpu.BufferUsageStorage != 0 {
		out |= wgpu.BufferUsageStorage
	}
	if u&gpu.BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&gpu.BufferUsageIndex != 0 {
		out |= wgpu.BufferUsageIndex
	}
	return out
}

func toWGPUTextureFormat(f gpu.TextureFormat) wgpu.TextureFormat {
	switch f {
	case gpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case gpu.TextureFormatBGRA8UnormSrgb:
		return wgpu.TextureFormatBGRA8UnormSrgb
	case gpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case gpu.TextureFormatRGBA8UnormSrgb:
		return wgpu.TextureFormatRGBA8UnormSrgb
	}
	return wgpu.TextureFormatUndefined
}

func fromWGPUTextureFormat(f wgpu.TextureFormat) gpu.TextureFormat {
	switch f {
	case wgpu.TextureFormatBGRA8Unorm:
		return gpu.TextureFormatBGRA8Unorm
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return gpu.TextureFormatBGRA8UnormSrgb
	case wgpu.TextureFormatRGBA8Unorm:
		return gpu.TextureFormatRGBA8Unorm
	case wgpu.TextureFormatRGBA8UnormSrgb:
		return gpu.TextureFormatRGBA8UnormSrgb
	}
	return gpu.TextureFormatUndefined
}

// toWGPUBlendState returns nil for BlendOpaque, which disables blending on the target.
func toWGPUBlendState(m gpu.BlendMode) *wgpu.BlendState {
	add := func(src, dst wgpu.BlendFactor) wgpu.BlendComponent {
		return wgpu.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: wgpu.BlendOperationAdd}
	}
	switch m {
	case gpu.BlendPremultiplied:
		return &wgpu.BlendState{
			Color: add(wgpu.BlendFactorOne, wgpu.BlendFactorOneMinusSrcAlpha),
			Alpha: add(wgpu.BlendFactorOne, wgpu.BlendFactorOneMinusSrcAlpha),
		}
	case gpu.BlendAdditive:
		return &wgpu.BlendState{
			Color: add(wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOne),
			Alpha: add(wgpu.BlendFactorOne, wgpu.BlendFactorOne),
		}
	case gpu.BlendOpaque:
		return nil
	default:
		return &wgpu.BlendState{
			Color: add(wgpu.BlendFactorSrcAlpha, wgpu.BlendFactorOneMinusSrcAlpha),
			Alpha: add(wgpu.BlendFactorOne, wgpu.BlendFactorOneMinusSrcAlpha),
		}
	}
}

func toWGPUFilterMode(m common.FilterMode) wgpu.FilterMode {
	if m == common.FilterNearest {
		return wgpu.FilterModeNearest
	}
	return wgpu.FilterModeLinear
}

func toWGPUAddressMode(m common.AddressMode) wgpu.AddressMode {
	switch m {
	case common.AddressRepeat:
		return wgpu.AddressModeRepeat
	case common.AddressMirrorRepeat:
		return wgpu.AddressModeMirrorRepeat
	}
	return wgpu.AddressModeClampToEdge
}
