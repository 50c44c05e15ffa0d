package sprite_cache

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
)

// resourceBinder owns the GPU mirrors of the attribute store and the bind groups that reference them.
// Group 0 (records) is shared by every draw call; group 1 is cached per texture.
type resourceBinder struct {
	device   gpu.Device
	pipeline gpu.RenderPipeline
	label    string
	logger   *slog.Logger

	records  bind_group_provider.BindGroupProvider
	textures map[gpu.Texture]bind_group_provider.BindGroupProvider

	projection         [16]float32
	projectionUploaded bool

	writes []bind_group_provider.BufferWrite
}

func newResourceBinder(device gpu.Device, pipeline gpu.RenderPipeline, label string, logger *slog.Logger, staticBytes, dynamicBytes uint64) (*resourceBinder, error) {
	b := &resourceBinder{
		device:   device,
		pipeline: pipeline,
		label:    label,
		logger:   logger,
		textures: make(map[gpu.Texture]bind_group_provider.BindGroupProvider),
	}

	uniform, err := device.CreateBuffer(gpu.BufferDescriptor{
		Label: label + " View Projection",
		Size:  uniformSize,
		Usage: gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("sprite_cache: failed to create uniform buffer: %w", err)
	}
	b.records = bind_group_provider.NewBindGroupProvider(label+" Records",
		bind_group_provider.WithGroup(0),
		bind_group_provider.WithBuffer(bindingViewProjection, uniform),
	)

	if _, err := b.ensureCapacity(staticBytes, dynamicBytes); err != nil {
		b.release()
		return nil, err
	}

	common.Identity(b.projection[:])
	b.stage(bindingViewProjection, common.SliceToBytes(b.projection[:]))
	b.flush()
	b.projectionUploaded = true
	return b, nil
}

// ensureCapacity recreates any storage buffer smaller than required. A recreated buffer
// invalidates every cached bind group, since bind groups reference buffers by identity.
func (b *resourceBinder) ensureCapacity(staticBytes, dynamicBytes uint64) (bool, error) {
	recreated := false
	for _, need := range []struct {
		binding int
		size    uint64
		name    string
	}{
		{bindingStatic, staticBytes, "Static"},
		{bindingDynamic, dynamicBytes, "Dynamic"},
	} {
		if cur := b.records.Buffer(need.binding); cur != nil && cur.Size() >= need.size {
			continue
		}
		buf, err := b.device.CreateBuffer(gpu.BufferDescriptor{
			Label: b.label + " " + need.name,
			Size:  need.size,
			Usage: gpu.BufferUsageStorage | gpu.BufferUsageCopyDst,
		})
		if err != nil {
			return recreated, fmt.Errorf("sprite_cache: failed to create %s buffer of %d bytes: %w", need.name, need.size, err)
		}
		b.logger.Debug("sprite_cache: storage buffer recreated", "cache", b.label, "buffer", need.name, "bytes", need.size)
		b.records.SetBuffer(need.binding, buf)
		recreated = true
	}
	if recreated {
		b.invalidate()
	}
	return recreated, nil
}

// invalidate drops every cached bind group.
func (b *resourceBinder) invalidate() {
	b.records.InvalidateBindGroup()
	for tex, p := range b.textures {
		p.Release()
		delete(b.textures, tex)
	}
	b.logger.Debug("sprite_cache: bind groups invalidated", "cache", b.label)
}

// setProjection stages a uniform write when the matrix differs from the last one uploaded.
func (b *resourceBinder) setProjection(m *[16]float32) bool {
	if b.projectionUploaded && *m == b.projection {
		return false
	}
	b.projection = *m
	b.stage(bindingViewProjection, common.SliceToBytes(b.projection[:]))
	b.projectionUploaded = true
	return true
}

func (b *resourceBinder) stage(binding int, data []byte) {
	b.writes = append(b.writes, bind_group_provider.BufferWrite{
		Provider: b.records,
		Binding:  binding,
		Data:     data,
	})
}

func (b *resourceBinder) flush() {
	bind_group_provider.WriteBuffers(b.device, b.writes)
	clear(b.writes)
	b.writes = b.writes[:0]
}

// bindGroupsFor returns the records group and the group of tex, creating either lazily.
func (b *resourceBinder) bindGroupsFor(tex gpu.Texture) (gpu.BindGroup, gpu.BindGroup, error) {
	if b.records.BindGroup() == nil {
		bg, err := b.device.CreateBindGroup(gpu.BindGroupDescriptor{
			Label:    b.records.Label(),
			Pipeline: b.pipeline,
			Group:    b.records.Group(),
			Entries:  b.records.Entries(0),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("sprite_cache: failed to create records bind group: %w", err)
		}
		b.records.SetBindGroup(bg)
	}

	p, ok := b.textures[tex]
	if !ok {
		p = bind_group_provider.NewBindGroupProvider(b.label+" "+tex.Label(),
			bind_group_provider.WithGroup(1),
			bind_group_provider.WithTexture(tex),
		)
		bg, err := b.device.CreateBindGroup(gpu.BindGroupDescriptor{
			Label:    p.Label(),
			Pipeline: b.pipeline,
			Group:    p.Group(),
			Entries:  p.Entries(0),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("sprite_cache: failed to create bind group for texture %q: %w", tex.Label(), err)
		}
		p.SetBindGroup(bg)
		b.textures[tex] = p
	}
	return b.records.BindGroup(), p.BindGroup(), nil
}

func (b *resourceBinder) cachedTextureGroups() int {
	return len(b.textures)
}

func (b *resourceBinder) release() {
	for tex, p := range b.textures {
		p.Release()
		delete(b.textures, tex)
	}
	if b.records != nil {
		b.records.Release()
	}
	b.writes = nil
}
