package bind_group_provider

import (
	"sort"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string
	// group is the bind group index this provider binds at.
	group uint32

	// bindGroup is the GPU bind group, or nil until created or after invalidation.
	bindGroup gpu.BindGroup
	// buffers holds the GPU buffers owned by this provider, keyed by binding index.
	buffers map[int]gpu.Buffer
	// texture is the texture referenced by the bind group. It is not owned by the provider.
	texture gpu.Texture
}

// BindGroupProvider holds the GPU handles behind one bind group: the buffers it owns,
// the texture it references and the bind group itself.
//
// Usage pattern:
//  1. A component creates a provider with its buffers or texture
//  2. The component builds the bind group with Entries and stores it via SetBindGroup
//  3. Buffer contents are updated with BufferWrite values applied by WriteBuffers
//  4. When a buffer is replaced the bind group is invalidated and rebuilt lazily
type BindGroupProvider interface {
	// Release releases the buffers and bind group held by this provider.
	// The referenced texture is left alone; its owner releases it.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the bind group index the provider binds at.
	//
	// Returns:
	//   - uint32: the group index
	Group() uint32

	// BindGroup returns the created bind group, or nil if it has not been created.
	//
	// Returns:
	//   - gpu.BindGroup: the bind group or nil
	BindGroup() gpu.BindGroup

	// SetBindGroup stores a created bind group, releasing any previous one.
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg gpu.BindGroup)

	// InvalidateBindGroup releases the bind group but keeps the buffers.
	// Call it whenever a buffer the group references is replaced.
	InvalidateBindGroup()

	// Buffer returns the buffer for a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - gpu.Buffer: the buffer or nil
	Buffer(binding int) gpu.Buffer

	// SetBuffer stores a buffer for a binding. A different buffer already stored at that
	// binding is released and the bind group is invalidated.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf gpu.Buffer)

	// Texture returns the referenced texture, or nil.
	//
	// Returns:
	//   - gpu.Texture: the texture or nil
	Texture() gpu.Texture

	// Entries builds the bind group entries from the stored resources.
	// Buffers come first in binding order; a texture contributes a texture entry at
	// textureBinding and a sampler entry at textureBinding+1.
	//
	// Parameters:
	//   - textureBinding: the binding of the texture entry (ignored without a texture)
	//
	// Returns:
	//   - []gpu.BindGroupEntry: the entries
	Entries(textureBinding uint32) []gpu.BindGroupEntry
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: debug label
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the configured provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]gpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() uint32 {
	return p.group
}

func (p *bindGroupProvider) BindGroup() gpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) SetBindGroup(bg gpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) InvalidateBindGroup() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
}

func (p *bindGroupProvider) Buffer(binding int) gpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf gpu.Buffer) {
	if old, ok := p.buffers[binding]; ok && old != nil && old != buf {
		old.Release()
		p.InvalidateBindGroup()
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) Texture() gpu.Texture {
	return p.texture
}

func (p *bindGroupProvider) Entries(textureBinding uint32) []gpu.BindGroupEntry {
	bindings := make([]int, 0, len(p.buffers))
	for binding := range p.buffers {
		bindings = append(bindings, binding)
	}
	sort.Ints(bindings)

	entries := make([]gpu.BindGroupEntry, 0, len(bindings)+2)
	for _, binding := range bindings {
		entries = append(entries, gpu.BindGroupEntry{Binding: uint32(binding), Buffer: p.buffers[binding]})
	}
	if p.texture != nil {
		entries = append(entries,
			gpu.BindGroupEntry{Binding: textureBinding, Texture: p.texture},
			gpu.BindGroupEntry{Binding: textureBinding + 1, Texture: p.texture},
		)
	}
	return entries
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	p.InvalidateBindGroup()
	p.texture = nil
}
