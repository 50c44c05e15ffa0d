// Package gputest provides recording fakes of the gpu interfaces for GPU-free tests.
package gputest

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
)

// Buffer is a fake GPU buffer that applies writes to a byte slice.
type Buffer struct {
	Label    string
	Usage    gpu.BufferUsage
	Data     []byte
	Released bool
}

func (b *Buffer) Size() uint64 { return uint64(len(b.Data)) }
func (b *Buffer) Release()     { b.Released = true }

// BindGroup is a fake bind group.
type BindGroup struct {
	Desc     gpu.BindGroupDescriptor
	Released bool
}

func (g *BindGroup) Release() { g.Released = true }

// Pipeline is a fake render pipeline.
type Pipeline struct {
	Desc     gpu.RenderPipelineDescriptor
	Released bool
}

func (p *Pipeline) Release() { p.Released = true }

// Texture is a fake texture.
type Texture struct {
	Name     string
	W, H     uint32
	Desc     gpu.TextureDescriptor
	Released bool
}

// NewTexture returns a texture that was never uploaded, for tests that only need an identity.
func NewTexture(label string, width, height uint32) *Texture {
	return &Texture{Name: label, W: width, H: height}
}

func (t *Texture) Label() string  { return t.Name }
func (t *Texture) Width() uint32  { return t.W }
func (t *Texture) Height() uint32 { return t.H }
func (t *Texture) Release()       { t.Released = true }
func (t *Texture) String() string { return t.Name }

// Write records one WriteBuffer call.
type Write struct {
	Buffer *Buffer
	Offset uint64
	Data   []byte
}

// Device is a recording gpu.Device. Setting one of the Fail fields makes the matching
// creation call return that error.
type Device struct {
	Buffers    []*Buffer
	Writes     []Write
	Textures   []*Texture
	Pipelines  []*Pipeline
	BindGroups []*BindGroup

	FailCreateBuffer    error
	FailCreateTexture   error
	FailCreatePipeline  error
	FailCreateBindGroup error
}

var _ gpu.Device = &Device{}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{}
}

func (d *Device) CreateBuffer(desc gpu.BufferDescriptor) (gpu.Buffer, error) {
	if d.FailCreateBuffer != nil {
		return nil, d.FailCreateBuffer
	}
	b := &Buffer{Label: desc.Label, Usage: desc.Usage, Data: make([]byte, desc.Size)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

func (d *Device) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) {
	b, ok := buf.(*Buffer)
	if !ok {
		panic(fmt.Sprintf("gputest: WriteBuffer on foreign buffer %T", buf))
	}
	if b.Released {
		panic("gputest: WriteBuffer on released buffer " + b.Label)
	}
	if offset+uint64(len(data)) > uint64(len(b.Data)) {
		panic(fmt.Sprintf("gputest: write of %d bytes at %d overflows %q (%d bytes)", len(data), offset, b.Label, len(b.Data)))
	}
	copy(b.Data[offset:], data)
	d.Writes = append(d.Writes, Write{Buffer: b, Offset: offset, Data: append([]byte(nil), data...)})
}

func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if d.FailCreateTexture != nil {
		return nil, d.FailCreateTexture
	}
	t := &Texture{Name: desc.Label, W: desc.Pixels.Width, H: desc.Pixels.Height, Desc: desc}
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	if d.FailCreatePipeline != nil {
		return nil, d.FailCreatePipeline
	}
	p := &Pipeline{Desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

func (d *Device) CreateBindGroup(desc gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	if d.FailCreateBindGroup != nil {
		return nil, d.FailCreateBindGroup
	}
	g := &BindGroup{Desc: desc}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

// WritesTo returns the writes that targeted buffers with the given label.
func (d *Device) WritesTo(label string) []Write {
	var out []Write
	for _, w := range d.Writes {
		if w.Buffer.Label == label {
			out = append(out, w)
		}
	}
	return out
}

// ResetWrites forgets recorded writes, keeping buffer contents.
func (d *Device) ResetWrites() {
	d.Writes = nil
}

// LiveBuffers returns the buffers that have not been released.
func (d *Device) LiveBuffers() []*Buffer {
	var out []*Buffer
	for _, b := range d.Buffers {
		if !b.Released {
			out = append(out, b)
		}
	}
	return out
}

// CommandKind identifies a recorded render pass command.
type CommandKind int

const (
	CmdSetPipeline CommandKind = iota
	CmdSetBindGroup
	CmdDraw
)

// Command is one recorded render pass command.
type Command struct {
	Kind     CommandKind
	Pipeline gpu.RenderPipeline
	Index    uint32
	Group    gpu.BindGroup

	VertexCount, InstanceCount, FirstVertex, FirstInstance uint32
}

// RenderPass is a recording gpu.RenderPassEncoder.
type RenderPass struct {
	Commands []Command
}

var _ gpu.RenderPassEncoder = &RenderPass{}

func (r *RenderPass) SetPipeline(p gpu.RenderPipeline) {
	r.Commands = append(r.Commands, Command{Kind: CmdSetPipeline, Pipeline: p})
}

func (r *RenderPass) SetBindGroup(index uint32, group gpu.BindGroup) {
	r.Commands = append(r.Commands, Command{Kind: CmdSetBindGroup, Index: index, Group: group})
}

func (r *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.Commands = append(r.Commands, Command{
		Kind:          CmdDraw,
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		FirstVertex:   firstVertex,
		FirstInstance: firstInstance,
	})
}

// Draws returns only the draw commands, in order.
func (r *RenderPass) Draws() []Command {
	return r.filter(CmdDraw)
}

// BindGroupSets returns only the bind group commands, in order.
func (r *RenderPass) BindGroupSets() []Command {
	return r.filter(CmdSetBindGroup)
}

// PipelineSets returns only the pipeline commands, in order.
func (r *RenderPass) PipelineSets() []Command {
	return r.filter(CmdSetPipeline)
}

// Reset forgets all recorded commands.
func (r *RenderPass) Reset() {
	r.Commands = nil
}

func (r *RenderPass) filter(kind CommandKind) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
