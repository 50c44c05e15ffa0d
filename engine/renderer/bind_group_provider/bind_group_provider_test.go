package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu/gputest"
)

func TestEntriesOrder(t *testing.T) {
	a := &gputest.Buffer{Label: "a", Data: make([]byte, 4)}
	b := &gputest.Buffer{Label: "b", Data: make([]byte, 4)}
	tex := gputest.NewTexture("tex", 1, 1)

	p := NewBindGroupProvider("test", WithBuffer(2, b), WithBuffer(0, a), WithTexture(tex))
	got := p.Entries(3)

	want := []gpu.BindGroupEntry{
		{Binding: 0, Buffer: a},
		{Binding: 2, Buffer: b},
		{Binding: 3, Texture: tex},
		{Binding: 4, Texture: tex},
	}
	if len(got) != len(want) {
		t.Fatalf("entries = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSetBufferReplacesAndInvalidates(t *testing.T) {
	old := &gputest.Buffer{Label: "old"}
	bg := &gputest.BindGroup{}
	p := NewBindGroupProvider("test", WithBuffer(1, old))
	p.SetBindGroup(bg)

	fresh := &gputest.Buffer{Label: "new"}
	p.SetBuffer(1, fresh)

	if !old.Released {
		t.Error("replaced buffer was not released")
	}
	if !bg.Released || p.BindGroup() != nil {
		t.Error("bind group referencing the replaced buffer was not invalidated")
	}
	if p.Buffer(1) != fresh {
		t.Error("new buffer not stored")
	}

	// Storing the same buffer again is not a replacement.
	bg2 := &gputest.BindGroup{}
	p.SetBindGroup(bg2)
	p.SetBuffer(1, fresh)
	if fresh.Released || bg2.Released {
		t.Error("re-storing the same buffer released resources")
	}
}

func TestReleaseKeepsTexture(t *testing.T) {
	buf := &gputest.Buffer{}
	bg := &gputest.BindGroup{}
	tex := gputest.NewTexture("tex", 1, 1)
	p := NewBindGroupProvider("test", WithBuffer(0, buf), WithTexture(tex), WithGroup(1))
	p.SetBindGroup(bg)

	if p.Group() != 1 {
		t.Errorf("Group = %d, want 1", p.Group())
	}

	p.Release()
	if !buf.Released || !bg.Released {
		t.Error("Release left buffer or bind group alive")
	}
	if tex.Released {
		t.Error("Release must not release the referenced texture")
	}
	if p.Buffer(0) != nil || p.Texture() != nil {
		t.Error("Release left references behind")
	}
}

func TestWriteBuffers(t *testing.T) {
	dev := gputest.NewDevice()
	buf, _ := dev.CreateBuffer(gpu.BufferDescriptor{Label: "u", Size: 8})
	p := NewBindGroupProvider("test", WithBuffer(0, buf))

	WriteBuffers(dev, []BufferWrite{
		{Provider: p, Binding: 0, Offset: 4, Data: []byte{1, 2, 3, 4}},
		{Provider: p, Binding: 5, Data: []byte{9}},
		{Provider: p, Binding: 0, Data: nil},
	})

	if len(dev.Writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(dev.Writes))
	}
	if got := buf.(*gputest.Buffer).Data; got[4] != 1 || got[7] != 4 {
		t.Errorf("buffer = %v", got)
	}
}
