package bind_group_provider

import "github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// WriteBuffers applies staged writes in order. Writes whose binding has no buffer, or that carry no data, are skipped.
//
// Parameters:
//   - device: the device whose queue receives the writes
//   - writes: the staged writes
func WriteBuffers(device gpu.Device, writes []BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil || len(w.Data) == 0 {
			continue
		}
		device.WriteBuffer(buf, w.Offset, w.Data)
	}
}
