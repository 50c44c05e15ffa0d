package sprite_cache

import "github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"

// DrawCall is one instanced draw of a run of consecutive slots sharing a texture.
type DrawCall struct {
	Texture gpu.Texture
	// InstanceCount is the number of sprites in the run.
	InstanceCount int
	// FirstInstance is the slot of the first sprite in the run.
	FirstInstance int
}

// drawCallBatcher derives the draw call list from the packed dynamic records.
type drawCallBatcher struct {
	calls []DrawCall
}

// rebuild scans slots [0, count) once and starts a new draw call whenever the texture index changes.
// Non-adjacent runs of the same texture stay separate so slot order is also paint order.
func (b *drawCallBatcher) rebuild(dynamic []uint32, count int, table *textureTable) []DrawCall {
	b.calls = b.calls[:0]
	prev := -1
	for slot := 0; slot < count; slot++ {
		idx, _ := unpackTexture(dynamic[slot*dynamicStride+offPacked])
		if idx == prev {
			b.calls[len(b.calls)-1].InstanceCount++
			continue
		}
		b.calls = append(b.calls, DrawCall{
			Texture:       table.at(idx),
			InstanceCount: 1,
			FirstInstance: slot,
		})
		prev = idx
	}
	return b.calls
}

func (b *drawCallBatcher) reset() {
	b.calls = b.calls[:0]
}
