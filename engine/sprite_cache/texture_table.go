package sprite_cache

import "github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"

// textureTable is the append-only list of textures a cache has seen, in first-seen order.
// A texture's index never changes and is never handed to another texture.
type textureTable struct {
	textures []gpu.Texture
	index    map[gpu.Texture]int
}

func newTextureTable() *textureTable {
	return &textureTable{index: make(map[gpu.Texture]int)}
}

// indexOf returns the texture's index, appending it if it has not been seen.
func (t *textureTable) indexOf(tex gpu.Texture) (int, error) {
	if i, ok := t.index[tex]; ok {
		return i, nil
	}
	if len(t.textures) >= MaxTextures {
		return 0, ErrTextureTableFull
	}
	i := len(t.textures)
	t.textures = append(t.textures, tex)
	t.index[tex] = i
	return i, nil
}

func (t *textureTable) at(i int) gpu.Texture {
	return t.textures[i]
}

func (t *textureTable) len() int {
	return len(t.textures)
}

func (t *textureTable) release() {
	t.textures = nil
	t.index = nil
}
