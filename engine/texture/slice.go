// Package texture describes drawable regions of GPU textures.
package texture

import "github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"

// Slice is a rectangular region of a texture that a sprite draws.
// UVs are normalized texture coordinates; Width and Height are the region's size in pixels as authored.
type Slice struct {
	// Texture is the texture the region lives in. Sprites are batched by its identity.
	Texture gpu.Texture
	// U, V is the top-left texture coordinate of the stored region.
	U, V float32
	// U1, V1 is the bottom-right texture coordinate of the stored region.
	U1, V1 float32
	// Width and Height are the authored size in pixels.
	Width, Height float32
	// Rotated is true when the region is stored 90 degrees clockwise in the texture.
	Rotated bool
}

// NewSlice returns a slice covering the whole texture.
//
// Parameters:
//   - tex: the texture
//
// Returns:
//   - Slice: the full-texture slice
func NewSlice(tex gpu.Texture) Slice {
	return Slice{
		Texture: tex,
		U1:      1,
		V1:      1,
		Width:   float32(tex.Width()),
		Height:  float32(tex.Height()),
	}
}

// NewRegion returns a slice for a pixel rectangle of the texture.
// For rotated regions width and height are the authored size; the stored rectangle
// in the texture is height x width, as texture packers emit it.
//
// Parameters:
//   - tex: the texture
//   - x, y: top-left pixel of the stored rectangle
//   - width, height: authored size of the region in pixels
//   - rotated: true if the region is stored rotated 90 degrees clockwise
//
// Returns:
//   - Slice: the region slice
func NewRegion(tex gpu.Texture, x, y, width, height int, rotated bool) Slice {
	tw := float32(tex.Width())
	th := float32(tex.Height())

	sw, sh := width, height
	if rotated {
		sw, sh = height, width
	}

	return Slice{
		Texture: tex,
		U:       float32(x) / tw,
		V:       float32(y) / th,
		U1:      float32(x+sw) / tw,
		V1:      float32(y+sh) / th,
		Width:   float32(width),
		Height:  float32(height),
		Rotated: rotated,
	}
}

// Split cuts a texture into a grid of cells, row by row from the top-left.
// Partial cells at the right and bottom edges are dropped.
//
// Parameters:
//   - tex: the texture
//   - cellWidth, cellHeight: the cell size in pixels (must be positive)
//
// Returns:
//   - []Slice: the cells in row-major order
func Split(tex gpu.Texture, cellWidth, cellHeight int) []Slice {
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil
	}
	cols := int(tex.Width()) / cellWidth
	rows := int(tex.Height()) / cellHeight

	out := make([]Slice, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, NewRegion(tex, c*cellWidth, r*cellHeight, cellWidth, cellHeight, false))
		}
	}
	return out
}

// Flip mirrors the slice's texture coordinates.
//
// Parameters:
//   - horizontal: mirror left/right
//   - vertical: mirror top/bottom
//
// Returns:
//   - Slice: the mirrored slice
func (s Slice) Flip(horizontal, vertical bool) Slice {
	if s.Rotated {
		horizontal, vertical = vertical, horizontal
	}
	if horizontal {
		s.U, s.U1 = s.U1, s.U
	}
	if vertical {
		s.V, s.V1 = s.V1, s.V
	}
	return s
}

// UV returns the texture coordinates as u, v, u1, v1.
func (s Slice) UV() [4]float32 {
	return [4]float32{s.U, s.V, s.U1, s.V1}
}
