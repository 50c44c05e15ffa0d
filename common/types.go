// package common contains plain data types and helpers shared across the engine. They are not interface-wrapped structs.
package common

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// FilterMode selects how a sampler filters texels.
type FilterMode int

const (
	// FilterLinear blends neighbouring texels. This is the default.
	FilterLinear FilterMode = iota
	// FilterNearest picks the closest texel, which keeps pixel art crisp.
	FilterNearest
)

// AddressMode selects how a sampler treats texture coordinates outside [0, 1].
type AddressMode int

const (
	// AddressClampToEdge clamps coordinates to the edge texel. This is the default.
	AddressClampToEdge AddressMode = iota
	// AddressRepeat wraps coordinates.
	AddressRepeat
	// AddressMirrorRepeat wraps coordinates, mirroring every other repetition.
	AddressMirrorRepeat
)

// TextureStagingData holds RGBA8 pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the RGBA pixel data, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the texture width in pixels.
	Width uint32
	// Height is the texture height in pixels.
	Height uint32
	// Premultiplied reports whether the color channels are premultiplied by alpha.
	Premultiplied bool
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
// The zero value is a linear, clamp-to-edge sampler.
type SamplerStagingData struct {
	MagFilter, MinFilter       FilterMode
	AddressModeU, AddressModeV AddressMode
}

// DecodeTexture decodes a PNG, JPEG, WebP or BMP image into RGBA8 staging data.
//
// Parameters:
//   - r: the encoded image
//   - premultiply: true to produce alpha-premultiplied pixels, false for straight alpha
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: an error if the image could not be decoded
func DecodeTexture(r io.Reader, premultiply bool) (TextureStagingData, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture: %w", err)
	}
	Logger().Debug("decoded texture", "format", format, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return ImageToStagingData(img, premultiply), nil
}

// DecodeTextureFile opens and decodes an image file. See DecodeTexture.
//
// Parameters:
//   - path: the image file path
//   - premultiply: true to produce alpha-premultiplied pixels
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: an error if the file could not be opened or decoded
func DecodeTextureFile(path string, premultiply bool) (TextureStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer f.Close()

	data, err := DecodeTexture(f, premultiply)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// ImageToStagingData converts any image into tightly packed RGBA8 staging data.
//
// Parameters:
//   - img: the source image
//   - premultiply: true for premultiplied alpha (image.RGBA), false for straight alpha (image.NRGBA)
//
// Returns:
//   - TextureStagingData: the converted pixels
func ImageToStagingData(img image.Image, premultiply bool) TextureStagingData {
	b := img.Bounds()
	dr := image.Rect(0, 0, b.Dx(), b.Dy())

	var pix []byte
	if premultiply {
		dst := image.NewRGBA(dr)
		draw.Draw(dst, dr, img, b.Min, draw.Src)
		pix = dst.Pix
	} else {
		dst := image.NewNRGBA(dr)
		draw.Draw(dst, dr, img, b.Min, draw.Src)
		pix = dst.Pix
	}

	return TextureStagingData{
		Pixels:        pix,
		Width:         uint32(dr.Dx()),
		Height:        uint32(dr.Dy()),
		Premultiplied: premultiply,
	}
}

// ResizeTexture rescales staging data to the given size. Nearest filtering keeps hard pixel edges,
// linear filtering uses a Catmull-Rom kernel.
//
// Parameters:
//   - src: the source pixels
//   - width, height: the target size in pixels (must be non-zero)
//   - filter: the filter used for resampling
//
// Returns:
//   - TextureStagingData: the resized pixels
func ResizeTexture(src TextureStagingData, width, height uint32, filter FilterMode) TextureStagingData {
	sr := image.Rect(0, 0, int(src.Width), int(src.Height))
	dr := image.Rect(0, 0, int(width), int(height))

	var scaler draw.Scaler = draw.CatmullRom
	if filter == FilterNearest {
		scaler = draw.NearestNeighbor
	}

	var pix []byte
	if src.Premultiplied {
		s := &image.RGBA{Pix: src.Pixels, Stride: int(src.Width) * 4, Rect: sr}
		dst := image.NewRGBA(dr)
		scaler.Scale(dst, dr, s, sr, draw.Src, nil)
		pix = dst.Pix
	} else {
		s := &image.NRGBA{Pix: src.Pixels, Stride: int(src.Width) * 4, Rect: sr}
		dst := image.NewNRGBA(dr)
		scaler.Scale(dst, dr, s, sr, draw.Src, nil)
		pix = dst.Pix
	}

	return TextureStagingData{
		Pixels:        pix,
		Width:         width,
		Height:        height,
		Premultiplied: src.Premultiplied,
	}
}

// SolidTexture builds a single-color texture, handy for untextured quads.
//
// Parameters:
//   - width, height: the size in pixels
//   - rgba: the fill color
//
// Returns:
//   - TextureStagingData: the filled pixels
func SolidTexture(width, height uint32, rgba [4]byte) TextureStagingData {
	pix := make([]byte, int(width)*int(height)*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:i+4], rgba[:])
	}
	return TextureStagingData{Pixels: pix, Width: width, Height: height}
}
