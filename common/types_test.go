package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return &buf
}

func TestDecodeTexture(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{G: 255, A: 128})

	t.Run("straight", func(t *testing.T) {
		data, err := DecodeTexture(encodePNG(t, src), false)
		if err != nil {
			t.Fatalf("DecodeTexture: %v", err)
		}
		if data.Width != 2 || data.Height != 1 {
			t.Fatalf("size = %dx%d, want 2x1", data.Width, data.Height)
		}
		if len(data.Pixels) != 8 {
			t.Fatalf("len(Pixels) = %d, want 8", len(data.Pixels))
		}
		if got := data.Pixels[5]; got != 255 {
			t.Errorf("green of translucent pixel = %d, want 255", got)
		}
	})

	t.Run("premultiplied", func(t *testing.T) {
		data, err := DecodeTexture(encodePNG(t, src), true)
		if err != nil {
			t.Fatalf("DecodeTexture: %v", err)
		}
		if !data.Premultiplied {
			t.Error("Premultiplied = false, want true")
		}
		if got := data.Pixels[5]; got != 128 {
			t.Errorf("green of translucent pixel = %d, want 128", got)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := DecodeTexture(bytes.NewReader([]byte("nope")), false); err == nil {
			t.Error("expected an error for undecodable input")
		}
	})
}

func TestDecodeTextureFileMissing(t *testing.T) {
	if _, err := DecodeTextureFile("does/not/exist.png", false); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestImageToStagingDataOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 13, 12))
	data := ImageToStagingData(src, true)
	if data.Width != 3 || data.Height != 2 {
		t.Errorf("size = %dx%d, want 3x2", data.Width, data.Height)
	}
}

func TestResizeTextureNearest(t *testing.T) {
	src := SolidTexture(2, 2, [4]byte{10, 20, 30, 255})
	dst := ResizeTexture(src, 4, 6, FilterNearest)
	if dst.Width != 4 || dst.Height != 6 {
		t.Fatalf("size = %dx%d, want 4x6", dst.Width, dst.Height)
	}
	if len(dst.Pixels) != 4*6*4 {
		t.Fatalf("len(Pixels) = %d, want %d", len(dst.Pixels), 4*6*4)
	}
	for i := 0; i < len(dst.Pixels); i += 4 {
		if dst.Pixels[i] != 10 || dst.Pixels[i+3] != 255 {
			t.Fatalf("pixel %d = %v, want the source color", i/4, dst.Pixels[i:i+4])
		}
	}
}

func TestSolidTexture(t *testing.T) {
	data := SolidTexture(3, 2, [4]byte{1, 2, 3, 4})
	if len(data.Pixels) != 24 {
		t.Fatalf("len(Pixels) = %d, want 24", len(data.Pixels))
	}
	if data.Pixels[20] != 1 || data.Pixels[23] != 4 {
		t.Errorf("last pixel = %v, want [1 2 3 4]", data.Pixels[20:24])
	}
}
