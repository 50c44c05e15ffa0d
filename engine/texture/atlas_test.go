package texture

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu/gputest"
)

const hashAtlas = `{
  "frames": {
    "coin": {"frame": {"x": 0, "y": 0, "w": 16, "h": 16}, "rotated": false},
    "sword": {"frame": {"x": 16, "y": 0, "w": 8, "h": 32}, "rotated": true}
  }
}`

const arrayAtlas = `{
  "textures": [
    {"image": "page0.png", "frames": {"gem": {"frame": {"x": 32, "y": 32, "w": 32, "h": 32}}}}
  ]
}`

func TestParseAtlasHash(t *testing.T) {
	tex := gputest.NewTexture("atlas", 64, 64)
	a, err := ParseAtlas([]byte(hashAtlas), tex)
	if err != nil {
		t.Fatalf("ParseAtlas: %v", err)
	}

	if got := a.Names(); len(got) != 2 || got[0] != "coin" || got[1] != "sword" {
		t.Errorf("Names = %v, want [coin sword]", got)
	}

	sword, ok := a.Slice("sword")
	if !ok {
		t.Fatal("sword region missing")
	}
	if !sword.Rotated {
		t.Error("sword should be rotated")
	}
	if sword.Width != 32 || sword.Height != 8 {
		t.Errorf("sword authored size = %vx%v, want 32x8", sword.Width, sword.Height)
	}
	if sword.U1 != 0.375 || sword.V1 != 0.5 {
		t.Errorf("sword stored corner = (%v, %v), want (0.375, 0.5)", sword.U1, sword.V1)
	}

	if _, ok := a.Slice("shield"); ok {
		t.Error("unexpected shield region")
	}
}

func TestParseAtlasArray(t *testing.T) {
	a, err := ParseAtlas([]byte(arrayAtlas), gputest.NewTexture("atlas", 64, 64))
	if err != nil {
		t.Fatalf("ParseAtlas: %v", err)
	}
	gem, ok := a.Slice("gem")
	if !ok {
		t.Fatal("gem region missing")
	}
	if gem.UV() != [4]float32{0.5, 0.5, 1, 1} {
		t.Errorf("gem UV = %v", gem.UV())
	}
}

func TestParseAtlasErrors(t *testing.T) {
	tex := gputest.NewTexture("atlas", 64, 64)
	if _, err := ParseAtlas([]byte(`{"meta": {}}`), tex); !errors.Is(err, ErrNoFrames) {
		t.Errorf("err = %v, want ErrNoFrames", err)
	}
	if _, err := ParseAtlas([]byte(`{`), tex); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}
