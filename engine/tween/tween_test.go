package tween

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy2d/engine/sprite_cache"
	"github.com/Carmen-Shannon/oxy2d/engine/texture"
	"github.com/tanema/gween/ease"
)

func newCache(t *testing.T) sprite_cache.SpriteCache {
	t.Helper()
	c, err := sprite_cache.NewSpriteCache(gputest.NewDevice(), gpu.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("NewSpriteCache: %v", err)
	}
	t.Cleanup(c.Release)
	return c
}

func addSprite(c sprite_cache.SpriteCache, tex gpu.Texture, x, y float32) sprite_cache.SpriteID {
	return c.Add(texture.NewSlice(tex), func(v *sprite_cache.SpriteView) { v.SetPosition(x, y) })
}

func sprite(t *testing.T, c sprite_cache.SpriteCache, id sprite_cache.SpriteID) sprite_cache.SpriteData {
	t.Helper()
	d, err := c.Sprite(id)
	if err != nil {
		t.Fatalf("Sprite(%d): %v", id, err)
	}
	return d
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestPositionReachesTarget(t *testing.T) {
	c := newCache(t)
	id := addSprite(c, gputest.NewTexture("a", 8, 8), 10, 20)

	g, err := Position(c, id, 100, 200, 1, ease.Linear)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}

	g.Advance(0.5)
	if d := sprite(t, c, id); d.Position != [2]float32{10, 20} {
		t.Errorf("Advance wrote to the cache: position = %v", d.Position)
	}
	g.Apply()
	if d := sprite(t, c, id); !approx(d.Position[0], 55) || !approx(d.Position[1], 110) {
		t.Errorf("halfway position = %v, want (55, 110)", d.Position)
	}
	if g.Done() {
		t.Fatal("Done before the end")
	}

	g.Advance(0.5)
	if g.Done() {
		t.Fatal("Done before the final values were applied")
	}
	g.Apply()
	if !g.Done() {
		t.Fatal("not Done after full duration")
	}
	if d := sprite(t, c, id); d.Position != [2]float32{100, 200} {
		t.Errorf("final position = %v, want (100, 200)", d.Position)
	}
}

func TestGroupProperties(t *testing.T) {
	tests := []struct {
		name  string
		build func(sprite_cache.SpriteCache, sprite_cache.SpriteID) (*Group, error)
		check func(sprite_cache.SpriteData) bool
	}{
		{
			"scale",
			func(c sprite_cache.SpriteCache, id sprite_cache.SpriteID) (*Group, error) {
				return Scale(c, id, 2, 3, 1, nil)
			},
			func(d sprite_cache.SpriteData) bool { return d.Scale == [2]float32{2, 3} },
		},
		{
			"rotation",
			func(c sprite_cache.SpriteCache, id sprite_cache.SpriteID) (*Group, error) {
				return Rotation(c, id, 1.5, 1, ease.OutQuad)
			},
			func(d sprite_cache.SpriteData) bool { return d.Rotation == 1.5 },
		},
		{
			"color",
			func(c sprite_cache.SpriteCache, id sprite_cache.SpriteID) (*Group, error) {
				return Color(c, id, [4]float32{1, 0, 0.5, 0.5}, 1, ease.InOutSine)
			},
			func(d sprite_cache.SpriteData) bool { return d.Color == [4]float32{1, 0, 0.5, 0.5} },
		},
		{
			"alpha",
			func(c sprite_cache.SpriteCache, id sprite_cache.SpriteID) (*Group, error) {
				return Alpha(c, id, 0, 1, nil)
			},
			func(d sprite_cache.SpriteData) bool { return d.Color == [4]float32{1, 1, 1, 0} },
		},
		{
			"uv scroll",
			func(c sprite_cache.SpriteCache, id sprite_cache.SpriteID) (*Group, error) {
				return UVScroll(c, id, 0.5, 0.25, 1, nil)
			},
			func(d sprite_cache.SpriteData) bool { return d.UV == [4]float32{0.5, 0.25, 1.5, 1.25} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCache(t)
			id := addSprite(c, gputest.NewTexture("a", 8, 8), 0, 0)
			g, err := tt.build(c, id)
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			g.Advance(2)
			g.Apply()
			if !g.Done() {
				t.Error("not Done")
			}
			if d := sprite(t, c, id); !tt.check(d) {
				t.Errorf("unexpected final record %+v", d)
			}
		})
	}
}

func TestGroupUnknownSprite(t *testing.T) {
	c := newCache(t)
	_, err := Position(c, 1<<40, 0, 0, 1, nil)
	if !errors.Is(err, sprite_cache.ErrUnknownSprite) {
		t.Errorf("err = %v, want ErrUnknownSprite", err)
	}
	if _, err := Alpha(nil, 0, 0, 1, nil); err == nil {
		t.Error("nil cache accepted")
	}
}

func TestGroupSpriteRemoved(t *testing.T) {
	c := newCache(t)
	id := addSprite(c, gputest.NewTexture("a", 8, 8), 0, 0)
	g, err := Position(c, id, 10, 10, 1, nil)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	c.Remove(id)

	g.Advance(0.25)
	g.Apply()
	if !g.Done() {
		t.Error("group for a removed sprite is not Done")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestGroupAccessors(t *testing.T) {
	c := newCache(t)
	id := addSprite(c, gputest.NewTexture("a", 8, 8), 4, 0)
	g, err := Position(c, id, 8, 0, 1, nil)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if g.ID() != id || g.Property() != PropertyPosition {
		t.Errorf("ID/Property = %d/%v", g.ID(), g.Property())
	}
	g.Advance(0.5)
	if v := g.Values(); len(v) != 2 || !approx(v[0], 6) {
		t.Errorf("Values = %v, want [6 0]", v)
	}
	if PropertyUVScroll.String() != "uv-scroll" {
		t.Errorf("String = %q", PropertyUVScroll.String())
	}
}
