package sprite_cache

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy2d/engine/texture"
)

const (
	staticLabel  = "Sprite Cache Static"
	dynamicLabel = "Sprite Cache Dynamic"
	uniformLabel = "Sprite Cache View Projection"
)

// captureHandler records every log record it receives.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

func newTestCache(t *testing.T, opts ...SpriteCacheBuilderOption) (*spriteCache, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	c, err := NewSpriteCache(dev, gpu.TextureFormatBGRA8Unorm, opts...)
	if err != nil {
		t.Fatalf("NewSpriteCache: %v", err)
	}
	return c.(*spriteCache), dev
}

func whole(tex gpu.Texture) texture.Slice {
	return texture.NewSlice(tex)
}

func at(x, y float32) func(*SpriteView) {
	return func(v *SpriteView) { v.SetPosition(x, y) }
}

func mustRender(t *testing.T, c SpriteCache, pass gpu.RenderPassEncoder) {
	t.Helper()
	if err := c.Render(pass, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
}
