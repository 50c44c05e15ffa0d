package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
)

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := Default()
	if cfg.Window != def.Window || cfg.Engine != def.Engine || cfg.SpriteCache != def.SpriteCache {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, def)
	}
	if cfg.Renderer.VSync == nil || !*cfg.Renderer.VSync {
		t.Error("vsync default is not true")
	}
}

func TestParseOverridesOnlyGivenFields(t *testing.T) {
	doc := `
window:
  title: Sprites
  width: 800
renderer:
  vsync: false
  msaa: 4
  clear_color: [0, 0, 0.5, 1]
engine:
  tick_rate: 120
scene:
  workers: 2
  y_up: true
sprite_cache:
  capacity: 5000
  blend: Additive
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Window.Title != "Sprites" || cfg.Window.Width != 800 || cfg.Window.Height != 720 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if *cfg.Renderer.VSync || cfg.Renderer.MSAA != 4 || cfg.Renderer.ClearColor != [4]float64{0, 0, 0.5, 1} {
		t.Errorf("renderer = %+v", cfg.Renderer)
	}
	if cfg.Engine.TickRate != 120 || cfg.Scene.Workers != 2 || !cfg.Scene.YUp {
		t.Errorf("engine/scene = %+v %+v", cfg.Engine, cfg.Scene)
	}
	if cfg.SpriteCache.Capacity != 5000 {
		t.Errorf("capacity = %d", cfg.SpriteCache.Capacity)
	}
	if m, ok := parseBlend(cfg.SpriteCache.Blend); !ok || m != gpu.BlendAdditive {
		t.Errorf("blend = %q", cfg.SpriteCache.Blend)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"unknown key", "window:\n  colour: red\n", false},
		{"bad yaml", "window: [", false},
		{"short clear color", "renderer:\n  clear_color: [1, 1]\n", false},
		{"zero width", "window:\n  width: 0\n", true},
		{"msaa 2", "renderer:\n  msaa: 2\n", true},
		{"clear color range", "renderer:\n  clear_color: [2, 0, 0, 1]\n", true},
		{"tick rate", "engine:\n  tick_rate: -1\n", true},
		{"frame limit", "engine:\n  frame_limit: -5\n", true},
		{"workers", "scene:\n  workers: -1\n", true},
		{"capacity", "sprite_cache:\n  capacity: 0\n", true},
		{"blend", "sprite_cache:\n  blend: multiply\n", true},
		{"min over max", "window:\n  min_width: 2000\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if errors.Is(err, ErrInvalidConfig) != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalidConfig) = %v, want %v (err: %v)", !tt.invalid, tt.invalid, err)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Engine.TickRate = 0
	cfg.SpriteCache.Capacity = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate passed")
	}
	msg := err.Error()
	if !strings.Contains(msg, "tick_rate") || !strings.Contains(msg, "capacity") {
		t.Errorf("error %q does not name both fields", msg)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  profiling: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Engine.Profiling {
		t.Error("profiling not loaded")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("engine:\n  tick_rate: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), bad) {
		t.Errorf("invalid file error = %v", err)
	}
}

func TestOptionCounts(t *testing.T) {
	cfg := Default()
	if n := len(cfg.WindowOptions()); n != 4 {
		t.Errorf("WindowOptions = %d, want 4", n)
	}
	if n := len(cfg.RendererOptions()); n != 4 {
		t.Errorf("RendererOptions = %d, want 4", n)
	}
	if n := len(cfg.EngineOptions()); n != 3 {
		t.Errorf("EngineOptions = %d, want 3", n)
	}
	if n := len(cfg.SceneOptions()); n != 1 {
		t.Errorf("SceneOptions = %d, want 1 with automatic workers", n)
	}
	cfg.Scene.Workers = 2
	if n := len(cfg.SceneOptions()); n != 2 {
		t.Errorf("SceneOptions = %d, want 2", n)
	}
	if n := len(cfg.SpriteCacheOptions()); n != 2 {
		t.Errorf("SpriteCacheOptions = %d, want 2", n)
	}
}

func TestParseUnboundedWindowLimits(t *testing.T) {
	cfg, err := Parse([]byte("window:\n  min_width: 2000\n  max_width: -1\n  resizable: false\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Window.MaxWidth != -1 || cfg.Window.Resizable {
		t.Errorf("window = %+v", cfg.Window)
	}
}
