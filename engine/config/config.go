// Package config loads engine settings from a YAML file and turns them into builder options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid config")

// maxConfigSize bounds the file Load will read.
const maxConfigSize = 1 << 20

// Config is the top-level document.
//
//	window:
//	  title: Sprites
//	  width: 1280
//	  height: 720
//	renderer:
//	  vsync: true
//	  msaa: 1
//	  clear_color: [0.1, 0.1, 0.1, 1]
//	engine:
//	  tick_rate: 60
//	  frame_limit: 0
//	  profiling: false
//	scene:
//	  workers: 3
//	sprite_cache:
//	  capacity: 1000
//	  blend: alpha
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Renderer    RendererConfig    `yaml:"renderer"`
	Engine      EngineConfig      `yaml:"engine"`
	Scene       SceneConfig       `yaml:"scene"`
	SpriteCache SpriteCacheConfig `yaml:"sprite_cache"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	MinWidth  int    `yaml:"min_width"`
	MinHeight int    `yaml:"min_height"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
	Resizable bool   `yaml:"resizable"`
}

type RendererConfig struct {
	VSync            *bool      `yaml:"vsync"` // pointer to distinguish unset vs false
	MSAA             uint32     `yaml:"msaa"`
	ClearColor       [4]float64 `yaml:"clear_color"`
	SoftwareFallback bool       `yaml:"software_fallback"`
}

type EngineConfig struct {
	TickRate   float64 `yaml:"tick_rate"`
	FrameLimit float64 `yaml:"frame_limit"`
	Profiling  bool    `yaml:"profiling"`
}

type SceneConfig struct {
	Workers int  `yaml:"workers"`
	YUp     bool `yaml:"y_up"`
}

type SpriteCacheConfig struct {
	Capacity int    `yaml:"capacity"`
	Blend    string `yaml:"blend"`
}

// Default returns the configuration used for every omitted field.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	vsync := true
	return Config{
		Window: WindowConfig{
			Title:     "oxy2d",
			Width:     1280,
			Height:    720,
			MinWidth:  600,
			MinHeight: 200,
			MaxWidth:  1600,
			MaxHeight: 1200,
			Resizable: true,
		},
		Renderer: RendererConfig{
			VSync:      &vsync,
			MSAA:       1,
			ClearColor: [4]float64{0.1, 0.1, 0.1, 1},
		},
		Engine: EngineConfig{
			TickRate: 60,
		},
		SpriteCache: SpriteCacheConfig{
			Capacity: 1000,
			Blend:    gpu.BlendAlpha.String(),
		},
	}
}

// Load reads and parses a YAML config file.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the parsed config with defaults applied
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("%w: %s is %d bytes", ErrInvalidConfig, path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document over the defaults and validates the result.
// Unknown keys are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Config: the parsed config
//   - error: a parse or validation error
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the offending field, or nil
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	// -1 leaves a limit unbounded.
	if (c.Window.MaxWidth >= 0 && c.Window.MinWidth > c.Window.MaxWidth) ||
		(c.Window.MaxHeight >= 0 && c.Window.MinHeight > c.Window.MaxHeight) {
		bad("window min size exceeds max size")
	}
	if c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4 {
		bad("renderer.msaa %d must be 1 or 4", c.Renderer.MSAA)
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			bad("renderer.clear_color[%d] %v out of [0, 1]", i, v)
		}
	}
	if c.Engine.TickRate <= 0 {
		bad("engine.tick_rate %v must be positive", c.Engine.TickRate)
	}
	if c.Engine.FrameLimit < 0 {
		bad("engine.frame_limit %v must not be negative", c.Engine.FrameLimit)
	}
	if c.Scene.Workers < 0 {
		bad("scene.workers %d must not be negative", c.Scene.Workers)
	}
	if c.SpriteCache.Capacity <= 0 {
		bad("sprite_cache.capacity %d must be positive", c.SpriteCache.Capacity)
	}
	if _, ok := parseBlend(c.SpriteCache.Blend); !ok {
		bad("sprite_cache.blend %q must be alpha, premultiplied, additive or opaque", c.SpriteCache.Blend)
	}
	return errors.Join(errs...)
}

func parseBlend(s string) (gpu.BlendMode, bool) {
	for _, m := range []gpu.BlendMode{gpu.BlendAlpha, gpu.BlendPremultiplied, gpu.BlendAdditive, gpu.BlendOpaque} {
		if strings.EqualFold(s, m.String()) {
			return m, true
		}
	}
	return 0, false
}
