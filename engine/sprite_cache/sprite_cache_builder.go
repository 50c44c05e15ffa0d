package sprite_cache

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/shader"
)

// SpriteCacheBuilderOption is a functional option applied to a cache during construction via NewSpriteCache.
type SpriteCacheBuilderOption func(*spriteCache)

// WithInitialCapacity sets how many sprites the cache preallocates for. Values below 1 are raised to 1.
//
// Parameters:
//   - n: the initial record capacity (default 1000)
//
// Returns:
//   - SpriteCacheBuilderOption: a function that sets the capacity
func WithInitialCapacity(n int) SpriteCacheBuilderOption {
	return func(c *spriteCache) {
		c.capacity = max(n, 1)
	}
}

// WithLabel sets the debug label used for GPU resources and log records.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - SpriteCacheBuilderOption: a function that sets the label
func WithLabel(label string) SpriteCacheBuilderOption {
	return func(c *spriteCache) {
		c.label = label
	}
}

// WithBlendMode sets the blend equation of the cache's pipeline. It is fixed for the cache's lifetime.
//
// Parameters:
//   - mode: the blend mode (default gpu.BlendAlpha)
//
// Returns:
//   - SpriteCacheBuilderOption: a function that sets the blend mode
func WithBlendMode(mode gpu.BlendMode) SpriteCacheBuilderOption {
	return func(c *spriteCache) {
		c.blend = mode
	}
}

// WithSampleCount sets the MSAA sample count of the render pass the cache draws into.
//
// Parameters:
//   - count: the sample count (default 1)
//
// Returns:
//   - SpriteCacheBuilderOption: a function that sets the sample count
func WithSampleCount(count uint32) SpriteCacheBuilderOption {
	return func(c *spriteCache) {
		c.samples = max(count, 1)
	}
}

// WithLogger overrides the engine logger for this cache.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SpriteCacheBuilderOption: a function that sets the logger
func WithLogger(l *slog.Logger) SpriteCacheBuilderOption {
	return func(c *spriteCache) {
		c.logger = l
	}
}

// WithShader replaces the built-in sprite shader. The replacement must read the same record layout and bind groups.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - SpriteCacheBuilderOption: a function that sets the shader
func WithShader(s shader.Shader) SpriteCacheBuilderOption {
	return func(c *spriteCache) {
		c.shader = s
	}
}
