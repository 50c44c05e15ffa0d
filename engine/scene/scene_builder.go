package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy2d/engine/sprite_cache"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithLayer installs a caller-built sprite cache at a z-index.
//
// Parameters:
//   - z: the z-index (lower draws first)
//   - cache: the cache to draw at z
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLayer(z int, cache sprite_cache.SpriteCache) SceneBuilderOption {
	return func(s *scene) {
		if cache != nil {
			s.layers[z] = cache
		}
	}
}

// WithLayerOptions sets the options every layer created by Scene.Layer is built with.
// They are applied after the scene's own label, sample count and logger, so they may override them.
//
// Parameters:
//   - options: sprite cache options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLayerOptions(options ...sprite_cache.SpriteCacheBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.layerOptions = append(s.layerOptions, options...)
	}
}

// WithWorkers sets the number of worker goroutines that advance animators.
// Defaults to runtime.NumCPU()-1. With one worker animators advance inline.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithLogger sets the logger for the scene and the layers it creates. Defaults to common.Logger().
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(l *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		s.logger = l
	}
}
