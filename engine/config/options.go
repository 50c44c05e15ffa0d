package config

import (
	"github.com/Carmen-Shannon/oxy2d/engine"
	"github.com/Carmen-Shannon/oxy2d/engine/camera"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer"
	"github.com/Carmen-Shannon/oxy2d/engine/scene"
	"github.com/Carmen-Shannon/oxy2d/engine/sprite_cache"
	"github.com/Carmen-Shannon/oxy2d/engine/window"
)

// WindowOptions converts the window section into window builder options.
func (c Config) WindowOptions() []window.WindowBuilderOption {
	w := c.Window
	return []window.WindowBuilderOption{
		window.WithTitle(w.Title),
		window.WithSize(w.Width, w.Height),
		window.WithSizeLimits(w.MinWidth, w.MinHeight, w.MaxWidth, w.MaxHeight),
		window.WithResizable(w.Resizable),
	}
}

// RendererOptions converts the renderer section into renderer builder options.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	r := c.Renderer
	mode := renderer.PresentModeVSync
	if r.VSync != nil && !*r.VSync {
		mode = renderer.PresentModeUncapped
	}
	cc := r.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(r.MSAA)),
		renderer.WithClearColor(renderer.ClearColor{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
		renderer.WithForceSoftwareRenderer(r.SoftwareFallback),
	}
}

// EngineOptions converts the engine section into engine builder options.
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	e := c.Engine
	return []engine.EngineBuilderOption{
		engine.WithTickRate(e.TickRate),
		engine.WithRenderFrameLimit(e.FrameLimit),
		engine.WithProfiling(e.Profiling),
	}
}

// SceneOptions converts the scene section into scene builder options. Layers the scene
// creates use SpriteCacheOptions.
func (c Config) SceneOptions() []scene.SceneBuilderOption {
	opts := []scene.SceneBuilderOption{
		scene.WithLayerOptions(c.SpriteCacheOptions()...),
	}
	if c.Scene.Workers > 0 {
		opts = append(opts, scene.WithWorkers(c.Scene.Workers))
	}
	return opts
}

// CameraOptions returns camera options matching the window size and the scene's y direction.
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithViewport(float32(c.Window.Width), float32(c.Window.Height)),
		camera.WithYUp(c.Scene.YUp),
	}
}

// ControllerOptions returns camera controller options matching the scene's y direction.
func (c Config) ControllerOptions() []camera.CameraControllerOption {
	return []camera.CameraControllerOption{
		camera.WithYUpKeys(c.Scene.YUp),
	}
}

// SpriteCacheOptions converts the sprite_cache section into sprite cache builder options.
func (c Config) SpriteCacheOptions() []sprite_cache.SpriteCacheBuilderOption {
	blend, _ := parseBlend(c.SpriteCache.Blend)
	return []sprite_cache.SpriteCacheBuilderOption{
		sprite_cache.WithInitialCapacity(c.SpriteCache.Capacity),
		sprite_cache.WithBlendMode(blend),
	}
}
