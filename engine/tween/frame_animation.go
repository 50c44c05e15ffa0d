package tween

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/sprite_cache"
	"github.com/Carmen-Shannon/oxy2d/engine/texture"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Forever makes a FrameAnimation loop until it is stopped.
const Forever = -1

// FrameAnimation flips a sprite through an ordered list of texture slices at a fixed rate.
// Frames may come from different textures; the cache splits its draw calls accordingly.
type FrameAnimation struct {
	cache  sprite_cache.SpriteCache
	id     sprite_cache.SpriteID
	frames []texture.Slice

	seq     *gween.Sequence
	frame   int
	shown   int // frame last written, -1 before the first Apply
	done    bool
	lost    bool
	stopped bool
}

var _ Animator = &FrameAnimation{}

// NewFrameAnimation creates an animation that shows each frame for frameDuration seconds.
// The sprite switches to the first frame on the first Apply.
//
// Parameters:
//   - cache: the cache holding the sprite
//   - id: the sprite
//   - frames: the frames in play order
//   - frameDuration: seconds per frame
//   - options: functional options (loop count, yoyo)
//
// Returns:
//   - *FrameAnimation: the animation
//   - error: when frames is empty, a frame has no texture, frameDuration is not positive, or id is not live
func NewFrameAnimation(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, frames []texture.Slice, frameDuration float32, options ...FrameAnimationOption) (*FrameAnimation, error) {
	if len(frames) == 0 {
		return nil, errors.New("tween: frame animation needs at least one frame")
	}
	if frameDuration <= 0 {
		return nil, fmt.Errorf("tween: frame duration %v must be positive", frameDuration)
	}
	for i, f := range frames {
		if f.Texture == nil {
			return nil, fmt.Errorf("tween: frame %d: %w", i, sprite_cache.ErrNilTexture)
		}
	}
	if _, err := current(cache, id); err != nil {
		return nil, err
	}

	n := float32(len(frames))
	a := &FrameAnimation{
		cache:  cache,
		id:     id,
		frames: frames,
		seq:    gween.NewSequence(gween.New(0, n, n*frameDuration, ease.Linear)),
		shown:  -1,
	}
	for _, option := range options {
		option(a)
	}
	return a, nil
}

// Frame returns the index of the frame selected by the last Advance.
func (a *FrameAnimation) Frame() int { return a.frame }

// Stop ends the animation on the current frame.
func (a *FrameAnimation) Stop() { a.stopped = true }

func (a *FrameAnimation) Advance(dt float32) {
	if a.done || a.lost || a.stopped {
		return
	}
	v, _, complete := a.seq.Update(dt)
	a.frame = common.Clamp(int(v), 0, len(a.frames)-1)
	a.done = complete
}

func (a *FrameAnimation) Apply() {
	if a.lost || a.frame == a.shown {
		return
	}
	frame := a.frames[a.frame]
	if err := a.cache.UpdateSprite(a.id, &frame, nil); err != nil {
		a.lost = true
		return
	}
	a.shown = a.frame
}

func (a *FrameAnimation) Done() bool {
	if a.lost {
		return true
	}
	return (a.done || a.stopped) && a.shown == a.frame
}
