// Package tween animates sprite properties inside a SpriteCache with gween easing.
//
// Animation is split in two phases so a scene can spread the math across workers:
// Advance only computes values and touches nothing but the animator itself, while
// Apply writes them through SpriteCache.UpdateSprite and must run on the render thread.
package tween

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy2d/engine/sprite_cache"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Property names the sprite field a Group animates.
type Property uint8

const (
	PropertyPosition Property = iota
	PropertyScale
	PropertyRotation
	PropertyColor
	PropertyAlpha
	PropertyUVScroll
)

func (p Property) String() string {
	switch p {
	case PropertyPosition:
		return "position"
	case PropertyScale:
		return "scale"
	case PropertyRotation:
		return "rotation"
	case PropertyColor:
		return "color"
	case PropertyAlpha:
		return "alpha"
	case PropertyUVScroll:
		return "uv-scroll"
	default:
		return "unknown"
	}
}

// Animator is anything a scene advances every tick.
type Animator interface {
	// Advance moves the animation forward by dt seconds. It does not touch the cache
	// and may run concurrently with other animators' Advance.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// Apply writes the values computed by the last Advance into the sprite.
	// Must be called from the thread that owns the cache.
	Apply()

	// Done reports whether the animation finished or its sprite is gone.
	//
	// Returns:
	//   - bool: true once nothing is left to apply
	Done() bool
}

// Group animates up to four components of one sprite property with independent tweens
// that share a duration and easing.
type Group struct {
	cache    sprite_cache.SpriteCache
	id       sprite_cache.SpriteID
	property Property

	tweens [4]*gween.Tween
	count  int
	values [4]float32
	base   [4]float32 // original uv for PropertyUVScroll

	finished bool // all tweens reached their end
	applied  bool // the final values were written
	lost     bool // the sprite is no longer in the cache
}

var _ Animator = &Group{}

func newGroup(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, property Property, from, to []float32, duration float32, fn ease.TweenFunc) *Group {
	if fn == nil {
		fn = ease.Linear
	}
	g := &Group{cache: cache, id: id, property: property, count: len(from)}
	for i := range from {
		g.tweens[i] = gween.New(from[i], to[i], duration, fn)
		g.values[i] = from[i]
	}
	return g
}

func current(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID) (sprite_cache.SpriteData, error) {
	if cache == nil {
		return sprite_cache.SpriteData{}, errors.New("tween: nil sprite cache")
	}
	data, err := cache.Sprite(id)
	if err != nil {
		return sprite_cache.SpriteData{}, fmt.Errorf("tween: %w", err)
	}
	return data, nil
}

// Position tweens a sprite's position from where it is now to (toX, toY).
//
// Parameters:
//   - cache: the cache holding the sprite
//   - id: the sprite
//   - toX, toY: the target position
//   - duration: seconds
//   - fn: easing function (nil for linear)
//
// Returns:
//   - *Group: the tween group
//   - error: a wrapped sprite_cache.ErrUnknownSprite when id is not live
func Position(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, toX, toY, duration float32, fn ease.TweenFunc) (*Group, error) {
	d, err := current(cache, id)
	if err != nil {
		return nil, err
	}
	return newGroup(cache, id, PropertyPosition, d.Position[:], []float32{toX, toY}, duration, fn), nil
}

// Scale tweens a sprite's scale to (toX, toY).
func Scale(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, toX, toY, duration float32, fn ease.TweenFunc) (*Group, error) {
	d, err := current(cache, id)
	if err != nil {
		return nil, err
	}
	return newGroup(cache, id, PropertyScale, d.Scale[:], []float32{toX, toY}, duration, fn), nil
}

// Rotation tweens a sprite's rotation to the given angle in radians.
func Rotation(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, to, duration float32, fn ease.TweenFunc) (*Group, error) {
	d, err := current(cache, id)
	if err != nil {
		return nil, err
	}
	return newGroup(cache, id, PropertyRotation, []float32{d.Rotation}, []float32{to}, duration, fn), nil
}

// Color tweens all four color components to the target RGBA.
func Color(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, to [4]float32, duration float32, fn ease.TweenFunc) (*Group, error) {
	d, err := current(cache, id)
	if err != nil {
		return nil, err
	}
	return newGroup(cache, id, PropertyColor, d.Color[:], to[:], duration, fn), nil
}

// Alpha tweens only the alpha component.
func Alpha(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, to, duration float32, fn ease.TweenFunc) (*Group, error) {
	d, err := current(cache, id)
	if err != nil {
		return nil, err
	}
	return newGroup(cache, id, PropertyAlpha, []float32{d.Color[3]}, []float32{to}, duration, fn), nil
}

// UVScroll shifts the sprite's uv rectangle by (du, dv) over the duration, for scrolling
// backgrounds and flowing water. The texture's sampler should use repeat addressing.
//
// Parameters:
//   - cache: the cache holding the sprite
//   - id: the sprite
//   - du, dv: total uv offset at the end of the tween
//   - duration: seconds
//   - fn: easing function (nil for linear)
//
// Returns:
//   - *Group: the tween group
//   - error: a wrapped sprite_cache.ErrUnknownSprite when id is not live
func UVScroll(cache sprite_cache.SpriteCache, id sprite_cache.SpriteID, du, dv, duration float32, fn ease.TweenFunc) (*Group, error) {
	d, err := current(cache, id)
	if err != nil {
		return nil, err
	}
	g := newGroup(cache, id, PropertyUVScroll, []float32{0, 0}, []float32{du, dv}, duration, fn)
	g.base = d.UV
	return g, nil
}

// ID returns the animated sprite.
func (g *Group) ID() sprite_cache.SpriteID { return g.id }

// Property returns the animated property.
func (g *Group) Property() Property { return g.property }

// Values returns the values computed by the last Advance.
func (g *Group) Values() []float32 {
	return g.values[:g.count]
}

func (g *Group) Advance(dt float32) {
	if g.finished || g.lost {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		v, done := g.tweens[i].Update(dt)
		g.values[i] = v
		if !done {
			allDone = false
		}
	}
	g.finished = allDone
}

func (g *Group) Apply() {
	if g.lost || g.applied {
		return
	}
	err := g.cache.UpdateSprite(g.id, nil, g.write)
	if err != nil {
		// Removed sprites (and released caches) end the group quietly.
		g.lost = true
		return
	}
	if g.finished {
		g.applied = true
	}
}

func (g *Group) Done() bool {
	return g.lost || g.applied
}

func (g *Group) write(v *sprite_cache.SpriteView) {
	switch g.property {
	case PropertyPosition:
		v.SetPosition(g.values[0], g.values[1])
	case PropertyScale:
		v.SetScale(g.values[0], g.values[1])
	case PropertyRotation:
		v.SetRotation(g.values[0])
	case PropertyColor:
		v.SetColor(g.values[0], g.values[1], g.values[2], g.values[3])
	case PropertyAlpha:
		v.SetAlpha(g.values[0])
	case PropertyUVScroll:
		du, dv := g.values[0], g.values[1]
		v.SetUV(g.base[0]+du, g.base[1]+dv, g.base[2]+du, g.base[3]+dv)
	}
}
