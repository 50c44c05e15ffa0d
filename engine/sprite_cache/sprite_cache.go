package sprite_cache

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy2d/engine/texture"
)

var (
	// ErrUnknownSprite is returned when an id does not name a live sprite of the cache.
	ErrUnknownSprite = errors.New("sprite_cache: unknown sprite id")
	// ErrReleased is returned by operations on a released cache.
	ErrReleased = errors.New("sprite_cache: cache released")
	// ErrNilTexture is returned when a slice carries no texture.
	ErrNilTexture = errors.New("sprite_cache: slice has no texture")
	// ErrTextureTableFull is returned when a cache would reference more than MaxTextures textures.
	ErrTextureTableFull = errors.New("sprite_cache: texture table full")
)

// SpriteID identifies a sprite for its whole lifetime. Ids increase strictly across the process and are never reused.
type SpriteID int

var lastSpriteID atomic.Int64

func nextSpriteID() SpriteID {
	return SpriteID(lastSpriteID.Add(1) - 1)
}

// DefaultCapacity is the number of records a cache preallocates when no capacity is configured.
const DefaultCapacity = 1000

// SpriteData is a decoded copy of one sprite's record.
type SpriteData struct {
	Slot     int
	Position [2]float32
	Scale    [2]float32
	Size     [2]float32
	Rotation float32
	Color    [4]float32
	UV       [4]float32
	Rotated  bool
	Texture  gpu.Texture
}

type spriteCache struct {
	device   gpu.Device
	label    string
	logger   *slog.Logger
	capacity int
	format   gpu.TextureFormat
	blend    gpu.BlendMode
	samples  uint32
	shader   shader.Shader

	store    *attributeStore
	index    *identityIndex
	textures *textureTable
	batcher  drawCallBatcher
	binder   *resourceBinder
	pipeline pipeline.Pipeline

	view      SpriteView
	drawCalls []DrawCall

	staticDirty  bool
	dynamicDirty bool
	released     bool
}

// SpriteCache is a persistent, GPU-resident set of sprites drawn with one instanced draw
// call per run of consecutive sprites sharing a texture.
//
// Sprites are packed densely in insertion order; that order is the paint order. The cache is
// not safe for concurrent use: every call must come from the thread that renders it.
// Add, InsertBefore, UpdateSprite, Remove, Clear and Release panic when called from inside an
// init or mutate callback of the same cache, since the callback's view points into the store.
type SpriteCache interface {
	// Add appends a sprite drawing slice and returns its id.
	// The record starts with unit scale, white color, the slice's size, uv and rotation flag;
	// init (which may be nil) then overrides any field through the view.
	//
	// Parameters:
	//   - slice: the texture region to draw (its Texture must be non-nil)
	//   - init: optional initializer, the view is only valid during the call
	//
	// Returns:
	//   - SpriteID: the new sprite's id
	Add(slice texture.Slice, init func(*SpriteView)) SpriteID

	// InsertBefore inserts a sprite directly before another in paint order.
	//
	// Parameters:
	//   - before: the id of the sprite the new one is drawn before
	//   - slice: the texture region to draw
	//   - init: optional initializer
	//
	// Returns:
	//   - SpriteID: the new sprite's id
	//   - error: ErrUnknownSprite if before is not live, ErrNilTexture, or ErrTextureTableFull
	InsertBefore(before SpriteID, slice texture.Slice, init func(*SpriteView)) (SpriteID, error)

	// UpdateSprite mutates a live sprite in place. When newSlice is non-nil the sprite switches to
	// its texture, uv and rotation flag before mutate runs; its size is left alone.
	// Only the buffers holding touched fields are re-uploaded on the next Render.
	//
	// Parameters:
	//   - id: the sprite id
	//   - newSlice: optional replacement region
	//   - mutate: optional mutator, the view is only valid during the call
	//
	// Returns:
	//   - error: ErrUnknownSprite (nothing is written), ErrNilTexture or ErrTextureTableFull
	UpdateSprite(id SpriteID, newSlice *texture.Slice, mutate func(*SpriteView)) error

	// Sprite returns a decoded copy of a live sprite's record.
	//
	// Parameters:
	//   - id: the sprite id
	//
	// Returns:
	//   - SpriteData: the decoded record
	//   - error: ErrUnknownSprite if id is not live
	Sprite(id SpriteID) (SpriteData, error)

	// Remove deletes a sprite, closing its slot. Removing an id that is not live logs a warning and does nothing.
	//
	// Parameters:
	//   - id: the sprite id
	Remove(id SpriteID)

	// Contains reports whether id names a live sprite.
	Contains(id SpriteID) bool

	// Render uploads whatever changed since the last successful render and records the draw calls into pass.
	// It does nothing when the cache is empty.
	//
	// Parameters:
	//   - pass: an open render pass with a color target matching the cache's format and sample count
	//   - viewProjection: optional column-major matrix; nil keeps the last one uploaded (identity at first)
	//
	// Returns:
	//   - error: a wrapped GPU creation error, or ErrReleased
	Render(pass gpu.RenderPassEncoder, viewProjection *[16]float32) error

	// Clear removes every sprite. The texture table and buffer capacity are kept.
	Clear()

	// Release frees the GPU buffers, bind groups, pipeline and CPU arrays. The cache is unusable afterwards.
	Release()

	// Len returns the number of live sprites.
	Len() int

	// Capacity returns the number of records the CPU arrays can hold before growing.
	Capacity() int

	// TextureCount returns the size of the texture table.
	TextureCount() int

	// DrawCalls returns the draw calls computed by the last render. The slice is reused by the next render.
	DrawCalls() []DrawCall

	// Dirty reports which buffers will be uploaded by the next render.
	Dirty() (static, dynamic bool)

	// IDs returns the live ids in paint order.
	IDs() []SpriteID
}

var _ SpriteCache = &spriteCache{}

// NewSpriteCache creates a cache drawing into color targets of the given format.
// It allocates the GPU buffers for the initial capacity and creates the cache's own pipeline.
//
// Parameters:
//   - device: the GPU device (must be non-nil)
//   - colorFormat: the format of the render target the cache draws into
//   - options: builder options
//
// Returns:
//   - SpriteCache: the cache
//   - error: a wrapped GPU creation error
func NewSpriteCache(device gpu.Device, colorFormat gpu.TextureFormat, options ...SpriteCacheBuilderOption) (SpriteCache, error) {
	if device == nil {
		panic("sprite_cache: NewSpriteCache requires a non-nil device")
	}
	c := &spriteCache{
		device:   device,
		label:    "Sprite Cache",
		capacity: DefaultCapacity,
		format:   colorFormat,
		blend:    gpu.BlendAlpha,
		samples:  1,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.logger == nil {
		c.logger = common.Logger()
	}

	c.store = newAttributeStore(c.capacity)
	c.index = newIdentityIndex(c.store.capacity)
	c.textures = newTextureTable()

	pipelineOpts := []pipeline.PipelineBuilderOption{
		pipeline.WithColorFormat(colorFormat),
		pipeline.WithBlendMode(c.blend),
		pipeline.WithSampleCount(c.samples),
	}
	if c.shader != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithShader(c.shader))
	}
	c.pipeline = pipeline.NewPipeline(pipeline.SpriteKey(c.label, colorFormat, c.blend, c.samples), pipelineOpts...)
	if err := c.pipeline.Register(device); err != nil {
		return nil, fmt.Errorf("sprite_cache: %w", err)
	}

	staticBytes, dynamicBytes := c.store.capacityBytes()
	binder, err := newResourceBinder(device, c.pipeline.RenderPipeline(), c.label, c.logger, staticBytes, dynamicBytes)
	if err != nil {
		c.pipeline.Release()
		return nil, err
	}
	c.binder = binder

	c.logger.Debug("sprite_cache: created", "cache", c.label, "capacity", c.store.capacity, "blend", c.blend.String())
	return c, nil
}

// checkReentry panics when op is called while a view callback of this cache is running.
func (c *spriteCache) checkReentry(op string) {
	if c.view.static != nil {
		panic("sprite_cache: " + op + " called from inside a view callback")
	}
}

func (c *spriteCache) Add(slice texture.Slice, init func(*SpriteView)) SpriteID {
	c.checkReentry("Add")
	if c.released {
		panic(ErrReleased)
	}
	id, err := c.insertAt(c.store.count, slice, init)
	if err != nil {
		panic(err)
	}
	return id
}

func (c *spriteCache) InsertBefore(before SpriteID, slice texture.Slice, init func(*SpriteView)) (SpriteID, error) {
	c.checkReentry("InsertBefore")
	if c.released {
		return 0, ErrReleased
	}
	slot, ok := c.index.slotOf(before)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSprite, before)
	}
	return c.insertAt(slot, slice, init)
}

// insertAt validates the slice before touching the store, then opens slot and shifts the index to match.
func (c *spriteCache) insertAt(slot int, slice texture.Slice, init func(*SpriteView)) (SpriteID, error) {
	if slice.Texture == nil {
		return 0, ErrNilTexture
	}
	texIdx, err := c.textures.indexOf(slice.Texture)
	if err != nil {
		return 0, err
	}

	c.store.insert(slot)
	if slot < c.store.count-1 {
		c.index.shiftFrom(slot, 1)
	}
	id := nextSpriteID()
	c.index.assign(id, slot)

	c.view.bind(c.store.staticRecord(slot), c.store.dynamicRecord(slot))
	defer c.view.unbind()
	c.view.ResetToZero()
	c.view.SetSize(slice.Width, slice.Height)
	c.view.SetUV(slice.U, slice.V, slice.U1, slice.V1)
	c.view.SetRotated(slice.Rotated)
	c.view.setTextureIndex(texIdx)
	if init != nil {
		init(&c.view)
	}

	c.staticDirty = true
	c.dynamicDirty = true
	return id, nil
}

func (c *spriteCache) UpdateSprite(id SpriteID, newSlice *texture.Slice, mutate func(*SpriteView)) error {
	c.checkReentry("UpdateSprite")
	if c.released {
		return ErrReleased
	}
	slot, ok := c.index.slotOf(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSprite, id)
	}

	texIdx := -1
	if newSlice != nil {
		if newSlice.Texture == nil {
			return ErrNilTexture
		}
		var err error
		if texIdx, err = c.textures.indexOf(newSlice.Texture); err != nil {
			return err
		}
	}

	c.view.bind(c.store.staticRecord(slot), c.store.dynamicRecord(slot))
	defer c.view.unbind()
	if newSlice != nil {
		c.view.SetUV(newSlice.U, newSlice.V, newSlice.U1, newSlice.V1)
		c.view.SetRotated(newSlice.Rotated)
		c.view.setTextureIndex(texIdx)
	}
	if mutate != nil {
		mutate(&c.view)
	}
	c.staticDirty = c.staticDirty || c.view.staticDirty()
	c.dynamicDirty = c.dynamicDirty || c.view.dynamicDirty()
	return nil
}

func (c *spriteCache) Sprite(id SpriteID) (SpriteData, error) {
	if c.released {
		return SpriteData{}, ErrReleased
	}
	slot, ok := c.index.slotOf(id)
	if !ok {
		return SpriteData{}, fmt.Errorf("%w: %d", ErrUnknownSprite, id)
	}

	var st [staticStride]float32
	var dy [dynamicStride]uint32
	c.store.readStatic(slot, &st)
	c.store.readDynamic(slot, &dy)
	texIdx, rotated := unpackTexture(dy[offPacked])

	return SpriteData{
		Slot:     slot,
		Position: [2]float32{st[offPosX], st[offPosY]},
		Scale:    [2]float32{st[offScaleX], st[offScaleY]},
		Size:     [2]float32{st[offSizeW], st[offSizeH]},
		Rotation: st[offRotation],
		Color:    [4]float32{st[offColorR], st[offColorG], st[offColorB], st[offColorA]},
		UV:       [4]float32{bitsf32(dy[offU]), bitsf32(dy[offV]), bitsf32(dy[offU1]), bitsf32(dy[offV1])},
		Rotated:  rotated,
		Texture:  c.textures.at(texIdx),
	}, nil
}

func (c *spriteCache) Remove(id SpriteID) {
	c.checkReentry("Remove")
	if c.released {
		c.logger.Warn("sprite_cache: remove on released cache", "cache", c.label, "id", int(id))
		return
	}
	slot, ok := c.index.slotOf(id)
	if !ok {
		c.logger.Warn("sprite_cache: remove of unknown sprite ignored", "cache", c.label, "id", int(id))
		return
	}

	last := slot == c.store.count-1
	c.store.removeAt(slot)
	c.index.remove(id)
	if !last {
		c.index.shiftFrom(slot+1, -1)
		// every record above slot moved down
		c.staticDirty = true
	}
	c.dynamicDirty = true
}

func (c *spriteCache) Contains(id SpriteID) bool {
	if c.released {
		return false
	}
	_, ok := c.index.slotOf(id)
	return ok
}

func (c *spriteCache) Render(pass gpu.RenderPassEncoder, viewProjection *[16]float32) error {
	if c.released {
		return ErrReleased
	}
	if c.store.count == 0 {
		return nil
	}

	if c.staticDirty || c.dynamicDirty {
		staticBytes, dynamicBytes := c.store.capacityBytes()
		if _, err := c.binder.ensureCapacity(staticBytes, dynamicBytes); err != nil {
			return err
		}
	}
	if c.dynamicDirty {
		c.drawCalls = c.batcher.rebuild(c.store.dynamic, c.store.count, c.textures)
		c.binder.stage(bindingDynamic, c.store.dynamicBytes())
	}
	if c.staticDirty {
		c.binder.stage(bindingStatic, c.store.staticBytes())
	}
	if viewProjection != nil {
		c.binder.setProjection(viewProjection)
	}
	c.binder.flush()

	var boundRecords, boundTexture gpu.BindGroup
	pass.SetPipeline(c.pipeline.RenderPipeline())
	for _, dc := range c.drawCalls {
		records, texGroup, err := c.binder.bindGroupsFor(dc.Texture)
		if err != nil {
			return err
		}
		if records != boundRecords {
			pass.SetBindGroup(0, records)
			boundRecords = records
		}
		if texGroup != boundTexture {
			pass.SetBindGroup(1, texGroup)
			boundTexture = texGroup
		}
		pass.Draw(verticesPerSprite, uint32(dc.InstanceCount), 0, uint32(dc.FirstInstance))
	}

	c.staticDirty = false
	c.dynamicDirty = false
	return nil
}

func (c *spriteCache) Clear() {
	c.checkReentry("Clear")
	if c.released {
		return
	}
	c.store.reset()
	c.index.reset()
	c.batcher.reset()
	c.drawCalls = c.drawCalls[:0]
	c.staticDirty = true
}

func (c *spriteCache) Release() {
	c.checkReentry("Release")
	if c.released {
		return
	}
	c.binder.release()
	c.pipeline.Release()
	c.store.release()
	c.index.reset()
	c.textures.release()
	c.drawCalls = nil
	c.released = true
	c.logger.Debug("sprite_cache: released", "cache", c.label)
}

func (c *spriteCache) Len() int {
	if c.released {
		return 0
	}
	return c.store.count
}

func (c *spriteCache) Capacity() int {
	if c.released {
		return 0
	}
	return c.store.capacity
}

func (c *spriteCache) TextureCount() int {
	if c.released {
		return 0
	}
	return c.textures.len()
}

func (c *spriteCache) DrawCalls() []DrawCall {
	return c.drawCalls
}

func (c *spriteCache) Dirty() (bool, bool) {
	return c.staticDirty, c.dynamicDirty
}

func (c *spriteCache) IDs() []SpriteID {
	if c.released {
		return nil
	}
	return c.index.ids()
}
