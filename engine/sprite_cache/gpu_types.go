package sprite_cache

import "math"

// Record layout shared with the sprite shader. Both records are read as storage arrays indexed by instance_index.
//
// Static record, 12 x f32 (48 bytes):
//
//	pos.x pos.y scale.x scale.y size.x size.y rotation pad color.r color.g color.b color.a
//
// Dynamic record, 8 x u32 (32 bytes):
//
//	u v u1 v1 (f32 bits) packed(textureIndex | rotated<<16) pad pad pad
const (
	staticStride  = 12
	dynamicStride = 8

	// StaticRecordSize is the byte size of one static record.
	StaticRecordSize = staticStride * 4
	// DynamicRecordSize is the byte size of one dynamic record.
	DynamicRecordSize = dynamicStride * 4

	// uniformSize is one column-major mat4x4<f32>.
	uniformSize = 64

	verticesPerSprite = 6

	// MaxTextures is the number of distinct textures one cache can reference.
	MaxTextures = 1 << 16

	textureIndexMask = 0xFFFF
	rotatedFlag      = 1 << 16
)

// static record offsets
const (
	offPosX = iota
	offPosY
	offScaleX
	offScaleY
	offSizeW
	offSizeH
	offRotation
	offPad
	offColorR
	offColorG
	offColorB
	offColorA
)

// dynamic record offsets
const (
	offU = iota
	offV
	offU1
	offV1
	offPacked
)

// bindings of group 0; group 1 holds the texture (0) and sampler (1)
const (
	bindingViewProjection = 0
	bindingStatic         = 1
	bindingDynamic        = 2
)

func packTexture(index int, rotated bool) uint32 {
	v := uint32(index) & textureIndexMask
	if rotated {
		v |= rotatedFlag
	}
	return v
}

func unpackTexture(v uint32) (int, bool) {
	return int(v & textureIndexMask), v&rotatedFlag != 0
}

func f32bits(f float32) uint32 { return math.Float32bits(f) }

func bitsf32(u uint32) float32 { return math.Float32frombits(u) }
