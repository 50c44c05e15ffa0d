package sprite_cache

import "github.com/Carmen-Shannon/oxy2d/common"

// viewField is a bit in a SpriteView's dirty set.
type viewField uint8

const (
	fieldPosition viewField = 1 << iota
	fieldScale
	fieldSize
	fieldRotation
	fieldColor
	fieldUV
	fieldTexture

	staticFields  = fieldPosition | fieldScale | fieldSize | fieldRotation | fieldColor
	dynamicFields = fieldUV | fieldTexture
)

// SpriteView is a cursor over one sprite's packed record.
// It is only valid inside the callback it is handed to and must not be retained.
// Every setter records which field it touched so the cache re-uploads only the buffers that changed.
type SpriteView struct {
	static  []float32
	dynamic []uint32
	dirty   viewField
}

func (v *SpriteView) bind(static []float32, dynamic []uint32) {
	v.static = static
	v.dynamic = dynamic
	v.dirty = 0
}

func (v *SpriteView) unbind() {
	v.static = nil
	v.dynamic = nil
}

// ResetToZero clears the record to its defaults: zero position, size, rotation and uv,
// unit scale and opaque white color. It clears the view's dirty set.
func (v *SpriteView) ResetToZero() {
	clear(v.static)
	clear(v.dynamic)
	v.static[offScaleX] = 1
	v.static[offScaleY] = 1
	v.static[offColorR] = 1
	v.static[offColorG] = 1
	v.static[offColorB] = 1
	v.static[offColorA] = 1
	v.dirty = 0
}

func (v *SpriteView) Position() (float32, float32) {
	return v.static[offPosX], v.static[offPosY]
}

// SetPosition sets the sprite's center in world units.
func (v *SpriteView) SetPosition(x, y float32) {
	v.static[offPosX] = x
	v.static[offPosY] = y
	v.dirty |= fieldPosition
}

func (v *SpriteView) SetX(x float32) {
	v.static[offPosX] = x
	v.dirty |= fieldPosition
}

func (v *SpriteView) SetY(y float32) {
	v.static[offPosY] = y
	v.dirty |= fieldPosition
}

func (v *SpriteView) Scale() (float32, float32) {
	return v.static[offScaleX], v.static[offScaleY]
}

func (v *SpriteView) SetScale(x, y float32) {
	v.static[offScaleX] = x
	v.static[offScaleY] = y
	v.dirty |= fieldScale
}

// Size returns the quad size in world units before scaling.
func (v *SpriteView) Size() (float32, float32) {
	return v.static[offSizeW], v.static[offSizeH]
}

func (v *SpriteView) SetSize(w, h float32) {
	v.static[offSizeW] = w
	v.static[offSizeH] = h
	v.dirty |= fieldSize
}

// Rotation returns the rotation in radians.
func (v *SpriteView) Rotation() float32 {
	return v.static[offRotation]
}

// SetRotation sets the rotation about the sprite's center, in radians.
func (v *SpriteView) SetRotation(radians float32) {
	v.static[offRotation] = radians
	v.dirty |= fieldRotation
}

func (v *SpriteView) SetRotationDegrees(deg float32) {
	v.SetRotation(common.DegToRad(deg))
}

func (v *SpriteView) Color() [4]float32 {
	return [4]float32{v.static[offColorR], v.static[offColorG], v.static[offColorB], v.static[offColorA]}
}

// SetColor sets the tint multiplied with the sampled texel.
func (v *SpriteView) SetColor(r, g, b, a float32) {
	v.static[offColorR] = r
	v.static[offColorG] = g
	v.static[offColorB] = b
	v.static[offColorA] = a
	v.dirty |= fieldColor
}

func (v *SpriteView) SetAlpha(a float32) {
	v.static[offColorA] = a
	v.dirty |= fieldColor
}

// UV returns the texture rectangle as u, v, u1, v1.
func (v *SpriteView) UV() [4]float32 {
	return [4]float32{
		bitsf32(v.dynamic[offU]),
		bitsf32(v.dynamic[offV]),
		bitsf32(v.dynamic[offU1]),
		bitsf32(v.dynamic[offV1]),
	}
}

func (v *SpriteView) SetUV(u, vv, u1, v1 float32) {
	v.dynamic[offU] = f32bits(u)
	v.dynamic[offV] = f32bits(vv)
	v.dynamic[offU1] = f32bits(u1)
	v.dynamic[offV1] = f32bits(v1)
	v.dirty |= fieldUV
}

// Rotated reports whether the uv rectangle is stored rotated 90 degrees clockwise.
func (v *SpriteView) Rotated() bool {
	_, rotated := unpackTexture(v.dynamic[offPacked])
	return rotated
}

func (v *SpriteView) SetRotated(rotated bool) {
	idx, _ := unpackTexture(v.dynamic[offPacked])
	v.dynamic[offPacked] = packTexture(idx, rotated)
	v.dirty |= fieldUV
}

func (v *SpriteView) textureIndex() int {
	idx, _ := unpackTexture(v.dynamic[offPacked])
	return idx
}

func (v *SpriteView) setTextureIndex(index int) {
	_, rotated := unpackTexture(v.dynamic[offPacked])
	v.dynamic[offPacked] = packTexture(index, rotated)
	v.dirty |= fieldTexture
}

func (v *SpriteView) staticDirty() bool  { return v.dirty&staticFields != 0 }
func (v *SpriteView) dynamicDirty() bool { return v.dirty&dynamicFields != 0 }
