package common

import (
	"math"
	"unsafe"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// The returned slice shares memory with the input and must not be modified.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Mul4 multiplies two 4x4 column-major matrices and stores a*b in out.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Ortho creates an orthographic projection matrix mapping the box
// [left,right] x [bottom,top] x [near,far] into WebGPU clip space (z in [0, 1]).
// Passing top < bottom produces a y-down projection, which is what screen-space 2D code usually wants.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right: horizontal extent
//   - bottom, top: vertical extent
//   - near, far: depth extent
func Ortho(out []float32, left, right, bottom, top, near, far float32) {
	Identity(out)
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[10] = 1 / (near - far)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	out[14] = near / (near - far)
}

// Translate2D writes a translation matrix into out.
func Translate2D(out []float32, x, y float32) {
	Identity(out)
	out[12] = x
	out[13] = y
}

// Rotate2D writes a rotation about the z axis (radians, counter-clockwise in a y-up frame) into out.
func Rotate2D(out []float32, radians float32) {
	s, c := math.Sincos(float64(radians))
	Identity(out)
	out[0] = float32(c)
	out[1] = float32(s)
	out[4] = float32(-s)
	out[5] = float32(c)
}

// Scale2D writes a non-uniform xy scale matrix into out.
func Scale2D(out []float32, sx, sy float32) {
	Identity(out)
	out[0] = sx
	out[5] = sy
}

// TransformPoint2D applies a column-major 4x4 matrix to the point (x, y, 0, 1).
//
// Parameters:
//   - m: the matrix (16 elements)
//   - x, y: the point
//
// Returns:
//   - float32, float32: the transformed point after the perspective divide
func TransformPoint2D(m []float32, x, y float32) (float32, float32) {
	tx := m[0]*x + m[4]*y + m[12]
	ty := m[1]*x + m[5]*y + m[13]
	tw := m[3]*x + m[7]*y + m[15]
	if tw != 0 && tw != 1 {
		tx /= tw
		ty /= tw
	}
	return tx, ty
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}
