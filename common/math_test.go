package common

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i + 1)
	}

	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Errorf("I*M = %v, want %v", out, m)
	}
	Mul4(out[:], m[:], id[:])
	if out != m {
		t.Errorf("M*I = %v, want %v", out, m)
	}
}

func TestMul4Aliasing(t *testing.T) {
	var a, b [16]float32
	Translate2D(a[:], 3, 4)
	Translate2D(b[:], 1, 2)

	Mul4(a[:], a[:], b[:])
	if a[12] != 4 || a[13] != 6 {
		t.Errorf("translation = (%v, %v), want (4, 6)", a[12], a[13])
	}
}

func TestOrthoMapsCornersToClipSpace(t *testing.T) {
	var m [16]float32
	Ortho(m[:], 0, 800, 600, 0, -1, 1)

	tests := []struct {
		name         string
		x, y         float32
		wantX, wantY float32
	}{
		{"top-left", 0, 0, -1, 1},
		{"bottom-right", 800, 600, 1, -1},
		{"center", 400, 300, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := TransformPoint2D(m[:], tt.x, tt.y)
			if !approx(x, tt.wantX) || !approx(y, tt.wantY) {
				t.Errorf("(%v, %v) -> (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}

	// z = 0 must land inside the [0, 1] depth range.
	z := m[14]
	if z < 0 || z > 1 {
		t.Errorf("depth of z=0 is %v, want within [0, 1]", z)
	}
}

func TestRotate2D(t *testing.T) {
	var m [16]float32
	Rotate2D(m[:], math.Pi/2)
	x, y := TransformPoint2D(m[:], 1, 0)
	if !approx(x, 0) || !approx(y, 1) {
		t.Errorf("rotate (1,0) by 90deg = (%v, %v), want (0, 1)", x, y)
	}
}

func TestScale2D(t *testing.T) {
	var m [16]float32
	Scale2D(m[:], 2, 3)
	x, y := TransformPoint2D(m[:], 5, 5)
	if x != 10 || y != 15 {
		t.Errorf("scale = (%v, %v), want (10, 15)", x, y)
	}
}

func TestSliceToBytes(t *testing.T) {
	if got := SliceToBytes([]float32{}); got != nil {
		t.Errorf("empty slice = %v, want nil", got)
	}
	got := SliceToBytes([]uint32{1, 2})
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
}

func TestDegToRad(t *testing.T) {
	if got := DegToRad(180); !approx(got, math.Pi) {
		t.Errorf("DegToRad(180) = %v, want pi", got)
	}
}
