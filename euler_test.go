package debugdraw

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEulerRoundTrip(t *testing.T) {
	tests := []mgl32.Vec3{
		{0, 0, 0},
		{90, 0, 0},
		{0, 45, 0},
		{0, 0, -120},
		{30, -20, 70},
		{-170, 60, 10},
	}
	for _, angles := range tests {
		got := QuatToEuler(EulerToQuat(angles))
		if !nearEps(got, angles, 1e-2) {
			t.Errorf("QuatToEuler(EulerToQuat(%v)) = %v", angles, got)
		}
	}
}

func TestEulerOrder(t *testing.T) {
	// X first: +Y turned 90 degrees about X becomes +Z, then 90 about Z
	// leaves it on +Z.
	q := EulerToQuat(mgl32.Vec3{90, 0, 90})
	if got, want := q.Rotate(mgl32.Vec3{0, 1, 0}), (mgl32.Vec3{0, 0, 1}); !near(got, want) {
		t.Errorf("rotated Y = %v, want %v", got, want)
	}
	// +X is untouched by X, then goes to +Y.
	if got, want := q.Rotate(mgl32.Vec3{1, 0, 0}), (mgl32.Vec3{0, 1, 0}); !near(got, want) {
		t.Errorf("rotated X = %v, want %v", got, want)
	}
}

func TestRotationArc(t *testing.T) {
	tests := []struct {
		name   string
		v0, v1 mgl32.Vec3
	}{
		{"x to y", mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{"unnormalized", mgl32.Vec3{0, 0, 3}, mgl32.Vec3{1, 1, 0}},
		{"same", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 2, 0}},
		{"opposite", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0}},
		{"opposite along x", mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := RotationArc(tt.v0, tt.v1)
			got := mgl32.TransformNormal(tt.v0.Normalize(), m)
			if want := tt.v1.Normalize(); !near(got, want) {
				t.Errorf("RotationArc(%v, %v) maps to %v, want %v", tt.v0, tt.v1, got, want)
			}
		})
	}
}

func TestRotationArcOppositeAxis(t *testing.T) {
	// X × Y is +Z, so Y is flipped by a half turn about Z.
	m := RotationArc(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0})
	if got := mgl32.TransformNormal(mgl32.Vec3{0, 0, 1}, m); !near(got, mgl32.Vec3{0, 0, 1}) {
		t.Errorf("rotation axis moved to %v, want +Z", got)
	}
}

func TestRotationArcZero(t *testing.T) {
	if m := RotationArc(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}); m != mgl32.Ident4() {
		t.Errorf("RotationArc(zero, X) = %v, want identity", m)
	}
}

func TestSegmentTransform(t *testing.T) {
	p0 := mgl32.Vec3{1, 1, 1}
	p1 := mgl32.Vec3{1, 1, 4}
	m := SegmentTransform(p0, p1)

	if got := mgl32.TransformCoordinate(mgl32.Vec3{}, m); !near(got, p0) {
		t.Errorf("origin maps to %v, want %v", got, p0)
	}
	if got := mgl32.TransformCoordinate(mgl32.Vec3{0, 3, 0}, m); !near(got, p1) {
		t.Errorf("local +Y maps to %v, want %v", got, p1)
	}
}

func TestTransformFromMat4(t *testing.T) {
	want := Transform{P: mgl32.Vec3{1, 2, 3}, Q: mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})}
	got := TransformFromMat4(want.Mat4())
	if !near(got.P, want.P) {
		t.Errorf("P = %v, want %v", got.P, want.P)
	}
	if !nearMat(got.Q.Mat4(), want.Q.Mat4()) {
		t.Errorf("Q = %v, want %v", got.Q, want.Q)
	}
}

func TestPlaneNormalized(t *testing.T) {
	p := NewPlane(0, 2, 0, -4).Normalized()
	if p.N != (mgl32.Vec3{0, 1, 0}) || p.D != -2 {
		t.Errorf("Normalized() = %+v, want N=(0,1,0) D=-2", p)
	}
	if got := p.Origin(); got != (mgl32.Vec3{0, 2, 0}) {
		t.Errorf("Origin() = %v, want (0, 2, 0)", got)
	}
	if got := (Plane{}).Normalized(); got.N != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("zero plane Normalized() = %+v, want the XZ plane", got)
	}
}

func TestBoundsCorners(t *testing.T) {
	b := Bounds{Min: mgl32.Vec3{-1, -2, -3}, Max: mgl32.Vec3{1, 2, 3}}
	c := b.Corners()
	if c[0] != b.Min || c[7] != b.Max {
		t.Errorf("Corners() ends = %v, %v; want %v, %v", c[0], c[7], b.Min, b.Max)
	}
	if c[5] != (mgl32.Vec3{1, -2, 3}) {
		t.Errorf("Corners()[5] = %v, want (1, -2, 3)", c[5])
	}
	for _, e := range boxEdges {
		d := c[e[0]].Sub(c[e[1]])
		nonzero := 0
		for _, f := range d {
			if f != 0 {
				nonzero++
			}
		}
		if nonzero != 1 {
			t.Errorf("edge %v is not axis aligned", e)
		}
	}
}
