package debugdraw

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a rigid pose: a position and a unit orientation.
type Transform struct {
	P mgl32.Vec3
	Q mgl32.Quat
}

// IdentityTransform returns the transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Q: mgl32.QuatIdent()}
}

// Mat4 returns the transform as a 4x4 matrix (rotation then translation).
func (t Transform) Mat4() mgl32.Mat4 {
	m := t.Q.Normalize().Mat4()
	m[12], m[13], m[14] = t.P[0], t.P[1], t.P[2]
	return m
}

// TransformFromMat4 extracts the translation and rotation of a rigid matrix.
// Scale and shear are discarded.
func TransformFromMat4(m mgl32.Mat4) Transform {
	return Transform{
		P: mgl32.Vec3{m[12], m[13], m[14]},
		Q: mgl32.Mat4ToQuat(m).Normalize(),
	}
}

// Plane is the implicit plane N·x + D = 0.
type Plane struct {
	N mgl32.Vec3
	D float32
}

// NewPlane returns the plane a·x + b·y + c·z + d = 0.
func NewPlane(a, b, c, d float32) Plane {
	return Plane{N: mgl32.Vec3{a, b, c}, D: d}
}

// Normalized rescales the plane so that N has unit length.
// A zero normal yields the XZ plane through the origin.
func (p Plane) Normalized() Plane {
	l := p.N.Len()
	if l == 0 {
		return Plane{N: mgl32.Vec3{0, 1, 0}}
	}
	return Plane{N: p.N.Mul(1 / l), D: p.D / l}
}

// Origin returns the point of the plane closest to the world origin.
func (p Plane) Origin() mgl32.Vec3 {
	n := p.Normalized()
	return n.N.Mul(-n.D)
}

// Bounds is an axis-aligned box given by its min and max corners.
type Bounds struct {
	Min, Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Corners returns the eight corners; bit 0 of the index selects max X,
// bit 1 max Y, bit 2 max Z.
func (b Bounds) Corners() [8]mgl32.Vec3 {
	var c [8]mgl32.Vec3
	for i := range c {
		c[i] = b.Min
		if i&1 != 0 {
			c[i][0] = b.Max[0]
		}
		if i&2 != 0 {
			c[i][1] = b.Max[1]
		}
		if i&4 != 0 {
			c[i][2] = b.Max[2]
		}
	}
	return c
}

// boxEdges lists the corner index pairs of the twelve box edges.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// sanitizeVec3 zeroes non-finite components; ok is false if any were found.
func sanitizeVec3(v mgl32.Vec3) (mgl32.Vec3, bool) {
	ok := true
	for i, f := range v {
		if !finite(f) {
			v[i] = 0
			ok = false
		}
	}
	return v, ok
}

// sanitizeMat4 replaces a matrix containing any non-finite entry by identity.
func sanitizeMat4(m mgl32.Mat4) (mgl32.Mat4, bool) {
	for _, f := range m {
		if !finite(f) {
			return mgl32.Ident4(), false
		}
	}
	return m, true
}

// sanitizeQuat returns a unit quaternion, identity for non-finite input.
func sanitizeQuat(q mgl32.Quat) (mgl32.Quat, bool) {
	if !finite(q.W) || !finite(q.V[0]) || !finite(q.V[1]) || !finite(q.V[2]) {
		return mgl32.QuatIdent(), false
	}
	return q.Normalize(), true
}

// sanitizeSize returns |f|, or def when f is not finite.
func sanitizeSize(f, def float32) (float32, bool) {
	if !finite(f) {
		return def, false
	}
	return math32.Abs(f), true
}

// basis returns two unit vectors orthogonal to the unit vector d and to
// each other, chosen deterministically.
func basis(d mgl32.Vec3) (u, v mgl32.Vec3) {
	ref := mgl32.Vec3{1, 0, 0}
	if math32.Abs(d[0]) > 0.9 {
		ref = mgl32.Vec3{0, 1, 0}
	}
	u = ref.Cross(d).Normalize()
	v = d.Cross(u)
	return u, v
}
