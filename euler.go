package debugdraw

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	axisX = mgl32.Vec3{1, 0, 0}
	axisY = mgl32.Vec3{0, 1, 0}
	axisZ = mgl32.Vec3{0, 0, 1}
)

// EulerToQuat converts Euler angles in degrees into a unit quaternion.
//
// The rotation about X (angles[0]) is applied first, then Y, then Z, all
// about the fixed world axes: q = qz · qy · qx.
func EulerToQuat(angles mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(angles[0]), axisX)
	qy := mgl32.QuatRotate(mgl32.DegToRad(angles[1]), axisY)
	qz := mgl32.QuatRotate(mgl32.DegToRad(angles[2]), axisZ)
	return qz.Mul(qy).Mul(qx).Normalize()
}

// QuatToEuler is the inverse of EulerToQuat. The result is in degrees with
// X and Z in (-180, 180] and Y in [-90, 90]; near Y = ±90 the split between
// X and Z is not unique.
func QuatToEuler(q mgl32.Quat) mgl32.Vec3 {
	q = q.Normalize()
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	roll := math32.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	s := 2 * (w*y - z*x)
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	pitch := math32.Asin(s)
	yaw := math32.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))

	return mgl32.Vec3{mgl32.RadToDeg(roll), mgl32.RadToDeg(pitch), mgl32.RadToDeg(yaw)}
}

// RotationArc returns the smallest rotation taking direction v0 onto v1.
// The rotation axis is v0 × v1. For opposite directions the axis is
// X × v0, or Y × v0 when v0 is parallel to X. Zero vectors give identity.
func RotationArc(v0, v1 mgl32.Vec3) mgl32.Mat4 {
	return rotationArcQuat(v0, v1).Mat4()
}

func rotationArcQuat(v0, v1 mgl32.Vec3) mgl32.Quat {
	l0, l1 := v0.Len(), v1.Len()
	if l0 == 0 || l1 == 0 || !finite(l0) || !finite(l1) {
		return mgl32.QuatIdent()
	}
	a := v0.Mul(1 / l0)
	b := v1.Mul(1 / l1)

	d := a.Dot(b)
	const eps = 1e-6
	if d >= 1-eps {
		return mgl32.QuatIdent()
	}
	if d <= -1+eps {
		axis := axisX.Cross(a)
		if axis.Len() < 1e-3 {
			axis = axisY.Cross(a)
		}
		return mgl32.Quat{W: 0, V: axis.Normalize()}
	}

	s := math32.Sqrt((1 + d) * 2)
	c := a.Cross(b)
	return mgl32.Quat{W: s / 2, V: c.Mul(1 / s)}
}

// SegmentTransform returns the pose at p0 whose local +Y axis points at p1.
func SegmentTransform(p0, p1 mgl32.Vec3) mgl32.Mat4 {
	return Transform{P: p0, Q: rotationArcQuat(axisY, p1.Sub(p0))}.Mat4()
}
