// Package math3d is the linear algebra kernel of the engine.
//
// Vectors, quaternions and matrices are the mgl32 types (column-major
// matrices, translation in elements 12..14). This package adds the
// operations the scene graph needs on top of them: compose/decompose,
// euler conversions, a cofactor inverse with a zero-matrix sentinel,
// look-at bases and zero-safe normalization.
package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	Zero  = mgl32.Vec3{0, 0, 0}
	One   = mgl32.Vec3{1, 1, 1}
	Right = mgl32.Vec3{1, 0, 0}
	Up    = mgl32.Vec3{0, 1, 0}
	// Forward is +Z, the axis RotateZ and TranslateZ operate on.
	Forward = mgl32.Vec3{0, 0, 1}
)

// Normalize returns v scaled to unit length. A zero-length vector
// normalizes to the zero vector instead of NaN.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// ApplyQuat rotates v by q.
func ApplyQuat(v mgl32.Vec3, q mgl32.Quat) mgl32.Vec3 {
	// t = 2 * cross(q.xyz, v); v' = v + w*t + cross(q.xyz, t)
	t := q.V.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(q.V.Cross(t))
}

// ApplyMat4 transforms the point v by m, dividing by the resulting w.
func ApplyMat4(v mgl32.Vec3, m mgl32.Mat4) mgl32.Vec3 {
	r := m.Mul4x1(v.Vec4(1))
	if r[3] == 0 || r[3] == 1 {
		return r.Vec3()
	}
	return r.Vec3().Mul(1 / r[3])
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}
