package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// NormalizeQuat returns q with unit length. Like Normalize, a zero
// quaternion stays zero.
func NormalizeQuat(q mgl32.Quat) mgl32.Quat {
	l := q.Len()
	if l == 0 {
		return mgl32.Quat{}
	}
	return q.Scale(1 / l)
}

// QuatFromAxisAngle builds the rotation of angle radians around axis.
// The axis is normalized first; a zero axis gives the identity.
func QuatFromAxisAngle(axis mgl32.Vec3, angle float32) mgl32.Quat {
	axis = Normalize(axis)
	if axis == (mgl32.Vec3{}) {
		return mgl32.QuatIdent()
	}
	half := angle / 2
	s := math32.Sin(half)
	return mgl32.Quat{W: math32.Cos(half), V: axis.Mul(s)}
}

// QuatFromEuler converts euler angles to a quaternion.
func QuatFromEuler(e Euler) mgl32.Quat {
	c1 := math32.Cos(e.Angles[0] / 2)
	c2 := math32.Cos(e.Angles[1] / 2)
	c3 := math32.Cos(e.Angles[2] / 2)

	s1 := math32.Sin(e.Angles[0] / 2)
	s2 := math32.Sin(e.Angles[1] / 2)
	s3 := math32.Sin(e.Angles[2] / 2)

	switch e.Order {
	default: // XYZ
		return mgl32.Quat{
			W: c1*c2*c3 - s1*s2*s3,
			V: mgl32.Vec3{
				s1*c2*c3 + c1*s2*s3,
				c1*s2*c3 - s1*c2*s3,
				c1*c2*s3 + s1*s2*c3,
			},
		}
	}
}

// QuatFromMat3 extracts the rotation of a pure (unscaled) rotation matrix.
func QuatFromMat3(m mgl32.Mat3) mgl32.Quat {
	return quatFromRotation(
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	)
}

// QuatFromRotationMatrix extracts the rotation of the upper 3x3 of m,
// which must be unscaled.
func QuatFromRotationMatrix(m mgl32.Mat4) mgl32.Quat {
	return quatFromRotation(
		m[0], m[4], m[8],
		m[1], m[5], m[9],
		m[2], m[6], m[10],
	)
}

// quatFromRotation takes the matrix in row/column notation (mRC).
// The branch is picked on the largest diagonal term to keep s away from zero.
func quatFromRotation(m11, m12, m13, m21, m22, m23, m31, m32, m33 float32) mgl32.Quat {
	trace := m11 + m22 + m33

	switch {
	case trace > 0:
		s := 0.5 / math32.Sqrt(trace+1)
		return mgl32.Quat{
			W: 0.25 / s,
			V: mgl32.Vec3{(m32 - m23) * s, (m13 - m31) * s, (m21 - m12) * s},
		}
	case m11 > m22 && m11 > m33:
		s := 2 * math32.Sqrt(1+m11-m22-m33)
		return mgl32.Quat{
			W: (m32 - m23) / s,
			V: mgl32.Vec3{0.25 * s, (m12 + m21) / s, (m13 + m31) / s},
		}
	case m22 > m33:
		s := 2 * math32.Sqrt(1+m22-m11-m33)
		return mgl32.Quat{
			W: (m13 - m31) / s,
			V: mgl32.Vec3{(m12 + m21) / s, 0.25 * s, (m23 + m32) / s},
		}
	default:
		s := 2 * math32.Sqrt(1+m33-m11-m22)
		return mgl32.Quat{
			W: (m21 - m12) / s,
			V: mgl32.Vec3{(m13 + m31) / s, (m23 + m32) / s, 0.25 * s},
		}
	}
}

// RotateOnAxis appends a rotation around a local axis: q * rot(axis, angle).
func RotateOnAxis(q mgl32.Quat, axis mgl32.Vec3, angle float32) mgl32.Quat {
	return q.Mul(QuatFromAxisAngle(axis, angle))
}

// RotateOnWorldAxis prepends a rotation around a world axis: rot(axis, angle) * q.
func RotateOnWorldAxis(q mgl32.Quat, axis mgl32.Vec3, angle float32) mgl32.Quat {
	return QuatFromAxisAngle(axis, angle).Mul(q)
}

// QuatEqual reports whether a and b describe the same rotation with every
// component within threshold, treating q and -q as equal.
func QuatEqual(a, b mgl32.Quat, threshold float32) bool {
	return quatNear(a, b, threshold) || quatNear(a, b.Scale(-1), threshold)
}

func quatNear(a, b mgl32.Quat, threshold float32) bool {
	return math32.Abs(a.W-b.W) <= threshold &&
		math32.Abs(a.V[0]-b.V[0]) <= threshold &&
		math32.Abs(a.V[1]-b.V[1]) <= threshold &&
		math32.Abs(a.V[2]-b.V[2]) <= threshold
}
