package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Compose builds the affine matrix translate(pos) * rotate(q) * scale(s)
// straight from the quaternion terms.
func Compose(pos mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	return mgl32.Mat4{
		(1 - (yy + zz)) * s[0], (xy + wz) * s[0], (xz - wy) * s[0], 0,
		(xy - wz) * s[1], (1 - (xx + zz)) * s[1], (yz + wx) * s[1], 0,
		(xz + wy) * s[2], (yz - wx) * s[2], (1 - (xx + yy)) * s[2], 0,
		pos[0], pos[1], pos[2], 1,
	}
}

// Decompose splits an affine matrix into position, rotation and scale.
// A negative determinant is attributed to the x scale. When any scale
// component is zero the rotation cannot be recovered and identity is
// returned for it.
func Decompose(m mgl32.Mat4) (pos mgl32.Vec3, q mgl32.Quat, s mgl32.Vec3) {
	s[0] = mgl32.Vec3{m[0], m[1], m[2]}.Len()
	s[1] = mgl32.Vec3{m[4], m[5], m[6]}.Len()
	s[2] = mgl32.Vec3{m[8], m[9], m[10]}.Len()

	if m.Det() < 0 {
		s[0] = -s[0]
	}

	pos = mgl32.Vec3{m[12], m[13], m[14]}

	if s[0] == 0 || s[1] == 0 || s[2] == 0 {
		return pos, mgl32.QuatIdent(), s
	}

	r := m
	for col := 0; col < 3; col++ {
		inv := 1 / s[col]
		r[col*4+0] *= inv
		r[col*4+1] *= inv
		r[col*4+2] *= inv
	}
	q = QuatFromRotationMatrix(r)
	return pos, q, s
}

// Invert returns the inverse of m by cofactor expansion. A matrix with
// a determinant of exactly zero yields the zero matrix; callers check
// IsZero before using the result.
func Invert(m mgl32.Mat4) mgl32.Mat4 {
	n11, n21, n31, n41 := m[0], m[1], m[2], m[3]
	n12, n22, n32, n42 := m[4], m[5], m[6], m[7]
	n13, n23, n33, n43 := m[8], m[9], m[10], m[11]
	n14, n24, n34, n44 := m[12], m[13], m[14], m[15]

	t11 := n23*n34*n42 - n24*n33*n42 + n24*n32*n43 - n22*n34*n43 - n23*n32*n44 + n22*n33*n44
	t12 := n14*n33*n42 - n13*n34*n42 - n14*n32*n43 + n12*n34*n43 + n13*n32*n44 - n12*n33*n44
	t13 := n13*n24*n42 - n14*n23*n42 + n14*n22*n43 - n12*n24*n43 - n13*n22*n44 + n12*n23*n44
	t14 := n14*n23*n32 - n13*n24*n32 - n14*n22*n33 + n12*n24*n33 + n13*n22*n34 - n12*n23*n34

	det := n11*t11 + n21*t12 + n31*t13 + n41*t14
	if det == 0 {
		return mgl32.Mat4{}
	}
	d := 1 / det

	return mgl32.Mat4{
		t11 * d,
		(n24*n33*n41 - n23*n34*n41 - n24*n31*n43 + n21*n34*n43 + n23*n31*n44 - n21*n33*n44) * d,
		(n22*n34*n41 - n24*n32*n41 + n24*n31*n42 - n21*n34*n42 - n22*n31*n44 + n21*n32*n44) * d,
		(n23*n32*n41 - n22*n33*n41 - n23*n31*n42 + n21*n33*n42 + n22*n31*n43 - n21*n32*n43) * d,

		t12 * d,
		(n13*n34*n41 - n14*n33*n41 + n14*n31*n43 - n11*n34*n43 - n13*n31*n44 + n11*n33*n44) * d,
		(n14*n32*n41 - n12*n34*n41 - n14*n31*n42 + n11*n34*n42 + n12*n31*n44 - n11*n32*n44) * d,
		(n12*n33*n41 - n13*n32*n41 + n13*n31*n42 - n11*n33*n42 - n12*n31*n43 + n11*n32*n43) * d,

		t13 * d,
		(n14*n23*n41 - n13*n24*n41 - n14*n21*n43 + n11*n24*n43 + n13*n21*n44 - n11*n23*n44) * d,
		(n12*n24*n41 - n14*n22*n41 + n14*n21*n42 - n11*n24*n42 - n12*n21*n44 + n11*n22*n44) * d,
		(n13*n22*n41 - n12*n23*n41 - n13*n21*n42 + n11*n23*n42 + n12*n21*n43 - n11*n22*n43) * d,

		t14 * d,
		(n13*n24*n31 - n14*n23*n31 + n14*n21*n33 - n11*n24*n33 - n13*n21*n34 + n11*n23*n34) * d,
		(n14*n22*n31 - n12*n24*n31 - n14*n21*n32 + n11*n24*n32 + n12*n21*n34 - n11*n22*n34) * d,
		(n12*n23*n31 - n13*n22*n31 + n13*n21*n32 - n11*n23*n32 - n12*n21*n33 + n11*n22*n33) * d,
	}
}

// IsZero reports whether m is the zero matrix Invert returns for singular input.
func IsZero(m mgl32.Mat4) bool {
	return m == mgl32.Mat4{}
}

// NormalMatrix is the inverse transpose of the upper 3x3 of m. A singular
// m gives the zero matrix.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return mgl32.Mat3{}
	}
	return m3.Inv().Transpose()
}

// lookAtNudge perturbs the forward axis when up is parallel to it.
const lookAtNudge = 0.0001

// LookAt returns a rotation matrix whose +Z axis points from target to
// eye, with the X axis perpendicular to up. Cameras use it as is (they
// look down -Z); other objects swap eye and target.
func LookAt(eye, target, up mgl32.Vec3) mgl32.Mat4 {
	z := eye.Sub(target)
	if z.LenSqr() == 0 {
		z[2] = 1
	}
	z = Normalize(z)
	up = Normalize(up)

	x := up.Cross(z)
	if x.LenSqr() == 0 {
		if math32.Abs(up[2]) == 1 {
			z[0] += lookAtNudge
		} else {
			z[2] += lookAtNudge
		}
		z = Normalize(z)
		x = up.Cross(z)
	}
	x = Normalize(x)
	y := z.Cross(x)

	return mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
}
