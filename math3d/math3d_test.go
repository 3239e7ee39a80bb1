package math3d

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}

func assertMat4(t *testing.T, want, got mgl32.Mat4, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], delta, msgAndArgs...)
}

func TestNormalizeZeroLength(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{}, Normalize(mgl32.Vec3{}))
	assert.Equal(t, mgl32.Quat{}, NormalizeQuat(mgl32.Quat{}))

	v := Normalize(mgl32.Vec3{3, 0, 4})
	assert.InDelta(t, 1, v.Len(), eps)
	assertVec3(t, mgl32.Vec3{0.6, 0, 0.8}, v, eps)
}

var composeCases = []struct {
	name  string
	pos   mgl32.Vec3
	q     mgl32.Quat
	scale mgl32.Vec3
}{
	{"identity", mgl32.Vec3{}, mgl32.QuatIdent(), One},
	{"translate", mgl32.Vec3{1, -2, 3}, mgl32.QuatIdent(), One},
	{"rotate x", mgl32.Vec3{}, QuatFromAxisAngle(Right, 0.7), One},
	{"rotate 180 y", mgl32.Vec3{0, 5, 0}, QuatFromAxisAngle(Up, math32.Pi), One},
	{"rotate 180 z", mgl32.Vec3{0, 0, 0}, QuatFromAxisAngle(Forward, math32.Pi), mgl32.Vec3{2, 2, 2}},
	{"full", mgl32.Vec3{4, 5, -6}, QuatFromAxisAngle(mgl32.Vec3{1, 2, 3}, 2.1), mgl32.Vec3{0.5, 2, 3}},
	{"mirror x", mgl32.Vec3{-1, 0, 1}, QuatFromAxisAngle(mgl32.Vec3{0, 1, 1}, -1.2), mgl32.Vec3{-2, 3, 4}},
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	for _, tc := range composeCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Compose(tc.pos, tc.q, tc.scale)
			pos, q, scale := Decompose(m)

			assertVec3(t, tc.pos, pos, eps, "position %v != %v", pos, tc.pos)
			assertVec3(t, tc.scale, scale, eps, "scale %v != %v", scale, tc.scale)
			assert.True(t, QuatEqual(q, tc.q, eps), "rotation %v != %v", q, tc.q)
		})
	}
}

func TestComposeMatchesMgl(t *testing.T) {
	pos := mgl32.Vec3{1, 2, 3}
	q := QuatFromAxisAngle(mgl32.Vec3{1, 1, 0}, 0.9)
	s := mgl32.Vec3{2, 3, 4}

	expected := mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))

	assertMat4(t, expected, Compose(pos, q, s), eps)
}

func TestDecomposeZeroScale(t *testing.T) {
	pos, q, s := Decompose(Compose(mgl32.Vec3{1, 2, 3}, QuatFromAxisAngle(Up, 1), mgl32.Vec3{0, 1, 1}))
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, pos)
	assert.Equal(t, mgl32.QuatIdent(), q)
	assert.Equal(t, float32(0), s[0])
}

func TestInvert(t *testing.T) {
	matrices := []mgl32.Mat4{
		mgl32.Ident4(),
		Compose(mgl32.Vec3{1, 2, 3}, mgl32.QuatIdent(), One),
		Compose(mgl32.Vec3{-4, 0.5, 9}, QuatFromAxisAngle(mgl32.Vec3{0.3, 1, -2}, 1.3), mgl32.Vec3{1, 2, 0.5}),
		mgl32.Perspective(mgl32.DegToRad(45), 1.5, 0.1, 100),
		{2, 1, 0, 0, 1, 3, 1, 0, 0, 1, 4, 1, 5, 0, 0, 1},
	}

	for i, m := range matrices {
		inv := Invert(m)
		require.False(t, IsZero(inv), "matrix %d", i)

		assertMat4(t, mgl32.Ident4(), m.Mul4(inv), eps, "m * inv(m) for %d: %v", i, m.Mul4(inv))
		assertMat4(t, m, Invert(inv), 1e-3, "inv(inv(m)) for %d", i)
		assertMat4(t, m.Inv(), inv, eps, "mgl32 disagrees for %d", i)
	}
}

func TestInvertSingular(t *testing.T) {
	singular := []mgl32.Mat4{
		{},
		Compose(mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent(), mgl32.Vec3{1, 0, 1}),
		{1, 2, 3, 4, 2, 4, 6, 8, 0, 0, 1, 0, 0, 0, 0, 1},
	}
	for _, m := range singular {
		assert.True(t, IsZero(Invert(m)))
	}
}

func TestEulerQuatRoundTrip(t *testing.T) {
	cases := []Euler{
		NewEuler(0, 0, 0),
		NewEuler(0.3, 0, 0),
		NewEuler(0, -0.7, 0),
		NewEuler(0, 0, 1.1),
		NewEuler(0.4, -0.5, 0.6),
		NewEuler(-1.2, 1.1, -2.5),
	}
	for _, e := range cases {
		q := QuatFromEuler(e)
		assert.InDelta(t, 1, q.Len(), eps)

		back := EulerFromQuat(q, XYZ)
		assertVec3(t, e.Angles, back.Angles, eps, "%v != %v", back.Angles, e.Angles)
		assert.True(t, QuatEqual(QuatFromEuler(back), q, eps))
	}
}

func TestEulerMatchesMglOrder(t *testing.T) {
	e := NewEuler(0.2, 0.4, -0.9)
	// intrinsic XYZ == Rx * Ry * Rz
	expected := mgl32.QuatRotate(e.Angles[0], Right).
		Mul(mgl32.QuatRotate(e.Angles[1], Up)).
		Mul(mgl32.QuatRotate(e.Angles[2], Forward))
	assert.True(t, QuatEqual(QuatFromEuler(e), expected, eps))
}

func TestEulerGimbalLock(t *testing.T) {
	// Rx(a) * Ry(90deg), written out so m13 is exactly 1
	a := float32(0.5)
	sa, ca := math32.Sin(a), math32.Cos(a)
	m := mgl32.Mat4{
		0, sa, -ca, 0,
		0, ca, sa, 0,
		1, 0, 0, 0,
		0, 0, 0, 1,
	}

	e := EulerFromRotationMatrix(m, XYZ)
	assert.InDelta(t, math32.Pi/2, e.Angles[1], eps)
	assert.InDelta(t, a, e.Angles[0], eps)
	assert.Equal(t, float32(0), e.Angles[2])
	assert.True(t, QuatEqual(QuatFromEuler(e), QuatFromRotationMatrix(m), eps))
}

func TestQuatFromMat3(t *testing.T) {
	axes := []mgl32.Vec3{Right, Up, Forward, {1, 1, 1}, {-1, 2, 0.5}}
	angles := []float32{0, 0.5, 1.5, math32.Pi, -2.5}
	for _, axis := range axes {
		for _, angle := range angles {
			q := QuatFromAxisAngle(axis, angle)
			assert.True(t, QuatEqual(QuatFromMat3(q.Mat4().Mat3()), q, eps), "axis %v angle %v", axis, angle)
		}
	}
}

func TestQuatEqualNearZero(t *testing.T) {
	// half turn: W is float noise around zero on both sides
	a := mgl32.Quat{W: -5.16e-08, V: mgl32.Vec3{0, 1, 0}}
	b := mgl32.Quat{W: -4.37e-08, V: mgl32.Vec3{0, 1, 0}}
	assert.True(t, QuatEqual(a, b, 1e-5))
	assert.True(t, QuatEqual(a, b.Scale(-1), 1e-5))
	assert.False(t, QuatEqual(a, mgl32.Quat{W: 0.01, V: mgl32.Vec3{0, 1, 0}}, 1e-5))
}

func TestRotateOrder(t *testing.T) {
	start := QuatFromAxisAngle(Right, 0.8)

	local := RotateOnAxis(start, Up, 0.5)
	world := RotateOnWorldAxis(start, Up, 0.5)
	assert.False(t, QuatEqual(local, world, eps))

	local = RotateOnAxis(mgl32.QuatIdent(), Up, 0.5)
	world = RotateOnWorldAxis(mgl32.QuatIdent(), Up, 0.5)
	assert.True(t, QuatEqual(local, world, eps))
}

func TestApplyQuat(t *testing.T) {
	q := QuatFromAxisAngle(Up, math32.Pi/2)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, ApplyQuat(Right, q), eps)
	assertVec3(t, q.Rotate(mgl32.Vec3{1, 2, 3}), ApplyQuat(mgl32.Vec3{1, 2, 3}, q), eps)
}

func TestLookAt(t *testing.T) {
	m := LookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, Up)
	assertMat4(t, mgl32.Ident4(), m, eps)

	m = LookAt(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{}, Up)
	// +Z of the basis points back at the eye
	assertVec3(t, Right, m.Col(2).Vec3(), eps)
}

func TestLookAtDegenerate(t *testing.T) {
	cases := []struct {
		eye, target, up mgl32.Vec3
	}{
		{mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}, Up},
		{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, Forward},
		{mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 0, 2}},
		{mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}, Up},
	}
	for _, tc := range cases {
		m := LookAt(tc.eye, tc.target, tc.up)
		x, y, z := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()

		assert.InDelta(t, 1, x.Len(), eps)
		assert.InDelta(t, 1, y.Len(), eps)
		assert.InDelta(t, 1, z.Len(), eps)
		assert.InDelta(t, 0, x.Dot(y), eps)
		assert.InDelta(t, 0, y.Dot(z), eps)
	}
}

func TestNormalMatrix(t *testing.T) {
	m := Compose(mgl32.Vec3{3, 4, 5}, QuatFromAxisAngle(Up, 0.3), mgl32.Vec3{2, 2, 2})
	n := NormalMatrix(m)
	assertVec3(t, QuatFromAxisAngle(Up, 0.3).Rotate(Up).Mul(0.5), n.Mul3x1(Up), eps)

	assert.Equal(t, mgl32.Mat3{}, NormalMatrix(mgl32.Mat4{}))
}

func TestApplyMat4(t *testing.T) {
	m := Compose(mgl32.Vec3{1, 1, 0}, mgl32.QuatIdent(), One)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, ApplyMat4(mgl32.Vec3{}, m))
}
