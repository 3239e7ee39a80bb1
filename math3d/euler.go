package math3d

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type EulerOrder uint8

const (
	XYZ EulerOrder = iota
)

func (o EulerOrder) String() string {
	switch o {
	case XYZ:
		return "XYZ"
	default:
		return "unknown"
	}
}

// Euler is a readable mirror of a quaternion. Angles are in radians and
// applied intrinsically in Order.
type Euler struct {
	Angles mgl32.Vec3
	Order  EulerOrder
}

func NewEuler(x, y, z float32) Euler {
	return Euler{Angles: mgl32.Vec3{x, y, z}, Order: XYZ}
}

// gimbalThreshold is where the middle axis is treated as locked at +-90deg.
const gimbalThreshold = 0.9999999

// EulerFromRotationMatrix reads euler angles from the unscaled upper 3x3 of m.
func EulerFromRotationMatrix(m mgl32.Mat4, order EulerOrder) Euler {
	m11, m12, m13 := m[0], m[4], m[8]
	m22, m23 := m[5], m[9]
	m32, m33 := m[6], m[10]

	var e Euler
	e.Order = order

	switch order {
	default: // XYZ
		e.Angles[1] = math32.Asin(clamp(m13, -1, 1))
		if math32.Abs(m13) < gimbalThreshold {
			e.Angles[0] = math32.Atan2(-m23, m33)
			e.Angles[2] = math32.Atan2(-m12, m11)
		} else {
			e.Angles[0] = math32.Atan2(m32, m22)
			e.Angles[2] = 0
		}
	}
	return e
}

// EulerFromQuat converts a unit quaternion to euler angles.
func EulerFromQuat(q mgl32.Quat, order EulerOrder) Euler {
	return EulerFromRotationMatrix(Compose(Zero, q, One), order)
}
