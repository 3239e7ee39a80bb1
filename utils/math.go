package utils

import (
	"github.com/go-gl/mathgl/mgl32"
)

func DegreeToRadiansV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(mgl32.DegToRad(1))
}

func RadiansToDegreeV3(v mgl32.Vec3) mgl32.Vec3 {
	return v.Mul(mgl32.RadToDeg(1))
}

func Vec3FromArray(a [3]float32) mgl32.Vec3 {
	return mgl32.Vec3(a)
}
