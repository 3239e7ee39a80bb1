package utils

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ColorFloat is a linear RGBA color with components in [0, 1].
type ColorFloat [4]float32

func (c ColorFloat) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c[0], c[1], c[2]}
}

func NewColorFloatA(c []float32) ColorFloat {
	return ColorFloat{c[0], c[1], c[2], c[3]}
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (ColorFloat, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return ColorFloat{}, errors.Errorf("Invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ColorFloat{}, errors.Wrapf(err, "Invalid color %q", s)
	}
	return ColorFloat{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
		1,
	}, nil
}
