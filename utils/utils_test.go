package utils

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexColorTests = []struct {
	in  string
	out ColorFloat
	ok  bool
}{
	{"#ff0000", ColorFloat{1, 0, 0, 1}, true},
	{"00ff00", ColorFloat{0, 1, 0, 1}, true},
	{"#000000", ColorFloat{0, 0, 0, 1}, true},
	{"#fff", ColorFloat{}, false},
	{"#gg0000", ColorFloat{}, false},
	{"", ColorFloat{}, false},
}

func TestParseHexColor(t *testing.T) {
	for _, test := range hexColorTests {
		c, err := ParseHexColor(test.in)
		if !test.ok {
			assert.Error(t, err, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		assert.Equal(t, test.out, c, test.in)
	}
}

func TestColorFloat(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 0}, NewColorFloatA([]float32{0.5, 0.25, 0, 0.5}).Vec3())
}

func TestDegreesRadians(t *testing.T) {
	v := mgl32.Vec3{180, 90, -45}
	r := DegreeToRadiansV3(v)
	assert.InDelta(t, mgl32.DegToRad(180), r[0], 1e-6)
	back := RadiansToDegreeV3(r)
	assert.InDeltaSlice(t, v[:], back[:], 1e-4)
}

func TestSDump(t *testing.T) {
	type node struct {
		Name     string
		Children map[string]int
	}
	out := SDump(&node{Name: "root", Children: map[string]int{"b": 2, "a": 1}})
	assert.Contains(t, out, `Name: (string) (len=4) "root"`)
	// sorted keys
	assert.Less(t, strings.Index(out, `"a"`), strings.Index(out, `"b"`))
}
