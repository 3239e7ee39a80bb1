package config

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type Camera struct {
	Fov  float32 `yaml:"fov"` // degrees
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	Target   [3]float32 `yaml:"target"`
	Distance float32    `yaml:"distance"`
	Pitch    float32    `yaml:"pitch"`
	Yaw      float32    `yaml:"yaw"`
}

// Viewer is the configuration of the viewer binary.
type Viewer struct {
	Window     Window     `yaml:"window"`
	Camera     Camera     `yaml:"camera"`
	ClearColor [3]float32 `yaml:"clear_color"`

	// Scene is a .gltf/.glb file to show. Empty shows the demo scene.
	Scene string `yaml:"scene"`
	// Spin rotates the scene roots, degrees per second.
	Spin float32 `yaml:"spin"`
	// Orientation rotates every scene root once after loading, XYZ euler
	// degrees. [-90, 0, 0] turns Z-up assets upright.
	Orientation [3]float32 `yaml:"orientation"`

	// DebugAddr enables the debug http server when set.
	DebugAddr string `yaml:"debug_addr"`
	// ReleaseEvery is the number of frames between sweeps of unused
	// geometries. Zero disables the sweep.
	ReleaseEvery int `yaml:"release_every"`
}

func Default() Viewer {
	return Viewer{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "r3d viewer",
			VSync:  true,
		},
		Camera: Camera{
			Fov:      45,
			Near:     0.1,
			Far:      1000,
			Distance: 6,
			Pitch:    25,
			Yaw:      35,
		},
		ClearColor:   [3]float32{0.1, 0.1, 0.12},
		Spin:         20,
		ReleaseEvery: 600,
	}
}

var viewer = Default()

func GetViewer() Viewer {
	return viewer
}

func SetViewer(v Viewer) {
	viewer = v
}

// Parse decodes YAML on top of the defaults. Fields missing from data
// keep their default values.
func Parse(data []byte) (Viewer, error) {
	v := Default()
	if err := yaml.Unmarshal(data, &v); err != nil {
		return v, errors.Wrap(err, "Failed to parse viewer config")
	}
	return v, v.Validate()
}

func Load(path string) (Viewer, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Default(), errors.Wrapf(err, "Cannot read config %q", path)
	}
	return Parse(data)
}

func (v Viewer) Validate() error {
	if v.Window.Width <= 0 || v.Window.Height <= 0 {
		return errors.Errorf("Invalid window size %dx%d", v.Window.Width, v.Window.Height)
	}
	if v.Camera.Fov <= 0 || v.Camera.Fov >= 180 {
		return errors.Errorf("Invalid camera fov %v", v.Camera.Fov)
	}
	if v.Camera.Near <= 0 || v.Camera.Far <= v.Camera.Near {
		return errors.Errorf("Invalid camera clip planes near=%v far=%v", v.Camera.Near, v.Camera.Far)
	}
	if v.ReleaseEvery < 0 {
		return errors.Errorf("Invalid release_every %d", v.ReleaseEvery)
	}
	return nil
}

// Aspect is the window aspect ratio.
func (v Viewer) Aspect() float32 {
	return float32(v.Window.Width) / float32(v.Window.Height)
}
