package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/r3dgo/r3d/collision"
	"github.com/r3dgo/r3d/config"
	"github.com/r3dgo/r3d/gpu/glcontext"
	"github.com/r3dgo/r3d/math3d"
	"github.com/r3dgo/r3d/r3d"
	"github.com/r3dgo/r3d/status"
	"github.com/r3dgo/r3d/utils"
	"github.com/r3dgo/r3d/utils/gltfutils"
	"github.com/r3dgo/r3d/web"
)

// How often the debug server snapshot is refreshed.
const publishInterval = time.Second

func init() {
	// GL calls have to come from the main thread
	runtime.LockOSThread()
}

func main() {
	var configPath, scenePath, addr, bg string
	var width, height int
	var dump, verbose bool
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&scenePath, "scene", "", "Path to .gltf/.glb scene, overrides config")
	flag.StringVar(&addr, "i", "", "Address of debug server, overrides config")
	flag.StringVar(&bg, "bg", "", "Background color #rrggbb, overrides config")
	flag.IntVar(&width, "width", 0, "Window width override")
	flag.IntVar(&height, "height", 0, "Window height override")
	flag.BoolVar(&dump, "dump", false, "Print the scene tree and exit")
	flag.BoolVar(&verbose, "v", false, "Log the scene tree after loading")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}
	if addr != "" {
		cfg.DebugAddr = addr
	}
	if width > 0 {
		cfg.Window.Width = width
	}
	if height > 0 {
		cfg.Window.Height = height
	}
	if bg != "" {
		c, err := utils.ParseHexColor(bg)
		if err != nil {
			log.Fatal(err)
		}
		cfg.ClearColor = [3]float32{c[0], c[1], c[2]}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	config.SetViewer(cfg)

	roots, err := loadScene(cfg.Scene)
	if err != nil {
		log.Fatal(err)
	}
	orient(roots, cfg.Orientation)
	if verbose {
		utils.LogDump(web.Describe(roots))
	}
	if dump {
		utils.Dump(web.Describe(roots))
		return
	}

	if err := run(cfg, roots); err != nil {
		log.Fatal(err)
	}
}

func loadScene(path string) ([]r3d.Renderable, error) {
	if path == "" {
		return demoScene(), nil
	}
	return gltfutils.Load(path)
}

// orient applies an XYZ euler rotation given in degrees to every root.
func orient(roots []r3d.Renderable, degrees [3]float32) {
	if degrees == [3]float32{} {
		return
	}
	r := utils.DegreeToRadiansV3(mgl32.Vec3(degrees))
	for _, root := range roots {
		root.Transform().SetRotationFromEuler(math3d.NewEuler(r[0], r[1], r[2]))
	}
}

func run(cfg config.Viewer, roots []r3d.Renderable) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()

	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	ctx, err := glcontext.New()
	if err != nil {
		return err
	}

	renderer := r3d.NewRenderer(ctx)
	defer renderer.Release()
	renderer.ClearColor = mgl32.Vec3(cfg.ClearColor)

	scene := r3d.NewScene()
	for _, root := range roots {
		if err := scene.Add(root); err != nil {
			return err
		}
	}
	defer scene.Destroy(renderer)

	camera := r3d.NewPerspectiveCamera(cfg.Camera.Fov, cfg.Aspect(), cfg.Camera.Near, cfg.Camera.Far)
	orbit := r3d.NewOrbitController(utils.Vec3FromArray(cfg.Camera.Target),
		cfg.Camera.Distance, cfg.Camera.Pitch, cfg.Camera.Yaw)
	orbit.Apply(camera)

	resize := func(w, h int) {
		if w <= 0 || h <= 0 {
			return
		}
		camera.SetAspect(float32(w) / float32(h))
		renderer.SetViewport(w, h)
	}
	resize(window.GetFramebufferSize())
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) { resize(w, h) })
	bindOrbitControls(window, orbit)
	bindPicking(window, camera, scene)

	state := web.NewState()
	state.Publish(renderer.Stats(), web.Describe(scene.Roots()))
	if cfg.DebugAddr != "" {
		go func() {
			if err := web.StartServer(cfg.DebugAddr, state); err != nil {
				log.Printf("[web] server stopped: %v", err)
				status.Error("Debug server stopped: %v", err)
			}
		}()
	}
	status.Info("Showing %d root(s)", len(scene.Roots()))

	spin := mgl32.DegToRad(cfg.Spin)
	last := glfw.GetTime()
	lastPublish := time.Now()
	var frames int
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := float32(now - last)
		last = now

		if spin != 0 {
			for _, root := range scene.Roots() {
				root.Transform().RotateY(spin * dt)
			}
		}
		orbit.Apply(camera)

		renderer.RenderScene(scene, camera)
		window.SwapBuffers()
		glfw.PollEvents()

		frames++
		if cfg.ReleaseEvery > 0 && frames%cfg.ReleaseEvery == 0 {
			renderer.ReleaseUnused()
		}
		if time.Since(lastPublish) >= publishInterval {
			lastPublish = time.Now()
			stats := renderer.Stats()
			state.Publish(stats, web.Describe(scene.Roots()))
			status.Stats(stats)
		}
	}
	return nil
}

// bindOrbitControls rotates the orbit while the left button is held and
// zooms on scroll.
func bindOrbitControls(window *glfw.Window, orbit *r3d.OrbitController) {
	const sensitivity = 0.3
	var lastX, lastY float64
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if w.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press {
			orbit.Yaw -= float32(x-lastX) * sensitivity
			orbit.Pitch = mgl32.Clamp(orbit.Pitch+float32(y-lastY)*sensitivity, -89, 89)
		}
		lastX, lastY = x, y
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		orbit.Distance *= 1 - 0.1*float32(yoff)
		if orbit.Distance < 0.1 {
			orbit.Distance = 0.1
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
}

// bindPicking reports the surface under the cursor on right click.
func bindPicking(window *glfw.Window, camera r3d.Camera, scene *r3d.Scene) {
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonRight || action != glfw.Press {
			return
		}
		x, y := w.GetCursorPos()
		width, height := w.GetSize()
		if width <= 0 || height <= 0 {
			return
		}
		ndcX := float32(2*x/float64(width) - 1)
		ndcY := float32(1 - 2*y/float64(height))

		hit, ok, err := pick(scene.Roots(), camera, ndcX, ndcY)
		switch {
		case err != nil:
			log.Printf("[viewer] pick: %v", err)
			status.Error("Pick failed: %v", err)
		case !ok:
			status.Info("Nothing under cursor")
		default:
			log.Printf("[viewer] picked %q at %v, distance %.3f", hit.Owner.Transform().Name, hit.Point, hit.Distance)
			status.Info("Picked %q at distance %.3f", hit.Owner.Transform().Name, hit.Distance)
		}
	})
}

// pick casts a ray through the given device coordinates. The octree is
// rebuilt every time since roots may have moved since the last frame.
func pick(roots []r3d.Renderable, camera r3d.Camera, ndcX, ndcY float32) (collision.Hit, bool, error) {
	octree := collision.New()
	for _, root := range roots {
		if err := octree.AddRenderable(root); err != nil {
			return collision.Hit{}, false, err
		}
	}
	octree.Build()
	hit, ok := octree.RayIntersect(collision.RayFromCamera(camera, ndcX, ndcY))
	return hit, ok, nil
}
