package web

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r3dgo/r3d/geometry"
	"github.com/r3dgo/r3d/gpu/gputest"
	"github.com/r3dgo/r3d/r3d"
)

func testServer(t *testing.T) (*httptest.Server, []r3d.Renderable) {
	t.Helper()
	root := r3d.NewNode()
	root.Name = "root"
	root.SetPosition(mgl32.Vec3{1, 0, 0})
	cube := r3d.NewMesh(geometry.Cube(1))
	cube.Name = "cube"
	cube.SetPosition(mgl32.Vec3{0, 1, 0})
	require.NoError(t, root.Add(cube))
	roots := []r3d.Renderable{root}

	r := r3d.NewRenderer(gputest.NewRecorder())
	r.Render(roots, r3d.NewPerspectiveCamera(45, 1, 0.1, 100))

	s := NewState()
	s.Publish(r.Stats(), Describe(roots))

	srv := httptest.NewServer(NewRouter(s))
	t.Cleanup(srv.Close)
	return srv, roots
}

func get(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestStats(t *testing.T) {
	srv, _ := testServer(t)
	var stats r3d.Stats
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/json/stats", &stats))
	assert.Equal(t, uint64(1), stats.Frame)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 2, stats.Nodes)
}

func TestScene(t *testing.T) {
	srv, roots := testServer(t)

	var scene []NodeInfo
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/json/scene", &scene))
	require.Len(t, scene, 1)
	assert.Equal(t, "root", scene[0].Name)
	require.Len(t, scene[0].Children, 1)

	cube := scene[0].Children[0]
	assert.Equal(t, "cube", cube.Name)
	assert.InDeltaSlice(t, []float32{1, 1, 0}, cube.WorldPosition[:], 1e-5)
	require.NotNil(t, cube.Geometry)
	assert.Equal(t, "triangles", cube.Geometry.Topology)
	assert.Equal(t, "position+normal", cube.Geometry.Attributes)
	assert.Equal(t, 24, cube.Geometry.Vertices)
	assert.Equal(t, 36, cube.Geometry.Indices)
	assert.True(t, cube.Geometry.Uploaded)

	id := roots[0].Transform().Children()[0].Transform().ID
	var node NodeInfo
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/json/scene/"+id.String(), &node))
	assert.Equal(t, "cube", node.Name)

	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/json/scene/"+uuid.New().String(), nil))
	assert.Equal(t, http.StatusBadRequest, get(t, srv.URL+"/json/scene/not-a-uuid", nil))
}

func TestDumpScene(t *testing.T) {
	srv, _ := testServer(t)
	resp, err := http.Get(srv.URL + "/dump/scene")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"cube"`)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "scene.txt")
}

func TestConfig(t *testing.T) {
	srv, _ := testServer(t)
	var cfg map[string]interface{}
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/json/config", &cfg))
	assert.Contains(t, cfg, "Window")
}

func TestStatusSocket(t *testing.T) {
	srv, _ := testServer(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/status", nil)
	require.NoError(t, err)
	conn.Close()
}

func TestEmptyState(t *testing.T) {
	srv := httptest.NewServer(NewRouter(NewState()))
	defer srv.Close()
	var scene []NodeInfo
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/json/scene", &scene))
	assert.NotNil(t, scene)
	assert.Empty(t, scene)
}
