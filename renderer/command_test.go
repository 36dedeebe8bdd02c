package renderer_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/buffers"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/device/devicetest"
	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/logging"
	"github.com/bloeys/nrender/materials"
	"github.com/bloeys/nrender/renderer"
	"github.com/bloeys/nrender/shaders"
	"github.com/bloeys/nrender/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnknownShader = errors.New("unknown shader")

const litVS = `#version 410
in vec3 IN_POSITION;
in vec3 IN_NORMAL;
uniform mat4 modelMat;
uniform float time;
void main() { gl_Position = modelMat * vec4(IN_POSITION, 1); }
`

const texturedFS = `#version 410
uniform sampler2D tex;
out vec4 fragColor;
void main() { fragColor = vec4(1); }
`

const litFS = `#version 410
uniform vec4 color;
out vec4 fragColor;
void main() { fragColor = color; }
`

// shaderMap resolves 'vs+fs' ids to programs
type shaderMap struct {
	mgr      *shaders.Manager
	sources  map[string]string
	programs map[string]*shaders.Program
}

func (s *shaderMap) Shader(vsID, fsID string) (*shaders.Program, error) {

	key := vsID + "+" + fsID
	if p, ok := s.programs[key]; ok {
		return p, nil
	}

	vs, ok := s.sources[vsID]
	if !ok {
		return nil, errUnknownShader
	}

	fs, ok := s.sources[fsID]
	if !ok {
		return nil, errUnknownShader
	}

	p := s.mgr.New(key, vs, fs)
	s.programs[key] = p
	return p, nil
}

type fixture struct {
	rec    *devicetest.Recorder
	mgr    *shaders.Manager
	store  *store.Store
	states *gpustate.Cache
	cache  *buffers.Cache
	r      *renderer.Renderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logging.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { logging.SetOutput(nil) })

	f := &fixture{rec: devicetest.NewRecorder()}
	f.mgr = shaders.NewManager(f.rec, shaders.Options{})
	f.store = store.New()
	f.states = gpustate.NewCache(f.rec, gpustate.Options{})
	f.cache = buffers.NewCache(f.rec, 50)

	src := &shaderMap{
		mgr: f.mgr,
		sources: map[string]string{
			"lit.vs":    litVS,
			"lit.fs":    litFS,
			"broken.fs": "#error\n",
			"tex.fs":    texturedFS,
		},
		programs: map[string]*shaders.Program{},
	}

	f.r = renderer.New(f.rec, src, f.store, f.cache, f.states)
	return f
}

func TestRenderRequiresShader(t *testing.T) {

	f := newFixture(t)
	tri := geometry.Triangle()

	err := f.r.Geometry(&tri).Render()
	assert.ErrorIs(t, err, renderer.ErrMissingPipelineInput)

	err = f.r.Geometry(&tri).Param("time", shaders.Float(1)).Shader("lit.vs", "lit.fs").Render()
	assert.ErrorIs(t, err, renderer.ErrMissingPipelineInput)

	assert.Empty(t, f.rec.Draws)
}

func TestRenderIssuesOneDraw(t *testing.T) {

	f := newFixture(t)
	tri := geometry.Triangle()

	err := f.r.Geometry(&tri).
		Shader("lit.vs", "lit.fs").
		Param("modelMat", shaders.Mat4(gglm.NewMat4Diag(1))).
		Param("color", shaders.Vec4(gglm.NewVec4(1, 0, 0, 1))).
		Render()
	require.NoError(t, err)

	require.Len(t, f.rec.Draws, 1)
	d := f.rec.Draws[0]
	assert.False(t, d.Indexed)
	assert.Equal(t, int32(3), d.Count)
	assert.Equal(t, device.Topology_Triangles, d.Topology)
	assert.True(t, d.DepthTest)
	assert.NotZero(t, d.VertexArray)
	assert.NotZero(t, d.Program)

	assert.Equal(t, []any{renderer.DebugScope}, f.rec.Named("PushDebugGroup")[0].Args)
	assert.Zero(t, f.rec.DebugDepth())

	// Buffers are unbound after the draw
	binds := f.rec.Named("BindVertexArray")
	assert.Equal(t, []any{device.VertexArrayHandle(0)}, binds[len(binds)-1].Args)

	stats := f.r.Stats()
	assert.Equal(t, uint64(1), stats.DrawCalls)
	assert.Equal(t, uint64(1), stats.Commands)
	assert.Equal(t, 1, f.cache.Len())
}

type slotTexture struct {
	slots []uint32
}

func (s *slotTexture) Bind(slot uint32) error {
	s.slots = append(s.slots, slot)
	return nil
}

func TestFailedRenderReleasesSamplerSlots(t *testing.T) {

	f := newFixture(t)
	tex := &slotTexture{}

	for i := 0; i < 3; i++ {
		err := f.r.Geometry(&geometry.Geometry{}).
			Shader("lit.vs", "tex.fs").
			Param("tex", shaders.Tex(tex)).
			Render()
		assert.ErrorIs(t, err, buffers.ErrEmptyGeometry)
	}

	prog := f.mgr.Current()
	require.NotNil(t, prog)
	assert.False(t, prog.Bound())

	tri := geometry.Triangle()
	err := f.r.Geometry(&tri).Shader("lit.vs", "tex.fs").Param("tex", shaders.Tex(tex)).Render()
	require.NoError(t, err)

	v, ok := f.rec.UniformValue(f.rec.Draws[0].Program, "tex")
	require.True(t, ok)
	assert.Equal(t, int32(0), v)
	assert.Equal(t, []uint32{0, 0, 0, 0}, tex.slots)
}

func TestRenderIndexedAndOwned(t *testing.T) {

	f := newFixture(t)
	pyramid := geometry.WirePyramid()

	require.NoError(t, f.r.Owned(pyramid).Shader("lit.vs", "lit.fs").State(gpustate.NewState().NoDepth()).Render())
	require.NoError(t, f.r.Owned(geometry.WirePyramid()).Shader("lit.vs", "lit.fs").Render())

	require.Len(t, f.rec.Draws, 2)
	assert.True(t, f.rec.Draws[0].Indexed)
	assert.Equal(t, int32(16), f.rec.Draws[0].Count)
	assert.Equal(t, device.Topology_Lines, f.rec.Draws[0].Topology)
	assert.False(t, f.rec.Draws[0].DepthTest)
	assert.True(t, f.rec.Draws[1].DepthTest)

	// Same content, same buffers
	assert.Equal(t, 1, f.cache.Len())
}

func TestStoreParamsApplied(t *testing.T) {

	f := newFixture(t)
	f.store.Set("time", shaders.Float(42))
	f.store.Set("unused", shaders.Float(1))

	tri := geometry.Triangle()
	require.NoError(t, f.r.Geometry(&tri).Shader("lit.vs", "lit.fs").Render())

	v, ok := f.rec.UniformValue(f.rec.Draws[0].Program, "time")
	require.True(t, ok)
	assert.Equal(t, float32(42), v)
}

func TestStateReusableAcrossCommands(t *testing.T) {

	f := newFixture(t)
	state := gpustate.NewState().AlphaBlend()
	tri := geometry.Triangle()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.r.Geometry(&tri).Shader("lit.vs", "lit.fs").State(state).Render())
	}

	assert.False(t, state.Bound())
	assert.Equal(t, 1, f.rec.Count("BlendFunc"))
	assert.Len(t, f.rec.Draws, 3)
}

func TestBrokenShaderIsSkipped(t *testing.T) {

	f := newFixture(t)
	tri := geometry.Triangle()

	err := f.r.Geometry(&tri).Shader("lit.vs", "broken.fs").TryParam("color", shaders.Float(1)).Render()
	require.NoError(t, err)
	assert.Empty(t, f.rec.Draws)
	assert.Equal(t, uint64(1), f.r.Stats().Skipped)
	assert.Zero(t, f.rec.DebugDepth())
}

func TestUnknownShader(t *testing.T) {

	f := newFixture(t)
	tri := geometry.Triangle()

	err := f.r.Geometry(&tri).Shader("lit.vs", "missing.fs").Render()
	assert.ErrorIs(t, err, errUnknownShader)
}

func TestMaterial(t *testing.T) {

	f := newFixture(t)
	prog := f.mgr.New("lit", litVS, litFS)

	mat := materials.NewMaterial("red", prog)
	mat.Settings.Set(materials.MaterialSettings_HasModelMtx)
	mat.SetParam("color", shaders.Vec4(gglm.NewVec4(1, 0, 0, 1)))
	mat.SetModelMat(gglm.NewMat4Diag(2))
	mat.State.NoCull()

	tri := geometry.Triangle()
	require.NoError(t, f.r.Geometry(&tri).Material(mat).Render())

	d := f.rec.Draws[0]
	v, ok := f.rec.UniformValue(d.Program, "modelMat")
	require.True(t, ok)
	assert.Equal(t, gglm.NewMat4Diag(2), v)
	assert.False(t, f.rec.IsEnabled(device.Capability_CullFace))

	err := f.r.Geometry(&tri).Material(&materials.Material{Name: "empty"}).Render()
	assert.ErrorIs(t, err, renderer.ErrMissingPipelineInput)
}
