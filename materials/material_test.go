package materials_test

import (
	"bytes"
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device/devicetest"
	"github.com/bloeys/nrender/logging"
	"github.com/bloeys/nrender/materials"
	"github.com/bloeys/nrender/shaders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vs = `#version 410
in vec3 IN_POSITION;
uniform mat4 modelMat;
void main() { gl_Position = modelMat * vec4(IN_POSITION, 1); }
`

const fs = `#version 410
uniform vec4 color;
out vec4 fragColor;
void main() { fragColor = color; }
`

func newProgram(t *testing.T) (*devicetest.Recorder, *shaders.Program) {
	t.Helper()

	logging.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { logging.SetOutput(nil) })

	rec := devicetest.NewRecorder()
	return rec, shaders.NewManager(rec, shaders.Options{}).New("mat", vs, fs)
}

func TestSettings(t *testing.T) {

	var s materials.MaterialSettings
	assert.False(t, s.Has(materials.MaterialSettings_HasModelMtx))

	s.Set(materials.MaterialSettings_HasModelMtx)
	assert.True(t, s.Has(materials.MaterialSettings_HasModelMtx))

	s.Remove(materials.MaterialSettings_HasModelMtx)
	assert.False(t, s.Has(materials.MaterialSettings_HasModelMtx))
}

func TestNewMaterial(t *testing.T) {

	_, prog := newProgram(t)

	a := materials.NewMaterial("a", prog)
	b := materials.NewMaterial("b", prog)
	assert.NotEqual(t, a.Id, b.Id)
	assert.Same(t, prog, a.Program)
	require.NotNil(t, a.State)
	assert.True(t, a.State.DepthTest)
}

func TestParams(t *testing.T) {

	_, prog := newProgram(t)
	m := materials.NewMaterial("m", prog)

	m.SetParam("color", shaders.Color(colors.Red))
	m.SetParam("color", shaders.Color(colors.Blue))

	v, ok := m.Param("color")
	require.True(t, ok)
	assert.Equal(t, shaders.Color(colors.Blue), v)

	_, ok = m.Param("missing")
	assert.False(t, ok)
}

func TestModelMatNeedsSetting(t *testing.T) {

	_, prog := newProgram(t)
	m := materials.NewMaterial("m", prog)

	m.SetModelMat(gglm.NewMat4Diag(2))
	_, ok := m.Param("modelMat")
	assert.False(t, ok)

	m.Settings.Set(materials.MaterialSettings_HasModelMtx)
	m.SetModelMat(gglm.NewMat4Diag(2))
	v, ok := m.Param("modelMat")
	require.True(t, ok)
	assert.Equal(t, shaders.Mat4(gglm.NewMat4Diag(2)), v)
}

func TestApply(t *testing.T) {

	rec, prog := newProgram(t)
	m := materials.NewMaterial("m", prog)
	m.Settings.Set(materials.MaterialSettings_HasModelMtx)

	m.SetModelMat(gglm.NewMat4Diag(1))
	m.SetParam("color", shaders.Color(colors.Green))
	m.SetParam("undeclared", shaders.Float(3))

	require.NoError(t, m.Apply())

	loc, err := prog.AttribLocation(shaders.AttribPosition)
	require.NoError(t, err)
	assert.Equal(t, int32(0), loc)

	v, ok := rec.UniformValue(rec.BoundProgram(), "color")
	require.True(t, ok)
	assert.Equal(t, gglm.Vec4{Data: [4]float32{0, 1, 0, 1}}, v)

	_, ok = rec.UniformValue(rec.BoundProgram(), "modelMat")
	assert.True(t, ok)
}
