package store_test

import (
	"testing"

	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device/devicetest"
	"github.com/bloeys/nrender/shaders"
	"github.com/bloeys/nrender/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vs = `in vec3 IN_POSITION;
uniform float time;
`

const fs = `uniform vec4 ambient;
`

func TestSetAndGet(t *testing.T) {

	s := store.New()
	s.Set("time", shaders.Float(1))
	s.Set("ambient", shaders.Color(colors.White))
	s.Set("time", shaders.Float(2))

	p, ok := s.Get("time")
	require.True(t, ok)
	assert.Equal(t, shaders.Float(2), p.Value)
	assert.True(t, p.Annotations.Has(store.Annotation_Gui|store.Annotation_Shader))
	assert.Equal(t, []string{"time", "ambient"}, s.Names())

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestBounded(t *testing.T) {

	s := store.New()
	p, err := s.SetBounded("exposure", shaders.Float(5), 0, 2)
	require.NoError(t, err)
	assert.Equal(t, shaders.Float(2), p.Value)
	assert.True(t, p.Annotations.Has(store.Annotation_Bounded))

	s.Set("exposure", shaders.Float(-1))
	assert.Equal(t, shaders.Float(0), p.Value)

	p, err = s.SetBounded("steps", shaders.Int(20), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, shaders.Int(10), p.Value)

	_, err = s.SetBounded("tint", shaders.Color(colors.Red), 0, 1)
	assert.ErrorIs(t, err, store.ErrBoundedColor)
}

func TestApply(t *testing.T) {

	rec := devicetest.NewRecorder()
	prog := shaders.NewManager(rec, shaders.Options{}).New("p", vs, fs)

	s := store.New()
	s.Set("time", shaders.Float(3))
	s.Set("not_declared", shaders.Float(1))
	s.Set("ambient", shaders.Color(colors.Red))
	s.SetText("scene", "demo")
	s.Annotate("ambient", store.Annotation_Gui)

	require.NoError(t, s.Apply(prog))

	v, ok := rec.UniformValue(rec.BoundProgram(), "time")
	require.True(t, ok)
	assert.Equal(t, float32(3), v)

	_, ok = rec.UniformValue(rec.BoundProgram(), "ambient")
	assert.False(t, ok)
}
