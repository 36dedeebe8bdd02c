package gpustate_test

import (
	"testing"

	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/device/devicetest"
	"github.com/bloeys/nrender/gpustate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateLockDiscipline(t *testing.T) {

	c := gpustate.NewCache(devicetest.NewRecorder(), gpustate.Options{})

	s := gpustate.NewState()
	_, err := s.Bind(c)
	require.NoError(t, err)

	_, err = s.Bind(c)
	assert.ErrorIs(t, err, gpustate.ErrStateLock)

	require.NoError(t, s.Unbind())
	assert.ErrorIs(t, s.Unbind(), gpustate.ErrStateLock)

	other := gpustate.NewState()
	assert.ErrorIs(t, other.Unbind(), gpustate.ErrStateLock)

	for i := 0; i < 2; i++ {
		_, err = s.Bind(c)
		require.NoError(t, err)
		require.NoError(t, s.Unbind())
	}
}

func TestBindingRelease(t *testing.T) {

	c := gpustate.NewCache(devicetest.NewRecorder(), gpustate.Options{})
	s := gpustate.NewState()

	b, err := s.Bind(c)
	require.NoError(t, err)
	assert.True(t, s.Bound())

	require.NoError(t, b.Release())
	assert.False(t, s.Bound())

	// A second release must not unbind a later bind of the same state
	_, err = s.Bind(c)
	require.NoError(t, err)
	require.NoError(t, b.Release())
	assert.True(t, s.Bound())
}

func TestStaleBindingAfterDirectUnbind(t *testing.T) {

	c := gpustate.NewCache(devicetest.NewRecorder(), gpustate.Options{})
	s := gpustate.NewState()

	stale, err := s.Bind(c)
	require.NoError(t, err)
	require.NoError(t, s.Unbind())

	current, err := s.Bind(c)
	require.NoError(t, err)

	// The first binding belongs to a bind that already ended
	require.NoError(t, stale.Release())
	assert.True(t, s.Bound())

	require.NoError(t, current.Release())
	assert.False(t, s.Bound())
	require.NoError(t, current.Release())
}

func TestDefaultState(t *testing.T) {

	rec := devicetest.NewRecorder()
	c := gpustate.NewCache(rec, gpustate.Options{})

	s := gpustate.NewState()
	_, err := s.Bind(c)
	require.NoError(t, err)

	assert.False(t, rec.IsEnabled(device.Capability_Blend))
	assert.True(t, rec.IsEnabled(device.Capability_DepthTest))
	assert.True(t, rec.IsEnabled(device.Capability_CullFace))
	assert.False(t, rec.IsEnabled(device.Capability_Multisample))

	assert.Equal(t, []any{device.CompareFunc_Less}, rec.Named("DepthFunc")[0].Args)
	assert.Equal(t, []any{device.Face_Back}, rec.Named("CullFace")[0].Args)
	assert.Equal(t, []any{device.Face_FrontAndBack, device.PolygonMode_Fill}, rec.Named("PolygonMode")[0].Args)
	assert.Zero(t, rec.Count("ClipControl"))
	assert.Zero(t, rec.Count("BlendFunc"))
}

func TestInverseDepthAndMultisampling(t *testing.T) {

	rec := devicetest.NewRecorder()
	c := gpustate.NewCache(rec, gpustate.Options{InverseDepth: true, Multisampling: true})

	s := gpustate.NewState()
	_, err := s.Bind(c)
	require.NoError(t, err)

	assert.True(t, rec.IsEnabled(device.Capability_Multisample))
	assert.Equal(t, []any{device.ClipOrigin_LowerLeft, device.ClipDepth_ZeroToOne}, rec.Named("ClipControl")[0].Args)
	assert.Equal(t, []any{device.CompareFunc_Greater}, rec.Named("DepthFunc")[0].Args)
}

func TestRebindOnlySubmitsChanges(t *testing.T) {

	rec := devicetest.NewRecorder()
	c := gpustate.NewCache(rec, gpustate.Options{})

	opaque := gpustate.NewState()
	blended := gpustate.NewState().AlphaBlend().NoDepthWrite().Wireframe()

	b, err := opaque.Bind(c)
	require.NoError(t, err)
	require.NoError(t, b.Release())

	rec.Reset()
	b, err = opaque.Bind(c)
	require.NoError(t, err)
	require.NoError(t, b.Release())
	assert.Empty(t, rec.Calls)

	b, err = blended.Bind(c)
	require.NoError(t, err)
	require.NoError(t, b.Release())

	assert.Equal(t, 1, rec.Count("Enable"))
	assert.Equal(t, 1, rec.Count("BlendFunc"))
	assert.Equal(t, 1, rec.Count("BlendEquation"))
	assert.Equal(t, 1, rec.Count("BlendColor"))
	assert.Equal(t, []any{false}, rec.Named("DepthMask")[0].Args)
	assert.Equal(t, []any{device.Face_FrontAndBack, device.PolygonMode_Line}, rec.Named("PolygonMode")[0].Args)
	assert.Zero(t, rec.Count("DepthFunc"))
	assert.Zero(t, rec.Count("CullFace"))
}

func TestBuilders(t *testing.T) {

	s := gpustate.NewState().NoDepth().NoCull().Blend(device.BlendFactor_One, device.BlendFactor_One, device.BlendEquation_Max, colors.White)
	assert.False(t, s.DepthTest)
	assert.False(t, s.Cull)
	assert.True(t, s.BlendEnabled)
	assert.Equal(t, device.BlendEquation_Max, s.BlendEquation)
	assert.Equal(t, colors.White, s.BlendColor)

	s.CullFront()
	assert.True(t, s.Cull)
	assert.Equal(t, device.Face_Front, s.CullFace)

	assert.False(t, s.WireframeOn)
	assert.True(t, s.Wireframe().WireframeOn)
}
