package gpustate_test

import (
	"testing"

	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/device/devicetest"
	"github.com/bloeys/nrender/gpustate"
	"github.com/stretchr/testify/assert"
)

func TestBlendFuncElision(t *testing.T) {

	rec := devicetest.NewRecorder()
	c := gpustate.NewCache(rec, gpustate.Options{})

	c.BlendFunc(device.BlendFactor_SrcAlpha, device.BlendFactor_OneMinusSrcAlpha)
	c.BlendFunc(device.BlendFactor_SrcAlpha, device.BlendFactor_OneMinusSrcAlpha)
	assert.Equal(t, 1, rec.Count("BlendFunc"))

	c.BlendFunc(device.BlendFactor_One, device.BlendFactor_OneMinusSrcAlpha)
	assert.Equal(t, 2, rec.Count("BlendFunc"))

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Forwarded)
	assert.Equal(t, uint64(1), stats.Elided)
}

func TestCallKindsAreIndependent(t *testing.T) {

	rec := devicetest.NewRecorder()
	c := gpustate.NewCache(rec, gpustate.Options{})

	c.BlendColor(colors.Red)
	c.PolygonMode(device.Face_FrontAndBack, device.PolygonMode_Line)
	c.BlendColor(colors.Red)
	c.PolygonMode(device.Face_FrontAndBack, device.PolygonMode_Line)
	c.BlendColor(colors.Blue)

	assert.Equal(t, 2, rec.Count("BlendColor"))
	assert.Equal(t, 1, rec.Count("PolygonMode"))
}

func TestEnableDisable(t *testing.T) {

	rec := devicetest.NewRecorder()
	c := gpustate.NewCache(rec, gpustate.Options{})

	c.Enable(device.Capability_Blend)
	c.Enable(device.Capability_Blend)
	assert.Equal(t, 1, rec.Count("Enable"))
	assert.True(t, rec.IsEnabled(device.Capability_Blend))

	c.Disable(device.Capability_Blend)
	c.Disable(device.Capability_Blend)
	assert.Equal(t, 1, rec.Count("Disable"))
	assert.False(t, rec.IsEnabled(device.Capability_Blend))
}

func TestClear(t *testing.T) {

	rec := devicetest.NewRecorder()
	c := gpustate.NewCache(rec, gpustate.Options{})

	c.DepthFunc(device.CompareFunc_Less)
	c.Disable(device.Capability_CullFace)
	c.Clear()

	// Someone else may have changed both, so they must be resubmitted
	c.DepthFunc(device.CompareFunc_Less)
	c.Disable(device.Capability_CullFace)

	assert.Equal(t, 2, rec.Count("DepthFunc"))
	assert.Equal(t, 2, rec.Count("Disable"))
}
