package gldevice

import (
	"github.com/bloeys/nrender/assert"
	"github.com/bloeys/nrender/device"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func capabilityToGL(c device.Capability) uint32 {
	switch c {
	case device.Capability_Blend:
		return gl.BLEND
	case device.Capability_DepthTest:
		return gl.DEPTH_TEST
	case device.Capability_CullFace:
		return gl.CULL_FACE
	case device.Capability_Multisample:
		return gl.MULTISAMPLE
	}

	assert.T(false, "Unexpected Capability value '%v'", c)
	return 0
}

func blendFactorToGL(f device.BlendFactor) uint32 {
	switch f {
	case device.BlendFactor_Zero:
		return gl.ZERO
	case device.BlendFactor_One:
		return gl.ONE
	case device.BlendFactor_SrcColor:
		return gl.SRC_COLOR
	case device.BlendFactor_OneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case device.BlendFactor_DstColor:
		return gl.DST_COLOR
	case device.BlendFactor_OneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case device.BlendFactor_SrcAlpha:
		return gl.SRC_ALPHA
	case device.BlendFactor_OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case device.BlendFactor_DstAlpha:
		return gl.DST_ALPHA
	case device.BlendFactor_OneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case device.BlendFactor_ConstantColor:
		return gl.CONSTANT_COLOR
	case device.BlendFactor_OneMinusConstantColor:
		return gl.ONE_MINUS_CONSTANT_COLOR
	case device.BlendFactor_ConstantAlpha:
		return gl.CONSTANT_ALPHA
	case device.BlendFactor_OneMinusConstantAlpha:
		return gl.ONE_MINUS_CONSTANT_ALPHA
	case device.BlendFactor_SrcAlphaSaturate:
		return gl.SRC_ALPHA_SATURATE
	case device.BlendFactor_Src1Color:
		return gl.SRC1_COLOR
	case device.BlendFactor_OneMinusSrc1Color:
		return gl.ONE_MINUS_SRC1_COLOR
	case device.BlendFactor_Src1Alpha:
		return gl.SRC1_ALPHA
	case device.BlendFactor_OneMinusSrc1Alpha:
		return gl.ONE_MINUS_SRC1_ALPHA
	}

	assert.T(false, "Unexpected BlendFactor value '%v'", f)
	return 0
}

func blendEquationToGL(eq device.BlendEquation) uint32 {
	switch eq {
	case device.BlendEquation_Add:
		return gl.FUNC_ADD
	case device.BlendEquation_Subtract:
		return gl.FUNC_SUBTRACT
	case device.BlendEquation_ReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case device.BlendEquation_Min:
		return gl.MIN
	case device.BlendEquation_Max:
		return gl.MAX
	}

	assert.T(false, "Unexpected BlendEquation value '%v'", eq)
	return 0
}

func faceToGL(f device.Face) uint32 {
	switch f {
	case device.Face_Back:
		return gl.BACK
	case device.Face_Front:
		return gl.FRONT
	case device.Face_FrontAndBack:
		return gl.FRONT_AND_BACK
	}

	assert.T(false, "Unexpected Face value '%v'", f)
	return 0
}

func polygonModeToGL(m device.PolygonMode) uint32 {
	switch m {
	case device.PolygonMode_Fill:
		return gl.FILL
	case device.PolygonMode_Line:
		return gl.LINE
	}

	assert.T(false, "Unexpected PolygonMode value '%v'", m)
	return 0
}

func compareFuncToGL(f device.CompareFunc) uint32 {
	switch f {
	case device.CompareFunc_Less:
		return gl.LESS
	case device.CompareFunc_LessEqual:
		return gl.LEQUAL
	case device.CompareFunc_Greater:
		return gl.GREATER
	case device.CompareFunc_GreaterEqual:
		return gl.GEQUAL
	case device.CompareFunc_Equal:
		return gl.EQUAL
	case device.CompareFunc_Always:
		return gl.ALWAYS
	}

	assert.T(false, "Unexpected CompareFunc value '%v'", f)
	return 0
}

func topologyToGL(t device.Topology) uint32 {
	switch t {
	case device.Topology_Triangles:
		return gl.TRIANGLES
	case device.Topology_Lines:
		return gl.LINES
	}

	assert.T(false, "Unexpected Topology value '%v'", t)
	return 0
}

// Full docs for buffer usage can be found here: https://registry.khronos.org/OpenGL-Refpages/gl4/html/glBufferData.xhtml
func bufUsageToGL(b device.BufUsage) uint32 {
	switch b {
	case device.BufUsage_Static_Draw:
		return gl.STATIC_DRAW
	case device.BufUsage_Dynamic_Draw:
		return gl.DYNAMIC_DRAW
	case device.BufUsage_Stream_Draw:
		return gl.STREAM_DRAW
	}

	assert.T(false, "Unexpected BufUsage value '%v'", b)
	return 0
}

// textureFormatToGL returns the internal format, pixel format and pixel type
func textureFormatToGL(f device.TextureFormat) (internalFormat int32, format uint32, xtype uint32) {
	switch f {
	case device.TextureFormat_RGBA8:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
	case device.TextureFormat_SRGBA8:
		return gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE
	case device.TextureFormat_RGBA32F:
		return gl.RGBA32F, gl.RGBA, gl.FLOAT
	case device.TextureFormat_Depth32:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT
	}

	assert.T(false, "Unexpected TextureFormat value '%v'", f)
	return 0, 0, 0
}

func textureFilterToGL(f device.TextureFilter) int32 {
	switch f {
	case device.TextureFilter_Linear:
		return gl.LINEAR
	case device.TextureFilter_Nearest:
		return gl.NEAREST
	case device.TextureFilter_LinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	}

	assert.T(false, "Unexpected TextureFilter value '%v'", f)
	return 0
}

func attachmentToGL(a device.Attachment) uint32 {
	switch a {
	case device.Attachment_Color0:
		return gl.COLOR_ATTACHMENT0
	case device.Attachment_Depth:
		return gl.DEPTH_ATTACHMENT
	}

	assert.T(false, "Unexpected Attachment value '%v'", a)
	return 0
}

func clearMaskToGL(m device.ClearMask) uint32 {

	var mask uint32
	if m.Has(device.ClearMask_Color) {
		mask |= gl.COLOR_BUFFER_BIT
	}

	if m.Has(device.ClearMask_Depth) {
		mask |= gl.DEPTH_BUFFER_BIT
	}

	return mask
}

func shaderStageToGL(s device.ShaderStage) uint32 {
	switch s {
	case device.ShaderStage_Vertex:
		return gl.VERTEX_SHADER
	case device.ShaderStage_Fragment:
		return gl.FRAGMENT_SHADER
	}

	assert.T(false, "Unexpected ShaderStage value '%v'", s)
	return 0
}
