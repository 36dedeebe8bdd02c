package device

import "fmt"

type Capability int32

const (
	Capability_Unknown Capability = iota
	Capability_Blend
	Capability_DepthTest
	Capability_CullFace
	Capability_Multisample
)

func (c Capability) String() string {
	switch c {
	case Capability_Blend:
		return "Blend"
	case Capability_DepthTest:
		return "DepthTest"
	case Capability_CullFace:
		return "CullFace"
	case Capability_Multisample:
		return "Multisample"
	default:
		return fmt.Sprintf("Capability(%d)", int32(c))
	}
}

type BlendFactor int32

const (
	BlendFactor_Zero BlendFactor = iota
	BlendFactor_One
	BlendFactor_SrcColor
	BlendFactor_OneMinusSrcColor
	BlendFactor_DstColor
	BlendFactor_OneMinusDstColor
	BlendFactor_SrcAlpha
	BlendFactor_OneMinusSrcAlpha
	BlendFactor_DstAlpha
	BlendFactor_OneMinusDstAlpha
	BlendFactor_ConstantColor
	BlendFactor_OneMinusConstantColor
	BlendFactor_ConstantAlpha
	BlendFactor_OneMinusConstantAlpha
	BlendFactor_SrcAlphaSaturate
	BlendFactor_Src1Color
	BlendFactor_OneMinusSrc1Color
	BlendFactor_Src1Alpha
	BlendFactor_OneMinusSrc1Alpha
)

type BlendEquation int32

const (
	BlendEquation_Add BlendEquation = iota
	BlendEquation_Subtract
	BlendEquation_ReverseSubtract
	BlendEquation_Min
	BlendEquation_Max
)

type Face int32

const (
	Face_Back Face = iota
	Face_Front
	Face_FrontAndBack
)

type PolygonMode int32

const (
	PolygonMode_Fill PolygonMode = iota
	PolygonMode_Line
)

type CompareFunc int32

const (
	CompareFunc_Less CompareFunc = iota
	CompareFunc_LessEqual
	CompareFunc_Greater
	CompareFunc_GreaterEqual
	CompareFunc_Equal
	CompareFunc_Always
)

type ClipOrigin int32

const (
	ClipOrigin_LowerLeft ClipOrigin = iota
	ClipOrigin_UpperLeft
)

type ClipDepth int32

const (
	ClipDepth_NegativeOneToOne ClipDepth = iota
	ClipDepth_ZeroToOne
)

type Topology int32

const (
	Topology_Triangles Topology = iota
	Topology_Lines
)

func (t Topology) String() string {
	switch t {
	case Topology_Triangles:
		return "Triangles"
	case Topology_Lines:
		return "Lines"
	default:
		return fmt.Sprintf("Topology(%d)", int32(t))
	}
}

type BufUsage int32

const (
	BufUsage_Unknown BufUsage = iota

	//Buffer is set only once and used many times
	BufUsage_Static_Draw
	//Buffer is changed a lot and used many times
	BufUsage_Dynamic_Draw
	//Buffer is set only once and used by the GPU at most a few times
	BufUsage_Stream_Draw
)

type TextureFormat int32

const (
	TextureFormat_Unknown TextureFormat = iota
	TextureFormat_RGBA8
	TextureFormat_SRGBA8
	TextureFormat_RGBA32F
	TextureFormat_Depth32
)

func (f TextureFormat) IsColorFormat() bool {
	return f == TextureFormat_RGBA8 || f == TextureFormat_SRGBA8 || f == TextureFormat_RGBA32F
}

func (f TextureFormat) IsDepthFormat() bool {
	return f == TextureFormat_Depth32
}

type TextureFilter int32

const (
	TextureFilter_Linear TextureFilter = iota
	TextureFilter_Nearest
	TextureFilter_LinearMipmapLinear
)

type Attachment int32

const (
	Attachment_Color0 Attachment = iota
	Attachment_Depth
)

type ClearMask uint32

const (
	ClearMask_Color ClearMask = 1 << iota
	ClearMask_Depth
)

func (m ClearMask) Has(flags ClearMask) bool {
	return m&flags == flags
}

type ObjectKind int32

const (
	ObjectKind_Program ObjectKind = iota
	ObjectKind_Buffer
	ObjectKind_VertexArray
	ObjectKind_Texture
	ObjectKind_Framebuffer
)
