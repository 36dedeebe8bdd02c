// Package device is the boundary between the renderer and the graphics API.
//
// Everything above this package talks to a Device. gldevice implements it on OpenGL,
// devicetest implements it in memory for tests.
package device

import (
	"errors"

	"github.com/bloeys/gglm/gglm"
)

var (
	// ErrResourceCreation is returned when the device rejects creating a buffer, program,
	// texture or framebuffer
	ErrResourceCreation = errors.New("device resource creation failed")

	// ErrIncompleteFramebuffer is returned when the device reports a framebuffer
	// attachment configuration it can not render to
	ErrIncompleteFramebuffer = errors.New("framebuffer is not complete")
)

type (
	ProgramHandle     uint32
	BufferHandle      uint32
	VertexArrayHandle uint32
	TextureHandle     uint32
	FramebufferHandle uint32
)

// DefaultFramebuffer is the display surface
const DefaultFramebuffer FramebufferHandle = 0

type TextureDesc struct {
	Width     uint32
	Height    uint32
	Format    TextureFormat
	MinFilter TextureFilter
	MagFilter TextureFilter
	// Repeat wraps texture coordinates instead of clamping them to the edge
	Repeat bool
	// Mipmaps generates the mip chain after upload
	Mipmaps bool
}

func (d *TextureDesc) AspectRatio() float32 {
	return float32(d.Width) / float32(d.Height)
}

type StateDevice interface {
	Enable(c Capability)
	Disable(c Capability)
	BlendFunc(src, dst BlendFactor)
	BlendEquation(eq BlendEquation)
	BlendColor(r, g, b, a float32)
	DepthMask(write bool)
	DepthFunc(f CompareFunc)
	CullFace(f Face)
	PolygonMode(f Face, mode PolygonMode)
	ClipControl(origin ClipOrigin, depth ClipDepth)
}

type ProgramDevice interface {
	// CreateProgram compiles and links a vertex and fragment stage.
	// Compile and link failures are returned as a *CompileError.
	CreateProgram(vertexSrc, fragmentSrc string) (ProgramHandle, error)
	DeleteProgram(p ProgramHandle)
	UseProgram(p ProgramHandle)

	// AttribLocation and UniformLocation return -1 when the name is not declared
	AttribLocation(p ProgramHandle, name string) int32
	UniformLocation(p ProgramHandle, name string) int32

	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, v *gglm.Vec2)
	Uniform3f(loc int32, v *gglm.Vec3)
	Uniform4f(loc int32, v *gglm.Vec4)
	UniformMat2(loc int32, m *gglm.Mat2)
	UniformMat3(loc int32, m *gglm.Mat3)
	UniformMat4(loc int32, m *gglm.Mat4)
}

type BufferDevice interface {
	CreateVertexArray() (VertexArrayHandle, error)
	BindVertexArray(va VertexArrayHandle)
	DeleteVertexArray(va VertexArrayHandle)

	// CreateVertexBuffer uploads data into a new array buffer and leaves it bound
	CreateVertexBuffer(data []float32, usage BufUsage) (BufferHandle, error)
	// CreateIndexBuffer uploads data into a new element buffer bound to the current vertex array
	CreateIndexBuffer(data []uint32, usage BufUsage) (BufferHandle, error)
	DeleteBuffer(b BufferHandle)

	// VertexAttribFloats enables attribute loc and points it at the bound array buffer
	// as tightly packed groups of compCount floats
	VertexAttribFloats(loc uint32, compCount int32, strideBytes int32)
}

type TextureDevice interface {
	// CreateTexture creates a 2D texture. pixels may be nil for render targets,
	// otherwise it holds tightly packed RGBA8 rows.
	CreateTexture(desc TextureDesc, pixels []byte) (TextureHandle, error)
	BindTexture(slot uint32, t TextureHandle)
	DeleteTexture(t TextureHandle)
}

type FramebufferDevice interface {
	CreateFramebuffer() (FramebufferHandle, error)
	// AttachTexture attaches t to fb and returns ErrIncompleteFramebuffer if the
	// device can not render to the result
	AttachTexture(fb FramebufferHandle, a Attachment, t TextureHandle) error
	BindFramebuffer(fb FramebufferHandle)
	DeleteFramebuffer(fb FramebufferHandle)

	Viewport(x, y int32, width, height uint32)
	ClearColor(r, g, b, a float32)
	ClearDepth(d float32)
	Clear(mask ClearMask)

	// BlitToDefault copies the color of fb scaled onto the display surface
	BlitToDefault(fb FramebufferHandle, srcWidth, srcHeight, dstWidth, dstHeight uint32)
}

type DrawDevice interface {
	DrawArrays(t Topology, first int32, count int32)
	DrawElements(t Topology, count int32)
}

type DebugDevice interface {
	PushDebugGroup(name string)
	PopDebugGroup()
	ObjectLabel(kind ObjectKind, handle uint32, name string)
}

type Device interface {
	StateDevice
	ProgramDevice
	BufferDevice
	TextureDevice
	FramebufferDevice
	DrawDevice
	DebugDevice
}
