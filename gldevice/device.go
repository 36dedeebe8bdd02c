// Package gldevice implements device.Device on OpenGL 4.1 core.
//
// All methods must be called on the thread the GL context is current on.
// GL 4.1 has no clip control, debug groups or object labels, so those calls do nothing.
package gldevice

import (
	"fmt"
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ device.Device = &GL{}

type GL struct {
	// hasColor tracks framebuffers with a color attachment, which decides their draw buffer
	hasColor map[device.FramebufferHandle]bool
}

// New loads the GL function pointers. A GL context must be current.
func New() (*GL, error) {

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to init OpenGL: %w", err)
	}

	logging.InfoLog.Printf("OpenGL version: %s, renderer: %s\n", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	return &GL{
		hasColor: map[device.FramebufferHandle]bool{},
	}, nil
}

/*
	State
*/

func (d *GL) Enable(c device.Capability) {
	gl.Enable(capabilityToGL(c))
}

func (d *GL) Disable(c device.Capability) {
	gl.Disable(capabilityToGL(c))
}

func (d *GL) BlendFunc(src, dst device.BlendFactor) {
	gl.BlendFunc(blendFactorToGL(src), blendFactorToGL(dst))
}

func (d *GL) BlendEquation(eq device.BlendEquation) {
	gl.BlendEquation(blendEquationToGL(eq))
}

func (d *GL) BlendColor(r, g, b, a float32) {
	gl.BlendColor(r, g, b, a)
}

func (d *GL) DepthMask(write bool) {
	gl.DepthMask(write)
}

func (d *GL) DepthFunc(f device.CompareFunc) {
	gl.DepthFunc(compareFuncToGL(f))
}

func (d *GL) CullFace(f device.Face) {
	gl.CullFace(faceToGL(f))
}

func (d *GL) PolygonMode(f device.Face, mode device.PolygonMode) {
	gl.PolygonMode(faceToGL(f), polygonModeToGL(mode))
}

// ClipControl needs GL 4.5 or ARB_clip_control
func (d *GL) ClipControl(origin device.ClipOrigin, depth device.ClipDepth) {
}

/*
	Programs
*/

func (d *GL) CreateProgram(vertexSrc, fragmentSrc string) (device.ProgramHandle, error) {

	vs, err := compileShader(vertexSrc, device.ShaderStage_Vertex)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSrc, device.ShaderStage_Fragment)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	progId := gl.CreateProgram()
	if progId == 0 {
		return 0, fmt.Errorf("%w: failed to create OpenGL program. OpenGL Error=%d", device.ErrResourceCreation, gl.GetError())
	}

	gl.AttachShader(progId, vs)
	gl.AttachShader(progId, fs)
	gl.LinkProgram(progId)

	if err := getProgramLinkErrors(progId); err != nil {
		gl.DeleteProgram(progId)
		return 0, err
	}

	return device.ProgramHandle(progId), nil
}

func compileShader(src string, stage device.ShaderStage) (uint32, error) {

	shaderId := gl.CreateShader(shaderStageToGL(stage))
	if shaderId == 0 {
		return 0, fmt.Errorf("%w: failed to create OpenGL shader. OpenGL Error=%d", device.ErrResourceCreation, gl.GetError())
	}

	//Load shader source and compile
	shaderCStr, shaderFree := gl.Strs(src + "\x00")
	defer shaderFree()
	gl.ShaderSource(shaderId, 1, shaderCStr, nil)

	gl.CompileShader(shaderId)
	if err := getShaderCompileErrors(shaderId, stage); err != nil {
		gl.DeleteShader(shaderId)
		return 0, err
	}

	return shaderId, nil
}

func getShaderCompileErrors(shaderId uint32, stage device.ShaderStage) error {

	var compiledSuccessfully int32
	gl.GetShaderiv(shaderId, gl.COMPILE_STATUS, &compiledSuccessfully)
	if compiledSuccessfully == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetShaderiv(shaderId, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength+1)))
	gl.GetShaderInfoLog(shaderId, logLength, nil, log)

	return &device.CompileError{Stage: stage, Log: gl.GoStr(log)}
}

func getProgramLinkErrors(progId uint32) error {

	var linkedSuccessfully int32
	gl.GetProgramiv(progId, gl.LINK_STATUS, &linkedSuccessfully)
	if linkedSuccessfully == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetProgramiv(progId, gl.INFO_LOG_LENGTH, &logLength)

	log := gl.Str(strings.Repeat("\x00", int(logLength+1)))
	gl.GetProgramInfoLog(progId, logLength, nil, log)

	return &device.CompileError{Stage: device.ShaderStage_Link, Log: gl.GoStr(log)}
}

func (d *GL) DeleteProgram(p device.ProgramHandle) {
	gl.DeleteProgram(uint32(p))
}

func (d *GL) UseProgram(p device.ProgramHandle) {
	gl.UseProgram(uint32(p))
}

func (d *GL) AttribLocation(p device.ProgramHandle, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *GL) UniformLocation(p device.ProgramHandle, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *GL) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *GL) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *GL) Uniform2f(loc int32, v *gglm.Vec2) {
	gl.Uniform2fv(loc, 1, &v.Data[0])
}

func (d *GL) Uniform3f(loc int32, v *gglm.Vec3) {
	gl.Uniform3fv(loc, 1, &v.Data[0])
}

func (d *GL) Uniform4f(loc int32, v *gglm.Vec4) {
	gl.Uniform4fv(loc, 1, &v.Data[0])
}

func (d *GL) UniformMat2(loc int32, m *gglm.Mat2) {
	gl.UniformMatrix2fv(loc, 1, false, &m.Data[0][0])
}

func (d *GL) UniformMat3(loc int32, m *gglm.Mat3) {
	gl.UniformMatrix3fv(loc, 1, false, &m.Data[0][0])
}

func (d *GL) UniformMat4(loc int32, m *gglm.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m.Data[0][0])
}

/*
	Buffers
*/

func (d *GL) CreateVertexArray() (device.VertexArrayHandle, error) {

	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: failed to create OpenGL vertex array object. OpenGL Error=%d", device.ErrResourceCreation, gl.GetError())
	}

	return device.VertexArrayHandle(id), nil
}

func (d *GL) BindVertexArray(va device.VertexArrayHandle) {
	gl.BindVertexArray(uint32(va))
}

func (d *GL) DeleteVertexArray(va device.VertexArrayHandle) {
	id := uint32(va)
	gl.DeleteVertexArrays(1, &id)
}

func (d *GL) CreateVertexBuffer(data []float32, usage device.BufUsage) (device.BufferHandle, error) {

	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: failed to create OpenGL buffer. OpenGL Error=%d", device.ErrResourceCreation, gl.GetError())
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, id)

	sizeInBytes := len(data) * 4
	if sizeInBytes == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, gl.Ptr(nil), bufUsageToGL(usage))
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, sizeInBytes, gl.Ptr(&data[0]), bufUsageToGL(usage))
	}

	return device.BufferHandle(id), nil
}

func (d *GL) CreateIndexBuffer(data []uint32, usage device.BufUsage) (device.BufferHandle, error) {

	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: failed to create OpenGL index buffer. OpenGL Error=%d", device.ErrResourceCreation, gl.GetError())
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)

	sizeInBytes := len(data) * 4
	if sizeInBytes == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, gl.Ptr(nil), bufUsageToGL(usage))
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, sizeInBytes, gl.Ptr(&data[0]), bufUsageToGL(usage))
	}

	return device.BufferHandle(id), nil
}

func (d *GL) DeleteBuffer(b device.BufferHandle) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *GL) VertexAttribFloats(loc uint32, compCount int32, strideBytes int32) {
	gl.EnableVertexAttribArray(loc)
	gl.VertexAttribPointerWithOffset(loc, compCount, gl.FLOAT, false, strideBytes, 0)
}

/*
	Textures
*/

func (d *GL) CreateTexture(desc device.TextureDesc, pixels []byte) (device.TextureHandle, error) {

	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: failed to generate texture. OpenGL Error=%d", device.ErrResourceCreation, gl.GetError())
	}

	internalFormat, format, xtype := textureFormatToGL(desc.Format)

	// Uploaded image pixels are always RGBA8, whatever the internal format
	if pixels != nil {
		format, xtype = gl.RGBA, gl.UNSIGNED_BYTE
	}

	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	if len(pixels) > 0 {
		gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(desc.Width), int32(desc.Height), 0, format, xtype, gl.Ptr(&pixels[0]))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(desc.Width), int32(desc.Height), 0, format, xtype, nil)
	}

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, textureFilterToGL(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, textureFilterToGL(desc.MagFilter))

	wrap := int32(gl.CLAMP_TO_EDGE)
	if desc.Repeat {
		wrap = gl.REPEAT
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)

	if desc.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return device.TextureHandle(id), nil
}

func (d *GL) BindTexture(slot uint32, t device.TextureHandle) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *GL) DeleteTexture(t device.TextureHandle) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

/*
	Framebuffers
*/

func (d *GL) CreateFramebuffer() (device.FramebufferHandle, error) {

	var id uint32
	gl.GenFramebuffers(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("%w: failed to generate framebuffer. OpenGL Error=%d", device.ErrResourceCreation, gl.GetError())
	}

	return device.FramebufferHandle(id), nil
}

// AttachTexture expects fb to be bound
func (d *GL) AttachTexture(fb device.FramebufferHandle, a device.Attachment, t device.TextureHandle) error {

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachmentToGL(a), gl.TEXTURE_2D, uint32(t), 0)

	if a == device.Attachment_Color0 {
		d.hasColor[fb] = true
	}

	// Depth only targets have nothing to draw or read color into
	if d.hasColor[fb] {
		gl.DrawBuffer(gl.COLOR_ATTACHMENT0)
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status=0x%x", device.ErrIncompleteFramebuffer, status)
	}

	return nil
}

func (d *GL) BindFramebuffer(fb device.FramebufferHandle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *GL) DeleteFramebuffer(fb device.FramebufferHandle) {
	delete(d.hasColor, fb)
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}

func (d *GL) Viewport(x, y int32, width, height uint32) {
	gl.Viewport(x, y, int32(width), int32(height))
}

func (d *GL) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *GL) ClearDepth(depth float32) {
	gl.ClearDepth(float64(depth))
}

func (d *GL) Clear(mask device.ClearMask) {
	gl.Clear(clearMaskToGL(mask))
}

func (d *GL) BlitToDefault(fb device.FramebufferHandle, srcWidth, srcHeight, dstWidth, dstHeight uint32) {

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(fb))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, int32(srcWidth), int32(srcHeight), 0, 0, int32(dstWidth), int32(dstHeight), gl.COLOR_BUFFER_BIT, gl.LINEAR)
}

/*
	Draws
*/

func (d *GL) DrawArrays(t device.Topology, first int32, count int32) {
	gl.DrawArrays(topologyToGL(t), first, count)
}

func (d *GL) DrawElements(t device.Topology, count int32) {
	gl.DrawElementsWithOffset(topologyToGL(t), count, gl.UNSIGNED_INT, 0)
}

/*
	Debug
*/

// PushDebugGroup needs GL 4.3 or KHR_debug
func (d *GL) PushDebugGroup(name string) {
}

func (d *GL) PopDebugGroup() {
}

func (d *GL) ObjectLabel(kind device.ObjectKind, handle uint32, name string) {
}
