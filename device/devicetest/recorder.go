// Package devicetest provides an in-memory device.Device for tests.
//
// The Recorder keeps every call it receives, hands out increasing handles, and
// understands just enough GLSL to know which attributes and uniforms a program
// declares: lines of the form 'in <type> <name>;' in the vertex stage and
// 'uniform <type> <name>;' in either stage. A source containing '#error' fails to compile.
package devicetest

import (
	"fmt"
	"strings"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/device"
)

var _ device.Device = &Recorder{}

type Call struct {
	Name string
	Args []any
}

// Draw is a snapshot of the bindings and state at a draw call
type Draw struct {
	Topology    device.Topology
	Count       int32
	Indexed     bool
	Program     device.ProgramHandle
	VertexArray device.VertexArrayHandle
	Framebuffer device.FramebufferHandle
	DepthTest   bool
	Blend       bool
}

type program struct {
	vertexSrc   string
	fragmentSrc string
	attribs     map[string]int32
	uniforms    map[string]int32
	values      map[string]any
}

type Recorder struct {
	Calls []Call
	Draws []Draw

	// IncompleteFramebuffers makes every AttachTexture report an incomplete framebuffer
	IncompleteFramebuffers bool

	failNext map[string]int

	lastHandle uint32
	programs   map[device.ProgramHandle]*program
	textures   map[device.TextureHandle]device.TextureDesc
	fbos       map[device.FramebufferHandle]map[device.Attachment]device.TextureHandle
	live       map[device.ObjectKind]int
	enabled    map[device.Capability]bool

	boundProgram     device.ProgramHandle
	boundVertexArray device.VertexArrayHandle
	boundFramebuffer device.FramebufferHandle
	boundTextures    map[uint32]device.TextureHandle
	viewport         [4]int32
	debugDepth       int
	labels           map[string]string
}

func NewRecorder() *Recorder {
	return &Recorder{
		failNext:      map[string]int{},
		programs:      map[device.ProgramHandle]*program{},
		textures:      map[device.TextureHandle]device.TextureDesc{},
		fbos:          map[device.FramebufferHandle]map[device.Attachment]device.TextureHandle{},
		live:          map[device.ObjectKind]int{},
		enabled:       map[device.Capability]bool{},
		boundTextures: map[uint32]device.TextureHandle{},
		labels:        map[string]string{},
	}
}

// FailNext makes the next n calls of the named creation function (e.g. "CreateVertexBuffer") fail
func (r *Recorder) FailNext(name string, n int) {
	r.failNext[name] += n
}

// Count returns how many times the named function was called
func (r *Recorder) Count(name string) int {

	n := 0
	for i := 0; i < len(r.Calls); i++ {
		if r.Calls[i].Name == name {
			n++
		}
	}

	return n
}

// Named returns the calls of the named function in call order
func (r *Recorder) Named(name string) []Call {

	out := []Call{}
	for i := 0; i < len(r.Calls); i++ {
		if r.Calls[i].Name == name {
			out = append(out, r.Calls[i])
		}
	}

	return out
}

// Reset forgets recorded calls and draws but keeps objects alive
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

// Live returns the number of created and not yet deleted objects of a kind
func (r *Recorder) Live(kind device.ObjectKind) int {
	return r.live[kind]
}

func (r *Recorder) IsEnabled(c device.Capability) bool {
	return r.enabled[c]
}

func (r *Recorder) BoundProgram() device.ProgramHandle {
	return r.boundProgram
}

func (r *Recorder) BoundFramebuffer() device.FramebufferHandle {
	return r.boundFramebuffer
}

func (r *Recorder) BoundTexture(slot uint32) device.TextureHandle {
	return r.boundTextures[slot]
}

func (r *Recorder) LastViewport() [4]int32 {
	return r.viewport
}

func (r *Recorder) DebugDepth() int {
	return r.debugDepth
}

func (r *Recorder) Label(kind device.ObjectKind, handle uint32) string {
	return r.labels[labelKey(kind, handle)]
}

// Texture returns the description a texture was created with
func (r *Recorder) Texture(t device.TextureHandle) (device.TextureDesc, bool) {
	d, ok := r.textures[t]
	return d, ok
}

// FramebufferAttachment returns the texture attached to fb at a
func (r *Recorder) FramebufferAttachment(fb device.FramebufferHandle, a device.Attachment) device.TextureHandle {
	return r.fbos[fb][a]
}

// UniformValue returns the last value set for a uniform of program p
func (r *Recorder) UniformValue(p device.ProgramHandle, name string) (any, bool) {

	prog, ok := r.programs[p]
	if !ok {
		return nil, false
	}

	v, ok := prog.values[name]
	return v, ok
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) shouldFail(name string) bool {

	if r.failNext[name] == 0 {
		return false
	}

	r.failNext[name]--
	return true
}

func (r *Recorder) newHandle(kind device.ObjectKind) uint32 {
	r.lastHandle++
	r.live[kind]++
	return r.lastHandle
}

func labelKey(kind device.ObjectKind, handle uint32) string {
	return fmt.Sprintf("%d:%d", kind, handle)
}

/*
	State
*/

func (r *Recorder) Enable(c device.Capability) {
	r.record("Enable", c)
	r.enabled[c] = true
}

func (r *Recorder) Disable(c device.Capability) {
	r.record("Disable", c)
	r.enabled[c] = false
}

func (r *Recorder) BlendFunc(src, dst device.BlendFactor) {
	r.record("BlendFunc", src, dst)
}

func (r *Recorder) BlendEquation(eq device.BlendEquation) {
	r.record("BlendEquation", eq)
}

func (r *Recorder) BlendColor(red, green, blue, alpha float32) {
	r.record("BlendColor", red, green, blue, alpha)
}

func (r *Recorder) DepthMask(write bool) {
	r.record("DepthMask", write)
}

func (r *Recorder) DepthFunc(f device.CompareFunc) {
	r.record("DepthFunc", f)
}

func (r *Recorder) CullFace(f device.Face) {
	r.record("CullFace", f)
}

func (r *Recorder) PolygonMode(f device.Face, mode device.PolygonMode) {
	r.record("PolygonMode", f, mode)
}

func (r *Recorder) ClipControl(origin device.ClipOrigin, depth device.ClipDepth) {
	r.record("ClipControl", origin, depth)
}

/*
	Programs
*/

func (r *Recorder) CreateProgram(vertexSrc, fragmentSrc string) (device.ProgramHandle, error) {

	r.record("CreateProgram", vertexSrc, fragmentSrc)
	if r.shouldFail("CreateProgram") {
		return 0, fmt.Errorf("%w: CreateProgram", device.ErrResourceCreation)
	}

	if strings.Contains(vertexSrc, "#error") {
		return 0, &device.CompileError{Stage: device.ShaderStage_Vertex, Log: "0:1: '#error' : forced failure"}
	}

	if strings.Contains(fragmentSrc, "#error") {
		return 0, &device.CompileError{Stage: device.ShaderStage_Fragment, Log: "0:1: '#error' : forced failure"}
	}

	p := &program{
		vertexSrc:   vertexSrc,
		fragmentSrc: fragmentSrc,
		attribs:     map[string]int32{},
		uniforms:    map[string]int32{},
		values:      map[string]any{},
	}

	for _, name := range declarations(vertexSrc, "in") {
		p.attribs[name] = int32(len(p.attribs))
	}

	for _, name := range append(declarations(vertexSrc, "uniform"), declarations(fragmentSrc, "uniform")...) {
		if _, ok := p.uniforms[name]; !ok {
			p.uniforms[name] = int32(len(p.uniforms))
		}
	}

	h := device.ProgramHandle(r.newHandle(device.ObjectKind_Program))
	r.programs[h] = p
	return h, nil
}

// declarations returns the names declared with the given storage qualifier
func declarations(src, qualifier string) []string {

	names := []string{}
	for _, line := range strings.Split(src, "\n") {

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "layout") {
			if end := strings.Index(line, ")"); end != -1 {
				line = strings.TrimSpace(line[end+1:])
			}
		}

		fields := strings.Fields(strings.ReplaceAll(line, ";", " "))
		if len(fields) < 3 || fields[0] != qualifier {
			continue
		}

		name := fields[2]
		if i := strings.Index(name, "["); i != -1 {
			name = name[:i]
		}

		names = append(names, name)
	}

	return names
}

func (r *Recorder) DeleteProgram(p device.ProgramHandle) {
	r.record("DeleteProgram", p)
	if _, ok := r.programs[p]; ok {
		delete(r.programs, p)
		r.live[device.ObjectKind_Program]--
	}
}

func (r *Recorder) UseProgram(p device.ProgramHandle) {
	r.record("UseProgram", p)
	r.boundProgram = p
}

func (r *Recorder) AttribLocation(p device.ProgramHandle, name string) int32 {

	r.record("AttribLocation", p, name)
	prog, ok := r.programs[p]
	if !ok {
		return -1
	}

	loc, ok := prog.attribs[name]
	if !ok {
		return -1
	}

	return loc
}

func (r *Recorder) UniformLocation(p device.ProgramHandle, name string) int32 {

	r.record("UniformLocation", p, name)
	prog, ok := r.programs[p]
	if !ok {
		return -1
	}

	loc, ok := prog.uniforms[name]
	if !ok {
		return -1
	}

	return loc
}

func (r *Recorder) setUniform(fn string, loc int32, v any) {

	r.record(fn, loc, v)

	prog, ok := r.programs[r.boundProgram]
	if !ok {
		return
	}

	for name, l := range prog.uniforms {
		if l == loc {
			prog.values[name] = v
			return
		}
	}
}

func (r *Recorder) Uniform1i(loc int32, v int32) {
	r.setUniform("Uniform1i", loc, v)
}

func (r *Recorder) Uniform1f(loc int32, v float32) {
	r.setUniform("Uniform1f", loc, v)
}

func (r *Recorder) Uniform2f(loc int32, v *gglm.Vec2) {
	r.setUniform("Uniform2f", loc, *v)
}

func (r *Recorder) Uniform3f(loc int32, v *gglm.Vec3) {
	r.setUniform("Uniform3f", loc, *v)
}

func (r *Recorder) Uniform4f(loc int32, v *gglm.Vec4) {
	r.setUniform("Uniform4f", loc, *v)
}

func (r *Recorder) UniformMat2(loc int32, m *gglm.Mat2) {
	r.setUniform("UniformMat2", loc, *m)
}

func (r *Recorder) UniformMat3(loc int32, m *gglm.Mat3) {
	r.setUniform("UniformMat3", loc, *m)
}

func (r *Recorder) UniformMat4(loc int32, m *gglm.Mat4) {
	r.setUniform("UniformMat4", loc, *m)
}

/*
	Buffers
*/

func (r *Recorder) CreateVertexArray() (device.VertexArrayHandle, error) {

	r.record("CreateVertexArray")
	if r.shouldFail("CreateVertexArray") {
		return 0, fmt.Errorf("%w: CreateVertexArray", device.ErrResourceCreation)
	}

	return device.VertexArrayHandle(r.newHandle(device.ObjectKind_VertexArray)), nil
}

func (r *Recorder) BindVertexArray(va device.VertexArrayHandle) {
	r.record("BindVertexArray", va)
	r.boundVertexArray = va
}

func (r *Recorder) DeleteVertexArray(va device.VertexArrayHandle) {
	r.record("DeleteVertexArray", va)
	r.live[device.ObjectKind_VertexArray]--
}

func (r *Recorder) CreateVertexBuffer(data []float32, usage device.BufUsage) (device.BufferHandle, error) {

	r.record("CreateVertexBuffer", len(data), usage)
	if r.shouldFail("CreateVertexBuffer") {
		return 0, fmt.Errorf("%w: CreateVertexBuffer", device.ErrResourceCreation)
	}

	return device.BufferHandle(r.newHandle(device.ObjectKind_Buffer)), nil
}

func (r *Recorder) CreateIndexBuffer(data []uint32, usage device.BufUsage) (device.BufferHandle, error) {

	r.record("CreateIndexBuffer", len(data), usage)
	if r.shouldFail("CreateIndexBuffer") {
		return 0, fmt.Errorf("%w: CreateIndexBuffer", device.ErrResourceCreation)
	}

	return device.BufferHandle(r.newHandle(device.ObjectKind_Buffer)), nil
}

func (r *Recorder) DeleteBuffer(b device.BufferHandle) {
	r.record("DeleteBuffer", b)
	r.live[device.ObjectKind_Buffer]--
}

func (r *Recorder) VertexAttribFloats(loc uint32, compCount int32, strideBytes int32) {
	r.record("VertexAttribFloats", loc, compCount, strideBytes)
}

/*
	Textures
*/

func (r *Recorder) CreateTexture(desc device.TextureDesc, pixels []byte) (device.TextureHandle, error) {

	r.record("CreateTexture", desc, len(pixels))
	if r.shouldFail("CreateTexture") {
		return 0, fmt.Errorf("%w: CreateTexture", device.ErrResourceCreation)
	}

	h := device.TextureHandle(r.newHandle(device.ObjectKind_Texture))
	r.textures[h] = desc
	return h, nil
}

func (r *Recorder) BindTexture(slot uint32, t device.TextureHandle) {
	r.record("BindTexture", slot, t)
	r.boundTextures[slot] = t
}

func (r *Recorder) DeleteTexture(t device.TextureHandle) {
	r.record("DeleteTexture", t)
	if _, ok := r.textures[t]; ok {
		delete(r.textures, t)
		r.live[device.ObjectKind_Texture]--
	}
}

/*
	Framebuffers
*/

func (r *Recorder) CreateFramebuffer() (device.FramebufferHandle, error) {

	r.record("CreateFramebuffer")
	if r.shouldFail("CreateFramebuffer") {
		return 0, fmt.Errorf("%w: CreateFramebuffer", device.ErrResourceCreation)
	}

	h := device.FramebufferHandle(r.newHandle(device.ObjectKind_Framebuffer))
	r.fbos[h] = map[device.Attachment]device.TextureHandle{}
	return h, nil
}

func (r *Recorder) AttachTexture(fb device.FramebufferHandle, a device.Attachment, t device.TextureHandle) error {

	r.record("AttachTexture", fb, a, t)
	if r.IncompleteFramebuffers {
		return device.ErrIncompleteFramebuffer
	}

	attachments, ok := r.fbos[fb]
	if !ok {
		return fmt.Errorf("%w: unknown framebuffer %d", device.ErrIncompleteFramebuffer, fb)
	}

	attachments[a] = t
	return nil
}

func (r *Recorder) BindFramebuffer(fb device.FramebufferHandle) {
	r.record("BindFramebuffer", fb)
	r.boundFramebuffer = fb
}

func (r *Recorder) DeleteFramebuffer(fb device.FramebufferHandle) {
	r.record("DeleteFramebuffer", fb)
	if _, ok := r.fbos[fb]; ok {
		delete(r.fbos, fb)
		r.live[device.ObjectKind_Framebuffer]--
	}
}

func (r *Recorder) Viewport(x, y int32, width, height uint32) {
	r.record("Viewport", x, y, width, height)
	r.viewport = [4]int32{x, y, int32(width), int32(height)}
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) ClearDepth(d float32) {
	r.record("ClearDepth", d)
}

func (r *Recorder) Clear(mask device.ClearMask) {
	r.record("Clear", mask)
}

func (r *Recorder) BlitToDefault(fb device.FramebufferHandle, srcWidth, srcHeight, dstWidth, dstHeight uint32) {
	r.record("BlitToDefault", fb, srcWidth, srcHeight, dstWidth, dstHeight)
}

/*
	Draws
*/

func (r *Recorder) draw(t device.Topology, count int32, indexed bool) {
	r.Draws = append(r.Draws, Draw{
		Topology:    t,
		Count:       count,
		Indexed:     indexed,
		Program:     r.boundProgram,
		VertexArray: r.boundVertexArray,
		Framebuffer: r.boundFramebuffer,
		DepthTest:   r.enabled[device.Capability_DepthTest],
		Blend:       r.enabled[device.Capability_Blend],
	})
}

func (r *Recorder) DrawArrays(t device.Topology, first int32, count int32) {
	r.record("DrawArrays", t, first, count)
	r.draw(t, count, false)
}

func (r *Recorder) DrawElements(t device.Topology, count int32) {
	r.record("DrawElements", t, count)
	r.draw(t, count, true)
}

/*
	Debug
*/

func (r *Recorder) PushDebugGroup(name string) {
	r.record("PushDebugGroup", name)
	r.debugDepth++
}

func (r *Recorder) PopDebugGroup() {
	r.record("PopDebugGroup")
	r.debugDepth--
}

func (r *Recorder) ObjectLabel(kind device.ObjectKind, handle uint32, name string) {
	r.record("ObjectLabel", kind, handle, name)
	r.labels[labelKey(kind, handle)] = name
}
