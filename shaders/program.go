package shaders

import (
	"errors"
	"fmt"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nrender/assert"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/lazy"
	"github.com/bloeys/nrender/logging"
)

type Program struct {
	Name string

	mgr         *Manager
	vertexSrc   string
	fragmentSrc string

	// handle is zero when compilation failed in non-strict mode
	handle *lazy.Resource[device.ProgramHandle]

	bound       bool
	samplerSlot uint32

	unifLocs   map[string]int32
	attribLocs map[string]int32
}

func newProgramHandle(p *Program) *lazy.Resource[device.ProgramHandle] {

	dev := p.mgr.dev
	return lazy.New(p.create, func(h device.ProgramHandle) {
		if h != 0 {
			dev.DeleteProgram(h)
		}
	})
}

func (p *Program) create() (device.ProgramHandle, error) {

	dev := p.mgr.dev
	h, err := dev.CreateProgram(p.vertexSrc, p.fragmentSrc)
	if err == nil {
		dev.ObjectLabel(device.ObjectKind_Program, uint32(h), p.Name)
		return h, nil
	}

	var compileErr *device.CompileError
	if !errors.As(err, &compileErr) {
		return 0, fmt.Errorf("failed to create shader program '%s': %w", p.Name, err)
	}

	logging.ErrLog.Printf("Compilation of shader program '%s' failed. Err: %s\n", p.Name, err)
	if p.mgr.opts.Strict {
		return 0, fmt.Errorf("%w: program '%s': %w", ErrShaderCompile, p.Name, err)
	}

	return 0, nil
}

func (p *Program) resource() (device.ProgramHandle, error) {
	return p.handle.Get()
}

// Compile creates the device program if it was not yet created. In non-strict mode a compile
// failure is not an error, check Usable.
func (p *Program) Compile() error {
	_, err := p.resource()
	return err
}

// Usable compiles the program if needed and reports whether it can be used for drawing
func (p *Program) Usable() bool {
	h, err := p.resource()
	return err == nil && h != 0
}

func (p *Program) Bound() bool {
	return p.bound
}

// Source returns the concatenated stage sources, which identify the program's content
func (p *Program) Source() string {
	return p.vertexSrc + p.fragmentSrc
}

func (p *Program) VertexSource() string {
	return p.vertexSrc
}

func (p *Program) FragmentSource() string {
	return p.fragmentSrc
}

// Bind makes the program current. Binding an already bound program does nothing,
// and the sampler slot counter is only reset when going from unbound to bound.
// The device is only told when another program was current.
// Binding an unusable program does nothing.
func (p *Program) Bind() error {

	h, err := p.resource()
	if err != nil {
		return err
	}

	if h == 0 || p.bound {
		return nil
	}

	// The device keeps the last used program, so only switch when another one was used since
	if p.mgr.current != p {
		p.mgr.dev.UseProgram(h)
		p.mgr.use(p)
	}

	p.samplerSlot = 0
	p.bound = true
	return nil
}

// Unbind marks the program as not bound. The device program is left in place.
func (p *Program) Unbind() {
	p.bound = false
}

// AttribLocation returns the location of a vertex attribute, or -1 if the program does not declare it
func (p *Program) AttribLocation(name string) (int32, error) {

	if loc, ok := p.attribLocs[name]; ok {
		return loc, nil
	}

	h, err := p.resource()
	if err != nil {
		return -1, err
	}

	loc := int32(-1)
	if h != 0 {
		loc = p.mgr.dev.AttribLocation(h, name)
	}

	p.attribLocs[name] = loc
	return loc, nil
}

func (p *Program) HasAttrib(name string) (bool, error) {
	loc, err := p.AttribLocation(name)
	return loc != -1, err
}

func (p *Program) uniformLocation(h device.ProgramHandle, name string) int32 {

	if loc, ok := p.unifLocs[name]; ok {
		return loc
	}

	loc := p.mgr.dev.UniformLocation(h, name)
	p.unifLocs[name] = loc
	return loc
}

// Param binds the program and sets a uniform. Returns ErrParamNotFound if the program does not declare name.
func (p *Program) Param(name string, v Value) error {

	h, err := p.resource()
	if err != nil {
		return err
	}

	if h == 0 {
		return nil
	}

	loc := p.uniformLocation(h, name)
	if loc == -1 {
		return fmt.Errorf("%w: '%s' in program '%s'", ErrParamNotFound, name, p.Name)
	}

	if err := p.Bind(); err != nil {
		return err
	}

	return p.set(loc, v)
}

// TryParam is Param that ignores ErrParamNotFound
func (p *Program) TryParam(name string, v Value) error {

	err := p.Param(name, v)
	if errors.Is(err, ErrParamNotFound) {
		return nil
	}

	return err
}

func (p *Program) set(loc int32, v Value) error {

	dev := p.mgr.dev
	switch v := v.(type) {
	case Bool:
		var i int32
		if v {
			i = 1
		}
		dev.Uniform1i(loc, i)
	case Int:
		dev.Uniform1i(loc, int32(v))
	case Float:
		dev.Uniform1f(loc, float32(v))
	case Vec2:
		dev.Uniform2f(loc, (*gglm.Vec2)(&v))
	case Vec3:
		dev.Uniform3f(loc, (*gglm.Vec3)(&v))
	case Vec4:
		dev.Uniform4f(loc, (*gglm.Vec4)(&v))
	case Mat2:
		dev.UniformMat2(loc, (*gglm.Mat2)(&v))
	case Mat3:
		dev.UniformMat3(loc, (*gglm.Mat3)(&v))
	case Mat4:
		dev.UniformMat4(loc, (*gglm.Mat4)(&v))
	case Color:
		c := gglm.Vec4{Data: [4]float32{v.R, v.G, v.B, v.A}}
		dev.Uniform4f(loc, &c)
	case Sampler:
		return p.setSampler(loc, v)
	default:
		assert.T(false, "unknown shader value type %T", v)
	}

	return nil
}

func (p *Program) setSampler(loc int32, s Sampler) error {

	if p.samplerSlot >= p.mgr.opts.MaxSamplers {
		return fmt.Errorf("%w: program '%s' already uses %d samplers", ErrSamplerSlotsExhausted, p.Name, p.samplerSlot)
	}

	if err := s.Texture.Bind(p.samplerSlot); err != nil {
		return err
	}

	p.mgr.dev.Uniform1i(loc, int32(p.samplerSlot))
	p.samplerSlot++
	return nil
}

// Reload replaces the sources. The old device program is deleted and the new one is compiled on next use.
func (p *Program) Reload(vertexSrc, fragmentSrc string) {

	if p.mgr.current == p {
		p.mgr.current = nil
	}

	p.vertexSrc = vertexSrc
	p.fragmentSrc = fragmentSrc
	p.bound = false
	clear(p.unifLocs)
	clear(p.attribLocs)

	p.handle.Reset(p.create)
}

func (p *Program) Release() {

	if p.mgr.current == p {
		p.mgr.current = nil
	}

	p.bound = false
	p.handle.Release()
}
