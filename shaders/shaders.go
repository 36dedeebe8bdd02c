// Package shaders compiles shader programs and sets their uniforms.
//
// Programs are created lazily on first use. A Manager owns all programs of a rendering context
// and knows which one is in use on the device, so binding one program marks the previous one unbound.
package shaders

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bloeys/nrender/device"
)

// Vertex attribute names geometry is bound to
const (
	AttribPosition = "IN_POSITION"
	AttribNormal   = "IN_NORMAL"
	AttribTexcoord = "IN_TEXCOORD"
)

var (
	ErrParamNotFound         = errors.New("shader param not found")
	ErrSamplerSlotsExhausted = errors.New("shader sampler slots exhausted")
	ErrShaderCompile         = errors.New("shader compilation failed")
)

type Device interface {
	device.ProgramDevice
	device.DebugDevice
}

type Options struct {
	// Strict makes compile and link failures errors. Otherwise they are logged and the program
	// stays unusable: binding it and setting its params does nothing.
	Strict      bool
	MaxSamplers uint32
}

type Manager struct {
	dev      Device
	opts     Options
	current  *Program
	programs []*Program
}

func NewManager(dev Device, opts Options) *Manager {

	if opts.MaxSamplers == 0 {
		opts.MaxSamplers = 8
	}

	return &Manager{
		dev:  dev,
		opts: opts,
	}
}

// New returns a program for the given sources. Nothing is compiled until the program is first used.
func (m *Manager) New(name, vertexSrc, fragmentSrc string) *Program {

	p := &Program{
		Name:        name,
		mgr:         m,
		vertexSrc:   vertexSrc,
		fragmentSrc: fragmentSrc,
		unifLocs:    map[string]int32{},
		attribLocs:  map[string]int32{},
	}

	p.handle = newProgramHandle(p)
	m.programs = append(m.programs, p)
	return p
}

// Current returns the program in use on the device, or nil
func (m *Manager) Current() *Program {
	return m.current
}

func (m *Manager) use(p *Program) {

	if m.current != nil && m.current != p {
		m.current.bound = false
	}

	m.current = p
}

// Invalidate forgets which program is current on the device. Call it after something
// outside the manager may have changed the device program.
func (m *Manager) Invalidate() {

	if m.current != nil {
		m.current.bound = false
	}

	m.current = nil
}

// Release deletes all programs created by this manager
func (m *Manager) Release() {

	for _, p := range m.programs {
		p.Release()
	}

	m.programs = nil
	m.current = nil
}

// SplitCombined splits a single file holding both stages into vertex and fragment source.
// Each stage starts after a '//shader:vertex' or '//shader:fragment' line.
func SplitCombined(combinedSrc []byte) (vertexSrc, fragmentSrc string, err error) {

	shaderSources := bytes.Split(combinedSrc, []byte("//shader:"))
	if len(shaderSources) < 2 {
		return "", "", errors.New("failed to read combined shader. The minimum shader types to have are '//shader:vertex' and '//shader:fragment'")
	}

	for i := 0; i < len(shaderSources); i++ {

		src := shaderSources[i]

		//This can happen when the shader type is at the start of the file
		if len(bytes.TrimSpace(src)) == 0 {
			continue
		}

		var shdrType ShaderType
		if bytes.HasPrefix(src, []byte("vertex")) {
			src = src[6:]
			shdrType = ShaderType_Vertex
		} else if bytes.HasPrefix(src, []byte("fragment")) {
			src = src[8:]
			shdrType = ShaderType_Fragment
		} else if i == 0 {
			// Text before the first marker, e.g. a license or comment
			continue
		} else {
			return "", "", errors.New("unknown shader type. Must be '//shader:vertex' or '//shader:fragment'")
		}

		switch shdrType {
		case ShaderType_Vertex:
			if vertexSrc != "" {
				return "", "", fmt.Errorf("combined shader has more than one %s stage", shdrType)
			}
			vertexSrc = string(src)
		case ShaderType_Fragment:
			if fragmentSrc != "" {
				return "", "", fmt.Errorf("combined shader has more than one %s stage", shdrType)
			}
			fragmentSrc = string(src)
		}
	}

	if vertexSrc == "" {
		return "", "", errors.New("no valid vertex shader found. Please put '//shader:vertex' before your vertex shader")
	}

	if fragmentSrc == "" {
		return "", "", errors.New("no valid fragment shader found. Please put '//shader:fragment' before your fragment shader")
	}

	return vertexSrc, fragmentSrc, nil
}
