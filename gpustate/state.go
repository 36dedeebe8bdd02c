package gpustate

import (
	"errors"

	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device"
)

// ErrStateLock is returned when Bind and Unbind calls on a State do not alternate
var ErrStateLock = errors.New("render state bind/unbind out of order")

// State describes the blend, depth, cull and fill settings of a draw.
// The zero value is not useful, start from NewState.
type State struct {
	BlendEnabled  bool
	BlendSrc      device.BlendFactor
	BlendDst      device.BlendFactor
	BlendEquation device.BlendEquation
	BlendColor    colors.Color

	DepthTest  bool
	DepthWrite bool

	Cull     bool
	CullFace device.Face

	WireframeOn bool

	bound bool
	// gen counts binds so a Binding only releases the bind that created it
	gen uint64
}

// NewState returns the default state: depth test and write on, back faces culled, no blending, filled polygons
func NewState() *State {
	return &State{
		BlendSrc:      device.BlendFactor_One,
		BlendDst:      device.BlendFactor_Zero,
		BlendEquation: device.BlendEquation_Add,
		BlendColor:    colors.Transparent,
		DepthTest:     true,
		DepthWrite:    true,
		Cull:          true,
		CullFace:      device.Face_Back,
	}
}

func (s *State) Blend(src, dst device.BlendFactor, eq device.BlendEquation, color colors.Color) *State {
	s.BlendEnabled = true
	s.BlendSrc = src
	s.BlendDst = dst
	s.BlendEquation = eq
	s.BlendColor = color
	return s
}

// AlphaBlend is the usual 'src*a + dst*(1-a)' blending
func (s *State) AlphaBlend() *State {
	return s.Blend(device.BlendFactor_SrcAlpha, device.BlendFactor_OneMinusSrcAlpha, device.BlendEquation_Add, colors.Transparent)
}

func (s *State) NoDepth() *State {
	s.DepthTest = false
	return s
}

func (s *State) NoDepthWrite() *State {
	s.DepthWrite = false
	return s
}

func (s *State) NoCull() *State {
	s.Cull = false
	return s
}

func (s *State) CullFront() *State {
	s.Cull = true
	s.CullFace = device.Face_Front
	return s
}

func (s *State) Wireframe() *State {
	s.WireframeOn = true
	return s
}

func (s *State) Bound() bool {
	return s.bound
}

// Binding unbinds its state on Release
type Binding struct {
	state    *State
	gen      uint64
	released bool
}

// Release unbinds the state. Only the first call has an effect, and nothing happens
// when the state was unbound directly and bound again since.
func (b *Binding) Release() error {

	if b.released || b.state.gen != b.gen || !b.state.bound {
		b.released = true
		return nil
	}

	b.released = true
	return b.state.Unbind()
}

// Bind applies the state through c, so only settings that differ from what the
// device already has are submitted. Binding an already bound state returns ErrStateLock.
func (s *State) Bind(c *Cache) (*Binding, error) {

	if s.bound {
		return nil, ErrStateLock
	}

	s.bound = true
	s.gen++
	opts := c.Options()

	c.SetEnabled(device.Capability_Multisample, opts.Multisampling)
	if opts.InverseDepth {
		c.ClipControl(device.ClipOrigin_LowerLeft, device.ClipDepth_ZeroToOne)
	}

	if s.BlendEnabled {
		c.Enable(device.Capability_Blend)
		c.BlendFunc(s.BlendSrc, s.BlendDst)
		c.BlendEquation(s.BlendEquation)
		c.BlendColor(s.BlendColor)
	} else {
		c.Disable(device.Capability_Blend)
	}

	if s.DepthTest {
		c.Enable(device.Capability_DepthTest)
		c.DepthMask(s.DepthWrite)

		if opts.InverseDepth {
			c.DepthFunc(device.CompareFunc_Greater)
		} else {
			c.DepthFunc(device.CompareFunc_Less)
		}
	} else {
		c.Disable(device.Capability_DepthTest)
	}

	if s.Cull {
		c.Enable(device.Capability_CullFace)
		c.CullFace(s.CullFace)
	} else {
		c.Disable(device.Capability_CullFace)
	}

	if s.WireframeOn {
		c.PolygonMode(device.Face_FrontAndBack, device.PolygonMode_Line)
	} else {
		c.PolygonMode(device.Face_FrontAndBack, device.PolygonMode_Fill)
	}

	return &Binding{state: s, gen: s.gen}, nil
}

// Unbind releases the bind lock. Unbinding a state that is not bound returns ErrStateLock.
// Device state is left as is, the next Bind only changes what differs.
func (s *State) Unbind() error {

	if !s.bound {
		return ErrStateLock
	}

	s.bound = false
	return nil
}
