package renderer

import (
	"fmt"

	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/materials"
	"github.com/bloeys/nrender/shaders"
)

// Command is a single draw being built. Builder methods record the first error
// they hit, later calls do nothing and Render returns it.
type Command struct {
	r *Renderer

	geom  *geometry.Geometry
	owned geometry.Geometry

	program *shaders.Program
	state   *gpustate.State

	err error
}

func (c *Command) Err() error {
	return c.err
}

func (c *Command) Shader(vsID, fsID string) *Command {

	if c.err != nil {
		return c
	}

	p, err := c.r.shaders.Shader(vsID, fsID)
	if err != nil {
		c.err = fmt.Errorf("failed to resolve shader '%s'+'%s': %w", vsID, fsID, err)
		return c
	}

	c.program = p
	return c
}

func (c *Command) Program(p *shaders.Program) *Command {
	c.program = p
	return c
}

// Material sets the program, state and params of m
func (c *Command) Material(m *materials.Material) *Command {

	if m.Program == nil {
		if c.err == nil {
			c.err = fmt.Errorf("%w: material '%s' has no program", ErrMissingPipelineInput, m.Name)
		}
		return c
	}

	c.Program(m.Program)
	if m.State != nil {
		c.State(m.State)
	}

	if c.err != nil {
		return c
	}

	if err := m.Apply(); err != nil {
		c.err = fmt.Errorf("failed to apply material '%s': %w", m.Name, err)
	}

	return c
}

// Param sets a uniform on the command's program, which must already be set
func (c *Command) Param(name string, v shaders.Value) *Command {
	return c.param(name, v, false)
}

// TryParam is Param that ignores uniforms the program does not declare
func (c *Command) TryParam(name string, v shaders.Value) *Command {
	return c.param(name, v, true)
}

func (c *Command) param(name string, v shaders.Value, try bool) *Command {

	if c.err != nil {
		return c
	}

	if c.program == nil {
		c.err = fmt.Errorf("%w: shader must be set before param '%s'", ErrMissingPipelineInput, name)
		return c
	}

	var err error
	if try {
		err = c.program.TryParam(name, v)
	} else {
		err = c.program.Param(name, v)
	}

	if err != nil {
		c.err = err
	}

	return c
}

func (c *Command) State(s *gpustate.State) *Command {
	c.state = s
	return c
}

// Render issues the draw: buffers, program and state are bound, one draw call is made,
// then all three are unbound in that order.
// On error the program is left unbound, even when Param calls bound it, so its sampler slots start over on the next draw.
func (c *Command) Render() error {

	err := c.render()
	if err != nil && c.program != nil && c.program.Bound() {
		c.program.Unbind()
	}

	return err
}

func (c *Command) render() error {

	if c.err != nil {
		return c.err
	}

	if c.program == nil {
		return fmt.Errorf("%w: shader not set", ErrMissingPipelineInput)
	}

	r := c.r
	r.stats.Commands++
	r.dev.PushDebugGroup(DebugScope)
	defer r.dev.PopDebugGroup()

	if err := c.program.Compile(); err != nil {
		return err
	}

	if !c.program.Usable() {
		r.stats.Skipped++
		return nil
	}

	va, err := r.buffers.GetOrCreate(c.geom, c.program)
	if err != nil {
		return err
	}

	if err := va.Bind(); err != nil {
		return err
	}

	if err := c.program.Bind(); err != nil {
		va.UnBind()
		return err
	}

	if err := r.store.Apply(c.program); err != nil {
		va.UnBind()
		return err
	}

	state := c.state
	if state == nil {
		state = gpustate.NewState()
	}

	binding, err := state.Bind(r.states)
	if err != nil {
		va.UnBind()
		return err
	}

	if c.geom.Indexed() {
		r.dev.DrawElements(c.geom.Topology, c.geom.DrawCount())
	} else {
		r.dev.DrawArrays(c.geom.Topology, 0, c.geom.DrawCount())
	}

	va.UnBind()
	c.program.Unbind()
	if err := binding.Release(); err != nil {
		return err
	}

	r.stats.DrawCalls++
	return nil
}
