// Package renderer draws geometry with a shader, shader params and render state, one draw call per command.
package renderer

import (
	"errors"

	"github.com/bloeys/nrender/buffers"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/shaders"
	"github.com/bloeys/nrender/store"
)

// ErrMissingPipelineInput is returned when a command is used before its shader (or a
// postprocess step before its inputs) was set
var ErrMissingPipelineInput = errors.New("render pipeline input not set")

// DebugScope names the debug group every render command is wrapped in
const DebugScope = "geometry:render"

// ShaderSource resolves shader ids to programs, usually the content system
type ShaderSource interface {
	Shader(vsID, fsID string) (*shaders.Program, error)
}

type Device interface {
	device.DrawDevice
	device.DebugDevice
}

type Stats struct {
	Commands  uint64
	DrawCalls uint64
	// Skipped counts commands whose program failed to compile in non-strict mode
	Skipped uint64
}

type Renderer struct {
	dev     Device
	shaders ShaderSource
	store   *store.Store
	buffers *buffers.Cache
	states  *gpustate.Cache
	stats   Stats
}

func New(dev Device, shaderSrc ShaderSource, st *store.Store, bufs *buffers.Cache, states *gpustate.Cache) *Renderer {
	return &Renderer{
		dev:     dev,
		shaders: shaderSrc,
		store:   st,
		buffers: bufs,
		states:  states,
	}
}

// Geometry starts a command drawing g. g must not change until the command is rendered.
func (r *Renderer) Geometry(g *geometry.Geometry) *Command {
	return &Command{
		r:    r,
		geom: g,
	}
}

// Owned starts a command that keeps its own geometry
func (r *Renderer) Owned(g geometry.Geometry) *Command {

	c := &Command{
		r:     r,
		owned: g,
	}

	c.geom = &c.owned
	return c
}

func (r *Renderer) Stats() Stats {
	return r.stats
}

func (r *Renderer) ResetStats() {
	r.stats = Stats{}
}
