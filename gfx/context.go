// Package gfx owns everything a frame is rendered with: the device state cache, shaders,
// the buffer cache, render targets and the postprocess step. There is one Context per
// device context and it must be released before the device context is destroyed.
package gfx

import (
	"fmt"

	"github.com/bloeys/nrender/buffers"
	"github.com/bloeys/nrender/config"
	"github.com/bloeys/nrender/content"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/framebuffers"
	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/logging"
	"github.com/bloeys/nrender/postprocess"
	"github.com/bloeys/nrender/renderer"
	"github.com/bloeys/nrender/shaders"
	"github.com/bloeys/nrender/store"
	"github.com/bloeys/nrender/textures"
)

type Context struct {
	Config config.Config

	States       *gpustate.Cache
	Shaders      *shaders.Manager
	Content      *content.Content
	Buffers      *buffers.Cache
	Store        *store.Store
	Renderer     *renderer.Renderer
	Framebuffers *framebuffers.Registry

	post     *postprocess.Step
	released bool
}

func New(dev device.Device, cfg config.Config, display framebuffers.Display) (*Context, error) {

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}

	ctx := &Context{
		Config: cfg,
		States: gpustate.NewCache(dev, gpustate.Options{
			InverseDepth:  cfg.Render.InverseDepth,
			Multisampling: cfg.Render.Multisampling,
		}),
		Shaders: shaders.NewManager(dev, shaders.Options{
			Strict:      cfg.Render.StrictShaders,
			MaxSamplers: cfg.Render.MaxSamplers,
		}),
	}

	var err error
	ctx.Content, err = content.New(dev, ctx.Shaders, cfg.Content.DataDir)
	if err != nil {
		return nil, err
	}

	if cfg.Content.WatchShaders {
		// Reloading is a convenience, rendering works without it
		if err := ctx.Content.Watch(); err != nil {
			logging.WarnLog.Printf("Shader hot reload disabled. Err: %s\n", err)
		}
	}

	ctx.Buffers = buffers.NewCache(dev, cfg.Render.BufferCacheCapacity)
	ctx.Store = store.New()
	ctx.Renderer = renderer.New(dev, ctx.Content, ctx.Store, ctx.Buffers, ctx.States)
	ctx.Framebuffers = framebuffers.NewRegistry(dev, display, ctx.States, framebuffers.Options{InverseDepth: cfg.Render.InverseDepth})
	ctx.post = postprocess.New(ctx.Renderer, ctx.Content, ctx.Framebuffers)

	logging.InfoLog.Printf("Render context created (inverse depth: %v, strict shaders: %v, buffer cache capacity: %d)\n",
		cfg.Render.InverseDepth, cfg.Render.StrictShaders, cfg.Render.BufferCacheCapacity)
	return ctx, nil
}

// Geometry starts a render command drawing g
func (c *Context) Geometry(g *geometry.Geometry) *renderer.Command {
	return c.Renderer.Geometry(g)
}

// Owned starts a render command that keeps its own copy of g
func (c *Context) Owned(g geometry.Geometry) *renderer.Command {
	return c.Renderer.Owned(g)
}

func (c *Context) Shader(vsID, fsID string) (*shaders.Program, error) {
	return c.Content.Shader(vsID, fsID)
}

func (c *Context) Texture(id string) (*textures.Texture, error) {
	return c.Content.Texture(id)
}

func (c *Context) Framebuffer(name string) *framebuffers.Target {
	return c.Framebuffers.Get(name)
}

// Postprocess starts a postprocess step reading the named targets
func (c *Context) Postprocess(inputs ...string) *postprocess.Step {
	return c.post.Inputs(inputs...)
}

// BeginFrame reloads changed shaders and resets the per frame stats
func (c *Context) BeginFrame() {

	if c.Config.Content.WatchShaders {
		c.Content.PollReloads()
	}

	c.Renderer.ResetStats()
}

// InvalidateDeviceState forgets all cached device state. Call it after something
// outside the context, like a UI overlay, drew with the same device.
func (c *Context) InvalidateDeviceState() {
	c.States.Clear()
	c.Shaders.Invalidate()
	c.Buffers.Invalidate()
}

func (c *Context) Stats() renderer.Stats {
	return c.Renderer.Stats()
}

// Release frees all device objects in reverse order of creation. The device context must still be current.
func (c *Context) Release() {

	if c.released {
		return
	}

	c.released = true
	c.Framebuffers.Release()
	c.Buffers.Release()
	c.Content.Release()
	c.Shaders.Release()
}
