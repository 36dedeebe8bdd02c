package framebuffers

import (
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/logging"
)

type Device interface {
	device.FramebufferDevice
	device.TextureDevice
	device.DebugDevice
}

// Display is the surface targets are presented to
type Display interface {
	Size() (width, height uint32)
}

type Options struct {
	InverseDepth bool
}

type Registry struct {
	dev     Device
	display Display
	opts    Options

	// states is the context state cache. Depth clears go through it to enable depth writes.
	states *gpustate.Cache

	targets map[string]*Target
	order   []string

	// bound is the framebuffer currently drawn to
	bound device.FramebufferHandle
}

func NewRegistry(dev Device, display Display, states *gpustate.Cache, opts Options) *Registry {
	return &Registry{
		dev:     dev,
		display: display,
		opts:    opts,
		states:  states,
		targets: map[string]*Target{},
	}
}

// Get returns the target with the given name, creating an empty one on first use
func (r *Registry) Get(name string) *Target {

	if t, ok := r.targets[name]; ok {
		return t
	}

	t := newTarget(r, name)
	r.targets[name] = t
	r.order = append(r.order, name)
	logging.InfoLog.Printf("Created framebuffer target '%s'\n", name)
	return t
}

func (r *Registry) Has(name string) bool {
	_, ok := r.targets[name]
	return ok
}

// Names returns target names in creation order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) bind(fb device.FramebufferHandle) {
	r.bound = fb
	r.dev.BindFramebuffer(fb)
}

func (r *Registry) unbind() {

	r.bind(device.DefaultFramebuffer)

	w, h := r.display.Size()
	r.dev.Viewport(0, 0, w, h)
}

// Release deletes all targets and rebinds the display
func (r *Registry) Release() {

	if r.bound != device.DefaultFramebuffer {
		r.bind(device.DefaultFramebuffer)
	}

	for i := len(r.order) - 1; i >= 0; i-- {
		r.targets[r.order[i]].Release()
	}

	clear(r.targets)
	r.order = nil
}
