// Package gpustate remembers what was last sent to the device for every state setting call
// and drops calls that would not change anything.
package gpustate

import (
	"math"

	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device"
)

type CallKind int32

const (
	CallKind_Unknown CallKind = iota
	CallKind_ClipControl
	CallKind_BlendFunc
	CallKind_BlendEquation
	CallKind_DepthMask
	CallKind_DepthFunc
	CallKind_CullFace
	CallKind_PolygonMode
	CallKind_BlendColor
)

// args holds up to four call arguments. Floats are stored as their bit patterns.
type args [4]uint32

type Options struct {
	InverseDepth  bool
	Multisampling bool
}

type Stats struct {
	// Forwarded is the number of calls that reached the device
	Forwarded uint64
	// Elided is the number of calls dropped because they matched the last submitted arguments
	Elided uint64
}

// Cache is the state memo of one rendering context. It assumes it is the only
// one changing device state, call Clear when that is not true.
type Cache struct {
	dev  device.StateDevice
	opts Options

	last map[CallKind]args

	// enabled holds capabilities with a known state. Absent means unknown.
	enabled map[device.Capability]bool

	stats Stats
}

func NewCache(dev device.StateDevice, opts Options) *Cache {
	return &Cache{
		dev:     dev,
		opts:    opts,
		last:    map[CallKind]args{},
		enabled: map[device.Capability]bool{},
	}
}

func (c *Cache) Options() Options {
	return c.opts
}

func (c *Cache) Stats() Stats {
	return c.stats
}

// Clear forgets all remembered state, so the next call of every kind reaches the device.
// Used after something outside the cache (e.g. a UI overlay) touched device state.
func (c *Cache) Clear() {
	clear(c.last)
	clear(c.enabled)
}

// checkAndSet returns true if the call must be forwarded, and remembers a as the last arguments of kind
func (c *Cache) checkAndSet(kind CallKind, a args) bool {

	if old, ok := c.last[kind]; ok && old == a {
		c.stats.Elided++
		return false
	}

	c.last[kind] = a
	c.stats.Forwarded++
	return true
}

func (c *Cache) SetEnabled(capability device.Capability, enable bool) {

	if known, ok := c.enabled[capability]; ok && known == enable {
		c.stats.Elided++
		return
	}

	c.enabled[capability] = enable
	c.stats.Forwarded++

	if enable {
		c.dev.Enable(capability)
	} else {
		c.dev.Disable(capability)
	}
}

func (c *Cache) Enable(capability device.Capability) {
	c.SetEnabled(capability, true)
}

func (c *Cache) Disable(capability device.Capability) {
	c.SetEnabled(capability, false)
}

func (c *Cache) ClipControl(origin device.ClipOrigin, depth device.ClipDepth) {
	if c.checkAndSet(CallKind_ClipControl, args{uint32(origin), uint32(depth)}) {
		c.dev.ClipControl(origin, depth)
	}
}

func (c *Cache) BlendFunc(src, dst device.BlendFactor) {
	if c.checkAndSet(CallKind_BlendFunc, args{uint32(src), uint32(dst)}) {
		c.dev.BlendFunc(src, dst)
	}
}

func (c *Cache) BlendEquation(eq device.BlendEquation) {
	if c.checkAndSet(CallKind_BlendEquation, args{uint32(eq)}) {
		c.dev.BlendEquation(eq)
	}
}

func (c *Cache) BlendColor(col colors.Color) {

	a := args{
		math.Float32bits(col.R),
		math.Float32bits(col.G),
		math.Float32bits(col.B),
		math.Float32bits(col.A),
	}

	if c.checkAndSet(CallKind_BlendColor, a) {
		c.dev.BlendColor(col.R, col.G, col.B, col.A)
	}
}

func (c *Cache) DepthMask(write bool) {

	var w uint32
	if write {
		w = 1
	}

	if c.checkAndSet(CallKind_DepthMask, args{w}) {
		c.dev.DepthMask(write)
	}
}

func (c *Cache) DepthFunc(f device.CompareFunc) {
	if c.checkAndSet(CallKind_DepthFunc, args{uint32(f)}) {
		c.dev.DepthFunc(f)
	}
}

func (c *Cache) CullFace(f device.Face) {
	if c.checkAndSet(CallKind_CullFace, args{uint32(f)}) {
		c.dev.CullFace(f)
	}
}

func (c *Cache) PolygonMode(f device.Face, mode device.PolygonMode) {
	if c.checkAndSet(CallKind_PolygonMode, args{uint32(f), uint32(mode)}) {
		c.dev.PolygonMode(f, mode)
	}
}
