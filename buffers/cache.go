// Package buffers turns geometry into device vertex buffers, and caches the result by content.
//
// The cache key covers only what the shader actually reads, plus the shader source, so the same
// geometry drawn with shaders that read the same attributes still gets separate entries, while
// changes to unread attributes do not create new ones.
package buffers

import (
	"errors"
	"fmt"

	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/geometry"
	"github.com/bloeys/nrender/logging"
	"github.com/bloeys/nrender/shaders"
)

var (
	// ErrMissingAttribute is returned when the shader has no position input or the geometry
	// does not have data the shader needs
	ErrMissingAttribute = errors.New("missing vertex attribute")
	ErrEmptyGeometry    = errors.New("geometry has no positions")

	// ErrCacheOverflow is returned when more distinct (geometry, shader) pairs are requested than the
	// cache capacity. Entries are never evicted, so this usually means geometry changes every frame.
	ErrCacheOverflow = errors.New("vertex buffer cache capacity exceeded")
)

type Device interface {
	device.BufferDevice
	device.DebugDevice
}

type Cache struct {
	dev      Device
	capacity int
	entries  map[Key]*VertexArray
	bound    device.VertexArrayHandle
}

func NewCache(dev Device, capacity int) *Cache {
	return &Cache{
		dev:      dev,
		capacity: capacity,
		entries:  make(map[Key]*VertexArray, capacity),
	}
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) Capacity() int {
	return c.capacity
}

// Invalidate forgets which vertex array is bound. Call it after something outside
// the cache may have changed the device binding.
func (c *Cache) Invalidate() {
	c.bound = ^device.VertexArrayHandle(0)
}

// GetOrCreate returns the buffers for g as read by p, building them the first time the pair is seen
func (c *Cache) GetOrCreate(g *geometry.Geometry, p *shaders.Program) (*VertexArray, error) {

	key, err := Hash(g, p)
	if err != nil {
		return nil, err
	}

	if va, ok := c.entries[key]; ok {
		return va, nil
	}

	if len(c.entries) >= c.capacity {
		return nil, fmt.Errorf("%w: %d entries", ErrCacheOverflow, c.capacity)
	}

	// Attribute locations are memoized, so this does not reach the device again
	attribs, err := declaredAttribs(g, p)
	if err != nil {
		return nil, err
	}

	va := newVertexArray(c.dev, key, &c.bound)
	va.AddVertexBuffer(NewVertexBuffer(c.dev, shaders.AttribPosition, attribs.positionLoc, flatten3(g.Positions), attribElement(shaders.AttribPosition)))

	if attribs.normals {
		va.AddVertexBuffer(NewVertexBuffer(c.dev, shaders.AttribNormal, uint32(attribs.normalLoc), flatten3(g.Normals), attribElement(shaders.AttribNormal)))
	}

	if attribs.texcoords {
		va.AddVertexBuffer(NewVertexBuffer(c.dev, shaders.AttribTexcoord, uint32(attribs.texcoordLoc), flatten2(g.Texcoords), attribElement(shaders.AttribTexcoord)))
	}

	if g.Indexed() {
		va.SetIndexBuffer(NewIndexBuffer(c.dev, g.Indices))
	}

	if err := va.build(); err != nil {
		va.Release()
		return nil, err
	}

	c.entries[key] = va
	logging.InfoLog.Printf("Created vertex buffers %s for program '%s' (%d vertices, %d/%d cached)\n", key, p.Name, g.VertexCount(), len(c.entries), c.capacity)
	return va, nil
}

// Release deletes all cached buffers
func (c *Cache) Release() {

	for k, va := range c.entries {
		va.Release()
		delete(c.entries, k)
	}
}
