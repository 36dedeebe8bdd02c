package buffers

import (
	"fmt"

	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/lazy"
)

// VertexArray is the set of device buffers built for one (geometry, shader) pair.
// It is immutable once built and lives until its cache is released.
type VertexArray struct {
	Key         Key
	Vbos        []*VertexBuffer
	IndexBuffer *IndexBuffer

	dev    Device
	handle *lazy.Resource[device.VertexArrayHandle]

	// bound is the vertex array the device has bound, shared by all arrays of a cache
	bound *device.VertexArrayHandle
}

func newVertexArray(dev Device, key Key, bound *device.VertexArrayHandle) *VertexArray {

	va := &VertexArray{
		Key:   key,
		dev:   dev,
		bound: bound,
	}

	va.handle = lazy.New(func() (device.VertexArrayHandle, error) {

		h, err := dev.CreateVertexArray()
		if err != nil {
			return 0, fmt.Errorf("failed to create vertex array: %w", err)
		}

		dev.ObjectLabel(device.ObjectKind_VertexArray, uint32(h), "geometry:"+key.String())
		return h, nil
	}, dev.DeleteVertexArray)

	return va
}

func (va *VertexArray) AddVertexBuffer(vbo *VertexBuffer) {
	va.Vbos = append(va.Vbos, vbo)
}

func (va *VertexArray) SetIndexBuffer(ib *IndexBuffer) {
	va.IndexBuffer = ib
}

// build creates the vertex array and uploads all buffers into it
func (va *VertexArray) build() error {

	h, err := va.handle.Get()
	if err != nil {
		return err
	}

	// NOTE: Index buffers are recorded in the bound vertex array, so bind before uploading
	va.dev.BindVertexArray(h)
	defer va.UnBind()
	*va.bound = h

	for _, vbo := range va.Vbos {
		if err := vbo.upload(va.dev); err != nil {
			return err
		}
	}

	if va.IndexBuffer != nil {
		if err := va.IndexBuffer.upload(); err != nil {
			return err
		}
	}

	return nil
}

func (va *VertexArray) Indexed() bool {
	return va.IndexBuffer != nil
}

// Bind binds the vertex array unless it is already the bound one
func (va *VertexArray) Bind() error {

	h, err := va.handle.Get()
	if err != nil {
		return err
	}

	if *va.bound == h {
		return nil
	}

	va.dev.BindVertexArray(h)
	*va.bound = h
	return nil
}

func (va *VertexArray) UnBind() {

	if *va.bound == 0 {
		return
	}

	va.dev.BindVertexArray(0)
	*va.bound = 0
}

// Release deletes the attribute buffers, index buffer and the vertex array
func (va *VertexArray) Release() {

	for _, vbo := range va.Vbos {
		vbo.Release()
	}

	if va.IndexBuffer != nil {
		va.IndexBuffer.Release()
	}

	if va.handle.Created() {
		if h, _ := va.handle.Get(); h == *va.bound {
			va.UnBind()
		}
	}

	va.handle.Release()
}
