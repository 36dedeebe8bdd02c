package buffers

import (
	"fmt"

	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/lazy"
)

// VertexBuffer holds the data of one vertex attribute
type VertexBuffer struct {
	Attrib   string
	Location uint32
	Stride   int32

	layout []Element
	data   []float32
	handle *lazy.Resource[device.BufferHandle]
}

func NewVertexBuffer(dev Device, attrib string, location uint32, data []float32, layout ...Element) *VertexBuffer {

	vb := &VertexBuffer{
		Attrib:   attrib,
		Location: location,
		data:     data,
	}

	vb.SetLayout(layout...)
	vb.handle = lazy.New(func() (device.BufferHandle, error) {

		h, err := dev.CreateVertexBuffer(vb.data, device.BufUsage_Static_Draw)
		if err != nil {
			return 0, fmt.Errorf("failed to create vertex buffer for '%s': %w", vb.Attrib, err)
		}

		vb.data = nil
		return h, nil
	}, dev.DeleteBuffer)

	return vb
}

func (vb *VertexBuffer) GetLayout() []Element {
	e := make([]Element, len(vb.layout))
	copy(e, vb.layout)
	return e
}

func (vb *VertexBuffer) SetLayout(layout ...Element) {

	vb.Stride = 0
	vb.layout = layout

	for i := 0; i < len(vb.layout); i++ {

		vb.layout[i].Offset = int(vb.Stride)
		vb.Stride += vb.layout[i].Size()
	}
}

// upload creates the device buffer and points the attribute at it.
// The owning vertex array must be bound.
func (vb *VertexBuffer) upload(dev Device) error {

	if _, err := vb.handle.Get(); err != nil {
		return err
	}

	dev.VertexAttribFloats(vb.Location, vb.layout[0].CompCount(), vb.Stride)
	return nil
}

func (vb *VertexBuffer) Release() {
	vb.handle.Release()
}
