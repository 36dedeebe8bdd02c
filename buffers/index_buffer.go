package buffers

import (
	"fmt"

	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/lazy"
)

type IndexBuffer struct {
	// IndexBufCount is the number of elements in the index buffer
	IndexBufCount int32

	data   []uint32
	handle *lazy.Resource[device.BufferHandle]
}

func NewIndexBuffer(dev Device, indices []uint32) *IndexBuffer {

	ib := &IndexBuffer{
		IndexBufCount: int32(len(indices)),
		data:          indices,
	}

	ib.handle = lazy.New(func() (device.BufferHandle, error) {

		h, err := dev.CreateIndexBuffer(ib.data, device.BufUsage_Static_Draw)
		if err != nil {
			return 0, fmt.Errorf("failed to create index buffer: %w", err)
		}

		ib.data = nil
		return h, nil
	}, dev.DeleteBuffer)

	return ib
}

func (ib *IndexBuffer) upload() error {
	_, err := ib.handle.Get()
	return err
}

func (ib *IndexBuffer) Release() {
	ib.handle.Release()
}
