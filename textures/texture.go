// Package textures holds 2D device textures, either decoded images or render target attachments.
package textures

import (
	"fmt"
	"image"

	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/lazy"
	"golang.org/x/image/draw"
)

type Device interface {
	device.TextureDevice
	device.DebugDevice
}

type LoadOptions struct {
	// NoSrgba uploads the image as linear data. Use for normal maps and other non-color data.
	NoSrgba   bool
	NoMipmaps bool
	Nearest   bool
	Repeat    bool
}

type Texture struct {
	Name string
	Desc device.TextureDesc

	dev    Device
	pixels []byte
	handle *lazy.Resource[device.TextureHandle]
}

// New returns a texture with no initial data, typically used as a framebuffer attachment.
// The device texture is created on first use.
func New(dev Device, name string, desc device.TextureDesc) *Texture {
	return newTexture(dev, name, desc, nil)
}

// FromImage returns a texture holding img. Rows are flipped so the first row
// of the image ends up at texture coordinate v=1.
func FromImage(dev Device, name string, img image.Image, opts LoadOptions) *Texture {

	bounds := img.Bounds()
	desc := device.TextureDesc{
		Width:     uint32(bounds.Dx()),
		Height:    uint32(bounds.Dy()),
		Format:    device.TextureFormat_SRGBA8,
		MinFilter: device.TextureFilter_LinearMipmapLinear,
		MagFilter: device.TextureFilter_Linear,
		Repeat:    opts.Repeat,
		Mipmaps:   !opts.NoMipmaps,
	}

	if opts.NoSrgba {
		desc.Format = device.TextureFormat_RGBA8
	}

	if opts.NoMipmaps {
		desc.MinFilter = device.TextureFilter_Linear
	}

	if opts.Nearest {
		desc.MinFilter = device.TextureFilter_Nearest
		desc.MagFilter = device.TextureFilter_Nearest
	}

	return newTexture(dev, name, desc, FlippedPixels(img))
}

func newTexture(dev Device, name string, desc device.TextureDesc, pixels []byte) *Texture {

	t := &Texture{
		Name:   name,
		Desc:   desc,
		dev:    dev,
		pixels: pixels,
	}

	t.handle = lazy.New(t.create, dev.DeleteTexture)
	return t
}

func (t *Texture) create() (device.TextureHandle, error) {

	h, err := t.dev.CreateTexture(t.Desc, t.pixels)
	if err != nil {
		return 0, fmt.Errorf("failed to create texture '%s' (%dx%d): %w", t.Name, t.Desc.Width, t.Desc.Height, err)
	}

	if t.Name != "" {
		t.dev.ObjectLabel(device.ObjectKind_Texture, uint32(h), t.Name)
	}

	// Pixels live on the device now
	t.pixels = nil
	return h, nil
}

// FlippedPixels returns img as tightly packed non-premultiplied RGBA8 rows, bottom row first
func FlippedPixels(img image.Image) []byte {

	bounds := img.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	rowSize := 4 * bounds.Dx()
	out := make([]byte, 0, rowSize*bounds.Dy())
	for y := bounds.Dy() - 1; y >= 0; y-- {
		start := y * rgba.Stride
		out = append(out, rgba.Pix[start:start+rowSize]...)
	}

	return out
}

func (t *Texture) Handle() (device.TextureHandle, error) {
	return t.handle.Get()
}

func (t *Texture) Created() bool {
	return t.handle.Created()
}

// Bind binds the texture to a sampler slot, creating it if needed
func (t *Texture) Bind(slot uint32) error {

	h, err := t.handle.Get()
	if err != nil {
		return err
	}

	t.dev.BindTexture(slot, h)
	return nil
}

func (t *Texture) Size() (width, height uint32) {
	return t.Desc.Width, t.Desc.Height
}

func (t *Texture) Release() {
	t.handle.Release()
}
