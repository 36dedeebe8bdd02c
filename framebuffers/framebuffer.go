// Package framebuffers holds named offscreen render targets with lazily created attachments.
package framebuffers

import (
	"errors"
	"fmt"

	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/lazy"
	"github.com/bloeys/nrender/textures"
)

var (
	// ErrIncomplete is returned when the device can not render to a target's attachments
	ErrIncomplete = errors.New("framebuffer is not complete")

	// ErrNoAttachments is returned when binding, clearing or presenting a target that has
	// no attachment the operation needs
	ErrNoAttachments = errors.New("framebuffer has no attachments")
)

// Target is a named framebuffer with at most one color and one depth attachment.
// Attachments are created on first request and keep their size after that.
type Target struct {
	Name string

	reg    *Registry
	handle *lazy.Resource[device.FramebufferHandle]

	color *textures.Texture
	depth *textures.Texture
}

func newTarget(reg *Registry, name string) *Target {

	t := &Target{
		Name: name,
		reg:  reg,
	}

	t.handle = lazy.New(func() (device.FramebufferHandle, error) {

		h, err := reg.dev.CreateFramebuffer()
		if err != nil {
			return 0, fmt.Errorf("failed to create framebuffer '%s': %w", name, err)
		}

		reg.dev.ObjectLabel(device.ObjectKind_Framebuffer, uint32(h), name)
		return h, nil
	}, reg.dev.DeleteFramebuffer)

	return t
}

// Color returns the color attachment, creating it at display size if needed
func (t *Target) Color() (*textures.Texture, error) {
	w, h := t.reg.display.Size()
	return t.ColorSized(w, h)
}

// ColorSized returns the color attachment, creating it at width x height if needed.
// An existing attachment is returned as is, whatever its size.
func (t *Target) ColorSized(width, height uint32) (*textures.Texture, error) {

	if t.color != nil {
		return t.color, nil
	}

	tex, err := t.attach(device.Attachment_Color0, device.TextureDesc{
		Width:     width,
		Height:    height,
		Format:    device.TextureFormat_RGBA32F,
		MinFilter: device.TextureFilter_Linear,
		MagFilter: device.TextureFilter_Linear,
	})
	if err != nil {
		return nil, err
	}

	t.color = tex
	return tex, nil
}

// Depth returns the depth attachment, creating it at display size if needed
func (t *Target) Depth() (*textures.Texture, error) {
	w, h := t.reg.display.Size()
	return t.DepthSized(w, h)
}

func (t *Target) DepthSized(width, height uint32) (*textures.Texture, error) {

	if t.depth != nil {
		return t.depth, nil
	}

	tex, err := t.attach(device.Attachment_Depth, device.TextureDesc{
		Width:     width,
		Height:    height,
		Format:    device.TextureFormat_Depth32,
		MinFilter: device.TextureFilter_Nearest,
		MagFilter: device.TextureFilter_Nearest,
	})
	if err != nil {
		return nil, err
	}

	t.depth = tex
	return tex, nil
}

func (t *Target) attach(a device.Attachment, desc device.TextureDesc) (*textures.Texture, error) {

	fb, err := t.handle.Get()
	if err != nil {
		return nil, err
	}

	tex := textures.New(t.reg.dev, fmt.Sprintf("%s:%s", t.Name, attachmentName(a)), desc)
	texHandle, err := tex.Handle()
	if err != nil {
		return nil, err
	}

	dev := t.reg.dev
	dev.BindFramebuffer(fb)
	err = dev.AttachTexture(fb, a, texHandle)

	// Attaching must not change what is being rendered to
	dev.BindFramebuffer(t.reg.bound)

	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: '%s' after attaching %s (%dx%d): %w", ErrIncomplete, t.Name, attachmentName(a), desc.Width, desc.Height, err)
	}

	return tex, nil
}

func attachmentName(a device.Attachment) string {

	switch a {
	case device.Attachment_Color0:
		return "color"
	case device.Attachment_Depth:
		return "depth"
	default:
		return fmt.Sprintf("attachment(%d)", int32(a))
	}
}

// ColorTexture returns the color attachment or nil
func (t *Target) ColorTexture() *textures.Texture {
	return t.color
}

// DepthTexture returns the depth attachment or nil
func (t *Target) DepthTexture() *textures.Texture {
	return t.depth
}

func (t *Target) HasColorAttachment() bool {
	return t.color != nil
}

func (t *Target) HasDepthAttachment() bool {
	return t.depth != nil
}

// Size returns the size of the color attachment, or of the depth attachment if there is no color
func (t *Target) Size() (width, height uint32) {

	if t.color != nil {
		return t.color.Size()
	}

	if t.depth != nil {
		return t.depth.Size()
	}

	return 0, 0
}

// Bind makes the target the draw destination and sets the viewport to its size
func (t *Target) Bind() error {

	if t.color == nil && t.depth == nil {
		return fmt.Errorf("%w: can not bind '%s'", ErrNoAttachments, t.Name)
	}

	fb, err := t.handle.Get()
	if err != nil {
		return err
	}

	w, h := t.Size()
	t.reg.bind(fb)
	t.reg.dev.Viewport(0, 0, w, h)
	return nil
}

// Unbind makes the display the draw destination again
func (t *Target) Unbind() {
	t.reg.unbind()
}

// Clear binds the target and clears the attachments it has. Depth is cleared to the far
// plane, which is 0 with inverse depth. The device masks depth clears like depth writes,
// so depth writes are turned on first and stay on.
func (t *Target) Clear(c colors.Color) error {

	if err := t.Bind(); err != nil {
		return err
	}

	dev := t.reg.dev

	var mask device.ClearMask
	if t.color != nil {
		dev.ClearColor(c.R, c.G, c.B, c.A)
		mask |= device.ClearMask_Color
	}

	if t.depth != nil {
		t.reg.states.DepthMask(true)

		if t.reg.opts.InverseDepth {
			dev.ClearDepth(0)
		} else {
			dev.ClearDepth(1)
		}
		mask |= device.ClearMask_Depth
	}

	dev.Clear(mask)
	return nil
}

// Present copies the color attachment onto the display, scaled to the display size
func (t *Target) Present() error {

	if t.color == nil {
		return fmt.Errorf("%w: '%s' has no color attachment to present", ErrNoAttachments, t.Name)
	}

	fb, err := t.handle.Get()
	if err != nil {
		return err
	}

	srcW, srcH := t.color.Size()
	dstW, dstH := t.reg.display.Size()
	t.reg.dev.BlitToDefault(fb, srcW, srcH, dstW, dstH)
	t.reg.unbind()
	return nil
}

// Release deletes the attachments and the framebuffer
func (t *Target) Release() {

	if t.color != nil {
		t.color.Release()
		t.color = nil
	}

	if t.depth != nil {
		t.depth.Release()
		t.depth = nil
	}

	if t.handle.Created() {
		if h, _ := t.handle.Get(); h == t.reg.bound {
			t.reg.bind(device.DefaultFramebuffer)
		}
	}

	t.handle.Release()
}
