package framebuffers_test

import (
	"bytes"
	"testing"

	"github.com/bloeys/nrender/colors"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/device/devicetest"
	"github.com/bloeys/nrender/framebuffers"
	"github.com/bloeys/nrender/gpustate"
	"github.com/bloeys/nrender/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type display struct {
	w, h uint32
}

func (d display) Size() (uint32, uint32) {
	return d.w, d.h
}

func setup(t *testing.T, opts framebuffers.Options) (*devicetest.Recorder, *framebuffers.Registry) {
	t.Helper()

	rec, _, reg := setupWithStates(t, opts)
	return rec, reg
}

func setupWithStates(t *testing.T, opts framebuffers.Options) (*devicetest.Recorder, *gpustate.Cache, *framebuffers.Registry) {
	t.Helper()

	logging.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { logging.SetOutput(nil) })

	rec := devicetest.NewRecorder()
	states := gpustate.NewCache(rec, gpustate.Options{InverseDepth: opts.InverseDepth})
	return rec, states, framebuffers.NewRegistry(rec, display{w: 800, h: 600}, states, opts)
}

func TestGetReturnsSameTarget(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})

	a := reg.Get("#main")
	assert.Same(t, a, reg.Get("#main"))
	assert.NotSame(t, a, reg.Get("#out"))
	assert.Equal(t, []string{"#main", "#out"}, reg.Names())

	// Nothing is created until an attachment is requested
	assert.Zero(t, rec.Count("CreateFramebuffer"))
	assert.Zero(t, rec.Count("CreateTexture"))
}

func TestAttachmentsAreIdempotent(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})
	target := reg.Get("#main")

	c1, err := target.ColorSized(64, 64)
	require.NoError(t, err)

	c2, err := target.ColorSized(128, 128)
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	c3, err := target.Color()
	require.NoError(t, err)
	assert.Same(t, c1, c3)

	w, h := c1.Size()
	assert.Equal(t, uint32(64), w)
	assert.Equal(t, uint32(64), h)
	assert.Equal(t, 1, rec.Count("CreateTexture"))
	assert.Equal(t, 1, rec.Count("CreateFramebuffer"))

	d1, err := target.Depth()
	require.NoError(t, err)
	d2, err := target.DepthSized(1, 1)
	require.NoError(t, err)
	assert.Same(t, d1, d2)
	assert.Equal(t, 2, rec.Count("CreateTexture"))

	// Depth defaults to the display size
	w, h = d1.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)

	assert.Equal(t, device.TextureFormat_RGBA32F, c1.Desc.Format)
	assert.Equal(t, device.TextureFormat_Depth32, d1.Desc.Format)

	fb := reg.Get("#main")
	assert.Same(t, c1, fb.ColorTexture())
	assert.Same(t, d1, fb.DepthTexture())
}

func TestAttachmentsRegisteredWithDevice(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})
	target := reg.Get("#main")

	color, err := target.Color()
	require.NoError(t, err)
	colorHandle, err := color.Handle()
	require.NoError(t, err)

	attaches := rec.Named("AttachTexture")
	require.Len(t, attaches, 1)
	fb := attaches[0].Args[0].(device.FramebufferHandle)

	assert.Equal(t, colorHandle, rec.FramebufferAttachment(fb, device.Attachment_Color0))
	assert.Equal(t, "#main", rec.Label(device.ObjectKind_Framebuffer, uint32(fb)))

	// Attaching leaves the display bound
	assert.Equal(t, device.DefaultFramebuffer, rec.BoundFramebuffer())
}

func TestAttachRestoresBoundTarget(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})

	main := reg.Get("#main")
	_, err := main.ColorSized(32, 32)
	require.NoError(t, err)
	require.NoError(t, main.Bind())
	bound := rec.BoundFramebuffer()

	_, err = reg.Get("#other").Color()
	require.NoError(t, err)
	assert.Equal(t, bound, rec.BoundFramebuffer())
}

func TestIncompleteFramebuffer(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})
	rec.IncompleteFramebuffers = true

	target := reg.Get("#main")
	tex, err := target.Color()
	assert.Nil(t, tex)
	assert.ErrorIs(t, err, framebuffers.ErrIncomplete)
	assert.ErrorIs(t, err, device.ErrIncompleteFramebuffer)

	assert.False(t, target.HasColorAttachment())
	assert.Zero(t, rec.Live(device.ObjectKind_Texture))

	// A later attempt may succeed
	rec.IncompleteFramebuffers = false
	tex, err = target.Color()
	require.NoError(t, err)
	assert.NotNil(t, tex)
}

func TestNoAttachments(t *testing.T) {

	_, reg := setup(t, framebuffers.Options{})
	target := reg.Get("#empty")

	assert.ErrorIs(t, target.Bind(), framebuffers.ErrNoAttachments)
	assert.ErrorIs(t, target.Clear(colors.Black), framebuffers.ErrNoAttachments)
	assert.ErrorIs(t, target.Present(), framebuffers.ErrNoAttachments)

	w, h := target.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestBindSetsViewport(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})
	target := reg.Get("#small")

	_, err := target.ColorSized(64, 32)
	require.NoError(t, err)

	require.NoError(t, target.Bind())
	assert.NotEqual(t, device.DefaultFramebuffer, rec.BoundFramebuffer())
	assert.Equal(t, [4]int32{0, 0, 64, 32}, rec.LastViewport())

	target.Unbind()
	assert.Equal(t, device.DefaultFramebuffer, rec.BoundFramebuffer())
	assert.Equal(t, [4]int32{0, 0, 800, 600}, rec.LastViewport())
}

func TestClear(t *testing.T) {

	tests := []struct {
		name         string
		inverseDepth bool
		depth        float32
	}{
		{name: "standard", inverseDepth: false, depth: 1},
		{name: "inverse", inverseDepth: true, depth: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			rec, reg := setup(t, framebuffers.Options{InverseDepth: tt.inverseDepth})
			target := reg.Get("#main")

			_, err := target.Color()
			require.NoError(t, err)
			_, err = target.Depth()
			require.NoError(t, err)

			require.NoError(t, target.Clear(colors.Red))

			clearDepth := rec.Named("ClearDepth")
			require.Len(t, clearDepth, 1)
			assert.Equal(t, tt.depth, clearDepth[0].Args[0])

			clearColor := rec.Named("ClearColor")
			require.Len(t, clearColor, 1)
			assert.Equal(t, []any{colors.Red.R, colors.Red.G, colors.Red.B, colors.Red.A}, clearColor[0].Args)

			clears := rec.Named("Clear")
			require.Len(t, clears, 1)
			assert.Equal(t, device.ClearMask_Color|device.ClearMask_Depth, clears[0].Args[0])
		})
	}
}

func TestClearEnablesDepthWrites(t *testing.T) {

	rec, states, reg := setupWithStates(t, framebuffers.Options{})
	target := reg.Get("#main")
	_, err := target.Depth()
	require.NoError(t, err)

	b, err := gpustate.NewState().NoDepthWrite().Bind(states)
	require.NoError(t, err)
	require.NoError(t, b.Release())

	rec.Reset()
	require.NoError(t, target.Clear(colors.Black))

	masks := rec.Named("DepthMask")
	require.Len(t, masks, 1)
	assert.Equal(t, []any{true}, masks[0].Args)
	assert.Less(t, callIndex(rec, "DepthMask"), callIndex(rec, "Clear"))

	// Already on, so the next clear sends nothing
	require.NoError(t, target.Clear(colors.Black))
	assert.Equal(t, 1, rec.Count("DepthMask"))
}

func callIndex(rec *devicetest.Recorder, name string) int {
	for i, c := range rec.Calls {
		if c.Name == name {
			return i
		}
	}

	return -1
}

func TestClearColorOnly(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})
	target := reg.Get("#main")

	_, err := target.Color()
	require.NoError(t, err)
	require.NoError(t, target.Clear(colors.Black))

	assert.Zero(t, rec.Count("ClearDepth"))
	clears := rec.Named("Clear")
	require.Len(t, clears, 1)
	assert.Equal(t, device.ClearMask_Color, clears[0].Args[0])
}

func TestPresent(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})
	target := reg.Get("#main")

	_, err := target.ColorSized(400, 300)
	require.NoError(t, err)
	require.NoError(t, target.Bind())
	require.NoError(t, target.Present())

	blits := rec.Named("BlitToDefault")
	require.Len(t, blits, 1)
	assert.Equal(t, []any{uint32(400), uint32(300), uint32(800), uint32(600)}, blits[0].Args[1:])
	assert.Equal(t, device.DefaultFramebuffer, rec.BoundFramebuffer())
}

func TestRelease(t *testing.T) {

	rec, reg := setup(t, framebuffers.Options{})

	for _, name := range []string{"#a", "#b"} {
		target := reg.Get(name)
		_, err := target.Color()
		require.NoError(t, err)
		_, err = target.Depth()
		require.NoError(t, err)
	}

	require.NoError(t, reg.Get("#a").Bind())
	assert.Equal(t, 2, rec.Live(device.ObjectKind_Framebuffer))
	assert.Equal(t, 4, rec.Live(device.ObjectKind_Texture))

	reg.Release()
	assert.Zero(t, rec.Live(device.ObjectKind_Framebuffer))
	assert.Zero(t, rec.Live(device.ObjectKind_Texture))
	assert.Equal(t, device.DefaultFramebuffer, rec.BoundFramebuffer())
	assert.Empty(t, reg.Names())
	assert.False(t, reg.Has("#a"))
}
