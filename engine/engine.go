// Package engine owns the SDL window and the OpenGL context frames are presented to.
package engine

import (
	"fmt"
	"runtime"

	"github.com/bloeys/nrender/assert"
	"github.com/bloeys/nrender/device"
	"github.com/bloeys/nrender/gldevice"
	"github.com/bloeys/nrender/input"
	"github.com/bloeys/nrender/logging"
	"github.com/veandco/go-sdl2/sdl"
)

var isInited = false

const clearAll = device.ClearMask_Color | device.ClearMask_Depth

type WindowFlags uint32

const (
	WindowFlags_FULLSCREEN         WindowFlags = sdl.WINDOW_FULLSCREEN
	WindowFlags_OPENGL             WindowFlags = sdl.WINDOW_OPENGL
	WindowFlags_HIDDEN             WindowFlags = sdl.WINDOW_HIDDEN
	WindowFlags_BORDERLESS         WindowFlags = sdl.WINDOW_BORDERLESS
	WindowFlags_RESIZABLE          WindowFlags = sdl.WINDOW_RESIZABLE
	WindowFlags_ALLOW_HIGHDPI      WindowFlags = sdl.WINDOW_ALLOW_HIGHDPI
	WindowFlags_FULLSCREEN_DESKTOP WindowFlags = sdl.WINDOW_FULLSCREEN_DESKTOP
)

type Window struct {
	SDLWin         *sdl.Window
	GlCtx          sdl.GLContext
	Device         *gldevice.GL
	Keyboard       *input.Keyboard
	EventCallbacks []func(sdl.Event)
}

// PollQuit handles pending window events and reports whether the window was
// asked to close, either by the OS or by pressing escape
func (w *Window) PollQuit() bool {

	w.Keyboard.BeginFrame()

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {

		//Fire callbacks
		for i := 0; i < len(w.EventCallbacks); i++ {
			w.EventCallbacks[i](event)
		}

		switch e := event.(type) {

		case *sdl.KeyboardEvent:
			w.Keyboard.HandleKeyboardEvent(e)

		case *sdl.WindowEvent:
			// Keys released while unfocused never send an event
			if e.Event == sdl.WINDOWEVENT_FOCUS_LOST {
				w.Keyboard.Clear()
			}

		case *sdl.QuitEvent:
			quit = true
		}
	}

	return quit || w.Keyboard.KeyClicked(sdl.K_ESCAPE)
}

// Size returns the drawable size in pixels, which may differ from the window size on high dpi displays
func (w *Window) Size() (width, height uint32) {

	fbWidth, fbHeight := w.SDLWin.GLGetDrawableSize()
	if fbWidth <= 0 || fbHeight <= 0 {
		return 0, 0
	}

	return uint32(fbWidth), uint32(fbHeight)
}

func (w *Window) Swap() {
	w.SDLWin.GLSwap()
}

func (w *Window) Destroy() error {
	sdl.GLDeleteContext(w.GlCtx)
	return w.SDLWin.Destroy()
}

// Init initializes SDL and locks the calling goroutine to its thread, which all
// window and GL calls must then be made from
func Init() error {

	isInited = true

	runtime.LockOSThread()
	return initSDL()
}

func Quit() {
	sdl.Quit()
}

func initSDL() error {

	err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO)
	if err != nil {
		return err
	}

	sdl.ShowCursor(1)

	sdl.GLSetAttribute(sdl.MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.MINOR_VERSION, 1)

	sdl.GLSetAttribute(sdl.GL_RED_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_GREEN_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_BLUE_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	sdl.GLSetAttribute(sdl.GL_FRAMEBUFFER_SRGB_CAPABLE, 1)

	// Allows us to do MSAA
	sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
	sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, 4)

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	return nil
}

func CreateOpenGLWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, x, y, width, height, WindowFlags_OPENGL|flags)
}

func CreateOpenGLWindowCentered(title string, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, WindowFlags_OPENGL|flags)
}

func createWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {

	assert.T(isInited, "engine.Init() was not called!")

	sdlWin, err := sdl.CreateWindow(title, x, y, width, height, uint32(flags))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	win := &Window{
		SDLWin:         sdlWin,
		Keyboard:       input.NewKeyboard(),
		EventCallbacks: make([]func(sdl.Event), 0),
	}

	win.GlCtx, err = sdlWin.GLCreateContext()
	if err != nil {
		sdlWin.Destroy()
		return nil, fmt.Errorf("failed to create OpenGL context: %w", err)
	}

	win.Device, err = gldevice.New()
	if err != nil {
		win.Destroy()
		return nil, err
	}

	// Get rid of the blinding white startup screen (unfortunately there is still one frame of white)
	win.Device.ClearColor(0, 0, 0, 1)
	win.Device.Clear(clearAll)
	sdlWin.GLSwap()

	w, h := win.Size()
	logging.InfoLog.Printf("Created window '%s' with a %dx%d drawable\n", title, w, h)
	return win, nil
}

func SetVSync(enabled bool) {

	interval := 0
	if enabled {
		interval = 1
	}

	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logging.WarnLog.Printf("Failed to set vsync to %v. Err: %s\n", enabled, err)
	}
}
