// Package input tracks keyboard state across frames from SDL events.
//
// Call BeginFrame before polling the frame's events and feed every keyboard
// event to HandleKeyboardEvent. Clicks are only reported for the frame they happened in.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

type keyState struct {
	Key                 sdl.Keycode
	State               int
	IsPressedThisFrame  bool
	IsReleasedThisFrame bool
}

type Keyboard struct {
	keyMap map[sdl.Keycode]keyState
}

func NewKeyboard() *Keyboard {
	return &Keyboard{
		keyMap: make(map[sdl.Keycode]keyState),
	}
}

// BeginFrame clears the per frame state
func (k *Keyboard) BeginFrame() {

	for key, v := range k.keyMap {
		v.IsPressedThisFrame = false
		v.IsReleasedThisFrame = false
		k.keyMap[key] = v
	}
}

func (k *Keyboard) Clear() {
	clear(k.keyMap)
}

func (k *Keyboard) HandleKeyboardEvent(e *sdl.KeyboardEvent) {

	ks, ok := k.keyMap[e.Keysym.Sym]
	if !ok {
		ks = keyState{Key: e.Keysym.Sym}
	}

	ks.State = int(e.State)
	ks.IsPressedThisFrame = e.State == sdl.PRESSED && e.Repeat == 0
	ks.IsReleasedThisFrame = e.State == sdl.RELEASED && e.Repeat == 0

	k.keyMap[ks.Key] = ks
}

func (k *Keyboard) KeyClicked(key sdl.Keycode) bool {
	return k.keyMap[key].IsPressedThisFrame
}

func (k *Keyboard) KeyReleased(key sdl.Keycode) bool {
	return k.keyMap[key].IsReleasedThisFrame
}

func (k *Keyboard) KeyDown(key sdl.Keycode) bool {
	return k.keyMap[key].State == sdl.PRESSED
}

func (k *Keyboard) KeyUp(key sdl.Keycode) bool {
	return !k.KeyDown(key)
}
