// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build cgo

package wsi

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW must only be used from the main thread.
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		slog.Warn("wsi: GLFW not available", "err", err)
		initDummy()
		return
	}
	initGLFW()
}

func initGLFW() {
	newWindow = newWindowGLFW
	dispatch = dispatchGLFW
	setAppName = setAppNameGLFW
	platform = GLFW
}

// windowGLFW implements Window.
type windowGLFW struct {
	win    *glfw.Window
	title  string
	frames frameQueue
}

// newWindowGLFW creates a new window with an OpenGL 4.1
// core context.
func newWindowGLFW(width, height int, title string) (Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}
	w := &windowGLFW{win: win, title: title}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	win.SetCloseCallback(func(*glfw.Window) {
		if windowHandler != nil {
			windowHandler.WindowClose(w)
		}
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if windowHandler != nil {
			windowHandler.WindowResize(w, width, height)
		}
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if keyboardHandler == nil {
			return
		}
		if focused {
			keyboardHandler.KeyboardIn(w)
		} else {
			keyboardHandler.KeyboardOut(w)
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if keyboardHandler != nil && action != glfw.Repeat {
			keyboardHandler.KeyboardKey(keyFrom(int(key)), action == glfw.Press, modFrom(mods))
		}
	})
	win.SetCursorEnterCallback(func(gw *glfw.Window, entered bool) {
		if pointerHandler == nil {
			return
		}
		if entered {
			x, y := gw.GetCursorPos()
			pointerHandler.PointerIn(w, int(x), int(y))
		} else {
			pointerHandler.PointerOut(w)
		}
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if pointerHandler != nil {
			pointerHandler.PointerMotion(int(x), int(y))
		}
	})
	win.SetMouseButtonCallback(func(gw *glfw.Window, btn glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if pointerHandler != nil {
			x, y := gw.GetCursorPos()
			pointerHandler.PointerButton(buttonFrom(btn), action == glfw.Press, int(x), int(y))
		}
	})
	return w, nil
}

// Map makes the window visible.
func (w *windowGLFW) Map() error {
	w.win.Show()
	return nil
}

// Unmap hides the window.
func (w *windowGLFW) Unmap() error {
	w.win.Hide()
	return nil
}

// Resize resizes the window.
// width and height are in screen coordinates.
func (w *windowGLFW) Resize(width, height int) error {
	w.win.SetSize(width, height)
	return nil
}

// SetTitle sets the window's title.
func (w *windowGLFW) SetTitle(title string) error {
	w.win.SetTitle(title)
	w.title = title
	return nil
}

// Close closes the window.
func (w *windowGLFW) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	w.frames = frameQueue{}
	closeWindow(w)
}

func (w *windowGLFW) Width() int {
	width, _ := w.win.GetFramebufferSize()
	return width
}

func (w *windowGLFW) Height() int {
	_, height := w.win.GetFramebufferSize()
	return height
}

func (w *windowGLFW) Title() string { return w.title }

// ScreenSize returns the size of the primary monitor's
// current video mode.
func (w *windowGLFW) ScreenSize() (width, height int) {
	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return w.Width(), w.Height()
	}
	mode := mon.GetVideoMode()
	return mode.Width, mode.Height
}

func (w *windowGLFW) MakeCurrent() { w.win.MakeContextCurrent() }

func (w *windowGLFW) SwapBuffers() { w.win.SwapBuffers() }

func (w *windowGLFW) RequestFrame(fn func(time.Duration)) { w.frames.push(fn) }

// dispatchGLFW polls for events, then runs the pending
// frame callbacks of every window.
func dispatchGLFW() {
	glfw.PollEvents()
	for _, win := range Windows() {
		w := win.(*windowGLFW)
		if len(w.frames.fns) == 0 {
			continue
		}
		w.MakeCurrent()
		if w.frames.run(time.Since(epoch)) && w.win != nil {
			w.SwapBuffers()
		}
	}
}

// setAppNameGLFW does nothing, since GLFW has no
// application identifier.
func setAppNameGLFW(string) {}

func modFrom(mods glfw.ModifierKey) (m Modifier) {
	if mods&glfw.ModCapsLock != 0 {
		m |= ModCapsLock
	}
	if mods&glfw.ModShift != 0 {
		m |= ModShift
	}
	if mods&glfw.ModControl != 0 {
		m |= ModCtrl
	}
	if mods&glfw.ModAlt != 0 {
		m |= ModAlt
	}
	return
}

func buttonFrom(btn glfw.MouseButton) Button {
	switch btn {
	case glfw.MouseButtonLeft:
		return BtnLeft
	case glfw.MouseButtonRight:
		return BtnRight
	case glfw.MouseButtonMiddle:
		return BtnMiddle
	case glfw.MouseButton4:
		return BtnBackward
	case glfw.MouseButton5:
		return BtnForward
	}
	return BtnUnknown
}
