package main

import (
	"runtime"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/mozaik-game/mozaik"
)

const desiredFPS = 30

const (
	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
)

var fbSize mozaik.Size

func init() {
	runtime.LockOSThread()
}

type WinApp interface {
	Init() error
	IsRunning() bool
	OnKey(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey)
	OnMouseButton(button glfw.MouseButton, action glfw.Action, pos mozaik.Point)
	OnCursorPos(pos mozaik.Point)
	OnFramebufferSize(width, height int)
	NeedsRedraw() bool
	BgColor() (r, g, b, a float32)
	Render() error
	Update() error
	Close() error
}

// WithGL runs app inside a resizable GL window. Frames are redrawn only
// when the app reports a change; between frames the loop sleeps in
// WaitEventsTimeout, so glfw.PostEmptyEvent wakes it early.
func WithGL(windowTitle string, app WinApp) error {
	err := glfw.Init()
	if err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.AutoIconify, glfw.False)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	window, err := glfw.CreateWindow(defaultWindowWidth, defaultWindowHeight, windowTitle, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()
	framebufferSizeCallback := func(w *glfw.Window, width, height int) {
		fbSize.X = width
		fbSize.Y = height
		gl.Viewport(0, 0, int32(width), int32(height))
		app.OnFramebufferSize(width, height)
	}
	window.SetFramebufferSizeCallback(framebufferSizeCallback)
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		app.OnKey(key, scancode, action, mods)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		app.OnMouseButton(button, action, cursorToFb(w, x, y))
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		app.OnCursorPos(cursorToFb(w, x, y))
	})
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return err
	}
	width, height := glfw.GetCurrentContext().GetFramebufferSize()
	framebufferSizeCallback(nil, width, height)
	if err := app.Init(); err != nil {
		return err
	}
	defer app.Close()
	for app.IsRunning() {
		start := glfw.GetTime()
		if app.NeedsRedraw() {
			r, g, b, a := app.BgColor()
			gl.ClearColor(r, g, b, a)
			gl.Clear(gl.COLOR_BUFFER_BIT)
			if err := app.Render(); err != nil {
				return err
			}
			window.SwapBuffers()
		}
		elapsedSeconds := glfw.GetTime() - start
		frameSeconds := 1.0 / desiredFPS
		if frameSeconds > elapsedSeconds {
			glfw.WaitEventsTimeout(frameSeconds - elapsedSeconds)
		} else {
			glfw.PollEvents()
		}
		if err := app.Update(); err != nil {
			return err
		}
	}
	return nil
}

// cursorToFb maps window coordinates to framebuffer pixels, which differ
// on hidpi displays.
func cursorToFb(w *glfw.Window, x, y float64) mozaik.Point {
	ww, wh := w.GetSize()
	if ww < 1 || wh < 1 {
		return mozaik.Point{}
	}
	fw, fh := w.GetFramebufferSize()
	return mozaik.Point{
		X: int(x * float64(fw) / float64(ww)),
		Y: int(y * float64(fh) / float64(wh)),
	}
}
