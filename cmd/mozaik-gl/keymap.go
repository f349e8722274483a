package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type KeyMap map[string]func()

func CreateKeyMap() KeyMap {
	return KeyMap{}
}

func (km KeyMap) Bind(key string, f func()) {
	km[key] = f
}

func (km KeyMap) HandleKey(key string) bool {
	if f, ok := km[key]; ok {
		f()
		return true
	}
	return false
}

// KeyName encodes a key event as a bindable name like "s", "Escape" or
// "C-S-p". Modifier keys on their own yield "".
func KeyName(key glfw.Key, scancode int, mods glfw.ModifierKey) string {
	var name string
	switch key {
	case glfw.KeyLeftShift, glfw.KeyLeftControl, glfw.KeyLeftAlt, glfw.KeyLeftSuper:
		return ""
	case glfw.KeyRightShift, glfw.KeyRightControl, glfw.KeyRightAlt, glfw.KeyRightSuper:
		return ""
	case glfw.KeySpace:
		name = "Space"
	case glfw.KeyEscape:
		name = "Escape"
	case glfw.KeyEnter:
		name = "Enter"
	case glfw.KeyTab:
		name = "Tab"
	case glfw.KeyBackspace:
		name = "Backspace"
	default:
		name = glfw.GetKeyName(key, scancode)
		if name == "" {
			return ""
		}
	}
	if mods&glfw.ModShift != 0 {
		name = "S-" + name
	}
	if mods&glfw.ModAlt != 0 {
		name = "M-" + name
	}
	if mods&glfw.ModControl != 0 {
		name = "C-" + name
	}
	return name
}
