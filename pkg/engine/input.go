package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// InputHandler tracks keyboard state with per-frame edge detection
type InputHandler struct {
	window       *glfw.Window
	currentKeys  map[glfw.Key]bool
	previousKeys map[glfw.Key]bool
}

// NewInputHandler creates a keyboard input handler for the window
func NewInputHandler(window *glfw.Window) *InputHandler {
	return &InputHandler{
		window:       window,
		currentKeys:  make(map[glfw.Key]bool),
		previousKeys: make(map[glfw.Key]bool),
	}
}

// Update samples the keyboard once per frame
func (ih *InputHandler) Update() {
	ih.previousKeys = ih.currentKeys
	ih.currentKeys = make(map[glfw.Key]bool, len(ih.previousKeys))
	for _, key := range trackedKeys {
		ih.currentKeys[key] = ih.window.GetKey(key) == glfw.Press
	}
}

// Down reports whether a key is held this frame
func (ih *InputHandler) Down(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// Pressed reports whether a key went down this frame
func (ih *InputHandler) Pressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// effectKeys maps the number row onto the effect toggles
var effectKeys = map[glfw.Key]Effect{
	glfw.Key1: EffectTint,
	glfw.Key2: EffectBlur,
	glfw.Key3: EffectGaussianBlur,
	glfw.Key4: EffectRetro,
	glfw.Key5: EffectUnderwater,
	glfw.Key6: EffectSpiral,
	glfw.Key7: EffectDistort,
	glfw.Key8: EffectBloom,
}

// trackedKeys is every key the engine reacts to
var trackedKeys = []glfw.Key{
	glfw.KeyEscape,
	glfw.Key0, glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4,
	glfw.Key5, glfw.Key6, glfw.Key7, glfw.Key8,
	glfw.KeyComma, glfw.KeyPeriod,
	glfw.KeyK, glfw.KeyL,
	glfw.KeyMinus, glfw.KeyEqual,
	glfw.KeyLeftBracket, glfw.KeyRightBracket,
	glfw.KeyP, glfw.KeyF12,
}
