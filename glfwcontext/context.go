// Package glfwcontext opens the viewer window and turns GLFW events into
// camera input.
package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/forwardgl/graphics"
	options "github.com/richinsley/forwardgl/options"
)

// Input is the pointer activity since the previous call to Context.Input,
// in framebuffer pixels.
type Input struct {
	// DragX and DragY are the cursor movement while the left button is held.
	DragX, DragY float32
	Scroll       float32
}

// Context owns a GLFW window and its OpenGL 4.1 core context. Events are
// accumulated by callbacks during EndFrame and drained by Input.
type Context struct {
	window *glfw.Window

	// cursor position in framebuffer pixels, valid once tracking is set
	cursorX, cursorY float64
	tracking         bool
	dragging         bool
	pending          Input

	held     map[glfw.Key]bool
	bindings map[glfw.Key]func()
}

var coreProfileHints = []struct {
	hint  glfw.Hint
	value int
}{
	{glfw.ContextVersionMajor, 4},
	{glfw.ContextVersionMinor, 1},
	{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
	{glfw.OpenGLForwardCompatible, glfw.True},
	{glfw.DepthBits, 24},
}

// New creates a window sized from options and makes its context current.
// A hidden window still provides the context for offscreen recording.
func New(options *options.ViewerOptions, visible bool) (*Context, error) {
	glfw.DefaultWindowHints()
	for _, h := range coreProfileHints {
		glfw.WindowHint(h.hint, h.value)
	}
	visibility := glfw.False
	if visible {
		visibility = glfw.True
	}
	glfw.WindowHint(glfw.Visible, visibility)
	glfw.WindowHint(glfw.Resizable, visibility)

	win, err := glfw.CreateWindow(*options.Width, *options.Height, "forwardgl", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %dx%d window: %w", *options.Width, *options.Height, err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	c := &Context{
		window:   win,
		held:     make(map[glfw.Key]bool),
		bindings: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.onKey)
	win.SetMouseButtonCallback(c.onMouseButton)
	win.SetCursorPosCallback(c.onCursor)
	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		c.pending.Scroll += float32(yoff)
	})
	return c, nil
}

// RegisterKeyCallback runs f each time key is pressed. Escape always closes
// the window.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.bindings[key] = f
}

func (c *Context) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		c.held[key] = true
		if key == glfw.KeyEscape {
			w.SetShouldClose(true)
			return
		}
		if f := c.bindings[key]; f != nil {
			f()
		}
	case glfw.Release:
		delete(c.held, key)
	}
}

func (c *Context) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button == glfw.MouseButtonLeft {
		c.dragging = action == glfw.Press
	}
}

// onCursor receives window coordinates; they are scaled to framebuffer
// pixels so drags feel the same on high density displays.
func (c *Context) onCursor(w *glfw.Window, x, y float64) {
	fbWidth, fbHeight := w.GetFramebufferSize()
	winWidth, winHeight := w.GetSize()
	if winWidth > 0 && winHeight > 0 {
		x *= float64(fbWidth) / float64(winWidth)
		y *= float64(fbHeight) / float64(winHeight)
	}
	if c.tracking && c.dragging {
		c.pending.DragX += float32(x - c.cursorX)
		c.pending.DragY += float32(y - c.cursorY)
	}
	c.cursorX, c.cursorY, c.tracking = x, y, true
}

// KeyDown reports whether key is held.
func (c *Context) KeyDown(key glfw.Key) bool {
	return c.held[key]
}

// Input returns and resets the accumulated pointer activity.
func (c *Context) Input() Input {
	in := c.pending
	c.pending = Input{}
	return in
}

func (c *Context) MakeCurrent()                   { c.window.MakeContextCurrent() }
func (c *Context) ShouldClose() bool              { return c.window.ShouldClose() }
func (c *Context) GetFramebufferSize() (int, int) { return c.window.GetFramebufferSize() }
func (c *Context) Time() float64                  { return glfw.GetTime() }

// EndFrame presents the frame and dispatches pending window events.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

var _ graphics.Window = (*Context)(nil)

// InitGraphics initializes GLFW on the calling goroutine, which stays
// locked to its OS thread for every later GL call.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW %s initialized", glfw.GetVersionString())
	return nil
}

// TerminateGraphics destroys remaining windows and releases GLFW.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW terminated")
}
