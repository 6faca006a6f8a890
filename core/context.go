// Package core wraps a graphics.Device in programs, buffers, textures,
// surfaces, render targets and image effects, and keeps the caches those
// objects share.
//
// Everything in this package must be used from the goroutine owning the
// device context.
package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/cache"
	"github.com/richinsley/forwardgl/camera"
	"github.com/richinsley/forwardgl/graphics"
)

// ProgramPopulation is the lazily built set of programs shared by one
// class of consumers.
type ProgramPopulation = cache.Population[string, *Program]

// Context is a graphics device together with the resource caches shared by
// every object created on it. A *Context is a handle: copies of the pointer
// share the same caches and the same bound state.
type Context struct {
	device graphics.Device

	programs     *cache.Keyed[string, *Program]
	effects      *cache.Keyed[string, *ImageEffect]
	camera2D     *cache.Keyed[struct{}, *camera.Camera]
	dummyTexture *cache.Keyed[struct{}, *Texture2D]
	populations  *cache.Keyed[string, *ProgramPopulation]

	bound bindings
}

// bindings elides redundant binds. It is only touched from the device
// goroutine.
type bindings struct {
	vertexArray uint32
	program     uint32
}

// NewContext returns a context drawing through device.
func NewContext(device graphics.Device) *Context {
	return &Context{
		device:       device,
		programs:     cache.NewKeyed[string, *Program](),
		effects:      cache.NewKeyed[string, *ImageEffect](),
		camera2D:     cache.NewKeyed[struct{}, *camera.Camera](),
		dummyTexture: cache.NewKeyed[struct{}, *Texture2D](),
		populations:  cache.NewKeyed[string, *ProgramPopulation](),
	}
}

// Clone returns a handle to the same context. The caches and bound state
// are shared, not copied.
func (ctx *Context) Clone() *Context {
	return ctx
}

// Device returns the underlying device.
func (ctx *Context) Device() graphics.Device {
	return ctx.device
}

// Program calls fn with the program compiled from the given sources,
// compiling it on first use. Programs are keyed by their full source text
// and live until Release.
func (ctx *Context) Program(vertexSource, fragmentSource string, fn func(*Program) error) error {
	return ctx.programs.GetOrCreate(vertexSource+fragmentSource, func() (*Program, error) {
		return NewProgram(ctx, vertexSource, fragmentSource)
	}, fn)
}

// Effect calls fn with the image effect for fragmentSource, compiling it on
// first use.
func (ctx *Context) Effect(fragmentSource string, fn func(*ImageEffect) error) error {
	return ctx.effects.GetOrCreate(fragmentSource, func() (*ImageEffect, error) {
		return NewImageEffect(ctx, fragmentSource)
	}, fn)
}

// Camera2D calls fn with an orthographic camera mapping one world unit to
// one pixel of viewport, origin in the top left corner.
func (ctx *Context) Camera2D(viewport graphics.Viewport, fn func(*camera.Camera) error) error {
	return ctx.camera2D.Modify(struct{}{}, func() (*camera.Camera, error) {
		return camera.NewOrthographic(viewport, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{}, mgl32.Vec3{0, -1, 0}, 1, 0, 10)
	}, func(c *camera.Camera) error {
		c.SetViewport(viewport)
		if err := c.SetOrthographicProjection(float32(viewport.Height), 0, 10); err != nil {
			return err
		}
		w, h := float32(viewport.Width)*0.5, float32(viewport.Height)*0.5
		if err := c.SetView(mgl32.Vec3{w, h, -1}, mgl32.Vec3{w, h, 0}, mgl32.Vec3{0, -1, 0}); err != nil {
			return err
		}
		return fn(c)
	})
}

// UseTextureDummy binds a 1x1 white texture to the sampler name of
// program, for materials without a texture of their own.
func (ctx *Context) UseTextureDummy(program *Program, name string) error {
	return ctx.dummyTexture.GetOrCreate(struct{}{}, func() (*Texture2D, error) {
		return NewTexture2D(ctx, 1, 1, graphics.FormatRGBA8, graphics.TextureParams{Filter: graphics.FilterNearest}, []byte{255, 255, 255, 255})
	}, func(t *Texture2D) error {
		return program.UseTexture(name, t)
	})
}

// Population returns the program population of a consumer class, creating
// it on first use. Programs are destroyed when the last consumer lease is
// released.
func (ctx *Context) Population(class string) (*ProgramPopulation, error) {
	var p *ProgramPopulation
	err := ctx.populations.GetOrCreate(class, func() (*ProgramPopulation, error) {
		return cache.NewPopulation(func(slot string, program *Program) {
			graphics.Logger().Debug("releasing population program", "class", class, "slot", slot)
			program.Destroy()
		}), nil
	}, func(v *ProgramPopulation) error {
		p = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get population %s: %w", class, err)
	}
	return p, nil
}

// WriteScreen binds the default framebuffer, clears it and calls fn.
func (ctx *Context) WriteScreen(viewport graphics.Viewport, clear graphics.ClearState, fn func() error) error {
	ctx.device.BindFramebuffer(0)
	ctx.device.Viewport(viewport)
	ctx.device.Clear(clear)
	return fn()
}

// ReadScreen returns the RGBA pixels of viewport on the default framebuffer,
// bottom row first.
func (ctx *Context) ReadScreen(viewport graphics.Viewport) []byte {
	ctx.device.BindFramebuffer(0)
	return ctx.device.ReadPixels(viewport)
}

// ResetBindings forgets the bound vertex array and program. Call it after
// binding objects on the device directly.
func (ctx *Context) ResetBindings() {
	ctx.bound = bindings{}
}

// Release destroys every cached program, effect and texture, including the
// programs of populations that still have consumers. Those consumers can
// still be destroyed afterwards but can no longer render. The context must
// not be used otherwise after Release.
func (ctx *Context) Release() {
	ctx.effects.Release(func(_ string, e *ImageEffect) { e.Destroy() })
	ctx.programs.Release(func(_ string, p *Program) { p.Destroy() })
	ctx.dummyTexture.Release(func(_ struct{}, t *Texture2D) { t.Destroy() })
	ctx.camera2D.Release(nil)
	ctx.populations.Release(func(class string, p *ProgramPopulation) {
		if n := p.Count(); n > 0 {
			graphics.Logger().Warn("population still leased at release", "class", class, "leases", n)
		}
		p.Close()
	})
	ctx.ResetBindings()
}

func (ctx *Context) bindVertexArray(id uint32) {
	if ctx.bound.vertexArray == id {
		return
	}
	ctx.device.BindVertexArray(id)
	ctx.bound.vertexArray = id
}

func (ctx *Context) forgetVertexArray(id uint32) {
	if ctx.bound.vertexArray == id {
		ctx.bound.vertexArray = 0
	}
}

func (ctx *Context) useProgram(id uint32) {
	if ctx.bound.program == id {
		return
	}
	ctx.device.UseProgram(id)
	ctx.bound.program = id
}

func (ctx *Context) forgetProgram(id uint32) {
	if ctx.bound.program == id {
		ctx.bound.program = 0
	}
}
