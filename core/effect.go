package core

import (
	"fmt"

	"github.com/richinsley/forwardgl/graphics"
	"github.com/richinsley/forwardgl/shader"
)

// ImageEffect is a full viewport pass of a fragment shader, for post
// processing and copying textures. The fragment shader gets no varyings and
// works from gl_FragCoord.
type ImageEffect struct {
	ctx         *Context
	program     *Program
	vertexArray uint32
}

// NewImageEffect compiles fragmentSource against the screen triangle vertex
// shader.
func NewImageEffect(ctx *Context, fragmentSource string) (*ImageEffect, error) {
	program, err := NewProgram(ctx, shader.EffectVertex, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create image effect: %w", err)
	}
	vao, err := ctx.device.CreateVertexArray()
	if err != nil {
		program.Destroy()
		return nil, &graphics.ResourceError{Kind: "vertex array", Err: err}
	}
	graphics.Logger().Debug("image effect compiled", "program", program.id)
	return &ImageEffect{ctx: ctx, program: program, vertexArray: vao}, nil
}

// Program returns the effect's program, for setting uniforms outside Apply.
func (e *ImageEffect) Program() *Program { return e.program }

// Apply sets uniforms through fn, then draws the screen triangle into
// viewport of the bound framebuffer.
func (e *ImageEffect) Apply(states graphics.RenderStates, viewport graphics.Viewport, fn func(*Program) error) error {
	if e.vertexArray == 0 {
		return fmt.Errorf("failed to apply image effect: %w", graphics.ErrDestroyed)
	}
	e.program.Use()
	if fn != nil {
		if err := fn(e.program); err != nil {
			return err
		}
	}
	e.ctx.device.SetRenderStates(states)
	e.ctx.device.Viewport(viewport)
	e.ctx.bindVertexArray(e.vertexArray)
	e.ctx.device.DrawArrays(3)
	return nil
}

// Destroy deletes the program and the empty vertex array.
func (e *ImageEffect) Destroy() {
	if e.vertexArray == 0 {
		return
	}
	e.program.Destroy()
	e.ctx.forgetVertexArray(e.vertexArray)
	e.ctx.device.DeleteVertexArray(e.vertexArray)
	e.vertexArray = 0
}
