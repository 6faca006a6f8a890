package core

import (
	"errors"
	"fmt"

	"github.com/richinsley/forwardgl/graphics"
)

// RenderTarget is a framebuffer rendering into a color texture, a depth
// texture or both.
type RenderTarget struct {
	ctx    *Context
	id     uint32
	color  *Texture2D
	depth  *Texture2D
	width  int
	height int
	owned  bool
}

// NewRenderTarget attaches color and depth, either of which may be nil.
// Both must have the same size. The textures stay owned by the caller.
func NewRenderTarget(ctx *Context, color, depth *Texture2D) (*RenderTarget, error) {
	if color == nil && depth == nil {
		return nil, &graphics.ResourceError{Kind: "render target", Err: errors.New("no color or depth texture")}
	}
	t := &RenderTarget{ctx: ctx, color: color, depth: depth}
	var colorID, depthID uint32
	if color != nil {
		colorID = color.id
		t.width, t.height = color.width, color.height
	}
	if depth != nil {
		depthID = depth.id
		if color != nil && (depth.width != color.width || depth.height != color.height) {
			return nil, &graphics.ResourceError{Kind: "render target", Err: fmt.Errorf("color is %dx%d but depth is %dx%d", color.width, color.height, depth.width, depth.height)}
		}
		t.width, t.height = depth.width, depth.height
	}
	id, err := ctx.device.CreateFramebuffer(colorID, depthID)
	if err != nil {
		return nil, &graphics.ResourceError{Kind: "render target", Err: err}
	}
	t.id = id
	return t, nil
}

// NewColorDepthTarget creates an RGBA8 color texture and a depth texture of
// the given size and a render target owning them.
func NewColorDepthTarget(ctx *Context, width, height int) (*RenderTarget, error) {
	params := graphics.TextureParams{Filter: graphics.FilterLinear, Wrap: graphics.WrapClamp}
	color, err := NewTexture2D(ctx, width, height, graphics.FormatRGBA8, params, nil)
	if err != nil {
		return nil, err
	}
	depth, err := NewTexture2D(ctx, width, height, graphics.FormatDepth32F, graphics.TextureParams{Filter: graphics.FilterNearest, Wrap: graphics.WrapClamp}, nil)
	if err != nil {
		color.Destroy()
		return nil, err
	}
	t, err := NewRenderTarget(ctx, color, depth)
	if err != nil {
		color.Destroy()
		depth.Destroy()
		return nil, err
	}
	t.owned = true
	return t, nil
}

// Viewport returns the full area of the target.
func (t *RenderTarget) Viewport() graphics.Viewport {
	return graphics.NewViewportAtOrigin(t.width, t.height)
}

func (t *RenderTarget) ColorTexture() *Texture2D { return t.color }
func (t *RenderTarget) DepthTexture() *Texture2D { return t.depth }

// Write binds the target, clears it and calls fn to render into it. The
// screen is bound again afterwards.
func (t *RenderTarget) Write(clear graphics.ClearState, fn func() error) error {
	if t.id == 0 {
		return fmt.Errorf("failed to write render target: %w", graphics.ErrDestroyed)
	}
	t.ctx.device.BindFramebuffer(t.id)
	defer t.ctx.device.BindFramebuffer(0)
	t.ctx.device.Viewport(t.Viewport())
	t.ctx.device.Clear(clear)
	return fn()
}

// ReadColor returns the RGBA8 pixels of the color texture, bottom row
// first.
func (t *RenderTarget) ReadColor() ([]byte, error) {
	if t.id == 0 {
		return nil, fmt.Errorf("failed to read render target: %w", graphics.ErrDestroyed)
	}
	if t.color == nil || t.color.format != graphics.FormatRGBA8 {
		return nil, errors.New("cannot read color from anything else but an RGBA texture")
	}
	t.ctx.device.BindFramebuffer(t.id)
	defer t.ctx.device.BindFramebuffer(0)
	return t.ctx.device.ReadPixels(t.Viewport()), nil
}

// Destroy deletes the framebuffer, and the textures when the target created
// them.
func (t *RenderTarget) Destroy() {
	if t.id == 0 {
		return
	}
	t.ctx.device.DeleteFramebuffer(t.id)
	t.id = 0
	if t.owned {
		if t.color != nil {
			t.color.Destroy()
		}
		if t.depth != nil {
			t.depth.Destroy()
		}
	}
}
