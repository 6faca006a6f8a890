package gldevice

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/forwardgl/graphics"
)

type textureFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

func textureFormatOf(f graphics.TextureFormat) textureFormat {
	switch f {
	case graphics.FormatRGBA32F:
		return textureFormat{gl.RGBA32F, gl.RGBA, gl.FLOAT}
	case graphics.FormatDepth32F:
		return textureFormat{gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT}
	default:
		return textureFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}
	}
}

func filterOf(f graphics.Filter) (minFilter, magFilter int32) {
	switch f {
	case graphics.FilterNearest:
		return gl.NEAREST, gl.NEAREST
	case graphics.FilterMipmap:
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	default:
		return gl.LINEAR, gl.LINEAR
	}
}

func wrapOf(w graphics.Wrap) int32 {
	if w == graphics.WrapClamp {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func depthFuncOf(t graphics.DepthTest) uint32 {
	switch t {
	case graphics.DepthTestLessOrEqual:
		return gl.LEQUAL
	case graphics.DepthTestAlways:
		return gl.ALWAYS
	case graphics.DepthTestNever:
		return gl.NEVER
	case graphics.DepthTestEqual:
		return gl.EQUAL
	case graphics.DepthTestGreater:
		return gl.GREATER
	default:
		return gl.LESS
	}
}

func cullFaceOf(c graphics.Cull) (face uint32, enabled bool) {
	switch c {
	case graphics.CullBack:
		return gl.BACK, true
	case graphics.CullFront:
		return gl.FRONT, true
	case graphics.CullFrontAndBack:
		return gl.FRONT_AND_BACK, true
	default:
		return 0, false
	}
}

// blendFuncOf returns source and destination factors.
func blendFuncOf(b graphics.Blend) (src, dst uint32, enabled bool) {
	switch b {
	case graphics.BlendTransparency:
		return gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, true
	case graphics.BlendAdd:
		return gl.ONE, gl.ONE, true
	default:
		return 0, 0, false
	}
}

func masksOf(w graphics.WriteMask) (color, depth bool) {
	switch w {
	case graphics.WriteColor:
		return true, false
	case graphics.WriteDepth:
		return false, true
	case graphics.WriteNone:
		return false, false
	default:
		return true, true
	}
}

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

func (d *Device) applyWriteMask(w graphics.WriteMask) {
	color, depth := masksOf(w)
	gl.ColorMask(color, color, color, color)
	gl.DepthMask(depth)
}

// SetRenderStates applies s, skipping the GL calls for states that did not
// change since the last call.
func (d *Device) SetRenderStates(s graphics.RenderStates) {
	first := !d.applied
	if first || s.DepthTest != d.states.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(depthFuncOf(s.DepthTest))
	}
	if first || s.WriteMask != d.states.WriteMask {
		d.applyWriteMask(s.WriteMask)
	}
	if first || s.Cull != d.states.Cull {
		face, on := cullFaceOf(s.Cull)
		enable(gl.CULL_FACE, on)
		if on {
			gl.CullFace(face)
		}
	}
	if first || s.Blend != d.states.Blend {
		src, dst, on := blendFuncOf(s.Blend)
		enable(gl.BLEND, on)
		if on {
			gl.BlendFunc(src, dst)
		}
	}
	d.states = s
	d.applied = true
}
