// Package gldevice implements graphics.Device on an OpenGL 4.1 core
// context. Every method must be called on the goroutine the context is
// current on.
package gldevice

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/forwardgl/graphics"
	gst "github.com/richinsley/goshadertranslator"
)

// Device issues GL calls for the context current on the calling thread.
type Device struct {
	ctx        context.Context
	translator *gst.ShaderTranslator

	// uniform names rewritten by the translator, per program
	names map[uint32]map[string]string

	states  graphics.RenderStates
	applied bool
}

// New loads the GL entry points of the current context. ctx bounds the
// lifetime of the shader translator, created on the first portable program.
func New(ctx context.Context) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	graphics.Logger().Info("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return &Device{ctx: ctx, names: make(map[uint32]map[string]string)}, nil
}

func glError(what string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: GL error 0x%x", what, code)
	}
	return nil
}

func ptr[T any](data []T) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

// ──────────────────────────────── Vertex arrays ─────────────────────────────────

func (d *Device) CreateVertexArray() (uint32, error) {
	var id uint32
	gl.GenVertexArrays(1, &id)
	if id == 0 {
		return 0, errors.New("glGenVertexArrays returned no name")
	}
	return id, nil
}

func (d *Device) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (d *Device) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

// ─────────────────────────────────── Buffers ────────────────────────────────────

func createBuffer[T any](target, usage uint32, data []T, elementSize int) (uint32, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	if id == 0 {
		return 0, errors.New("glGenBuffers returned no name")
	}
	gl.BindBuffer(target, id)
	gl.BufferData(target, len(data)*elementSize, ptr(data), usage)
	if err := glError("failed to upload buffer"); err != nil {
		gl.DeleteBuffers(1, &id)
		return 0, err
	}
	return id, nil
}

func (d *Device) CreateVertexBuffer(data []float32) (uint32, error) {
	id, err := createBuffer(gl.ARRAY_BUFFER, gl.STATIC_DRAW, data, 4)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return id, err
}

// CreateElementBuffer leaves the buffer bound, which records it in the
// bound vertex array.
func (d *Device) CreateElementBuffer(indices []uint32) (uint32, error) {
	return createBuffer(gl.ELEMENT_ARRAY_BUFFER, gl.STATIC_DRAW, indices, 4)
}

func (d *Device) CreateUniformBuffer(data []float32) (uint32, error) {
	id, err := createBuffer(gl.UNIFORM_BUFFER, gl.DYNAMIC_DRAW, data, 4)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return id, err
}

func (d *Device) UpdateUniformBuffer(id uint32, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data)*4, gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (d *Device) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (d *Device) VertexAttribute(buffer, location uint32, components int32, offset int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buffer)
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointer(location, components, gl.FLOAT, false, 0, gl.PtrOffset(offset))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// ────────────────────────────────── Textures ────────────────────────────────────

func (d *Device) CreateTexture(width, height int, format graphics.TextureFormat, params graphics.TextureParams, pixels []byte) (uint32, error) {
	tf := textureFormatOf(format)
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, errors.New("glGenTextures returned no name")
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, tf.internal, int32(width), int32(height), 0, tf.format, tf.xtype, ptr(pixels))

	minFilter, magFilter := filterOf(params.Filter)
	wrap := wrapOf(params.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	if params.Filter == graphics.FilterMipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError(fmt.Sprintf("failed to allocate %dx%d texture", width, height)); err != nil {
		gl.DeleteTextures(1, &id)
		return 0, err
	}
	return id, nil
}

func (d *Device) BindTexture(unit, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *Device) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

// ──────────────────────────────── Framebuffers ──────────────────────────────────

func (d *Device) CreateFramebuffer(color, depth uint32) (uint32, error) {
	var id uint32
	gl.GenFramebuffers(1, &id)
	if id == 0 {
		return 0, errors.New("glGenFramebuffers returned no name")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	if color != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, color, 0)
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}
	if depth != 0 {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, depth, 0)
	}
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &id)
		return 0, fmt.Errorf("framebuffer is not complete: 0x%x", status)
	}
	return id, nil
}

func (d *Device) BindFramebuffer(id uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
}

func (d *Device) DeleteFramebuffer(id uint32) {
	gl.DeleteFramebuffers(1, &id)
}

// ReadPixels reads RGBA8 pixels of the bound framebuffer, bottom row first.
func (d *Device) ReadPixels(v graphics.Viewport) []byte {
	pixels := make([]byte, 4*v.Width*v.Height)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height), gl.RGBA, gl.UNSIGNED_BYTE, ptr(pixels))
	return pixels
}

// ─────────────────────────────────── Drawing ────────────────────────────────────

func (d *Device) Viewport(v graphics.Viewport) {
	gl.Viewport(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))
}

func (d *Device) Clear(c graphics.ClearState) {
	var mask uint32
	if c.Color != nil {
		gl.ClearColor(c.Color[0], c.Color[1], c.Color[2], c.Color[3])
		mask |= gl.COLOR_BUFFER_BIT
	}
	if c.Depth != nil {
		gl.ClearDepth(float64(*c.Depth))
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask == 0 {
		return
	}
	// Clearing honors the write masks, so open them first.
	d.applyWriteMask(graphics.WriteColorAndDepth)
	gl.Clear(mask)
	if d.applied {
		d.applyWriteMask(d.states.WriteMask)
	}
}

func (d *Device) DrawArrays(count int32) {
	gl.DrawArrays(gl.TRIANGLES, 0, count)
}

func (d *Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

var _ graphics.Device = (*Device)(nil)
