// Package devicetest provides a graphics.Device that records calls instead
// of talking to a GPU, for tests of code built on top of a device.
package devicetest

import (
	"fmt"

	"github.com/richinsley/forwardgl/graphics"
)

// Draw is one recorded draw call.
type Draw struct {
	Indexed     bool
	Count       int32
	VertexArray uint32
	Program     uint32
}

// Device is a fake graphics.Device. Every Create* call hands out a fresh
// non-zero handle and counts as one allocation.
//
// Programs declare Attributes and, unless Uniforms/Blocks are set, every
// uniform and uniform block name asked for.
type Device struct {
	// Attributes is returned by ProgramAttributes for every program.
	Attributes []graphics.AttributeInfo
	// Uniforms, when non-nil, restricts the uniforms programs declare.
	Uniforms map[string]bool
	// Blocks, when non-nil, restricts the uniform blocks programs declare.
	Blocks map[string]bool
	// ProgramErr is returned by CreateProgram when set.
	ProgramErr error
	// FramebufferErr is returned by CreateFramebuffer when set.
	FramebufferErr error

	Calls       []string
	Allocations int
	Draws       []Draw
	Sources     []graphics.ProgramSource
	Values      map[string]any
	Textures    map[uint32]uint32
	States      []graphics.RenderStates
	Viewports   []graphics.Viewport

	next        uint32
	live        map[uint32]string
	locations   map[string]int32
	names       map[int32]string
	boundVAO    uint32
	program     uint32
	framebuffer uint32
}

// New returns a device whose programs declare the given attributes, each
// at its index as location.
func New(attributes ...graphics.AttributeInfo) *Device {
	return &Device{
		Attributes: attributes,
		Values:     make(map[string]any),
		Textures:   make(map[uint32]uint32),
		live:       make(map[uint32]string),
		locations:  make(map[string]int32),
		names:      make(map[int32]string),
	}
}

// MeshAttributes returns position, normal and uv attributes at locations 0-2.
func MeshAttributes() []graphics.AttributeInfo {
	return []graphics.AttributeInfo{
		{Name: "position", Location: 0, Components: 3},
		{Name: "normal", Location: 1, Components: 3},
		{Name: "uv_coordinates", Location: 2, Components: 2},
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) alloc(kind string) uint32 {
	d.next++
	d.Allocations++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) free(id uint32) {
	delete(d.live, id)
}

// Live returns the number of allocated objects of kind not yet deleted.
// Kinds are "vertex array", "buffer", "program", "texture", "framebuffer".
func (d *Device) Live(kind string) int {
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

// Count returns how many calls to method were recorded.
func (d *Device) Count(method string) int {
	n := 0
	for _, c := range d.Calls {
		if c == method || len(c) > len(method) && c[:len(method)+1] == method+"(" {
			n++
		}
	}
	return n
}

// Uniform returns the last value set for the named uniform.
func (d *Device) Uniform(name string) (any, bool) {
	v, ok := d.Values[name]
	return v, ok
}

func (d *Device) CreateVertexArray() (uint32, error) {
	d.record("CreateVertexArray")
	return d.alloc("vertex array"), nil
}

func (d *Device) BindVertexArray(id uint32) {
	d.record("BindVertexArray(%d)", id)
	d.boundVAO = id
}

func (d *Device) DeleteVertexArray(id uint32) {
	d.record("DeleteVertexArray(%d)", id)
	d.free(id)
}

func (d *Device) CreateVertexBuffer(data []float32) (uint32, error) {
	d.record("CreateVertexBuffer(%d)", len(data))
	return d.alloc("buffer"), nil
}

func (d *Device) CreateElementBuffer(indices []uint32) (uint32, error) {
	d.record("CreateElementBuffer(%d)", len(indices))
	return d.alloc("buffer"), nil
}

func (d *Device) CreateUniformBuffer(data []float32) (uint32, error) {
	d.record("CreateUniformBuffer(%d)", len(data))
	return d.alloc("buffer"), nil
}

func (d *Device) UpdateUniformBuffer(id uint32, data []float32) {
	d.record("UpdateUniformBuffer(%d)", id)
}

func (d *Device) DeleteBuffer(id uint32) {
	d.record("DeleteBuffer(%d)", id)
	d.free(id)
}

func (d *Device) VertexAttribute(buffer, location uint32, components int32, offset int) {
	d.record("VertexAttribute(%d,%d,%d,%d)", buffer, location, components, offset)
}

func (d *Device) CreateProgram(src graphics.ProgramSource) (uint32, error) {
	d.record("CreateProgram")
	if d.ProgramErr != nil {
		return 0, d.ProgramErr
	}
	d.Sources = append(d.Sources, src)
	return d.alloc("program"), nil
}

func (d *Device) ProgramAttributes(program uint32) []graphics.AttributeInfo {
	return append([]graphics.AttributeInfo(nil), d.Attributes...)
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram(%d)", program)
	d.program = program
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if d.Uniforms != nil && !d.Uniforms[name] {
		return -1
	}
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	loc := int32(len(d.locations))
	d.locations[name] = loc
	d.names[loc] = name
	return loc
}

func (d *Device) setUniform(location int32, v any) {
	d.record("Uniform(%s)", d.names[location])
	d.Values[d.names[location]] = v
}

func (d *Device) UniformInt(location int32, v int32)        { d.setUniform(location, v) }
func (d *Device) UniformFloat(location int32, v float32)    { d.setUniform(location, v) }
func (d *Device) UniformVec2(location int32, v [2]float32)  { d.setUniform(location, v) }
func (d *Device) UniformVec3(location int32, v [3]float32)  { d.setUniform(location, v) }
func (d *Device) UniformVec4(location int32, v [4]float32)  { d.setUniform(location, v) }
func (d *Device) UniformMat3(location int32, m [9]float32)  { d.setUniform(location, m) }
func (d *Device) UniformMat4(location int32, m [16]float32) { d.setUniform(location, m) }

func (d *Device) UniformBlock(program uint32, name string, binding, buffer uint32) bool {
	if d.Blocks != nil && !d.Blocks[name] {
		return false
	}
	d.record("UniformBlock(%s)", name)
	d.Values[name] = buffer
	return true
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram(%d)", program)
	d.free(program)
}

func (d *Device) CreateTexture(width, height int, format graphics.TextureFormat, params graphics.TextureParams, pixels []byte) (uint32, error) {
	d.record("CreateTexture(%dx%d)", width, height)
	return d.alloc("texture"), nil
}

func (d *Device) BindTexture(unit, texture uint32) {
	d.record("BindTexture(%d,%d)", unit, texture)
	d.Textures[unit] = texture
}

func (d *Device) DeleteTexture(id uint32) {
	d.record("DeleteTexture(%d)", id)
	d.free(id)
}

func (d *Device) CreateFramebuffer(color, depth uint32) (uint32, error) {
	d.record("CreateFramebuffer(%d,%d)", color, depth)
	if d.FramebufferErr != nil {
		return 0, d.FramebufferErr
	}
	return d.alloc("framebuffer"), nil
}

func (d *Device) BindFramebuffer(id uint32) {
	d.record("BindFramebuffer(%d)", id)
	d.framebuffer = id
}

func (d *Device) DeleteFramebuffer(id uint32) {
	d.record("DeleteFramebuffer(%d)", id)
	d.free(id)
}

// ReadPixels returns opaque white pixels for the viewport.
func (d *Device) ReadPixels(v graphics.Viewport) []byte {
	d.record("ReadPixels")
	out := make([]byte, 4*v.Width*v.Height)
	for i := range out {
		out[i] = 0xff
	}
	return out
}

func (d *Device) Viewport(v graphics.Viewport) {
	d.record("Viewport")
	d.Viewports = append(d.Viewports, v)
}

func (d *Device) Clear(c graphics.ClearState) {
	d.record("Clear")
}

func (d *Device) SetRenderStates(s graphics.RenderStates) {
	d.record("SetRenderStates")
	d.States = append(d.States, s)
}

func (d *Device) DrawArrays(count int32) {
	d.record("DrawArrays(%d)", count)
	d.Draws = append(d.Draws, Draw{Count: count, VertexArray: d.boundVAO, Program: d.program})
}

func (d *Device) DrawElements(count int32) {
	d.record("DrawElements(%d)", count)
	d.Draws = append(d.Draws, Draw{Indexed: true, Count: count, VertexArray: d.boundVAO, Program: d.program})
}

// BoundFramebuffer returns the framebuffer bound last.
func (d *Device) BoundFramebuffer() uint32 { return d.framebuffer }

var _ graphics.Device = (*Device)(nil)
