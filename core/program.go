package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/graphics"
	"github.com/richinsley/forwardgl/shader"
)

// Program is a linked vertex/fragment program. Uniform locations are looked
// up once and cached.
type Program struct {
	ctx        *Context
	id         uint32
	attributes []graphics.AttributeInfo

	locations map[string]int32
	units     map[string]uint32
	blocks    map[string]uint32
}

// NewProgram compiles and links a program. A fragment source declaring
// "#version 300 es" is marked portable and translated by the device.
func NewProgram(ctx *Context, vertexSource, fragmentSource string) (*Program, error) {
	return newProgram(ctx, graphics.ProgramSource{
		Vertex:   vertexSource,
		Fragment: fragmentSource,
		Portable: shader.IsPortable(fragmentSource),
	})
}

func newProgram(ctx *Context, src graphics.ProgramSource) (*Program, error) {
	id, err := ctx.device.CreateProgram(src)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}
	p := &Program{
		ctx:        ctx,
		id:         id,
		attributes: ctx.device.ProgramAttributes(id),
		locations:  make(map[string]int32),
		units:      make(map[string]uint32),
		blocks:     make(map[string]uint32),
	}
	graphics.Logger().Debug("program linked", "id", id, "attributes", len(p.attributes), "portable", src.Portable)
	return p, nil
}

// ID returns the device handle.
func (p *Program) ID() uint32 { return p.id }

// Attributes returns the active vertex attributes.
func (p *Program) Attributes() []graphics.AttributeInfo { return p.attributes }

// Attribute returns the active vertex attribute called name.
func (p *Program) Attribute(name string) (graphics.AttributeInfo, bool) {
	for _, a := range p.attributes {
		if a.Name == name {
			return a, true
		}
	}
	return graphics.AttributeInfo{}, false
}

// RequiresAttribute reports whether the program reads the named attribute.
func (p *Program) RequiresAttribute(name string) bool {
	_, ok := p.Attribute(name)
	return ok
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.ctx.device.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// RequiresUniform reports whether the program declares the named uniform.
func (p *Program) RequiresUniform(name string) bool {
	return p.location(name) >= 0
}

// Use makes the program current.
func (p *Program) Use() {
	p.ctx.useProgram(p.id)
}

func (p *Program) uniform(name string, set func(loc int32)) error {
	loc := p.location(name)
	if loc < 0 {
		return &graphics.UnusedUniformError{Name: name}
	}
	p.Use()
	set(loc)
	return nil
}

func (p *Program) UseUniformInt(name string, v int32) error {
	return p.uniform(name, func(loc int32) { p.ctx.device.UniformInt(loc, v) })
}

func (p *Program) UseUniformFloat(name string, v float32) error {
	return p.uniform(name, func(loc int32) { p.ctx.device.UniformFloat(loc, v) })
}

func (p *Program) UseUniformVec2(name string, v mgl32.Vec2) error {
	return p.uniform(name, func(loc int32) { p.ctx.device.UniformVec2(loc, v) })
}

func (p *Program) UseUniformVec3(name string, v mgl32.Vec3) error {
	return p.uniform(name, func(loc int32) { p.ctx.device.UniformVec3(loc, v) })
}

func (p *Program) UseUniformVec4(name string, v mgl32.Vec4) error {
	return p.uniform(name, func(loc int32) { p.ctx.device.UniformVec4(loc, v) })
}

func (p *Program) UseUniformMat3(name string, m mgl32.Mat3) error {
	return p.uniform(name, func(loc int32) { p.ctx.device.UniformMat3(loc, m) })
}

func (p *Program) UseUniformMat4(name string, m mgl32.Mat4) error {
	return p.uniform(name, func(loc int32) { p.ctx.device.UniformMat4(loc, m) })
}

// UseUniformMat4IfRequired sets the uniform only when the program declares
// it.
func (p *Program) UseUniformMat4IfRequired(name string, m mgl32.Mat4) {
	if p.RequiresUniform(name) {
		_ = p.UseUniformMat4(name, m)
	}
}

// UseUniformVec3IfRequired sets the uniform only when the program declares
// it.
func (p *Program) UseUniformVec3IfRequired(name string, v mgl32.Vec3) {
	if p.RequiresUniform(name) {
		_ = p.UseUniformVec3(name, v)
	}
}

// UseTexture binds texture to the sampler uniform name. Each sampler name
// gets its own texture unit for the lifetime of the program.
func (p *Program) UseTexture(name string, texture *Texture2D) error {
	if err := checkBindable(texture == nil, texture != nil && texture.id == 0); err != nil {
		return fmt.Errorf("failed to use texture %s: %w", name, err)
	}
	unit, ok := p.units[name]
	if !ok {
		unit = uint32(len(p.units))
	}
	err := p.uniform(name, func(loc int32) {
		p.ctx.device.BindTexture(unit, texture.id)
		p.ctx.device.UniformInt(loc, int32(unit))
	})
	if err == nil {
		p.units[name] = unit
	}
	return err
}

func checkBindable(missing, destroyed bool) error {
	switch {
	case missing:
		return graphics.ErrMissingResource
	case destroyed:
		return graphics.ErrDestroyed
	}
	return nil
}

// UseUniformBlock binds buffer to the uniform block name.
func (p *Program) UseUniformBlock(name string, buffer *UniformBuffer) error {
	if err := checkBindable(buffer == nil, buffer != nil && buffer.id == 0); err != nil {
		return fmt.Errorf("failed to use uniform block %s: %w", name, err)
	}
	binding, ok := p.blocks[name]
	if !ok {
		binding = uint32(len(p.blocks))
	}
	p.Use()
	if !p.ctx.device.UniformBlock(p.id, name, binding, buffer.id) {
		return &graphics.UnusedUniformError{Name: name, Block: true}
	}
	p.blocks[name] = binding
	return nil
}

// Destroy deletes the program on the device.
func (p *Program) Destroy() {
	p.ctx.forgetProgram(p.id)
	p.ctx.device.DeleteProgram(p.id)
}
