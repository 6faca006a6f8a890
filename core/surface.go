package core

import (
	"fmt"

	"github.com/richinsley/forwardgl/graphics"
)

// MeshData is triangle geometry in CPU memory. mesh.CPUMesh implements it.
type MeshData interface {
	// TriangleIndices returns the index buffer, or nil when every three
	// consecutive vertices form a triangle.
	TriangleIndices() []uint32
	VertexCount() int
	// Attribute returns the flat data of an attribute and the number of
	// components per vertex.
	Attribute(name string) ([]float32, int, bool)
	AttributeNames() []string
}

// ValidateMesh checks that every attribute holds whole elements for every
// vertex, that indices form whole triangles and that every index references
// an existing vertex.
func ValidateMesh(mesh MeshData) error {
	n := mesh.VertexCount()
	for _, name := range mesh.AttributeNames() {
		data, size, ok := mesh.Attribute(name)
		if !ok || size <= 0 {
			continue
		}
		if len(data)%size != 0 {
			return &graphics.BufferLengthError{Name: name, Length: len(data), Multiple: size}
		}
		if len(data)/size != n {
			return &graphics.AttributeCountError{Name: name, Count: len(data) / size, Want: n}
		}
	}
	indices := mesh.TriangleIndices()
	if len(indices)%3 != 0 {
		return &graphics.BufferLengthError{Name: "indices", Length: len(indices), Multiple: 3}
	}
	for i, index := range indices {
		if int(index) >= n {
			return &graphics.IndexOutOfRangeError{Position: i, Value: index, VertexCount: n}
		}
	}
	return nil
}

func checkAttributes(mesh MeshData, program *Program) error {
	for _, a := range program.Attributes() {
		if _, _, ok := mesh.Attribute(a.Name); !ok {
			return &graphics.MissingAttributeError{Name: a.Name}
		}
	}
	return nil
}

// Surface is a vertex array holding the geometry of one mesh laid out for
// one program's attribute locations.
type Surface struct {
	ctx     *Context
	id      uint32
	count   int
	indexed bool
	buffers []uint32
}

// NewSurface uploads mesh for drawing with program. The mesh and the
// program's attribute requirements are checked before anything is
// allocated on the device.
func NewSurface(ctx *Context, mesh MeshData, program *Program) (*Surface, error) {
	if err := ValidateMesh(mesh); err != nil {
		return nil, err
	}
	if err := checkAttributes(mesh, program); err != nil {
		return nil, err
	}

	id, err := ctx.device.CreateVertexArray()
	if err != nil {
		return nil, &graphics.ResourceError{Kind: "vertex array", Err: err}
	}
	s := &Surface{ctx: ctx, id: id, count: mesh.VertexCount()}
	ctx.bindVertexArray(id)

	if indices := mesh.TriangleIndices(); indices != nil {
		buffer, err := ctx.device.CreateElementBuffer(indices)
		if err != nil {
			s.Destroy()
			return nil, &graphics.ResourceError{Kind: "element buffer", Err: err}
		}
		s.buffers = append(s.buffers, buffer)
		s.indexed = true
		s.count = len(indices)
	}

	if err := s.AddAttributes(mesh, program); err != nil {
		s.Destroy()
		return nil, err
	}
	graphics.Logger().Debug("surface created", "vertexArray", id, "count", s.count, "indexed", s.indexed)
	return s, nil
}

// AddAttributes uploads the attributes program reads into one vertex
// buffer, blocks back to back, and points each attribute location at its
// block.
func (s *Surface) AddAttributes(mesh MeshData, program *Program) error {
	if err := checkAttributes(mesh, program); err != nil {
		return err
	}
	attributes := program.Attributes()
	if len(attributes) == 0 {
		return nil
	}

	type block struct {
		location uint32
		size     int
		offset   int
	}
	var data []float32
	blocks := make([]block, 0, len(attributes))
	for _, a := range attributes {
		values, size, _ := mesh.Attribute(a.Name)
		blocks = append(blocks, block{location: a.Location, size: size, offset: 4 * len(data)})
		data = append(data, values...)
	}

	buffer, err := s.ctx.device.CreateVertexBuffer(data)
	if err != nil {
		return &graphics.ResourceError{Kind: "vertex buffer", Err: err}
	}
	s.buffers = append(s.buffers, buffer)
	s.ctx.bindVertexArray(s.id)
	for _, b := range blocks {
		s.ctx.device.VertexAttribute(buffer, b.location, int32(b.size), b.offset)
	}
	return nil
}

// Count returns the number of indices, or vertices for a non-indexed
// surface, drawn by Render.
func (s *Surface) Count() int { return s.count }

// Indexed reports whether Render draws elements.
func (s *Surface) Indexed() bool { return s.indexed }

// Render draws the surface as triangles with the current program.
func (s *Surface) Render() error {
	if s.id == 0 {
		return fmt.Errorf("failed to render surface: %w", graphics.ErrDestroyed)
	}
	s.ctx.bindVertexArray(s.id)
	if s.indexed {
		s.ctx.device.DrawElements(int32(s.count))
	} else {
		s.ctx.device.DrawArrays(int32(s.count))
	}
	return nil
}

// Destroy deletes the vertex array and its buffers.
func (s *Surface) Destroy() {
	if s.id == 0 {
		return
	}
	for _, b := range s.buffers {
		s.ctx.device.DeleteBuffer(b)
	}
	s.buffers = nil
	s.ctx.forgetVertexArray(s.id)
	s.ctx.device.DeleteVertexArray(s.id)
	s.id = 0
}
