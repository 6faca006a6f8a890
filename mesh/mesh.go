// Package mesh holds triangle meshes in CPU memory, validated so that they
// can be uploaded to the GPU without further checks.
package mesh

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/graphics"
)

// Vertex attribute names, as declared by the shaders in package shader.
const (
	AttrPosition = "position"
	AttrNormal   = "normal"
	AttrUV       = "uv_coordinates"
	AttrColor    = "color"
)

var components = map[string]int{
	AttrPosition: 3,
	AttrNormal:   3,
	AttrUV:       2,
	AttrColor:    4,
}

// CPUMesh is a triangle mesh. Indices is optional: without it every three
// consecutive positions form a triangle. Normals, UVs and Colors are
// optional per-vertex attributes.
type CPUMesh struct {
	Name         string
	MaterialName string

	Positions []float32
	Indices   []uint32
	Normals   []float32
	UVs       []float32
	Colors    []float32
}

// New validates m and returns a copy of it.
func New(m CPUMesh) (*CPUMesh, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks buffer lengths and index ranges.
func (m *CPUMesh) Validate() error {
	if err := m.validateGeometry(); err != nil {
		return err
	}
	n := m.VertexCount()
	for _, name := range []string{AttrNormal, AttrUV, AttrColor} {
		data := m.buffer(name)
		if data == nil {
			continue
		}
		size := components[name]
		if len(data)%size != 0 {
			return &graphics.BufferLengthError{Name: name, Length: len(data), Multiple: size}
		}
		if len(data)/size != n {
			return &graphics.AttributeCountError{Name: name, Count: len(data) / size, Want: n}
		}
	}
	return nil
}

// validateGeometry checks positions and indices, which is all that
// ComputeNormals reads.
func (m *CPUMesh) validateGeometry() error {
	if len(m.Positions)%3 != 0 {
		return &graphics.BufferLengthError{Name: AttrPosition, Length: len(m.Positions), Multiple: 3}
	}
	if m.Indices == nil && len(m.Positions)%9 != 0 {
		return &graphics.BufferLengthError{Name: AttrPosition, Length: len(m.Positions), Multiple: 9}
	}
	if len(m.Indices)%3 != 0 {
		return &graphics.BufferLengthError{Name: "indices", Length: len(m.Indices), Multiple: 3}
	}
	n := m.VertexCount()
	for i, index := range m.Indices {
		if int(index) >= n {
			return &graphics.IndexOutOfRangeError{Position: i, Value: index, VertexCount: n}
		}
	}
	return nil
}

func (m *CPUMesh) buffer(name string) []float32 {
	switch name {
	case AttrPosition:
		return m.Positions
	case AttrNormal:
		return m.Normals
	case AttrUV:
		return m.UVs
	case AttrColor:
		return m.Colors
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *CPUMesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleIndices returns the index buffer, or nil for a non-indexed mesh.
func (m *CPUMesh) TriangleIndices() []uint32 {
	return m.Indices
}

// Attribute returns the data and component count of the named attribute.
func (m *CPUMesh) Attribute(name string) ([]float32, int, bool) {
	data := m.buffer(name)
	if data == nil {
		return nil, 0, false
	}
	return data, components[name], true
}

// AttributeNames returns the names of the attributes present, sorted.
func (m *CPUMesh) AttributeNames() []string {
	var names []string
	for name := range components {
		if m.buffer(name) != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HasNormals reports whether per-vertex normals are present.
func (m *CPUMesh) HasNormals() bool { return m.Normals != nil }

// HasUVs reports whether uv coordinates are present.
func (m *CPUMesh) HasUVs() bool { return m.UVs != nil }

func (m *CPUMesh) position(i uint32) mgl32.Vec3 {
	return mgl32.Vec3{m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]}
}

// ComputeNormals replaces Normals with area weighted smooth vertex normals.
// The mesh is left untouched when its positions or indices are invalid.
func (m *CPUMesh) ComputeNormals() error {
	if err := m.validateGeometry(); err != nil {
		return err
	}
	n := m.VertexCount()
	acc := make([]mgl32.Vec3, n)
	triangle := func(a, b, c uint32) {
		pa, pb, pc := m.position(a), m.position(b), m.position(c)
		face := pb.Sub(pa).Cross(pc.Sub(pa))
		acc[a] = acc[a].Add(face)
		acc[b] = acc[b].Add(face)
		acc[c] = acc[c].Add(face)
	}
	if m.Indices != nil {
		for i := 0; i < len(m.Indices); i += 3 {
			triangle(m.Indices[i], m.Indices[i+1], m.Indices[i+2])
		}
	} else {
		for i := uint32(0); int(i)+2 < n; i += 3 {
			triangle(i, i+1, i+2)
		}
	}

	m.Normals = make([]float32, 3*n)
	for i, v := range acc {
		l := math32.Sqrt(v.Dot(v))
		if l > 0 {
			v = v.Mul(1 / l)
		}
		copy(m.Normals[3*i:], v[:])
	}
	return nil
}
