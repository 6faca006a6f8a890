package mesh

import (
	"errors"
	"testing"

	"github.com/richinsley/forwardgl/graphics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadLengths(t *testing.T) {
	cases := []struct {
		name string
		mesh CPUMesh
		attr string
		mult int
	}{
		{"positions", CPUMesh{Positions: make([]float32, 7), Indices: []uint32{0}}, AttrPosition, 3},
		{"unindexed positions", CPUMesh{Positions: make([]float32, 6)}, AttrPosition, 9},
		{"normals", CPUMesh{Positions: make([]float32, 9), Normals: make([]float32, 8)}, AttrNormal, 3},
		{"uvs", CPUMesh{Positions: make([]float32, 9), UVs: make([]float32, 5)}, AttrUV, 2},
		{"colors", CPUMesh{Positions: make([]float32, 9), Colors: make([]float32, 10)}, AttrColor, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.mesh)
			var lengthErr *graphics.BufferLengthError
			require.True(t, errors.As(err, &lengthErr), "got %v", err)
			assert.Equal(t, tc.attr, lengthErr.Name)
			assert.Equal(t, tc.mult, lengthErr.Multiple)
		})
	}
}

func TestNewRejectsAttributeCountMismatch(t *testing.T) {
	_, err := New(CPUMesh{Positions: make([]float32, 9), Normals: make([]float32, 6)})
	var countErr *graphics.AttributeCountError
	require.True(t, errors.As(err, &countErr))
	assert.Equal(t, 2, countErr.Count)
	assert.Equal(t, 3, countErr.Want)
}

func TestNewRejectsIndexOutOfRange(t *testing.T) {
	m := Square()
	m.Indices = []uint32{0, 1, 2, 2, 3, 4}
	_, err := New(*m)
	var rangeErr *graphics.IndexOutOfRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 5, rangeErr.Position)
	assert.Equal(t, uint32(4), rangeErr.Value)
	assert.Equal(t, 4, rangeErr.VertexCount)
}

func TestShapesAreValid(t *testing.T) {
	for _, m := range []*CPUMesh{Square(), Cube()} {
		require.NoError(t, m.Validate(), m.Name)
		assert.True(t, m.HasNormals())
		assert.True(t, m.HasUVs())
	}
	c := Cube()
	assert.Equal(t, 24, c.VertexCount())
	assert.Len(t, c.TriangleIndices(), 36)
	assert.Equal(t, []string{AttrNormal, AttrPosition, AttrUV}, c.AttributeNames())
}

func TestAttribute(t *testing.T) {
	m := Square()
	data, size, ok := m.Attribute(AttrUV)
	require.True(t, ok)
	assert.Equal(t, 2, size)
	assert.Len(t, data, 8)

	_, _, ok = m.Attribute(AttrColor)
	assert.False(t, ok)
}

func TestComputeNormalsMatchesFlatFaces(t *testing.T) {
	want := Cube()
	got := Cube()
	got.Normals = nil
	require.NoError(t, got.ComputeNormals())
	assert.InDeltaSlice(t, want.Normals, got.Normals, 1e-5)
}

func TestComputeNormalsUnindexed(t *testing.T) {
	m := &CPUMesh{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}}
	require.NoError(t, m.ComputeNormals())
	assert.InDeltaSlice(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1}, m.Normals, 1e-6)
}

func TestComputeNormalsRejectsBadIndices(t *testing.T) {
	m := &CPUMesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 7},
	}
	var rangeErr *graphics.IndexOutOfRangeError
	require.ErrorAs(t, m.ComputeNormals(), &rangeErr)
	assert.Equal(t, uint32(7), rangeErr.Value)
	assert.Nil(t, m.Normals)
}

func TestNewRejectsPartialTriangle(t *testing.T) {
	_, err := New(CPUMesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2, 0},
	})
	var lengthErr *graphics.BufferLengthError
	require.ErrorAs(t, err, &lengthErr)
	assert.Equal(t, "indices", lengthErr.Name)
	assert.Equal(t, 3, lengthErr.Multiple)

	m := &CPUMesh{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1}}
	assert.ErrorAs(t, m.ComputeNormals(), &lengthErr)
}
