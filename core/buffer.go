package core

import (
	"fmt"

	"github.com/richinsley/forwardgl/graphics"
)

// UniformBuffer backs a uniform block. It is a sequence of elements of
// 1, 2, 3, 4 or 16 floats (scalar, vec2, vec3, vec4, mat4) laid out with
// std140 alignment.
type UniformBuffer struct {
	ctx     *Context
	id      uint32
	sizes   []int
	offsets []int
	data    []float32
}

func std140Align(size int) int {
	switch size {
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

// NewUniformBuffer allocates a zeroed buffer for elements of the given
// sizes.
func NewUniformBuffer(ctx *Context, sizes []int) (*UniformBuffer, error) {
	offsets := make([]int, len(sizes))
	offset := 0
	for i, size := range sizes {
		switch size {
		case 1, 2, 3, 4, 16:
		default:
			return nil, fmt.Errorf("failed to create uniform buffer: unsupported element size %d", size)
		}
		a := std140Align(size)
		offset = (offset + a - 1) / a * a
		offsets[i] = offset
		offset += size
	}
	data := make([]float32, (offset+3)/4*4)
	id, err := ctx.device.CreateUniformBuffer(data)
	if err != nil {
		return nil, &graphics.ResourceError{Kind: "uniform buffer", Err: err}
	}
	return &UniformBuffer{ctx: ctx, id: id, sizes: sizes, offsets: offsets, data: data}, nil
}

// Update replaces element index and uploads the buffer.
func (b *UniformBuffer) Update(index int, values []float32) error {
	if index < 0 || index >= len(b.sizes) {
		return &graphics.IndexOutOfRangeError{Position: index, Value: uint32(index), VertexCount: len(b.sizes)}
	}
	if len(values) != b.sizes[index] {
		return &graphics.UniformElementLengthError{Index: index, Length: len(values), Want: b.sizes[index]}
	}
	copy(b.data[b.offsets[index]:], values)
	b.ctx.device.UpdateUniformBuffer(b.id, b.data)
	return nil
}

// Get returns a copy of element index.
func (b *UniformBuffer) Get(index int) ([]float32, bool) {
	if index < 0 || index >= len(b.sizes) {
		return nil, false
	}
	o := b.offsets[index]
	return append([]float32(nil), b.data[o:o+b.sizes[index]]...), true
}

func (b *UniformBuffer) ID() uint32 { return b.id }

// Destroy deletes the buffer on the device.
func (b *UniformBuffer) Destroy() {
	if b.id == 0 {
		return
	}
	b.ctx.device.DeleteBuffer(b.id)
	b.id = 0
}
