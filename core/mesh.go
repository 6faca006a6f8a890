package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/camera"
	"github.com/richinsley/forwardgl/graphics"
)

// Mesh is validated geometry. GPU surfaces are created lazily, one per
// program it is rendered with.
type Mesh struct {
	ctx      *Context
	data     MeshData
	surfaces map[*Program]*Surface
}

// NewMesh validates data. Nothing is allocated until the first Render.
func NewMesh(ctx *Context, data MeshData) (*Mesh, error) {
	if err := ValidateMesh(data); err != nil {
		return nil, fmt.Errorf("failed to create mesh: %w", err)
	}
	return &Mesh{
		ctx:      ctx,
		data:     data,
		surfaces: make(map[*Program]*Surface),
	}, nil
}

// Data returns the CPU geometry.
func (m *Mesh) Data() MeshData { return m.data }

// Surface returns the surface laid out for program, creating it on first
// use.
func (m *Mesh) Surface(program *Program) (*Surface, error) {
	if s, ok := m.surfaces[program]; ok {
		return s, nil
	}
	s, err := NewSurface(m.ctx, m.data, program)
	if err != nil {
		return nil, err
	}
	m.surfaces[program] = s
	return s, nil
}

// Render draws the mesh with program. The uniforms modelMatrix,
// viewProjection and normalMatrix are set when the program declares them;
// other uniforms must be set by the caller beforehand.
func (m *Mesh) Render(program *Program, states graphics.RenderStates, viewport graphics.Viewport, transformation mgl32.Mat4, cam *camera.Camera) error {
	s, err := m.Surface(program)
	if err != nil {
		return fmt.Errorf("failed to render mesh: %w", err)
	}
	program.Use()
	program.UseUniformMat4IfRequired("modelMatrix", transformation)
	program.UseUniformMat4IfRequired("viewProjection", cam.ViewProjection())
	program.UseUniformMat4IfRequired("normalMatrix", transformation.Inv().Transpose())

	m.ctx.device.SetRenderStates(states)
	m.ctx.device.Viewport(viewport)
	return s.Render()
}

// Destroy deletes every surface created for the mesh.
func (m *Mesh) Destroy() {
	for p, s := range m.surfaces {
		s.Destroy()
		delete(m.surfaces, p)
	}
}
