// Package phong renders meshes with the phong reflection model in a single
// forward pass, lit by an ambient light and optionally one directional
// light.
package phong

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/cache"
	"github.com/richinsley/forwardgl/camera"
	"github.com/richinsley/forwardgl/core"
	"github.com/richinsley/forwardgl/graphics"
	"github.com/richinsley/forwardgl/mesh"
	"github.com/richinsley/forwardgl/shader"
)

// Class names the program population shared by all forward meshes of a
// context.
const Class = "phong.ForwardMesh"

// Program slots of the population.
const (
	SlotColorAmbient              = "color+ambient"
	SlotTextureAmbient            = "texture+ambient"
	SlotColorAmbientDirectional   = "color+ambient+directional"
	SlotTextureAmbientDirectional = "texture+ambient+directional"
)

func slot(textured, directional bool) string {
	switch {
	case textured && directional:
		return SlotTextureAmbientDirectional
	case directional:
		return SlotColorAmbientDirectional
	case textured:
		return SlotTextureAmbient
	default:
		return SlotColorAmbient
	}
}

// ForwardMesh is a mesh with a phong material. The four phong programs are
// shared by every ForwardMesh of a context and compiled on first use; they
// are destroyed with the last ForwardMesh.
type ForwardMesh struct {
	Name     string
	Material Material

	ctx    *core.Context
	mesh   *core.Mesh
	hasUVs bool
	lease  *cache.Lease[string, *core.Program]
}

// NewForwardMesh uploads cpuMesh, which must have normals.
func NewForwardMesh(ctx *core.Context, cpuMesh *mesh.CPUMesh, material Material) (*ForwardMesh, error) {
	if !cpuMesh.HasNormals() {
		return nil, &graphics.MeshPreconditionError{Message: "cannot create a mesh without normals, consider calling ComputeNormals on the CPUMesh before creating the mesh"}
	}
	m, err := core.NewMesh(ctx, cpuMesh)
	if err != nil {
		return nil, err
	}
	population, err := ctx.Population(Class)
	if err != nil {
		return nil, err
	}
	return &ForwardMesh{
		Name:     cpuMesh.Name,
		Material: material,
		ctx:      ctx,
		mesh:     m,
		hasUVs:   cpuMesh.HasUVs(),
		lease:    population.Acquire(),
	}, nil
}

// NewForwardMeshes creates a ForwardMesh per CPU mesh. Each mesh gets the
// last material whose name equals its MaterialName, or the default
// material.
func NewForwardMeshes(ctx *core.Context, cpuMeshes []*mesh.CPUMesh, materials []Material) ([]*ForwardMesh, error) {
	meshes := make([]*ForwardMesh, 0, len(cpuMeshes))
	for _, cpuMesh := range cpuMeshes {
		material := DefaultMaterial()
		if cpuMesh.MaterialName != "" {
			for _, candidate := range materials {
				if candidate.Name == cpuMesh.MaterialName {
					material = candidate
				}
			}
		}
		m, err := NewForwardMesh(ctx, cpuMesh, material)
		if err != nil {
			for _, created := range meshes {
				created.Destroy()
			}
			return nil, fmt.Errorf("failed to create mesh %q: %w", cpuMesh.Name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func (m *ForwardMesh) program(directional bool) (*core.Program, error) {
	textured := m.Material.Textured()
	if textured && !m.hasUVs {
		return nil, &graphics.MeshPreconditionError{Message: "cannot use a texture as color source without uv coordinates"}
	}
	return m.lease.Ensure(slot(textured, directional), func() (*core.Program, error) {
		graphics.Logger().Debug("compiling phong program", "slot", slot(textured, directional))
		return core.NewProgram(m.ctx, shader.GetMeshVertexShader(textured), shader.GetPhongFragmentShader(textured, directional))
	})
}

// RenderDepth renders the mesh with the default ambient light, for depth
// only passes such as shadow maps.
func (m *ForwardMesh) RenderDepth(states graphics.RenderStates, viewport graphics.Viewport, transformation mgl32.Mat4, cam *camera.Camera) error {
	return m.RenderWithAmbient(states, viewport, transformation, cam, DefaultAmbientLight())
}

// RenderWithAmbient renders the mesh lit by ambient only.
func (m *ForwardMesh) RenderWithAmbient(states graphics.RenderStates, viewport graphics.Viewport, transformation mgl32.Mat4, cam *camera.Camera, ambient AmbientLight) error {
	program, err := m.program(false)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", m.Name, err)
	}
	if err := program.UseUniformVec3("ambientColor", ambient.radiance()); err != nil {
		return err
	}
	if err := m.Material.bindColor(program); err != nil {
		return err
	}
	return m.mesh.Render(program, states, viewport, transformation, cam)
}

// RenderWithAmbientAndDirectional renders the mesh lit by ambient and a
// directional light.
func (m *ForwardMesh) RenderWithAmbientAndDirectional(states graphics.RenderStates, viewport graphics.Viewport, transformation mgl32.Mat4, cam *camera.Camera, ambient AmbientLight, light *DirectionalLight) error {
	program, err := m.program(true)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", m.Name, err)
	}
	if err := program.UseUniformVec3("ambientColor", ambient.radiance()); err != nil {
		return err
	}
	if err := program.UseUniformVec3("eyePosition", cam.Position()); err != nil {
		return err
	}
	if light.ShadowMap != nil {
		err = program.UseTexture("shadowMap", light.ShadowMap)
	} else {
		err = m.ctx.UseTextureDummy(program, "shadowMap")
	}
	if err != nil {
		return err
	}
	if err := program.UseUniformBlock("DirectionalLightUniform", light.Buffer); err != nil {
		return err
	}
	if err := m.Material.bind(program); err != nil {
		return err
	}
	return m.mesh.Render(program, states, viewport, transformation, cam)
}

// Destroy frees the mesh and releases its hold on the shared programs.
func (m *ForwardMesh) Destroy() {
	if m.lease.Released() {
		return
	}
	m.mesh.Destroy()
	m.lease.Release()
}
