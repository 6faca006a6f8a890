// Package material holds forward materials that need no lights. Programs
// are compiled through the context's program cache, keyed by their sources.
package material

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/camera"
	"github.com/richinsley/forwardgl/core"
	"github.com/richinsley/forwardgl/graphics"
	"github.com/richinsley/forwardgl/shader"
)

// ForwardMaterial shades a mesh in a single forward pass.
type ForwardMaterial interface {
	// FragmentShaderSource returns the fragment shader of the material.
	FragmentShaderSource() string
	// UsesUVs reports whether the fragment shader reads uvs.
	UsesUVs() bool
	// Bind sets the material uniforms on program.
	Bind(program *core.Program, cam *camera.Camera) error
	RenderStates() graphics.RenderStates
	IsTransparent() bool
}

// Render draws m with material. The program is built on first use and
// shared by every later call with the same material sources.
func Render(ctx *core.Context, m *core.Mesh, material ForwardMaterial, viewport graphics.Viewport, transformation mgl32.Mat4, cam *camera.Camera) error {
	vs := shader.GetMeshVertexShader(material.UsesUVs())
	err := ctx.Program(vs, material.FragmentShaderSource(), func(program *core.Program) error {
		if err := material.Bind(program, cam); err != nil {
			return err
		}
		return m.Render(program, material.RenderStates(), viewport, transformation, cam)
	})
	if err != nil {
		return fmt.Errorf("failed to render material: %w", err)
	}
	return nil
}

// UVMaterial colors a surface by its uv coordinates, u as red and v as
// green.
type UVMaterial struct {
	States graphics.RenderStates
}

func (UVMaterial) FragmentShaderSource() string             { return shader.UVMaterial }
func (UVMaterial) UsesUVs() bool                            { return true }
func (UVMaterial) Bind(*core.Program, *camera.Camera) error { return nil }
func (m UVMaterial) RenderStates() graphics.RenderStates    { return m.States }
func (UVMaterial) IsTransparent() bool                      { return false }

// NormalMaterial colors a surface by its world space normal.
type NormalMaterial struct {
	States graphics.RenderStates
}

func (NormalMaterial) FragmentShaderSource() string             { return shader.NormalMaterial }
func (NormalMaterial) UsesUVs() bool                            { return false }
func (NormalMaterial) Bind(*core.Program, *camera.Camera) error { return nil }
func (m NormalMaterial) RenderStates() graphics.RenderStates    { return m.States }
func (NormalMaterial) IsTransparent() bool                      { return false }

var (
	_ ForwardMaterial = UVMaterial{}
	_ ForwardMaterial = NormalMaterial{}
)
