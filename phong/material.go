package phong

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/core"
)

// Material is a phong surface. The surface color comes from Texture when
// set, otherwise from Color.
type Material struct {
	Name              string
	Color             mgl32.Vec4
	Texture           *core.Texture2D
	DiffuseIntensity  float32
	SpecularIntensity float32
	SpecularPower     float32
}

// DefaultMaterial is an opaque white surface.
func DefaultMaterial() Material {
	return Material{
		Name:              "default",
		Color:             mgl32.Vec4{1, 1, 1, 1},
		DiffuseIntensity:  0.5,
		SpecularIntensity: 0.2,
		SpecularPower:     6,
	}
}

// Textured reports whether the color source is a texture.
func (m Material) Textured() bool {
	return m.Texture != nil
}

func (m Material) bindColor(program *core.Program) error {
	if m.Textured() {
		return program.UseTexture("tex", m.Texture)
	}
	return program.UseUniformVec4("surfaceColor", m.Color)
}

func (m Material) bind(program *core.Program) error {
	if err := m.bindColor(program); err != nil {
		return err
	}
	if err := program.UseUniformFloat("diffuseIntensity", m.DiffuseIntensity); err != nil {
		return err
	}
	if err := program.UseUniformFloat("specularIntensity", m.SpecularIntensity); err != nil {
		return err
	}
	return program.UseUniformFloat("specularPower", m.SpecularPower)
}
