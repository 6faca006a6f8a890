package phong

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/core"
)

// AmbientLight lights every surface evenly.
type AmbientLight struct {
	Color     mgl32.Vec3
	Intensity float32
}

// DefaultAmbientLight is white at full intensity.
func DefaultAmbientLight() AmbientLight {
	return AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Intensity: 1}
}

func (a AmbientLight) radiance() mgl32.Vec3 {
	return a.Color.Mul(a.Intensity)
}

// Elements of the DirectionalLightUniform block.
const (
	lightColor = iota
	lightIntensity
	lightDirection
	lightShadowEnabled
	lightShadowMVP
)

var directionalLayout = []int{3, 1, 3, 1, 16}

// DirectionalLight is a light infinitely far away. Its parameters live in a
// uniform buffer bound to the DirectionalLightUniform block. ShadowMap is a
// depth texture rendered by the caller; when nil, nothing is shadowed.
type DirectionalLight struct {
	ShadowMap *core.Texture2D
	Buffer    *core.UniformBuffer
}

// NewDirectionalLight allocates the uniform buffer of a light shining along
// direction.
func NewDirectionalLight(ctx *core.Context, intensity float32, color, direction mgl32.Vec3) (*DirectionalLight, error) {
	buffer, err := core.NewUniformBuffer(ctx, directionalLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to create directional light: %w", err)
	}
	l := &DirectionalLight{Buffer: buffer}
	for _, set := range []func() error{
		func() error { return l.SetColor(color) },
		func() error { return l.SetIntensity(intensity) },
		func() error { return l.SetDirection(direction) },
	} {
		if err := set(); err != nil {
			buffer.Destroy()
			return nil, err
		}
	}
	return l, nil
}

func (l *DirectionalLight) SetColor(c mgl32.Vec3) error {
	return l.Buffer.Update(lightColor, c[:])
}

func (l *DirectionalLight) SetIntensity(i float32) error {
	return l.Buffer.Update(lightIntensity, []float32{i})
}

// SetDirection sets the direction the light travels in. It need not be
// normalized.
func (l *DirectionalLight) SetDirection(d mgl32.Vec3) error {
	if d.Len() > 0 {
		d = d.Normalize()
	}
	return l.Buffer.Update(lightDirection, d[:])
}

// SetShadowMap enables shadows from a depth texture rendered with
// shadowViewProjection. A nil texture disables shadows.
func (l *DirectionalLight) SetShadowMap(depth *core.Texture2D, shadowViewProjection mgl32.Mat4) error {
	l.ShadowMap = depth
	enabled := float32(0)
	if depth != nil {
		enabled = 1
		if err := l.Buffer.Update(lightShadowMVP, shadowViewProjection[:]); err != nil {
			return err
		}
	}
	return l.Buffer.Update(lightShadowEnabled, []float32{enabled})
}

// Destroy deletes the uniform buffer. The shadow map belongs to the caller.
func (l *DirectionalLight) Destroy() {
	l.Buffer.Destroy()
}
