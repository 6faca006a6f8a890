package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/camera"
	"github.com/richinsley/forwardgl/core"
	"github.com/richinsley/forwardgl/graphics"
	"github.com/richinsley/forwardgl/material"
	"github.com/richinsley/forwardgl/mesh"
	"github.com/richinsley/forwardgl/phong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// scene is a lit cube standing on a uv colored floor.
type scene struct {
	ctx     *core.Context
	cam     *camera.Camera
	handler *camera.Handler

	cubes   []*phong.ForwardMesh
	floor   *core.Mesh
	texture *core.Texture2D
	ambient phong.AmbientLight
	light   *phong.DirectionalLight
	target  *core.RenderTarget
}

func loadTexture(ctx *core.Context, path string) (*core.Texture2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	log.Printf("Loaded %s texture %s (%dx%d)", format, path, img.Bounds().Dx(), img.Bounds().Dy())
	return core.NewTexture2DFromImage(ctx, img, graphics.TextureParams{Filter: graphics.FilterMipmap})
}

func newScene(ctx *core.Context, cam *camera.Camera, handler *camera.Handler, texturePath string) (*scene, error) {
	s := &scene{
		ctx:     ctx,
		cam:     cam,
		handler: handler,
		ambient: phong.AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.25},
	}

	crate := phong.DefaultMaterial()
	crate.Name = "crate"
	crate.Color = mgl32.Vec4{0.8, 0.45, 0.2, 1}
	if texturePath != "" {
		tex, err := loadTexture(ctx, texturePath)
		if err != nil {
			return nil, err
		}
		s.texture = tex
		crate.Texture = tex
	}

	cube := mesh.Cube()
	cube.Name = "cube"
	cube.MaterialName = crate.Name
	cubes, err := phong.NewForwardMeshes(ctx, []*mesh.CPUMesh{cube}, []phong.Material{crate})
	if err != nil {
		s.destroy()
		return nil, err
	}
	s.cubes = cubes

	s.floor, err = core.NewMesh(ctx, mesh.Square())
	if err != nil {
		s.destroy()
		return nil, err
	}

	s.light, err = phong.NewDirectionalLight(ctx, 1.2, mgl32.Vec3{1, 0.95, 0.9}, mgl32.Vec3{-0.4, -1, -0.6})
	if err != nil {
		s.destroy()
		return nil, err
	}
	return s, nil
}

// resize keeps the offscreen target and the camera at the framebuffer size.
func (s *scene) resize(width, height int) error {
	if s.target != nil {
		vp := s.target.Viewport()
		if vp.Width == width && vp.Height == height {
			return nil
		}
		s.target.Destroy()
		s.target = nil
	}
	target, err := core.NewColorDepthTarget(s.ctx, width, height)
	if err != nil {
		return err
	}
	s.target = target
	s.cam.SetViewport(target.Viewport())
	return nil
}

// render draws the scene at time t into the offscreen target.
func (s *scene) render(t float32) error {
	return s.target.Write(graphics.ClearColorAndDepth(0.08, 0.08, 0.1, 1), func() error {
		vp := s.target.Viewport()
		spin := mgl32.HomogRotate3DY(t * 0.5)
		for _, cube := range s.cubes {
			if err := cube.RenderWithAmbientAndDirectional(graphics.RenderStates{Cull: graphics.CullBack}, vp, spin, s.cam, s.ambient, s.light); err != nil {
				return err
			}
		}
		floor := mgl32.Translate3D(0, -1.01, 0).
			Mul4(mgl32.HomogRotate3DX(-mgl32.DegToRad(90))).
			Mul4(mgl32.Scale3D(4, 4, 1))
		return material.Render(s.ctx, s.floor, material.UVMaterial{}, vp, floor, s.cam)
	})
}

// present runs effectSource over the rendered image into the framebuffer
// written by write.
func (s *scene) present(effectSource string, write func(graphics.ClearState, func() error) error) error {
	color := s.target.ColorTexture()
	vp := s.target.Viewport()
	return write(graphics.ClearColorAndDepth(0, 0, 0, 1), func() error {
		return s.ctx.Effect(effectSource, func(e *core.ImageEffect) error {
			return e.Apply(graphics.RenderStates{DepthTest: graphics.DepthTestAlways, WriteMask: graphics.WriteColor}, vp, func(p *core.Program) error {
				if err := p.UseTexture("colorMap", color); err != nil {
					return err
				}
				return p.UseUniformVec2("resolution", mgl32.Vec2{float32(vp.Width), float32(vp.Height)})
			})
		})
	})
}

func (s *scene) destroy() {
	for _, cube := range s.cubes {
		cube.Destroy()
	}
	if s.floor != nil {
		s.floor.Destroy()
	}
	if s.light != nil {
		s.light.Destroy()
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.target != nil {
		s.target.Destroy()
	}
}
