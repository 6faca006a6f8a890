package phong

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/cache"
	"github.com/richinsley/forwardgl/camera"
	"github.com/richinsley/forwardgl/core"
	"github.com/richinsley/forwardgl/devicetest"
	"github.com/richinsley/forwardgl/graphics"
	"github.com/richinsley/forwardgl/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dev *devicetest.Device
	ctx *core.Context
	cam *camera.Camera
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dev := devicetest.New(devicetest.MeshAttributes()...)
	cam, err := camera.NewPerspective(graphics.NewViewportAtOrigin(64, 64), mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(45), 0.1, 100)
	require.NoError(t, err)
	return &fixture{dev: dev, ctx: core.NewContext(dev), cam: cam}
}

func (f *fixture) ambient(t *testing.T, m *ForwardMesh) {
	t.Helper()
	require.NoError(t, m.RenderWithAmbient(graphics.RenderStates{}, f.cam.Viewport(), mgl32.Ident4(), f.cam, DefaultAmbientLight()))
}

func (f *fixture) directional(t *testing.T, m *ForwardMesh, light *DirectionalLight) {
	t.Helper()
	require.NoError(t, m.RenderWithAmbientAndDirectional(graphics.RenderStates{}, f.cam.Viewport(), mgl32.Ident4(), f.cam, AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.2}, light))
}

func (f *fixture) population(t *testing.T) *core.ProgramPopulation {
	t.Helper()
	p, err := f.ctx.Population(Class)
	require.NoError(t, err)
	return p
}

func TestForwardMeshRequiresNormals(t *testing.T) {
	f := newFixture(t)
	cube := mesh.Cube()
	cube.Normals = nil
	_, err := NewForwardMesh(f.ctx, cube, DefaultMaterial())
	assert.ErrorIs(t, err, graphics.ErrMeshPrecondition)
	assert.Equal(t, 0, f.population(t).Count())
}

func TestProgramsSharedAcrossMeshes(t *testing.T) {
	f := newFixture(t)
	a, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	b, err := NewForwardMesh(f.ctx, mesh.Square(), DefaultMaterial())
	require.NoError(t, err)
	assert.Equal(t, 2, f.population(t).Count())

	f.ambient(t, a)
	f.ambient(t, b)
	assert.Equal(t, 1, f.dev.Count("CreateProgram"))
	assert.True(t, f.population(t).Populated(SlotColorAmbient))

	light, err := NewDirectionalLight(f.ctx, 1, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, -1, -1})
	require.NoError(t, err)
	f.directional(t, a, light)
	f.directional(t, b, light)
	assert.Equal(t, 2, f.dev.Count("CreateProgram"))
	assert.Equal(t, 2, f.population(t).Len())
}

func TestProgramsDestroyedWithLastMesh(t *testing.T) {
	f := newFixture(t)
	a, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	b, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	f.ambient(t, a)
	f.ambient(t, b)

	a.Destroy()
	a.Destroy()
	assert.Equal(t, 1, f.dev.Live("program"))
	f.ambient(t, b)

	b.Destroy()
	assert.Equal(t, 0, f.dev.Live("program"))
	assert.Equal(t, 0, f.dev.Live("vertex array"))
	assert.Equal(t, 0, f.population(t).Len())

	err = b.RenderWithAmbient(graphics.RenderStates{}, f.cam.Viewport(), mgl32.Ident4(), f.cam, DefaultAmbientLight())
	assert.ErrorIs(t, err, cache.ErrLeaseReleased)

	c, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	f.ambient(t, c)
	assert.Equal(t, 2, f.dev.Count("CreateProgram"))
}

func TestTextureRequiresUVs(t *testing.T) {
	f := newFixture(t)
	tex, err := core.NewTexture2D(f.ctx, 1, 1, graphics.FormatRGBA8, graphics.TextureParams{}, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	material := DefaultMaterial()
	material.Texture = tex

	noUVs := mesh.Cube()
	noUVs.UVs = nil
	m, err := NewForwardMesh(f.ctx, noUVs, material)
	require.NoError(t, err)
	err = m.RenderWithAmbient(graphics.RenderStates{}, f.cam.Viewport(), mgl32.Ident4(), f.cam, DefaultAmbientLight())
	assert.ErrorIs(t, err, graphics.ErrMeshPrecondition)
	assert.Equal(t, 0, f.dev.Count("CreateProgram"))

	textured, err := NewForwardMesh(f.ctx, mesh.Cube(), material)
	require.NoError(t, err)
	f.ambient(t, textured)
	assert.True(t, f.population(t).Populated(SlotTextureAmbient))
	v, ok := f.dev.Uniform("tex")
	require.True(t, ok)
	assert.Equal(t, int32(0), v)
}

func TestDirectionalBindsLightAndMaterial(t *testing.T) {
	f := newFixture(t)
	m, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	light, err := NewDirectionalLight(f.ctx, 2, mgl32.Vec3{1, 0.5, 0}, mgl32.Vec3{0, -2, 0})
	require.NoError(t, err)

	f.directional(t, m, light)

	v, _ := f.dev.Uniform("DirectionalLightUniform")
	assert.Equal(t, light.Buffer.ID(), v)
	v, _ = f.dev.Uniform("eyePosition")
	assert.Equal(t, [3]float32{0, 0, 5}, v)
	v, _ = f.dev.Uniform("ambientColor")
	assert.InDeltaSlice(t, []float32{0.2, 0.2, 0.2}, toSlice(v.([3]float32)), 1e-6)
	v, _ = f.dev.Uniform("specularPower")
	assert.Equal(t, float32(6), v)
	assert.Equal(t, 1, f.dev.Count("CreateTexture(1x1)"), "missing shadow map falls back to the dummy texture")

	dir, ok := light.Buffer.Get(lightDirection)
	require.True(t, ok)
	assert.Equal(t, []float32{0, -1, 0}, dir)
	enabled, _ := light.Buffer.Get(lightShadowEnabled)
	assert.Equal(t, []float32{0}, enabled)
}

func TestShadowMapEnablesShadows(t *testing.T) {
	f := newFixture(t)
	depth, err := core.NewTexture2D(f.ctx, 8, 8, graphics.FormatDepth32F, graphics.TextureParams{}, nil)
	require.NoError(t, err)
	light, err := NewDirectionalLight(f.ctx, 1, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{0, 0, -1})
	require.NoError(t, err)
	require.NoError(t, light.SetShadowMap(depth, mgl32.Ident4()))

	m, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	f.directional(t, m, light)

	enabled, _ := light.Buffer.Get(lightShadowEnabled)
	assert.Equal(t, []float32{1}, enabled)
	assert.Equal(t, depth.ID(), f.dev.Textures[0])
}

func TestRenderDepthUsesAmbientProgram(t *testing.T) {
	f := newFixture(t)
	m, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	require.NoError(t, m.RenderDepth(graphics.RenderStates{WriteMask: graphics.WriteDepth}, f.cam.Viewport(), mgl32.Ident4(), f.cam))
	assert.True(t, f.population(t).Populated(SlotColorAmbient))
	v, _ := f.dev.Uniform("ambientColor")
	assert.Equal(t, [3]float32{1, 1, 1}, v)
	assert.Equal(t, graphics.WriteDepth, f.dev.States[len(f.dev.States)-1].WriteMask)
}

func TestNewForwardMeshesResolvesMaterials(t *testing.T) {
	f := newFixture(t)
	red := DefaultMaterial()
	red.Name = "red"
	red.Color = mgl32.Vec4{1, 0, 0, 1}
	redder := red
	redder.Color = mgl32.Vec4{0.9, 0, 0, 1}

	named := mesh.Cube()
	named.MaterialName = "red"
	unknown := mesh.Cube()
	unknown.MaterialName = "blue"
	plain := mesh.Square()

	meshes, err := NewForwardMeshes(f.ctx, []*mesh.CPUMesh{named, unknown, plain}, []Material{red, redder})
	require.NoError(t, err)
	require.Len(t, meshes, 3)
	assert.Equal(t, redder.Color, meshes[0].Material.Color)
	assert.Equal(t, "default", meshes[1].Material.Name)
	assert.Equal(t, "default", meshes[2].Material.Name)
	assert.Equal(t, 3, f.population(t).Count())
}

func TestNewForwardMeshesCleansUpOnError(t *testing.T) {
	f := newFixture(t)
	bad := mesh.Cube()
	bad.Normals = nil
	_, err := NewForwardMeshes(f.ctx, []*mesh.CPUMesh{mesh.Cube(), bad}, nil)
	assert.ErrorIs(t, err, graphics.ErrMeshPrecondition)
	assert.Equal(t, 0, f.population(t).Count())
}

func toSlice(v [3]float32) []float32 { return v[:] }

func TestDirectionalWithoutBufferFails(t *testing.T) {
	f := newFixture(t)
	m, err := NewForwardMesh(f.ctx, mesh.Cube(), DefaultMaterial())
	require.NoError(t, err)
	defer m.Destroy()

	err = m.RenderWithAmbientAndDirectional(graphics.RenderStates{}, f.cam.Viewport(), mgl32.Ident4(), f.cam, DefaultAmbientLight(), &DirectionalLight{})
	assert.ErrorIs(t, err, graphics.ErrMissingResource)
	assert.Empty(t, f.dev.Draws)
}
