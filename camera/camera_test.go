package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/graphics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionValidation(t *testing.T) {
	vp := graphics.NewViewportAtOrigin(100, 100)
	_, err := NewPerspective(vp, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 1, -1, 10)
	assert.ErrorIs(t, err, graphics.ErrNegativeDistance)

	_, err = NewOrthographic(vp, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 1, 10, 10)
	assert.ErrorIs(t, err, graphics.ErrMinimumLargerThanMaximum)

	_, err = NewOrthographic(vp, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 1, 0, 10)
	assert.ErrorIs(t, err, graphics.ErrDegenerateView)
}

func TestViewportChangeUpdatesProjection(t *testing.T) {
	c, err := NewOrthographic(graphics.NewViewportAtOrigin(100, 100), mgl32.Vec3{0, 0, -1}, mgl32.Vec3{}, mgl32.Vec3{0, -1, 0}, 100, 0, 10)
	require.NoError(t, err)
	before := c.Projection()

	assert.False(t, c.SetViewport(graphics.NewViewportAtOrigin(100, 100)))
	assert.True(t, c.SetViewport(graphics.NewViewportAtOrigin(200, 100)))
	assert.NotEqual(t, before, c.Projection())
	assert.Equal(t, 200, c.Viewport().Width)
}

func TestViewMatrixMapsTargetOntoAxis(t *testing.T) {
	c, err := NewPerspective(graphics.NewViewportAtOrigin(4, 3), mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(60), 0.1, 50)
	require.NoError(t, err)
	v := c.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, v.X(), tol)
	assert.InDelta(t, 0, v.Y(), tol)
	assert.InDelta(t, -5, v.Z(), tol)
	assertVecNear(t, mgl32.Vec3{0, 0, -1}, c.Direction())
}

func TestViewWithParallelUpStaysFinite(t *testing.T) {
	c, err := NewPerspective(graphics.NewViewportAtOrigin(4, 3), mgl32.Vec3{0, 5, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 1, 0.1, 50)
	require.NoError(t, err)
	for _, f := range c.View() {
		assert.False(t, f != f, "view matrix contains NaN")
	}
}
