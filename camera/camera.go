// Package camera implements view/projection cameras and the handler that
// turns pointer, wheel and movement input into camera updates.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/graphics"
)

// epsilon is the length below which a vector is treated as zero.
const epsilon = 1e-6

// ProjectionType selects between perspective and orthographic projection.
type ProjectionType int

const (
	Perspective ProjectionType = iota
	Orthographic
)

// Pose is the placement of a camera. Zoom is the distance from Position to
// Target.
type Pose struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	Zoom     float32
}

// Camera holds a viewport, a view defined by position/target/up and a
// projection, together with the derived matrices.
type Camera struct {
	viewport       graphics.Viewport
	projectionType ProjectionType
	fovY           float32
	height         float32
	zNear          float32
	zFar           float32

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// NewPerspective returns a perspective camera. fovY is in radians.
func NewPerspective(viewport graphics.Viewport, position, target, up mgl32.Vec3, fovY, zNear, zFar float32) (*Camera, error) {
	c := &Camera{viewport: viewport}
	if err := c.SetPerspectiveProjection(fovY, zNear, zFar); err != nil {
		return nil, err
	}
	if err := c.SetView(position, target, up); err != nil {
		return nil, err
	}
	return c, nil
}

// NewOrthographic returns an orthographic camera covering height world
// units vertically; the width follows the viewport aspect ratio.
func NewOrthographic(viewport graphics.Viewport, position, target, up mgl32.Vec3, height, zNear, zFar float32) (*Camera, error) {
	c := &Camera{viewport: viewport}
	if err := c.SetOrthographicProjection(height, zNear, zFar); err != nil {
		return nil, err
	}
	if err := c.SetView(position, target, up); err != nil {
		return nil, err
	}
	return c, nil
}

func checkDepthRange(zNear, zFar float32) error {
	if zNear < 0 {
		return graphics.ErrNegativeDistance
	}
	if zNear >= zFar {
		return graphics.ErrMinimumLargerThanMaximum
	}
	return nil
}

// SetPerspectiveProjection switches to a perspective projection.
func (c *Camera) SetPerspectiveProjection(fovY, zNear, zFar float32) error {
	if err := checkDepthRange(zNear, zFar); err != nil {
		return err
	}
	c.projectionType = Perspective
	c.fovY = fovY
	c.zNear = zNear
	c.zFar = zFar
	c.updateProjection()
	return nil
}

// SetOrthographicProjection switches to an orthographic projection.
func (c *Camera) SetOrthographicProjection(height, zNear, zFar float32) error {
	if err := checkDepthRange(zNear, zFar); err != nil {
		return err
	}
	c.projectionType = Orthographic
	c.height = height
	c.zNear = zNear
	c.zFar = zFar
	c.updateProjection()
	return nil
}

// SetViewport changes the viewport and reports whether it differed.
func (c *Camera) SetViewport(v graphics.Viewport) bool {
	if c.viewport == v {
		return false
	}
	c.viewport = v
	c.updateProjection()
	return true
}

func (c *Camera) updateProjection() {
	aspect := c.viewport.Aspect()
	switch c.projectionType {
	case Orthographic:
		h := c.height * 0.5
		w := h * aspect
		c.projection = mgl32.Ortho(-w, w, -h, h, c.zNear, c.zFar)
	default:
		c.projection = mgl32.Perspective(c.fovY, aspect, c.zNear, c.zFar)
	}
}

// SetView places the camera at position looking at target. up need not be
// orthogonal to the view direction.
func (c *Camera) SetView(position, target, up mgl32.Vec3) error {
	if !finite(position[0], position[1], position[2], target[0], target[1], target[2]) {
		return graphics.ErrNonFinite
	}
	if target.Sub(position).Len() < epsilon {
		return graphics.ErrDegenerateView
	}
	c.position = position
	c.target = target
	c.up = up
	c.view = mgl32.LookAtV(position, target, safeUp(target.Sub(position).Normalize(), up))
	return nil
}

// safeUp returns up, or a substitute axis when up is zero or parallel to
// direction.
func safeUp(direction, up mgl32.Vec3) mgl32.Vec3 {
	if up.Len() > epsilon && direction.Cross(up.Normalize()).Len() > epsilon {
		return up
	}
	for _, axis := range []mgl32.Vec3{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}} {
		if direction.Cross(axis).Len() > epsilon {
			return axis
		}
	}
	return mgl32.Vec3{0, 1, 0}
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Target returns the point the camera looks at.
func (c *Camera) Target() mgl32.Vec3 { return c.target }

// Up returns the up vector given to the last SetView.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// Direction returns the unit vector from position to target.
func (c *Camera) Direction() mgl32.Vec3 {
	d := c.target.Sub(c.position)
	if d.Len() < epsilon {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}

// Pose returns the current placement of the camera.
func (c *Camera) Pose() Pose {
	return Pose{
		Position: c.position,
		Target:   c.target,
		Up:       c.up,
		Zoom:     c.position.Sub(c.target).Len(),
	}
}

func (c *Camera) Viewport() graphics.Viewport     { return c.viewport }
func (c *Camera) ProjectionType() ProjectionType { return c.projectionType }
func (c *Camera) ZNear() float32                 { return c.zNear }
func (c *Camera) ZFar() float32                  { return c.zFar }
func (c *Camera) View() mgl32.Mat4               { return c.view }
func (c *Camera) Projection() mgl32.Mat4         { return c.projection }

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.view)
}
