package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/graphics"
)

const (
	// RotateSensitivity scales pointer deltas in orbital rotation.
	RotateSensitivity = 0.1
	// MinZoom is the closest the orbital eye may get to its target.
	MinZoom = 1.0
)

var worldUp = mgl32.Vec3{0, 1, 0}

// State is the control mode of a Handler.
type State int

const (
	FirstPerson State = iota
	Orbital
)

// Next returns the state following s in the FirstPerson/Orbital cycle.
func (s State) Next() State {
	if s == FirstPerson {
		return Orbital
	}
	return FirstPerson
}

func (s State) String() string {
	switch s {
	case FirstPerson:
		return "first-person"
	case Orbital:
		return "orbital"
	default:
		return "unknown"
	}
}

// ParseState parses the String form of a State.
func ParseState(s string) (State, bool) {
	switch s {
	case "first-person", "first", "fps":
		return FirstPerson, true
	case "orbital", "orbit", "spherical":
		return Orbital, true
	}
	return FirstPerson, false
}

// controller is the per-state behaviour of a Handler.
type controller interface {
	translate(c *Camera, position, front mgl32.Vec3) error
	rotate(c *Camera, dx, dy float32) error
	zoom(c *Camera, wheel float32) error
}

var controllers = map[State]controller{
	FirstPerson: firstPerson{},
	Orbital:     orbital{},
}

// Handler translates raw input into camera updates according to its state.
// Rotate and Zoom only act in the Orbital state.
type Handler struct {
	state State
}

// NewHandler returns a handler in the FirstPerson state.
func NewHandler() *Handler {
	return &Handler{state: FirstPerson}
}

func (h *Handler) State() State         { return h.state }
func (h *Handler) SetState(state State) { h.state = state }

// Next switches to the other state.
func (h *Handler) Next() {
	h.state = h.state.Next()
}

// Translate moves the camera. In FirstPerson the camera is placed at
// position looking along front. In Orbital, position becomes the new orbit
// center and the eye follows it, keeping orientation and zoom.
func (h *Handler) Translate(c *Camera, position, front mgl32.Vec3) error {
	if !finite(position[0], position[1], position[2], front[0], front[1], front[2]) {
		return graphics.ErrNonFinite
	}
	return controllers[h.state].translate(c, position, front)
}

// Rotate orbits the eye around the target by a pointer delta.
func (h *Handler) Rotate(c *Camera, dx, dy float32) error {
	if !finite(dx, dy) {
		return graphics.ErrNonFinite
	}
	return controllers[h.state].rotate(c, dx, dy)
}

// Zoom moves the eye along the view direction by a wheel delta, never
// closer than MinZoom to the target.
func (h *Handler) Zoom(c *Camera, wheel float32) error {
	if !finite(wheel) {
		return graphics.ErrNonFinite
	}
	return controllers[h.state].zoom(c, wheel)
}

func finite(values ...float32) bool {
	for _, v := range values {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type firstPerson struct{}

func (firstPerson) translate(c *Camera, position, front mgl32.Vec3) error {
	if front.Len() < epsilon {
		return graphics.ErrDegenerateView
	}
	return c.SetView(position, position.Add(front), c.Up())
}

func (firstPerson) rotate(*Camera, float32, float32) error { return nil }
func (firstPerson) zoom(*Camera, float32) error            { return nil }

type orbital struct{}

func (orbital) translate(c *Camera, position, _ mgl32.Vec3) error {
	change := position.Sub(c.Target())
	return c.SetView(c.Position().Add(change), position, c.Up())
}

func (orbital) rotate(c *Camera, dx, dy float32) error {
	target := c.Target()
	offset := c.Position().Sub(target)
	zoom := offset.Len()
	if zoom < epsilon {
		return nil
	}
	direction := offset.Mul(-1 / zoom)

	right := direction.Cross(worldUp)
	if right.Len() < epsilon {
		// looking straight up or down
		right = direction.Cross(safeUp(direction, c.Up()))
	}
	up := right.Cross(direction)

	moved := c.Position().Add(right.Mul(-dx).Add(up.Mul(dy)).Mul(RotateSensitivity))
	newOffset := moved.Sub(target)
	if newOffset.Len() < epsilon {
		return nil
	}
	return c.SetView(target.Add(newOffset.Normalize().Mul(zoom)), target, c.Up())
}

func (orbital) zoom(c *Camera, wheel float32) error {
	target := c.Target()
	distance := c.Position().Sub(target).Len()
	direction := c.Direction()
	if direction.Len() < epsilon {
		direction = mgl32.Vec3{0, 0, -1}
	}
	zoom := math32.Max(MinZoom, distance+wheel)
	return c.SetView(target.Sub(direction.Mul(zoom)), target, c.Up())
}
