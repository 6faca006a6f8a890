package graphics

type DepthTest int

const (
	DepthTestLess DepthTest = iota
	DepthTestLessOrEqual
	DepthTestAlways
	DepthTestNever
	DepthTestEqual
	DepthTestGreater
)

type WriteMask int

const (
	WriteColorAndDepth WriteMask = iota
	WriteColor
	WriteDepth
	WriteNone
)

type Cull int

const (
	CullNone Cull = iota
	CullBack
	CullFront
	CullFrontAndBack
)

type Blend int

const (
	BlendDisabled Blend = iota
	BlendTransparency
	BlendAdd
)

// RenderStates is the fixed-function state applied before a draw call.
// The zero value renders opaque, depth tested, without culling.
type RenderStates struct {
	DepthTest DepthTest
	WriteMask WriteMask
	Cull      Cull
	Blend     Blend
}
