package graphics

// Window defines the interface for the window owning an OpenGL context.
type Window interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
}

// ShaderStage identifies the pipeline stage a shader source belongs to.
type ShaderStage string

const (
	VertexStage   ShaderStage = "vertex"
	FragmentStage ShaderStage = "fragment"
)

// ProgramSource is the raw text of a vertex/fragment program.
type ProgramSource struct {
	Vertex   string
	Fragment string
	// Portable marks a fragment source written in GLSL ES 3.00. Devices
	// running a different dialect translate it before compiling.
	Portable bool
}

// AttributeInfo describes an active vertex attribute of a linked program.
type AttributeInfo struct {
	Name       string
	Location   uint32
	Components int32
}

// TextureFormat is the internal storage format of a texture.
type TextureFormat int

const (
	FormatRGBA8 TextureFormat = iota
	FormatRGBA32F
	FormatDepth32F
)

// BytesPerPixel returns the size of a texel for CPU side uploads.
func (f TextureFormat) BytesPerPixel() int {
	if f == FormatRGBA32F {
		return 16
	}
	return 4
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
	FilterMipmap
)

type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClamp
)

// TextureParams are the sampling parameters of a texture.
type TextureParams struct {
	Filter Filter
	Wrap   Wrap
}

// Viewport is a rectangle of the framebuffer in pixels.
type Viewport struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewViewportAtOrigin returns a viewport of the given size at (0, 0).
func NewViewportAtOrigin(width, height int) Viewport {
	return Viewport{Width: width, Height: height}
}

// Aspect returns width / height, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// ClearState selects which buffers Clear resets and to what.
type ClearState struct {
	Color *[4]float32
	Depth *float32
}

// ClearColorAndDepth clears both the color and the depth buffer.
func ClearColorAndDepth(r, g, b, a float32) ClearState {
	depth := float32(1)
	return ClearState{Color: &[4]float32{r, g, b, a}, Depth: &depth}
}

// ClearDepth clears only the depth buffer.
func ClearDepth() ClearState {
	depth := float32(1)
	return ClearState{Depth: &depth}
}

// Device is the raw GPU API. All calls must happen on the goroutine owning
// the underlying context. Handles are plain object names; zero is never a
// valid handle.
type Device interface {
	CreateVertexArray() (uint32, error)
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)

	CreateVertexBuffer(data []float32) (uint32, error)
	// CreateElementBuffer attaches the buffer to the currently bound vertex array.
	CreateElementBuffer(indices []uint32) (uint32, error)
	CreateUniformBuffer(data []float32) (uint32, error)
	UpdateUniformBuffer(id uint32, data []float32)
	DeleteBuffer(id uint32)
	// VertexAttribute points location at components floats of buffer
	// starting at offset bytes, for the currently bound vertex array.
	VertexAttribute(buffer, location uint32, components int32, offset int)

	CreateProgram(src ProgramSource) (uint32, error)
	ProgramAttributes(program uint32) []AttributeInfo
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformInt(location int32, v int32)
	UniformFloat(location int32, v float32)
	UniformVec2(location int32, v [2]float32)
	UniformVec3(location int32, v [3]float32)
	UniformVec4(location int32, v [4]float32)
	UniformMat3(location int32, m [9]float32)
	UniformMat4(location int32, m [16]float32)
	// UniformBlock binds buffer to the named block of program. It returns
	// false when the program declares no such block.
	UniformBlock(program uint32, name string, binding, buffer uint32) bool
	DeleteProgram(program uint32)

	CreateTexture(width, height int, format TextureFormat, params TextureParams, pixels []byte) (uint32, error)
	BindTexture(unit, texture uint32)
	DeleteTexture(id uint32)

	// CreateFramebuffer attaches color and depth textures; either may be zero.
	CreateFramebuffer(color, depth uint32) (uint32, error)
	// BindFramebuffer binds id for drawing and reading; zero is the screen.
	BindFramebuffer(id uint32)
	DeleteFramebuffer(id uint32)
	ReadPixels(v Viewport) []byte

	Viewport(v Viewport)
	Clear(c ClearState)
	SetRenderStates(s RenderStates)
	DrawArrays(count int32)
	DrawElements(count int32)
}
