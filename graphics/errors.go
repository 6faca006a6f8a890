package graphics

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceCreation is wrapped by every failed GPU object allocation.
	ErrResourceCreation = errors.New("failed creating a new GPU resource")
	// ErrMeshPrecondition is matched by every *MeshPreconditionError.
	ErrMeshPrecondition = errors.New("mesh precondition violated")

	// ErrInvalidTextureLength is matched by every *InvalidTextureLengthError.
	ErrInvalidTextureLength = errors.New("invalid size of texture data")

	// ErrDestroyed is returned when a GPU object is used after Destroy.
	ErrDestroyed = errors.New("object already destroyed")
	// ErrMissingResource is returned when a nil GPU object is bound.
	ErrMissingResource = errors.New("no GPU object given")

	ErrDegenerateView           = errors.New("camera position and target must differ")
	ErrNegativeDistance         = errors.New("cannot take as input a negative minimum distance")
	ErrMinimumLargerThanMaximum = errors.New("a minimum must be smaller than a maximum")
	ErrNonFinite                = errors.New("camera input must be finite")
)

// ResourceError reports which kind of GPU object could not be allocated.
type ResourceError struct {
	Kind string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed creating a new %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("failed creating a new %s", e.Kind)
}

func (e *ResourceError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrResourceCreation, e.Err}
	}
	return []error{ErrResourceCreation}
}

// NewResourceError returns a *ResourceError for kind.
func NewResourceError(kind string) error {
	return &ResourceError{Kind: kind}
}

// ShaderError carries the compiler diagnostics of a failed shader stage.
type ShaderError struct {
	Stage ShaderStage
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("failed compiling %s shader: %s", e.Stage, e.Log)
}

// LinkError carries the linker diagnostics of a failed program.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link shader program: %s", e.Log)
}

// BufferLengthError reports CPU data whose length is not a multiple of
// its element size.
type BufferLengthError struct {
	Name     string
	Length   int
	Multiple int
}

func (e *BufferLengthError) Error() string {
	return fmt.Sprintf("%s buffer length must be divisible by %d, actual count is %d", e.Name, e.Multiple, e.Length)
}

// IndexOutOfRangeError reports an index referencing a missing vertex.
type IndexOutOfRangeError struct {
	Position    int
	Value       uint32
	VertexCount int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d at position %d is outside the expected range [0, %d)", e.Value, e.Position, e.VertexCount)
}

// MissingAttributeError reports a vertex attribute a program declares but
// the mesh does not provide.
type MissingAttributeError struct {
	Name string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("the render call requires the %s vertex buffer which is missing on the given mesh", e.Name)
}

// MeshPreconditionError reports a mesh unsuitable for the requested
// material, for example texturing without uv coordinates.
type MeshPreconditionError struct {
	Message string
}

func (e *MeshPreconditionError) Error() string {
	return e.Message
}

func (e *MeshPreconditionError) Is(target error) bool {
	return target == ErrMeshPrecondition
}

// UnusedUniformError reports a uniform (or uniform block) sent to a program
// that does not declare it.
type UnusedUniformError struct {
	Name  string
	Block bool
}

func (e *UnusedUniformError) Error() string {
	if e.Block {
		return fmt.Sprintf("the uniform block %s is sent to the shader but never used", e.Name)
	}
	return fmt.Sprintf("the uniform %s is sent to the shader but never used", e.Name)
}

// InvalidTextureLengthError reports pixel data that does not match the
// texture dimensions.
type InvalidTextureLengthError struct {
	Got  int
	Want int
}

func (e *InvalidTextureLengthError) Error() string {
	return fmt.Sprintf("invalid size of texture data (got %d bytes but expected %d bytes)", e.Got, e.Want)
}

func (e *InvalidTextureLengthError) Is(target error) bool {
	return target == ErrInvalidTextureLength
}

// AttributeCountError reports a vertex attribute that does not provide one
// element per vertex.
type AttributeCountError struct {
	Name  string
	Count int
	Want  int
}

func (e *AttributeCountError) Error() string {
	return fmt.Sprintf("%s buffer holds %d elements but the mesh has %d vertices", e.Name, e.Count, e.Want)
}

// UniformElementLengthError reports data of the wrong size for an element
// of a uniform buffer.
type UniformElementLengthError struct {
	Index  int
	Length int
	Want   int
}

func (e *UniformElementLengthError) Error() string {
	return fmt.Sprintf("data for element at index %d has length %d but a length of %d was expected", e.Index, e.Length, e.Want)
}
