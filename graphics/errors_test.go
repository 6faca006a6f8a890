package graphics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("failed to create surface: %w", NewResourceError("vertex array"))
	assert.ErrorIs(t, err, ErrResourceCreation)

	var re *ResourceError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "vertex array", re.Kind)
}

func TestResourceErrorKeepsCause(t *testing.T) {
	cause := errors.New("framebuffer incomplete")
	err := &ResourceError{Kind: "render target", Err: cause}
	assert.ErrorIs(t, err, ErrResourceCreation)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "framebuffer incomplete")
}

func TestMeshPreconditionError(t *testing.T) {
	err := fmt.Errorf("render: %w", &MeshPreconditionError{Message: "no uvs"})
	assert.ErrorIs(t, err, ErrMeshPrecondition)
	assert.Equal(t, "render: no uvs", err.Error())
}

func TestShaderErrorMessage(t *testing.T) {
	err := &ShaderError{Stage: FragmentStage, Log: "0:1: syntax error"}
	assert.Equal(t, "failed compiling fragment shader: 0:1: syntax error", err.Error())
}
