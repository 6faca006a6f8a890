package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPortable(t *testing.T) {
	assert.True(t, IsPortable(CopyEffect))
	assert.True(t, IsPortable("\n  #version 300 es\nvoid main(){}"))
	assert.False(t, IsPortable(ColoredAmbient))
	assert.False(t, IsPortable("void main(){}"))
}

func TestComposeHasSingleVersionHeader(t *testing.T) {
	for _, textured := range []bool{false, true} {
		for _, directional := range []bool{false, true} {
			src := GetPhongFragmentShader(textured, directional)
			assert.True(t, strings.HasPrefix(src, VersionGL))
			assert.Equal(t, 1, strings.Count(src, "#version"))
			assert.Equal(t, directional, strings.Contains(src, "DirectionalLightUniform"))
			assert.Equal(t, textured, strings.Contains(src, "uniform sampler2D tex;"))
		}
	}
}

func TestMeshVertexShaders(t *testing.T) {
	assert.NotContains(t, GetMeshVertexShader(false), "uv_coordinates")
	uv := GetMeshVertexShader(true)
	assert.Contains(t, uv, "in vec2 uv_coordinates;")
	assert.Contains(t, uv, "uvs = uv_coordinates;")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(uv), "}"))
}
