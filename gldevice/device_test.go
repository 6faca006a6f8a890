package gldevice

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/forwardgl/graphics"
	gst "github.com/richinsley/goshadertranslator"
	"github.com/stretchr/testify/assert"
)

func TestDepthFunc(t *testing.T) {
	tests := []struct {
		in   graphics.DepthTest
		want uint32
	}{
		{graphics.DepthTestLess, gl.LESS},
		{graphics.DepthTestLessOrEqual, gl.LEQUAL},
		{graphics.DepthTestAlways, gl.ALWAYS},
		{graphics.DepthTestNever, gl.NEVER},
		{graphics.DepthTestEqual, gl.EQUAL},
		{graphics.DepthTestGreater, gl.GREATER},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, depthFuncOf(tt.in))
	}
}

func TestWriteMasks(t *testing.T) {
	color, depth := masksOf(graphics.RenderStates{}.WriteMask)
	assert.True(t, color)
	assert.True(t, depth)
	color, depth = masksOf(graphics.WriteDepth)
	assert.False(t, color)
	assert.True(t, depth)
	color, depth = masksOf(graphics.WriteNone)
	assert.False(t, color)
	assert.False(t, depth)
}

func TestCullAndBlend(t *testing.T) {
	_, on := cullFaceOf(graphics.CullNone)
	assert.False(t, on)
	face, on := cullFaceOf(graphics.CullBack)
	assert.True(t, on)
	assert.Equal(t, uint32(gl.BACK), face)

	_, _, on = blendFuncOf(graphics.BlendDisabled)
	assert.False(t, on)
	src, dst, on := blendFuncOf(graphics.BlendTransparency)
	assert.True(t, on)
	assert.Equal(t, uint32(gl.SRC_ALPHA), src)
	assert.Equal(t, uint32(gl.ONE_MINUS_SRC_ALPHA), dst)
}

func TestTextureFormats(t *testing.T) {
	assert.Equal(t, textureFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}, textureFormatOf(graphics.FormatRGBA8))
	assert.Equal(t, int32(gl.DEPTH_COMPONENT32F), textureFormatOf(graphics.FormatDepth32F).internal)

	minFilter, magFilter := filterOf(graphics.FilterMipmap)
	assert.Equal(t, int32(gl.LINEAR_MIPMAP_LINEAR), minFilter)
	assert.Equal(t, int32(gl.LINEAR), magFilter)
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), wrapOf(graphics.WrapClamp))
}

func TestComponents(t *testing.T) {
	assert.Equal(t, int32(2), componentsOf(gl.FLOAT_VEC2))
	assert.Equal(t, int32(3), componentsOf(gl.FLOAT_VEC3))
	assert.Equal(t, graphics.VertexStage, stageOf(gl.VERTEX_SHADER))
	assert.Equal(t, graphics.FragmentStage, stageOf(gl.FRAGMENT_SHADER))
}

func TestMappedNames(t *testing.T) {
	names := mappedNames(map[string]gst.ShaderVariable{
		"colorMap":   {MappedName: "_ucolorMap"},
		"resolution": {MappedName: "resolution"},
	})
	assert.Equal(t, map[string]string{"colorMap": "_ucolorMap"}, names)

	d := &Device{names: map[uint32]map[string]string{7: names}}
	assert.Equal(t, "_ucolorMap", d.mapped(7, "colorMap"))
	assert.Equal(t, "resolution", d.mapped(7, "resolution"))
	assert.Equal(t, "colorMap", d.mapped(8, "colorMap"))
}
