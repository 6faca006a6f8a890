package shader

import "strings"

// Version headers. Mesh shaders target desktop GL 4.1; portable effect
// fragments are GLSL ES 3.00 and translated by the device.
const (
	VersionGL       = "#version 410 core\n"
	VersionPortable = "#version 300 es\n"
)

// ────────────────────────────────── Mesh vertex ─────────────────────────────────

const meshVertexBody = `
uniform mat4 viewProjection;
uniform mat4 modelMatrix;
uniform mat4 normalMatrix;

in vec3 position;
in vec3 normal;

out vec3 pos;
out vec3 nor;
`

const meshVertexMain = `
void main()
{
    vec4 worldPosition = modelMatrix * vec4(position, 1.0);
    pos = worldPosition.xyz;
    nor = mat3(normalMatrix) * normal;
    gl_Position = viewProjection * worldPosition;
`

// MeshVertex reads position and normal and passes world space pos and nor
// on.
const MeshVertex = VersionGL + meshVertexBody + meshVertexMain + "}\n"

// MeshVertexUV is MeshVertex that also passes uv_coordinates on as uvs.
const MeshVertexUV = VersionGL + meshVertexBody + `
in vec2 uv_coordinates;
out vec2 uvs;
` + meshVertexMain + `    uvs = uv_coordinates;
}
`

// ──────────────────────────────── Phong fragments ───────────────────────────────

const ColoredAmbient = VersionGL + `
uniform vec3 ambientColor;
uniform vec4 surfaceColor;

layout (location = 0) out vec4 outColor;

void main()
{
    outColor = vec4(ambientColor * surfaceColor.rgb, surfaceColor.a);
}
`

const TexturedAmbient = VersionGL + `
uniform vec3 ambientColor;
uniform sampler2D tex;

in vec2 uvs;

layout (location = 0) out vec4 outColor;

void main()
{
    vec4 color = texture(tex, uvs);
    outColor = vec4(ambientColor * color.rgb, color.a);
}
`

// LightShared declares the directional light block, the shadow map and the
// phong material uniforms. Compose it in front of the directional
// fragments.
const LightShared = `
layout (std140) uniform DirectionalLightUniform
{
    vec3 lightColor;
    float lightIntensity;
    vec3 lightDirection;
    float shadowEnabled;
    mat4 shadowMVP;
};

uniform sampler2D shadowMap;
uniform vec3 eyePosition;
uniform float diffuseIntensity;
uniform float specularIntensity;
uniform float specularPower;

float isVisible(vec3 worldPosition)
{
    vec4 shadowCoord = shadowMVP * vec4(worldPosition, 1.0);
    vec3 coord = shadowCoord.xyz / shadowCoord.w * 0.5 + 0.5;
    float visible = texture(shadowMap, coord.xy).x < coord.z - 0.005 ? 0.5 : 1.0;
    return mix(1.0, visible, shadowEnabled);
}

vec3 directionalLight(vec3 surfaceColor, vec3 worldPosition, vec3 normal)
{
    vec3 toLight = normalize(-lightDirection);
    float diffuse = max(dot(normal, toLight), 0.0);
    vec3 toEye = normalize(eyePosition - worldPosition);
    vec3 halfway = normalize(toLight + toEye);
    float specular = diffuse > 0.0 ? pow(max(dot(normal, halfway), 0.0), specularPower) : 0.0;
    vec3 light = lightColor * lightIntensity * (diffuseIntensity * diffuse * surfaceColor + specularIntensity * specular);
    return light * isVisible(worldPosition);
}
`

const ColoredAmbientDirectional = `
uniform vec3 ambientColor;
uniform vec4 surfaceColor;

in vec3 pos;
in vec3 nor;

layout (location = 0) out vec4 outColor;

void main()
{
    vec3 normal = normalize(gl_FrontFacing ? nor : -nor);
    vec3 color = ambientColor * surfaceColor.rgb + directionalLight(surfaceColor.rgb, pos, normal);
    outColor = vec4(color, surfaceColor.a);
}
`

const TexturedAmbientDirectional = `
uniform vec3 ambientColor;
uniform sampler2D tex;

in vec3 pos;
in vec3 nor;
in vec2 uvs;

layout (location = 0) out vec4 outColor;

void main()
{
    vec3 normal = normalize(gl_FrontFacing ? nor : -nor);
    vec4 surface = texture(tex, uvs);
    vec3 color = ambientColor * surface.rgb + directionalLight(surface.rgb, pos, normal);
    outColor = vec4(color, surface.a);
}
`

// ─────────────────────────────────── Materials ──────────────────────────────────

// UVMaterial shows the uv coordinates of a mesh as red and green.
const UVMaterial = VersionGL + `
in vec2 uvs;

layout (location = 0) out vec4 outColor;

void main()
{
    outColor = vec4(uvs, 0.0, 1.0);
}
`

// NormalMaterial shows world space normals mapped into [0, 1].
const NormalMaterial = VersionGL + `
in vec3 nor;

layout (location = 0) out vec4 outColor;

void main()
{
    outColor = vec4(normalize(nor) * 0.5 + 0.5, 1.0);
}
`

// ──────────────────────────────── Image effects ─────────────────────────────────

// EffectVertex emits one triangle covering the viewport from gl_VertexID
// alone, so it needs no vertex attributes. Effect fragments work from
// gl_FragCoord.
const EffectVertex = VersionGL + `
void main()
{
    vec2 p = vec2(float((gl_VertexID << 1) & 2), float(gl_VertexID & 2));
    gl_Position = vec4(p * 2.0 - 1.0, 0.0, 1.0);
}
`

// CopyEffect samples colorMap at the fragment's position in a viewport of
// size resolution.
const CopyEffect = VersionPortable + `precision highp float;

uniform sampler2D colorMap;
uniform vec2 resolution;

out vec4 outColor;

void main()
{
    outColor = texture(colorMap, gl_FragCoord.xy / resolution);
}
`

// GrayscaleEffect is CopyEffect reduced to luminance.
const GrayscaleEffect = VersionPortable + `precision highp float;

uniform sampler2D colorMap;
uniform vec2 resolution;

out vec4 outColor;

void main()
{
    vec4 c = texture(colorMap, gl_FragCoord.xy / resolution);
    float l = dot(c.rgb, vec3(0.2126, 0.7152, 0.0722));
    outColor = vec4(vec3(l), c.a);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Compose joins parts under a single desktop GL version header.
func Compose(parts ...string) string {
	return VersionGL + strings.Join(parts, "\n")
}

// IsPortable reports whether src is a GLSL ES 3.00 source.
func IsPortable(src string) bool {
	return strings.HasPrefix(strings.TrimSpace(src), strings.TrimSpace(VersionPortable))
}

// GetPhongFragmentShader returns the fragment source for a phong program
// with a color or texture surface, lit by ambient light and optionally a
// directional light.
func GetPhongFragmentShader(textured, directional bool) string {
	switch {
	case textured && directional:
		return Compose(LightShared, TexturedAmbientDirectional)
	case directional:
		return Compose(LightShared, ColoredAmbientDirectional)
	case textured:
		return TexturedAmbient
	default:
		return ColoredAmbient
	}
}

// GetMeshVertexShader returns the vertex source matching a fragment that
// reads uvs when textured is set.
func GetMeshVertexShader(textured bool) string {
	if textured {
		return MeshVertexUV
	}
	return MeshVertex
}
