package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	o, err := Parse(flag.NewFlagSet("viewer", flag.ContinueOnError), nil)
	require.NoError(t, err)
	assert.Equal(t, 1280, *o.Width)
	assert.Equal(t, "orbital", *o.CameraMode)
	assert.False(t, o.Recording())
}

func TestTOMLConfig(t *testing.T) {
	path := writeConfig(t, "viewer.toml", `
width = 640
camera_mode = "first-person"
zoom_step = 2.5
output = "cube.mp4"
`)
	o, err := Parse(flag.NewFlagSet("viewer", flag.ContinueOnError), []string{"-config", path, "-width", "800"})
	require.NoError(t, err)
	assert.Equal(t, 800, *o.Width, "flags win over the file")
	assert.Equal(t, 720, *o.Height)
	assert.Equal(t, "first-person", *o.CameraMode)
	assert.Equal(t, 2.5, *o.ZoomStep)
	assert.True(t, o.Recording())
}

func TestYAMLConfig(t *testing.T) {
	path := writeConfig(t, "viewer.yml", "fps: 30\neffect: grayscale\neye: \"1,2,3\"\n")
	o, err := Parse(flag.NewFlagSet("viewer", flag.ContinueOnError), []string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, 30, *o.FPS)
	assert.Equal(t, "grayscale", *o.Effect)
	assert.Equal(t, "1,2,3", *o.Eye)
}

func TestConfigErrors(t *testing.T) {
	path := writeConfig(t, "viewer.json", "{}")
	_, err := Parse(flag.NewFlagSet("viewer", flag.ContinueOnError), []string{"-config", path})
	assert.ErrorContains(t, err, "unsupported config format")

	path = writeConfig(t, "viewer.toml", "width = \"wide\"")
	_, err = Parse(flag.NewFlagSet("viewer", flag.ContinueOnError), []string{"-config", path})
	assert.Error(t, err)

	_, err = Parse(flag.NewFlagSet("viewer", flag.ContinueOnError), []string{"-config", filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
}

func TestParseVec3(t *testing.T) {
	v, err := ParseVec3(" 1, -2.5,3 ")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, -2.5, 3}, v)

	_, err = ParseVec3("1,2")
	assert.Error(t, err)
	_, err = ParseVec3("1,a,2")
	assert.Error(t, err)
}
