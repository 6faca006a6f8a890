package options

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type ViewerOptions struct {
	Config     *string
	Help       *bool
	Width      *int
	Height     *int
	CameraMode *string // "orbital" or "first-person"
	Eye        *string // "x,y,z"
	Target     *string // "x,y,z"
	MoveSpeed  *float64
	ZoomStep   *float64
	Texture    *string // image used as the cube's color source; empty for a plain color
	Effect     *string // "none", "copy", "grayscale" or a GLSL ES 3.00 fragment file, reloaded on change
	OutputFile *string // records frames to this file when set
	FPS        *int
	Duration   *float64
	FFmpegPath *string
	LogLevel   *string
}

// fileConfig mirrors ViewerOptions for config files. Unset keys keep the
// flag defaults.
type fileConfig struct {
	Width      *int     `toml:"width" yaml:"width"`
	Height     *int     `toml:"height" yaml:"height"`
	CameraMode *string  `toml:"camera_mode" yaml:"camera_mode"`
	Eye        *string  `toml:"eye" yaml:"eye"`
	Target     *string  `toml:"target" yaml:"target"`
	MoveSpeed  *float64 `toml:"move_speed" yaml:"move_speed"`
	ZoomStep   *float64 `toml:"zoom_step" yaml:"zoom_step"`
	Texture    *string  `toml:"texture" yaml:"texture"`
	Effect     *string  `toml:"effect" yaml:"effect"`
	OutputFile *string  `toml:"output" yaml:"output"`
	FPS        *int     `toml:"fps" yaml:"fps"`
	Duration   *float64 `toml:"duration" yaml:"duration"`
	FFmpegPath *string  `toml:"ffmpeg" yaml:"ffmpeg"`
	LogLevel   *string  `toml:"log_level" yaml:"log_level"`
}

// Parse binds the viewer flags to fs and parses args. Values from the
// -config file apply to every flag not given on the command line.
func Parse(fs *flag.FlagSet, args []string) (*ViewerOptions, error) {
	o := &ViewerOptions{
		Config:     fs.String("config", "", "TOML or YAML file with viewer options"),
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		CameraMode: fs.String("camera", "orbital", "Camera mode: orbital or first-person"),
		Eye:        fs.String("eye", "3,2,4", "Initial camera position x,y,z"),
		Target:     fs.String("target", "0,0,0", "Initial camera target x,y,z"),
		MoveSpeed:  fs.Float64("move", 0.05, "Distance moved per frame with WASD"),
		ZoomStep:   fs.Float64("zoom", 0.5, "Distance zoomed per wheel step"),
		Texture:    fs.String("texture", "", "Image file (png, jpeg, bmp, webp) used as the cube's color"),
		Effect:     fs.String("effect", "none", "Post effect: none, copy, grayscale or a fragment shader file"),
		OutputFile: fs.String("output", "", "Record frames to this file instead of opening a window"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		Duration:   fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FFmpegPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		LogLevel:   fs.String("log", "info", "Log level: debug, info, warn or error"),
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *o.Config == "" {
		return o, nil
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	cfg, err := loadFile(*o.Config)
	if err != nil {
		return nil, err
	}
	o.apply(cfg, set)
	return o, nil
}

// loadFile decodes a config file, choosing the format by extension.
func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &fileConfig{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func override[T any](set map[string]bool, flagName string, dst, src *T) {
	if src != nil && !set[flagName] {
		*dst = *src
	}
}

func (o *ViewerOptions) apply(cfg *fileConfig, set map[string]bool) {
	override(set, "width", o.Width, cfg.Width)
	override(set, "height", o.Height, cfg.Height)
	override(set, "camera", o.CameraMode, cfg.CameraMode)
	override(set, "eye", o.Eye, cfg.Eye)
	override(set, "target", o.Target, cfg.Target)
	override(set, "move", o.MoveSpeed, cfg.MoveSpeed)
	override(set, "zoom", o.ZoomStep, cfg.ZoomStep)
	override(set, "texture", o.Texture, cfg.Texture)
	override(set, "effect", o.Effect, cfg.Effect)
	override(set, "output", o.OutputFile, cfg.OutputFile)
	override(set, "fps", o.FPS, cfg.FPS)
	override(set, "duration", o.Duration, cfg.Duration)
	override(set, "ffmpeg", o.FFmpegPath, cfg.FFmpegPath)
	override(set, "log", o.LogLevel, cfg.LogLevel)
}

// Recording reports whether frames go to a file instead of a window.
func (o *ViewerOptions) Recording() bool {
	return *o.OutputFile != ""
}

// ParseVec3 parses "x,y,z".
func ParseVec3(s string) (mgl32.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v mgl32.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return mgl32.Vec3{}, fmt.Errorf("invalid component %q: %w", p, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}
