package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/forwardgl/camera"
	"github.com/richinsley/forwardgl/core"
	"github.com/richinsley/forwardgl/gldevice"
	"github.com/richinsley/forwardgl/glfwcontext"
	"github.com/richinsley/forwardgl/graphics"
	"github.com/richinsley/forwardgl/options"
	"github.com/richinsley/forwardgl/recorder"
)

func init() {
	runtime.LockOSThread()
}

func newCamera(opts *options.ViewerOptions) (*camera.Camera, *camera.Handler, error) {
	eye, err := options.ParseVec3(*opts.Eye)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid -eye: %w", err)
	}
	target, err := options.ParseVec3(*opts.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid -target: %w", err)
	}
	state, ok := camera.ParseState(*opts.CameraMode)
	if !ok {
		return nil, nil, fmt.Errorf("unknown camera mode %q", *opts.CameraMode)
	}
	viewport := graphics.NewViewportAtOrigin(*opts.Width, *opts.Height)
	cam, err := camera.NewPerspective(viewport, eye, target, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(45), 0.1, 100)
	if err != nil {
		return nil, nil, err
	}
	handler := camera.NewHandler()
	handler.SetState(state)
	return cam, handler, nil
}

// steer applies one frame of pointer and keyboard input to the camera.
func steer(win *glfwcontext.Context, s *scene, opts *options.ViewerOptions) {
	in := win.Input()
	if in.DragX != 0 || in.DragY != 0 {
		if err := s.handler.Rotate(s.cam, in.DragX, in.DragY); err != nil {
			log.Printf("Rotate: %v", err)
		}
	}
	if in.Scroll != 0 {
		if err := s.handler.Zoom(s.cam, -in.Scroll*float32(*opts.ZoomStep)); err != nil {
			log.Printf("Zoom: %v", err)
		}
	}

	front := s.cam.Direction()
	right := front.Cross(s.cam.Up())
	if right.Len() > 0 {
		right = right.Normalize()
	}
	var move mgl32.Vec3
	for key, dir := range map[glfw.Key]mgl32.Vec3{
		glfw.KeyW: front,
		glfw.KeyS: front.Mul(-1),
		glfw.KeyD: right,
		glfw.KeyA: right.Mul(-1),
	} {
		if win.KeyDown(key) {
			move = move.Add(dir)
		}
	}
	if move.Len() == 0 {
		return
	}
	move = move.Normalize().Mul(float32(*opts.MoveSpeed))
	origin := s.cam.Position()
	if s.handler.State() == camera.Orbital {
		origin = s.cam.Target()
	}
	if err := s.handler.Translate(s.cam, origin.Add(move), front); err != nil {
		log.Printf("Translate: %v", err)
	}
}

// draw renders one frame and runs the post effect into the framebuffer
// written by write.
func draw(s *scene, effect *effectSource, t float32, write func(graphics.ClearState, func() error) error) error {
	if err := s.render(t); err != nil {
		return err
	}
	effect.poll()
	if err := s.present(effect.current, write); err != nil {
		if effect.current == effect.lastGood {
			return err
		}
		effect.failed(err)
		return nil
	}
	effect.succeeded()
	return nil
}

func runInteractive(win *glfwcontext.Context, ctx *core.Context, s *scene, effect *effectSource, opts *options.ViewerOptions) error {
	win.RegisterKeyCallback(glfw.KeyC, func() {
		s.handler.Next()
		log.Printf("Camera mode: %s", s.handler.State())
	})
	start := win.Time()
	for !win.ShouldClose() {
		steer(win, s, opts)
		width, height := win.GetFramebufferSize()
		if width == 0 || height == 0 {
			win.EndFrame()
			continue
		}
		if err := s.resize(width, height); err != nil {
			return err
		}
		screen := func(clear graphics.ClearState, fn func() error) error {
			return ctx.WriteScreen(graphics.NewViewportAtOrigin(width, height), clear, fn)
		}
		if err := draw(s, effect, float32(win.Time()-start), screen); err != nil {
			return err
		}
		win.EndFrame()
	}
	return nil
}

func runRecord(ctx *core.Context, s *scene, effect *effectSource, opts *options.ViewerOptions) error {
	if err := s.resize(*opts.Width, *opts.Height); err != nil {
		return err
	}
	post, err := core.NewColorDepthTarget(ctx, *opts.Width, *opts.Height)
	if err != nil {
		return err
	}
	defer post.Destroy()

	rec, err := recorder.New(opts)
	if err != nil {
		return err
	}
	frames := int(*opts.Duration * float64(*opts.FPS))
	for i := 0; i < frames; i++ {
		t := float32(i) / float32(*opts.FPS)
		if err := draw(s, effect, t, post.Write); err != nil {
			rec.Close()
			return err
		}
		pixels, err := post.ReadColor()
		if err != nil {
			rec.Close()
			return err
		}
		if err := rec.WriteFrame(pixels, int64(i)); err != nil {
			rec.Close()
			return err
		}
	}
	if err := rec.Close(); err != nil {
		return err
	}
	log.Printf("Successfully rendered %d frames to %s", frames, *opts.OutputFile)
	return nil
}

func run(opts *options.ViewerOptions) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts, !opts.Recording())
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Shutdown()

	device, err := gldevice.New(context.Background())
	if err != nil {
		return err
	}
	ctx := core.NewContext(device)
	defer ctx.Release()

	cam, handler, err := newCamera(opts)
	if err != nil {
		return err
	}
	s, err := newScene(ctx, cam, handler, *opts.Texture)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	defer s.destroy()

	effect, err := newEffectSource(*opts.Effect)
	if err != nil {
		return err
	}
	defer effect.Close()

	if opts.Recording() {
		return runRecord(ctx, s, effect, opts)
	}
	log.Println("Starting interactive render loop...")
	return runInteractive(win, ctx, s, effect, opts)
}

func main() {
	opts, err := options.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Error parsing options: %v", err)
	}
	if *opts.Help {
		fmt.Println("forwardgl viewer")
		flag.PrintDefaults()
		return
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*opts.LogLevel)); err != nil {
		log.Fatalf("Invalid log level %q", *opts.LogLevel)
	}
	graphics.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(opts); err != nil {
		log.Fatalf("Viewer failed: %v", err)
	}
}
