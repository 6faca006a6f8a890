// Package recorder encodes rendered RGBA frames to a video file through an
// ffmpeg process.
package recorder

import (
	"errors"
	"fmt"
	"io"
	"log"

	options "github.com/richinsley/forwardgl/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const numBuffers = 3

// Frame is one frame of RGBA8 pixels, bottom row first as read back from
// the GPU.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Recorder feeds frames to an encoder running on its own goroutine.
type Recorder struct {
	width, height int
	frames        chan *Frame
	done          chan error
	closed        bool
}

// Args returns the ffmpeg input and output arguments for raw RGBA frames
// of the given size. The output is flipped since frames arrive bottom row
// first.
func Args(width, height, fps int) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       fps,
	}
	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		"b:v":     "25M",
	}
	return
}

// New starts ffmpeg writing to the output file of options.
func New(options *options.ViewerOptions) (*Recorder, error) {
	if !options.Recording() {
		return nil, errors.New("no output file to record to")
	}
	inputArgs, outputArgs := Args(*options.Width, *options.Height, *options.FPS)
	run := func(r io.Reader) error {
		cmd := ffmpeg.Input("pipe:", inputArgs).
			Output(*options.OutputFile, outputArgs).
			OverWriteOutput().WithInput(r).ErrorToStdOut()
		if *options.FFmpegPath != "" {
			cmd = cmd.SetFfmpegPath(*options.FFmpegPath)
		}
		return cmd.Run()
	}
	log.Printf("Recording %dx%d at %d fps to %s", *options.Width, *options.Height, *options.FPS, *options.OutputFile)
	return start(*options.Width, *options.Height, run), nil
}

// start runs encode on the read end of a pipe that receives every frame.
func start(width, height int, encode func(io.Reader) error) *Recorder {
	r := &Recorder{
		width:  width,
		height: height,
		frames: make(chan *Frame, numBuffers),
		done:   make(chan error, 1),
	}
	pipeReader, pipeWriter := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		err := encode(pipeReader)
		// unblocks the writer when the encoder stops reading early
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	go func() {
		var writeErr error
		for frame := range r.frames {
			if writeErr != nil {
				continue
			}
			if _, err := pipeWriter.Write(frame.Pixels); err != nil {
				log.Printf("Error writing frame %d to encoder: %v", frame.PTS, err)
				writeErr = fmt.Errorf("failed to write frame %d: %w", frame.PTS, err)
			}
		}
		pipeWriter.Close()
		if err := <-errc; err != nil {
			r.done <- fmt.Errorf("encoder failed: %w", err)
			return
		}
		r.done <- writeErr
	}()
	return r
}

// WriteFrame queues pixels for encoding. The recorder keeps pixels, so the
// caller must not modify them afterwards.
func (r *Recorder) WriteFrame(pixels []byte, pts int64) error {
	if r.closed {
		return errors.New("recorder is closed")
	}
	if want := 4 * r.width * r.height; len(pixels) != want {
		return fmt.Errorf("frame %d has %d bytes, want %d", pts, len(pixels), want)
	}
	r.frames <- &Frame{Pixels: pixels, PTS: pts}
	return nil
}

// Close flushes the queued frames and waits for the encoder to finish.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.frames)
	return <-r.done
}
