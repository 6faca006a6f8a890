package recorder

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/richinsley/forwardgl/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	in, out := Args(320, 240, 30)
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "320x240", in["s"])
	assert.Equal(t, 30, in["r"])
	assert.Equal(t, "vflip", out["vf"])
}

func TestFramesReachEncoderInOrder(t *testing.T) {
	var got bytes.Buffer
	r := start(2, 1, func(in io.Reader) error {
		_, err := io.Copy(&got, in)
		return err
	})
	require.NoError(t, r.WriteFrame([]byte{1, 1, 1, 1, 2, 2, 2, 2}, 0))
	require.NoError(t, r.WriteFrame([]byte{3, 3, 3, 3, 4, 4, 4, 4}, 1))
	require.NoError(t, r.Close())
	assert.Equal(t, []byte{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}, got.Bytes())

	assert.NoError(t, r.Close())
	assert.Error(t, r.WriteFrame(make([]byte, 8), 2))
}

func TestFrameSizeChecked(t *testing.T) {
	r := start(2, 2, func(in io.Reader) error {
		_, err := io.Copy(io.Discard, in)
		return err
	})
	assert.Error(t, r.WriteFrame(make([]byte, 15), 0))
	require.NoError(t, r.Close())
}

func TestEncoderFailureReported(t *testing.T) {
	failure := errors.New("ffmpeg exited")
	r := start(1, 1, func(io.Reader) error { return failure })
	for i := 0; i < 2*numBuffers; i++ {
		require.NoError(t, r.WriteFrame(make([]byte, 4), int64(i)))
	}
	assert.ErrorIs(t, r.Close(), failure)
}

func TestNewRequiresOutput(t *testing.T) {
	o, err := options.Parse(flag.NewFlagSet("viewer", flag.ContinueOnError), nil)
	require.NoError(t, err)
	_, err = New(o)
	assert.Error(t, err)
}
