package core

import (
	"image"

	"github.com/richinsley/forwardgl/graphics"
	"golang.org/x/image/draw"
)

// Texture2D is a two dimensional texture on the device.
type Texture2D struct {
	ctx    *Context
	id     uint32
	width  int
	height int
	format graphics.TextureFormat
}

// NewTexture2D creates a texture of the given size. pixels may be nil to
// leave the contents undefined; otherwise it must hold exactly one texel per
// pixel, rows bottom to top.
func NewTexture2D(ctx *Context, width, height int, format graphics.TextureFormat, params graphics.TextureParams, pixels []byte) (*Texture2D, error) {
	if pixels != nil {
		if want := width * height * format.BytesPerPixel(); len(pixels) != want {
			return nil, &graphics.InvalidTextureLengthError{Got: len(pixels), Want: want}
		}
	}
	id, err := ctx.device.CreateTexture(width, height, format, params, pixels)
	if err != nil {
		return nil, &graphics.ResourceError{Kind: "texture", Err: err}
	}
	return &Texture2D{ctx: ctx, id: id, width: width, height: height, format: format}, nil
}

// NewTexture2DFromImage uploads img as an RGBA8 texture, flipping it so that
// uv (0,0) is the bottom left corner of the image.
func NewTexture2DFromImage(ctx *Context, img image.Image, params graphics.TextureParams) (*Texture2D, error) {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	w, h := b.Dx(), b.Dy()
	stride := 4 * w
	pixels := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		copy(pixels[(h-1-y)*stride:], rgba.Pix[y*rgba.Stride:y*rgba.Stride+stride])
	}
	return NewTexture2D(ctx, w, h, graphics.FormatRGBA8, params, pixels)
}

func (t *Texture2D) ID() uint32                     { return t.id }
func (t *Texture2D) Width() int                     { return t.width }
func (t *Texture2D) Height() int                    { return t.height }
func (t *Texture2D) Format() graphics.TextureFormat { return t.format }

// Destroy deletes the texture on the device.
func (t *Texture2D) Destroy() {
	if t.id == 0 {
		return
	}
	t.ctx.device.DeleteTexture(t.id)
	t.id = 0
}
