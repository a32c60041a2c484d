package vision

import (
	"image"
	"image/draw"
)

// Channels is the number of bytes per pixel in an [ImageBuffer].
const Channels = 3

// ImageBuffer is a decoded 8-bit, 3-channel pixel grid in BGR order, row-major with stride Width*3.
type ImageBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Bounds returns the rectangle covering the whole buffer.
func (b *ImageBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// NewImageBuffer copies img into a BGR buffer.
func NewImageBuffer(img image.Image) *ImageBuffer {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	buf := &ImageBuffer{Width: w, Height: h, Pix: make([]byte, w*h*Channels)}
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		dst := buf.Pix[y*w*Channels : (y+1)*w*Channels]
		for x := 0; x < w; x++ {
			dst[x*3+0] = src[x*4+2]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+0]
		}
	}
	return buf
}
