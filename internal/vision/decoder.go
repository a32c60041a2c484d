package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"strings"

	"github.com/desertthunder/moodmix/internal/shared"
)

// DefaultMaxBytes is the upload ceiling, 5 MiB.
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// maxPixels rejects small files that would decompress into huge grids.
const maxPixels = 50_000_000

// AllowedContentTypes lists the declared media types accepted for upload.
var AllowedContentTypes = []string{"image/jpeg", "image/png", "image/jpg"}

// Decoder validates and decodes uploaded image bytes.
type Decoder struct {
	maxBytes int64
}

// NewDecoder returns a Decoder enforcing maxBytes; non-positive values use [DefaultMaxBytes].
func NewDecoder(maxBytes int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Decoder{maxBytes: maxBytes}
}

// MaxBytes returns the configured ceiling.
func (d *Decoder) MaxBytes() int64 { return d.maxBytes }

// Decode checks size, then declared media type, then decodes data into an [ImageBuffer].
//
// size is the size the client declared; the larger of it and len(data) is checked against the ceiling.
func (d *Decoder) Decode(data []byte, contentType string, size int64) (*ImageBuffer, error) {
	if n := int64(len(data)); n > size {
		size = n
	}
	if size > d.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", shared.ErrPayloadTooLarge, size, d.maxBytes)
	}

	if !AllowedContentType(contentType) {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedMediaType, contentType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: unsupported dimensions %dx%d", shared.ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidImage, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: unexpected format %s", shared.ErrInvalidImage, format)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", shared.ErrInvalidImage)
	}

	return NewImageBuffer(img), nil
}

// AllowedContentType reports whether the declared media type is accepted. Parameters and case are ignored.
func AllowedContentType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	for _, allowed := range AllowedContentTypes {
		if mt == allowed {
			return true
		}
	}
	return false
}
