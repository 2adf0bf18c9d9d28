// Package photo normalises damage photos attached to issue reports.
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MIME is the type of every normalised photo.
const MIME = "image/jpeg"

// Defaults used by New.
const (
	DefaultMaxDimension = 1024
	DefaultQuality      = 85
	DefaultMaxBytes     = 10 << 20
	DefaultMaxPixels    = 40_000_000
)

var (
	// ErrUnsupported is returned for data that is not a JPEG, PNG or WebP image.
	ErrUnsupported = errors.New("unsupported photo format")
	// ErrTooLarge is returned when the upload or its pixel count exceeds the limits.
	ErrTooLarge = errors.New("photo too large")
)

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Normalizer validates an uploaded photo, shrinks it to fit within
// MaxDimension on both sides and re-encodes it as JPEG.
type Normalizer struct {
	MaxDimension int
	Quality      int
	MaxBytes     int64
	MaxPixels    int
}

// New returns a Normalizer with the default limits.
func New() Normalizer {
	return Normalizer{
		MaxDimension: DefaultMaxDimension,
		Quality:      DefaultQuality,
		MaxBytes:     DefaultMaxBytes,
		MaxPixels:    DefaultMaxPixels,
	}
}

// Normalize reads a photo and returns it as JPEG. The format is sniffed from
// the bytes; client-supplied content types are not trusted.
func (n Normalizer) Normalize(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, n.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}
	if int64(len(data)) > n.MaxBytes {
		return nil, ErrTooLarge
	}

	detected := http.DetectContentType(data)
	if !accepted[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	if cfg.Width*cfg.Height > n.MaxPixels {
		return nil, ErrTooLarge
	}

	img, err := decode(data, detected)
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, n.fit(img), &jpeg.Options{Quality: n.Quality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}
	return buf.Bytes(), nil
}

// decode applies the EXIF orientation of JPEG photos so that phone pictures
// are stored upright. WebP carries no orientation and is decoded as is.
func decode(data []byte, mime string) (image.Image, error) {
	if mime == "image/webp" {
		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

// fit scales img down, keeping its aspect ratio, so that neither side
// exceeds MaxDimension. Smaller images are returned unchanged.
func (n Normalizer) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= n.MaxDimension && h <= n.MaxDimension {
		return img
	}

	longest := max(w, h)
	dw := max(1, w*n.MaxDimension/longest)
	dh := max(1, h*n.MaxDimension/longest)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
