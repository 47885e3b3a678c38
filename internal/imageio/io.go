// Package imageio loads and saves the images the dithering engine works on.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Extra formats for Decode.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/dither"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when an output extension has no encoder.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// DefaultJPEGQuality is used by Save for .jpg outputs.
const DefaultJPEGQuality = 90

// Load reads an image file into a pixel buffer. PNG and JPEG are chosen by
// extension; anything else is sniffed, which also accepts BMP, TIFF, WebP
// and GIF.
func Load(path string) (*dither.PixelBuffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf *dither.PixelBuffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		buf, err = DecodePNG(f)
	case ".jpg", ".jpeg":
		buf, err = DecodeJPEG(f)
	default:
		buf, err = Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// LoadBytes decodes an in-memory image, auto-detecting the format.
func LoadBytes(data []byte) (*dither.PixelBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader) (*dither.PixelBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return dither.FromImage(img), nil
}

// DecodePNG decodes a PNG image from r.
func DecodePNG(r io.Reader) (*dither.PixelBuffer, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode PNG: %w", err)
	}
	return dither.FromImage(img), nil
}

// DecodeJPEG decodes a JPEG image from r.
func DecodeJPEG(r io.Reader) (*dither.PixelBuffer, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode JPEG: %w", err)
	}
	return dither.FromImage(img), nil
}

// Save writes b to path. The format follows the extension: .png, or .jpg
// and .jpeg at DefaultJPEGQuality.
func Save(path string, b *dither.PixelBuffer) error {
	var encode func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = b.EncodePNG
	case ".jpg", ".jpeg":
		encode = func(w io.Writer) error { return EncodeJPEG(w, b, DefaultJPEGQuality) }
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// EncodeJPEG encodes b as JPEG with the given quality (1-100).
func EncodeJPEG(w io.Writer, b *dither.PixelBuffer, quality int) error {
	quality = min(max(quality, 1), 100)
	if err := jpeg.Encode(w, b.ToImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("imageio: encode JPEG: %w", err)
	}
	return nil
}
