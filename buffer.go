// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// ErrBufferSize is returned when pixel data does not match the requested
// dimensions.
var ErrBufferSize = errors.New("dither: pixel data does not match dimensions")

// PixelBuffer is a width×height grid of non-premultiplied RGBA samples,
// 8 bits per channel, row-major with the origin at the top-left.
//
// A PixelBuffer is owned by one stage at a time and is not safe for
// concurrent writers.
type PixelBuffer struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel
}

// NewPixelBuffer creates a zeroed buffer. Negative dimensions produce an
// empty buffer.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &PixelBuffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// WrapPixels creates a buffer backed by data without copying. data must
// hold exactly width*height*4 bytes.
func WrapPixels(width, height int, data []uint8) (*PixelBuffer, error) {
	if width < 0 || height < 0 || len(data) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrBufferSize, width, height, len(data))
	}
	return &PixelBuffer{width: width, height: height, data: data}, nil
}

// FromImage copies img into a new buffer, converting to non-premultiplied
// RGBA.
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	buf := NewPixelBuffer(b.Dx(), b.Dy())
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < buf.height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(buf.data[y*buf.width*4:(y+1)*buf.width*4], row[:buf.width*4])
		}
		return buf
	}
	dst := buf.ToImage()
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	buf.data = dst.Pix
	return buf
}

// Width returns the width in pixels.
func (p *PixelBuffer) Width() int { return p.width }

// Height returns the height in pixels.
func (p *PixelBuffer) Height() int { return p.height }

// Data returns the raw RGBA bytes.
func (p *PixelBuffer) Data() []uint8 { return p.data }

// Empty reports whether the buffer has zero area.
func (p *PixelBuffer) Empty() bool { return p == nil || p.width == 0 || p.height == 0 }

// Clone returns a deep copy.
func (p *PixelBuffer) Clone() *PixelBuffer {
	c := &PixelBuffer{width: p.width, height: p.height, data: make([]uint8, len(p.data))}
	copy(c.data, p.data)
	return c
}

// Equal reports whether both buffers have the same size and contents.
func (p *PixelBuffer) Equal(o *PixelBuffer) bool {
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.data {
		if p.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (p *PixelBuffer) PixOffset(x, y int) int {
	return (y*p.width + x) * 4
}

// RGBA returns the channels of pixel (x, y). Out-of-bounds reads return
// transparent black.
func (p *PixelBuffer) RGBA(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, 0, 0, 0
	}
	i := p.PixOffset(x, y)
	return p.data[i], p.data[i+1], p.data[i+2], p.data[i+3]
}

// SetRGBA sets pixel (x, y). Out-of-bounds writes are ignored.
func (p *PixelBuffer) SetRGBA(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := p.PixOffset(x, y)
	p.data[i+0] = r
	p.data[i+1] = g
	p.data[i+2] = b
	p.data[i+3] = a
}

// Fill sets every pixel to the given color.
func (p *PixelBuffer) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// ToImage returns a copy of the buffer as an image.NRGBA.
func (p *PixelBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// EncodePNG writes the buffer to w in PNG format.
func (p *PixelBuffer) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, p.ToImage()); err != nil {
		return fmt.Errorf("dither: encode PNG: %w", err)
	}
	return nil
}

// SavePNG writes the buffer to a PNG file.
func (p *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("dither: create file: %w", err)
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *PixelBuffer) At(x, y int) color.Color {
	r, g, b, a := p.RGBA(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Bounds implements the image.Image interface.
func (p *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *PixelBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
