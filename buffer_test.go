// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func TestNewPixelBuffer(t *testing.T) {
	b := NewPixelBuffer(3, 2)
	if b.Width() != 3 || b.Height() != 2 || len(b.Data()) != 24 {
		t.Fatalf("NewPixelBuffer(3,2): %dx%d, %d bytes", b.Width(), b.Height(), len(b.Data()))
	}
	if b.Empty() {
		t.Error("3x2 buffer reported empty")
	}

	for _, sz := range [][2]int{{0, 4}, {4, 0}, {-1, 3}} {
		if e := NewPixelBuffer(sz[0], sz[1]); !e.Empty() {
			t.Errorf("NewPixelBuffer(%d,%d) should be empty", sz[0], sz[1])
		}
	}
}

func TestWrapPixels(t *testing.T) {
	data := make([]uint8, 2*2*4)
	b, err := WrapPixels(2, 2, data)
	if err != nil {
		t.Fatalf("WrapPixels: %v", err)
	}
	b.SetRGBA(1, 1, 9, 8, 7, 6)
	if data[12] != 9 {
		t.Error("WrapPixels should not copy data")
	}

	if _, err := WrapPixels(2, 2, make([]uint8, 15)); !errors.Is(err, ErrBufferSize) {
		t.Errorf("short data: err = %v, want ErrBufferSize", err)
	}
}

func TestPixelBufferSetRGBAOutOfBounds(t *testing.T) {
	b := NewPixelBuffer(4, 4)
	b.Fill(1, 2, 3, 4)
	orig := b.Clone()

	for _, c := range []struct{ x, y int }{{-1, 0}, {4, 0}, {0, -1}, {0, 4}, {100, 100}} {
		b.SetRGBA(c.x, c.y, 255, 255, 255, 255)
		if r, g, bb, a := b.RGBA(c.x, c.y); r|g|bb|a != 0 {
			t.Errorf("RGBA(%d,%d) out of bounds = %d,%d,%d,%d, want zeros", c.x, c.y, r, g, bb, a)
		}
	}
	if !b.Equal(orig) {
		t.Error("out-of-bounds writes modified the buffer")
	}
}

func TestPixelBufferCloneIndependent(t *testing.T) {
	b := NewPixelBuffer(2, 2)
	c := b.Clone()
	c.SetRGBA(0, 0, 255, 0, 0, 255)
	if r, _, _, _ := b.RGBA(0, 0); r != 0 {
		t.Error("Clone shares storage with the original")
	}
	if b.Equal(c) {
		t.Error("Equal reported modified clone as equal")
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	src.Set(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	b := FromImage(src)
	if b.Width() != 3 || b.Height() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", b.Width(), b.Height())
	}
	if r, g, bb, a := b.RGBA(1, 2); r != 10 || g != 20 || bb != 30 || a != 255 {
		t.Errorf("RGBA(1,2) = %d,%d,%d,%d, want 10,20,30,255", r, g, bb, a)
	}
}

func TestFromImageSubImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 3, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	b := FromImage(sub)
	if b.Width() != 2 || b.Height() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", b.Width(), b.Height())
	}
	if r, g, bb, a := b.RGBA(0, 1); r != 200 || g != 100 || bb != 50 || a != 128 {
		t.Errorf("RGBA(0,1) = %d,%d,%d,%d, want 200,100,50,128", r, g, bb, a)
	}
}

func TestPixelBufferImageInterface(t *testing.T) {
	b := NewPixelBuffer(2, 1)
	b.SetRGBA(1, 0, 1, 2, 3, 4)

	var img image.Image = b
	if img.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Errorf("Bounds() = %v", img.Bounds())
	}
	if got := img.At(1, 0); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 4}) {
		t.Errorf("At(1,0) = %v", got)
	}
	if img.ColorModel() != color.NRGBAModel {
		t.Error("ColorModel() should be NRGBAModel")
	}
}

func TestPixelBufferPNG(t *testing.T) {
	b := NewPixelBuffer(5, 3)
	b.SetRGBA(4, 2, 255, 0, 128, 255)

	var out bytes.Buffer
	if err := b.EncodePNG(&out); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&out)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if !FromImage(img).Equal(b) {
		t.Error("decoded PNG differs from the buffer")
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := b.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}
