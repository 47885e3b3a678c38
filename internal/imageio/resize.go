package imageio

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/dither"
)

// ScaledSize returns the largest size with the aspect ratio of w×h that
// fits in maxW×maxH. A non-positive bound leaves that axis unconstrained.
// Images are never enlarged.
func ScaledSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && float64(h)*scale > float64(maxH) {
		scale = float64(maxH) / float64(h)
	}
	return max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1)
}

// Fit returns b scaled down to fit in maxW×maxH with its aspect ratio
// preserved, or b itself when it already fits.
func Fit(b *dither.PixelBuffer, maxW, maxH int) *dither.PixelBuffer {
	w, h := ScaledSize(b.Width(), b.Height(), maxW, maxH)
	if w == b.Width() && h == b.Height() {
		return b
	}
	return Resize(b, w, h)
}

// Resize returns b scaled to exactly w×h with Catmull-Rom resampling.
func Resize(b *dither.PixelBuffer, w, h int) *dither.PixelBuffer {
	if b.Empty() || w <= 0 || h <= 0 {
		return dither.NewPixelBuffer(w, h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), b.ToImage(), b.Bounds(), xdraw.Src, nil)
	return dither.FromImage(dst)
}
