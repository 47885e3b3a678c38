// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Adjustments are tone corrections applied to a source image before it is
// dithered.
type Adjustments struct {
	Brightness float64 // [-100,100], adds Brightness*2.55 to each channel
	Contrast   float64 // [-100,100]
	Saturation float64 // [-100,100], percentage change
	Gamma      float64 // [0.1,3], 1 is identity
	Sharpness  float64 // [0,100], unsharp sigma = Sharpness/50
}

// DefaultAdjustments returns the identity adjustments.
func DefaultAdjustments() Adjustments {
	return Adjustments{Gamma: 1}
}

// Clamp returns a with every field clamped to its range. A zero Gamma is
// treated as identity.
func (a Adjustments) Clamp() Adjustments {
	if a.Gamma == 0 {
		a.Gamma = 1
	}
	return Adjustments{
		Brightness: clampFloat(a.Brightness, -100, 100),
		Contrast:   clampFloat(a.Contrast, -100, 100),
		Saturation: clampFloat(a.Saturation, -100, 100),
		Gamma:      clampFloat(a.Gamma, 0.1, 3),
		Sharpness:  clampFloat(a.Sharpness, 0, 100),
	}
}

// IsIdentity reports whether Apply would return an unchanged copy.
func (a Adjustments) IsIdentity() bool {
	return a.Clamp() == DefaultAdjustments()
}

// Apply returns an adjusted copy of src. Brightness runs first, then
// contrast, saturation, gamma and sharpening.
func (a Adjustments) Apply(src *PixelBuffer) *PixelBuffer {
	a = a.Clamp()
	if src.Empty() || a == DefaultAdjustments() {
		return src.Clone()
	}

	var img image.Image = src.ToImage()
	if a.Brightness != 0 || a.Contrast != 0 {
		shift := a.Brightness * 2.55
		factor := 259 * (a.Contrast + 255) / (255 * (259 - a.Contrast))
		img = imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
			tone := func(v uint8) uint8 {
				f := clampFloat(float64(v)+shift, 0, 255)
				return toByte(factor*(f-128) + 128)
			}
			return color.NRGBA{R: tone(c.R), G: tone(c.G), B: tone(c.B), A: c.A}
		})
	}
	if a.Saturation != 0 {
		img = imaging.AdjustSaturation(img, a.Saturation)
	}
	if a.Gamma != 1 {
		img = imaging.AdjustGamma(img, a.Gamma)
	}
	if a.Sharpness > 0 {
		img = imaging.Sharpen(img, a.Sharpness/50)
	}

	Logger().Debug("dither: adjustments applied",
		"brightness", a.Brightness, "contrast", a.Contrast,
		"saturation", a.Saturation, "gamma", a.Gamma, "sharpness", a.Sharpness)
	return FromImage(img)
}
