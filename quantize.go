// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

// QuantizeStep returns the channel step for a bit depth: 2^(8-bits).
// bits is clamped to [1,8].
func QuantizeStep(bits int) int {
	bits = clampInt(bits, MinColorReduction, MaxColorReduction)
	return 1 << (8 - bits)
}

// QuantizeValue reduces one channel value to the given bit depth.
func QuantizeValue(v uint8, bits int) uint8 {
	step := QuantizeStep(bits)
	return uint8(int(v) / step * step)
}

// Quantize reduces the R, G and B channels of buf to the given bit depth
// in place, as floor(v/step)*step. Alpha is untouched. The operation is
// idempotent for a fixed bit depth.
func Quantize(buf *PixelBuffer, bits int) {
	if buf.Empty() {
		return
	}
	step := QuantizeStep(bits)
	if step == 1 {
		return
	}
	var lut [256]uint8
	for v := range lut {
		lut[v] = uint8(v / step * step)
	}
	d := buf.data
	for i := 0; i < len(d); i += 4 {
		d[i+0] = lut[d[i+0]]
		d[i+1] = lut[d[i+1]]
		d[i+2] = lut[d[i+2]]
	}
}
