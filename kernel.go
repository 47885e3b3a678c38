// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	edm "github.com/makeworld-the-better-one/dither/v2"
)

// Tap is one target of an error-diffusion kernel, relative to the current
// pixel. DY is never negative and DX is mirrored on right-to-left rows.
type Tap struct {
	DX, DY int
	Weight float64
}

// Kernel is a fixed error-diffusion weight table.
type Kernel struct {
	name string
	taps []Tap
}

// NewKernel builds a kernel from explicit taps. Zero-weight taps are
// dropped.
func NewKernel(name string, taps ...Tap) Kernel {
	k := Kernel{name: name}
	for _, t := range taps {
		if t.Weight != 0 {
			k.taps = append(k.taps, t)
		}
	}
	return k
}

// KernelFromMatrix converts an error-diffusion matrix in the dither/v2
// layout into a Kernel. The current pixel sits just before the first
// non-zero entry of the first row; everything else is an offset from it.
func KernelFromMatrix(name string, m edm.ErrorDiffusionMatrix) Kernel {
	cur := 0
	if len(m) > 0 {
		for i, v := range m[0] {
			if v != 0 {
				cur = i - 1
				break
			}
		}
	}
	var taps []Tap
	for dy, row := range m {
		for i, v := range row {
			if v == 0 {
				continue
			}
			if dy == 0 && i <= cur {
				continue
			}
			taps = append(taps, Tap{DX: i - cur, DY: dy, Weight: float64(v)})
		}
	}
	return NewKernel(name, taps...)
}

// Name returns the kernel name.
func (k Kernel) Name() string { return k.name }

// Taps returns a copy of the kernel taps in scan order.
func (k Kernel) Taps() []Tap {
	out := make([]Tap, len(k.taps))
	copy(out, k.taps)
	return out
}

// Sum returns the total weight. Atkinson sums to 6/8; the others to 1.
func (k Kernel) Sum() float64 {
	var s float64
	for _, t := range k.taps {
		s += t.Weight
	}
	return s
}

// Built-in kernels.
var (
	KernelFloydSteinberg    = KernelFromMatrix("floydSteinberg", edm.FloydSteinberg)
	KernelAtkinson          = KernelFromMatrix("atkinson", edm.Atkinson)
	KernelJarvisJudiceNinke = KernelFromMatrix("jarvisJudiceNinke", edm.JarvisJudiceNinke)
	KernelStucki            = KernelFromMatrix("stucki", edm.Stucki)
	KernelBurkes            = KernelFromMatrix("burkes", edm.Burkes)
	KernelSierra            = KernelFromMatrix("sierra", edm.Sierra3)
	KernelTwoRowSierra      = KernelFromMatrix("twoRowSierra", edm.Sierra2)
	KernelSierraLite        = KernelFromMatrix("sierraLite", edm.Sierra2_4A)
	KernelFalseDiffusion    = KernelFromMatrix("falseDiffusion", edm.FalseFloydSteinberg)
	KernelErrorDiffusion    = KernelFromMatrix("errorDiffusion", edm.Simple2D)
)
