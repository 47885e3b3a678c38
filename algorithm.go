// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import "strings"

// Algorithm identifies a dithering algorithm. The set of identifiers is
// open: values outside the known list are valid and resolve to the
// registry's default engine.
type Algorithm string

// Known algorithm identifiers.
const (
	FloydSteinberg    Algorithm = "floydSteinberg"
	Atkinson          Algorithm = "atkinson"
	JarvisJudiceNinke Algorithm = "jarvisJudiceNinke"
	Stucki            Algorithm = "stucki"
	Burkes            Algorithm = "burkes"
	Sierra            Algorithm = "sierra"
	TwoRowSierra      Algorithm = "twoRowSierra"
	SierraLite        Algorithm = "sierraLite"
	Bayer             Algorithm = "bayer"
	Ordered           Algorithm = "ordered"
	Clustered         Algorithm = "clustered"
	Halftone          Algorithm = "halftone"
	Threshold         Algorithm = "threshold"
	Random            Algorithm = "random"
	DotScreen         Algorithm = "dotScreen"
	CrossHatch        Algorithm = "crossHatch"
	ErrorDiffusion    Algorithm = "errorDiffusion"
	Riemersma         Algorithm = "riemersma"
	FalseDiffusion    Algorithm = "falseDiffusion"
	Pattern           Algorithm = "pattern"
)

// Family groups algorithms by how a fragment program renders them.
type Family uint8

const (
	// FamilyDiffusion covers error diffusion, threshold and stochastic
	// algorithms. The GPU path renders them as a per-pixel threshold.
	FamilyDiffusion Family = iota

	// FamilyOrdered covers algorithms driven by the ordered matrix.
	FamilyOrdered
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyOrdered:
		return "ordered"
	default:
		return "diffusion"
	}
}

var displayNames = map[Algorithm]string{
	FloydSteinberg:    "Floyd-Steinberg",
	Atkinson:          "Atkinson",
	JarvisJudiceNinke: "Jarvis-Judice-Ninke",
	Stucki:            "Stucki",
	Burkes:            "Burkes",
	Sierra:            "Sierra",
	TwoRowSierra:      "Two-Row Sierra",
	SierraLite:        "Sierra Lite",
	Bayer:             "Bayer Matrix",
	Ordered:           "Ordered",
	Clustered:         "Clustered Dot",
	Halftone:          "Halftone",
	Threshold:         "Simple Threshold",
	Random:            "Random",
	DotScreen:         "Dot Screen",
	CrossHatch:        "Cross Hatch",
	ErrorDiffusion:    "Error Diffusion",
	Riemersma:         "Riemersma",
	FalseDiffusion:    "False Diffusion",
	Pattern:           "Pattern Dithering",
}

// Algorithms returns every known identifier in catalogue order.
func Algorithms() []Algorithm {
	return []Algorithm{
		FloydSteinberg, Atkinson, JarvisJudiceNinke, Stucki, Burkes,
		Sierra, TwoRowSierra, SierraLite, Bayer, Ordered,
		Clustered, Halftone, Threshold, Random, DotScreen,
		CrossHatch, ErrorDiffusion, Riemersma, FalseDiffusion, Pattern,
	}
}

// ParseAlgorithm looks up a known identifier, ignoring case.
func ParseAlgorithm(s string) (Algorithm, bool) {
	s = strings.TrimSpace(s)
	for _, a := range Algorithms() {
		if strings.EqualFold(string(a), s) {
			return a, true
		}
	}
	return Algorithm(s), false
}

// Known reports whether a is part of the catalogue.
func (a Algorithm) Known() bool {
	_, ok := displayNames[a]
	return ok
}

// DisplayName returns a human-readable name, or the raw identifier for
// unknown algorithms.
func (a Algorithm) DisplayName() string {
	if n, ok := displayNames[a]; ok {
		return n
	}
	return string(a)
}

// Family returns the program family used to render a on the GPU.
func (a Algorithm) Family() Family {
	switch a {
	case Bayer, Ordered, Clustered, Halftone:
		return FamilyOrdered
	default:
		return FamilyDiffusion
	}
}

func (a Algorithm) String() string { return string(a) }
