// Package dither renders dithered approximations of images.
//
// # Overview
//
// dither holds the CPU reference path of the engine: a settings value
// shared by every path, an RGBA pixel buffer, the color quantizer, the
// ordered-matrix generator, error-diffusion kernels, threshold and
// stochastic engines, and a registry that dispatches an algorithm
// identifier to its engine.
//
// The GPU path lives in the pipeline package and the video path in
// keyframe and playback. All of them consume the same Settings value.
//
// # Quick Start
//
//	import "github.com/gogpu/dither"
//
//	src := dither.FromImage(img)
//	s := dither.DefaultSettings().
//		WithAlgorithm(dither.Atkinson).
//		WithColorReduction(4)
//
//	out := dither.Apply(src, s)
//	out.SavePNG("output.png")
//
// # Algorithms
//
// Error diffusion: floydSteinberg, atkinson, jarvisJudiceNinke, stucki,
// burkes, sierra, twoRowSierra, sierraLite, falseDiffusion,
// errorDiffusion, riemersma.
//
// Ordered: bayer, ordered, clustered, halftone. All four use the
// recursive Bayer matrix of Settings.MatrixSize.
//
// Threshold: threshold, random.
//
// Any other identifier, including dotScreen, crossHatch and pattern,
// resolves to Floyd–Steinberg.
//
// # Concurrency
//
// Engines are pure functions over buffers they own. Apply copies its
// input, so independent images can be dithered from many goroutines.
package dither
