// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dither

import (
	"slices"
	"strings"
	"sync"
)

// Param is a bit set naming the Settings fields an engine reads.
type Param uint16

const (
	ParamThreshold Param = 1 << iota
	ParamDiffusionFactor
	ParamMatrixSize
	ParamSerpentine
	ParamSeed
)

var paramNames = []struct {
	p    Param
	name string
}{
	{ParamThreshold, "threshold"},
	{ParamDiffusionFactor, "diffusionFactor"},
	{ParamMatrixSize, "matrixSize"},
	{ParamSerpentine, "serpentine"},
	{ParamSeed, "seed"},
}

// Has reports whether every bit of q is set in p.
func (p Param) Has(q Param) bool { return p&q == q }

// String lists the parameter names, comma separated.
func (p Param) String() string {
	var names []string
	for _, pn := range paramNames {
		if p.Has(pn.p) {
			names = append(names, pn.name)
		}
	}
	return strings.Join(names, ",")
}

// Engine dithers a buffer it exclusively owns, in place. Engines do not
// quantize; the dispatcher does that once before calling them.
type Engine interface {
	Dither(buf *PixelBuffer, s Settings)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(buf *PixelBuffer, s Settings)

// Dither calls f(buf, s).
func (f EngineFunc) Dither(buf *PixelBuffer, s Settings) { f(buf, s) }

// Entry is one registered algorithm.
type Entry struct {
	Algorithm Algorithm
	Engine    Engine
	Params    Param
}

// Registry maps algorithm identifiers to engines. Identifiers without an
// entry resolve to the fallback algorithm.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entries  map[Algorithm]Entry
	fallback Algorithm
}

// NewRegistry creates an empty registry that resolves unknown identifiers
// to fallback.
func NewRegistry(fallback Algorithm) *Registry {
	return &Registry{entries: make(map[Algorithm]Entry), fallback: fallback}
}

// Register binds a to e, replacing any previous binding.
func (r *Registry) Register(a Algorithm, e Engine, params Param) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[a] = Entry{Algorithm: a, Engine: e, Params: params}
}

// Fallback returns the algorithm used for unregistered identifiers.
func (r *Registry) Fallback() Algorithm { return r.fallback }

// Resolve returns the entry for a. When a is not registered the fallback
// entry is returned with ok false.
func (r *Registry) Resolve(a Algorithm) (e Entry, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[a]; ok {
		return e, true
	}
	if e, ok := r.entries[r.fallback]; ok {
		return e, false
	}
	return Entry{
		Algorithm: FloydSteinberg,
		Engine:    diffusionEngine(KernelFloydSteinberg),
		Params:    diffusionParams,
	}, false
}

// Entries returns the registered entries, catalogue algorithms first.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	order := make(map[Algorithm]int)
	for i, a := range Algorithms() {
		order[a] = i
	}
	slices.SortFunc(out, func(a, b Entry) int {
		ia, oka := order[a.Algorithm]
		ib, okb := order[b.Algorithm]
		switch {
		case oka && okb:
			return ia - ib
		case oka:
			return -1
		case okb:
			return 1
		}
		return strings.Compare(string(a.Algorithm), string(b.Algorithm))
	})
	return out
}

const diffusionParams = ParamThreshold | ParamDiffusionFactor | ParamSerpentine

func diffusionEngine(k Kernel) Engine {
	return EngineFunc(func(buf *PixelBuffer, s Settings) {
		Diffuse(buf, k, DiffuseOptions{
			Threshold:  s.Threshold(),
			Factor:     s.DiffusionFactor(),
			Serpentine: s.Serpentine(),
		})
	})
}

var orderedEngine = EngineFunc(func(buf *PixelBuffer, s Settings) {
	OrderedDither(buf, MustOrderedMatrix(s.MatrixSize()))
})

// NewDefaultRegistry returns a registry with every specialized engine
// bound and Floyd–Steinberg as the fallback. dotScreen, crossHatch and
// pattern have no dedicated engine and resolve to the fallback.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(FloydSteinberg)

	for a, k := range map[Algorithm]Kernel{
		FloydSteinberg:    KernelFloydSteinberg,
		Atkinson:          KernelAtkinson,
		JarvisJudiceNinke: KernelJarvisJudiceNinke,
		Stucki:            KernelStucki,
		Burkes:            KernelBurkes,
		Sierra:            KernelSierra,
		TwoRowSierra:      KernelTwoRowSierra,
		SierraLite:        KernelSierraLite,
		FalseDiffusion:    KernelFalseDiffusion,
		ErrorDiffusion:    KernelErrorDiffusion,
	} {
		r.Register(a, diffusionEngine(k), diffusionParams)
	}

	for _, a := range []Algorithm{Bayer, Ordered, Clustered, Halftone} {
		r.Register(a, orderedEngine, ParamMatrixSize)
	}

	r.Register(Threshold, EngineFunc(func(buf *PixelBuffer, s Settings) {
		ThresholdDither(buf, s.Threshold())
	}), ParamThreshold)

	r.Register(Random, EngineFunc(func(buf *PixelBuffer, s Settings) {
		RandomDither(buf, s.Threshold(), newRand(s.Seed()))
	}), ParamThreshold|ParamSeed)

	r.Register(Riemersma, EngineFunc(func(buf *PixelBuffer, s Settings) {
		RiemersmaDither(buf, s.Threshold(), s.DiffusionFactor())
	}), ParamThreshold|ParamDiffusionFactor)

	return r
}

var defaultRegistry = NewDefaultRegistry()

// DefaultRegistry returns the registry used by Apply.
func DefaultRegistry() *Registry { return defaultRegistry }
