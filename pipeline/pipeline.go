// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/dither"
)

// renderer executes the dithering programs for a Pipeline.
type renderer interface {
	Name() string
	Init() error
	Upload(frame *dither.PixelBuffer) error
	Draw(family dither.Family, u *Uniforms) (*dither.PixelBuffer, error)
	Destroy()
}

// Pipeline renders dithered frames with one program per algorithm family.
//
// A Pipeline moves through Uninitialized, Ready, Rendering and Disposed.
// Initialization failures are fatal to the instance: every later call
// reports the original error. Render failures leave the pipeline Ready.
//
// All methods are safe for concurrent use, but calls are serialized; the
// pipeline is meant to be driven from a single render loop.
type Pipeline struct {
	mu    sync.Mutex
	state atomic.Uint32
	opts  options

	r       renderer
	surface Surface
	rs      RenderState
	initErr error
	start   time.Time

	width, height int
	hasSource     bool
	frame         *dither.PixelBuffer
}

// New creates an uninitialized pipeline.
func New(opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{opts: o, rs: o.initial}
}

// State returns the lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Initialize acquires a device, compiles the programs and binds the
// pipeline to surface. A nil surface discards frames; Frame still returns
// the last one.
//
// It fails with ErrUnsupportedContext when BackendGPU was requested and no
// device is available, and with a *ShaderCompileError when a program does
// not compile. With BackendAuto a missing device selects the software
// backend instead. Calling Initialize on a Ready pipeline is a no-op.
func (p *Pipeline) Initialize(ctx context.Context, surface Surface) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.State() {
	case StateDisposed:
		return ErrPipelineDisposed
	case StateReady, StateRendering:
		return nil
	}
	if p.initErr != nil {
		return p.initErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := p.acquire()
	if err == nil {
		if err = r.Init(); err != nil {
			r.Destroy()
		}
	}
	if err != nil {
		p.initErr = err
		Logger().Error("pipeline: initialization failed", "backend", p.opts.backend, "err", err)
		return err
	}

	if surface == nil {
		surface = &MemorySurface{}
	}
	p.r = r
	p.surface = surface
	p.start = p.opts.clock()
	p.state.Store(uint32(StateReady))
	Logger().Info("pipeline: ready", "backend", r.Name())
	return nil
}

// acquire selects the renderer for the configured backend.
func (p *Pipeline) acquire() (renderer, error) {
	if p.opts.backend == BackendSoftware {
		return newSoftwareRenderer(), nil
	}
	r, err := p.opts.open(p.opts.provider)
	if err == nil {
		return r, nil
	}
	if p.opts.backend == BackendAuto && errors.Is(err, ErrUnsupportedContext) {
		Logger().Warn("pipeline: GPU unavailable, using software backend", "err", err)
		return newSoftwareRenderer(), nil
	}
	return nil, err
}

// checkReady reports why the pipeline cannot render. Must be called with
// mu held.
func (p *Pipeline) checkReady() error {
	switch {
	case p.State() == StateDisposed:
		return ErrPipelineDisposed
	case p.initErr != nil:
		return fmt.Errorf("%w: %w", ErrNotReady, p.initErr)
	case p.r == nil:
		return ErrNotReady
	}
	return nil
}

// Backend returns the name of the active backend, or "" before
// initialization.
func (p *Pipeline) Backend() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.r == nil {
		return ""
	}
	return p.r.Name()
}

// SetSourceTexture uploads frame as the active source and resizes the
// surface when its dimensions change. Zero-area frames are ignored.
func (p *Pipeline) SetSourceTexture(frame *dither.PixelBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady(); err != nil {
		return err
	}
	if frame.Empty() {
		Logger().Debug("pipeline: empty frame ignored")
		return nil
	}
	if err := p.r.Upload(frame); err != nil {
		return fmt.Errorf("pipeline: upload: %w", err)
	}
	if w, h := frame.Width(), frame.Height(); w != p.width || h != p.height {
		if err := p.surface.Resize(w, h); err != nil {
			return fmt.Errorf("pipeline: resize surface: %w", err)
		}
		p.width, p.height = w, h
	}
	p.hasSource = true
	return nil
}

// UpdateSettings merges u into the render state. Fields left nil keep
// their current value. It has no render side effect and may be called
// before Initialize.
func (p *Pipeline) UpdateSettings(u Update) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State() == StateDisposed {
		return ErrPipelineDisposed
	}
	p.rs = p.rs.Apply(u)
	return nil
}

// RenderState returns the current render state.
func (p *Pipeline) RenderState() (RenderState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State() == StateDisposed {
		return RenderState{}, ErrPipelineDisposed
	}
	return p.rs, nil
}

// Render draws the current source with the program of the current
// algorithm's family and presents the result.
//
// With showSplit set, pixels whose horizontal texture coordinate is left
// of splitPosition show the color-quantized source instead of the
// dithered result. splitPosition is clamped to [0,1].
func (p *Pipeline) Render(splitPosition float64, showSplit bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkReady(); err != nil {
		return err
	}
	if !p.hasSource {
		return ErrNoSource
	}

	p.state.Store(uint32(StateRendering))
	defer p.state.Store(uint32(StateReady))

	begin := time.Now()
	family := p.rs.Settings.Algorithm().Family()
	elapsed := p.opts.clock().Sub(p.start).Seconds()
	u := newUniforms(p.rs, p.width, p.height, splitPosition, showSplit, elapsed)

	out, err := p.r.Draw(family, &u)
	if err != nil {
		return fmt.Errorf("pipeline: render: %w", err)
	}
	if err := p.surface.Present(out); err != nil {
		return fmt.Errorf("pipeline: present: %w", err)
	}
	p.frame = out

	Logger().Debug("pipeline: frame rendered",
		"family", family,
		"algorithm", p.rs.Settings.Algorithm(),
		"elapsed", elapsed,
		"duration", time.Since(begin))
	return nil
}

// Frame returns the last rendered frame, or nil before the first Render.
func (p *Pipeline) Frame() (*dither.PixelBuffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State() == StateDisposed {
		return nil, ErrPipelineDisposed
	}
	return p.frame, nil
}

// Dispose releases the programs, buffers and textures. The pipeline is
// unusable afterwards. Dispose is idempotent.
func (p *Pipeline) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.State() == StateDisposed {
		return nil
	}
	if p.r != nil {
		p.r.Destroy()
		p.r = nil
	}
	p.surface = nil
	p.frame = nil
	p.hasSource = false
	p.state.Store(uint32(StateDisposed))
	Logger().Info("pipeline: disposed")
	return nil
}
