// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogpu/gpucontext"
)

// Backend selects how a Pipeline executes its programs.
type Backend uint8

const (
	// BackendAuto uses the GPU when a device is available and the software
	// backend otherwise.
	BackendAuto Backend = iota

	// BackendGPU requires a GPU device; Initialize fails with
	// ErrUnsupportedContext without one.
	BackendGPU

	// BackendSoftware evaluates the programs on the CPU.
	BackendSoftware
)

func (b Backend) String() string {
	switch b {
	case BackendGPU:
		return "gpu"
	case BackendSoftware:
		return "software"
	default:
		return "auto"
	}
}

// ParseBackend parses "auto", "gpu" or "software".
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return BackendAuto, nil
	case "gpu":
		return BackendGPU, nil
	case "software", "cpu":
		return BackendSoftware, nil
	}
	return BackendAuto, fmt.Errorf("pipeline: unknown backend %q", s)
}

type options struct {
	backend  Backend
	provider gpucontext.DeviceProvider
	clock    func() time.Time
	initial  RenderState
	// open acquires the GPU renderer; replaced in tests.
	open func(gpucontext.DeviceProvider) (renderer, error)
}

func defaultOptions() options {
	return options{
		backend: BackendAuto,
		clock:   time.Now,
		initial: DefaultRenderState(),
		open: func(p gpucontext.DeviceProvider) (renderer, error) {
			r, err := openHALRenderer(p)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	}
}

// Option configures a Pipeline.
type Option func(*options)

// WithBackend selects the execution backend. The default is BackendAuto.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithDeviceProvider shares the GPU device of an existing gpucontext
// provider instead of opening one. The provider must also implement
// HalDevice() any and HalQueue() any. The pipeline never destroys a shared
// device.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) { o.provider = p }
}

// WithClock replaces time.Now as the source of elapsed time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithRenderState sets the initial render state.
func WithRenderState(rs RenderState) Option {
	return func(o *options) { o.initial = rs }
}
