// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"sync"

	"github.com/gogpu/dither"
)

// Surface receives rendered frames.
type Surface interface {
	// Resize is called when the source frame dimensions change.
	Resize(width, height int) error

	// Present delivers one rendered frame. The surface may keep frame.
	Present(frame *dither.PixelBuffer) error
}

// MemorySurface is a Surface that keeps the last presented frame.
type MemorySurface struct {
	mu            sync.Mutex
	width, height int
	last          *dither.PixelBuffer
	presented     int
}

// Resize records the surface dimensions.
func (s *MemorySurface) Resize(width, height int) error {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	return nil
}

// Present stores frame.
func (s *MemorySurface) Present(frame *dither.PixelBuffer) error {
	s.mu.Lock()
	s.last = frame
	s.presented++
	s.mu.Unlock()
	return nil
}

// Size returns the dimensions of the last Resize.
func (s *MemorySurface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Last returns the last presented frame, or nil.
func (s *MemorySurface) Last() *dither.PixelBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Presented returns the number of frames presented so far.
func (s *MemorySurface) Presented() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}
