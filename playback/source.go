// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package playback

import (
	"context"
	"io"
	"sync"

	"github.com/gogpu/dither"
)

// SliceSource is a FrameSource over in-memory frames spaced 1/fps apart.
type SliceSource struct {
	mu     sync.Mutex
	frames []*dither.PixelBuffer
	fps    float64
	next   int
}

// NewSliceSource returns a source yielding frames at fps. A non-positive
// fps places every frame at time 0.
func NewSliceSource(fps float64, frames ...*dither.PixelBuffer) *SliceSource {
	return &SliceSource{frames: frames, fps: fps}
}

// Next returns the next frame and its time, or io.EOF.
func (s *SliceSource) Next(ctx context.Context) (*dither.PixelBuffer, float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next >= len(s.frames) {
		return nil, 0, io.EOF
	}
	i := s.next
	s.next++

	t := 0.0
	if s.fps > 0 {
		t = float64(i) / s.fps
	}
	return s.frames[i], t, nil
}

// Rewind restarts the source at the first frame.
func (s *SliceSource) Rewind() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
}
