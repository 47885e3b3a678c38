// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/gogpu/dither"
	"github.com/gogpu/dither/keyframe"
	"github.com/gogpu/dither/pipeline"
)

// ErrNoFrame is returned by RenderAt before any frame was played.
var ErrNoFrame = errors.New("playback: no frame to render")

// FrameSource yields decoded video frames with their presentation time in
// seconds. Next returns io.EOF when the source is exhausted.
type FrameSource interface {
	Next(ctx context.Context) (frame *dither.PixelBuffer, t float64, err error)
}

// Renderer is the part of *pipeline.Pipeline a Player drives.
type Renderer interface {
	UpdateSettings(u pipeline.Update) error
	SetSourceTexture(frame *dither.PixelBuffer) error
	Render(splitPosition float64, showSplit bool) error
}

// Player renders a frame source through a Renderer, re-evaluating the
// keyframe track at every frame time.
type Player struct {
	id      uuid.UUID
	r       Renderer
	track   *keyframe.Track
	base    dither.Settings
	limiter *rate.Limiter

	mu        sync.Mutex
	temporal  bool
	split     float64
	showSplit bool
	last      *dither.PixelBuffer
	lastTime  float64

	frames atomic.Int64
}

// Option configures a Player.
type Option func(*Player)

// WithFPS paces Run to at most fps frames per second. Zero or negative
// disables pacing.
func WithFPS(fps float64) Option {
	return func(p *Player) {
		if fps <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		p.limiter = rate.NewLimiter(rate.Limit(fps), 1)
	}
}

// WithTrack sets the keyframe track. Without one, every frame uses the
// base settings.
func WithTrack(t *keyframe.Track) Option {
	return func(p *Player) { p.track = t }
}

// WithBaseSettings sets the settings used when the track is empty.
func WithBaseSettings(s dither.Settings) Option {
	return func(p *Player) { p.base = s }
}

// WithTemporalDithering enables the time-varying perturbation.
func WithTemporalDithering(on bool) Option {
	return func(p *Player) { p.temporal = on }
}

// WithSplit shows the quantized source left of position.
func WithSplit(position float64, show bool) Option {
	return func(p *Player) { p.split, p.showSplit = position, show }
}

// New creates a Player rendering through r. The default pace is 30 frames
// per second.
func New(r Renderer, opts ...Option) *Player {
	p := &Player{
		id:      uuid.New(),
		r:       r,
		base:    dither.DefaultSettings(),
		limiter: rate.NewLimiter(rate.Every(time.Second/30), 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID identifies the playback session in log records.
func (p *Player) ID() uuid.UUID { return p.id }

// Frames returns the number of frames rendered so far.
func (p *Player) Frames() int64 { return p.frames.Load() }

// SetSplit changes the split view for subsequent frames.
func (p *Player) SetSplit(position float64, show bool) {
	p.mu.Lock()
	p.split, p.showSplit = position, show
	p.mu.Unlock()
}

// SetTemporalDithering toggles temporal dithering for subsequent frames.
func (p *Player) SetTemporalDithering(on bool) {
	p.mu.Lock()
	p.temporal = on
	p.mu.Unlock()
}

// Run plays src until it returns io.EOF, fails, or ctx is canceled.
// Cancellation stops Run before the next frame is requested; a frame
// already being rendered completes. Run returns nil at end of stream and
// ctx.Err() on cancellation.
func (p *Player) Run(ctx context.Context, src FrameSource) error {
	log := Logger().With("session", p.id.String())
	log.Info("playback: started", "fps", float64(p.limiter.Limit()))
	start := time.Now()

	for {
		if err := p.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info("playback: canceled", "frames", p.Frames())
				return ctx.Err()
			}
			return fmt.Errorf("playback: pace: %w", err)
		}

		frame, t, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			log.Info("playback: finished", "frames", p.Frames(), "duration", time.Since(start))
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("playback: next frame: %w", err)
		}

		p.mu.Lock()
		err = p.renderLocked(frame, t)
		p.mu.Unlock()
		if err != nil {
			return err
		}
		log.Debug("playback: frame", "time", keyframe.FormatTime(t))
	}
}

// RenderAt re-renders the last played frame with the settings of time t.
// It is the seek path while playback is paused.
func (p *Player) RenderAt(t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last == nil {
		return ErrNoFrame
	}
	return p.renderLocked(p.last, t)
}

// Render plays a single frame at time t.
func (p *Player) Render(frame *dither.PixelBuffer, t float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderLocked(frame, t)
}

// SettingsAt returns the settings the player uses at time t.
func (p *Player) SettingsAt(t float64) dither.Settings {
	return keyframe.Interpolate(t, p.track, p.base)
}

func (p *Player) renderLocked(frame *dither.PixelBuffer, t float64) error {
	temporal := p.temporal
	u := pipeline.Update{
		Patch:             dither.PatchOf(p.SettingsAt(t)),
		TemporalDithering: &temporal,
	}
	if err := p.r.UpdateSettings(u); err != nil {
		return fmt.Errorf("playback: update settings at %s: %w", keyframe.FormatTime(t), err)
	}
	if err := p.r.SetSourceTexture(frame); err != nil {
		return fmt.Errorf("playback: upload frame at %s: %w", keyframe.FormatTime(t), err)
	}
	if err := p.r.Render(p.split, p.showSplit); err != nil {
		return fmt.Errorf("playback: render frame at %s: %w", keyframe.FormatTime(t), err)
	}
	p.last = frame
	p.lastTime = t
	p.frames.Add(1)
	return nil
}

// LastTime returns the time of the last rendered frame.
func (p *Player) LastTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastTime
}
