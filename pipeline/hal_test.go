// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/dither"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue, released when the
// test ends.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// initOrSkip initializes r, skipping when the programs cannot be compiled
// in this environment.
func initOrSkip(t *testing.T, r *halRenderer) {
	t.Helper()
	if err := r.Init(); err != nil {
		if errors.Is(err, ErrShaderCompile) {
			t.Skipf("Skipping: programs do not compile here: %v", err)
		}
		t.Fatalf("Init: %v", err)
	}
}

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

// halProvider also exposes the HAL device and queue.
type halProvider struct {
	mockProvider
	device hal.Device
	queue  hal.Queue
}

func (h *halProvider) HalDevice() any { return h.device }
func (h *halProvider) HalQueue() any  { return h.queue }

func TestHALRendererLifecycle(t *testing.T) {
	device, queue := createNoopDevice(t)
	r := newHALRenderer(device, queue)
	initOrSkip(t, r)
	defer r.Destroy()

	if len(r.programs) != 2 {
		t.Fatalf("programs = %d, want 2", len(r.programs))
	}
	for _, fam := range []dither.Family{dither.FamilyDiffusion, dither.FamilyOrdered} {
		if p := r.programs[fam]; p == nil || p.pipeline == nil {
			t.Errorf("missing %s program", fam)
		}
	}
	if r.quadBuf == nil || r.uniformBuf == nil {
		t.Error("quad or uniform buffer not created")
	}
}

func TestHALRendererDraw(t *testing.T) {
	device, queue := createNoopDevice(t)
	r := newHALRenderer(device, queue)
	initOrSkip(t, r)
	defer r.Destroy()

	frame := testFrame(13, 7)
	if err := r.Upload(frame); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if r.width != 13 || r.height != 7 || r.target == nil {
		t.Fatalf("target %dx%d, texture %v", r.width, r.height, r.target)
	}

	u := newUniforms(DefaultRenderState(), 13, 7, 0.5, true, 0)
	for _, fam := range []dither.Family{dither.FamilyDiffusion, dither.FamilyOrdered} {
		out, err := r.Draw(fam, &u)
		if err != nil {
			t.Fatalf("Draw(%s): %v", fam, err)
		}
		if out.Width() != 13 || out.Height() != 7 {
			t.Errorf("Draw(%s) = %dx%d, want 13x7", fam, out.Width(), out.Height())
		}
	}

	if err := r.Upload(testFrame(13, 7)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if r.sourceW != 13 || r.sourceH != 7 {
		t.Errorf("source texture %dx%d, want 13x7", r.sourceW, r.sourceH)
	}
	if err := r.Upload(testFrame(4, 4)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if r.width != 4 || r.height != 4 {
		t.Errorf("target %dx%d after resize, want 4x4", r.width, r.height)
	}
}

// recordingQueue records the texture writes made through a HAL queue.
type recordingQueue struct {
	hal.Queue
	writes []textureWrite
}

type textureWrite struct {
	texture     hal.Texture
	bytes       int
	bytesPerRow uint32
	size        hal.Extent3D
}

func (q *recordingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	q.writes = append(q.writes, textureWrite{
		texture:     dst.Texture,
		bytes:       len(data),
		bytesPerRow: layout.BytesPerRow,
		size:        *size,
	})
	return q.Queue.WriteTexture(dst, data, layout, size)
}

func TestHALRendererUploadsSourceTexture(t *testing.T) {
	device, queue := createNoopDevice(t)
	rq := &recordingQueue{Queue: queue}
	r := newHALRenderer(device, rq)
	initOrSkip(t, r)
	defer r.Destroy()

	if r.sampler == nil {
		t.Fatal("Init did not create the source sampler")
	}

	if err := r.Upload(testFrame(13, 7)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if r.sourceTex == nil || r.sourceView == nil || r.bindGroup == nil {
		t.Fatal("Upload did not create the source texture and bind group")
	}
	if len(rq.writes) != 1 {
		t.Fatalf("texture writes = %d, want 1", len(rq.writes))
	}
	w := rq.writes[0]
	if w.texture != r.sourceTex {
		t.Error("frame written to a texture other than the source texture")
	}
	if w.bytes != 13*7*4 || w.bytesPerRow != 13*4 {
		t.Errorf("write of %d bytes, %d per row; want %d, %d", w.bytes, w.bytesPerRow, 13*7*4, 13*4)
	}
	if w.size.Width != 13 || w.size.Height != 7 || w.size.DepthOrArrayLayers != 1 {
		t.Errorf("write extent = %+v, want 13x7x1", w.size)
	}

	// Same size: the texture is reused.
	tex := r.sourceTex
	if err := r.Upload(testFrame(13, 7)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if r.sourceTex != tex || len(rq.writes) != 2 {
		t.Error("same-size upload did not reuse the source texture")
	}

	// New size: a new texture is written.
	if err := r.Upload(testFrame(4, 2)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if last := rq.writes[len(rq.writes)-1]; last.size.Width != 4 || last.size.Height != 2 || last.texture != r.sourceTex {
		t.Errorf("resized write = %+v", last)
	}
	if r.sourceW != 4 || r.sourceH != 2 {
		t.Errorf("source texture %dx%d, want 4x2", r.sourceW, r.sourceH)
	}

	r.Destroy()
	if r.sourceTex != nil || r.sourceView != nil || r.sampler != nil || r.bindGroup != nil {
		t.Error("Destroy left source resources behind")
	}
}

func TestHALRendererDrawWithoutSource(t *testing.T) {
	device, queue := createNoopDevice(t)
	r := newHALRenderer(device, queue)
	initOrSkip(t, r)
	defer r.Destroy()

	u := newUniforms(DefaultRenderState(), 1, 1, 0, false, 0)
	if _, err := r.Draw(dither.FamilyDiffusion, &u); !errors.Is(err, ErrNoSource) {
		t.Errorf("Draw without source = %v, want ErrNoSource", err)
	}
}

func TestHALRendererDestroyIdempotent(t *testing.T) {
	device, queue := createNoopDevice(t)
	r := newHALRenderer(device, queue)
	initOrSkip(t, r)

	r.Destroy()
	r.Destroy()
	if len(r.programs) != 0 || r.quadBuf != nil || r.device != nil {
		t.Error("Destroy left resources behind")
	}
}

func TestPipelineWithHALProvider(t *testing.T) {
	device, queue := createNoopDevice(t)
	p := New(WithBackend(BackendGPU), WithDeviceProvider(&halProvider{device: device, queue: queue}))
	t.Cleanup(func() { _ = p.Dispose() })

	if err := p.Initialize(context.Background(), nil); err != nil {
		if errors.Is(err, ErrShaderCompile) {
			t.Skipf("Skipping: programs do not compile here: %v", err)
		}
		t.Fatalf("Initialize: %v", err)
	}
	if !strings.HasPrefix(p.Backend(), "gpu") {
		t.Errorf("Backend() = %q, want gpu", p.Backend())
	}
	if err := p.SetSourceTexture(testFrame(8, 8)); err != nil {
		t.Fatalf("SetSourceTexture: %v", err)
	}
	if err := p.Render(0.5, true); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if f, _ := p.Frame(); f == nil || f.Width() != 8 {
		t.Errorf("Frame() = %v", f)
	}
}

func TestPipelineProviderWithoutHAL(t *testing.T) {
	p := New(WithBackend(BackendGPU), WithDeviceProvider(&mockProvider{}))
	if err := p.Initialize(context.Background(), nil); !errors.Is(err, ErrUnsupportedContext) {
		t.Errorf("Initialize = %v, want ErrUnsupportedContext", err)
	}

	auto := New(WithBackend(BackendAuto), WithDeviceProvider(&mockProvider{}))
	t.Cleanup(func() { _ = auto.Dispose() })
	if err := auto.Initialize(context.Background(), nil); err != nil {
		t.Fatalf("auto Initialize: %v", err)
	}
	if auto.Backend() != "software" {
		t.Errorf("auto Backend() = %q, want software", auto.Backend())
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct{ v, a, want uint32 }{
		{0, 256, 0}, {1, 256, 256}, {256, 256, 256}, {257, 256, 512}, {52, 256, 256},
	}
	for _, tc := range tests {
		if got := alignUp(tc.v, tc.a); got != tc.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", tc.v, tc.a, got, tc.want)
		}
	}
}
