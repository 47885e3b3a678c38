// Package pipeline renders dithered frames on the GPU.
//
// A Pipeline compiles one program per algorithm family, diffusion and
// ordered, from embedded WGSL. Each program draws a full-surface quad
// whose fragment stage quantizes the source color, optionally adds
// position noise, and thresholds it. The CPU reference engines in package
// dither remain the authority for exact error diffusion; the diffusion
// program is a per-pixel threshold approximation.
//
// # Backends
//
// BackendGPU runs the programs through wgpu HAL, either on a device
// shared by a gpucontext.DeviceProvider or on a Vulkan device the
// pipeline opens itself. BackendSoftware evaluates the same fragment
// programs on the CPU with the same uniforms. BackendAuto prefers the GPU
// and falls back to software when no device is available.
//
// # Usage
//
//	p := pipeline.New(pipeline.WithBackend(pipeline.BackendAuto))
//	if err := p.Initialize(ctx, surface); err != nil {
//		return err
//	}
//	defer p.Dispose()
//
//	p.SetSourceTexture(frame)
//	p.UpdateSettings(pipeline.UpdateFrom(settings))
//	p.Render(0.5, true) // left half shows the quantized source
//
// # Temporal dithering
//
// With RenderState.TemporalDithering set, the diffusion threshold is
// offset by sin(t·0.1)·0.02 and the ordered sampling position by
// (sin(t·0.2)·0.5, cos(t·0.2)·0.5) pixels, where t is the number of
// seconds since Initialize.
package pipeline
