// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/dither"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// targetFormat is the offscreen render target format. Pixels are read back
// in the same byte order as dither.PixelBuffer.
const targetFormat = gputypes.TextureFormatRGBA8Unorm

// sourceFormat is the format of the uploaded source frame, the byte order
// of dither.PixelBuffer.
const sourceFormat = gputypes.TextureFormatRGBA8Unorm

// copyRowAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyRowAlignment = 256

// gpuWaitTimeout bounds the fence wait of one frame.
const gpuWaitTimeout = 5 * time.Second

// halRenderer renders through a wgpu HAL device.
type halRenderer struct {
	instance       hal.Instance
	device         hal.Device
	queue          hal.Queue
	externalDevice bool // shared device, not destroyed on Destroy
	adapterName    string

	sources []programSource

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	programs   map[dither.Family]*halProgram
	quadBuf    hal.Buffer
	uniformBuf hal.Buffer
	sampler    hal.Sampler

	// Source frame texture, bound with the sampler as the one texture unit.
	sourceTex  hal.Texture
	sourceView hal.TextureView
	sourceW    uint32
	sourceH    uint32
	bindGroup  hal.BindGroup

	target     hal.Texture
	targetView hal.TextureView
	width      uint32
	height     uint32
}

// halProgram is one linked program family.
type halProgram struct {
	name     string
	vertex   hal.ShaderModule
	fragment hal.ShaderModule
	pipeline hal.RenderPipeline
}

// openHALRenderer acquires a device, either from provider or from a new
// Vulkan instance. It fails with ErrUnsupportedContext when no device is
// available.
func openHALRenderer(provider gpucontext.DeviceProvider) (*halRenderer, error) {
	r := &halRenderer{sources: defaultProgramSources()}
	if provider != nil {
		if err := r.useProvider(provider); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err := r.openDevice(); err != nil {
		return nil, err
	}
	return r, nil
}

// newHALRenderer wraps an existing device and queue. The caller keeps
// ownership of both.
func newHALRenderer(device hal.Device, queue hal.Queue) *halRenderer {
	return &halRenderer{
		device:         device,
		queue:          queue,
		externalDevice: true,
		sources:        defaultProgramSources(),
	}
}

// useProvider adopts the HAL device of a gpucontext provider. The provider
// must implement HalDevice() any and HalQueue() any returning hal.Device
// and hal.Queue.
func (r *halRenderer) useProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("%w: provider does not expose HAL types", ErrUnsupportedContext)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrUnsupportedContext)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrUnsupportedContext)
	}
	r.device = device
	r.queue = queue
	r.externalDevice = true
	r.adapterName = "shared"
	return nil
}

func (r *halRenderer) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrUnsupportedContext)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("%w: create instance: %w", ErrUnsupportedContext, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("%w: no GPU adapters found", ErrUnsupportedContext)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("%w: open device: %w", ErrUnsupportedContext, err)
	}
	r.instance = instance
	r.device = openDev.Device
	r.queue = openDev.Queue
	r.adapterName = selected.Info.Name
	return nil
}

func (r *halRenderer) Name() string {
	if r.adapterName == "" {
		return "gpu"
	}
	return "gpu (" + r.adapterName + ")"
}

// Init compiles every program and allocates the quad and uniform buffers.
// On failure every resource created so far is released.
func (r *halRenderer) Init() error {
	if err := r.createLayouts(); err != nil {
		r.Destroy()
		return err
	}
	r.programs = make(map[dither.Family]*halProgram, len(r.sources))
	for _, src := range r.sources {
		prog, err := r.createProgram(src)
		if err != nil {
			r.Destroy()
			return err
		}
		r.programs[src.family] = prog
	}

	quad, err := r.createAndUploadBuffer("dither_quad", quadVertices(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		r.Destroy()
		return err
	}
	r.quadBuf = quad

	uniformBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dither_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.Destroy()
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	r.uniformBuf = uniformBuf

	// Nearest filtering at texel centres returns the source texel unchanged.
	sampler, err := r.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "dither_source_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		r.Destroy()
		return fmt.Errorf("create source sampler: %w", err)
	}
	r.sampler = sampler
	return nil
}

func (r *halRenderer) createLayouts() error {
	// Binding 0: Uniforms (uniform buffer, vertex+fragment)
	// Binding 1: source frame (texture_2d, fragment)
	// Binding 2: source sampler (fragment)
	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "dither_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeNonFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "dither_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout
	return nil
}

// createProgram compiles both stages of src and links them into a render
// pipeline.
func (r *halRenderer) createProgram(src programSource) (*halProgram, error) {
	vertexCode, err := compileStage(src.name, StageVertex, src.vertex)
	if err != nil {
		return nil, err
	}
	fragmentCode, err := compileStage(src.name, StageFragment, src.fragment)
	if err != nil {
		return nil, err
	}

	prog := &halProgram{name: src.name}
	prog.vertex, err = r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "dither_" + src.name + "_vs",
		Source: hal.ShaderSource{SPIRV: vertexCode},
	})
	if err != nil {
		return nil, &ShaderCompileError{Stage: StageVertex, Program: src.name, Log: err.Error()}
	}
	prog.fragment, err = r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "dither_" + src.name + "_fs",
		Source: hal.ShaderSource{SPIRV: fragmentCode},
	})
	if err != nil {
		r.destroyProgram(prog)
		return nil, &ShaderCompileError{Stage: StageFragment, Program: src.name, Log: err.Error()}
	}

	prog.pipeline, err = r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "dither_" + src.name + "_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     prog.vertex,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     prog.fragment,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		r.destroyProgram(prog)
		return nil, &ShaderCompileError{Stage: StageLink, Program: src.name, Log: err.Error()}
	}
	return prog, nil
}

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // uv
			},
		},
	}
}

// Upload writes frame into the source texture. The texture, its view and
// the bind group are recreated when the frame size changes.
func (r *halRenderer) Upload(frame *dither.PixelBuffer) error {
	w, h := uint32(frame.Width()), uint32(frame.Height()) //nolint:gosec // dimensions always fit uint32
	if err := r.ensureSource(w, h); err != nil {
		return err
	}
	err := r.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  r.sourceTex,
			MipLevel: 0,
			Aspect:   gputypes.TextureAspectAll,
		},
		frame.Data(),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload source texture: %w", err)
	}
	return r.ensureTarget(w, h)
}

// ensureSource creates the RGBA8 source texture and the bind group that
// samples it, unless they already match w×h.
func (r *halRenderer) ensureSource(w, h uint32) error {
	if r.sourceTex != nil && r.sourceW == w && r.sourceH == h {
		return nil
	}
	r.destroySource()

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "dither_source",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        sourceFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create source texture: %w", err)
	}
	r.sourceTex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "dither_source_view",
		Format:        sourceFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.destroySource()
		return fmt.Errorf("create source texture view: %w", err)
	}
	r.sourceView = view

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "dither_bind",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: r.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: r.sourceView.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: r.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		r.destroySource()
		return fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup
	r.sourceW = w
	r.sourceH = h
	return nil
}

// ensureTarget creates or recreates the render target if the requested
// dimensions differ from the current size.
func (r *halRenderer) ensureTarget(w, h uint32) error {
	if r.width == w && r.height == h && r.target != nil {
		return nil
	}
	r.destroyTarget()

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "dither_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create render target: %w", err)
	}
	r.target = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "dither_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.destroyTarget()
		return fmt.Errorf("create render target view: %w", err)
	}
	r.targetView = view
	r.width = w
	r.height = h
	return nil
}

// Draw runs the program of family over the uploaded frame, copies the
// target to a staging buffer, submits, waits and reads the pixels back.
func (r *halRenderer) Draw(family dither.Family, u *Uniforms) (*dither.PixelBuffer, error) {
	prog, ok := r.programs[family]
	if !ok {
		return nil, fmt.Errorf("no program for %s family", family)
	}
	if r.bindGroup == nil || r.target == nil {
		return nil, ErrNoSource
	}
	w, h := r.width, r.height

	r.queue.WriteBuffer(r.uniformBuf, 0, u.Bytes())

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "dither_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("dither_" + prog.name); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "dither_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       r.targetView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
	rp.SetPipeline(prog.pipeline)
	rp.SetBindGroup(0, r.bindGroup, nil)
	rp.SetVertexBuffer(0, r.quadBuf, 0)
	rp.Draw(quadVertexCount, 1, 0, 0)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	rowBytes := alignUp(w*4, copyRowAlignment)
	stagingSize := uint64(rowBytes) * uint64(h)
	staging, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "dither_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(r.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: rowBytes, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: r.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuWaitTimeout)
	if err != nil {
		return nil, fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return nil, errors.New("wait for GPU: timed out")
	}

	readback := make([]byte, stagingSize)
	if err := r.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	out := dither.NewPixelBuffer(int(w), int(h))
	data := out.Data()
	for y := uint32(0); y < h; y++ {
		copy(data[y*w*4:(y+1)*w*4], readback[y*rowBytes:y*rowBytes+w*4])
	}
	return out, nil
}

func (r *halRenderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Destroy releases every resource in reverse creation order. A shared
// device is left alone.
func (r *halRenderer) Destroy() {
	if r.device == nil {
		return
	}
	r.destroyTarget()
	r.destroySource()
	if r.sampler != nil {
		r.device.DestroySampler(r.sampler)
		r.sampler = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.quadBuf != nil {
		r.device.DestroyBuffer(r.quadBuf)
		r.quadBuf = nil
	}
	for family, prog := range r.programs {
		r.destroyProgram(prog)
		delete(r.programs, family)
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.bindLayout != nil {
		r.device.DestroyBindGroupLayout(r.bindLayout)
		r.bindLayout = nil
	}
	if !r.externalDevice {
		r.device.Destroy()
		if r.instance != nil {
			r.instance.Destroy()
		}
	}
	r.device = nil
	r.queue = nil
	r.instance = nil
}

func (r *halRenderer) destroyProgram(prog *halProgram) {
	if prog.pipeline != nil {
		r.device.DestroyRenderPipeline(prog.pipeline)
		prog.pipeline = nil
	}
	if prog.fragment != nil {
		r.device.DestroyShaderModule(prog.fragment)
		prog.fragment = nil
	}
	if prog.vertex != nil {
		r.device.DestroyShaderModule(prog.vertex)
		prog.vertex = nil
	}
}

func (r *halRenderer) destroySource() {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.sourceView != nil {
		r.device.DestroyTextureView(r.sourceView)
		r.sourceView = nil
	}
	if r.sourceTex != nil {
		r.device.DestroyTexture(r.sourceTex)
		r.sourceTex = nil
	}
	r.sourceW = 0
	r.sourceH = 0
}

func (r *halRenderer) destroyTarget() {
	if r.targetView != nil {
		r.device.DestroyTextureView(r.targetView)
		r.targetView = nil
	}
	if r.target != nil {
		r.device.DestroyTexture(r.target)
		r.target = nil
	}
	r.width = 0
	r.height = 0
}

func alignUp(v, a uint32) uint32 {
	return (v + a - 1) / a * a
}
