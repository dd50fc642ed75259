// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// submitTimeout bounds how long Blur waits for the GPU.
const submitTimeout = 5 * time.Second

// BlurAccelerator runs the separable triangular blur as two compute
// dispatches over wgpu/hal. It implements the backdrop.GPUAccelerator
// interface.
//
// Each Blur call uploads the pixels once, runs the horizontal pass into a
// scratch buffer and the vertical pass back, then reads the result through
// a mapped staging buffer. One submit and one wait per call.
type BlurAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	limits   gputypes.Limits

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)

	log atomic.Pointer[slog.Logger]
}

var _ backdrop.GPUAccelerator = (*BlurAccelerator)(nil)

func (a *BlurAccelerator) Name() string { return "vulkan-compute" }

// Init opens a GPU device. A missing device is not an error: the
// accelerator stays registered and CanBlur reports false.
func (a *BlurAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpuReady {
		return nil
	}
	if err := a.initGPU(); err != nil {
		a.releaseLocked()
		a.logger().Warn("gpu-blur: GPU init failed, using CPU blur", "err", err)
	}
	return nil
}

func (a *BlurAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

// SetLogger receives the logger from backdrop.SetLogger.
func (a *BlurAccelerator) SetLogger(l *slog.Logger) {
	a.log.Store(l)
}

// logger returns the propagated logger, or backdrop's until one arrives.
func (a *BlurAccelerator) logger() *slog.Logger {
	if l := a.log.Load(); l != nil {
		return l
	}
	return backdrop.Logger()
}

// Ready reports whether a device and pipeline are available.
func (a *BlurAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// SetDeviceProvider switches the accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *BlurAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu-blur: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu-blur: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu-blur: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseLocked()

	a.device = device
	a.queue = queue
	a.limits = gputypes.DefaultLimits()
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu-blur: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("gpu-blur: switched to shared GPU device")
	return nil
}

// CanBlur reports whether a width x height buffer fits the device limits.
func (a *BlurAccelerator) CanBlur(width, height, radius int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady && a.fitsLocked(width, height, radius)
}

func (a *BlurAccelerator) fitsLocked(width, height, radius int) bool {
	if width <= 0 || height <= 0 || radius < 1 || radius > backdrop.MaxRadius {
		return false
	}
	size := uint64(width) * uint64(height) * 4
	if size > a.limits.MaxStorageBufferBindingSize {
		return false
	}
	maxGroups := uint64(a.limits.MaxComputeWorkgroupsPerDimension)
	return uint64(workgroups(uint32(width), workgroupSizeX)) <= maxGroups && //nolint:gosec // checked positive
		uint64(workgroups(uint32(height), workgroupSizeY)) <= maxGroups //nolint:gosec // checked positive
}

// Blur blurs t.Pix in place. The result is bit-identical to the CPU blur.
func (a *BlurAccelerator) Blur(t backdrop.Target, radius int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return fmt.Errorf("%w: no GPU device", backdrop.ErrHardwareUnavailable)
	}
	if len(t.Pix) != t.Width*t.Height {
		return fmt.Errorf("gpu-blur: buffer holds %d pixels, want %dx%d", len(t.Pix), t.Width, t.Height)
	}
	if !a.fitsLocked(t.Width, t.Height, radius) {
		return fmt.Errorf("%w: %dx%d radius %d exceeds device limits",
			backdrop.ErrHardwareUnavailable, t.Width, t.Height, radius)
	}
	if err := a.dispatch(t, uint32(radius)); err != nil { //nolint:gosec // radius checked above
		a.logger().Debug("gpu-blur: dispatch failed", "w", t.Width, "h", t.Height, "err", err)
		return err
	}
	return nil
}

// blurResources holds per-call GPU objects.
type blurResources struct {
	pixels, scratch, staging hal.Buffer
	paramsH, paramsV         hal.Buffer
	bindH, bindV             hal.BindGroup
}

func (a *BlurAccelerator) destroyResources(r *blurResources) {
	for _, bg := range []hal.BindGroup{r.bindH, r.bindV} {
		if bg != nil {
			a.device.DestroyBindGroup(bg)
		}
	}
	for _, b := range []hal.Buffer{r.pixels, r.scratch, r.staging, r.paramsH, r.paramsV} {
		if b != nil {
			a.device.DestroyBuffer(b)
		}
	}
}

func (a *BlurAccelerator) dispatch(t backdrop.Target, radius uint32) error {
	w, h := uint32(t.Width), uint32(t.Height) //nolint:gosec // dimensions checked by fitsLocked
	pixelBufSize := uint64(len(t.Pix)) * 4

	var r blurResources
	defer a.destroyResources(&r)

	if err := a.createBuffers(&r, pixelBufSize); err != nil {
		return err
	}

	if err := a.queue.WriteBuffer(r.pixels, 0, packPixelsForGPU(t.Pix)); err != nil {
		return fmt.Errorf("upload pixels: %w", err)
	}
	if err := a.queue.WriteBuffer(r.paramsH, 0, makeBlurParams(w, h, radius, false)); err != nil {
		return fmt.Errorf("upload params: %w", err)
	}
	if err := a.queue.WriteBuffer(r.paramsV, 0, makeBlurParams(w, h, radius, true)); err != nil {
		return fmt.Errorf("upload params: %w", err)
	}

	var err error
	r.bindH, err = a.createBindGroup("stackblur_h_bind", r.paramsH, r.pixels, r.scratch, pixelBufSize)
	if err != nil {
		return err
	}
	r.bindV, err = a.createBindGroup("stackblur_v_bind", r.paramsV, r.scratch, r.pixels, pixelBufSize)
	if err != nil {
		return err
	}

	if err := a.encodeAndSubmit(&r, w, h, pixelBufSize); err != nil {
		return err
	}
	return a.readback(r.staging, pixelBufSize, t.Pix)
}

func (a *BlurAccelerator) createBuffers(r *blurResources, pixelBufSize uint64) error {
	var err error
	r.pixels, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stackblur_pixels", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create pixel buffer: %w", err)
	}
	r.scratch, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stackblur_scratch", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("create scratch buffer: %w", err)
	}
	r.staging, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stackblur_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	r.paramsH, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stackblur_params_h", Size: blurParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	r.paramsV, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stackblur_params_v", Size: blurParamsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	return nil
}

func (a *BlurAccelerator) createBindGroup(label string, params, src, dst hal.Buffer, size uint64) (hal.BindGroup, error) {
	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: label, Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: params.NativeHandle(), Offset: 0, Size: blurParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: src.NativeHandle(), Offset: 0, Size: size}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dst.NativeHandle(), Offset: 0, Size: size}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group %s: %w", label, err)
	}
	return bg, nil
}

// encodeAndSubmit records both passes and the staging copy in a single
// command encoder. Storage buffer barriers between passes are implicit.
func (a *BlurAccelerator) encodeAndSubmit(r *blurResources, w, h uint32, pixelBufSize uint64) error {
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "stackblur_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("stackblur"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	gx, gy := workgroups(w, workgroupSizeX), workgroups(h, workgroupSizeY)
	for _, bg := range []hal.BindGroup{r.bindH, r.bindV} {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "stackblur_pass"})
		pass.SetPipeline(a.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(gx, gy, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(r.pixels, r.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	idx, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return a.waitSubmission(idx)
}

// waitSubmission polls the queue until submission idx has completed.
func (a *BlurAccelerator) waitSubmission(idx uint64) error {
	deadline := time.Now().Add(submitTimeout)
	for a.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for GPU: submission %d not done after %v", idx, submitTimeout)
		}
		time.Sleep(50 * time.Microsecond)
	}
	return nil
}

func (a *BlurAccelerator) readback(staging hal.Buffer, size uint64, dst []uint32) error {
	mapping, err := a.device.MapBuffer(staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	if mapping.Ptr == nil {
		_ = a.device.UnmapBuffer(staging)
		return errors.New("map staging buffer: nil mapping")
	}
	data := unsafe.Slice((*byte)(mapping.Ptr), size) //nolint:gosec // mapping covers size bytes
	unpackPixelsFromGPU(data, dst)
	if err := a.device.UnmapBuffer(staging); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

func (a *BlurAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	selected := selectAdapter(adapters)
	limits := gputypes.DefaultLimits()
	openDev, err := selected.Adapter.Open(gputypes.Features(0), limits)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	a.limits = limits
	if err := a.createPipelines(); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("gpu-blur: GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

// selectAdapter prefers real GPUs over software adapters.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			return &adapters[i]
		}
	}
	return &adapters[0]
}

func (a *BlurAccelerator) createPipelines() error {
	spirv, err := compileSPIRV(stackBlurShaderWGSL)
	if err != nil {
		return err
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "stackblur",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create stackblur shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "stackblur_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create stackblur bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "stackblur_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create stackblur pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "stackblur_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create stackblur compute pipeline: %w", err)
	}
	a.pipeline = pipeline
	return nil
}

func (a *BlurAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// releaseLocked destroys pipelines and, unless shared, the device and
// instance. The caller holds a.mu.
func (a *BlurAccelerator) releaseLocked() {
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	// Don't destroy shared resources, we don't own them.
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}
