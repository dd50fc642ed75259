//go:build !nogpu

// Package gpu provides the Pure Go GPU blur fast path for backdrop.
//
// It runs the separable triangular blur as two WGSL compute dispatches
// (horizontal, then vertical) through gogpu/wgpu's HAL, with zero CGO.
// The shader is compiled to SPIR-V by gogpu/naga at pipeline creation.
//
// # Exactness
//
// Each invocation evaluates the full triangular kernel for one pixel and
// divides by the same integer weight sum the CPU path uses, so the GPU
// result is bit-identical to backdrop's software blur. Alpha is copied
// through unchanged.
//
// # Device selection
//
// On Init the accelerator enumerates Vulkan adapters and prefers a
// discrete or integrated GPU. If no device can be opened, Init still
// succeeds and CanBlur reports false, so backdrop transparently uses the
// software blur. A shared device from a host application can be supplied
// later through SetDeviceProvider.
//
// This package is internal. Applications enable it with
//
//	import _ "github.com/gogpu/backdrop/gpu"
package gpu
