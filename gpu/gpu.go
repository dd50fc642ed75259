//go:build !nogpu

// Package gpu registers the GPU blur accelerator.
//
// Import this package to run the backdrop blur as wgpu/hal compute
// dispatches. The result is bit-identical to the software blur.
//
// If GPU initialization fails (no Vulkan device available), the accelerator
// stays registered but declines every blur, and backdrop uses the CPU.
//
// Usage:
//
//	import _ "github.com/gogpu/backdrop/gpu" // enable GPU blur
package gpu

import (
	"errors"

	"github.com/gogpu/backdrop"
	gpuimpl "github.com/gogpu/backdrop/internal/gpu"
	"github.com/gogpu/gpucontext"
)

func init() {
	accel := &gpuimpl.BlurAccelerator{}
	if err := backdrop.RegisterAccelerator(accel); err != nil {
		backdrop.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the GPU accelerator to use a shared GPU device
// from an external provider (e.g., a gogpu window). This avoids creating a
// separate GPU instance.
//
// The provider must also expose HalDevice() any and HalQueue() any for
// direct HAL access. Software adapters are ignored: the CPU blur is faster
// than a shader interpreter.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return errors.New("gpu: nil device provider")
	}
	if info := provider.AdapterInfo(); info.Type == gpucontext.AdapterTypeSoftware {
		backdrop.Logger().Info("gpu: software adapter, keeping CPU blur", "adapter", info.Name)
		return nil
	}
	return backdrop.SetAcceleratorDeviceProvider(provider)
}
