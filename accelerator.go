package backdrop

import (
	"errors"
	"sync"
)

// ErrHardwareUnavailable indicates the accelerator cannot blur this buffer.
// The pipeline falls back to the software blur when it sees this (or any)
// error from an accelerator.
var ErrHardwareUnavailable = errors.New("backdrop: hardware blur unavailable")

// SoftwareEngine is the engine name reported when the CPU stack blur ran.
const SoftwareEngine = "software"

// Target is the pixel buffer handed to an accelerator. Pix holds
// Width*Height packed 0xAARRGGBB samples, row by row, and is blurred in
// place.
type Target struct {
	Pix           []uint32
	Width, Height int
}

// GPUAccelerator is an optional hardware blur provider.
//
// When registered via RegisterAccelerator, a Blurrer tries the accelerator
// first. If it returns an error the blur is redone once in software;
// callers never see the failure.
//
// Implementations are provided by GPU backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/backdrop/gpu" // enables GPU blur
type GPUAccelerator interface {
	// Name returns the accelerator name (e.g., "vulkan-compute").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanBlur is a fast check used to skip the accelerator entirely, for
	// example when the buffer exceeds device limits.
	CanBlur(width, height, radius int) bool

	// Blur blurs t.Pix in place with the given radius. The alpha channel
	// must be left unchanged. On error the contents of t.Pix are discarded.
	Blur(t Target, radius int) error
}

// DeviceProviderAware is an optional interface for accelerators that can
// share a GPU device with an external provider (e.g., a gogpu window).
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   GPUAccelerator
)

// RegisterAccelerator registers the hardware blur fast path.
//
// Only one accelerator can be registered. Subsequent calls replace and
// close the previous one. The accelerator's Init method is called during
// registration; if it fails the accelerator is not registered and the
// error is returned.
func RegisterAccelerator(a GPUAccelerator) error {
	if a == nil {
		return errors.New("backdrop: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())

	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil && old != a {
		old.Close()
	}
	return nil
}

// Accelerator returns the currently registered accelerator, or nil if none.
func Accelerator() GPUAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}

// SetAcceleratorDeviceProvider passes a device provider to the registered
// accelerator, enabling GPU device sharing. If no accelerator is registered
// or it doesn't support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types.
func SetAcceleratorDeviceProvider(provider any) error {
	a := Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
