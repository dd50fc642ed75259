//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct {
	info gpucontext.AdapterInfo
}

func (m *mockProvider) Device() gpucontext.Device             { return struct{}{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return struct{}{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return m.info }

func TestAcceleratorRegistered(t *testing.T) {
	a := backdrop.Accelerator()
	if a == nil {
		t.Fatal("importing gpu should register an accelerator")
	}
	if a.Name() != "vulkan-compute" {
		t.Errorf("Name() = %q, want vulkan-compute", a.Name())
	}
}

func TestSetDeviceProvider(t *testing.T) {
	if err := SetDeviceProvider(nil); err == nil {
		t.Error("nil provider should fail")
	}

	soft := &mockProvider{info: gpucontext.AdapterInfo{Name: "llvmpipe", Type: gpucontext.AdapterTypeSoftware}}
	if err := SetDeviceProvider(soft); err != nil {
		t.Errorf("software provider should be skipped, got %v", err)
	}

	noHAL := &mockProvider{info: gpucontext.AdapterInfo{Name: "mock", Type: gpucontext.AdapterTypeDiscrete}}
	if err := SetDeviceProvider(noHAL); err == nil {
		t.Error("provider without HAL access should fail")
	}
}
