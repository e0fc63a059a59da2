package complexmul

import (
	"fmt"
	"runtime"

	vmcpu "github.com/cwbudde/algo-vecmath/cpu"
)

// HostPlatform exposes the local machine as a set of devices:
//
//   - a general-purpose CPU device running kernels index by index across
//     goroutines, always present;
//   - a vector engine of accelerator class running block kernels through
//     SIMD plane arithmetic, present when the host has a SIMD path.
//
// Devices are enumerated CPU first.
type HostPlatform struct {
	devices   []Device
	workers   int
	blockSize int
	chunkSize int
}

// HostOption configures a HostPlatform.
type HostOption func(*HostPlatform)

// WithWorkers sets the number of worker goroutines per dispatch.
func WithWorkers(n int) HostOption {
	return func(p *HostPlatform) { p.workers = n }
}

// WithBlockSize sets the CPU executor's block size.
func WithBlockSize(n int) HostOption {
	return func(p *HostPlatform) { p.blockSize = n }
}

// WithChunkSize sets the vector executor's chunk size.
func WithChunkSize(n int) HostOption {
	return func(p *HostPlatform) { p.chunkSize = n }
}

// NewHostPlatform discovers the host devices.
func NewHostPlatform(opts ...HostOption) *HostPlatform {
	p := &HostPlatform{
		workers:   runtime.NumCPU(),
		blockSize: DefaultBlockSize,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.devices = discoverHostDevices(DetectCPUFeatures(), vmcpu.DetectFeatures(), p.workers)
	return p
}

func discoverHostDevices(feat CPUFeatures, vf vmcpu.Features, workers int) []Device {
	cores := runtime.NumCPU()
	if workers <= 0 {
		workers = cores
	}

	devices := []Device{{
		ID:         0,
		Name:       fmt.Sprintf("%s CPU (%s, %d cores)", HostVendor, runtime.GOARCH, cores),
		Vendor:     HostVendor,
		Class:      DeviceClassCPU,
		NumCores:   cores,
		MaxThreads: workers,
		Extensions: feat.Extensions(),
	}}

	if level := vectorLevel(vf); level != "" {
		devices = append(devices, Device{
			ID:         1,
			Name:       fmt.Sprintf("%s Vector Engine (%s)", HostVendor, level),
			Vendor:     HostVendor,
			Class:      DeviceClassAccelerator,
			NumCores:   cores,
			MaxThreads: workers,
			Extensions: []string{level},
		})
	}
	return devices
}

// Devices returns the host devices in enumeration order.
func (p *HostPlatform) Devices() []Device {
	out := make([]Device, len(p.devices))
	copy(out, p.devices)
	return out
}

// Executor returns the executor backing d.
func (p *HostPlatform) Executor(d Device) (Executor, error) {
	if d.ID < 0 || d.ID >= len(p.devices) || p.devices[d.ID].Name != d.Name {
		return nil, NewDeviceError("Executor", fmt.Sprintf("device %q is not on this platform", d.Name))
	}

	switch d.Class {
	case DeviceClassCPU:
		return newCPUExecutor(p.workers, p.blockSize), nil
	case DeviceClassAccelerator:
		return newVectorExecutor(p.workers, p.chunkSize), nil
	default:
		return nil, NewDeviceError("Executor", fmt.Sprintf("no executor for class %s", d.Class))
	}
}
