package complexmul

import (
	"errors"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePlatform serves a fixed device list. Every device runs on exec, or on
// a small CPU executor when exec is nil.
type fakePlatform struct {
	devices []Device
	exec    Executor
}

func (f *fakePlatform) Devices() []Device { return f.devices }

func (f *fakePlatform) Executor(d Device) (Executor, error) {
	if f.exec != nil {
		return f.exec, nil
	}
	return newCPUExecutor(3, 4), nil
}

// faultExecutor fails every dispatch without running the kernel, the way a
// lost device would.
type faultExecutor struct {
	index int
}

func (e faultExecutor) Run(n int, k Kernel) error {
	return NewExecutionError("Run", e.index, errors.New("device lost"))
}

func gpu(name string) Device {
	return Device{Name: name, Class: DeviceClassAccelerator}
}

func cpuDevice(name string) Device {
	return Device{Name: name, Class: DeviceClassCPU}
}

// newTestQueue opens a queue on a single-device fake platform and closes it
// when the test ends.
func newTestQueue(t testing.TB, d Device, exec Executor, opts ...QueueOption) *Queue {
	t.Helper()
	q, err := NewQueueForDevice(&fakePlatform{devices: []Device{d}, exec: exec}, d, opts...)
	if err != nil {
		t.Fatalf("NewQueueForDevice failed: %v", err)
	}
	t.Cleanup(func() { _ = q.Close() })
	return q
}

// sequence builds n values from f.
func sequence(n int, f func(i int) Complex) []Complex {
	s := make([]Complex, n)
	for i := range s {
		s[i] = f(i)
	}
	return s
}
