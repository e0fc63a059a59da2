package complexmul

import (
	"fmt"
	"strings"
)

// DeviceClass is the broad capability class of a device.
type DeviceClass int

const (
	DeviceClassUnknown     DeviceClass = iota // Unrecognized device
	DeviceClassCPU                            // General purpose processor
	DeviceClassAccelerator                    // Wide data-parallel engine
)

func (c DeviceClass) String() string {
	switch c {
	case DeviceClassCPU:
		return "CPU"
	case DeviceClassAccelerator:
		return "Accelerator"
	default:
		return "Unknown"
	}
}

// Device describes a compute device the runtime can dispatch kernels to.
// It is a plain value so ranking policies can be tested without hardware.
type Device struct {
	ID         int         // Enumeration index on its platform
	Name       string      // Human-readable device name
	Vendor     string      // Vendor string, informational
	Class      DeviceClass // Capability class
	NumCores   int         // Number of cores backing the device
	MaxThreads int         // Maximum concurrent work items in flight
	Extensions []string    // ISA extensions the device can use
}

func (d Device) String() string {
	return fmt.Sprintf("%s [%s]", d.Name, d.Class)
}

// Ranker maps a device to a desirability score. A score of zero rejects the
// device. Rankers must be pure.
type Ranker func(Device) int

// VendorRanker returns the default ranking policy: an accelerator whose name
// contains vendor scores 3, any other accelerator 2, a CPU 1 and anything
// else 0. The first matching tier wins. The name match is case-sensitive.
func VendorRanker(vendor string) Ranker {
	return func(d Device) int {
		switch {
		case d.Class == DeviceClassAccelerator && strings.Contains(d.Name, vendor):
			return 3
		case d.Class == DeviceClassAccelerator:
			return 2
		case d.Class == DeviceClassCPU:
			return 1
		default:
			return 0
		}
	}
}

// SelectDevice returns the device with the highest positive score. Ties go to
// the device enumerated first. It fails with ErrNoUsableDevice when devices
// is empty or every device scores zero or less.
func SelectDevice(devices []Device, rank Ranker) (Device, error) {
	if rank == nil {
		return Device{}, NewInvalidArgError("SelectDevice", "nil ranker")
	}

	best, bestScore := -1, 0
	for i, d := range devices {
		if score := rank(d); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Device{}, &Error{
			Type:    ErrTypeDevice,
			Op:      "SelectDevice",
			Message: fmt.Sprintf("no usable device among %d candidates", len(devices)),
			Err:     ErrNoUsableDevice,
		}
	}
	return devices[best], nil
}

// Platform enumerates devices and provides executors for them. The host
// platform lives in host.go; tests inject fakes.
type Platform interface {
	// Devices returns the available devices in enumeration order.
	Devices() []Device

	// Executor returns the executor that runs kernels on d.
	Executor(d Device) (Executor, error)
}

// SelectFrom ranks the devices of p and returns the winner.
func SelectFrom(p Platform, rank Ranker) (Device, error) {
	if p == nil {
		return Device{}, NewInvalidArgError("SelectFrom", "nil platform")
	}
	return SelectDevice(p.Devices(), rank)
}
