package ipa

import (
	"runtime"
)

// Device is where a Tensor is computed on. Only CPUs are supported; a Device determines how
// many goroutines operators spread their per-example work across.
//
// The zero Device is the host CPU with a single worker.
type Device struct {
	Name    string
	Threads int
}

const hostName string = "cpu"

// CPU returns the host CPU with one worker per logical core.
func CPU() Device {
	return Device{Name: hostName, Threads: runtime.NumCPU()}
}

// Host returns the host CPU with a single worker. Results on Host are bit-identical from run to
// run.
func Host() Device {
	return Device{Name: hostName, Threads: 1}
}

func (d Device) String() string {
	if d.Name == "" {
		return hostName
	}

	return d.Name
}

// Workers returns the number of goroutines that should be used for work on the Device.
func (d Device) Workers() int {
	if d.Threads < 1 {
		return 1
	}

	return d.Threads
}

// Same returns whether or not two Devices refer to the same place.
func (d Device) Same(other Device) bool {
	return d.String() == other.String()
}

// Place returns the Tensor placed on the Device. Values are shared with the given Tensor.
func (d Device) Place(t Tensor) Tensor {
	t.Dev = d
	return t
}

// SameDevice returns a DeviceMismatchError if the Tensors are not all on the same Device.
func SameDevice(ts ...Tensor) error {
	for i := 1; i < len(ts); i++ {
		if !ts[i].Dev.Same(ts[0].Dev) {
			return DeviceMismatchError{ts[0].Dev, ts[i].Dev}
		}
	}

	return nil
}
