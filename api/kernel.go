// Package api is the flat-buffer boundary of the kernel: every call returns
// a Status, the message of the last failure is kept for GetError, and mesh
// data leaves through caller-sized buffers.
package api

import (
	"sync"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/state"
	"github.com/notargets/MeshKernel/utils"
	"github.com/pkg/errors"
)

const (
	// Version of the kernel
	Version = "0.4.0"
	// BindingVersion of the buffer contract
	BindingVersion = "0.4.0"
)

func GetVersion() string { return Version }

type Status int

const (
	Success Status = iota
	Exception
	InvalidGeometry
)

func (s Status) String() string {
	switch s {
	case Success:
		return "Success"
	case Exception:
		return "Exception"
	case InvalidGeometry:
		return "InvalidGeometry"
	default:
		return "Unknown"
	}
}

// Kernel owns the instances of one caller. Distinct instances may be driven
// from separate goroutines; calls on the same instance must be serialized
// by the caller.
type Kernel struct {
	registry *state.Registry

	mu        sync.Mutex
	lastError string
}

func New() *Kernel {
	return &Kernel{registry: state.NewRegistry()}
}

// GetError returns the message of the last failed call
func (k *Kernel) GetError() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastError
}

func (k *Kernel) status(err error) Status {
	if err == nil {
		return Success
	}
	message := err.Error()
	k.mu.Lock()
	k.lastError = message
	k.mu.Unlock()
	utils.Logger().Warn("kernel call failed", "error", message)
	if errors.Is(err, geometry.ErrInvalidGeometry) {
		return InvalidGeometry
	}
	return Exception
}

func (k *Kernel) AllocateState(isSpherical bool) (state.Handle, Status) {
	return k.registry.Allocate(isSpherical), Success
}

func (k *Kernel) DeallocateState(h state.Handle) Status {
	return k.status(k.registry.Deallocate(h))
}

// with runs fn on the instance behind h
func (k *Kernel) with(h state.Handle, fn func(inst *state.Instance) error) Status {
	inst, err := k.registry.Get(h)
	if err != nil {
		return k.status(err)
	}
	return k.status(fn(inst))
}

// mutate2D runs fn on a copy of the 2D mesh and keeps the copy only when
// fn succeeds, so a failed call leaves the instance as it was.
func (k *Kernel) mutate2D(h state.Handle, fn func(m *mesh.Mesh2D) error) Status {
	return k.with(h, func(inst *state.Instance) error {
		work := inst.Mesh2D.Clone()
		if err := fn(work); err != nil {
			return err
		}
		*inst.Mesh2D = *work
		return nil
	})
}

func checkIndex(name string, i int) error {
	if i < 0 {
		return errors.Wrapf(state.ErrInput, "%s index %d is negative", name, i)
	}
	return nil
}

func polygonsOf(list geometry.GeometryList) (geometry.Polygons, error) {
	return geometry.NewPolygons(list)
}

// polylinesOf splits a list into its rings
func polylinesOf(list geometry.GeometryList) ([][]geometry.Point, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}
	var lines [][]geometry.Point
	for _, span := range list.Rings() {
		line := make([]geometry.Point, 0, span.End-span.Start)
		for i := span.Start; i < span.End; i++ {
			line = append(line, list.Point(i))
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// maskOf turns a 0/1 node mask into booleans
func maskOf(mask []int) []bool {
	out := make([]bool, len(mask))
	for i, v := range mask {
		out[i] = v != 0
	}
	return out
}
