// Package state owns the mesh instances a caller works on, addressed by
// generation-checked handles.
package state

import (
	"sync"

	"github.com/notargets/MeshKernel/contacts"
	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/orthogonalization"
	"github.com/notargets/MeshKernel/utils"
	"github.com/pkg/errors"
)

// ErrInput marks arguments rejected before any mesh is touched
var ErrInput = errors.New("invalid input")

// Handle identifies an instance: the generation in the high 32 bits, the
// slot in the low 32 bits. Handles are never negative.
type Handle int64

const generationMask = 1<<31 - 1

func newHandle(generation uint32, slot int) Handle {
	return Handle(int64(generation)<<32 | int64(slot))
}

func (h Handle) slot() int          { return int(h & (1<<32 - 1)) }
func (h Handle) generation() uint32 { return uint32(h >> 32) }

// Instance bundles the meshes one caller edits together
type Instance struct {
	Projection geometry.Projection
	Mesh1D     *mesh.Mesh1D
	Mesh2D     *mesh.Mesh2D
	Contacts   *contacts.Contacts

	// Orthogonalizer is kept between the staged orthogonalization calls
	Orthogonalizer *orthogonalization.Orthogonalizer
}

func newInstance(projection geometry.Projection) *Instance {
	m1 := mesh.NewMesh1D(projection)
	m2 := mesh.NewMesh2D(projection)
	return &Instance{
		Projection: projection,
		Mesh1D:     m1,
		Mesh2D:     m2,
		Contacts:   contacts.New(m1, m2),
	}
}

type slot struct {
	generation uint32
	instance   *Instance
}

// Registry maps handles to instances. The table is safe for concurrent use;
// the instances are not.
type Registry struct {
	mu    sync.Mutex
	slots []slot
	free  []int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Allocate creates an empty instance in a cartesian or spherical projection
func (r *Registry) Allocate(isSpherical bool) Handle {
	projection := geometry.Cartesian
	if isSpherical {
		projection = geometry.Spherical
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var index int
	if n := len(r.free); n > 0 {
		index, r.free = r.free[n-1], r.free[:n-1]
	} else {
		index = len(r.slots)
		r.slots = append(r.slots, slot{})
	}
	s := &r.slots[index]
	s.generation = s.generation%generationMask + 1
	s.instance = newInstance(projection)
	h := newHandle(s.generation, index)
	utils.Logger().Debug("state allocated", "handle", int64(h), "projection", projection)
	return h
}

// Deallocate releases the instance; the handle and its copies go stale
func (r *Registry) Deallocate(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	s.instance = nil
	r.free = append(r.free, h.slot())
	utils.Logger().Debug("state released", "handle", int64(h))
	return nil
}

func (r *Registry) Get(h Handle) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	return s.instance, nil
}

// Len returns the number of live instances
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots) - len(r.free)
}

func (r *Registry) lookup(h Handle) (*slot, error) {
	if h < 0 {
		return nil, errors.Wrapf(ErrInput, "negative handle %d", h)
	}
	i := h.slot()
	if i >= len(r.slots) || r.slots[i].instance == nil || r.slots[i].generation != h.generation() {
		return nil, errors.Wrapf(ErrInput, "unknown or released handle %d", h)
	}
	return &r.slots[i], nil
}
