package api

import (
	"github.com/notargets/MeshKernel/builder"
	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/interpolation"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/orthogonalization"
	"github.com/notargets/MeshKernel/refinement"
	"github.com/notargets/MeshKernel/state"
	"github.com/pkg/errors"
)

// ============================================================================
// Generation
// ============================================================================

// Mesh2DMakeMeshFromPolygon replaces the mesh with a triangulation of polygon
func (k *Kernel) Mesh2DMakeMeshFromPolygon(h state.Handle, polygon geometry.GeometryList) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		generated, err := builder.New(builder.Config{Projection: m.Projection}).FromPolygon(polygon)
		if err != nil {
			return err
		}
		*m = *generated
		return nil
	})
}

// Mesh2DMakeMeshFromSamples replaces the mesh with the Delaunay
// triangulation of the samples
func (k *Kernel) Mesh2DMakeMeshFromSamples(h state.Handle, samples geometry.GeometryList) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		generated, err := builder.New(builder.Config{Projection: m.Projection}).FromSamples(samples)
		if err != nil {
			return err
		}
		*m = *generated
		return nil
	})
}

// ============================================================================
// Refinement
// ============================================================================

// PolygonRefine inserts points between first and second so that no
// segment is longer than distance
func (k *Kernel) PolygonRefine(h state.Handle, polygon geometry.GeometryList, first, second int,
	distance float64) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	if err := checkIndex("first", first); err != nil {
		return out, k.status(err)
	}
	if err := checkIndex("second", second); err != nil {
		return out, k.status(err)
	}
	status := k.with(h, func(inst *state.Instance) (err error) {
		out, err = refinement.RefinePolygon(polygon, first, second, distance, inst.Projection)
		return err
	})
	return out, status
}

func (k *Kernel) Mesh2DRefineBasedOnSamples(h state.Handle, samples geometry.GeometryList,
	searchRadiusRatio float64, minSamples int, params refinement.Parameters) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		return refinement.BySamples(m, samples, searchRadiusRatio, minSamples, params)
	})
}

func (k *Kernel) Mesh2DRefineBasedOnPolygon(h state.Handle, polygon geometry.GeometryList,
	params refinement.Parameters) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		polygons, err := polygonsOf(polygon)
		if err != nil {
			return err
		}
		return refinement.ByPolygon(m, polygons, params)
	})
}

// ============================================================================
// Orthogonalization
// ============================================================================

// Mesh2DComputeOrthogonalization runs a complete orthogonalization
func (k *Kernel) Mesh2DComputeOrthogonalization(h state.Handle, option orthogonalization.ProjectToLandBoundary,
	params orthogonalization.Parameters, selecting, land geometry.GeometryList) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		o, err := newOrthogonalizer(m, option, params, selecting, land)
		if err != nil {
			return err
		}
		return o.Compute()
	})
}

// Mesh2DInitializeOrthogonalization prepares an orthogonalizer kept by the
// instance for Mesh2DRunOrthogonalization
func (k *Kernel) Mesh2DInitializeOrthogonalization(h state.Handle, option orthogonalization.ProjectToLandBoundary,
	params orthogonalization.Parameters, selecting, land geometry.GeometryList) Status {
	return k.with(h, func(inst *state.Instance) error {
		o, err := newOrthogonalizer(inst.Mesh2D, option, params, selecting, land)
		if err != nil {
			return err
		}
		if err := o.Initialize(); err != nil {
			return err
		}
		inst.Orthogonalizer = o
		return nil
	})
}

func (k *Kernel) Mesh2DRunOrthogonalization(h state.Handle) (orthogonalization.State, Status) {
	result := orthogonalization.Idle
	status := k.with(h, func(inst *state.Instance) error {
		if inst.Orthogonalizer == nil {
			return errors.New("orthogonalization has not been initialized")
		}
		err := inst.Orthogonalizer.Compute()
		result = inst.Orthogonalizer.State()
		return err
	})
	return result, status
}

func (k *Kernel) Mesh2DDeleteOrthogonalization(h state.Handle) Status {
	return k.with(h, func(inst *state.Instance) error {
		inst.Orthogonalizer = nil
		return nil
	})
}

func newOrthogonalizer(m *mesh.Mesh2D, option orthogonalization.ProjectToLandBoundary,
	params orthogonalization.Parameters, selecting, land geometry.GeometryList) (*orthogonalization.Orthogonalizer, error) {
	polygons, err := polygonsOf(selecting)
	if err != nil {
		return nil, err
	}
	lines, err := polylinesOf(land)
	if err != nil {
		return nil, err
	}
	return orthogonalization.New(m, option, params, polygons, lines)
}

// Mesh2DGetOrthogonality returns one value per edge at the edge midpoints
func (k *Kernel) Mesh2DGetOrthogonality(h state.Handle) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	status := k.with(h, func(inst *state.Instance) error {
		out = edgeValues(inst.Mesh2D, orthogonalization.Orthogonality(inst.Mesh2D))
		return nil
	})
	return out, status
}

func (k *Kernel) Mesh2DGetSmoothness(h state.Handle) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	status := k.with(h, func(inst *state.Instance) error {
		out = edgeValues(inst.Mesh2D, orthogonalization.Smoothness(inst.Mesh2D))
		return nil
	})
	return out, status
}

func edgeValues(m *mesh.Mesh2D, values []float64) geometry.GeometryList {
	out := geometry.FromPoints(m.EdgeMidpoints())
	copy(out.Values, values)
	return out
}

// ============================================================================
// Contacts
// ============================================================================

func (k *Kernel) ContactsComputeSingle(h state.Handle, mask []int, polygon geometry.GeometryList) Status {
	return k.with(h, func(inst *state.Instance) error {
		polygons, err := polygonsOf(polygon)
		if err != nil {
			return err
		}
		return inst.Contacts.ComputeSingle(maskOf(mask), polygons)
	})
}

func (k *Kernel) ContactsComputeMultiple(h state.Handle, mask []int) Status {
	return k.with(h, func(inst *state.Instance) error {
		return inst.Contacts.ComputeMultiple(maskOf(mask))
	})
}

func (k *Kernel) ContactsComputeWithPolygons(h state.Handle, mask []int, polygon geometry.GeometryList) Status {
	return k.with(h, func(inst *state.Instance) error {
		polygons, err := polygonsOf(polygon)
		if err != nil {
			return err
		}
		return inst.Contacts.ComputeWithPolygons(maskOf(mask), polygons)
	})
}

func (k *Kernel) ContactsComputeWithPoints(h state.Handle, mask []int, points geometry.GeometryList) Status {
	return k.with(h, func(inst *state.Instance) error {
		if err := points.Validate(); err != nil {
			return err
		}
		return inst.Contacts.ComputeWithPoints(maskOf(mask), points.Points())
	})
}

// ContactsComputeBoundary connects boundary faces to 1D nodes; a missing
// searchRadius selects a radius from the face size
func (k *Kernel) ContactsComputeBoundary(h state.Handle, mask []int, polygon geometry.GeometryList,
	searchRadius float64) Status {
	return k.with(h, func(inst *state.Instance) error {
		polygons, err := polygonsOf(polygon)
		if err != nil {
			return err
		}
		return inst.Contacts.ComputeBoundary(maskOf(mask), polygons, searchRadius)
	})
}

// ============================================================================
// Interpolation and splines
// ============================================================================

// Mesh2DTriangulationInterpolation returns the interpolated values at the
// requested locations
func (k *Kernel) Mesh2DTriangulationInterpolation(h state.Handle, samples geometry.GeometryList,
	location interpolation.Location) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	status := k.with(h, func(inst *state.Instance) error {
		values, err := interpolation.Triangulation(inst.Mesh2D, samples, location)
		if err != nil {
			return err
		}
		out, err = locationValues(inst.Mesh2D, location, values)
		return err
	})
	return out, status
}

func (k *Kernel) Mesh2DAveragingInterpolation(h state.Handle, samples geometry.GeometryList,
	location interpolation.Location, method interpolation.Method, searchRadiusRatio float64,
	minSamples int) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	status := k.with(h, func(inst *state.Instance) error {
		values, err := interpolation.Averaging(inst.Mesh2D, samples, location, method, searchRadiusRatio, minSamples)
		if err != nil {
			return err
		}
		out, err = locationValues(inst.Mesh2D, location, values)
		return err
	})
	return out, status
}

func locationValues(m *mesh.Mesh2D, location interpolation.Location, values []float64) (geometry.GeometryList, error) {
	points, err := interpolation.Locations(m, location)
	if err != nil {
		return geometry.GeometryList{}, err
	}
	out := geometry.FromPoints(points)
	copy(out.Values, values)
	return out, nil
}

// GetSplines samples the cubic splines through each polyline of list
func (k *Kernel) GetSplines(list geometry.GeometryList, pointsBetweenNodes int) (geometry.GeometryList, Status) {
	if pointsBetweenNodes < 0 {
		return geometry.GeometryList{}, k.status(errors.Wrapf(state.ErrInput,
			"%d points between nodes", pointsBetweenNodes))
	}
	out, err := geometry.Splines(list, pointsBetweenNodes)
	return out, k.status(err)
}

// PolygonGetIncludedPoints flags every point of selected with 1 when it lies
// inside the selecting polygons and 0 otherwise
func (k *Kernel) PolygonGetIncludedPoints(selecting, selected geometry.GeometryList) (geometry.GeometryList, Status) {
	out, err := geometry.IncludedPoints(selecting, selected)
	return out, k.status(err)
}
