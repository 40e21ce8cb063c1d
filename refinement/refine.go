package refinement

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/utils"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

const (
	gravity = 9.81
	// courantTimeStep is the time step, in seconds, a face must resolve a
	// shallow-water wave in
	courantTimeStep = 120.0
)

// ByPolygon splits the faces inside the polygons, repeating for
// MaxRefinementIterations passes. An empty polygon set selects every face.
func ByPolygon(m *mesh.Mesh2D, polygons geometry.Polygons, params Parameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	for pass := 0; pass < params.MaxRefinementIterations; pass++ {
		selected := make([]bool, m.NumFaces())
		for f := range selected {
			selected[f] = faceInPolygons(m, f, polygons, params.RefineIntersected)
		}
		if !lo.Contains(selected, true) {
			break
		}
		utils.Logger().Debug("refining in polygon", "pass", pass, "faces", lo.Count(selected, true))
		if err := newSplitter(m, params).split(selected); err != nil {
			return err
		}
	}
	return nil
}

func faceInPolygons(m *mesh.Mesh2D, f int, polygons geometry.Polygons, intersected bool) bool {
	inside := func(n int) bool { return polygons.Contains(m.Nodes[n]) }
	if !intersected {
		return lo.EveryBy(m.FaceNodes[f], inside)
	}
	return lo.SomeBy(m.FaceNodes[f], inside) || polygons.Contains(m.FaceMassCenters[f])
}

// BySamples splits faces according to the samples around them. A face
// collects the samples within searchRadiusRatio times its size of its
// circumcenter; with fewer than minSamples it is left alone. Children of a
// split face inherit its level minus one.
func BySamples(m *mesh.Mesh2D, samples geometry.GeometryList, searchRadiusRatio float64, minSamples int,
	params Parameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := samples.Validate(); err != nil {
		return err
	}
	if searchRadiusRatio <= 0 {
		return errors.Wrapf(ErrInvalidParameters, "search radius ratio %g", searchRadiusRatio)
	}
	points, values := samples.Samples()
	if len(points) == 0 {
		return errors.Wrap(ErrNoSamples, "sample list holds no valid sample")
	}
	index := geometry.NewPointIndex(points)

	levels := make([]int, m.NumFaces())
	reached := 0
	for f := range levels {
		level, found := sampleLevel(m, f, index, points, values, searchRadiusRatio, minSamples, params)
		levels[f] = level
		if found > 0 {
			reached++
		}
	}
	if reached == 0 {
		return errors.Wrapf(ErrNoSamples, "none of %d samples lies near a face", len(points))
	}

	for pass := 0; pass < params.MaxRefinementIterations; pass++ {
		selected := make([]bool, m.NumFaces())
		for f, level := range levels {
			selected[f] = level > 0 && faceSize(m, f)/2 >= params.MinFaceSize
		}
		if !lo.Contains(selected, true) {
			break
		}
		utils.Logger().Debug("refining by samples", "pass", pass, "faces", lo.Count(selected, true))

		parents := geometry.NewBoxIndex(m.FacePolygons())
		parentRings := m.FacePolygons()
		if err := newSplitter(m, params).split(selected); err != nil {
			return err
		}

		next := make([]int, m.NumFaces())
		for f := range next {
			c := m.FaceMassCenters[f]
			for _, p := range parents.Candidates(c) {
				if geometry.RingContains(parentRings[p], c) {
					next[f] = max(levels[p]-1, 0)
					break
				}
			}
		}
		levels = next
	}
	return nil
}

// faceSize is the side of the square with the face's area
func faceSize(m *mesh.Mesh2D, f int) float64 {
	return math.Sqrt(m.FaceAreas[f])
}

// sampleLevel returns the refinement level of face f and the number of
// samples it collected
func sampleLevel(m *mesh.Mesh2D, f int, index *geometry.PointIndex, points []geometry.Point,
	values []float64, ratio float64, minSamples int, params Parameters) (int, int) {
	size := faceSize(m, f)
	center := m.FaceCircumcenters[f]
	ring := m.FacePoints(f)
	// the sample index works in coordinate units, which differ from
	// meters under a spherical projection
	radius := ratio * math.Sqrt(math.Abs(geometry.SignedArea(ring)))

	var found []float64
	for _, nb := range index.WithinRadius(center, radius) {
		if !params.AccountForSamplesOutsideFace && !geometry.RingContains(ring, points[nb.Index]) {
			continue
		}
		found = append(found, values[nb.Index])
	}
	if len(found) == 0 || len(found) < minSamples {
		return 0, len(found)
	}

	switch params.RefinementType {
	case RefinementLevels:
		return max(int(math.Round(floats.Max(found))), 0), len(found)
	default:
		// the shallowest sample limits the wave celerity
		depth := math.Inf(1)
		for _, v := range found {
			depth = math.Min(depth, math.Abs(v))
		}
		celerity := math.Sqrt(gravity * depth)
		if celerity == 0 {
			return 0, len(found)
		}
		return max(int(math.Ceil(math.Log2(size/(celerity*courantTimeStep)))), 0), len(found)
	}
}
