// Package interpolation transfers scattered samples onto mesh locations
package interpolation

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/triangulation"
	"github.com/notargets/MeshKernel/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

var ErrInvalidParameters = errors.New("invalid interpolation parameters")

// Location selects where results are computed
type Location int

const (
	Faces Location = iota
	Nodes
	Edges
)

func (l Location) String() string {
	switch l {
	case Faces:
		return "Faces"
	case Nodes:
		return "Nodes"
	case Edges:
		return "Edges"
	default:
		return "Unknown"
	}
}

// Method combines the samples found around a location
type Method int

const (
	SimpleAveraging Method = iota + 1
	Closest
	Max
	Min
	InverseWeightedDistance
	MinAbsValue
)

func (m Method) String() string {
	switch m {
	case SimpleAveraging:
		return "SimpleAveraging"
	case Closest:
		return "Closest"
	case Max:
		return "Max"
	case Min:
		return "Min"
	case InverseWeightedDistance:
		return "InverseWeightedDistance"
	case MinAbsValue:
		return "MinAbsValue"
	default:
		return "Unknown"
	}
}

// Locations returns the points a location kind stands for: face mass
// centers, node coordinates or edge midpoints.
func Locations(m *mesh.Mesh2D, location Location) ([]geometry.Point, error) {
	switch location {
	case Faces:
		return m.FaceMassCenters, nil
	case Nodes:
		return m.Nodes, nil
	case Edges:
		return m.EdgeMidpoints(), nil
	default:
		return nil, errors.Wrapf(ErrInvalidParameters, "location %d", location)
	}
}

// Triangulation interpolates linearly inside the Delaunay triangulation of
// the samples. Samples with missing values are ignored and locations
// outside the samples' hull get the missing value.
func Triangulation(m *mesh.Mesh2D, samples geometry.GeometryList, location Location) ([]float64, error) {
	if err := samples.Validate(); err != nil {
		return nil, err
	}
	targets, err := Locations(m, location)
	if err != nil {
		return nil, err
	}
	points, values := samples.Samples()
	tri, err := triangulation.Delaunay(points)
	if err != nil {
		return nil, errors.Wrap(err, "triangulating samples")
	}

	result := make([]float64, len(targets))
	missing := 0
	for i, p := range targets {
		v, ok := tri.Interpolate(values, p)
		if !ok {
			missing++
		}
		result[i] = v
	}
	utils.Logger().Debug("triangulation interpolation", "location", location, "samples", len(points),
		"outside", missing)
	return result, nil
}

// Averaging combines the samples within ratio × the local mesh size of each
// location. The local size is the largest mass center to node distance for
// faces, half the longest incident edge for nodes and half the length for
// edges. Locations with fewer than minSamples samples get the missing value.
func Averaging(m *mesh.Mesh2D, samples geometry.GeometryList, location Location, method Method,
	ratio float64, minSamples int) ([]float64, error) {
	if err := samples.Validate(); err != nil {
		return nil, err
	}
	if method < SimpleAveraging || method > MinAbsValue {
		return nil, errors.Wrapf(ErrInvalidParameters, "averaging method %d", method)
	}
	if ratio <= 0 {
		return nil, errors.Wrapf(ErrInvalidParameters, "search radius ratio %g", ratio)
	}
	targets, err := Locations(m, location)
	if err != nil {
		return nil, err
	}
	sizes := localSizes(m, location)
	points, values := samples.Samples()
	index := geometry.NewPointIndex(points)
	minSamples = max(minSamples, 1)

	result := make([]float64, len(targets))
	for i, p := range targets {
		result[i] = geometry.MissingValue
		if !geometry.IsValid(p) {
			continue
		}
		found := index.WithinRadius(p, ratio*sizes[i])
		if len(found) < minSamples {
			continue
		}
		result[i] = combine(method, found, values)
	}
	return result, nil
}

func localSizes(m *mesh.Mesh2D, location Location) []float64 {
	distance := func(a, b geometry.Point) float64 { return r2.Norm(r2.Sub(a, b)) }
	switch location {
	case Faces:
		sizes := make([]float64, m.NumFaces())
		for f, nodes := range m.FaceNodes {
			for _, n := range nodes {
				sizes[f] = math.Max(sizes[f], distance(m.FaceMassCenters[f], m.Nodes[n]))
			}
		}
		return sizes
	case Nodes:
		sizes := make([]float64, m.NumNodes())
		for n, edges := range m.NodeEdges {
			for _, e := range edges {
				sizes[n] = math.Max(sizes[n], 0.5*distance(m.Nodes[m.Edges[e][0]], m.Nodes[m.Edges[e][1]]))
			}
		}
		return sizes
	default:
		sizes := make([]float64, m.NumEdges())
		for e, edge := range m.Edges {
			sizes[e] = 0.5 * distance(m.Nodes[edge[0]], m.Nodes[edge[1]])
		}
		return sizes
	}
}

// combine reduces the samples found around a location; found is sorted
// nearest first.
func combine(method Method, found []geometry.Neighbor, values []float64) float64 {
	picked := make([]float64, len(found))
	for i, nb := range found {
		picked[i] = values[nb.Index]
	}
	switch method {
	case Closest:
		return picked[0]
	case Max:
		return floats.Max(picked)
	case Min:
		return floats.Min(picked)
	case MinAbsValue:
		result := math.Inf(1)
		for _, v := range picked {
			result = math.Min(result, math.Abs(v))
		}
		return result
	case InverseWeightedDistance:
		if found[0].Distance == 0 {
			return picked[0]
		}
		weights := make([]float64, len(found))
		for i, nb := range found {
			weights[i] = 1 / nb.Distance
		}
		return stat.Mean(picked, weights)
	default:
		return stat.Mean(picked, nil)
	}
}
