package orthogonalization

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"gonum.org/v1/gonum/spatial/r2"
)

// Orthogonality returns, per edge, the absolute cosine of the angle between
// the edge and the link joining the circumcenters of its two faces. Edges
// without two faces, or whose faces share a circumcenter, get MissingValue.
func Orthogonality(m *mesh.Mesh2D) []float64 {
	result := make([]float64, m.NumEdges())
	for e, edge := range m.Edges {
		result[e] = geometry.MissingValue
		faces := m.EdgeFaces(e)
		if len(faces) != 2 {
			continue
		}
		flow := r2.Sub(m.FaceCircumcenters[faces[1]], m.FaceCircumcenters[faces[0]])
		along := r2.Sub(m.Nodes[edge[1]], m.Nodes[edge[0]])
		denominator := r2.Norm(flow) * r2.Norm(along)
		if denominator == 0 {
			continue
		}
		result[e] = math.Abs(r2.Dot(flow, along)) / denominator
	}
	return result
}

// Smoothness returns, per edge, the ratio of the larger to the smaller area
// of its two faces
func Smoothness(m *mesh.Mesh2D) []float64 {
	result := make([]float64, m.NumEdges())
	for e := range m.Edges {
		result[e] = geometry.MissingValue
		faces := m.EdgeFaces(e)
		if len(faces) != 2 {
			continue
		}
		a, b := m.FaceAreas[faces[0]], m.FaceAreas[faces[1]]
		if small := math.Min(a, b); small > 0 {
			result[e] = math.Max(a, b) / small
		}
	}
	return result
}
