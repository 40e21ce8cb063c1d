package mesh

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/utils"
)

// SmallFlowEdges returns the interior edges whose two face circumcenters
// are closer than threshold
func (m *Mesh2D) SmallFlowEdges(threshold float64) []int {
	var small []int
	for e := range m.Edges {
		faces := m.EdgeFaces(e)
		if len(faces) != 2 {
			continue
		}
		if m.Projection.Distance(m.FaceCircumcenters[faces[0]], m.FaceCircumcenters[faces[1]]) < threshold {
			small = append(small, e)
		}
	}
	return small
}

// SmallFlowEdgeCenters returns, per small flow edge, the midpoint of the
// segment joining the two circumcenters
func (m *Mesh2D) SmallFlowEdgeCenters(threshold float64) []geometry.Point {
	edges := m.SmallFlowEdges(threshold)
	centers := make([]geometry.Point, len(edges))
	for i, e := range edges {
		faces := m.EdgeFaces(e)
		centers[i] = geometry.Midpoint(m.FaceCircumcenters[faces[0]], m.FaceCircumcenters[faces[1]])
	}
	return centers
}

// ObtuseTriangles returns the triangular faces with an angle above 90°
func (m *Mesh2D) ObtuseTriangles() []int {
	var obtuse []int
	for f, nodes := range m.FaceNodes {
		if len(nodes) != 3 {
			continue
		}
		p := m.FacePoints(f)
		if geometry.IsObtuse(p[0], p[1], p[2]) {
			obtuse = append(obtuse, f)
		}
	}
	return obtuse
}

func (m *Mesh2D) ObtuseTriangleMassCenters() []geometry.Point {
	faces := m.ObtuseTriangles()
	centers := make([]geometry.Point, len(faces))
	for i, f := range faces {
		centers[i] = m.FaceMassCenters[f]
	}
	return centers
}

// DeleteSmallFlowEdgesAndSmallTriangles removes the small flow edges and
// then collapses small triangles. A small triangle touches the boundary and
// has an area below minFractionalArea times the mean area of its
// non-triangular neighbours; its two closest nodes are merged.
func (m *Mesh2D) DeleteSmallFlowEdgesAndSmallTriangles(threshold, minFractionalArea float64) error {
	if small := m.SmallFlowEdges(threshold); len(small) > 0 {
		utils.Logger().Debug("deleting small flow edges", "count", len(small), "threshold", threshold)
		m.deleteEdges(small)
		if err := m.Administrate(); err != nil {
			return err
		}
	}

	for guard := m.NumFaces(); guard > 0; guard-- {
		a, b, ok := m.findSmallTriangle(minFractionalArea)
		if !ok {
			return nil
		}
		utils.Logger().Debug("collapsing small triangle", "from", b, "to", a)
		m.rewire(b, a)
		if err := m.Administrate(); err != nil {
			return err
		}
	}
	return nil
}

// findSmallTriangle returns the two closest nodes of the first small
// triangle, lower index first
func (m *Mesh2D) findSmallTriangle(minFractionalArea float64) (a, b int, ok bool) {
	for f, nodes := range m.FaceNodes {
		if len(nodes) != 3 {
			continue
		}
		var (
			boundary  bool
			sum       float64
			neighbors int
		)
		for _, e := range m.FaceEdges[f] {
			nb := m.Connector.Neighbor(f, e)
			if nb < 0 {
				boundary = true
				continue
			}
			if len(m.FaceNodes[nb]) > 3 {
				sum += m.FaceAreas[nb]
				neighbors++
			}
		}
		if !boundary || neighbors == 0 || m.FaceAreas[f] >= minFractionalArea*sum/float64(neighbors) {
			continue
		}
		shortest := math.Inf(1)
		for _, e := range m.FaceEdges[f] {
			if l := m.EdgeLength(e); l < shortest {
				shortest = l
				a, b = m.Edges[e][0], m.Edges[e][1]
			}
		}
		if a > b {
			a, b = b, a
		}
		return a, b, true
	}
	return -1, -1, false
}
