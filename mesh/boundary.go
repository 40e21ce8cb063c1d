package mesh

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
)

// outerHalfEdges returns, per node, the boundary half-edges leaving it
// that have no face on their left, as destination nodes
func (m *Mesh2D) outerHalfEdges() map[int][]int {
	out := make(map[int][]int)
	for f, edges := range m.FaceEdges {
		nodes := m.FaceNodes[f]
		for i, e := range edges {
			if !m.IsBoundaryEdge(e) {
				continue
			}
			from, to := nodes[i], nodes[(i+1)%len(nodes)]
			out[to] = append(out[to], from)
		}
	}
	return out
}

// BoundaryRings traces every mesh boundary as a closed node ring, starting
// from its lowest-index node and keeping the mesh on the right.
func (m *Mesh2D) BoundaryRings() [][]int {
	out := m.outerHalfEdges()
	var rings [][]int
	for start := range m.Nodes {
		for len(out[start]) > 0 {
			ring := []int{start}
			current := start
			for len(out[current]) > 0 {
				next := out[current][0]
				out[current] = out[current][1:]
				ring = append(ring, next)
				current = next
				if current == start {
					break
				}
			}
			rings = append(rings, ring)
		}
	}
	return rings
}

// BoundariesAsPolygons returns the boundary rings as closed polygons
// separated by the geometry separator
func (m *Mesh2D) BoundariesAsPolygons() geometry.GeometryList {
	rings := m.BoundaryRings()
	points := make([][]geometry.Point, len(rings))
	for i, ring := range rings {
		points[i] = make([]geometry.Point, len(ring))
		for j, n := range ring {
			points[i][j] = m.Nodes[n]
		}
	}
	return geometry.JoinRings(points)
}

// BoundaryNodes returns every node on a boundary edge, ascending
func (m *Mesh2D) BoundaryNodes() []int {
	var nodes []int
	for n := range m.Nodes {
		if m.IsBoundaryNode(n) {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// ProjectOnLand moves each listed node onto the nearest land boundary
// polyline. Land boundaries farther than maxDistance are ignored; a
// non-positive maxDistance accepts any distance.
func (m *Mesh2D) ProjectOnLand(nodes []int, land [][]geometry.Point, maxDistance float64) int {
	limit := maxDistance
	if limit <= 0 {
		limit = math.Inf(1)
	}
	moved := 0
	for _, n := range nodes {
		best, bestDist, found := geometry.Point{}, limit, false
		for _, line := range land {
			p, d := geometry.ProjectOnPolyline(m.Nodes[n], line)
			if geometry.IsValid(p) && d < bestDist {
				best, bestDist, found = p, d, true
			}
		}
		if found {
			m.Nodes[n] = best
			moved++
		}
	}
	return moved
}
