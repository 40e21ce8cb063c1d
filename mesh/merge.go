package mesh

import (
	"sort"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/utils"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// MergeNodesInPolygon collapses every group of nodes inside the polygons
// that lie closer than tolerance to each other onto the lowest index of
// the group. Groups are the connected components of the "closer than
// tolerance" relation.
func (m *Mesh2D) MergeNodesInPolygon(polygons geometry.Polygons, tolerance float64) error {
	candidates := m.NodesInPolygon(polygons, true)
	points := make([]geometry.Point, len(candidates))
	for i, n := range candidates {
		points[i] = m.Nodes[n]
	}
	index := geometry.NewPointIndex(points)

	g := simple.NewUndirectedGraph()
	for _, n := range candidates {
		g.AddNode(simple.Node(n))
	}
	for i, n := range candidates {
		for _, nb := range index.WithinRadius(points[i], tolerance) {
			other := candidates[nb.Index]
			if other == n || nb.Distance >= tolerance {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(n), T: simple.Node(other)})
		}
	}

	merged := 0
	for _, component := range topo.ConnectedComponents(g) {
		if len(component) < 2 {
			continue
		}
		ids := make([]int, len(component))
		for i, node := range component {
			ids[i] = int(node.ID())
		}
		sort.Ints(ids)
		for _, n := range ids[1:] {
			m.rewire(n, ids[0])
			merged++
		}
	}
	utils.Logger().Debug("merged nodes", "count", merged, "tolerance", tolerance)
	return m.Administrate()
}

// MergeTwoNodes moves the edges of node a onto node b and removes a
func (m *Mesh2D) MergeTwoNodes(a, b int) error {
	if err := m.checkNode(a); err != nil {
		return err
	}
	if err := m.checkNode(b); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	m.rewire(a, b)
	return m.Administrate()
}

// rewire points every edge of from at to and deletes from. Degenerate and
// duplicate edges are dropped by the next Administrate.
func (m *Mesh2D) rewire(from, to int) {
	for _, e := range m.NodeEdges[from] {
		for i := range m.Edges[e] {
			if m.Edges[e][i] == from {
				m.Edges[e][i] = to
			}
		}
	}
	m.Nodes[from] = geometry.MissingPoint
}
