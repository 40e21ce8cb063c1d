package mesh

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/utils"
	"github.com/notargets/gocfd/types"
	"github.com/pkg/errors"
)

// MaxNodesPerFace bounds the length of a face cycle
const MaxNodesPerFace = 6

// Edge is an ordered pair of node indices; -1 marks a deleted edge
type Edge = [2]int

var invalidEdge = Edge{-1, -1}

// Mesh2D holds nodes and edges and the faces derived from them
type Mesh2D struct {
	Nodes []geometry.Point
	Edges []Edge

	// Derived by Administrate
	NodeEdges         [][]int // Node → edges, counter-clockwise by direction
	FaceNodes         [][]int // Face → counter-clockwise node cycle
	FaceEdges         [][]int // Face → edges, FaceEdges[f][i] joins FaceNodes[f][i] and FaceNodes[f][i+1]
	FaceMassCenters   []geometry.Point
	FaceCircumcenters []geometry.Point
	FaceAreas         []float64
	Connector         *utils.FaceConnector

	Projection geometry.Projection

	edgeLookup map[types.EdgeKey]int
}

func NewMesh2D(projection geometry.Projection) *Mesh2D {
	m := &Mesh2D{Projection: projection}
	m.Clear()
	return m
}

// Clear removes every node and edge
func (m *Mesh2D) Clear() {
	m.Nodes = nil
	m.Edges = nil
	_ = m.Administrate()
}

// Set replaces the content of the mesh with copies of nodes and edges
func (m *Mesh2D) Set(nodes []geometry.Point, edges []Edge) error {
	for e, edge := range edges {
		for _, n := range edge {
			if n < 0 || n >= len(nodes) {
				return errors.Wrapf(geometry.ErrInvalidGeometry,
					"edge %d references node %d, mesh has %d nodes", e, n, len(nodes))
			}
		}
	}
	m.Nodes = append([]geometry.Point(nil), nodes...)
	m.Edges = append([]Edge(nil), edges...)
	return m.Administrate()
}

// Clone returns a deep copy of the mesh
func (m *Mesh2D) Clone() *Mesh2D {
	c := NewMesh2D(m.Projection)
	_ = c.Set(m.Nodes, m.Edges)
	return c
}

func (m *Mesh2D) NumNodes() int { return len(m.Nodes) }
func (m *Mesh2D) NumEdges() int { return len(m.Edges) }
func (m *Mesh2D) NumFaces() int { return len(m.FaceNodes) }

// EdgeMidpoints returns the midpoint of every edge
func (m *Mesh2D) EdgeMidpoints() []geometry.Point {
	mid := make([]geometry.Point, len(m.Edges))
	for e, edge := range m.Edges {
		mid[e] = geometry.Midpoint(m.Nodes[edge[0]], m.Nodes[edge[1]])
	}
	return mid
}

// FindEdge returns the index of the edge joining a and b, or -1
func (m *Mesh2D) FindEdge(a, b int) int {
	if a < 0 || b < 0 {
		return -1
	}
	if e, ok := m.edgeLookup[types.NewEdgeKey([2]int{a, b})]; ok {
		return e
	}
	return -1
}

// OtherNode returns the end of edge e that is not n
func (m *Mesh2D) OtherNode(e, n int) int {
	if m.Edges[e][0] == n {
		return m.Edges[e][1]
	}
	return m.Edges[e][0]
}

// EdgeLength in the mesh projection
func (m *Mesh2D) EdgeLength(e int) float64 {
	return m.Projection.Distance(m.Nodes[m.Edges[e][0]], m.Nodes[m.Edges[e][1]])
}

// IsBoundaryEdge reports an edge with exactly one adjacent face
func (m *Mesh2D) IsBoundaryEdge(e int) bool {
	return m.Connector.IsBoundaryEdge(e)
}

// EdgeFaces returns the faces adjacent to edge e
func (m *Mesh2D) EdgeFaces(e int) []int {
	return m.Connector.GetEdgeFaces(e)
}

// IsBoundaryNode reports a node on a boundary edge
func (m *Mesh2D) IsBoundaryNode(n int) bool {
	for _, e := range m.NodeEdges[n] {
		if m.IsBoundaryEdge(e) {
			return true
		}
	}
	return false
}

// FacePoints returns the coordinates of the nodes of face f
func (m *Mesh2D) FacePoints(f int) []geometry.Point {
	points := make([]geometry.Point, len(m.FaceNodes[f]))
	for i, n := range m.FaceNodes[f] {
		points[i] = m.Nodes[n]
	}
	return points
}

// FacePolygons returns every face as a point ring
func (m *Mesh2D) FacePolygons() [][]geometry.Point {
	rings := make([][]geometry.Point, m.NumFaces())
	for f := range rings {
		rings[f] = m.FacePoints(f)
	}
	return rings
}

// FindFaceContaining returns the face whose interior or boundary holds p
func (m *Mesh2D) FindFaceContaining(p geometry.Point, boxes *geometry.BoxIndex) int {
	if boxes == nil {
		boxes = geometry.NewBoxIndex(m.FacePolygons())
	}
	for _, f := range boxes.Candidates(p) {
		if geometry.RingContains(m.FacePoints(f), p) {
			return f
		}
	}
	return -1
}

// deleteNode marks a node and its edges deleted; Administrate compacts
func (m *Mesh2D) deleteNode(n int) {
	for _, e := range m.NodeEdges[n] {
		m.Edges[e] = invalidEdge
	}
	m.Nodes[n] = geometry.MissingPoint
}

// deleteEdges marks edges deleted and the nodes they leave unconnected
func (m *Mesh2D) deleteEdges(edges []int) {
	touched := make([]int, 0, 2*len(edges))
	for _, e := range edges {
		if m.Edges[e] == invalidEdge {
			continue
		}
		touched = append(touched, m.Edges[e][0], m.Edges[e][1])
		m.Edges[e] = invalidEdge
	}
	for _, n := range touched {
		connected := false
		for _, e := range m.NodeEdges[n] {
			if m.Edges[e] != invalidEdge {
				connected = true
				break
			}
		}
		if !connected {
			m.Nodes[n] = geometry.MissingPoint
		}
	}
}
