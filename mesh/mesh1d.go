package mesh

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/gocfd/types"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Mesh1D is a network of nodes and edges without faces
type Mesh1D struct {
	Nodes      []geometry.Point
	Edges      []Edge
	NodeEdges  [][]int
	Projection geometry.Projection

	edgeLookup map[types.EdgeKey]int
}

func NewMesh1D(projection geometry.Projection) *Mesh1D {
	return &Mesh1D{Projection: projection}
}

// Set replaces the network with copies of nodes and edges
func (m *Mesh1D) Set(nodes []geometry.Point, edges []Edge) error {
	for e, edge := range edges {
		for _, n := range edge {
			if n < 0 || n >= len(nodes) {
				return errors.Wrapf(geometry.ErrInvalidGeometry,
					"1d edge %d references node %d, network has %d nodes", e, n, len(nodes))
			}
		}
		if edge[0] == edge[1] {
			return errors.Wrapf(geometry.ErrInvalidGeometry, "1d edge %d starts and ends at node %d", e, edge[0])
		}
	}
	m.Nodes = append([]geometry.Point(nil), nodes...)
	m.Edges = append([]Edge(nil), edges...)
	m.NodeEdges = make([][]int, len(m.Nodes))
	m.edgeLookup = make(map[types.EdgeKey]int, len(m.Edges))
	for e, edge := range m.Edges {
		m.NodeEdges[edge[0]] = append(m.NodeEdges[edge[0]], e)
		m.NodeEdges[edge[1]] = append(m.NodeEdges[edge[1]], e)
		key := types.NewEdgeKey([2]int{edge[0], edge[1]})
		if _, dup := m.edgeLookup[key]; !dup {
			m.edgeLookup[key] = e
		}
	}
	return nil
}

func (m *Mesh1D) NumNodes() int { return len(m.Nodes) }
func (m *Mesh1D) NumEdges() int { return len(m.Edges) }

func (m *Mesh1D) Degree(n int) int { return len(m.NodeEdges[n]) }

// IsBoundaryNode reports a network end: a node with a single edge
func (m *Mesh1D) IsBoundaryNode(n int) bool { return m.Degree(n) == 1 }

func (m *Mesh1D) EdgeLength(e int) float64 {
	return m.Projection.Distance(m.Nodes[m.Edges[e][0]], m.Nodes[m.Edges[e][1]])
}

// FindEdge returns the edge joining a and b, or -1
func (m *Mesh1D) FindEdge(a, b int) int {
	if e, ok := m.edgeLookup[types.NewEdgeKey([2]int{a, b})]; ok {
		return e
	}
	return -1
}

// MeanEdgeLength returns the mean length of the edges at node n, 0 for an
// isolated node
func (m *Mesh1D) MeanEdgeLength(n int) float64 {
	if len(m.NodeEdges[n]) == 0 {
		return 0
	}
	var sum float64
	for _, e := range m.NodeEdges[n] {
		sum += m.EdgeLength(e)
	}
	return sum / float64(len(m.NodeEdges[n]))
}

// Branches returns the connected parts of the network as node lists
func (m *Mesh1D) Branches() [][]int {
	g := simple.NewUndirectedGraph()
	for n := range m.Nodes {
		g.AddNode(simple.Node(n))
	}
	for _, edge := range m.Edges {
		if g.HasEdgeBetween(int64(edge[0]), int64(edge[1])) {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(edge[0]), T: simple.Node(edge[1])})
	}
	components := topo.ConnectedComponents(g)
	branches := make([][]int, len(components))
	for i, component := range components {
		for _, node := range component {
			branches[i] = append(branches[i], int(node.ID()))
		}
	}
	return branches
}
