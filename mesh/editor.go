package mesh

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/pkg/errors"
)

func (m *Mesh2D) checkNode(n int) error {
	if n < 0 || n >= len(m.Nodes) {
		return errors.Wrapf(ErrIndexOutOfRange, "node %d, mesh has %d nodes", n, len(m.Nodes))
	}
	return nil
}

// InsertNode appends an unconnected node and returns its index
func (m *Mesh2D) InsertNode(p geometry.Point) int {
	m.Nodes = append(m.Nodes, p)
	m.NodeEdges = append(m.NodeEdges, nil)
	return len(m.Nodes) - 1
}

// InsertEdge connects a and b and returns the edge index. An existing edge
// is returned unchanged.
func (m *Mesh2D) InsertEdge(a, b int) (int, error) {
	for _, n := range []int{a, b} {
		if n < 0 || n >= len(m.Nodes) || !geometry.IsValid(m.Nodes[n]) {
			return -1, errors.Wrapf(geometry.ErrInvalidGeometry, "edge end %d is not a valid node", n)
		}
	}
	if a == b {
		return -1, errors.Wrapf(geometry.ErrInvalidGeometry, "edge from node %d to itself", a)
	}
	if e := m.FindEdge(a, b); e >= 0 {
		return e, nil
	}
	m.Edges = append(m.Edges, Edge{a, b})
	if err := m.Administrate(); err != nil {
		return -1, err
	}
	return m.FindEdge(a, b), nil
}

// DeleteNode removes node n with its edges. Neighbours left without any
// edge are removed too.
func (m *Mesh2D) DeleteNode(n int) error {
	if err := m.checkNode(n); err != nil {
		return err
	}
	m.deleteEdges(append([]int(nil), m.NodeEdges[n]...))
	m.Nodes[n] = geometry.MissingPoint
	return m.Administrate()
}

// MoveNode places node n at p
func (m *Mesh2D) MoveNode(p geometry.Point, n int) error {
	if err := m.checkNode(n); err != nil {
		return err
	}
	if !geometry.IsValid(p) {
		return errors.Wrapf(geometry.ErrInvalidGeometry, "cannot move node %d to %v", n, p)
	}
	m.Nodes[n] = p
	return m.Administrate()
}

// FindEdgeNear returns the edge whose midpoint is closest to p
func (m *Mesh2D) FindEdgeNear(p geometry.Point) (int, error) {
	if len(m.Edges) == 0 {
		return -1, errors.Wrap(ErrNotFound, "mesh has no edges")
	}
	e, _, ok := geometry.NewPointIndex(m.EdgeMidpoints()).Nearest(p)
	if !ok {
		return -1, errors.Wrapf(ErrNotFound, "no edge near %v", p)
	}
	return e, nil
}

// DeleteEdgeNear removes the edge whose midpoint is closest to p. Nodes the
// edge leaves unconnected are removed as well.
func (m *Mesh2D) DeleteEdgeNear(p geometry.Point) error {
	if len(m.Edges) == 0 {
		return nil
	}
	e, err := m.FindEdgeNear(p)
	if err != nil {
		return err
	}
	m.deleteEdges([]int{e})
	return m.Administrate()
}

// FindNodeNear returns the node closest to p within radius
func (m *Mesh2D) FindNodeNear(p geometry.Point, radius float64) (int, error) {
	n, _, ok := geometry.NewPointIndex(m.Nodes).Nearest(p)
	if !ok {
		return -1, errors.Wrap(ErrNotFound, "mesh has no nodes")
	}
	if d := m.Projection.Distance(p, m.Nodes[n]); d > radius {
		return -1, errors.Wrapf(ErrNotFound, "nearest node %d is %g away, radius %g", n, d, radius)
	}
	return n, nil
}
