package mesh

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/utils"
	"github.com/notargets/gocfd/types"
	"github.com/samber/lo"
)

const (
	maxFlipSweeps         = 10
	interiorTargetValence = 6
	boundaryTargetValence = 4
)

// FlipEdges balances node valences of a triangular mesh by flipping the
// diagonal of pairs of triangles. Only edges with both ends inside the
// selecting polygons are flipped. Non-triangular faces are split into fans
// first when triangulateFaces is set, and boundary nodes are moved onto
// the land boundaries when projectToLand is set.
func (m *Mesh2D) FlipEdges(triangulateFaces, projectToLand bool, selecting geometry.Polygons, land [][]geometry.Point) error {
	if triangulateFaces {
		if err := m.triangulateFaces(); err != nil {
			return err
		}
	}

	for sweep := 0; sweep < maxFlipSweeps; sweep++ {
		flipped := 0
		for e := range m.Edges {
			a, b := m.Edges[e][0], m.Edges[e][1]
			if !selecting.Contains(m.Nodes[a]) || !selecting.Contains(m.Nodes[b]) {
				continue
			}
			c, d, ok := m.flipCandidate(e)
			if !ok {
				continue
			}
			m.flip(e, c, d)
			flipped++
		}
		utils.Logger().Debug("flip sweep", "sweep", sweep, "flipped", flipped)
		if flipped == 0 {
			break
		}
		if err := m.Administrate(); err != nil {
			return err
		}
	}

	if projectToLand && len(land) > 0 {
		m.ProjectOnLand(m.BoundaryNodes(), land, 0)
		return m.Administrate()
	}
	return nil
}

func (m *Mesh2D) triangulateFaces() error {
	added := false
	for _, nodes := range m.FaceNodes {
		for i := 2; i < len(nodes)-1; i++ {
			m.Edges = append(m.Edges, Edge{nodes[0], nodes[i]})
			added = true
		}
	}
	if !added {
		return nil
	}
	return m.Administrate()
}

// flipCandidate returns the new diagonal for edge e when flipping it lowers
// the valence functional and the two triangles form a strictly convex
// quadrilateral.
func (m *Mesh2D) flipCandidate(e int) (c, d int, ok bool) {
	faces := m.EdgeFaces(e)
	if len(faces) != 2 || len(m.FaceNodes[faces[0]]) != 3 || len(m.FaceNodes[faces[1]]) != 3 {
		return -1, -1, false
	}
	a, b := m.Edges[e][0], m.Edges[e][1]
	// c lies left of a→b, d lies right of it
	c, d = m.oppositeNode(faces[0], e), m.oppositeNode(faces[1], e)
	if m.faceTraverses(faces[1], a, b) {
		c, d = d, c
	}
	if c == d || m.FindEdge(c, d) >= 0 {
		return -1, -1, false
	}

	pa, pb, pc, pd := m.Nodes[a], m.Nodes[b], m.Nodes[c], m.Nodes[d]
	if geometry.Orientation(pa, pd, pb) <= 0 || geometry.Orientation(pd, pb, pc) <= 0 ||
		geometry.Orientation(pb, pc, pa) <= 0 || geometry.Orientation(pc, pa, pd) <= 0 {
		return -1, -1, false
	}

	before, after := 0, 0
	for _, delta := range []struct{ node, change int }{{a, -1}, {b, -1}, {c, 1}, {d, 1}} {
		valence := len(m.NodeEdges[delta.node])
		before += m.valenceCost(delta.node, valence)
		after += m.valenceCost(delta.node, valence+delta.change)
	}
	return c, d, after < before
}

func (m *Mesh2D) valenceCost(n, valence int) int {
	target := interiorTargetValence
	if m.IsBoundaryNode(n) {
		target = boundaryTargetValence
	}
	return (valence - target) * (valence - target)
}

// flip replaces edge e = (a, b) by the diagonal (c, d) of its two triangles,
// c left of a→b. Faces, node adjacency and edge-face links are updated in
// place; face geometry and edge ordering wait for the next Administrate.
func (m *Mesh2D) flip(e, c, d int) {
	a, b := m.Edges[e][0], m.Edges[e][1]
	faces := m.EdgeFaces(e)
	fc, fd := faces[0], faces[1]
	if !m.faceTraverses(fc, a, b) {
		fc, fd = fd, fc
	}
	ad, db := m.FindEdge(a, d), m.FindEdge(d, b)
	bc, ca := m.FindEdge(b, c), m.FindEdge(c, a)

	// the quadrilateral a, d, b, c is counter-clockwise
	m.FaceNodes[fc] = []int{a, d, c}
	m.FaceEdges[fc] = []int{ad, e, ca}
	m.FaceNodes[fd] = []int{d, b, c}
	m.FaceEdges[fd] = []int{db, bc, e}
	m.Connector.ReplaceFace(ad, fd, fc)
	m.Connector.ReplaceFace(bc, fc, fd)

	m.NodeEdges[a] = lo.Without(m.NodeEdges[a], e)
	m.NodeEdges[b] = lo.Without(m.NodeEdges[b], e)
	m.NodeEdges[c] = append(m.NodeEdges[c], e)
	m.NodeEdges[d] = append(m.NodeEdges[d], e)

	delete(m.edgeLookup, types.NewEdgeKey([2]int{a, b}))
	m.edgeLookup[types.NewEdgeKey([2]int{c, d})] = e
	m.Edges[e] = Edge{c, d}
}

// oppositeNode returns the node of triangle f not on edge e
func (m *Mesh2D) oppositeNode(f, e int) int {
	for _, n := range m.FaceNodes[f] {
		if n != m.Edges[e][0] && n != m.Edges[e][1] {
			return n
		}
	}
	return -1
}

// faceTraverses reports whether face f runs from a directly to b
func (m *Mesh2D) faceTraverses(f, a, b int) bool {
	nodes := m.FaceNodes[f]
	for i, n := range nodes {
		if n == a && nodes[(i+1)%len(nodes)] == b {
			return true
		}
	}
	return false
}
