package mesh

import (
	"math"
	"sort"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/utils"
	"github.com/notargets/gocfd/types"
	"github.com/pkg/errors"
)

// Administrate removes deleted nodes and edges, renumbers what remains and
// rebuilds the derived topology: node-edge adjacency, faces, edge-face
// connectivity and face geometry. Surviving nodes and edges keep their
// relative order.
func (m *Mesh2D) Administrate() error {
	m.compact()
	m.buildNodeEdges()
	m.findFaces()

	fc, err := utils.NewFaceConnector(len(m.Edges), m.FaceEdges)
	if err != nil {
		return errors.Wrap(err, "edge-face connectivity")
	}
	m.Connector = fc
	m.computeFaceGeometry()

	utils.Logger().Debug("mesh2d administrated",
		"nodes", len(m.Nodes), "edges", len(m.Edges), "faces", len(m.FaceNodes))
	return nil
}

func (m *Mesh2D) compact() {
	newIndex := make([]int, len(m.Nodes))
	nodes := m.Nodes[:0:0]
	for n, p := range m.Nodes {
		if !geometry.IsValid(p) {
			newIndex[n] = -1
			continue
		}
		newIndex[n] = len(nodes)
		nodes = append(nodes, p)
	}

	m.edgeLookup = make(map[types.EdgeKey]int, len(m.Edges))
	edges := m.Edges[:0:0]
	for _, edge := range m.Edges {
		if edge[0] < 0 || edge[1] < 0 || edge[0] >= len(newIndex) || edge[1] >= len(newIndex) {
			continue
		}
		a, b := newIndex[edge[0]], newIndex[edge[1]]
		if a < 0 || b < 0 || a == b {
			continue
		}
		key := types.NewEdgeKey([2]int{a, b})
		if _, dup := m.edgeLookup[key]; dup {
			continue
		}
		m.edgeLookup[key] = len(edges)
		edges = append(edges, Edge{a, b})
	}

	m.Nodes = nodes
	m.Edges = edges
}

func (m *Mesh2D) buildNodeEdges() {
	m.NodeEdges = make([][]int, len(m.Nodes))
	for e, edge := range m.Edges {
		m.NodeEdges[edge[0]] = append(m.NodeEdges[edge[0]], e)
		m.NodeEdges[edge[1]] = append(m.NodeEdges[edge[1]], e)
	}
	for n, edges := range m.NodeEdges {
		angles := make(map[int]float64, len(edges))
		for _, e := range edges {
			angles[e] = m.Projection.Angle(m.Nodes[n], m.Nodes[m.OtherNode(e, n)])
		}
		sort.SliceStable(edges, func(i, j int) bool {
			return angles[edges[i]] < angles[edges[j]]
		})
	}
}

// coreEdges marks the edges that survive repeated removal of degree-1
// nodes; dangling trees cannot bound a face.
func (m *Mesh2D) coreEdges() []bool {
	active := make([]bool, len(m.Edges))
	degree := make([]int, len(m.Nodes))
	for e, edge := range m.Edges {
		active[e] = true
		degree[edge[0]]++
		degree[edge[1]]++
	}
	var queue []int
	for n, d := range degree {
		if d == 1 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if degree[n] != 1 {
			continue
		}
		for _, e := range m.NodeEdges[n] {
			if !active[e] {
				continue
			}
			active[e] = false
			degree[n]--
			o := m.OtherNode(e, n)
			degree[o]--
			if degree[o] == 1 {
				queue = append(queue, o)
			}
			break
		}
	}
	return active
}

// halfEdgeWalker traces face cycles. Half-edge 2e runs Edges[e][0]→[1],
// half-edge 2e+1 runs back.
type halfEdgeWalker struct {
	m    *Mesh2D
	ring [][]int // active edges per node, counter-clockwise
}

func newHalfEdgeWalker(m *Mesh2D, active []bool) *halfEdgeWalker {
	w := &halfEdgeWalker{m: m, ring: make([][]int, len(m.Nodes))}
	for n, edges := range m.NodeEdges {
		for _, e := range edges {
			if active[e] {
				w.ring[n] = append(w.ring[n], e)
			}
		}
	}
	return w
}

func (w *halfEdgeWalker) ends(h int) (from, to int) {
	edge := w.m.Edges[h/2]
	if h%2 == 0 {
		return edge[0], edge[1]
	}
	return edge[1], edge[0]
}

// next returns the half-edge leaving the head of h that keeps the traced
// region on the left: the clockwise neighbour of the reversed edge.
func (w *halfEdgeWalker) next(h int) int {
	_, to := w.ends(h)
	ring := w.ring[to]
	pos := 0
	for i, e := range ring {
		if e == h/2 {
			pos = i
			break
		}
	}
	ne := ring[(pos-1+len(ring))%len(ring)]
	if w.m.Edges[ne][0] == to {
		return 2 * ne
	}
	return 2*ne + 1
}

// walk follows the orbit of start for at most limit steps and returns the
// visited half-edges; closed reports that the orbit returned to start.
func (w *halfEdgeWalker) walk(start, limit int) (halfEdges []int, closed bool) {
	h := start
	for step := 0; step < limit; step++ {
		halfEdges = append(halfEdges, h)
		h = w.next(h)
		if h == start {
			return halfEdges, true
		}
	}
	return halfEdges, false
}

func (m *Mesh2D) findFaces() {
	m.FaceNodes = nil
	m.FaceEdges = nil

	active := m.coreEdges()
	w := newHalfEdgeWalker(m, active)
	visited := make([]bool, 2*len(m.Edges))
	for e := range m.Edges {
		if !active[e] {
			continue
		}
		for dir := 0; dir < 2; dir++ {
			start := 2*e + dir
			if visited[start] {
				continue
			}
			halfEdges, closed := w.walk(start, MaxNodesPerFace)
			for _, h := range halfEdges {
				visited[h] = true
			}
			if !closed || len(halfEdges) < 3 {
				continue
			}
			nodes := make([]int, len(halfEdges))
			edges := make([]int, len(halfEdges))
			points := make([]geometry.Point, len(halfEdges))
			distinct := make(map[int]struct{}, len(halfEdges))
			for i, h := range halfEdges {
				from, _ := w.ends(h)
				nodes[i], edges[i], points[i] = from, h/2, m.Nodes[from]
				distinct[from] = struct{}{}
			}
			if len(distinct) != len(nodes) || geometry.SignedArea(points) <= 0 {
				continue
			}
			m.FaceNodes = append(m.FaceNodes, nodes)
			m.FaceEdges = append(m.FaceEdges, edges)
		}
	}
}

func (m *Mesh2D) computeFaceGeometry() {
	nf := len(m.FaceNodes)
	m.FaceMassCenters = make([]geometry.Point, nf)
	m.FaceCircumcenters = make([]geometry.Point, nf)
	m.FaceAreas = make([]float64, nf)
	for f := 0; f < nf; f++ {
		points := m.FacePoints(f)
		m.FaceMassCenters[f] = geometry.MassCenter(points)
		m.FaceAreas[f] = m.faceArea(points)
		m.FaceCircumcenters[f] = m.faceCircumcenter(points, m.FaceMassCenters[f])
	}
}

func (m *Mesh2D) faceArea(points []geometry.Point) float64 {
	local := make([]geometry.Point, len(points))
	for i, p := range points {
		local[i] = m.Projection.Delta(points[0], p)
	}
	return math.Abs(geometry.SignedArea(local))
}

// faceCircumcenter is the circumcenter of a triangle, moved onto the face
// boundary when it falls outside; other faces use their mass center.
func (m *Mesh2D) faceCircumcenter(points []geometry.Point, massCenter geometry.Point) geometry.Point {
	if len(points) != 3 {
		return massCenter
	}
	cc, ok := geometry.Circumcenter(points[0], points[1], points[2])
	if !ok {
		return massCenter
	}
	if geometry.TriangleContains(cc, points[0], points[1], points[2]) {
		return cc
	}
	best, bestT := cc, math.Inf(1)
	for i := range points {
		p, t, hit := geometry.SegmentIntersection(massCenter, cc, points[i], points[(i+1)%len(points)])
		if hit && t < bestT {
			best, bestT = p, t
		}
	}
	return best
}
