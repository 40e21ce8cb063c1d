package refinement

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"gonum.org/v1/gonum/spatial/r2"
)

// side is the run of face nodes between two consecutive corners. Nodes
// strictly inside the run are hanging nodes.
type side struct {
	nodes []int // corner, hanging nodes..., next corner
	edges []int
}

func (s side) hanging() int { return len(s.nodes) - 2 }

// middle returns the hanging node closest to the middle of the side
func (s side) middle() int { return s.nodes[len(s.nodes)/2] }

// faceSides splits a face into sides at its corners: nodes where the
// boundary does not continue straight on
func faceSides(m *mesh.Mesh2D, f int) []side {
	nodes, edges := m.FaceNodes[f], m.FaceEdges[f]
	n := len(nodes)
	var corners []int
	for i := range nodes {
		prev, p, next := m.Nodes[nodes[(i+n-1)%n]], m.Nodes[nodes[i]], m.Nodes[nodes[(i+1)%n]]
		if !straight(prev, p, next) {
			corners = append(corners, i)
		}
	}
	if len(corners) < 3 {
		return nil
	}
	sides := make([]side, len(corners))
	for k, start := range corners {
		end := corners[(k+1)%len(corners)]
		if end <= start {
			end += n
		}
		var s side
		for i := start; i <= end; i++ {
			s.nodes = append(s.nodes, nodes[i%n])
			if i < end {
				s.edges = append(s.edges, edges[i%n])
			}
		}
		sides[k] = s
	}
	return sides
}

func straight(prev, p, next geometry.Point) bool {
	u, v := r2.Sub(prev, p), r2.Sub(next, p)
	return math.Abs(r2.Cross(u, v)) <= 1e-8*r2.Norm(u)*r2.Norm(v) && r2.Dot(u, v) < 0
}

// splitter bisects the sides of selected faces and joins the midpoints
type splitter struct {
	m      *mesh.Mesh2D
	params Parameters
	mid    map[int]int // split edge → inserted node
}

func newSplitter(m *mesh.Mesh2D, params Parameters) *splitter {
	return &splitter{m: m, params: params, mid: make(map[int]int)}
}

// propagate adds to the selection every face that would otherwise be left
// with two or more split sides, except a quad split on two opposite sides.
// It returns the number of faces added.
func (s *splitter) propagate(selected []bool, sides [][]side) int {
	willSplit := make(map[int]bool)
	mark := func(f int) {
		for _, sd := range sides[f] {
			if len(sd.edges) == 1 {
				willSplit[sd.edges[0]] = true
			}
		}
	}
	for f, sel := range selected {
		if sel {
			mark(f)
		}
	}

	added := 0
	for changed := true; changed; {
		changed = false
		for f, sel := range selected {
			if sel || sides[f] == nil {
				continue
			}
			var split []int
			overloaded := false
			for k, sd := range sides[f] {
				pending := false
				for _, e := range sd.edges {
					pending = pending || willSplit[e]
				}
				if sd.hanging() > 0 && pending {
					overloaded = true
				}
				if sd.hanging() > 0 || pending {
					split = append(split, k)
				}
			}
			opposite := len(sides[f]) == 4 && len(split) == 2 && split[1]-split[0] == 2
			if overloaded || (len(split) >= 2 && !opposite) {
				selected[f] = true
				mark(f)
				added++
				changed = true
			}
		}
	}
	return added
}

// splitEdge inserts the midpoint of edge e once, keeping e as the first half
func (s *splitter) splitEdge(e int) int {
	if n, ok := s.mid[e]; ok {
		return n
	}
	a, b := s.m.Edges[e][0], s.m.Edges[e][1]
	n := s.m.InsertNode(geometry.Midpoint(s.m.Nodes[a], s.m.Nodes[b]))
	s.m.Edges[e] = mesh.Edge{a, n}
	s.m.Edges = append(s.m.Edges, mesh.Edge{n, b})
	s.mid[e] = n
	return n
}

// split refines the selected faces, then stitches hanging nodes when
// configured. Face indices of m are invalid afterwards.
func (s *splitter) split(selected []bool) error {
	m := s.m
	sides := make([][]side, m.NumFaces())
	for f := range sides {
		sides[f] = faceSides(m, f)
	}
	s.propagate(selected, sides)

	centers := make([]geometry.Point, m.NumFaces())
	for f := range centers {
		if s.params.UseMassCenterWhenRefining {
			corners := make([]geometry.Point, len(sides[f]))
			for k, sd := range sides[f] {
				corners[k] = m.Nodes[sd.nodes[0]]
			}
			centers[f] = geometry.MassCenter(corners)
		} else {
			centers[f] = m.FaceCircumcenters[f]
		}
	}

	for f, sel := range selected {
		if !sel || sides[f] == nil {
			continue
		}
		mids := make([]int, len(sides[f]))
		for k, sd := range sides[f] {
			if len(sd.edges) == 1 {
				mids[k] = s.splitEdge(sd.edges[0])
			} else {
				mids[k] = sd.middle()
			}
		}
		if len(mids) == 3 {
			for k := range mids {
				m.Edges = append(m.Edges, mesh.Edge{mids[k], mids[(k+1)%3]})
			}
			continue
		}
		center := m.InsertNode(centers[f])
		for _, n := range mids {
			m.Edges = append(m.Edges, mesh.Edge{center, n})
		}
	}
	if err := m.Administrate(); err != nil {
		return err
	}
	if s.params.ConnectHangingNodes {
		return connectHangingNodes(m)
	}
	return nil
}

// connectHangingNodes turns faces with one hanging node, or a quad with two
// facing hanging nodes, into conforming faces
func connectHangingNodes(m *mesh.Mesh2D) error {
	added := false
	for f := 0; f < m.NumFaces(); f++ {
		sides := faceSides(m, f)
		if sides == nil {
			continue
		}
		var hanging []int
		total := 0
		for k, sd := range sides {
			if sd.hanging() > 0 {
				hanging = append(hanging, k)
				total += sd.hanging()
			}
		}
		corner := func(k int) int { return sides[k%len(sides)].nodes[0] }
		switch {
		case len(sides) == 3 && total == 1:
			k := hanging[0]
			m.Edges = append(m.Edges, mesh.Edge{sides[k].middle(), corner(k + 2)})
		case len(sides) == 4 && total == 1:
			k := hanging[0]
			h := sides[k].middle()
			m.Edges = append(m.Edges, mesh.Edge{h, corner(k + 2)}, mesh.Edge{h, corner(k + 3)})
		case len(sides) == 4 && total == 2 && len(hanging) == 2 && hanging[1]-hanging[0] == 2:
			m.Edges = append(m.Edges, mesh.Edge{sides[hanging[0]].middle(), sides[hanging[1]].middle()})
		default:
			continue
		}
		added = true
	}
	if !added {
		return nil
	}
	return m.Administrate()
}
