package mesh

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// DeleteOption selects what DeleteInPolygon removes
type DeleteOption uint8

const (
	DeleteNodesInside DeleteOption = iota
	DeleteFacesWithCircumcenterInside
	DeleteFacesCompletelyInside
)

func (o DeleteOption) String() string {
	switch o {
	case DeleteNodesInside:
		return "DeleteNodesInside"
	case DeleteFacesWithCircumcenterInside:
		return "DeleteFacesWithCircumcenterInside"
	case DeleteFacesCompletelyInside:
		return "DeleteFacesCompletelyInside"
	default:
		return "Unknown"
	}
}

// DeleteInPolygon removes the part of the mesh inside the polygons, or
// outside them when invert is set. An empty polygon set selects nothing,
// so invert then clears the whole mesh.
func (m *Mesh2D) DeleteInPolygon(polygons geometry.Polygons, option DeleteOption, invert bool) error {
	if option > DeleteFacesCompletelyInside {
		return errors.Errorf("unknown delete option %d", option)
	}
	if polygons.IsEmpty() {
		if invert {
			m.Clear()
		}
		return nil
	}
	inside := func(p geometry.Point) bool {
		return polygons.Contains(p) != invert
	}

	if option == DeleteNodesInside {
		for n, p := range m.Nodes {
			if !inside(p) {
				continue
			}
			m.deleteEdges(m.NodeEdges[n])
			m.Nodes[n] = geometry.MissingPoint
		}
		return m.Administrate()
	}

	selected := make([]bool, m.NumFaces())
	for f := range selected {
		switch option {
		case DeleteFacesWithCircumcenterInside:
			selected[f] = inside(m.FaceCircumcenters[f])
		case DeleteFacesCompletelyInside:
			selected[f] = lo.EveryBy(m.FaceNodes[f], func(n int) bool { return inside(m.Nodes[n]) })
		}
	}

	var doomed []int
	mid := m.EdgeMidpoints()
	for e := range m.Edges {
		faces := m.EdgeFaces(e)
		if len(faces) == 0 {
			if inside(mid[e]) {
				doomed = append(doomed, e)
			}
			continue
		}
		if lo.EveryBy(faces, func(f int) bool { return selected[f] }) {
			doomed = append(doomed, e)
		}
	}
	m.deleteEdges(doomed)
	return m.Administrate()
}

// NodesInPolygon returns the nodes inside the polygons, or outside them
// when inside is false. An empty polygon set contains every node.
func (m *Mesh2D) NodesInPolygon(polygons geometry.Polygons, inside bool) []int {
	return lo.Filter(lo.Range(len(m.Nodes)), func(n int, _ int) bool {
		return polygons.Contains(m.Nodes[n]) == inside
	})
}
