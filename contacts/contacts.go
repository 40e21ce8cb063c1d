// Package contacts links nodes of a 1D network to faces of a 2D mesh.
package contacts

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/utils"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrInvalidMask = errors.New("node mask does not match the 1d mesh")

// Contacts holds (1D node, 2D face) pairs in the order they were found
type Contacts struct {
	Mesh1D *mesh.Mesh1D
	Mesh2D *mesh.Mesh2D

	Mesh1DIndices []int
	Mesh2DIndices []int

	seen map[[2]int]struct{}
}

func New(m1 *mesh.Mesh1D, m2 *mesh.Mesh2D) *Contacts {
	return &Contacts{Mesh1D: m1, Mesh2D: m2, seen: make(map[[2]int]struct{})}
}

func (c *Contacts) Len() int { return len(c.Mesh1DIndices) }

func (c *Contacts) Clear() {
	c.Mesh1DIndices, c.Mesh2DIndices = nil, nil
	c.seen = make(map[[2]int]struct{})
}

// Set replaces the pairs with the given ones, dropping duplicates
func (c *Contacts) Set(mesh1DIndices, mesh2DIndices []int) error {
	if len(mesh1DIndices) != len(mesh2DIndices) {
		return errors.Errorf("contacts need matching index arrays, have %d and %d",
			len(mesh1DIndices), len(mesh2DIndices))
	}
	for i := range mesh1DIndices {
		if n := mesh1DIndices[i]; n < 0 || n >= c.Mesh1D.NumNodes() {
			return errors.Wrapf(geometry.ErrInvalidGeometry, "contact %d references 1d node %d", i, n)
		}
		if f := mesh2DIndices[i]; f < 0 || f >= c.Mesh2D.NumFaces() {
			return errors.Wrapf(geometry.ErrInvalidGeometry, "contact %d references face %d", i, f)
		}
	}
	c.Clear()
	for i := range mesh1DIndices {
		c.add(mesh1DIndices[i], mesh2DIndices[i])
	}
	return nil
}

func (c *Contacts) add(node, face int) bool {
	key := [2]int{node, face}
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = struct{}{}
	c.Mesh1DIndices = append(c.Mesh1DIndices, node)
	c.Mesh2DIndices = append(c.Mesh2DIndices, face)
	return true
}

func (c *Contacts) checkMask(mask []bool) error {
	if len(mask) != c.Mesh1D.NumNodes() {
		return errors.Wrapf(ErrInvalidMask, "mask has %d entries, 1d mesh has %d nodes",
			len(mask), c.Mesh1D.NumNodes())
	}
	return nil
}

// eligibleNodes indexes the masked 1D nodes; the rest are left out
func (c *Contacts) eligibleNodes(mask []bool) *geometry.PointIndex {
	points := lo.Map(c.Mesh1D.Nodes, func(p geometry.Point, n int) geometry.Point {
		if mask[n] {
			return p
		}
		return geometry.MissingPoint
	})
	return geometry.NewPointIndex(points)
}

// circumcenters returns the face circumcenters, with the faces rejected by
// keep replaced by the missing point
func (c *Contacts) circumcenters(keep func(f int, cc geometry.Point) bool) []geometry.Point {
	return lo.Map(c.Mesh2D.FaceCircumcenters, func(cc geometry.Point, f int) geometry.Point {
		if keep(f, cc) {
			return cc
		}
		return geometry.MissingPoint
	})
}

func (c *Contacts) logAdded(strategy string, before int) {
	utils.Logger().Debug("contacts computed", "strategy", strategy, "added", c.Len()-before)
}

// ComputeSingle connects every masked 1D node that is not a network end
// and lies inside polygons to the face with the nearest circumcenter among
// the faces whose circumcenter is inside polygons.
func (c *Contacts) ComputeSingle(mask []bool, polygons geometry.Polygons) error {
	if err := c.checkMask(mask); err != nil {
		return err
	}
	faces := geometry.NewPointIndex(c.circumcenters(func(_ int, cc geometry.Point) bool {
		return polygons.Contains(cc)
	}))
	before := c.Len()
	for n, p := range c.Mesh1D.Nodes {
		if !mask[n] || c.Mesh1D.IsBoundaryNode(n) || !polygons.Contains(p) {
			continue
		}
		if f, _, ok := faces.Nearest(p); ok {
			c.add(n, f)
		}
	}
	c.logAdded("single", before)
	return nil
}

// ComputeMultiple walks the 1D edges. Every face whose circumcenter lies
// within one edge length of the edge start and that the edge passes through
// is connected to the nearer masked end of the edge, the start node on a
// tie. A face is connected at most once per call, so one 1D node collects
// every face along its edges.
func (c *Contacts) ComputeMultiple(mask []bool) error {
	if err := c.checkMask(mask); err != nil {
		return err
	}
	m1, m2 := c.Mesh1D, c.Mesh2D
	faces := geometry.NewPointIndex(m2.FaceCircumcenters)
	connected := make([]bool, m2.NumFaces())
	before := c.Len()
	for e, edge := range m1.Edges {
		first, second := edge[0], edge[1]
		if !mask[first] && !mask[second] {
			continue
		}
		a, b := m1.Nodes[first], m1.Nodes[second]
		for _, candidate := range faces.WithinRadius(a, m1.EdgeLength(e)) {
			f := candidate.Index
			if connected[f] || !passesThrough(m2.FacePoints(f), a, b) {
				continue
			}
			node := first
			cc := m2.FaceCircumcenters[f]
			if !mask[first] || (mask[second] && m2.Projection.Distance(b, cc) < m2.Projection.Distance(a, cc)) {
				node = second
			}
			c.add(node, f)
			connected[f] = true
		}
	}
	c.logAdded("multiple", before)
	return nil
}

// passesThrough reports whether segment ab holds a point of the face ring:
// an end inside the face or a crossing of one of its sides
func passesThrough(ring []geometry.Point, a, b geometry.Point) bool {
	if geometry.RingContains(ring, a) || geometry.RingContains(ring, b) {
		return true
	}
	for i := range ring {
		if _, _, ok := geometry.SegmentIntersection(a, b, ring[i], ring[(i+1)%len(ring)]); ok {
			return true
		}
	}
	return false
}

// ComputeWithPolygons adds, for every polygon, the closest pair of a face
// with its circumcenter inside the polygon and a masked 1D node.
func (c *Contacts) ComputeWithPolygons(mask []bool, polygons geometry.Polygons) error {
	if err := c.checkMask(mask); err != nil {
		return err
	}
	nodes := c.eligibleNodes(mask)
	before := c.Len()
	for _, polygon := range polygons {
		bestNode, bestFace, bestDist := -1, -1, math.Inf(1)
		for f, cc := range c.Mesh2D.FaceCircumcenters {
			if !polygon.Contains(cc) {
				continue
			}
			if n, d, ok := nodes.Nearest(cc); ok && d < bestDist {
				bestNode, bestFace, bestDist = n, f, d
			}
		}
		if bestFace >= 0 {
			c.add(bestNode, bestFace)
		}
	}
	c.logAdded("polygons", before)
	return nil
}

// ComputeWithPoints connects the face containing each point to the masked
// 1D node nearest to that face's circumcenter. Points outside the mesh are
// skipped.
func (c *Contacts) ComputeWithPoints(mask []bool, points []geometry.Point) error {
	if err := c.checkMask(mask); err != nil {
		return err
	}
	m2 := c.Mesh2D
	nodes := c.eligibleNodes(mask)
	boxes := geometry.NewBoxIndex(m2.FacePolygons())
	before := c.Len()
	for _, p := range points {
		f := m2.FindFaceContaining(p, boxes)
		if f < 0 {
			continue
		}
		if n, _, ok := nodes.Nearest(m2.FaceCircumcenters[f]); ok {
			c.add(n, f)
		}
	}
	c.logAdded("points", before)
	return nil
}

// ComputeBoundary connects each boundary face with its circumcenter inside
// polygons to the nearest masked 1D node within searchRadius. A missing
// search radius uses twice the longest edge of each face.
func (c *Contacts) ComputeBoundary(mask []bool, polygons geometry.Polygons, searchRadius float64) error {
	if err := c.checkMask(mask); err != nil {
		return err
	}
	if searchRadius != geometry.MissingValue && searchRadius <= 0 {
		return errors.Wrapf(geometry.ErrInvalidGeometry, "search radius %g", searchRadius)
	}
	m2 := c.Mesh2D
	nodes := c.eligibleNodes(mask)
	before := c.Len()
	for f, cc := range m2.FaceCircumcenters {
		if !lo.SomeBy(m2.FaceEdges[f], m2.IsBoundaryEdge) || !polygons.Contains(cc) {
			continue
		}
		radius := searchRadius
		if radius == geometry.MissingValue {
			radius = 2 * lo.Max(lo.Map(m2.FaceEdges[f], func(e int, _ int) float64 { return m2.EdgeLength(e) }))
		}
		if found := nodes.WithinRadius(cc, radius); len(found) > 0 {
			c.add(found[0].Index, f)
		}
	}
	c.logAdded("boundary", before)
	return nil
}
