package builder

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/triangulation"
	"github.com/notargets/MeshKernel/utils"
	"github.com/notargets/gocfd/types"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// maxRecoveryPasses bounds the boundary-recovery loop of FromPolygon
const maxRecoveryPasses = 8

// Config holds configuration for creating a Builder
type Config struct {
	Projection geometry.Projection
	// TargetEdgeLength is the spacing of interior nodes; zero selects the
	// average boundary segment length
	TargetEdgeLength float64
}

// Builder generates triangular meshes from polygons and sample points
type Builder struct {
	cfg Config
}

func New(cfg Config) *Builder {
	return &Builder{cfg: cfg}
}

// FromPolygon fills the polygons with triangles. Boundary nodes are kept as
// given; interior nodes are placed on a triangular lattice.
func (b *Builder) FromPolygon(list geometry.GeometryList) (*mesh.Mesh2D, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}
	polygons, err := geometry.NewPolygons(list)
	if err != nil {
		return nil, err
	}
	if polygons.IsEmpty() {
		return nil, errors.Wrap(geometry.ErrInvalidGeometry, "no polygon to fill")
	}

	var (
		points []geometry.Point
		rings  [][]int
		closed [][]geometry.Point
		length float64
		count  int
	)
	for _, polygon := range polygons {
		for _, ring := range polygon.Rings() {
			if err := geometry.ValidateRing(ring); err != nil {
				return nil, err
			}
			closed = append(closed, ring)
			open := geometry.OpenRing(ring)
			indices := make([]int, len(open))
			for i, p := range open {
				indices[i] = len(points)
				points = append(points, p)
				length += r2.Norm(r2.Sub(open[(i+1)%len(open)], p))
				count++
			}
			rings = append(rings, indices)
		}
	}

	h := b.cfg.TargetEdgeLength
	if h <= 0 {
		h = length / float64(count)
	}
	anchor := geometry.MassCenter(geometry.OpenRing(polygons[0].Outer))
	points = append(points, latticePoints(polygons, closed, anchor, h)...)

	for pass := 0; pass < maxRecoveryPasses; pass++ {
		tri, err := triangulation.Delaunay(points)
		if err != nil {
			return nil, errors.Wrap(err, "triangulating polygon")
		}
		var kept [][3]int
		for _, t := range tri.Triangles {
			centroid := geometry.MassCenter([]geometry.Point{points[t[0]], points[t[1]], points[t[2]]})
			if polygons.Contains(centroid) {
				kept = append(kept, t)
			}
		}

		present := make(map[types.EdgeKey]struct{}, 3*len(kept))
		for _, t := range kept {
			for k := 0; k < 3; k++ {
				present[types.NewEdgeKey([2]int{t[k], t[(k+1)%3]})] = struct{}{}
			}
		}
		recovered := true
		for r, ring := range rings {
			split := make([]int, 0, len(ring))
			for i, a := range ring {
				c := ring[(i+1)%len(ring)]
				split = append(split, a)
				if _, ok := present[types.NewEdgeKey([2]int{a, c})]; ok {
					continue
				}
				points = append(points, geometry.Midpoint(points[a], points[c]))
				split = append(split, len(points)-1)
				recovered = false
			}
			rings[r] = split
		}
		if recovered {
			m, err := b.fromTriangles(points, kept)
			if err != nil {
				return nil, err
			}
			utils.Logger().Debug("mesh from polygon", "spacing", h, "passes", pass+1,
				"nodes", m.NumNodes(), "faces", m.NumFaces())
			return m, nil
		}
		utils.Logger().Debug("recovering boundary segments", "pass", pass)
	}
	return nil, errors.Errorf("boundary not recovered after %d passes", maxRecoveryPasses)
}

// latticePoints returns the nodes of a triangular lattice with spacing h
// anchored at anchor that lie inside the polygons and at least h/2 away from
// every ring
func latticePoints(polygons geometry.Polygons, rings [][]geometry.Point, anchor geometry.Point, h float64) []geometry.Point {
	var lo, hi geometry.Point
	lo, hi = geometry.BoundingBox(rings[0])
	for _, ring := range rings[1:] {
		l, u := geometry.BoundingBox(ring)
		lo = geometry.NewPoint(math.Min(lo.X, l.X), math.Min(lo.Y, l.Y))
		hi = geometry.NewPoint(math.Max(hi.X, u.X), math.Max(hi.Y, u.Y))
	}

	dy := h * math.Sqrt(3) / 2
	jMin, jMax := int(math.Floor((lo.Y-anchor.Y)/dy)), int(math.Ceil((hi.Y-anchor.Y)/dy))
	iMin, iMax := int(math.Floor((lo.X-anchor.X)/h))-1, int(math.Ceil((hi.X-anchor.X)/h))+1

	var found []geometry.Point
	for j := jMin; j <= jMax; j++ {
		offset := 0.0
		if j%2 != 0 {
			offset = h / 2
		}
		for i := iMin; i <= iMax; i++ {
			p := geometry.NewPoint(anchor.X+float64(i)*h+offset, anchor.Y+float64(j)*dy)
			if !polygons.Contains(p) || nearRing(p, rings, h/2) {
				continue
			}
			found = append(found, p)
		}
	}
	return found
}

func nearRing(p geometry.Point, rings [][]geometry.Point, distance float64) bool {
	for _, ring := range rings {
		if _, d := geometry.ProjectOnPolyline(p, ring); d < distance {
			return true
		}
	}
	return false
}

// FromSamples triangulates the distinct sample points
func (b *Builder) FromSamples(list geometry.GeometryList) (*mesh.Mesh2D, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}
	points := list.Points()
	tri, err := triangulation.Delaunay(points)
	if err != nil {
		return nil, errors.Wrap(err, "triangulating samples")
	}
	return b.fromTriangles(points, tri.Triangles)
}

// fromTriangles builds a mesh from the triangles, keeping only the points
// they reference
func (b *Builder) fromTriangles(points []geometry.Point, triangles [][3]int) (*mesh.Mesh2D, error) {
	index := make(map[int]int, len(points))
	var nodes []geometry.Point
	node := func(p int) int {
		if n, ok := index[p]; ok {
			return n
		}
		index[p] = len(nodes)
		nodes = append(nodes, points[p])
		return index[p]
	}

	seen := make(map[types.EdgeKey]struct{}, 3*len(triangles))
	var edges []mesh.Edge
	for _, t := range triangles {
		for k := 0; k < 3; k++ {
			a, c := node(t[k]), node(t[(k+1)%3])
			key := types.NewEdgeKey([2]int{a, c})
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, mesh.Edge{a, c})
		}
	}

	m := mesh.NewMesh2D(b.cfg.Projection)
	if err := m.Set(nodes, edges); err != nil {
		return nil, err
	}
	return m, nil
}
