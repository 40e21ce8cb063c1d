package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// Polygon is an outer ring with optional holes. Rings keep the closing
// point when the caller supplied one.
type Polygon struct {
	Outer []Point
	Holes [][]Point
}

// Polygons is a selection region made of several polygons. An empty set
// imposes no restriction.
type Polygons []Polygon

// NewPolygons parses a GeometryList: the geometry separator starts a new
// polygon, the inner/outer separator starts a hole of the current one.
func NewPolygons(g GeometryList) (Polygons, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	geomSep, innerSep := g.separators()

	var (
		polygons Polygons
		current  *Polygon
		ring     []Point
		isHole   bool
	)
	flush := func() {
		if len(ring) == 0 {
			return
		}
		if isHole && current != nil {
			current.Holes = append(current.Holes, ring)
		} else {
			polygons = append(polygons, Polygon{Outer: ring})
			current = &polygons[len(polygons)-1]
		}
		ring = nil
	}
	for i := 0; i < g.Len(); i++ {
		switch g.X[i] {
		case geomSep:
			flush()
			isHole = false
			current = nil
		case innerSep:
			flush()
			isHole = true
		default:
			ring = append(ring, g.Point(i))
		}
	}
	flush()
	return polygons, nil
}

func (ps Polygons) IsEmpty() bool { return len(ps) == 0 }

// Contains reports whether p lies in any polygon; true for an empty set
func (ps Polygons) Contains(p Point) bool {
	if len(ps) == 0 {
		return true
	}
	for _, poly := range ps {
		if poly.Contains(p) {
			return true
		}
	}
	return false
}

// ContainsStrict is Contains with an empty set containing nothing
func (ps Polygons) ContainsStrict(p Point) bool {
	return len(ps) > 0 && ps.Contains(p)
}

// Contains reports whether p lies inside the outer ring and outside every
// hole. Points on the outer boundary are inside.
func (poly Polygon) Contains(p Point) bool {
	return planar.PolygonContains(poly.orb(), orb.Point{p.X, p.Y})
}

func (poly Polygon) orb() orb.Polygon {
	op := make(orb.Polygon, 0, 1+len(poly.Holes))
	op = append(op, orbRing(poly.Outer))
	for _, h := range poly.Holes {
		op = append(op, orbRing(h))
	}
	return op
}

// Rings returns the outer ring followed by the holes
func (poly Polygon) Rings() [][]Point {
	return append([][]Point{poly.Outer}, poly.Holes...)
}

func orbRing(ring []Point) orb.Ring {
	r := make(orb.Ring, len(ring))
	for i, p := range ring {
		r[i] = orb.Point{p.X, p.Y}
	}
	return r
}

func toOrbRingContains(ring []Point, p Point) bool {
	if len(ring) < 3 {
		return false
	}
	return planar.RingContains(orbRing(ring), orb.Point{p.X, p.Y})
}

// IsClockwise reports the orientation of a ring
func IsClockwise(ring []Point) bool {
	return orbRing(ring).Orientation() == orb.CW
}

// IsClosed reports whether the last point repeats the first
func IsClosed(ring []Point, tol float64) bool {
	return len(ring) > 1 && Equal(ring[0], ring[len(ring)-1], tol)
}

// OpenRing drops the closing point if present
func OpenRing(ring []Point) []Point {
	if IsClosed(ring, 0) {
		return ring[:len(ring)-1]
	}
	return ring
}

// ValidateRing checks that a ring is closed, has at least three distinct
// corners and does not intersect itself.
func ValidateRing(ring []Point) error {
	if len(ring) < 4 || !IsClosed(ring, 1e-12*ringScale(ring)) {
		return errors.Wrapf(ErrInvalidGeometry, "ring of %d points is not closed", len(ring))
	}
	open := ring[:len(ring)-1]
	n := len(open)
	for i := 0; i < n; i++ {
		a1, a2 := open[i], open[(i+1)%n]
		for j := i + 1; j < n; j++ {
			b1, b2 := open[j], open[(j+1)%n]
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if SegmentsCross(a1, a2, b1, b2) {
				return errors.Wrapf(ErrInvalidGeometry, "ring segments %d and %d intersect", i, j)
			}
		}
	}
	if math.Abs(SignedArea(open)) == 0 {
		return errors.Wrap(ErrInvalidGeometry, "ring encloses no area")
	}
	return nil
}

func ringScale(ring []Point) float64 {
	lo, hi := BoundingBox(ring)
	return math.Max(1, math.Max(hi.X-lo.X, hi.Y-lo.Y))
}

// IncludedPoints returns a copy of selected whose values are 1 for points
// inside the selecting polygons and 0 otherwise.
func IncludedPoints(selecting, selected GeometryList) (GeometryList, error) {
	polygons, err := NewPolygons(selecting)
	if err != nil {
		return GeometryList{}, err
	}
	out := NewGeometryList(selected.X, selected.Y, nil)
	for i := 0; i < out.Len(); i++ {
		if out.IsSeparator(i) {
			out.Values[i] = out.X[i]
			continue
		}
		if polygons.Contains(out.Point(i)) {
			out.Values[i] = 1
		}
	}
	return out, nil
}
