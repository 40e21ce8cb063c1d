package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Orientation is twice the signed area of triangle abc; positive when
// a, b, c turn counter-clockwise.
func Orientation(a, b, c Point) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// SegmentIntersection returns the intersection of segments [a1,a2] and
// [b1,b2] and the parameter along the first segment. Parallel segments
// never intersect.
func SegmentIntersection(a1, a2, b1, b2 Point) (p Point, t float64, ok bool) {
	r := r2.Sub(a2, a1)
	s := r2.Sub(b2, b1)
	den := r2.Cross(r, s)
	if den == 0 {
		return Point{}, 0, false
	}
	qp := r2.Sub(b1, a1)
	t = r2.Cross(qp, s) / den
	u := r2.Cross(qp, r) / den
	const eps = 1e-12
	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return Point{}, 0, false
	}
	return r2.Add(a1, r2.Scale(t, r)), t, true
}

// SegmentsCross reports a proper crossing: the segments intersect at a
// single point interior to both.
func SegmentsCross(a1, a2, b1, b2 Point) bool {
	d1 := Orientation(b1, b2, a1)
	d2 := Orientation(b1, b2, a2)
	d3 := Orientation(a1, a2, b1)
	d4 := Orientation(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// ProjectOnSegment returns the point of [a,b] closest to p and its
// parameter in [0,1].
func ProjectOnSegment(p, a, b Point) (Point, float64) {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return a, 0
	}
	t := r2.Dot(r2.Sub(p, a), ab) / l2
	t = math.Max(0, math.Min(1, t))
	return r2.Add(a, r2.Scale(t, ab)), t
}

func DistanceToSegment(p, a, b Point) float64 {
	q, _ := ProjectOnSegment(p, a, b)
	return r2.Norm(r2.Sub(p, q))
}

// ProjectOnPolyline returns the point of the polyline closest to p and the
// distance to it. Missing points split the polyline into pieces.
func ProjectOnPolyline(p Point, line []Point) (Point, float64) {
	best := MissingPoint
	bestDist := math.Inf(1)
	for i := 0; i+1 < len(line); i++ {
		if !IsValid(line[i]) || !IsValid(line[i+1]) {
			continue
		}
		q, _ := ProjectOnSegment(p, line[i], line[i+1])
		if d := r2.Norm(r2.Sub(p, q)); d < bestDist {
			best, bestDist = q, d
		}
	}
	return best, bestDist
}
