package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SignedArea of a ring by the shoelace formula; positive for
// counter-clockwise rings. The closing point may be omitted.
func SignedArea(ring []Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return 0.5 * area
}

// Circumcenter of triangle abc; false for collinear points
func Circumcenter(a, b, c Point) (Point, bool) {
	ab := r2.Sub(b, a)
	ac := r2.Sub(c, a)
	d := 2 * r2.Cross(ab, ac)
	if math.Abs(d) < 1e-300 {
		return Point{}, false
	}
	ab2, ac2 := r2.Norm2(ab), r2.Norm2(ac)
	ux := (ac.Y*ab2 - ab.Y*ac2) / d
	uy := (ab.X*ac2 - ac.X*ab2) / d
	return Point{X: a.X + ux, Y: a.Y + uy}, true
}

// IsObtuse reports whether any interior angle of abc exceeds 90 degrees
func IsObtuse(a, b, c Point) bool {
	return r2.Dot(r2.Sub(b, a), r2.Sub(c, a)) < 0 ||
		r2.Dot(r2.Sub(a, b), r2.Sub(c, b)) < 0 ||
		r2.Dot(r2.Sub(a, c), r2.Sub(b, c)) < 0
}

// Barycentric weights of p with respect to triangle abc
func Barycentric(p, a, b, c Point) (w [3]float64, ok bool) {
	den := Orientation(a, b, c)
	if den == 0 {
		return w, false
	}
	w[0] = Orientation(p, b, c) / den
	w[1] = Orientation(a, p, c) / den
	w[2] = 1 - w[0] - w[1]
	return w, true
}

// TriangleContains reports whether p lies inside or on triangle abc
func TriangleContains(p, a, b, c Point) bool {
	w, ok := Barycentric(p, a, b, c)
	if !ok {
		return false
	}
	const eps = -1e-12
	return w[0] >= eps && w[1] >= eps && w[2] >= eps
}

// InCircle is positive when d lies inside the circumcircle of the
// counter-clockwise triangle abc.
func InCircle(a, b, c, d Point) float64 {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y
	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy
	return adx*(bdy*cd-bd*cdy) - ady*(bdx*cd-bd*cdx) + ad*(bdx*cdy-bdy*cdx)
}

// RingContains reports whether p lies inside or on the (implicitly closed) ring
func RingContains(ring []Point, p Point) bool {
	return toOrbRingContains(ring, p)
}
