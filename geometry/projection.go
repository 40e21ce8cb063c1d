package geometry

import (
	"math"

	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/spatial/r2"
)

// Projection identifies the coordinate system of a mesh
type Projection uint8

const (
	Cartesian Projection = iota
	Spherical
)

func (p Projection) String() string {
	switch p {
	case Cartesian:
		return "cartesian"
	case Spherical:
		return "spherical"
	default:
		return "unknown"
	}
}

// Distance between two points; great-circle distance in meters for Spherical
func (p Projection) Distance(a, b Point) float64 {
	if p == Spherical {
		la := s2.LatLngFromDegrees(a.Y, a.X)
		lb := s2.LatLngFromDegrees(b.Y, b.X)
		return la.Distance(lb).Radians() * EarthRadius
	}
	return r2.Norm(r2.Sub(b, a))
}

// Delta returns b-a expressed in a locally metric frame. For Spherical the
// longitude difference is shortened by the cosine of the mean latitude.
func (p Projection) Delta(a, b Point) Point {
	d := r2.Sub(b, a)
	if p == Spherical {
		const toRad = math.Pi / 180
		lat := 0.5 * (a.Y + b.Y) * toRad
		return Point{X: d.X * toRad * EarthRadius * math.Cos(lat), Y: d.Y * toRad * EarthRadius}
	}
	return d
}

// Angle of the direction a→b in (-π, π]
func (p Projection) Angle(a, b Point) float64 {
	d := p.Delta(a, b)
	return math.Atan2(d.Y, d.X)
}
