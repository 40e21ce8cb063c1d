package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// MissingValue marks absent coordinates and "no data" results
	MissingValue = -999.0

	// GeometrySeparator delimits geometries inside one GeometryList
	GeometrySeparator = -999.0

	// InnerOuterSeparator delimits the outer ring from its holes
	InnerOuterSeparator = -998.0

	// EarthRadius in meters, used by the spherical projection
	EarthRadius = 6378137.0
)

// Point is a planar position. Spherical states store longitude in X and
// latitude in Y, both in degrees.
type Point = r2.Vec

// MissingPoint is the sentinel position of a deleted node
var MissingPoint = Point{X: MissingValue, Y: MissingValue}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// IsValid reports whether p holds real coordinates
func IsValid(p Point) bool {
	return p.X != MissingValue && p.Y != MissingValue &&
		!math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

func Midpoint(a, b Point) Point {
	return r2.Scale(0.5, r2.Add(a, b))
}

// MassCenter is the arithmetic mean of the points
func MassCenter(points []Point) Point {
	var sum Point
	if len(points) == 0 {
		return MissingPoint
	}
	for _, p := range points {
		sum = r2.Add(sum, p)
	}
	return r2.Scale(1/float64(len(points)), sum)
}

// Equal compares two points within an absolute tolerance
func Equal(a, b Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// BoundingBox returns the lower-left and upper-right corners of the valid points
func BoundingBox(points []Point) (lo, hi Point) {
	lo = Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range points {
		if !IsValid(p) {
			continue
		}
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
