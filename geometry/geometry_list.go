package geometry

import (
	"github.com/pkg/errors"
)

// GeometryList is the flat exchange format for polygons, polylines and
// samples: parallel coordinate and value arrays in which separator
// coordinates split rings.
type GeometryList struct {
	X, Y   []float64
	Values []float64

	GeometrySeparator   float64
	InnerOuterSeparator float64
}

// NewGeometryList copies the coordinates into a list with default
// separators. A nil or short values slice is padded with zeros.
func NewGeometryList(x, y, values []float64) GeometryList {
	g := GeometryList{
		X:                   append([]float64(nil), x...),
		Y:                   append([]float64(nil), y...),
		Values:              make([]float64, len(x)),
		GeometrySeparator:   GeometrySeparator,
		InnerOuterSeparator: InnerOuterSeparator,
	}
	copy(g.Values, values)
	return g
}

// FromPoints builds a list from points, all values zero
func FromPoints(points []Point) GeometryList {
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i], y[i] = p.X, p.Y
	}
	return NewGeometryList(x, y, nil)
}

func (g GeometryList) Len() int { return len(g.X) }

func (g GeometryList) IsEmpty() bool { return len(g.X) == 0 }

func (g GeometryList) Point(i int) Point { return Point{X: g.X[i], Y: g.Y[i]} }

// Validate checks that the arrays have equal lengths
func (g GeometryList) Validate() error {
	if len(g.X) != len(g.Y) || len(g.X) != len(g.Values) {
		return errors.Wrapf(ErrInvalidGeometry, "geometry list arrays differ in length: x=%d y=%d values=%d",
			len(g.X), len(g.Y), len(g.Values))
	}
	return nil
}

func (g GeometryList) separators() (geom, innerOuter float64) {
	geom, innerOuter = g.GeometrySeparator, g.InnerOuterSeparator
	if geom == 0 && innerOuter == 0 {
		geom, innerOuter = GeometrySeparator, InnerOuterSeparator
	}
	return
}

// IsSeparator reports whether entry i is a geometry or inner/outer separator
func (g GeometryList) IsSeparator(i int) bool {
	geom, innerOuter := g.separators()
	return g.X[i] == geom || g.X[i] == innerOuter
}

// Span is a half-open index range [Start, End) into a GeometryList
type Span struct {
	Start, End int
}

// Rings returns the index ranges of all rings, holes included, in order
func (g GeometryList) Rings() []Span {
	var spans []Span
	start := 0
	for i := 0; i <= g.Len(); i++ {
		if i == g.Len() || g.IsSeparator(i) {
			if i > start {
				spans = append(spans, Span{Start: start, End: i})
			}
			start = i + 1
		}
	}
	return spans
}

// Points returns the non-separator points in order
func (g GeometryList) Points() []Point {
	points := make([]Point, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		if !g.IsSeparator(i) {
			points = append(points, g.Point(i))
		}
	}
	return points
}

// Samples returns the points and values whose value is not missing
func (g GeometryList) Samples() ([]Point, []float64) {
	points := make([]Point, 0, g.Len())
	values := make([]float64, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		if g.IsSeparator(i) || g.Values[i] == MissingValue {
			continue
		}
		points = append(points, g.Point(i))
		values = append(values, g.Values[i])
	}
	return points, values
}

// JoinRings concatenates rings into one list separated by the geometry separator
func JoinRings(rings [][]Point) GeometryList {
	var x, y []float64
	for i, ring := range rings {
		if i > 0 {
			x = append(x, GeometrySeparator)
			y = append(y, GeometrySeparator)
		}
		for _, p := range ring {
			x = append(x, p.X)
			y = append(y, p.Y)
		}
	}
	return NewGeometryList(x, y, nil)
}
