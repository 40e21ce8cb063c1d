package geometry

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(lo, hi float64) GeometryList {
	return NewGeometryList(
		[]float64{lo, hi, hi, lo, lo},
		[]float64{lo, lo, hi, hi, lo},
		nil)
}

// ============================================================================
// Triangles and segments
// ============================================================================

func TestCircumcenter(t *testing.T) {
	c, ok := Circumcenter(NewPoint(0, 0), NewPoint(2, 0), NewPoint(0, 2))
	require.True(t, ok)
	assert.InDelta(t, 1.0, c.X, 1e-12)
	assert.InDelta(t, 1.0, c.Y, 1e-12)

	_, ok = Circumcenter(NewPoint(0, 0), NewPoint(1, 1), NewPoint(2, 2))
	assert.False(t, ok)
}

func TestIsObtuse(t *testing.T) {
	testCases := []struct {
		name     string
		a, b, c  Point
		expected bool
	}{
		{"right angle", NewPoint(0, 0), NewPoint(1, 0), NewPoint(0, 1), false},
		{"equilateral", NewPoint(0, 0), NewPoint(1, 0), NewPoint(0.5, math.Sqrt(3)/2), false},
		{"obtuse at apex", NewPoint(1, 0), NewPoint(2, 1), NewPoint(1.5, 1), true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsObtuse(tc.a, tc.b, tc.c))
		})
	}
}

func TestBarycentricAndInCircle(t *testing.T) {
	a, b, c := NewPoint(0, 0), NewPoint(1, 0), NewPoint(0, 1)
	w, ok := Barycentric(NewPoint(0.25, 0.25), a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 0.5, w[0], 1e-12)
	assert.InDelta(t, 0.25, w[1], 1e-12)
	assert.InDelta(t, 0.25, w[2], 1e-12)

	assert.True(t, TriangleContains(NewPoint(0.5, 0.5), a, b, c))
	assert.False(t, TriangleContains(NewPoint(0.6, 0.6), a, b, c))

	assert.Greater(t, InCircle(a, b, c, NewPoint(0.5, 0.5)), 0.0)
	assert.Less(t, InCircle(a, b, c, NewPoint(2, 2)), 0.0)
}

func TestSegmentIntersection(t *testing.T) {
	p, tt, ok := SegmentIntersection(NewPoint(0, 0), NewPoint(2, 2), NewPoint(0, 2), NewPoint(2, 0))
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.X, 1e-12)
	assert.InDelta(t, 0.5, tt, 1e-12)

	_, _, ok = SegmentIntersection(NewPoint(0, 0), NewPoint(1, 0), NewPoint(0, 1), NewPoint(1, 1))
	assert.False(t, ok)

	assert.False(t, SegmentsCross(NewPoint(0, 0), NewPoint(1, 0), NewPoint(1, 0), NewPoint(1, 1)))
}

func TestProjectOnPolyline(t *testing.T) {
	line := []Point{NewPoint(0, 0), NewPoint(2, 0), NewPoint(2, 2)}
	q, d := ProjectOnPolyline(NewPoint(3, 1), line)
	assert.InDelta(t, 2.0, q.X, 1e-12)
	assert.InDelta(t, 1.0, q.Y, 1e-12)
	assert.InDelta(t, 1.0, d, 1e-12)
}

func TestProjection_Distance(t *testing.T) {
	assert.InDelta(t, 5.0, Cartesian.Distance(NewPoint(0, 0), NewPoint(3, 4)), 1e-12)

	// One degree of longitude on the equator
	d := Spherical.Distance(NewPoint(0, 0), NewPoint(1, 0))
	assert.InDelta(t, EarthRadius*math.Pi/180, d, 1e-6)
	assert.Equal(t, "spherical", Spherical.String())
}

// ============================================================================
// Polygons
// ============================================================================

func TestNewPolygons_SeparatorsAndHoles(t *testing.T) {
	g := NewGeometryList(
		[]float64{0, 10, 10, 0, 0, InnerOuterSeparator, 4, 6, 6, 4, 4, GeometrySeparator, 20, 30, 30, 20},
		[]float64{0, 0, 10, 10, 0, InnerOuterSeparator, 4, 4, 6, 6, 4, GeometrySeparator, 0, 0, 10, 10},
		nil)
	polygons, err := NewPolygons(g)
	require.NoError(t, err)
	require.Len(t, polygons, 2)
	assert.Len(t, polygons[0].Holes, 1)
	assert.Empty(t, polygons[1].Holes)

	assert.True(t, polygons.Contains(NewPoint(2, 2)))
	assert.False(t, polygons.Contains(NewPoint(5, 5)), "inside the hole")
	assert.True(t, polygons.Contains(NewPoint(25, 5)))
	assert.False(t, polygons.Contains(NewPoint(15, 5)))
	assert.True(t, polygons.Contains(NewPoint(0, 5)), "boundary counts as inside")
}

func TestPolygons_Empty(t *testing.T) {
	polygons, err := NewPolygons(GeometryList{})
	require.NoError(t, err)
	assert.True(t, polygons.IsEmpty())
	assert.True(t, polygons.Contains(NewPoint(1e9, 1e9)))
	assert.False(t, polygons.ContainsStrict(NewPoint(0, 0)))
}

func TestValidateRing(t *testing.T) {
	testCases := []struct {
		name  string
		ring  []Point
		valid bool
	}{
		{"closed square", square(0, 1).Points(), true},
		{"open square", square(0, 1).Points()[:4], false},
		{"bow tie", []Point{NewPoint(0, 0), NewPoint(1, 1), NewPoint(1, 0), NewPoint(0, 1), NewPoint(0, 0)}, false},
		{"too short", []Point{NewPoint(0, 0), NewPoint(1, 1), NewPoint(0, 0)}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRing(tc.ring)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidGeometry))
			}
		})
	}
}

func TestIncludedPoints(t *testing.T) {
	selected := NewGeometryList([]float64{0.5, 2, 0.9}, []float64{0.5, 2, 0.1}, nil)
	out, err := IncludedPoints(square(0, 1), selected)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1}, out.Values)
}

func TestGeometryList_ValidateLengths(t *testing.T) {
	g := GeometryList{X: []float64{0, 1}, Y: []float64{0}}
	assert.True(t, errors.Is(g.Validate(), ErrInvalidGeometry))
}

// ============================================================================
// Spatial indices
// ============================================================================

func TestPointIndex(t *testing.T) {
	points := []Point{NewPoint(0, 0), MissingPoint, NewPoint(1, 0), NewPoint(0, 1), NewPoint(5, 5)}
	pi := NewPointIndex(points)
	assert.Equal(t, 4, pi.Len())

	idx, d, ok := pi.Nearest(NewPoint(0.9, 0.1))
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.InDelta(t, math.Sqrt(0.02), d, 1e-12)

	found := pi.WithinRadius(NewPoint(0, 0), 1.01)
	require.Len(t, found, 3)
	assert.Equal(t, 0, found[0].Index)
	assert.Equal(t, 2, found[1].Index)
	assert.Equal(t, 3, found[2].Index)

	empty := NewPointIndex(nil)
	_, _, ok = empty.Nearest(NewPoint(0, 0))
	assert.False(t, ok)
	assert.Nil(t, empty.WithinRadius(NewPoint(0, 0), 1))
}

func TestBoxIndex(t *testing.T) {
	rings := [][]Point{
		square(0, 1).Points(),
		square(1, 2).Points(),
		nil,
	}
	bi := NewBoxIndex(rings)
	assert.Equal(t, []int{0}, bi.Candidates(NewPoint(0.5, 0.5)))
	assert.Equal(t, []int{0, 1}, bi.Candidates(NewPoint(1, 1)))
	assert.Empty(t, bi.Candidates(NewPoint(3, 3)))
}

// ============================================================================
// Splines
// ============================================================================

func TestSplines(t *testing.T) {
	g := NewGeometryList([]float64{0, 1, 2}, []float64{0, 1, 0}, nil)
	out, err := Splines(g, 3)
	require.NoError(t, err)
	// (n-1)*(k+1)+1 points
	require.Equal(t, 9, out.Len())

	// corner nodes are interpolated
	assert.InDelta(t, 0.0, out.X[0], 1e-12)
	assert.InDelta(t, 1.0, out.X[4], 1e-12)
	assert.InDelta(t, 1.0, out.Y[4], 1e-12)
	assert.InDelta(t, 2.0, out.X[8], 1e-12)

	// symmetric curve
	assert.InDelta(t, out.Y[2], out.Y[6], 1e-12)

	_, err = Splines(g, -1)
	assert.Error(t, err)
}

func TestSplines_StraightLine(t *testing.T) {
	g := NewGeometryList([]float64{0, 4}, []float64{0, 0}, nil)
	out, err := Splines(g, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, out.X)
}
