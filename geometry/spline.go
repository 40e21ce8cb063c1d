package geometry

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Splines interpolates a natural cubic spline through the corner nodes of
// every geometry in the list and samples pointsBetweenNodes extra points
// between consecutive corners. Splines are separated by the geometry
// separator in the result.
func Splines(g GeometryList, pointsBetweenNodes int) (GeometryList, error) {
	if pointsBetweenNodes < 0 {
		return GeometryList{}, errors.Errorf("negative number of points between nodes: %d", pointsBetweenNodes)
	}
	if err := g.Validate(); err != nil {
		return GeometryList{}, err
	}
	var curves [][]Point
	for _, span := range g.Rings() {
		corners := make([]Point, 0, span.End-span.Start)
		for i := span.Start; i < span.End; i++ {
			corners = append(corners, g.Point(i))
		}
		curve, err := sampleSpline(corners, pointsBetweenNodes)
		if err != nil {
			return GeometryList{}, err
		}
		curves = append(curves, curve)
	}
	return JoinRings(curves), nil
}

func sampleSpline(corners []Point, between int) ([]Point, error) {
	n := len(corners)
	if n < 2 {
		return append([]Point(nil), corners...), nil
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, c := range corners {
		xs[i], ys[i] = c.X, c.Y
	}
	ddx, err := secondDerivatives(xs)
	if err != nil {
		return nil, err
	}
	ddy, err := secondDerivatives(ys)
	if err != nil {
		return nil, err
	}

	out := make([]Point, 0, (n-1)*(between+1)+1)
	for i := 0; i < n-1; i++ {
		for j := 0; j <= between; j++ {
			b := float64(j) / float64(between+1)
			out = append(out, Point{
				X: evalSpline(xs, ddx, i, b),
				Y: evalSpline(ys, ddy, i, b),
			})
		}
	}
	return append(out, corners[n-1]), nil
}

// secondDerivatives of a natural cubic spline with unit knot spacing
func secondDerivatives(v []float64) ([]float64, error) {
	n := len(v)
	dd := make([]float64, n)
	if n < 3 {
		return dd, nil
	}
	m := n - 2
	a := mat.NewDense(m, m, nil)
	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		a.Set(i, i, 4)
		if i > 0 {
			a.Set(i, i-1, 1)
		}
		if i < m-1 {
			a.Set(i, i+1, 1)
		}
		rhs.SetVec(i, 6*(v[i+2]-2*v[i+1]+v[i]))
	}
	var x mat.VecDense
	if err := x.SolveVec(a, rhs); err != nil {
		return nil, errors.Wrap(err, "spline second derivatives")
	}
	for i := 0; i < m; i++ {
		dd[i+1] = x.AtVec(i)
	}
	return dd, nil
}

func evalSpline(v, dd []float64, i int, b float64) float64 {
	a := 1 - b
	return a*v[i] + b*v[i+1] + ((a*a*a-a)*dd[i]+(b*b*b-b)*dd[i+1])/6
}
