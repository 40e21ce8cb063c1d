package refinement

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/pkg/errors"
)

// RefinePolygon inserts points along the ring holding list entries first
// and second so that no segment between them is longer than targetLength.
// first == second refines the whole ring. Other rings are copied unchanged.
func RefinePolygon(list geometry.GeometryList, first, second int, targetLength float64,
	projection geometry.Projection) (geometry.GeometryList, error) {
	if err := list.Validate(); err != nil {
		return geometry.GeometryList{}, err
	}
	if targetLength <= 0 {
		return geometry.GeometryList{}, errors.Wrapf(ErrInvalidParameters, "target length %g", targetLength)
	}
	if first > second {
		first, second = second, first
	}
	span, ok := ringOf(list, first, second)
	if !ok {
		return geometry.GeometryList{}, errors.Wrapf(geometry.ErrInvalidGeometry,
			"points %d and %d do not belong to one ring", first, second)
	}
	if first == second {
		first, second = span.Start, span.End-1
	}

	var x, y, values []float64
	for i := 0; i < list.Len(); i++ {
		x, y, values = append(x, list.X[i]), append(y, list.Y[i]), append(values, list.Values[i])
		if i < first || i >= second {
			continue
		}
		a, b := list.Point(i), list.Point(i+1)
		segments := int(math.Ceil(projection.Distance(a, b)/targetLength - 1e-9))
		for k := 1; k < segments; k++ {
			t := float64(k) / float64(segments)
			x = append(x, a.X+t*(b.X-a.X))
			y = append(y, a.Y+t*(b.Y-a.Y))
			values = append(values, list.Values[i]+t*(list.Values[i+1]-list.Values[i]))
		}
	}
	refined := geometry.NewGeometryList(x, y, values)
	refined.GeometrySeparator = list.GeometrySeparator
	refined.InnerOuterSeparator = list.InnerOuterSeparator
	return refined, nil
}

func ringOf(list geometry.GeometryList, first, second int) (geometry.Span, bool) {
	for _, span := range list.Rings() {
		if first >= span.Start && second < span.End {
			return span, true
		}
	}
	return geometry.Span{}, false
}
