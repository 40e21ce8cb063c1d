package mesh

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/pkg/errors"
)

// NewRectilinear builds a rows×cols grid of nodes with spacing dx, dy from
// origin. Nodes are numbered row by row; horizontal edges come first, then
// vertical ones, so faces are numbered row by row as well.
func NewRectilinear(rows, cols int, dx, dy float64, origin geometry.Point, projection geometry.Projection) (*Mesh2D, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.Wrapf(geometry.ErrInvalidGeometry, "grid of %d×%d nodes", rows, cols)
	}
	if dx <= 0 || dy <= 0 {
		return nil, errors.Wrapf(geometry.ErrInvalidGeometry, "grid spacing %g×%g", dx, dy)
	}
	nodes := make([]geometry.Point, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			nodes = append(nodes, geometry.NewPoint(origin.X+float64(c)*dx, origin.Y+float64(r)*dy))
		}
	}
	edges := make([]Edge, 0, rows*(cols-1)+cols*(rows-1))
	for r := 0; r < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			edges = append(edges, Edge{r*cols + c, r*cols + c + 1})
		}
	}
	for r := 0; r+1 < rows; r++ {
		for c := 0; c < cols; c++ {
			edges = append(edges, Edge{r*cols + c, (r+1)*cols + c})
		}
	}
	m := NewMesh2D(projection)
	if err := m.Set(nodes, edges); err != nil {
		return nil, err
	}
	return m, nil
}
