package api

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/state"
	"github.com/pkg/errors"
)

func (k *Kernel) Mesh2DInsertNode(h state.Handle, x, y float64) (int, Status) {
	index := -1
	status := k.mutate2D(h, func(m *mesh.Mesh2D) error {
		if !geometry.IsValid(geometry.NewPoint(x, y)) {
			return errors.Wrapf(geometry.ErrInvalidGeometry, "node at (%g, %g)", x, y)
		}
		index = m.InsertNode(geometry.NewPoint(x, y))
		return nil
	})
	return index, status
}

func (k *Kernel) Mesh2DInsertEdge(h state.Handle, a, b int) (int, Status) {
	index := -1
	status := k.mutate2D(h, func(m *mesh.Mesh2D) (err error) {
		index, err = m.InsertEdge(a, b)
		return err
	})
	return index, status
}

func (k *Kernel) Mesh2DDeleteNode(h state.Handle, n int) Status {
	if err := checkIndex("node", n); err != nil {
		return k.status(err)
	}
	return k.mutate2D(h, func(m *mesh.Mesh2D) error { return m.DeleteNode(n) })
}

func (k *Kernel) Mesh2DMoveNode(h state.Handle, x, y float64, n int) Status {
	if err := checkIndex("node", n); err != nil {
		return k.status(err)
	}
	return k.mutate2D(h, func(m *mesh.Mesh2D) error { return m.MoveNode(geometry.NewPoint(x, y), n) })
}

func (k *Kernel) Mesh2DDeleteEdge(h state.Handle, x, y float64) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error { return m.DeleteEdgeNear(geometry.NewPoint(x, y)) })
}

func (k *Kernel) Mesh2DGetEdge(h state.Handle, x, y float64) (int, Status) {
	index := -1
	status := k.with(h, func(inst *state.Instance) (err error) {
		index, err = inst.Mesh2D.FindEdgeNear(geometry.NewPoint(x, y))
		return err
	})
	return index, status
}

func (k *Kernel) Mesh2DGetNodeIndex(h state.Handle, x, y, searchRadius float64) (int, Status) {
	index := -1
	status := k.with(h, func(inst *state.Instance) (err error) {
		index, err = inst.Mesh2D.FindNodeNear(geometry.NewPoint(x, y), searchRadius)
		return err
	})
	return index, status
}

// Mesh2DDelete removes the mesh inside (or, inverted, outside) polygon
func (k *Kernel) Mesh2DDelete(h state.Handle, polygon geometry.GeometryList, option mesh.DeleteOption, invert bool) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		polygons, err := polygonsOf(polygon)
		if err != nil {
			return err
		}
		return m.DeleteInPolygon(polygons, option, invert)
	})
}

func (k *Kernel) Mesh2DGetNodesInPolygons(h state.Handle, polygon geometry.GeometryList, inside bool) ([]int, Status) {
	var nodes []int
	status := k.with(h, func(inst *state.Instance) error {
		polygons, err := polygonsOf(polygon)
		if err != nil {
			return err
		}
		nodes = inst.Mesh2D.NodesInPolygon(polygons, inside)
		return nil
	})
	return nodes, status
}

func (k *Kernel) Mesh2DMergeNodes(h state.Handle, polygon geometry.GeometryList, mergingDistance float64) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		polygons, err := polygonsOf(polygon)
		if err != nil {
			return err
		}
		return m.MergeNodesInPolygon(polygons, mergingDistance)
	})
}

func (k *Kernel) Mesh2DMergeTwoNodes(h state.Handle, a, b int) Status {
	if err := checkIndex("first node", a); err != nil {
		return k.status(err)
	}
	if err := checkIndex("second node", b); err != nil {
		return k.status(err)
	}
	return k.mutate2D(h, func(m *mesh.Mesh2D) error { return m.MergeTwoNodes(a, b) })
}

func (k *Kernel) Mesh2DCountHangingEdges(h state.Handle) (int, Status) {
	count := 0
	status := k.with(h, func(inst *state.Instance) error {
		count = len(inst.Mesh2D.HangingEdges())
		return nil
	})
	return count, status
}

func (k *Kernel) Mesh2DGetHangingEdges(h state.Handle) ([]int, Status) {
	var edges []int
	status := k.with(h, func(inst *state.Instance) error {
		edges = inst.Mesh2D.HangingEdges()
		return nil
	})
	return edges, status
}

func (k *Kernel) Mesh2DDeleteHangingEdges(h state.Handle) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error { return m.DeleteHangingEdges() })
}

func (k *Kernel) Mesh2DGetObtuseTrianglesMassCenters(h state.Handle) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	status := k.with(h, func(inst *state.Instance) error {
		out = geometry.FromPoints(inst.Mesh2D.ObtuseTriangleMassCenters())
		return nil
	})
	return out, status
}

func (k *Kernel) Mesh2DGetSmallFlowEdgeCenters(h state.Handle, threshold float64) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	status := k.with(h, func(inst *state.Instance) error {
		out = geometry.FromPoints(inst.Mesh2D.SmallFlowEdgeCenters(threshold))
		return nil
	})
	return out, status
}

func (k *Kernel) Mesh2DDeleteSmallFlowEdgesAndSmallTriangles(h state.Handle, threshold, minFractionalArea float64) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		return m.DeleteSmallFlowEdgesAndSmallTriangles(threshold, minFractionalArea)
	})
}

// Mesh2DFlipEdges balances node valences by flipping diagonals inside
// selecting, optionally after triangulating every face
func (k *Kernel) Mesh2DFlipEdges(h state.Handle, triangulate, projectToLand bool,
	selecting, land geometry.GeometryList) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		polygons, err := polygonsOf(selecting)
		if err != nil {
			return err
		}
		lines, err := polylinesOf(land)
		if err != nil {
			return err
		}
		return m.FlipEdges(triangulate, projectToLand, polygons, lines)
	})
}

func (k *Kernel) Mesh2DGetBoundariesAsPolygons(h state.Handle) (geometry.GeometryList, Status) {
	var out geometry.GeometryList
	status := k.with(h, func(inst *state.Instance) error {
		out = inst.Mesh2D.BoundariesAsPolygons()
		return nil
	})
	return out, status
}

// Mesh2DMakeRectilinear replaces the mesh with a grid of rows×cols nodes
func (k *Kernel) Mesh2DMakeRectilinear(h state.Handle, rows, cols int, dx, dy, originX, originY float64) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		grid, err := mesh.NewRectilinear(rows, cols, dx, dy, geometry.NewPoint(originX, originY), m.Projection)
		if err != nil {
			return err
		}
		*m = *grid
		return nil
	})
}
