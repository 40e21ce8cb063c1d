package mesh

import (
	"math"
	"sort"
	"testing"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func polygonsOf(t *testing.T, x, y []float64) geometry.Polygons {
	t.Helper()
	polygons, err := geometry.NewPolygons(geometry.NewGeometryList(x, y, nil))
	require.NoError(t, err)
	return polygons
}

func pointsOf(x, y []float64) []geometry.Point {
	points := make([]geometry.Point, len(x))
	for i := range x {
		points[i] = geometry.NewPoint(x[i], y[i])
	}
	return points
}

func edgesOf(flat ...int) []Edge {
	edges := make([]Edge, len(flat)/2)
	for i := range edges {
		edges[i] = Edge{flat[2*i], flat[2*i+1]}
	}
	return edges
}

func meshOf(t *testing.T, x, y []float64, flat ...int) *Mesh2D {
	t.Helper()
	m := NewMesh2D(geometry.Cartesian)
	require.NoError(t, m.Set(pointsOf(x, y), edgesOf(flat...)))
	return m
}

// ============================================================================
// Delete in polygon
// ============================================================================

func TestMesh2D_DeleteInPolygon(t *testing.T) {
	// square through the circumcenters around nodes 14, 15, 20 and 21 of a 6x6 grid
	x := []float64{1.5, 3.5, 3.5, 1.5, 1.5}
	y := []float64{1.5, 1.5, 3.5, 3.5, 1.5}

	testCases := []struct {
		name     string
		option   DeleteOption
		invert   bool
		expected [3]int
	}{
		{"nodes inside", DeleteNodesInside, false, [3]int{32, 48, 16}},
		{"nodes outside", DeleteNodesInside, true, [3]int{4, 4, 1}},
		{"faces with circumcenter inside", DeleteFacesWithCircumcenterInside, false, [3]int{32, 48, 16}},
		{"faces completely inside", DeleteFacesCompletelyInside, false, [3]int{36, 60, 25}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := rectilinear(t, 6, 6)
			require.NoError(t, m.DeleteInPolygon(polygonsOf(t, x, y), tc.option, tc.invert))
			assert.Equal(t, tc.expected, counts(m))
			checkTopology(t, m)
		})
	}

	t.Run("faces completely inside a larger polygon", func(t *testing.T) {
		m := rectilinear(t, 6, 6)
		big := polygonsOf(t, []float64{0.5, 3.5, 3.5, 0.5, 0.5}, []float64{0.5, 0.5, 3.5, 3.5, 0.5})
		require.NoError(t, m.DeleteInPolygon(big, DeleteFacesCompletelyInside, false))
		// the 2x2 block of faces spanned by nodes 7..21 goes, its four inner edges with it
		assert.Equal(t, [3]int{35, 56, 21}, counts(m))
	})
}

func TestMesh2D_DeleteInEmptyPolygon(t *testing.T) {
	testCases := []struct {
		name     string
		invert   bool
		expected [3]int
	}{
		{"no-op", false, [3]int{25, 40, 16}},
		{"inverted clears the mesh", true, [3]int{0, 0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := rectilinear(t, 5, 5)
			require.NoError(t, m.DeleteInPolygon(nil, DeleteNodesInside, tc.invert))
			assert.Equal(t, tc.expected, counts(m))
		})
	}
}

func TestMesh2D_NodesInPolygon(t *testing.T) {
	square := polygonsOf(t, []float64{1.5, 2.5, 2.5, 1.5, 1.5}, []float64{1.5, 1.5, 2.5, 2.5, 1.5})
	testCases := []struct {
		name     string
		polygons geometry.Polygons
		inside   bool
		expected int
	}{
		{"inside", square, true, 1},
		{"outside", square, false, 8},
		{"empty polygon", nil, true, 9},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewRectilinear(3, 3, 1, 1, geometry.NewPoint(1, 1), geometry.Cartesian)
			require.NoError(t, err)
			assert.Len(t, m.NodesInPolygon(tc.polygons, tc.inside), tc.expected)
		})
	}
}

// ============================================================================
// Hanging edges
// ============================================================================

//	4*
//	|
//	3---2---5*
//	|   |
//	0---1
func TestMesh2D_HangingEdges(t *testing.T) {
	testCases := []struct {
		name     string
		x, y     []float64
		edges    []int
		expected []int
	}{
		{"crossed square", []float64{0, 1, 1, 0}, []float64{0, 0, 1, 1}, []int{0, 1, 1, 3, 2, 3, 2, 0}, []int{}},
		{"one pendant", []float64{0, 1, 1, 0, 0}, []float64{0, 0, 1, 1, 2},
			[]int{0, 1, 1, 3, 2, 3, 2, 0, 3, 4}, []int{4}},
		{"two pendants", []float64{0, 1, 1, 0, 0, 2}, []float64{0, 0, 1, 1, 2, 1},
			[]int{0, 1, 1, 3, 2, 3, 2, 0, 3, 4, 2, 5}, []int{4, 5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := meshOf(t, tc.x, tc.y, tc.edges...)
			assert.Equal(t, tc.expected, m.HangingEdges())
		})
	}
}

func TestMesh2D_DeleteHangingEdges(t *testing.T) {
	m := meshOf(t, []float64{0, 1, 1, 0, 0, 2}, []float64{0, 0, 1, 1, 2, 1},
		0, 1, 1, 2, 2, 3, 3, 0, 3, 4, 2, 5)
	require.NoError(t, m.DeleteHangingEdges())
	assert.Equal(t, [3]int{4, 4, 1}, counts(m))

	t.Run("restores the grid and is idempotent", func(t *testing.T) {
		m := rectilinear(t, 3, 3)
		assert.Empty(t, m.HangingEdges())

		n := m.InsertNode(geometry.NewPoint(3, 3))
		_, err := m.InsertEdge(8, n)
		require.NoError(t, err)
		assert.Len(t, m.HangingEdges(), 1)

		require.NoError(t, m.DeleteHangingEdges())
		assert.Equal(t, [3]int{9, 12, 4}, counts(m))
		once := m.Clone()

		require.NoError(t, m.DeleteHangingEdges())
		assert.Equal(t, once.Nodes, m.Nodes)
		assert.Equal(t, once.Edges, m.Edges)
	})

	t.Run("dangling chain", func(t *testing.T) {
		m := rectilinear(t, 2, 2)
		a := m.InsertNode(geometry.NewPoint(2, 1))
		b := m.InsertNode(geometry.NewPoint(3, 1))
		_, err := m.InsertEdge(3, a)
		require.NoError(t, err)
		_, err = m.InsertEdge(a, b)
		require.NoError(t, err)
		require.NoError(t, m.DeleteHangingEdges())
		assert.Equal(t, [3]int{4, 4, 1}, counts(m))
	})
}

// ============================================================================
// Merging
// ============================================================================

//	4---3
//	|   |
//	01--2
func TestMesh2D_MergeNodesInPolygon(t *testing.T) {
	testCases := []struct {
		name      string
		tolerance float64
		expected  int
	}{
		{"merges close pair", 1e-2, 4},
		{"tolerance below distance", 1e-4, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := meshOf(t, []float64{0, 1e-3, 1, 1, 0}, []float64{0, 0, 0, 1, 1},
				0, 1, 1, 2, 2, 3, 3, 4, 4, 0)
			polygon := polygonsOf(t, []float64{-1, 2, 2, -1, -1}, []float64{-1, -1, 2, 2, -1})
			require.NoError(t, m.MergeNodesInPolygon(polygon, tc.tolerance))
			assert.Equal(t, tc.expected, m.NumNodes())
			assert.Equal(t, 1, m.NumFaces())
			checkTopology(t, m)
		})
	}

	t.Run("nodes outside the polygon are kept", func(t *testing.T) {
		m := meshOf(t, []float64{0, 1e-3, 1, 1, 0}, []float64{0, 0, 0, 1, 1},
			0, 1, 1, 2, 2, 3, 3, 4, 4, 0)
		polygon := polygonsOf(t, []float64{0.5, 2, 2, 0.5, 0.5}, []float64{-1, -1, 2, 2, -1})
		require.NoError(t, m.MergeNodesInPolygon(polygon, 1e-2))
		assert.Equal(t, 5, m.NumNodes())
	})
}

func TestMesh2D_MergeTwoNodes(t *testing.T) {
	testCases := []struct {
		name          string
		first, second int
		faces         int
	}{
		{"boundary edge", 0, 1, 4},
		{"interior edge", 4, 5, 4},
		{"diagonal", 0, 4, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := rectilinear(t, 3, 3)
			require.NoError(t, m.MergeTwoNodes(tc.first, tc.second))
			assert.Equal(t, 8, m.NumNodes())
			assert.Equal(t, tc.faces, m.NumFaces())
			checkTopology(t, m)
		})
	}
}

// ============================================================================
// Flow edges and triangles
// ============================================================================

//	6---7---8
//	| /   \ |
//	3---4---5
//	| \   / |
//	0---1---2
func obtuseMesh(t *testing.T) *Mesh2D {
	return meshOf(t,
		[]float64{0, 1, 2, 0, 1.5, 2, 0, 1, 2},
		[]float64{0, 0, 0, 1, 1, 1, 2, 2, 2},
		0, 1, 1, 2, 3, 4, 4, 5, 6, 7, 7, 8, 0, 3, 1, 4, 2, 5, 3, 6, 4, 7, 5, 8, 1, 3, 1, 5, 3, 7, 5, 7)
}

func TestMesh2D_ObtuseTriangles(t *testing.T) {
	m := obtuseMesh(t)
	assert.Len(t, m.ObtuseTriangles(), 2)

	centers := m.ObtuseTriangleMassCenters()
	require.Len(t, centers, 2)
	ys := []float64{centers[0].Y, centers[1].Y}
	sort.Float64s(ys)
	assert.InDelta(t, 1.5, centers[0].X, 1e-12)
	assert.InDelta(t, 1.5, centers[1].X, 1e-12)
	assert.InDelta(t, 2.0/3, ys[0], 1e-12)
	assert.InDelta(t, 4.0/3, ys[1], 1e-12)
}

//	6---7---8
//	| 11|-12|
//	3-|-4-|-5
//	| 9-|-10|
//	0---1---2
func smallFlowMesh(t *testing.T) *Mesh2D {
	return meshOf(t,
		[]float64{0, 1, 2, 0, 1, 2, 0, 1, 2, 0.5, 1.5, 0.5, 1.5},
		[]float64{0, 0, 0, 1, 1, 1, 2, 2, 2, 0.5, 0.5, 1.5, 1.5},
		0, 1, 1, 2, 3, 4, 4, 5, 6, 7, 7, 8, 0, 3, 1, 4, 2, 5, 3, 6, 4, 7, 5, 8, 9, 10, 11, 12, 9, 11, 10, 12)
}

func TestMesh2D_SmallFlowEdges(t *testing.T) {
	testCases := []struct {
		threshold float64
		expected  int
	}{
		{0.9, 0},
		{1.0, 0},
		{1.1, 4},
	}

	for _, tc := range testCases {
		m := smallFlowMesh(t)
		assert.Len(t, m.SmallFlowEdges(tc.threshold), tc.expected, "threshold %g", tc.threshold)
	}

	centers := smallFlowMesh(t).SmallFlowEdgeCenters(1.1)
	assert.Equal(t, []geometry.Point{{X: 0.5, Y: 1}, {X: 1.5, Y: 1}, {X: 1, Y: 0.5}, {X: 1, Y: 1.5}}, centers)
}

func TestMesh2D_DeleteSmallFlowEdgesAndSmallTriangles(t *testing.T) {
	t.Run("small flow edge", func(t *testing.T) {
		//	3---4---5
		//	| 6-|-7 |
		//	0---1---2
		m := meshOf(t,
			[]float64{0, 1, 2, 0, 1, 2, 0.5, 1.5},
			[]float64{0, 0, 0, 1, 1, 1, 0.5, 0.5},
			0, 1, 1, 2, 3, 4, 4, 5, 0, 3, 1, 4, 2, 5, 6, 7)
		require.NoError(t, m.DeleteSmallFlowEdgesAndSmallTriangles(1.1, 0.01))
		assert.Equal(t, [3]int{8, 7, 1}, counts(m))
	})

	t.Run("triangle with outside circumcenter", func(t *testing.T) {
		//	3---4---5\
		//	|   |   | 6
		//	0---1---2/
		m := meshOf(t,
			[]float64{0, 1, 2, 0, 1, 2, 2.1},
			[]float64{0, 0, 0, 1, 1, 1, 0.5},
			0, 1, 1, 2, 3, 4, 4, 5, 0, 3, 1, 4, 2, 5, 5, 6, 6, 2)
		require.Equal(t, 3, m.NumFaces())
		assert.InDelta(t, 2.0, m.FaceCircumcenters[2].X, 1e-12)
		assert.InDelta(t, 0.5, m.FaceCircumcenters[2].Y, 1e-12)

		require.NoError(t, m.DeleteSmallFlowEdgesAndSmallTriangles(1.0, 0.01))
		assert.Equal(t, [3]int{7, 8, 2}, counts(m))
	})

	t.Run("small boundary triangle collapses", func(t *testing.T) {
		m := meshOf(t,
			[]float64{0, 1, 2, 0, 1, 2, 2.1},
			[]float64{0, 0, 0, 1, 1, 1, 0.5},
			0, 1, 1, 2, 3, 4, 4, 5, 0, 3, 1, 4, 2, 5, 5, 6, 6, 2)
		require.NoError(t, m.DeleteSmallFlowEdgesAndSmallTriangles(0.1, 0.2))
		assert.Equal(t, [3]int{6, 7, 2}, counts(m))
		checkTopology(t, m)
	})
}

// ============================================================================
// Flips
// ============================================================================

// A 3x3 grid with every diagonal through the center node
func centralFan(t *testing.T) *Mesh2D {
	m := rectilinear(t, 3, 3)
	for _, corner := range []int{0, 2, 6, 8} {
		_, err := m.InsertEdge(corner, 4)
		require.NoError(t, err)
	}
	require.Equal(t, 8, m.NumFaces())
	return m
}

func TestMesh2D_FlipEdges(t *testing.T) {
	m := centralFan(t)
	require.Len(t, m.NodeEdges[4], 8)

	require.NoError(t, m.FlipEdges(false, false, nil, nil))
	assert.Equal(t, 8, m.NumFaces())
	assert.Equal(t, 16, m.NumEdges())
	assert.Less(t, len(m.NodeEdges[4]), 8)
	assert.Equal(t, -1, m.FindEdge(0, 4))
	assert.GreaterOrEqual(t, m.FindEdge(1, 3), 0)
	checkTopology(t, m)

	t.Run("no flip outside the selection", func(t *testing.T) {
		m := centralFan(t)
		far := polygonsOf(t, []float64{10, 11, 11, 10, 10}, []float64{10, 10, 11, 11, 10})
		require.NoError(t, m.FlipEdges(false, false, far, nil))
		assert.Len(t, m.NodeEdges[4], 8)
	})

	t.Run("balanced quad diagonal stays", func(t *testing.T) {
		m := rectilinear(t, 2, 2)
		_, err := m.InsertEdge(0, 3)
		require.NoError(t, err)
		require.NoError(t, m.FlipEdges(false, false, nil, nil))
		assert.GreaterOrEqual(t, m.FindEdge(0, 3), 0)
	})

	t.Run("triangulates and projects", func(t *testing.T) {
		m := rectilinear(t, 3, 3)
		land := [][]geometry.Point{pointsOf(
			[]float64{-0.1, 2.1, 2.1, -0.1, -0.1},
			[]float64{-0.1, -0.1, 2.1, 2.1, -0.1})}
		require.NoError(t, m.FlipEdges(true, true, nil, land))
		for _, nodes := range m.FaceNodes {
			assert.Len(t, nodes, 3)
		}
		assert.Equal(t, 8, m.NumFaces())
		for _, n := range m.BoundaryNodes() {
			p := m.Nodes[n]
			gap := math.Min(math.Min(math.Abs(p.X+0.1), math.Abs(p.X-2.1)),
				math.Min(math.Abs(p.Y+0.1), math.Abs(p.Y-2.1)))
			assert.InDelta(t, 0, gap, 1e-12, "node %d at %v", n, p)
		}
	})
}

func TestMesh2D_FlipKeepsLocalTopology(t *testing.T) {
	m := centralFan(t)
	e := m.FindEdge(0, 4)
	require.GreaterOrEqual(t, e, 0)
	c, d, ok := m.flipCandidate(e)
	require.True(t, ok)
	assert.ElementsMatch(t, []int{1, 3}, []int{c, d})

	// no Administrate between flips: the in-place update alone must hold
	m.flip(e, c, d)
	assert.Equal(t, -1, m.FindEdge(0, 4))
	assert.Equal(t, e, m.FindEdge(1, 3))
	assert.NotContains(t, m.NodeEdges[0], e)
	assert.NotContains(t, m.NodeEdges[4], e)
	assert.Contains(t, m.NodeEdges[1], e)
	assert.Contains(t, m.NodeEdges[3], e)
	checkTopology(t, m)

	faces := m.EdgeFaces(e)
	require.Len(t, faces, 2)
	for _, f := range faces {
		nodes := m.FaceNodes[f]
		require.Len(t, nodes, 3)
		assert.Greater(t, geometry.Orientation(m.Nodes[nodes[0]], m.Nodes[nodes[1]], m.Nodes[nodes[2]]), 0.0,
			"face %d %v", f, nodes)
		for _, side := range m.FaceEdges[f] {
			assert.Contains(t, m.EdgeFaces(side), f, "face %d side %d", f, side)
		}
	}
	assert.Equal(t, faces[0], m.Connector.Neighbor(faces[1], e))
	var corners [][]int
	for _, f := range faces {
		nodes := append([]int(nil), m.FaceNodes[f]...)
		sort.Ints(nodes)
		corners = append(corners, nodes)
	}
	assert.ElementsMatch(t, [][]int{{0, 1, 3}, {1, 3, 4}}, corners)
}

// ============================================================================
// Boundaries
// ============================================================================

func TestMesh2D_BoundariesAsPolygons(t *testing.T) {
	m := rectilinear(t, 3, 3)
	g := m.BoundariesAsPolygons()
	assert.Equal(t, []float64{0, 0, 0, 1, 2, 2, 2, 1, 0}, g.X)
	assert.Equal(t, []float64{0, 1, 2, 2, 2, 1, 0, 0, 0}, g.Y)

	t.Run("two meshes give two rings", func(t *testing.T) {
		m := meshOf(t,
			[]float64{0, 1, 1, 0, 5, 6, 6, 5},
			[]float64{0, 0, 1, 1, 0, 0, 1, 1},
			0, 1, 1, 2, 2, 3, 3, 0, 4, 5, 5, 6, 6, 7, 7, 4)
		g := m.BoundariesAsPolygons()
		rings := g.Rings()
		require.Len(t, rings, 2)
		assert.Equal(t, geometry.GeometrySeparator, g.X[5])
	})
}
