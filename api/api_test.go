package api

import (
	"sync"
	"testing"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/interpolation"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/orthogonalization"
	"github.com/notargets/MeshKernel/refinement"
	"github.com/notargets/MeshKernel/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T) (*Kernel, state.Handle) {
	t.Helper()
	k := New()
	h, status := k.AllocateState(false)
	require.Equal(t, Success, status)
	return k, h
}

// getMesh2D pulls the mesh with the two-phase protocol
func getMesh2D(t *testing.T, k *Kernel, h state.Handle) Mesh2D {
	t.Helper()
	var dims Mesh2D
	require.Equal(t, Success, k.Mesh2DGetDimensions(h, &dims), k.GetError())
	buffer := NewMesh2DBuffer(dims)
	require.Equal(t, Success, k.Mesh2DGetData(h, &buffer), k.GetError())
	return buffer
}

func counts(b Mesh2D) [3]int {
	return [3]int{b.NumNodes, b.NumEdges, b.NumFaces}
}

func unitSquare() Mesh2D {
	return Mesh2D{
		NodeX:     []float64{0, 1, 1, 0},
		NodeY:     []float64{0, 0, 1, 1},
		EdgeNodes: []int{0, 1, 1, 2, 2, 3, 3, 0},
	}
}

func rectilinear(t *testing.T, k *Kernel, h state.Handle, n int) {
	t.Helper()
	require.Equal(t, Success, k.Mesh2DMakeRectilinear(h, n, n, 1, 1, 0, 0), k.GetError())
}

// ============================================================================
// Boundary contract
// ============================================================================

func TestVersions(t *testing.T) {
	assert.NotEmpty(t, GetVersion())
	assert.NotEmpty(t, BindingVersion)
	assert.Equal(t, "InvalidGeometry", InvalidGeometry.String())
	assert.Equal(t, "Success", Success.String())
}

func TestMesh2D_TwoPhaseGet(t *testing.T) {
	k, h := newState(t)
	require.Equal(t, Success, k.Mesh2DSet(h, unitSquare()))

	out := getMesh2D(t, k, h)
	assert.Equal(t, [3]int{4, 4, 1}, counts(out))
	assert.Equal(t, mesh.MaxNodesPerFace, out.MaxNodesPerFace)
	assert.Equal(t, []float64{0, 1, 1, 0}, out.NodeX)
	assert.Equal(t, []int{0, 1, 1, 2, 2, 3, 3, 0}, out.EdgeNodes)
	assert.Equal(t, []float64{0.5, 1, 0.5, 0}, out.EdgeX)
	assert.Equal(t, []float64{0, 0.5, 1, 0.5}, out.EdgeY)
	assert.Equal(t, []int{0, 1, 2, 3, -1, -1}, out.FaceNodes)
	assert.Equal(t, []int{4}, out.NodesPerFace)
	assert.Equal(t, []float64{0.5}, out.FaceX)
	assert.Equal(t, []float64{0.5}, out.FaceY)
}

func TestMesh2D_GetDataRejectsWrongSizes(t *testing.T) {
	k, h := newState(t)
	require.Equal(t, Success, k.Mesh2DSet(h, unitSquare()))

	var dims Mesh2D
	require.Equal(t, Success, k.Mesh2DGetDimensions(h, &dims))
	dims.NumEdges = 3
	buffer := NewMesh2DBuffer(dims)
	assert.Equal(t, Exception, k.Mesh2DGetData(h, &buffer))
	assert.Contains(t, k.GetError(), "edge nodes")
}

func TestMesh2D_FailedCallsKeepTheMesh(t *testing.T) {
	k, h := newState(t)
	require.Equal(t, Success, k.Mesh2DSet(h, unitSquare()))

	testCases := []struct {
		name     string
		call     func() Status
		expected Status
	}{
		{"edge out of range", func() Status {
			return k.Mesh2DSet(h, Mesh2D{NodeX: []float64{0}, NodeY: []float64{0}, EdgeNodes: []int{0, 3}})
		}, InvalidGeometry},
		{"odd edge array", func() Status {
			return k.Mesh2DSet(h, Mesh2D{NodeX: []float64{0, 1}, NodeY: []float64{0, 1}, EdgeNodes: []int{0}})
		}, InvalidGeometry},
		{"delete negative node", func() Status { return k.Mesh2DDeleteNode(h, -1) }, Exception},
		{"move negative node", func() Status { return k.Mesh2DMoveNode(h, 5, 5, -1) }, Exception},
		{"delete node out of range", func() Status { return k.Mesh2DDeleteNode(h, 10) }, Exception},
		{"edge to itself", func() Status {
			_, status := k.Mesh2DInsertEdge(h, 1, 1)
			return status
		}, InvalidGeometry},
		{"open polygon", func() Status {
			return k.Mesh2DMakeMeshFromPolygon(h, geometry.NewGeometryList([]float64{0, 1, 1}, []float64{0, 0, 1}, nil))
		}, InvalidGeometry},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.call())
			assert.NotEmpty(t, k.GetError())
			out := getMesh2D(t, k, h)
			assert.Equal(t, [3]int{4, 4, 1}, counts(out))
			assert.Equal(t, []float64{0, 0, 1, 1}, out.NodeY)
		})
	}
}

func TestState_StaleHandle(t *testing.T) {
	k, h := newState(t)
	require.Equal(t, Success, k.DeallocateState(h))
	assert.Equal(t, Exception, k.Mesh2DSet(h, unitSquare()))
	assert.Contains(t, k.GetError(), "handle")
	assert.Equal(t, Exception, k.DeallocateState(h))
}

// ============================================================================
// Editing
// ============================================================================

func TestKernel_SeparateInstancesConcurrently(t *testing.T) {
	k := New()
	handles := make([]state.Handle, 4)
	for i := range handles {
		h, status := k.AllocateState(false)
		require.Equal(t, Success, status)
		rectilinear(t, k, h, 3)
		handles[i] = h
	}

	const rounds = 50
	failures := make([]int, len(handles))
	final := make([]Status, len(handles))
	var wg sync.WaitGroup
	for i, h := range handles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				if k.Mesh2DDeleteNode(h, -1) == Exception {
					failures[i]++
				}
				assert.NotEmpty(t, k.GetError())
			}
			final[i] = k.Mesh2DDeleteNode(h, 4)
		}()
	}
	wg.Wait()

	for i, h := range handles {
		assert.Equal(t, rounds, failures[i])
		assert.Equal(t, Success, final[i])
		assert.Equal(t, 8, getMesh2D(t, k, h).NumNodes)
	}
}

func TestMesh2D_InsertDiagonal(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 2)

	e, status := k.Mesh2DInsertEdge(h, 0, 3)
	require.Equal(t, Success, status)
	assert.Equal(t, 4, e)
	assert.Equal(t, [3]int{4, 5, 2}, counts(getMesh2D(t, k, h)))
}

func TestMesh2D_HangingEdges(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 3)

	count, status := k.Mesh2DCountHangingEdges(h)
	require.Equal(t, Success, status)
	assert.Zero(t, count)

	n, status := k.Mesh2DInsertNode(h, -1, -1)
	require.Equal(t, Success, status)
	assert.Equal(t, 9, n)
	_, status = k.Mesh2DInsertEdge(h, 0, n)
	require.Equal(t, Success, status)

	edges, status := k.Mesh2DGetHangingEdges(h)
	require.Equal(t, Success, status)
	assert.Equal(t, []int{12}, edges)

	require.Equal(t, Success, k.Mesh2DDeleteHangingEdges(h))
	assert.Equal(t, [3]int{9, 12, 4}, counts(getMesh2D(t, k, h)))
}

func TestMesh2D_DeleteEverythingOutsideEmptyPolygon(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 3)

	empty := geometry.NewGeometryList(nil, nil, nil)
	require.Equal(t, Success, k.Mesh2DDelete(h, empty, mesh.DeleteNodesInside, false))
	assert.Equal(t, [3]int{9, 12, 4}, counts(getMesh2D(t, k, h)))

	require.Equal(t, Success, k.Mesh2DDelete(h, empty, mesh.DeleteNodesInside, true))
	assert.Equal(t, [3]int{0, 0, 0}, counts(getMesh2D(t, k, h)))
}

func TestMesh2D_Queries(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 3)

	e, status := k.Mesh2DGetEdge(h, 0.5, -0.1)
	require.Equal(t, Success, status)
	assert.Equal(t, 0, e)

	n, status := k.Mesh2DGetNodeIndex(h, 2.05, 1.95, 0.1)
	require.Equal(t, Success, status)
	assert.Equal(t, 8, n)

	_, status = k.Mesh2DGetNodeIndex(h, 5, 5, 0.1)
	assert.Equal(t, Exception, status)

	boundary, status := k.Mesh2DGetBoundariesAsPolygons(h)
	require.Equal(t, Success, status)
	assert.Equal(t, 9, boundary.Len())
}

// ============================================================================
// Engines
// ============================================================================

func TestContacts_TwoPhaseGet(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 6)
	require.Equal(t, Success, k.Mesh1DSet(h, Mesh1D{
		NodeX:     []float64{0.75, 1.75, 2.75, 3.75, 4.75},
		NodeY:     []float64{0.25, 1.25, 2.25, 3.25, 4.25},
		EdgeNodes: []int{0, 1, 1, 2, 2, 3, 3, 4},
	}))

	var m1 Mesh1D
	require.Equal(t, Success, k.Mesh1DGetDimensions(h, &m1))
	m1 = NewMesh1DBuffer(m1)
	require.Equal(t, Success, k.Mesh1DGetData(h, &m1))
	assert.Equal(t, []int{0, 1, 1, 2, 2, 3, 3, 4}, m1.EdgeNodes)

	require.Equal(t, Success, k.ContactsComputeMultiple(h, []int{1, 1, 1, 1, 1}))

	var dims Contacts
	require.Equal(t, Success, k.ContactsGetDimensions(h, &dims))
	contacts := NewContactsBuffer(dims)
	require.Equal(t, Success, k.ContactsGetData(h, &contacts))
	assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3, 3}, contacts.Mesh1DIndices)
	assert.Equal(t, []int{0, 1, 6, 7, 12, 13, 18, 19}, contacts.Mesh2DIndices)

	assert.Equal(t, Exception, k.ContactsComputeMultiple(h, []int{1}))
}

func TestInterpolation_OutsideHullIsMissing(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 3)

	samples := geometry.NewGeometryList([]float64{-0.5, 1, -0.5}, []float64{-0.5, -0.5, 1}, []float64{2, 2, 2})
	out, status := k.Mesh2DTriangulationInterpolation(h, samples, interpolation.Nodes)
	require.Equal(t, Success, status, k.GetError())
	require.Equal(t, 9, out.Len())
	assert.InDelta(t, 2.0, out.Values[0], 1e-12)
	assert.Equal(t, geometry.MissingValue, out.Values[8])
	assert.Equal(t, 2.0, out.X[8])

	out, status = k.Mesh2DAveragingInterpolation(h, samples, interpolation.Nodes, interpolation.Max, 2, 1)
	require.Equal(t, Success, status, k.GetError())
	assert.Equal(t, 2.0, out.Values[0])
}

func TestOrthogonalization_Staged(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 3)
	empty := geometry.NewGeometryList(nil, nil, nil)

	_, status := k.Mesh2DRunOrthogonalization(h)
	assert.Equal(t, Exception, status)

	require.Equal(t, Success, k.Mesh2DInitializeOrthogonalization(h, orthogonalization.ToOriginalNetBoundary,
		orthogonalization.DefaultParameters(), empty, empty), k.GetError())
	result, status := k.Mesh2DRunOrthogonalization(h)
	require.Equal(t, Success, status, k.GetError())
	assert.Equal(t, orthogonalization.Converged, result)
	require.Equal(t, Success, k.Mesh2DDeleteOrthogonalization(h))

	orthogonality, status := k.Mesh2DGetOrthogonality(h)
	require.Equal(t, Success, status)
	assert.Equal(t, 12, orthogonality.Len())
	assert.InDelta(t, 0, orthogonality.Values[2], 1e-12)

	bad := orthogonalization.DefaultParameters()
	bad.OuterIterations = 0
	assert.Equal(t, Exception, k.Mesh2DComputeOrthogonalization(h, orthogonalization.WholeMesh, bad, empty, empty))
}

func TestGeneration(t *testing.T) {
	k, h := newState(t)
	hexagon := geometry.NewGeometryList(
		[]float64{0, 0.5, 1.5, 2, 1.5, 0.5, 0},
		[]float64{1, 0, 0, 1, 2, 2, 1}, nil)
	require.Equal(t, Success, k.Mesh2DMakeMeshFromPolygon(h, hexagon), k.GetError())
	assert.Equal(t, [3]int{7, 12, 6}, counts(getMesh2D(t, k, h)))

	_, status := k.PolygonRefine(h, hexagon, -1, 2, 0.1)
	assert.Equal(t, Exception, status)
	_, status = k.GetSplines(hexagon, -2)
	assert.Equal(t, Exception, status)
}

func TestRefinement_NoSamplesIsAnError(t *testing.T) {
	k, h := newState(t)
	rectilinear(t, k, h, 3)
	before := counts(getMesh2D(t, k, h))

	far := geometry.NewGeometryList([]float64{50}, []float64{50}, []float64{3})
	for _, samples := range []geometry.GeometryList{{}, far} {
		status := k.Mesh2DRefineBasedOnSamples(h, samples, 1, 1, refinement.DefaultParameters())
		assert.Equal(t, Exception, status)
		assert.Contains(t, k.GetError(), "no samples found")
		assert.Equal(t, before, counts(getMesh2D(t, k, h)))
	}
}

func TestPolygonQueries(t *testing.T) {
	k := New()
	polyline := geometry.NewGeometryList([]float64{0, 1, 2}, []float64{0, 1, 0}, nil)
	splines, status := k.GetSplines(polyline, 2)
	require.Equal(t, Success, status, k.GetError())
	assert.Equal(t, 7, splines.Len())

	square := geometry.NewGeometryList(
		[]float64{0, 2, 2, 0, 0},
		[]float64{0, 0, 2, 2, 0}, nil)
	points := geometry.NewGeometryList([]float64{1, 3}, []float64{1, 1}, nil)
	included, status := k.PolygonGetIncludedPoints(square, points)
	require.Equal(t, Success, status, k.GetError())
	assert.Equal(t, []float64{1, 0}, included.Values)
}
