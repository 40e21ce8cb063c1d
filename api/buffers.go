package api

import (
	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/state"
	"github.com/pkg/errors"
)

// Mesh2D is the flat form of a 2D mesh. Face nodes are padded with -1 to
// MaxNodesPerFace entries per face.
type Mesh2D struct {
	NumNodes        int
	NumEdges        int
	NumFaces        int
	MaxNodesPerFace int

	NodeX, NodeY []float64
	EdgeNodes    []int
	EdgeX, EdgeY []float64
	FaceNodes    []int
	NodesPerFace []int
	FaceX, FaceY []float64
}

// NewMesh2DBuffer allocates the arrays for the counts of dims
func NewMesh2DBuffer(dims Mesh2D) Mesh2D {
	dims.NodeX, dims.NodeY = make([]float64, dims.NumNodes), make([]float64, dims.NumNodes)
	dims.EdgeNodes = make([]int, 2*dims.NumEdges)
	dims.EdgeX, dims.EdgeY = make([]float64, dims.NumEdges), make([]float64, dims.NumEdges)
	dims.FaceNodes = make([]int, dims.NumFaces*dims.MaxNodesPerFace)
	dims.NodesPerFace = make([]int, dims.NumFaces)
	dims.FaceX, dims.FaceY = make([]float64, dims.NumFaces), make([]float64, dims.NumFaces)
	return dims
}

// Mesh1D is the flat form of a 1D network
type Mesh1D struct {
	NumNodes int
	NumEdges int

	NodeX, NodeY []float64
	EdgeNodes    []int
}

func NewMesh1DBuffer(dims Mesh1D) Mesh1D {
	dims.NodeX, dims.NodeY = make([]float64, dims.NumNodes), make([]float64, dims.NumNodes)
	dims.EdgeNodes = make([]int, 2*dims.NumEdges)
	return dims
}

// Contacts is the flat form of the contact pairs
type Contacts struct {
	NumContacts   int
	Mesh1DIndices []int
	Mesh2DIndices []int
}

func NewContactsBuffer(dims Contacts) Contacts {
	dims.Mesh1DIndices = make([]int, dims.NumContacts)
	dims.Mesh2DIndices = make([]int, dims.NumContacts)
	return dims
}

func checkSize(name string, have, want int) error {
	if have != want {
		return errors.Errorf("%s buffer holds %d entries, %d needed", name, have, want)
	}
	return nil
}

func edgesOf(edgeNodes []int) ([]mesh.Edge, error) {
	if len(edgeNodes)%2 != 0 {
		return nil, errors.Wrapf(geometry.ErrInvalidGeometry, "edge node array of odd length %d", len(edgeNodes))
	}
	edges := make([]mesh.Edge, len(edgeNodes)/2)
	for e := range edges {
		edges[e] = mesh.Edge{edgeNodes[2*e], edgeNodes[2*e+1]}
	}
	return edges, nil
}

func nodesOf(x, y []float64) ([]geometry.Point, error) {
	if len(x) != len(y) {
		return nil, errors.Wrapf(geometry.ErrInvalidGeometry, "node arrays differ in length: x=%d y=%d", len(x), len(y))
	}
	nodes := make([]geometry.Point, len(x))
	for i := range x {
		nodes[i] = geometry.NewPoint(x[i], y[i])
	}
	return nodes, nil
}

// ============================================================================
// Mesh2D
// ============================================================================

// Mesh2DSet replaces the 2D mesh of the instance
func (k *Kernel) Mesh2DSet(h state.Handle, buffer Mesh2D) Status {
	return k.mutate2D(h, func(m *mesh.Mesh2D) error {
		nodes, err := nodesOf(buffer.NodeX, buffer.NodeY)
		if err != nil {
			return err
		}
		edges, err := edgesOf(buffer.EdgeNodes)
		if err != nil {
			return err
		}
		return m.Set(nodes, edges)
	})
}

// Mesh2DGetDimensions fills the counts of dims
func (k *Kernel) Mesh2DGetDimensions(h state.Handle, dims *Mesh2D) Status {
	return k.with(h, func(inst *state.Instance) error {
		m := inst.Mesh2D
		dims.NumNodes, dims.NumEdges, dims.NumFaces = m.NumNodes(), m.NumEdges(), m.NumFaces()
		dims.MaxNodesPerFace = mesh.MaxNodesPerFace
		return nil
	})
}

// Mesh2DGetData copies the mesh into buffers sized from
// Mesh2DGetDimensions
func (k *Kernel) Mesh2DGetData(h state.Handle, buffer *Mesh2D) Status {
	return k.with(h, func(inst *state.Instance) error {
		m := inst.Mesh2D
		for _, c := range []struct {
			name       string
			have, want int
		}{
			{"node x", len(buffer.NodeX), m.NumNodes()},
			{"node y", len(buffer.NodeY), m.NumNodes()},
			{"edge nodes", len(buffer.EdgeNodes), 2 * m.NumEdges()},
			{"edge x", len(buffer.EdgeX), m.NumEdges()},
			{"edge y", len(buffer.EdgeY), m.NumEdges()},
			{"face nodes", len(buffer.FaceNodes), mesh.MaxNodesPerFace * m.NumFaces()},
			{"nodes per face", len(buffer.NodesPerFace), m.NumFaces()},
			{"face x", len(buffer.FaceX), m.NumFaces()},
			{"face y", len(buffer.FaceY), m.NumFaces()},
		} {
			if err := checkSize(c.name, c.have, c.want); err != nil {
				return err
			}
		}

		buffer.NumNodes, buffer.NumEdges, buffer.NumFaces = m.NumNodes(), m.NumEdges(), m.NumFaces()
		buffer.MaxNodesPerFace = mesh.MaxNodesPerFace
		for n, p := range m.Nodes {
			buffer.NodeX[n], buffer.NodeY[n] = p.X, p.Y
		}
		for e, mid := range m.EdgeMidpoints() {
			buffer.EdgeNodes[2*e], buffer.EdgeNodes[2*e+1] = m.Edges[e][0], m.Edges[e][1]
			buffer.EdgeX[e], buffer.EdgeY[e] = mid.X, mid.Y
		}
		for f, nodes := range m.FaceNodes {
			row := buffer.FaceNodes[f*mesh.MaxNodesPerFace : (f+1)*mesh.MaxNodesPerFace]
			for i := range row {
				row[i] = -1
			}
			copy(row, nodes)
			buffer.NodesPerFace[f] = len(nodes)
			buffer.FaceX[f], buffer.FaceY[f] = m.FaceMassCenters[f].X, m.FaceMassCenters[f].Y
		}
		return nil
	})
}

// ============================================================================
// Mesh1D
// ============================================================================

func (k *Kernel) Mesh1DSet(h state.Handle, buffer Mesh1D) Status {
	return k.with(h, func(inst *state.Instance) error {
		nodes, err := nodesOf(buffer.NodeX, buffer.NodeY)
		if err != nil {
			return err
		}
		edges, err := edgesOf(buffer.EdgeNodes)
		if err != nil {
			return err
		}
		return inst.Mesh1D.Set(nodes, edges)
	})
}

func (k *Kernel) Mesh1DGetDimensions(h state.Handle, dims *Mesh1D) Status {
	return k.with(h, func(inst *state.Instance) error {
		dims.NumNodes, dims.NumEdges = inst.Mesh1D.NumNodes(), inst.Mesh1D.NumEdges()
		return nil
	})
}

func (k *Kernel) Mesh1DGetData(h state.Handle, buffer *Mesh1D) Status {
	return k.with(h, func(inst *state.Instance) error {
		m := inst.Mesh1D
		if err := checkSize("1d node x", len(buffer.NodeX), m.NumNodes()); err != nil {
			return err
		}
		if err := checkSize("1d node y", len(buffer.NodeY), m.NumNodes()); err != nil {
			return err
		}
		if err := checkSize("1d edge nodes", len(buffer.EdgeNodes), 2*m.NumEdges()); err != nil {
			return err
		}
		buffer.NumNodes, buffer.NumEdges = m.NumNodes(), m.NumEdges()
		for n, p := range m.Nodes {
			buffer.NodeX[n], buffer.NodeY[n] = p.X, p.Y
		}
		for e, edge := range m.Edges {
			buffer.EdgeNodes[2*e], buffer.EdgeNodes[2*e+1] = edge[0], edge[1]
		}
		return nil
	})
}

// ============================================================================
// Contacts
// ============================================================================

func (k *Kernel) ContactsGetDimensions(h state.Handle, dims *Contacts) Status {
	return k.with(h, func(inst *state.Instance) error {
		dims.NumContacts = inst.Contacts.Len()
		return nil
	})
}

func (k *Kernel) ContactsGetData(h state.Handle, buffer *Contacts) Status {
	return k.with(h, func(inst *state.Instance) error {
		c := inst.Contacts
		if err := checkSize("contacts 1d", len(buffer.Mesh1DIndices), c.Len()); err != nil {
			return err
		}
		if err := checkSize("contacts 2d", len(buffer.Mesh2DIndices), c.Len()); err != nil {
			return err
		}
		buffer.NumContacts = c.Len()
		copy(buffer.Mesh1DIndices, c.Mesh1DIndices)
		copy(buffer.Mesh2DIndices, c.Mesh2DIndices)
		return nil
	})
}

func (k *Kernel) ContactsSet(h state.Handle, buffer Contacts) Status {
	return k.with(h, func(inst *state.Instance) error {
		return inst.Contacts.Set(buffer.Mesh1DIndices, buffer.Mesh2DIndices)
	})
}
