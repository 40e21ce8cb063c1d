package orthogonalization

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/notargets/MeshKernel/mesh"
	"github.com/notargets/MeshKernel/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// convergenceTolerance is relative to the mesh extent
	convergenceTolerance = 1e-9
	// cornerCosine marks boundary nodes that turn by more than ~16° as
	// fixed corners
	cornerCosine         = -0.96
	regularization       = 1e-8
)

// State of an Orthogonalizer
type State int

const (
	Idle State = iota
	Initialized
	Iterating
	Converged
	MaxIterationsReached
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Initialized:
		return "Initialized"
	case Iterating:
		return "Iterating"
	case Converged:
		return "Converged"
	case MaxIterationsReached:
		return "MaxIterationsReached"
	default:
		return "Unknown"
	}
}

// Orthogonalizer moves mesh nodes so that edges become perpendicular to
// the links between neighbouring face circumcenters, blended with a
// smoothing term
type Orthogonalizer struct {
	mesh      *mesh.Mesh2D
	option    ProjectToLandBoundary
	params    Parameters
	selecting geometry.Polygons
	land      [][]geometry.Point

	state State

	boundary   [][]geometry.Point // boundary rings at initialization
	outerRing  []bool
	ringOfNode map[int]int
	movable    []bool
	corner     []bool

	// Displacement is the largest node move of the last outer pass
	Displacement float64
}

func New(m *mesh.Mesh2D, option ProjectToLandBoundary, params Parameters,
	selecting geometry.Polygons, land [][]geometry.Point) (*Orthogonalizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if option < NotProjectToLandBoundary || option > WholeMesh {
		return nil, errors.Wrapf(ErrInvalidParameters, "project to land boundary option %d", option)
	}
	return &Orthogonalizer{
		mesh:      m,
		option:    option,
		params:    params,
		selecting: selecting,
		land:      land,
	}, nil
}

func (o *Orthogonalizer) State() State { return o.state }

// Initialize records the boundary the nodes will slide along and the nodes
// allowed to move
func (o *Orthogonalizer) Initialize() error {
	if o.state == Iterating {
		return errors.New("orthogonalization already running")
	}
	m := o.mesh
	o.boundary, o.outerRing = nil, nil
	o.ringOfNode = make(map[int]int)
	o.corner = make([]bool, m.NumNodes())
	for r, ring := range m.BoundaryRings() {
		points := make([]geometry.Point, len(ring))
		for i, n := range ring {
			points[i] = m.Nodes[n]
		}
		o.boundary = append(o.boundary, points)
		o.outerRing = append(o.outerRing, geometry.SignedArea(geometry.OpenRing(points)) < 0)

		for i := 0; i+1 < len(ring); i++ {
			n := ring[i]
			if _, seen := o.ringOfNode[n]; seen {
				o.corner[n] = true
				continue
			}
			o.ringOfNode[n] = r
			prev := ring[len(ring)-2]
			if i > 0 {
				prev = ring[i-1]
			}
			u, v := r2.Sub(m.Nodes[prev], m.Nodes[n]), r2.Sub(m.Nodes[ring[i+1]], m.Nodes[n])
			o.corner[n] = r2.Dot(u, v) > cornerCosine*r2.Norm(u)*r2.Norm(v)
		}
	}

	o.movable = make([]bool, m.NumNodes())
	for n, p := range m.Nodes {
		o.movable[n] = len(m.NodeEdges[n]) > 0 && o.selecting.Contains(p)
	}
	o.state = Initialized
	return nil
}

// Compute runs the outer iterations, each made of boundary and interior
// sub-passes
func (o *Orthogonalizer) Compute() error {
	if o.state != Iterating && len(o.movable) != o.mesh.NumNodes() {
		// the mesh changed size since Initialize
		o.state = Idle
	}
	switch o.state {
	case Iterating:
		return errors.New("orthogonalization already running")
	case Idle:
		if err := o.Initialize(); err != nil {
			return err
		}
	}
	o.state = Iterating
	if err := o.iterate(); err != nil {
		o.state = Initialized
		return err
	}
	return nil
}

func (o *Orthogonalizer) iterate() error {
	m := o.mesh
	if m.NumEdges() == 0 {
		o.state = Converged
		return nil
	}
	low, high := geometry.BoundingBox(m.Nodes)
	extent := math.Max(high.X-low.X, high.Y-low.Y)

	var boundaryNodes, interiorNodes []int
	for n := range m.Nodes {
		if _, onBoundary := o.ringOfNode[n]; onBoundary {
			boundaryNodes = append(boundaryNodes, n)
		} else {
			interiorNodes = append(interiorNodes, n)
		}
	}

	for outer := 0; outer < o.params.OuterIterations; outer++ {
		displacement := 0.0
		if o.option != NotProjectToLandBoundary {
			for it := 0; it < o.params.BoundaryIterations; it++ {
				if err := m.Administrate(); err != nil {
					return err
				}
				displacement = math.Max(displacement,
					o.sweep(boundaryNodes, o.params.OrthogonalizationToSmoothingFactorAtBoundary, true))
				o.snapToLand()
			}
		}
		for it := 0; it < o.params.InnerIterations; it++ {
			if err := m.Administrate(); err != nil {
				return err
			}
			displacement = math.Max(displacement,
				o.sweep(interiorNodes, o.params.OrthogonalizationToSmoothingFactor, false))
		}
		if o.option == WholeMesh {
			o.snapToLand()
		}
		if err := m.Administrate(); err != nil {
			return err
		}

		o.Displacement = displacement
		utils.Logger().Debug("orthogonalization pass", "outer", outer, "displacement", displacement)
		if displacement <= convergenceTolerance*extent {
			o.state = Converged
			return nil
		}
	}
	o.state = MaxIterationsReached
	return nil
}

// sweep moves each listed node to the solution of its local system and
// returns the largest displacement
func (o *Orthogonalizer) sweep(nodes []int, factor float64, onBoundary bool) float64 {
	m := o.mesh
	meanArea := 0.0
	for _, a := range m.FaceAreas {
		meanArea += a
	}
	if len(m.FaceAreas) > 0 {
		meanArea /= float64(len(m.FaceAreas))
	}

	largest := 0.0
	for _, n := range nodes {
		if !o.movable[n] || (onBoundary && o.corner[n]) {
			continue
		}
		p, ok := o.solve(n, factor, meanArea)
		if !ok {
			continue
		}
		if onBoundary {
			p, _ = geometry.ProjectOnPolyline(p, o.boundary[o.ringOfNode[n]])
			if !geometry.IsValid(p) {
				continue
			}
		}
		largest = math.Max(largest, r2.Norm(r2.Sub(p, m.Nodes[n])))
		m.Nodes[n] = p
	}
	return largest
}

// solve assembles and solves the 2×2 system of node n. The orthogonality
// term asks every edge to be perpendicular to its flow link; the smoothing
// term pulls the node to the weighted mean of its neighbours.
func (o *Orthogonalizer) solve(n int, factor, meanArea float64) (geometry.Point, bool) {
	m := o.mesh
	old := m.Nodes[n]

	var (
		ao, as         [3]float64 // a11, a12, a22
		bo, bs         [2]float64
		links, weights float64
	)
	for _, e := range m.NodeEdges[n] {
		xj := m.Nodes[m.OtherNode(e, n)]
		faces := m.EdgeFaces(e)

		if len(faces) == 2 {
			flow := r2.Sub(m.FaceCircumcenters[faces[1]], m.FaceCircumcenters[faces[0]])
			if l := r2.Norm(flow); l > 0 {
				u := r2.Scale(1/l, flow)
				ao[0] += u.X * u.X
				ao[1] += u.X * u.Y
				ao[2] += u.Y * u.Y
				proj := r2.Dot(u, xj)
				bo[0] += proj * u.X
				bo[1] += proj * u.Y
				links++
			}
		}

		areal := 1.0
		if len(faces) > 0 && meanArea > 0 {
			sum := 0.0
			for _, f := range faces {
				sum += m.FaceAreas[f]
			}
			areal = sum / float64(len(faces)) / meanArea
		}
		w := o.params.ArealToAngleSmoothingFactor*areal + (1 - o.params.ArealToAngleSmoothingFactor)
		as[0] += w
		as[2] += w
		bs[0] += w * xj.X
		bs[1] += w * xj.Y
		weights += w
	}

	fo, fs := factor, 1-factor
	if links == 0 {
		fo, links = 0, 1
		if fs == 0 {
			return old, false
		}
	}
	if weights == 0 {
		fs, weights = 0, 1
	}

	a := [3]float64{
		fo*ao[0]/links + fs*as[0]/weights,
		fo*ao[1]/links + fs*as[1]/weights,
		fo*ao[2]/links + fs*as[2]/weights,
	}
	b := [2]float64{
		fo*bo[0]/links + fs*bs[0]/weights,
		fo*bo[1]/links + fs*bs[1]/weights,
	}
	eps := regularization * (a[0] + a[2])
	if eps == 0 {
		return old, false
	}

	var chol mat.Cholesky
	if !chol.Factorize(mat.NewSymDense(2, []float64{a[0] + eps, a[1], a[1], a[2] + eps})) {
		return old, false
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, mat.NewVecDense(2, []float64{b[0] + eps*old.X, b[1] + eps*old.Y})); err != nil {
		return old, false
	}
	return geometry.NewPoint(x.AtVec(0), x.AtVec(1)), true
}

// snapToLand moves the nodes chosen by the projection option onto the
// land boundaries
func (o *Orthogonalizer) snapToLand() {
	if len(o.land) == 0 {
		return
	}
	m := o.mesh
	switch o.option {
	case OuterMeshBoundaryToLandBoundary, InnerAndOuterMeshBoundaryToLandBoundary:
		var nodes []int
		for n, r := range o.ringOfNode {
			if o.movable[n] && (o.outerRing[r] || o.option == InnerAndOuterMeshBoundaryToLandBoundary) {
				nodes = append(nodes, n)
			}
		}
		m.ProjectOnLand(nodes, o.land, 0)
	case WholeMesh:
		for n := range m.Nodes {
			if !o.movable[n] || len(m.NodeEdges[n]) == 0 {
				continue
			}
			mean := 0.0
			for _, e := range m.NodeEdges[n] {
				mean += r2.Norm(r2.Sub(m.Nodes[m.OtherNode(e, n)], m.Nodes[n]))
			}
			mean /= float64(len(m.NodeEdges[n]))
			m.ProjectOnLand([]int{n}, o.land, mean/2)
		}
	}
}
