package orthogonalization

import (
	"github.com/pkg/errors"
)

var ErrInvalidParameters = errors.New("invalid orthogonalization parameters")

// ProjectToLandBoundary selects how boundary nodes are kept in place
type ProjectToLandBoundary int

const (
	// NotProjectToLandBoundary keeps boundary nodes fixed
	NotProjectToLandBoundary ProjectToLandBoundary = iota
	// ToOriginalNetBoundary slides boundary nodes along the boundary they
	// started on
	ToOriginalNetBoundary
	OuterMeshBoundaryToLandBoundary
	InnerAndOuterMeshBoundaryToLandBoundary
	// WholeMesh snaps every node close to a land boundary onto it
	WholeMesh
)

func (p ProjectToLandBoundary) String() string {
	switch p {
	case NotProjectToLandBoundary:
		return "NotProjectToLandBoundary"
	case ToOriginalNetBoundary:
		return "ToOriginalNetBoundary"
	case OuterMeshBoundaryToLandBoundary:
		return "OuterMeshBoundaryToLandBoundary"
	case InnerAndOuterMeshBoundaryToLandBoundary:
		return "InnerAndOuterMeshBoundaryToLandBoundary"
	case WholeMesh:
		return "WholeMesh"
	default:
		return "Unknown"
	}
}

// Parameters controls the iteration counts and the balance between
// orthogonality and smoothness
type Parameters struct {
	OuterIterations    int
	BoundaryIterations int
	InnerIterations    int
	// OrthogonalizationToSmoothingFactor weighs orthogonality (1) against
	// smoothing (0) for interior nodes
	OrthogonalizationToSmoothingFactor           float64
	OrthogonalizationToSmoothingFactorAtBoundary float64
	// ArealToAngleSmoothingFactor mixes area-weighted (1) and uniform (0)
	// smoothing
	ArealToAngleSmoothingFactor float64
}

func DefaultParameters() Parameters {
	return Parameters{
		OuterIterations:                              2,
		BoundaryIterations:                           25,
		InnerIterations:                              25,
		OrthogonalizationToSmoothingFactor:           0.975,
		OrthogonalizationToSmoothingFactorAtBoundary: 1.0,
		ArealToAngleSmoothingFactor:                  1.0,
	}
}

func (p Parameters) Validate() error {
	if p.OuterIterations < 1 || p.BoundaryIterations < 0 || p.InnerIterations < 0 {
		return errors.Wrapf(ErrInvalidParameters, "iterations outer=%d boundary=%d inner=%d",
			p.OuterIterations, p.BoundaryIterations, p.InnerIterations)
	}
	for name, v := range map[string]float64{
		"orthogonalization to smoothing factor":             p.OrthogonalizationToSmoothingFactor,
		"orthogonalization to smoothing factor at boundary": p.OrthogonalizationToSmoothingFactorAtBoundary,
		"areal to angle smoothing factor":                   p.ArealToAngleSmoothingFactor,
	} {
		if v < 0 || v > 1 {
			return errors.Wrapf(ErrInvalidParameters, "%s %g outside [0, 1]", name, v)
		}
	}
	return nil
}
