package refinement

import (
	"github.com/pkg/errors"
)

// ErrInvalidParameters flags a Parameters value that fails Validate
var ErrInvalidParameters = errors.New("invalid refinement parameters")

// ErrNoSamples is returned when no face of the mesh reaches a sample
var ErrNoSamples = errors.New("no samples found")

// RefinementType selects how sample values translate into refinement levels
type RefinementType int

const (
	WaveCourant RefinementType = iota + 1
	RefinementLevels
)

func (r RefinementType) String() string {
	switch r {
	case WaveCourant:
		return "WaveCourant"
	case RefinementLevels:
		return "RefinementLevels"
	default:
		return "Unknown"
	}
}

// Parameters controls face splitting
type Parameters struct {
	// MaxRefinementIterations bounds the number of splitting passes
	MaxRefinementIterations int
	// RefineIntersected selects faces that only partly overlap the polygon
	RefineIntersected bool
	// UseMassCenterWhenRefining places the center node of split quads and
	// larger faces at the mass center of their corners instead of the
	// face circumcenter
	UseMassCenterWhenRefining bool
	// MinFaceSize stops sample refinement below this face size
	MinFaceSize    float64
	RefinementType RefinementType
	// ConnectHangingNodes stitches the faces left with nodes on their sides
	ConnectHangingNodes bool
	// AccountForSamplesOutsideFace lets samples in the search radius but
	// outside the face contribute
	AccountForSamplesOutsideFace bool
}

func DefaultParameters() Parameters {
	return Parameters{
		MaxRefinementIterations:      10,
		RefineIntersected:            false,
		UseMassCenterWhenRefining:    false,
		MinFaceSize:                  0.5,
		RefinementType:               WaveCourant,
		ConnectHangingNodes:          true,
		AccountForSamplesOutsideFace: false,
	}
}

func (p Parameters) Validate() error {
	if p.MaxRefinementIterations < 1 {
		return errors.Wrapf(ErrInvalidParameters, "max refinement iterations %d", p.MaxRefinementIterations)
	}
	if p.MinFaceSize < 0 {
		return errors.Wrapf(ErrInvalidParameters, "min face size %g", p.MinFaceSize)
	}
	if p.RefinementType != WaveCourant && p.RefinementType != RefinementLevels {
		return errors.Wrapf(ErrInvalidParameters, "refinement type %d", p.RefinementType)
	}
	return nil
}
