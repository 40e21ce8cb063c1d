package mesh

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned by proximity queries that find nothing
	ErrNotFound = errors.New("mesh: nothing found")

	// ErrIndexOutOfRange is returned for node or edge indices outside the mesh
	ErrIndexOutOfRange = errors.New("mesh: index out of range")
)
