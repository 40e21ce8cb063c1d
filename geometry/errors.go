package geometry

import "github.com/pkg/errors"

// ErrInvalidGeometry marks a topologically inconsistent mesh or polygon:
// dangling edge references, open or self-intersecting rings.
var ErrInvalidGeometry = errors.New("invalid geometry")
