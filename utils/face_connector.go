package utils

import (
	"fmt"
)

// FaceConnector maps mesh edges to the (at most two) faces on either side
type FaceConnector struct {
	// Mesh dimensions
	NumEdges int
	NumFaces int

	// Input connectivity
	FaceEdges [][]int // Face → edges bounding it, in cycle order

	// Derived connectivity
	EdgeFaces    [][2]int // Edge → faces, -1 where absent
	EdgeNumFaces []int    // Edge → number of faces, 0..2
}

// NewFaceConnector creates a face connector from face-edge connectivity
func NewFaceConnector(numEdges int, faceEdges [][]int) (*FaceConnector, error) {
	if numEdges < 0 {
		return nil, fmt.Errorf("invalid dimensions: numEdges=%d", numEdges)
	}

	fc := &FaceConnector{
		NumEdges:  numEdges,
		NumFaces:  len(faceEdges),
		FaceEdges: faceEdges,
	}

	if err := fc.BuildIndices(); err != nil {
		return nil, err
	}

	return fc, nil
}

// BuildIndices constructs the edge → face table
func (fc *FaceConnector) BuildIndices() error {
	fc.EdgeFaces = make([][2]int, fc.NumEdges)
	fc.EdgeNumFaces = make([]int, fc.NumEdges)
	for e := range fc.EdgeFaces {
		fc.EdgeFaces[e] = [2]int{-1, -1}
	}

	for face, edges := range fc.FaceEdges {
		for _, e := range edges {
			if e < 0 || e >= fc.NumEdges {
				return fmt.Errorf("face %d references edge %d outside [0,%d)", face, e, fc.NumEdges)
			}
			n := fc.EdgeNumFaces[e]
			if n == 2 {
				return fmt.Errorf("edge %d shared by more than two faces (%d, %d, %d)",
					e, fc.EdgeFaces[e][0], fc.EdgeFaces[e][1], face)
			}
			fc.EdgeFaces[e][n] = face
			fc.EdgeNumFaces[e]++
		}
	}

	return nil
}

// GetEdgeFaces returns the faces adjacent to an edge
func (fc *FaceConnector) GetEdgeFaces(edge int) []int {
	if edge < 0 || edge >= fc.NumEdges {
		return nil
	}
	return fc.EdgeFaces[edge][:fc.EdgeNumFaces[edge]]
}

// IsBoundaryEdge reports whether an edge has exactly one adjacent face
func (fc *FaceConnector) IsBoundaryEdge(edge int) bool {
	return edge >= 0 && edge < fc.NumEdges && fc.EdgeNumFaces[edge] == 1
}

// Neighbor returns the face across edge from face, or -1
func (fc *FaceConnector) Neighbor(face, edge int) int {
	if edge < 0 || edge >= fc.NumEdges || fc.EdgeNumFaces[edge] != 2 {
		return -1
	}
	if fc.EdgeFaces[edge][0] == face {
		return fc.EdgeFaces[edge][1]
	}
	return fc.EdgeFaces[edge][0]
}

// ReplaceFace makes edge reference face to instead of face from
func (fc *FaceConnector) ReplaceFace(edge, from, to int) {
	for i := 0; i < fc.EdgeNumFaces[edge]; i++ {
		if fc.EdgeFaces[edge][i] == from {
			fc.EdgeFaces[edge][i] = to
			return
		}
	}
}

// Verify checks index validity and conservation properties
func (fc *FaceConnector) Verify() error {
	// Verify 1: every recorded face index is in range
	for e := 0; e < fc.NumEdges; e++ {
		for i := 0; i < fc.EdgeNumFaces[e]; i++ {
			if f := fc.EdgeFaces[e][i]; f < 0 || f >= fc.NumFaces {
				return fmt.Errorf("invalid face index %d on edge %d (max %d)", f, e, fc.NumFaces-1)
			}
		}
	}

	// Verify 2: correspondence - each face lists the edges that list it
	for face, edges := range fc.FaceEdges {
		for _, e := range edges {
			found := false
			for _, f := range fc.GetEdgeFaces(e) {
				if f == face {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("edge %d does not reference face %d", e, face)
			}
		}
	}

	// Verify 3: conservation - total edge-face incidences equal total face sides
	totalIncidences := 0
	for e := 0; e < fc.NumEdges; e++ {
		totalIncidences += fc.EdgeNumFaces[e]
	}
	totalSides := 0
	for _, edges := range fc.FaceEdges {
		totalSides += len(edges)
	}
	if totalIncidences != totalSides {
		return fmt.Errorf("conservation error: edge incidences %d != face sides %d",
			totalIncidences, totalSides)
	}

	return nil
}
