package mesh

import (
	"github.com/notargets/MeshKernel/utils"
	"github.com/samber/lo"
)

// HangingEdges returns the edges with an end that has no other edge
func (m *Mesh2D) HangingEdges() []int {
	return lo.Filter(lo.Range(len(m.Edges)), func(e int, _ int) bool {
		return len(m.NodeEdges[m.Edges[e][0]]) == 1 || len(m.NodeEdges[m.Edges[e][1]]) == 1
	})
}

// DeleteHangingEdges strips dangling edges until none remain
func (m *Mesh2D) DeleteHangingEdges() error {
	for pass := 0; ; pass++ {
		hanging := m.HangingEdges()
		if len(hanging) == 0 {
			return nil
		}
		utils.Logger().Debug("deleting hanging edges", "pass", pass, "count", len(hanging))
		m.deleteEdges(hanging)
		if err := m.Administrate(); err != nil {
			return err
		}
	}
}
