package geometry

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// indexedPoint is a kd-tree entry carrying the index of the point it was
// built from.
type indexedPoint struct {
	Point
	index int
}

func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(indexedPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	default:
		panic("illegal dimension")
	}
}

func (p indexedPoint) Dims() int { return 2 }

func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(indexedPoint)
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return plane{indexedPoints: p, Dim: d}.Pivot()
}
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	kdtree.Dim
	indexedPoints
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.indexedPoints[i].X < p.indexedPoints[j].X
	case 1:
		return p.indexedPoints[i].Y < p.indexedPoints[j].Y
	default:
		panic("illegal dimension")
	}
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.indexedPoints = p.indexedPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}

// PointIndex answers nearest-neighbour and radius queries over a point set.
// Invalid points are left out; results refer to indices of the input slice.
type PointIndex struct {
	tree  *kdtree.Tree
	count int
}

func NewPointIndex(points []Point) *PointIndex {
	entries := make(indexedPoints, 0, len(points))
	for i, p := range points {
		if IsValid(p) {
			entries = append(entries, indexedPoint{Point: p, index: i})
		}
	}
	pi := &PointIndex{count: len(entries)}
	if len(entries) > 0 {
		pi.tree = kdtree.New(entries, false)
	}
	return pi
}

func (pi *PointIndex) Len() int { return pi.count }

// Nearest returns the index of the closest point and its distance
func (pi *PointIndex) Nearest(p Point) (int, float64, bool) {
	if pi.count == 0 {
		return -1, math.Inf(1), false
	}
	c, d2 := pi.tree.Nearest(indexedPoint{Point: p, index: -1})
	if c == nil {
		return -1, math.Inf(1), false
	}
	return c.(indexedPoint).index, math.Sqrt(d2), true
}

// Neighbor is a point index with its distance to the query
type Neighbor struct {
	Index    int
	Distance float64
}

// WithinRadius returns every point no farther than radius, nearest first
// (ties broken by index).
func (pi *PointIndex) WithinRadius(p Point, radius float64) []Neighbor {
	if pi.count == 0 || radius < 0 {
		return nil
	}
	keeper := kdtree.NewDistKeeper(radius * radius)
	pi.tree.NearestSet(keeper, indexedPoint{Point: p, index: -1})
	found := make([]Neighbor, 0, keeper.Len())
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		found = append(found, Neighbor{Index: c.Comparable.(indexedPoint).index, Distance: math.Sqrt(c.Dist)})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Distance != found[j].Distance {
			return found[i].Distance < found[j].Distance
		}
		return found[i].Index < found[j].Index
	})
	return found
}

// boxEntry is an R-tree item standing for one ring (face or triangle)
type boxEntry struct {
	index int
	rect  rtreego.Rect
}

func (b *boxEntry) Bounds() rtreego.Rect { return b.rect }

// BoxIndex locates the rings whose bounding boxes contain a point
type BoxIndex struct {
	tree *rtreego.Rtree
}

// NewBoxIndex indexes the bounding box of every ring; nil or degenerate
// rings are skipped.
func NewBoxIndex(rings [][]Point) *BoxIndex {
	tree := rtreego.NewTree(2, 25, 50)
	for i, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		lo, hi := BoundingBox(ring)
		if math.IsInf(lo.X, 0) {
			continue
		}
		const pad = 1e-9
		scale := math.Max(1, math.Max(math.Abs(hi.X), math.Abs(hi.Y)))
		rect, err := rtreego.NewRect(
			rtreego.Point{lo.X - pad*scale, lo.Y - pad*scale},
			[]float64{hi.X - lo.X + 2*pad*scale, hi.Y - lo.Y + 2*pad*scale})
		if err != nil {
			continue
		}
		tree.Insert(&boxEntry{index: i, rect: rect})
	}
	return &BoxIndex{tree: tree}
}

// Candidates returns the indices of rings whose box contains p, ascending
func (bi *BoxIndex) Candidates(p Point) []int {
	if bi.tree.Size() == 0 {
		return nil
	}
	found := bi.tree.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(1e-12))
	indices := make([]int, len(found))
	for i, s := range found {
		indices[i] = s.(*boxEntry).index
	}
	sort.Ints(indices)
	return indices
}
