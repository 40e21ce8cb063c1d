package triangulation

import (
	"math"

	"github.com/notargets/MeshKernel/geometry"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegenerate is returned when the input cannot be triangulated: fewer
// than three distinct points, or all points on one line.
var ErrDegenerate = errors.New("degenerate point set")

// Triangulation is a Delaunay triangulation of a point set. Triangles
// index Points and are counter-clockwise.
type Triangulation struct {
	Points    []geometry.Point
	Triangles [][3]int

	boxes *geometry.BoxIndex
}

// infinite is the symbolic vertex shared by the ghost triangles that wrap
// the convex hull
const infinite = -1

// Delaunay triangulates the valid points by incremental insertion
// (Bowyer-Watson). The hull is closed by ghost triangles joining every hull
// edge to a vertex at infinity, so the result always covers the convex hull
// of the input. Repeated coordinates are inserted once; triangles keep the
// indices of the input slice.
func Delaunay(points []geometry.Point) (*Triangulation, error) {
	unique := make([]int, 0, len(points))
	seen := make(map[geometry.Point]struct{}, len(points))
	for i, p := range points {
		if !geometry.IsValid(p) {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, i)
	}
	if len(unique) < 3 {
		return nil, errors.Wrapf(ErrDegenerate, "%d distinct points", len(unique))
	}
	if collinear(points, unique) {
		return nil, errors.Wrap(ErrDegenerate, "all points are collinear")
	}

	b := newBuilder(points)
	first := b.seed(unique)
	for _, pi := range unique {
		if pi == first[0] || pi == first[1] || pi == first[2] {
			continue
		}
		b.insert(pi)
	}

	t := &Triangulation{Points: append([]geometry.Point(nil), points...)}
	for i, tri := range b.tris {
		if b.alive[i] && tri[2] != infinite {
			t.Triangles = append(t.Triangles, tri)
		}
	}
	if len(t.Triangles) == 0 {
		return nil, errors.Wrap(ErrDegenerate, "no triangles produced")
	}
	return t, nil
}

// builder holds the triangulation under construction. Real triangles are
// counter-clockwise; ghost triangles keep the infinite vertex last, so the
// ghost (u, v, ∞) lies across the hull edge v→u of a real triangle.
type builder struct {
	points []geometry.Point
	tris   [][3]int
	alive  []bool
	// edges maps a directed edge to the triangle it belongs to
	edges map[[2]int]int
	last  int
	turn  int
}

func newBuilder(points []geometry.Point) *builder {
	return &builder{points: points, edges: make(map[[2]int]int, 6*len(points))}
}

// seed creates the first real triangle and its three ghosts from the first
// two points and the first point not collinear with them
func (b *builder) seed(unique []int) [3]int {
	p, q := unique[0], unique[1]
	r := -1
	scale := r2.Norm(r2.Sub(b.points[q], b.points[p]))
	for _, i := range unique[2:] {
		o := geometry.Orientation(b.points[p], b.points[q], b.points[i])
		if math.Abs(o) > 1e-12*scale*math.Max(scale, r2.Norm(r2.Sub(b.points[i], b.points[p]))) {
			r = i
			break
		}
	}
	if r < 0 {
		// collinear() guarantees some third point leaves the line pq
		for _, i := range unique[2:] {
			if geometry.Orientation(b.points[p], b.points[q], b.points[i]) != 0 {
				r = i
				break
			}
		}
	}
	if geometry.Orientation(b.points[p], b.points[q], b.points[r]) < 0 {
		q, r = r, q
	}
	b.last = b.add([3]int{p, q, r})
	b.add([3]int{q, p, infinite})
	b.add([3]int{r, q, infinite})
	b.add([3]int{p, r, infinite})
	return [3]int{p, q, r}
}

func (b *builder) add(tri [3]int) int {
	i := len(b.tris)
	b.tris = append(b.tris, tri)
	b.alive = append(b.alive, true)
	for k := 0; k < 3; k++ {
		b.edges[[2]int{tri[k], tri[(k+1)%3]}] = i
	}
	return i
}

func (b *builder) remove(i int) {
	tri := b.tris[i]
	for k := 0; k < 3; k++ {
		key := [2]int{tri[k], tri[(k+1)%3]}
		if b.edges[key] == i {
			delete(b.edges, key)
		}
	}
	b.alive[i] = false
}

// neighbor returns the triangle across the directed edge (u, v) of a
// triangle, or -1
func (b *builder) neighbor(u, v int) int {
	if i, ok := b.edges[[2]int{v, u}]; ok {
		return i
	}
	return -1
}

// conflicts reports whether inserting p destroys triangle i: p lies inside
// the circumcircle of a real triangle, or beyond (or on the open segment
// of) the hull edge of a ghost.
func (b *builder) conflicts(i int, p geometry.Point) bool {
	tri := b.tris[i]
	if tri[2] != infinite {
		return geometry.InCircle(b.points[tri[0]], b.points[tri[1]], b.points[tri[2]], p) > 0
	}
	u, v := b.points[tri[0]], b.points[tri[1]]
	o := geometry.Orientation(u, v, p)
	if o != 0 {
		return o > 0
	}
	return r2.Dot(r2.Sub(p, u), r2.Sub(v, u)) > 0 && r2.Dot(r2.Sub(p, v), r2.Sub(u, v)) > 0
}

// locate walks from the last created triangle towards p and returns a
// triangle in conflict with it
func (b *builder) locate(p geometry.Point) int {
	t := b.last
	for steps := 0; steps < len(b.tris)+3; steps++ {
		tri := b.tris[t]
		if tri[2] == infinite {
			if b.conflicts(t, p) {
				return t
			}
			break
		}
		next := -1
		for k := 0; k < 3; k++ {
			j := (k + b.turn) % 3
			u, v := tri[j], tri[(j+1)%3]
			if geometry.Orientation(b.points[u], b.points[v], p) < 0 {
				next = b.neighbor(u, v)
				break
			}
		}
		b.turn++
		if next < 0 {
			if b.conflicts(t, p) {
				return t
			}
			break
		}
		t = next
	}
	// rounding can stall the walk; fall back to a scan
	for i := range b.tris {
		if b.alive[i] && b.conflicts(i, p) {
			return i
		}
	}
	return -1
}

// insert removes the cavity of triangles in conflict with point pi and
// fans its boundary to pi
func (b *builder) insert(pi int) {
	p := b.points[pi]
	start := b.locate(p)
	if start < 0 {
		return
	}
	bad := map[int]bool{start: true}
	cavity := []int{start}
	for next := 0; next < len(cavity); next++ {
		tri := b.tris[cavity[next]]
		for k := 0; k < 3; k++ {
			n := b.neighbor(tri[k], tri[(k+1)%3])
			if n >= 0 && !bad[n] && b.conflicts(n, p) {
				bad[n] = true
				cavity = append(cavity, n)
			}
		}
	}
	var boundary [][2]int
	for _, i := range cavity {
		tri := b.tris[i]
		for k := 0; k < 3; k++ {
			u, v := tri[k], tri[(k+1)%3]
			if n := b.neighbor(u, v); n < 0 || !bad[n] {
				boundary = append(boundary, [2]int{u, v})
			}
		}
	}
	for _, i := range cavity {
		b.remove(i)
	}
	for _, e := range boundary {
		tri := [3]int{e[0], e[1], pi}
		if e[0] == infinite {
			tri = [3]int{e[1], pi, infinite}
		} else if e[1] == infinite {
			tri = [3]int{pi, e[0], infinite}
		}
		i := b.add(tri)
		if tri[2] != infinite {
			b.last = i
		}
	}
}

// Edges returns the unique triangle edges, in order of first appearance,
// with the lower node index first.
func (t *Triangulation) Edges() [][2]int {
	seen := make(map[[2]int]struct{})
	var edges [][2]int
	for _, tri := range t.Triangles {
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}
	return edges
}

// Locate returns the triangle containing p and the barycentric weights of
// p in it.
func (t *Triangulation) Locate(p geometry.Point) (int, [3]float64, bool) {
	if t.boxes == nil {
		rings := make([][]geometry.Point, len(t.Triangles))
		for i, tri := range t.Triangles {
			rings[i] = []geometry.Point{t.Points[tri[0]], t.Points[tri[1]], t.Points[tri[2]]}
		}
		t.boxes = geometry.NewBoxIndex(rings)
	}
	for _, ti := range t.boxes.Candidates(p) {
		tri := t.Triangles[ti]
		a, b, c := t.Points[tri[0]], t.Points[tri[1]], t.Points[tri[2]]
		if !geometry.TriangleContains(p, a, b, c) {
			continue
		}
		w, ok := geometry.Barycentric(p, a, b, c)
		if ok {
			return ti, w, true
		}
	}
	return -1, [3]float64{}, false
}

// Interpolate evaluates the piecewise-linear interpolant of values at p;
// false outside the triangulated hull.
func (t *Triangulation) Interpolate(values []float64, p geometry.Point) (float64, bool) {
	ti, w, ok := t.Locate(p)
	if !ok {
		return geometry.MissingValue, false
	}
	tri := t.Triangles[ti]
	return w[0]*values[tri[0]] + w[1]*values[tri[1]] + w[2]*values[tri[2]], true
}
