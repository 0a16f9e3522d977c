// Package triangulate triangulates polygons with holes for the caps of
// extruded letters.
package triangulate

import (
	"math"
	"sync"

	"github.com/pkg/errors"
	"github.com/pradeep-pyro/triangle"
	"github.com/rclancey/earcut"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/textsign/contour"
)

// ErrDegenerate is wrapped by every error that makes Polygon fall back to
// a fan triangulation.
var ErrDegenerate = errors.New("degenerate polygon")

// A Triangle is three points in counter-clockwise order, unless it came
// from a fan of a clockwise ring.
type Triangle [3]model2d.Coord

// SignedArea is positive for counter-clockwise triangles.
func (t Triangle) SignedArea() float64 {
	return cross(t[1].Sub(t[0]), t[2].Sub(t[0])) / 2
}

// Area is the unsigned area.
func (t Triangle) Area() float64 {
	return math.Abs(t.SignedArea())
}

// Polygon computes a constrained Delaunay triangulation of the region
// bounded by outer minus the holes. Rings are cleaned with
// DefaultTolerance first, and every output point is one of the cleaned
// ring points.
//
// The Triangle library is tried first. If its result does not cover
// the region with the ring points alone, the region is ear clipped and
// flipped toward a Delaunay triangulation instead. Either result must
// pass the same coverage check.
//
// If the region cannot be triangulated, Polygon returns Fan(outer) along
// with an error wrapping ErrDegenerate. The fan ignores holes.
func Polygon(outer []model2d.Coord, holes [][]model2d.Coord) ([]Triangle, error) {
	tris, err := constrained(outer, holes)
	if err != nil {
		return Fan(outer), err
	}
	return tris, nil
}

// Fan triangulates a ring from its centroid. It is only correct for
// star-shaped rings without holes.
func Fan(ring []model2d.Coord) []Triangle {
	ring = Clean(ring, DefaultTolerance)
	if len(ring) < 3 {
		return nil
	}
	center := contour.Contour(ring).Centroid()
	res := make([]Triangle, 0, len(ring))
	for i, p := range ring {
		res = append(res, Triangle{center, p, ring[(i+1)%len(ring)]})
	}
	return res
}

func constrained(outer []model2d.Coord, holes [][]model2d.Coord) ([]Triangle, error) {
	r, err := newRegion(outer, holes)
	if err != nil {
		return nil, err
	}
	tris, err := r.delaunay()
	if err != nil {
		var earErr error
		if tris, earErr = r.earClip(); earErr != nil {
			return nil, errors.Wrapf(earErr, "%v; ear clipping", err)
		}
	}
	res := make([]Triangle, len(tris))
	for i, t := range tris {
		res[i] = Triangle{r.points[t[0]], r.points[t[1]], r.points[t[2]]}
	}
	return res, nil
}

// A region is a cleaned outer ring and its holes, with their points
// flattened into one indexed list.
type region struct {
	rings       [][]model2d.Coord
	points      []model2d.Coord
	constraints []edgeKey
	area        float64
}

func newRegion(outer []model2d.Coord, holes [][]model2d.Coord) (*region, error) {
	outer = Clean(outer, DefaultTolerance)
	if len(outer) < 3 {
		return nil, errors.Wrapf(ErrDegenerate, "outer ring has %d points", len(outer))
	}
	r := &region{rings: [][]model2d.Coord{outer}}
	for _, h := range holes {
		if h = Clean(h, DefaultTolerance); len(h) >= 3 {
			r.rings = append(r.rings, h)
		}
	}
	for i, ring := range r.rings {
		start := len(r.points)
		for j, p := range ring {
			r.points = append(r.points, p)
			r.constraints = append(r.constraints, newEdgeKey(start+j, start+(j+1)%len(ring)))
		}
		a := contour.Contour(ring).Area()
		if i == 0 {
			r.area += a
		} else {
			r.area -= a
		}
	}
	if r.area <= 0 {
		return nil, errors.Wrap(ErrDegenerate, "region has no area")
	}
	return r, nil
}

// triangleLock serializes calls into the Triangle library, which keeps
// its predicate state in C globals.
var triangleLock sync.Mutex

// delaunay computes the constrained Delaunay triangulation with the
// Triangle library. Each hole is marked by a point inside it.
func (r *region) delaunay() ([][3]int, error) {
	pts := make([][2]float64, len(r.points))
	for i, p := range r.points {
		pts[i] = [2]float64{p.X, p.Y}
	}
	segs := make([][2]int32, len(r.constraints))
	for i, c := range r.constraints {
		segs[i] = [2]int32{int32(c[0]), int32(c[1])}
	}
	var holes [][2]float64
	for _, ring := range r.rings[1:] {
		p, err := interiorPoint(ring)
		if err != nil {
			return nil, err
		}
		holes = append(holes, [2]float64{p.X, p.Y})
	}
	if len(holes) == 0 {
		// Points outside the bounding box are ignored.
		b := contour.Contour(r.rings[0]).Bound()
		holes = append(holes, [2]float64{b.Min[0] - 1, b.Min[1] - 1})
	}

	triangleLock.Lock()
	verts, faces := triangle.ConstrainedDelaunay(pts, segs, holes)
	triangleLock.Unlock()

	if len(verts) != len(pts) {
		return nil, errors.Wrapf(ErrDegenerate, "delaunay inserted %d points", len(verts)-len(pts))
	}
	tris := make([][3]int, len(faces))
	for i, f := range faces {
		tris[i] = [3]int{int(f[0]), int(f[1]), int(f[2])}
	}
	m := &triMesh{points: r.points, tris: tris}
	m.orientAll()
	if err := r.verify(m); err != nil {
		return nil, errors.Wrap(err, "delaunay")
	}
	return m.tris, nil
}

// earClip seeds the triangulation with ear clipping, repairs the
// boundary, and flips interior edges until they are locally Delaunay.
func (r *region) earClip() ([][3]int, error) {
	var flat []float64
	var holeIndices []int
	for i, ring := range r.rings {
		if i > 0 {
			holeIndices = append(holeIndices, len(flat)/2)
		}
		for _, p := range ring {
			flat = append(flat, p.X, p.Y)
		}
	}
	indices, err := earcut.Earcut(flat, holeIndices, 2)
	if err != nil {
		return nil, errors.Wrapf(ErrDegenerate, "ear clipping: %v", err)
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, errors.Wrapf(ErrDegenerate, "ear clipping returned %d indices", len(indices))
	}

	m := &triMesh{points: r.points}
	for i := 0; i < len(indices); i += 3 {
		m.tris = append(m.tris, [3]int{indices[i], indices[i+1], indices[i+2]})
	}
	m.orientAll()
	m.splitTJunctions()
	if err := r.checkBoundary(m); err != nil {
		return nil, err
	}

	constrainedSet := map[edgeKey]bool{}
	for _, c := range r.constraints {
		constrainedSet[c] = true
	}
	m.delaunayFlips(constrainedSet)

	if err := r.verify(m); err != nil {
		return nil, err
	}
	return m.tris, nil
}

// verify checks that m covers the region exactly once: every triangle
// is counter-clockwise, every ring edge is present, and the triangle
// areas add up to the region's area.
func (r *region) verify(m *triMesh) error {
	var total float64
	for _, t := range m.tris {
		o := m.orient(t[0], t[1], t[2])
		if o <= 0 {
			return errors.Wrapf(ErrDegenerate, "inverted triangle %v", t)
		}
		total += o / 2
	}
	if err := r.checkBoundary(m); err != nil {
		return err
	}
	if math.Abs(total-r.area) > 1e-6*r.area+1e-12 {
		return errors.Wrapf(ErrDegenerate, "area mismatch: got %g, expected %g", total, r.area)
	}
	return nil
}

func (r *region) checkBoundary(m *triMesh) error {
	present := m.edgeSet()
	for _, c := range r.constraints {
		if !present[c] {
			return errors.Wrapf(ErrDegenerate, "boundary edge %v missing", c)
		}
	}
	return nil
}

// interiorPoint finds a point strictly inside a ring: the centroid of
// the largest ear of its triangulation.
func interiorPoint(ring []model2d.Coord) (model2d.Coord, error) {
	flat := make([]float64, 0, len(ring)*2)
	for _, p := range ring {
		flat = append(flat, p.X, p.Y)
	}
	indices, err := earcut.Earcut(flat, nil, 2)
	if err != nil || len(indices) < 3 {
		return model2d.Coord{}, errors.Wrap(ErrDegenerate, "hole has no interior")
	}
	var best Triangle
	var bestArea float64
	for i := 0; i+2 < len(indices); i += 3 {
		t := Triangle{ring[indices[i]], ring[indices[i+1]], ring[indices[i+2]]}
		if a := t.Area(); a > bestArea {
			best, bestArea = t, a
		}
	}
	if bestArea == 0 {
		return model2d.Coord{}, errors.Wrap(ErrDegenerate, "hole has no interior")
	}
	return best[0].Add(best[1]).Add(best[2]).Scale(1.0 / 3), nil
}

func cross(a, b model2d.Coord) float64 {
	return a.X*b.Y - a.Y*b.X
}
