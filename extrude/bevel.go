package extrude

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/textsign/contour"
	"github.com/unixpickle/textsign/triangulate"
)

// Inset offsets every vertex of a ring toward the left side of its
// edges by dist, using mitered joints so that the offset edges stay
// dist away from the originals.
//
// For a counter-clockwise shell or a clockwise hole, the left side is
// the material, so the shell shrinks and the hole widens.
//
// Each vertex moves along the bisector of its two edge normals, scaled
// by dist / sqrt((1+cos(theta))/2) and clamped to miterLimit*dist.
// Vertices next to the ring centroid or at a full reversal stay put.
func Inset(ring []model2d.Coord, dist, miterLimit float64) []model2d.Coord {
	n := len(ring)
	res := make([]model2d.Coord, n)
	if n < 3 || dist == 0 {
		copy(res, ring)
		return res
	}
	if miterLimit <= 0 {
		miterLimit = DefaultMiterLimit
	}
	center := contour.Contour(ring).Centroid()
	for i, p := range ring {
		res[i] = p
		if p.Dist(center) < DegenerateEpsilon {
			continue
		}
		e1 := p.Sub(ring[(i+n-1)%n])
		e2 := ring[(i+1)%n].Sub(p)
		if e1.Norm() < DegenerateEpsilon || e2.Norm() < DegenerateEpsilon {
			continue
		}
		n1 := leftNormal(e1.Normalize())
		n2 := leftNormal(e2.Normalize())
		half := (1 + n1.Dot(n2)) / 2
		if half < DegenerateEpsilon {
			continue
		}
		scale := math.Min(1/math.Sqrt(half), miterLimit)
		res[i] = p.Add(n1.Add(n2).Normalize().Scale(dist * scale))
	}
	return res
}

func leftNormal(d model2d.Coord) model2d.Coord {
	return model2d.XY(-d.Y, d.X)
}

// collapseReversed merges the ends of every offset edge that points
// against its edge in ring, until no such edge is left. A merged run of
// points takes the mean of their positions.
func collapseReversed(ring, res []model2d.Coord) {
	n := len(res)
	for pass := 0; pass < n; pass++ {
		changed := false
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if res[i] == res[j] || res[j].Sub(res[i]).Dot(ring[j].Sub(ring[i])) >= 0 {
				continue
			}
			run := []int{i, j}
			inRun := map[int]bool{i: true, j: true}
			for k := (i + n - 1) % n; !inRun[k] && res[k] == res[i]; k = (k + n - 1) % n {
				run = append(run, k)
				inRun[k] = true
			}
			for k := (j + 1) % n; !inRun[k] && res[k] == res[j]; k = (k + 1) % n {
				run = append(run, k)
				inRun[k] = true
			}
			var sum model2d.Coord
			for _, k := range run {
				sum = sum.Add(res[k])
			}
			mean := sum.Scale(1 / float64(len(run)))
			for _, k := range run {
				res[k] = mean
			}
			changed = true
		}
		if !changed {
			return
		}
	}
}

// insetRings offsets every ring of a region by dist and snaps the
// result, so that res[i][j] is the offset of rings[i][j]. It reports
// false if the offset rings degenerate, flip, or cross.
func insetRings(rings [][]model2d.Coord, dist, miterLimit float64) ([][]model2d.Coord, bool) {
	res := make([][]model2d.Coord, len(rings))
	distinct := make([][]model2d.Coord, len(rings))
	for i, ring := range rings {
		inset := Inset(ring, dist, miterLimit)
		collapseReversed(ring, inset)
		res[i] = triangulate.Snap(inset, triangulate.DefaultTolerance)
		distinct[i] = triangulate.Distinct(res[i])
		if dist == 0 {
			continue
		}
		if len(distinct[i]) < 3 {
			return nil, false
		}
		before := contour.Contour(ring).SignedArea()
		after := contour.Contour(distinct[i]).SignedArea()
		if (before > 0) != (after > 0) {
			return nil, false
		}
	}
	if dist != 0 && ringsCross(distinct) {
		return nil, false
	}
	return res, true
}

// ringsCross checks if any two edges of the rings meet, other than
// neighboring edges of one ring at their shared point.
func ringsCross(rings [][]model2d.Coord) bool {
	type edge struct {
		ring, idx int
		a, b      model2d.Coord
	}
	var edges []edge
	for r, ring := range rings {
		for i, p := range ring {
			edges = append(edges, edge{r, i, p, ring[(i+1)%len(ring)]})
		}
	}
	for i, e1 := range edges {
		for _, e2 := range edges[i+1:] {
			if e1.ring == e2.ring {
				n := len(rings[e1.ring])
				if (e1.idx+1)%n == e2.idx {
					if foldsBack(e1.a, e1.b, e2.b) {
						return true
					}
					continue
				}
				if (e2.idx+1)%n == e1.idx {
					if foldsBack(e2.a, e2.b, e1.b) {
						return true
					}
					continue
				}
			}
			if segmentsMeet(e1.a, e1.b, e2.a, e2.b) {
				return true
			}
		}
	}
	return false
}

// foldsBack checks if the path a-b-c turns around onto itself at b.
func foldsBack(a, b, c model2d.Coord) bool {
	d1, d2 := b.Sub(a), c.Sub(b)
	return orient(a, b, c) == 0 && d1.Dot(d2) < 0
}

func segmentsMeet(a, b, c, d model2d.Coord) bool {
	if math.Max(a.X, b.X) < math.Min(c.X, d.X) || math.Max(c.X, d.X) < math.Min(a.X, b.X) ||
		math.Max(a.Y, b.Y) < math.Min(c.Y, d.Y) || math.Max(c.Y, d.Y) < math.Min(a.Y, b.Y) {
		return false
	}
	o1, o2 := orient(a, b, c), orient(a, b, d)
	o3, o4 := orient(c, d, a), orient(c, d, b)
	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}
	return (o1 == 0 && inBox(a, b, c)) || (o2 == 0 && inBox(a, b, d)) ||
		(o3 == 0 && inBox(c, d, a)) || (o4 == 0 && inBox(c, d, b))
}

func orient(a, b, c model2d.Coord) float64 {
	u, v := b.Sub(a), c.Sub(a)
	return u.X*v.Y - u.Y*v.X
}

func inBox(a, b, p model2d.Coord) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}
