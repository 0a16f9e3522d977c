package triangulate

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// collinearEpsilon bounds the distance, relative to the edge length,
// at which a vertex is treated as lying on an edge.
const collinearEpsilon = 1e-9

type edgeKey [2]int

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// triMesh is an index triangulation over a fixed point list.
type triMesh struct {
	points []model2d.Coord
	tris   [][3]int
}

func (m *triMesh) orient(a, b, c int) float64 {
	pa, pb, pc := m.points[a], m.points[b], m.points[c]
	return cross(pb.Sub(pa), pc.Sub(pa))
}

// orientAll reverses every triangle if the triangulation as a whole is
// clockwise. Triangles that disagree with the majority are left for
// the coverage check to reject.
func (m *triMesh) orientAll() {
	var total float64
	for _, t := range m.tris {
		total += m.orient(t[0], t[1], t[2])
	}
	if total >= 0 {
		return
	}
	for i, t := range m.tris {
		m.tris[i] = [3]int{t[0], t[2], t[1]}
	}
}

func (m *triMesh) edgeSet() map[edgeKey]bool {
	res := map[edgeKey]bool{}
	for _, t := range m.tris {
		for i := 0; i < 3; i++ {
			res[newEdgeKey(t[i], t[(i+1)%3])] = true
		}
	}
	return res
}

// splitTJunctions splits every triangle that has a point lying in the
// interior of one of its edges. Ear clipping can skip ring vertices that
// are collinear with their neighbors, which would leave the boundary
// edges at that vertex unmatched.
func (m *triMesh) splitTJunctions() {
	for {
		split := false
		for ti := 0; ti < len(m.tris); ti++ {
			t := m.tris[ti]
			for e := 0; e < 3 && !split; e++ {
				x, y, z := t[e], t[(e+1)%3], t[(e+2)%3]
				for v := range m.points {
					if v == x || v == y || v == z || !m.onSegment(v, x, y) {
						continue
					}
					m.tris[ti] = [3]int{x, v, z}
					m.tris = append(m.tris, [3]int{v, y, z})
					split = true
					break
				}
			}
			if split {
				break
			}
		}
		if !split {
			return
		}
	}
}

// onSegment checks if point v lies strictly inside segment x-y.
func (m *triMesh) onSegment(v, x, y int) bool {
	px, py, pv := m.points[x], m.points[y], m.points[v]
	d := py.Sub(px)
	l2 := d.Dot(d)
	if l2 == 0 {
		return false
	}
	rel := pv.Sub(px)
	if math.Abs(cross(d, rel)) > collinearEpsilon*l2 {
		return false
	}
	t := d.Dot(rel) / l2
	return t > collinearEpsilon && t < 1-collinearEpsilon
}

// delaunayFlips performs Lawson edge flips on edges that are not in
// the constrained set until every such edge is locally Delaunay.
func (m *triMesh) delaunayFlips(constrained map[edgeKey]bool) {
	maxPasses := 4*len(m.tris) + 16
	for pass := 0; pass < maxPasses; pass++ {
		adjacent := map[edgeKey][]int{}
		for i, t := range m.tris {
			for j := 0; j < 3; j++ {
				key := newEdgeKey(t[j], t[(j+1)%3])
				adjacent[key] = append(adjacent[key], i)
			}
		}

		touched := make([]bool, len(m.tris))
		flipped := false
		for i := range m.tris {
			for j := 0; j < 3; j++ {
				if touched[i] {
					break
				}
				t := m.tris[i]
				a, b, c := t[j], t[(j+1)%3], t[(j+2)%3]
				key := newEdgeKey(a, b)
				if constrained[key] {
					continue
				}
				neighbors := adjacent[key]
				if len(neighbors) != 2 {
					continue
				}
				other := neighbors[0]
				if other == i {
					other = neighbors[1]
				}
				if touched[other] {
					continue
				}
				d, ok := opposite(m.tris[other], b, a)
				if !ok || !m.shouldFlip(a, b, c, d) {
					continue
				}
				m.tris[i] = [3]int{c, a, d}
				m.tris[other] = [3]int{d, b, c}
				touched[i], touched[other] = true, true
				flipped = true
			}
		}
		if !flipped {
			return
		}
	}
}

// opposite finds the vertex of t that is not on the directed edge a->b.
func opposite(t [3]int, a, b int) (int, bool) {
	for i := 0; i < 3; i++ {
		if t[i] == a && t[(i+1)%3] == b {
			return t[(i+2)%3], true
		}
	}
	return 0, false
}

// shouldFlip checks the triangles (a, b, c) and (b, a, d), which share
// edge a-b. They are flipped when the quad is strictly convex and d is
// inside the circumcircle of (a, b, c).
func (m *triMesh) shouldFlip(a, b, c, d int) bool {
	if m.orient(c, d, a)*m.orient(c, d, b) >= 0 {
		return false
	}
	return inCircle(m.points[a], m.points[b], m.points[c], m.points[d])
}

// inCircle checks if d lies strictly inside the circumcircle of the
// counter-clockwise triangle (a, b, c). Near-cocircular points count as
// outside, which keeps flipping from cycling.
func inCircle(a, b, c, d model2d.Coord) bool {
	ad, bd, cd := a.Sub(d), b.Sub(d), c.Sub(d)
	al, bl, cl := ad.Dot(ad), bd.Dot(bd), cd.Dot(cd)
	det := al*cross(bd, cd) - bl*cross(ad, cd) + cl*cross(ad, bd)
	scale := math.Max(al, math.Max(bl, cl))
	return det > 1e-10*scale*scale
}
