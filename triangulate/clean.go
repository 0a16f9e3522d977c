package triangulate

import (
	"github.com/unixpickle/model3d/model2d"
)

// DefaultTolerance is the distance under which consecutive ring points
// are merged before triangulation.
const DefaultTolerance = 0.01

// Snap replaces every point of a closed ring with the first point of its
// run of near-duplicates. The result has the same length as ring, so
// index correspondence with the input is preserved. Trailing runs that
// come back within tol of the first point are snapped to the first point.
func Snap(ring []model2d.Coord, tol float64) []model2d.Coord {
	res := make([]model2d.Coord, len(ring))
	if len(ring) == 0 {
		return res
	}
	rep := ring[0]
	for i, p := range ring {
		if p.Dist(rep) >= tol {
			rep = p
		}
		res[i] = rep
	}
	for {
		first, last := res[0], res[len(res)-1]
		if last == first || last.Dist(first) >= tol {
			break
		}
		for i := len(res) - 1; i >= 0 && res[i] == last; i-- {
			res[i] = first
		}
	}
	return res
}

// Distinct drops consecutive equal points, including a final point equal
// to the first.
func Distinct(ring []model2d.Coord) []model2d.Coord {
	res := make([]model2d.Coord, 0, len(ring))
	for _, p := range ring {
		if len(res) > 0 && res[len(res)-1] == p {
			continue
		}
		res = append(res, p)
	}
	for len(res) > 1 && res[len(res)-1] == res[0] {
		res = res[:len(res)-1]
	}
	return res
}

// Clean removes consecutive near-duplicate points and the duplicate
// closing point from a ring. Cleaning a cleaned ring returns it unchanged.
func Clean(ring []model2d.Coord, tol float64) []model2d.Coord {
	return Distinct(Snap(ring, tol))
}
