// Package contour turns glyph outline paths into closed polygonal
// contours and groups them into regions of one outer shell plus holes.
package contour

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/unixpickle/model3d/model2d"
)

// Epsilon is the distance under which consecutive outline points are
// treated as the same point.
const Epsilon = 0.001

// DefaultFlatness is the default chord tolerance, in font units, used to
// flatten curve commands.
const DefaultFlatness = 0.5

// A Contour is an implicitly closed polygon: the last point connects back
// to the first. Extracted contours hold at least three distinct points.
type Contour []model2d.Coord

// ShoelaceSum computes sum((x[i+1]-x[i])*(y[i+1]+y[i])) around the
// contour. It is -2 times the conventional signed area.
func (c Contour) ShoelaceSum() float64 {
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += (q.X - p.X) * (q.Y + p.Y)
	}
	return sum
}

// IsOuter reports whether the contour encloses material.
//
// Outline sources feed contours in TrueType orientation (y up, outer
// shells clockwise), where outer shells have a positive shoelace sum.
// Zero-area contours count as holes.
func (c Contour) IsOuter() bool {
	return c.ShoelaceSum() > 0
}

// SignedArea is the conventional signed area, positive for
// counter-clockwise contours in a y-up frame.
func (c Contour) SignedArea() float64 {
	return -c.ShoelaceSum() / 2
}

// Area is the unsigned area.
func (c Contour) Area() float64 {
	return math.Abs(c.SignedArea())
}

// Reversed returns the contour traversed in the opposite direction.
func (c Contour) Reversed() Contour {
	res := make(Contour, len(c))
	for i, p := range c {
		res[len(c)-1-i] = p
	}
	return res
}

// Centroid returns the area centroid, or the vertex average for
// contours without area.
func (c Contour) Centroid() model2d.Coord {
	var cx, cy, a float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		cross := p.X*q.Y - q.X*p.Y
		a += cross
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	if math.Abs(a) < 1e-12 {
		var sum model2d.Coord
		for _, p := range c {
			sum = sum.Add(p)
		}
		return sum.Scale(1 / float64(len(c)))
	}
	return model2d.XY(cx/(3*a), cy/(3*a))
}

// Bound computes the axis-aligned bounds of the contour.
func (c Contour) Bound() orb.Bound {
	return c.Ring().Bound()
}

// Ring converts the contour to an explicitly closed orb ring.
func (c Contour) Ring() orb.Ring {
	res := make(orb.Ring, 0, len(c)+1)
	for _, p := range c {
		res = append(res, orb.Point{p.X, p.Y})
	}
	if len(c) > 0 {
		res = append(res, res[0])
	}
	return res
}

// Transform applies f to every point.
func (c Contour) Transform(f func(model2d.Coord) model2d.Coord) Contour {
	res := make(Contour, len(c))
	for i, p := range c {
		res[i] = f(p)
	}
	return res
}

// Bounds computes the union of the bounds of several contours. The
// second return value is false if there are no points.
func Bounds(cs []Contour) (orb.Bound, bool) {
	var res orb.Bound
	found := false
	for _, c := range cs {
		if len(c) == 0 {
			continue
		}
		if !found {
			res = c.Bound()
			found = true
		} else {
			res = res.Union(c.Bound())
		}
	}
	return res, found
}
