package contour

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/unixpickle/model3d/model2d"
)

// Op is a path command type.
type Op int

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
	Close
)

func (o Op) String() string {
	switch o {
	case MoveTo:
		return "M"
	case LineTo:
		return "L"
	case QuadTo:
		return "Q"
	case CubeTo:
		return "C"
	case Close:
		return "Z"
	default:
		return "?"
	}
}

// A Command is one path segment. Pts holds the control points followed
// by the end point: one point for MoveTo and LineTo, two for QuadTo,
// three for CubeTo and none for Close.
type Command struct {
	Op  Op
	Pts []model2d.Coord
}

// Path is a sequence of outline commands, in the order a font outline
// iterator emits them.
type Path []Command

func (p *Path) MoveTo(c model2d.Coord) {
	*p = append(*p, Command{Op: MoveTo, Pts: []model2d.Coord{c}})
}

func (p *Path) LineTo(c model2d.Coord) {
	*p = append(*p, Command{Op: LineTo, Pts: []model2d.Coord{c}})
}

func (p *Path) QuadTo(ctrl, end model2d.Coord) {
	*p = append(*p, Command{Op: QuadTo, Pts: []model2d.Coord{ctrl, end}})
}

func (p *Path) CubeTo(ctrl1, ctrl2, end model2d.Coord) {
	*p = append(*p, Command{Op: CubeTo, Pts: []model2d.Coord{ctrl1, ctrl2, end}})
}

func (p *Path) Close() {
	*p = append(*p, Command{Op: Close})
}

// Translate returns a copy of the path moved by offset.
func (p Path) Translate(offset model2d.Coord) Path {
	res := make(Path, len(p))
	for i, cmd := range p {
		pts := make([]model2d.Coord, len(cmd.Pts))
		for j, c := range cmd.Pts {
			pts[j] = c.Add(offset)
		}
		res[i] = Command{Op: cmd.Op, Pts: pts}
	}
	return res
}

// Bounds computes the bounds of every point in the path, including
// curve control points. The second return value is false for a path
// without points.
func (p Path) Bounds() (orb.Bound, bool) {
	var mp orb.MultiPoint
	for _, cmd := range p {
		for _, c := range cmd.Pts {
			mp = append(mp, orb.Point{c.X, c.Y})
		}
	}
	if len(mp) == 0 {
		return orb.Bound{}, false
	}
	return mp.Bound(), true
}

const maxCurveSegments = 256

// flattenQuad returns the points after p0 along a quadratic Bezier, with
// a chord error of at most tol.
func flattenQuad(p0, p1, p2 model2d.Coord, tol float64) []model2d.Coord {
	dd := p0.Sub(p1.Scale(2)).Add(p2).Norm()
	n := curveSegments(dd/4, tol)
	res := make([]model2d.Coord, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		res = append(res, p0.Scale(u*u).Add(p1.Scale(2*u*t)).Add(p2.Scale(t*t)))
	}
	return res
}

// flattenCube returns the points after p0 along a cubic Bezier, with a
// chord error of at most tol.
func flattenCube(p0, p1, p2, p3 model2d.Coord, tol float64) []model2d.Coord {
	dd := math.Max(
		p0.Sub(p1.Scale(2)).Add(p2).Norm(),
		p1.Sub(p2.Scale(2)).Add(p3).Norm(),
	)
	n := curveSegments(dd*3/4, tol)
	res := make([]model2d.Coord, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		u := 1 - t
		p := p0.Scale(u * u * u).
			Add(p1.Scale(3 * u * u * t)).
			Add(p2.Scale(3 * u * t * t)).
			Add(p3.Scale(t * t * t))
		res = append(res, p)
	}
	return res
}

// curveSegments picks n such that bound/n^2 <= tol, where bound is the
// curve's chord error for a single segment.
func curveSegments(bound, tol float64) int {
	if tol <= 0 || bound <= tol {
		return 1
	}
	n := int(math.Ceil(math.Sqrt(bound / tol)))
	if n > maxCurveSegments {
		n = maxCurveSegments
	}
	return n
}
