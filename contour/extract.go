package contour

import (
	"github.com/unixpickle/model3d/model2d"
)

// Extract walks an outline path and returns its closed contours.
//
// Curves are flattened to line segments with the given chord tolerance
// (DefaultFlatness if non-positive). Points closer than Epsilon to the
// previous point are skipped, and sub-paths that are never explicitly
// closed are still sealed. Sub-paths with fewer than three distinct
// points are discarded.
func Extract(path Path, flatness float64) []Contour {
	if flatness <= 0 {
		flatness = DefaultFlatness
	}
	e := extractor{}
	for _, cmd := range path {
		switch cmd.Op {
		case MoveTo:
			e.seal()
			e.start, e.hasStart = cmd.Pts[0], true
			e.current = append(e.current, cmd.Pts[0])
		case LineTo:
			e.lineTo(cmd.Pts[0])
		case QuadTo:
			if last, ok := e.last(); ok {
				for _, p := range flattenQuad(last, cmd.Pts[0], cmd.Pts[1], flatness) {
					e.lineTo(p)
				}
			} else {
				e.lineTo(cmd.Pts[1])
			}
		case CubeTo:
			if last, ok := e.last(); ok {
				for _, p := range flattenCube(last, cmd.Pts[0], cmd.Pts[1], cmd.Pts[2], flatness) {
					e.lineTo(p)
				}
			} else {
				e.lineTo(cmd.Pts[2])
			}
		case Close:
			e.seal()
		}
	}
	e.seal()
	return e.out
}

type extractor struct {
	current []model2d.Coord
	out     []Contour

	// start is the first point of the last sub-path. Drawing after a
	// close continues from it.
	start    model2d.Coord
	hasStart bool
}

func (e *extractor) last() (model2d.Coord, bool) {
	if len(e.current) == 0 {
		if e.hasStart {
			e.current = append(e.current, e.start)
			return e.start, true
		}
		return model2d.Coord{}, false
	}
	return e.current[len(e.current)-1], true
}

func (e *extractor) lineTo(p model2d.Coord) {
	if last, ok := e.last(); ok && last.Dist(p) < Epsilon {
		return
	}
	e.current = append(e.current, p)
}

// seal closes the current contour and, if it has enough points, adds it
// to the output. The stored contour is implicitly closed, so a final
// point that returns to the start is dropped instead of appended.
func (e *extractor) seal() {
	pts := e.current
	e.current = nil
	for len(pts) > 1 && pts[len(pts)-1].Dist(pts[0]) < Epsilon {
		pts = pts[:len(pts)-1]
	}
	if len(pts) > 2 {
		e.out = append(e.out, Contour(pts))
	}
}
