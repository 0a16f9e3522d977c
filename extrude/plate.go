package extrude

import (
	"github.com/paulmach/orb"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/textsign/mesh"
)

// Plate creates the base plate: a box covering bounds expanded by
// margin on every side, from z=0 to z=height. Every face has an explicit
// axis-aligned normal.
func Plate(bounds orb.Bound, margin, height float64) []mesh.Triangle {
	b := bounds.Pad(margin)
	x0, y0 := b.Min[0], b.Min[1]
	x1, y1 := b.Max[0], b.Max[1]
	c := func(x, y, z float64) model3d.Coord3D {
		return model3d.XYZ(x, y, z)
	}

	var res []mesh.Triangle
	face := func(n model3d.Coord3D, p1, p2, p3, p4 model3d.Coord3D) {
		for _, t := range mesh.Quad(p1, p2, p3, p4) {
			t.Normal = n
			t.Band = mesh.BandBase
			res = append(res, t)
		}
	}
	face(model3d.Z(-1), c(x0, y0, 0), c(x0, y1, 0), c(x1, y1, 0), c(x1, y0, 0))
	face(model3d.Z(1), c(x0, y0, height), c(x1, y0, height), c(x1, y1, height), c(x0, y1, height))
	face(model3d.Y(-1), c(x0, y0, 0), c(x1, y0, 0), c(x1, y0, height), c(x0, y0, height))
	face(model3d.Y(1), c(x1, y1, 0), c(x0, y1, 0), c(x0, y1, height), c(x1, y1, height))
	face(model3d.X(-1), c(x0, y1, 0), c(x0, y0, 0), c(x0, y0, height), c(x0, y1, height))
	face(model3d.X(1), c(x1, y0, 0), c(x1, y1, 0), c(x1, y1, height), c(x1, y0, height))
	return res
}
