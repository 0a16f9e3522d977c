package extrude

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/textsign/contour"
	"github.com/unixpickle/textsign/mesh"
	"github.com/unixpickle/textsign/triangulate"
)

// A Letter is the closed solid extruded from one glyph region.
type Letter struct {
	Triangles []mesh.Triangle

	// Fallbacks holds the error of every cap that was triangulated
	// with the fan fallback. Such caps ignore holes.
	Fallbacks []error

	// Inset is the bevel offset that was used, which is less than the
	// profile's when the full offset would fold the crown.
	Inset float64
}

// Region extrudes an outer shell and its holes into a beveled letter.
//
// Rings may have any orientation. They are cleaned of near-duplicate
// points, and the walls and caps are built from the same cleaned points
// so that every shared edge matches exactly.
func Region(outer []model2d.Coord, holes [][]model2d.Coord, p Profile) (*Letter, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	outer = orientRing(triangulate.Clean(outer, triangulate.DefaultTolerance), true)
	if len(outer) < 3 {
		return nil, errors.Wrap(triangulate.ErrDegenerate, "outer shell")
	}
	rings := [][]model2d.Coord{outer}
	for _, h := range holes {
		h = orientRing(triangulate.Clean(h, triangulate.DefaultTolerance), false)
		if len(h) >= 3 {
			rings = append(rings, h)
		}
	}

	zBase, zTop, zBevel := p.Planes()
	res := &Letter{}
	body := func(tris []mesh.Triangle) {
		for _, t := range tris {
			t.Band = mesh.BandBody
			res.Triangles = append(res.Triangles, t)
		}
	}
	face := func(tris []mesh.Triangle) {
		for _, t := range tris {
			t.Band = mesh.BandFace
			res.Triangles = append(res.Triangles, t)
		}
	}

	for _, ring := range rings {
		body(ringWalls(ring, ring, zBase, zTop))
	}
	bottom, err := cap2D(rings, zBase, false)
	if err != nil {
		res.Fallbacks = append(res.Fallbacks, errors.Wrap(err, "bottom cap"))
	}
	body(bottom)

	// Narrow features can make the offset rings cross, so the inset
	// shrinks until the crown triangulates. At zero it is the bottom
	// cap again.
	dist := p.BevelInset
	if p.BevelHeight == 0 {
		dist = 0
	}
	for attempt := 0; ; attempt++ {
		if attempt == InsetAttempts || dist < DegenerateEpsilon {
			dist = 0
		}
		tops, ok := insetRings(rings, dist, p.MiterLimit)
		if !ok {
			dist /= 2
			continue
		}
		topRings := make([][]model2d.Coord, len(tops))
		for i, top := range tops {
			topRings[i] = triangulate.Distinct(top)
		}
		top, err := cap2D(topRings, zBevel, true)
		if err != nil && dist > 0 {
			dist /= 2
			continue
		}
		if err != nil {
			res.Fallbacks = append(res.Fallbacks, errors.Wrap(err, "top cap"))
		}
		if p.BevelHeight > 0 {
			for i, ring := range rings {
				face(ringWalls(ring, tops[i], zTop, zBevel))
			}
		}
		face(top)
		res.Inset = dist
		break
	}

	return res, nil
}

// ringWalls connects ring at z0 to top at z1, where top[i] lies above
// ring[i]. Rings must have the material on the left of each edge, so
// that the walls face away from it.
func ringWalls(ring, top []model2d.Coord, z0, z1 float64) []mesh.Triangle {
	var res []mesh.Triangle
	for i := range ring {
		j := (i + 1) % len(ring)
		res = append(res, mesh.Quad(
			xyz(ring[i], z0),
			xyz(ring[j], z0),
			xyz(top[j], z1),
			xyz(top[i], z1),
		)...)
	}
	return res
}

// cap2D triangulates the first ring minus the others and places the
// result at height z, facing up or down.
func cap2D(rings [][]model2d.Coord, z float64, up bool) ([]mesh.Triangle, error) {
	tris, err := triangulate.Polygon(rings[0], rings[1:])
	normal := model3d.Z(-1)
	if up {
		normal = model3d.Z(1)
	}
	res := make([]mesh.Triangle, 0, len(tris))
	for _, t := range tris {
		if (t.SignedArea() > 0) != up {
			t[1], t[2] = t[2], t[1]
		}
		res = append(res, mesh.NewTriangleNormal(xyz(t[0], z), xyz(t[1], z), xyz(t[2], z), normal))
	}
	return res, err
}

// orientRing makes a ring counter-clockwise (ccw) or clockwise.
func orientRing(ring []model2d.Coord, ccw bool) []model2d.Coord {
	if (contour.Contour(ring).SignedArea() > 0) != ccw {
		return contour.Contour(ring).Reversed()
	}
	return ring
}

func xyz(c model2d.Coord, z float64) model3d.Coord3D {
	return model3d.XYZ(c.X, c.Y, z)
}
