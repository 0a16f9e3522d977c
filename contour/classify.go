package contour

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// A Region is one outer shell and the holes it contains.
type Region struct {
	Outer Contour
	Holes []Contour
}

// Classification is the result of Classify.
type Classification struct {
	Regions []Region

	// Orphans are holes that no outer shell contains.
	Orphans []Contour
}

// NumHoles counts the holes assigned to regions.
func (c *Classification) NumHoles() int {
	var n int
	for _, r := range c.Regions {
		n += len(r.Holes)
	}
	return n
}

// Classify splits contours into outer shells and holes by winding, and
// assigns every hole to the smallest outer shell containing the hole's
// first vertex. Regions keep the order of their outer shells.
//
// Holes are assumed not to nest inside other holes.
func Classify(contours []Contour) *Classification {
	var outers []Contour
	var holes []Contour
	for _, c := range contours {
		if c.IsOuter() {
			outers = append(outers, c)
		} else {
			holes = append(holes, c)
		}
	}

	res := &Classification{Regions: make([]Region, len(outers))}
	rings := make([]orb.Ring, len(outers))
	areas := make([]float64, len(outers))
	for i, o := range outers {
		res.Regions[i].Outer = o
		rings[i] = o.Ring()
		areas[i] = math.Abs(planar.Area(rings[i]))
	}

	for _, h := range holes {
		p := orb.Point{h[0].X, h[0].Y}
		owner := -1
		for i, ring := range rings {
			if !planar.RingContains(ring, p) {
				continue
			}
			if owner == -1 || areas[i] < areas[owner] {
				owner = i
			}
		}
		if owner == -1 {
			res.Orphans = append(res.Orphans, h)
		} else {
			res.Regions[owner].Holes = append(res.Regions[owner].Holes, h)
		}
	}
	return res
}

// Contains reports whether p is inside c, using ray casting.
func (c Contour) Contains(p orb.Point) bool {
	return planar.RingContains(c.Ring(), p)
}
