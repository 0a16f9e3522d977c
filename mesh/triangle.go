package mesh

import (
	"github.com/unixpickle/model3d/model3d"
)

// Band identifies the height band a triangle belongs to. Bands drive
// per-triangle colors in multi-material exports.
type Band uint8

const (
	BandBase Band = iota
	BandBody
	BandFace
)

func (b Band) String() string {
	switch b {
	case BandBase:
		return "base"
	case BandBody:
		return "body"
	case BandFace:
		return "face"
	default:
		return "unknown"
	}
}

// A Triangle owns its three vertices by value. Vertices are ordered
// counter-clockwise when viewed from the side Normal points to.
type Triangle struct {
	V      [3]model3d.Coord3D
	Normal model3d.Coord3D
	Band   Band
}

// NewTriangle creates a triangle whose normal is computed from the
// cross product of its first two edges.
func NewTriangle(a, b, c model3d.Coord3D) Triangle {
	return Triangle{
		V:      [3]model3d.Coord3D{a, b, c},
		Normal: faceNormal(a, b, c),
	}
}

// NewTriangleNormal creates a triangle with an explicit normal, which
// is used for axis-aligned faces.
func NewTriangleNormal(a, b, c, normal model3d.Coord3D) Triangle {
	return Triangle{V: [3]model3d.Coord3D{a, b, c}, Normal: normal}
}

// Quad splits the quad p1-p2-p3-p4 into (p1, p2, p3) and (p1, p3, p4).
// Halves with coincident vertices are skipped.
func Quad(p1, p2, p3, p4 model3d.Coord3D) []Triangle {
	res := make([]Triangle, 0, 2)
	if t := NewTriangle(p1, p2, p3); !t.Degenerate() {
		res = append(res, t)
	}
	if t := NewTriangle(p1, p3, p4); !t.Degenerate() {
		res = append(res, t)
	}
	return res
}

// Degenerate reports whether two of the vertices coincide exactly.
func (t Triangle) Degenerate() bool {
	return t.V[0] == t.V[1] || t.V[1] == t.V[2] || t.V[0] == t.V[2]
}

// Area computes the triangle's area.
func (t Triangle) Area() float64 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Norm() / 2
}

// Centroid returns the average of the vertices.
func (t Triangle) Centroid() model3d.Coord3D {
	return t.V[0].Add(t.V[1]).Add(t.V[2]).Scale(1.0 / 3)
}

// WindingNormal computes the normal implied by the vertex order,
// regardless of the stored Normal.
func (t Triangle) WindingNormal() model3d.Coord3D {
	return faceNormal(t.V[0], t.V[1], t.V[2])
}

// Flip reverses the winding and the normal.
func (t Triangle) Flip() Triangle {
	t.V[1], t.V[2] = t.V[2], t.V[1]
	t.Normal = t.Normal.Scale(-1)
	return t
}

// Model3D converts the triangle to a model3d triangle.
func (t Triangle) Model3D() *model3d.Triangle {
	res := model3d.Triangle(t.V)
	return &res
}

func faceNormal(a, b, c model3d.Coord3D) model3d.Coord3D {
	n := b.Sub(a).Cross(c.Sub(a))
	norm := n.Norm()
	if norm == 0 {
		return model3d.Coord3D{}
	}
	return n.Scale(1 / norm)
}
