// Package mesh assembles triangle soups for sign geometry and turns them
// into welded, indexed meshes for export.
package mesh

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// A Group is a named set of triangles which is exported as one object in
// formats that support several objects.
type Group struct {
	Name      string
	Triangles []Triangle
}

// A Mesh is an ordered collection of triangle groups.
//
// Meshes are built additively. Vertices are only shared after welding.
type Mesh struct {
	Name   string
	Groups []*Group
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Group returns the group with the given name, creating it at the end of
// the group list if necessary.
func (m *Mesh) Group(name string) *Group {
	for _, g := range m.Groups {
		if g.Name == name {
			return g
		}
	}
	g := &Group{Name: name}
	m.Groups = append(m.Groups, g)
	return g
}

// Add appends triangles to the named group.
func (m *Mesh) Add(group string, tris ...Triangle) {
	g := m.Group(group)
	g.Triangles = append(g.Triangles, tris...)
}

// NumTriangles counts the triangles across all groups.
func (m *Mesh) NumTriangles() int {
	var n int
	for _, g := range m.Groups {
		n += len(g.Triangles)
	}
	return n
}

// Triangles concatenates every group in order.
func (m *Mesh) Triangles() []Triangle {
	res := make([]Triangle, 0, m.NumTriangles())
	for _, g := range m.Groups {
		res = append(res, g.Triangles...)
	}
	return res
}

// Merged returns a mesh with a single group, named after the mesh,
// holding every triangle.
func (m *Mesh) Merged() *Mesh {
	return &Mesh{
		Name:   m.Name,
		Groups: []*Group{{Name: m.Name, Triangles: m.Triangles()}},
	}
}

// Bounds computes the axis-aligned bounding box of all triangles.
// An empty mesh yields infinite bounds.
func (m *Mesh) Bounds() (min, max model3d.Coord3D) {
	min = model3d.XYZ(math.Inf(1), math.Inf(1), math.Inf(1))
	max = min.Scale(-1)
	for _, g := range m.Groups {
		for _, t := range g.Triangles {
			for _, v := range t.V {
				min = min.Min(v)
				max = max.Max(v)
			}
		}
	}
	return
}

// Model3D converts the mesh to a model3d mesh, which shares vertices
// that are exactly equal.
func (m *Mesh) Model3D() *model3d.Mesh {
	tris := make([]*model3d.Triangle, 0, m.NumTriangles())
	for _, g := range m.Groups {
		for _, t := range g.Triangles {
			tris = append(tris, t.Model3D())
		}
	}
	return model3d.NewMeshTriangles(tris)
}
