package mesh

import (
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// WeldEpsilon is the default distance, in millimeters, under which two
// vertices are merged.
const WeldEpsilon = 1e-6

type weldPoint struct {
	model3d.Coord3D
	index int
}

func (w weldPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	o := c.(weldPoint)
	return w.Array()[d] - o.Array()[d]
}

func (w weldPoint) Dims() int {
	return 3
}

func (w weldPoint) Distance(c kdtree.Comparable) float64 {
	o := c.(weldPoint)
	return w.SquaredDist(o.Coord3D)
}

// A VertexTable maps points to stable indices, merging every point that
// lies within Epsilon of an existing entry.
//
// Entries are pairwise more than Epsilon apart, so feeding a table's
// vertices into a fresh table reproduces it.
type VertexTable struct {
	Epsilon float64

	coords []model3d.Coord3D
	tree   kdtree.Tree
}

func NewVertexTable(epsilon float64) *VertexTable {
	return &VertexTable{Epsilon: epsilon}
}

// Index returns the index of c, adding it if no entry is close enough.
func (v *VertexTable) Index(c model3d.Coord3D) int {
	query := weldPoint{Coord3D: c}
	if nearest, dist := v.tree.Nearest(query); nearest != nil && dist <= v.Epsilon*v.Epsilon {
		return nearest.(weldPoint).index
	}
	idx := len(v.coords)
	v.coords = append(v.coords, c)
	v.tree.Insert(weldPoint{Coord3D: c, index: idx}, false)
	return idx
}

// Len returns the number of distinct vertices.
func (v *VertexTable) Len() int {
	return len(v.coords)
}

// Coords returns the table entries in index order.
func (v *VertexTable) Coords() []model3d.Coord3D {
	return append([]model3d.Coord3D{}, v.coords...)
}

// A Face holds three vertex indices and the band of its source triangle.
type Face struct {
	V    [3]int
	Band Band
}

// Indexed is a welded mesh.
type Indexed struct {
	Vertices []model3d.Coord3D
	Faces    []Face

	// Collapsed counts the triangles that were dropped because two of
	// their vertices welded together.
	Collapsed int
}

// Weld builds an indexed mesh from a triangle soup.
func Weld(tris []Triangle, epsilon float64) *Indexed {
	table := NewVertexTable(epsilon)
	res := &Indexed{}
	for _, t := range tris {
		var f Face
		for i, c := range t.V {
			f.V[i] = table.Index(c)
		}
		if f.V[0] == f.V[1] || f.V[1] == f.V[2] || f.V[0] == f.V[2] {
			res.Collapsed++
			continue
		}
		f.Band = t.Band
		res.Faces = append(res.Faces, f)
	}
	res.Vertices = table.coords
	return res
}

// Edge is a directed edge between two vertex indices.
type Edge [2]int

// BoundaryEdges returns the directed edges that have no reversed partner.
// Every edge of a closed, consistently oriented mesh is matched exactly
// once, so the result is empty for a watertight mesh.
func (i *Indexed) BoundaryEdges() []Edge {
	counts := map[Edge]int{}
	for _, f := range i.Faces {
		for j := 0; j < 3; j++ {
			counts[Edge{f.V[j], f.V[(j+1)%3]}]++
		}
	}
	var res []Edge
	for e, n := range counts {
		rev := Edge{e[1], e[0]}
		if counts[rev] != n {
			res = append(res, e)
		}
	}
	return res
}
