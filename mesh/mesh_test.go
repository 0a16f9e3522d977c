package mesh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestQuadSplit(t *testing.T) {
	p1 := model3d.XYZ(0, 0, 0)
	p2 := model3d.XYZ(1, 0, 0)
	p3 := model3d.XYZ(1, 0, 1)
	p4 := model3d.XYZ(0, 0, 1)
	tris := Quad(p1, p2, p3, p4)
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
	if tris[0].V != [3]model3d.Coord3D{p1, p2, p3} || tris[1].V != [3]model3d.Coord3D{p1, p3, p4} {
		t.Fatalf("unexpected split: %v", tris)
	}
	expected := model3d.Y(-1)
	for i, tri := range tris {
		if tri.Normal.Dist(expected) > 1e-12 {
			t.Errorf("triangle %d: normal %v, expected %v", i, tri.Normal, expected)
		}
	}

	collapsed := Quad(p1, p2, p3, p3)
	if len(collapsed) != 1 {
		t.Fatalf("expected degenerate half to be skipped, got %d triangles", len(collapsed))
	}
}

func TestTriangleFlip(t *testing.T) {
	tri := NewTriangle(model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0))
	if tri.Normal.Dist(model3d.Z(1)) > 1e-12 {
		t.Fatalf("unexpected normal %v", tri.Normal)
	}
	flipped := tri.Flip()
	if flipped.WindingNormal().Dist(model3d.Z(-1)) > 1e-12 || flipped.Normal.Dist(model3d.Z(-1)) > 1e-12 {
		t.Fatalf("flip did not reverse orientation: %v", flipped)
	}
	if math.Abs(tri.Area()-0.5) > 1e-12 {
		t.Fatalf("unexpected area %f", tri.Area())
	}
}

func TestMeshGroups(t *testing.T) {
	m := NewMesh("TextSign")
	tri := NewTriangle(model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0))
	m.Add("Base", tri)
	m.Add("Letters", tri, tri)
	m.Add("Base", tri)
	if len(m.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(m.Groups))
	}
	if m.NumTriangles() != 4 || len(m.Triangles()) != 4 {
		t.Fatalf("unexpected triangle count %d", m.NumTriangles())
	}
	merged := m.Merged()
	if len(merged.Groups) != 1 || merged.Groups[0].Name != "TextSign" || len(merged.Groups[0].Triangles) != 4 {
		t.Fatalf("unexpected merged mesh: %+v", merged.Groups)
	}
	min, max := m.Bounds()
	if min != model3d.XYZ(0, 0, 0) || max != model3d.XYZ(1, 1, 0) {
		t.Fatalf("unexpected bounds %v %v", min, max)
	}
}

func TestVertexTableMerges(t *testing.T) {
	table := NewVertexTable(WeldEpsilon)
	a := table.Index(model3d.XYZ(1, 2, 3))
	b := table.Index(model3d.XYZ(1+WeldEpsilon/2, 2, 3))
	c := table.Index(model3d.XYZ(1+WeldEpsilon*10, 2, 3))
	if a != b {
		t.Errorf("points within epsilon should weld: %d != %d", a, b)
	}
	if a == c {
		t.Errorf("points beyond epsilon should not weld")
	}
	if table.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", table.Len())
	}
}

func TestWeldIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var coords []model3d.Coord3D
	for i := 0; i < 500; i++ {
		c := model3d.XYZ(float64(rng.Intn(10)), float64(rng.Intn(10)), float64(rng.Intn(3)))
		// Jitter below the weld epsilon.
		c = c.Add(model3d.XYZ(rng.Float64(), rng.Float64(), rng.Float64()).Scale(WeldEpsilon / 10))
		coords = append(coords, c)
	}
	first := NewVertexTable(WeldEpsilon)
	for _, c := range coords {
		first.Index(c)
	}
	second := NewVertexTable(WeldEpsilon)
	for _, c := range first.Coords() {
		second.Index(c)
	}
	a, b := first.Coords(), second.Coords()
	if len(a) != len(b) {
		t.Fatalf("re-weld changed table size: %d -> %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d changed: %v -> %v", i, a[i], b[i])
		}
	}
}

func TestWeldBoundaryEdges(t *testing.T) {
	box := model3d.NewMeshRect(model3d.XYZ(0, 0, 0), model3d.XYZ(1, 2, 3))
	var tris []Triangle
	box.Iterate(func(tri *model3d.Triangle) {
		// Perturb each copy so welding has to close the seams.
		var jittered [3]model3d.Coord3D
		for i, c := range tri {
			jittered[i] = c.Add(model3d.XYZ(1e-9, -1e-9, 1e-9))
		}
		tris = append(tris, NewTriangle(jittered[0], jittered[1], jittered[2]))
	})
	indexed := Weld(tris, WeldEpsilon)
	if len(indexed.Vertices) != 8 {
		t.Fatalf("expected 8 vertices, got %d", len(indexed.Vertices))
	}
	if edges := indexed.BoundaryEdges(); len(edges) != 0 {
		t.Fatalf("expected closed mesh, got boundary edges %v", edges)
	}

	indexed.Faces = indexed.Faces[1:]
	if edges := indexed.BoundaryEdges(); len(edges) != 3 {
		t.Fatalf("expected 3 boundary edges after removing a face, got %d", len(edges))
	}
}

func TestWeldDropsCollapsed(t *testing.T) {
	tri := NewTriangle(model3d.XYZ(0, 0, 0), model3d.XYZ(1e-8, 0, 0), model3d.XYZ(0, 1, 0))
	indexed := Weld([]Triangle{tri}, WeldEpsilon)
	if len(indexed.Faces) != 0 || indexed.Collapsed != 1 {
		t.Fatalf("expected collapsed face to be dropped: %+v", indexed)
	}
}
