package stl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/textsign/mesh"
)

func TestWriteFormat(t *testing.T) {
	tri := mesh.NewTriangle(model3d.XYZ(0, 0, 0), model3d.XYZ(1, 0, 0), model3d.XYZ(0, 1, 0))
	var buf bytes.Buffer
	if err := Write(&buf, "", []mesh.Triangle{tri}); err != nil {
		t.Fatal(err)
	}
	expected := strings.Join([]string{
		"solid TextSign",
		"  facet normal 0.000000 0.000000 1.000000",
		"    outer loop",
		"      vertex 0.000000 0.000000 0.000000",
		"      vertex 1.000000 0.000000 0.000000",
		"      vertex 0.000000 1.000000 0.000000",
		"    endloop",
		"  endfacet",
		"endsolid TextSign",
		"",
	}, "\n")
	if buf.String() != expected {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "Empty", nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "solid Empty\nendsolid Empty\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRoundTrip(t *testing.T) {
	m := model3d.NewMeshRect(model3d.XYZ(-1, 0.5, 2), model3d.XYZ(3, 2.25, 4.125))
	var tris []mesh.Triangle
	m.Iterate(func(t *model3d.Triangle) {
		tris = append(tris, mesh.NewTriangle(t[0], t[1], t[2]))
	})

	var buf bytes.Buffer
	if err := Write(&buf, "Box", tris); err != nil {
		t.Fatal(err)
	}
	name, decoded, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Box" {
		t.Errorf("unexpected name %q", name)
	}
	if len(decoded) != len(tris) {
		t.Fatalf("expected %d triangles, got %d", len(tris), len(decoded))
	}
	for i, tri := range decoded {
		for j, v := range tri.V {
			if v.Dist(tris[i].V[j]) > 1e-6 {
				t.Fatalf("triangle %d vertex %d: expected %v, got %v", i, j, tris[i].V[j], v)
			}
		}
		if tri.Normal.Dist(tris[i].Normal) > 1e-6 {
			t.Fatalf("triangle %d: expected normal %v, got %v", i, tris[i].Normal, tri.Normal)
		}
	}
}

func TestReadErrors(t *testing.T) {
	cases := map[string]string{
		"header":    "facet normal 0 0 1\n",
		"truncated": "solid x\n  facet normal 0 0 1\n    outer loop\n",
		"number":    "solid x\n  facet normal 0 zero 1\n",
		"arity":     "solid x\n  facet normal 0 0 1\n    outer loop\n      vertex 0 0\n",
		"endname":   "solid x\nendsolid y\n",
		"endloop": "solid x\n  facet normal 0 0 1\n    outer loop\n" +
			"      vertex 0 0 0\n      vertex 1 0 0\n      vertex 0 1 0\n" +
			"      vertex 0 1 0\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Read(strings.NewReader(data)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
