package textsign

import (
	"archive/zip"
	"bytes"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/textsign/contour"
	"github.com/unixpickle/textsign/mesh"
	"github.com/unixpickle/textsign/stl"
)

// boxSource draws every non-space character as a 10x10 block whose
// hole is punched when the character is 'o'. Stray holes are drawn for
// '*'.
type boxSource struct{}

func (boxSource) Outline(line string, font FontDescriptor) (contour.Path, error) {
	var path contour.Path
	for i, r := range line {
		x := float64(i) * 12
		switch r {
		case ' ':
			continue
		case '*':
			addRect(&path, x+2, 2, x+8, 8, false)
			continue
		}
		addRect(&path, x, 0, x+10, 10, true)
		if r == 'o' {
			addRect(&path, x+3, 3, x+7, 7, false)
		}
	}
	return path, nil
}

// addRect adds a clockwise (outer) or counter-clockwise (hole) square.
func addRect(path *contour.Path, x0, y0, x1, y1 float64, outer bool) {
	pts := []model2d.Coord{
		model2d.XY(x0, y0), model2d.XY(x0, y1), model2d.XY(x1, y1), model2d.XY(x1, y0),
	}
	if !outer {
		pts[1], pts[3] = pts[3], pts[1]
	}
	path.MoveTo(pts[0])
	for _, p := range pts[1:] {
		path.LineTo(p)
	}
	path.Close()
}

func boxConfig() Config {
	cfg := DefaultConfig()
	cfg.Font.Size = 10
	cfg.Scale = 1
	return cfg
}

func TestBuildBoxes(t *testing.T) {
	var logBuf bytes.Buffer
	g := &Generator{Outlines: boxSource{}, Logger: log.New(&logBuf, "", 0)}
	m, report, err := g.Build("xo\n\n   \n*x", boxConfig())
	if err != nil {
		t.Fatal(err)
	}
	if report.Lines != 2 || report.Regions != 3 || report.Holes != 1 || report.Orphans != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	if report.Fallbacks != 0 || report.Skipped != 0 || report.OpenEdges != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	if !strings.Contains(logBuf.String(), "dropping hole") {
		t.Errorf("orphan hole was not logged: %q", logBuf.String())
	}
	if report.Triangles != m.NumTriangles() {
		t.Errorf("triangle count %d != %d", report.Triangles, m.NumTriangles())
	}

	if len(m.Groups) != 2 || m.Groups[0].Name != BaseGroup || m.Groups[1].Name != LetterGroup {
		t.Fatalf("unexpected groups")
	}
	for _, tri := range m.Groups[0].Triangles {
		if tri.Band != mesh.BandBase {
			t.Fatalf("unexpected band %v in base", tri.Band)
		}
	}

	// The letters span x in [0, 22] and y in [-12, 10].
	min, max := m.Bounds()
	cfg := boxConfig()
	if min != model3d.XYZ(-5, -17, 0) || max != model3d.XYZ(27, 15, cfg.BaseHeight+cfg.LetterHeight) {
		t.Errorf("unexpected bounds %v %v", min, max)
	}
	if m.Model3D().NeedsRepair() {
		t.Error("mesh needs repair")
	}
}

func TestBuildAlignment(t *testing.T) {
	g := &Generator{Outlines: boxSource{}}
	for _, c := range []struct {
		align Alignment
		left  float64
	}{
		{AlignLeft, 0},
		{AlignCenter, 12},
		{AlignRight, 24},
	} {
		cfg := boxConfig()
		cfg.Align = c.align
		layout, err := g.layoutLines([]string{"xxx", "x"}, cfg)
		if err != nil {
			t.Fatal(err)
		}
		first, _ := contour.Bounds(layout[0])
		second, _ := contour.Bounds(layout[1])
		if first.Min[0] != 0 || first.Max[0] != 34 {
			t.Errorf("%v: unexpected first line %v", c.align, first)
		}
		if second.Min[0] != c.left {
			t.Errorf("%v: expected second line at %f, got %v", c.align, c.left, second)
		}
		if second.Min[1] != -12 || second.Max[1] != -2 {
			t.Errorf("%v: unexpected baseline %v", c.align, second)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	g := &Generator{Outlines: boxSource{}}
	for _, text := range []string{"", "\n", "  \n\t\n"} {
		if _, _, err := g.Build(text, boxConfig()); err != ErrEmptyInput {
			t.Errorf("%q: expected ErrEmptyInput, got %v", text, err)
		}
	}
	if _, _, err := g.Build("   x", Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected a config error, got %v", err)
	}
}

func TestGenerateFile(t *testing.T) {
	g := &Generator{Outlines: boxSource{}}
	dir := t.TempDir()

	stlPath := filepath.Join(dir, "sign.stl")
	report, err := g.GenerateFile("ox", stlPath, FormatSTL, boxConfig())
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(stlPath)
	if err != nil {
		t.Fatal(err)
	}
	name, tris, err := stl.Read(f)
	f.Close()
	if err != nil {
		t.Fatal(err)
	}
	if name != MeshName || len(tris) != report.Triangles {
		t.Errorf("unexpected STL %q with %d triangles", name, len(tris))
	}

	cfg := boxConfig()
	cfg.Parts = true
	cfg.Colors = true
	mfPath := filepath.Join(dir, "sign.3mf")
	if _, err := g.GenerateFile("ox", mfPath, Format3MF, cfg); err != nil {
		t.Fatal(err)
	}
	zr, err := zip.OpenReader(mfPath)
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	if len(zr.File) != 3 {
		t.Errorf("expected 3 entries, got %d", len(zr.File))
	}

	if _, err := g.GenerateFile("ox", filepath.Join(dir, "bad.stl"), Format(9), cfg); err == nil {
		t.Error("expected an error for an unknown format")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected files %v", names)
	}
}

func TestFontWinding(t *testing.T) {
	lib := NewFontLibrary()
	path, err := lib.Outline("O", FontDescriptor{Name: DefaultFamily, Size: 36})
	if err != nil {
		t.Fatal(err)
	}
	contours := contour.Extract(path, contour.DefaultFlatness)
	if len(contours) != 2 {
		t.Fatalf("expected 2 contours, got %d", len(contours))
	}
	classes := contour.Classify(contours)
	if len(classes.Regions) != 1 || len(classes.Regions[0].Holes) != 1 || len(classes.Orphans) != 0 {
		t.Fatalf("expected one outer contour with one hole")
	}
	outer := classes.Regions[0].Outer
	hole := classes.Regions[0].Holes[0]
	if outer.ShoelaceSum() <= 0 || hole.ShoelaceSum() >= 0 {
		t.Errorf("unexpected shoelace sums %f and %f", outer.ShoelaceSum(), hole.ShoelaceSum())
	}
	if outer.Area() <= hole.Area() {
		t.Error("outer contour should be larger than its hole")
	}

	b, _ := contour.Bounds(contours)
	if b.Min[1] > 0 || b.Min[1] < -2 || b.Max[1] < 20 || b.Max[1] > 36 {
		t.Errorf("unexpected glyph bounds %v", b)
	}
}

func TestFontLibrary(t *testing.T) {
	var logBuf bytes.Buffer
	lib := NewFontLibrary()
	lib.Logger = log.New(&logBuf, "", 0)

	bold, exact := lib.Lookup(FontDescriptor{Name: "go", Style: StyleBold})
	if bold == nil || !exact {
		t.Fatal("expected the embedded bold font")
	}
	fallback, exact := lib.Lookup(FontDescriptor{Name: "Arial", Style: StyleBold})
	if fallback != bold || exact {
		t.Error("unknown fonts should fall back to the Go font of the same style")
	}

	wide, err := lib.Outline("WW", FontDescriptor{Name: "Arial", Size: 36, Style: StyleBold})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logBuf.String(), "warning: font \"Arial\"") {
		t.Errorf("missing fallback warning: %q", logBuf.String())
	}
	narrow, err := lib.Outline("W", FontDescriptor{Name: DefaultFamily, Size: 36, Style: StyleBold})
	if err != nil {
		t.Fatal(err)
	}
	wb, _ := wide.Bounds()
	nb, _ := narrow.Bounds()
	if wb.Max[0] < nb.Max[0]*1.5 {
		t.Errorf("second glyph should advance the pen: %v vs %v", wb, nb)
	}

	empty, err := lib.Outline("", FontDescriptor{Name: DefaultFamily, Size: 36})
	if err != nil || len(empty) != 0 {
		t.Errorf("unexpected outline for empty text: %v, %v", empty, err)
	}
	if _, err := lib.Outline("x", FontDescriptor{Name: DefaultFamily}); err == nil {
		t.Error("expected an error for a zero size")
	}
	if err := lib.RegisterTTF("Broken", StylePlain, []byte("not a font")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestGenerateText(t *testing.T) {
	g := NewGenerator(nil)

	flat := DefaultConfig()
	flat.BevelHeight = 0
	m, report, err := g.Build("Hello\nWorld", flat)
	if err != nil {
		t.Fatal(err)
	}
	if report.Lines != 2 || report.Orphans != 0 || report.Skipped != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	// Holes in e, o, o and d.
	if report.Holes != 4 {
		t.Errorf("expected 4 holes, got %d", report.Holes)
	}
	if report.Fallbacks != 0 || report.OpenEdges != 0 {
		t.Errorf("mesh is not watertight: %+v", report)
	}
	volume := m.Model3D().Volume()
	min, max := m.Bounds()
	plate := (max.X - min.X) * (max.Y - min.Y) * flat.BaseHeight
	if volume <= plate || math.Abs(max.Z-flat.BaseHeight-flat.LetterHeight) > 1e-9 {
		t.Errorf("unexpected volume %f (plate %f) or height %f", volume, plate, max.Z)
	}

	beveled := DefaultConfig()
	m, report, err = g.Build("HOLE", beveled)
	if err != nil {
		t.Fatal(err)
	}
	if report.Regions != 4 || report.Holes != 1 || report.Fallbacks != 0 || report.OpenEdges != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	var faces int
	for _, tri := range m.Triangles() {
		if tri.Band == mesh.BandFace {
			faces++
			if tri.Centroid().Z < beveled.BaseHeight+beveled.LetterHeight-beveled.BevelHeight-1e-9 {
				t.Fatalf("face triangle below the bevel: %v", tri)
			}
		}
	}
	if faces == 0 {
		t.Error("no bevel or top cap triangles")
	}
}

func TestGenerateBeveledGlyphs(t *testing.T) {
	g := NewGenerator(nil)
	for _, style := range []Style{StylePlain, StyleBold, StyleItalic, StyleBold | StyleItalic} {
		cfg := DefaultConfig()
		cfg.Font.Style = style
		_, report, err := g.Build("KkAVW@?", cfg)
		if err != nil {
			t.Fatal(err)
		}
		if report.Fallbacks != 0 || report.OpenEdges != 0 || report.Skipped != 0 {
			t.Errorf("style %d: unexpected report %+v", style, report)
		}
	}
}
