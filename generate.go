// Package textsign turns lines of text into printable 3D signs: beveled
// letters standing on a rectangular base plate, written as STL or 3MF.
package textsign

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/textsign/contour"
	"github.com/unixpickle/textsign/extrude"
	"github.com/unixpickle/textsign/mesh"
	"github.com/unixpickle/textsign/stl"
	"github.com/unixpickle/textsign/threemf"
)

const (
	MeshName    = "TextSign"
	BaseGroup   = "Base"
	LetterGroup = "Letters"
)

// A Report summarizes a generation call.
type Report struct {
	Lines   int
	Regions int
	Holes   int

	// Orphans counts holes that no outer contour contained. They are
	// left out of the sign.
	Orphans int

	// Skipped counts regions whose outer contour collapsed when cleaned.
	Skipped int

	// Fallbacks counts caps triangulated with the fan fallback.
	Fallbacks int

	Triangles int

	// Vertices is the number of distinct vertices after welding.
	Vertices int

	// OpenEdges counts welded edges without a matching opposite edge.
	// It is zero for a watertight sign.
	OpenEdges int
}

// A Generator runs the text to mesh pipeline. It holds no state between
// calls, and may be used concurrently if its OutlineSource allows it.
type Generator struct {
	Outlines OutlineSource

	// Logger receives warnings about dropped or approximated geometry.
	// If nil, warnings are discarded.
	Logger *log.Logger
}

// NewGenerator creates a generator over the embedded Go fonts.
func NewGenerator(logger *log.Logger) *Generator {
	lib := NewFontLibrary()
	lib.Logger = logger
	return &Generator{Outlines: lib, Logger: logger}
}

// Build creates the sign mesh for text. Lines are separated by "\n" and
// blank lines are skipped.
func (g *Generator) Build(text string, cfg Config) (*mesh.Mesh, *Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, nil, ErrEmptyInput
	}
	logger := loggerOrDiscard(g.Logger)
	report := &Report{Lines: len(lines)}

	layout, err := g.layoutLines(lines, cfg)
	if err != nil {
		return nil, nil, err
	}

	profile := extrude.NewProfile(cfg.BaseHeight, cfg.LetterHeight, cfg.BevelHeight)
	m := mesh.NewMesh(MeshName)
	base := m.Group(BaseGroup)
	var bounds orb.Bound
	var hasBounds bool
	for lineIdx, contours := range layout {
		b, ok := contour.Bounds(contours)
		if !ok {
			continue
		}
		if hasBounds {
			bounds = bounds.Union(b)
		} else {
			bounds, hasBounds = b, true
		}

		classes := contour.Classify(contours)
		report.Holes += classes.NumHoles()
		report.Orphans += len(classes.Orphans)
		for _, orphan := range classes.Orphans {
			logger.Printf("warning: line %d: dropping hole with no outer contour near %v",
				lineIdx+1, orphan[0])
		}
		for _, region := range classes.Regions {
			holes := make([][]model2d.Coord, len(region.Holes))
			for i, h := range region.Holes {
				holes[i] = h
			}
			letter, err := extrude.Region(region.Outer, holes, profile)
			if err != nil {
				report.Skipped++
				logger.Printf("warning: line %d: skipping region: %v", lineIdx+1, err)
				continue
			}
			report.Regions++
			if profile.BevelHeight > 0 && letter.Inset < profile.BevelInset {
				logger.Printf("line %d: bevel inset reduced to %.4f mm near %v",
					lineIdx+1, letter.Inset, region.Outer[0])
			}
			for _, fallback := range letter.Fallbacks {
				logger.Printf("warning: line %d: %v", lineIdx+1, fallback)
			}
			report.Fallbacks += len(letter.Fallbacks)
			m.Add(LetterGroup, letter.Triangles...)
		}
	}
	if !hasBounds {
		return nil, nil, errors.Wrap(ErrEmptyInput, "text has no visible glyphs")
	}

	base.Triangles = extrude.Plate(bounds, cfg.BaseMargin, cfg.BaseHeight)

	report.Triangles = m.NumTriangles()
	welded := mesh.Weld(m.Triangles(), mesh.WeldEpsilon)
	report.Vertices = len(welded.Vertices)
	report.OpenEdges = len(welded.BoundaryEdges())
	if report.OpenEdges > 0 {
		logger.Printf("warning: mesh has %d open edges", report.OpenEdges)
	}
	return m, report, nil
}

// layoutLines extracts the contours of every line, aligned within the
// widest line and scaled to millimeters. Line i has its baseline at
// y = -i * spacing.
func (g *Generator) layoutLines(lines []string, cfg Config) ([][]contour.Contour, error) {
	paths := make([]contour.Path, len(lines))
	widths := make([]float64, len(lines))
	lefts := make([]float64, len(lines))
	var blockWidth float64
	for i, line := range lines {
		path, err := g.Outlines.Outline(line, cfg.Font)
		if err != nil {
			return nil, errors.Wrapf(err, "outline line %d", i+1)
		}
		paths[i] = path
		if b, ok := path.Bounds(); ok {
			lefts[i] = b.Min[0]
			widths[i] = b.Max[0] - b.Min[0]
			if widths[i] > blockWidth {
				blockWidth = widths[i]
			}
		}
	}

	advance := cfg.LineSpacing * cfg.Font.Size
	res := make([][]contour.Contour, len(lines))
	for i, path := range paths {
		offset := model2d.XY(cfg.Align.offset(widths[i], blockWidth)-lefts[i], -float64(i)*advance)
		for _, c := range contour.Extract(path.Translate(offset), cfg.Flatness) {
			res[i] = append(res[i], c.Transform(func(p model2d.Coord) model2d.Coord {
				return p.Scale(cfg.Scale)
			}))
		}
	}
	return res, nil
}

// Write encodes a mesh built by Build in the given format.
func (g *Generator) Write(w io.Writer, format Format, m *mesh.Mesh, cfg Config) error {
	switch format {
	case FormatSTL:
		return stl.Write(w, m.Name, m.Triangles())
	case Format3MF:
		if !cfg.Parts {
			m = m.Merged()
		}
		return threemf.Write(w, m, threemf.Options{
			Colors: cfg.Colors,
			UUIDs:  cfg.UUIDs,
		})
	}
	return errors.Wrapf(ErrUnknownFormat, "format %d", int(format))
}

// GenerateFile builds the sign for text and writes it to path. The file
// is written under a temporary name and renamed into place, so a failed
// call leaves any existing file untouched.
func (g *Generator) GenerateFile(text, path string, format Format, cfg Config) (*Report, error) {
	m, report, err := g.Build(text, cfg)
	if err != nil {
		return nil, err
	}
	err = writeFileAtomic(path, func(w io.Writer) error {
		return g.Write(w, format, m, cfg)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func splitLines(text string) []string {
	var res []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			res = append(res, line)
		}
	}
	return res
}

func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err := write(f); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := f.Chmod(0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrap(os.Rename(f.Name(), path), "move output file into place")
}

func loggerOrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard, "", 0)
	}
	return l
}
