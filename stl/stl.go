// Package stl reads and writes ASCII STL files.
package stl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
	"github.com/unixpickle/textsign/mesh"
)

// DefaultName is the solid name used when none is given.
const DefaultName = "TextSign"

// Write encodes triangles as an ASCII STL solid. Every triangle is
// written with its own normal and vertices, using six decimal places.
func Write(w io.Writer, name string, tris []mesh.Triangle) error {
	if name == "" {
		name = DefaultName
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, t := range tris {
		n := t.Normal
		fmt.Fprintf(bw, "  facet normal %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
		bw.WriteString("    outer loop\n")
		for _, v := range t.V {
			fmt.Fprintf(bw, "      vertex %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}
		bw.WriteString("    endloop\n")
		bw.WriteString("  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return errors.Wrap(bw.Flush(), "write STL")
}

// Read decodes an ASCII STL solid, returning its name and triangles.
// The input must follow the solid/facet/outer loop/vertex grammar
// exactly, apart from indentation.
func Read(r io.Reader) (string, []mesh.Triangle, error) {
	p := &parser{scanner: bufio.NewScanner(r)}
	header, err := p.line()
	if err != nil {
		return "", nil, err
	}
	if header != "solid" && !strings.HasPrefix(header, "solid ") {
		return "", nil, p.errorf("expected solid header, got %q", header)
	}
	name := strings.TrimSpace(strings.TrimPrefix(header, "solid"))

	var tris []mesh.Triangle
	for {
		line, err := p.line()
		if err != nil {
			return "", nil, err
		}
		if strings.HasPrefix(line, "endsolid") {
			if endName := strings.TrimSpace(strings.TrimPrefix(line, "endsolid")); endName != name {
				return "", nil, p.errorf("endsolid name %q does not match %q", endName, name)
			}
			return name, tris, nil
		}
		normal, err := p.vector(line, "facet normal")
		if err != nil {
			return "", nil, err
		}
		if err := p.expect("outer loop"); err != nil {
			return "", nil, err
		}
		t := mesh.Triangle{Normal: normal}
		for i := range t.V {
			line, err := p.line()
			if err != nil {
				return "", nil, err
			}
			if t.V[i], err = p.vector(line, "vertex"); err != nil {
				return "", nil, err
			}
		}
		if err := p.expect("endloop"); err != nil {
			return "", nil, err
		}
		if err := p.expect("endfacet"); err != nil {
			return "", nil, err
		}
		tris = append(tris, t)
	}
}

type parser struct {
	scanner *bufio.Scanner
	lineNum int
}

func (p *parser) line() (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", errors.Wrap(err, "read STL")
		}
		return "", p.errorf("unexpected end of file")
	}
	p.lineNum++
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *parser) expect(keyword string) error {
	line, err := p.line()
	if err != nil {
		return err
	}
	if line != keyword {
		return p.errorf("expected %q, got %q", keyword, line)
	}
	return nil
}

func (p *parser) vector(line, keyword string) (model3d.Coord3D, error) {
	if !strings.HasPrefix(line, keyword+" ") {
		return model3d.Coord3D{}, p.errorf("expected %q, got %q", keyword, line)
	}
	fields := strings.Fields(strings.TrimPrefix(line, keyword))
	if len(fields) != 3 {
		return model3d.Coord3D{}, p.errorf("expected 3 numbers, got %d", len(fields))
	}
	var arr [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model3d.Coord3D{}, p.errorf("bad number %q", f)
		}
		arr[i] = x
	}
	return model3d.XYZ(arr[0], arr[1], arr[2]), nil
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.Errorf("STL line %d: %s", p.lineNum, fmt.Sprintf(format, args...))
}
