// Package threemf writes meshes as 3D Manufacturing Format packages.
//
// A package is a ZIP archive holding exactly three parts: the content
// types, the root relationships and the model XML.
package threemf

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/unixpickle/textsign/mesh"
)

const (
	ContentTypesPath  = "[Content_Types].xml"
	RelationshipsPath = "_rels/.rels"
	ModelPath         = "3D/3dmodel.model"

	CoreNamespace       = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	ProductionNamespace = "http://schemas.microsoft.com/3dmanufacturing/production/2015/06"
	ModelRelType        = "http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="model" ContentType="application/vnd.ms-package.3dmanufacturing-3dmodel+xml"/>
</Types>
`

const relationships = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Target="/` + ModelPath + `" Id="rel0" Type="` + ModelRelType + `"/>
</Relationships>
`

// A Palette assigns an sRGB color, such as "#FFFFFF", to every band.
type Palette [3]string

// DefaultPalette is a white plate with dark letters and a red face.
var DefaultPalette = Palette{
	mesh.BandBase: "#F2F2F2",
	mesh.BandBody: "#202020",
	mesh.BandFace: "#C0282D",
}

// Options controls the optional parts of the model XML.
type Options struct {
	// Colors adds a base materials resource and tags every triangle
	// with the color of its band.
	Colors  bool
	Palette Palette

	// UUIDs adds production extension identifiers to the build, the
	// items and the objects.
	UUIDs bool
}

// Write encodes m as a 3MF package. Every group becomes an object with
// its own welded vertex table and a build item. Empty groups are
// skipped.
func Write(w io.Writer, m *mesh.Mesh, opts Options) error {
	model := newModel(m, opts)

	zw := zip.NewWriter(w)
	for _, part := range []struct {
		path string
		data string
	}{
		{ContentTypesPath, contentTypes},
		{RelationshipsPath, relationships},
	} {
		pw, err := zw.Create(part.path)
		if err != nil {
			return errors.Wrap(err, "write 3MF")
		}
		if _, err := io.WriteString(pw, part.data); err != nil {
			return errors.Wrap(err, "write 3MF")
		}
	}

	pw, err := zw.Create(ModelPath)
	if err != nil {
		return errors.Wrap(err, "write 3MF")
	}
	if _, err := io.WriteString(pw, xml.Header); err != nil {
		return errors.Wrap(err, "write 3MF")
	}
	enc := xml.NewEncoder(pw)
	enc.Indent("", "  ")
	if err := enc.Encode(model); err != nil {
		return errors.Wrap(err, "encode 3MF model")
	}
	if _, err := io.WriteString(pw, "\n"); err != nil {
		return errors.Wrap(err, "write 3MF")
	}
	return errors.Wrap(zw.Close(), "write 3MF")
}

const materialsID = 1

func newModel(m *mesh.Mesh, opts Options) *xmlModel {
	res := &xmlModel{
		Unit:  "millimeter",
		Lang:  "en-US",
		Xmlns: CoreNamespace,
	}
	if opts.UUIDs {
		res.XmlnsP = ProductionNamespace
		res.Build.UUID = newUUID()
	}
	if opts.Colors {
		palette := opts.Palette
		if palette == (Palette{}) {
			palette = DefaultPalette
		}
		mats := &xmlBaseMaterials{ID: materialsID}
		for band, color := range palette {
			mats.Bases = append(mats.Bases, xmlBase{
				Name:  mesh.Band(band).String(),
				Color: color,
			})
		}
		res.Resources.BaseMaterials = mats
	}

	nextID := materialsID + 1
	for _, g := range m.Groups {
		if len(g.Triangles) == 0 {
			continue
		}
		indexed := mesh.Weld(g.Triangles, mesh.WeldEpsilon)
		obj := xmlObject{ID: nextID, Name: g.Name, Type: "model"}
		nextID++
		for _, v := range indexed.Vertices {
			obj.Mesh.Vertices = append(obj.Mesh.Vertices, xmlVertex{
				X: xmlFloat(v.X),
				Y: xmlFloat(v.Y),
				Z: xmlFloat(v.Z),
			})
		}
		for _, f := range indexed.Faces {
			t := xmlTriangle{V1: f.V[0], V2: f.V[1], V3: f.V[2]}
			if opts.Colors {
				pid, p1 := materialsID, int(f.Band)
				t.PID, t.P1 = &pid, &p1
			}
			obj.Mesh.Triangles = append(obj.Mesh.Triangles, t)
		}
		item := xmlItem{ObjectID: obj.ID}
		if opts.UUIDs {
			obj.UUID = newUUID()
			item.UUID = newUUID()
		}
		res.Resources.Objects = append(res.Resources.Objects, obj)
		res.Build.Items = append(res.Build.Items, item)
	}
	return res
}

func newUUID() string {
	return uuid.NewString()
}

type xmlModel struct {
	XMLName   xml.Name     `xml:"model"`
	Unit      string       `xml:"unit,attr"`
	Lang      string       `xml:"xml:lang,attr"`
	Xmlns     string       `xml:"xmlns,attr"`
	XmlnsP    string       `xml:"xmlns:p,attr,omitempty"`
	Resources xmlResources `xml:"resources"`
	Build     xmlBuild     `xml:"build"`
}

type xmlResources struct {
	BaseMaterials *xmlBaseMaterials `xml:"basematerials,omitempty"`
	Objects       []xmlObject       `xml:"object"`
}

type xmlBaseMaterials struct {
	ID    int       `xml:"id,attr"`
	Bases []xmlBase `xml:"base"`
}

type xmlBase struct {
	Name  string `xml:"name,attr"`
	Color string `xml:"displaycolor,attr"`
}

type xmlObject struct {
	ID   int     `xml:"id,attr"`
	UUID string  `xml:"p:UUID,attr,omitempty"`
	Name string  `xml:"name,attr,omitempty"`
	Type string  `xml:"type,attr"`
	Mesh xmlMesh `xml:"mesh"`
}

type xmlMesh struct {
	Vertices  []xmlVertex   `xml:"vertices>vertex"`
	Triangles []xmlTriangle `xml:"triangles>triangle"`
}

type xmlVertex struct {
	X xmlFloat `xml:"x,attr"`
	Y xmlFloat `xml:"y,attr"`
	Z xmlFloat `xml:"z,attr"`
}

type xmlTriangle struct {
	V1  int  `xml:"v1,attr"`
	V2  int  `xml:"v2,attr"`
	V3  int  `xml:"v3,attr"`
	PID *int `xml:"pid,attr,omitempty"`
	P1  *int `xml:"p1,attr,omitempty"`
}

type xmlBuild struct {
	UUID  string    `xml:"p:UUID,attr,omitempty"`
	Items []xmlItem `xml:"item"`
}

type xmlItem struct {
	ObjectID int    `xml:"objectid,attr"`
	UUID     string `xml:"p:UUID,attr,omitempty"`
}

// xmlFloat is written with six decimal places.
type xmlFloat float64

func (x xmlFloat) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	return xml.Attr{Name: name, Value: strconv.FormatFloat(float64(x), 'f', 6, 64)}, nil
}
