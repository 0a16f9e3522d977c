package textsign

import (
	"bytes"
	"log"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	gotextfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/shaping"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/textsign/contour"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// DefaultFamily is the name of the embedded fallback font family.
const DefaultFamily = "Go"

var kernTag = ot.MustNewTag("kern")

// Style is a bit set of font style flags.
type Style int

const (
	StylePlain  Style = 0
	StyleBold   Style = 1
	StyleItalic Style = 2
)

// FontDescriptor identifies a font face and its size in points.
type FontDescriptor struct {
	Name  string
	Size  float64
	Style Style
}

// An OutlineSource produces the outline of one line of text, with the
// baseline at y=0 and the pen starting at x=0.
//
// Coordinates are font units scaled so that one em equals the font
// size, with y pointing up. Outer contours run clockwise and holes
// counter-clockwise, as in TrueType glyphs.
type OutlineSource interface {
	Outline(line string, font FontDescriptor) (contour.Path, error)
}

// Font is a parsed TrueType font.
type Font struct {
	TTFont *truetype.Font

	// Shaping faces keep internal caches.
	hbLock sync.Mutex
	hbFace *gotextfont.Face
}

// ParseTTF parses a font with TrueType outlines.
func ParseTTF(data []byte) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	res := &Font{TTFont: ttf}
	if hbFace, err := gotextfont.ParseTTF(bytes.NewReader(data)); err == nil {
		res.hbFace = hbFace
	}
	return res, nil
}

type fontKey struct {
	name  string
	style Style
}

// A FontLibrary is an OutlineSource over explicitly registered fonts.
//
// Fonts are looked up by case-insensitive name and style. A missing
// style falls back to the plain style of the same name, and a missing
// name falls back to the embedded Go fonts.
type FontLibrary struct {
	// Kerning enables the font's kerning during layout.
	Kerning bool

	// Logger receives a warning whenever a fallback font is used.
	Logger *log.Logger

	lock  sync.RWMutex
	fonts map[fontKey]*Font
}

// NewFontLibrary creates a library holding the embedded Go fonts.
func NewFontLibrary() *FontLibrary {
	res := &FontLibrary{
		Kerning: true,
		fonts:   map[fontKey]*Font{},
	}
	for style, data := range map[Style][]byte{
		StylePlain:              goregular.TTF,
		StyleBold:               gobold.TTF,
		StyleItalic:             goitalic.TTF,
		StyleBold | StyleItalic: gobolditalic.TTF,
	} {
		font, err := ParseTTF(data)
		essentials.Must(err)
		res.Register(DefaultFamily, style, font)
	}
	return res
}

// Register adds or replaces a font.
func (f *FontLibrary) Register(name string, style Style, font *Font) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.fonts == nil {
		f.fonts = map[fontKey]*Font{}
	}
	f.fonts[fontKey{strings.ToLower(name), style}] = font
}

// RegisterTTF parses and registers a font file.
func (f *FontLibrary) RegisterTTF(name string, style Style, data []byte) error {
	font, err := ParseTTF(data)
	if err != nil {
		return errors.Wrapf(err, "register %s", name)
	}
	f.Register(name, style, font)
	return nil
}

// Lookup finds the font for desc. The second return value is false if
// a fallback was chosen.
func (f *FontLibrary) Lookup(desc FontDescriptor) (*Font, bool) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	name := strings.ToLower(desc.Name)
	if font, ok := f.fonts[fontKey{name, desc.Style}]; ok {
		return font, true
	}
	for _, key := range []fontKey{
		{name, StylePlain},
		{strings.ToLower(DefaultFamily), desc.Style},
		{strings.ToLower(DefaultFamily), StylePlain},
	} {
		if font, ok := f.fonts[key]; ok {
			return font, false
		}
	}
	return nil, false
}

// Outline lays out a line of text and returns its glyph outlines as
// quadratic path commands.
func (f *FontLibrary) Outline(line string, desc FontDescriptor) (contour.Path, error) {
	if desc.Size <= 0 {
		return nil, errors.Errorf("font size must be positive, got %g", desc.Size)
	}
	font, exact := f.Lookup(desc)
	if font == nil {
		return nil, errors.Errorf("no font for %q", desc.Name)
	}
	if !exact {
		loggerOrDiscard(f.Logger).Printf("warning: font %q (style %d) is not registered, using a fallback",
			desc.Name, desc.Style)
	}

	ttFont := font.TTFont
	upem := float64(ttFont.FUnitsPerEm())
	scale := desc.Size / upem

	// Load glyphs at one pixel per font unit, in 26.6 fixed point.
	fixedScale := fixed.Int26_6(int32(upem * 64))

	var path contour.Path
	var gb truetype.GlyphBuf
	for _, g := range f.layout(font, line, fixedScale) {
		if err := gb.Load(ttFont, fixedScale, g.index, xfont.HintingNone); err != nil {
			continue
		}
		start := 0
		for _, end := range gb.Ends {
			appendGlyphContour(&path, gb.Points[start:end], g.penX, scale)
			start = end
		}
	}
	return path, nil
}

type positionedGlyph struct {
	index truetype.Index
	penX  float64 // in font units
}

func (f *FontLibrary) layout(font *Font, line string, fixedScale fixed.Int26_6) []positionedGlyph {
	if glyphs, ok := f.shape(font, line); ok {
		return glyphs
	}

	ttFont := font.TTFont
	var res []positionedGlyph
	var prev truetype.Index
	penX := 0.0
	for i, r := range []rune(line) {
		idx := ttFont.Index(r)
		if f.Kerning && i > 0 {
			penX += float64(ttFont.Kern(fixedScale, prev, idx)) / 64
		}
		res = append(res, positionedGlyph{index: idx, penX: penX})
		penX += float64(ttFont.HMetric(fixedScale, idx).AdvanceWidth) / 64
		prev = idx
	}
	return res
}

// shape positions glyphs with HarfBuzz, which applies the font's
// substitutions and GPOS kerning.
func (f *FontLibrary) shape(font *Font, line string) ([]positionedGlyph, bool) {
	if font.hbFace == nil {
		return nil, false
	}
	runes := []rune(line)
	if len(runes) == 0 {
		return nil, true
	}

	var features []shaping.FontFeature
	if !f.Kerning {
		features = append(features, shaping.FontFeature{Tag: kernTag, Value: 0})
	}

	font.hbLock.Lock()
	defer font.hbLock.Unlock()
	shaper := shaping.HarfbuzzShaper{}
	out := shaper.Shape(shaping.Input{
		Text:         runes,
		RunStart:     0,
		RunEnd:       len(runes),
		Direction:    di.DirectionLTR,
		Face:         font.hbFace,
		FontFeatures: features,
		Size:         fixed.I(int(font.TTFont.FUnitsPerEm())),
	})

	res := make([]positionedGlyph, 0, len(out.Glyphs))
	penX := 0.0
	for _, g := range out.Glyphs {
		res = append(res, positionedGlyph{
			index: truetype.Index(g.GlyphID),
			penX:  penX + float64(out.ToFontUnit(g.XOffset)),
		})
		penX += float64(out.ToFontUnit(g.XAdvance))
	}
	return res, true
}

// appendGlyphContour converts one TrueType contour into path commands.
// Consecutive off-curve points imply an on-curve point at their
// midpoint.
func appendGlyphContour(path *contour.Path, pts []truetype.Point, penX, scale float64) {
	n := len(pts)
	if n == 0 {
		return
	}
	toCoord := func(p truetype.Point) model2d.Coord {
		return model2d.XY((float64(p.X)/64+penX)*scale, float64(p.Y)/64*scale)
	}
	onCurve := func(p truetype.Point) bool {
		return p.Flags&0x01 != 0
	}

	var start model2d.Coord
	var rest []truetype.Point
	switch {
	case onCurve(pts[0]):
		start, rest = toCoord(pts[0]), pts[1:]
	case onCurve(pts[n-1]):
		start, rest = toCoord(pts[n-1]), pts[:n-1]
	default:
		start, rest = toCoord(pts[n-1]).Mid(toCoord(pts[0])), pts
	}
	path.MoveTo(start)

	var ctrl model2d.Coord
	haveCtrl := false
	for _, p := range rest {
		c := toCoord(p)
		if onCurve(p) {
			if haveCtrl {
				path.QuadTo(ctrl, c)
			} else {
				path.LineTo(c)
			}
			haveCtrl = false
			continue
		}
		if haveCtrl {
			path.QuadTo(ctrl, ctrl.Mid(c))
		}
		ctrl = c
		haveCtrl = true
	}
	if haveCtrl {
		path.QuadTo(ctrl, start)
	}
	path.Close()
}
