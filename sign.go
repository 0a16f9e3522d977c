package textsign

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// ErrInvalidProject is wrapped by errors for malformed project files.
var ErrInvalidProject = errors.New("invalid project file")

// A Sign is a saved project: the text, its font and the sign
// dimensions.
type Sign struct {
	Text         string
	FontName     string
	FontSize     int
	FontStyle    Style
	Alignment    Alignment
	BaseHeight   float64
	BaseMargin   float64
	LetterHeight float64
	BevelHeight  float64
}

// NewSign captures the text and settings of a generation call.
func NewSign(text string, cfg Config) Sign {
	return Sign{
		Text:         text,
		FontName:     cfg.Font.Name,
		FontSize:     int(cfg.Font.Size + 0.5),
		FontStyle:    cfg.Font.Style,
		Alignment:    cfg.Align,
		BaseHeight:   cfg.BaseHeight,
		BaseMargin:   cfg.BaseMargin,
		LetterHeight: cfg.LetterHeight,
		BevelHeight:  cfg.BevelHeight,
	}
}

// Config overrides the font and dimensions of base with the project's
// settings.
func (s Sign) Config(base Config) Config {
	base.Font = FontDescriptor{
		Name:  s.FontName,
		Size:  float64(s.FontSize),
		Style: s.FontStyle,
	}
	base.Align = s.Alignment
	base.BaseHeight = s.BaseHeight
	base.BaseMargin = s.BaseMargin
	base.LetterHeight = s.LetterHeight
	base.BevelHeight = s.BevelHeight
	return base
}

type signFields struct {
	Text         string  `json:"text"`
	FontName     string  `json:"fontName"`
	FontSize     int     `json:"fontSize"`
	FontStyle    Style   `json:"fontStyle"`
	Alignment    string  `json:"alignment"`
	BaseHeight   decimal `json:"baseHeight"`
	BaseMargin   decimal `json:"baseMargin"`
	LetterHeight decimal `json:"letterHeight"`
	BevelHeight  decimal `json:"bevelHeight"`
}

// decimal is encoded with six digits after the point, or with as many
// digits as it takes to read the same value back.
type decimal float64

func (d decimal) MarshalJSON() ([]byte, error) {
	v := float64(d)
	s := strconv.FormatFloat(v, 'f', 6, 64)
	if parsed, err := strconv.ParseFloat(s, 64); err != nil || parsed != v {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []byte(s), nil
}

// MarshalJSON encodes the project with four-space indentation and no
// trailing newline.
func (s Sign) MarshalJSON() ([]byte, error) {
	align, err := s.Alignment.MarshalText()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	err = enc.Encode(signFields{
		Text:         s.Text,
		FontName:     s.FontName,
		FontSize:     s.FontSize,
		FontStyle:    s.FontStyle,
		Alignment:    string(align),
		BaseHeight:   decimal(s.BaseHeight),
		BaseMargin:   decimal(s.BaseMargin),
		LetterHeight: decimal(s.LetterHeight),
		BevelHeight:  decimal(s.BevelHeight),
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a project without substituting defaults.
func (s *Sign) UnmarshalJSON(data []byte) error {
	var fields signFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	align, err := ParseAlignment(fields.Alignment)
	if err != nil {
		return err
	}
	*s = fields.sign(align)
	return nil
}

func (f *signFields) sign(align Alignment) Sign {
	return Sign{
		Text:         f.Text,
		FontName:     f.FontName,
		FontSize:     f.FontSize,
		FontStyle:    f.FontStyle,
		Alignment:    align,
		BaseHeight:   float64(f.BaseHeight),
		BaseMargin:   float64(f.BaseMargin),
		LetterHeight: float64(f.LetterHeight),
		BevelHeight:  float64(f.BevelHeight),
	}
}

// ParseSign decodes a project document.
//
// Malformed JSON fails with ErrInvalidProject. Missing or invalid
// fields are replaced by the values of DefaultConfig, and each
// replacement is logged as a warning.
func ParseSign(data []byte, logger *log.Logger) (Sign, error) {
	logger = loggerOrDiscard(logger)
	var fields signFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return Sign{}, errors.Wrap(ErrInvalidProject, err.Error())
	}

	defaults := NewSign("", DefaultConfig())
	warn := func(name string, got, def any) {
		logger.Printf("warning: project field %s is invalid (%v), using %v", name, got, def)
	}

	align, err := ParseAlignment(fields.Alignment)
	if err != nil {
		warn("alignment", strconv.Quote(fields.Alignment), defaults.Alignment)
		align = defaults.Alignment
	}
	res := fields.sign(align)
	if res.FontName == "" {
		warn("fontName", `""`, defaults.FontName)
		res.FontName = defaults.FontName
	}
	if res.FontSize <= 0 {
		warn("fontSize", res.FontSize, defaults.FontSize)
		res.FontSize = defaults.FontSize
	}
	if res.FontStyle&^(StyleBold|StyleItalic) != 0 {
		warn("fontStyle", int(res.FontStyle), int(defaults.FontStyle))
		res.FontStyle = defaults.FontStyle
	}
	for _, dim := range []struct {
		name  string
		value *float64
		def   float64
	}{
		{"baseHeight", &res.BaseHeight, defaults.BaseHeight},
		{"baseMargin", &res.BaseMargin, defaults.BaseMargin},
		{"letterHeight", &res.LetterHeight, defaults.LetterHeight},
		{"bevelHeight", &res.BevelHeight, defaults.BevelHeight},
	} {
		if !(*dim.value > 0) {
			warn(dim.name, *dim.value, dim.def)
			*dim.value = dim.def
		}
	}
	return res, nil
}

// LoadSign reads a project file with ParseSign.
func LoadSign(path string, logger *log.Logger) (Sign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sign{}, errors.Wrap(err, "load project")
	}
	s, err := ParseSign(data, logger)
	if err != nil {
		return Sign{}, errors.Wrapf(err, "load project %s", path)
	}
	return s, nil
}

// SaveSign writes a project file, replacing any existing file only once
// the new contents are complete.
func SaveSign(path string, s Sign) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "save project")
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
