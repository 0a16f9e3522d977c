package textsign

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyInput is returned when the text has no non-blank line.
	ErrEmptyInput = errors.New("no valid text to generate")

	// ErrInvalidConfig is wrapped by every Config validation error.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownFormat is returned for unsupported output formats.
	ErrUnknownFormat = errors.New("unknown output format")
)

// Alignment controls the horizontal placement of each line within the
// width of the widest line.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// ParseAlignment parses "LEFT", "CENTER" or "RIGHT", ignoring case.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LEFT":
		return AlignLeft, nil
	case "CENTER":
		return AlignCenter, nil
	case "RIGHT":
		return AlignRight, nil
	}
	return 0, errors.Errorf("unknown alignment %q", s)
}

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "LEFT"
	case AlignCenter:
		return "CENTER"
	case AlignRight:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

func (a Alignment) MarshalText() ([]byte, error) {
	if a < AlignLeft || a > AlignRight {
		return nil, errors.Errorf("unknown alignment %d", int(a))
	}
	return []byte(a.String()), nil
}

func (a *Alignment) UnmarshalText(text []byte) error {
	parsed, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// offset computes the x offset of a line of the given width.
func (a Alignment) offset(lineWidth, blockWidth float64) float64 {
	switch a {
	case AlignCenter:
		return (blockWidth - lineWidth) / 2
	case AlignRight:
		return blockWidth - lineWidth
	default:
		return 0
	}
}

// Format is an output file format.
type Format int

const (
	FormatSTL Format = iota
	Format3MF
)

// ParseFormat parses a format name or file extension, such as "stl" or
// ".3mf".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "stl":
		return FormatSTL, nil
	case "3mf":
		return Format3MF, nil
	}
	return 0, errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

func (f Format) String() string {
	switch f {
	case FormatSTL:
		return "STL"
	case Format3MF:
		return "3MF"
	default:
		return "unknown"
	}
}

// Ext returns the file extension, including the dot.
func (f Format) Ext() string {
	switch f {
	case Format3MF:
		return ".3mf"
	default:
		return ".stl"
	}
}

// ContentType returns the media type of the format.
func (f Format) ContentType() string {
	switch f {
	case Format3MF:
		return "model/3mf"
	default:
		return "model/stl"
	}
}

// Config holds every parameter of a generation call. All lengths are
// in millimeters unless noted otherwise.
type Config struct {
	Font  FontDescriptor
	Align Alignment

	BaseHeight   float64
	BaseMargin   float64
	LetterHeight float64
	BevelHeight  float64

	// Scale converts font units to millimeters.
	Scale float64

	// LineSpacing is the distance between baselines, as a multiple of
	// the font size.
	LineSpacing float64

	// Flatness is the curve flattening tolerance, in font units.
	Flatness float64

	// Parts exports the base and the letters as separate 3MF objects.
	Parts bool

	// Colors adds per-band materials to 3MF output.
	Colors bool

	// UUIDs adds production extension identifiers to 3MF output.
	UUIDs bool
}

// DefaultConfig returns the standard sign dimensions.
func DefaultConfig() Config {
	return Config{
		Font: FontDescriptor{
			Name:  DefaultFamily,
			Size:  36,
			Style: StyleBold,
		},
		Align:        AlignLeft,
		BaseHeight:   2,
		BaseMargin:   5,
		LetterHeight: 5,
		BevelHeight:  0.5,
		Scale:        0.5,
		LineSpacing:  1.2,
		Flatness:     0.5,
	}
}

// Validate checks the ranges of every field.
func (c Config) Validate() error {
	check := func(ok bool, format string, args ...any) error {
		if ok {
			return nil
		}
		return errors.Wrapf(ErrInvalidConfig, format, args...)
	}
	for _, err := range []error{
		check(c.Font.Size > 0, "font size must be positive, got %g", c.Font.Size),
		check(c.BaseHeight > 0, "base height must be positive, got %g", c.BaseHeight),
		check(c.BaseMargin > 0, "base margin must be positive, got %g", c.BaseMargin),
		check(c.BevelHeight >= 0, "bevel height must be non-negative, got %g", c.BevelHeight),
		check(c.LetterHeight > c.BevelHeight,
			"letter height (%g) must exceed bevel height (%g)", c.LetterHeight, c.BevelHeight),
		check(c.Scale > 0, "scale must be positive, got %g", c.Scale),
		check(c.LineSpacing > 0, "line spacing must be positive, got %g", c.LineSpacing),
		check(c.Flatness > 0, "flatness must be positive, got %g", c.Flatness),
		check(c.Align >= AlignLeft && c.Align <= AlignRight, "unknown alignment %d", int(c.Align)),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}
