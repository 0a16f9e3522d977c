package textsign

import (
	"testing"

	"github.com/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	flat := DefaultConfig()
	flat.BevelHeight = 0
	if err := flat.Validate(); err != nil {
		t.Errorf("flat letters should be valid: %v", err)
	}

	cases := map[string]func(c *Config){
		"FontSize":     func(c *Config) { c.Font.Size = 0 },
		"BaseHeight":   func(c *Config) { c.BaseHeight = 0 },
		"BaseMargin":   func(c *Config) { c.BaseMargin = -1 },
		"BevelNeg":     func(c *Config) { c.BevelHeight = -0.1 },
		"BevelTooHigh": func(c *Config) { c.BevelHeight = c.LetterHeight },
		"Scale":        func(c *Config) { c.Scale = 0 },
		"LineSpacing":  func(c *Config) { c.LineSpacing = 0 },
		"Flatness":     func(c *Config) { c.Flatness = 0 },
		"Align":        func(c *Config) { c.Align = 7 },
	}
	for name, modify := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected an invalid config error, got %v", err)
			}
		})
	}
}

func TestAlignment(t *testing.T) {
	for _, a := range []Alignment{AlignLeft, AlignCenter, AlignRight} {
		text, err := a.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var parsed Alignment
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if parsed != a {
			t.Errorf("expected %v, got %v", a, parsed)
		}
	}
	if a, err := ParseAlignment(" center "); err != nil || a != AlignCenter {
		t.Errorf("unexpected result %v, %v", a, err)
	}
	if _, err := ParseAlignment("JUSTIFY"); err == nil {
		t.Error("expected an error")
	}
	if _, err := Alignment(5).MarshalText(); err == nil {
		t.Error("expected an error")
	}

	if x := AlignLeft.offset(4, 10); x != 0 {
		t.Errorf("left offset %f", x)
	}
	if x := AlignCenter.offset(4, 10); x != 3 {
		t.Errorf("center offset %f", x)
	}
	if x := AlignRight.offset(4, 10); x != 6 {
		t.Errorf("right offset %f", x)
	}
}

func TestFormat(t *testing.T) {
	for _, c := range []struct {
		input  string
		format Format
	}{
		{"stl", FormatSTL},
		{".STL", FormatSTL},
		{"3mf", Format3MF},
		{" .3MF", Format3MF},
	} {
		f, err := ParseFormat(c.input)
		if err != nil {
			t.Fatal(err)
		}
		if f != c.format {
			t.Errorf("%q: expected %v, got %v", c.input, c.format, f)
		}
	}
	if _, err := ParseFormat("obj"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("unexpected error %v", err)
	}
	if f, err := FormatForPath("/tmp/sign.3mf"); err != nil || f != Format3MF {
		t.Errorf("unexpected result %v, %v", f, err)
	}
	if _, err := FormatForPath("sign"); err == nil {
		t.Error("expected an error for a missing extension")
	}
	if Format3MF.Ext() != ".3mf" || FormatSTL.ContentType() != "model/stl" {
		t.Error("unexpected format metadata")
	}
}
