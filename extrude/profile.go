// Package extrude builds the solids of a sign: beveled letters extruded
// from glyph regions, and the base plate beneath them.
package extrude

import (
	"github.com/pkg/errors"
)

const (
	// BevelInsetRatio relates a bevel's inward offset to its height.
	BevelInsetRatio = 0.7

	// DefaultMiterLimit caps how far a mitered bevel vertex may move,
	// as a multiple of the bevel inset.
	DefaultMiterLimit = 4.0

	// DegenerateEpsilon is the distance under which bevel vertices are
	// left in place.
	DegenerateEpsilon = 0.001

	// InsetAttempts is how many times a letter's bevel inset is halved
	// before the crown is left flat.
	InsetAttempts = 4
)

// A Profile describes the vertical layout of extruded letters, in
// millimeters.
type Profile struct {
	// BaseHeight is the height at which letters start, i.e. the top of
	// the base plate.
	BaseHeight float64

	// LetterHeight is the height of the letters above the base.
	LetterHeight float64

	// BevelHeight is the height of the chamfer at the top of each letter.
	BevelHeight float64

	// BevelInset is how far the top of the chamfer is moved into the
	// letter, horizontally.
	BevelInset float64

	MiterLimit float64
}

// NewProfile creates a profile with the standard bevel inset and miter
// limit.
func NewProfile(baseHeight, letterHeight, bevelHeight float64) Profile {
	return Profile{
		BaseHeight:   baseHeight,
		LetterHeight: letterHeight,
		BevelHeight:  bevelHeight,
		BevelInset:   bevelHeight * BevelInsetRatio,
		MiterLimit:   DefaultMiterLimit,
	}
}

// Planes returns the heights of the letter bottom, the top of the
// straight walls, and the letter crown.
func (p Profile) Planes() (zBase, zTop, zBevel float64) {
	zBase = p.BaseHeight
	zTop = p.BaseHeight + p.LetterHeight - p.BevelHeight
	zBevel = p.BaseHeight + p.LetterHeight
	return
}

// Validate checks that the profile produces non-degenerate letters.
func (p Profile) Validate() error {
	if p.BaseHeight < 0 {
		return errors.Errorf("base height must be >= 0, got %g", p.BaseHeight)
	}
	if p.BevelHeight < 0 {
		return errors.Errorf("bevel height must be >= 0, got %g", p.BevelHeight)
	}
	if p.LetterHeight <= p.BevelHeight {
		return errors.Errorf("letter height (%g) must exceed bevel height (%g)",
			p.LetterHeight, p.BevelHeight)
	}
	if p.BevelInset < 0 {
		return errors.Errorf("bevel inset must be >= 0, got %g", p.BevelInset)
	}
	return nil
}
