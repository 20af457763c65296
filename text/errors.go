package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrNoPlaceholder is returned when a font has no glyph for Placeholder.
	ErrNoPlaceholder = errors.New("text: font has no placeholder glyph")
)
