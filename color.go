package debugdraw

import (
	"fmt"
	"image/color"
)

// Color is a packed 32-bit ARGB color: alpha in the high byte, then red,
// green and blue.
type Color uint32

// ARGB packs four 8-bit channels into a Color.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB packs an opaque color.
func RGB(r, g, b uint8) Color {
	return ARGB(0xFF, r, g, b)
}

// A returns the alpha channel.
func (c Color) A() uint8 { return uint8(c >> 24) }

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c) }

// NRGBA converts the color to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// Scale multiplies the color channels by k, keeping alpha.
// k is clamped to [0, 1]; this is how axis brightness is applied.
func (c Color) Scale(k float32) Color {
	if k >= 1 {
		return c
	}
	if k <= 0 || k != k {
		return ARGB(c.A(), 0, 0, 0)
	}
	mul := func(v uint8) uint8 { return uint8(float32(v)*k + 0.5) }
	return ARGB(c.A(), mul(c.R()), mul(c.G()), mul(c.B()))
}

// Lerp interpolates between c and other, t in [0, 1].
func (c Color) Lerp(other Color, t float32) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return other
	}
	mix := func(a, b uint8) uint8 { return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5) }
	return ARGB(mix(c.A(), other.A()), mix(c.R(), other.R()), mix(c.G(), other.G()), mix(c.B(), other.B()))
}

// String returns the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Accepted forms: "RRGGBB", "AARRGGBB", with or without a leading '#'.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseColor parses "#RRGGBB" (opaque) or "#AARRGGBB".
func ParseColor(s string) (Color, error) {
	if s != "" && s[0] == '#' {
		s = s[1:]
	}
	var v uint32
	if !parseHex(s, &v) {
		return 0, fmt.Errorf("debugdraw: invalid color %q", s)
	}
	switch len(s) {
	case 6:
		return Color(0xFF000000 | v), nil
	case 8:
		return Color(v), nil
	}
	return 0, fmt.Errorf("debugdraw: invalid color %q", s)
}

// parseHex accumulates hex digits into val, reporting false on a bad digit.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// DebugColor names an entry of the context's color palette.
type DebugColor uint8

const (
	ColorDefault DebugColor = iota
	ColorPoseArrows
	ColorRed
	ColorGreen
	ColorBlue
	ColorDarkRed
	ColorDarkGreen
	ColorDarkBlue
	ColorLightRed
	ColorLightGreen
	ColorLightBlue
	ColorYellow
	ColorOrange
	ColorPurple
	ColorWhite
	ColorBlack
	ColorGray
	ColorLightGray
	ColorDarkGray

	numDebugColors
)

var debugColorNames = [...]string{
	ColorDefault:    "Default",
	ColorPoseArrows: "PoseArrows",
	ColorRed:        "Red",
	ColorGreen:      "Green",
	ColorBlue:       "Blue",
	ColorDarkRed:    "DarkRed",
	ColorDarkGreen:  "DarkGreen",
	ColorDarkBlue:   "DarkBlue",
	ColorLightRed:   "LightRed",
	ColorLightGreen: "LightGreen",
	ColorLightBlue:  "LightBlue",
	ColorYellow:     "Yellow",
	ColorOrange:     "Orange",
	ColorPurple:     "Purple",
	ColorWhite:      "White",
	ColorBlack:      "Black",
	ColorGray:       "Gray",
	ColorLightGray:  "LightGray",
	ColorDarkGray:   "DarkGray",
}

// String returns the palette entry name.
func (d DebugColor) String() string {
	if int(d) < len(debugColorNames) {
		return debugColorNames[d]
	}
	return "Unknown"
}

// defaultPalette is copied into every context; SetDebugColor edits the copy.
var defaultPalette = [numDebugColors]Color{
	ColorDefault:    RGB(0xFF, 0xFF, 0xFF),
	ColorPoseArrows: RGB(0xFF, 0xFF, 0x00),
	ColorRed:        RGB(0xFF, 0x00, 0x00),
	ColorGreen:      RGB(0x00, 0xFF, 0x00),
	ColorBlue:       RGB(0x00, 0x00, 0xFF),
	ColorDarkRed:    RGB(0x80, 0x00, 0x00),
	ColorDarkGreen:  RGB(0x00, 0x80, 0x00),
	ColorDarkBlue:   RGB(0x00, 0x00, 0x80),
	ColorLightRed:   RGB(0xFF, 0x80, 0x80),
	ColorLightGreen: RGB(0x80, 0xFF, 0x80),
	ColorLightBlue:  RGB(0x00, 0xFF, 0xFF),
	ColorYellow:     RGB(0xFF, 0xFF, 0x00),
	ColorOrange:     RGB(0xFF, 0x80, 0x00),
	ColorPurple:     RGB(0x80, 0x00, 0x80),
	ColorWhite:      RGB(0xFF, 0xFF, 0xFF),
	ColorBlack:      RGB(0x00, 0x00, 0x00),
	ColorGray:       RGB(0x80, 0x80, 0x80),
	ColorLightGray:  RGB(0xC0, 0xC0, 0xC0),
	ColorDarkGray:   RGB(0x40, 0x40, 0x40),
}
