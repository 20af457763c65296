package debugdraw

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the defaults of a rendering context. It can be loaded from
// a TOML file:
//
//	color = "#FFFFFFFF"
//	arrow_color = "#FFFFFF00"
//	arrow_size = 0.1
//	text_scale = 0.25
//	marker_radius = 0.05
//	cylinder_segments = 16
type Config struct {
	// Color is the initial current color.
	Color Color `toml:"color"`
	// ArrowColor is the initial color of ray and arc arrow heads.
	ArrowColor Color `toml:"arrow_color"`
	// ArrowSize is the initial arrow head length.
	ArrowSize float32 `toml:"arrow_size"`
	// TextScale is the height of one line of wireframe text.
	TextScale float32 `toml:"text_scale"`
	// MarkerRadius is the size of the point marker substituted for
	// zero-length segments.
	MarkerRadius float32 `toml:"marker_radius"`
	// CylinderSegments is the number of sides used for cylinders, thick
	// rays and thick arcs.
	CylinderSegments uint32 `toml:"cylinder_segments"`
}

// Defaults used when a Config field is zero.
const (
	DefaultArrowSize        = 0.1
	DefaultTextScale        = 0.25
	DefaultMarkerRadius     = 0.05
	DefaultCylinderSegments = 16
)

// DefaultConfig returns the configuration used by New without options.
func DefaultConfig() Config {
	return Config{
		Color:            defaultPalette[ColorDefault],
		ArrowColor:       defaultPalette[ColorPoseArrows],
		ArrowSize:        DefaultArrowSize,
		TextScale:        DefaultTextScale,
		MarkerRadius:     DefaultMarkerRadius,
		CylinderSegments: DefaultCylinderSegments,
	}
}

// normalized fills zero or invalid fields from DefaultConfig.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Color == 0 {
		c.Color = d.Color
	}
	if c.ArrowColor == 0 {
		c.ArrowColor = d.ArrowColor
	}
	if !finite(c.ArrowSize) || c.ArrowSize <= 0 {
		c.ArrowSize = d.ArrowSize
	}
	if !finite(c.TextScale) || c.TextScale <= 0 {
		c.TextScale = d.TextScale
	}
	if !finite(c.MarkerRadius) || c.MarkerRadius <= 0 {
		c.MarkerRadius = d.MarkerRadius
	}
	if c.CylinderSegments < MinCircleSegments {
		c.CylinderSegments = d.CylinderSegments
	}
	if c.CylinderSegments > MaxCircleSegments {
		c.CylinderSegments = MaxCircleSegments
	}
	return c
}

// ParseConfig decodes a TOML document. Keys that are absent keep their
// default; unknown keys are an error.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("debugdraw: parse config: %w", err)
	}
	return c.normalized(), nil
}

// LoadConfig reads and decodes a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("debugdraw: load config: %w", err)
	}
	return ParseConfig(data)
}
