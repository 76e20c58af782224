package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone          Attribute = 0
	AttrBold          Attribute = 1 << iota
	AttrDim                     // Faint/dim text
	AttrItalic                  // Italic text
	AttrUnderline               // Underlined text
	AttrReverse                 // Reverse video (swap fg/bg)
	AttrStrikethrough           // Strikethrough text
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Color is an RGB color, or the host's default color when unset.
type Color struct {
	rgb colorful.Color
	set bool
}

// ColorDefault is the host's default color.
var ColorDefault = Color{}

// ParseColor parses "#rgb" or "#rrggbb". An empty string is the default color.
func ParseColor(hex string) (Color, error) {
	if hex == "" {
		return ColorDefault, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return ColorDefault, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return Color{rgb: c, set: true}, nil
}

// IsDefault reports whether the color is the host default.
func (c Color) IsDefault() bool {
	return !c.set
}

// Hex returns the color as "#rrggbb", or "" for the default color.
func (c Color) Hex() string {
	if !c.set {
		return ""
	}
	return c.rgb.Hex()
}

// RGB returns the 8-bit color components.
func (c Color) RGB() (r, g, b uint8) {
	return c.rgb.RGB255()
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the unstyled text style.
func DefaultStyle() Style {
	return Style{}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// With returns a new style with attr added.
func (s Style) With(attr Attribute) Style {
	s.Attributes = s.Attributes.With(attr)
	return s
}
