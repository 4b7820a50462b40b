// ABOUTME: Colour values used by themes and tip-window layouts.
// ABOUTME: Parses hex and CSS colour names, marshals back to hex text.

package uicolor

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is an 8-bit RGBA colour. The zero value is transparent black.
type Color struct {
	R, G, B, A uint8
}

// Common colours.
var (
	Transparent = Color{}
	Black       = Color{A: 0xff}
	White       = Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Parse reads "#RGB", "#RRGGBB", "#AARRGGBB" or a CSS/SVG colour name.
func Parse(s string) (Color, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return Color{}, fmt.Errorf("empty colour")
	}

	if !strings.HasPrefix(value, "#") {
		named, ok := colornames.Map[strings.ToLower(value)]
		if !ok {
			return Color{}, fmt.Errorf("unknown colour name %q", value)
		}
		return FromColor(named), nil
	}

	alpha := uint8(0xff)
	if len(value) == 9 {
		a, err := strconv.ParseUint(value[1:3], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha in %q: %w", value, err)
		}
		alpha = uint8(a)
		value = "#" + value[3:]
	}
	if len(value) != 4 && len(value) != 7 {
		return Color{}, fmt.Errorf("invalid colour %q: want #RGB, #RRGGBB or #AARRGGBB", s)
	}

	c, err := colorful.Hex(value)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromColor converts any image/color value, un-premultiplying alpha.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// NRGBA returns the colour as a standard library value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// WithOpacity scales the alpha channel by opacity in [0,1].
func (c Color) WithOpacity(opacity float64) Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(float64(c.A)*opacity + 0.5)
	return c
}

// Floats returns normalized components, the layout imgui expects for Vec4.
func (c Color) Floats() (r, g, b, a float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255
}

// String formats as #RRGGBB, or #AARRGGBB when not opaque.
func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler (JSON and YAML).
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (JSON and YAML).
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
