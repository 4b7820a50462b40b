// ABOUTME: Declarative description of a reminder overlay: a container and positioned elements.
// ABOUTME: Produced by the layout builder, consumed by whatever renders the tip window.

package layout

import (
	"fmt"
	"strings"

	"project-eye/internal/uicolor"
)

// ElementType is the kind of UI primitive an element draws.
type ElementType string

const (
	ElementImage  ElementType = "image"
	ElementText   ElementType = "text"
	ElementButton ElementType = "button"
)

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	switch t {
	case ElementImage, ElementText, ElementButton:
		return true
	}
	return false
}

// TextAlignment is the horizontal alignment of text inside an element.
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
)

var alignmentNames = []string{"left", "center", "right"}

func (a TextAlignment) String() string {
	if a < 0 || int(a) >= len(alignmentNames) {
		return fmt.Sprintf("TextAlignment(%d)", int(a))
	}
	return alignmentNames[a]
}

// MarshalText implements encoding.TextMarshaler.
func (a TextAlignment) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(alignmentNames) {
		return nil, fmt.Errorf("invalid text alignment %d", int(a))
	}
	return []byte(alignmentNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *TextAlignment) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range alignmentNames {
		if n == name {
			*a = TextAlignment(i)
			return nil
		}
	}
	return fmt.Errorf("unknown text alignment %q", string(text))
}

// Template placeholders filled in by the tip window at display time.
const (
	PlaceholderMinutes   = "{t}"
	PlaceholderHealthTip = "{HealthTip}"
	PlaceholderCountdown = "{countdown}"
)

// Button commands handled by the tip window's interaction handler.
const (
	CommandRest  = "rest"
	CommandBreak = "break"
)

// ContainerModel styles the overlay window itself.
type ContainerModel struct {
	Background uicolor.Color `json:"background" yaml:"background"`
	Opacity    float64       `json:"opacity" yaml:"opacity"`
}

// ElementModel is one positioned, styled primitive.
type ElementModel struct {
	Type          ElementType    `json:"type" yaml:"type"`
	X             float64        `json:"x" yaml:"x"`
	Y             float64        `json:"y" yaml:"y"`
	Width         float64        `json:"width" yaml:"width"`
	Height        float64        `json:"height" yaml:"height"`
	Opacity       float64        `json:"opacity" yaml:"opacity"`
	FontSize      float64        `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	IsTextBold    bool           `json:"isTextBold,omitempty" yaml:"isTextBold,omitempty"`
	TextColor     *uicolor.Color `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	Text          string         `json:"text,omitempty" yaml:"text,omitempty"`
	TextAlignment TextAlignment  `json:"textAlignment" yaml:"textAlignment"`
	Image         string         `json:"image,omitempty" yaml:"image,omitempty"`
	Style         string         `json:"style,omitempty" yaml:"style,omitempty"`
	Command       string         `json:"command,omitempty" yaml:"command,omitempty"`
}

// Bottom is the element's lower edge.
func (e ElementModel) Bottom() float64 {
	return e.Y + e.Height
}

// CenterX is the element's horizontal midpoint.
func (e ElementModel) CenterX() float64 {
	return e.X + e.Width/2
}

// UIDesignModel is a complete overlay layout.
type UIDesignModel struct {
	ContainerAttr ContainerModel `json:"containerAttr" yaml:"containerAttr"`
	Elements      []ElementModel `json:"elements" yaml:"elements"`
}

// ExpandPlaceholders replaces {name} placeholders in text. Unknown
// placeholders are left as they are.
func ExpandPlaceholders(text string, values map[string]string) string {
	if len(values) == 0 {
		return text
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, k, v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
