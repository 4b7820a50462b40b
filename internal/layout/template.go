// ABOUTME: YAML schema for tip-window layouts and its placement into screen coordinates.
// ABOUTME: Rows stack downward from a fraction of screen height; each row is centred.

package layout

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"project-eye/internal/screen"
	"project-eye/internal/uicolor"
)

//go:embed default_tip.yaml
var defaultTipYAML []byte

// Template is a declarative layout. Presentation data lives here; the
// builder only adds geometry.
type Template struct {
	Container ContainerModel `yaml:"container"`
	// Top is where the first row starts, as a fraction of screen height.
	Top  float64       `yaml:"top"`
	Rows []RowTemplate `yaml:"rows"`
}

// RowTemplate is a horizontal group of elements.
type RowTemplate struct {
	// Gap is the distance from the previous row's bottom edge.
	Gap float64 `yaml:"gap"`
	// Spacing separates elements within the row.
	Spacing  float64           `yaml:"spacing"`
	Elements []ElementTemplate `yaml:"elements"`
}

// ElementTemplate is an ElementModel without a position.
type ElementTemplate struct {
	Type      ElementType    `yaml:"type"`
	Width     float64        `yaml:"width"`
	Height    float64        `yaml:"height"`
	Opacity   *float64       `yaml:"opacity"`
	FontSize  float64        `yaml:"fontSize"`
	Bold      bool           `yaml:"bold"`
	TextColor *uicolor.Color `yaml:"textColor"`
	Text      string         `yaml:"text"`
	Alignment TextAlignment  `yaml:"alignment"`
	// ThemeImage is a file name under the theme's Images directory.
	ThemeImage string `yaml:"themeImage"`
	Style      string `yaml:"style"`
	Command    string `yaml:"command"`
}

// DefaultTemplate returns the built-in tip-window layout.
func DefaultTemplate() *Template {
	t, err := ParseTemplate(defaultTipYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in tip layout: %v", err))
	}
	return t
}

// LoadTemplate reads a YAML layout from path.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading layout template: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate decodes and validates a YAML layout.
func ParseTemplate(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error parsing layout template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout template: %w", err)
	}
	return &t, nil
}

// Validate checks the template can be placed.
func (t *Template) Validate() error {
	if t.Top < 0 || t.Top >= 1 {
		return fmt.Errorf("top must be in [0, 1), got %v", t.Top)
	}
	if t.Container.Opacity < 0 || t.Container.Opacity > 1 {
		return fmt.Errorf("container opacity must be in [0, 1], got %v", t.Container.Opacity)
	}
	if len(t.Rows) == 0 {
		return fmt.Errorf("at least one row is required")
	}
	for i, row := range t.Rows {
		if len(row.Elements) == 0 {
			return fmt.Errorf("row %d: at least one element is required", i)
		}
		if row.Gap < 0 || row.Spacing < 0 {
			return fmt.Errorf("row %d: gap and spacing must not be negative", i)
		}
		for j, el := range row.Elements {
			if err := el.validate(); err != nil {
				return fmt.Errorf("row %d element %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func (e ElementTemplate) validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("unknown element type %q", e.Type)
	}
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	if e.Opacity != nil && (*e.Opacity < 0 || *e.Opacity > 1) {
		return fmt.Errorf("opacity must be in [0, 1], got %v", *e.Opacity)
	}
	if e.Type == ElementImage && e.ThemeImage == "" {
		return fmt.Errorf("image elements need themeImage")
	}
	return nil
}

// ThemeImagePath is where a theme's image lives under the resource root.
func ThemeImagePath(root, themeName, file string) string {
	root = strings.TrimRight(root, "/")
	return fmt.Sprintf("%s/Themes/%s/Images/%s", root, themeName, file)
}

// Instantiate places the template on a screen of the given size.
func (t *Template) Instantiate(size screen.Size, themeName, resourceRoot string) UIDesignModel {
	model := UIDesignModel{ContainerAttr: t.Container}

	centerX := size.Width / 2
	y := size.Height * t.Top
	prevHeight := 0.0
	for i, row := range t.Rows {
		if i > 0 {
			y += prevHeight
		}
		y += row.Gap

		total := row.Spacing * float64(len(row.Elements)-1)
		for _, el := range row.Elements {
			total += el.Width
		}

		x := centerX - total/2
		rowHeight := 0.0
		for _, el := range row.Elements {
			e := el.model(themeName, resourceRoot)
			e.X = x
			e.Y = y
			model.Elements = append(model.Elements, e)

			x += el.Width + row.Spacing
			if el.Height > rowHeight {
				rowHeight = el.Height
			}
		}
		prevHeight = rowHeight
	}
	return model
}

func (e ElementTemplate) model(themeName, resourceRoot string) ElementModel {
	opacity := 1.0
	if e.Opacity != nil {
		opacity = *e.Opacity
	}
	m := ElementModel{
		Type:          e.Type,
		Width:         e.Width,
		Height:        e.Height,
		Opacity:       opacity,
		FontSize:      e.FontSize,
		IsTextBold:    e.Bold,
		Text:          e.Text,
		TextAlignment: e.Alignment,
		Style:         e.Style,
		Command:       e.Command,
	}
	if e.TextColor != nil {
		c := *e.TextColor
		m.TextColor = &c
	}
	if e.ThemeImage != "" {
		m.Image = ThemeImagePath(resourceRoot, themeName, e.ThemeImage)
	}
	return m
}
