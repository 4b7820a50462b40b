// ABOUTME: Theme definitions and the ordered catalog of available themes.
// ABOUTME: The first catalog entry is the default and fallback theme.

package theme

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"project-eye/internal/uicolor"
)

// DarkThemeName is the theme forced on during the auto dark-mode window.
const DarkThemeName = "Dark"

//go:embed themes.yaml
var defaultCatalogYAML []byte

// Theme is a named visual style bundle.
type Theme struct {
	Name       string        `yaml:"name" json:"name"`
	Label      string        `yaml:"label,omitempty" json:"label,omitempty"`
	Background uicolor.Color `yaml:"background" json:"background"`
	Foreground uicolor.Color `yaml:"foreground" json:"foreground"`
	Accent     uicolor.Color `yaml:"accent" json:"accent"`
}

// Catalog is the ordered set of available themes.
type Catalog []Theme

type catalogFile struct {
	Themes Catalog `yaml:"themes"`
}

// DefaultCatalog returns the built-in themes.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("built-in theme catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading theme catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing theme catalog: %w", err)
	}
	if err := f.Themes.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme catalog: %w", err)
	}
	return f.Themes, nil
}

// Validate requires at least one theme, unique non-blank names and all three
// colours. A missing colour decodes as transparent and is rejected.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("at least one theme is required")
	}
	seen := make(map[string]bool, len(c))
	for i, t := range c {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("theme %d: name is required", i)
		}
		if name != t.Name {
			return fmt.Errorf("theme %q: name must not have leading or trailing whitespace", t.Name)
		}
		if seen[name] {
			return fmt.Errorf("theme %q: duplicate name", name)
		}
		seen[name] = true

		for _, field := range []struct {
			key   string
			color uicolor.Color
		}{
			{"background", t.Background},
			{"foreground", t.Foreground},
			{"accent", t.Accent},
		} {
			if field.color == uicolor.Transparent {
				return fmt.Errorf("theme %q: %s colour is required", name, field.key)
			}
		}
	}
	return nil
}

// Default returns the first theme. The catalog must not be empty.
func (c Catalog) Default() Theme {
	return c[0]
}

// Find looks a theme up by name.
func (c Catalog) Find(name string) (Theme, bool) {
	for _, t := range c {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Contains reports whether a theme with the given name exists.
func (c Catalog) Contains(name string) bool {
	_, ok := c.Find(name)
	return ok
}

// Names returns the theme names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, t := range c {
		names[i] = t.Name
	}
	return names
}
