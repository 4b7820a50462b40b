// ABOUTME: Tests for theme catalog parsing and lookup.

package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-eye/internal/uicolor"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []string{"Blue", "Dark"}, c.Names())
	assert.Equal(t, "Blue", c.Default().Name)

	dark, ok := c.Find(DarkThemeName)
	require.True(t, ok)
	assert.Equal(t, uicolor.MustParse("#1A1B1C"), dark.Background)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes.yaml")
	data := `themes:
  - name: Green
    background: "#E8F5E9"
    foreground: "#1B5E20"
    accent: seagreen
  - name: Dark
    background: "#000000"
    foreground: "#FFFFFF"
    accent: "#FFB803"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "Green", c.Default().Name)
	assert.True(t, c.Contains("Dark"))
	assert.False(t, c.Contains("Blue"))
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: "themes: []\n"},
		{name: "blank_name", data: "themes:\n  - name: \"\"\n"},
		{name: "padded_name", data: "themes:\n  - name: \" Blue\"\n"},
		{name: "duplicate", data: "themes:\n  - name: Blue\n  - name: Blue\n"},
		{name: "no_colours", data: "themes:\n  - name: Bare\n"},
		{name: "missing_accent", data: "themes:\n  - name: Bare\n    background: \"#FFFFFF\"\n    foreground: \"#000000\"\n"},
		{name: "transparent_background", data: "themes:\n  - name: Bare\n    background: \"#00000000\"\n    foreground: \"#000000\"\n    accent: \"#2563EB\"\n"},
		{name: "bad_colour", data: "themes:\n  - name: Blue\n    background: \"#nothex\"\n"},
		{name: "not_yaml", data: "themes: [\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(test.data))
			assert.Error(t, err)
		})
	}
}

func TestValidateNamesMissingColour(t *testing.T) {
	c := Catalog{{
		Name:       "Bare",
		Background: uicolor.White,
		Foreground: uicolor.Black,
	}}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accent")
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
