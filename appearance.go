// ABOUTME: Chooses the first-run theme from the operating system's light or dark appearance.
// ABOUTME: Platform files only read the OS setting; the decoding and theme choice live here.

package main

import (
	"strings"

	"project-eye/internal/theme"
)

// appearance is the OS-wide colour scheme preference.
type appearance int

const (
	appearanceLight appearance = iota
	appearanceDark
)

func (a appearance) String() string {
	if a == appearanceDark {
		return "dark"
	}
	return "light"
}

// appearanceFromInterfaceStyle decodes `defaults read -g AppleInterfaceStyle`.
// The key is absent in light mode, so anything but "Dark" is light.
func appearanceFromInterfaceStyle(out []byte) appearance {
	if strings.TrimSpace(string(out)) == "Dark" {
		return appearanceDark
	}
	return appearanceLight
}

// appearanceFromAppsUseLightTheme decodes the Personalize registry value.
func appearanceFromAppsUseLightTheme(v uint64) appearance {
	if v == 0 {
		return appearanceDark
	}
	return appearanceLight
}

// firstRunTheme picks the theme a fresh config starts with: Dark when the OS
// is dark and the catalog has it, otherwise the catalog default.
func firstRunTheme(catalog theme.Catalog, a appearance) string {
	if a == appearanceDark && catalog.Contains(theme.DarkThemeName) {
		return theme.DarkThemeName
	}
	return catalog.Default().Name
}
