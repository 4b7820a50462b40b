// ABOUTME: Screen enumeration abstraction used to place the tip window.
// ABOUTME: Resolves a configured device name to a physical screen.

package screen

import "strings"

// Screen is one attached display as reported by the windowing system.
type Screen struct {
	DeviceName string `json:"deviceName"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Primary    bool   `json:"primary"`
}

// Size is a pixel size.
type Size struct {
	Width  float64
	Height float64
}

// Provider enumerates screens and reports their geometry.
type Provider interface {
	AllScreens() []Screen
	PrimaryScreen() Screen
	Size(Screen) Size
}

// NormalizeName strips backslashes, so `\\.\DISPLAY1` and `.DISPLAY1` compare equal.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, `\`, "")
}

// Resolve returns the screen whose normalized device name matches name.
// An empty name, or one that matches nothing, yields the primary screen.
// Duplicate names resolve to the first in enumeration order.
func Resolve(p Provider, name string) Screen {
	name = NormalizeName(name)
	primary := p.PrimaryScreen()
	if name == "" {
		return primary
	}

	for _, s := range p.AllScreens() {
		if NormalizeName(s.DeviceName) == name {
			return s
		}
	}
	return primary
}

// Static is a fixed screen list. The first screen marked Primary is the
// primary one, or the first screen when none is marked.
type Static []Screen

// AllScreens returns the screens in enumeration order.
func (s Static) AllScreens() []Screen {
	out := make([]Screen, len(s))
	copy(out, s)
	return out
}

// PrimaryScreen returns the primary screen, or the zero Screen when empty.
func (s Static) PrimaryScreen() Screen {
	for _, sc := range s {
		if sc.Primary {
			return sc
		}
	}
	if len(s) > 0 {
		return s[0]
	}
	return Screen{}
}

// Size reports the screen's own pixel dimensions.
func (s Static) Size(sc Screen) Size {
	return Size{Width: float64(sc.Width), Height: float64(sc.Height)}
}
