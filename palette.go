// ABOUTME: Render palette derived from the active theme.
// ABOUTME: The theme applier swaps currentPalette; the preview window reads it every frame.

package main

import (
	"sync/atomic"

	"github.com/AllenDang/cimgui-go/imgui"

	"project-eye/internal/theme"
	"project-eye/internal/uicolor"
)

// palette holds the imgui colours for themed widgets.
type palette struct {
	name      string
	windowBg  imgui.Vec4
	text      imgui.Vec4
	buttonBg  imgui.Vec4
	buttonHov imgui.Vec4
	mutedText imgui.Vec4
}

var currentPalette atomic.Pointer[palette]

func init() {
	p := paletteFor(theme.DefaultCatalog().Default())
	currentPalette.Store(&p)
}

func vec4(c uicolor.Color) imgui.Vec4 {
	r, g, b, a := c.Floats()
	return imgui.Vec4{X: r, Y: g, Z: b, W: a}
}

func paletteFor(t theme.Theme) palette {
	fg := vec4(t.Foreground)
	muted := fg
	muted.W *= 0.6
	hover := vec4(t.Accent)
	hover.W *= 0.8
	return palette{
		name:      t.Name,
		windowBg:  vec4(t.Background),
		text:      fg,
		buttonBg:  vec4(t.Accent),
		buttonHov: hover,
		mutedText: muted,
	}
}

// applyPalette is the theme.Applier used by the daemon.
func applyPalette(t theme.Theme, _ string) {
	if t.Foreground.A == 0 {
		// Not in the catalog: keep the name, borrow the default colours.
		fallback := theme.DefaultCatalog().Default()
		fallback.Name = t.Name
		t = fallback
	}
	p := paletteFor(t)
	currentPalette.Store(&p)
}
