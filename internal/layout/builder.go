// ABOUTME: Builds the default tip-window layout for a named screen and theme.
// ABOUTME: Malformed inputs fall back silently: unknown screens use the primary one.

package layout

import (
	"project-eye/internal/screen"
)

// Builder produces tip-window layouts from a template.
type Builder struct {
	screens      screen.Provider
	tmpl         *Template
	resourceRoot string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTemplate replaces the built-in layout.
func WithTemplate(t *Template) BuilderOption {
	return func(b *Builder) { b.tmpl = t }
}

// WithResourceRoot sets the base of theme image paths.
func WithResourceRoot(root string) BuilderOption {
	return func(b *Builder) { b.resourceRoot = root }
}

// NewBuilder creates a builder over the given screens.
func NewBuilder(screens screen.Provider, opts ...BuilderOption) *Builder {
	b := &Builder{screens: screens}
	for _, opt := range opts {
		opt(b)
	}
	if b.tmpl == nil {
		b.tmpl = DefaultTemplate()
	}
	return b
}

// GetCreateDefaultTipWindowUI lays out the tip window on the screen called
// screenName, using images of themeName. An empty or unknown screen name
// selects the primary screen.
func (b *Builder) GetCreateDefaultTipWindowUI(themeName, screenName string) UIDesignModel {
	sc := screen.Resolve(b.screens, screenName)
	return b.tmpl.Instantiate(b.screens.Size(sc), themeName, b.resourceRoot)
}
