// ABOUTME: Theme selection and change notification for the reminder UI.
// ABOUTME: Validates the configured theme, applies themes, and notifies subscribers.

package theme

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"project-eye/internal/config"
)

// ChangeFunc is called with the previous and new theme names after a switch.
type ChangeFunc func(oldName, newName string)

// Applier makes a theme visible, e.g. by swapping the renderer palette.
type Applier func(t Theme, resourcePath string)

type subscriber struct {
	id uuid.UUID
	fn ChangeFunc
}

// Service owns theme switching and the auto dark-mode decision.
//
// Service does no locking. Every method mutates the shared Context and the
// StyleConfig, so all calls must come from one goroutine. Subscribers run
// synchronously on that goroutine and must not wait on it.
type Service struct {
	style        *config.StyleConfig
	catalog      Catalog
	ctx          *Context
	now          func() time.Time
	apply        Applier
	resourcePath string
	logger       zerolog.Logger

	subscribers  []subscriber
	warnedNoDark bool
}

// Option configures a Service.
type Option func(*Service)

// WithContext shares an existing Context instead of creating one.
func WithContext(ctx *Context) Option {
	return func(s *Service) { s.ctx = ctx }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithApplier sets the function that makes a theme visible.
func WithApplier(a Applier) Option {
	return func(s *Service) { s.apply = a }
}

// WithResourcePath sets the resource base path stored in the Context.
func WithResourcePath(path string) Option {
	return func(s *Service) { s.resourcePath = path }
}

// WithLogger replaces the default component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a service over style and catalog. The catalog must not be empty.
func NewService(style *config.StyleConfig, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		style:   style,
		catalog: catalog,
		now:     time.Now,
		apply:   func(Theme, string) {},
		logger:  log.With().Str("component", "theme").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ctx == nil {
		s.ctx = NewContext()
	}
	return s
}

// Context returns the context holding the active theme.
func (s *Service) Context() *Context {
	return s.ctx
}

// Catalog returns the available themes.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Init validates the configured theme, falling back to the catalog default
// when it is unknown, then runs the dark-mode check. It reports whether the
// style config was rewritten; persisting it is up to the caller.
func (s *Service) Init() bool {
	if len(s.catalog) == 0 {
		s.logger.Error().Msg("Theme catalog is empty")
		return false
	}

	changed := false
	name := s.style.ThemeName
	if !s.catalog.Contains(name) {
		fallback := s.catalog.Default().Name
		s.logger.Info().
			Str("configured", name).
			Str("fallback", fallback).
			Msg("Configured theme not available, using default")
		name = fallback
		s.style.ThemeName = fallback
		changed = true
	}
	s.ctx.set(name, s.resourcePath)

	if s.HandleDarkMode() {
		changed = true
	}
	return changed
}

// SetTheme switches the active theme. Setting the already active theme is a no-op.
func (s *Service) SetTheme(name string) {
	oldName := s.ctx.Name()
	if oldName == name {
		return
	}

	s.ctx.set(name, s.resourcePath)

	t, ok := s.catalog.Find(name)
	if !ok {
		t = Theme{Name: name}
	}
	s.apply(t, s.resourcePath)

	s.logger.Info().Str("old", oldName).Str("new", name).Msg("Theme changed")

	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	for _, sub := range subs {
		sub.fn(oldName, name)
	}
}

// Subscribe registers fn for theme changes and returns a handle for Unsubscribe.
func (s *Service) Subscribe(fn ChangeFunc) uuid.UUID {
	id := uuid.New()
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return id
}

// Unsubscribe removes a subscription. It reports whether id was registered.
func (s *Service) Unsubscribe(id uuid.UUID) bool {
	for i, sub := range s.subscribers {
		if sub.id == id {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return true
		}
	}
	return false
}
