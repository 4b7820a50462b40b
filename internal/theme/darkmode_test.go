// ABOUTME: Tests for the scheduled dark-mode window.
// ABOUTME: Covers wrapping windows, transitions and the missing Dark theme.

package theme

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"project-eye/internal/config"
)

func clock(h, m int) time.Time {
	return time.Date(2024, time.March, 10, h, m, 0, 0, time.UTC)
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		now        time.Time
		want       bool
	}{
		{name: "day_inside", start: clock(9, 0), end: clock(17, 0), now: clock(12, 0), want: true},
		{name: "day_before", start: clock(9, 0), end: clock(17, 0), now: clock(8, 0), want: false},
		{name: "day_after", start: clock(9, 0), end: clock(17, 0), now: clock(17, 1), want: false},
		{name: "day_start_inclusive", start: clock(9, 0), end: clock(17, 0), now: clock(9, 0), want: true},
		{name: "day_end_inclusive", start: clock(9, 0), end: clock(17, 0), now: clock(17, 0), want: true},
		{name: "wrap_late_evening", start: clock(22, 0), end: clock(6, 0), now: clock(23, 0), want: true},
		{name: "wrap_early_morning", start: clock(22, 0), end: clock(6, 0), now: clock(3, 0), want: true},
		{name: "wrap_midday", start: clock(22, 0), end: clock(6, 0), now: clock(12, 0), want: false},
		{name: "wrap_midnight", start: clock(22, 0), end: clock(6, 0), now: clock(0, 0), want: true},
		{name: "same_hour_wrap", start: clock(22, 30), end: clock(22, 10), now: clock(23, 0), want: true},
		{name: "same_hour_wrap_gap", start: clock(22, 30), end: clock(22, 10), now: clock(22, 20), want: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, InWindow(test.now, test.start, test.end))
		})
	}
}

func nightStyle(theme string) *config.StyleConfig {
	return &config.StyleConfig{
		ThemeName:      theme,
		IsAutoDarkMode: true,
		AutoDarkStartH: 22,
		AutoDarkEndH:   6,
	}
}

func TestHandleDarkModeTurnsOnInsideWindow(t *testing.T) {
	style := nightStyle("Blue")
	s, changes, _ := newTestService(t, style, testCatalog(), WithClock(at(23, 0)))

	assert.True(t, s.Init())
	assert.Equal(t, "Dark", style.ThemeName)
	assert.Equal(t, "Dark", s.Context().Name())
	assert.Equal(t, []change{{"Blue", "Dark"}}, *changes)
}

func TestHandleDarkModeTurnsOffOutsideWindow(t *testing.T) {
	style := nightStyle("Dark")
	s, changes, _ := newTestService(t, style, testCatalog(), WithClock(at(12, 0)))

	s.Init()
	assert.Equal(t, "Blue", style.ThemeName)
	assert.Equal(t, []change{{"Dark", "Blue"}}, *changes)
}

func TestHandleDarkModeOutsideWindowRevertsNonDefaultTheme(t *testing.T) {
	style := nightStyle("Green")
	s, changes, _ := newTestService(t, style, testCatalog(), WithClock(at(12, 0)))

	s.Init()
	assert.Equal(t, "Blue", style.ThemeName)
	assert.Equal(t, []change{{"Green", "Blue"}}, *changes)
}

func TestHandleDarkModeIsIdempotent(t *testing.T) {
	style := nightStyle("Blue")
	style.IsAutoDarkMode = false
	s, changes, applied := newTestService(t, style, testCatalog(), WithClock(at(3, 0)))
	s.Init()

	style.IsAutoDarkMode = true
	assert.True(t, s.HandleDarkMode())
	assert.False(t, s.HandleDarkMode())

	assert.Len(t, *changes, 1)
	assert.Equal(t, []string{"Dark"}, *applied)
}

func TestHandleDarkModeDisabled(t *testing.T) {
	style := nightStyle("Blue")
	style.IsAutoDarkMode = false
	s, changes, _ := newTestService(t, style, testCatalog(), WithClock(at(23, 0)))

	assert.False(t, s.Init())
	assert.False(t, s.HandleDarkMode())
	assert.Equal(t, "Blue", style.ThemeName)
	assert.Empty(t, *changes)
}

func TestHandleDarkModeWithoutDarkTheme(t *testing.T) {
	style := nightStyle("Blue")
	catalog := Catalog{{Name: "Blue"}, {Name: "Green"}}
	s, changes, _ := newTestService(t, style, catalog, WithClock(at(23, 0)))

	s.Init()
	assert.False(t, s.HandleDarkMode())
	assert.Equal(t, "Blue", style.ThemeName)
	assert.Empty(t, *changes)
}

func TestHandleDarkModeFollowsClock(t *testing.T) {
	now := clock(21, 59)
	style := nightStyle("Blue")
	s, changes, _ := newTestService(t, style, testCatalog(), WithClock(func() time.Time { return now }))
	s.Init()
	assert.Empty(t, *changes)

	now = clock(22, 0)
	s.HandleDarkMode()
	now = clock(5, 59)
	s.HandleDarkMode()
	now = clock(6, 1)
	s.HandleDarkMode()

	assert.Equal(t, []change{{"Blue", "Dark"}, {"Dark", "Blue"}}, *changes)
}

func TestShouldBeDark(t *testing.T) {
	style := &config.StyleConfig{ThemeName: "Blue", IsAutoDarkMode: true, AutoDarkStartH: 9, AutoDarkEndH: 17}
	s := NewService(style, testCatalog(), WithLogger(zerolog.Nop()))

	dark, ok := s.ShouldBeDark(clock(12, 0))
	assert.True(t, ok)
	assert.True(t, dark)

	dark, ok = s.ShouldBeDark(clock(8, 0))
	assert.True(t, ok)
	assert.False(t, dark)

	style.IsAutoDarkMode = false
	_, ok = s.ShouldBeDark(clock(12, 0))
	assert.False(t, ok)
}
