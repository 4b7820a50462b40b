// ABOUTME: Scheduled dark mode: a daily time window during which the Dark theme is forced.
// ABOUTME: Windows may wrap past midnight, e.g. 22:00-06:00.

package theme

import "time"

// InWindow reports whether now falls in [start, end]. When start is after
// end the window wraps past midnight and now matches either side.
func InWindow(now, start, end time.Time) bool {
	if !start.After(end) {
		return !now.Before(start) && !now.After(end)
	}
	return !now.Before(start) || !now.After(end)
}

// ShouldBeDark evaluates the configured window at now. available is false
// when auto dark mode is off or the catalog has no Dark theme.
func (s *Service) ShouldBeDark(now time.Time) (dark, available bool) {
	if !s.style.IsAutoDarkMode {
		return false, false
	}
	if !s.catalog.Contains(DarkThemeName) {
		if !s.warnedNoDark {
			s.logger.Warn().
				Strs("themes", s.catalog.Names()).
				Msg("Auto dark mode is on but the catalog has no Dark theme")
			s.warnedNoDark = true
		}
		return false, false
	}

	start := time.Date(now.Year(), now.Month(), now.Day(),
		s.style.AutoDarkStartH, s.style.AutoDarkStartM, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(),
		s.style.AutoDarkEndH, s.style.AutoDarkEndM, 0, 0, now.Location())

	return InWindow(now, start, end), true
}

// HandleDarkMode switches to Dark inside the window and back to the default
// theme outside it. It only acts on transitions and reports whether it switched.
func (s *Service) HandleDarkMode() bool {
	dark, available := s.ShouldBeDark(s.now())
	if !available {
		return false
	}

	target := s.catalog.Default().Name
	if dark {
		target = DarkThemeName
	}
	if s.style.ThemeName == target {
		return false
	}

	if dark {
		s.logger.Debug().Msg("dark mode open")
	} else {
		s.logger.Debug().Msg("dark mode close")
	}
	s.style.ThemeName = target
	s.SetTheme(target)
	return true
}
