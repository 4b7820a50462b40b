// ABOUTME: Wires config, theme catalog and theme service together for the daemon.
// ABOUTME: All theme service calls go through one control goroutine.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/sqweek/dialog"

	"project-eye/internal/config"
	"project-eye/internal/layout"
	"project-eye/internal/screen"
	"project-eye/internal/theme"
)

// controller runs closures one at a time on its own goroutine. The theme
// service has no locking, so tray clicks, scheduler ticks and config reloads
// all go through here.
type controller struct {
	ops     chan func()
	stopped chan struct{}
}

func newController() *controller {
	return &controller{ops: make(chan func()), stopped: make(chan struct{})}
}

// run executes queued closures until ctx is cancelled.
func (c *controller) run(ctx context.Context) error {
	defer close(c.stopped)
	for {
		select {
		case <-ctx.Done():
			return nil
		case op := <-c.ops:
			op()
		}
	}
}

// Do runs fn on the control goroutine and waits for it to finish. It reports
// false without running fn once the controller has stopped. It must not be
// called from inside another Do.
func (c *controller) Do(fn func()) bool {
	done := make(chan struct{})
	select {
	case c.ops <- func() {
		defer close(done)
		fn()
	}:
	case <-c.stopped:
		return false
	}
	<-done
	return true
}

// app is the daemon's state. Fields are only touched on the control goroutine
// once the controller is running.
type app struct {
	configPath string
	cfg        *config.Options
	catalog    theme.Catalog
	themes     *theme.Service
	ctl        *controller

	// onReload runs on the control goroutine after a config reload.
	onReload func()
}

// loadApp reads (or creates) the config, loads the catalog and initializes
// the theme service. A rewritten config is saved.
func loadApp(configPath string, interactive bool) (*app, error) {
	cfg, err := config.Load(configPath)
	firstRun := false
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
		cfg.EventsSecret = os.Getenv(config.EventsSecretEnv)
		firstRun = true
	}

	catalog := loadCatalog(cfg.CatalogPath, interactive)

	if firstRun {
		sys := systemAppearance()
		cfg.Style.ThemeName = firstRunTheme(catalog, sys)
		log.Info().
			Stringer("appearance", sys).
			Str("theme", cfg.Style.ThemeName).
			Msg("First run, picked theme from system appearance")
	}

	a := &app{
		configPath: configPath,
		cfg:        cfg,
		catalog:    catalog,
		ctl:        newController(),
	}
	a.themes = theme.NewService(&a.cfg.Style, catalog,
		theme.WithApplier(applyPalette),
		theme.WithResourcePath(cfg.ResourceRoot),
	)

	if changed := a.themes.Init(); changed || firstRun {
		a.save()
	}
	a.syncPalette()
	return a, nil
}

// loadCatalog falls back to the built-in themes when the configured catalog
// cannot be used.
func loadCatalog(path string, interactive bool) theme.Catalog {
	if path == "" {
		return theme.DefaultCatalog()
	}
	catalog, err := theme.LoadCatalog(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Using built-in themes")
		if interactive {
			dialog.Message("Could not load theme catalog %s:\n%v\n\nThe built-in themes will be used.", path, err).
				Title("Project Eye").
				Error()
		}
		return theme.DefaultCatalog()
	}
	return catalog
}

// tipBuilder lays out the tip window with the configured template, falling
// back to the built-in one when it cannot be loaded.
func (a *app) tipBuilder(screens screen.Provider) *layout.Builder {
	opts := []layout.BuilderOption{layout.WithResourceRoot(a.cfg.ResourceRoot)}
	if path := a.cfg.TipTemplatePath; path != "" {
		tmpl, err := layout.LoadTemplate(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Using built-in tip layout")
		} else {
			opts = append(opts, layout.WithTemplate(tmpl))
		}
	}
	return layout.NewBuilder(screens, opts...)
}

// syncPalette applies the context's theme to the palette. Init sets the
// active name without applying it.
func (a *app) syncPalette() {
	name := a.themes.Context().Name()
	t, ok := a.catalog.Find(name)
	if !ok {
		t = theme.Theme{Name: name}
	}
	applyPalette(t, a.themes.Context().Path())
}

func (a *app) save() {
	if err := a.cfg.Save(a.configPath); err != nil {
		log.Warn().Err(err).Str("path", a.configPath).Msg("Failed to save config")
		return
	}
	log.Debug().Str("path", a.configPath).Msg("Config saved")
}

// selectTheme is a user choice from the tray.
func (a *app) selectTheme(name string) {
	if !a.catalog.Contains(name) {
		log.Warn().Str("theme", name).Msg("Ignoring unknown theme")
		return
	}
	a.cfg.Style.ThemeName = name
	a.themes.SetTheme(name)
	a.save()
}

// setAutoDarkMode toggles the scheduled dark mode and re-evaluates it now.
func (a *app) setAutoDarkMode(enabled bool) {
	a.cfg.Style.IsAutoDarkMode = enabled
	a.themes.HandleDarkMode()
	a.save()
}

// tick is the scheduled dark-mode check.
func (a *app) tick() {
	if a.themes.HandleDarkMode() {
		a.save()
	}
}

// reload re-reads the config after it changed on disk. Unlike Init it
// switches through SetTheme, so subscribers see an edited theme name.
func (a *app) reload() {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring config change")
		return
	}
	if fields := restartFields(a.cfg, cfg); len(fields) > 0 {
		log.Warn().Strs("fields", fields).Msg("Config changes take effect after a restart")
	}
	*a.cfg = *cfg

	changed := false
	name := a.cfg.Style.ThemeName
	if !a.catalog.Contains(name) {
		name = a.catalog.Default().Name
		a.cfg.Style.ThemeName = name
		changed = true
	}
	a.themes.SetTheme(name)
	if a.themes.HandleDarkMode() {
		changed = true
	}
	if changed {
		a.save()
	}
	if a.onReload != nil {
		a.onReload()
	}
	log.Info().Str("theme", a.cfg.Style.ThemeName).Msg("Config reloaded")
}

// restartFields lists the settings that differ between running and loaded but are
// only read at startup.
func restartFields(running, loaded *config.Options) []string {
	var fields []string
	if running.CatalogPath != loaded.CatalogPath {
		fields = append(fields, "catalogPath")
	}
	if running.ResourceRoot != loaded.ResourceRoot {
		fields = append(fields, "resourceRoot")
	}
	if running.EventsAddr != loaded.EventsAddr {
		fields = append(fields, "eventsAddr")
	}
	if running.EventsSecret != loaded.EventsSecret {
		fields = append(fields, config.EventsSecretEnv)
	}
	return fields
}

// currentTheme reads the active theme name through the controller.
func (a *app) currentTheme() string {
	var name string
	a.ctl.Do(func() { name = a.themes.Context().Name() })
	return name
}

func describeWindow(s config.StyleConfig) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", s.AutoDarkStartH, s.AutoDarkStartM, s.AutoDarkEndH, s.AutoDarkEndM)
}
