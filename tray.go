// ABOUTME: System tray icon for switching themes and toggling scheduled dark mode.
// ABOUTME: Menu clicks are forwarded to the app's control goroutine.

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"

	"fyne.io/systray"
	"github.com/rs/zerolog/log"

	"project-eye/internal/theme"
)

const trayIconSize = 32

// trayMenu holds the menu items whose state follows the app.
type trayMenu struct {
	status   *systray.MenuItem
	themes   map[string]*systray.MenuItem
	autoDark *systray.MenuItem
}

// trayIcon draws a filled circle in the theme's accent colour.
func trayIcon(t theme.Theme) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, trayIconSize, trayIconSize))
	accent := t.Accent.NRGBA()
	if accent.A == 0 {
		accent = color.NRGBA{R: 0x25, G: 0x63, B: 0xEB, A: 0xff}
	}
	r := trayIconSize/2 - 2
	c := trayIconSize / 2
	for y := 0; y < trayIconSize; y++ {
		for x := 0; x < trayIconSize; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, accent)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Warn().Err(err).Msg("Failed to encode tray icon")
		return nil
	}
	return buf.Bytes()
}

// runTray blocks running the system tray until Quit is chosen.
func runTray(a *app, onExit func()) {
	systray.Run(func() {
		a.ctl.Do(func() { buildTrayMenu(a) })
	}, onExit)
}

// buildTrayMenu runs on the control goroutine.
func buildTrayMenu(a *app) trayMenu {
	active := a.themes.Context().Name()
	if t, ok := a.catalog.Find(active); ok {
		systray.SetIcon(trayIcon(t))
	}
	systray.SetTooltip("Project Eye")

	menu := trayMenu{themes: make(map[string]*systray.MenuItem)}
	menu.status = systray.AddMenuItem(statusTitle(active), "Active theme")
	menu.status.Disable()
	systray.AddSeparator()

	themesItem := systray.AddMenuItem("Theme", "Choose a theme")
	for _, t := range a.catalog {
		label := t.Label
		if label == "" {
			label = t.Name
		}
		item := themesItem.AddSubMenuItemCheckbox(label, "Use the "+label+" theme", t.Name == active)
		menu.themes[t.Name] = item
		name := t.Name
		go func() {
			for range item.ClickedCh {
				a.ctl.Do(func() { a.selectTheme(name) })
			}
		}()
	}

	menu.autoDark = systray.AddMenuItemCheckbox(
		"Dark mode "+describeWindow(a.cfg.Style),
		"Switch to the Dark theme during the scheduled window",
		a.cfg.Style.IsAutoDarkMode,
	)
	if !a.catalog.Contains(theme.DarkThemeName) {
		menu.autoDark.Disable()
	}
	go func() {
		for range menu.autoDark.ClickedCh {
			a.ctl.Do(func() {
				a.setAutoDarkMode(!a.cfg.Style.IsAutoDarkMode)
				menu.sync(a)
			})
		}
	}()

	mPreview := systray.AddMenuItem("Preview tip window", "Show the break reminder layout")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit Project Eye")

	go func() {
		for {
			select {
			case <-mPreview.ClickedCh:
				launchPreview()
			case <-mQuit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()

	a.themes.Subscribe(func(_, _ string) { menu.sync(a) })
	a.onReload = func() { menu.sync(a) }
	return menu
}

// sync refreshes check marks, status and icon. Runs on the control goroutine.
func (m trayMenu) sync(a *app) {
	active := a.themes.Context().Name()
	m.status.SetTitle(statusTitle(active))
	for name, item := range m.themes {
		if name == active {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	if a.cfg.Style.IsAutoDarkMode {
		m.autoDark.Check()
	} else {
		m.autoDark.Uncheck()
	}
	m.autoDark.SetTitle("Dark mode " + describeWindow(a.cfg.Style))
	if t, ok := a.catalog.Find(active); ok {
		systray.SetIcon(trayIcon(t))
	}
}

func statusTitle(active string) string {
	return fmt.Sprintf("Theme: %s", active)
}

// launchPreview opens the preview in a separate process; GUI toolkits and
// the tray both want the main thread.
func launchPreview() {
	exe, err := os.Executable()
	if err != nil {
		log.Warn().Err(err).Msg("Could not determine executable path")
		return
	}
	cmd := exec.Command(exe, previewArgs(configPath, debug)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to launch preview")
		return
	}
	go func() { _ = cmd.Wait() }()
}

// previewArgs carries the daemon's config path and log level over to the
// preview process.
func previewArgs(cfgPath string, debugLog bool) []string {
	args := []string{"preview", "--config", cfgPath}
	if debugLog {
		args = append(args, "--debug")
	}
	return args
}
