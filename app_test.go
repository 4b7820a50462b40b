// ABOUTME: Tests for the daemon wiring: control goroutine, config persistence and reloads.
// ABOUTME: Runs without a display; the tray and preview are not exercised here.

package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"project-eye/internal/config"
	"project-eye/internal/layout"
	"project-eye/internal/theme"
)

func TestControllerRunsInOrder(t *testing.T) {
	ctl := newController()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctl.run(ctx)

	var got []int
	for i := 0; i < 5; i++ {
		n := i
		if !ctl.Do(func() { got = append(got, n) }) {
			t.Fatalf("Do(%d) reported stopped controller", i)
		}
	}
	for i, n := range got {
		if n != i {
			t.Fatalf("got %v, want 0..4 in order", got)
		}
	}
}

func TestControllerDoAfterStop(t *testing.T) {
	ctl := newController()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ctl.run(ctx)
		close(done)
	}()
	cancel()
	<-done

	ran := false
	if ctl.Do(func() { ran = true }) {
		t.Error("Do should report false once the controller stopped")
	}
	if ran {
		t.Error("fn must not run after the controller stopped")
	}
}

func TestLoadAppFirstRunWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	a, err := loadApp(path, false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written on first run: %v", err)
	}
	if got := a.themes.Context().Name(); !a.catalog.Contains(got) {
		t.Errorf("active theme %q not in catalog", got)
	}
	if p := currentPalette.Load(); p.name != a.themes.Context().Name() {
		t.Errorf("palette %q does not follow active theme %q", p.name, a.themes.Context().Name())
	}
}

func TestLoadAppRepairsUnknownTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.Default()
	cfg.Style.ThemeName = "Sepia"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	a, err := loadApp(path, false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}
	if got := a.themes.Context().Name(); got != "Blue" {
		t.Errorf("active theme = %q, want Blue", got)
	}

	saved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if saved.Style.ThemeName != "Blue" {
		t.Errorf("saved theme = %q, want Blue", saved.Style.ThemeName)
	}
}

func TestSelectThemePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	a, err := loadApp(path, false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}

	var changes []string
	a.themes.Subscribe(func(_, newName string) { changes = append(changes, newName) })

	a.selectTheme(theme.DarkThemeName)
	a.selectTheme("NoSuchTheme")

	if len(changes) != 1 || changes[0] != theme.DarkThemeName {
		t.Errorf("changes = %v, want [Dark]", changes)
	}
	saved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if saved.Style.ThemeName != theme.DarkThemeName {
		t.Errorf("saved theme = %q, want Dark", saved.Style.ThemeName)
	}
	if currentPalette.Load().name != theme.DarkThemeName {
		t.Errorf("palette = %q, want Dark", currentPalette.Load().name)
	}
}

func TestReloadNotifiesSubscribers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	a, err := loadApp(path, false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}
	a.selectTheme("Blue")

	var changes []string
	a.themes.Subscribe(func(oldName, newName string) { changes = append(changes, oldName+">"+newName) })

	edited := config.Default()
	edited.Style.ThemeName = theme.DarkThemeName
	if err := edited.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	a.reload()

	if len(changes) != 1 || changes[0] != "Blue>Dark" {
		t.Errorf("changes = %v, want [Blue>Dark]", changes)
	}
	if a.cfg.Style.ThemeName != theme.DarkThemeName {
		t.Errorf("cfg theme = %q, want Dark", a.cfg.Style.ThemeName)
	}
}

func TestReloadRunsHookForNonThemeChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	a, err := loadApp(path, false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}
	reloads := 0
	a.onReload = func() { reloads++ }

	edited := *a.cfg
	edited.Style.AutoDarkStartH = 21
	edited.Style.AutoDarkStartM = 30
	if err := edited.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	a.reload()

	if reloads != 1 {
		t.Errorf("onReload ran %d times, want 1", reloads)
	}
	if got := describeWindow(a.cfg.Style); got != "21:30-06:00" {
		t.Errorf("window = %q, want 21:30-06:00", got)
	}
}

func TestReloadLeavesStartupOnlyFieldsToRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	a, err := loadApp(path, false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}
	root := a.themes.Context().Path()
	moved := filepath.Join(t.TempDir(), "elsewhere")

	edited := *a.cfg
	edited.ResourceRoot = moved
	edited.TipScreen = "DISPLAY2"
	if err := edited.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	a.reload()
	a.selectTheme(theme.DarkThemeName)

	if got := a.themes.Context().Path(); got != root {
		t.Errorf("running resource path = %q, want startup value %q", got, root)
	}
	saved, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if saved.ResourceRoot != moved {
		t.Errorf("saved resourceRoot = %q, want edited %q", saved.ResourceRoot, moved)
	}
	if saved.TipScreen != "DISPLAY2" {
		t.Errorf("saved tipScreen = %q, want DISPLAY2", saved.TipScreen)
	}
}

func TestRestartFields(t *testing.T) {
	running := config.Default()
	loaded := *running
	if got := restartFields(running, &loaded); len(got) != 0 {
		t.Errorf("restartFields on equal configs = %v, want none", got)
	}

	loaded.CatalogPath = "/themes.yaml"
	loaded.EventsSecret = "s3cret"
	loaded.Style.IsAutoDarkMode = true
	got := restartFields(running, &loaded)
	want := []string{"catalogPath", config.EventsSecretEnv}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("restartFields = %v, want %v", got, want)
	}
}

func TestReloadIgnoresInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	a, err := loadApp(path, false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}
	before := *a.cfg

	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	a.reload()

	if *a.cfg != before {
		t.Errorf("config changed after invalid reload: %+v", *a.cfg)
	}
}

func TestTipBuilderUsesConfiguredTemplate(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "tip.yaml")
	data := "container: {background: black, opacity: 1}\ntop: 0.25\nrows:\n  - elements:\n      - {type: text, width: 100, height: 20, text: custom}\n"
	if err := os.WriteFile(tmplPath, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	a, err := loadApp(filepath.Join(dir, "config.json"), false)
	if err != nil {
		t.Fatalf("loadApp failed: %v", err)
	}
	screens, _ := layoutScreens(800, 600)

	if got := len(a.tipBuilder(screens).GetCreateDefaultTipWindowUI("Blue", "").Elements); got != 6 {
		t.Errorf("built-in layout has %d elements, want 6", got)
	}

	a.cfg.TipTemplatePath = tmplPath
	m := a.tipBuilder(screens).GetCreateDefaultTipWindowUI("Blue", "")
	if len(m.Elements) != 1 || m.Elements[0].Text != "custom" {
		t.Fatalf("custom layout = %+v, want one \"custom\" element", m.Elements)
	}

	a.cfg.TipTemplatePath = filepath.Join(dir, "missing.yaml")
	if got := len(a.tipBuilder(screens).GetCreateDefaultTipWindowUI("Blue", "").Elements); got != 6 {
		t.Errorf("fallback layout has %d elements, want 6", got)
	}
}

func TestDescribeWindow(t *testing.T) {
	s := config.StyleConfig{AutoDarkStartH: 22, AutoDarkStartM: 5, AutoDarkEndH: 6, AutoDarkEndM: 0}
	if got := describeWindow(s); got != "22:05-06:00" {
		t.Errorf("describeWindow = %q, want 22:05-06:00", got)
	}
}

func TestTrayIconIsPNG(t *testing.T) {
	data := trayIcon(theme.DefaultCatalog().Default())
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("icon is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != trayIconSize || b.Dy() != trayIconSize {
		t.Errorf("icon size = %v, want %dx%d", b, trayIconSize, trayIconSize)
	}
	_, _, _, a := img.At(trayIconSize/2, trayIconSize/2).RGBA()
	if a == 0 {
		t.Error("icon centre should be opaque")
	}
	_, _, _, a = img.At(0, 0).RGBA()
	if a != 0 {
		t.Error("icon corner should be transparent")
	}
}

func TestPreviewArgsKeepDaemonFlags(t *testing.T) {
	got := previewArgs("/x/config.json", false)
	want := []string{"preview", "--config", "/x/config.json"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("previewArgs = %v, want %v", got, want)
	}

	got = previewArgs("/x/config.json", true)
	want = append(want, "--debug")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("previewArgs with debug = %v, want %v", got, want)
	}
}

func TestLayoutScreensRejectsHalfSize(t *testing.T) {
	if _, err := layoutScreens(1920, 0); err == nil {
		t.Error("expected an error when only --width is set")
	}
	screens, err := layoutScreens(1280, 720)
	if err != nil {
		t.Fatalf("layoutScreens failed: %v", err)
	}
	if p := screens.PrimaryScreen(); p.Width != 1280 || p.Height != 720 {
		t.Errorf("primary = %+v, want 1280x720", p)
	}
}

func TestPreviewScale(t *testing.T) {
	p := newPreview(layoutFor(t), 1920)
	if p.scale != 0.5 {
		t.Errorf("scale = %v, want 0.5", p.scale)
	}
	if small := newPreview(layoutFor(t), 800); small.scale != 1 {
		t.Errorf("small screen scale = %v, want 1", small.scale)
	}
}

func layoutFor(t *testing.T) layout.UIDesignModel {
	t.Helper()
	screens, err := layoutScreens(1920, 1080)
	if err != nil {
		t.Fatal(err)
	}
	return layout.NewBuilder(screens).GetCreateDefaultTipWindowUI("Blue", "")
}
