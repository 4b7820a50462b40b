// ABOUTME: Configuration file handling for persistent settings.
// ABOUTME: Stores the theme selection, auto dark-mode window and daemon options.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EventsSecretEnv names the environment variable holding the event feed secret.
const EventsSecretEnv = "PROJECT_EYE_EVENTS_SECRET"

// ErrInvalidTime is returned by Validate for an out-of-range hour or minute.
var ErrInvalidTime = errors.New("invalid auto dark-mode time")

// StyleConfig holds the appearance settings. ThemeName is the selected theme;
// it is the only theme reference kept across calls.
type StyleConfig struct {
	ThemeName      string `json:"themeName"`
	IsAutoDarkMode bool   `json:"isAutoDarkMode"`
	AutoDarkStartH int    `json:"autoDarkStartH"`
	AutoDarkStartM int    `json:"autoDarkStartM"`
	AutoDarkEndH   int    `json:"autoDarkEndH"`
	AutoDarkEndM   int    `json:"autoDarkEndM"`
}

// Options holds the persistent configuration for the daemon.
type Options struct {
	Style StyleConfig `json:"style"`

	// CatalogPath points at a YAML theme catalog; empty uses the built-in one.
	CatalogPath string `json:"catalogPath,omitempty"`
	// ResourceRoot is the base of theme resources (images).
	ResourceRoot string `json:"resourceRoot,omitempty"`
	// TipScreen is the device name of the screen showing the tip window.
	TipScreen string `json:"tipScreen,omitempty"`
	// TipTemplatePath points at a YAML tip-window layout; empty uses the built-in one.
	TipTemplatePath string `json:"tipTemplatePath,omitempty"`
	// EventsAddr enables the theme-change websocket feed when set, e.g. "127.0.0.1:9877".
	EventsAddr string `json:"eventsAddr,omitempty"`

	// EventsSecret is loaded from the environment, never written to disk.
	EventsSecret string `json:"-"`
}

// Default returns the settings used on first run.
func Default() *Options {
	return &Options{
		Style: StyleConfig{
			ThemeName:      "Blue",
			IsAutoDarkMode: false,
			AutoDarkStartH: 22,
			AutoDarkStartM: 0,
			AutoDarkEndH:   6,
			AutoDarkEndM:   0,
		},
		ResourceRoot: DefaultResourceRoot(),
	}
}

// Path returns the platform-appropriate path for the config file.
func Path() string {
	return filepath.Join(configDir(), "config.json")
}

// DefaultResourceRoot returns the directory holding Themes/<name>/Images.
func DefaultResourceRoot() string {
	return filepath.Join(configDir(), "Resources")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "project-eye")
}

// Load reads the configuration from the given path. A .env file next to it,
// if present, is loaded first so secrets can come from there.
func Load(path string) (*Options, error) {
	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.EventsSecret = os.Getenv(EventsSecretEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given path, creating directories as needed.
func (c *Options) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks the auto dark-mode window fields.
func (c *Options) Validate() error {
	s := c.Style
	if s.AutoDarkStartH < 0 || s.AutoDarkStartH > 23 || s.AutoDarkEndH < 0 || s.AutoDarkEndH > 23 {
		return fmt.Errorf("%w: hours must be 0-23 (start %d, end %d)", ErrInvalidTime, s.AutoDarkStartH, s.AutoDarkEndH)
	}
	if s.AutoDarkStartM < 0 || s.AutoDarkStartM > 59 || s.AutoDarkEndM < 0 || s.AutoDarkEndM > 59 {
		return fmt.Errorf("%w: minutes must be 0-59 (start %d, end %d)", ErrInvalidTime, s.AutoDarkStartM, s.AutoDarkEndM)
	}
	return nil
}
