// ABOUTME: Project Eye theme daemon: tray theme switching, scheduled dark mode and a change feed.
// ABOUTME: Also exposes one-shot commands to print layouts, preview the tip window and run the dark-mode check.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/systray"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"project-eye/internal/config"
	"project-eye/internal/feed"
	"project-eye/internal/scheduler"
	"project-eye/internal/screen"
	"project-eye/internal/watch"
)

const (
	darkModeJob      = "dark-mode"
	darkModeSchedule = "* * * * *"
	feedPingJob      = "feed-ping"
	shutdownTimeout  = 5 * time.Second
)

var (
	configPath string
	debug      bool
)

func setupLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "project-eye",
		Short: "Theme switching and scheduled dark mode for the Project Eye break reminder",
		Long: `project-eye keeps the break reminder's theme in sync with your preferences.

Without a subcommand it runs the tray daemon: pick a theme from the tray menu,
enable the dark-mode window, and companion tools can follow theme changes
over a websocket feed.

Secrets can be supplied through a .env file next to the config:
  PROJECT_EYE_EVENTS_SECRET  - bearer token required by the change feed`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDaemon(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.Path(), "path to the config file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the tray daemon (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runDaemon(cmd.Context())
			},
		},
		newLayoutCmd(),
		newPreviewCmd(),
		newDarkModeCmd(),
		newThemesCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// runDaemon runs the tray until Quit or a signal.
func runDaemon(parent context.Context) error {
	a, err := loadApp(configPath, true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error { return a.ctl.run(gctx) })

	sched, err := scheduler.New()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if _, err := sched.AddJob(darkModeJob, darkModeSchedule, func() { a.ctl.Do(a.tick) }); err != nil {
		return fmt.Errorf("failed to schedule dark mode check: %w", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			log.Warn().Err(err).Msg("Scheduler shutdown failed")
		}
	}()

	group.Go(func() error {
		if err := watch.Watch(gctx, configPath, func() { a.ctl.Do(a.reload) }); err != nil {
			log.Warn().Err(err).Msg("Config changes on disk will not be picked up")
		}
		return nil
	})

	var feedSub uuid.UUID
	if a.cfg.EventsAddr != "" {
		hub := feed.NewHub(a.cfg.EventsSecret, a.currentTheme)
		a.ctl.Do(func() { feedSub = a.themes.Subscribe(hub.ThemeChanged) })
		if _, err := sched.AddIntervalJob(feedPingJob, feed.PingInterval, hub.Ping); err != nil {
			log.Warn().Err(err).Msg("Feed clients will not be pinged")
		}
		group.Go(func() error { return serveFeed(gctx, a.cfg.EventsAddr, hub) })
	}
	log.Debug().Int("jobs", len(sched.Jobs())).Msg("Scheduler jobs registered")

	// Quit the tray when the context ends for any other reason.
	go func() {
		<-gctx.Done()
		systray.Quit()
	}()

	log.Info().
		Str("config", configPath).
		Str("theme", a.currentTheme()).
		Msg("Project Eye started")

	runTray(a, cancel)
	if feedSub != uuid.Nil {
		a.ctl.Do(func() { a.themes.Unsubscribe(feedSub) })
	}
	cancel()

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("Project Eye stopped")
	return nil
}

// serveFeed serves the websocket feed until ctx is cancelled.
func serveFeed(ctx context.Context, addr string, hub *feed.Hub) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWebSocket)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Theme feed listening on /ws")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("theme feed failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newLayoutCmd() *cobra.Command {
	var (
		themeName  string
		screenName string
		width      int
		height     int
		format     string
	)
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the tip-window layout for a screen and theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(configPath, false)
			if err != nil {
				return err
			}
			if themeName == "" {
				themeName = a.themes.Context().Name()
			}
			if screenName == "" {
				screenName = a.cfg.TipScreen
			}

			screens, err := layoutScreens(width, height)
			if err != nil {
				return err
			}
			model := a.tipBuilder(screens).
				GetCreateDefaultTipWindowUI(themeName, screenName)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(model)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(model)
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&themeName, "theme", "", "theme whose images the layout references (default: active theme)")
	cmd.Flags().StringVar(&screenName, "screen", "", "device name of the target screen (default: configured tip screen, else primary)")
	cmd.Flags().IntVar(&width, "width", 0, "lay out for a WIDTHxHEIGHT screen instead of the attached monitors")
	cmd.Flags().IntVar(&height, "height", 0, "screen height used with --width")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

// layoutScreens uses a synthetic screen when a size is given, otherwise the
// attached monitors.
func layoutScreens(width, height int) (screen.Static, error) {
	if width > 0 || height > 0 {
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("--width and --height must both be positive")
		}
		return screen.Static{{DeviceName: "DISPLAY1", Width: width, Height: height, Primary: true}}, nil
	}
	return glfwScreens()
}

func newPreviewCmd() *cobra.Command {
	var screenName string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the tip window with the active theme",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp(configPath, true)
			if err != nil {
				return err
			}
			if screenName == "" {
				screenName = a.cfg.TipScreen
			}
			screens, err := glfwScreens()
			if err != nil {
				return err
			}
			sc := screen.Resolve(screens, screenName)
			model := a.tipBuilder(screens).
				GetCreateDefaultTipWindowUI(a.themes.Context().Name(), screenName)

			log.Debug().
				Str("screen", sc.DeviceName).
				Str("theme", currentPalette.Load().name).
				Int("elements", len(model.Elements)).
				Msg("Opening preview")
			newPreview(model, float64(sc.Width)).run(sc.Width, sc.Height)
			return nil
		},
	}
	cmd.Flags().StringVar(&screenName, "screen", "", "device name of the screen to lay out for (default: configured tip screen, else primary)")
	return cmd
}

func newDarkModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "darkmode",
		Short: "Run the scheduled dark-mode check once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(configPath, false)
			if err != nil {
				return err
			}
			dark, available := a.themes.ShouldBeDark(time.Now())
			if a.themes.HandleDarkMode() {
				a.save()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window:    %s\n", describeWindow(a.cfg.Style))
			fmt.Fprintf(out, "enabled:   %t\n", a.cfg.Style.IsAutoDarkMode)
			fmt.Fprintf(out, "available: %t\n", available)
			fmt.Fprintf(out, "in window: %t\n", dark)
			fmt.Fprintf(out, "theme:     %s\n", a.themes.Context().Name())
			return nil
		},
	}
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the themes in the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(configPath, false)
			if err != nil {
				return err
			}
			active := a.themes.Context().Name()
			out := cmd.OutOrStdout()
			for _, t := range a.catalog {
				marker := " "
				if t.Name == active {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-12s bg=%s fg=%s accent=%s\n", marker, t.Name, t.Background, t.Foreground, t.Accent)
			}
			return nil
		},
	}
}
