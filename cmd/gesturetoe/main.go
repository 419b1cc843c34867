package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ayusman/gesturetoe/internal/app"
	"github.com/ayusman/gesturetoe/internal/capture"
	"github.com/ayusman/gesturetoe/internal/config"
	"github.com/ayusman/gesturetoe/internal/detector"
	"github.com/ayusman/gesturetoe/internal/hook"
	"github.com/ayusman/gesturetoe/internal/render"
	"github.com/ayusman/gesturetoe/internal/server"
	"github.com/ayusman/gesturetoe/internal/store"
	"github.com/ayusman/gesturetoe/internal/tray"
)

// HighGUI and the system tray both need the main OS thread.
func init() {
	runtime.LockOSThread()
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (f *multiFlag) String() string { return strings.Join(*f, ",") }

func (f *multiFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		sets       multiFlag
		unsets     multiFlag
		list       bool
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML config file (default config.yml if present)")
	flag.Var(&sets, "set", "persist a setting override as key=value and exit (repeatable)")
	flag.Var(&unsets, "unset", "remove a persisted setting override and exit (repeatable)")
	flag.BoolVar(&list, "list", false, "print persisted overrides and known setting keys, then exit")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return 1
	}
	defer st.Close()

	settings := st.Settings()

	if len(sets) > 0 || len(unsets) > 0 {
		if err := persist(cfg, settings, sets, unsets); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	overrides, err := settings.Map()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read settings: %v\n", err)
		return 1
	}
	if list {
		printSettings(os.Stdout, overrides)
		return 0
	}
	if err := cfg.ApplySettings(overrides); err != nil {
		fmt.Fprintf(os.Stderr, "apply settings: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := setupLogging(cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log.Info().
		Str("store", st.Path()).
		Int("overrides", len(overrides)).
		Str("render", cfg.Render.Mode).
		Msg("gesturetoe starting")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appConfig := app.Config{
		Camera: capture.NewCamera(capture.Config{
			Device: cfg.Camera.Device,
			Width:  cfg.Camera.Width,
			Height: cfg.Camera.Height,
			FPS:    cfg.Camera.FPS,
			Mirror: cfg.Camera.Mirror,
		}),
		Detector:  newDetector(cfg.Detector),
		HoverTime: cfg.Game.HoverTime,
	}
	if cfg.Motion.Enabled {
		appConfig.Motion = capture.NewMotionDetector(cfg.Motion.Threshold)
	}
	if cfg.Render.Mode == config.RenderWindow {
		appConfig.Renderer = render.NewWindow(cfg.Render.Title)
	} else {
		appConfig.Renderer = render.NewTerminal(os.Stdout, true)
	}

	var url string
	if cfg.Server.Addr != "" {
		hub := server.NewHub()
		appConfig.Publisher = hub

		staticDir := cfg.Server.StaticDir
		if staticDir == "" {
			staticDir = findWebDir()
		}
		if staticDir != "" {
			log.Info().Str("dir", staticDir).Msg("serving static files")
		}
		url = boardURL(cfg.Server.Addr, staticDir != "")

		srv := server.New(server.Config{Hub: hub, StaticDir: staticDir})
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				log.Error().Err(err).Msg("http server failed")
			}
		}()
	}

	application, err := app.New(appConfig)
	if err != nil {
		log.Error().Err(err).Msg("failed to create app")
		return 1
	}

	var listeners []func(app.Event)
	if dispatcher := startHooks(ctx, cfg.Hooks); dispatcher != nil {
		defer dispatcher.Close()
		session := application.Session()
		listeners = append(listeners, func(e app.Event) {
			dispatcher.Handle(e, session.ID, session.GameID)
		})
	}

	var tr *tray.Tray
	if cfg.Render.Mode == config.RenderTerminal && cfg.Render.Tray {
		tr = newTray(cancel, application, url)
		listeners = append(listeners, func(e app.Event) {
			tr.SetLast(e.String())
			if e.Kind == app.EventModeChanged {
				tr.SetStatus("Mode: " + e.To.String())
			}
		})
	}

	application.OnEvent(func(e app.Event) {
		for _, fn := range listeners {
			fn(e)
		}
	})

	if tr != nil {
		err = runWithTray(ctx, cancel, application, tr)
	} else {
		err = application.Run(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("game loop failed")
		return 1
	}
	return 0
}

// startHooks loads event hooks and starts their worker. It returns nil when
// hooks are disabled or none are installed.
func startHooks(ctx context.Context, c config.Hooks) *hook.Dispatcher {
	if c.Dir == "" {
		return nil
	}

	hooks := hook.NewManager(c.Dir)
	if err := hooks.Discover(); err != nil {
		log.Warn().Err(err).Str("dir", c.Dir).Msg("failed to load event hooks")
		return nil
	}
	installed := hooks.List()
	if len(installed) == 0 {
		return nil
	}
	for _, h := range installed {
		log.Info().
			Str("hook", h.Manifest.Name).
			Strs("events", h.Manifest.Events).
			Msg("event hook loaded")
	}

	dispatcher := hook.NewDispatcher(hooks, hook.NewExecutor(c.Timeout), hook.DefaultQueueSize)
	dispatcher.Start(ctx)
	return dispatcher
}

func newTray(cancel context.CancelFunc, application *app.App, url string) *tray.Tray {
	tr := tray.New()
	tr.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
		log.Info().Bool("enabled", enabled).Msg("detection toggled")
	})
	tr.OnQuit(cancel)
	if url != "" {
		tr.OnOpen(func() { openBrowser(url) })
	}
	return tr
}

// runWithTray runs the frame loop in the background while the tray owns the
// main thread. Whichever finishes first stops the other.
func runWithTray(ctx context.Context, cancel context.CancelFunc, application *app.App, tr *tray.Tray) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Run(ctx)
		tr.Stop()
	}()

	tr.Run()
	cancel()
	return <-errCh
}

// persist validates and stores setting overrides, then removes unsets. New
// values are checked together with the overrides already stored.
func persist(cfg *config.Config, settings *store.SettingsRepository, sets, unsets []string) error {
	existing, err := settings.Map()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := cfg.ApplySettings(existing); err != nil {
		return err
	}

	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid -set %q: want key=value", kv)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := settings.Set(key, value); err != nil {
			return fmt.Errorf("persist %s: %w", key, err)
		}
		fmt.Printf("%s = %s\n", key, value)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	for _, key := range unsets {
		err := settings.Delete(key)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("%s was not set\n", key)
			continue
		}
		if err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		fmt.Printf("%s removed\n", key)
	}
	return nil
}

func printSettings(w io.Writer, overrides map[string]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, key := range config.Keys() {
		value, ok := overrides[key]
		if !ok {
			value = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, value)
	}
	tw.Flush()
}

func setupLogging(c config.Log) error {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if c.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

// newDetector starts with MediaPipe and falls back to a detector that never
// sees hands, so the board can still be shown.
func newDetector(c config.Detector) detector.Detector {
	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        c.MaxHands,
		MinConfidence:   c.MinDetection,
		MinTrackingConf: c.MinTracking,
		ScriptPath:      c.Script,
	})
	if err != nil {
		log.Warn().Err(err).Msg("mediapipe unavailable, no hands will be detected")
		return detector.NewMockDetector()
	}
	return det
}

// boardURL is the page the tray opens: the static viewer when one is
// served, otherwise the raw MJPEG stream.
func boardURL(addr string, static bool) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, "80"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	path := "/api/stream"
	if static {
		path = "/"
	}
	return "http://" + net.JoinHostPort(host, port) + path
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Error().Err(err).Str("url", url).Msg("failed to open browser")
		return
	}
	go cmd.Wait()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.gesturetoe/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".gesturetoe", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
