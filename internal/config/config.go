// Package config loads gesturetoe configuration from an optional YAML file,
// environment variables and persisted overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultPath is read when no config file is given and it exists.
const DefaultPath = "config.yml"

var (
	// ErrUnknownKey is returned for a setting key that maps to no field.
	ErrUnknownKey = errors.New("unknown setting")
	// ErrInvalid is returned when a loaded configuration fails validation.
	ErrInvalid = errors.New("invalid configuration")
)

// Render modes.
const (
	RenderWindow   = "window"
	RenderTerminal = "terminal"
)

type Config struct {
	Camera   Camera   `yaml:"camera"`
	Detector Detector `yaml:"detector"`
	Game     Game     `yaml:"game"`
	Motion   Motion   `yaml:"motion"`
	Render   Render   `yaml:"render"`
	Server   Server   `yaml:"server"`
	Store    Store    `yaml:"store"`
	Hooks    Hooks    `yaml:"hooks"`
	Log      Log      `yaml:"log"`
}

type Camera struct {
	Device int  `yaml:"device" env:"CAMERA_DEVICE" env-default:"0"`
	Width  int  `yaml:"width" env:"CAMERA_WIDTH" env-default:"640"`
	Height int  `yaml:"height" env:"CAMERA_HEIGHT" env-default:"480"`
	FPS    int  `yaml:"fps" env:"CAMERA_FPS" env-default:"15"`
	Mirror bool `yaml:"mirror" env:"CAMERA_MIRROR" env-default:"true"`
}

type Detector struct {
	MaxHands     int     `yaml:"max-hands" env:"DETECTOR_MAX_HANDS" env-default:"2"`
	MinDetection float64 `yaml:"min-detection" env:"DETECTOR_MIN_DETECTION" env-default:"0.8"`
	MinTracking  float64 `yaml:"min-tracking" env:"DETECTOR_MIN_TRACKING" env-default:"0.8"`
	// Script overrides the MediaPipe service script lookup.
	Script string `yaml:"script" env:"DETECTOR_SCRIPT"`
}

type Game struct {
	HoverTime time.Duration `yaml:"hover-time" env:"HOVER_TIME" env-default:"1.2s"`
}

type Motion struct {
	Enabled   bool    `yaml:"enabled" env:"MOTION_ENABLED" env-default:"false"`
	Threshold float64 `yaml:"threshold" env:"MOTION_THRESHOLD" env-default:"1.0"`
}

type Render struct {
	Mode  string `yaml:"mode" env:"RENDER_MODE" env-default:"window"`
	Title string `yaml:"title" env:"RENDER_TITLE" env-default:"Gesture Tic-Tac-Toe"`
	// Tray shows a system tray menu in terminal mode.
	Tray bool `yaml:"tray" env:"RENDER_TRAY" env-default:"false"`
}

type Server struct {
	// Addr is the HTTP listen address; empty disables the server.
	Addr      string `yaml:"addr" env:"SERVER_ADDR"`
	StaticDir string `yaml:"static-dir" env:"SERVER_STATIC_DIR"`
}

type Store struct {
	Path string `yaml:"path" env:"STORE_PATH" env-default:"~/.gesturetoe/gesturetoe.db"`
}

type Hooks struct {
	// Dir holds one subdirectory per event hook; empty disables hooks.
	Dir     string        `yaml:"dir" env:"HOOKS_DIR" env-default:"~/.gesturetoe/hooks"`
	Timeout time.Duration `yaml:"timeout" env:"HOOKS_TIMEOUT" env-default:"5s"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

// Load reads path (or DefaultPath when path is empty and the file exists),
// then environment variables, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := cfg.expand(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		problems = append(problems, "camera size must be positive")
	}
	if c.Detector.MaxHands < 1 || c.Detector.MaxHands > 2 {
		problems = append(problems, "detector.max-hands must be 1 or 2")
	}
	if !unit(c.Detector.MinDetection) || !unit(c.Detector.MinTracking) {
		problems = append(problems, "detector confidences must be within [0, 1]")
	}
	if c.Game.HoverTime <= 0 {
		problems = append(problems, "game.hover-time must be positive")
	}
	if c.Hooks.Timeout <= 0 {
		problems = append(problems, "hooks.timeout must be positive")
	}
	if c.Motion.Threshold <= 0 {
		problems = append(problems, "motion.threshold must be positive")
	}
	if c.Render.Mode != RenderWindow && c.Render.Mode != RenderTerminal {
		problems = append(problems, fmt.Sprintf("render.mode must be %q or %q", RenderWindow, RenderTerminal))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		problems = append(problems, `log.format must be "console" or "json"`)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// expand resolves a leading ~ in paths.
func (c *Config) expand() error {
	for _, p := range []*string{&c.Store.Path, &c.Hooks.Dir} {
		if !strings.HasPrefix(*p, "~") {
			continue
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		*p = filepath.Join(home, strings.TrimPrefix(*p, "~"))
	}
	return nil
}
