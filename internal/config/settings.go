package config

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

type setter func(c *Config, value string) error

// setters maps persisted setting keys, named after their YAML paths, to
// the field they override. store.path is absent: the store is opened before
// overrides are read.
var setters = map[string]setter{
	"camera.device":          intField(func(c *Config) *int { return &c.Camera.Device }),
	"camera.width":           intField(func(c *Config) *int { return &c.Camera.Width }),
	"camera.height":          intField(func(c *Config) *int { return &c.Camera.Height }),
	"camera.fps":             intField(func(c *Config) *int { return &c.Camera.FPS }),
	"camera.mirror":          boolField(func(c *Config) *bool { return &c.Camera.Mirror }),
	"detector.max-hands":     intField(func(c *Config) *int { return &c.Detector.MaxHands }),
	"detector.min-detection": floatField(func(c *Config) *float64 { return &c.Detector.MinDetection }),
	"detector.min-tracking":  floatField(func(c *Config) *float64 { return &c.Detector.MinTracking }),
	"detector.script":        stringField(func(c *Config) *string { return &c.Detector.Script }),
	"game.hover-time":        durationField(func(c *Config) *time.Duration { return &c.Game.HoverTime }),
	"motion.enabled":         boolField(func(c *Config) *bool { return &c.Motion.Enabled }),
	"motion.threshold":       floatField(func(c *Config) *float64 { return &c.Motion.Threshold }),
	"render.mode":            stringField(func(c *Config) *string { return &c.Render.Mode }),
	"render.title":           stringField(func(c *Config) *string { return &c.Render.Title }),
	"render.tray":            boolField(func(c *Config) *bool { return &c.Render.Tray }),
	"server.addr":            stringField(func(c *Config) *string { return &c.Server.Addr }),
	"server.static-dir":      stringField(func(c *Config) *string { return &c.Server.StaticDir }),
	"hooks.dir":              stringField(func(c *Config) *string { return &c.Hooks.Dir }),
	"hooks.timeout":          durationField(func(c *Config) *time.Duration { return &c.Hooks.Timeout }),
	"log.level":              stringField(func(c *Config) *string { return &c.Log.Level }),
	"log.format":             stringField(func(c *Config) *string { return &c.Log.Format }),
}

// Keys returns every key accepted by Set and ApplySettings, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set overrides one field by its setting key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if err := set(c, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// ApplySettings overrides fields from persisted key/value pairs. Keys are
// applied in sorted order and the first failure stops the process.
func (c *Config) ApplySettings(settings map[string]string) error {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := c.Set(k, settings[k]); err != nil {
			return err
		}
	}
	return c.expand()
}

func intField(field func(*Config) *int) setter {
	return func(c *Config, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func floatField(field func(*Config) *float64) setter {
	return func(c *Config, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func boolField(field func(*Config) *bool) setter {
	return func(c *Config, value string) error {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func durationField(field func(*Config) *time.Duration) setter {
	return func(c *Config, value string) error {
		v, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func stringField(field func(*Config) *string) setter {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}
