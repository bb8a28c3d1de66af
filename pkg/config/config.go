// Package config loads zenposter settings from a TOML file.
//
// Every key is optional; a missing key keeps its value from [Default].
// Unknown keys are rejected so typos surface instead of being ignored.
//
//	dpi = 300
//	workers = 4
//	watermark = "Zen & Calm · Printbelle"
//
//	[canvas]
//	width = 3200
//	height = 4000
//
//	[[sizes]]
//	name = "a4"
//	width_in = 8.27
//	height_in = 11.69
//
//	[palettes]
//	dusk = ["#F4F1EC", "#D9CBBE", "#B79E8B", "#8E735F", "#5F4B3E", "#2F2621"]
//
//	[fonts]
//	preferred = ["Inter.ttf"]
//
//	[cache]
//	backend = "file"
//	ttl = "168h"
//
//	[server]
//	addr = "127.0.0.1:8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/zenposter/pkg/cache"
	"github.com/matzehuels/zenposter/pkg/canvas"
	"github.com/matzehuels/zenposter/pkg/colors"
	"github.com/matzehuels/zenposter/pkg/errors"
	"github.com/matzehuels/zenposter/pkg/export"
	"github.com/matzehuels/zenposter/pkg/fonts"
)

// DefaultWatermark is drawn on previews unless configured otherwise.
const DefaultWatermark = "Zen & Calm · Printbelle"

// FileName is the config file looked up in the user config directory.
const FileName = "zenposter.toml"

// Config is the full set of file-level settings.
type Config struct {
	DPI       int    `toml:"dpi"`
	Workers   int    `toml:"workers"`
	Watermark string `toml:"watermark"`

	Canvas   CanvasConfig          `toml:"canvas"`
	Sizes    []export.PhysicalSize `toml:"sizes"`
	Palettes map[string][]string   `toml:"palettes"`
	Fonts    FontsConfig           `toml:"fonts"`
	Cache    CacheConfig           `toml:"cache"`
	Server   ServerConfig          `toml:"server"`
}

// CanvasConfig sets the working canvas size.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Size returns the canvas size.
func (c CanvasConfig) Size() canvas.Size { return canvas.Size{W: c.Width, H: c.Height} }

// FontsConfig lists font files tried before the built-in fallback.
type FontsConfig struct {
	Preferred []string `toml:"preferred"`
}

// CacheConfig selects the preview cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

// Options converts the section into cache.Open options.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{Backend: c.Backend, Dir: c.Dir, RedisURL: c.RedisURL}
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct{ time.Duration }

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DPI:       export.DefaultDPI,
		Workers:   2,
		Watermark: DefaultWatermark,
		Canvas:    CanvasConfig{Width: canvas.DefaultWidth, Height: canvas.DefaultHeight},
		Sizes:     append([]export.PhysicalSize(nil), export.DefaultSizes...),
		Fonts:     FontsConfig{Preferred: append([]string(nil), fonts.DefaultPreferred...)},
		Cache:     CacheConfig{Backend: cache.BackendFile, TTL: Duration{cache.TTLPreview}},
		Server:    ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath returns the config path in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "zenposter", FileName), nil
}

// Load reads path over the defaults and validates the result. A missing
// file at the default location is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML data over cfg. Only keys present in data replace
// values in cfg; a [[sizes]] list replaces the whole default list.
func Parse(data []byte, cfg *Config) error {
	var file Config
	md, err := toml.Decode(string(data), &file)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}

	setIf(md, &cfg.DPI, file.DPI, "dpi")
	setIf(md, &cfg.Workers, file.Workers, "workers")
	setIf(md, &cfg.Watermark, file.Watermark, "watermark")
	setIf(md, &cfg.Canvas.Width, file.Canvas.Width, "canvas", "width")
	setIf(md, &cfg.Canvas.Height, file.Canvas.Height, "canvas", "height")
	setIf(md, &cfg.Cache.Backend, file.Cache.Backend, "cache", "backend")
	setIf(md, &cfg.Cache.Dir, file.Cache.Dir, "cache", "dir")
	setIf(md, &cfg.Cache.RedisURL, file.Cache.RedisURL, "cache", "redis_url")
	setIf(md, &cfg.Cache.TTL, file.Cache.TTL, "cache", "ttl")
	setIf(md, &cfg.Server.Addr, file.Server.Addr, "server", "addr")
	setIf(md, &cfg.Sizes, file.Sizes, "sizes")
	setIf(md, &cfg.Fonts.Preferred, file.Fonts.Preferred, "fonts", "preferred")
	if len(file.Palettes) > 0 {
		if cfg.Palettes == nil {
			cfg.Palettes = make(map[string][]string, len(file.Palettes))
		}
		for name, hexes := range file.Palettes {
			cfg.Palettes[name] = hexes
		}
	}
	return nil
}

func setIf[T any](md toml.MetaData, dst *T, v T, key ...string) {
	if md.IsDefined(key...) {
		*dst = v
	}
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be positive, got %d", c.DPI)
	}
	if c.Workers <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be positive, got %d", c.Workers)
	}
	if err := c.Canvas.Size().Validate(); err != nil {
		return err
	}
	if len(c.Sizes) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one print size is required")
	}
	seen := make(map[string]bool, len(c.Sizes))
	for _, s := range c.Sizes {
		if err := s.Validate(); err != nil {
			return err
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate print size %q", s.Name)
		}
		seen[s.Name] = true
	}
	names := make([]string, 0, len(c.Palettes))
	for name := range c.Palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := colors.NewPalette(name, c.Palettes[name]...); err != nil {
			return err
		}
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Dir != "" {
		if err := errors.ValidateOutputDir(c.Cache.Dir); err != nil {
			return err
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	return nil
}

// String renders the config as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}
