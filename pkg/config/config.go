// Package config loads pokewall settings from a TOML file.
// Settings live in ~/.config/pokewall/config.toml; a missing file yields defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kerbaras/pokewall/pkg/sources"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds every tunable pokewall reads at startup.
type Config struct {
	Catalog   CatalogConfig   `toml:"catalog"`
	Cache     CacheConfig     `toml:"cache"`
	Data      DataConfig      `toml:"data"`
	HTTP      HTTPConfig      `toml:"http"`
	Wallpaper WallpaperConfig `toml:"wallpaper"`
}

type CatalogConfig struct {
	BaseURL string `toml:"base_url"`
	Limit   int    `toml:"limit"`
}

type CacheConfig struct {
	Dir string `toml:"dir"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type HTTPConfig struct {
	Timeout string `toml:"timeout"`
	Retries int    `toml:"retries"`
}

type WallpaperConfig struct {
	Quality    int    `toml:"quality"`
	MaxWidth   int    `toml:"max_width"`
	MaxHeight  int    `toml:"max_height"`
	Background string `toml:"background"`
}

const (
	defaultConfigPath = "~/.config/pokewall/config.toml"
	defaultCacheDir   = "~/.pokewall/images"
	defaultDataDir    = "~/.pokewall"
	defaultTimeout    = "30s"
	defaultRetries    = 2
	defaultQuality    = 90
	defaultBackground = "#FFFFFF"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Catalog:   CatalogConfig{BaseURL: sources.DefaultBaseURL, Limit: sources.DefaultLimit},
		Cache:     CacheConfig{Dir: mustExpand(defaultCacheDir)},
		Data:      DataConfig{Dir: mustExpand(defaultDataDir)},
		HTTP:      HTTPConfig{Timeout: defaultTimeout, Retries: defaultRetries},
		Wallpaper: WallpaperConfig{Quality: defaultQuality, Background: defaultBackground},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path, falling back to defaults for a missing file or unset keys.
func Load(path string) (Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	// keys absent from the file keep their defaults
	if err := toml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	bytes, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects values that would make the client or converter misbehave.
func (c Config) Validate() error {
	if c.Catalog.Limit <= 0 {
		return fmt.Errorf("catalog.limit must be positive, got %d", c.Catalog.Limit)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.HTTP.Retries < 0 {
		return fmt.Errorf("http.retries must not be negative, got %d", c.HTTP.Retries)
	}
	if c.Wallpaper.Quality < 1 || c.Wallpaper.Quality > 100 {
		return fmt.Errorf("wallpaper.quality must be within 1-100, got %d", c.Wallpaper.Quality)
	}
	if c.Wallpaper.MaxWidth < 0 || c.Wallpaper.MaxHeight < 0 {
		return fmt.Errorf("wallpaper dimensions must not be negative")
	}
	return nil
}

// Timeout parses the HTTP timeout.
func (c Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.HTTP.Timeout))
	if err != nil {
		return 0, fmt.Errorf("parse http.timeout %q: %w", c.HTTP.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("http.timeout must be positive, got %s", d)
	}
	return d, nil
}

// DatabasePath returns the DuckDB file holding the cache index and fetch history.
func (c Config) DatabasePath() string {
	return filepath.Join(c.Data.Dir, "pokewall.db")
}

// LogPath returns the file the TUI logs to.
func (c Config) LogPath() string {
	return filepath.Join(c.Data.Dir, "pokewall.log")
}

// WithCacheDir returns a copy of c with the cache directory replaced.
func (c Config) WithCacheDir(dir string) Config {
	if strings.TrimSpace(dir) != "" {
		c.Cache.Dir = mustExpand(dir)
	}
	return c
}

// normalize trims string values, restores defaults for blank ones and expands directories.
func (c *Config) normalize() {
	def := Default()
	c.Catalog.BaseURL = strings.TrimSpace(c.Catalog.BaseURL)
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = def.Catalog.BaseURL
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = def.Cache.Dir
	}
	c.Cache.Dir = mustExpand(c.Cache.Dir)
	if strings.TrimSpace(c.Data.Dir) == "" {
		c.Data.Dir = def.Data.Dir
	}
	c.Data.Dir = mustExpand(c.Data.Dir)
	if strings.TrimSpace(c.HTTP.Timeout) == "" {
		c.HTTP.Timeout = def.HTTP.Timeout
	}
	c.Wallpaper.Background = strings.TrimSpace(c.Wallpaper.Background)
	if c.Wallpaper.Background == "" {
		c.Wallpaper.Background = def.Wallpaper.Background
	}
}

// ResolvePath expands ~ in path; an empty path means the default location.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
