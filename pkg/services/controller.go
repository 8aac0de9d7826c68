package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/kerbaras/pokewall/pkg/config"
	"github.com/kerbaras/pokewall/pkg/data"
	"github.com/kerbaras/pokewall/pkg/integrations"
	"github.com/kerbaras/pokewall/pkg/sources"
	"github.com/kerbaras/pokewall/pkg/utils"
)

const albumTitle = "Pokewall Album"

// Repository is the persistence the controller reads history and the cache index from.
type Repository interface {
	Recorder
	GetImage(name string) (*data.CachedImage, error)
	ListImages() ([]*data.CachedImage, error)
	DeleteImage(name string) error
	ListFetches(limit int) ([]*data.FetchRecord, error)
	FetchStats() (map[string]int, error)
	Close() error
}

// Converter turns a cached PNG into a wallpaper-ready JPEG.
type Converter interface {
	ToJPEG(src, dst string) error
}

// AlbumExporter writes an album of artwork to outputPath.
type AlbumExporter interface {
	Build(title string, entries []integrations.AlbumEntry, outputPath string) (string, error)
}

// Controller ties the catalog, the image cache and the desktop integrations together
// for the CLI and the TUI.
type Controller struct {
	catalog   sources.Catalog
	fetcher   *Fetcher
	repo      Repository
	converter Converter
	setter    integrations.WallpaperSetter
	album     AlbumExporter
	logger    log.Logger
}

// NewController wires the production dependencies described by cfg.
func NewController(cfg config.Config, logger log.Logger) (*Controller, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	httpOpts := []utils.Option{
		utils.WithTimeout(timeout),
		utils.WithRetries(cfg.HTTP.Retries, time.Second),
	}

	pokeapi, err := sources.NewPokeAPI(cfg.Catalog.BaseURL, cfg.Catalog.Limit, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}
	downloads, err := utils.NewAPI("", httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create download client: %w", err)
	}

	repo, err := data.NewDuckDBRepository(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	settings, err := WallpaperSettings(cfg.Wallpaper)
	if err != nil {
		repo.Close()
		return nil, err
	}

	catalog := sources.WithLogging(pokeapi, logger)
	fetcher := NewFetcher(catalog, repo, cfg.Cache.Dir, WithDownloadAPI(downloads), WithLogger(logger))

	return &Controller{
		catalog:   catalog,
		fetcher:   fetcher,
		repo:      repo,
		converter: integrations.NewImageConverter(settings),
		setter:    integrations.NewWallpaperSetter(),
		album:     integrations.NewAlbumBuilder(),
		logger:    log.With(logger, "component", "controller"),
	}, nil
}

// WallpaperSettings maps the wallpaper config section onto converter settings.
func WallpaperSettings(cfg config.WallpaperConfig) (integrations.ConversionSettings, error) {
	settings := integrations.DefaultConversionSettings()
	settings.Quality = cfg.Quality
	settings.MaxWidth = cfg.MaxWidth
	settings.MaxHeight = cfg.MaxHeight
	background, err := integrations.ParseHexColor(cfg.Background)
	if err != nil {
		return settings, fmt.Errorf("invalid wallpaper.background: %w", err)
	}
	settings.Background = background
	return settings, nil
}

// CacheDir returns the directory artwork is cached in.
func (c *Controller) CacheDir() string {
	return c.fetcher.CacheDir()
}

// Progress streams fetch progress events until Close.
func (c *Controller) Progress() <-chan FetchProgress {
	return c.fetcher.GetProgressChannel()
}

// ListEntries returns the display names of every catalog entry.
func (c *Controller) ListEntries(ctx context.Context) ([]string, error) {
	return c.catalog.ListEntries(ctx)
}

// FetchImage returns the cached artwork path for name, downloading it on a miss.
func (c *Controller) FetchImage(ctx context.Context, name string) (string, error) {
	return c.fetcher.FetchImage(ctx, name)
}

// WithConverter replaces the converter, used by the CLI to apply a screen preset.
func (c *Controller) WithConverter(converter Converter) *Controller {
	c.converter = converter
	return c
}

// SetWallpaper applies the image at path as the desktop background.
// Anything that is not already a JPEG is converted next to the source first.
// It returns the absolute path handed to the OS.
func (c *Controller) SetWallpaper(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target := path
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".jpg" && ext != ".jpeg" {
		target = strings.TrimSuffix(path, filepath.Ext(path)) + ".jpg"
		if err := c.converter.ToJPEG(path, target); err != nil {
			return "", err
		}
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", target, err)
	}

	if err := c.setter.Set(abs); err != nil {
		return "", err
	}
	level.Info(c.logger).Log("msg", "wallpaper set", "path", abs)
	return abs, nil
}

// CachedImages returns the indexed images whose files are still on disk,
// plus unindexed files found in the cache directory.
func (c *Controller) CachedImages() ([]*data.CachedImage, error) {
	indexed, err := c.repo.ListImages()
	if err != nil {
		return nil, fmt.Errorf("failed to list cached images: %w", err)
	}

	seen := make(map[string]bool, len(indexed))
	images := make([]*data.CachedImage, 0, len(indexed))
	for _, img := range indexed {
		if !fileExists(img.Path) {
			continue
		}
		seen[img.Name] = true
		images = append(images, img)
	}

	names, err := c.fetcher.CachedNames()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if seen[name] {
			continue
		}
		img := &data.CachedImage{Name: name, Path: c.fetcher.PathFor(name)}
		if info, err := os.Stat(img.Path); err == nil {
			img.Size = info.Size()
			img.FetchedAt = info.ModTime().UTC()
		}
		images = append(images, img)
	}

	sortImages(images)
	return images, nil
}

// CachedImage returns what is known about name's artwork when it is already on disk,
// and nil when fetching it would need the network.
func (c *Controller) CachedImage(name string) (*data.CachedImage, error) {
	path, ok := c.fetcher.CachedPath(name)
	if !ok {
		return nil, nil
	}
	key := sources.Normalize(name)
	img, err := c.repo.GetImage(key)
	if err != nil {
		return nil, err
	}
	if img == nil {
		img = &data.CachedImage{Name: key, Path: path}
	}
	if info, err := os.Stat(path); err == nil {
		img.Size = info.Size()
		if img.FetchedAt.IsZero() {
			img.FetchedAt = info.ModTime().UTC()
		}
	}
	return img, nil
}

// PruneIndex drops index rows whose artwork file no longer exists and returns how many went.
func (c *Controller) PruneIndex() (int, error) {
	indexed, err := c.repo.ListImages()
	if err != nil {
		return 0, fmt.Errorf("failed to list cached images: %w", err)
	}

	pruned := 0
	for _, img := range indexed {
		if fileExists(img.Path) {
			continue
		}
		if err := c.repo.DeleteImage(img.Name); err != nil {
			return pruned, err
		}
		level.Debug(c.logger).Log("msg", "pruned index row", "name", img.Name, "path", img.Path)
		pruned++
	}
	return pruned, nil
}

// History returns the most recent fetch records, newest first.
func (c *Controller) History(limit int) ([]*data.FetchRecord, error) {
	records, err := c.repo.ListFetches(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch history: %w", err)
	}
	return records, nil
}

// FetchStats counts recorded fetches per outcome.
func (c *Controller) FetchStats() (map[string]int, error) {
	stats, err := c.repo.FetchStats()
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch stats: %w", err)
	}
	return stats, nil
}

// ExportAlbum writes an EPUB with one page per cached image.
func (c *Controller) ExportAlbum(ctx context.Context, outPath string) (string, error) {
	images, err := c.CachedImages()
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no cached images to export")
	}

	entries := make([]integrations.AlbumEntry, 0, len(images))
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		entries = append(entries, integrations.AlbumEntry{
			Title: sources.Capitalize(img.Name),
			Path:  img.Path,
		})
	}

	path, err := c.album.Build(albumTitle, entries, outPath)
	if err != nil {
		return "", err
	}
	level.Info(c.logger).Log("msg", "album exported", "path", path, "pages", len(entries))
	return path, nil
}

// Close releases the fetcher's progress channel and the database.
func (c *Controller) Close() error {
	if c.fetcher != nil {
		c.fetcher.Close()
	}
	if c.repo != nil {
		return c.repo.Close()
	}
	return nil
}

func sortImages(images []*data.CachedImage) {
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
}
