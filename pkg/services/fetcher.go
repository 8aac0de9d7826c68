package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"
	"github.com/kerbaras/pokewall/pkg/data"
	"github.com/kerbaras/pokewall/pkg/sources"
	"github.com/kerbaras/pokewall/pkg/utils"
)

// DefaultCacheDir is used when a Fetcher is built without a cache directory.
const DefaultCacheDir = "images"

// ErrDownloadFailed wraps a failed artwork download.
var ErrDownloadFailed = errors.New("artwork download failed")

// FetchProgress reports the state of one FetchImage call.
type FetchProgress struct {
	Name       string
	Status     string // "checking", "metadata", "downloading", "complete", "error"
	BytesRead  int64
	TotalBytes int64 // -1 when the server sent no length
	Cached     bool
	Error      error
}

// Recorder receives the cache index and fetch history. Both calls are best effort.
type Recorder interface {
	SaveImage(img *data.CachedImage) error
	RecordFetch(rec *data.FetchRecord) error
}

// Fetcher resolves entry names to local artwork files, downloading on a cache miss.
// A file already present in the cache directory is returned without any network call,
// however old it is.
type Fetcher struct {
	catalog  sources.Catalog
	recorder Recorder
	cacheDir string
	api      *utils.API
	logger   log.Logger

	mu           sync.Mutex
	closed       bool
	progressChan chan FetchProgress
}

type FetcherOption func(*Fetcher)

// WithDownloadAPI replaces the client used for artwork downloads.
func WithDownloadAPI(api *utils.API) FetcherOption {
	return func(f *Fetcher) { f.api = api }
}

// WithLogger sets the fetcher's logger.
func WithLogger(logger log.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = log.With(logger, "component", "fetcher") }
}

// NewFetcher creates a Fetcher storing artwork under cacheDir. recorder may be nil.
func NewFetcher(catalog sources.Catalog, recorder Recorder, cacheDir string, opts ...FetcherOption) *Fetcher {
	if strings.TrimSpace(cacheDir) == "" {
		cacheDir = DefaultCacheDir
	}
	api, _ := utils.NewAPI("")
	f := &Fetcher{
		catalog:      catalog,
		recorder:     recorder,
		cacheDir:     cacheDir,
		api:          api,
		logger:       log.NewNopLogger(),
		progressChan: make(chan FetchProgress, 100),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CacheDir returns the directory artwork is stored in.
func (f *Fetcher) CacheDir() string {
	return f.cacheDir
}

// GetProgressChannel returns the channel for receiving fetch progress updates
func (f *Fetcher) GetProgressChannel() <-chan FetchProgress {
	return f.progressChan
}

// PathFor returns where the artwork for name is, or would be, cached.
func (f *Fetcher) PathFor(name string) string {
	return filepath.Join(f.cacheDir, name+".png")
}

// CachedPath reports whether artwork for name is on disk, without touching the network.
func (f *Fetcher) CachedPath(name string) (string, bool) {
	key, err := sources.ValidateName(name)
	if err != nil {
		return "", false
	}
	path := f.PathFor(key)
	return path, fileExists(path)
}

// CachedNames lists the entries with artwork on disk, sorted.
func (f *Fetcher) CachedNames() ([]string, error) {
	entries, err := os.ReadDir(f.cacheDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".png" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".png"))
	}
	sort.Strings(names)
	return names, nil
}

// FetchImage returns the local path of the artwork for name.
//
// On a cache miss it looks up the entry's metadata, extracts the official artwork URL and
// downloads it. Errors wrap sources.ErrEntryNotFound, sources.ErrCatalogUnreachable,
// sources.ErrArtworkUnavailable or ErrDownloadFailed; no cache file is left behind on failure.
func (f *Fetcher) FetchImage(ctx context.Context, name string) (path string, err error) {
	key, err := sources.ValidateName(name)
	if err != nil {
		return "", err
	}

	begin := time.Now()
	outcome := data.OutcomeMiss
	defer func() {
		if err != nil {
			outcome = data.OutcomeError
			f.sendProgress(FetchProgress{Name: key, Status: "error", Error: err})
		}
		f.recordFetch(key, outcome, err, time.Since(begin))
	}()

	f.sendProgress(FetchProgress{Name: key, Status: "checking"})

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	candidate := f.PathFor(key)
	if fileExists(candidate) {
		outcome = data.OutcomeHit
		level.Debug(f.logger).Log("name", key, "cache", "hit", "path", candidate)
		f.sendProgress(FetchProgress{Name: key, Status: "complete", Cached: true})
		return candidate, nil
	}

	f.sendProgress(FetchProgress{Name: key, Status: "metadata"})
	meta, err := f.catalog.GetEntryMetadata(ctx, key)
	if err != nil {
		return "", err
	}

	artworkURL, err := meta.ArtworkURL()
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}

	size, err := f.download(ctx, key, artworkURL, candidate)
	if err != nil {
		return "", err
	}

	level.Info(f.logger).Log("name", key, "cache", "miss", "entry", meta.Name(), "id", meta.ID(), "path", candidate, "bytes", size)
	f.saveImage(&data.CachedImage{
		Name:      key,
		Path:      candidate,
		SourceURL: artworkURL,
		Size:      size,
		FetchedAt: time.Now().UTC(),
	})
	f.sendProgress(FetchProgress{Name: key, Status: "complete", BytesRead: size, TotalBytes: size})
	return candidate, nil
}

// download streams artworkURL into a temp file next to dst and renames it into place.
func (f *Fetcher) download(ctx context.Context, name, artworkURL, dst string) (int64, error) {
	resp, err := f.api.Open(ctx, artworkURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrDownloadFailed, name, err)
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(f.cacheDir, name+"-*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	reader := &progressReader{
		r:     resp.Body,
		total: resp.ContentLength,
		report: func(read, total int64) {
			f.sendProgress(FetchProgress{Name: name, Status: "downloading", BytesRead: read, TotalBytes: total})
		},
	}

	size, err := io.Copy(tmp, reader)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("%w: %s: read body: %w", ErrDownloadFailed, name, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("failed to move artwork into cache: %w", err)
	}
	return size, nil
}

func (f *Fetcher) saveImage(img *data.CachedImage) {
	if f.recorder == nil {
		return
	}
	if err := f.recorder.SaveImage(img); err != nil {
		level.Warn(f.logger).Log("name", img.Name, "msg", "failed to index cached image", "err", err)
	}
}

func (f *Fetcher) recordFetch(name, outcome string, fetchErr error, took time.Duration) {
	if f.recorder == nil {
		return
	}
	id, err := uuid.NewV7()
	if err != nil {
		level.Warn(f.logger).Log("msg", "failed to generate fetch id", "err", err)
		return
	}
	rec := &data.FetchRecord{
		ID:        id.String(),
		Name:      name,
		Outcome:   outcome,
		Duration:  took,
		CreatedAt: time.Now().UTC(),
	}
	if fetchErr != nil {
		rec.Error = fetchErr.Error()
	}
	if err := f.recorder.RecordFetch(rec); err != nil {
		level.Warn(f.logger).Log("name", name, "msg", "failed to record fetch", "err", err)
	}
}

// sendProgress sends a progress update (non-blocking)
func (f *Fetcher) sendProgress(progress FetchProgress) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.progressChan <- progress:
	default:
		// Channel full, skip this update
	}
}

// Close closes the progress channel. FetchImage keeps working afterwards without reporting.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.progressChan)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

type progressReader struct {
	r      io.Reader
	read   int64
	total  int64
	report func(read, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if n > 0 && p.report != nil {
		p.report(p.read, p.total)
	}
	return n, err
}
