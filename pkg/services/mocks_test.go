package services

import (
	"context"
	"sync"

	"github.com/kerbaras/pokewall/pkg/data"
	"github.com/kerbaras/pokewall/pkg/integrations"
	"github.com/kerbaras/pokewall/pkg/sources"
)

type mockCatalog struct {
	listFunc     func(ctx context.Context) ([]string, error)
	metadataFunc func(ctx context.Context, name string) (*sources.Metadata, error)
}

func (m *mockCatalog) ListEntries(ctx context.Context) ([]string, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []string{}, nil
}

func (m *mockCatalog) GetEntryMetadata(ctx context.Context, name string) (*sources.Metadata, error) {
	if m.metadataFunc != nil {
		return m.metadataFunc(ctx, name)
	}
	return nil, sources.ErrEntryNotFound
}

type mockRepository struct {
	mu      sync.Mutex
	images  []*data.CachedImage
	fetches []*data.FetchRecord

	listImagesErr  error
	listFetchesErr error
	statsErr       error
	deleteErr      error
	deleted        []string
	closed         bool
}

func (m *mockRepository) SaveImage(img *data.CachedImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = append(m.images, img)
	return nil
}

func (m *mockRepository) RecordFetch(rec *data.FetchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches = append(m.fetches, rec)
	return nil
}

func (m *mockRepository) ListImages() ([]*data.CachedImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.images, m.listImagesErr
}

func (m *mockRepository) GetImage(name string) (*data.CachedImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, img := range m.images {
		if img.Name == name {
			return img, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) DeleteImage(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, name)
	kept := m.images[:0]
	for _, img := range m.images {
		if img.Name != name {
			kept = append(kept, img)
		}
	}
	m.images = kept
	return nil
}

func (m *mockRepository) FetchStats() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	stats := make(map[string]int)
	for _, rec := range m.fetches {
		stats[rec.Outcome]++
	}
	return stats, nil
}

func (m *mockRepository) ListFetches(limit int) ([]*data.FetchRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listFetchesErr != nil {
		return nil, m.listFetchesErr
	}
	if limit > 0 && limit < len(m.fetches) {
		return m.fetches[:limit], nil
	}
	return m.fetches, nil
}

func (m *mockRepository) Close() error {
	m.closed = true
	return nil
}

func (m *mockRepository) outcomes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, rec := range m.fetches {
		out = append(out, rec.Outcome)
	}
	return out
}

type mockConverter struct {
	toJPEGFunc func(src, dst string) error
}

func (m *mockConverter) ToJPEG(src, dst string) error {
	if m.toJPEGFunc != nil {
		return m.toJPEGFunc(src, dst)
	}
	return nil
}

type mockSetter struct {
	setFunc func(path string) error
	paths   []string
}

func (m *mockSetter) Set(path string) error {
	m.paths = append(m.paths, path)
	if m.setFunc != nil {
		return m.setFunc(path)
	}
	return nil
}

type mockAlbum struct {
	buildFunc func(title string, entries []integrations.AlbumEntry, outputPath string) (string, error)
}

func (m *mockAlbum) Build(title string, entries []integrations.AlbumEntry, outputPath string) (string, error) {
	if m.buildFunc != nil {
		return m.buildFunc(title, entries, outputPath)
	}
	return outputPath, nil
}
