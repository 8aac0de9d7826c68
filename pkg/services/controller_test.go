package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/kerbaras/pokewall/pkg/config"
	"github.com/kerbaras/pokewall/pkg/data"
	"github.com/kerbaras/pokewall/pkg/integrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*Controller, *mockRepository, string) {
	t.Helper()
	dir := t.TempDir()
	repo := &mockRepository{}
	return &Controller{
		catalog:   &mockCatalog{},
		fetcher:   NewFetcher(&mockCatalog{}, repo, dir),
		repo:      repo,
		converter: &mockConverter{},
		setter:    &mockSetter{},
		album:     &mockAlbum{},
		logger:    log.NewNopLogger(),
	}, repo, dir
}

func TestNewController(t *testing.T) {
	home := t.TempDir()
	cfg := config.Default()
	cfg.Data.Dir = filepath.Join(home, "data")
	cfg = cfg.WithCacheDir(filepath.Join(home, "images"))

	controller, err := NewController(cfg, nil)
	require.NoError(t, err)
	defer controller.Close()

	assert.NotNil(t, controller.catalog)
	assert.NotNil(t, controller.repo)
	assert.NotNil(t, controller.setter)
	assert.Equal(t, cfg.Cache.Dir, controller.CacheDir())
	assert.FileExists(t, cfg.DatabasePath())
}

func TestNewController_InvalidBackground(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()
	cfg.Wallpaper.Background = "teal"

	_, err := NewController(cfg, log.NewNopLogger())
	assert.Error(t, err)
}

func TestController_ListEntries(t *testing.T) {
	controller, _, _ := newTestController(t)
	controller.catalog = &mockCatalog{
		listFunc: func(ctx context.Context) ([]string, error) {
			return []string{"Bulbasaur", "Ivysaur"}, nil
		},
	}

	names, err := controller.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bulbasaur", "Ivysaur"}, names)
}

func TestController_SetWallpaper(t *testing.T) {
	t.Run("png is converted next to the source", func(t *testing.T) {
		controller, _, dir := newTestController(t)
		src := filepath.Join(dir, "charizard.png")

		var gotSrc, gotDst string
		controller.converter = &mockConverter{toJPEGFunc: func(src, dst string) error {
			gotSrc, gotDst = src, dst
			return nil
		}}
		setter := &mockSetter{}
		controller.setter = setter

		applied, err := controller.SetWallpaper(context.Background(), src)
		require.NoError(t, err)

		want := filepath.Join(dir, "charizard.jpg")
		assert.Equal(t, src, gotSrc)
		assert.Equal(t, want, gotDst)
		assert.Equal(t, want, applied)
		assert.Equal(t, []string{want}, setter.paths)
	})

	t.Run("jpeg is applied as is and made absolute", func(t *testing.T) {
		controller, _, _ := newTestController(t)
		controller.converter = &mockConverter{toJPEGFunc: func(src, dst string) error {
			t.Fatal("converter must not run for a jpeg")
			return nil
		}}

		applied, err := controller.SetWallpaper(context.Background(), "images/eevee.JPG")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(applied))
		assert.Equal(t, "eevee.JPG", filepath.Base(applied))
	})

	t.Run("conversion failure", func(t *testing.T) {
		controller, _, dir := newTestController(t)
		setter := &mockSetter{}
		controller.setter = setter
		controller.converter = &mockConverter{toJPEGFunc: func(src, dst string) error {
			return integrations.ErrImageConversion
		}}

		applied, err := controller.SetWallpaper(context.Background(), filepath.Join(dir, "x.png"))
		assert.Empty(t, applied)
		assert.ErrorIs(t, err, integrations.ErrImageConversion)
		assert.Empty(t, setter.paths)
	})

	t.Run("os refuses", func(t *testing.T) {
		controller, _, dir := newTestController(t)
		controller.setter = &mockSetter{setFunc: func(string) error {
			return integrations.ErrWallpaperSet
		}}

		_, err := controller.SetWallpaper(context.Background(), filepath.Join(dir, "x.png"))
		assert.ErrorIs(t, err, integrations.ErrWallpaperSet)
	})

	t.Run("cancelled context", func(t *testing.T) {
		controller, _, _ := newTestController(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := controller.SetWallpaper(ctx, "x.png")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestController_CachedImages(t *testing.T) {
	controller, repo, dir := newTestController(t)

	indexed := filepath.Join(dir, "pikachu.png")
	require.NoError(t, os.WriteFile(indexed, []byte("pika"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abra.png"), []byte("abra!"), 0o644))

	repo.images = []*data.CachedImage{
		{Name: "pikachu", Path: indexed, SourceURL: "https://example.test/25.png", Size: 4},
		{Name: "ghost", Path: filepath.Join(dir, "ghost.png")},
	}

	images, err := controller.CachedImages()
	require.NoError(t, err)
	require.Len(t, images, 2)

	assert.Equal(t, "abra", images[0].Name)
	assert.Equal(t, int64(5), images[0].Size)
	assert.Empty(t, images[0].SourceURL)

	assert.Equal(t, "pikachu", images[1].Name)
	assert.Equal(t, "https://example.test/25.png", images[1].SourceURL)
}

func TestController_CachedImagesRepositoryError(t *testing.T) {
	controller, repo, _ := newTestController(t)
	repo.listImagesErr = errors.New("boom")

	_, err := controller.CachedImages()
	assert.Error(t, err)
}

func TestController_History(t *testing.T) {
	controller, repo, _ := newTestController(t)
	now := time.Now()
	repo.fetches = []*data.FetchRecord{
		{ID: "b", Name: "eevee", Outcome: data.OutcomeHit, CreatedAt: now},
		{ID: "a", Name: "eevee", Outcome: data.OutcomeMiss, CreatedAt: now.Add(-time.Minute)},
	}

	records, err := controller.History(1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ID)

	repo.listFetchesErr = errors.New("boom")
	_, err = controller.History(10)
	assert.Error(t, err)
}

func TestController_CachedImage(t *testing.T) {
	controller, repo, dir := newTestController(t)

	indexed := filepath.Join(dir, "charizard.png")
	require.NoError(t, os.WriteFile(indexed, []byte("char"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abra.png"), []byte("abra!"), 0o644))
	repo.images = []*data.CachedImage{
		{Name: "charizard", Path: indexed, SourceURL: "https://example.test/6.png", Size: 4},
	}

	img, err := controller.CachedImage("Charizard")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "https://example.test/6.png", img.SourceURL)

	img, err = controller.CachedImage("abra")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, filepath.Join(dir, "abra.png"), img.Path)
	assert.Equal(t, int64(5), img.Size)
	assert.False(t, img.FetchedAt.IsZero())

	img, err = controller.CachedImage("pikachu")
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestController_PruneIndex(t *testing.T) {
	controller, repo, dir := newTestController(t)

	kept := filepath.Join(dir, "eevee.png")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0o644))
	repo.images = []*data.CachedImage{
		{Name: "eevee", Path: kept},
		{Name: "ghost", Path: filepath.Join(dir, "ghost.png")},
		{Name: "gone", Path: filepath.Join(dir, "gone.png")},
	}

	pruned, err := controller.PruneIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)
	assert.Equal(t, []string{"ghost", "gone"}, repo.deleted)
	require.Len(t, repo.images, 1)
	assert.Equal(t, "eevee", repo.images[0].Name)

	pruned, err = controller.PruneIndex()
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestController_PruneIndexDeleteError(t *testing.T) {
	controller, repo, dir := newTestController(t)
	repo.images = []*data.CachedImage{{Name: "ghost", Path: filepath.Join(dir, "ghost.png")}}
	repo.deleteErr = errors.New("boom")

	pruned, err := controller.PruneIndex()
	assert.Error(t, err)
	assert.Zero(t, pruned)
}

func TestController_FetchStats(t *testing.T) {
	controller, repo, _ := newTestController(t)
	repo.fetches = []*data.FetchRecord{
		{Name: "eevee", Outcome: data.OutcomeMiss},
		{Name: "eevee", Outcome: data.OutcomeHit},
		{Name: "eevee", Outcome: data.OutcomeHit},
		{Name: "missingno", Outcome: data.OutcomeError},
	}

	stats, err := controller.FetchStats()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{data.OutcomeHit: 2, data.OutcomeMiss: 1, data.OutcomeError: 1}, stats)

	repo.statsErr = errors.New("boom")
	_, err = controller.FetchStats()
	assert.Error(t, err)
}

func TestController_ExportAlbum(t *testing.T) {
	controller, _, dir := newTestController(t)
	for _, name := range []string{"mr-mime", "eevee"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".png"), []byte("x"), 0o644))
	}

	var gotTitle string
	var gotEntries []integrations.AlbumEntry
	controller.album = &mockAlbum{buildFunc: func(title string, entries []integrations.AlbumEntry, out string) (string, error) {
		gotTitle, gotEntries = title, entries
		return out, nil
	}}

	out := filepath.Join(dir, "album.epub")
	path, err := controller.ExportAlbum(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, out, path)
	assert.Equal(t, albumTitle, gotTitle)
	assert.Equal(t, []integrations.AlbumEntry{
		{Title: "Eevee", Path: filepath.Join(dir, "eevee.png")},
		{Title: "Mr-mime", Path: filepath.Join(dir, "mr-mime.png")},
	}, gotEntries)
}

func TestController_ExportAlbumEmptyCache(t *testing.T) {
	controller, _, dir := newTestController(t)
	_, err := controller.ExportAlbum(context.Background(), filepath.Join(dir, "album.epub"))
	assert.Error(t, err)
}

func TestController_Close(t *testing.T) {
	controller, repo, _ := newTestController(t)
	require.NoError(t, controller.Close())
	assert.True(t, repo.closed)

	_, open := <-controller.Progress()
	assert.False(t, open)
}
