package data

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewDuckDBRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndGetImage(t *testing.T) {
	repo := setupTestDB(t)

	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	img := &CachedImage{
		Name:      "charizard",
		Path:      "/cache/charizard.png",
		SourceURL: "http://x/img.png",
		Size:      1234,
		FetchedAt: fetchedAt,
	}
	require.NoError(t, repo.SaveImage(img))

	got, err := repo.GetImage("charizard")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, img.Path, got.Path)
	assert.Equal(t, img.SourceURL, got.SourceURL)
	assert.Equal(t, img.Size, got.Size)
	assert.True(t, fetchedAt.Equal(got.FetchedAt.UTC()), "fetched_at = %v", got.FetchedAt)
}

func TestGetNonExistentImage(t *testing.T) {
	repo := setupTestDB(t)

	img, err := repo.GetImage("missingno")
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestSaveImageUpsert(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SaveImage(&CachedImage{Name: "eevee", Path: "/old/eevee.png", Size: 1}))
	require.NoError(t, repo.SaveImage(&CachedImage{Name: "eevee", Path: "/new/eevee.png", Size: 2}))

	images, err := repo.ListImages()
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "/new/eevee.png", images[0].Path)
	assert.Equal(t, int64(2), images[0].Size)
}

func TestSaveImageNil(t *testing.T) {
	repo := setupTestDB(t)
	assert.Error(t, repo.SaveImage(nil))
}

func TestListImagesOrderedByName(t *testing.T) {
	repo := setupTestDB(t)

	for _, name := range []string{"pikachu", "bulbasaur", "eevee"} {
		require.NoError(t, repo.SaveImage(&CachedImage{Name: name, Path: "/cache/" + name + ".png"}))
	}

	images, err := repo.ListImages()
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, "bulbasaur", images[0].Name)
	assert.Equal(t, "eevee", images[1].Name)
	assert.Equal(t, "pikachu", images[2].Name)
}

func TestDeleteImage(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SaveImage(&CachedImage{Name: "eevee", Path: "/cache/eevee.png"}))
	require.NoError(t, repo.DeleteImage("eevee"))

	img, err := repo.GetImage("eevee")
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestRecordAndListFetches(t *testing.T) {
	repo := setupTestDB(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := &FetchRecord{
			ID:        fmt.Sprintf("id-%d", i),
			Name:      "pikachu",
			Outcome:   OutcomeMiss,
			Duration:  time.Duration(i) * time.Millisecond,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i == 4 {
			rec.Outcome = OutcomeError
			rec.Error = "catalog unreachable"
		}
		require.NoError(t, repo.RecordFetch(rec))
	}

	recent, err := repo.ListFetches(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "id-4", recent[0].ID)
	assert.Equal(t, OutcomeError, recent[0].Outcome)
	assert.Equal(t, "catalog unreachable", recent[0].Error)
	assert.Equal(t, 4*time.Millisecond, recent[0].Duration)
	assert.Equal(t, "id-3", recent[1].ID)

	all, err := repo.ListFetches(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRecordFetchValidation(t *testing.T) {
	repo := setupTestDB(t)

	assert.Error(t, repo.RecordFetch(nil))
	assert.Error(t, repo.RecordFetch(&FetchRecord{Name: "pikachu"}))
}

func TestFetchStats(t *testing.T) {
	repo := setupTestDB(t)

	outcomes := []string{OutcomeHit, OutcomeHit, OutcomeMiss, OutcomeError}
	for i, outcome := range outcomes {
		require.NoError(t, repo.RecordFetch(&FetchRecord{ID: fmt.Sprintf("id-%d", i), Name: "eevee", Outcome: outcome}))
	}

	stats, err := repo.FetchStats()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{OutcomeHit: 2, OutcomeMiss: 1, OutcomeError: 1}, stats)
}
