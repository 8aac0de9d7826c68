package integrations

import (
	"archive/zip"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbumBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	entries := []AlbumEntry{
		{Title: "Pikachu", Path: writeTestPNG(t, dir, "pikachu.png", 4, 4)},
		{Title: "Eevee", Path: writeTestPNG(t, dir, "eevee.png", 4, 4)},
	}
	out := filepath.Join(dir, "albums", "dex.epub")

	path, err := NewAlbumBuilder().Build("My Dex", entries, out)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	var images []string
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".png") {
			images = append(images, filepath.Base(f.Name))
		}
	}
	assert.ElementsMatch(t, []string{"001-Eevee.png", "002-Pikachu.png"}, images)
}

func TestAlbumBuilder_NoEntries(t *testing.T) {
	_, err := NewAlbumBuilder().Build("Empty", nil, filepath.Join(t.TempDir(), "empty.epub"))
	assert.Error(t, err)
}

func TestAlbumBuilder_MissingArtwork(t *testing.T) {
	dir := t.TempDir()
	entries := []AlbumEntry{{Title: "Ghost", Path: filepath.Join(dir, "ghost.png")}}

	_, err := NewAlbumBuilder().Build("Broken", entries, filepath.Join(dir, "broken.epub"))
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Mr_Mime", sanitizeFilename("Mr Mime"))
	assert.Equal(t, "Type__Null", sanitizeFilename("Type: Null"))
	assert.Equal(t, "a_b", sanitizeFilename("a/b"))
}
