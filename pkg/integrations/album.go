package integrations

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-shiori/go-epub"
)

// AlbumEntry is one artwork page of an album.
type AlbumEntry struct {
	Title string
	Path  string
}

// AlbumBuilder compiles cached artwork into an EPUB picture book.
type AlbumBuilder struct {
	author string
}

func NewAlbumBuilder() *AlbumBuilder {
	return &AlbumBuilder{author: "PokeAPI"}
}

// Build writes an EPUB with one section per entry, sorted by title, to outputPath.
func (b *AlbumBuilder) Build(title string, entries []AlbumEntry, outputPath string) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("no artwork to compile")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	sorted := make([]AlbumEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Title < sorted[j].Title
	})

	e, err := epub.NewEpub(title)
	if err != nil {
		return "", fmt.Errorf("failed to create EPub: %w", err)
	}
	e.SetAuthor(b.author)
	e.SetDescription(fmt.Sprintf("%d official artworks", len(sorted)))
	e.SetLang("en")

	for i, entry := range sorted {
		if err := b.addPage(e, entry, i); err != nil {
			return "", fmt.Errorf("failed to add %s: %w", entry.Title, err)
		}
	}

	if err := e.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

func (b *AlbumBuilder) addPage(e *epub.Epub, entry AlbumEntry, index int) error {
	if _, err := os.Stat(entry.Path); err != nil {
		return fmt.Errorf("artwork missing: %w", err)
	}

	filename := fmt.Sprintf("%03d-%s%s", index+1, sanitizeFilename(entry.Title), filepath.Ext(entry.Path))
	internalPath, err := e.AddImage(entry.Path, filename)
	if err != nil {
		return fmt.Errorf("failed to add image: %w", err)
	}

	title := html.EscapeString(entry.Title)
	var body strings.Builder
	body.WriteString(fmt.Sprintf("<h1>%s</h1>\n", title))
	body.WriteString(fmt.Sprintf(
		`<div class="page"><img src="%s" alt="%s" style="width:100%%;height:auto;"/></div>%s`,
		internalPath, title, "\n",
	))

	if _, err := e.AddSection(body.String(), entry.Title, "", ""); err != nil {
		return fmt.Errorf("failed to add section: %w", err)
	}
	return nil
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
