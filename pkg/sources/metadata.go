package sources

import (
	"fmt"
	"strings"

	"github.com/Jeffail/gabs"
)

// ArtworkPath locates the official artwork URL inside a metadata record.
var ArtworkPath = []string{"sprites", "other", "official-artwork", "front_default"}

// Metadata is the nested document the catalog returns for one entry.
type Metadata struct {
	doc *gabs.Container
}

// ParseMetadata parses a raw metadata record.
func ParseMetadata(raw []byte) (*Metadata, error) {
	doc, err := gabs.ParseJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &Metadata{doc: doc}, nil
}

// Lookup walks path through nested objects. A present JSON null yields (nil, true).
func (m *Metadata) Lookup(path ...string) (any, bool) {
	if m == nil || m.doc == nil || !m.doc.Exists(path...) {
		return nil, false
	}
	return m.doc.Search(path...).Data(), true
}

// Name returns the record's own name field, if any.
func (m *Metadata) Name() string {
	v, _ := m.Lookup("name")
	s, _ := v.(string)
	return s
}

// ID returns the record's numeric id, or 0.
func (m *Metadata) ID() int {
	v, _ := m.Lookup("id")
	f, _ := v.(float64)
	return int(f)
}

// ArtworkURL extracts the official artwork URL. Any missing key or a null value yields
// ErrArtworkUnavailable.
func (m *Metadata) ArtworkURL() (string, error) {
	v, ok := m.Lookup(ArtworkPath...)
	if !ok {
		return "", ErrArtworkUnavailable
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", ErrArtworkUnavailable
	}
	return s, nil
}
