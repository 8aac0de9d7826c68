package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kerbaras/pokewall/pkg/utils"
)

// DefaultBaseURL is the public PokeAPI pokemon endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2/pokemon/"

// DefaultLimit asks the listing endpoint for every entry in one page.
const DefaultLimit = 1000

// Ensure PokeAPI implements Catalog at compile time.
var _ Catalog = (*PokeAPI)(nil)

type PokeAPI struct {
	api   *utils.API
	limit int
}

type listing struct {
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

// NewPokeAPI builds a client for the PokeAPI-compatible catalog at baseURL.
func NewPokeAPI(baseURL string, limit int, opts ...utils.Option) (*PokeAPI, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	api, err := utils.NewAPI(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return &PokeAPI{api: api, limit: limit}, nil
}

// ListEntries returns every entry name, capitalized for display, in catalog order.
// On failure the slice is empty rather than nil.
func (p *PokeAPI) ListEntries(ctx context.Context) ([]string, error) {
	params := url.Values{"limit": {strconv.Itoa(p.limit)}}
	body, err := p.api.Get(ctx, "", params)
	if err != nil {
		return []string{}, fmt.Errorf("%w: list entries: %w", ErrCatalogUnreachable, err)
	}

	var page listing
	if err := json.Unmarshal(body, &page); err != nil {
		return []string{}, fmt.Errorf("%w: decode listing: %w", ErrCatalogUnreachable, err)
	}

	names := make([]string, 0, len(page.Results))
	for _, result := range page.Results {
		names = append(names, Capitalize(result.Name))
	}
	return names, nil
}

// GetEntryMetadata fetches the metadata record for name.
func (p *PokeAPI) GetEntryMetadata(ctx context.Context, name string) (*Metadata, error) {
	key, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	body, err := p.api.Get(ctx, url.PathEscape(key), nil)
	if err != nil {
		var statusErr *utils.StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return nil, fmt.Errorf("%w: %s: %w", ErrEntryNotFound, key, err)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnreachable, key, err)
	}

	meta, err := ParseMetadata(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCatalogUnreachable, key, err)
	}
	return meta, nil
}
