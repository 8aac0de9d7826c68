package data

import "time"

// Fetch outcomes recorded in the history table.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// CachedImage indexes an artwork file written to the cache directory.
// The file on disk, not this row, decides whether an entry is cached.
type CachedImage struct {
	Name      string
	Path      string
	SourceURL string
	Size      int64
	FetchedAt time.Time
}

// FetchRecord is one FetchImage call.
type FetchRecord struct {
	ID        string
	Name      string
	Outcome   string // "hit", "miss", "error"
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}
