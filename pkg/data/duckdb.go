package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS images (
	name       VARCHAR PRIMARY KEY,
	path       VARCHAR NOT NULL,
	source_url VARCHAR,
	size       BIGINT,
	fetched_at TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS fetches (
	id          VARCHAR PRIMARY KEY,
	name        VARCHAR NOT NULL,
	outcome     VARCHAR NOT NULL,
	error       VARCHAR,
	duration_ms BIGINT,
	created_at  TIMESTAMP
)`,
}

// InitDuckDB opens the database at path, creating parent directories and the schema.
func InitDuckDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}

type Repository struct {
	db *sql.DB
}

// NewDuckDBRepository opens the repository stored at path.
func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveImage inserts or replaces the index row for img.Name.
func (r *Repository) SaveImage(img *CachedImage) error {
	if img == nil {
		return fmt.Errorf("image cannot be nil")
	}
	fetchedAt := img.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(
		`INSERT OR REPLACE INTO images (name, path, source_url, size, fetched_at) VALUES (?, ?, ?, ?, ?)`,
		img.Name, img.Path, img.SourceURL, img.Size, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save image %s: %w", img.Name, err)
	}
	return nil
}

// GetImage returns the index row for name, or nil when there is none.
func (r *Repository) GetImage(name string) (*CachedImage, error) {
	row := r.db.QueryRow(
		`SELECT name, path, source_url, size, fetched_at FROM images WHERE name = ?`, name,
	)
	img, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get image %s: %w", name, err)
	}
	return img, nil
}

// ListImages returns every index row ordered by name.
func (r *Repository) ListImages() ([]*CachedImage, error) {
	rows, err := r.db.Query(`SELECT name, path, source_url, size, fetched_at FROM images ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []*CachedImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage drops the index row for name. The file itself is left alone.
func (r *Repository) DeleteImage(name string) error {
	if _, err := r.db.Exec(`DELETE FROM images WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", name, err)
	}
	return nil
}

// RecordFetch appends a row to the fetch history.
func (r *Repository) RecordFetch(rec *FetchRecord) error {
	if rec == nil {
		return fmt.Errorf("fetch record cannot be nil")
	}
	if rec.ID == "" {
		return fmt.Errorf("fetch record id cannot be empty")
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.Exec(
		`INSERT INTO fetches (id, name, outcome, error, duration_ms, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Outcome, rec.Error, rec.Duration.Milliseconds(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch %s: %w", rec.ID, err)
	}
	return nil
}

// ListFetches returns the most recent fetches first. limit <= 0 returns all of them.
func (r *Repository) ListFetches(limit int) ([]*FetchRecord, error) {
	query := `SELECT id, name, outcome, error, duration_ms, created_at FROM fetches ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list fetches: %w", err)
	}
	defer rows.Close()

	var records []*FetchRecord
	for rows.Next() {
		var (
			rec        FetchRecord
			errText    sql.NullString
			durationMS sql.NullInt64
			createdAt  sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Outcome, &errText, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan fetch: %w", err)
		}
		rec.Error = errText.String
		rec.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		rec.CreatedAt = createdAt.Time
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// FetchStats counts history rows per outcome.
func (r *Repository) FetchStats() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT outcome, COUNT(*) FROM fetches GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("failed to count fetches: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan fetch stats: %w", err)
		}
		stats[outcome] = count
	}
	return stats, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(s scanner) (*CachedImage, error) {
	var (
		img       CachedImage
		sourceURL sql.NullString
		size      sql.NullInt64
		fetchedAt sql.NullTime
	)
	if err := s.Scan(&img.Name, &img.Path, &sourceURL, &size, &fetchedAt); err != nil {
		return nil, err
	}
	img.SourceURL = sourceURL.String
	img.Size = size.Int64
	img.FetchedAt = fetchedAt.Time
	return &img, nil
}
