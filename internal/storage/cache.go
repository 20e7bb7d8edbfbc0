// Package storage keeps a local sqlite copy of backend responses.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/wellday/internal/migration"
	"github.com/julianstephens/wellday/migrations"
)

// ErrCacheMiss is returned when a resource has never been cached.
var ErrCacheMiss = errors.New("resource not cached")

// Entry is a cached response body.
type Entry struct {
	Resource  string
	Body      []byte
	FetchedAt time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int
	Oldest  time.Time
	Newest  time.Time
}

// Cache is a resource-keyed store of JSON response bodies.
type Cache struct {
	path string
	db   *sql.DB
}

func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Open creates the database if needed and brings its schema up to date.
func (c *Cache) Open(ctx context.Context) error {
	if c.db != nil {
		return nil
	}

	if c.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	// A single connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.db = db
	return nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	_, err = migration.NewRunner(db, subFS).Apply(ctx)
	return err
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// SchemaVersion returns the applied and the newest known schema versions.
func (c *Cache) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	if c.db == nil {
		return 0, 0, errors.New("cache is not open")
	}
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return 0, 0, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	runner := migration.NewRunner(c.db, subFS)
	if current, err = runner.CurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached body for resource or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, resource string) (Entry, error) {
	if c.db == nil {
		return Entry{}, ErrCacheMiss
	}

	var body []byte
	var fetchedAt string
	err := c.db.QueryRowContext(ctx,
		"SELECT body, fetched_at FROM responses WHERE resource = ?", resource,
	).Scan(&body, &fetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrCacheMiss
		}
		return Entry{}, fmt.Errorf("reading cache: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, fetchedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing cache timestamp %q: %w", fetchedAt, err)
	}
	return Entry{Resource: resource, Body: body, FetchedAt: t}, nil
}

// Put stores body as the latest response for resource.
func (c *Cache) Put(ctx context.Context, resource string, body []byte, fetchedAt time.Time) error {
	if c.db == nil {
		return errors.New("cache is not open")
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO responses (resource, collection, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(resource) DO UPDATE SET
			collection = excluded.collection,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, resource, Collection(resource), body, fetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// PurgeCollection drops every cached response of a collection and returns
// how many were removed.
func (c *Cache) PurgeCollection(ctx context.Context, collection string) (int64, error) {
	if c.db == nil {
		return 0, nil
	}
	res, err := c.db.ExecContext(ctx, "DELETE FROM responses WHERE collection = ?", collection)
	if err != nil {
		return 0, fmt.Errorf("purging %s: %w", collection, err)
	}
	return res.RowsAffected()
}

// Clear empties the cache.
func (c *Cache) Clear(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM responses"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Stats reports the number of cached responses and their age range.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if c.db == nil {
		return s, nil
	}

	var oldest, newest sql.NullString
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(*), MIN(fetched_at), MAX(fetched_at) FROM responses",
	).Scan(&s.Entries, &oldest, &newest)
	if err != nil {
		return s, fmt.Errorf("reading cache stats: %w", err)
	}
	if oldest.Valid {
		s.Oldest, _ = time.Parse(time.RFC3339Nano, oldest.String)
	}
	if newest.Valid {
		s.Newest, _ = time.Parse(time.RFC3339Nano, newest.String)
	}
	return s, nil
}

// Collection returns the first path segment of resource, ignoring any query:
// "/water_logs?date=2025-06-01" and "/water_logs/3" both map to "water_logs".
func Collection(resource string) string {
	p := resource
	if u, err := url.Parse(resource); err == nil {
		p = u.Path
	} else if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
