package storage

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/logger"
)

// Mode controls how CachedRequester uses the cache for reads.
type Mode int

const (
	// ModeOnline always asks the backend and only writes through.
	ModeOnline Mode = iota
	// ModeFallback serves the cached body when the backend cannot be reached.
	ModeFallback
	// ModeOffline never contacts the backend for reads.
	ModeOffline
)

// CachedRequester is an api.Requester that records successful GETs in a
// Cache. Writes always go to the backend; a successful write purges the
// cached responses of the collection it touched.
type CachedRequester struct {
	next  api.Requester
	cache *Cache
	mode  Mode
	now   func() time.Time
}

func NewCachedRequester(next api.Requester, cache *Cache, mode Mode) *CachedRequester {
	return &CachedRequester{next: next, cache: cache, mode: mode, now: time.Now}
}

// Request implements api.Requester.
func (r *CachedRequester) Request(ctx context.Context, path string, opts api.RequestOptions) ([]byte, error) {
	if opts.Method != "" && opts.Method != http.MethodGet {
		return r.write(ctx, path, opts)
	}

	if r.mode == ModeOffline {
		return r.fromCache(ctx, path, api.ErrTransport)
	}

	body, err := r.next.Request(ctx, path, opts)
	if err != nil {
		if r.mode == ModeFallback && errors.Is(err, api.ErrTransport) {
			return r.fromCache(ctx, path, err)
		}
		return nil, err
	}

	if body != nil {
		if perr := r.cache.Put(ctx, path, body, r.now()); perr != nil {
			logger.Warn("failed to cache response", "resource", path, "error", perr)
		}
	}
	return body, nil
}

func (r *CachedRequester) write(ctx context.Context, path string, opts api.RequestOptions) ([]byte, error) {
	if r.mode == ModeOffline {
		return nil, errors.Join(api.ErrTransport, errors.New("offline mode: changes cannot be sent"))
	}

	body, err := r.next.Request(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	collection := Collection(path)
	if n, perr := r.cache.PurgeCollection(ctx, collection); perr != nil {
		logger.Warn("failed to purge cache", "collection", collection, "error", perr)
	} else if n > 0 {
		logger.Debug("purged cached responses", "collection", collection, "count", n)
	}
	return body, nil
}

func (r *CachedRequester) fromCache(ctx context.Context, path string, cause error) ([]byte, error) {
	entry, err := r.cache.Get(ctx, path)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, cause
		}
		logger.Warn("failed to read cache", "resource", path, "error", err)
		return nil, cause
	}
	logger.Debug("serving cached response", "resource", path, "fetched_at", entry.FetchedAt)
	return entry.Body, nil
}
