package identity

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// URLLookup asks the registry which entity a URL is attached to.
type URLLookup interface {
	LookupURL(ctx context.Context, url string) (string, bool, error)
}

// Resolver maps external URLs to registry identifiers. Answers are looked
// up in memory, then in the store, and finally asked of the registry;
// registry artist pages resolve to their own identifier. Negative answers
// are kept as well, so each URL is asked about at most once per expiry
// period.
type Resolver struct {
	store  *Store
	lookup URLLookup
	logger *slog.Logger

	mu   sync.Mutex
	memo map[string]string
}

// NewResolver creates a Resolver. store and lookup may be nil, in which
// case that tier is skipped.
func NewResolver(store *Store, lookup URLLookup, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		lookup: lookup,
		logger: logger.With(slog.String("component", "identity")),
		memo:   make(map[string]string),
	}
}

// ResolveIdentifier returns the registry identifier for url.
func (r *Resolver) ResolveIdentifier(ctx context.Context, url string) (string, bool) {
	key := NormalizeURL(url)
	if key == "" {
		return "", false
	}

	r.mu.Lock()
	id, ok := r.memo[key]
	r.mu.Unlock()
	if ok {
		return id, id != ""
	}

	if r.store != nil {
		id, ok, err := r.store.Get(ctx, key)
		if err != nil {
			r.logger.Warn("identifier cache read failed", slog.String("url", key), slog.String("error", err.Error()))
		} else if ok {
			r.remember(key, id)
			return id, id != ""
		}
	}

	if strings.HasPrefix(key, registryArtistPrefix) {
		id := LastSegment(key)
		r.remember(key, id)
		return id, id != ""
	}

	if r.lookup == nil {
		return "", false
	}
	id, ok, err := r.lookup.LookupURL(ctx, key)
	if err != nil {
		// Transient failures are not cached.
		r.logger.Warn("identifier lookup failed", slog.String("url", key), slog.String("error", err.Error()))
		return "", false
	}
	if !ok {
		id = ""
	}
	r.logger.Debug("identifier resolved", slog.String("url", key), slog.String("id", id))
	r.remember(key, id)
	r.persist(ctx, key, id)
	return id, id != ""
}

// Learn records an answer found while fetching registry data.
func (r *Resolver) Learn(url, id string) {
	key := NormalizeURL(url)
	if key == "" || id == "" {
		return
	}
	r.remember(key, id)
	r.persist(context.Background(), key, id)
}

// Len returns the number of answers held in memory.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.memo)
}

func (r *Resolver) remember(key, id string) {
	r.mu.Lock()
	r.memo[key] = id
	r.mu.Unlock()
}

func (r *Resolver) persist(ctx context.Context, key, id string) {
	if r.store == nil {
		return
	}
	if err := r.store.Put(ctx, key, id); err != nil {
		r.logger.Warn("identifier cache write failed", slog.String("url", key), slog.String("error", err.Error()))
	}
}
