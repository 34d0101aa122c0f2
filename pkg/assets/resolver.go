package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lumenerrors "github.com/lumen-dev/lumen/internal/errors"
)

// DefaultCacheBudget caps cached asset bytes at 32 MiB.
const DefaultCacheBudget = 32 << 20

// Resolver caches fetched assets in front of a Store, optionally mapping
// logical names through a Manifest first. Eviction is size-based: once
// cached bytes exceed the budget, least recently used entries drop.
type Resolver struct {
	store    Store
	manifest *Manifest
	budget   int

	mu    sync.Mutex
	cache map[string]*cacheEntry
	size  int
	tick  uint64
}

type cacheEntry struct {
	asset *Asset
	used  uint64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithManifest maps logical names through m before fetching.
func WithManifest(m *Manifest) ResolverOption {
	return func(r *Resolver) { r.manifest = m }
}

// WithCacheBudget sets the cached byte cap.
func WithCacheBudget(budget int) ResolverOption {
	return func(r *Resolver) { r.budget = budget }
}

// NewResolver creates a resolver over store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		budget: DefaultCacheBudget,
		cache:  make(map[string]*cacheEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the asset under the logical name, fetching on a cache
// miss.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Asset, error) {
	key := name
	if r.manifest != nil {
		key = r.manifest.Resolve(name)
	}

	r.mu.Lock()
	if entry, ok := r.cache[key]; ok {
		r.tick++
		entry.used = r.tick
		asset := entry.asset
		r.mu.Unlock()
		return asset, nil
	}
	r.mu.Unlock()

	asset, err := r.store.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, lumenerrors.New("E100").
				WithDetail(fmt.Sprintf("No asset under %q.", key)).
				Wrap(err)
		}
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cache[key]; !ok {
		r.tick++
		r.cache[key] = &cacheEntry{asset: asset, used: r.tick}
		r.size += len(asset.Data)
		r.evict()
	}
	return asset, nil
}

// evict drops least recently used entries until the budget holds. Callers
// hold r.mu.
func (r *Resolver) evict() {
	for r.size > r.budget && len(r.cache) > 1 {
		var oldestKey string
		var oldest uint64
		first := true
		for key, entry := range r.cache {
			if first || entry.used < oldest {
				oldestKey = key
				oldest = entry.used
				first = false
			}
		}
		r.size -= len(r.cache[oldestKey].asset.Data)
		delete(r.cache, oldestKey)
	}
}

// Invalidate drops a cached asset so the next Resolve refetches. Dev
// tooling calls it when a watched file changes.
func (r *Resolver) Invalidate(name string) {
	key := name
	if r.manifest != nil {
		key = r.manifest.Resolve(name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.cache[key]; ok {
		r.size -= len(entry.asset.Data)
		delete(r.cache, key)
	}
}

// Cached reports whether the logical name is currently cached.
func (r *Resolver) Cached(name string) bool {
	key := name
	if r.manifest != nil {
		key = r.manifest.Resolve(name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.cache[key]
	return ok
}

// CacheSize returns the cached byte count.
func (r *Resolver) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
