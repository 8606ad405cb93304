// Package livereload is the server-side live-reload infrastructure that
// sits on top of the htmldiff core: it caches the last HTML rendered for
// each route, diffs freshly rendered HTML against that cache on every
// source change, and turns the result into one of three outcomes a
// transport can deliver to a connected browser.
package livereload

import (
	"sync"

	"github.com/vango-dev/htmldiff"
)

// ResultKind discriminates the three outcomes of diffing a route's
// freshly rendered HTML against what was last served for it.
type ResultKind uint8

const (
	// ResultNone means the HTML is unchanged; nothing is sent.
	ResultNone ResultKind = iota
	// ResultReload means the route has no prior HTML cached (a cold
	// route) or the diff itself failed; the browser should hard-reload.
	ResultReload
	// ResultPatches means the diff produced a non-empty patch list.
	ResultPatches
)

// Result is what Cache.Diff returns: a discriminated outcome plus the
// patch payload when Kind is ResultPatches.
type Result struct {
	Kind    ResultKind
	Route   string
	Patches []htmldiff.Patch
}

// Store is the persistence backend behind Cache: the previously served
// HTML for each route. The in-memory map below is the default; s3store
// swaps in an S3-backed implementation for multi-replica deployments.
type Store interface {
	Get(route string) (html string, ok bool)
	Put(route, html string) error
	Delete(route string) error
	Routes() []string
	Clear() error
}

// memStore is the default in-process Store.
type memStore struct {
	mu   sync.RWMutex
	html map[string]string
}

func newMemStore() *memStore {
	return &memStore{html: make(map[string]string)}
}

func (s *memStore) Get(route string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.html[route]
	return v, ok
}

func (s *memStore) Put(route, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html[route] = html
	return nil
}

func (s *memStore) Delete(route string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.html, route)
	return nil
}

func (s *memStore) Routes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.html))
	for r := range s.html {
		out = append(out, r)
	}
	return out
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = make(map[string]string)
	return nil
}

// Cache caches per-route HTML and diffs new renders against it, mirroring
// LiveReloadServer.html_cache/diff_route from the original hotmeal-server:
// a cold route always yields ResultReload (and seeds the cache), unchanged
// HTML yields ResultNone, and a changed route yields ResultPatches unless
// the diff itself errors, in which case it degrades to ResultReload rather
// than failing the request.
type Cache struct {
	store Store
	opts  []htmldiff.Option
}

// NewCache creates a Cache backed by an in-memory Store.
func NewCache(opts ...htmldiff.Option) *Cache {
	return &Cache{store: newMemStore(), opts: opts}
}

// NewCacheWithStore creates a Cache backed by a caller-provided Store
// (e.g. the S3-backed one in snapshot_s3.go).
func NewCacheWithStore(store Store, opts ...htmldiff.Option) *Cache {
	return &Cache{store: store, opts: opts}
}

// Diff caches newHTML for route and returns the diff outcome against
// whatever was cached for route before this call.
func (c *Cache) Diff(route, newHTML string) Result {
	oldHTML, ok := c.store.Get(route)
	if !ok {
		c.store.Put(route, newHTML)
		return Result{Kind: ResultReload, Route: route}
	}

	if oldHTML == newHTML {
		return Result{Kind: ResultNone, Route: route}
	}

	patches, err := htmldiff.DiffHTML(oldHTML, newHTML, c.opts...)
	c.store.Put(route, newHTML)
	if err != nil {
		return Result{Kind: ResultReload, Route: route}
	}
	if len(patches) == 0 {
		return Result{Kind: ResultNone, Route: route}
	}
	return Result{Kind: ResultPatches, Route: route, Patches: patches}
}

// Routes returns every route with HTML currently cached.
func (c *Cache) Routes() []string { return c.store.Routes() }

// Remove evicts a route's cached HTML.
func (c *Cache) Remove(route string) error { return c.store.Delete(route) }

// Clear empties the cache.
func (c *Cache) Clear() error { return c.store.Clear() }
