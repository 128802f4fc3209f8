// Package registry holds the published mapping from route names to loaded
// JSON documents. A Snapshot is immutable once published; reloads build a
// fresh Snapshot and swap it in through a HotSwap.
package registry

import (
	"sort"
	"sync/atomic"
)

// Document is one served endpoint: the parsed JSON file, already coerced to
// array form.
type Document struct {
	Route string
	File  string
	Body  []any
}

// Snapshot is one immutable generation of the registry.
type Snapshot struct {
	generation uint64
	docs       map[string]Document
	routes     []string
}

// NewSnapshot builds a snapshot from a route->document map. The map is
// copied; the caller may discard or reuse it afterwards.
func NewSnapshot(docs map[string]Document) *Snapshot {
	m := make(map[string]Document, len(docs))
	routes := make([]string, 0, len(docs))
	for route, doc := range docs {
		m[route] = doc
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return &Snapshot{docs: m, routes: routes}
}

// Get looks up a document by route name.
func (s *Snapshot) Get(route string) (Document, bool) {
	doc, ok := s.docs[route]
	return doc, ok
}

// Routes returns the route names in lexicographic order. The returned slice
// is a copy.
func (s *Snapshot) Routes() []string {
	routes := make([]string, len(s.routes))
	copy(routes, s.routes)
	return routes
}

func (s *Snapshot) Len() int { return len(s.docs) }

// Generation is the publish sequence number, zero until published.
func (s *Snapshot) Generation() uint64 { return s.generation }

// HotSwap is the single publish point for snapshots. Readers call Current
// and see exactly one consistent generation; Publish replaces the visible
// snapshot in one pointer store.
type HotSwap struct {
	gen     atomic.Uint64
	current atomic.Pointer[Snapshot]
}

// NewHotSwap starts with an empty, unpublished snapshot so Current never
// returns nil.
func NewHotSwap() *HotSwap {
	h := &HotSwap{}
	h.current.Store(NewSnapshot(nil))
	return h
}

// Publish stamps snap with the next generation and makes it the visible
// snapshot. snap must not be mutated afterwards.
func (h *HotSwap) Publish(snap *Snapshot) *Snapshot {
	snap.generation = h.gen.Add(1)
	h.current.Store(snap)
	return snap
}

// Current returns the visible snapshot.
func (h *HotSwap) Current() *Snapshot {
	return h.current.Load()
}
