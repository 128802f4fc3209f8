package server

import "github.com/agentic-research/fixtured/internal/registry"

// Endpoint describes one served route for the index listing.
type Endpoint struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// endpointsOf renders the index for one snapshot. Snapshot.Routes is already
// lexicographically sorted, which keeps the listing stable across requests.
// The result is never nil so an empty registry renders as [].
func endpointsOf(snap *registry.Snapshot) []Endpoint {
	routes := snap.Routes()
	eps := make([]Endpoint, 0, len(routes))
	for _, name := range routes {
		eps = append(eps, Endpoint{Name: name, Path: "/api/" + name})
	}
	return eps
}
