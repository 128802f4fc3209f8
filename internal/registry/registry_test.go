package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(routes ...string) *Snapshot {
	docs := make(map[string]Document, len(routes))
	for _, route := range routes {
		docs[route] = Document{
			Route: route,
			File:  route + ".json",
			Body:  []any{map[string]any{"route": route}},
		}
	}
	return NewSnapshot(docs)
}

func TestSnapshot_GetAndRoutes(t *testing.T) {
	snap := snapshotOf("zebra", "articles", "profile")

	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"articles", "profile", "zebra"}, snap.Routes())

	doc, ok := snap.Get("articles")
	require.True(t, ok)
	assert.Equal(t, "articles.json", doc.File)

	_, ok = snap.Get("missing")
	assert.False(t, ok)
}

func TestSnapshot_RoutesReturnsCopy(t *testing.T) {
	snap := snapshotOf("a", "b")

	routes := snap.Routes()
	routes[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, snap.Routes())
}

func TestSnapshot_Empty(t *testing.T) {
	snap := NewSnapshot(nil)
	assert.Equal(t, 0, snap.Len())
	assert.Empty(t, snap.Routes())
}

func TestHotSwap_PublishStampsGenerations(t *testing.T) {
	table := NewHotSwap()
	assert.Equal(t, uint64(0), table.Current().Generation())

	first := table.Publish(snapshotOf("a"))
	assert.Equal(t, uint64(1), first.Generation())
	assert.Same(t, first, table.Current())

	second := table.Publish(snapshotOf("a", "b"))
	assert.Equal(t, uint64(2), second.Generation())
	assert.Same(t, second, table.Current())
}

func TestHotSwap_ReadersSeeConsistentSnapshots(t *testing.T) {
	table := NewHotSwap()
	table.Publish(snapshotOf("r0"))

	stop := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := table.Current()
				routes := snap.Routes()
				// A snapshot must always be internally consistent,
				// whichever generation the reader caught.
				if !assert.Equal(t, snap.Len(), len(routes)) {
					return
				}
				for _, route := range routes {
					doc, ok := snap.Get(route)
					if !assert.True(t, ok) {
						return
					}
					assert.Equal(t, route, doc.Route)
				}
			}
		}()
	}

	for gen := 1; gen <= 100; gen++ {
		routes := make([]string, gen%5+1)
		for j := range routes {
			routes[j] = fmt.Sprintf("r%d", j)
		}
		table.Publish(snapshotOf(routes...))
	}
	close(stop)
	wg.Wait()
}
