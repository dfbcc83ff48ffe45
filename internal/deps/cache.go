package deps

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vk/plantsimgo/internal/model"
)

// Cache memoizes resolved graphs per distinct process-to-model-type
// combination, so replicating one configuration across many simulated
// objects does not rebuild the graph each time. The cache is explicit
// state owned by whoever constructs collections, never ambient.
type Cache struct {
	mu     sync.Mutex
	graphs map[string]*Graph
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{graphs: make(map[string]*Graph)}
}

// Key derives the cache key for a mapping: the ordered list of
// (process, concrete model type) pairs. Two mappings with the same
// processes bound to the same model types resolve to the same graph shape.
func Key(mapping model.Mapping) string {
	parts := make([]string, 0, len(mapping))
	for process, m := range mapping {
		parts = append(parts, fmt.Sprintf("%s=%T", process, m))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

// Resolve returns the cached graph for the mapping's key, building and
// caching it on first use.
func (c *Cache) Resolve(ctx context.Context, mapping model.Mapping) (*Graph, error) {
	key := Key(mapping)

	c.mu.Lock()
	defer c.mu.Unlock()
	if g, ok := c.graphs[key]; ok {
		return g, nil
	}

	g, err := Build(ctx, mapping)
	if err != nil {
		return nil, err
	}
	c.graphs[key] = g
	return g, nil
}

// Invalidate drops every cached graph. Call it when the model set behind
// an existing key has changed meaning.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graphs = make(map[string]*Graph)
}
