package server

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-pdx-lsp/internal/analysis"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

// CompletionKey identifies a keyword list. The list only depends on the
// registry tables, the mode and the object type, so it is shared by every
// document and position that resolves to the same pair.
type CompletionKey struct {
	RegistryVersion uint64
	Mode            analysis.Mode
	ObjectType      registry.ObjectType
}

// CompletionCache caches unfiltered keyword completion items.
type CompletionCache struct {
	items map[CompletionKey][]protocol.CompletionItem

	mu sync.RWMutex
}

// NewCompletionCache creates a new completion cache.
func NewCompletionCache() *CompletionCache {
	return &CompletionCache{
		items: make(map[CompletionKey][]protocol.CompletionItem),
	}
}

// Get returns the cached items for key. Callers must not modify the slice.
func (c *CompletionCache) Get(key CompletionKey) ([]protocol.CompletionItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, ok := c.items[key]

	return items, ok
}

// Set caches items for key. Entries built for other registry versions are
// dropped, since a reload never goes back to an older registry.
func (c *CompletionCache) Set(key CompletionKey, items []protocol.CompletionItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.items {
		if k.RegistryVersion != key.RegistryVersion {
			delete(c.items, k)
		}
	}

	c.items[key] = items
}

// Len returns the number of cached lists.
func (c *CompletionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Clear clears all cached completion items.
func (c *CompletionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[CompletionKey][]protocol.CompletionItem)
}
