package usecase

import (
	"sort"

	"github.com/kitchentory/backend/internal/domain"
)

// InventoryIndex is a read-only lookup over one user's available items, built once per
// matching session. Safe for concurrent reads.
type InventoryIndex struct {
	items    map[string]domain.AvailableItem
	variants map[string]string
	keys     []string
}

// BuildInventoryIndex normalizes the available items into a name-keyed index.
// Duplicate names keep the last item seen. Each name also registers its plural/singular
// flip and any article-stripped form as variants pointing back at the canonical name.
func BuildInventoryIndex(items []domain.AvailableItem) *InventoryIndex {
	idx := &InventoryIndex{
		items:    make(map[string]domain.AvailableItem, len(items)),
		variants: make(map[string]string, len(items)*2),
	}

	for _, item := range items {
		name := normalizeName(item.Name)
		if name == "" {
			continue
		}
		if _, seen := idx.items[name]; !seen {
			idx.keys = append(idx.keys, name)
		}
		idx.items[name] = item

		idx.variants[pluralVariant(name)] = name
		for _, stripped := range articleVariants(name) {
			idx.variants[stripped] = name
		}
	}

	sort.Strings(idx.keys)
	return idx
}

// Lookup returns the item stored under an already-normalized name
func (idx *InventoryIndex) Lookup(name string) (domain.AvailableItem, bool) {
	item, ok := idx.items[name]
	return item, ok
}

// Contains reports whether name is a primary key of the index
func (idx *InventoryIndex) Contains(name string) bool {
	_, ok := idx.items[name]
	return ok
}

// ResolveVariant maps a lexical variant to its canonical primary key
func (idx *InventoryIndex) ResolveVariant(name string) (string, bool) {
	canonical, ok := idx.variants[name]
	if !ok || !idx.Contains(canonical) {
		return "", false
	}
	return canonical, true
}

// Keys returns the primary keys in sorted order. The slice must not be modified.
func (idx *InventoryIndex) Keys() []string {
	return idx.keys
}

// Len returns the number of distinct inventory names
func (idx *InventoryIndex) Len() int {
	return len(idx.items)
}
