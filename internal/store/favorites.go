package store

import (
	"sort"
	"sync"

	"github.com/xenking/storefront/internal/domain/product"
)

// Favorites is the normalized favorites store: an id-keyed snapshot of
// user-marked products, independent of the product store's pagination. A
// favorited record survives even when the product scrolls out of the current
// list. Pure and synchronous, no network interaction.
type Favorites struct {
	mu       sync.RWMutex
	byID     map[int64]product.Product
	onChange func([]product.Product)
}

// NewFavorites creates an empty favorites store.
func NewFavorites() *Favorites {
	return &Favorites{byID: make(map[int64]product.Product)}
}

// SetOnChange registers a hook invoked with a full snapshot after every
// mutation. Used to wire persistence around the store without baking storage
// into it. The hook runs outside the store lock.
func (f *Favorites) SetOnChange(fn func([]product.Product)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Add upserts the product. Idempotent by id.
func (f *Favorites) Add(p product.Product) {
	f.mu.Lock()
	f.byID[p.ID] = p
	f.mu.Unlock()
	f.notify()
}

// Remove deletes the product with the given id. Idempotent.
func (f *Favorites) Remove(id int64) {
	f.mu.Lock()
	delete(f.byID, id)
	f.mu.Unlock()
	f.notify()
}

// Toggle removes the product if present, else adds it. Returns whether the
// product is a favorite after the call.
func (f *Favorites) Toggle(p product.Product) bool {
	f.mu.Lock()
	_, ok := f.byID[p.ID]
	if ok {
		delete(f.byID, p.ID)
	} else {
		f.byID[p.ID] = p
	}
	f.mu.Unlock()
	f.notify()
	return !ok
}

// Replace resets the store wholesale, keyed by id. Later duplicates win.
func (f *Favorites) Replace(products []product.Product) {
	f.mu.Lock()
	f.byID = make(map[int64]product.Product, len(products))
	for _, p := range products {
		f.byID[p.ID] = p
	}
	f.mu.Unlock()
	f.notify()
}

// Clear empties the store.
func (f *Favorites) Clear() {
	f.mu.Lock()
	f.byID = make(map[int64]product.Product)
	f.mu.Unlock()
	f.notify()
}

// Has reports whether id is currently favorited.
func (f *Favorites) Has(id int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.byID[id]
	return ok
}

// Len returns the number of favorites.
func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.byID)
}

// List returns all favorites ordered by ascending id. The ordering is a
// display convenience only; callers must not attach meaning to it.
func (f *Favorites) List() []product.Product {
	f.mu.RLock()
	out := make([]product.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	f.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the favorited ids, ascending.
func (f *Favorites) IDs() []int64 {
	f.mu.RLock()
	out := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		out = append(out, id)
	}
	f.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// notify invokes the change hook, if any, with a fresh snapshot.
func (f *Favorites) notify() {
	f.mu.RLock()
	fn := f.onChange
	f.mu.RUnlock()
	if fn != nil {
		fn(f.List())
	}
}
