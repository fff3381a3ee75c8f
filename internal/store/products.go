// Package store holds the process-wide normalized product and favorites
// state. Each store owns its mutation logic; external callers only invoke the
// named operations, never the fields.
package store

import (
	"context"
	"sync"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/product"
)

// Status is the request lifecycle state of the product store.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Catalog is the subset of the remote catalog client the product store needs.
type Catalog interface {
	List(ctx context.Context, p product.ListParams) (*product.Page, error)
	Get(ctx context.Context, id int64) (*product.Product, error)
	Update(ctx context.Context, id int64, d product.Draft) (*product.Product, error)
	Delete(ctx context.Context, id int64) (*product.Product, error)
}

// Products is the normalized product store: an id-keyed record map plus an
// explicit ordered id sequence, the set of local-origin (optimistic) ids, the
// server-reported total, and the last request status/error.
//
// Invariants: every id in the sequence has a record; every local id is in the
// sequence; ids are unique. All mutation goes through the operations below
// under a single mutex, giving single-writer discipline per operation but no
// cross-operation atomicity.
type Products struct {
	catalog Catalog

	mu       sync.Mutex
	byID     map[int64]product.Product
	ids      []int64
	localIDs map[int64]struct{}
	total    int
	status   Status
	err      *catalog.Error

	// gen fences list fetches: each FetchPage bumps it, and a resolution
	// whose generation is no longer current is discarded. This replaces the
	// last-response-wins race under rapid filter changes with a
	// latest-request-wins rule.
	gen uint64
}

// NewProducts creates an empty product store backed by the given catalog.
func NewProducts(c Catalog) *Products {
	return &Products{
		catalog:  c,
		byID:     make(map[int64]product.Product),
		localIDs: make(map[int64]struct{}),
		status:   StatusIdle,
	}
}

// FetchPage performs a paginated list fetch and merges the result.
//
// A zero Skip is a first page: remote-origin entries are replaced by the
// response while local-origin entries survive in their display positions.
// A non-zero Skip is a continuation: response products are appended, skipping
// ids already present. The server total wins when present; otherwise the
// count of confirmed entries is used as a degraded fallback.
//
// The error, if any, is also recorded as store state (status failed).
func (s *Products) FetchPage(ctx context.Context, p product.ListParams) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.status = StatusLoading
	s.err = nil
	s.mu.Unlock()

	page, err := s.catalog.List(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// A newer fetch superseded this one while it was in flight; its
		// result must not clobber the newer state.
		return nil
	}

	if err != nil {
		s.status = StatusFailed
		s.err = catalog.AsError(err)
		return err
	}

	s.merge(page, p.Skip == 0)
	s.status = StatusSucceeded
	return nil
}

// merge applies one resolved page. Caller holds s.mu.
func (s *Products) merge(page *product.Page, firstPage bool) {
	if firstPage {
		// Keep optimistic entries, in their current display order, and drop
		// everything remote before applying the fresh first page.
		kept := make([]int64, 0, len(s.localIDs))
		for _, id := range s.ids {
			if _, ok := s.localIDs[id]; ok {
				kept = append(kept, id)
			}
		}
		byID := make(map[int64]product.Product, len(kept)+len(page.Products))
		for _, id := range kept {
			byID[id] = s.byID[id]
		}
		s.byID = byID
		s.ids = kept
	}

	for _, p := range page.Products {
		if p.ID == 0 || product.IsLocal(p.ID) {
			continue
		}
		_, seen := s.byID[p.ID]
		s.byID[p.ID] = p
		if !seen {
			s.ids = append(s.ids, p.ID)
		}
	}

	if page.Total != 0 {
		s.total = page.Total
	} else {
		s.total = s.confirmedCount()
	}
}

// confirmedCount counts remote-origin entries. Caller holds s.mu.
func (s *Products) confirmedCount() int {
	n := 0
	for _, id := range s.ids {
		if !product.IsLocal(id) {
			n++
		}
	}
	return n
}

// FetchByID fetches a single product and upserts it; the id is appended to
// the sequence if absent and the total is left untouched. The store does not
// deduplicate in-flight fetches; callers should avoid re-issuing while the
// status is loading.
func (s *Products) FetchByID(ctx context.Context, id int64) (*product.Product, error) {
	s.mu.Lock()
	s.status = StatusLoading
	s.err = nil
	s.mu.Unlock()

	p, err := s.catalog.Get(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.status = StatusFailed
		s.err = catalog.AsError(err)
		return nil, err
	}

	if !product.IsLocal(p.ID) {
		_, seen := s.byID[p.ID]
		s.byID[p.ID] = *p
		if !seen {
			s.ids = append(s.ids, p.ID)
		}
	}
	s.status = StatusSucceeded
	return p, nil
}

// Create synthesizes a local-origin record from the draft and inserts it at
// the front of the sequence. No network call happens: the optimistic record
// is the permanent representation, since the catalog acknowledges creates
// without persisting them. The total is incremented so the new record counts
// toward pagination.
func (s *Products) Create(d product.Draft) product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := product.NewLocalID()
	// Two creates within one millisecond would mint the same id; walk down
	// until free to keep the sequence unique.
	for _, exists := s.byID[id]; exists; _, exists = s.byID[id] {
		id--
	}

	p := d.Materialize(id)
	s.byID[id] = p
	s.localIDs[id] = struct{}{}
	s.ids = append([]int64{id}, s.ids...)
	s.total++
	return p
}

// Update applies a partial update. Local-origin records are merged in place
// with no network call; remote-origin records go through the catalog and the
// stored record is replaced with the server's response. Returns
// product.ErrNotFound when a local-origin id is absent from the store.
// Failures are surfaced to the caller and leave the store unchanged.
func (s *Products) Update(ctx context.Context, id int64, d product.Draft) (*product.Product, error) {
	if product.IsLocal(id) {
		s.mu.Lock()
		defer s.mu.Unlock()

		p, ok := s.byID[id]
		if !ok {
			return nil, product.ErrNotFound
		}
		d.Apply(&p)
		p.ID = id
		s.byID[id] = p
		return &p, nil
	}

	p, err := s.catalog.Update(ctx, id, d)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, seen := s.byID[p.ID]
	s.byID[p.ID] = *p
	if !seen {
		s.ids = append(s.ids, p.ID)
	}
	return p, nil
}

// Delete removes a record. Local-origin records are removed immediately;
// remote-origin records are removed only after the catalog confirms the
// delete. Either way the total is decremented, floored at zero. Returns
// product.ErrNotFound when a local-origin id is absent. Failures leave the
// store unchanged.
func (s *Products) Delete(ctx context.Context, id int64) error {
	if product.IsLocal(id) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.byID[id]; !ok {
			return product.ErrNotFound
		}
		s.remove(id)
		delete(s.localIDs, id)
		return nil
	}

	if _, err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(id)
	return nil
}

// remove drops id from the record map and the sequence and decrements the
// total, floored at zero. Caller holds s.mu.
func (s *Products) remove(id int64) {
	delete(s.byID, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	if s.total > 0 {
		s.total--
	}
}

// Clear resets the store to its initial empty state.
func (s *Products) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[int64]product.Product)
	s.ids = nil
	s.localIDs = make(map[int64]struct{})
	s.total = 0
	s.status = StatusIdle
	s.err = nil
	s.gen++
}

// List returns the records in display order.
func (s *Products) List() []product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]product.Product, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out
}

// Get returns the record for id, if present.
func (s *Products) Get(id int64) (product.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	return p, ok
}

// Total returns the server-reported count of remote items matching the last
// list query, adjusted by optimistic creates and deletes.
func (s *Products) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Len returns the number of records currently held.
func (s *Products) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// HasMore reports whether a continuation fetch could yield more records.
func (s *Products) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids) < s.total
}

// Status returns the last request status.
func (s *Products) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the last failure descriptor, or nil.
func (s *Products) Err() *catalog.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
