package product

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// localIDBase is the fixed negative base for locally synthesized product IDs.
// Remote catalog IDs are small positive integers, so any ID at or below this
// base is unambiguously local-origin.
const localIDBase int64 = -1_000_000

// Product represents a catalog item. The sign of ID encodes provenance: a
// non-negative ID was assigned by the remote catalog, a negative ID marks a
// locally synthesized record that never received server confirmation.
// Provenance must never be inferred from any other field.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Rating      *float64        `json:"rating,omitempty"`
	Category    string          `json:"category,omitempty"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	Images      []string        `json:"images,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	Stock       int             `json:"stock,omitempty"`
}

// IsLocal reports whether id identifies a local-origin (optimistic) record.
func IsLocal(id int64) bool {
	return id < 0
}

// NewLocalID synthesizes a negative identifier for a local-origin record from
// the fixed base combined with the current wall clock. Two IDs minted within
// the same millisecond collide; callers inserting into an ID-unique structure
// must guard against that.
func NewLocalID() int64 {
	return localIDBase - time.Now().UnixMilli()
}

// Draft is a partial product payload used for create and update operations.
// Nil fields mean "leave unchanged" on update and "use the zero default" on
// create.
type Draft struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Thumbnail   *string          `json:"thumbnail,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
}

// Apply merges the draft's set fields into p, leaving everything else intact.
// The product's ID is never touched.
func (d Draft) Apply(p *Product) {
	if d.Title != nil {
		p.Title = *d.Title
	}
	if d.Description != nil {
		p.Description = *d.Description
	}
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.Rating != nil {
		p.Rating = d.Rating
	}
	if d.Category != nil {
		p.Category = *d.Category
	}
	if d.Thumbnail != nil {
		p.Thumbnail = *d.Thumbnail
	}
	if d.Images != nil {
		p.Images = d.Images
	}
	if d.Brand != nil {
		p.Brand = *d.Brand
	}
	if d.Stock != nil {
		p.Stock = *d.Stock
	}
}

// Materialize builds a full product record from the draft under the given ID,
// substituting zero defaults for unset fields.
func (d Draft) Materialize(id int64) Product {
	p := Product{Price: decimal.Zero}
	d.Apply(&p)
	p.ID = id
	return p
}

// ListParams describes a paginated list request against the remote catalog.
// A non-empty Query takes precedence over Category; the Category sentinel
// "all" disables category filtering.
type ListParams struct {
	Limit    int
	Skip     int
	Category string
	Query    string
}

// Page is one page of a catalog list response.
type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}
