// Package view derives filtered and sorted product views. Everything here is
// a pure function over a product slice and a filter spec; correctness never
// depends on caching.
package view

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/domain/product"
)

// SortField selects the product field a view is ordered by.
type SortField string

const (
	SortDefault SortField = "default"
	SortPrice   SortField = "price"
	SortRating  SortField = "rating"
	SortTitle   SortField = "title"
)

// ParseSortField maps a raw string to a SortField, defaulting to SortDefault
// for anything unknown.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortPrice, SortRating, SortTitle:
		return SortField(s)
	default:
		return SortDefault
	}
}

// SortOrder is the direction of a sorted view.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder maps a raw string to a SortOrder, defaulting to ascending.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == OrderDesc {
		return OrderDesc
	}
	return OrderAsc
}

// Filters is the view specification applied to the current product list.
type Filters struct {
	// Category retains only matching products (case-insensitive) unless it is
	// empty or the "all" sentinel.
	Category string
	// SortField and SortOrder define the ordering; SortDefault preserves the
	// filtered input order.
	SortField SortField
	SortOrder SortOrder
	// PriceMin and PriceMax bound the price range, inclusive on both ends.
	// An absent product price is treated as zero.
	PriceMin decimal.Decimal
	PriceMax decimal.Decimal
}

// Apply filters and sorts products according to f, returning a new slice.
// The sort is stable: products with equal keys keep their filtered order, and
// a product whose sort key is absent goes last regardless of direction.
func Apply(products []product.Product, f Filters) []product.Product {
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if p.Price.LessThan(f.PriceMin) || p.Price.GreaterThan(f.PriceMax) {
			continue
		}
		if f.Category != "" && f.Category != category.All {
			if !strings.EqualFold(p.Category, f.Category) {
				continue
			}
		}
		out = append(out, p)
	}

	if f.SortField == SortDefault || f.SortField == "" {
		return out
	}

	desc := f.SortOrder == OrderDesc
	sort.SliceStable(out, func(i, j int) bool {
		c, iOK, jOK := compareField(out[i], out[j], f.SortField)
		if !iOK {
			return false // absent key sorts last either direction
		}
		if !jOK {
			return true
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compareField compares the chosen field of a and b. The boolean results
// report whether each side carries the field at all.
func compareField(a, b product.Product, field SortField) (cmp int, aOK, bOK bool) {
	switch field {
	case SortPrice:
		return a.Price.Cmp(b.Price), true, true
	case SortTitle:
		return strings.Compare(a.Title, b.Title), true, true
	case SortRating:
		if a.Rating == nil || b.Rating == nil {
			return 0, a.Rating != nil, b.Rating != nil
		}
		switch {
		case *a.Rating < *b.Rating:
			return -1, true, true
		case *a.Rating > *b.Rating:
			return 1, true, true
		default:
			return 0, true, true
		}
	default:
		return 0, true, true
	}
}
