package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/internal/view"
)

// DefaultPriceMax bounds the price filter when no upper bound is given.
var DefaultPriceMax = decimal.NewFromInt(1_000_000)

// listResponse is the payload for list and view requests.
type listResponse struct {
	Products []product.Product `json:"products"`
	Total    int               `json:"total"`
	Skip     int               `json:"skip"`
	Limit    int               `json:"limit"`
	HasMore  bool              `json:"hasMore"`
	Status   store.Status      `json:"status"`
}

// listProducts triggers a fetch intent against the remote catalog and
// responds with the merged store state. skip=0 starts a fresh page sequence,
// skip>0 appends a continuation.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := product.ListParams{
		Limit:    h.cfg.PageLimit,
		Category: q.Get("category"),
		Query:    q.Get("q"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, r, "limit must be a positive integer")
			return
		}
		if n > 100 {
			n = 100
		}
		params.Limit = n
	}
	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, r, "skip must be a non-negative integer")
			return
		}
		params.Skip = n
	}

	if err := h.products.FetchPage(r.Context(), params); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, listResponse{
		Products: h.products.List(),
		Total:    h.products.Total(),
		Skip:     params.Skip,
		Limit:    params.Limit,
		HasMore:  h.products.HasMore(),
		Status:   h.products.Status(),
	})
}

// viewProducts derives a filtered/sorted view over the current store without
// touching the network.
func (h *Handler) viewProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := view.Filters{
		Category:  q.Get("category"),
		SortField: view.ParseSortField(q.Get("sort")),
		SortOrder: view.ParseSortOrder(q.Get("order")),
		PriceMin:  decimal.Zero,
		PriceMax:  DefaultPriceMax,
	}
	if v := q.Get("priceMin"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(w, r, "priceMin must be a number")
			return
		}
		f.PriceMin = d
	}
	if v := q.Get("priceMax"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(w, r, "priceMax must be a number")
			return
		}
		f.PriceMax = d
	}

	products := view.Apply(h.products.List(), f)
	respondJSON(w, r, http.StatusOK, map[string]any{
		"products": products,
		"count":    len(products),
	})
}

// getProduct serves a single product, fetching it from the catalog when the
// store does not hold it yet. While a fetch is already in flight the request
// is not re-issued; the client is told to retry.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if p, ok := h.products.Get(id); ok {
		respondJSON(w, r, http.StatusOK, p)
		return
	}
	if h.products.Status() == store.StatusLoading {
		respondJSON(w, r, http.StatusAccepted, map[string]any{"status": store.StatusLoading})
		return
	}

	p, err := h.products.FetchByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, p)
}

// createProduct synthesizes an optimistic local record. No catalog call is
// made: the remote catalog acknowledges creates without persisting them, so
// the local record is the permanent representation.
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var d product.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		badRequest(w, r, "invalid product payload")
		return
	}

	p := h.products.Create(d)
	respondJSON(w, r, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var d product.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		badRequest(w, r, "invalid product payload")
		return
	}

	p, err := h.products.Update(r.Context(), id, d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// pathID parses the {id} path segment. Negative values are valid: they name
// local-origin records.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		badRequest(w, r, "id must be an integer")
		return 0, false
	}
	return id, true
}
