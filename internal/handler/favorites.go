package handler

import (
	"encoding/json"
	"net/http"

	"github.com/xenking/storefront/internal/domain/product"
)

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favorites := h.favorites.List()
	respondJSON(w, r, http.StatusOK, map[string]any{
		"favorites": favorites,
		"count":     len(favorites),
	})
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	h.favorites.Add(p)
	respondJSON(w, r, http.StatusOK, map[string]any{"id": p.ID, "favorited": true})
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	favorited := h.favorites.Toggle(p)
	respondJSON(w, r, http.StatusOK, map[string]any{"id": p.ID, "favorited": favorited})
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.favorites.Remove(id)
	respondJSON(w, r, http.StatusOK, map[string]any{"id": id, "favorited": false})
}

func (h *Handler) clearFavorites(w http.ResponseWriter, r *http.Request) {
	h.favorites.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// decodeProduct reads a full product snapshot from the request body. The
// favorites store keeps the snapshot as-is, so the client sends the record it
// wants retained.
func decodeProduct(w http.ResponseWriter, r *http.Request) (product.Product, bool) {
	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		badRequest(w, r, "invalid product payload")
		return product.Product{}, false
	}
	if p.ID == 0 {
		badRequest(w, r, "product id is required")
		return product.Product{}, false
	}
	return p, true
}
