package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/category"
)

// listCategories serves the normalized category options. Categories are
// non-critical, best-effort metadata: an upstream failure degrades to an
// empty list instead of an error response.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	opts, err := h.catalog.Categories(r.Context())
	if err != nil {
		zctx.From(r.Context()).Warn("fetch categories", zap.Error(err))
		opts = nil
	}

	for i, o := range opts {
		// Plain-string categories arrive as raw slugs; give them a readable
		// display label. Object categories already carry one.
		if o.Label == o.Value {
			opts[i].Label = category.FormatLabel(o.Label)
		}
	}
	if opts == nil {
		opts = []category.Option{}
	}
	respondJSON(w, r, http.StatusOK, opts)
}
