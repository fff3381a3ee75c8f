package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/product"
)

// errorBody is the uniform error envelope for all API failures.
type errorBody struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

// respondError maps an operation failure to an HTTP response. Local
// invariant violations map to 404, remote-reported failures keep their
// catalog status, and transport failures surface as 502.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, product.ErrNotFound) {
		respondJSON(w, r, http.StatusNotFound, errorBody{
			Status:  http.StatusNotFound,
			Message: "product not found",
		})
		return
	}

	var ce *catalog.Error
	if errors.As(err, &ce) {
		code := ce.Status
		if code < 400 || code > 599 {
			code = http.StatusBadGateway
		}
		respondJSON(w, r, code, errorBody{
			Status:  code,
			Message: ce.Message,
			Data:    ce.Body,
		})
		return
	}

	zctx.From(r.Context()).Error("internal error", zap.Error(err))
	respondJSON(w, r, http.StatusInternalServerError, errorBody{
		Status:  http.StatusInternalServerError,
		Message: "internal error",
	})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	respondJSON(w, r, http.StatusBadRequest, errorBody{
		Status:  http.StatusBadRequest,
		Message: msg,
	})
}
