package handler

import (
	"encoding/json"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login performs the authentication handshake against the catalog. An empty
// body falls back to the configured demo credentials; the catalog's session
// token is passed through as-is.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if r.Body != nil {
		// An empty or absent body is fine, that's the demo login.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Username == "" {
		req.Username = h.cfg.DemoUsername
		req.Password = h.cfg.DemoPassword
	}

	session, err := h.catalog.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}
