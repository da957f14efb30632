package api

import (
	"net/http"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// MatchesHandler handles police matching endpoints.
type MatchesHandler struct {
	Svc *portal.Service
}

type matchRequest struct {
	AnchorKind  model.ItemKind `json:"anchor_kind"`
	AnchorID    int64          `json:"anchor_id"`
	CandidateID int64          `json:"candidate_id"`
	Notes       string         `json:"notes"`
}

// Create handles POST /api/matches.
func (h *MatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	m, err := h.Svc.CreateMatch(r.Context(), actor(r), portal.MatchInput(req))
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusCreated, m)
}

// List handles GET /api/matches. With mine=1 only the caller's matches are
// listed.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Svc.Matches(r.Context(), actor(r), r.URL.Query().Get("mine") == "1")
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(matches))
}
