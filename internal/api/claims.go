package api

import (
	"net/http"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// ClaimsHandler handles the claim lifecycle endpoints.
type ClaimsHandler struct {
	Svc *portal.Service
}

type claimRequest struct {
	FoundItemID int64  `json:"found_item_id"`
	LostItemID  *int64 `json:"lost_item_id"`
	Reason      string `json:"claim_reason"`
	Proof       string `json:"proof_description"`
}

// Create handles POST /api/claims.
func (h *ClaimsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claim, err := h.Svc.SubmitClaim(r.Context(), actor(r), portal.ClaimInput(req))
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusCreated, claim)
}

// List handles GET /api/claims.
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Svc.Claims(r.Context(), actor(r), r.URL.Query().Get("status"))
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(claims))
}

// Get handles GET /api/claims/{id}.
func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withClaim(w, r, func(id int64) (*model.Claim, error) {
		return h.Svc.Claim(r.Context(), actor(r), id)
	})
}

// Review handles POST /api/claims/{id}/review.
func (h *ClaimsHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	notes := req.Notes
	if notes == "" {
		notes = req.Reason
	}
	h.withClaim(w, r, func(id int64) (*model.Claim, error) {
		return h.Svc.ReviewClaim(r.Context(), actor(r), id, req.Decision, notes)
	})
}

// Collected handles POST /api/claims/{id}/collected.
func (h *ClaimsHandler) Collected(w http.ResponseWriter, r *http.Request) {
	h.withClaim(w, r, func(id int64) (*model.Claim, error) {
		return h.Svc.MarkCollected(r.Context(), actor(r), id)
	})
}

// Confirm handles POST /api/claims/{id}/confirm.
func (h *ClaimsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.withClaim(w, r, func(id int64) (*model.Claim, error) {
		return h.Svc.ConfirmCollection(r.Context(), actor(r), id)
	})
}

// withClaim parses the claim id, runs fn and writes the resulting claim.
func (h *ClaimsHandler) withClaim(w http.ResponseWriter, r *http.Request, fn func(id int64) (*model.Claim, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}
	claim, err := fn(id)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, claim)
}
