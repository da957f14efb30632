package web

import (
	"net/http"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// ReviewClaimsPage handles GET /police/claims. The status filter defaults to
// pending claims; "all" lists every claim and "handover" the approved claims
// not yet collected. ?found=ID lists the claims on one found item.
func (s *Server) ReviewClaimsPage(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	status := r.FormValue("status")

	var claims []model.Claim
	var err error
	switch found := formID(r, "found"); {
	case found != 0:
		status = ""
		claims, err = s.Svc.ItemClaims(r.Context(), actor, found)
	case status == "handover":
		claims, err = s.Svc.AwaitingHandover(r.Context(), actor)
	case status == "all":
		status = ""
		claims, err = s.Svc.Claims(r.Context(), actor, "")
	default:
		if status == "" {
			status = model.ClaimStatusPending
		}
		claims, err = s.Svc.Claims(r.Context(), actor, status)
	}
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "review_claims", "pages.review_claims", map[string]any{"status": status, "claims": claims})
}

// ReviewClaimsSubmit handles POST /police/claims: approving, rejecting or
// handing over a claimed item.
func (s *Server) ReviewClaimsSubmit(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	id := formID(r, "claim_id")
	back := localPath(r.FormValue("return"), "/police/claims")

	action := r.FormValue("action")
	if action == "collected" {
		if _, err := s.Svc.MarkCollected(r.Context(), actor, id); err != nil {
			s.fail(w, r, err, back)
			return
		}
		s.done(w, r, "success.item_collected", back)
		return
	}

	decision, ok := model.ParseDecision(action)
	if !ok {
		setFlash(w, flashError, "errors.invalid_decision")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if _, err := s.Svc.ReviewClaim(r.Context(), actor, id, decision, r.FormValue("notes")); err != nil {
		s.fail(w, r, err, back)
		return
	}
	if decision == model.DecisionApprove {
		s.done(w, r, "success.claim_approved", back)
		return
	}
	s.done(w, r, "success.claim_rejected", back)
}

// CustodyPage handles GET /police/custody.
func (s *Server) CustodyPage(w http.ResponseWriter, r *http.Request) {
	items, err := s.Svc.CustodyItems(r.Context(), GetSession(r.Context()).Actor())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	data, err := s.catalogData(r)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	data["items"] = items
	s.render(w, r, "custody", "pages.custody", data)
}

// CustodySubmit handles POST /police/custody.
func (s *Server) CustodySubmit(w http.ResponseWriter, r *http.Request) {
	s.submitReport(w, r, model.KindFound, "/police/custody", "success.custody_uploaded", "/police/custody")
}

// BrowsePage handles GET /police/reports/{kind}.
func (s *Server) BrowsePage(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	items, err := s.Svc.BrowseReports(r.Context(), GetSession(r.Context()).Actor(), kind, r.FormValue("status"))
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "browse", "pages.browse_"+string(kind), map[string]any{
		"kind":   kind,
		"status": r.FormValue("status"),
		"items":  items,
	})
}

// MatchPage handles GET /police/match. Selecting an approved report with
// ?kind=<kind>&id=<id> lists its candidates of the opposite kind.
func (s *Server) MatchPage(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	lost, err := s.Svc.BrowseReports(r.Context(), actor, model.KindLost, model.ItemStatusApproved)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	found, err := s.Svc.BrowseReports(r.Context(), actor, model.KindFound, model.ItemStatusApproved)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	matches, err := s.Svc.Matches(r.Context(), actor, false)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	data := map[string]any{"lost": lost, "found": found, "matches": matches}

	if kind, ok := model.ParseItemKind(r.FormValue("kind")); ok {
		anchor, err := s.Svc.Report(r.Context(), actor, kind, formID(r, "id"))
		if err != nil {
			s.loadFailed(w, r, err)
			return
		}
		candidates, err := s.Svc.MatchCandidates(r.Context(), actor, kind, anchor.ID)
		if err != nil {
			s.loadFailed(w, r, err)
			return
		}
		data["anchor"] = anchor
		data["candidates"] = candidates
	}

	s.render(w, r, "match", "pages.match", data)
}

// MatchSubmit handles POST /police/match.
func (s *Server) MatchSubmit(w http.ResponseWriter, r *http.Request) {
	kind, _ := model.ParseItemKind(r.FormValue("anchor_kind"))
	in := portal.MatchInput{
		AnchorKind:  kind,
		AnchorID:    formID(r, "anchor_id"),
		CandidateID: formID(r, "candidate_id"),
		Notes:       r.FormValue("notes"),
	}
	if _, err := s.Svc.CreateMatch(r.Context(), GetSession(r.Context()).Actor(), in); err != nil {
		s.fail(w, r, err, "/police/match")
		return
	}
	s.done(w, r, "success.match_created", "/police/match")
}
