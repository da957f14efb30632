package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/milaap/internal/imaging"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// maxFormSize bounds a report form including its photo.
const maxFormSize = imaging.MaxUploadSize + 1<<20

// reportForm reads a report form. The returned closer releases the uploaded
// file, if any.
func reportForm(r *http.Request, kind model.ItemKind) (portal.ReportInput, io.Closer, error) {
	in := portal.ReportInput{Kind: kind}
	if err := r.ParseMultipartForm(maxFormSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return in, nil, err
	}

	in.CategoryID = formID(r, "category_id")
	in.LocationID = formID(r, "location_id")
	in.Name = r.FormValue("item_name")
	in.Description = r.FormValue("description")
	in.Date = r.FormValue("date")
	in.ContactInfo = r.FormValue("contact_info")
	in.CustodyRef = r.FormValue("custody_ref")

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nil, nil
	case err != nil:
		return in, nil, err
	}
	if header.Size > 0 {
		in.Image = file
	}
	return in, file, nil
}

// submitReport saves a report form and redirects to done on success.
func (s *Server) submitReport(w http.ResponseWriter, r *http.Request, kind model.ItemKind, back, successKey, target string) {
	in, file, err := reportForm(r, kind)
	if err != nil {
		slog.Warn("failed to parse report form", "error", err)
		setFlash(w, flashError, "errors.image_too_large")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if file != nil {
		defer file.Close()
	}

	if _, err := s.Svc.SubmitReport(r.Context(), GetSession(r.Context()).Actor(), in); err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.done(w, r, successKey, target)
}

// catalogData loads the active categories and locations for a form.
func (s *Server) catalogData(r *http.Request) (map[string]any, error) {
	actor := GetSession(r.Context()).Actor()
	categories, err := s.Svc.Categories(r.Context(), actor)
	if err != nil {
		return nil, err
	}
	locations, err := s.Svc.Locations(r.Context(), actor)
	if err != nil {
		return nil, err
	}
	return map[string]any{"categories": categories, "locations": locations}, nil
}

// ReportPage handles GET /citizen/report/{kind}.
func (s *Server) ReportPage(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	data, err := s.catalogData(r)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	data["kind"] = kind
	s.render(w, r, "report_form", "pages.report_"+string(kind), data)
}

// ReportSubmit handles POST /citizen/report/{kind}.
func (s *Server) ReportSubmit(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	s.submitReport(w, r, kind, r.URL.Path, "success.report_submitted", "/citizen/reports")
}

// MyReportsPage handles GET /citizen/reports.
func (s *Server) MyReportsPage(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	lost, err := s.Svc.MyReports(r.Context(), actor, model.KindLost)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	found, err := s.Svc.MyReports(r.Context(), actor, model.KindFound)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "my_reports", "pages.my_reports", map[string]any{"lost": lost, "found": found})
}

// ReportDetailPage handles GET /citizen/reports/{kind}/{id}: one of the
// citizen's reports with the police matches recorded for it.
func (s *Server) ReportDetailPage(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	actor := GetSession(r.Context()).Actor()

	matches, err := s.Svc.ReportMatches(r.Context(), actor, kind, id)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	item, err := s.Svc.Report(r.Context(), actor, kind, id)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "report_detail", "pages.report_detail", map[string]any{
		"kind": kind, "item": item, "matches": matches,
	})
}

// SearchPage handles GET /search/{kind}. Citizens also see which found
// items they already claimed.
func (s *Server) SearchPage(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	in := portal.SearchInput{
		Query:      r.FormValue("q"),
		CategoryID: formID(r, "category"),
		LocationID: formID(r, "location"),
	}
	results, err := s.Svc.Search(r.Context(), kind, in)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	data, err := s.catalogData(r)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}

	claimed := map[int64]bool{}
	if sess := GetSession(r.Context()); kind == model.KindFound && sess.Role() == model.RoleCitizen {
		ids, err := s.Svc.ClaimedFoundItemIDs(r.Context(), sess.Actor())
		if err != nil {
			s.loadFailed(w, r, err)
			return
		}
		for _, id := range ids {
			claimed[id] = true
		}
	}

	data["kind"] = kind
	data["query"] = in
	data["results"] = results
	data["claimed"] = claimed
	s.render(w, r, "search", "pages.search_"+string(kind), data)
}

// ClaimsPage handles GET /citizen/claims. With ?found=<id> it also shows the
// claim form for that item and the citizen's lost reports to link.
func (s *Server) ClaimsPage(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	claims, err := s.Svc.Claims(r.Context(), actor, "")
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	data := map[string]any{"claims": claims}

	if id := formID(r, "found"); id > 0 {
		item, err := s.Svc.Report(r.Context(), actor, model.KindFound, id)
		if err != nil {
			s.loadFailed(w, r, err)
			return
		}
		lost, err := s.Svc.MyReports(r.Context(), actor, model.KindLost)
		if err != nil {
			s.loadFailed(w, r, err)
			return
		}
		data["item"] = item
		data["lost"] = lost
	}

	s.render(w, r, "my_claims", "pages.my_claims", data)
}

// ClaimsSubmit handles POST /citizen/claims: submitting a claim or
// confirming a collection.
func (s *Server) ClaimsSubmit(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	const back = "/citizen/claims"

	switch r.FormValue("action") {
	case "confirm":
		if _, err := s.Svc.ConfirmCollection(r.Context(), actor, formID(r, "claim_id")); err != nil {
			s.fail(w, r, err, back)
			return
		}
		s.done(w, r, "success.collection_confirmed", back)
	default:
		in := portal.ClaimInput{
			FoundItemID: formID(r, "found_item_id"),
			Reason:      r.FormValue("claim_reason"),
			Proof:       r.FormValue("proof_description"),
		}
		if id := formID(r, "lost_item_id"); id > 0 {
			in.LostItemID = &id
		}
		if _, err := s.Svc.SubmitClaim(r.Context(), actor, in); err != nil {
			s.fail(w, r, err, back)
			return
		}
		s.done(w, r, "success.claim_submitted", back)
	}
}
