package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/milaap/internal/imaging"
	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// ReportsHandler handles lost and found report endpoints.
type ReportsHandler struct {
	Svc *portal.Service
}

type reportRequest struct {
	CategoryID  int64  `json:"category_id"`
	LocationID  int64  `json:"location_id"`
	Name        string `json:"item_name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	ContactInfo string `json:"contact_info"`
	CustodyRef  string `json:"custody_ref"`
}

type reviewRequest struct {
	Decision model.Decision `json:"decision"`
	Reason   string         `json:"reason"`
	Notes    string         `json:"notes"`
}

func pathKind(w http.ResponseWriter, r *http.Request) (model.ItemKind, bool) {
	kind, ok := model.ParseItemKind(r.PathValue("kind"))
	if !ok {
		jsonError(w, http.StatusNotFound, "unknown report kind")
	}
	return kind, ok
}

// List handles GET /api/reports/{kind}. Anonymous callers search approved
// reports; scope=mine lists the caller's own and status= browses for police
// and administrators.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	var (
		items []model.Item
		err   error
	)
	switch {
	case q.Get("scope") == "mine":
		items, err = h.Svc.MyReports(r.Context(), actor(r), kind)
	case q.Get("scope") == "custody":
		items, err = h.Svc.CustodyItems(r.Context(), actor(r))
	case q.Has("status"):
		items, err = h.Svc.BrowseReports(r.Context(), actor(r), kind, q.Get("status"))
	default:
		items, err = h.Svc.Search(r.Context(), kind, portal.SearchInput{
			Query:      q.Get("q"),
			CategoryID: queryID(r, "category"),
			LocationID: queryID(r, "location"),
		})
	}
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(items))
}

// Get handles GET /api/reports/{kind}/{id}.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	item, err := h.Svc.Report(r.Context(), actor(r), kind, id)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/reports/{kind}. It accepts a JSON body or a
// multipart form with an optional "image" file.
func (h *ReportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}

	var req reportRequest
	var image io.Reader
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)
		if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
			jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
			return
		}
		req.CategoryID, _ = strconv.ParseInt(r.FormValue("category_id"), 10, 64)
		req.LocationID, _ = strconv.ParseInt(r.FormValue("location_id"), 10, 64)
		req.Name = r.FormValue("item_name")
		req.Description = r.FormValue("description")
		req.Date = r.FormValue("date")
		req.ContactInfo = r.FormValue("contact_info")
		req.CustodyRef = r.FormValue("custody_ref")

		if file, _, err := r.FormFile("image"); err == nil {
			defer file.Close()
			image = file
		}
	} else if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Svc.SubmitReport(r.Context(), actor(r), portal.ReportInput{
		Kind:        kind,
		CategoryID:  req.CategoryID,
		LocationID:  req.LocationID,
		Name:        req.Name,
		Description: req.Description,
		Date:        req.Date,
		ContactInfo: req.ContactInfo,
		CustodyRef:  req.CustodyRef,
		Image:       image,
	})
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Review handles POST /api/reports/{kind}/{id}/review.
func (h *ReportsHandler) Review(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Svc.ReviewReport(r.Context(), actor(r), kind, id, req.Decision, req.Reason)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Candidates handles GET /api/reports/{kind}/{id}/candidates.
func (h *ReportsHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid report id")
		return
	}
	items, err := h.Svc.MatchCandidates(r.Context(), actor(r), kind, id)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(items))
}
