package api

import (
	"net/http"

	"github.com/erazemk/milaap/internal/portal"
)

// CatalogHandler serves the public category, location and station lists.
type CatalogHandler struct {
	Svc *portal.Service
}

// Categories handles GET /api/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.Categories(r.Context(), nil)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}

// Locations handles GET /api/locations.
func (h *CatalogHandler) Locations(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.Locations(r.Context(), nil)
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}

// Stations handles GET /api/stations.
func (h *CatalogHandler) Stations(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.Stations(r.Context())
	if err != nil {
		portalError(w, r, h.Svc.Text, err)
		return
	}
	jsonResponse(w, http.StatusOK, emptyIfNil(list))
}
