package web

import (
	"net/http"
	"strings"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
	"github.com/erazemk/milaap/internal/store"
)

// activityPageSize is how many entries the activity log page shows.
const activityPageSize = 100

// ApproveReportsPage handles GET /admin/reports/{kind}. The status filter
// defaults to pending reports.
func (s *Server) ApproveReportsPage(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	status := r.FormValue("status")
	if status == "" {
		status = model.ItemStatusPending
	}
	items, err := s.Svc.BrowseReports(r.Context(), GetSession(r.Context()).Actor(), kind, status)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "approve_reports", "pages.approve_"+string(kind), map[string]any{
		"kind":   kind,
		"status": status,
		"items":  items,
	})
}

// ApproveReportsSubmit handles POST /admin/reports/{kind}.
func (s *Server) ApproveReportsSubmit(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	back := r.URL.Path

	decision, ok := model.ParseDecision(r.FormValue("action"))
	if !ok {
		setFlash(w, flashError, "errors.invalid_decision")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	_, err := s.Svc.ReviewReport(r.Context(), GetSession(r.Context()).Actor(), kind, formID(r, "id"), decision, r.FormValue("reason"))
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	if decision == model.DecisionApprove {
		s.done(w, r, "success.report_approved", back)
		return
	}
	s.done(w, r, "success.report_rejected", back)
}

// AccountsPage handles GET /admin/accounts.
func (s *Server) AccountsPage(w http.ResponseWriter, r *http.Request) {
	f := store.AccountFilter{
		Role:   model.RoleCitizen,
		Status: r.FormValue("status"),
		Query:  strings.TrimSpace(r.FormValue("q")),
	}
	if role, ok := model.ParseRole(r.FormValue("role")); ok {
		f.Role = role
	}
	accounts, err := s.Svc.Accounts(r.Context(), GetSession(r.Context()).Actor(), f)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "accounts", "pages.accounts", map[string]any{"filter": f, "accounts": accounts})
}

// AccountsSubmit handles POST /admin/accounts: activating or deactivating an
// account.
func (s *Server) AccountsSubmit(w http.ResponseWriter, r *http.Request) {
	back := localPath(r.FormValue("return"), "/admin/accounts")
	err := s.Svc.SetAccountStatus(r.Context(), GetSession(r.Context()).Actor(), formID(r, "account_id"), r.FormValue("status"))
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.done(w, r, "success.status_updated", back)
}

// PolicePage handles GET /admin/police.
func (s *Server) PolicePage(w http.ResponseWriter, r *http.Request) {
	officers, err := s.Svc.Accounts(r.Context(), GetSession(r.Context()).Actor(), store.AccountFilter{Role: model.RolePolice})
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	stations, err := s.Svc.Stations(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "police_accounts", "pages.police_accounts", map[string]any{"officers": officers, "stations": stations})
}

// PoliceSubmit handles POST /admin/police: creating an officer, or updating
// one when an id is given.
func (s *Server) PoliceSubmit(w http.ResponseWriter, r *http.Request) {
	const back = "/admin/police"
	actor := GetSession(r.Context()).Actor()
	in := portal.PoliceInput{
		Name:        r.FormValue("name"),
		BadgeNumber: r.FormValue("badge_number"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		StationID:   formID(r, "station_id"),
		Rank:        r.FormValue("rank"),
		Password:    r.FormValue("password"),
	}

	var err error
	if id := formID(r, "id"); id > 0 {
		_, err = s.Svc.UpdatePolice(r.Context(), actor, id, in)
	} else {
		_, err = s.Svc.CreatePolice(r.Context(), actor, in)
	}
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.done(w, r, "success.saved", back)
}

// CategoriesPage handles GET /admin/categories.
func (s *Server) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Svc.Categories(r.Context(), GetSession(r.Context()).Actor())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "categories", "pages.categories", categories)
}

// CategoriesSubmit handles POST /admin/categories: saving or deleting a
// category.
func (s *Server) CategoriesSubmit(w http.ResponseWriter, r *http.Request) {
	const back = "/admin/categories"
	actor := GetSession(r.Context()).Actor()
	id := formID(r, "id")

	if r.FormValue("action") == "delete" {
		if err := s.Svc.DeleteCategory(r.Context(), actor, id); err != nil {
			s.fail(w, r, err, back)
			return
		}
		s.done(w, r, "success.deleted", back)
		return
	}

	_, err := s.Svc.SaveCategory(r.Context(), actor, id, r.FormValue("name"), r.FormValue("description"), r.FormValue("status"))
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.done(w, r, "success.saved", back)
}

// LocationsPage handles GET /admin/locations.
func (s *Server) LocationsPage(w http.ResponseWriter, r *http.Request) {
	locations, err := s.Svc.Locations(r.Context(), GetSession(r.Context()).Actor())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "locations", "pages.locations", locations)
}

// LocationsSubmit handles POST /admin/locations: adding a location or
// changing its status.
func (s *Server) LocationsSubmit(w http.ResponseWriter, r *http.Request) {
	const back = "/admin/locations"
	actor := GetSession(r.Context()).Actor()

	if r.FormValue("action") == "status" {
		if err := s.Svc.SetLocationStatus(r.Context(), actor, formID(r, "id"), r.FormValue("status")); err != nil {
			s.fail(w, r, err, back)
			return
		}
		s.done(w, r, "success.status_updated", back)
		return
	}

	if _, err := s.Svc.AddLocation(r.Context(), actor, r.FormValue("name")); err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.done(w, r, "success.saved", back)
}

// StationsPage handles GET /admin/stations.
func (s *Server) StationsPage(w http.ResponseWriter, r *http.Request) {
	stations, err := s.Svc.Stations(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "stations", "pages.stations", stations)
}

// StationsSubmit handles POST /admin/stations.
func (s *Server) StationsSubmit(w http.ResponseWriter, r *http.Request) {
	const back = "/admin/stations"
	_, err := s.Svc.AddStation(r.Context(), GetSession(r.Context()).Actor(),
		r.FormValue("name"), r.FormValue("address"), r.FormValue("contact"))
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.done(w, r, "success.saved", back)
}

// SettingsPage handles GET /admin/settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Svc.Settings(r.Context())
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "settings", "pages.settings", settings)
}

// SettingsSubmit handles POST /admin/settings.
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	const back = "/admin/settings"
	err := s.Svc.UpdateSettings(r.Context(), GetSession(r.Context()).Actor(), portal.Settings{
		SiteName:     r.FormValue("site_name"),
		ContactEmail: r.FormValue("contact_email"),
	})
	if err != nil {
		s.fail(w, r, err, back)
		return
	}
	s.done(w, r, "success.saved", back)
}

// ActivityPage handles GET /admin/activity.
func (s *Server) ActivityPage(w http.ResponseWriter, r *http.Request) {
	activity, err := s.Svc.RecentActivity(r.Context(), GetSession(r.Context()).Actor(), activityPageSize)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "activity", "pages.activity", activity)
}
