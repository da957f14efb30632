package web

import (
	"net/http"

	"github.com/erazemk/milaap/internal/model"
	"github.com/erazemk/milaap/internal/portal"
)

// recentItems is how many latest found items the home page lists.
const recentItems = 6

// Home handles GET /. Signed-in users land on their role dashboard.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	if sess := GetSession(r.Context()); sess.LoggedIn() {
		http.Redirect(w, r, homePath(sess.Role()), http.StatusSeeOther)
		return
	}

	found, err := s.Svc.Search(r.Context(), model.KindFound, portal.SearchInput{})
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	if len(found) > recentItems {
		found = found[:recentItems]
	}

	s.render(w, r, "home", "pages.home", map[string]any{"found": found})
}

// CitizenDashboard handles GET /citizen.
func (s *Server) CitizenDashboard(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	stats, err := s.Svc.CitizenDashboard(r.Context(), actor)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	activity, err := s.Svc.RecentActivity(r.Context(), actor, 5)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "citizen_dashboard", "pages.dashboard", map[string]any{
		"stats":    stats,
		"activity": activity,
	})
}

// PoliceDashboard handles GET /police.
func (s *Server) PoliceDashboard(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	stats, err := s.Svc.PoliceDashboard(r.Context(), actor)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	pending, err := s.Svc.Claims(r.Context(), actor, model.ClaimStatusPending)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "police_dashboard", "pages.dashboard", map[string]any{
		"stats":   stats,
		"pending": pending,
	})
}

// AdminDashboard handles GET /admin.
func (s *Server) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	stats, err := s.Svc.AdminDashboard(r.Context(), actor)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	activity, err := s.Svc.RecentActivity(r.Context(), actor, 10)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "admin_dashboard", "pages.dashboard", map[string]any{
		"stats":    stats,
		"activity": activity,
	})
}

// NotificationsPage handles GET /notifications.
func (s *Server) NotificationsPage(w http.ResponseWriter, r *http.Request) {
	list, err := s.Svc.Notifications(r.Context(), GetSession(r.Context()).Actor(), r.FormValue("unread") == "1")
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	s.render(w, r, "notifications", "pages.notifications", list)
}

// NotificationsSubmit handles POST /notifications.
func (s *Server) NotificationsSubmit(w http.ResponseWriter, r *http.Request) {
	actor := GetSession(r.Context()).Actor()
	switch r.FormValue("action") {
	case "read_all":
		if err := s.Svc.MarkAllNotificationsRead(r.Context(), actor); err != nil {
			s.fail(w, r, err, "/notifications")
			return
		}
		s.done(w, r, "success.notifications_read", "/notifications")
	default:
		if err := s.Svc.MarkNotificationRead(r.Context(), actor, formID(r, "id")); err != nil {
			s.fail(w, r, err, "/notifications")
			return
		}
		s.done(w, r, "success.notification_read", "/notifications")
	}
}
